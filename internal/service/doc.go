// Package service provides the application-level services: task management
// with event publishing, and the chat service that drives the conversational
// agent against stored conversation history.
//
// Error handling follows one rule throughout: persistence failures are
// returned to the caller, event publishing and reminder job maintenance are
// best-effort and only logged. A dead broker or sidecar degrades the
// event-driven features, never the task operation itself.
package service
