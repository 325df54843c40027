// Package gemini implements the agent.CompletionProvider interface on top of
// Google's Gemini API, using native function calling for the tool catalogue.
package gemini
