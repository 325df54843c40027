// Package events defines the event schemas the service publishes to the
// message broker and the Publisher interface it publishes them through.
//
// Publishing is strictly best-effort: the Publisher reports success as a
// bool and never returns an error, so a dead broker degrades event delivery
// without failing the task operation that triggered it. Consumers must treat
// delivery as at-least-once and deduplicate on the event ID.
package events
