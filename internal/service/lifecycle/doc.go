// Package lifecycle consumes task lifecycle events delivered by the broker.
// Every event gets an audit log line; completing a recurring task spawns the
// next instance of it. Delivery is at-least-once, so handlers tolerate
// duplicate events rather than assuming exactly-once semantics.
package lifecycle
