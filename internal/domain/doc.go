// Package domain defines the core business entities of the todo backend:
// tasks with priorities, recurrence and reminders, tags, and the
// conversation/message log the chat agent reasons over. Entities validate
// themselves; persistence and transport concerns live elsewhere.
package domain
