// Package reminder fires due task reminders. Two trigger strategies feed the
// same ProcessDue pass: a periodic in-process poller (or the Dapr cron
// binding hitting the trigger endpoint), and one-shot scheduled jobs per
// reminder. Strategy selection happens at startup via configuration.
package reminder
