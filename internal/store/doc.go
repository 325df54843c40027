// Package store defines the persistence interfaces the rest of the
// application depends on, together with common error sentinels and the
// transaction helper. Concrete implementations live under
// internal/platform/postgres; tests use in-memory fakes from internal/mocks.
//
// Every task and conversation operation takes the owner identity and is
// implemented owner-scoped: a row belonging to another owner is reported as
// absent, never as forbidden, so callers cannot distinguish "not yours" from
// "never existed".
package store
