// Package postgres provides PostgreSQL implementations of the store
// interfaces. All stores accept a store.DBTX so they can run against either a
// *sql.DB or an open transaction, and every database error is passed through
// MapError before it leaves the package.
package postgres
