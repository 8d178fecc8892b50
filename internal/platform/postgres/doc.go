// Package postgres provides PostgreSQL-backed implementations of the
// persistence interfaces defined in internal/store. All implementations use
// database/sql over the pgx stdlib driver and accept either a *sql.DB or a
// *sql.Tx through the store.DBTX interface.
package postgres
