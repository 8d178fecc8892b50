// Package store defines the persistence interfaces consumed by the service
// layer, together with the sentinel errors and transaction helpers shared by
// their implementations. The PostgreSQL implementations live in
// internal/platform/postgres.
package store
