// Package store defines the persistence contracts of the task tracker.
//
// UserStore and TaskStore abstract the database from the services; the
// PostgreSQL implementations live in internal/platform/postgres. Stores
// report failures through the sentinel errors declared here, so callers never
// inspect driver errors. Multi-step operations run inside a transaction
// obtained from a Transactor and rebind each store with WithTx.
package store
