// Package postgres provides the PostgreSQL implementations of the store
// interfaces, together with the goose migrations that define the schema.
//
// Stores run their queries through store.DBTX, so the same code works on a
// *sql.DB or inside a transaction obtained with WithTx. Driver errors are
// translated into store sentinel errors by MapError; constraint names from
// the migrations decide which sentinel applies.
package postgres
