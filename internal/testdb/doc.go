// Package testdb provides helpers for PostgreSQL integration tests.
//
// Tests using it are compiled only with the "integration" build tag and are
// skipped when DATABASE_URL is unset:
//
//	DATABASE_URL=postgres://... go test -tags=integration ./...
//
// GetTestDBWithT opens a connection and migrates the schema once per test
// binary. WithTx runs each test inside a transaction that is always rolled
// back, so tests can run in parallel against the same database.
package testdb
