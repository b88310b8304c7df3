// Package domain contains the core business entities of the task tracker:
// users, tasks and the partial-update type used to modify tasks. It is
// independent of any specific infrastructure or delivery mechanism.
//
// Validation failures are reported as *ValidationError values naming the
// offending field with the same names the HTTP API uses, so handlers can
// return them to clients unchanged.
package domain
