// Package pagination implements page-number pagination with case-insensitive
// substring search.
//
// Callers supply two functions: one counting the items matching a search
// term and one fetching a window of them. Paginate validates the request
// against the count, so a page past the end is reported as ErrPageNotFound
// before any rows are fetched.
package pagination
