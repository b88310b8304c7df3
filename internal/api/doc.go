// Package api handles incoming HTTP requests: it binds and validates request
// parameters, calls the user and task services, and writes the JSON envelope
// {status, message, data|errors} for every outcome.
package api
