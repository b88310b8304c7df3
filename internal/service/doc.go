// Package service contains the application use cases of the task tracker.
//
// UserService handles registration, login, token refresh and profile
// listing; TaskService handles task CRUD and listing. Services own business
// rules and transaction boundaries and depend only on the store interfaces,
// never on a specific database.
//
// Expected failures are reported as sentinel errors (store.ErrTaskNotFound,
// pagination.ErrPageNotFound, ErrInvalidCredentials) or *domain.ValidationError
// values; anything else is wrapped in a *ServiceError and treated by the API
// layer as an internal fault.
package service
