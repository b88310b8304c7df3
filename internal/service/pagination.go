package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/pagination"
)

// normalizePage applies the page size bounds, reporting a bad page size as a
// validation error on the page_size parameter.
func normalizePage(cfg pagination.Config, req pagination.Request) (pagination.Request, error) {
	normalized, err := cfg.Normalize(req)
	if err != nil {
		if errors.Is(err, pagination.ErrInvalidPageSize) {
			maxSize := cfg.MaxPageSize
			if maxSize <= 0 {
				maxSize = pagination.MaxPageSize
			}
			return req, domain.NewValidationError("page_size",
				fmt.Sprintf("Ensure this value is between 1 and %d.", maxSize), err)
		}
		return req, err
	}
	return normalized, nil
}
