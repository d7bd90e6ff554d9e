package services

import (
	"errors"
	"fmt"

	"expensetracker/internal/core"
)

// taxonomy lists every failure kind a service may return as-is.
// Anything else coming out of the persistence layer is reported as
// core.ErrStoreUnavailable with the underlying diagnostic attached.
var taxonomy = []error{
	core.ErrInvalidCredentials,
	core.ErrEmptyInput,
	core.ErrMissingField,
	core.ErrDuplicateUsername,
	core.ErrInvalidAmount,
	core.ErrUnknownUser,
	core.ErrExpenseNotFound,
}

func storeErr(err error) error {
	if err == nil {
		return nil
	}
	for _, known := range taxonomy {
		if errors.Is(err, known) {
			return err
		}
	}
	return fmt.Errorf("%w: %v", core.ErrStoreUnavailable, err)
}
