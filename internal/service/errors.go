package service

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidQuantity    = errors.New("invalid quantity")
	ErrMissingWeight      = errors.New("body weight is required to estimate calories")
	ErrUnknownReference   = errors.New("unknown reference")
	ErrNotFound           = errors.New("not found")
	ErrNoFieldsProvided   = errors.New("no data provided for update")
	ErrDuplicateUsername  = errors.New("username already taken")
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

func validationErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func quantityErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidQuantity, fmt.Sprintf(format, args...))
}
