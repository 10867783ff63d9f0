package pages

import (
	"errors"
	"fmt"
)

var (
	ErrPageNotFound       = errors.New("pages: page not found")
	ErrPageRequired       = errors.New("pages: page is required")
	ErrBusinessRequired   = errors.New("pages: business id is required")
	ErrPathRequired       = errors.New("pages: path is required")
	ErrPathExists         = errors.New("pages: path already exists")
	ErrBusinessPageExists = errors.New("pages: business already has a profile page")
	ErrExpiryInPast       = errors.New("pages: new expiration must be in the future")
	ErrExtendHoursInvalid = errors.New("pages: extension hours must be positive")
)

// PageNotFoundError reports a missing or deleted page.
type PageNotFoundError struct {
	Key string
}

func (e *PageNotFoundError) Error() string {
	if e == nil || e.Key == "" {
		return ErrPageNotFound.Error()
	}
	return fmt.Sprintf("%s: %s", ErrPageNotFound.Error(), e.Key)
}

func (e *PageNotFoundError) Unwrap() error {
	return ErrPageNotFound
}

// ErrPageExists reports an insert whose id is already taken.
var ErrPageExists = errors.New("pages: page already exists")
