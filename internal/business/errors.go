package business

import (
	"errors"
	"fmt"
)

var (
	ErrBusinessNotFound      = errors.New("business: record not found")
	ErrUpdateNotFound        = errors.New("business: update not found")
	ErrEmailExists           = errors.New("business: contact email already registered")
	ErrUpdateImmutable       = errors.New("business: completed update can only have its expiration extended")
	ErrUpdateTransition      = errors.New("business: invalid update status transition")
	ErrUpdateExpiryInvalid   = errors.New("business: expiration must be after go-live")
	ErrRecordRequired        = errors.New("business: record is required")
	ErrUpdateRequired        = errors.New("business: update is required")
	ErrUpdateBusinessMissing = errors.New("business: update business id is required")
)

// NotFoundError reports a missing business or update by key.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("business: %s %q not found", e.Resource, e.Key)
}

func (e *NotFoundError) Unwrap() error {
	if e.Resource == "update" {
		return ErrUpdateNotFound
	}
	return ErrBusinessNotFound
}
