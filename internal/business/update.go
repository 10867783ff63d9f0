package business

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NewUpdate builds a pending update. A zero goLiveAt defaults to now.
func NewUpdate(businessID uuid.UUID, description string, goLiveAt time.Time, expiresAt *time.Time, now time.Time) (*Update, error) {
	if goLiveAt.IsZero() {
		goLiveAt = now
	}
	if expiresAt != nil && !expiresAt.After(goLiveAt) {
		return nil, ErrUpdateExpiryInvalid
	}
	update := &Update{
		ID:          uuid.New(),
		BusinessID:  businessID,
		Description: description,
		GoLiveAt:    goLiveAt.UTC(),
		ExpiresAt:   cloneTime(expiresAt),
		Status:      UpdateStatusPending,
		CreatedAt:   now.UTC(),
		UpdatedAt:   now.UTC(),
	}
	if err := update.Validate(); err != nil {
		return nil, err
	}
	return update, nil
}

// StartProcessing moves a pending or failed update into processing.
func (u *Update) StartProcessing(now time.Time) error {
	switch u.Status {
	case UpdateStatusPending, UpdateStatusFailed, "":
	case UpdateStatusCompleted:
		return ErrUpdateImmutable
	default:
		return fmt.Errorf("%w: %s -> %s", ErrUpdateTransition, u.Status, UpdateStatusProcessing)
	}
	u.Status = UpdateStatusProcessing
	u.FailureReason = ""
	u.UpdatedAt = now.UTC()
	return nil
}

// Complete marks a processing update as completed.
func (u *Update) Complete(now time.Time) error {
	if u.Status == UpdateStatusCompleted {
		return ErrUpdateImmutable
	}
	if u.Status != UpdateStatusProcessing {
		return fmt.Errorf("%w: %s -> %s", ErrUpdateTransition, u.Status, UpdateStatusCompleted)
	}
	u.Status = UpdateStatusCompleted
	u.UpdatedAt = now.UTC()
	return nil
}

// Fail marks a processing update as failed with a human readable reason.
func (u *Update) Fail(reason string, now time.Time) error {
	if u.Status == UpdateStatusCompleted {
		return ErrUpdateImmutable
	}
	if u.Status != UpdateStatusProcessing {
		return fmt.Errorf("%w: %s -> %s", ErrUpdateTransition, u.Status, UpdateStatusFailed)
	}
	u.Status = UpdateStatusFailed
	u.FailureReason = reason
	u.UpdatedAt = now.UTC()
	return nil
}

// Release returns a processing update to pending once every draft made for
// it was discarded.
func (u *Update) Release(now time.Time) error {
	if u.Status == UpdateStatusCompleted {
		return ErrUpdateImmutable
	}
	if u.Status != UpdateStatusProcessing {
		return fmt.Errorf("%w: %s -> %s", ErrUpdateTransition, u.Status, UpdateStatusPending)
	}
	u.Status = UpdateStatusPending
	u.UpdatedAt = now.UTC()
	return nil
}

// Edit replaces the description of an update that has not completed.
func (u *Update) Edit(description string, now time.Time) error {
	if u.Status == UpdateStatusCompleted {
		return ErrUpdateImmutable
	}
	u.Description = description
	u.UpdatedAt = now.UTC()
	return u.Validate()
}

// ExtendExpiration is the only mutation allowed after completion.
func (u *Update) ExtendExpiration(expiresAt time.Time, now time.Time) error {
	if !expiresAt.After(u.GoLiveAt) || !expiresAt.After(now) {
		return ErrUpdateExpiryInvalid
	}
	at := expiresAt.UTC()
	u.ExpiresAt = &at
	u.UpdatedAt = now.UTC()
	return nil
}

func cloneTime(src *time.Time) *time.Time {
	if src == nil {
		return nil
	}
	value := src.UTC()
	return &value
}
