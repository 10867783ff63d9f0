package batches

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrBatchNotFound         = errors.New("batches: batch not found")
	ErrBatchAlreadyPublished = errors.New("batches: batch already published")
	ErrUpdatePublished       = errors.New("batches: update already published")
	ErrBatchEmpty            = errors.New("batches: batch has no drafts")
	ErrDraftNotFound         = errors.New("batches: draft not found")
	ErrVariantInvalid        = errors.New("batches: unknown page variant")
	ErrContentWriterFailed   = errors.New("batches: content writer failed")
	ErrWriterRequired        = errors.New("batches: content writer is required")
	ErrPagesRequired         = errors.New("batches: page service is required")
)

// PartialFailurePolicy decides what happens to rows created before a publish
// fails partway.
type PartialFailurePolicy string

const (
	// FailOpen keeps created rows and leaves reconciliation to the caller.
	FailOpen PartialFailurePolicy = "fail_open"
	// FailClosed deletes created rows on a best-effort basis.
	FailClosed PartialFailurePolicy = "fail_closed"
)

// ParsePartialFailurePolicy maps a config value onto a policy. Blank and
// unknown values fall back to FailOpen.
func ParsePartialFailurePolicy(raw string) PartialFailurePolicy {
	if PartialFailurePolicy(strings.ToLower(strings.TrimSpace(raw))) == FailClosed {
		return FailClosed
	}
	return FailOpen
}

// PartialPublishError reports a publish that stopped partway. Created lists
// the rows that remain; under FailClosed it only holds rows whose rollback
// failed.
type PartialPublishError struct {
	BatchID    uuid.UUID
	Created    []uuid.UUID
	FailedPath string
	RolledBack bool
	Err        error
}

func (e *PartialPublishError) Error() string {
	if e == nil {
		return "batches: partial publish"
	}
	return fmt.Sprintf("batches: publish of batch %s stopped at %q after %d page(s): %v", e.BatchID, e.FailedPath, len(e.Created), e.Err)
}

func (e *PartialPublishError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// VariantFailure records a writer error for one variant, verbatim.
type VariantFailure struct {
	Variant VariantTag
	Err     error
}

func (f VariantFailure) Error() string {
	return fmt.Sprintf("%s: %v", f.Variant, f.Err)
}
