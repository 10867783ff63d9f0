package scheduler

import (
	"strings"

	"github.com/google/uuid"
)

// JobTypePageExpire expires a generated page once its expires_at passes.
const JobTypePageExpire = "aipages.page.expire"

// PayloadPageID and PayloadBusinessID are the payload keys of expiration jobs.
const (
	PayloadPageID     = "page_id"
	PayloadBusinessID = "business_id"
)

// PageExpireJobKey is unique per page so rescheduling replaces the old job.
func PageExpireJobKey(id uuid.UUID) string {
	return "page:" + id.String() + ":expire"
}

// ParsePageExpireJobKey extracts the page id from a PageExpireJobKey.
func ParsePageExpireJobKey(key string) (uuid.UUID, bool) {
	trimmed, ok := strings.CutPrefix(key, "page:")
	if !ok {
		return uuid.Nil, false
	}
	raw, ok := strings.CutSuffix(trimmed, ":expire")
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
