package pages

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// PageTypeBusiness tags a business's permanent profile page. Update pages
// carry their variant tag instead.
const PageTypeBusiness = "business"

// Page is a published, durable page generated for a business.
type Page struct {
	bun.BaseModel `bun:"table:generated_pages,alias:gp"`

	ID             uuid.UUID      `bun:",pk,type:uuid"                 json:"id"`
	BusinessID     uuid.UUID      `bun:"business_id,notnull,type:uuid" json:"business_id"`
	UpdateID       *uuid.UUID     `bun:"update_id,type:uuid"           json:"update_id,omitempty"`
	BatchID        *uuid.UUID     `bun:"batch_id,type:uuid"            json:"batch_id,omitempty"`
	Path           string         `bun:"path,notnull,unique"           json:"path"`
	Title          string         `bun:"title,notnull"                 json:"title"`
	PageType       string         `bun:"page_type,notnull"             json:"page_type"`
	StructuredData map[string]any `bun:"structured_data,type:jsonb"    json:"structured_data,omitempty"`
	Score          int            `bun:"score,notnull,default:0"       json:"score"`
	Active         bool           `bun:"active,notnull"                json:"active"`
	ExpiresAt      *time.Time     `bun:"expires_at,nullzero"           json:"expires_at,omitempty"`
	ExpiredAt      *time.Time     `bun:"expired_at,nullzero"           json:"expired_at,omitempty"`
	ReactivatedAt  *time.Time     `bun:"reactivated_at,nullzero"       json:"reactivated_at,omitempty"`
	CreatedAt      time.Time      `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt      time.Time      `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// State is the lifecycle state derived from a page and the current time.
type State string

const (
	StateActive       State = "active"
	StateExpiringSoon State = "expiring-soon"
	StateExpired      State = "expired"
	StateReactivated  State = "reactivated"
)

// ExtendPresets are the common extension lengths in hours: one day, three
// days, one week, two weeks and one month.
var ExtendPresets = []int{24, 72, 168, 336, 720}

// DefaultExpiringSoonWindow is how close to expiry a page counts as expiring soon.
const DefaultExpiringSoonWindow = 2 * time.Hour
