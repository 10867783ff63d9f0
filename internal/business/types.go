package business

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Record is the durable profile of a business.
type Record struct {
	bun.BaseModel `bun:"table:businesses,alias:b"`

	ID          uuid.UUID `bun:",pk,type:uuid"          json:"id"`
	Name        string    `bun:"name,notnull"           json:"name"`
	Category    string    `bun:"category"               json:"category,omitempty"`
	Slug        string    `bun:"slug,notnull"           json:"slug"`
	Description string    `bun:"description"            json:"description,omitempty"`

	Street     string `bun:"street"      json:"street,omitempty"`
	City       string `bun:"city,notnull" json:"city"`
	State      string `bun:"state,notnull" json:"state"`
	PostalCode string `bun:"postal_code" json:"postal_code,omitempty"`
	Country    string `bun:"country"     json:"country,omitempty"`

	Phone   string `bun:"phone"           json:"phone,omitempty"`
	Email   string `bun:"email,nullzero,unique" json:"email,omitempty"`
	Website string `bun:"website"         json:"website,omitempty"`

	Hours           string              `bun:"hours"                        json:"hours,omitempty"`
	StructuredHours map[string]DayHours `bun:"structured_hours,type:jsonb"  json:"structured_hours,omitempty"`
	PriceRange      string              `bun:"price_range"                  json:"price_range,omitempty"`
	Latitude        *float64            `bun:"latitude"                     json:"latitude,omitempty"`
	Longitude       *float64            `bun:"longitude"                    json:"longitude,omitempty"`

	Specialties           []string `bun:"specialties,type:jsonb"            json:"specialties,omitempty"`
	Services              []string `bun:"services,type:jsonb"               json:"services,omitempty"`
	PaymentMethods        []string `bun:"payment_methods,type:jsonb"        json:"payment_methods,omitempty"`
	AccessibilityFeatures []string `bun:"accessibility_features,type:jsonb" json:"accessibility_features,omitempty"`
	Languages             []string `bun:"languages,type:jsonb"              json:"languages,omitempty"`

	Parking         *Parking          `bun:"parking,type:jsonb"        json:"parking,omitempty"`
	ServiceArea     *ServiceArea      `bun:"service_area,type:jsonb"   json:"service_area,omitempty"`
	Awards          []Award           `bun:"awards,type:jsonb"         json:"awards,omitempty"`
	Certifications  []Award           `bun:"certifications,type:jsonb" json:"certifications,omitempty"`
	SocialMedia     map[string]string `bun:"social_media,type:jsonb"   json:"social_media,omitempty"`
	YearsInBusiness int               `bun:"years_in_business"         json:"years_in_business,omitempty"`
	ReviewSummary   *ReviewSummary    `bun:"review_summary,type:jsonb" json:"review_summary,omitempty"`

	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// DayHours is an open/close pair for a single weekday, e.g. "09:00"/"17:00".
type DayHours struct {
	Open   string `json:"open"`
	Close  string `json:"close"`
	Closed bool   `json:"closed,omitempty"`
}

// Parking describes on-site parking.
type Parking struct {
	Available bool   `json:"available"`
	Type      string `json:"type,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// ServiceArea describes where the business operates beyond its address.
type ServiceArea struct {
	RadiusMiles      float64  `json:"radius_miles,omitempty"`
	AdditionalCities []string `json:"additional_cities,omitempty"`
	Description      string   `json:"description,omitempty"`
}

// ReviewSummary aggregates third-party reviews.
type ReviewSummary struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// UpdateStatus tracks content generation for an update.
type UpdateStatus string

const (
	UpdateStatusPending    UpdateStatus = "pending"
	UpdateStatusProcessing UpdateStatus = "processing"
	UpdateStatusCompleted  UpdateStatus = "completed"
	UpdateStatusFailed     UpdateStatus = "failed"
)

// Update is one user-submitted change such as a promotion or an hours change.
type Update struct {
	bun.BaseModel `bun:"table:business_updates,alias:bu"`

	ID            uuid.UUID    `bun:",pk,type:uuid"                     json:"id"`
	BusinessID    uuid.UUID    `bun:"business_id,notnull,type:uuid"     json:"business_id"`
	Description   string       `bun:"description,notnull"               json:"description"`
	GoLiveAt      time.Time    `bun:"go_live_at,nullzero"               json:"go_live_at"`
	ExpiresAt     *time.Time   `bun:"expires_at,nullzero"               json:"expires_at,omitempty"`
	Status        UpdateStatus `bun:"status,notnull,default:'pending'"  json:"status"`
	FailureReason string       `bun:"failure_reason"                    json:"failure_reason,omitempty"`
	CreatedAt     time.Time    `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time    `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Permanent reports whether the update has no expiration.
func (u *Update) Permanent() bool {
	return u == nil || u.ExpiresAt == nil
}
