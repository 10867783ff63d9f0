package business

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MemoryRepository is an in-memory business store for demos and tests.
type MemoryRepository struct {
	mu         sync.RWMutex
	records    map[uuid.UUID]*Record
	emailIndex map[string]uuid.UUID
}

// NewMemoryRepository constructs the repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		records:    make(map[uuid.UUID]*Record),
		emailIndex: make(map[string]uuid.UUID),
	}
}

// Create inserts the record, rejecting duplicate contact emails.
func (m *MemoryRepository) Create(_ context.Context, record *Record) (*Record, error) {
	if record == nil {
		return nil, ErrRecordRequired
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := cloneRecord(record)
	if copied.ID == uuid.Nil {
		copied.ID = uuid.New()
	}
	key := emailKey(copied.Email)
	if key != "" {
		if _, exists := m.emailIndex[key]; exists {
			return nil, ErrEmailExists
		}
		m.emailIndex[key] = copied.ID
	}
	m.records[copied.ID] = copied
	return cloneRecord(copied), nil
}

// GetByID retrieves a record by identifier.
func (m *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.records[id]
	if !ok {
		return nil, &NotFoundError{Resource: "business", Key: id.String()}
	}
	return cloneRecord(record), nil
}

// GetByEmail retrieves a record by its contact email, case-insensitively.
func (m *MemoryRepository) GetByEmail(_ context.Context, email string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.emailIndex[emailKey(email)]
	if !ok {
		return nil, &NotFoundError{Resource: "business", Key: email}
	}
	return cloneRecord(m.records[id]), nil
}

// List returns every record ordered by name.
func (m *MemoryRepository) List(_ context.Context) ([]*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Record, 0, len(m.records))
	for _, record := range m.records {
		out = append(out, cloneRecord(record))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Update replaces a stored record.
func (m *MemoryRepository) Update(_ context.Context, record *Record) (*Record, error) {
	if record == nil {
		return nil, ErrRecordRequired
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.records[record.ID]
	if !ok {
		return nil, &NotFoundError{Resource: "business", Key: record.ID.String()}
	}
	newKey := emailKey(record.Email)
	if newKey != "" {
		if owner, taken := m.emailIndex[newKey]; taken && owner != record.ID {
			return nil, ErrEmailExists
		}
	}
	if oldKey := emailKey(existing.Email); oldKey != "" {
		delete(m.emailIndex, oldKey)
	}
	if newKey != "" {
		m.emailIndex[newKey] = record.ID
	}
	copied := cloneRecord(record)
	copied.CreatedAt = existing.CreatedAt
	m.records[record.ID] = copied
	return cloneRecord(copied), nil
}

// MemoryUpdateRepository is an in-memory update store.
type MemoryUpdateRepository struct {
	mu      sync.RWMutex
	updates map[uuid.UUID]*Update
}

// NewMemoryUpdateRepository constructs the repository.
func NewMemoryUpdateRepository() *MemoryUpdateRepository {
	return &MemoryUpdateRepository{updates: make(map[uuid.UUID]*Update)}
}

func (m *MemoryUpdateRepository) Create(_ context.Context, update *Update) (*Update, error) {
	if update == nil {
		return nil, ErrUpdateRequired
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := cloneUpdate(update)
	if copied.ID == uuid.Nil {
		copied.ID = uuid.New()
	}
	m.updates[copied.ID] = copied
	return cloneUpdate(copied), nil
}

func (m *MemoryUpdateRepository) GetByID(_ context.Context, id uuid.UUID) (*Update, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	update, ok := m.updates[id]
	if !ok {
		return nil, &NotFoundError{Resource: "update", Key: id.String()}
	}
	return cloneUpdate(update), nil
}

// ListByBusiness returns the business updates, newest first.
func (m *MemoryUpdateRepository) ListByBusiness(_ context.Context, businessID uuid.UUID) ([]*Update, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*Update
	for _, update := range m.updates {
		if update.BusinessID == businessID {
			out = append(out, cloneUpdate(update))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryUpdateRepository) Update(_ context.Context, update *Update) (*Update, error) {
	if update == nil {
		return nil, ErrUpdateRequired
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.updates[update.ID]; !ok {
		return nil, &NotFoundError{Resource: "update", Key: update.ID.String()}
	}
	copied := cloneUpdate(update)
	m.updates[update.ID] = copied
	return cloneUpdate(copied), nil
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func cloneRecord(src *Record) *Record {
	if src == nil {
		return nil
	}
	cloned := *src
	cloned.StructuredHours = cloneHours(src.StructuredHours)
	cloned.Latitude = cloneFloat(src.Latitude)
	cloned.Longitude = cloneFloat(src.Longitude)
	cloned.Specialties = cloneStrings(src.Specialties)
	cloned.Services = cloneStrings(src.Services)
	cloned.PaymentMethods = cloneStrings(src.PaymentMethods)
	cloned.AccessibilityFeatures = cloneStrings(src.AccessibilityFeatures)
	cloned.Languages = cloneStrings(src.Languages)
	if src.Parking != nil {
		parking := *src.Parking
		cloned.Parking = &parking
	}
	if src.ServiceArea != nil {
		area := *src.ServiceArea
		area.AdditionalCities = cloneStrings(src.ServiceArea.AdditionalCities)
		cloned.ServiceArea = &area
	}
	if src.ReviewSummary != nil {
		summary := *src.ReviewSummary
		cloned.ReviewSummary = &summary
	}
	if src.Awards != nil {
		cloned.Awards = append([]Award(nil), src.Awards...)
	}
	if src.Certifications != nil {
		cloned.Certifications = append([]Award(nil), src.Certifications...)
	}
	if src.SocialMedia != nil {
		cloned.SocialMedia = make(map[string]string, len(src.SocialMedia))
		for k, v := range src.SocialMedia {
			cloned.SocialMedia[k] = v
		}
	}
	return &cloned
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	return cloneRecord(r)
}

func cloneUpdate(src *Update) *Update {
	if src == nil {
		return nil
	}
	cloned := *src
	cloned.ExpiresAt = cloneTime(src.ExpiresAt)
	return &cloned
}

func cloneHours(src map[string]DayHours) map[string]DayHours {
	if src == nil {
		return nil
	}
	out := make(map[string]DayHours, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

func cloneStrings(src []string) []string {
	if src == nil {
		return nil
	}
	return append([]string(nil), src...)
}

func cloneFloat(src *float64) *float64 {
	if src == nil {
		return nil
	}
	value := *src
	return &value
}
