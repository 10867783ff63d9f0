package pages

import (
	"context"
	"maps"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryPageRepository is an in-memory page store for demos and tests.
type MemoryPageRepository struct {
	mu        sync.RWMutex
	pages     map[uuid.UUID]*Page
	pathIndex map[string]uuid.UUID
}

// NewMemoryPageRepository constructs the repository.
func NewMemoryPageRepository() *MemoryPageRepository {
	return &MemoryPageRepository{
		pages:     make(map[uuid.UUID]*Page),
		pathIndex: make(map[string]uuid.UUID),
	}
}

// Create inserts the supplied page.
func (m *MemoryPageRepository) Create(_ context.Context, record *Page) (*Page, error) {
	if record == nil {
		return nil, ErrPageRequired
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := clonePage(record)
	if copied.ID == uuid.Nil {
		copied.ID = uuid.New()
	}
	if _, exists := m.pages[copied.ID]; exists {
		return nil, ErrPageExists
	}
	if _, exists := m.pathIndex[copied.Path]; exists {
		return nil, ErrPathExists
	}
	m.pages[copied.ID] = copied
	m.pathIndex[copied.Path] = copied.ID
	return clonePage(copied), nil
}

// GetByID retrieves a page by identifier.
func (m *MemoryPageRepository) GetByID(_ context.Context, id uuid.UUID) (*Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	page, ok := m.pages[id]
	if !ok {
		return nil, &PageNotFoundError{Key: id.String()}
	}
	return clonePage(page), nil
}

// GetByPath retrieves a page by its public path.
func (m *MemoryPageRepository) GetByPath(_ context.Context, path string) (*Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.pathIndex[path]
	if !ok {
		return nil, &PageNotFoundError{Key: path}
	}
	return clonePage(m.pages[id]), nil
}

// ListByBusiness returns the business pages, newest first.
func (m *MemoryPageRepository) ListByBusiness(_ context.Context, businessID uuid.UUID) ([]*Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*Page
	for _, page := range m.pages {
		if page.BusinessID == businessID {
			out = append(out, clonePage(page))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Path < out[j].Path
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// ListExpirable returns active pages past their expiry, soonest expiry first.
func (m *MemoryPageRepository) ListExpirable(_ context.Context, now time.Time, limit int) ([]*Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*Page
	for _, page := range m.pages {
		if page.Active && page.ExpiredAt == nil && IsExpired(page.ExpiresAt, now) {
			out = append(out, clonePage(page))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ExpiresAt.Before(*out[j].ExpiresAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Update replaces a stored page by primary key.
func (m *MemoryPageRepository) Update(_ context.Context, record *Page) (*Page, error) {
	if record == nil {
		return nil, ErrPageRequired
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.pages[record.ID]
	if !ok {
		return nil, &PageNotFoundError{Key: record.ID.String()}
	}
	if existing.Path != record.Path {
		if owner, taken := m.pathIndex[record.Path]; taken && owner != record.ID {
			return nil, ErrPathExists
		}
		delete(m.pathIndex, existing.Path)
		m.pathIndex[record.Path] = record.ID
	}
	copied := clonePage(record)
	copied.CreatedAt = existing.CreatedAt
	m.pages[record.ID] = copied
	return clonePage(copied), nil
}

// Delete removes the page permanently.
func (m *MemoryPageRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	page, ok := m.pages[id]
	if !ok {
		return &PageNotFoundError{Key: id.String()}
	}
	delete(m.pages, id)
	delete(m.pathIndex, page.Path)
	return nil
}

func clonePage(src *Page) *Page {
	if src == nil {
		return nil
	}
	cloned := *src
	cloned.UpdateID = cloneUUIDPointer(src.UpdateID)
	cloned.BatchID = cloneUUIDPointer(src.BatchID)
	cloned.ExpiresAt = cloneTimePointer(src.ExpiresAt)
	cloned.ExpiredAt = cloneTimePointer(src.ExpiredAt)
	cloned.ReactivatedAt = cloneTimePointer(src.ReactivatedAt)
	cloned.StructuredData = cloneMap(src.StructuredData)
	return &cloned
}

func cloneMap(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	return maps.Clone(src)
}

func cloneTimePointer(src *time.Time) *time.Time {
	if src == nil {
		return nil
	}
	value := *src
	return &value
}

func cloneUUIDPointer(src *uuid.UUID) *uuid.UUID {
	if src == nil {
		return nil
	}
	value := *src
	return &value
}
