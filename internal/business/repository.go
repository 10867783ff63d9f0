package business

import (
	"context"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository persists business profiles.
type Repository interface {
	Create(ctx context.Context, record *Record) (*Record, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Record, error)
	GetByEmail(ctx context.Context, email string) (*Record, error)
	List(ctx context.Context) ([]*Record, error)
	Update(ctx context.Context, record *Record) (*Record, error)
}

// UpdateRepository persists business updates.
type UpdateRepository interface {
	Create(ctx context.Context, update *Update) (*Update, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Update, error)
	ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]*Update, error)
	Update(ctx context.Context, update *Update) (*Update, error)
}

func NewRecordRepository(db *bun.DB) repository.Repository[*Record] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Record]{
		NewRecord: func() *Record { return &Record{} },
		GetID: func(r *Record) uuid.UUID {
			return r.ID
		},
		SetID: func(r *Record, id uuid.UUID) {
			r.ID = id
		},
		GetIdentifier: func() string {
			return "slug"
		},
		GetIdentifierValue: func(r *Record) string {
			return r.Slug
		},
	})
}

func NewUpdateRecordRepository(db *bun.DB) repository.Repository[*Update] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Update]{
		NewRecord: func() *Update { return &Update{} },
		GetID: func(u *Update) uuid.UUID {
			return u.ID
		},
		SetID: func(u *Update, id uuid.UUID) {
			u.ID = id
		},
		GetIdentifier: func() string {
			return ""
		},
		GetIdentifierValue: func(*Update) string {
			return ""
		},
	})
}
