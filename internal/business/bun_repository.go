package business

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunRepository persists business profiles with bun.
type BunRepository struct {
	repo repository.Repository[*Record]
}

func NewBunRepository(db *bun.DB) *BunRepository {
	return NewBunRepositoryWithCache(db, nil, nil)
}

// NewBunRepositoryWithCache constructs a Repository backed by bun with optional caching.
func NewBunRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunRepository {
	return &BunRepository{repo: wrapWithCache(NewRecordRepository(db), cacheService, keySerializer)}
}

func (r *BunRepository) Create(ctx context.Context, record *Record) (*Record, error) {
	if record == nil {
		return nil, ErrRecordRequired
	}
	if email := strings.TrimSpace(record.Email); email != "" {
		if _, err := r.GetByEmail(ctx, email); err == nil {
			return nil, ErrEmailExists
		} else if !errors.Is(err, ErrBusinessNotFound) {
			return nil, err
		}
	}
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("business repository error: %w", err)
	}
	return created, nil
}

func (r *BunRepository) GetByID(ctx context.Context, id uuid.UUID) (*Record, error) {
	result, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "business", id.String())
	}
	return result, nil
}

func (r *BunRepository) GetByEmail(ctx context.Context, email string) (*Record, error) {
	key := strings.ToLower(strings.TrimSpace(email))
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("LOWER(?TableAlias.email) = ?", key)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "business", email)
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Resource: "business", Key: email}
	}
	return records[0], nil
}

func (r *BunRepository) List(ctx context.Context) ([]*Record, error) {
	records, _, err := r.repo.List(ctx, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.OrderExpr("?TableAlias.name ASC")
	}))
	return records, err
}

func (r *BunRepository) Update(ctx context.Context, record *Record) (*Record, error) {
	if record == nil {
		return nil, ErrRecordRequired
	}
	if email := strings.TrimSpace(record.Email); email != "" {
		owner, err := r.GetByEmail(ctx, email)
		if err == nil && owner.ID != record.ID {
			return nil, ErrEmailExists
		}
		if err != nil && !errors.Is(err, ErrBusinessNotFound) {
			return nil, err
		}
	}
	record.UpdatedAt = time.Now().UTC()
	updated, err := r.repo.Update(ctx, record,
		repository.UpdateByID(record.ID.String()),
		repository.UpdateColumns(
			"name", "category", "slug", "description",
			"street", "city", "state", "postal_code", "country",
			"phone", "email", "website",
			"hours", "structured_hours", "price_range", "latitude", "longitude",
			"specialties", "services", "payment_methods", "accessibility_features", "languages",
			"parking", "service_area", "awards", "certifications", "social_media",
			"years_in_business", "review_summary",
			"updated_at",
		),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "business", record.ID.String())
	}
	return updated, nil
}

// BunUpdateRepository persists updates with bun.
type BunUpdateRepository struct {
	repo repository.Repository[*Update]
}

func NewBunUpdateRepository(db *bun.DB) *BunUpdateRepository {
	return NewBunUpdateRepositoryWithCache(db, nil, nil)
}

func NewBunUpdateRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunUpdateRepository {
	return &BunUpdateRepository{repo: wrapWithCache(NewUpdateRecordRepository(db), cacheService, keySerializer)}
}

func (r *BunUpdateRepository) Create(ctx context.Context, update *Update) (*Update, error) {
	if update == nil {
		return nil, ErrUpdateRequired
	}
	if update.ID == uuid.Nil {
		update.ID = uuid.New()
	}
	created, err := r.repo.Create(ctx, update)
	if err != nil {
		return nil, fmt.Errorf("update repository error: %w", err)
	}
	return created, nil
}

func (r *BunUpdateRepository) GetByID(ctx context.Context, id uuid.UUID) (*Update, error) {
	result, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "update", id.String())
	}
	return result, nil
}

func (r *BunUpdateRepository) ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]*Update, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.business_id = ?", businessID)
		}),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.created_at DESC")
		}),
	)
	return records, err
}

func (r *BunUpdateRepository) Update(ctx context.Context, update *Update) (*Update, error) {
	if update == nil {
		return nil, ErrUpdateRequired
	}
	update.UpdatedAt = time.Now().UTC()
	updated, err := r.repo.Update(ctx, update,
		repository.UpdateByID(update.ID.String()),
		repository.UpdateColumns("description", "go_live_at", "expires_at", "status", "failure_reason", "updated_at"),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "update", update.ID.String())
	}
	return updated, nil
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Resource: resource, Key: key}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}

func wrapWithCache[T any](base repository.Repository[T], cacheService cache.CacheService, keySerializer cache.KeySerializer) repository.Repository[T] {
	if cacheService == nil || keySerializer == nil {
		return base
	}
	return repositorycache.New(base, cacheService, keySerializer)
}
