package pages

import (
	"context"
	"errors"
	"fmt"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type BunPageRepository struct {
	repo repository.Repository[*Page]
}

func NewBunPageRepository(db *bun.DB) *BunPageRepository {
	return NewBunPageRepositoryWithCache(db, nil, nil)
}

// NewBunPageRepositoryWithCache constructs a PageRepository backed by bun with optional caching.
func NewBunPageRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunPageRepository {
	return &BunPageRepository{
		repo: wrapWithCache(NewPageRecordRepository(db), cacheService, keySerializer),
	}
}

func (r *BunPageRepository) Create(ctx context.Context, record *Page) (*Page, error) {
	if record == nil {
		return nil, ErrPageRequired
	}
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	} else if _, err := r.GetByID(ctx, record.ID); err == nil {
		return nil, ErrPageExists
	} else if !errors.Is(err, ErrPageNotFound) {
		return nil, err
	}
	if _, err := r.GetByPath(ctx, record.Path); err == nil {
		return nil, ErrPathExists
	} else if !errors.Is(err, ErrPageNotFound) {
		return nil, err
	}
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("page repository error: %w", err)
	}
	return created, nil
}

func (r *BunPageRepository) GetByID(ctx context.Context, id uuid.UUID) (*Page, error) {
	result, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "page", id.String())
	}
	return result, nil
}

func (r *BunPageRepository) GetByPath(ctx context.Context, path string) (*Page, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.path = ?", path)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "page", path)
	}
	if len(records) == 0 {
		return nil, &PageNotFoundError{Key: path}
	}
	return records[0], nil
}

func (r *BunPageRepository) ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]*Page, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.business_id = ?", businessID)
		}),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.created_at DESC").OrderExpr("?TableAlias.path ASC")
		}),
	)
	return records, err
}

func (r *BunPageRepository) ListExpirable(ctx context.Context, now time.Time, limit int) ([]*Page, error) {
	criteria := []repository.SelectCriteria{
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.active = ?", true).
				Where("?TableAlias.expired_at IS NULL").
				Where("?TableAlias.expires_at IS NOT NULL").
				Where("?TableAlias.expires_at <= ?", now.UTC()).
				OrderExpr("?TableAlias.expires_at ASC")
		}),
	}
	if limit > 0 {
		criteria = append(criteria, repository.SelectPaginate(limit, 0))
	}
	records, _, err := r.repo.List(ctx, criteria...)
	return records, err
}

// Update writes the mutable lifecycle columns, keyed by primary key.
func (r *BunPageRepository) Update(ctx context.Context, record *Page) (*Page, error) {
	if record == nil {
		return nil, ErrPageRequired
	}
	if _, err := r.GetByID(ctx, record.ID); err != nil {
		return nil, err
	}
	updated, err := r.repo.Update(ctx, record,
		repository.UpdateByID(record.ID.String()),
		repository.UpdateColumns(
			"path",
			"title",
			"page_type",
			"structured_data",
			"score",
			"active",
			"expires_at",
			"expired_at",
			"reactivated_at",
			"updated_at",
		),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "page", record.ID.String())
	}
	return updated, nil
}

// Delete hard-deletes the row through the repository so cached reads of the
// page are invalidated with it.
func (r *BunPageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	record, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := r.repo.Delete(ctx, record); err != nil {
		return mapRepositoryError(err, "page", id.String())
	}
	return nil
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &PageNotFoundError{
			Key: key,
		}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}

func wrapWithCache[T any](base repository.Repository[T], cacheService cache.CacheService, keySerializer cache.KeySerializer) repository.Repository[T] {
	if cacheService == nil || keySerializer == nil {
		return base
	}
	return repositorycache.New(base, cacheService, keySerializer)
}
