package pages_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-aipages/internal/pages"
	"github.com/goliatone/go-aipages/pkg/testsupport"
	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/google/uuid"
)

func TestBunPageRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	db := testsupport.NewBunSQLite(t, (*pages.Page)(nil))
	repo := pages.NewBunPageRepository(db)

	businessID := uuid.New()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	first := &pages.Page{
		ID:             uuid.New(),
		BusinessID:     businessID,
		Path:           "/us/tx/austin/casa-verde/happy-austin",
		Title:          "Happy hour in Austin",
		PageType:       "direct",
		StructuredData: map[string]any{"@type": "Restaurant"},
		Active:         true,
		CreatedAt:      base,
		UpdatedAt:      base,
	}
	second := &pages.Page{
		ID:         uuid.New(),
		BusinessID: businessID,
		Path:       "/us/tx/austin/casa-verde/margaritas-austin",
		Title:      "Margaritas",
		PageType:   "local",
		Active:     true,
		CreatedAt:  base.Add(time.Minute),
		UpdatedAt:  base.Add(time.Minute),
	}
	for _, page := range []*pages.Page{first, second} {
		if _, err := repo.Create(ctx, page); err != nil {
			t.Fatalf("create %s: %v", page.Path, err)
		}
	}

	dup := &pages.Page{ID: uuid.New(), BusinessID: businessID, Path: first.Path, Title: "dup", PageType: "direct"}
	if _, err := repo.Create(ctx, dup); !errors.Is(err, pages.ErrPathExists) {
		t.Fatalf("expected ErrPathExists, got %v", err)
	}

	byPath, err := repo.GetByPath(ctx, first.Path)
	if err != nil {
		t.Fatalf("get by path: %v", err)
	}
	if byPath.ID != first.ID || byPath.StructuredData["@type"] != "Restaurant" {
		t.Fatalf("unexpected page %+v", byPath)
	}

	list, err := repo.ListByBusiness(ctx, businessID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != second.ID {
		t.Fatalf("expected newest first, got %+v", list)
	}

	byPath.Active = false
	byPath.Title = "Expired happy hour"
	updated, err := repo.Update(ctx, byPath)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Active || updated.Title != "Expired happy hour" {
		t.Fatalf("unexpected update result %+v", updated)
	}

	if err := repo.Delete(ctx, first.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, first.ID); !errors.Is(err, pages.ErrPageNotFound) {
		t.Fatalf("expected ErrPageNotFound after delete, got %v", err)
	}
	var notFound *pages.PageNotFoundError
	if err := repo.Delete(ctx, first.ID); !errors.As(err, &notFound) {
		t.Fatalf("expected PageNotFoundError on second delete, got %v", err)
	}
	if _, err := repo.Update(ctx, first); !errors.Is(err, pages.ErrPageNotFound) {
		t.Fatalf("expected ErrPageNotFound on update, got %v", err)
	}
}

func TestBunPageRepository_WithCache(t *testing.T) {
	ctx := context.Background()
	db := testsupport.NewBunSQLite(t, (*pages.Page)(nil))

	cacheCfg := repocache.DefaultConfig()
	cacheCfg.TTL = time.Minute
	cacheService, err := repocache.NewCacheService(cacheCfg)
	if err != nil {
		t.Fatalf("new cache service: %v", err)
	}
	repo := pages.NewBunPageRepositoryWithCache(db, cacheService, repocache.NewDefaultKeySerializer())

	created, err := repo.Create(ctx, &pages.Page{
		ID:         uuid.New(),
		BusinessID: uuid.New(),
		Path:       "/us/co/denver/salon",
		Title:      "Salon",
		PageType:   pages.PageTypeBusiness,
		Active:     true,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	for range 2 {
		if _, err := repo.GetByID(ctx, created.ID); err != nil {
			t.Fatalf("get: %v", err)
		}
	}
}

func TestBunPageRepository_WithCacheDeleteInvalidatesReads(t *testing.T) {
	ctx := context.Background()
	db := testsupport.NewBunSQLite(t, (*pages.Page)(nil))

	cacheService, err := repocache.NewCacheService(repocache.DefaultConfig())
	if err != nil {
		t.Fatalf("new cache service: %v", err)
	}
	repo := pages.NewBunPageRepositoryWithCache(db, cacheService, repocache.NewDefaultKeySerializer())
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	lifecycle := pages.NewLifecycle(repo, pages.WithClock(func() time.Time { return now }))

	page, err := lifecycle.Create(ctx, pages.CreatePageRequest{
		BusinessID: uuid.New(),
		Path:       "/us/tx/austin/casa-verde/happy-austin",
		Title:      "Happy hour in Austin",
		PageType:   "direct",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	// Warm the id and path caches.
	if _, err := lifecycle.Get(ctx, page.ID); err != nil {
		t.Fatalf("get: %v", err)
	}
	if _, err := lifecycle.Resolve(ctx, page.Path); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if err := lifecycle.Delete(ctx, page.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := lifecycle.Get(ctx, page.ID); !errors.Is(err, pages.ErrPageNotFound) {
		t.Fatalf("expected ErrPageNotFound after delete, got %v", err)
	}
	if _, err := lifecycle.Resolve(ctx, page.Path); !errors.Is(err, pages.ErrPageNotFound) {
		t.Fatalf("expected deleted page to stop resolving, got %v", err)
	}
	var notFound *pages.PageNotFoundError
	if _, err := lifecycle.Reactivate(ctx, page.ID, now.Add(time.Hour)); !errors.As(err, &notFound) {
		t.Fatalf("expected PageNotFoundError on reactivate, got %v", err)
	}
	if err := lifecycle.Delete(ctx, page.ID); !errors.As(err, &notFound) {
		t.Fatalf("expected PageNotFoundError on second delete, got %v", err)
	}
}

func TestMemoryPageRepository_ListExpirable(t *testing.T) {
	ctx := context.Background()
	repo := pages.NewMemoryPageRepository()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	at := func(d time.Duration) *time.Time {
		v := now.Add(d)
		return &v
	}

	seed := []*pages.Page{
		{Path: "/a", Active: true, ExpiresAt: at(-2 * time.Hour)},
		{Path: "/b", Active: true, ExpiresAt: at(-time.Hour)},
		{Path: "/c", Active: true, ExpiresAt: at(time.Hour)},
		{Path: "/d", Active: true},
		{Path: "/e", Active: false, ExpiresAt: at(-time.Hour), ExpiredAt: at(-time.Hour)},
	}
	for _, page := range seed {
		page.BusinessID = uuid.New()
		if _, err := repo.Create(ctx, page); err != nil {
			t.Fatalf("create %s: %v", page.Path, err)
		}
	}

	due, err := repo.ListExpirable(ctx, now, 0)
	if err != nil {
		t.Fatalf("list expirable: %v", err)
	}
	if len(due) != 2 || due[0].Path != "/a" || due[1].Path != "/b" {
		t.Fatalf("unexpected expirable pages %+v", due)
	}
	limited, _ := repo.ListExpirable(ctx, now, 1)
	if len(limited) != 1 {
		t.Fatalf("expected limit to apply, got %d", len(limited))
	}
}
