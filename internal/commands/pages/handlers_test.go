package pagescmd

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-aipages/internal/commands"
	"github.com/goliatone/go-aipages/internal/pages"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

var handlerNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestLifecycle(t *testing.T) (*pages.Lifecycle, *pages.Page) {
	t.Helper()
	lifecycle := pages.NewLifecycle(pages.NewMemoryPageRepository(),
		pages.WithClock(func() time.Time { return handlerNow }),
	)
	expires := handlerNow.Add(time.Hour)
	page, err := lifecycle.Create(context.Background(), pages.CreatePageRequest{
		ID:         uuid.New(),
		BusinessID: uuid.New(),
		Path:       "/us/tx/austin/casa-verde/happy-austin",
		Title:      "Happy hour",
		PageType:   "direct",
		ExpiresAt:  &expires,
	})
	if err != nil {
		t.Fatalf("create page: %v", err)
	}
	return lifecycle, page
}

func TestExtendPageHandlerExtendsExpiry(t *testing.T) {
	lifecycle, page := newTestLifecycle(t)
	handler := NewExtendPageHandler(lifecycle, commands.CommandLogger(nil, "pages"))

	if err := handler.Execute(context.Background(), ExtendPageCommand{PageID: page.ID, Hours: 48}); err != nil {
		t.Fatalf("extend: %v", err)
	}
	stored, err := lifecycle.Get(context.Background(), page.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if want := handlerNow.Add(48 * time.Hour); stored.ExpiresAt == nil || !stored.ExpiresAt.Equal(want) {
		t.Fatalf("expected expiry %v, got %v", want, stored.ExpiresAt)
	}
}

func TestExtendPageHandlerValidationError(t *testing.T) {
	lifecycle, _ := newTestLifecycle(t)
	handler := NewExtendPageHandler(lifecycle, nil)

	err := handler.Execute(context.Background(), ExtendPageCommand{Hours: 0})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
}

func TestReactivateAndExpireHandlers(t *testing.T) {
	lifecycle, page := newTestLifecycle(t)
	ctx := context.Background()

	if err := NewExpirePageHandler(lifecycle, nil).Execute(ctx, ExpirePageCommand{PageID: page.ID}); err != nil {
		t.Fatalf("expire: %v", err)
	}
	expired, _ := lifecycle.Get(ctx, page.ID)
	if expired.Active || expired.ExpiredAt == nil {
		t.Fatalf("expected expired page, got %+v", expired)
	}

	reactivate := NewReactivatePageHandler(lifecycle, nil)
	err := reactivate.Execute(ctx, ReactivatePageCommand{PageID: page.ID, ExpiresAt: handlerNow.Add(-time.Minute)})
	if !errors.Is(err, pages.ErrExpiryInPast) {
		t.Fatalf("expected ErrExpiryInPast, got %v", err)
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}

	if err := reactivate.Execute(ctx, ReactivatePageCommand{PageID: page.ID, ExpiresAt: handlerNow.Add(24 * time.Hour)}); err != nil {
		t.Fatalf("reactivate: %v", err)
	}
	revived, _ := lifecycle.Get(ctx, page.ID)
	if !revived.Active || revived.ExpiredAt != nil || revived.ReactivatedAt == nil {
		t.Fatalf("expected reactivated page, got %+v", revived)
	}
}

func TestDeletePageHandler(t *testing.T) {
	lifecycle, page := newTestLifecycle(t)
	handler := NewDeletePageHandler(lifecycle, nil)
	ctx := context.Background()

	if err := handler.Execute(ctx, DeletePageCommand{PageID: page.ID}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := lifecycle.Get(ctx, page.ID); !errors.Is(err, pages.ErrPageNotFound) {
		t.Fatalf("expected page to be gone, got %v", err)
	}
	if err := handler.Execute(ctx, DeletePageCommand{PageID: page.ID}); !errors.Is(err, pages.ErrPageNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
	if err := handler.Execute(ctx, DeletePageCommand{}); !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation error for nil id, got %v", err)
	}
}

type processorFunc func(ctx context.Context) error

func (f processorFunc) Process(ctx context.Context) error { return f(ctx) }

func TestProcessExpirationsHandlerCron(t *testing.T) {
	calls := 0
	handler := NewProcessExpirationsHandler(processorFunc(func(context.Context) error {
		calls++
		return nil
	}), nil, ProcessWithCronExpression("@every 30s"))

	if got := handler.CronOptions().Expression; got != "@every 30s" {
		t.Fatalf("expected cron override, got %q", got)
	}
	if err := handler.CronHandler()(); err != nil {
		t.Fatalf("cron handler: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected one processor call, got %d", calls)
	}
	if path := handler.CLIOptions().Path; len(path) != 2 || path[1] != "process-expirations" {
		t.Fatalf("unexpected cli path %v", path)
	}
}
