package pages_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-aipages/internal/identity"
	"github.com/goliatone/go-aipages/internal/notify"
	"github.com/goliatone/go-aipages/internal/pages"
	"github.com/goliatone/go-aipages/internal/scheduler"
	"github.com/goliatone/go-aipages/pkg/interfaces"
	"github.com/google/uuid"
)

type lifecycleFixture struct {
	lifecycle *pages.Lifecycle
	repo      *pages.MemoryPageRepository
	scheduler interfaces.Scheduler
	notifier  *notify.Memory
	now       *time.Time
}

func newLifecycleFixture(t *testing.T) *lifecycleFixture {
	t.Helper()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	fx := &lifecycleFixture{
		repo:      pages.NewMemoryPageRepository(),
		scheduler: scheduler.NewInMemory(scheduler.WithClock(clock)),
		notifier:  notify.NewMemory(),
		now:       &now,
	}
	fx.lifecycle = pages.NewLifecycle(fx.repo,
		pages.WithClock(func() time.Time { return *fx.now }),
		pages.WithScheduler(fx.scheduler),
		pages.WithNotifier(fx.notifier),
	)
	return fx
}

func (fx *lifecycleFixture) advance(d time.Duration) {
	*fx.now = fx.now.Add(d)
}

func (fx *lifecycleFixture) createUpdatePage(t *testing.T, businessID uuid.UUID, path string, ttl time.Duration) *pages.Page {
	t.Helper()
	expires := fx.now.Add(ttl)
	page, err := fx.lifecycle.Create(context.Background(), pages.CreatePageRequest{
		ID:         uuid.New(),
		BusinessID: businessID,
		Path:       path,
		Title:      "Happy hour",
		PageType:   "direct",
		ExpiresAt:  &expires,
	})
	if err != nil {
		t.Fatalf("create page: %v", err)
	}
	return page
}

func nextEvent(t *testing.T, ch <-chan notify.Event) notify.Event {
	t.Helper()
	select {
	case evt := <-ch:
		return evt
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for event")
	}
	return notify.Event{}
}

func TestLifecycleCreateSchedulesExpiry(t *testing.T) {
	fx := newLifecycleFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	businessID := uuid.New()

	events, err := fx.notifier.Subscribe(ctx, businessID)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	page := fx.createUpdatePage(t, businessID, "/us/tx/austin/casa-verde/happy-austin", 24*time.Hour)
	if !page.Active || page.ExpiredAt != nil {
		t.Fatalf("expected new page to be active, got %+v", page)
	}
	if got := fx.lifecycle.State(page); got != pages.StateActive {
		t.Fatalf("expected active state, got %q", got)
	}

	job, err := fx.scheduler.GetByKey(ctx, scheduler.PageExpireJobKey(page.ID))
	if err != nil {
		t.Fatalf("expected expiry job: %v", err)
	}
	if job.Type != scheduler.JobTypePageExpire || !job.RunAt.Equal(*page.ExpiresAt) {
		t.Fatalf("unexpected job %+v", job)
	}
	if job.Payload[scheduler.PayloadPageID] != page.ID.String() {
		t.Fatalf("unexpected payload %+v", job.Payload)
	}

	evt := nextEvent(t, events)
	if evt.Type != notify.EventPageCreated || evt.PageID != page.ID {
		t.Fatalf("unexpected event %+v", evt)
	}
}

func TestLifecycleCreateValidation(t *testing.T) {
	fx := newLifecycleFixture(t)
	ctx := context.Background()
	past := fx.now.Add(-time.Hour)

	cases := []struct {
		name string
		req  pages.CreatePageRequest
		want error
	}{
		{name: "business required", req: pages.CreatePageRequest{Path: "/a"}, want: pages.ErrBusinessRequired},
		{name: "path required", req: pages.CreatePageRequest{BusinessID: uuid.New(), Path: "  "}, want: pages.ErrPathRequired},
		{name: "expiry in past", req: pages.CreatePageRequest{BusinessID: uuid.New(), Path: "/a", PageType: "direct", ExpiresAt: &past}, want: pages.ErrExpiryInPast},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := fx.lifecycle.Create(ctx, tc.req); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestLifecycleSingleBusinessPage(t *testing.T) {
	fx := newLifecycleFixture(t)
	ctx := context.Background()
	businessID := uuid.New()

	page, err := fx.lifecycle.Create(ctx, pages.CreatePageRequest{
		BusinessID: businessID,
		Path:       "/us/tx/austin/casa-verde",
		Title:      "Casa Verde",
		PageType:   pages.PageTypeBusiness,
	})
	if err != nil {
		t.Fatalf("create business page: %v", err)
	}
	if page.ID != identity.BusinessPageUUID(businessID) {
		t.Fatalf("expected deterministic business page id")
	}
	if page.ExpiresAt != nil {
		t.Fatalf("business page should not expire")
	}

	_, err = fx.lifecycle.Create(ctx, pages.CreatePageRequest{
		BusinessID: businessID,
		Path:       "/us/tx/austin/casa-verde-2",
		PageType:   pages.PageTypeBusiness,
	})
	if !errors.Is(err, pages.ErrBusinessPageExists) {
		t.Fatalf("expected ErrBusinessPageExists, got %v", err)
	}

	refreshed, err := fx.lifecycle.UpsertBusinessPage(ctx, pages.CreatePageRequest{
		BusinessID: businessID,
		Title:      "Casa Verde Cantina",
		Score:      42,
	})
	if err != nil {
		t.Fatalf("upsert business page: %v", err)
	}
	if refreshed.ID != page.ID || refreshed.Title != "Casa Verde Cantina" || refreshed.Score != 42 {
		t.Fatalf("unexpected refreshed page %+v", refreshed)
	}
	if refreshed.Path != page.Path {
		t.Fatalf("expected path to be kept, got %q", refreshed.Path)
	}

	list, err := fx.lifecycle.ListByBusiness(ctx, businessID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected one business page, got %d", len(list))
	}
}

func TestLifecycleReactivate(t *testing.T) {
	fx := newLifecycleFixture(t)
	ctx := context.Background()
	page := fx.createUpdatePage(t, uuid.New(), "/us/tx/austin/casa-verde/happy-austin", time.Hour)

	fx.advance(2 * time.Hour)
	expired, err := fx.lifecycle.ExpireNow(ctx, page.ID)
	if err != nil {
		t.Fatalf("expire: %v", err)
	}
	if expired.Active || expired.ExpiredAt == nil {
		t.Fatalf("expected expired page, got %+v", expired)
	}

	past := fx.now.Add(-time.Minute)
	if _, err := fx.lifecycle.Reactivate(ctx, page.ID, past); !errors.Is(err, pages.ErrExpiryInPast) {
		t.Fatalf("expected ErrExpiryInPast, got %v", err)
	}
	unchanged, err := fx.lifecycle.Get(ctx, page.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if unchanged.Active || unchanged.ExpiredAt == nil || !unchanged.ExpiredAt.Equal(*expired.ExpiredAt) {
		t.Fatalf("expected page state unchanged after rejected reactivation, got %+v", unchanged)
	}

	future := fx.now.Add(72 * time.Hour)
	reactivated, err := fx.lifecycle.Reactivate(ctx, page.ID, future)
	if err != nil {
		t.Fatalf("reactivate: %v", err)
	}
	if !reactivated.Active || reactivated.ExpiredAt != nil {
		t.Fatalf("expected reactivated page to be visible, got %+v", reactivated)
	}
	if !reactivated.ExpiresAt.Equal(future) {
		t.Fatalf("expected expires_at %v, got %v", future, reactivated.ExpiresAt)
	}
	if got := fx.lifecycle.State(reactivated); got != pages.StateReactivated {
		t.Fatalf("expected reactivated state, got %q", got)
	}
	job, err := fx.scheduler.GetByKey(ctx, scheduler.PageExpireJobKey(page.ID))
	if err != nil || !job.RunAt.Equal(future) {
		t.Fatalf("expected rescheduled expiry job, got %+v err=%v", job, err)
	}
}

func TestLifecycleExtendIgnoresPreviousExpiry(t *testing.T) {
	fx := newLifecycleFixture(t)
	ctx := context.Background()

	for _, ttl := range []time.Duration{time.Hour, 30 * 24 * time.Hour} {
		page := fx.createUpdatePage(t, uuid.New(), "/p/"+ttl.String(), ttl)
		extended, err := fx.lifecycle.Extend(ctx, page.ID, 24)
		if err != nil {
			t.Fatalf("extend: %v", err)
		}
		want := fx.now.Add(24 * time.Hour)
		if diff := extended.ExpiresAt.Sub(want); diff < -time.Second || diff > time.Second {
			t.Fatalf("expected expires_at near %v, got %v", want, extended.ExpiresAt)
		}
	}

	if _, err := fx.lifecycle.Extend(ctx, uuid.New(), 24); !errors.Is(err, pages.ErrPageNotFound) {
		t.Fatalf("expected ErrPageNotFound, got %v", err)
	}
	page := fx.createUpdatePage(t, uuid.New(), "/p/zero", time.Hour)
	if _, err := fx.lifecycle.Extend(ctx, page.ID, 0); !errors.Is(err, pages.ErrExtendHoursInvalid) {
		t.Fatalf("expected ErrExtendHoursInvalid, got %v", err)
	}
}

func TestLifecycleDeleteIsTerminal(t *testing.T) {
	fx := newLifecycleFixture(t)
	ctx := context.Background()
	page := fx.createUpdatePage(t, uuid.New(), "/p/delete", time.Hour)

	if err := fx.lifecycle.Delete(ctx, page.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := fx.scheduler.GetByKey(ctx, scheduler.PageExpireJobKey(page.ID)); !errors.Is(err, interfaces.ErrJobNotFound) {
		t.Fatalf("expected expiry job to be cancelled, got %v", err)
	}

	var notFound *pages.PageNotFoundError
	if err := fx.lifecycle.Delete(ctx, page.ID); !errors.As(err, &notFound) {
		t.Fatalf("expected PageNotFoundError on second delete, got %v", err)
	}
	if _, err := fx.lifecycle.ExpireNow(ctx, page.ID); !errors.Is(err, pages.ErrPageNotFound) {
		t.Fatalf("expected ErrPageNotFound on expire, got %v", err)
	}
	if _, err := fx.lifecycle.Reactivate(ctx, page.ID, fx.now.Add(time.Hour)); !errors.Is(err, pages.ErrPageNotFound) {
		t.Fatalf("expected ErrPageNotFound on reactivate, got %v", err)
	}
}

func TestLifecycleSweepAndResolve(t *testing.T) {
	fx := newLifecycleFixture(t)
	ctx := context.Background()
	businessID := uuid.New()

	short := fx.createUpdatePage(t, businessID, "/p/short", time.Hour)
	long := fx.createUpdatePage(t, businessID, "/p/long", 48*time.Hour)

	if _, err := fx.lifecycle.Resolve(ctx, "/p/short"); err != nil {
		t.Fatalf("expected short page visible: %v", err)
	}

	fx.advance(90 * time.Minute)
	if _, err := fx.lifecycle.Resolve(ctx, "/p/short"); !errors.Is(err, pages.ErrPageNotFound) {
		t.Fatalf("expected hidden page to resolve as not found, got %v", err)
	}

	count, err := fx.lifecycle.SweepExpired(ctx)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one page swept, got %d", count)
	}

	swept, _ := fx.lifecycle.Get(ctx, short.ID)
	if swept.Active || swept.ExpiredAt == nil {
		t.Fatalf("expected swept page to be expired, got %+v", swept)
	}
	kept, _ := fx.lifecycle.Get(ctx, long.ID)
	if !fx.lifecycle.Visible(kept) {
		t.Fatalf("expected long page to stay visible")
	}

	count, err = fx.lifecycle.SweepExpired(ctx)
	if err != nil || count != 0 {
		t.Fatalf("expected idempotent sweep, got %d err=%v", count, err)
	}
}

func TestLifecycleExpireIfDue(t *testing.T) {
	fx := newLifecycleFixture(t)
	ctx := context.Background()
	page := fx.createUpdatePage(t, uuid.New(), "/p/due", time.Hour)

	if _, expired, err := fx.lifecycle.ExpireIfDue(ctx, page.ID); err != nil || expired {
		t.Fatalf("expected not-yet-due page to be left alone, expired=%v err=%v", expired, err)
	}
	fx.advance(time.Hour)
	got, expired, err := fx.lifecycle.ExpireIfDue(ctx, page.ID)
	if err != nil || !expired {
		t.Fatalf("expected due page to expire, expired=%v err=%v", expired, err)
	}
	if !got.ExpiredAt.Equal(*fx.now) {
		t.Fatalf("expected expired_at %v, got %v", *fx.now, got.ExpiredAt)
	}
}
