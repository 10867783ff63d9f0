package pages

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/goliatone/go-aipages/internal/identity"
	"github.com/goliatone/go-aipages/internal/logging"
	"github.com/goliatone/go-aipages/internal/notify"
	aischeduler "github.com/goliatone/go-aipages/internal/scheduler"
	"github.com/goliatone/go-aipages/pkg/interfaces"
	"github.com/google/uuid"
)

// CreatePageRequest captures the fields required to persist a generated page.
type CreatePageRequest struct {
	ID             uuid.UUID
	BusinessID     uuid.UUID
	UpdateID       *uuid.UUID
	BatchID        *uuid.UUID
	Path           string
	Title          string
	PageType       string
	StructuredData map[string]any
	Score          int
	ExpiresAt      *time.Time
}

// LifecycleOption configures the lifecycle service at construction time.
type LifecycleOption func(*Lifecycle)

// WithClock overrides the clock used for expiry arithmetic.
func WithClock(clock func() time.Time) LifecycleOption {
	return func(l *Lifecycle) {
		if clock != nil {
			l.now = clock
		}
	}
}

// WithScheduler registers expiration jobs with the supplied scheduler.
func WithScheduler(scheduler interfaces.Scheduler) LifecycleOption {
	return func(l *Lifecycle) {
		if scheduler != nil {
			l.scheduler = scheduler
		}
	}
}

// WithNotifier publishes change events through notifier.
func WithNotifier(notifier notify.Notifier) LifecycleOption {
	return func(l *Lifecycle) {
		if notifier != nil {
			l.notifier = notifier
		}
	}
}

func WithLogger(logger interfaces.Logger) LifecycleOption {
	return func(l *Lifecycle) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithExpiringSoonWindow overrides DefaultExpiringSoonWindow.
func WithExpiringSoonWindow(window time.Duration) LifecycleOption {
	return func(l *Lifecycle) {
		if window > 0 {
			l.window = window
		}
	}
}

// WithSweepBatchSize bounds how many pages a single sweep expires.
func WithSweepBatchSize(size int) LifecycleOption {
	return func(l *Lifecycle) {
		if size > 0 {
			l.sweepBatch = size
		}
	}
}

// Lifecycle governs visibility and expiration of generated pages.
type Lifecycle struct {
	pages      PageRepository
	scheduler  interfaces.Scheduler
	notifier   notify.Notifier
	logger     interfaces.Logger
	now        func() time.Time
	window     time.Duration
	sweepBatch int
}

// NewLifecycle constructs the lifecycle service over repo.
func NewLifecycle(repo PageRepository, opts ...LifecycleOption) *Lifecycle {
	l := &Lifecycle{
		pages:      repo,
		scheduler:  aischeduler.NewNoOp(),
		notifier:   notify.NewNoOp(),
		logger:     logging.NoOp(),
		now:        time.Now,
		window:     DefaultExpiringSoonWindow,
		sweepBatch: 100,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Now returns the service clock reading in UTC.
func (l *Lifecycle) Now() time.Time {
	return l.now().UTC()
}

// Create persists a new active page and schedules its expiration.
func (l *Lifecycle) Create(ctx context.Context, req CreatePageRequest) (*Page, error) {
	if req.BusinessID == uuid.Nil {
		return nil, ErrBusinessRequired
	}
	path := strings.TrimSpace(req.Path)
	if path == "" {
		return nil, ErrPathRequired
	}
	now := l.Now()
	if req.ExpiresAt != nil && !req.ExpiresAt.After(now) {
		return nil, ErrExpiryInPast
	}

	pageType := strings.TrimSpace(req.PageType)
	if pageType == "" {
		pageType = PageTypeBusiness
	}
	id := req.ID
	if pageType == PageTypeBusiness {
		id = identity.BusinessPageUUID(req.BusinessID)
	}

	record := &Page{
		ID:             id,
		BusinessID:     req.BusinessID,
		UpdateID:       cloneUUIDPointer(req.UpdateID),
		BatchID:        cloneUUIDPointer(req.BatchID),
		Path:           path,
		Title:          strings.TrimSpace(req.Title),
		PageType:       pageType,
		StructuredData: cloneMap(req.StructuredData),
		Score:          req.Score,
		Active:         true,
		ExpiresAt:      cloneTimePointer(req.ExpiresAt),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	created, err := l.pages.Create(ctx, record)
	if err != nil {
		if pageType == PageTypeBusiness && errors.Is(err, ErrPageExists) {
			return nil, ErrBusinessPageExists
		}
		return nil, err
	}

	l.scheduleExpiry(ctx, created)
	l.publish(ctx, notify.EventPageCreated, created)
	l.pageLogger(created).Info("pages.lifecycle.create", "path", created.Path)
	return created, nil
}

// UpsertBusinessPage creates the permanent business page or refreshes its
// content in place. Lifecycle columns of an existing page are preserved.
func (l *Lifecycle) UpsertBusinessPage(ctx context.Context, req CreatePageRequest) (*Page, error) {
	if req.BusinessID == uuid.Nil {
		return nil, ErrBusinessRequired
	}
	existing, err := l.pages.GetByID(ctx, identity.BusinessPageUUID(req.BusinessID))
	if err != nil {
		if !errors.Is(err, ErrPageNotFound) {
			return nil, err
		}
		req.PageType = PageTypeBusiness
		req.UpdateID = nil
		req.BatchID = nil
		req.ExpiresAt = nil
		return l.Create(ctx, req)
	}

	if path := strings.TrimSpace(req.Path); path != "" {
		existing.Path = path
	}
	if title := strings.TrimSpace(req.Title); title != "" {
		existing.Title = title
	}
	if req.StructuredData != nil {
		existing.StructuredData = cloneMap(req.StructuredData)
	}
	existing.Score = req.Score
	existing.UpdatedAt = l.Now()

	updated, err := l.pages.Update(ctx, existing)
	if err != nil {
		return nil, err
	}
	l.pageLogger(updated).Debug("pages.lifecycle.refresh_business_page")
	return updated, nil
}

// Get returns the page or a *PageNotFoundError.
func (l *Lifecycle) Get(ctx context.Context, id uuid.UUID) (*Page, error) {
	return l.pages.GetByID(ctx, id)
}

func (l *Lifecycle) GetByPath(ctx context.Context, path string) (*Page, error) {
	return l.pages.GetByPath(ctx, strings.TrimSpace(path))
}

// ListByBusiness returns a business's pages, newest first.
func (l *Lifecycle) ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]*Page, error) {
	if businessID == uuid.Nil {
		return nil, ErrBusinessRequired
	}
	return l.pages.ListByBusiness(ctx, businessID)
}

// Resolve returns the page mounted at path only while it is visible.
// Hidden pages are reported as not found.
func (l *Lifecycle) Resolve(ctx context.Context, path string) (*Page, error) {
	page, err := l.GetByPath(ctx, path)
	if err != nil {
		return nil, err
	}
	if !l.Visible(page) {
		return nil, &PageNotFoundError{Key: page.Path}
	}
	return page, nil
}

// Visible applies IsVisible with the service clock.
func (l *Lifecycle) Visible(page *Page) bool {
	return IsVisible(page, l.Now())
}

// State derives the page state with the service clock and window.
func (l *Lifecycle) State(page *Page) State {
	return StateOf(page, l.Now(), l.window)
}

// Reactivate makes an expired page visible again until newExpiry. A
// newExpiry at or before now is rejected and leaves the page unchanged.
func (l *Lifecycle) Reactivate(ctx context.Context, id uuid.UUID, newExpiry time.Time) (*Page, error) {
	page, err := l.pages.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	now := l.Now()
	if !newExpiry.After(now) {
		return nil, ErrExpiryInPast
	}

	expires := newExpiry.UTC()
	page.ExpiresAt = &expires
	page.ExpiredAt = nil
	page.Active = true
	page.ReactivatedAt = &now
	page.UpdatedAt = now

	updated, err := l.pages.Update(ctx, page)
	if err != nil {
		return nil, err
	}
	l.scheduleExpiry(ctx, updated)
	l.publish(ctx, notify.EventPageReactivated, updated)
	l.pageLogger(updated).Info("pages.lifecycle.reactivate", "expires_at", expires)
	return updated, nil
}

// Extend moves the expiration to now + hours regardless of its previous value.
func (l *Lifecycle) Extend(ctx context.Context, id uuid.UUID, hours int) (*Page, error) {
	if hours <= 0 {
		return nil, ErrExtendHoursInvalid
	}
	page, err := l.pages.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	now := l.Now()
	expires := now.Add(time.Duration(hours) * time.Hour)
	page.ExpiresAt = &expires
	page.UpdatedAt = now

	updated, err := l.pages.Update(ctx, page)
	if err != nil {
		return nil, err
	}
	l.scheduleExpiry(ctx, updated)
	l.publish(ctx, notify.EventPageExtended, updated)
	l.pageLogger(updated).Info("pages.lifecycle.extend", "hours", hours, "expires_at", expires)
	return updated, nil
}

// ExpireNow hides the page immediately. Expiring an already expired page
// keeps its original ExpiredAt.
func (l *Lifecycle) ExpireNow(ctx context.Context, id uuid.UUID) (*Page, error) {
	page, err := l.pages.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return l.expire(ctx, page)
}

// ExpireIfDue expires the page only once its expires_at has passed. The
// boolean reports whether the page was expired by this call.
func (l *Lifecycle) ExpireIfDue(ctx context.Context, id uuid.UUID) (*Page, bool, error) {
	page, err := l.pages.GetByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if page.ExpiredAt != nil || !IsExpired(page.ExpiresAt, l.Now()) {
		return page, false, nil
	}
	expired, err := l.expire(ctx, page)
	if err != nil {
		return nil, false, err
	}
	return expired, true, nil
}

// SweepExpired marks every page whose expiry passed but that was never
// flagged as expired. It returns the number of pages expired.
func (l *Lifecycle) SweepExpired(ctx context.Context) (int, error) {
	due, err := l.pages.ListExpirable(ctx, l.Now(), l.sweepBatch)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, page := range due {
		if err := ctx.Err(); err != nil {
			return count, err
		}
		if _, err := l.expire(ctx, page); err != nil {
			if errors.Is(err, ErrPageNotFound) {
				continue
			}
			return count, err
		}
		count++
	}
	if count > 0 {
		l.logger.Info("pages.lifecycle.sweep", "expired", count)
	}
	return count, nil
}

// Delete permanently removes the page. Deleting a missing page fails with
// a *PageNotFoundError.
func (l *Lifecycle) Delete(ctx context.Context, id uuid.UUID) error {
	page, err := l.pages.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := l.pages.Delete(ctx, id); err != nil {
		return err
	}
	l.cancelExpiry(ctx, page)
	l.publish(ctx, notify.EventPageDeleted, page)
	l.pageLogger(page).Info("pages.lifecycle.delete")
	return nil
}

func (l *Lifecycle) expire(ctx context.Context, page *Page) (*Page, error) {
	if page.ExpiredAt != nil && !page.Active {
		return page, nil
	}
	now := l.Now()
	page.Active = false
	if page.ExpiredAt == nil {
		page.ExpiredAt = &now
	}
	page.UpdatedAt = now

	updated, err := l.pages.Update(ctx, page)
	if err != nil {
		return nil, err
	}
	l.cancelExpiry(ctx, updated)
	l.publish(ctx, notify.EventPageExpired, updated)
	l.pageLogger(updated).Info("pages.lifecycle.expire")
	return updated, nil
}

func (l *Lifecycle) scheduleExpiry(ctx context.Context, page *Page) {
	if page.ExpiresAt == nil || !page.Active {
		l.cancelExpiry(ctx, page)
		return
	}
	_, err := l.scheduler.Enqueue(ctx, interfaces.JobSpec{
		Key:   aischeduler.PageExpireJobKey(page.ID),
		Type:  aischeduler.JobTypePageExpire,
		RunAt: *page.ExpiresAt,
		Payload: map[string]any{
			aischeduler.PayloadPageID:     page.ID.String(),
			aischeduler.PayloadBusinessID: page.BusinessID.String(),
		},
	})
	if err != nil {
		l.pageLogger(page).Warn("pages.lifecycle.schedule_failed", "error", err)
	}
}

func (l *Lifecycle) cancelExpiry(ctx context.Context, page *Page) {
	err := l.scheduler.CancelByKey(ctx, aischeduler.PageExpireJobKey(page.ID))
	if err != nil && !errors.Is(err, interfaces.ErrJobNotFound) {
		l.pageLogger(page).Warn("pages.lifecycle.cancel_failed", "error", err)
	}
}

func (l *Lifecycle) publish(ctx context.Context, eventType notify.EventType, page *Page) {
	err := l.notifier.Publish(ctx, notify.Event{
		Type:       eventType,
		BusinessID: page.BusinessID,
		PageID:     page.ID,
		At:         l.Now(),
	})
	if err != nil {
		l.pageLogger(page).Warn("pages.lifecycle.notify_failed", "event", eventType, "error", err)
	}
}

func (l *Lifecycle) pageLogger(page *Page) interfaces.Logger {
	return logging.WithPageContext(l.logger, page.ID, page.BusinessID, page.PageType)
}
