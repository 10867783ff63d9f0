package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-aipages/internal/logging"
	"github.com/goliatone/go-aipages/internal/pages"
	aischeduler "github.com/goliatone/go-aipages/internal/scheduler"
	"github.com/goliatone/go-aipages/pkg/interfaces"
	"github.com/google/uuid"
)

// PageExpirer expires a page once its expiry is due. *pages.Lifecycle
// satisfies it.
type PageExpirer interface {
	ExpireIfDue(ctx context.Context, id uuid.UUID) (*pages.Page, bool, error)
	SweepExpired(ctx context.Context) (int, error)
}

// Worker drains due expiration jobs from the scheduler.
type Worker struct {
	scheduler interfaces.Scheduler
	pages     PageExpirer
	audit     AuditRecorder
	logger    interfaces.Logger
	now       func() time.Time
	batchSize int
	sweep     bool
}

type Option func(*Worker)

func WithAuditRecorder(recorder AuditRecorder) Option {
	return func(w *Worker) {
		w.audit = recorder
	}
}

func WithLogger(logger interfaces.Logger) Option {
	return func(w *Worker) {
		if logger != nil {
			w.logger = logger
		}
	}
}

func WithClock(clock func() time.Time) Option {
	return func(w *Worker) {
		if clock != nil {
			w.now = clock
		}
	}
}

func WithBatchSize(size int) Option {
	return func(w *Worker) {
		if size > 0 {
			w.batchSize = size
		}
	}
}

// WithSweep runs a reconciliation sweep after each batch of jobs, catching
// pages whose job was lost.
func WithSweep(enabled bool) Option {
	return func(w *Worker) {
		w.sweep = enabled
	}
}

func NewWorker(scheduler interfaces.Scheduler, expirer PageExpirer, opts ...Option) *Worker {
	w := &Worker{
		scheduler: scheduler,
		pages:     expirer,
		logger:    logging.NoOp(),
		now:       time.Now,
		batchSize: 50,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Process handles every job due at the current instant. Job failures are
// recorded on the job and do not abort the batch.
func (w *Worker) Process(ctx context.Context) error {
	if w.scheduler == nil {
		return errors.New("jobs: scheduler is nil")
	}
	if w.pages == nil {
		return errors.New("jobs: page expirer is nil")
	}
	deadline := w.now()
	due, err := w.scheduler.ListDue(ctx, deadline, w.batchSize)
	if err != nil {
		return err
	}
	for _, job := range due {
		if job == nil {
			continue
		}
		if err := w.handleJob(ctx, job, deadline); err != nil {
			w.logger.Warn("scheduler.job.failed", "job_id", job.ID, "job_type", job.Type, "error", err)
			_ = w.scheduler.MarkFailed(ctx, job.ID, err)
			continue
		}
		_ = w.scheduler.MarkDone(ctx, job.ID)
	}

	if w.sweep {
		if count, err := w.pages.SweepExpired(ctx); err != nil {
			return err
		} else if count > 0 {
			w.logger.Info("scheduler.sweep.expired", "count", count)
		}
	}
	return nil
}

// Run calls Process every interval until ctx is cancelled.
func (w *Worker) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if err := w.Process(ctx); err != nil && !errors.Is(err, context.Canceled) {
			w.logger.Error("scheduler.process.failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (w *Worker) handleJob(ctx context.Context, job *interfaces.Job, now time.Time) error {
	switch job.Type {
	case aischeduler.JobTypePageExpire:
		return w.processPageExpire(ctx, job, now)
	default:
		return nil
	}
}

func (w *Worker) processPageExpire(ctx context.Context, job *interfaces.Job, now time.Time) error {
	id, err := parsePageID(job)
	if err != nil {
		return err
	}
	page, expired, err := w.pages.ExpireIfDue(ctx, id)
	if err != nil {
		// A deleted page has nothing left to expire.
		if errors.Is(err, pages.ErrPageNotFound) {
			return nil
		}
		return err
	}
	if !expired {
		return nil
	}
	w.recordAudit(ctx, AuditEvent{
		PageID:     page.ID.String(),
		BusinessID: page.BusinessID.String(),
		Action:     "expire",
		OccurredAt: now,
		Metadata: map[string]any{
			"job_id":   job.ID,
			"job_type": job.Type,
			"run_at":   job.RunAt,
			"attempt":  job.Attempt,
		},
	})
	return nil
}

func (w *Worker) recordAudit(ctx context.Context, event AuditEvent) {
	if w.audit == nil {
		return
	}
	if err := w.audit.Record(ctx, event); err != nil {
		w.logger.Warn("scheduler.audit.failed", "page_id", event.PageID, "error", err)
	}
}

// parsePageID reads the page id from the payload and falls back to the job key.
func parsePageID(job *interfaces.Job) (uuid.UUID, error) {
	if raw, ok := job.Payload[aischeduler.PayloadPageID]; ok {
		str, ok := raw.(string)
		if !ok {
			return uuid.Nil, fmt.Errorf("jobs: invalid %s payload", aischeduler.PayloadPageID)
		}
		return uuid.Parse(str)
	}
	if id, ok := aischeduler.ParsePageExpireJobKey(job.Key); ok {
		return id, nil
	}
	return uuid.Nil, fmt.Errorf("jobs: payload missing %s", aischeduler.PayloadPageID)
}
