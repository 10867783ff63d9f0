package aipages

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/goliatone/go-aipages/internal/batches"
	"github.com/goliatone/go-aipages/internal/business"
	batchescmd "github.com/goliatone/go-aipages/internal/commands/batches"
	pagescmd "github.com/goliatone/go-aipages/internal/commands/pages"
	"github.com/goliatone/go-aipages/internal/di"
	aihttp "github.com/goliatone/go-aipages/internal/http"
	"github.com/goliatone/go-aipages/internal/jobs"
	"github.com/goliatone/go-aipages/internal/logging"
	"github.com/goliatone/go-aipages/internal/notify"
	"github.com/goliatone/go-aipages/internal/pages"
	"github.com/goliatone/go-aipages/internal/siteinfo"
	"github.com/google/uuid"
)

// Business exports the business profile record.
type Business = business.Record

// Update exports the business update that seeds a batch.
type Update = business.Update

// Page exports the generated page model.
type Page = pages.Page

// PageState exports the derived lifecycle state.
type PageState = pages.State

// Batch exports a pending group of drafts.
type Batch = batches.Batch

// Draft exports one unpublished page variant.
type Draft = batches.Draft

// DraftEdit exports the editable draft fields.
type DraftEdit = batches.DraftEdit

// VariantTag exports the page intent tags.
type VariantTag = batches.VariantTag

// PublishResult exports the outcome of a publish.
type PublishResult = batches.PublishResult

// ContentWriter exports the writer port the coordinator drafts with.
type ContentWriter = batches.ContentWriter

// Testimonial exports the testimonial value used to enrich drafts.
type Testimonial = siteinfo.Testimonial

// Event exports the page change notification.
type Event = notify.Event

// Lifecycle exports the page lifecycle service.
type Lifecycle = *pages.Lifecycle

// Coordinator exports the batch publication coordinator.
type Coordinator = *batches.Coordinator

// Module represents the top level runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a module using the provided configuration and optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Close releases storage and redis handles opened by the module.
func (m *Module) Close() error {
	return m.container.Close()
}

// Pages returns the page lifecycle service.
func (m *Module) Pages() Lifecycle {
	return m.container.Lifecycle()
}

// Batches returns the batch publication coordinator.
func (m *Module) Batches() Coordinator {
	return m.container.Coordinator()
}

// Businesses returns the configured business repository.
func (m *Module) Businesses() business.Repository {
	return m.container.BusinessRepository()
}

// Updates returns the configured update repository.
func (m *Module) Updates() business.UpdateRepository {
	return m.container.UpdateRepository()
}

// Notifier returns the page change notifier.
func (m *Module) Notifier() notify.Notifier {
	return m.container.Notifier()
}

// Worker returns the expiration job worker.
func (m *Module) Worker() *jobs.Worker {
	return m.container.JobWorker()
}

// SaveBusiness creates or updates a business profile and refreshes its
// permanent page. A failed page refresh does not fail the save.
func (m *Module) SaveBusiness(ctx context.Context, record *Business) (*Business, *Page, error) {
	if record == nil {
		return nil, nil, business.ErrRecordRequired
	}
	if err := record.Validate(); err != nil {
		return nil, nil, err
	}
	repo := m.container.BusinessRepository()
	var (
		saved *Business
		err   error
	)
	if record.ID == uuid.Nil {
		saved, err = repo.Create(ctx, record)
	} else {
		saved, err = repo.Update(ctx, record)
	}
	if err != nil {
		return nil, nil, err
	}
	return saved, m.container.Coordinator().RegenerateBusinessPage(ctx, saved), nil
}

// UpdateRequest describes a business update to draft pages for.
type UpdateRequest struct {
	BusinessID  uuid.UUID
	Description string
	GoLiveAt    time.Time
	ExpiresAt   *time.Time
	// Variants defaults to Config.Batches.DefaultVariants when empty.
	Variants            []VariantTag
	UniqueSellingPoints []string
	Testimonials        []Testimonial
}

// SubmitUpdate stores a new update and drafts a batch of pages for it. The
// batch stays pending until Publish or Discard.
func (m *Module) SubmitUpdate(ctx context.Context, req UpdateRequest) (*Batch, error) {
	record, err := m.container.BusinessRepository().GetByID(ctx, req.BusinessID)
	if err != nil {
		return nil, err
	}
	variants := req.Variants
	if len(variants) == 0 {
		variants, err = batches.ParseVariants(m.container.Config.Batches.DefaultVariants)
		if err != nil {
			return nil, err
		}
	}
	update, err := business.NewUpdate(record.ID, req.Description, req.GoLiveAt, req.ExpiresAt, m.container.Lifecycle().Now())
	if err != nil {
		return nil, err
	}
	stored, err := m.container.UpdateRepository().Create(ctx, update)
	if err != nil {
		return nil, err
	}
	return m.container.Coordinator().Draft(ctx, batches.DraftRequest{
		Update:              stored,
		Business:            record,
		Variants:            variants,
		UniqueSellingPoints: req.UniqueSellingPoints,
		Testimonials:        req.Testimonials,
	})
}

// Publish confirms a pending batch.
func (m *Module) Publish(ctx context.Context, batchID uuid.UUID) (*PublishResult, error) {
	return m.container.Coordinator().Publish(ctx, batchID)
}

// Discard drops a pending batch. Its update returns to pending when no other
// batch for it is pending.
func (m *Module) Discard(ctx context.Context, batchID uuid.UUID) error {
	return m.container.Coordinator().Discard(ctx, batchID)
}

// ProcessExpirations runs one pass of the expiration worker.
func (m *Module) ProcessExpirations(ctx context.Context) error {
	return m.container.JobWorker().Process(ctx)
}

// RegisterHTTP mounts the admin API under /admin/api and the public JSON-LD
// routes at the root of mux.
func (m *Module) RegisterHTTP(mux *http.ServeMux) error {
	if m == nil || m.container == nil {
		return fmt.Errorf("aipages: module is not initialised")
	}
	logger := logging.HTTPLogger(m.container.LoggerProvider())
	lifecycle := m.container.Lifecycle()
	coordinator := m.container.Coordinator()

	admin := aihttp.NewAdminAPI(
		aihttp.WithAdminLogger(logger),
		aihttp.WithPageReader(lifecycle),
		aihttp.WithPageCommands(
			pagescmd.NewExtendPageHandler(lifecycle, logger),
			pagescmd.NewReactivatePageHandler(lifecycle, logger),
			pagescmd.NewExpirePageHandler(lifecycle, logger),
			pagescmd.NewDeletePageHandler(lifecycle, logger),
		),
		aihttp.WithBatchReader(coordinator),
		aihttp.WithBatchCommands(
			batchescmd.NewPublishBatchHandler(coordinator, logger),
			batchescmd.NewDiscardBatchHandler(coordinator, logger),
		),
	)
	if err := admin.Register(mux); err != nil {
		return err
	}
	return aihttp.NewPublicAPI(lifecycle, aihttp.WithPublicLogger(logger)).Register(mux)
}
