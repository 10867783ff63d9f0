package batches

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-aipages/internal/business"
	"github.com/goliatone/go-aipages/internal/identity"
	"github.com/goliatone/go-aipages/internal/logging"
	"github.com/goliatone/go-aipages/internal/pages"
	"github.com/goliatone/go-aipages/internal/routes"
	"github.com/goliatone/go-aipages/internal/scoring"
	"github.com/goliatone/go-aipages/internal/siteinfo"
	"github.com/goliatone/go-aipages/internal/slugs"
	"github.com/goliatone/go-aipages/internal/structured"
	"github.com/goliatone/go-aipages/internal/urls"
	"github.com/goliatone/go-aipages/pkg/interfaces"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	draftValidationCode = "BATCH_DRAFT_INVALID"
	writerFailedCode    = "CONTENT_WRITER_FAILED"
)

// PageService is the lifecycle surface the coordinator publishes through.
// *pages.Lifecycle satisfies it.
type PageService interface {
	Create(ctx context.Context, req pages.CreatePageRequest) (*pages.Page, error)
	Get(ctx context.Context, id uuid.UUID) (*pages.Page, error)
	Delete(ctx context.Context, id uuid.UUID) error
	UpsertBusinessPage(ctx context.Context, req pages.CreatePageRequest) (*pages.Page, error)
}

// Option configures the coordinator at construction time.
type Option func(*Coordinator)

// WithUpdateRepository persists update status transitions.
func WithUpdateRepository(repo business.UpdateRepository) Option {
	return func(c *Coordinator) {
		c.updates = repo
	}
}

func WithLogger(logger interfaces.Logger) Option {
	return func(c *Coordinator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func WithClock(clock func() time.Time) Option {
	return func(c *Coordinator) {
		if clock != nil {
			c.now = clock
		}
	}
}

// WithMaxConcurrency bounds concurrent writer calls. Zero or less means one
// call per variant at once.
func WithMaxConcurrency(limit int) Option {
	return func(c *Coordinator) {
		c.maxConcurrency = limit
	}
}

func WithPartialFailurePolicy(policy PartialFailurePolicy) Option {
	return func(c *Coordinator) {
		if policy == FailOpen || policy == FailClosed {
			c.policy = policy
		}
	}
}

func WithURLGenerator(generator *urls.Generator) Option {
	return func(c *Coordinator) {
		if generator != nil {
			c.urls = generator
		}
	}
}

func WithRouteBuilder(builder *routes.Builder) Option {
	return func(c *Coordinator) {
		if builder != nil {
			c.routes = builder
		}
	}
}

// Coordinator drafts page variants for an update and publishes them once
// confirmed. Batches live in memory only.
type Coordinator struct {
	writer         ContentWriter
	pages          PageService
	updates        business.UpdateRepository
	urls           *urls.Generator
	routes         *routes.Builder
	logger         interfaces.Logger
	now            func() time.Time
	maxConcurrency int
	policy         PartialFailurePolicy

	mu               sync.Mutex
	batches          map[uuid.UUID]*batchState
	published        map[uuid.UUID]struct{}
	publishedUpdates map[uuid.UUID]struct{}
	publishing       map[uuid.UUID]uuid.UUID
}

// NewCoordinator wires the coordinator. writer and pageService are required.
func NewCoordinator(writer ContentWriter, pageService PageService, opts ...Option) (*Coordinator, error) {
	if writer == nil {
		return nil, ErrWriterRequired
	}
	if pageService == nil {
		return nil, ErrPagesRequired
	}
	c := &Coordinator{
		writer:           writer,
		pages:            pageService,
		logger:           logging.NoOp(),
		now:              time.Now,
		policy:           FailOpen,
		batches:          make(map[uuid.UUID]*batchState),
		published:        make(map[uuid.UUID]struct{}),
		publishedUpdates: make(map[uuid.UUID]struct{}),
		publishing:       make(map[uuid.UUID]uuid.UUID),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.urls == nil {
		c.urls = urls.NewGenerator(urls.WithClock(c.now))
	}
	if c.routes == nil {
		c.routes = routes.NewBuilder("")
	}
	return c, nil
}

// Draft calls the writer once per variant and waits for every call. Failed
// variants are kept on the batch as Failures; when all of them fail the
// update is marked failed and the first writer error is returned. The update
// stays processing while any of its batches is pending.
func (c *Coordinator) Draft(ctx context.Context, req DraftRequest) (*Batch, error) {
	if err := validateDraftRequest(req); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "batch draft request is invalid").
			WithTextCode(draftValidationCode)
	}

	now := c.now().UTC()
	update, err := c.currentUpdate(ctx, req.Update)
	if err != nil {
		return nil, err
	}
	if update.Status == business.UpdateStatusCompleted || c.updatePublished(update.ID) {
		return nil, ErrUpdatePublished
	}
	if update.Status != business.UpdateStatusProcessing {
		if err := update.StartProcessing(now); err != nil {
			return nil, err
		}
		c.saveUpdate(ctx, &update)
	}

	record := *req.Business
	location := locationOf(&record)
	profile, _ := siteinfo.FromRecord(&record).Build().Business()

	results := make([]WriteResult, len(req.Variants))
	failures := make([]error, len(req.Variants))
	var group errgroup.Group
	if c.maxConcurrency > 0 {
		group.SetLimit(c.maxConcurrency)
	}
	for i, variant := range req.Variants {
		group.Go(func() error {
			results[i], failures[i] = c.writer.Write(ctx, WriteRequest{
				UpdateText: update.Description,
				Business:   profile,
				Location:   location,
				Variant:    variant,
			})
			return nil
		})
	}
	_ = group.Wait()

	state := &batchState{
		batch: Batch{
			ID:         uuid.New(),
			UpdateID:   update.ID,
			BusinessID: record.ID,
			CreatedAt:  now,
		},
		update: &update,
		record: &record,
		usps:   append([]string(nil), req.UniqueSellingPoints...),
	}
	logger := logging.WithFields(c.logger, map[string]any{
		"batch_id":    state.batch.ID.String(),
		"update_id":   update.ID.String(),
		"business_id": record.ID.String(),
	})

	used := make(map[string]struct{})
	for i, variant := range req.Variants {
		if failures[i] != nil {
			logger.Warn("batches.draft.writer_failed", "variant", variant, "error", failures[i])
			state.batch.Failures = append(state.batch.Failures, VariantFailure{Variant: variant, Err: failures[i]})
			continue
		}
		result := results[i]
		draft := Draft{
			Variant:      variant,
			Title:        strings.TrimSpace(result.Title),
			Description:  strings.TrimSpace(result.Description),
			PageType:     draftPageType(result.PageType, variant),
			Highlights:   result.Highlights,
			FAQs:         result.FAQs,
			Keywords:     result.Keywords,
			Testimonials: append(append([]siteinfo.Testimonial(nil), req.Testimonials...), result.Testimonials...),
		}
		if path := strings.Trim(strings.TrimSpace(result.Path), "/"); path != "" {
			draft.Slug = slugs.Slugify(path[strings.LastIndex(path, "/")+1:])
		}
		if err := c.rebuild(state, &draft, i, used); err != nil {
			logger.Warn("batches.draft.assemble_failed", "variant", variant, "error", err)
			state.batch.Failures = append(state.batch.Failures, VariantFailure{Variant: variant, Err: err})
			continue
		}
		used[draft.Slug] = struct{}{}
		state.batch.Drafts = append(state.batch.Drafts, draft)
	}

	if len(state.batch.Drafts) == 0 {
		cause := state.batch.Failures[0].Err
		if !c.hasPendingBatch(update.ID) {
			if err := update.Fail(cause.Error(), c.now().UTC()); err == nil {
				c.saveUpdate(ctx, &update)
			}
		}
		logger.Error("batches.draft.failed", "error", cause)
		return nil, goerrors.Wrap(fmt.Errorf("%w: %w", ErrContentWriterFailed, cause), goerrors.CategoryExternal, cause.Error()).
			WithTextCode(writerFailedCode)
	}

	state.batch.DeclaredTotal = len(state.batch.Drafts)
	c.mu.Lock()
	c.batches[state.batch.ID] = state
	snapshot := state.snapshot()
	c.mu.Unlock()

	logger.Info("batches.draft.created", "drafts", len(snapshot.Drafts), "failures", len(snapshot.Failures))
	return snapshot, nil
}

// Get returns a copy of a pending batch.
func (c *Coordinator) Get(batchID uuid.UUID) (*Batch, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	state, err := c.pendingLocked(batchID)
	if err != nil {
		return nil, err
	}
	return state.snapshot(), nil
}

// UpdateDraft applies edit to the draft at index and regenerates its slug
// candidates, structured data and score.
func (c *Coordinator) UpdateDraft(batchID uuid.UUID, index int, edit DraftEdit) (*Batch, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	state, err := c.editableLocked(batchID, index)
	if err != nil {
		return nil, err
	}

	draft := cloneDraft(state.batch.Drafts[index])
	if edit.Title != nil {
		draft.Title = strings.TrimSpace(*edit.Title)
	}
	if edit.Description != nil {
		draft.Description = strings.TrimSpace(*edit.Description)
	}
	if edit.Slug != nil {
		draft.Slug = ""
		if trimmed := strings.TrimSpace(*edit.Slug); trimmed != "" {
			draft.Slug = slugs.Slugify(trimmed)
		}
	}
	if edit.Highlights != nil {
		draft.Highlights = append([]string(nil), (*edit.Highlights)...)
	}
	if edit.FAQs != nil {
		draft.FAQs = append([]siteinfo.FAQ(nil), (*edit.FAQs)...)
	}
	if edit.Keywords != nil {
		draft.Keywords = append([]string(nil), (*edit.Keywords)...)
	}
	if edit.Testimonials != nil {
		draft.Testimonials = append([]siteinfo.Testimonial(nil), (*edit.Testimonials)...)
	}

	if err := c.rebuild(state, &draft, index, usedSlugs(state, index)); err != nil {
		return nil, err
	}
	state.batch.Drafts[index] = draft
	return state.snapshot(), nil
}

// Regenerate re-runs slug generation, structured data assembly and scoring
// on the draft at index without changing its content.
func (c *Coordinator) Regenerate(batchID uuid.UUID, index int) (*Batch, error) {
	return c.UpdateDraft(batchID, index, DraftEdit{})
}

// RemoveDraft drops the draft at index and decrements the declared total.
func (c *Coordinator) RemoveDraft(batchID uuid.UUID, index int) (*Batch, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	state, err := c.editableLocked(batchID, index)
	if err != nil {
		return nil, err
	}
	state.batch.Drafts = append(state.batch.Drafts[:index], state.batch.Drafts[index+1:]...)
	state.batch.DeclaredTotal--
	return state.snapshot(), nil
}

// Discard drops a pending batch. No pages exist for it yet; when it was the
// update's last pending batch the update is released back to pending.
func (c *Coordinator) Discard(ctx context.Context, batchID uuid.UUID) error {
	c.mu.Lock()
	state, err := c.pendingLocked(batchID)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	if state.publishing {
		c.mu.Unlock()
		return ErrBatchAlreadyPublished
	}
	delete(c.batches, batchID)
	updateID := state.batch.UpdateID
	_, published := c.publishedUpdates[updateID]
	release := !published && !c.hasPendingLocked(updateID)
	update := *state.update
	c.mu.Unlock()

	if release {
		c.releaseUpdate(ctx, &update)
	}
	return nil
}

// Publish persists every remaining draft as a page sharing the batch and
// update ids. A publish that stops partway returns *PartialPublishError and
// applies the configured PartialFailurePolicy. Retrying a FailOpen batch
// skips the pages that already exist.
func (c *Coordinator) Publish(ctx context.Context, batchID uuid.UUID) (*PublishResult, error) {
	c.mu.Lock()
	state, err := c.pendingLocked(batchID)
	if err != nil {
		c.mu.Unlock()
		return nil, err
	}
	if state.publishing {
		c.mu.Unlock()
		return nil, ErrBatchAlreadyPublished
	}
	if _, done := c.publishedUpdates[state.batch.UpdateID]; done {
		c.mu.Unlock()
		return nil, ErrUpdatePublished
	}
	if owner, busy := c.publishing[state.batch.UpdateID]; busy && owner != batchID {
		c.mu.Unlock()
		return nil, ErrBatchAlreadyPublished
	}
	if len(state.batch.Drafts) == 0 {
		c.mu.Unlock()
		return nil, ErrBatchEmpty
	}
	state.publishing = true
	c.publishing[state.batch.UpdateID] = batchID
	snapshot := state.snapshot()
	requested := *state.update
	c.mu.Unlock()

	update, err := c.currentUpdate(ctx, &requested)
	if err == nil && update.Status == business.UpdateStatusCompleted {
		err = ErrUpdatePublished
	}
	if err != nil {
		c.mu.Lock()
		state.publishing = false
		delete(c.publishing, state.batch.UpdateID)
		c.mu.Unlock()
		return nil, err
	}

	logger := logging.WithFields(c.logger, map[string]any{
		"batch_id":  batchID.String(),
		"update_id": update.ID.String(),
	})

	created := make([]uuid.UUID, 0, len(snapshot.Drafts))
	var failure error
	var failedPath string
	for i, draft := range snapshot.Drafts {
		if err := ctx.Err(); err != nil {
			failure, failedPath = err, draft.Path
			break
		}
		page, err := c.publishDraft(ctx, snapshot, &update, i, draft)
		if err != nil {
			failure, failedPath = err, draft.Path
			break
		}
		snapshot.Drafts[i].PageID = page.ID
		created = append(created, page.ID)
	}

	if failure != nil {
		return nil, c.handlePartialPublish(ctx, state, snapshot, created, failedPath, failure, logger)
	}

	now := c.now().UTC()
	if err := update.Complete(now); err != nil {
		logger.Warn("batches.publish.update_transition_failed", "error", err)
	} else {
		c.saveUpdate(ctx, &update)
	}

	c.mu.Lock()
	*state.update = update
	delete(c.batches, batchID)
	delete(c.publishing, update.ID)
	c.published[batchID] = struct{}{}
	c.publishedUpdates[update.ID] = struct{}{}
	c.mu.Unlock()

	logger.Info("batches.publish.completed", "pages", len(created))
	return &PublishResult{BatchID: batchID, UpdateID: update.ID, PageIDs: created}, nil
}

// RegenerateBusinessPage refreshes the permanent business page after a
// profile edit. Failures are logged and swallowed so the edit itself stands.
func (c *Coordinator) RegenerateBusinessPage(ctx context.Context, record *business.Record) *pages.Page {
	if record == nil {
		return nil
	}
	logger := logging.WithFields(c.logger, map[string]any{"business_id": record.ID.String()})

	info := siteinfo.FromRecord(record).Build()
	doc := structured.Assemble(info, record)
	if err := structured.Validate(doc); err != nil {
		logger.Warn("batches.business_page.invalid_document", "error", err)
		return nil
	}
	path, err := c.routes.Path(routes.SegmentsFor(locationOf(record), record.Name, ""))
	if err != nil {
		logger.Warn("batches.business_page.route_failed", "error", err)
		return nil
	}
	page, err := c.pages.UpsertBusinessPage(ctx, pages.CreatePageRequest{
		BusinessID:     record.ID,
		Path:           path,
		Title:          record.Name,
		PageType:       pages.PageTypeBusiness,
		StructuredData: doc,
		Score:          scoring.Score(info),
	})
	if err != nil {
		logger.Warn("batches.business_page.upsert_failed", "error", err)
		return nil
	}
	return page
}

func (c *Coordinator) publishDraft(ctx context.Context, batch *Batch, update *business.Update, index int, draft Draft) (*pages.Page, error) {
	if draft.PageID != uuid.Nil {
		if page, err := c.pages.Get(ctx, draft.PageID); err == nil {
			return page, nil
		}
	}
	batchID := batch.ID
	updateID := batch.UpdateID
	page, err := c.pages.Create(ctx, pages.CreatePageRequest{
		ID:             identity.PageUUID(batchID, index, draft.Path),
		BusinessID:     batch.BusinessID,
		UpdateID:       &updateID,
		BatchID:        &batchID,
		Path:           draft.Path,
		Title:          draft.Title,
		PageType:       draftPageType(draft.PageType, draft.Variant),
		StructuredData: draft.StructuredData,
		Score:          draft.Score,
		ExpiresAt:      update.ExpiresAt,
	})
	if errors.Is(err, pages.ErrPageExists) {
		return c.pages.Get(ctx, identity.PageUUID(batchID, index, draft.Path))
	}
	return page, err
}

func (c *Coordinator) handlePartialPublish(ctx context.Context, state *batchState, snapshot *Batch, created []uuid.UUID, failedPath string, failure error, logger interfaces.Logger) error {
	partial := &PartialPublishError{
		BatchID:    snapshot.ID,
		FailedPath: failedPath,
		Err:        failure,
	}

	if c.policy == FailClosed {
		var remaining []uuid.UUID
		for _, id := range created {
			if err := c.pages.Delete(ctx, id); err != nil && !errors.Is(err, pages.ErrPageNotFound) {
				logger.Error("batches.publish.rollback_failed", "page_id", id.String(), "error", err)
				remaining = append(remaining, id)
			}
		}
		partial.Created = remaining
		partial.RolledBack = len(remaining) == 0
		for i := range snapshot.Drafts {
			snapshot.Drafts[i].PageID = uuid.Nil
		}
	} else {
		partial.Created = created
	}

	c.mu.Lock()
	state.publishing = false
	delete(c.publishing, state.batch.UpdateID)
	for i := range state.batch.Drafts {
		if i < len(snapshot.Drafts) {
			state.batch.Drafts[i].PageID = snapshot.Drafts[i].PageID
		}
	}
	c.mu.Unlock()

	logger.Error("batches.publish.partial", "created", len(partial.Created), "policy", c.policy, "error", failure)
	return partial
}

// rebuild derives the slug, path, structured data and score of draft.
func (c *Coordinator) rebuild(state *batchState, draft *Draft, position int, used map[string]struct{}) error {
	record := state.record
	location := locationOf(record)
	draft.Candidates = c.urls.Generate(urls.Input{
		BusinessType:  record.Category,
		UpdateContent: state.update.Description,
		Location:      location.String(),
		Specialties:   record.Specialties,
		Keywords:      draft.Keywords,
	})
	if draft.Slug == "" {
		draft.Slug = pickSlug(draft.Candidates, position, draft.Variant, used)
	}
	if _, taken := used[draft.Slug]; taken {
		draft.Slug = uniqueSlug(slugs.Join(draft.Slug, string(draft.Variant)), used)
	}

	path, err := c.routes.Path(routes.SegmentsFor(location, record.Name, draft.Slug))
	if err != nil {
		return err
	}
	draft.Path = path

	builder := siteinfo.FromRecord(record).
		FromUpdate(state.update).
		WithPreview(siteinfo.Preview{
			Title:         draft.Title,
			Description:   draft.Description,
			Highlights:    draft.Highlights,
			SuggestedURLs: draft.Candidates.All(),
		}).
		WithFAQs(draft.FAQs...).
		WithTestimonials(draft.Testimonials...).
		WithKeywords(siteinfo.Keywords{Primary: draft.Keywords})
	if len(state.usps) > 0 {
		builder.WithCompetitive(siteinfo.Competitive{
			UniqueSellingPoints: state.usps,
			Specialties:         record.Specialties,
		})
	}
	info := builder.Build()

	doc := structured.Assemble(info, record)
	if err := structured.Validate(doc); err != nil {
		return err
	}
	draft.StructuredData = doc
	draft.Breakdown = scoring.Compute(info)
	draft.Score = draft.Breakdown.Total()
	return nil
}

func (c *Coordinator) pendingLocked(batchID uuid.UUID) (*batchState, error) {
	if _, done := c.published[batchID]; done {
		return nil, ErrBatchAlreadyPublished
	}
	state, ok := c.batches[batchID]
	if !ok {
		return nil, ErrBatchNotFound
	}
	return state, nil
}

func (c *Coordinator) editableLocked(batchID uuid.UUID, index int) (*batchState, error) {
	state, err := c.pendingLocked(batchID)
	if err != nil {
		return nil, err
	}
	if state.publishing {
		return nil, ErrBatchAlreadyPublished
	}
	if index < 0 || index >= len(state.batch.Drafts) {
		return nil, ErrDraftNotFound
	}
	return state, nil
}

// currentUpdate prefers the stored update over the caller's copy so status
// checks see transitions made by other batches.
func (c *Coordinator) currentUpdate(ctx context.Context, requested *business.Update) (business.Update, error) {
	if c.updates == nil {
		return *requested, nil
	}
	stored, err := c.updates.GetByID(ctx, requested.ID)
	switch {
	case err == nil:
		return *stored, nil
	case errors.Is(err, business.ErrUpdateNotFound):
		return *requested, nil
	default:
		return business.Update{}, err
	}
}

func (c *Coordinator) releaseUpdate(ctx context.Context, requested *business.Update) {
	update, err := c.currentUpdate(ctx, requested)
	if err != nil {
		c.logger.Warn("batches.update.release_failed", "update_id", requested.ID.String(), "error", err)
		return
	}
	if update.Status != business.UpdateStatusProcessing {
		return
	}
	if err := update.Release(c.now().UTC()); err != nil {
		c.logger.Warn("batches.update.release_failed", "update_id", update.ID.String(), "error", err)
		return
	}
	c.saveUpdate(ctx, &update)
}

func (c *Coordinator) updatePublished(updateID uuid.UUID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, done := c.publishedUpdates[updateID]
	return done
}

func (c *Coordinator) hasPendingBatch(updateID uuid.UUID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasPendingLocked(updateID)
}

func (c *Coordinator) hasPendingLocked(updateID uuid.UUID) bool {
	for _, state := range c.batches {
		if state.batch.UpdateID == updateID {
			return true
		}
	}
	return false
}

func (c *Coordinator) saveUpdate(ctx context.Context, update *business.Update) {
	if c.updates == nil {
		return
	}
	if _, err := c.updates.Update(ctx, update); err != nil {
		c.logger.Warn("batches.update.persist_failed", "update_id", update.ID.String(), "status", update.Status, "error", err)
	}
}

func validateDraftRequest(req DraftRequest) error {
	if err := validation.ValidateStruct(&req,
		validation.Field(&req.Update, validation.Required, validation.Skip),
		validation.Field(&req.Business, validation.Required, validation.Skip),
		validation.Field(&req.Variants, validation.Required),
	); err != nil {
		return err
	}
	if err := req.Business.Validate(); err != nil {
		return err
	}
	if err := req.Update.Validate(); err != nil {
		return err
	}
	if req.Update.BusinessID != req.Business.ID {
		return validation.Errors{"business_id": validation.NewError("validation_business_mismatch", "update belongs to a different business")}
	}
	return nil
}

// draftPageType keeps writer output out of the business profile slot, which
// only RegenerateBusinessPage fills.
func draftPageType(raw string, variant VariantTag) string {
	pageType := strings.TrimSpace(raw)
	if pageType == "" || strings.EqualFold(pageType, pages.PageTypeBusiness) {
		return string(variant)
	}
	return pageType
}

func locationOf(record *business.Record) slugs.Location {
	text := record.City + ", " + record.State
	if country := strings.TrimSpace(record.Country); country != "" {
		text += ", " + country
	}
	return slugs.ParseLocation(text)
}

func pickSlug(candidates urls.Candidates, position int, variant VariantTag, used map[string]struct{}) string {
	all := candidates.All()
	preferred := all[position%len(all)]
	if _, taken := used[preferred]; !taken {
		return preferred
	}
	for _, candidate := range all {
		if _, taken := used[candidate]; !taken {
			return candidate
		}
	}
	return uniqueSlug(slugs.Join(preferred, string(variant)), used)
}

func uniqueSlug(base string, used map[string]struct{}) string {
	slug := base
	for n := 2; ; n++ {
		if _, taken := used[slug]; !taken {
			return slug
		}
		slug = slugs.Join(base, strconv.Itoa(n))
	}
}

func usedSlugs(state *batchState, skip int) map[string]struct{} {
	used := make(map[string]struct{}, len(state.batch.Drafts))
	for i, draft := range state.batch.Drafts {
		if i != skip {
			used[draft.Slug] = struct{}{}
		}
	}
	return used
}
