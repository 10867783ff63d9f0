package batches

import (
	"slices"
	"time"

	"github.com/goliatone/go-aipages/internal/business"
	"github.com/goliatone/go-aipages/internal/scoring"
	"github.com/goliatone/go-aipages/internal/siteinfo"
	"github.com/goliatone/go-aipages/internal/structured"
	"github.com/goliatone/go-aipages/internal/urls"
	"github.com/google/uuid"
)

// Draft is one unpublished page variant.
type Draft struct {
	Variant        VariantTag
	Title          string
	Description    string
	Slug           string
	Path           string
	PageType       string
	Highlights     []string
	FAQs           []siteinfo.FAQ
	Keywords       []string
	Testimonials   []siteinfo.Testimonial
	Candidates     urls.Candidates
	StructuredData structured.Document
	Score          int
	Breakdown      scoring.Breakdown
	// PageID is set once the draft has been persisted by a publish attempt.
	PageID uuid.UUID
}

// DraftEdit changes draft fields before publication. Nil fields are kept.
type DraftEdit struct {
	Title        *string
	Description  *string
	Slug         *string
	Highlights   *[]string
	FAQs         *[]siteinfo.FAQ
	Keywords     *[]string
	Testimonials *[]siteinfo.Testimonial
}

// Batch is the transient group of drafts produced from a single update. It
// has no persisted footprint until it is published.
type Batch struct {
	ID            uuid.UUID
	UpdateID      uuid.UUID
	BusinessID    uuid.UUID
	DeclaredTotal int
	Drafts        []Draft
	Failures      []VariantFailure
	CreatedAt     time.Time
}

// DraftRequest asks for one draft per variant of update.
type DraftRequest struct {
	Update   *business.Update
	Business *business.Record
	Variants []VariantTag
	// UniqueSellingPoints and Testimonials enrich every draft.
	UniqueSellingPoints []string
	Testimonials        []siteinfo.Testimonial
}

// PublishResult lists the pages created for a batch.
type PublishResult struct {
	BatchID  uuid.UUID
	UpdateID uuid.UUID
	PageIDs  []uuid.UUID
}

type batchState struct {
	batch      Batch
	update     *business.Update
	record     *business.Record
	usps       []string
	publishing bool
}

func (s *batchState) snapshot() *Batch {
	out := s.batch
	out.Drafts = make([]Draft, len(s.batch.Drafts))
	for i, draft := range s.batch.Drafts {
		out.Drafts[i] = cloneDraft(draft)
	}
	out.Failures = slices.Clone(s.batch.Failures)
	return &out
}

func cloneDraft(d Draft) Draft {
	d.Highlights = slices.Clone(d.Highlights)
	d.FAQs = slices.Clone(d.FAQs)
	d.Keywords = slices.Clone(d.Keywords)
	d.Testimonials = slices.Clone(d.Testimonials)
	d.StructuredData = d.StructuredData.Clone()
	return d
}
