// Package siteinfo holds the working structure shared by slug generation,
// structured data assembly and scoring. Info is immutable: build it with a
// Builder and read it through accessors that return copies.
package siteinfo

import (
	"time"

	"github.com/goliatone/go-aipages/internal/business"
)

// Business is the subset of a business profile needed for page content.
type Business struct {
	Name                  string
	Type                  string
	Description           string
	Street                string
	City                  string
	State                 string
	PostalCode            string
	Country               string
	Phone                 string
	Email                 string
	Website               string
	Hours                 string
	PriceRange            string
	ServiceArea           string
	Specialties           []string
	Services              []string
	PaymentMethods        []string
	AccessibilityFeatures []string
}

// Temporal is the update text and its validity window.
type Temporal struct {
	UpdateText string
	GoLiveAt   time.Time
	ExpiresAt  *time.Time
}

// Preview is the writer-produced summary shown before publishing.
type Preview struct {
	Title         string
	Description   string
	Highlights    []string
	SuggestedURLs []string
}

// Authority collects trust signals.
type Authority struct {
	Awards          []business.Award
	Certifications  []business.Award
	YearsInBusiness int
}

// Competitive collects differentiators.
type Competitive struct {
	UniqueSellingPoints []string
	Specialties         []string
}

// FAQ is a question with its direct answer.
type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Testimonial is a customer quote with a 1-5 rating.
type Testimonial struct {
	Author string  `json:"author"`
	Text   string  `json:"text"`
	Rating float64 `json:"rating"`
}

// Keywords are the AI optimisation keyword sets.
type Keywords struct {
	Primary  []string
	Semantic []string
}

// Info is the immutable union of profile, update and enrichment data.
type Info struct {
	business     *Business
	temporal     *Temporal
	preview      *Preview
	authority    *Authority
	competitive  *Competitive
	faqs         []FAQ
	testimonials []Testimonial
	keywords     Keywords
}

// Business returns a copy of the business sub-record.
func (i Info) Business() (Business, bool) {
	if i.business == nil {
		return Business{}, false
	}
	out := *i.business
	out.Specialties = cloneStrings(out.Specialties)
	out.Services = cloneStrings(out.Services)
	out.PaymentMethods = cloneStrings(out.PaymentMethods)
	out.AccessibilityFeatures = cloneStrings(out.AccessibilityFeatures)
	return out, true
}

// Temporal returns a copy of the temporal sub-record.
func (i Info) Temporal() (Temporal, bool) {
	if i.temporal == nil {
		return Temporal{}, false
	}
	out := *i.temporal
	out.ExpiresAt = cloneTime(out.ExpiresAt)
	return out, true
}

// Preview returns a copy of the preview sub-record.
func (i Info) Preview() (Preview, bool) {
	if i.preview == nil {
		return Preview{}, false
	}
	out := *i.preview
	out.Highlights = cloneStrings(out.Highlights)
	out.SuggestedURLs = cloneStrings(out.SuggestedURLs)
	return out, true
}

// Authority returns a copy of the authority sub-record.
func (i Info) Authority() (Authority, bool) {
	if i.authority == nil {
		return Authority{}, false
	}
	out := *i.authority
	out.Awards = append([]business.Award(nil), out.Awards...)
	out.Certifications = append([]business.Award(nil), out.Certifications...)
	return out, true
}

// Competitive returns a copy of the competitive sub-record.
func (i Info) Competitive() (Competitive, bool) {
	if i.competitive == nil {
		return Competitive{}, false
	}
	out := *i.competitive
	out.UniqueSellingPoints = cloneStrings(out.UniqueSellingPoints)
	out.Specialties = cloneStrings(out.Specialties)
	return out, true
}

func (i Info) FAQs() []FAQ {
	return append([]FAQ(nil), i.faqs...)
}

func (i Info) Testimonials() []Testimonial {
	return append([]Testimonial(nil), i.testimonials...)
}

func (i Info) Keywords() Keywords {
	return Keywords{
		Primary:  cloneStrings(i.keywords.Primary),
		Semantic: cloneStrings(i.keywords.Semantic),
	}
}

// UpdateText is a shortcut for the temporal update text.
func (i Info) UpdateText() string {
	if i.temporal == nil {
		return ""
	}
	return i.temporal.UpdateText
}

// With returns a Builder seeded with a copy of this Info so callers can
// derive a modified value without touching the original.
func (i Info) With() *Builder {
	b := NewBuilder()
	if biz, ok := i.Business(); ok {
		b.info.business = &biz
	}
	if temporal, ok := i.Temporal(); ok {
		b.info.temporal = &temporal
	}
	if preview, ok := i.Preview(); ok {
		b.info.preview = &preview
	}
	if authority, ok := i.Authority(); ok {
		b.info.authority = &authority
	}
	if competitive, ok := i.Competitive(); ok {
		b.info.competitive = &competitive
	}
	b.info.faqs = i.FAQs()
	b.info.testimonials = i.Testimonials()
	b.info.keywords = i.Keywords()
	return b
}

func cloneStrings(src []string) []string {
	if src == nil {
		return nil
	}
	return append([]string(nil), src...)
}

func cloneTime(src *time.Time) *time.Time {
	if src == nil {
		return nil
	}
	value := *src
	return &value
}
