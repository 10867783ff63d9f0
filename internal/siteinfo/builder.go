package siteinfo

import (
	"strings"

	"github.com/goliatone/go-aipages/internal/business"
)

// Builder assembles an Info. It is not safe for concurrent use.
type Builder struct {
	info Info
}

func NewBuilder() *Builder {
	return &Builder{}
}

// FromRecord seeds the business, authority and competitive sub-records from a
// stored profile.
func FromRecord(record *business.Record) *Builder {
	b := NewBuilder()
	if record == nil {
		return b
	}
	b.WithBusiness(Business{
		Name:                  record.Name,
		Type:                  record.Category,
		Description:           record.Description,
		Street:                record.Street,
		City:                  record.City,
		State:                 record.State,
		PostalCode:            record.PostalCode,
		Country:               record.Country,
		Phone:                 record.Phone,
		Email:                 record.Email,
		Website:               record.Website,
		Hours:                 record.Hours,
		PriceRange:            record.PriceRange,
		ServiceArea:           serviceAreaText(record.ServiceArea),
		Specialties:           record.Specialties,
		Services:              record.Services,
		PaymentMethods:        record.PaymentMethods,
		AccessibilityFeatures: record.AccessibilityFeatures,
	})
	if len(record.Awards) > 0 || len(record.Certifications) > 0 || record.YearsInBusiness > 0 {
		b.WithAuthority(Authority{
			Awards:          record.Awards,
			Certifications:  record.Certifications,
			YearsInBusiness: record.YearsInBusiness,
		})
	}
	if len(record.Specialties) > 0 {
		b.WithCompetitive(Competitive{Specialties: record.Specialties})
	}
	return b
}

// FromUpdate adds the update text and validity window.
func (b *Builder) FromUpdate(update *business.Update) *Builder {
	if update == nil {
		return b
	}
	return b.WithTemporal(Temporal{
		UpdateText: update.Description,
		GoLiveAt:   update.GoLiveAt,
		ExpiresAt:  update.ExpiresAt,
	})
}

func (b *Builder) WithBusiness(value Business) *Builder {
	value.Specialties = cloneStrings(value.Specialties)
	value.Services = cloneStrings(value.Services)
	value.PaymentMethods = cloneStrings(value.PaymentMethods)
	value.AccessibilityFeatures = cloneStrings(value.AccessibilityFeatures)
	b.info.business = &value
	return b
}

func (b *Builder) WithTemporal(value Temporal) *Builder {
	value.ExpiresAt = cloneTime(value.ExpiresAt)
	b.info.temporal = &value
	return b
}

func (b *Builder) WithPreview(value Preview) *Builder {
	value.Highlights = cloneStrings(value.Highlights)
	value.SuggestedURLs = cloneStrings(value.SuggestedURLs)
	b.info.preview = &value
	return b
}

func (b *Builder) WithAuthority(value Authority) *Builder {
	value.Awards = append([]business.Award(nil), value.Awards...)
	value.Certifications = append([]business.Award(nil), value.Certifications...)
	b.info.authority = &value
	return b
}

func (b *Builder) WithCompetitive(value Competitive) *Builder {
	value.UniqueSellingPoints = cloneStrings(value.UniqueSellingPoints)
	value.Specialties = cloneStrings(value.Specialties)
	b.info.competitive = &value
	return b
}

// WithFAQs replaces the FAQ list, dropping entries without a question.
func (b *Builder) WithFAQs(faqs ...FAQ) *Builder {
	b.info.faqs = nil
	for _, faq := range faqs {
		if strings.TrimSpace(faq.Question) == "" {
			continue
		}
		b.info.faqs = append(b.info.faqs, faq)
	}
	return b
}

func (b *Builder) WithTestimonials(testimonials ...Testimonial) *Builder {
	b.info.testimonials = append([]Testimonial(nil), testimonials...)
	return b
}

func (b *Builder) WithKeywords(value Keywords) *Builder {
	b.info.keywords = Keywords{
		Primary:  cloneStrings(value.Primary),
		Semantic: cloneStrings(value.Semantic),
	}
	return b
}

// Build returns the Info. The builder may keep being used afterwards without
// affecting the returned value.
func (b *Builder) Build() Info {
	return b.info.With().info
}

func serviceAreaText(area *business.ServiceArea) string {
	if area == nil {
		return ""
	}
	return strings.TrimSpace(area.Description)
}
