package structured

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-aipages/internal/business"
	"github.com/goliatone/go-aipages/internal/siteinfo"
	"github.com/goliatone/go-aipages/internal/slugs"
)

// Assemble builds the main business document for a page. Profile values in
// record win over values carried by info. Optional blocks are omitted when
// their inputs are missing; nothing is emitted as null.
func Assemble(info siteinfo.Info, record *business.Record) Document {
	biz, _ := info.Business()
	preview, _ := info.Preview()
	profile := record
	if profile == nil {
		profile = &business.Record{}
	}

	businessType := pick(profile.Category, biz.Type)
	doc := Document{
		"@context":    schemaContext,
		"@type":       slugs.SchemaTypeFor(businessType),
		"name":        pick(profile.Name, biz.Name),
		"description": pick(profile.Description, biz.Description, preview.Description, info.UpdateText()),
		"address": map[string]any{
			"@type":           "PostalAddress",
			"streetAddress":   pick(profile.Street, biz.Street),
			"addressLocality": pick(profile.City, biz.City),
			"addressRegion":   pick(profile.State, biz.State),
			"postalCode":      pick(profile.PostalCode, biz.PostalCode),
			"addressCountry":  pick(profile.Country, biz.Country, "US"),
		},
		"telephone": pick(profile.Phone, biz.Phone),
		"url":       pick(profile.Website, biz.Website),
	}

	if profile.Latitude != nil && profile.Longitude != nil {
		doc["geo"] = map[string]any{
			"@type":     "GeoCoordinates",
			"latitude":  *profile.Latitude,
			"longitude": *profile.Longitude,
		}
	}
	if summary := profile.ReviewSummary; summary != nil && summary.Average > 0 && summary.Count > 0 {
		doc["aggregateRating"] = aggregateRating(summary.Average, summary.Count)
	}
	if links := socialLinks(profile.SocialMedia); len(links) > 0 {
		doc["sameAs"] = links
	}
	if price := pick(profile.PriceRange, biz.PriceRange); price != "" {
		doc["priceRange"] = price
	}
	if methods := nonEmpty(pickList(profile.PaymentMethods, biz.PaymentMethods)); len(methods) > 0 {
		doc["paymentAccepted"] = strings.Join(methods, ", ")
	}
	if features := nonEmpty(pickList(profile.AccessibilityFeatures, biz.AccessibilityFeatures)); len(features) > 0 {
		amenities := make([]map[string]any, 0, len(features))
		for _, feature := range features {
			amenities = append(amenities, map[string]any{
				"@type": "LocationFeatureSpecification",
				"name":  feature,
				"value": true,
			})
		}
		doc["amenityFeature"] = amenities
	}
	if languages := nonEmpty(profile.Languages); len(languages) > 0 {
		doc["knowsLanguage"] = languages
	}
	if hours := openingHours(profile.StructuredHours, pick(profile.Hours, biz.Hours)); len(hours) > 0 {
		doc["openingHoursSpecification"] = hours
	}
	if awards := awardList(info, record); len(awards) > 0 {
		doc["award"] = awards
	}
	if faq := faqBlock(info.FAQs()); faq != nil {
		doc["subjectOf"] = faq
	}
	if catalog := offerCatalog(pickList(profile.Specialties, biz.Specialties), pickList(profile.Services, biz.Services)); catalog != nil {
		doc["hasOfferCatalog"] = catalog
	}
	if offer := currentOffer(info, preview); offer != nil {
		doc["makesOffer"] = offer
	}
	if reviews, rating := reviewList(info.Testimonials()); len(reviews) > 0 {
		doc["review"] = reviews
		if _, exists := doc["aggregateRating"]; !exists && rating != nil {
			doc["aggregateRating"] = rating
		}
	}
	if area := areaServed(profile, biz); area != nil {
		doc["areaServed"] = area
	}
	keywords := info.Keywords()
	if all := nonEmpty(append(keywords.Primary, keywords.Semantic...)); len(all) > 0 {
		doc["keywords"] = strings.Join(all, ", ")
	}
	return doc
}

// Organization builds a standalone organization document for a business.
func Organization(record *business.Record) Document {
	if record == nil {
		record = &business.Record{}
	}
	doc := Document{
		"@context": schemaContext,
		"@type":    "Organization",
		"name":     record.Name,
		"url":      record.Website,
	}
	if record.Phone != "" {
		doc["telephone"] = record.Phone
	}
	if record.Email != "" {
		doc["email"] = record.Email
	}
	if record.City != "" || record.State != "" {
		doc["address"] = map[string]any{
			"@type":           "PostalAddress",
			"streetAddress":   record.Street,
			"addressLocality": record.City,
			"addressRegion":   record.State,
			"postalCode":      record.PostalCode,
			"addressCountry":  pick(record.Country, "US"),
		}
	}
	if links := socialLinks(record.SocialMedia); len(links) > 0 {
		doc["sameAs"] = links
	}
	if record.YearsInBusiness > 0 {
		doc["foundingDate"] = foundingYear(record.YearsInBusiness, time.Now())
	}
	return doc
}

// FAQPage builds a standalone FAQ document, or nil when there are no FAQs.
func FAQPage(info siteinfo.Info) Document {
	block := faqBlock(info.FAQs())
	if block == nil {
		return nil
	}
	doc := Document{"@context": schemaContext}
	for k, v := range block {
		doc[k] = v
	}
	return doc
}

func faqBlock(faqs []siteinfo.FAQ) map[string]any {
	questions := make([]map[string]any, 0, len(faqs))
	for _, faq := range faqs {
		question := strings.TrimSpace(faq.Question)
		answer := strings.TrimSpace(faq.Answer)
		if question == "" || answer == "" {
			continue
		}
		questions = append(questions, map[string]any{
			"@type": "Question",
			"name":  question,
			"acceptedAnswer": map[string]any{
				"@type": "Answer",
				"text":  answer,
			},
		})
	}
	if len(questions) == 0 {
		return nil
	}
	return map[string]any{
		"@type":      "FAQPage",
		"mainEntity": questions,
	}
}

func awardList(info siteinfo.Info, record *business.Record) []map[string]any {
	authority, _ := info.Authority()
	certifications := authority.Certifications
	if record != nil && len(record.Certifications) > 0 {
		certifications = record.Certifications
	}

	out := make([]map[string]any, 0, len(authority.Awards)+len(certifications))
	for _, award := range authority.Awards {
		if entry := awardEntry(award, CategoryBusinessExcellence); entry != nil {
			out = append(out, entry)
		}
	}
	for _, cert := range certifications {
		if entry := awardEntry(cert, CategoryCertification); entry != nil {
			out = append(out, entry)
		}
	}
	return out
}

func awardEntry(award business.Award, category string) map[string]any {
	if strings.TrimSpace(award.Name()) == "" {
		return nil
	}
	entry := map[string]any{
		"@type":    "CreativeWork",
		"name":     award.Name(),
		"category": category,
	}
	if award.Kind() == business.AwardDetailed {
		if award.Issuer() != "" {
			entry["issuedBy"] = map[string]any{"@type": "Organization", "name": award.Issuer()}
		}
		if award.Year() > 0 {
			entry["dateCreated"] = award.Year()
		}
	}
	return entry
}

func offerCatalog(specialties, services []string) map[string]any {
	items := dedupeFold(append(nonEmpty(specialties), nonEmpty(services)...))
	if len(items) == 0 {
		return nil
	}
	offers := make([]map[string]any, 0, len(items))
	for _, item := range items {
		offers = append(offers, map[string]any{
			"@type": "Offer",
			"itemOffered": map[string]any{
				"@type": "Service",
				"name":  item,
			},
		})
	}
	return map[string]any{
		"@type":           "OfferCatalog",
		"name":            "Specialties and services",
		"itemListElement": offers,
	}
}

func currentOffer(info siteinfo.Info, preview siteinfo.Preview) map[string]any {
	temporal, ok := info.Temporal()
	if !ok || temporal.ExpiresAt == nil {
		return nil
	}
	offer := map[string]any{
		"@type":        "Offer",
		"name":         pick(preview.Title, "Current offer"),
		"description":  pick(temporal.UpdateText, preview.Description),
		"validThrough": temporal.ExpiresAt.UTC().Format(time.RFC3339),
	}
	if !temporal.GoLiveAt.IsZero() {
		offer["validFrom"] = temporal.GoLiveAt.UTC().Format(time.RFC3339)
	}
	return offer
}

// reviewList renders testimonials and derives an aggregate rating from the
// arithmetic mean of their ratings, rounded to one decimal place.
func reviewList(testimonials []siteinfo.Testimonial) ([]map[string]any, map[string]any) {
	reviews := make([]map[string]any, 0, len(testimonials))
	total := 0.0
	rated := 0
	for _, testimonial := range testimonials {
		text := strings.TrimSpace(testimonial.Text)
		if text == "" {
			continue
		}
		review := map[string]any{
			"@type":      "Review",
			"author":     map[string]any{"@type": "Person", "name": pick(testimonial.Author, "Customer")},
			"reviewBody": text,
		}
		if testimonial.Rating > 0 {
			review["reviewRating"] = map[string]any{
				"@type":       "Rating",
				"ratingValue": testimonial.Rating,
				"bestRating":  5,
			}
			total += testimonial.Rating
			rated++
		}
		reviews = append(reviews, review)
	}
	if rated == 0 {
		return reviews, nil
	}
	return reviews, aggregateRating(total/float64(rated), rated)
}

func aggregateRating(average float64, count int) map[string]any {
	return map[string]any{
		"@type":       "AggregateRating",
		"ratingValue": math.Round(average*10) / 10,
		"reviewCount": count,
	}
}

// areaServed prefers the structured service area and falls back to the free
// text description.
func areaServed(profile *business.Record, biz siteinfo.Business) any {
	if area := profile.ServiceArea; area != nil && (area.RadiusMiles > 0 || len(nonEmpty(area.AdditionalCities)) > 0) {
		cities := dedupeFold(append([]string{pick(profile.City, biz.City)}, nonEmpty(area.AdditionalCities)...))
		out := make([]map[string]any, 0, len(cities)+1)
		for _, city := range cities {
			out = append(out, map[string]any{"@type": "City", "name": city})
		}
		if area.RadiusMiles > 0 {
			circle := map[string]any{
				"@type":     "GeoCircle",
				"geoRadius": milesToMeters(area.RadiusMiles),
			}
			if profile.Latitude != nil && profile.Longitude != nil {
				circle["geoMidpoint"] = map[string]any{
					"@type":     "GeoCoordinates",
					"latitude":  *profile.Latitude,
					"longitude": *profile.Longitude,
				}
			}
			out = append(out, circle)
		}
		return out
	}
	text := biz.ServiceArea
	if profile.ServiceArea != nil {
		text = pick(profile.ServiceArea.Description, text)
	}
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return strings.TrimSpace(text)
}

func milesToMeters(miles float64) int {
	return int(math.Round(miles * 1609.344))
}

func foundingYear(years int, now time.Time) string {
	return time.Date(now.Year()-years, 1, 1, 0, 0, 0, 0, time.UTC).Format("2006")
}

func socialLinks(handles map[string]string) []string {
	keys := make([]string, 0, len(handles))
	for key, value := range handles {
		if strings.TrimSpace(value) != "" {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	links := make([]string, 0, len(keys))
	for _, key := range keys {
		links = append(links, strings.TrimSpace(handles[key]))
	}
	return links
}

func pick(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func pickList(values ...[]string) []string {
	for _, list := range values {
		if len(nonEmpty(list)) > 0 {
			return list
		}
	}
	return nil
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func dedupeFold(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, value := range values {
		key := strings.ToLower(strings.TrimSpace(value))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, strings.TrimSpace(value))
	}
	return out
}
