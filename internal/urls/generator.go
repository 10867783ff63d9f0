// Package urls proposes AI-search friendly slugs for generated pages.
package urls

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/goliatone/go-aipages/internal/slugs"
)

// candidateCount is the primary slug plus three alternatives.
const candidateCount = 4

// stopWords is fixed and not configurable.
var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "are": {}, "but": {}, "not": {},
	"you": {}, "all": {}, "can": {}, "her": {}, "was": {}, "one": {},
	"our": {}, "out": {}, "day": {}, "get": {}, "has": {}, "him": {},
	"his": {}, "how": {}, "its": {}, "may": {}, "new": {}, "now": {},
	"see": {}, "two": {}, "who": {}, "with": {}, "this": {}, "that": {},
	"from": {}, "your": {}, "have": {}, "will": {}, "just": {}, "they": {},
}

// Input carries the business and update context for slug generation.
type Input struct {
	BusinessType  string
	UpdateContent string
	Location      string
	Specialties   []string
	Keywords      []string
}

// Candidates is a primary slug plus ranked alternatives, all unique.
type Candidates struct {
	Primary      string    `json:"primary"`
	Alternatives [3]string `json:"alternatives"`
	Reasoning    string    `json:"reasoning"`
}

// All returns the primary slug followed by the alternatives.
func (c Candidates) All() []string {
	return []string{c.Primary, c.Alternatives[0], c.Alternatives[1], c.Alternatives[2]}
}

// Generator builds Candidates. The clock only feeds the uniqueness padding.
type Generator struct {
	now func() time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithClock overrides the clock used for padding suffixes.
func WithClock(clock func() time.Time) Option {
	return func(g *Generator) {
		if clock != nil {
			g.now = clock
		}
	}
}

// NewGenerator constructs a Generator.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate derives candidate slugs in a fixed priority order: service word
// plus city, specialty plus service word, service word plus second word, and
// business type plus city. Deterministic fallbacks and time-based padding fill
// any remaining slots.
func (g *Generator) Generate(in Input) Candidates {
	words := Keywords(in.UpdateContent)
	if len(words) == 0 {
		for _, keyword := range in.Keywords {
			words = append(words, Keywords(keyword)...)
		}
	}

	location := slugs.ParseLocation(in.Location)
	city := ""
	if location != slugs.UnknownLocation {
		city = location.City
	}
	businessType := strings.TrimSpace(in.BusinessType)
	specialty := firstNonBlank(in.Specialties)

	service, second := "", ""
	if len(words) > 0 {
		service = words[0]
	}
	if len(words) > 1 {
		second = words[1]
	}

	var raw []string
	var reasons []string
	if service != "" && city != "" {
		raw = append(raw, slugs.Join(service, city))
		reasons = append(reasons, "service + location")
	}
	if specialty != "" && service != "" {
		raw = append(raw, slugs.Join(specialty, service))
		reasons = append(reasons, "specialty + service")
	}
	if service != "" && second != "" {
		raw = append(raw, slugs.Join(service, second))
		reasons = append(reasons, "service + detail")
	}
	if businessType != "" && city != "" {
		raw = append(raw, slugs.Join(businessType, city))
		reasons = append(reasons, "business type + location")
	}

	if len(raw) < candidateCount {
		if service != "" {
			raw = append(raw, slugs.Join(service, "offer"))
		}
		if businessType != "" {
			raw = append(raw, slugs.Join(businessType, "service"))
			raw = append(raw, slugs.Join("local", businessType))
			if city != "" {
				raw = append(raw, slugs.Join(city, businessType))
			}
		}
		reasons = append(reasons, "fallbacks")
	}

	unique := dedupe(raw)
	if len(unique) < candidateCount {
		base := service
		if base == "" {
			base = businessType
		}
		if base == "" {
			base = "update"
		}
		unique = g.pad(unique, base)
		reasons = append(reasons, "time padding")
	}

	out := Candidates{Primary: unique[0]}
	copy(out.Alternatives[:], unique[1:candidateCount])
	out.Reasoning = "prioritised local search intent: " + strings.Join(reasons, ", ")
	return out
}

func (g *Generator) pad(existing []string, base string) []string {
	seen := make(map[string]struct{}, len(existing))
	for _, slug := range existing {
		seen[slug] = struct{}{}
	}
	suffix := int(g.now().UnixMilli() % 1000)
	for len(existing) < candidateCount {
		candidate := capSuffix(slugs.Slugify(base), fmt.Sprintf("%03d", suffix))
		suffix++
		if _, ok := seen[candidate]; ok {
			continue
		}
		seen[candidate] = struct{}{}
		existing = append(existing, candidate)
	}
	return existing
}

// capSuffix appends "-suffix" while keeping the result within slugs.MaxLength.
func capSuffix(base, suffix string) string {
	limit := slugs.MaxLength - len(suffix) - 1
	if len(base) > limit {
		base = strings.TrimRight(base[:limit], "-")
	}
	return base + "-" + suffix
}

// Keywords lower-cases text, strips punctuation and returns words longer than
// two characters that are not stop words, in their original order.
func Keywords(text string) []string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			return unicode.ToLower(r)
		case unicode.IsSpace(r):
			return ' '
		default:
			return -1
		}
	}, text)

	fields := strings.Fields(cleaned)
	words := make([]string, 0, len(fields))
	for _, word := range fields {
		if utf8.RuneCountInString(word) <= 2 {
			continue
		}
		if _, stop := stopWords[word]; stop {
			continue
		}
		words = append(words, word)
	}
	return words
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, value := range values {
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}

func firstNonBlank(values []string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
