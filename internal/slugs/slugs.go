// Package slugs derives URL slugs and location parts from free text.
package slugs

import (
	"regexp"
	"strings"

	goslug "github.com/goliatone/go-slug"
)

const (
	// MaxLength caps every slug produced by Slugify.
	MaxLength = 50
	// Fallback is returned when the input has no usable characters.
	Fallback = "business"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lower-cases text, collapses runs of non-alphanumeric characters into
// a single hyphen and caps the result at MaxLength characters. The result never
// starts or ends with a hyphen.
func Slugify(text string) string {
	slug := nonAlphanumeric.ReplaceAllString(strings.ToLower(text), "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > MaxLength {
		slug = strings.TrimRight(slug[:MaxLength], "-")
	}
	if slug == "" {
		return Fallback
	}
	return slug
}

// Join slugifies each non-empty part and joins them with hyphens.
func Join(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		kept = append(kept, part)
	}
	return Slugify(strings.Join(kept, " "))
}

// BusinessSlug transliterates name with go-slug before applying Slugify, so
// "Café Olé" becomes "cafe-ole" rather than "caf-ol".
func BusinessSlug(name string) string {
	if normalized, err := goslug.Normalize(name); err == nil && strings.TrimSpace(normalized) != "" {
		return Slugify(normalized)
	}
	return Slugify(name)
}

// Location is the best-effort split of a "City, State[, Country]" string.
type Location struct {
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
}

// UnknownLocation is returned for inputs that do not have two or three parts.
var UnknownLocation = Location{City: "Unknown", State: "XX", Country: "US"}

// ParseLocation splits text on commas. Two parts are read as city and state,
// three as city, state and country ("USA" becomes "US"). Anything else,
// including blank parts, yields UnknownLocation. No geocoding is attempted.
func ParseLocation(text string) Location {
	raw := strings.Split(text, ",")
	parts := make([]string, len(raw))
	for i, part := range raw {
		parts[i] = strings.TrimSpace(part)
		if parts[i] == "" {
			return UnknownLocation
		}
	}

	switch len(parts) {
	case 2:
		return Location{City: parts[0], State: parts[1], Country: "US"}
	case 3:
		country := parts[2]
		if strings.EqualFold(country, "USA") {
			country = "US"
		}
		return Location{City: parts[0], State: parts[1], Country: country}
	default:
		return UnknownLocation
	}
}

// String renders the location back as "City, State, Country".
func (l Location) String() string {
	return l.City + ", " + l.State + ", " + l.Country
}
