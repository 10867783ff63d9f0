// Package routes builds the public URL of generated pages:
// /{country}/{state}/{city}/{business-slug}[/{variant-slug}].
package routes

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/goliatone/go-aipages/internal/slugs"
	urlkit "github.com/goliatone/go-urlkit"
)

const (
	// GroupPublic is the urlkit group that holds the public page routes.
	GroupPublic = "public"
	// RouteBusiness addresses a business's permanent page.
	RouteBusiness = "business"
	// RouteVariant addresses an update page below the business page.
	RouteVariant = "variant"

	// DefaultBaseURL is used when no base URL is configured.
	DefaultBaseURL = "http://localhost"
)

// Segments are the slugged parts of a public route.
type Segments struct {
	Country  string
	State    string
	City     string
	Business string
	Variant  string
}

// SegmentsFor slugs the location parts and business name. variant may be
// blank for the business page.
func SegmentsFor(location slugs.Location, businessName, variant string) Segments {
	seg := Segments{
		Country:  slugs.Slugify(location.Country),
		State:    slugs.Slugify(location.State),
		City:     slugs.Slugify(location.City),
		Business: slugs.BusinessSlug(businessName),
	}
	if strings.TrimSpace(variant) != "" {
		seg.Variant = slugs.Slugify(variant)
	}
	return seg
}

// Builder renders Segments through a go-urlkit route manager.
type Builder struct {
	manager *urlkit.RouteManager
}

// NewBuilder registers the public routes under baseURL.
func NewBuilder(baseURL string) *Builder {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	manager := urlkit.NewRouteManager(&urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name:    GroupPublic,
				BaseURL: baseURL,
				Paths: map[string]string{
					RouteBusiness: "/:country/:state/:city/:business",
					RouteVariant:  "/:country/:state/:city/:business/:variant",
				},
			},
		},
	})
	return &Builder{manager: manager}
}

// URL returns the absolute page URL.
func (b *Builder) URL(seg Segments) (string, error) {
	if seg.Country == "" || seg.State == "" || seg.City == "" || seg.Business == "" {
		return "", fmt.Errorf("routes: incomplete segments %+v", seg)
	}
	route := RouteBusiness
	params := map[string]any{
		"country":  seg.Country,
		"state":    seg.State,
		"city":     seg.City,
		"business": seg.Business,
	}
	if seg.Variant != "" {
		route = RouteVariant
		params["variant"] = seg.Variant
	}

	builder, err := b.safeBuilder(route)
	if err != nil {
		return "", err
	}
	for key, val := range params {
		builder.WithParam(key, val)
	}
	return builder.Build()
}

// Path returns the URL path, which is what pages store and resolve by.
func (b *Builder) Path(seg Segments) (string, error) {
	raw, err := b.URL(seg)
	if err != nil {
		return "", err
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("routes: parse built url: %w", err)
	}
	return parsed.Path, nil
}

// Parse splits a public path back into its segments.
func Parse(path string) (Segments, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	switch len(parts) {
	case 4, 5:
	default:
		return Segments{}, false
	}
	for _, part := range parts {
		if part == "" {
			return Segments{}, false
		}
	}
	seg := Segments{Country: parts[0], State: parts[1], City: parts[2], Business: parts[3]}
	if len(parts) == 5 {
		seg.Variant = parts[4]
	}
	return seg, true
}

func (b *Builder) safeBuilder(route string) (builder *urlkit.Builder, err error) {
	if b == nil || b.manager == nil {
		return nil, fmt.Errorf("routes: route manager not configured")
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("routes: urlkit builder panic: %v", rec)
		}
	}()
	builder = b.manager.Group(GroupPublic).Builder(route)
	return builder, nil
}
