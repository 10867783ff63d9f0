package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/goliatone/go-aipages/internal/logging"
	"github.com/goliatone/go-aipages/internal/pages"
	"github.com/goliatone/go-aipages/internal/routes"
	"github.com/goliatone/go-aipages/pkg/interfaces"
)

// JSONLDContentType is the media type public pages are served with.
const JSONLDContentType = "application/ld+json"

// PageResolver returns the visible page at a path. *pages.Lifecycle
// satisfies it.
type PageResolver interface {
	Resolve(ctx context.Context, path string) (*pages.Page, error)
}

// PublicAPI serves generated pages' structured data by route.
type PublicAPI struct {
	prefix   string
	resolver PageResolver
	logger   interfaces.Logger
}

type PublicOption func(*PublicAPI)

// WithPublicPrefix mounts the page routes below prefix instead of the root.
func WithPublicPrefix(prefix string) PublicOption {
	return func(api *PublicAPI) {
		if api != nil {
			api.prefix = strings.TrimSpace(prefix)
		}
	}
}

func WithPublicLogger(logger interfaces.Logger) PublicOption {
	return func(api *PublicAPI) {
		if api != nil && logger != nil {
			api.logger = logger
		}
	}
}

func NewPublicAPI(resolver PageResolver, opts ...PublicOption) *PublicAPI {
	api := &PublicAPI{
		resolver: resolver,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	return api
}

// Register attaches the business and variant page routes.
func (api *PublicAPI) Register(mux *http.ServeMux) error {
	if mux == nil {
		return fmt.Errorf("http: mux is required")
	}
	if api == nil || api.resolver == nil {
		return fmt.Errorf("http: public api requires a page resolver")
	}
	business := joinPath(api.prefix, "{country}/{state}/{city}/{business}")
	mux.HandleFunc("GET "+business, api.handlePage)
	mux.HandleFunc("GET "+business+"/{variant}", api.handlePage)
	return nil
}

func (api *PublicAPI) handlePage(w http.ResponseWriter, r *http.Request) {
	path := strings.ToLower(strings.TrimPrefix(r.URL.Path, joinPath(api.prefix, "")))
	seg, ok := routes.Parse(path)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not_found"})
		return
	}
	path = "/" + strings.Trim(path, "/")

	page, err := api.resolver.Resolve(r.Context(), path)
	if err != nil {
		if errors.Is(err, pages.ErrPageNotFound) {
			api.logger.Debug("http.public.page.miss", "path", path)
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "not_found"})
			return
		}
		api.logger.Error("http.public.page.failed", "path", path, "error", err)
		writeError(w, err)
		return
	}

	logging.WithPageContext(api.logger, page.ID, page.BusinessID, page.PageType).Debug(
		"http.public.page.served",
		"city", seg.City,
		"business", seg.Business,
		"variant", seg.Variant,
	)
	if page.ExpiresAt != nil {
		w.Header().Set("Expires", page.ExpiresAt.UTC().Format(http.TimeFormat))
	}
	writeJSONAs(w, JSONLDContentType, http.StatusOK, page.StructuredData)
}
