package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/goliatone/go-aipages/internal/batches"
	batchescmd "github.com/goliatone/go-aipages/internal/commands/batches"
	pagescmd "github.com/goliatone/go-aipages/internal/commands/pages"
	"github.com/goliatone/go-aipages/internal/logging"
	"github.com/goliatone/go-aipages/internal/pages"
	"github.com/goliatone/go-aipages/pkg/interfaces"
	"github.com/google/uuid"
)

// CommandExecutor runs one command message. The pagescmd and batchescmd
// handlers satisfy it.
type CommandExecutor[T any] interface {
	Execute(ctx context.Context, msg T) error
}

// PageReader loads pages for admin responses. *pages.Lifecycle satisfies it.
type PageReader interface {
	Get(ctx context.Context, id uuid.UUID) (*pages.Page, error)
	State(page *pages.Page) pages.State
}

// BatchReader loads pending batches. *batches.Coordinator satisfies it.
type BatchReader interface {
	Get(batchID uuid.UUID) (*batches.Batch, error)
}

// AdminAPI registers admin endpoints for page lifecycle and batch review.
type AdminAPI struct {
	basePath string
	logger   interfaces.Logger

	pages      PageReader
	extend     CommandExecutor[pagescmd.ExtendPageCommand]
	reactivate CommandExecutor[pagescmd.ReactivatePageCommand]
	expire     CommandExecutor[pagescmd.ExpirePageCommand]
	remove     CommandExecutor[pagescmd.DeletePageCommand]

	batches BatchReader
	publish CommandExecutor[batchescmd.PublishBatchCommand]
	discard CommandExecutor[batchescmd.DiscardBatchCommand]
}

// AdminOption mutates the AdminAPI configuration.
type AdminOption func(*AdminAPI)

// NewAdminAPI constructs an AdminAPI instance.
func NewAdminAPI(opts ...AdminOption) *AdminAPI {
	api := &AdminAPI{
		basePath: "/admin/api",
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	return api
}

// WithBasePath overrides the default /admin/api mount point.
func WithBasePath(path string) AdminOption {
	return func(api *AdminAPI) {
		if api == nil {
			return
		}
		trimmed := strings.TrimSpace(path)
		if trimmed == "" {
			return
		}
		api.basePath = trimmed
	}
}

func WithAdminLogger(logger interfaces.Logger) AdminOption {
	return func(api *AdminAPI) {
		if api != nil && logger != nil {
			api.logger = logger
		}
	}
}

// WithPageReader wires the page lookup used by GET and by write responses.
func WithPageReader(reader PageReader) AdminOption {
	return func(api *AdminAPI) {
		if api != nil {
			api.pages = reader
		}
	}
}

// WithPageCommands wires the lifecycle command handlers.
func WithPageCommands(
	extend CommandExecutor[pagescmd.ExtendPageCommand],
	reactivate CommandExecutor[pagescmd.ReactivatePageCommand],
	expire CommandExecutor[pagescmd.ExpirePageCommand],
	remove CommandExecutor[pagescmd.DeletePageCommand],
) AdminOption {
	return func(api *AdminAPI) {
		if api == nil {
			return
		}
		api.extend = extend
		api.reactivate = reactivate
		api.expire = expire
		api.remove = remove
	}
}

// WithBatchReader wires the pending batch lookup.
func WithBatchReader(reader BatchReader) AdminOption {
	return func(api *AdminAPI) {
		if api != nil {
			api.batches = reader
		}
	}
}

// WithBatchCommands wires the publish and discard handlers.
func WithBatchCommands(
	publish CommandExecutor[batchescmd.PublishBatchCommand],
	discard CommandExecutor[batchescmd.DiscardBatchCommand],
) AdminOption {
	return func(api *AdminAPI) {
		if api == nil {
			return
		}
		api.publish = publish
		api.discard = discard
	}
}

// Register attaches the admin endpoints to the provided mux.
func (api *AdminAPI) Register(mux *http.ServeMux) error {
	if mux == nil {
		return fmt.Errorf("http: mux is required")
	}
	if api == nil {
		return fmt.Errorf("http: admin api is nil")
	}

	base := joinPath(api.basePath, "")

	api.registerPageRoutes(mux, base)
	api.registerBatchRoutes(mux, base)

	return nil
}

func serviceUnavailable(w http.ResponseWriter) {
	writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}
