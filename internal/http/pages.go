package http

import (
	"net/http"
	"time"

	pagescmd "github.com/goliatone/go-aipages/internal/commands/pages"
	"github.com/goliatone/go-aipages/internal/pages"
	"github.com/google/uuid"
)

type pageResponse struct {
	*pages.Page
	State pages.State `json:"state"`
}

type pageExtendPayload struct {
	Hours int `json:"hours"`
}

type pageReactivatePayload struct {
	ExpiresAt time.Time `json:"expires_at"`
}

func (api *AdminAPI) registerPageRoutes(mux *http.ServeMux, base string) {
	if mux == nil {
		return
	}
	root := joinPath(base, "pages")
	mux.HandleFunc("GET "+root+"/{id}", api.handlePageGet)
	mux.HandleFunc("DELETE "+root+"/{id}", api.handlePageDelete)
	mux.HandleFunc("POST "+root+"/{id}/extend", api.handlePageExtend)
	mux.HandleFunc("POST "+root+"/{id}/reactivate", api.handlePageReactivate)
	mux.HandleFunc("POST "+root+"/{id}/expire", api.handlePageExpire)
}

func (api *AdminAPI) handlePageGet(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.pages == nil {
		serviceUnavailable(w)
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	api.writePage(w, r, id, http.StatusOK)
}

func (api *AdminAPI) handlePageExtend(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.extend == nil || api.pages == nil {
		serviceUnavailable(w)
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var payload pageExtendPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid body"})
		return
	}
	msg := pagescmd.ExtendPageCommand{PageID: id, Hours: payload.Hours}
	if err := api.extend.Execute(r.Context(), msg); err != nil {
		writeError(w, err)
		return
	}
	api.writePage(w, r, id, http.StatusOK)
}

func (api *AdminAPI) handlePageReactivate(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.reactivate == nil || api.pages == nil {
		serviceUnavailable(w)
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var payload pageReactivatePayload
	if err := decodeJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid body"})
		return
	}
	msg := pagescmd.ReactivatePageCommand{PageID: id, ExpiresAt: payload.ExpiresAt}
	if err := api.reactivate.Execute(r.Context(), msg); err != nil {
		writeError(w, err)
		return
	}
	api.writePage(w, r, id, http.StatusOK)
}

func (api *AdminAPI) handlePageExpire(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.expire == nil || api.pages == nil {
		serviceUnavailable(w)
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := api.expire.Execute(r.Context(), pagescmd.ExpirePageCommand{PageID: id}); err != nil {
		writeError(w, err)
		return
	}
	api.writePage(w, r, id, http.StatusOK)
}

func (api *AdminAPI) handlePageDelete(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.remove == nil {
		serviceUnavailable(w)
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := api.remove.Execute(r.Context(), pagescmd.DeletePageCommand{PageID: id}); err != nil {
		writeError(w, err)
		return
	}
	api.logger.Info("http.admin.page.deleted", "page_id", id.String())
	w.WriteHeader(http.StatusNoContent)
}

func (api *AdminAPI) writePage(w http.ResponseWriter, r *http.Request, id uuid.UUID, status int) {
	page, err := api.pages.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, status, pageResponse{Page: page, State: api.pages.State(page)})
}
