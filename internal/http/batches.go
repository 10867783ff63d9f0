package http

import (
	"net/http"
	"time"

	"github.com/goliatone/go-aipages/internal/batches"
	batchescmd "github.com/goliatone/go-aipages/internal/commands/batches"
	"github.com/google/uuid"
)

type draftResponse struct {
	Index          int            `json:"index"`
	Variant        string         `json:"variant"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	Path           string         `json:"path"`
	PageType       string         `json:"page_type"`
	Score          int            `json:"score"`
	StructuredData map[string]any `json:"structured_data,omitempty"`
}

type failureResponse struct {
	Variant string `json:"variant"`
	Error   string `json:"error"`
}

type batchResponse struct {
	ID            uuid.UUID         `json:"id"`
	UpdateID      uuid.UUID         `json:"update_id"`
	BusinessID    uuid.UUID         `json:"business_id"`
	DeclaredTotal int               `json:"declared_total"`
	Drafts        []draftResponse   `json:"drafts"`
	Failures      []failureResponse `json:"failures,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
}

type publishResponse struct {
	BatchID  uuid.UUID   `json:"batch_id"`
	UpdateID uuid.UUID   `json:"update_id"`
	PageIDs  []uuid.UUID `json:"page_ids"`
}

func (api *AdminAPI) registerBatchRoutes(mux *http.ServeMux, base string) {
	if mux == nil {
		return
	}
	root := joinPath(base, "batches")
	mux.HandleFunc("GET "+root+"/{id}", api.handleBatchGet)
	mux.HandleFunc("DELETE "+root+"/{id}", api.handleBatchDiscard)
	mux.HandleFunc("POST "+root+"/{id}/publish", api.handleBatchPublish)
}

func (api *AdminAPI) handleBatchGet(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.batches == nil {
		serviceUnavailable(w)
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	batch, err := api.batches.Get(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBatchResponse(batch))
}

func (api *AdminAPI) handleBatchPublish(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.publish == nil {
		serviceUnavailable(w)
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var result batches.PublishResult
	if err := api.publish.Execute(r.Context(), batchescmd.PublishBatchCommand{BatchID: id, Result: &result}); err != nil {
		writeError(w, err)
		return
	}
	api.logger.Info("http.admin.batch.published", "batch_id", id.String(), "pages", len(result.PageIDs))
	writeJSON(w, http.StatusOK, publishResponse{
		BatchID:  result.BatchID,
		UpdateID: result.UpdateID,
		PageIDs:  result.PageIDs,
	})
}

func (api *AdminAPI) handleBatchDiscard(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.discard == nil {
		serviceUnavailable(w)
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := api.discard.Execute(r.Context(), batchescmd.DiscardBatchCommand{BatchID: id}); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toBatchResponse(batch *batches.Batch) batchResponse {
	out := batchResponse{
		ID:            batch.ID,
		UpdateID:      batch.UpdateID,
		BusinessID:    batch.BusinessID,
		DeclaredTotal: batch.DeclaredTotal,
		Drafts:        make([]draftResponse, 0, len(batch.Drafts)),
		CreatedAt:     batch.CreatedAt,
	}
	for i, draft := range batch.Drafts {
		out.Drafts = append(out.Drafts, draftResponse{
			Index:          i,
			Variant:        string(draft.Variant),
			Title:          draft.Title,
			Description:    draft.Description,
			Path:           draft.Path,
			PageType:       draft.PageType,
			Score:          draft.Score,
			StructuredData: draft.StructuredData,
		})
	}
	for _, failure := range batch.Failures {
		out.Failures = append(out.Failures, failureResponse{
			Variant: string(failure.Variant),
			Error:   failure.Err.Error(),
		})
	}
	return out
}
