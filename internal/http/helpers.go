package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-aipages/internal/batches"
	"github.com/goliatone/go-aipages/internal/pages"
	schemavalidation "github.com/goliatone/go-aipages/internal/validation"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

type errorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message,omitempty"`
	Issues  []validationIssue `json:"issues,omitempty"`
}

type validationIssue struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func joinPath(base, suffix string) string {
	trimmedBase := strings.TrimSpace(base)
	trimmedSuffix := strings.TrimSpace(suffix)
	if trimmedBase == "" {
		if trimmedSuffix == "" {
			return "/"
		}
		return "/" + strings.Trim(trimmedSuffix, "/")
	}
	baseClean := "/" + strings.Trim(trimmedBase, "/")
	if baseClean == "/" {
		return joinPath("", trimmedSuffix)
	}
	if trimmedSuffix == "" {
		return baseClean
	}
	return baseClean + "/" + strings.Trim(trimmedSuffix, "/")
}

func decodeJSON(r *http.Request, target any) error {
	if r == nil || r.Body == nil {
		return io.EOF
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()
	if err := decoder.Decode(target); err != nil {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	writeJSONAs(w, "application/json", status, payload)
}

func writeJSONAs(w http.ResponseWriter, contentType string, status int, payload any) {
	if w == nil {
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	status, payload := mapError(err)
	writeJSON(w, status, payload)
}

func mapError(err error) (int, errorResponse) {
	if err == nil {
		return http.StatusInternalServerError, errorResponse{Error: "unknown_error"}
	}

	if errors.Is(err, pages.ErrPageNotFound) ||
		errors.Is(err, batches.ErrBatchNotFound) ||
		errors.Is(err, batches.ErrDraftNotFound) {
		return http.StatusNotFound, errorResponse{
			Error:   "not_found",
			Message: err.Error(),
		}
	}

	if errors.Is(err, batches.ErrBatchAlreadyPublished) ||
		errors.Is(err, batches.ErrUpdatePublished) ||
		errors.Is(err, pages.ErrPathExists) ||
		errors.Is(err, pages.ErrBusinessPageExists) {
		return http.StatusConflict, errorResponse{
			Error:   "conflict",
			Message: err.Error(),
		}
	}

	if errors.Is(err, pages.ErrExpiryInPast) ||
		errors.Is(err, pages.ErrExtendHoursInvalid) ||
		errors.Is(err, batches.ErrBatchEmpty) {
		return http.StatusBadRequest, errorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		}
	}

	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		return http.StatusUnprocessableEntity, errorResponse{
			Error:   "validation_failed",
			Message: err.Error(),
			Issues:  fieldIssues(fieldErrs),
		}
	}

	if errors.Is(err, schemavalidation.ErrSchemaValidation) {
		issues := schemavalidation.Issues(err)
		out := make([]validationIssue, 0, len(issues))
		for _, issue := range issues {
			out = append(out, validationIssue{Field: issue.Location, Message: issue.Message})
		}
		return http.StatusUnprocessableEntity, errorResponse{
			Error:   "validation_failed",
			Message: err.Error(),
			Issues:  out,
		}
	}

	switch {
	case goerrors.IsCategory(err, goerrors.CategoryValidation):
		return http.StatusUnprocessableEntity, errorResponse{
			Error:   "validation_failed",
			Message: err.Error(),
		}
	case goerrors.IsCategory(err, goerrors.CategoryExternal):
		return http.StatusBadGateway, errorResponse{
			Error:   "upstream_failed",
			Message: err.Error(),
		}
	}

	return http.StatusInternalServerError, errorResponse{
		Error:   "internal_error",
		Message: err.Error(),
	}
}

func fieldIssues(errs validation.Errors) []validationIssue {
	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	out := make([]validationIssue, 0, len(fields))
	for _, field := range fields {
		if errs[field] == nil {
			continue
		}
		out = append(out, validationIssue{Field: field, Message: errs[field].Error()})
	}
	return out
}

func parseUUID(value string) (uuid.UUID, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return uuid.Nil, errors.New("uuid required")
	}
	parsed, err := uuid.Parse(trimmed)
	if err != nil {
		return uuid.Nil, err
	}
	return parsed, nil
}
