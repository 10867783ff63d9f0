package logging

import (
	"maps"
	"strings"

	"github.com/goliatone/go-aipages/pkg/interfaces"
	"github.com/google/uuid"
)

// WithFields attaches structured fields when the logger implements
// interfaces.FieldsLogger. Other loggers are returned untouched.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}
	fieldsLogger, ok := logger.(interfaces.FieldsLogger)
	if !ok {
		return logger
	}
	copied := make(map[string]any, len(fields))
	maps.Copy(copied, fields)
	return fieldsLogger.WithFields(copied)
}

// WithPageContext annotates logger with page identifiers. Nil IDs and blank
// values are skipped.
func WithPageContext(logger interfaces.Logger, pageID, businessID uuid.UUID, pageType string) interfaces.Logger {
	fields := map[string]any{}
	if pageID != uuid.Nil {
		fields["page_id"] = pageID.String()
	}
	if businessID != uuid.Nil {
		fields["business_id"] = businessID.String()
	}
	if trimmed := strings.TrimSpace(pageType); trimmed != "" {
		fields["page_type"] = trimmed
	}
	return WithFields(logger, fields)
}
