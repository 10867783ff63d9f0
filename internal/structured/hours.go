package structured

import (
	"strings"

	"github.com/goliatone/go-aipages/internal/business"
)

var weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// openingHours prefers structured hours and falls back to parsing free text.
func openingHours(structured map[string]business.DayHours, freeText string) []map[string]any {
	if len(structured) > 0 {
		if specs := structuredHours(structured); len(specs) > 0 {
			return specs
		}
	}
	return parseHours(freeText)
}

func structuredHours(hours map[string]business.DayHours) []map[string]any {
	byDay := make(map[string]business.DayHours, len(hours))
	for day, value := range hours {
		byDay[strings.ToLower(strings.TrimSpace(day))] = value
	}
	var specs []map[string]any
	for _, day := range weekdays {
		value, ok := byDay[strings.ToLower(day)]
		if !ok || value.Closed {
			continue
		}
		open, close := strings.TrimSpace(value.Open), strings.TrimSpace(value.Close)
		if open == "" || close == "" {
			continue
		}
		specs = append(specs, hoursSpec(day, open, close))
	}
	return specs
}

// parseHours reads text such as "Monday: 9:00-17:00, Tuesday: closed".
// Segments are separated by commas, semicolons or newlines. Days without a
// value, marked "closed", or without a single hyphen are skipped.
func parseHours(text string) []map[string]any {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	segments := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ';' || r == '\n'
	})
	values := make(map[string]string, len(segments))
	for _, segment := range segments {
		day, value, ok := strings.Cut(segment, ":")
		if !ok {
			continue
		}
		values[strings.ToLower(strings.TrimSpace(day))] = strings.TrimSpace(value)
	}

	var specs []map[string]any
	for _, day := range weekdays {
		value, ok := values[strings.ToLower(day)]
		if !ok || value == "" || strings.EqualFold(value, "closed") {
			continue
		}
		parts := strings.Split(value, "-")
		if len(parts) != 2 {
			continue
		}
		open, close := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
		if open == "" || close == "" {
			continue
		}
		specs = append(specs, hoursSpec(day, open, close))
	}
	return specs
}

func hoursSpec(day, open, close string) map[string]any {
	return map[string]any{
		"@type":     "OpeningHoursSpecification",
		"dayOfWeek": day,
		"opens":     open,
		"closes":    close,
	}
}
