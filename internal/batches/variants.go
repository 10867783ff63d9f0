package batches

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// VariantTag names the intent a generated page is framed for.
type VariantTag string

const (
	VariantDirect        VariantTag = "direct"
	VariantLocal         VariantTag = "local"
	VariantCategory      VariantTag = "category"
	VariantBrandedLocal  VariantTag = "branded-local"
	VariantServiceUrgent VariantTag = "service-urgent"
	VariantCompetitive   VariantTag = "competitive"
)

// AllVariants lists every tag in presentation order.
var AllVariants = []VariantTag{
	VariantDirect,
	VariantLocal,
	VariantCategory,
	VariantBrandedLocal,
	VariantServiceUrgent,
	VariantCompetitive,
}

// Validate implements validation.Validatable.
func (v VariantTag) Validate() error {
	return validation.Validate(string(v),
		validation.Required,
		validation.In(variantValues()...).Error("unknown page variant"),
	)
}

// ParseVariant normalises raw and checks it against AllVariants.
func ParseVariant(raw string) (VariantTag, error) {
	tag := VariantTag(strings.ToLower(strings.TrimSpace(raw)))
	if err := tag.Validate(); err != nil {
		return "", ErrVariantInvalid
	}
	return tag, nil
}

// ParseVariants parses each value, stopping at the first unknown tag.
func ParseVariants(raw []string) ([]VariantTag, error) {
	out := make([]VariantTag, 0, len(raw))
	for _, value := range raw {
		tag, err := ParseVariant(value)
		if err != nil {
			return nil, err
		}
		out = append(out, tag)
	}
	return out, nil
}

func variantValues() []any {
	values := make([]any, len(AllVariants))
	for i, tag := range AllVariants {
		values[i] = string(tag)
	}
	return values
}
