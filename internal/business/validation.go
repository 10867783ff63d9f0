package business

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
)

// Validate checks the fields required before any page can be generated.
// Errors are keyed by the JSON field name.
func (r *Record) Validate() error {
	if r == nil {
		return ErrRecordRequired
	}
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.By(requiredText("aipages.business.name_required", "business name is required"))),
		validation.Field(&r.City, validation.By(requiredText("aipages.business.city_required", "city is required"))),
		validation.Field(&r.State, validation.By(requiredText("aipages.business.state_required", "state is required"))),
		validation.Field(&r.Email, validation.By(func(value any) error {
			email, _ := value.(string)
			// Repositories compare trimmed addresses, so validate the same form.
			return is.EmailFormat.Validate(strings.TrimSpace(email))
		})),
		validation.Field(&r.YearsInBusiness, validation.Min(0)),
	)
}

// Validate checks an update before content generation.
func (u *Update) Validate() error {
	if u == nil {
		return ErrUpdateRequired
	}
	return validation.ValidateStruct(u,
		validation.Field(&u.BusinessID, validation.By(func(value any) error {
			if id, ok := value.(uuid.UUID); ok && id == uuid.Nil {
				return validation.NewError("aipages.update.business_required", "business id is required")
			}
			return nil
		})),
		validation.Field(&u.Description, validation.By(requiredText("aipages.update.description_required", "update description is required"))),
	)
}

func requiredText(code, message string) validation.RuleFunc {
	return func(value any) error {
		text, _ := value.(string)
		if strings.TrimSpace(text) == "" {
			return validation.NewError(code, message)
		}
		return nil
	}
}
