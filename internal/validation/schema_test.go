package validation

import (
	"errors"
	"strings"
	"testing"
)

const personSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["name"],
  "properties": {
    "name": {"type": "string", "minLength": 1},
    "tags": {"type": "array", "items": {"type": "string"}}
  }
}`

func TestSchemaValidateAcceptsTypedValues(t *testing.T) {
	schema := MustCompile("person.json", []byte(personSchema))

	payload := map[string]any{"name": "Casa", "tags": []string{"a", "b"}}
	if err := schema.Validate(payload); err != nil {
		t.Fatalf("expected valid payload, got %v", err)
	}
}

func TestSchemaValidateReportsIssues(t *testing.T) {
	schema := MustCompile("person.json", []byte(personSchema))

	err := schema.Validate(map[string]any{"tags": []int{1}})
	if !errors.Is(err, ErrSchemaValidation) {
		t.Fatalf("expected ErrSchemaValidation, got %v", err)
	}
	issues := Issues(err)
	if len(issues) < 2 {
		t.Fatalf("expected missing name and bad tag issues, got %+v", issues)
	}
	if !strings.Contains(err.Error(), "#") {
		t.Fatalf("expected locations in message, got %q", err.Error())
	}
}

func TestCompileRejectsInvalidSchema(t *testing.T) {
	if _, err := Compile("bad.json", []byte(`{"type": 12}`)); !errors.Is(err, ErrSchemaInvalid) {
		t.Fatalf("expected ErrSchemaInvalid, got %v", err)
	}
}
