package business

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

// AwardKind discriminates the two award shapes accepted from profiles.
type AwardKind string

const (
	AwardNamed    AwardKind = "named"
	AwardDetailed AwardKind = "detailed"
)

var ErrAwardInvalid = errors.New("business: award must be a string or an object with a name")

// Award is either a bare name or a name with issuer and year. The shape is
// resolved once when decoding, so consumers switch on Kind.
type Award struct {
	kind   AwardKind
	name   string
	issuer string
	year   int
}

// NamedAward builds an award that only carries a name.
func NamedAward(name string) Award {
	return Award{kind: AwardNamed, name: strings.TrimSpace(name)}
}

// DetailedAward builds an award with issuer and year.
func DetailedAward(name, issuer string, year int) Award {
	return Award{kind: AwardDetailed, name: strings.TrimSpace(name), issuer: strings.TrimSpace(issuer), year: year}
}

func (a Award) Kind() AwardKind { return a.kind }
func (a Award) Name() string    { return a.name }
func (a Award) Issuer() string  { return a.issuer }
func (a Award) Year() int       { return a.year }

type detailedAward struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer,omitempty"`
	Year   int    `json:"year,omitempty"`
}

// MarshalJSON writes named awards as strings and detailed awards as objects.
func (a Award) MarshalJSON() ([]byte, error) {
	if a.kind == AwardDetailed {
		return json.Marshal(detailedAward{Name: a.name, Issuer: a.issuer, Year: a.year})
	}
	return json.Marshal(a.name)
}

// UnmarshalJSON accepts either a JSON string or an object with a name.
func (a *Award) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return ErrAwardInvalid
	}
	switch trimmed[0] {
	case '"':
		var name string
		if err := json.Unmarshal(trimmed, &name); err != nil {
			return err
		}
		if strings.TrimSpace(name) == "" {
			return ErrAwardInvalid
		}
		*a = NamedAward(name)
		return nil
	case '{':
		var payload detailedAward
		if err := json.Unmarshal(trimmed, &payload); err != nil {
			return err
		}
		if strings.TrimSpace(payload.Name) == "" {
			return ErrAwardInvalid
		}
		*a = DetailedAward(payload.Name, payload.Issuer, payload.Year)
		return nil
	default:
		return ErrAwardInvalid
	}
}
