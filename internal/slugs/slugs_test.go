package slugs

import (
	"regexp"
	"strings"
	"testing"
)

var slugFormat = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]{0,48}[a-z0-9])?$`)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Happy Hour 5-7pm!":       "happy-hour-5-7pm",
		"  --Austin,  TX--  ":     "austin-tx",
		"":                        Fallback,
		"   \t ":                  Fallback,
		"!!!":                     Fallback,
		"$5 Margaritas & Tacos":   "5-margaritas-tacos",
		"already-a-slug":          "already-a-slug",
		"MiXeD_Case__underscores": "mixed-case-underscores",
	}
	for input, want := range cases {
		if got := Slugify(input); got != want {
			t.Fatalf("Slugify(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestSlugifyTruncatesWithoutTrailingHyphen(t *testing.T) {
	input := strings.Repeat("a", 49) + " bcd"
	got := Slugify(input)
	if len(got) > MaxLength {
		t.Fatalf("expected at most %d chars, got %d", MaxLength, len(got))
	}
	if strings.HasSuffix(got, "-") {
		t.Fatalf("expected no trailing hyphen, got %q", got)
	}
}

func TestSlugifyIsIdempotentAndWellFormed(t *testing.T) {
	inputs := []string{
		"Happy hour 5-7pm! $5 margaritas",
		strings.Repeat("word ", 30),
		"Ünïcödé café",
		"---",
		"a",
		strings.Repeat("x-", 40),
		"Austin, TX",
	}
	for _, input := range inputs {
		once := Slugify(input)
		if twice := Slugify(once); twice != once {
			t.Fatalf("not idempotent for %q: %q then %q", input, once, twice)
		}
		if once != Fallback && !slugFormat.MatchString(once) {
			t.Fatalf("malformed slug %q for %q", once, input)
		}
	}
}

func TestJoinSkipsBlankParts(t *testing.T) {
	if got := Join("Tacos", "", " ", "Austin"); got != "tacos-austin" {
		t.Fatalf("unexpected join %q", got)
	}
}

func TestBusinessSlugProducesValidSlug(t *testing.T) {
	got := BusinessSlug("Joe's Taco Shack")
	if !slugFormat.MatchString(got) {
		t.Fatalf("malformed business slug %q", got)
	}
	if !strings.Contains(got, "taco") {
		t.Fatalf("expected taco in %q", got)
	}
}

func TestParseLocation(t *testing.T) {
	cases := []struct {
		in   string
		want Location
	}{
		{"Austin, TX", Location{City: "Austin", State: "TX", Country: "US"}},
		{"Austin, TX, USA", Location{City: "Austin", State: "TX", Country: "US"}},
		{"Toronto, ON, CA", Location{City: "Toronto", State: "ON", Country: "CA"}},
		{"", UnknownLocation},
		{"Austin", UnknownLocation},
		{"a, b, c, d", UnknownLocation},
		{"Austin, ", UnknownLocation},
	}
	for _, tc := range cases {
		if got := ParseLocation(tc.in); got != tc.want {
			t.Fatalf("ParseLocation(%q) = %+v, want %+v", tc.in, got, tc.want)
		}
	}
}

func TestSchemaTypeFor(t *testing.T) {
	cases := map[string]string{
		"food-dining":     "Restaurant",
		"Food Dining":     "Restaurant",
		"beauty-grooming": "BeautySalon",
		"underwater":      DefaultSchemaType,
		"":                DefaultSchemaType,
	}
	for in, want := range cases {
		if got := SchemaTypeFor(in); got != want {
			t.Fatalf("SchemaTypeFor(%q) = %q, want %q", in, got, want)
		}
	}
}
