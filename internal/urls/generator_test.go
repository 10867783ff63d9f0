package urls

import (
	"regexp"
	"strings"
	"testing"
	"time"
)

var slugFormat = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]{0,48}[a-z0-9])?$`)

func fixedClock() time.Time {
	return time.Date(2026, 3, 1, 12, 0, 0, 123*int(time.Millisecond), time.UTC)
}

func TestGeneratePrefersServiceWordAndCity(t *testing.T) {
	gen := NewGenerator(WithClock(fixedClock))

	got := gen.Generate(Input{
		BusinessType:  "food-dining",
		UpdateContent: "Happy hour 5-7pm! $5 margaritas",
		Location:      "Austin, TX",
	})

	if !strings.Contains(got.Primary, "austin") {
		t.Fatalf("expected primary to include city, got %q", got.Primary)
	}
	if !strings.Contains(got.Primary, "happy") && !strings.Contains(got.Primary, "margaritas") {
		t.Fatalf("expected primary to include a service word, got %q", got.Primary)
	}
	if got.Primary != "happy-austin" {
		t.Fatalf("expected happy-austin, got %q", got.Primary)
	}
	if got.Alternatives[0] != "happy-hour" {
		t.Fatalf("expected service+detail as first alternative, got %q", got.Alternatives[0])
	}
	if got.Alternatives[1] != "food-dining-austin" {
		t.Fatalf("expected type+city as second alternative, got %q", got.Alternatives[1])
	}
	if got.Alternatives[2] != "happy-offer" {
		t.Fatalf("expected first fallback, got %q", got.Alternatives[2])
	}
	if got.Reasoning == "" {
		t.Fatalf("expected reasoning")
	}
}

func TestGenerateSpecialtyCandidateOrder(t *testing.T) {
	gen := NewGenerator(WithClock(fixedClock))

	got := gen.Generate(Input{
		BusinessType:  "beauty-grooming",
		UpdateContent: "Balayage special this weekend",
		Location:      "Denver, CO, USA",
		Specialties:   []string{"Color Correction"},
	})

	want := []string{
		"balayage-denver",
		"color-correction-balayage",
		"balayage-special",
		"beauty-grooming-denver",
	}
	for i, slug := range got.All() {
		if slug != want[i] {
			t.Fatalf("candidate %d: expected %q, got %q", i, want[i], slug)
		}
	}
}

func TestGenerateAlwaysReturnsFourUniqueWellFormedSlugs(t *testing.T) {
	gen := NewGenerator(WithClock(fixedClock))

	inputs := []Input{
		{},
		{UpdateContent: "!!!"},
		{BusinessType: "retail", Location: "nowhere"},
		{UpdateContent: "the and for", Location: "Austin, TX"},
		{UpdateContent: "sale", Location: "Austin, TX", BusinessType: "retail"},
		{UpdateContent: strings.Repeat("extraordinarily ", 10), Location: strings.Repeat("Longcityname", 8) + ", TX"},
		{Keywords: []string{"brunch", "mimosas"}, Location: "Miami, FL"},
	}

	for _, in := range inputs {
		got := gen.Generate(in)
		seen := map[string]bool{}
		for _, slug := range got.All() {
			if !slugFormat.MatchString(slug) {
				t.Fatalf("input %+v: malformed slug %q", in, slug)
			}
			if seen[slug] {
				t.Fatalf("input %+v: duplicate slug %q in %v", in, slug, got.All())
			}
			seen[slug] = true
		}
	}
}

func TestGeneratePadsWithClockSuffix(t *testing.T) {
	gen := NewGenerator(WithClock(fixedClock))

	got := gen.Generate(Input{UpdateContent: "sale"})

	want := []string{"sale-offer", "sale-123", "sale-124", "sale-125"}
	for i, slug := range got.All() {
		if slug != want[i] {
			t.Fatalf("candidate %d: expected %q, got %q", i, want[i], slug)
		}
	}
}

func TestGenerateFallsBackToKeywords(t *testing.T) {
	gen := NewGenerator(WithClock(fixedClock))

	got := gen.Generate(Input{Keywords: []string{"brunch", "mimosas"}, Location: "Miami, FL"})
	if got.Primary != "brunch-miami" {
		t.Fatalf("expected keyword-derived primary, got %q", got.Primary)
	}
}

func TestKeywordsDropsShortAndStopWords(t *testing.T) {
	got := Keywords("The BEST tacos, now with $2 salsa & chips!")
	want := []string{"best", "tacos", "salsa", "chips"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestKeywordsCountsCharactersNotBytes(t *testing.T) {
	got := Keywords("Año del ñu en Peñasco")
	want := []string{"año", "del", "peñasco"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}
