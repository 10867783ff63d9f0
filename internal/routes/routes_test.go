package routes_test

import (
	"testing"

	"github.com/goliatone/go-aipages/internal/routes"
	"github.com/goliatone/go-aipages/internal/slugs"
)

func TestBuilderPaths(t *testing.T) {
	builder := routes.NewBuilder("https://pages.example.com")
	location := slugs.ParseLocation("Austin, TX")

	cases := []struct {
		name    string
		seg     routes.Segments
		wantURL string
		want    string
	}{
		{
			name:    "business page",
			seg:     routes.SegmentsFor(location, "Casa Verde Cantina", ""),
			wantURL: "https://pages.example.com/us/tx/austin/casa-verde-cantina",
			want:    "/us/tx/austin/casa-verde-cantina",
		},
		{
			name:    "variant page",
			seg:     routes.SegmentsFor(location, "Casa Verde Cantina", "Happy Austin"),
			wantURL: "https://pages.example.com/us/tx/austin/casa-verde-cantina/happy-austin",
			want:    "/us/tx/austin/casa-verde-cantina/happy-austin",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gotURL, err := builder.URL(tc.seg)
			if err != nil {
				t.Fatalf("URL: %v", err)
			}
			if gotURL != tc.wantURL {
				t.Fatalf("URL() = %q, want %q", gotURL, tc.wantURL)
			}
			got, err := builder.Path(tc.seg)
			if err != nil {
				t.Fatalf("Path: %v", err)
			}
			if got != tc.want {
				t.Fatalf("Path() = %q, want %q", got, tc.want)
			}
			parsed, ok := routes.Parse(got)
			if !ok || parsed != tc.seg {
				t.Fatalf("Parse(%q) = %+v, %v", got, parsed, ok)
			}
		})
	}
}

func TestSegmentsForUnknownLocation(t *testing.T) {
	seg := routes.SegmentsFor(slugs.ParseLocation(""), "Café Olé", "")
	if seg.Country != "us" || seg.State != "xx" || seg.City != "unknown" {
		t.Fatalf("unexpected location segments %+v", seg)
	}
	if seg.Business != "cafe-ole" {
		t.Fatalf("expected transliterated business slug, got %q", seg.Business)
	}
}

func TestBuilderRejectsIncompleteSegments(t *testing.T) {
	builder := routes.NewBuilder("")
	if _, err := builder.URL(routes.Segments{Country: "us"}); err == nil {
		t.Fatalf("expected error for incomplete segments")
	}
}

func TestParseRejectsOtherShapes(t *testing.T) {
	for _, path := range []string{"", "/", "/us/tx/austin", "/us/tx/austin/a/b/c", "/us//austin/a"} {
		if _, ok := routes.Parse(path); ok {
			t.Fatalf("expected Parse(%q) to fail", path)
		}
	}
}
