package scoring

import (
	"strings"
	"testing"

	"github.com/goliatone/go-aipages/internal/business"
	"github.com/goliatone/go-aipages/internal/siteinfo"
)

func repeatAwards(n int) []business.Award {
	out := make([]business.Award, n)
	for i := range out {
		out[i] = business.NamedAward("award")
	}
	return out
}

func repeatStrings(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = "value"
	}
	return out
}

func maximalInfo() siteinfo.Info {
	longAnswer := strings.Repeat("a", 51)
	faqs := make([]siteinfo.FAQ, 8)
	for i := range faqs {
		faqs[i] = siteinfo.FAQ{Question: "q?", Answer: longAnswer}
	}
	testimonials := make([]siteinfo.Testimonial, 6)
	for i := range testimonials {
		testimonials[i] = siteinfo.Testimonial{Author: "a", Text: "t", Rating: 5}
	}
	return siteinfo.NewBuilder().
		WithAuthority(siteinfo.Authority{Awards: repeatAwards(4), Certifications: repeatAwards(5), YearsInBusiness: 25}).
		WithFAQs(faqs...).
		WithCompetitive(siteinfo.Competitive{UniqueSellingPoints: repeatStrings(5), Specialties: repeatStrings(5)}).
		WithTestimonials(testimonials...).
		WithKeywords(siteinfo.Keywords{Primary: repeatStrings(6), Semantic: repeatStrings(11)}).
		Build()
}

func TestScoreEmptyInfoIsZero(t *testing.T) {
	info := siteinfo.NewBuilder().
		WithBusiness(siteinfo.Business{Name: "Casa", Type: "food-dining", City: "Austin", State: "TX"}).
		WithTemporal(siteinfo.Temporal{UpdateText: "Happy hour 5-7pm! $5 margaritas"}).
		Build()
	if got := Score(info); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestScoreMaximalInfoIsHundred(t *testing.T) {
	info := maximalInfo()
	if got := Score(info); got != 100 {
		t.Fatalf("expected 100, got %d (%+v)", got, Compute(info))
	}
	breakdown := Compute(info)
	want := Breakdown{Authority: 30, FAQ: 25, Competitive: 20, SocialProof: 15, Keywords: 10}
	if breakdown != want {
		t.Fatalf("expected %+v, got %+v", want, breakdown)
	}
}

func TestScoreCategoryRules(t *testing.T) {
	cases := []struct {
		name string
		info siteinfo.Info
		want Breakdown
	}{
		{
			name: "authority partial",
			info: siteinfo.NewBuilder().WithAuthority(siteinfo.Authority{Awards: repeatAwards(1), Certifications: repeatAwards(2), YearsInBusiness: 3}).Build(),
			want: Breakdown{Authority: 14},
		},
		{
			name: "faq quality bonus only for long answers",
			info: siteinfo.NewBuilder().WithFAQs(
				siteinfo.FAQ{Question: "a?", Answer: "short"},
				siteinfo.FAQ{Question: "b?", Answer: strings.Repeat("x", 50)},
				siteinfo.FAQ{Question: "c?", Answer: strings.Repeat("x", 51)},
			).Build(),
			want: Breakdown{FAQ: 10},
		},
		{
			name: "faq answers are measured in characters",
			info: siteinfo.NewBuilder().WithFAQs(
				siteinfo.FAQ{Question: "a?", Answer: strings.Repeat("ñ", 30)},
				siteinfo.FAQ{Question: "b?", Answer: strings.Repeat("é", 51)},
			).Build(),
			want: Breakdown{FAQ: 7},
		},
		{
			name: "social proof counts high ratings",
			info: siteinfo.NewBuilder().WithTestimonials(
				siteinfo.Testimonial{Text: "a", Rating: 3},
				siteinfo.Testimonial{Text: "b", Rating: 4},
			).Build(),
			want: Breakdown{SocialProof: 5},
		},
		{
			name: "keyword thresholds are strict",
			info: siteinfo.NewBuilder().WithKeywords(siteinfo.Keywords{Primary: repeatStrings(5), Semantic: repeatStrings(11)}).Build(),
			want: Breakdown{Keywords: 5},
		},
		{
			name: "competitive caps per signal",
			info: siteinfo.NewBuilder().WithCompetitive(siteinfo.Competitive{UniqueSellingPoints: repeatStrings(10), Specialties: repeatStrings(1)}).Build(),
			want: Breakdown{Competitive: 14},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Compute(tc.info); got != tc.want {
				t.Fatalf("expected %+v, got %+v", tc.want, got)
			}
		})
	}
}

func TestScoreIsDeterministicAndBounded(t *testing.T) {
	info := maximalInfo()
	first := Score(info)
	for i := 0; i < 5; i++ {
		if got := Score(info); got != first {
			t.Fatalf("expected stable score %d, got %d", first, got)
		}
	}
	if total := (Breakdown{Authority: 90, FAQ: 90}).Total(); total != MaxScore {
		t.Fatalf("expected clamp to %d, got %d", MaxScore, total)
	}
	if total := (Breakdown{Authority: -5}).Total(); total != 0 {
		t.Fatalf("expected clamp to 0, got %d", total)
	}
}
