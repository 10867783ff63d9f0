// Package scoring rates how well a page is equipped for AI-driven discovery.
package scoring

import (
	"unicode/utf8"

	"github.com/goliatone/go-aipages/internal/siteinfo"
)

// Category budgets. They add up to MaxScore.
const (
	MaxScore       = 100
	AuthorityMax   = 30
	FAQMax         = 25
	CompetitiveMax = 20
	SocialMax      = 15
	KeywordMax     = 10
)

// Breakdown is the per-category contribution to a score.
type Breakdown struct {
	Authority   int `json:"authority"`
	FAQ         int `json:"faq"`
	Competitive int `json:"competitive"`
	SocialProof int `json:"social_proof"`
	Keywords    int `json:"keywords"`
}

// Total returns the clamped sum of all categories.
func (b Breakdown) Total() int {
	return clamp(b.Authority+b.FAQ+b.Competitive+b.SocialProof+b.Keywords, 0, MaxScore)
}

// Score returns a deterministic 0-100 discoverability score for info.
func Score(info siteinfo.Info) int {
	return Compute(info).Total()
}

// Compute returns the per-category breakdown behind Score.
func Compute(info siteinfo.Info) Breakdown {
	return Breakdown{
		Authority:   authority(info),
		FAQ:         faq(info.FAQs()),
		Competitive: competitive(info),
		SocialProof: socialProof(info.Testimonials()),
		Keywords:    keywords(info.Keywords()),
	}
}

// authority: 5 per award up to 15, 3 per certification up to 12, 1 per year
// in business up to 10, capped at 30 overall.
func authority(info siteinfo.Info) int {
	signals, ok := info.Authority()
	if !ok {
		return 0
	}
	points := min(len(signals.Awards)*5, 15) +
		min(len(signals.Certifications)*3, 12) +
		clamp(signals.YearsInBusiness, 0, 10)
	return min(points, AuthorityMax)
}

// faq: 3 per FAQ up to 20 plus 1 per answer longer than 50 characters up to 5.
func faq(faqs []siteinfo.FAQ) int {
	quality := 0
	for _, entry := range faqs {
		if utf8.RuneCountInString(entry.Answer) > 50 {
			quality++
		}
	}
	return min(min(len(faqs)*3, 20)+min(quality, 5), FAQMax)
}

// competitive: 3 per unique selling point up to 12, 2 per specialty up to 8.
func competitive(info siteinfo.Info) int {
	signals, ok := info.Competitive()
	if !ok {
		return 0
	}
	points := min(len(signals.UniqueSellingPoints)*3, 12) + min(len(signals.Specialties)*2, 8)
	return min(points, CompetitiveMax)
}

// socialProof: 2 per testimonial up to 10, 1 per rating of 4 or more up to 5.
func socialProof(testimonials []siteinfo.Testimonial) int {
	highRated := 0
	for _, testimonial := range testimonials {
		if testimonial.Rating >= 4 {
			highRated++
		}
	}
	return min(min(len(testimonials)*2, 10)+min(highRated, 5), SocialMax)
}

// keywords: 5 for more than 5 primary keywords, 5 for more than 10 semantic.
func keywords(sets siteinfo.Keywords) int {
	points := 0
	if len(sets.Primary) > 5 {
		points += 5
	}
	if len(sets.Semantic) > 10 {
		points += 5
	}
	return min(points, KeywordMax)
}

func clamp(value, lo, hi int) int {
	return max(lo, min(hi, value))
}
