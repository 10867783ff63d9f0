package batches

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-aipages/internal/siteinfo"
	"github.com/goliatone/go-aipages/internal/slugs"
	"github.com/goliatone/go-aipages/internal/urls"
)

// WriteRequest is the context handed to the content writer for one variant.
type WriteRequest struct {
	UpdateText string
	Business   siteinfo.Business
	Location   slugs.Location
	Variant    VariantTag
}

// WriteResult is the writer's draft for one variant. Path is an optional
// variant slug; the coordinator derives one when it is blank.
type WriteResult struct {
	Title        string
	Path         string
	PageType     string
	Description  string
	Highlights   []string
	FAQs         []siteinfo.FAQ
	Keywords     []string
	Testimonials []siteinfo.Testimonial
}

// ContentWriter produces page prose. Implementations usually call an LLM;
// errors are surfaced to callers verbatim.
type ContentWriter interface {
	Write(ctx context.Context, req WriteRequest) (WriteResult, error)
}

// ContentWriterFunc adapts a function to ContentWriter.
type ContentWriterFunc func(ctx context.Context, req WriteRequest) (WriteResult, error)

func (f ContentWriterFunc) Write(ctx context.Context, req WriteRequest) (WriteResult, error) {
	return f(ctx, req)
}

// TemplateWriter writes deterministic copy from fixed templates. It adds no
// FAQs or testimonials, so pages it drafts only score what the profile earns.
type TemplateWriter struct{}

func NewTemplateWriter() TemplateWriter {
	return TemplateWriter{}
}

func (TemplateWriter) Write(ctx context.Context, req WriteRequest) (WriteResult, error) {
	if err := ctx.Err(); err != nil {
		return WriteResult{}, err
	}
	name := strings.TrimSpace(req.Business.Name)
	if name == "" {
		name = "Local business"
	}
	city := req.Location.City
	if req.Location == slugs.UnknownLocation {
		city = ""
	}
	headline := summarize(req.UpdateText, 8)

	var title string
	switch req.Variant {
	case VariantLocal:
		title = joinNonBlank(" in ", headline, city)
	case VariantCategory:
		title = joinNonBlank(": ", categoryLabel(req.Business.Type), headline)
	case VariantBrandedLocal:
		title = joinNonBlank(" ", name, city) + ": " + headline
	case VariantServiceUrgent:
		title = "Now at " + name + ": " + headline
	case VariantCompetitive:
		title = joinNonBlank(" ", "Why choose", name) + ": " + headline
	default:
		title = headline + " at " + name
	}

	description := fmt.Sprintf("%s. %s", name, strings.TrimSpace(req.UpdateText))
	if city != "" {
		description = fmt.Sprintf("%s in %s, %s. %s", name, city, req.Location.State, strings.TrimSpace(req.UpdateText))
	}
	return WriteResult{
		Title:       title,
		PageType:    string(req.Variant),
		Description: description,
		Highlights:  []string{headline},
		Keywords:    urls.Keywords(req.UpdateText),
	}, nil
}

func summarize(text string, maxWords int) string {
	words := strings.Fields(text)
	if len(words) > maxWords {
		words = words[:maxWords]
	}
	out := strings.TrimRight(strings.Join(words, " "), ".!?,;:")
	if out == "" {
		return "Update"
	}
	return out
}

func categoryLabel(category string) string {
	label := strings.ReplaceAll(strings.TrimSpace(category), "-", " & ")
	if label == "" {
		return "Local business"
	}
	return strings.ToUpper(label[:1]) + label[1:]
}

func joinNonBlank(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			kept = append(kept, trimmed)
		}
	}
	return strings.Join(kept, sep)
}
