// Package markup turns editor input into the HTML stored on pages and posts.
package markup

import (
	"bytes"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"site-catalog/internal/models"
)

// Renderer converts and sanitises content. It is safe for concurrent use.
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func NewRenderer() *Renderer {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").Globally()
	policy.AllowAttrs("loading").Matching(bluemonday.SpaceSeparatedTokens).OnElements("img")

	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			// Raw HTML in markdown is passed through and cleaned by the policy.
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
		policy: policy,
	}
}

// Render returns sanitised HTML for source written in format. An empty
// format means HTML.
func (r *Renderer) Render(format, source string) (string, error) {
	switch format {
	case "", models.FormatHTML:
		return r.policy.Sanitize(source), nil
	case models.FormatMarkdown:
		var buf bytes.Buffer
		if err := r.md.Convert([]byte(source), &buf); err != nil {
			return "", fmt.Errorf("render markdown: %w", err)
		}
		return r.policy.Sanitize(buf.String()), nil
	}
	return "", fmt.Errorf("unsupported format %q", format)
}
