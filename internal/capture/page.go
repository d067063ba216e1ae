package capture

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/alnah/go-pdfcompose/internal/assets"
)

// ContentID is the id of the element wrapping rendered Markdown; the
// default capture selector targets it.
const ContentID = "pdf-content"

// DefaultSelector captures the rendered content wrapper.
const DefaultSelector = "#" + ContentID

type pageData struct {
	Title     string
	Style     template.CSS
	ContentID string
	Body      template.HTML
}

// PageBuilder wraps rendered Markdown in the page template with a style.
type PageBuilder struct {
	loader   assets.Loader
	markdown *Markdown
}

// NewPageBuilder creates a PageBuilder reading assets from loader.
func NewPageBuilder(loader assets.Loader) *PageBuilder {
	if loader == nil {
		loader = assets.NewEmbeddedLoader()
	}
	return &PageBuilder{loader: loader, markdown: NewMarkdown()}
}

// Build renders src and returns a complete HTML document. An empty style
// name means no stylesheet.
func (b *PageBuilder) Build(ctx context.Context, src, style string) (string, error) {
	body, err := b.markdown.Render(ctx, src)
	if err != nil {
		return "", err
	}

	var css string
	if style != "" {
		if css, err = b.loader.LoadStyle(style); err != nil {
			return "", err
		}
	}

	raw, err := b.loader.LoadTemplate(assets.PageTemplateName)
	if err != nil {
		return "", err
	}
	tmpl, err := template.New(assets.PageTemplateName).Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: parsing page template: %v", ErrHTMLConversion, err)
	}

	title := FirstHeading(src)
	if title == "" {
		title = "Document"
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, pageData{
		Title:     title,
		Style:     template.CSS(css), // #nosec G203 -- stylesheet comes from trusted assets
		ContentID: ContentID,
		Body:      template.HTML(body), // #nosec G203 -- goldmark output with raw HTML disabled
	})
	if err != nil {
		return "", fmt.Errorf("%w: executing page template: %v", ErrHTMLConversion, err)
	}
	return buf.String(), nil
}
