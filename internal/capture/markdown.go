package capture

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// ==text== is carried through goldmark as Private Use Area markers and
// turned into <mark> afterwards, so raw HTML stays disabled.
const (
	markStart = "\uE000"
	markEnd   = "\uE001"
)

var (
	crlfOrCR           = regexp.MustCompile(`\r\n?`)
	multipleBlankLines = regexp.MustCompile(`\n{3,}`)
	highlightPattern   = regexp.MustCompile(`==(.*?)==`)
)

// Markdown renders Markdown to an HTML fragment.
type Markdown struct {
	md goldmark.Markdown
}

// NewMarkdown creates a renderer with GFM, footnotes and chroma
// highlighting. Highlighting uses inline styles: the captured page has no
// external stylesheet for chroma classes.
func NewMarkdown() *Markdown {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
				highlighting.WithFormatOptions(chromahtml.WithLineNumbers(false)),
			),
		),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	return &Markdown{md: md}
}

// Render converts src to an HTML fragment. goldmark has no context support,
// so conversion runs in a goroutine raced against ctx.
func (m *Markdown) Render(ctx context.Context, src string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}
	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := m.md.Convert([]byte(preprocess(src)), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}
		done <- result{html: postprocess(buf.String())}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}

func preprocess(src string) string {
	src = crlfOrCR.ReplaceAllString(src, "\n")
	src = highlightPattern.ReplaceAllString(src, markStart+"$1"+markEnd)
	return multipleBlankLines.ReplaceAllString(src, "\n\n")
}

func postprocess(out string) string {
	return strings.NewReplacer(markStart, "<mark>", markEnd, "</mark>").Replace(out)
}

// FirstHeading returns the text of the first level-one ATX heading, or "".
func FirstHeading(src string) string {
	for _, line := range strings.Split(crlfOrCR.ReplaceAllString(src, "\n"), "\n") {
		if rest, ok := strings.CutPrefix(line, "# "); ok {
			return strings.TrimSpace(rest)
		}
	}
	return ""
}
