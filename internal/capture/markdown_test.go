package capture

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestMarkdown_Render(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want []string
	}{
		{
			name: "heading gets an id",
			src:  "# Quarterly Report",
			want: []string{`<h1 id="quarterly-report">Quarterly Report</h1>`},
		},
		{
			name: "highlight becomes mark",
			src:  "this is ==important== text",
			want: []string{"<mark>important</mark>"},
		},
		{
			name: "hard wraps use xhtml breaks",
			src:  "first\nsecond",
			want: []string{"first<br />"},
		},
		{
			name: "gfm table",
			src:  "| a | b |\n|---|---|\n| 1 | 2 |",
			want: []string{"<table>", "<td>1</td>"},
		},
		{
			name: "code is highlighted inline",
			src:  "```go\nfunc main() {}\n```",
			want: []string{"<pre", "style="},
		},
		{
			name: "crlf is normalized",
			src:  "# One\r\n\r\n\r\n\r\nbody",
			want: []string{`<h1 id="one">One</h1>`, "<p>body</p>"},
		},
	}

	m := NewMarkdown()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := m.Render(context.Background(), tt.src)
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("Render() = %q, want it to contain %q", got, w)
				}
			}
		})
	}
}

func TestMarkdown_Render_RawHTMLDisabled(t *testing.T) {
	t.Parallel()

	got, err := NewMarkdown().Render(context.Background(), "<script>alert(1)</script>")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if strings.Contains(got, "<script>") {
		t.Errorf("Render() = %q, raw HTML passed through", got)
	}
}

func TestMarkdown_Render_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMarkdown().Render(ctx, "# x")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Render() error = %v, want %v", err, context.Canceled)
	}
}

func TestFirstHeading(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{"first h1", "intro\n# Title \n# Second", "Title"},
		{"h2 ignored", "## Sub\ntext", ""},
		{"crlf", "# Windows\r\nbody", "Windows"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := FirstHeading(tt.src); got != tt.want {
				t.Errorf("FirstHeading(%q) = %q, want %q", tt.src, got, tt.want)
			}
		})
	}
}
