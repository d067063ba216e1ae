// Package capture rasterises one DOM element of a web page, or of a local
// HTML or Markdown file, to PNG using headless Chrome through go-rod.
//
// Markdown files are rendered with goldmark into the embedded page template
// first; the rendered content sits in the element matched by
// DefaultSelector.
package capture
