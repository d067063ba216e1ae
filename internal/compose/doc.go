// Package compose paints covers, content pages and overlays onto a
// canvas.Document.
//
// Output is always built append-only into a fresh document: a cover (if
// any) followed by one page per source page, batch item or raster slice.
// Every content page is decorated in the same order: base content, header
// band, footer band, watermark.
package compose
