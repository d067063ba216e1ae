// Package pdfcompose assembles a PDF from a base document plus overlay
// elements: an optional cover page, header and footer bands, and a
// translucent watermark on every content page.
//
// # Quick Start
//
//	c, err := pdfcompose.NewComposer()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer c.Close()
//
//	res, err := c.Compose(ctx, pdfcompose.Input{
//	    Source:    pdfcompose.Source{Kind: pdfcompose.SourceBlank},
//	    Cover:     pdfcompose.DefaultCover(),
//	    Header:    pdfcompose.DefaultHeader(),
//	    Footer:    pdfcompose.DefaultFooter(),
//	    Watermark: pdfcompose.DefaultWatermark(),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile(res.Filename, res.PDF, 0644)
//
// # Pipeline
//
//  1. Source acquisition: blank pages, a remote PDF, a selected PDF file, or
//     one DOM element captured in headless Chrome (go-rod)
//  2. Watermark acquisition: a remote image, or a synthesized text raster
//     when the image cannot be fetched or decoded
//  3. Cover page
//  4. Content pages: base content first, then bands, then the watermark
//  5. Serialization
//
// Loaded PDFs are never edited in place. Each source page is transcluded
// once and drawn onto a fresh page of the same size in a new document.
//
// # Layout
//
// With the "reserve" layout (default) base content is scaled into the
// frame between the bands. With "overpaint" it keeps the full page and the
// bands paint over its top and bottom strips.
//
// # Labels
//
// Band, cover and item texts are templates. {page} and {total} count
// content pages only; {date} and {title} come from Input.
//
// # Parallel Processing
//
// A Composer is single-threaded. Use Pool to compose several documents
// concurrently:
//
//	pool := pdfcompose.NewPool(pdfcompose.ResolvePoolSize(0))
//	defer pool.Close()
//
//	c, err := pool.Acquire()
//	if err != nil {
//	    return err
//	}
//	defer pool.Release(c)
package pdfcompose
