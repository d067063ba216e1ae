package pdfcompose_test

import (
	"context"
	"fmt"

	"github.com/alnah/go-pdfcompose"
)

// Example composes three generated pages behind a cover, without a
// watermark so no network access is needed.
func Example() {
	c, err := pdfcompose.NewComposer()
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer c.Close()

	res, err := c.Compose(context.Background(), pdfcompose.Input{
		Source: pdfcompose.Source{Kind: pdfcompose.SourceBlank},
		Cover:  pdfcompose.DefaultCover(),
		Header: pdfcompose.DefaultHeader(),
		Footer: pdfcompose.DefaultFooter(),
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(res.Filename, res.Pages)
	// Output: pdf-with-full-size-watermark.pdf 4
}

// ExampleSelectFile shows that only files declared as PDF are accepted.
func ExampleSelectFile() {
	_, err := pdfcompose.SelectFile("photo.png", pdfcompose.ContentTypeOf("photo.png"), nil)
	fmt.Println(err)

	sel, _ := pdfcompose.SelectFile("x.pdf", pdfcompose.ContentTypeOf("x.pdf"), []byte("%PDF-1.7"))
	fmt.Println(pdfcompose.OutputName(pdfcompose.Source{Kind: pdfcompose.SourceFile, File: sel}))
	// Output:
	// selected file is not a PDF: photo.png has type "image/png"
	// modified-x.pdf
}
