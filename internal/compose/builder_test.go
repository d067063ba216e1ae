package compose

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/alnah/go-pdfcompose/internal/canvas"
	"github.com/alnah/go-pdfcompose/internal/labels"
)

// approx absorbs rounding in derived coordinates.
var approx = cmpopts.EquateApprox(0, 1e-9)

var stamp = &Stamp{Image: canvas.ImageRef{Name: "wm", Width: 100, Height: 40}, Opacity: 0.2}

func newBuilder(policy Policy, withCover bool) *Builder {
	b := &Builder{
		Page:    a4,
		Overlay: Overlay{Header: headerBand(), Footer: footerBand(), Watermark: stamp},
		Policy:  policy,
		Line:    TextLine{Template: "This is the main PDF content. - Page {page}", X: 40, Y: 100, Size: 14},
		Values:  labels.Values{Title: "Report"},
	}
	if withCover {
		b.Cover = &Cover{
			Fill:           blue,
			Title:          "COVER PAGE TITLE",
			Subtitle:       "This is the subtitle of the cover page",
			TitleSize:      30,
			SubtitleSize:   16,
			TextColor:      canvas.White,
			TitleOffset:    -20,
			SubtitleOffset: 20,
			Watermark:      stamp,
		}
	}
	return b
}

func kinds(ops []canvas.Op) []canvas.OpKind {
	out := make([]canvas.OpKind, len(ops))
	for i, op := range ops {
		out[i] = op.Kind
	}
	return out
}

func texts(ops []canvas.Op) []string {
	var out []string
	for _, op := range ops {
		if op.Kind == canvas.OpText {
			out = append(out, op.Text)
		}
	}
	return out
}

func TestBuilder_Rebuild(t *testing.T) {
	t.Parallel()

	rec := canvas.NewRecorder()
	refs, err := rec.EmbedPages(nil, []canvas.Size{a4, letter, a4})
	if err != nil {
		t.Fatalf("EmbedPages() error = %v", err)
	}

	b := newBuilder(PolicyOverpaint, true)
	if err := b.Rebuild(rec, refs); err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}

	if got := rec.PageCount(); got != 4 {
		t.Fatalf("PageCount() = %d, want 4", got)
	}
	if diff := cmp.Diff([]canvas.Size{a4, a4, letter, a4}, rec.Sizes); diff != "" {
		t.Errorf("page sizes mismatch (-want +got):\n%s", diff)
	}

	wantCover := []canvas.OpKind{canvas.OpRect, canvas.OpText, canvas.OpText, canvas.OpImage}
	if diff := cmp.Diff(wantCover, kinds(rec.OpsOnPage(1))); diff != "" {
		t.Errorf("cover ops mismatch (-want +got):\n%s", diff)
	}

	wantContent := []canvas.OpKind{
		canvas.OpEmbedded,
		canvas.OpRect, canvas.OpText,
		canvas.OpRect, canvas.OpText,
		canvas.OpImage,
	}
	for page := 2; page <= 4; page++ {
		ops := rec.OpsOnPage(page)
		if diff := cmp.Diff(wantContent, kinds(ops)); diff != "" {
			t.Errorf("page %d ops mismatch (-want +got):\n%s", page, diff)
			continue
		}
		// Every output page is new and carries the source page it replaces.
		if want := fmt.Sprintf("page-%d", page-1); ops[0].Name != want {
			t.Errorf("page %d transcludes %q, want %q", page, ops[0].Name, want)
		}
		if ops[0].Rect != (canvas.Rect{W: rec.Sizes[page-1].W, H: rec.Sizes[page-1].H}) {
			t.Errorf("page %d overpaint placement = %+v, want full page", page, ops[0].Rect)
		}
	}

	wantLabels := []string{"Header - Page 2", "Footer - Page 2"}
	if diff := cmp.Diff(wantLabels, texts(rec.OpsOnPage(3))); diff != "" {
		t.Errorf("page 3 labels mismatch (-want +got):\n%s", diff)
	}
}

func TestBuilder_Rebuild_ReserveFitsBetweenBands(t *testing.T) {
	t.Parallel()

	rec := canvas.NewRecorder()
	refs, _ := rec.EmbedPages(nil, []canvas.Size{a4})

	if err := newBuilder(PolicyReserve, false).Rebuild(rec, refs); err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}

	got := rec.OpsOnPage(1)[0].Rect
	if got.Y != 50 {
		t.Errorf("content top = %v, want 50", got.Y)
	}
	if bottom := got.Y + got.H; bottom > a4.H-40+1e-9 {
		t.Errorf("content bottom = %v, overlaps footer at %v", bottom, a4.H-40)
	}
}

func TestBuilder_Rebuild_Errors(t *testing.T) {
	t.Parallel()

	t.Run("no pages no cover", func(t *testing.T) {
		t.Parallel()

		err := newBuilder(PolicyReserve, false).Rebuild(canvas.NewRecorder(), nil)
		if !errors.Is(err, ErrEmptyDocument) {
			t.Errorf("Rebuild() error = %v, want %v", err, ErrEmptyDocument)
		}
	})

	t.Run("page too short for bands", func(t *testing.T) {
		t.Parallel()

		rec := canvas.NewRecorder()
		refs, _ := rec.EmbedPages(nil, []canvas.Size{{W: 100, H: 80}})
		err := newBuilder(PolicyReserve, true).Rebuild(rec, refs)
		if !errors.Is(err, ErrBandsOverlap) {
			t.Errorf("Rebuild() error = %v, want %v", err, ErrBandsOverlap)
		}
		if rec.PageCount() != 0 {
			t.Errorf("PageCount() = %d after rejected rebuild, want 0", rec.PageCount())
		}
	})
}

func TestBuilder_Batch(t *testing.T) {
	t.Parallel()

	rec := canvas.NewRecorder()
	b := newBuilder(PolicyOverpaint, true)
	if err := b.Batch(rec, []string{"a", "b", "c"}); err != nil {
		t.Fatalf("Batch() error = %v", err)
	}

	if got := rec.PageCount(); got != 4 {
		t.Fatalf("PageCount() = %d, want 4", got)
	}
	// The last draw lands on the last page: no trailing blank page.
	if last := rec.Ops[len(rec.Ops)-1]; last.Page != 4 {
		t.Errorf("last op on page %d, want 4", last.Page)
	}

	ops := rec.OpsOnPage(4)
	want := []canvas.Op{
		{Kind: canvas.OpText, Page: 4, Rect: canvas.Rect{X: 40, Y: 100}, Text: "This is the main PDF content. - Page 3"},
		{Kind: canvas.OpRect, Page: 4, Rect: canvas.Rect{W: a4.W, H: 50}, Color: blue},
		{Kind: canvas.OpText, Page: 4, Rect: canvas.Rect{X: a4.W / 2, Y: 25 + 14*baselineShift}, Color: canvas.White, Text: "Header - Page 3"},
		{Kind: canvas.OpRect, Page: 4, Rect: canvas.Rect{Y: a4.H - 40, W: a4.W, H: 40}, Color: blue},
		{Kind: canvas.OpText, Page: 4, Rect: canvas.Rect{X: a4.W / 2, Y: a4.H - 40 + 20 + 12*baselineShift}, Color: canvas.White, Text: "Footer - Page 3"},
		{Kind: canvas.OpImage, Page: 4, Rect: canvas.Rect{X: (a4.W - 100) / 2, Y: (a4.H - 40) / 2, W: 100, H: 40}, Name: "wm", Opacity: 0.2},
	}
	if diff := cmp.Diff(want, ops, approx); diff != "" {
		t.Errorf("page 4 ops mismatch (-want +got):\n%s", diff)
	}
}

func TestBuilder_Batch_ItemTemplate(t *testing.T) {
	t.Parallel()

	rec := canvas.NewRecorder()
	b := newBuilder(PolicyReserve, false)
	b.Line.Template = ""
	b.Overlay = Overlay{Header: &Band{Height: 120, FontSize: 10, Label: "{title} {page}/{total}"}}

	if err := b.Batch(rec, []string{"alpha", "beta"}); err != nil {
		t.Fatalf("Batch() error = %v", err)
	}

	ops := rec.OpsOnPage(2)
	if diff := cmp.Diff([]string{"beta", "Report 2/2"}, texts(ops)); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
	// The item line is pushed below a header taller than its default baseline.
	if got := ops[0].Rect.Y; got != 134 {
		t.Errorf("item baseline = %v, want 134", got)
	}
}

func TestBuilder_Batch_NoItemsNoCover(t *testing.T) {
	t.Parallel()

	err := newBuilder(PolicyReserve, false).Batch(canvas.NewRecorder(), nil)
	if !errors.Is(err, ErrEmptyDocument) {
		t.Errorf("Batch() error = %v, want %v", err, ErrEmptyDocument)
	}
}

func TestBuilder_Raster(t *testing.T) {
	t.Parallel()

	page := canvas.Size{W: 200, H: 300}
	b := newBuilder(PolicyReserve, false)
	b.Page = page
	b.Overlay.Watermark = nil

	rec := canvas.NewRecorder()
	img := canvas.ImageRef{Name: "capture", Width: 100, Height: 250}
	if err := b.Raster(rec, img); err != nil {
		t.Fatalf("Raster() error = %v", err)
	}

	// Frame is 200x210 between the bands; the image scales to 200x500.
	if got := rec.PageCount(); got != 3 {
		t.Fatalf("PageCount() = %d, want 3", got)
	}

	frame := canvas.Rect{X: 0, Y: 50, W: 200, H: 210}
	for page := 1; page <= 3; page++ {
		ops := rec.OpsOnPage(page)
		want := []canvas.Op{
			{Kind: canvas.OpClipBegin, Page: page, Rect: frame},
			{Kind: canvas.OpImage, Page: page, Rect: canvas.Rect{X: 0, Y: 50 - float64(page-1)*210, W: 200, H: 500}, Name: "capture", Opacity: 1},
			{Kind: canvas.OpClipEnd, Page: page},
		}
		if diff := cmp.Diff(want, ops[:3]); diff != "" {
			t.Errorf("page %d slice mismatch (-want +got):\n%s", page, diff)
		}
	}
}

func TestBuilder_Raster_RasterCover(t *testing.T) {
	t.Parallel()

	b := newBuilder(PolicyOverpaint, false)
	b.Cover = &Cover{Image: &canvas.ImageRef{Name: "cover", Width: 1000, Height: 500}}

	rec := canvas.NewRecorder()
	if err := b.Raster(rec, canvas.ImageRef{Name: "body", Width: 10, Height: 10}); err != nil {
		t.Fatalf("Raster() error = %v", err)
	}

	cover := rec.OpsOnPage(1)
	if diff := cmp.Diff([]canvas.OpKind{canvas.OpClipBegin, canvas.OpImage, canvas.OpClipEnd}, kinds(cover)); diff != "" {
		t.Fatalf("cover ops mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(canvas.Rect{W: a4.W, H: a4.W / 2}, cover[1].Rect, approx); diff != "" {
		t.Errorf("cover image rect mismatch (-want +got):\n%s", diff)
	}
}
