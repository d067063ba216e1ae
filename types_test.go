package pdfcompose

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/alnah/go-pdfcompose/internal/canvas"
)

func TestPageSettings_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		page    *PageSettings
		wantErr error
	}{
		{"nil", nil, nil},
		{"default", DefaultPageSettings(), nil},
		{"letter landscape", &PageSettings{Size: "Letter", Orientation: "LANDSCAPE"}, nil},
		{"empty orientation", &PageSettings{Size: PageSizeLegal}, nil},
		{"unknown size", &PageSettings{Size: "a3"}, ErrInvalidPageSize},
		{"unknown orientation", &PageSettings{Size: PageSizeA4, Orientation: "diagonal"}, ErrInvalidOrientation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if err := tt.page.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPageSettings_Dimensions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		page *PageSettings
		want canvas.Size
	}{
		{"nil is a4", nil, canvas.Size{W: 595.28, H: 841.89}},
		{"letter", &PageSettings{Size: PageSizeLetter}, canvas.Size{W: 612, H: 792}},
		{"legal landscape", &PageSettings{Size: PageSizeLegal, Orientation: OrientationLandscape}, canvas.Size{W: 1008, H: 612}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if diff := cmp.Diff(tt.want, tt.page.Dimensions()); diff != "" {
				t.Errorf("Dimensions() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDefaultBands_FitEveryPreset(t *testing.T) {
	t.Parallel()

	bands := DefaultHeader().Height + DefaultFooter().Height
	for _, size := range []string{PageSizeA4, PageSizeLetter, PageSizeLegal} {
		for _, o := range []string{OrientationPortrait, OrientationLandscape} {
			dim := (&PageSettings{Size: size, Orientation: o}).Dimensions()
			if bands >= dim.H {
				t.Errorf("%s %s: bands %.2fpt >= page height %.2fpt", size, o, bands, dim.H)
			}
		}
	}
}

func TestBand_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modify  func(b *Band)
		wantErr error
	}{
		{"default", func(*Band) {}, nil},
		{"short hex", func(b *Band) { b.Color = "#fff" }, nil},
		{"zero height", func(b *Band) { b.Height = 0 }, ErrInvalidBand},
		{"font too big", func(b *Band) { b.FontSize = 60 }, ErrInvalidFontSize},
		{"zero font", func(b *Band) { b.FontSize = 0 }, ErrInvalidFontSize},
		{"NaN height", func(b *Band) { b.Height = math.NaN() }, ErrInvalidBand},
		{"infinite height", func(b *Band) { b.Height = math.Inf(1) }, ErrInvalidBand},
		{"NaN font", func(b *Band) { b.FontSize = math.NaN() }, ErrInvalidFontSize},
		{"named color", func(b *Band) { b.Color = "blue" }, ErrInvalidColor},
		{"bad hex", func(b *Band) { b.TextColor = "#gggggg" }, ErrInvalidColor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			b := DefaultHeader()
			tt.modify(b)
			if err := b.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestInput_Validate_NaNBandHeight(t *testing.T) {
	t.Parallel()

	in := Input{
		Source: Source{Kind: SourceBlank},
		Header: &Band{Height: math.NaN(), FontSize: 10, Color: "#3498db", TextColor: "#ffffff"},
	}
	if err := in.Validate(); !errors.Is(err, ErrInvalidBand) {
		t.Errorf("Validate() error = %v, want %v", err, ErrInvalidBand)
	}
}

func TestWatermark_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opacity float64
		wantErr error
	}{
		{"default", DefaultOpacity, nil},
		{"opaque", 1, nil},
		{"zero", 0, ErrInvalidOpacity},
		{"above one", 1.01, ErrInvalidOpacity},
		{"NaN", math.NaN(), ErrInvalidOpacity},
		{"infinite", math.Inf(1), ErrInvalidOpacity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := &Watermark{Opacity: tt.opacity}
			if err := w.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseColor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    canvas.Color
		wantErr bool
	}{
		{"#3498db", canvas.Color{R: 52, G: 152, B: 219}, false},
		{"#FFFFFF", canvas.White, false},
		{"#000", canvas.Black, false},
		{"3498db", canvas.Color{}, true},
		{"#12345", canvas.Color{}, true},
		{"", canvas.Color{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := parseColor(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseColor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseColor(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}
