package watermark

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"
)

// Synthesized watermark parameters.
const (
	SynthText     = "WATERMARK"
	SynthSize     = 400   // square raster edge in pixels
	SynthFontSize = 56    // points at 72 DPI, so 1pt = 1px
	SynthAngle    = -45.0 // degrees, counter-clockwise on screen
)

var synthInk = color.NRGBA{R: 128, G: 128, B: 128, A: 255}

// Synthesize renders SynthText diagonally onto a transparent square raster.
// Opacity is left to the draw call that stamps it.
func Synthesize() *Image {
	face := synthFace()
	defer func() { _ = face.Close() }()

	strip := renderText(face, SynthText)

	dst := image.NewNRGBA(image.Rect(0, 0, SynthSize, SynthSize))
	draw.BiLinear.Transform(dst, rotateAbout(strip.Bounds(), SynthAngle, SynthSize), strip, strip.Bounds(), draw.Over, nil)

	img, err := encode(dst, true)
	if err != nil {
		// PNG encoding into memory only fails on writer errors.
		panic(err)
	}
	return img
}

// synthFace loads Go Regular, falling back to the built-in bitmap face.
func synthFace() font.Face {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return basicfont.Face7x13
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    SynthFontSize,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return basicfont.Face7x13
	}
	return face
}

// renderText draws s on a tight horizontal strip.
func renderText(face font.Face, s string) *image.NRGBA {
	d := &font.Drawer{Face: face}
	m := face.Metrics()
	w := d.MeasureString(s).Ceil()
	h := (m.Ascent + m.Descent).Ceil()

	strip := image.NewNRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
	d.Dst = strip
	d.Src = image.NewUniform(synthInk)
	d.Dot = fixed.Point26_6{X: 0, Y: m.Ascent}
	d.DrawString(s)
	return strip
}

// rotateAbout maps the centre of src onto the centre of a size x size
// destination, rotated by deg degrees.
func rotateAbout(src image.Rectangle, deg float64, size int) f64.Aff3 {
	theta := deg * math.Pi / 180
	cos, sin := math.Cos(theta), math.Sin(theta)
	cx, cy := float64(src.Dx())/2, float64(src.Dy())/2
	half := float64(size) / 2

	return f64.Aff3{
		cos, -sin, half - cos*cx + sin*cy,
		sin, cos, half - sin*cx - cos*cy,
	}
}
