package imaging

import (
	"image"
	"image/color"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ironsheep/ocr-overlay/internal/geometry"
)

// SampleWord is a word drawn on the sample image with its exact bounds.
type SampleWord struct {
	Text   string
	Bounds geometry.Rect
}

// Sample is the built-in demonstration image: two people above two lines of
// large print. Word bounds and face regions are known exactly, so the sample
// can be "recognized" without an OCR engine installed.
type Sample struct {
	Image *image.NRGBA
	Lines [][]SampleWord
	Faces []geometry.Rect
}

// Sample image layout.
const (
	sampleWidth  = 640
	sampleHeight = 400
	sampleScale  = 4 // glyph upscaling factor
)

var (
	sampleBackground = color.NRGBA{R: 221, G: 227, B: 234, A: 255}
	sampleSkin       = color.NRGBA{R: 224, G: 172, B: 140, A: 255}
	sampleShirt      = color.NRGBA{R: 40, G: 70, B: 140, A: 255}
	sampleInk        = color.NRGBA{A: 255}
)

var sampleText = []string{"HELLO WORLD", "OCR OVERLAY"}

// NewSample draws the sample image.
func NewSample() *Sample {
	img := imaging.New(sampleWidth, sampleHeight, sampleBackground)
	s := &Sample{Image: img}

	for _, head := range []image.Rectangle{
		image.Rect(170, 30, 230, 110),
		image.Rect(410, 30, 470, 110),
	} {
		body := image.Rect(head.Min.X-25, head.Max.Y+10, head.Max.X+25, head.Max.Y+70)
		fillRect(img, body, sampleShirt)
		fillEllipse(img, head, sampleSkin)
		s.Faces = append(s.Faces, geometry.FromImageRect(head))
	}

	face := basicfont.Face7x13
	advance := face.Advance * sampleScale
	lineHeight := face.Height * sampleScale
	top := 220
	for _, text := range sampleText {
		left := (sampleWidth - len(text)*advance) / 2

		strip := image.NewNRGBA(image.Rect(0, 0, len(text)*face.Advance, face.Height))
		d := &font.Drawer{
			Dst:  strip,
			Src:  image.NewUniform(sampleInk),
			Face: face,
			Dot:  fixed.P(0, face.Ascent),
		}
		d.DrawString(text)
		scaled := imaging.Resize(strip, strip.Bounds().Dx()*sampleScale, strip.Bounds().Dy()*sampleScale, imaging.NearestNeighbor)
		img = imaging.Overlay(img, scaled, image.Pt(left, top), 1.0)

		var line []SampleWord
		offset := 0
		for _, word := range strings.Fields(text) {
			idx := strings.Index(text[offset:], word) + offset
			line = append(line, SampleWord{
				Text: word,
				Bounds: geometry.Rect{
					X:      float64(left + idx*advance),
					Y:      float64(top),
					Width:  float64(len(word) * advance),
					Height: float64(lineHeight),
				},
			})
			offset = idx + len(word)
		}
		s.Lines = append(s.Lines, line)
		top += lineHeight + 20
	}

	s.Image = img
	return s
}

// Text returns the sample's text, one line per row.
func (s *Sample) Text() string {
	return strings.Join(sampleText, "\n")
}

func fillRect(img *image.NRGBA, r image.Rectangle, c color.NRGBA) {
	r = r.Intersect(img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
}

// fillEllipse fills the ellipse inscribed in r.
func fillEllipse(img *image.NRGBA, r image.Rectangle, c color.NRGBA) {
	cx := float64(r.Min.X+r.Max.X) / 2
	cy := float64(r.Min.Y+r.Max.Y) / 2
	rx := float64(r.Dx()) / 2
	ry := float64(r.Dy()) / 2
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			dx := (float64(x) + 0.5 - cx) / rx
			dy := (float64(y) + 0.5 - cy) / ry
			if dx*dx+dy*dy <= 1 {
				img.SetNRGBA(x, y, c)
			}
		}
	}
}
