package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ironsheep/ocr-overlay/internal/geometry"
	"github.com/ironsheep/ocr-overlay/internal/overlay"
)

// DefaultColors are the outline colors used when RenderOptions leaves a style
// unset.
var DefaultColors = map[overlay.Style]string{
	overlay.StyleHorizontal: "#2B88D8",
	overlay.StyleVertical:   "#E81123",
	overlay.StyleFace:       "#FFB900",
}

// RenderOptions controls how an overlay is drawn.
type RenderOptions struct {
	// Width and Height are the display surface size. Zero uses the image size.
	Width, Height int

	// Thickness is the outline width in pixels. Zero means 2.
	Thickness int

	// Labels draws each word's text above its box.
	Labels bool

	// Colors maps a style to a hex color such as "#FF0000" or "#F00".
	Colors map[overlay.Style]string
}

// Render draws the word and face overlays on top of img scaled to the
// display surface. Boxes are taken in display coordinates, so the frames
// must come from engines scaled for the same surface. Word boxes are rotated
// around the frame's rotation center when one is set.
func Render(img image.Image, words, faces overlay.Frame, opts RenderOptions) (*image.NRGBA, error) {
	bounds := img.Bounds()
	w, h := opts.Width, opts.Height
	if w <= 0 || h <= 0 {
		w, h = bounds.Dx(), bounds.Dy()
	}
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("cannot render an empty image")
	}

	var canvas *image.NRGBA
	if w == bounds.Dx() && h == bounds.Dy() {
		canvas = imaging.Clone(img)
	} else {
		canvas = imaging.Resize(img, w, h, imaging.Lanczos)
	}

	thickness := opts.Thickness
	if thickness <= 0 {
		thickness = 2
	}

	palette := make(map[overlay.Style]color.NRGBA, len(DefaultColors))
	for style, hex := range DefaultColors {
		if v, ok := opts.Colors[style]; ok && v != "" {
			hex = v
		}
		c, err := parseColor(hex)
		if err != nil {
			return nil, fmt.Errorf("invalid %s color: %w", style, err)
		}
		palette[style] = c
	}

	for _, box := range faces.Boxes {
		strokePolygon(canvas, box.Display.Corners(), palette[box.Style], thickness)
	}

	for _, box := range words.Boxes {
		corners := box.Display.Corners()
		if words.Rotation != nil {
			corners = box.Display.RotatedCorners(words.Rotation.Angle, words.Rotation.Center)
		}
		c := palette[box.Style]
		strokePolygon(canvas, corners, c, thickness)
		if opts.Labels && box.Text != "" {
			drawLabel(canvas, box.Text, topLeft(corners), c)
		}
	}

	return canvas, nil
}

// parseColor parses "#RRGGBB" or "#RGB" into an opaque color.
func parseColor(hex string) (color.NRGBA, error) {
	if len(hex) == 4 && hex[0] == '#' {
		hex = string([]byte{'#', hex[1], hex[1], hex[2], hex[2], hex[3], hex[3]})
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}

func strokePolygon(img *image.NRGBA, corners [4]geometry.Point, c color.NRGBA, thickness int) {
	for i := range corners {
		a, b := corners[i], corners[(i+1)%len(corners)]
		strokeLine(img, a, b, c, thickness)
	}
}

// strokeLine draws a line with Bresenham's algorithm, stamping a square pen
// of the given thickness at every step.
func strokeLine(img *image.NRGBA, a, b geometry.Point, c color.NRGBA, thickness int) {
	x0, y0 := int(math.Round(a.X)), int(math.Round(a.Y))
	x1, y1 := int(math.Round(b.X)), int(math.Round(b.Y))

	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy

	half := thickness / 2
	for {
		pen := image.Rect(x0-half, y0-half, x0-half+thickness, y0-half+thickness)
		draw.Draw(img, pen.Intersect(img.Bounds()), image.NewUniform(c), image.Point{}, draw.Src)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func topLeft(corners [4]geometry.Point) image.Point {
	minX, minY := corners[0].X, corners[0].Y
	for _, p := range corners[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
	}
	return image.Pt(int(math.Round(minX)), int(math.Round(minY)))
}

// drawLabel writes text on a dark backing just above at, or just inside the
// top edge when there is no room above.
func drawLabel(img *image.NRGBA, text string, at image.Point, c color.NRGBA) {
	face := basicfont.Face7x13
	width := font.MeasureString(face, text).Ceil()
	height := face.Height

	top := at.Y - height - 1
	if top < img.Bounds().Min.Y {
		top = at.Y + 1
	}
	backing := image.Rect(at.X, top, at.X+width+2, top+height)
	draw.Draw(img, backing.Intersect(img.Bounds()), image.NewUniform(color.NRGBA{A: 160}), image.Point{}, draw.Over)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(at.X+1, top+face.Ascent),
	}
	d.DrawString(text)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
