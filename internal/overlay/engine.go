package overlay

import (
	"fmt"

	"github.com/ironsheep/ocr-overlay/internal/geometry"
)

// Style selects how a box is drawn.
type Style int

const (
	// StyleHorizontal is used for words on horizontal lines.
	StyleHorizontal Style = iota
	// StyleVertical is used for words on vertical lines (CJK vertical text).
	StyleVertical
	// StyleFace is used for detected faces.
	StyleFace
)

// String returns the style tag handed to renderers.
func (s Style) String() string {
	switch s {
	case StyleHorizontal:
		return "horizontal"
	case StyleVertical:
		return "vertical"
	case StyleFace:
		return "face"
	default:
		return fmt.Sprintf("style(%d)", int(s))
	}
}

// ParseStyle returns the style with the given tag.
func ParseStyle(tag string) (Style, bool) {
	for _, s := range []Style{StyleHorizontal, StyleVertical, StyleFace} {
		if s.String() == tag {
			return s, true
		}
	}
	return 0, false
}

// MarshalText encodes the style as its tag.
func (s Style) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Scale is a non-uniform scale factor from source pixels to display space.
type Scale struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Identity is the scale in effect before the first transform.
var Identity = Scale{X: 1, Y: 1}

// Rotation is a whole-overlay rotation by Angle degrees around Center.
type Rotation struct {
	Angle  float64        `json:"angle"`
	Center geometry.Point `json:"center"`
}

// DegenerateSourceError reports a scale recompute against a source image with
// zero width or height. It is recoverable: the caller skips the transform
// update and the previous display geometry stays in place.
type DegenerateSourceError struct {
	Width  float64
	Height float64
}

func (e *DegenerateSourceError) Error() string {
	return fmt.Sprintf("degenerate source dimensions %gx%g", e.Width, e.Height)
}

// WordBox is one recognized word (or detected face) in the overlay.
type WordBox struct {
	text    string
	style   Style
	source  geometry.Rect
	display geometry.Rect
}

// Text returns the recognized text, empty for face boxes.
func (b *WordBox) Text() string { return b.text }

// Style returns the rendering style of the box.
func (b *WordBox) Style() Style { return b.style }

// Source returns the rectangle in source-image pixels.
func (b *WordBox) Source() geometry.Rect { return b.source }

// Display returns the rectangle in display space.
func (b *WordBox) Display() geometry.Rect { return b.display }

// WordOption configures a WordBox at creation.
type WordOption func(*WordBox)

// WithText attaches the recognized text.
func WithText(text string) WordOption {
	return func(b *WordBox) { b.text = text }
}

// WithStyle sets the rendering style.
func WithStyle(style Style) WordOption {
	return func(b *WordBox) { b.style = style }
}

// Engine owns the current overlay set and the display transform applied to it.
type Engine struct {
	boxes    []*WordBox
	scale    Scale
	rotation *Rotation
}

// NewEngine returns an empty engine with the identity scale and no rotation.
func NewEngine() *Engine {
	return &Engine{scale: Identity}
}

// Reset discards every box and removes the rotation. The scale in effect is
// kept so boxes added afterwards land on the current display size.
func (e *Engine) Reset() {
	e.boxes = nil
	e.rotation = nil
}

// AddWord appends a box for source and computes its display rectangle using
// the scale in effect now. Negative dimensions are clamped to zero; a
// zero-area rectangle yields a zero-area display box.
func (e *Engine) AddWord(source geometry.Rect, opts ...WordOption) *WordBox {
	box := &WordBox{source: source.Clamp()}
	for _, opt := range opts {
		opt(box)
	}
	box.display = box.source.Scale(e.scale.X, e.scale.Y)
	e.boxes = append(e.boxes, box)
	return box
}

// SetRotation rotates the whole overlay by angle degrees around center,
// replacing any previous rotation.
func (e *Engine) SetRotation(angle float64, center geometry.Point) {
	e.rotation = &Rotation{Angle: angle, Center: center}
}

// Rotation returns the active rotation, if any.
func (e *Engine) Rotation() (Rotation, bool) {
	if e.rotation == nil {
		return Rotation{}, false
	}
	return *e.rotation, true
}

// Scale returns the scale currently applied to the boxes.
func (e *Engine) Scale() Scale { return e.scale }

// Len returns the number of boxes held.
func (e *Engine) Len() int { return len(e.boxes) }

// Boxes returns the boxes in insertion order. The slice is a copy; the boxes
// are shared.
func (e *Engine) Boxes() []*WordBox {
	out := make([]*WordBox, len(e.boxes))
	copy(out, e.boxes)
	return out
}

// RecomputeScale derives the scale that maps a source image onto a display
// surface. A zero source dimension yields a *DegenerateSourceError.
func RecomputeScale(sourceWidth, sourceHeight, displayWidth, displayHeight float64) (Scale, error) {
	if sourceWidth == 0 || sourceHeight == 0 {
		return Scale{}, &DegenerateSourceError{Width: sourceWidth, Height: sourceHeight}
	}
	return Scale{
		X: displayWidth / sourceWidth,
		Y: displayHeight / sourceHeight,
	}, nil
}

// ApplyTransform re-derives every display rectangle from its source rectangle.
// Calling it repeatedly with the same scale produces the same geometry.
func (e *Engine) ApplyTransform(s Scale) {
	e.scale = s
	for _, b := range e.boxes {
		b.display = b.source.Scale(s.X, s.Y)
	}
}

// OnDisplaySurfaceResized recomputes the scale for a new display size, applies
// it to every box and recenters an active rotation at centerProvider().
//
// When the source has a zero dimension nothing changes and the
// *DegenerateSourceError is returned so the caller can skip this event.
func (e *Engine) OnDisplaySurfaceResized(displayWidth, displayHeight, sourceWidth, sourceHeight float64, centerProvider func() geometry.Point) error {
	s, err := RecomputeScale(sourceWidth, sourceHeight, displayWidth, displayHeight)
	if err != nil {
		return err
	}

	e.ApplyTransform(s)

	if e.rotation != nil && centerProvider != nil {
		e.rotation.Center = centerProvider()
	}
	return nil
}

// ClassifyLine picks the style for every word of a line: vertical when the
// union of the word rectangles is strictly taller than wide.
func ClassifyLine(words []geometry.Rect) Style {
	union, ok := geometry.Union(words...)
	if ok && union.Height > union.Width {
		return StyleVertical
	}
	return StyleHorizontal
}
