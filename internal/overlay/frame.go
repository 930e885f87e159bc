package overlay

import "github.com/ironsheep/ocr-overlay/internal/geometry"

// BoxView is the renderer's view of one box: where to draw it and how.
type BoxView struct {
	Text    string        `json:"text,omitempty"`
	Style   Style         `json:"style"`
	Display geometry.Rect `json:"display"`
	Source  geometry.Rect `json:"source"`
}

// Frame is a snapshot of the overlay ready for rendering.
type Frame struct {
	Boxes    []BoxView `json:"boxes"`
	Scale    Scale     `json:"scale"`
	Rotation *Rotation `json:"rotation,omitempty"`
}

// Frame snapshots the current boxes, scale and rotation. The snapshot does not
// change when the engine is mutated afterwards.
func (e *Engine) Frame() Frame {
	f := Frame{
		Boxes: make([]BoxView, 0, len(e.boxes)),
		Scale: e.scale,
	}
	for _, b := range e.boxes {
		f.Boxes = append(f.Boxes, BoxView{
			Text:    b.text,
			Style:   b.style,
			Display: b.display,
			Source:  b.source,
		})
	}
	if e.rotation != nil {
		r := *e.rotation
		f.Rotation = &r
	}
	return f
}
