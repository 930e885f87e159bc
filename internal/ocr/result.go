package ocr

import (
	"context"
	"errors"

	"github.com/ironsheep/ocr-overlay/internal/geometry"
)

var (
	// ErrUnavailable is returned when an engine cannot run on this system.
	ErrUnavailable = errors.New("ocr engine unavailable")

	// ErrNoResult is returned when an engine has nothing for the given image,
	// e.g. a recorded engine without a sidecar file.
	ErrNoResult = errors.New("no recognition result")
)

// Word is one recognized word.
type Word struct {
	// Text is the recognized text content.
	Text string `json:"text" yaml:"text"`

	// Confidence is the engine's confidence score (0.0 to 1.0).
	Confidence float64 `json:"confidence" yaml:"confidence"`

	// Bounds is the word rectangle in source-image pixels.
	Bounds geometry.Rect `json:"bounds" yaml:"bounds"`
}

// Line is a sequence of words in reading order.
type Line struct {
	Words []Word `json:"words" yaml:"words"`
}

// Rects returns the bounds of every word of the line.
func (l Line) Rects() []geometry.Rect {
	rects := make([]geometry.Rect, len(l.Words))
	for i, w := range l.Words {
		rects[i] = w.Bounds
	}
	return rects
}

// Bounds returns the union of the line's word rectangles.
func (l Line) Bounds() geometry.Rect {
	r, _ := geometry.Union(l.Rects()...)
	return r
}

// Result is the complete output of one recognition run.
type Result struct {
	// Text is all recognized text with the engine's spacing and newlines.
	Text string `json:"text" yaml:"text"`

	// Lines holds the recognized lines. May be empty when the engine could
	// only produce text (Text is still set).
	Lines []Line `json:"lines" yaml:"lines"`

	// TextAngle is the rotation of the whole text block in degrees, nil when
	// the engine did not detect one.
	TextAngle *float64 `json:"text_angle,omitempty" yaml:"text_angle,omitempty"`

	// Language is the language code the engine ran with.
	Language string `json:"language" yaml:"language"`
}

// WordCount returns the number of words across all lines.
func (r *Result) WordCount() int {
	n := 0
	for _, l := range r.Lines {
		n += len(l.Words)
	}
	return n
}

// Recognizer is a text recognition engine.
type Recognizer interface {
	// Recognize runs OCR over the image at imagePath using language.
	Recognize(ctx context.Context, imagePath, language string) (*Result, error)

	// AvailableLanguages lists the language codes the engine can run.
	AvailableLanguages() ([]string, error)

	// Name returns the engine name for logging.
	Name() string
}
