package session

import (
	"github.com/ironsheep/ocr-overlay/internal/geometry"
	"github.com/ironsheep/ocr-overlay/internal/ocr"
)

// Event is an input to Session.Update.
type Event interface {
	Type() string
}

// Event type names, as reported by Event.Type.
const (
	TypeImageLoaded             = "ImageLoaded"
	TypeRecognitionCompleted    = "RecognitionCompleted"
	TypeSurfaceResized          = "SurfaceResized"
	TypeResultsCleared          = "ResultsCleared"
	TypeFacesDetected           = "FacesDetected"
	TypeLanguagesUpdated        = "LanguagesUpdated"
	TypeLanguageSelected        = "LanguageSelected"
	TypeProfileLanguagesToggled = "ProfileLanguagesToggled"
	TypeStatusReported          = "StatusReported"
)

// ImageLoaded - a new source image replaced the previous one
type ImageLoaded struct {
	Path   string
	Width  int
	Height int
	Sample bool // the bundled sample rather than a user file
}

func (e ImageLoaded) Type() string { return TypeImageLoaded }

// RecognitionCompleted - the recognizer returned a result for the loaded image
type RecognitionCompleted struct {
	Result   *ocr.Result
	Language string // recognizer language code, e.g. "eng"
}

func (e RecognitionCompleted) Type() string { return TypeRecognitionCompleted }

// SurfaceResized - the display surface now renders at Width x Height
type SurfaceResized struct {
	Width  float64
	Height float64
}

func (e SurfaceResized) Type() string { return TypeSurfaceResized }

// ResultsCleared - drop every word and face box and the extracted text
type ResultsCleared struct {
	WordsOnly bool // keep face boxes, as a new recognition run does
}

func (e ResultsCleared) Type() string { return TypeResultsCleared }

// FacesDetected - the face detector returned boxes in source pixels
type FacesDetected struct {
	Faces []geometry.Rect
}

func (e FacesDetected) Type() string { return TypeFacesDetected }

// LanguagesUpdated - the set of installed recognition languages is known
type LanguagesUpdated struct {
	Available []string
}

func (e LanguagesUpdated) Type() string { return TypeLanguagesUpdated }

// LanguageSelected - the user picked a language from the list
type LanguageSelected struct {
	Language string
}

func (e LanguageSelected) Type() string { return TypeLanguageSelected }

// ProfileLanguagesToggled - the "use profile languages" switch changed
type ProfileLanguagesToggled struct {
	On bool
}

func (e ProfileLanguagesToggled) Type() string { return TypeProfileLanguagesToggled }

// StatusReported - show a message in the status banner
type StatusReported struct {
	Message string
	Kind    Kind
}

func (e StatusReported) Type() string { return TypeStatusReported }
