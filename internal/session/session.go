// Package session holds the state of one overlay page and the single function
// that updates it.
//
// A Session owns the loaded image, the display surface size, the word and face
// overlays, the extracted text, the status banner and the language controls.
// Everything that happens to the page arrives as an Event passed to Update, so
// the whole page can be driven deterministically in tests without a display.
//
// Sessions are not safe for concurrent use; callers serialize Update calls.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"

	"github.com/ironsheep/ocr-overlay/internal/geometry"
	"github.com/ironsheep/ocr-overlay/internal/ocr"
	"github.com/ironsheep/ocr-overlay/internal/overlay"
)

// Image describes the loaded source image.
type Image struct {
	Path   string `json:"path"`
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Sample bool   `json:"sample,omitempty"`
}

// Loaded reports whether an image is present.
func (i Image) Loaded() bool { return i.Path != "" }

// Surface is the rendered size of the display surface.
type Surface struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Session is the explicit state of one page.
type Session struct {
	image   Image
	surface Surface
	// surfaceReported is set by the first SurfaceResized.
	surfaceReported bool

	words *overlay.Engine
	faces *overlay.Engine

	text     string
	language string
	status   Status

	controls  Controls
	available []string
}

// New returns a session with no image, empty overlays and enabled controls.
func New() *Session {
	return &Session{
		words:    overlay.NewEngine(),
		faces:    overlay.NewEngine(),
		controls: defaultControls(),
	}
}

// Update applies one event. Errors describe events that could not be applied;
// the session is left unchanged in that case.
func (s *Session) Update(ev Event) error {
	slog.Debug("session event", "type", ev.Type())

	switch e := ev.(type) {
	case ImageLoaded:
		s.onImageLoaded(e)
	case RecognitionCompleted:
		return s.onRecognitionCompleted(e)
	case SurfaceResized:
		s.onSurfaceResized(e)
	case ResultsCleared:
		s.clearResults()
		if !e.WordsOnly {
			s.faces.Reset()
		}
	case FacesDetected:
		s.onFacesDetected(e)
	case LanguagesUpdated:
		s.available = slices.Clone(e.Available)
		s.refreshLanguages()
	case LanguageSelected:
		return s.onLanguageSelected(e)
	case ProfileLanguagesToggled:
		s.controls.ProfileLanguages = e.On
		s.refreshLanguages()
	case StatusReported:
		s.notify(e.Message, e.Kind)
	default:
		return fmt.Errorf("unsupported event %q", ev.Type())
	}
	return nil
}

func (s *Session) onImageLoaded(e ImageLoaded) {
	s.clearResults()
	s.faces.Reset()

	s.image = Image{
		Path:   e.Path,
		Name:   filepath.Base(e.Path),
		Width:  e.Width,
		Height: e.Height,
		Sample: e.Sample,
	}
	// Until the host reports a size the image renders at its natural size.
	if !s.surfaceReported {
		s.surface = Surface{Width: float64(e.Width), Height: float64(e.Height)}
	}
	s.rescale()

	if e.Sample {
		s.notify("Loaded sample image.", KindStatus)
		return
	}
	s.notify(fmt.Sprintf("Loaded image from file: %s (%dx%d).", s.image.Name, e.Width, e.Height), KindStatus)
}

func (s *Session) onRecognitionCompleted(e RecognitionCompleted) error {
	if e.Result == nil {
		return errors.New("recognition completed without a result")
	}

	s.clearResults()
	s.text = e.Result.Text
	s.language = e.Language

	if e.Result.TextAngle != nil {
		s.words.SetRotation(*e.Result.TextAngle, s.center())
	}

	for _, line := range e.Result.Lines {
		style := overlay.ClassifyLine(line.Rects())
		for _, w := range line.Words {
			s.words.AddWord(w.Bounds, overlay.WithText(w.Text), overlay.WithStyle(style))
		}
	}
	s.rescale()

	s.notify(fmt.Sprintf("Image is OCRed for %s language.", ocr.DisplayName(e.Language)), KindStatus)
	return nil
}

func (s *Session) onSurfaceResized(e SurfaceResized) {
	s.surface = Surface{Width: e.Width, Height: e.Height}
	s.surfaceReported = true
	s.rescale()
}

func (s *Session) onFacesDetected(e FacesDetected) {
	s.faces.Reset()
	for _, r := range e.Faces {
		s.faces.AddWord(r, overlay.WithStyle(overlay.StyleFace))
	}
	s.rescale()
	s.notify(fmt.Sprintf("Detected %d face(s).", len(e.Faces)), KindStatus)
}

// clearResults drops the word overlay, its rotation and the extracted text.
// Face boxes belong to the image and survive a new recognition run.
func (s *Session) clearResults() {
	s.words.Reset()
	s.text = ""
}

// rescale maps both overlays onto the current surface. A degenerate source
// leaves the previous geometry in place.
func (s *Session) rescale() {
	sw, sh := float64(s.image.Width), float64(s.image.Height)
	for _, e := range []*overlay.Engine{s.words, s.faces} {
		err := e.OnDisplaySurfaceResized(s.surface.Width, s.surface.Height, sw, sh, s.center)
		var degenerate *overlay.DegenerateSourceError
		if errors.As(err, &degenerate) {
			slog.Debug("skipping overlay rescale", "error", err)
		}
	}
}

// center is the rotation center: the midpoint of the rendered surface.
func (s *Session) center() geometry.Point {
	return geometry.Midpoint(s.surface.Width, s.surface.Height)
}

func (s *Session) notify(message string, kind Kind) {
	s.status = Status{Message: message, Kind: kind}
	if kind == KindError {
		slog.Warn(message)
		return
	}
	slog.Info(message)
}

// Image returns the loaded image, zero when none is loaded.
func (s *Session) Image() Image { return s.image }

// Surface returns the display surface size.
func (s *Session) Surface() Surface { return s.surface }

// Words returns the word overlay.
func (s *Session) Words() *overlay.Engine { return s.words }

// Faces returns the face overlay. It is never rotated.
func (s *Session) Faces() *overlay.Engine { return s.faces }

// Text returns the extracted text of the last recognition.
func (s *Session) Text() string { return s.text }

// Language returns the language code of the last recognition.
func (s *Session) Language() string { return s.language }

// Status returns the banner.
func (s *Session) Status() Status { return s.status }

// Controls returns a copy of the language controls.
func (s *Session) Controls() Controls {
	c := s.controls
	c.Languages = slices.Clone(c.Languages)
	return c
}

// Available returns the installed recognition languages.
func (s *Session) Available() []string { return slices.Clone(s.available) }
