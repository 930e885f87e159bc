package session

import (
	"errors"
	"strings"
	"testing"

	"github.com/ironsheep/ocr-overlay/internal/geometry"
	"github.com/ironsheep/ocr-overlay/internal/ocr"
	"github.com/ironsheep/ocr-overlay/internal/overlay"
)

func mustUpdate(t *testing.T, s *Session, ev Event) {
	t.Helper()
	if err := s.Update(ev); err != nil {
		t.Fatalf("Update(%s) failed: %v", ev.Type(), err)
	}
}

func twoLineResult() *ocr.Result {
	return &ocr.Result{
		Text: "Hello world\n縦",
		Lines: []ocr.Line{
			{Words: []ocr.Word{
				{Text: "Hello", Bounds: geometry.Rect{X: 10, Y: 10, Width: 40, Height: 10}},
				{Text: "world", Bounds: geometry.Rect{X: 60, Y: 10, Width: 40, Height: 10}},
			}},
			{Words: []ocr.Word{
				{Text: "縦", Bounds: geometry.Rect{X: 150, Y: 20, Width: 10, Height: 60}},
			}},
		},
	}
}

func TestImageLoaded(t *testing.T) {
	s := New()
	mustUpdate(t, s, ImageLoaded{Path: "/tmp/photos/cat.png", Width: 200, Height: 100})

	if got := s.Image().Name; got != "cat.png" {
		t.Errorf("name: got %q", got)
	}
	if s.Surface() != (Surface{Width: 200, Height: 100}) {
		t.Errorf("surface should adopt the image size, got %+v", s.Surface())
	}
	want := "Loaded image from file: cat.png (200x100)."
	if s.Status().Message != want || s.Status().Kind != KindStatus {
		t.Errorf("status: got %+v, want %q", s.Status(), want)
	}
}

func TestImageLoaded_Sample(t *testing.T) {
	s := New()
	mustUpdate(t, s, ImageLoaded{Path: "/tmp/sample.png", Width: 10, Height: 10, Sample: true})
	if s.Status().Message != "Loaded sample image." {
		t.Errorf("status: got %q", s.Status().Message)
	}
}

func TestImageLoaded_ClearsResults(t *testing.T) {
	s := New()
	mustUpdate(t, s, ImageLoaded{Path: "a.png", Width: 200, Height: 100})
	mustUpdate(t, s, RecognitionCompleted{Result: twoLineResult(), Language: "eng"})
	mustUpdate(t, s, FacesDetected{Faces: []geometry.Rect{{X: 1, Y: 1, Width: 5, Height: 5}}})

	mustUpdate(t, s, ImageLoaded{Path: "b.png", Width: 50, Height: 50})

	if s.Words().Len() != 0 || s.Faces().Len() != 0 || s.Text() != "" {
		t.Errorf("results survived a new image: words=%d faces=%d text=%q",
			s.Words().Len(), s.Faces().Len(), s.Text())
	}
}

func TestImageLoaded_FollowsImageUntilResized(t *testing.T) {
	s := New()
	mustUpdate(t, s, ImageLoaded{Path: "a.png", Width: 200, Height: 100})
	mustUpdate(t, s, ImageLoaded{Path: "b.png", Width: 400, Height: 400})

	if s.Surface() != (Surface{Width: 400, Height: 400}) {
		t.Errorf("surface: got %+v, want the second image size", s.Surface())
	}
	mustUpdate(t, s, RecognitionCompleted{Result: twoLineResult(), Language: "eng"})
	if s.Words().Scale() != overlay.Identity {
		t.Errorf("scale: got %+v, want identity", s.Words().Scale())
	}

	mustUpdate(t, s, SurfaceResized{Width: 800, Height: 800})
	mustUpdate(t, s, ImageLoaded{Path: "c.png", Width: 100, Height: 50})
	if s.Surface() != (Surface{Width: 800, Height: 800}) {
		t.Errorf("a reported surface should survive a new image, got %+v", s.Surface())
	}
}

func TestRecognitionCompleted(t *testing.T) {
	s := New()
	mustUpdate(t, s, ImageLoaded{Path: "page.png", Width: 200, Height: 100})
	mustUpdate(t, s, SurfaceResized{Width: 400, Height: 200})
	mustUpdate(t, s, RecognitionCompleted{Result: twoLineResult(), Language: "eng"})

	boxes := s.Words().Boxes()
	if len(boxes) != 3 {
		t.Fatalf("boxes: got %d, want 3", len(boxes))
	}
	if boxes[0].Style() != overlay.StyleHorizontal || boxes[1].Style() != overlay.StyleHorizontal {
		t.Error("first line should be horizontal")
	}
	if boxes[2].Style() != overlay.StyleVertical {
		t.Error("second line should be vertical")
	}
	if boxes[0].Display() != (geometry.Rect{X: 20, Y: 20, Width: 80, Height: 20}) {
		t.Errorf("display not scaled to surface: %+v", boxes[0].Display())
	}
	if s.Text() != "Hello world\n縦" {
		t.Errorf("text: got %q", s.Text())
	}
	if _, ok := s.Words().Rotation(); ok {
		t.Error("rotation set without a text angle")
	}
	if got := s.Status().Message; got != "Image is OCRed for English language." {
		t.Errorf("status: got %q", got)
	}
}

func TestRecognitionCompleted_TextAngle(t *testing.T) {
	s := New()
	mustUpdate(t, s, ImageLoaded{Path: "page.png", Width: 100, Height: 100})
	mustUpdate(t, s, SurfaceResized{Width: 300, Height: 200})

	result := twoLineResult()
	angle := 15.0
	result.TextAngle = &angle
	mustUpdate(t, s, RecognitionCompleted{Result: result, Language: "eng"})

	rot, ok := s.Words().Rotation()
	if !ok {
		t.Fatal("rotation not set")
	}
	if rot.Angle != 15 || rot.Center != (geometry.Point{X: 150, Y: 100}) {
		t.Errorf("rotation: got %+v", rot)
	}

	mustUpdate(t, s, SurfaceResized{Width: 160, Height: 120})
	rot, _ = s.Words().Rotation()
	if rot.Center != (geometry.Point{X: 80, Y: 60}) || rot.Angle != 15 {
		t.Errorf("rotation after resize: got %+v", rot)
	}
	if _, ok := s.Faces().Rotation(); ok {
		t.Error("face overlay must never rotate")
	}
}

func TestRecognitionCompleted_ReplacesPreviousSet(t *testing.T) {
	s := New()
	mustUpdate(t, s, ImageLoaded{Path: "page.png", Width: 200, Height: 100})
	mustUpdate(t, s, RecognitionCompleted{Result: twoLineResult(), Language: "eng"})
	mustUpdate(t, s, RecognitionCompleted{Result: twoLineResult(), Language: "eng"})

	if s.Words().Len() != 3 {
		t.Errorf("boxes accumulated across runs: %d", s.Words().Len())
	}
}

func TestRecognitionCompleted_NilResult(t *testing.T) {
	s := New()
	if err := s.Update(RecognitionCompleted{}); err == nil {
		t.Error("expected an error for a nil result")
	}
}

func TestSurfaceResized_DoublesWidth(t *testing.T) {
	s := New()
	mustUpdate(t, s, ImageLoaded{Path: "page.png", Width: 200, Height: 100})
	mustUpdate(t, s, SurfaceResized{Width: 200, Height: 100})
	mustUpdate(t, s, RecognitionCompleted{Result: twoLineResult(), Language: "eng"})
	mustUpdate(t, s, FacesDetected{Faces: []geometry.Rect{{X: 5, Y: 5, Width: 20, Height: 30}}})

	before := s.View()
	mustUpdate(t, s, SurfaceResized{Width: 400, Height: 100})
	after := s.View()

	if after.Words.Scale.X != 2 {
		t.Fatalf("scaleX: got %v, want 2", after.Words.Scale.X)
	}
	for i := range before.Words.Boxes {
		b, a := before.Words.Boxes[i].Display, after.Words.Boxes[i].Display
		if a.X != 2*b.X || a.Width != 2*b.Width || a.Y != b.Y || a.Height != b.Height {
			t.Errorf("word %d: %+v -> %+v", i, b, a)
		}
	}
	if got := after.Faces.Boxes[0].Display; got != (geometry.Rect{X: 10, Y: 5, Width: 40, Height: 30}) {
		t.Errorf("face display: got %+v", got)
	}
}

func TestSurfaceResized_WithoutImage(t *testing.T) {
	s := New()
	if err := s.Update(SurfaceResized{Width: 640, Height: 480}); err != nil {
		t.Fatalf("resize without image should be recovered, got %v", err)
	}
	if s.Words().Scale() != overlay.Identity {
		t.Errorf("scale changed without a source image: %+v", s.Words().Scale())
	}
	if s.Surface() != (Surface{Width: 640, Height: 480}) {
		t.Errorf("surface: got %+v", s.Surface())
	}
}

func TestResultsCleared(t *testing.T) {
	s := New()
	mustUpdate(t, s, ImageLoaded{Path: "page.png", Width: 100, Height: 100})
	result := twoLineResult()
	angle := 5.0
	result.TextAngle = &angle
	mustUpdate(t, s, RecognitionCompleted{Result: result, Language: "eng"})
	mustUpdate(t, s, FacesDetected{Faces: []geometry.Rect{{X: 1, Y: 1, Width: 1, Height: 1}}})

	mustUpdate(t, s, ResultsCleared{})

	v := s.View()
	if len(v.Words.Boxes) != 0 || len(v.Faces.Boxes) != 0 {
		t.Errorf("boxes remain: words=%d faces=%d", len(v.Words.Boxes), len(v.Faces.Boxes))
	}
	if v.Words.Rotation != nil {
		t.Errorf("rotation remains: %+v", v.Words.Rotation)
	}
	if v.Text != "" {
		t.Errorf("text remains: %q", v.Text)
	}
}

func TestResultsCleared_WordsOnly(t *testing.T) {
	s := New()
	mustUpdate(t, s, ImageLoaded{Path: "page.png", Width: 100, Height: 100})
	mustUpdate(t, s, RecognitionCompleted{Result: twoLineResult(), Language: "eng"})
	mustUpdate(t, s, FacesDetected{Faces: []geometry.Rect{{X: 1, Y: 1, Width: 1, Height: 1}}})

	mustUpdate(t, s, ResultsCleared{WordsOnly: true})

	if s.Words().Len() != 0 || s.Text() != "" {
		t.Errorf("words remain: %d, text %q", s.Words().Len(), s.Text())
	}
	if s.Faces().Len() != 1 {
		t.Errorf("faces should survive, got %d", s.Faces().Len())
	}
}

func TestFacesDetected(t *testing.T) {
	s := New()
	mustUpdate(t, s, ImageLoaded{Path: "people.jpg", Width: 100, Height: 100})
	mustUpdate(t, s, SurfaceResized{Width: 50, Height: 50})
	mustUpdate(t, s, RecognitionCompleted{Result: twoLineResult(), Language: "eng"})
	mustUpdate(t, s, FacesDetected{Faces: []geometry.Rect{
		{X: 10, Y: 10, Width: 20, Height: 20},
		{X: 60, Y: 10, Width: 20, Height: 20},
	}})

	faces := s.Faces().Boxes()
	if len(faces) != 2 {
		t.Fatalf("faces: got %d", len(faces))
	}
	if faces[0].Style() != overlay.StyleFace {
		t.Errorf("style: got %v", faces[0].Style())
	}
	if faces[1].Display() != (geometry.Rect{X: 30, Y: 5, Width: 10, Height: 10}) {
		t.Errorf("display: got %+v", faces[1].Display())
	}
	if s.Words().Len() != 3 {
		t.Error("face detection cleared the words")
	}
	if s.Status().Message != "Detected 2 face(s)." {
		t.Errorf("status: got %q", s.Status().Message)
	}

	mustUpdate(t, s, RecognitionCompleted{Result: twoLineResult(), Language: "eng"})
	if s.Faces().Len() != 2 {
		t.Error("recognition cleared the faces")
	}
}

func TestStatusReported(t *testing.T) {
	s := New()
	mustUpdate(t, s, StatusReported{Message: "Selected language is not available.", Kind: KindError})

	v := s.View()
	if !v.Status.Visible || v.Status.Color != "red" || v.Status.Kind != KindError {
		t.Errorf("error banner: got %+v", v.Status)
	}

	mustUpdate(t, s, StatusReported{})
	if s.View().Status.Visible {
		t.Error("empty message should collapse the banner")
	}
}

type unknownEvent struct{}

func (unknownEvent) Type() string { return "Unknown" }

func TestUpdate_UnknownEvent(t *testing.T) {
	err := New().Update(unknownEvent{})
	if err == nil || !strings.Contains(err.Error(), "Unknown") {
		t.Errorf("expected unsupported event error, got %v", err)
	}
}

func TestLanguages_Available(t *testing.T) {
	s := New()
	mustUpdate(t, s, LanguagesUpdated{Available: []string{"eng", "deu"}})

	c := s.Controls()
	if !c.ListEnabled || !c.ToggleEnabled || !c.ExtractEnabled {
		t.Errorf("controls should be enabled: %+v", c)
	}
	if c.Selected != "eng" {
		t.Errorf("selected: got %q, want first language", c.Selected)
	}
	want := "Selected OCR language is English. 2 OCR language(s) are available. Check combo box for full list."
	if s.Status().Message != want {
		t.Errorf("status: got %q", s.Status().Message)
	}
}

func TestLanguages_NoneAvailable(t *testing.T) {
	s := New()
	mustUpdate(t, s, LanguagesUpdated{Available: nil})

	c := s.Controls()
	if c.ToggleEnabled || c.ListEnabled || c.ExtractEnabled {
		t.Errorf("controls should be disabled: %+v", c)
	}
	if s.Status() != (Status{Message: "No available OCR languages.", Kind: KindError}) {
		t.Errorf("status: got %+v", s.Status())
	}
}

func TestLanguages_ProfileToggle(t *testing.T) {
	s := New()
	mustUpdate(t, s, LanguagesUpdated{Available: []string{"eng", "deu"}})
	mustUpdate(t, s, ProfileLanguagesToggled{On: true})

	c := s.Controls()
	if c.Languages != nil || c.ListEnabled || c.Selected != "" {
		t.Errorf("list should be cleared and disabled: %+v", c)
	}
	if !strings.HasPrefix(s.Status().Message, "Run OCR in first OCR available language") {
		t.Errorf("status: got %q", s.Status().Message)
	}

	mustUpdate(t, s, ProfileLanguagesToggled{On: false})
	c = s.Controls()
	if !c.ListEnabled || c.Selected != "eng" || len(c.Languages) != 2 {
		t.Errorf("list not restored: %+v", c)
	}
}

func TestLanguageSelected(t *testing.T) {
	s := New()
	mustUpdate(t, s, ImageLoaded{Path: "page.png", Width: 100, Height: 100})
	mustUpdate(t, s, LanguagesUpdated{Available: []string{"eng", "deu"}})
	mustUpdate(t, s, RecognitionCompleted{Result: twoLineResult(), Language: "eng"})

	mustUpdate(t, s, LanguageSelected{Language: "deu"})
	if s.Controls().Selected != "deu" {
		t.Errorf("selected: got %q", s.Controls().Selected)
	}
	if s.Words().Len() != 0 {
		t.Error("selection should clear results")
	}
	if !strings.HasPrefix(s.Status().Message, "Selected OCR language is German.") {
		t.Errorf("status: got %q", s.Status().Message)
	}

	err := s.Update(LanguageSelected{Language: "jpn"})
	var unknown *UnknownLanguageError
	if !errors.As(err, &unknown) || unknown.Language != "jpn" {
		t.Errorf("expected UnknownLanguageError, got %v", err)
	}
	if s.Controls().Selected != "deu" {
		t.Error("failed selection changed the state")
	}
}

func TestControls_ReturnsCopy(t *testing.T) {
	s := New()
	mustUpdate(t, s, LanguagesUpdated{Available: []string{"eng"}})
	c := s.Controls()
	c.Languages[0] = "xxx"
	if s.Controls().Languages[0] != "eng" {
		t.Error("Controls exposed internal slice")
	}
}
