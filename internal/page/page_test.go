package page

import (
	"context"
	"errors"
	"image"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/ironsheep/ocr-overlay/internal/detection"
	"github.com/ironsheep/ocr-overlay/internal/geometry"
	"github.com/ironsheep/ocr-overlay/internal/imaging"
	"github.com/ironsheep/ocr-overlay/internal/ocr"
	"github.com/ironsheep/ocr-overlay/internal/session"
	"github.com/ironsheep/ocr-overlay/internal/speech"
)

type fakeRecognizer struct {
	languages []string
	langErr   error
	result    *ocr.Result
	err       error
	calls     []string // languages asked for
}

func (f *fakeRecognizer) Name() string { return "fake" }

func (f *fakeRecognizer) AvailableLanguages() ([]string, error) {
	return f.languages, f.langErr
}

func (f *fakeRecognizer) Recognize(ctx context.Context, imagePath, language string) (*ocr.Result, error) {
	f.calls = append(f.calls, language)
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeDetector struct {
	faces []detection.Face
	err   error
}

func (f *fakeDetector) DetectFaces(ctx context.Context, img image.Image) ([]detection.Face, error) {
	return f.faces, f.err
}

type fakeSpeaker struct {
	playing bool
	err     error
	spoken  []string
	stops   int
}

func (f *fakeSpeaker) Speak(ctx context.Context, text string) (speech.Outcome, error) {
	if f.playing {
		f.playing = false
		return speech.Stopped, nil
	}
	if f.err != nil {
		return speech.Skipped, f.err
	}
	f.spoken = append(f.spoken, text)
	f.playing = true
	return speech.Started, nil
}

func (f *fakeSpeaker) Playing() bool { return f.playing }

func (f *fakeSpeaker) Stop() error {
	f.stops++
	f.playing = false
	return nil
}

// createTestImage writes a white PNG and returns its path.
func createTestImage(t *testing.T, width, height int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	path := filepath.Join(t.TempDir(), "page.png")
	if err := imaging.Save(img, path); err != nil {
		t.Fatalf("failed to write test image: %v", err)
	}
	return path
}

func helloResult() *ocr.Result {
	return &ocr.Result{
		Text: "Hello world",
		Lines: []ocr.Line{{Words: []ocr.Word{
			{Text: "Hello", Confidence: 0.9, Bounds: geometry.Rect{X: 10, Y: 10, Width: 40, Height: 10}},
			{Text: "world", Confidence: 0.8, Bounds: geometry.Rect{X: 60, Y: 10, Width: 40, Height: 10}},
		}}},
	}
}

func newTestPage(t *testing.T, rec *fakeRecognizer, opts Options) *Page {
	t.Helper()
	if opts.SampleDir == "" {
		opts.SampleDir = t.TempDir()
	}
	return New(rec, &fakeDetector{}, &fakeSpeaker{}, opts)
}

func TestNew_LoadsLanguages(t *testing.T) {
	p := newTestPage(t, &fakeRecognizer{languages: []string{"eng", "deu"}}, Options{})

	c := p.View().Controls
	if !reflect.DeepEqual(c.Languages, []string{"eng", "deu"}) || c.Selected != "eng" {
		t.Errorf("controls: got %+v", c)
	}
	want := "Selected OCR language is English. 2 OCR language(s) are available. Check combo box for full list."
	if got := p.View().Status.Message; got != want {
		t.Errorf("status: got %q, want %q", got, want)
	}
}

func TestNew_NoLanguages(t *testing.T) {
	p := newTestPage(t, &fakeRecognizer{langErr: ocr.ErrUnavailable}, Options{})

	v := p.View()
	if v.Controls.ExtractEnabled || v.Controls.ListEnabled || v.Controls.ToggleEnabled {
		t.Errorf("controls should be disabled: %+v", v.Controls)
	}
	if v.Status.Message != "No available OCR languages." || v.Status.Kind != session.KindError {
		t.Errorf("status: got %+v", v.Status)
	}
}

func TestNew_UseProfileLanguages(t *testing.T) {
	p := newTestPage(t, &fakeRecognizer{languages: []string{"eng"}}, Options{UseProfileLanguages: true})

	c := p.View().Controls
	if !c.ProfileLanguages || c.ListEnabled || c.Languages != nil {
		t.Errorf("controls: got %+v", c)
	}
}

func TestLoadImage(t *testing.T) {
	p := newTestPage(t, &fakeRecognizer{languages: []string{"eng"}}, Options{})
	path := createTestImage(t, 200, 100)

	if err := p.LoadImage(path); err != nil {
		t.Fatalf("LoadImage failed: %v", err)
	}
	v := p.View()
	if v.Image.Width != 200 || v.Image.Height != 100 {
		t.Errorf("image: got %+v", v.Image)
	}
	if v.Status.Message != "Loaded image from file: page.png (200x100)." {
		t.Errorf("status: got %q", v.Status.Message)
	}

	if err := p.LoadImage(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("LoadImage should fail for a missing file")
	}
	if p.View().Status.Kind != session.KindError {
		t.Error("load failure should show an error banner")
	}
	if p.View().Image.Path != path {
		t.Error("a failed load should keep the previous image")
	}
}

func TestRecognize(t *testing.T) {
	rec := &fakeRecognizer{languages: []string{"eng"}, result: helloResult()}
	p := newTestPage(t, rec, Options{})
	if err := p.LoadImage(createTestImage(t, 200, 100)); err != nil {
		t.Fatal(err)
	}
	if err := p.Resize(400, 200); err != nil {
		t.Fatal(err)
	}

	got, err := p.Recognize(context.Background())
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	if got.Language != "eng" || got.LanguageName != "English" || got.Words != 2 || got.Lines != 1 || got.Engine != "fake" {
		t.Errorf("recognition: got %+v", got)
	}
	if !reflect.DeepEqual(rec.calls, []string{"eng"}) {
		t.Errorf("recognizer called with %v", rec.calls)
	}

	v := p.View()
	if len(v.Words.Boxes) != 2 {
		t.Fatalf("boxes: got %d", len(v.Words.Boxes))
	}
	if v.Words.Boxes[0].Display != (geometry.Rect{X: 20, Y: 20, Width: 80, Height: 20}) {
		t.Errorf("display box: got %+v", v.Words.Boxes[0].Display)
	}
	if v.Text != "Hello world" {
		t.Errorf("text: got %q", v.Text)
	}
	if v.Status.Message != "Image is OCRed for English language." {
		t.Errorf("status: got %q", v.Status.Message)
	}
}

func TestRecognize_Failures(t *testing.T) {
	tests := []struct {
		name    string
		rec     *fakeRecognizer
		opts    Options
		noImage bool
		wantErr error
		message string
	}{
		{
			name:    "no image",
			rec:     &fakeRecognizer{languages: []string{"eng"}},
			noImage: true,
			wantErr: ErrNoImage,
			message: MessageNoImage,
		},
		{
			name:    "too large",
			rec:     &fakeRecognizer{languages: []string{"eng"}},
			opts:    Options{MaxImageDimension: 150},
			wantErr: ErrImageTooLarge,
			message: "Bitmap dimensions (200x100) are too big for OCR. Max image dimension is 150.",
		},
		{
			name:    "no language",
			rec:     &fakeRecognizer{},
			wantErr: ErrLanguageUnavailable,
			message: MessageLanguageUnavailable,
		},
		{
			name:    "profile language not installed",
			rec:     &fakeRecognizer{languages: []string{"eng"}},
			opts:    Options{UseProfileLanguages: true, ProfileLanguages: []string{"fr-FR"}},
			wantErr: ErrLanguageUnavailable,
			message: MessageLanguageUnavailable,
		},
		{
			name:    "engine has no result",
			rec:     &fakeRecognizer{languages: []string{"eng"}, err: ocr.ErrNoResult},
			wantErr: ocr.ErrNoResult,
			message: MessageLanguageUnavailable,
		},
		{
			name:    "engine fails",
			rec:     &fakeRecognizer{languages: []string{"eng"}, err: errors.New("segfault")},
			message: "Recognition failed for English.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPage(t, tt.rec, tt.opts)
			if !tt.noImage {
				if err := p.LoadImage(createTestImage(t, 200, 100)); err != nil {
					t.Fatal(err)
				}
			}

			_, err := p.Recognize(context.Background())
			if err == nil {
				t.Fatal("Recognize should fail")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error: got %v, want %v", err, tt.wantErr)
			}
			status := p.View().Status
			if status.Message != tt.message || status.Kind != session.KindError || status.Color != "red" {
				t.Errorf("status: got %+v, want error %q", status, tt.message)
			}
		})
	}
}

func TestRecognize_ProfileLanguages(t *testing.T) {
	rec := &fakeRecognizer{languages: []string{"eng", "deu"}, result: helloResult()}
	p := newTestPage(t, rec, Options{ProfileLanguages: []string{"fr-FR", "de-AT", "en-US"}})
	if err := p.LoadImage(createTestImage(t, 50, 50)); err != nil {
		t.Fatal(err)
	}
	if err := p.ToggleProfileLanguages(true); err != nil {
		t.Fatal(err)
	}

	got, err := p.Recognize(context.Background())
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	if got.Language != "deu" {
		t.Errorf("language: got %q, want deu", got.Language)
	}
}

func TestRecognize_ClearsPreviousWordsOnFailure(t *testing.T) {
	rec := &fakeRecognizer{languages: []string{"eng"}, result: helloResult()}
	p := newTestPage(t, rec, Options{})
	if err := p.LoadImage(createTestImage(t, 200, 100)); err != nil {
		t.Fatal(err)
	}
	if _, err := p.Recognize(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := p.DetectFaces(context.Background()); err != nil {
		t.Fatal(err)
	}

	rec.err = errors.New("boom")
	if _, err := p.Recognize(context.Background()); err == nil {
		t.Fatal("expected failure")
	}
	if v := p.View(); len(v.Words.Boxes) != 0 || v.Text != "" {
		t.Errorf("stale results remain: %d boxes, text %q", len(v.Words.Boxes), v.Text)
	}
}

func TestRecognize_KeepsFaces(t *testing.T) {
	rec := &fakeRecognizer{languages: []string{"eng"}, result: helloResult()}
	p := New(rec, &fakeDetector{faces: []detection.Face{{Bounds: geometry.Rect{X: 5, Y: 5, Width: 20, Height: 25}}}}, nil, Options{})
	if err := p.LoadImage(createTestImage(t, 200, 100)); err != nil {
		t.Fatal(err)
	}
	if _, err := p.DetectFaces(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := p.Recognize(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(p.View().Faces.Boxes) != 1 {
		t.Error("recognition should keep face boxes")
	}

	if err := p.Clear(); err != nil {
		t.Fatal(err)
	}
	if v := p.View(); len(v.Faces.Boxes) != 0 || len(v.Words.Boxes) != 0 {
		t.Error("Clear should drop words and faces")
	}
}

func TestRecognize_Speaks(t *testing.T) {
	rec := &fakeRecognizer{languages: []string{"eng"}, result: helloResult()}
	speaker := &fakeSpeaker{}
	p := New(rec, nil, speaker, Options{SpeakResults: true, SampleDir: t.TempDir()})
	if err := p.LoadImage(createTestImage(t, 200, 100)); err != nil {
		t.Fatal(err)
	}

	got, err := p.Recognize(context.Background())
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	if got.Speech != "started" || !reflect.DeepEqual(speaker.spoken, []string{"Hello world"}) {
		t.Errorf("speech: got %q, spoken %v", got.Speech, speaker.spoken)
	}

	// Speaking while audio plays stops it.
	outcome, err := p.Speak(context.Background())
	if err != nil || outcome != speech.Stopped {
		t.Errorf("Speak: got %v, %v; want stopped", outcome, err)
	}
}

func TestRecognize_SpeechFailureDoesNotFail(t *testing.T) {
	rec := &fakeRecognizer{languages: []string{"eng"}, result: helloResult()}
	speaker := &fakeSpeaker{err: &speech.Error{Message: speech.MessageSynthesisFailed, Err: errors.New("no voice")}}
	p := New(rec, nil, speaker, Options{SpeakResults: true, SampleDir: t.TempDir()})
	if err := p.LoadImage(createTestImage(t, 200, 100)); err != nil {
		t.Fatal(err)
	}

	got, err := p.Recognize(context.Background())
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	if got.SpeechError != speech.MessageSynthesisFailed {
		t.Errorf("speech error: got %q", got.SpeechError)
	}
	if p.View().Status.Kind != session.KindStatus {
		t.Error("speech failure should not replace the status banner")
	}
}

func TestSelectLanguage(t *testing.T) {
	p := newTestPage(t, &fakeRecognizer{languages: []string{"eng", "deu", "chi_tra"}}, Options{})

	tests := []struct {
		in   string
		want string
	}{
		{"deu", "deu"},
		{"en-GB", "eng"},
		{"zh-Hant", "chi_tra"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if err := p.SelectLanguage(tt.in); err != nil {
				t.Fatalf("SelectLanguage failed: %v", err)
			}
			if got := p.View().Controls.Selected; got != tt.want {
				t.Errorf("selected: got %q, want %q", got, tt.want)
			}
		})
	}

	var unknown *session.UnknownLanguageError
	if err := p.SelectLanguage("fra"); !errors.As(err, &unknown) {
		t.Errorf("expected UnknownLanguageError, got %v", err)
	}
}

func TestDetectFaces(t *testing.T) {
	faces := []detection.Face{
		{Bounds: geometry.Rect{X: 10, Y: 10, Width: 30, Height: 40}, Confidence: 0.8},
	}
	p := New(&fakeRecognizer{}, &fakeDetector{faces: faces}, nil, Options{SampleDir: t.TempDir()})

	if _, err := p.DetectFaces(context.Background()); !errors.Is(err, ErrNoImage) {
		t.Errorf("expected ErrNoImage, got %v", err)
	}

	if err := p.LoadImage(createTestImage(t, 100, 100)); err != nil {
		t.Fatal(err)
	}
	if err := p.Resize(50, 50); err != nil {
		t.Fatal(err)
	}
	got, err := p.DetectFaces(context.Background())
	if err != nil {
		t.Fatalf("DetectFaces failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("faces: got %d", len(got))
	}

	v := p.View()
	if len(v.Faces.Boxes) != 1 || v.Faces.Boxes[0].Display != (geometry.Rect{X: 5, Y: 5, Width: 15, Height: 20}) {
		t.Errorf("face boxes: got %+v", v.Faces.Boxes)
	}
	if v.Status.Message != "Detected 1 face(s)." {
		t.Errorf("status: got %q", v.Status.Message)
	}
}

func TestDetectFaces_Errors(t *testing.T) {
	p := New(&fakeRecognizer{}, nil, nil, Options{SampleDir: t.TempDir()})
	if _, err := p.DetectFaces(context.Background()); !errors.Is(err, ErrNoDetector) {
		t.Errorf("expected ErrNoDetector, got %v", err)
	}
	if _, err := p.Speak(context.Background()); !errors.Is(err, ErrNoSpeaker) {
		t.Errorf("expected ErrNoSpeaker, got %v", err)
	}

	p = New(&fakeRecognizer{}, &fakeDetector{err: errors.New("model missing")}, nil, Options{SampleDir: t.TempDir()})
	if err := p.LoadImage(createTestImage(t, 20, 20)); err != nil {
		t.Fatal(err)
	}
	if _, err := p.DetectFaces(context.Background()); err == nil {
		t.Error("expected detector error")
	}
	if p.View().Status.Kind != session.KindError {
		t.Error("detector failure should show an error banner")
	}
}

func TestLoadSample_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	rec := ocr.NewChain(ocr.NewRecorded(SampleLanguage))
	p := New(rec, detection.NewSkinDetector(), nil, Options{SampleDir: dir})

	if err := p.LoadSample(); err != nil {
		t.Fatalf("LoadSample failed: %v", err)
	}
	v := p.View()
	if !v.Image.Sample || v.Status.Message != "Loaded sample image." {
		t.Errorf("sample not loaded: %+v / %q", v.Image, v.Status.Message)
	}
	if !strings.HasPrefix(v.Image.Path, dir) {
		t.Errorf("sample written outside the sample dir: %s", v.Image.Path)
	}
	info, err := p.ImageInfo()
	if err != nil {
		t.Fatalf("ImageInfo failed: %v", err)
	}
	if info.Format != "png" || info.Width != 640 || info.Height != 400 {
		t.Errorf("image info: got %+v", info)
	}

	got, err := p.Recognize(context.Background())
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	if got.Words != 4 || got.Text != "HELLO WORLD\nOCR OVERLAY" {
		t.Errorf("recognition: got %+v", got)
	}

	faces, err := p.DetectFaces(context.Background())
	if err != nil {
		t.Fatalf("DetectFaces failed: %v", err)
	}
	if len(faces) != 2 {
		t.Errorf("faces: got %d, want 2", len(faces))
	}

	if err := p.Resize(320, 200); err != nil {
		t.Fatal(err)
	}
	out, err := p.Render(true)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if out.Bounds().Dx() != 320 || out.Bounds().Dy() != 200 {
		t.Errorf("render size: got %v", out.Bounds())
	}

	crop, err := p.CropWord(0, 2, 1)
	if err != nil {
		t.Fatalf("CropWord failed: %v", err)
	}
	// "HELLO" is 5 glyphs of 28px by 52px, plus 2px padding each side.
	if crop.Width != 144 || crop.Height != 56 {
		t.Errorf("crop size: got %dx%d", crop.Width, crop.Height)
	}
	if _, err := p.CropWord(10, 0, 1); err == nil {
		t.Error("CropWord should fail for an out of range index")
	}
}

func TestRender_NoImage(t *testing.T) {
	p := New(&fakeRecognizer{}, nil, nil, Options{SampleDir: t.TempDir()})
	if _, err := p.Render(false); !errors.Is(err, ErrNoImage) {
		t.Errorf("expected ErrNoImage, got %v", err)
	}
	if _, err := p.ImageInfo(); !errors.Is(err, ErrNoImage) {
		t.Errorf("expected ErrNoImage, got %v", err)
	}
	if _, err := p.CropWord(0, 0, 1); !errors.Is(err, ErrNoImage) {
		t.Errorf("expected ErrNoImage, got %v", err)
	}
}

func TestClose_StopsSpeech(t *testing.T) {
	speaker := &fakeSpeaker{playing: true}
	p := New(&fakeRecognizer{}, nil, speaker, Options{SampleDir: t.TempDir()})

	if err := p.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if speaker.stops != 1 {
		t.Error("Close should stop playback")
	}
}
