package page

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"github.com/ironsheep/ocr-overlay/internal/detection"
	"github.com/ironsheep/ocr-overlay/internal/geometry"
	"github.com/ironsheep/ocr-overlay/internal/imaging"
	"github.com/ironsheep/ocr-overlay/internal/ocr"
	"github.com/ironsheep/ocr-overlay/internal/session"
	"github.com/ironsheep/ocr-overlay/internal/speech"
)

var (
	// ErrNoImage is returned by operations that need a loaded image.
	ErrNoImage = errors.New("no image loaded")

	// ErrImageTooLarge is returned when an image exceeds MaxImageDimension.
	ErrImageTooLarge = errors.New("image too large for OCR")

	// ErrLanguageUnavailable is returned when no installed language can be
	// used for recognition.
	ErrLanguageUnavailable = errors.New("selected language is not available")

	// ErrNoDetector is returned by DetectFaces when the page has no detector.
	ErrNoDetector = errors.New("face detection is not configured")

	// ErrNoSpeaker is returned by Speak when the page has no speaker.
	ErrNoSpeaker = errors.New("speech is not configured")
)

// User-facing status messages.
const (
	MessageNoImage             = "Load an image first."
	MessageLanguageUnavailable = "Selected language is not available."
)

// SampleLanguage is the language the built-in sample is recorded for.
const SampleLanguage = "eng"

// SampleFile is the file name the sample image is written to.
const SampleFile = "people-sample.png"

// Speaker reads text aloud. speech.Controller implements it.
type Speaker interface {
	// Speak toggles speech: it stops playback in progress, otherwise it
	// starts reading text.
	Speak(ctx context.Context, text string) (speech.Outcome, error)

	// Playing reports whether speech is playing.
	Playing() bool

	// Stop ends playback in progress.
	Stop() error
}

// Options configure a Page.
type Options struct {
	// MaxImageDimension rejects images wider or taller than this for OCR.
	MaxImageDimension int

	// ProfileLanguages are the user's preferred languages, most preferred
	// first, as BCP 47 tags or Tesseract codes.
	ProfileLanguages []string

	// UseProfileLanguages starts with the profile switch on.
	UseProfileLanguages bool

	// SpeakResults reads recognized text aloud after every recognition.
	SpeakResults bool

	// SampleDir is where LoadSample writes the sample image.
	SampleDir string

	// Render is the base style for Render. Width and Height are ignored;
	// the surface size is used instead.
	Render imaging.RenderOptions
}

// DefaultOptions returns options matching config.Default.
func DefaultOptions() Options {
	return Options{
		MaxImageDimension: 10000,
		ProfileLanguages:  []string{"en-US"},
		SampleDir:         filepath.Join(os.TempDir(), "ocr-overlay"),
	}
}

// Recognition summarizes a successful Recognize call.
type Recognition struct {
	Language     string   `json:"language"`
	LanguageName string   `json:"language_name"`
	Engine       string   `json:"engine"`
	Words        int      `json:"words"`
	Lines        int      `json:"lines"`
	Text         string   `json:"text"`
	TextAngle    *float64 `json:"text_angle,omitempty"`

	// Speech is the speech outcome when results are spoken.
	Speech string `json:"speech,omitempty"`

	// SpeechError is the user message of a failed speech attempt. A speech
	// failure does not fail the recognition.
	SpeechError string `json:"speech_error,omitempty"`
}

// Page is the OCR overlay page.
type Page struct {
	session    *session.Session
	recognizer ocr.Recognizer
	detector   detection.FaceDetector
	speaker    Speaker
	cache      *imaging.ImageCache
	opts       Options
}

// New returns a page over the given capabilities and loads the installed
// languages. detector and speaker may be nil.
func New(recognizer ocr.Recognizer, detector detection.FaceDetector, speaker Speaker, opts Options) *Page {
	if opts.MaxImageDimension <= 0 {
		opts.MaxImageDimension = DefaultOptions().MaxImageDimension
	}
	if opts.SampleDir == "" {
		opts.SampleDir = DefaultOptions().SampleDir
	}

	p := &Page{
		session:    session.New(),
		recognizer: recognizer,
		detector:   detector,
		speaker:    speaker,
		cache:      imaging.NewImageCache(),
		opts:       opts,
	}

	if _, err := p.RefreshLanguages(); err != nil {
		slog.Warn("failed to list OCR languages", "engine", recognizer.Name(), "error", err)
	}
	if opts.UseProfileLanguages {
		p.update(session.ProfileLanguagesToggled{On: true})
	}
	return p
}

// Session returns the page's session.
func (p *Page) Session() *session.Session { return p.session }

// View snapshots the page.
func (p *Page) View() session.View { return p.session.View() }

// RefreshLanguages asks the recognizer for its installed languages and
// rebuilds the language controls. A listing error leaves the page with no
// languages and is returned.
func (p *Page) RefreshLanguages() ([]string, error) {
	langs, err := p.recognizer.AvailableLanguages()
	if err != nil {
		langs = nil
	}
	p.update(session.LanguagesUpdated{Available: langs})
	if err != nil {
		return nil, fmt.Errorf("failed to list languages: %w", err)
	}
	return p.session.Available(), nil
}

// LoadImage decodes the image at path and shows it.
func (p *Page) LoadImage(path string) error {
	dims, err := imaging.GetDimensions(p.cache, path)
	if err != nil {
		p.report(fmt.Sprintf("Unable to load image: %s.", filepath.Base(path)), session.KindError)
		return fmt.Errorf("failed to load %s: %w", path, err)
	}

	p.replaceImage(path)
	return p.session.Update(session.ImageLoaded{Path: path, Width: dims.Width, Height: dims.Height})
}

// ImageInfo describes the loaded image file.
func (p *Page) ImageInfo() (*imaging.ImageInfo, error) {
	path := p.session.Image().Path
	if path == "" {
		return nil, ErrNoImage
	}
	return imaging.LoadImageInfo(p.cache, path)
}

// LoadSample writes the built-in sample image and its recorded recognition
// to the sample directory and shows it.
func (p *Page) LoadSample() error {
	sample := imaging.NewSample()
	path := filepath.Join(p.opts.SampleDir, SampleFile)

	if err := imaging.Save(sample.Image, path); err != nil {
		return fmt.Errorf("failed to write sample image: %w", err)
	}
	if err := ocr.SaveRecorded(path, sampleResult(sample)); err != nil {
		return fmt.Errorf("failed to write sample recognition: %w", err)
	}

	p.replaceImage(path)
	p.cache.Put(path, sample.Image)
	b := sample.Image.Bounds()
	return p.session.Update(session.ImageLoaded{Path: path, Width: b.Dx(), Height: b.Dy(), Sample: true})
}

func sampleResult(s *imaging.Sample) *ocr.Result {
	result := &ocr.Result{Text: s.Text(), Language: SampleLanguage}
	for _, line := range s.Lines {
		var l ocr.Line
		for _, w := range line {
			l.Words = append(l.Words, ocr.Word{Text: w.Text, Confidence: 1, Bounds: w.Bounds})
		}
		result.Lines = append(result.Lines, l)
	}
	return result
}

// replaceImage drops the previous image from the cache.
func (p *Page) replaceImage(path string) {
	if prev := p.session.Image().Path; prev != "" && prev != path {
		p.cache.Evict(prev)
	}
}

// Recognize runs OCR over the loaded image.
func (p *Page) Recognize(ctx context.Context) (*Recognition, error) {
	img := p.session.Image()
	if !img.Loaded() {
		p.report(MessageNoImage, session.KindError)
		return nil, ErrNoImage
	}

	p.update(session.ResultsCleared{WordsOnly: true})

	if limit := p.opts.MaxImageDimension; img.Width > limit || img.Height > limit {
		p.report(fmt.Sprintf("Bitmap dimensions (%dx%d) are too big for OCR. Max image dimension is %d.",
			img.Width, img.Height, limit), session.KindError)
		return nil, fmt.Errorf("%dx%d exceeds %d: %w", img.Width, img.Height, limit, ErrImageTooLarge)
	}

	lang, ok := p.chooseLanguage()
	if !ok {
		p.report(MessageLanguageUnavailable, session.KindError)
		return nil, ErrLanguageUnavailable
	}

	result, err := p.recognizer.Recognize(ctx, img.Path, lang)
	if err != nil {
		if errors.Is(err, ocr.ErrNoResult) || errors.Is(err, ocr.ErrUnavailable) {
			p.report(MessageLanguageUnavailable, session.KindError)
		} else {
			p.report(fmt.Sprintf("Recognition failed for %s.", ocr.DisplayName(lang)), session.KindError)
		}
		return nil, fmt.Errorf("failed to recognize %s: %w", img.Name, err)
	}

	if err := p.session.Update(session.RecognitionCompleted{Result: result, Language: lang}); err != nil {
		return nil, err
	}

	rec := &Recognition{
		Language:     lang,
		LanguageName: ocr.DisplayName(lang),
		Engine:       p.recognizer.Name(),
		Words:        result.WordCount(),
		Lines:        len(result.Lines),
		Text:         result.Text,
		TextAngle:    result.TextAngle,
	}

	if p.opts.SpeakResults && p.speaker != nil {
		outcome, err := p.speaker.Speak(ctx, result.Text)
		rec.Speech = outcome.String()
		if err != nil {
			rec.SpeechError = speechMessage(err)
		}
	}
	return rec, nil
}

// chooseLanguage picks the recognition language from the controls.
func (p *Page) chooseLanguage() (string, bool) {
	available := p.session.Available()
	controls := p.session.Controls()
	if controls.ProfileLanguages {
		return ocr.FromProfile(p.opts.ProfileLanguages, available)
	}
	if controls.Selected == "" {
		return "", false
	}
	return ocr.Pick(controls.Selected, available)
}

// Resize reports a new display surface size.
func (p *Page) Resize(width, height float64) error {
	return p.session.Update(session.SurfaceResized{Width: width, Height: height})
}

// Clear drops all word and face boxes and the extracted text.
func (p *Page) Clear() error {
	return p.session.Update(session.ResultsCleared{})
}

// SelectLanguage picks a language from the list. lang may be a list entry
// ("deu") or a tag that resolves to one ("de-DE").
func (p *Page) SelectLanguage(lang string) error {
	err := p.session.Update(session.LanguageSelected{Language: lang})
	var unknown *session.UnknownLanguageError
	if errors.As(err, &unknown) {
		if code, ok := ocr.ResolveLanguage(lang); ok && code != lang {
			return p.session.Update(session.LanguageSelected{Language: code})
		}
	}
	return err
}

// ToggleProfileLanguages flips the "use profile languages" switch.
func (p *Page) ToggleProfileLanguages(on bool) error {
	return p.session.Update(session.ProfileLanguagesToggled{On: on})
}

// DetectFaces finds faces in the loaded image and boxes them.
func (p *Page) DetectFaces(ctx context.Context) ([]detection.Face, error) {
	if p.detector == nil {
		return nil, ErrNoDetector
	}
	img, err := p.loadedImage()
	if err != nil {
		return nil, err
	}

	faces, err := p.detector.DetectFaces(ctx, img)
	if err != nil {
		p.report("Face detection failed.", session.KindError)
		return nil, fmt.Errorf("failed to detect faces: %w", err)
	}

	rects := make([]geometry.Rect, len(faces))
	for i, f := range faces {
		rects[i] = f.Bounds
	}
	if err := p.session.Update(session.FacesDetected{Faces: rects}); err != nil {
		return nil, err
	}
	return faces, nil
}

// Speak toggles reading the extracted text aloud.
func (p *Page) Speak(ctx context.Context) (speech.Outcome, error) {
	if p.speaker == nil {
		return speech.Skipped, ErrNoSpeaker
	}
	return p.speaker.Speak(ctx, p.session.Text())
}

// Render draws the overlay on the loaded image at the surface size. labels
// turns word labels on even when the page options leave them off.
func (p *Page) Render(labels bool) (*image.NRGBA, error) {
	img, err := p.loadedImage()
	if err != nil {
		return nil, err
	}

	opts := p.opts.Render
	opts.Labels = opts.Labels || labels
	surface := p.session.Surface()
	opts.Width = int(math.Round(surface.Width))
	opts.Height = int(math.Round(surface.Height))

	view := p.session.View()
	return imaging.Render(img, view.Words, view.Faces, opts)
}

// CropWord returns the source pixels of the word at index in recognition
// order, grown by padding and resized by scale.
func (p *Page) CropWord(index, padding int, scale float64) (*imaging.EncodedImage, error) {
	img, err := p.loadedImage()
	if err != nil {
		return nil, err
	}

	boxes := p.session.Words().Boxes()
	if index < 0 || index >= len(boxes) {
		return nil, fmt.Errorf("word index %d out of range: %d word(s) recognized", index, len(boxes))
	}
	return imaging.CropWord(img, boxes[index].Source(), padding, scale)
}

// Close stops speech and releases cached images.
func (p *Page) Close() error {
	var err error
	if p.speaker != nil && p.speaker.Playing() {
		err = p.speaker.Stop()
	}
	p.cache.Clear()
	return err
}

func (p *Page) loadedImage() (image.Image, error) {
	path := p.session.Image().Path
	if path == "" {
		return nil, ErrNoImage
	}
	return p.cache.Load(path)
}

func (p *Page) report(message string, kind session.Kind) {
	p.update(session.StatusReported{Message: message, Kind: kind})
}

// update applies events that cannot fail.
func (p *Page) update(ev session.Event) {
	if err := p.session.Update(ev); err != nil {
		slog.Error("session rejected event", "type", ev.Type(), "error", err)
	}
}

func speechMessage(err error) string {
	var se *speech.Error
	if errors.As(err, &se) {
		return se.Message
	}
	return err.Error()
}
