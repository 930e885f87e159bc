package cli

import (
	"fmt"
	"log/slog"

	"github.com/ironsheep/ocr-overlay/internal/config"
	"github.com/ironsheep/ocr-overlay/internal/detection"
	"github.com/ironsheep/ocr-overlay/internal/imaging"
	"github.com/ironsheep/ocr-overlay/internal/ocr"
	"github.com/ironsheep/ocr-overlay/internal/overlay"
	"github.com/ironsheep/ocr-overlay/internal/page"
	"github.com/ironsheep/ocr-overlay/internal/speech"
)

// NewPage builds a page from c: recorded results (when enabled) in front of
// Tesseract, the skin tone face detector and an external speech pipeline.
func NewPage(c *config.Config) (*page.Page, error) {
	render, err := renderOptions(c.Render)
	if err != nil {
		return nil, err
	}

	opts := page.Options{
		MaxImageDimension:   c.OCR.MaxImageDimension,
		ProfileLanguages:    c.OCR.ProfileLanguages,
		UseProfileLanguages: c.OCR.UseProfileLanguages,
		SpeakResults:        c.Speech.Enabled,
		SampleDir:           c.SampleDir,
		Render:              render,
	}
	return page.New(newRecognizer(c.OCR), newDetector(c.Detection), newSpeaker(c.Speech), opts), nil
}

func newRecognizer(c config.OCRConfig) ocr.Recognizer {
	tess := ocr.NewTesseract(c.TessdataPrefix)
	if !c.RecordedResults {
		return tess
	}
	// The recorded engine advertises the sample language so the built-in
	// sample works without Tesseract installed.
	return ocr.NewChain(ocr.NewRecorded(page.SampleLanguage), tess)
}

func newDetector(c config.DetectionConfig) *detection.SkinDetector {
	d := detection.NewSkinDetector()
	d.MaxSide = c.MaxSide
	d.BlurRadius = c.BlurRadius
	return d
}

func newSpeaker(c config.SpeechConfig) *speech.Controller {
	synth := speech.NewEspeak(c.Voice)
	synth.Binary = c.Synthesizer

	var player speech.Player
	if c.OutputDir != "" {
		player = speech.NewFilePlayer(c.OutputDir)
	} else {
		p := speech.NewAplay()
		p.Binary = c.Player
		player = p
	}
	slog.Debug("speech pipeline", "synthesizer", c.Synthesizer, "voice", c.Voice, "player", c.Player, "output_dir", c.OutputDir)
	return speech.NewController(synth, player)
}

func renderOptions(c config.RenderConfig) (imaging.RenderOptions, error) {
	opts := imaging.RenderOptions{
		Thickness: c.Thickness,
		Labels:    c.Labels,
		Colors:    make(map[overlay.Style]string, len(c.Colors)),
	}
	for tag, hex := range c.Colors {
		style, ok := overlay.ParseStyle(tag)
		if !ok {
			return opts, fmt.Errorf("unknown box style %q in render colors", tag)
		}
		opts.Colors[style] = hex
	}
	return opts, nil
}
