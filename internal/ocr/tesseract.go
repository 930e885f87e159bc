//go:build cgo

package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/ironsheep/ocr-overlay/internal/geometry"
)

// Tesseract recognizes text with the Tesseract engine through gosseract.
type Tesseract struct {
	// TessdataPrefix is the directory holding *.traineddata files. Empty uses
	// the location Tesseract was built with.
	TessdataPrefix string
}

// NewTesseract returns a Tesseract recognizer reading models from
// tessdataPrefix (empty for the system default).
func NewTesseract(tessdataPrefix string) *Tesseract {
	return &Tesseract{TessdataPrefix: tessdataPrefix}
}

// Name implements Recognizer.
func (t *Tesseract) Name() string { return "tesseract" }

// Version returns the linked Tesseract version.
func (t *Tesseract) Version() string { return gosseract.Version() }

// AvailableLanguages lists the installed language models, sorted. A listing
// that fails is reported as ErrUnavailable.
func (t *Tesseract) AvailableLanguages() ([]string, error) {
	var (
		models []string
		err    error
	)
	if t.TessdataPrefix != "" {
		models, err = listModels(t.TessdataPrefix)
	} else {
		models, err = gosseract.GetAvailableLanguages()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list tesseract languages: %w: %w", ErrUnavailable, err)
	}
	models = filterModels(models)
	sort.Strings(models)
	return models, nil
}

// Recognize performs OCR on an entire image file.
//
// Line and word structure come from Tesseract's hOCR output. When the hOCR
// cannot be parsed, words are grouped into lines from the verbose bounding box
// iterator instead; if that fails too the result carries only Text.
//
// Tesseract itself cannot be interrupted. When ctx is cancelled Recognize
// returns ctx.Err() immediately and the engine finishes in the background.
func (t *Tesseract) Recognize(ctx context.Context, imagePath, language string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type outcome struct {
		result *Result
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		r, err := t.recognize(imagePath, language)
		done <- outcome{r, err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case o := <-done:
		return o.result, o.err
	}
}

func (t *Tesseract) recognize(imagePath, language string) (*Result, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if t.TessdataPrefix != "" {
		if err := client.SetTessdataPrefix(t.TessdataPrefix); err != nil {
			return nil, fmt.Errorf("failed to set tessdata path: %w", err)
		}
	}

	if err := client.SetLanguage(language); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}

	if err := client.SetImage(imagePath); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	var result *Result
	hocr, err := client.HOCRText()
	if err == nil {
		result, err = ParseHOCR(strings.NewReader(hocr))
	}
	if err != nil {
		slog.Debug("hOCR unavailable, falling back to word boxes", "image", imagePath, "error", err)
		result = &Result{Lines: linesFromBoxes(client)}
	}

	result.Text = text
	result.Language = language
	return result, nil
}

// linesFromBoxes groups word boxes by block, paragraph and line number.
// It returns nil when the iterator fails.
func linesFromBoxes(client *gosseract.Client) []Line {
	boxes, err := client.GetBoundingBoxesVerbose()
	if err != nil {
		return nil
	}

	type key struct{ block, par, line int }
	var (
		lines []Line
		last  key
	)
	for i, box := range boxes {
		if strings.TrimSpace(box.Word) == "" {
			continue
		}
		k := key{box.BlockNum, box.ParNum, box.LineNum}
		if i == 0 || k != last || len(lines) == 0 {
			lines = append(lines, Line{})
			last = k
		}
		l := &lines[len(lines)-1]
		l.Words = append(l.Words, Word{
			Text:       box.Word,
			Confidence: box.Confidence / 100.0,
			Bounds:     geometry.FromImageRect(box.Box),
		})
	}
	return lines
}

// listModels returns the language names of *.traineddata files in dir.
func listModels(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.traineddata"))
	if err != nil {
		return nil, err
	}
	models := make([]string, 0, len(matches))
	for _, m := range matches {
		models = append(models, strings.TrimSuffix(filepath.Base(m), ".traineddata"))
	}
	return models, nil
}
