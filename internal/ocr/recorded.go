package ocr

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"go.yaml.in/yaml/v3"
)

// SidecarSuffix is appended to an image path to name its recorded result.
const SidecarSuffix = ".ocr.yaml"

// SidecarPath returns the recorded-result path for imagePath.
func SidecarPath(imagePath string) string {
	return imagePath + SidecarSuffix
}

// Recorded replays recognition results saved next to images by SaveRecorded.
//
// A sidecar recorded for one language does not answer for another: asking for
// a different language returns ErrNoResult.
type Recorded struct {
	// Languages are reported by AvailableLanguages.
	Languages []string
}

// NewRecorded returns a recorded recognizer advertising languages.
func NewRecorded(languages ...string) *Recorded {
	return &Recorded{Languages: languages}
}

// Name implements Recognizer.
func (r *Recorded) Name() string { return "recorded" }

// AvailableLanguages implements Recognizer.
func (r *Recorded) AvailableLanguages() ([]string, error) {
	out := make([]string, len(r.Languages))
	copy(out, r.Languages)
	return out, nil
}

// Recognize loads the sidecar of imagePath.
func (r *Recorded) Recognize(ctx context.Context, imagePath, language string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := LoadRecorded(imagePath)
	if err != nil {
		return nil, err
	}
	if result.Language != "" && language != "" && result.Language != language {
		return nil, fmt.Errorf("recorded result is %s, not %s: %w", result.Language, language, ErrNoResult)
	}
	if result.Language == "" {
		result.Language = language
	}
	return result, nil
}

// LoadRecorded reads the sidecar of imagePath. A missing sidecar is
// reported as ErrNoResult.
func LoadRecorded(imagePath string) (*Result, error) {
	path := SidecarPath(imagePath)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("no recorded result at %s: %w", path, ErrNoResult)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read recorded result: %w", err)
	}

	var result Result
	if err := yaml.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse recorded result %s: %w", path, err)
	}
	return &result, nil
}

// SaveRecorded writes result as the sidecar of imagePath.
func SaveRecorded(imagePath string, result *Result) error {
	data, err := yaml.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode recorded result: %w", err)
	}
	if err := os.WriteFile(SidecarPath(imagePath), data, 0644); err != nil {
		return fmt.Errorf("failed to write recorded result: %w", err)
	}
	return nil
}
