//go:build !cgo

package ocr

import (
	"context"
	"fmt"
)

// Tesseract is unavailable in builds without CGO. Every call reports
// ErrUnavailable so callers can fall back to another engine.
type Tesseract struct {
	TessdataPrefix string
}

// NewTesseract returns the stub recognizer.
func NewTesseract(tessdataPrefix string) *Tesseract {
	return &Tesseract{TessdataPrefix: tessdataPrefix}
}

// Name implements Recognizer.
func (t *Tesseract) Name() string { return "tesseract" }

// Version reports that no engine is linked.
func (t *Tesseract) Version() string { return "" }

// AvailableLanguages implements Recognizer.
func (t *Tesseract) AvailableLanguages() ([]string, error) {
	return nil, fmt.Errorf("tesseract requires a cgo build: %w", ErrUnavailable)
}

// Recognize implements Recognizer.
func (t *Tesseract) Recognize(ctx context.Context, imagePath, language string) (*Result, error) {
	return nil, fmt.Errorf("tesseract requires a cgo build: %w", ErrUnavailable)
}
