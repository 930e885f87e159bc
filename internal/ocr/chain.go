package ocr

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Chain tries recognizers in order. A recognizer that reports ErrNoResult or
// ErrUnavailable hands over to the next one; any other error stops the chain.
type Chain struct {
	engines []Recognizer
}

// NewChain returns a chain over engines.
func NewChain(engines ...Recognizer) *Chain {
	return &Chain{engines: engines}
}

// Name implements Recognizer.
func (c *Chain) Name() string {
	names := make([]string, len(c.engines))
	for i, e := range c.engines {
		names[i] = e.Name()
	}
	return "chain(" + strings.Join(names, ",") + ")"
}

// AvailableLanguages returns the union of every engine's languages in first
// seen order. Unavailable engines are skipped.
func (c *Chain) AvailableLanguages() ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, e := range c.engines {
		langs, err := e.AvailableLanguages()
		if errors.Is(err, ErrUnavailable) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list %s languages: %w", e.Name(), err)
		}
		for _, l := range langs {
			if !seen[l] {
				seen[l] = true
				out = append(out, l)
			}
		}
	}
	return out, nil
}

// Recognize implements Recognizer.
func (c *Chain) Recognize(ctx context.Context, imagePath, language string) (*Result, error) {
	for _, e := range c.engines {
		result, err := e.Recognize(ctx, imagePath, language)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, ErrNoResult) || errors.Is(err, ErrUnavailable) {
			slog.Debug("recognizer skipped", "engine", e.Name(), "error", err)
			continue
		}
		return nil, fmt.Errorf("%s: %w", e.Name(), err)
	}
	return nil, fmt.Errorf("no recognizer produced a result for %s: %w", imagePath, ErrNoResult)
}
