// Package speech reads recognized text aloud.
//
// Synthesis and playback are separate capabilities so either can be swapped:
// a Synthesizer turns text into an audio Stream and a Player plays it. The
// Controller ties them together with the page's toggle behavior: speaking
// while audio is playing stops the playback instead of starting a new one.
//
// Failures are reported to users with two fixed messages. A missing player
// reads "Media player components unavailable"; any other failure reads
// "Unable to synthesize text". The underlying error is kept for logs.
package speech

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// ErrPlaybackUnavailable is returned when no audio player can run.
var ErrPlaybackUnavailable = errors.New("media player components unavailable")

// User-facing messages.
const (
	MessagePlaybackUnavailable = "Media player components unavailable"
	MessageSynthesisFailed     = "Unable to synthesize text"
)

// Stream is synthesized audio.
type Stream struct {
	Data        []byte
	ContentType string
}

// Synthesizer turns text into audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (*Stream, error)
}

// Player plays audio streams, one at a time.
type Player interface {
	// Play starts playback and returns without waiting for it to finish.
	Play(ctx context.Context, s *Stream) error

	// Stop ends the current playback. Stopping an idle player is a no-op.
	Stop() error

	// Playing reports whether playback is in progress.
	Playing() bool
}

// Outcome says what Speak did.
type Outcome int

const (
	// Started means synthesis succeeded and playback began.
	Started Outcome = iota
	// Stopped means audio was playing and has been stopped.
	Stopped
	// Skipped means there was no text to speak.
	Skipped
)

func (o Outcome) String() string {
	switch o {
	case Started:
		return "started"
	case Stopped:
		return "stopped"
	case Skipped:
		return "skipped"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// MarshalText encodes the outcome by name.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Error is a speech failure with the message to show the user.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(err error) *Error {
	if errors.Is(err, ErrPlaybackUnavailable) {
		return &Error{Message: MessagePlaybackUnavailable, Err: err}
	}
	return &Error{Message: MessageSynthesisFailed, Err: err}
}

// Controller speaks text through a synthesizer and a player.
type Controller struct {
	synth  Synthesizer
	player Player
}

// NewController returns a controller over synth and player.
func NewController(synth Synthesizer, player Player) *Controller {
	return &Controller{synth: synth, player: player}
}

// Speak toggles speech. If audio is playing it is stopped and Stopped is
// returned. Otherwise non-empty text is synthesized and played. Failures are
// returned as *Error.
func (c *Controller) Speak(ctx context.Context, text string) (Outcome, error) {
	if c.player.Playing() {
		if err := c.player.Stop(); err != nil {
			return Stopped, newError(fmt.Errorf("failed to stop playback: %w", err))
		}
		return Stopped, nil
	}

	if text == "" {
		return Skipped, nil
	}

	stream, err := c.synth.Synthesize(ctx, text)
	if err != nil {
		slog.Warn("speech synthesis failed", "error", err)
		return Skipped, newError(err)
	}

	if err := c.player.Play(ctx, stream); err != nil {
		slog.Warn("speech playback failed", "error", err)
		return Skipped, newError(err)
	}

	slog.Debug("speaking", "bytes", len(stream.Data), "content_type", stream.ContentType)
	return Started, nil
}

// Playing reports whether speech is currently playing.
func (c *Controller) Playing() bool { return c.player.Playing() }

// Stop ends any playback in progress.
func (c *Controller) Stop() error {
	if err := c.player.Stop(); err != nil {
		return fmt.Errorf("failed to stop playback: %w", err)
	}
	return nil
}
