package speech

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
)

// CommandSynthesizer runs an external text-to-speech program that reads text
// on stdin and writes audio on stdout.
type CommandSynthesizer struct {
	Binary      string
	Args        []string
	ContentType string
}

// NewEspeak returns a synthesizer running espeak-ng with voice (empty for the
// default voice), producing WAV.
func NewEspeak(voice string) *CommandSynthesizer {
	args := []string{"--stdout", "--stdin"}
	if voice != "" {
		args = append(args, "-v", voice)
	}
	return &CommandSynthesizer{
		Binary:      "espeak-ng",
		Args:        args,
		ContentType: "audio/wav",
	}
}

// Synthesize implements Synthesizer.
func (s *CommandSynthesizer) Synthesize(ctx context.Context, text string) (*Stream, error) {
	if _, err := exec.LookPath(s.Binary); err != nil {
		return nil, fmt.Errorf("%s not found in PATH: %w", s.Binary, err)
	}

	cmd := exec.CommandContext(ctx, s.Binary, s.Args...)
	cmd.Stdin = strings.NewReader(text)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("failed to synthesize with %s: %w: %s", s.Binary, err, strings.TrimSpace(stderr.String()))
	}
	if out.Len() == 0 {
		return nil, fmt.Errorf("%s produced no audio", s.Binary)
	}
	return &Stream{Data: out.Bytes(), ContentType: s.ContentType}, nil
}

// CommandPlayer plays audio by piping it into an external program such as
// aplay. Playback runs in the background until it ends or Stop is called.
type CommandPlayer struct {
	Binary string
	Args   []string

	mu   sync.Mutex
	cmd  *exec.Cmd
	done chan struct{}
}

// NewAplay returns a player running "aplay -q".
func NewAplay() *CommandPlayer {
	return &CommandPlayer{Binary: "aplay", Args: []string{"-q"}}
}

// Play implements Player. A missing binary is reported as
// ErrPlaybackUnavailable.
func (p *CommandPlayer) Play(ctx context.Context, s *Stream) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := exec.LookPath(p.Binary); err != nil {
		return fmt.Errorf("%s: %w", p.Binary, ErrPlaybackUnavailable)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cmd != nil {
		return errors.New("playback already in progress")
	}

	// Playback outlives the request that started it, so it is not bound to ctx.
	cmd := exec.Command(p.Binary, p.Args...)
	cmd.Stdin = bytes.NewReader(s.Data)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", p.Binary, err)
	}

	done := make(chan struct{})
	p.cmd, p.done = cmd, done
	go func() {
		if err := cmd.Wait(); err != nil {
			slog.Debug("playback ended", "error", err)
		}
		p.mu.Lock()
		if p.cmd == cmd {
			p.cmd, p.done = nil, nil
		}
		p.mu.Unlock()
		close(done)
	}()
	return nil
}

// Stop implements Player. It waits for the process to exit.
func (p *CommandPlayer) Stop() error {
	p.mu.Lock()
	cmd, done := p.cmd, p.done
	p.mu.Unlock()
	if cmd == nil {
		return nil
	}

	if err := cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("failed to stop %s: %w", p.Binary, err)
	}
	<-done
	return nil
}

// Playing implements Player.
func (p *CommandPlayer) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cmd != nil
}

// FilePlayer "plays" streams by writing them into a directory. It suits
// headless hosts that hand the audio file to someone else. It is never
// playing.
type FilePlayer struct {
	Dir string

	seq  atomic.Int64
	mu   sync.Mutex
	last string
}

// NewFilePlayer returns a player writing into dir.
func NewFilePlayer(dir string) *FilePlayer {
	return &FilePlayer{Dir: dir}
}

// Play implements Player.
func (p *FilePlayer) Play(ctx context.Context, s *Stream) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(p.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create speech directory: %w", err)
	}

	path := filepath.Join(p.Dir, fmt.Sprintf("speech-%d%s", p.seq.Add(1), extension(s.ContentType)))
	if err := os.WriteFile(path, s.Data, 0644); err != nil {
		return fmt.Errorf("failed to write speech audio: %w", err)
	}

	p.mu.Lock()
	p.last = path
	p.mu.Unlock()
	return nil
}

// Stop implements Player.
func (p *FilePlayer) Stop() error { return nil }

// Playing implements Player.
func (p *FilePlayer) Playing() bool { return false }

// Last returns the path of the most recent file, empty if none.
func (p *FilePlayer) Last() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

func extension(contentType string) string {
	switch contentType {
	case "audio/wav", "audio/x-wav":
		return ".wav"
	case "audio/mpeg":
		return ".mp3"
	case "audio/ogg":
		return ".ogg"
	default:
		return ".bin"
	}
}
