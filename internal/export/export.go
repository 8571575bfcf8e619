// Package export hands an analysis result to the user's system, either as
// a downloaded file or through the clipboard.
package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/aymanbagabas/go-osc52/v2"
)

// MIMEType of exported results.
const MIMEType = "application/json"

// ErrNoTerminal is returned when the clipboard has nowhere to write.
var ErrNoTerminal = errors.New("clipboard requires a terminal")

// Filename returns the download name for an export made at now.
func Filename(now time.Time) string {
	return fmt.Sprintf("meeting-analysis-%d.json", now.UnixMilli())
}

// WriteFile saves data into dir and returns the written path.
func WriteFile(dir, data string, now time.Time) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create download directory: %w", err)
	}

	path := filepath.Join(dir, Filename(now))
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// Clipboard receives exported text.
type Clipboard interface {
	Copy(text string) error
}

// OSC52Clipboard writes an OSC 52 sequence to the terminal, which puts the
// text on the local clipboard even across SSH.
type OSC52Clipboard struct {
	Out io.Writer

	// Tmux wraps the sequence in a tmux passthrough
	Tmux bool
}

// NewOSC52Clipboard writes to out, detecting tmux from the environment.
func NewOSC52Clipboard(out io.Writer) *OSC52Clipboard {
	return &OSC52Clipboard{Out: out, Tmux: os.Getenv("TMUX") != ""}
}

func (c *OSC52Clipboard) Copy(text string) error {
	if c == nil || c.Out == nil {
		return ErrNoTerminal
	}
	seq := osc52.New(text)
	if c.Tmux {
		seq = seq.Tmux()
	}
	if _, err := seq.WriteTo(c.Out); err != nil {
		return fmt.Errorf("failed to write clipboard sequence: %w", err)
	}
	return nil
}
