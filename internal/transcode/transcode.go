// Package transcode converts compressed audio containers into the raw PCM
// stream the agent runtime expects: 16 kHz, mono, 16-bit signed little-endian.
package transcode

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Decoder turns container bytes into raw PCM bytes.
type Decoder interface {
	Decode(ctx context.Context, container []byte) ([]byte, error)
}

// Error reports a failed decode, carrying whatever the external tool wrote
// to stderr.
type Error struct {
	Stderr string
	Err    error
}

func (e *Error) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("transcode: %v: %s", e.Err, e.Stderr)
	}
	return fmt.Sprintf("transcode: %v", e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// FFmpeg decodes by piping the container through an ffmpeg process.
type FFmpeg struct {
	// Path to the ffmpeg binary; "ffmpeg" resolves via PATH.
	Path string
}

// NewFFmpeg constructs a Decoder using the given binary path.
func NewFFmpeg(path string) *FFmpeg {
	if path == "" {
		path = "ffmpeg"
	}
	return &FFmpeg{Path: path}
}

// Decode runs ffmpeg -i pipe:0 -f s16le -ar 16000 -ac 1 pipe:1 over the
// container bytes. Nonzero exit returns *Error with trimmed stderr.
func (f *FFmpeg) Decode(ctx context.Context, container []byte) ([]byte, error) {
	cmd := exec.CommandContext(ctx, f.Path, "-i", "pipe:0", "-f", "s16le", "-ar", "16000", "-ac", "1", "pipe:1")
	cmd.Stdin = bytes.NewReader(container)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, &Error{Stderr: lastLine(stderr.String()), Err: err}
	}
	return stdout.Bytes(), nil
}

// lastLine keeps error output readable; ffmpeg prints a banner before the
// actual failure reason.
func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) == 0 {
		return ""
	}
	return strings.TrimSpace(lines[len(lines)-1])
}
