// Package encode converts rendered WAV bytes to distribution formats with an
// external ffmpeg binary.
package encode

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// FFmpeg encodes WAV data by shelling out to ffmpeg. It satisfies the
// timeline's Encoder interface.
type FFmpeg struct {
	// Binary is the path of the ffmpeg binary; "ffmpeg" uses PATH.
	Binary string
}

func NewFFmpeg(binary string) *FFmpeg {
	if binary == "" {
		binary = "ffmpeg"
	}
	return &FFmpeg{Binary: binary}
}

// Encode transcodes canonical WAV bytes to the given format ("mp3" or
// "m4a"). Input and output go through temp files because the mp4 muxer needs
// a seekable output.
func (f *FFmpeg) Encode(wav []byte, format string) ([]byte, error) {
	var args []string
	switch format {
	case "mp3":
		args = []string{"-acodec", "libmp3lame", "-q:a", "2"}
	case "m4a":
		args = []string{"-c:a", "aac", "-b:a", "192k"}
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}

	dir, err := os.MkdirTemp("", "audio-editor-export")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	in := filepath.Join(dir, "in.wav")
	out := filepath.Join(dir, "out."+format)
	if err := os.WriteFile(in, wav, 0644); err != nil {
		return nil, fmt.Errorf("write temp wav: %w", err)
	}

	cmd := exec.Command(f.Binary, append([]string{"-i", in, "-loglevel", "error"}, append(args, "-y", out)...)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg encode %s: %w: %s", format, err, strings.TrimSpace(stderr.String()))
	}

	data, err := os.ReadFile(out)
	if err != nil {
		return nil, fmt.Errorf("read encoded output: %w", err)
	}
	return data, nil
}
