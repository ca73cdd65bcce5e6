// Package asset turns media files into decoded, waveform-summarized assets
// ready for the timeline. Native WAV is parsed directly; everything else is
// decoded by an external ffmpeg binary.
package asset

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	editor "github.com/dev-yashmathur/audio-editor"
)

// Importer decodes media bytes into assets. It satisfies the timeline's
// Decoder interface.
type Importer struct {
	// FFmpeg is the path of the ffmpeg binary; "ffmpeg" uses PATH.
	FFmpeg string
	Logger *zap.Logger
}

func NewImporter(ffmpeg string, logger *zap.Logger) *Importer {
	if ffmpeg == "" {
		ffmpeg = "ffmpeg"
	}
	return &Importer{FFmpeg: ffmpeg, Logger: logger}
}

// Decode produces a fully loaded Asset from encoded media bytes. The mime
// type decides whether the asset counts as audio or video; either way only
// the audio stream is decoded. WAV input is parsed natively when possible, so
// canonical PCM files round-trip without an ffmpeg dependency.
func (im *Importer) Decode(name, mime string, data []byte) (*editor.Asset, error) {
	var (
		buffer editor.AudioBuffer
		err    error
	)
	if isWav(name, mime) {
		buffer, err = editor.ParseWav(data)
		if err != nil {
			im.Logger.Debug("native wav parse failed, falling back to ffmpeg",
				zap.String("name", name), zap.Error(err))
		}
	}
	if buffer == nil {
		buffer, err = im.decodeFFmpeg(data)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}
	}
	kind := editor.KindAudio
	if strings.HasPrefix(mime, "video") {
		kind = editor.KindVideo
	}
	asset := &editor.Asset{
		ID:       uuid.NewString(),
		Name:     name,
		Kind:     kind,
		Buffer:   buffer,
		Duration: editor.Seconds(len(buffer)),
		Waveform: editor.WaveformSummary(buffer, editor.WaveformPoints),
	}
	return asset, nil
}

// DecodeFile reads and decodes a media file from disk, guessing the mime kind
// from the extension.
func (im *Importer) DecodeFile(path string) (*editor.Asset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return im.Decode(filepath.Base(path), mimeFromExt(path), data)
}

// decodeFFmpeg runs ffmpeg to decode arbitrary media into raw 32-bit float
// stereo frames at the engine sample rate, reading from stdin and writing to
// stdout so no temp files are needed.
func (im *Importer) decodeFFmpeg(data []byte) (editor.AudioBuffer, error) {
	cmd := exec.Command(im.FFmpeg,
		"-i", "pipe:0",
		"-vn",
		"-f", "f32le",
		"-acodec", "pcm_f32le",
		"-ar", fmt.Sprint(editor.SampleRate),
		"-ac", fmt.Sprint(editor.NumChannels),
		"-loglevel", "error",
		"pipe:1",
	)
	cmd.Stdin = bytes.NewReader(data)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg decode: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	const frameBytes = 4 * editor.NumChannels
	if len(out)%frameBytes != 0 {
		out = out[:len(out)-len(out)%frameBytes]
	}
	buffer := make(editor.AudioBuffer, len(out)/frameBytes)
	for i := range buffer {
		buffer[i][0] = math.Float32frombits(binary.LittleEndian.Uint32(out[i*frameBytes:]))
		buffer[i][1] = math.Float32frombits(binary.LittleEndian.Uint32(out[i*frameBytes+4:]))
	}
	return buffer, nil
}

func isWav(name, mime string) bool {
	return mime == "audio/wav" || mime == "audio/x-wav" ||
		strings.EqualFold(filepath.Ext(name), ".wav")
}

func mimeFromExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return "audio/wav"
	case ".mp3":
		return "audio/mpeg"
	case ".m4a", ".aac":
		return "audio/aac"
	case ".ogg", ".opus":
		return "audio/ogg"
	case ".flac":
		return "audio/flac"
	case ".mp4", ".mov", ".webm", ".mkv":
		return "video/" + strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	default:
		return "application/octet-stream"
	}
}
