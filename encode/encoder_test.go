package encode_test

import (
	"testing"

	"github.com/dev-yashmathur/audio-editor/encode"
)

func TestEncodeRejectsUnknownFormat(t *testing.T) {
	e := encode.NewFFmpeg("")
	for _, format := range []string{"", "wav", "flac", "exe"} {
		if _, err := e.Encode(nil, format); err == nil {
			t.Errorf("expected an error for format %q", format)
		}
	}
}

func TestEncodeFailsWithoutFFmpeg(t *testing.T) {
	e := encode.NewFFmpeg("/nonexistent/ffmpeg")
	if _, err := e.Encode([]byte("RIFF"), "mp3"); err == nil {
		t.Fatalf("expected an error when ffmpeg is unavailable")
	}
}
