package editor_test

import (
	"math"
	"testing"

	editor "github.com/dev-yashmathur/audio-editor"
)

func TestWaveformSummary(t *testing.T) {
	buffer := make(editor.AudioBuffer, 2000)
	for i := 0; i < 1000; i++ {
		buffer[i][0] = 0.5
	}
	for i := 1000; i < 2000; i++ {
		buffer[i][0] = -1.0 // negative peaks count through their magnitude
	}
	got := editor.WaveformSummary(buffer, 2)
	if len(got) != 2 {
		t.Fatalf("expected 2 points, got %v", len(got))
	}
	if math.Abs(float64(got[0])-0.5) > 1e-6 || math.Abs(float64(got[1])-1.0) > 1e-6 {
		t.Errorf("expected normalized points [0.5 1.0], got %v", got)
	}
}

func TestWaveformSummarySilence(t *testing.T) {
	got := editor.WaveformSummary(make(editor.AudioBuffer, 100), 10)
	for i, v := range got {
		if v != 0 {
			t.Fatalf("expected silence to summarize to zeros, got %v at %v", v, i)
		}
	}
}

func TestWaveformSummaryEmpty(t *testing.T) {
	got := editor.WaveformSummary(nil, 5)
	if len(got) != 5 {
		t.Fatalf("expected 5 zero points for an empty buffer, got %v", len(got))
	}
	for _, v := range got {
		if v != 0 {
			t.Fatalf("expected zeros, got %v", got)
		}
	}
	if editor.WaveformSummary(nil, 0) != nil {
		t.Fatalf("expected nil for zero points")
	}
}
