package timeline_test

import (
	"math"
	"reflect"
	"testing"

	editor "github.com/dev-yashmathur/audio-editor"
	"github.com/dev-yashmathur/audio-editor/timeline"
)

func effective(id, assetID string, start, dur, offset, volume float64) editor.EffectiveClip {
	return editor.EffectiveClip{
		Clip:            editor.Clip{ID: id, AssetID: assetID, StartTime: start, Duration: dur, Offset: offset},
		EffectiveVolume: volume,
	}
}

func TestRenderMixesOverlap(t *testing.T) {
	buffers := map[string]editor.AudioBuffer{
		"a": constantAsset("a", 1, 0.25).Buffer,
		"b": constantAsset("b", 1, 0.5).Buffer,
	}
	clips := []editor.EffectiveClip{
		effective("c1", "a", 0, 1, 0, 1),
		effective("c2", "b", 0.5, 1, 0, 1),
	}
	out, err := timeline.Render(clips, buffers, 1.5)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if len(out) != editor.Frames(1.5) {
		t.Fatalf("expected %v frames, got %v", editor.Frames(1.5), len(out))
	}
	checks := []struct {
		at   float64
		want float64
	}{
		{0.25, 0.25},       // only the first clip
		{0.75, 0.25 + 0.5}, // overlap sums
		{1.25, 0.5},        // only the second clip
	}
	for _, c := range checks {
		got := float64(out[editor.Frames(c.at)][0])
		if math.Abs(got-c.want) > 1e-6 {
			t.Errorf("at %vs: expected %v, got %v", c.at, c.want, got)
		}
	}
}

func TestRenderOrderIndependent(t *testing.T) {
	buffers := map[string]editor.AudioBuffer{
		"a": constantAsset("a", 1, 0.25).Buffer,
		"b": constantAsset("b", 1, 0.5).Buffer,
	}
	forward := []editor.EffectiveClip{
		effective("c1", "a", 0, 1, 0, 1),
		effective("c2", "b", 0.5, 1, 0, 0.5),
	}
	reverse := []editor.EffectiveClip{forward[1], forward[0]}

	first, err := timeline.Render(forward, buffers, 1.5)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	second, err := timeline.Render(reverse, buffers, 1.5)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected renders to be identical regardless of clip order")
	}
}

func TestRenderAppliesGainAndOffset(t *testing.T) {
	src := make(editor.AudioBuffer, editor.Frames(1))
	for i := range src {
		src[i][0] = float32(i)
	}
	buffers := map[string]editor.AudioBuffer{"a": src}
	clips := []editor.EffectiveClip{effective("c", "a", 0, 0.5, 0.25, 0.5)}

	out, err := timeline.Render(clips, buffers, 0.5)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	want := float64(editor.Frames(0.25)) * 0.5
	if got := float64(out[0][0]); math.Abs(got-want) > 1e-6 {
		t.Errorf("expected first frame %v, got %v", want, got)
	}
}

func TestRenderClampsToSource(t *testing.T) {
	buffers := map[string]editor.AudioBuffer{"a": constantAsset("a", 0.5, 1).Buffer}
	clips := []editor.EffectiveClip{effective("c", "a", 0, 2, 0, 1)}

	out, err := timeline.Render(clips, buffers, 2)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if out[editor.Frames(0.25)][0] != 1 {
		t.Errorf("expected source audio inside the clip")
	}
	if out[editor.Frames(1)][0] != 0 {
		t.Errorf("expected silence past the end of the source")
	}
}

func TestRenderRejectsEmptyDuration(t *testing.T) {
	if _, err := timeline.Render(nil, nil, 0); err == nil {
		t.Fatalf("expected an error for a zero-length render")
	}
}
