package editor_test

import (
	"math"
	"testing"

	editor "github.com/dev-yashmathur/audio-editor"
)

func TestEffectiveClipsMute(t *testing.T) {
	tracks := []editor.Track{
		{ID: "t1", Volume: 0.8},
		{ID: "t2", Volume: 0.5, Muted: true},
		{ID: "t3", Volume: 1.0},
	}
	clips := []editor.Clip{
		{ID: "c1", TrackID: "t1", Volume: 0.5},
		{ID: "c2", TrackID: "t2", Volume: 1.0},
		{ID: "c3", TrackID: "t3", Volume: 1.0},
		{ID: "c4", TrackID: "unknown", Volume: 1.0},
	}
	got := editor.EffectiveClips(clips, tracks)
	want := []float64{0.5 * 0.8, 0, 1.0, 0}
	for i, w := range want {
		if math.Abs(got[i].EffectiveVolume-w) > 1e-9 {
			t.Errorf("clip %v: expected effective volume %v, got %v", got[i].ID, w, got[i].EffectiveVolume)
		}
	}
}

func TestEffectiveClipsSolo(t *testing.T) {
	tracks := []editor.Track{
		{ID: "t1", Volume: 1.0},
		{ID: "t2", Volume: 0.5, Solo: true},
	}
	clips := []editor.Clip{
		{ID: "c1", TrackID: "t1", Volume: 1.0},
		{ID: "c2", TrackID: "t2", Volume: 1.0},
	}
	got := editor.EffectiveClips(clips, tracks)
	if got[0].EffectiveVolume != 0 {
		t.Errorf("expected clip on non-soloed track to be silent, got %v", got[0].EffectiveVolume)
	}
	if math.Abs(got[1].EffectiveVolume-0.5) > 1e-9 {
		t.Errorf("expected soloed clip at 0.5, got %v", got[1].EffectiveVolume)
	}
}

func TestEffectiveClipsSoloOverridesMute(t *testing.T) {
	tracks := []editor.Track{
		{ID: "t1", Volume: 1.0},
		{ID: "t2", Volume: 1.0, Muted: true, Solo: true},
	}
	clips := []editor.Clip{
		{ID: "c1", TrackID: "t1", Volume: 1.0},
		{ID: "c2", TrackID: "t2", Volume: 0.75},
	}
	got := editor.EffectiveClips(clips, tracks)
	if got[0].EffectiveVolume != 0 {
		t.Errorf("expected non-soloed clip to be silent, got %v", got[0].EffectiveVolume)
	}
	if math.Abs(got[1].EffectiveVolume-0.75) > 1e-9 {
		t.Errorf("expected muted but soloed clip to play at 0.75, got %v", got[1].EffectiveVolume)
	}
}

func TestEffectiveClipsPreservesOrder(t *testing.T) {
	tracks := []editor.Track{{ID: "t1", Volume: 1.0}}
	clips := []editor.Clip{
		{ID: "b", TrackID: "t1", Volume: 1.0},
		{ID: "a", TrackID: "t1", Volume: 1.0},
	}
	got := editor.EffectiveClips(clips, tracks)
	if got[0].ID != "b" || got[1].ID != "a" {
		t.Errorf("expected input order preserved, got %v, %v", got[0].ID, got[1].ID)
	}
}
