package timeline_test

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"go.uber.org/zap"

	editor "github.com/dev-yashmathur/audio-editor"
	"github.com/dev-yashmathur/audio-editor/timeline"
)

func newTestModel(t *testing.T) *timeline.Model {
	t.Helper()
	return timeline.NewModel(timeline.NewBroker(), zap.NewNop(), nil, nil)
}

// constantAsset builds a fully loaded asset of the given duration whose left
// and right channels hold a constant value.
func constantAsset(id string, duration float64, value float32) *editor.Asset {
	buffer := make(editor.AudioBuffer, editor.Frames(duration))
	for i := range buffer {
		buffer[i] = [2]float32{value, value}
	}
	return &editor.Asset{
		ID:       id,
		Name:     id + ".wav",
		Kind:     editor.KindAudio,
		Buffer:   buffer,
		Duration: duration,
		Waveform: editor.WaveformSummary(buffer, editor.WaveformPoints),
	}
}

func TestNewModelDefaults(t *testing.T) {
	m := newTestModel(t)
	if len(m.Tracks()) != 3 {
		t.Fatalf("expected 3 default tracks, got %v", len(m.Tracks()))
	}
	for _, tr := range m.Tracks() {
		if tr.Volume != 1.0 || tr.Muted || tr.Solo {
			t.Errorf("track %v: unexpected defaults %+v", tr.ID, tr)
		}
	}
	if m.Duration() != 60 {
		t.Errorf("expected empty project duration 60, got %v", m.Duration())
	}
	if !m.SnapEnabled() {
		t.Errorf("expected snapping on by default")
	}
}

func TestDurationFollowsClips(t *testing.T) {
	m := newTestModel(t)
	m.AddAsset(constantAsset("a", 5, 0.1))
	track := m.Tracks()[0].ID

	m.AddClipToTrack(track, "a", 0)
	if m.Duration() != 60 {
		t.Errorf("expected short content to keep the 60s minimum, got %v", m.Duration())
	}
	m.AddClipToTrack(track, "a", 35)
	if m.Duration() != 70 {
		t.Errorf("expected duration maxEnd+30 = 70, got %v", m.Duration())
	}
	m.DeleteClips([]string{m.Clips()[0].ID, m.Clips()[1].ID})
	if m.Duration() != 60 {
		t.Errorf("expected empty project duration back to 60, got %v", m.Duration())
	}
}

func TestAddClipUnknownAsset(t *testing.T) {
	m := newTestModel(t)
	m.AddClipToTrack(m.Tracks()[0].ID, "missing", 0)
	if len(m.Clips()) != 0 {
		t.Fatalf("expected no clip for an unknown asset")
	}
}

func TestSplitClip(t *testing.T) {
	m := newTestModel(t)
	m.AddAsset(constantAsset("a", 10, 0.1))
	m.AddClipToTrack(m.Tracks()[0].ID, "a", 5)
	orig := m.Clips()[0]
	m.SetSelection([]string{orig.ID})

	m.SplitClip(8)
	if len(m.Clips()) != 2 {
		t.Fatalf("expected 2 clips after split, got %v", len(m.Clips()))
	}
	left, right := m.Clips()[0], m.Clips()[1]
	if left.StartTime != 5 || left.Duration != 3 || left.Offset != 0 {
		t.Errorf("left part wrong: %+v", left)
	}
	if right.StartTime != 8 || right.Duration != 7 || right.Offset != 3 {
		t.Errorf("right part wrong: %+v", right)
	}
	if left.Duration+right.Duration != orig.Duration {
		t.Errorf("split does not preserve total duration")
	}
	if !reflect.DeepEqual(m.Selection(), []string{left.ID}) {
		t.Errorf("expected the left part selected, got %v", m.Selection())
	}
}

func TestSplitClipOutsideInterior(t *testing.T) {
	m := newTestModel(t)
	m.AddAsset(constantAsset("a", 10, 0.1))
	m.AddClipToTrack(m.Tracks()[0].ID, "a", 5)
	m.SetSelection([]string{m.Clips()[0].ID})

	for _, at := range []float64{5, 15, 2, 20} {
		m.SplitClip(at)
		if len(m.Clips()) != 1 {
			t.Fatalf("expected split at %v to be a no-op", at)
		}
	}
}

func TestDeleteClipsClearsSelection(t *testing.T) {
	m := newTestModel(t)
	m.AddAsset(constantAsset("a", 2, 0.1))
	track := m.Tracks()[0].ID
	m.AddClipToTrack(track, "a", 0)
	m.AddClipToTrack(track, "a", 5)
	first, second := m.Clips()[0].ID, m.Clips()[1].ID
	m.SetSelection([]string{first, second})

	m.DeleteClips([]string{first})
	if len(m.Clips()) != 1 || m.Clips()[0].ID != second {
		t.Fatalf("expected only the second clip to remain")
	}
	if len(m.Selection()) != 0 {
		t.Errorf("expected selection cleared after delete, got %v", m.Selection())
	}
}

func TestDuplicateClips(t *testing.T) {
	m := newTestModel(t)
	m.AddAsset(constantAsset("a", 5, 0.1))
	m.AddClipToTrack(m.Tracks()[0].ID, "a", 2)
	orig := m.Clips()[0]

	m.DuplicateClips([]string{orig.ID})
	if len(m.Clips()) != 2 {
		t.Fatalf("expected 2 clips after duplicate, got %v", len(m.Clips()))
	}
	dup := m.Clips()[1]
	if dup.ID == orig.ID {
		t.Errorf("duplicate must get a fresh id")
	}
	if dup.StartTime != orig.EndTime() || dup.Duration != orig.Duration {
		t.Errorf("expected duplicate right after the original, got %+v", dup)
	}
	if !reflect.DeepEqual(m.Selection(), []string{dup.ID}) {
		t.Errorf("expected the duplicate selected, got %v", m.Selection())
	}
}

func TestMoveClipsClampsToZero(t *testing.T) {
	m := newTestModel(t)
	m.AddAsset(constantAsset("a", 5, 0.1))
	m.AddClipToTrack(m.Tracks()[0].ID, "a", 2)
	id := m.Clips()[0].ID

	m.MoveClips([]timeline.ClipMove{{ID: id, StartTime: -3, TrackID: m.Tracks()[1].ID}})
	if got := m.Clips()[0]; got.StartTime != 0 || got.TrackID != m.Tracks()[1].ID {
		t.Errorf("expected clip clamped to 0 on track 2, got %+v", got)
	}
}

func TestUndoRedo(t *testing.T) {
	m := newTestModel(t)
	m.AddAsset(constantAsset("a", 5, 0.1))
	track := m.Tracks()[0].ID

	m.AddClipToTrack(track, "a", 0)
	afterFirst := append([]editor.Clip(nil), m.Clips()...)
	m.AddClipToTrack(track, "a", 10)
	afterSecond := append([]editor.Clip(nil), m.Clips()...)

	if !m.CanUndo() {
		t.Fatalf("expected undo available")
	}
	m.Undo()
	if !reflect.DeepEqual(m.Clips(), afterFirst) {
		t.Errorf("undo did not restore the previous clip list")
	}
	m.Redo()
	if !reflect.DeepEqual(m.Clips(), afterSecond) {
		t.Errorf("redo did not restore the undone clip list")
	}
	m.Undo()
	m.Undo()
	if len(m.Clips()) != 0 {
		t.Errorf("expected empty timeline after undoing everything")
	}
	if m.CanUndo() {
		t.Errorf("expected no more undo steps")
	}
}

func TestNewEditClearsRedo(t *testing.T) {
	m := newTestModel(t)
	m.AddAsset(constantAsset("a", 5, 0.1))
	track := m.Tracks()[0].ID

	m.AddClipToTrack(track, "a", 0)
	m.Undo()
	if !m.CanRedo() {
		t.Fatalf("expected redo available after undo")
	}
	m.AddClipToTrack(track, "a", 3)
	if m.CanRedo() {
		t.Errorf("expected a new edit to clear the redo stack")
	}
}

func TestHistoryCap(t *testing.T) {
	m := newTestModel(t)
	m.AddAsset(constantAsset("a", 5, 0.1))
	m.AddClipToTrack(m.Tracks()[0].ID, "a", 0)
	id := m.Clips()[0].ID

	for i := 0; i < 80; i++ {
		m.SetClipVolume(id, float64(i)/100)
	}
	undos := 0
	for m.CanUndo() {
		m.Undo()
		undos++
	}
	if undos != 50 {
		t.Errorf("expected history capped at 50 steps, got %v", undos)
	}
}

func TestTrackToggles(t *testing.T) {
	m := newTestModel(t)
	id := m.Tracks()[0].ID
	m.ToggleTrackMute(id)
	if !m.Tracks()[0].Muted {
		t.Errorf("expected track muted")
	}
	m.ToggleTrackSolo(id)
	if !m.Tracks()[0].Solo {
		t.Errorf("expected track soloed")
	}
	m.SetTrackVolume(id, 0.25)
	if m.Tracks()[0].Volume != 0.25 {
		t.Errorf("expected track volume 0.25, got %v", m.Tracks()[0].Volume)
	}
	if m.CanUndo() {
		t.Errorf("track state changes must not enter the clip history")
	}
}

func TestTransport(t *testing.T) {
	m := newTestModel(t)
	m.SeekTo(12.5)
	if m.CurrentTime() != 12.5 {
		t.Errorf("expected transport at 12.5, got %v", m.CurrentTime())
	}
	m.SkipTime(-20)
	if m.CurrentTime() != 0 {
		t.Errorf("expected transport clamped to 0, got %v", m.CurrentTime())
	}
	m.TogglePlayback()
	if !m.IsPlaying() {
		t.Errorf("expected playback started")
	}
	m.TogglePlayback()
	if m.IsPlaying() {
		t.Errorf("expected playback paused")
	}
}

func TestExportEmptyTimeline(t *testing.T) {
	m := newTestModel(t)
	if _, err := m.ExportProject("wav"); !errors.Is(err, timeline.ErrNothingToExport) {
		t.Fatalf("expected ErrNothingToExport, got %v", err)
	}
}

func TestExportWav(t *testing.T) {
	m := newTestModel(t)
	m.AddAsset(constantAsset("a", 1, 0.25))
	m.AddClipToTrack(m.Tracks()[0].ID, "a", 0)

	data, err := m.ExportProject("wav")
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	parsed, err := editor.ParseWav(data)
	if err != nil {
		t.Fatalf("export is not valid wav: %v", err)
	}
	// export length is the last clip end with no trailing buffer
	if len(parsed) != editor.Frames(1) {
		t.Fatalf("expected %v frames, got %v", editor.Frames(1), len(parsed))
	}
	if diff := math.Abs(float64(parsed[100][0]) - 0.25); diff > 1e-3 {
		t.Errorf("expected sample near 0.25, got %v", parsed[100][0])
	}
}

func TestExportRespectsMute(t *testing.T) {
	m := newTestModel(t)
	m.AddAsset(constantAsset("a", 1, 0.25))
	track := m.Tracks()[0].ID
	m.AddClipToTrack(track, "a", 0)
	m.ToggleTrackMute(track)

	data, err := m.ExportProject("wav")
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	parsed, err := editor.ParseWav(data)
	if err != nil {
		t.Fatalf("export is not valid wav: %v", err)
	}
	for i := range parsed {
		if parsed[i][0] != 0 || parsed[i][1] != 0 {
			t.Fatalf("expected silence from a muted track at frame %v", i)
		}
	}
}

type stubDecoder struct{ asset *editor.Asset }

func (d stubDecoder) Decode(name, mime string, data []byte) (*editor.Asset, error) {
	return d.asset, nil
}

func TestImportAsset(t *testing.T) {
	a := constantAsset("a", 2, 0.1)
	m := timeline.NewModel(timeline.NewBroker(), zap.NewNop(), stubDecoder{asset: a}, nil)
	got, err := m.ImportAsset("a.wav", "audio/wav", nil)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if got.ID != "a" || m.Asset("a") == nil {
		t.Fatalf("expected the asset registered with the session")
	}
}
