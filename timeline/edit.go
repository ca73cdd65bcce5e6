package timeline

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	editor "github.com/dev-yashmathur/audio-editor"
)

// ClipMove is one entry of a batch move: the clip's new start time and the
// track it lands on. An empty TrackID keeps the clip on its current track.
type ClipMove struct {
	ID        string
	StartTime float64
	TrackID   string
}

// AddClipToTrack creates a clip spanning the asset's full duration at
// startTime on the given track. Unknown assets are a no-op.
func (m *Model) AddClipToTrack(trackID, assetID string, startTime float64) {
	asset, ok := m.assets[assetID]
	if !ok {
		m.logger.Warn("add clip skipped, unknown asset", zap.String("asset", assetID))
		return
	}
	m.PushHistory()
	m.clips = append(m.clips, editor.Clip{
		ID:        uuid.NewString(),
		TrackID:   trackID,
		AssetID:   assetID,
		StartTime: max(0, startTime),
		Duration:  asset.Duration,
		Offset:    0,
		Volume:    1.0,
		Waveform:  asset.Waveform,
	})
	m.recalcDuration()
	m.refreshPlayback()
}

// SplitClip splits the first selected clip at splitTime. The left part keeps
// the original start and offset; the right part starts at the split point and
// reads the source from where the left part ends. A split point outside the
// clip's interior is a no-op. The left part becomes the sole selection.
func (m *Model) SplitClip(splitTime float64) {
	if len(m.selection) == 0 {
		return
	}
	idx := m.clipIndex(m.selection[0])
	if idx < 0 {
		return
	}
	clip := m.clips[idx]
	if splitTime <= clip.StartTime || splitTime >= clip.EndTime() {
		m.logger.Warn("split skipped, time outside clip",
			zap.String("clip", clip.ID), zap.Float64("time", splitTime))
		return
	}
	m.PushHistory()
	leftDuration := splitTime - clip.StartTime
	left := clip.Copy()
	left.ID = uuid.NewString()
	left.Duration = leftDuration
	right := clip.Copy()
	right.ID = uuid.NewString()
	right.StartTime = splitTime
	right.Offset = clip.Offset + leftDuration
	right.Duration = clip.Duration - leftDuration
	m.clips = append(append(m.clips[:idx:idx], m.clips[idx+1:]...), left, right)
	m.selection = []string{left.ID}
	m.recalcDuration()
	m.refreshPlayback()
}

// DeleteClips removes all clips whose id is in ids and clears the selection
// unconditionally.
func (m *Model) DeleteClips(ids []string) {
	m.PushHistory()
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := m.clips[:0]
	for _, c := range m.clips {
		if !drop[c.ID] {
			kept = append(kept, c)
		}
	}
	m.clips = kept
	m.selection = nil
	m.recalcDuration()
	m.refreshPlayback()
}

// DuplicateClips copies each clip in ids to a fresh clip placed immediately
// after the original. The new clips become the selection.
func (m *Model) DuplicateClips(ids []string) {
	m.PushHistory()
	var newIDs []string
	for _, id := range ids {
		idx := m.clipIndex(id)
		if idx < 0 {
			continue
		}
		dup := m.clips[idx].Copy()
		dup.ID = uuid.NewString()
		dup.StartTime = m.clips[idx].EndTime()
		m.clips = append(m.clips, dup)
		newIDs = append(newIDs, dup.ID)
	}
	m.selection = newIDs
	m.recalcDuration()
	m.refreshPlayback()
}

// MoveClips applies a batch of clip placements as a pure data update,
// clamping start times to zero. It does not push history: drag gestures push
// once when they begin, not per pointer frame.
func (m *Model) MoveClips(updates []ClipMove) {
	for _, u := range updates {
		idx := m.clipIndex(u.ID)
		if idx < 0 {
			continue
		}
		m.clips[idx].StartTime = max(0, u.StartTime)
		if u.TrackID != "" {
			m.clips[idx].TrackID = u.TrackID
		}
	}
	m.recalcDuration()
	m.refreshPlayback()
}

// SetClipVolume changes one clip's own volume. If the clip is live, its gain
// ramps to the new effective value instead of stepping.
func (m *Model) SetClipVolume(id string, volume float64) {
	idx := m.clipIndex(id)
	if idx < 0 {
		return
	}
	m.PushHistory()
	m.clips[idx].Volume = volume
	m.pushLiveVolumes(func(c *editor.EffectiveClip) bool { return c.ID == id })
}

// AddTrack appends a new track below the existing ones.
func (m *Model) AddTrack() {
	m.appendTrack()
}

// SetTrackVolume sets a track's volume and pushes updated gains for its live
// clips. Track state is not versioned by undo/redo.
func (m *Model) SetTrackVolume(trackID string, volume float64) {
	idx := m.trackIndex(trackID)
	if idx < 0 {
		return
	}
	m.tracks[idx].Volume = volume
	m.pushLiveVolumes(func(c *editor.EffectiveClip) bool { return c.TrackID == trackID })
}

// ToggleTrackMute flips a track's mute. All live gains are updated, since the
// solo/mute interaction can affect other tracks too.
func (m *Model) ToggleTrackMute(trackID string) {
	idx := m.trackIndex(trackID)
	if idx < 0 {
		return
	}
	m.tracks[idx].Muted = !m.tracks[idx].Muted
	m.pushLiveVolumes(nil)
}

// ToggleTrackSolo flips a track's solo, which affects the audibility of every
// track, so all live gains are updated.
func (m *Model) ToggleTrackSolo(trackID string) {
	idx := m.trackIndex(trackID)
	if idx < 0 {
		return
	}
	m.tracks[idx].Solo = !m.tracks[idx].Solo
	m.pushLiveVolumes(nil)
}

// pushLiveVolumes recomputes effective gains and sends ramped updates to the
// player for the clips matching the filter (nil matches all). Gain changes do
// not need a reschedule; the player nodes keep playing.
func (m *Model) pushLiveVolumes(match func(*editor.EffectiveClip) bool) {
	if !m.isPlaying {
		return
	}
	for _, ec := range m.effectiveClips() {
		if match == nil || match(&ec) {
			TrySend(m.broker.ToPlayer, any(volumeMsg{ClipID: ec.ID, Volume: ec.EffectiveVolume}))
		}
	}
}

func (m *Model) clipIndex(id string) int {
	for i := range m.clips {
		if m.clips[i].ID == id {
			return i
		}
	}
	return -1
}

func (m *Model) trackIndex(id string) int {
	for i := range m.tracks {
		if m.tracks[i].ID == id {
			return i
		}
	}
	return -1
}
