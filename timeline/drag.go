package timeline

import "math"

// Layout describes the pixel geometry of the clip lanes, so drag gestures
// can be resolved from raw pointer coordinates. The frontend reports its
// actual geometry through Model.SetLayout.
type Layout struct {
	LaneLeft    float64 // x of timeline origin (t = 0) in pixels
	LaneTop     float64 // y of the first track lane in pixels
	TrackHeight float64 // height of one track lane in pixels
}

var defaultLayout = Layout{LaneLeft: 200, LaneTop: 0, TrackHeight: 96}

// snapThresholdPx is the snap capture radius in screen pixels. Dividing by
// the zoom converts it to seconds, so the felt radius is zoom independent.
const snapThresholdPx = 15

type dragState struct {
	clipIDs   []string           // all clips moving with the gesture
	primary   string             // the clip under the pointer
	grabPx    float64            // pointer x offset from the primary clip's left edge
	origStart map[string]float64 // start times at gesture begin
	origTrack map[string]int     // track indices at gesture begin
}

// BeginDrag starts a drag gesture on the given clip. If the clip is not part
// of the current selection, the selection collapses to just that clip; the
// whole selection then moves rigidly with the pointer. History is pushed once
// here, so the entire gesture undoes as a single step.
func (m *Model) BeginDrag(clipID string, px, py float64) {
	idx := m.clipIndex(clipID)
	if idx < 0 {
		return
	}
	selected := false
	for _, id := range m.selection {
		if id == clipID {
			selected = true
			break
		}
	}
	if !selected {
		m.selection = []string{clipID}
	}
	m.PushHistory()
	d := &dragState{
		primary:   clipID,
		grabPx:    px - (m.layout.LaneLeft + m.clips[idx].StartTime*m.zoom),
		origStart: make(map[string]float64),
		origTrack: make(map[string]int),
	}
	for _, id := range m.selection {
		i := m.clipIndex(id)
		if i < 0 {
			continue
		}
		d.clipIDs = append(d.clipIDs, id)
		d.origStart[id] = m.clips[i].StartTime
		d.origTrack[id] = m.trackIndex(m.clips[i].TrackID)
	}
	m.drag = d
}

// Drag updates the in-progress gesture to the given pointer position. The
// clips follow the pointer live; each update is a plain move with no extra
// history entries.
func (m *Model) Drag(px, py float64) {
	if m.drag == nil {
		return
	}
	m.applyDrag(px, py)
}

// EndDrag finishes the gesture at the given pointer position.
func (m *Model) EndDrag(px, py float64) {
	if m.drag == nil {
		return
	}
	m.applyDrag(px, py)
	m.drag = nil
}

// applyDrag resolves pointer coordinates into a batch clip move. The pointer
// y picks the target track; outside the lanes the gesture snaps everything
// back to where it started. The primary clip's placement is snapped, then the
// same time and track delta is applied to the whole group.
func (m *Model) applyDrag(px, py float64) {
	d := m.drag
	trackIdx := -1
	if m.layout.TrackHeight > 0 {
		trackIdx = int(math.Floor((py - m.layout.LaneTop) / m.layout.TrackHeight))
	}
	if trackIdx < 0 || trackIdx >= len(m.tracks) {
		m.restoreDragOrigins()
		return
	}

	primaryIdx := m.clipIndex(d.primary)
	if primaryIdx < 0 {
		m.restoreDragOrigins()
		return
	}
	newStart := (px - d.grabPx - m.layout.LaneLeft) / m.zoom
	if newStart < 0 {
		newStart = 0
	}
	newStart = m.snapStart(newStart, m.clips[primaryIdx].Duration, d)

	timeDelta := newStart - d.origStart[d.primary]
	trackDelta := trackIdx - d.origTrack[d.primary]
	updates := make([]ClipMove, 0, len(d.clipIDs))
	for _, id := range d.clipIDs {
		u := ClipMove{ID: id, StartTime: d.origStart[id] + timeDelta}
		ti := d.origTrack[id] + trackDelta
		if ti < 0 || ti >= len(m.tracks) {
			// an earlier pointer position may have already moved the clip to
			// another lane, so fall back to the track it started the gesture
			// on, not the one it currently sits on
			ti = d.origTrack[id]
		}
		if ti >= 0 && ti < len(m.tracks) {
			u.TrackID = m.tracks[ti].ID
		}
		updates = append(updates, u)
	}
	m.MoveClips(updates)
}

func (m *Model) restoreDragOrigins() {
	d := m.drag
	updates := make([]ClipMove, 0, len(d.clipIDs))
	for _, id := range d.clipIDs {
		u := ClipMove{ID: id, StartTime: d.origStart[id]}
		if ti := d.origTrack[id]; ti >= 0 && ti < len(m.tracks) {
			u.TrackID = m.tracks[ti].ID
		}
		updates = append(updates, u)
	}
	m.MoveClips(updates)
}

// snapCandidate is one position the dragged clip could snap to. When several
// candidates are equally close the winner is picked deterministically: grid
// lines beat clip edges, then the lower clip id, then a start edge beats an
// end edge.
type snapCandidate struct {
	start     float64 // snapped start time of the dragged clip
	dist      float64
	grid      bool
	clipID    string
	startEdge bool
}

func (c snapCandidate) betterThan(o snapCandidate) bool {
	if c.dist != o.dist {
		return c.dist < o.dist
	}
	if c.grid != o.grid {
		return c.grid
	}
	if c.clipID != o.clipID {
		return c.clipID < o.clipID
	}
	return c.startEdge && !o.startEdge
}

// snapStart snaps the dragged clip so that its start lands on the nearest
// grid line, or either of its edges lands on a stationary clip edge, within
// the capture radius. Clips moving with the gesture do not attract it.
func (m *Model) snapStart(start, duration float64, d *dragState) float64 {
	if !m.snapEnabled || m.zoom <= 0 {
		return start
	}
	threshold := snapThresholdPx / m.zoom
	end := start + duration

	var best snapCandidate
	found := false
	consider := func(c snapCandidate) {
		if c.dist <= threshold && c.start >= 0 && (!found || c.betterThan(best)) {
			best, found = c, true
		}
	}

	if m.gridSize > 0 {
		gs := math.Round(start/m.gridSize) * m.gridSize
		consider(snapCandidate{start: gs, dist: math.Abs(start - gs), grid: true, startEdge: true})
	}
	for i := range m.clips {
		c := &m.clips[i]
		if _, dragging := d.origStart[c.ID]; dragging {
			continue
		}
		edges := [2]struct {
			t         float64
			startEdge bool
		}{{c.StartTime, true}, {c.EndTime(), false}}
		for _, e := range edges {
			consider(snapCandidate{start: e.t, dist: math.Abs(start - e.t), clipID: c.ID, startEdge: e.startEdge})
			consider(snapCandidate{start: e.t - duration, dist: math.Abs(end - e.t), clipID: c.ID, startEdge: e.startEdge})
		}
	}
	if found {
		return best.start
	}
	return start
}
