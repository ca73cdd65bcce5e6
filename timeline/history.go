package timeline

import (
	editor "github.com/dev-yashmathur/audio-editor"
)

// Only the clip list is versioned: track, asset and transport state are not
// covered by undo/redo. Every mutating editing operation pushes the
// pre-mutation clip list and clears the redo side; undo and redo move
// snapshots between the two stacks and the live clip list.

// PushHistory saves the current clip list as an undo snapshot. It is also
// called directly by drag gestures, which push once when the gesture begins
// rather than on every pointer move.
func (m *Model) PushHistory() {
	m.past = append(m.past, editor.CopyClips(m.clips))
	if len(m.past) > maxHistory {
		m.past = m.past[len(m.past)-maxHistory:]
	}
	m.future = m.future[:0]
}

func (m *Model) CanUndo() bool { return len(m.past) > 0 }
func (m *Model) CanRedo() bool { return len(m.future) > 0 }

func (m *Model) Undo() {
	if !m.CanUndo() {
		return
	}
	m.future = append(m.future, m.clips)
	m.clips = m.past[len(m.past)-1]
	m.past = m.past[:len(m.past)-1]
	m.recalcDuration()
	m.refreshPlayback()
}

func (m *Model) Redo() {
	if !m.CanRedo() {
		return
	}
	m.past = append(m.past, m.clips)
	m.clips = m.future[len(m.future)-1]
	m.future = m.future[:len(m.future)-1]
	m.recalcDuration()
	m.refreshPlayback()
}
