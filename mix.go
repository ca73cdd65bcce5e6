package editor

type (
	// EffectiveClip is a clip together with its resolved playback gain. It is
	// a derived view: the gain is recomputed from the current track state
	// whenever tracks or clips change and is never stored back on the clip.
	EffectiveClip struct {
		Clip
		EffectiveVolume float64
	}
)

// EffectiveClips resolves the playback gain of every clip under the solo/mute
// rules. If any track is soloed, only clips on soloed tracks are audible and
// mute is not consulted, so a muted+soloed track still plays. With no solo
// active, clips on muted tracks are silent. An audible clip plays at clip
// volume times track volume. A clip whose track cannot be found resolves to
// silence.
func EffectiveClips(clips []Clip, tracks []Track) []EffectiveClip {
	soloActive := false
	for _, t := range tracks {
		if t.Solo {
			soloActive = true
			break
		}
	}
	trackIndex := make(map[string]int, len(tracks))
	for i, t := range tracks {
		trackIndex[t.ID] = i
	}
	ret := make([]EffectiveClip, len(clips))
	for i, c := range clips {
		ret[i] = EffectiveClip{Clip: c}
		j, ok := trackIndex[c.TrackID]
		if !ok {
			continue
		}
		t := tracks[j]
		audible := t.Solo
		if !soloActive {
			audible = !t.Muted
		}
		if audible {
			ret[i].EffectiveVolume = c.Volume * t.Volume
		}
	}
	return ret
}
