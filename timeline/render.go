package timeline

import (
	"errors"

	editor "github.com/dev-yashmathur/audio-editor"
)

// Render mixes the given resolved clips into a single buffer of totalDuration
// seconds, using the same time arithmetic as live playback but against an
// absolute zero instead of a live clock. Clips are summed independently, so
// the result does not depend on the order they are processed in. Clips whose
// asset is not in buffers are skipped; reads past the end of a source buffer
// are clamped.
func Render(clips []editor.EffectiveClip, buffers map[string]editor.AudioBuffer, totalDuration float64) (editor.AudioBuffer, error) {
	if totalDuration <= 0 {
		return nil, errors.New("render duration must be positive")
	}
	out := make(editor.AudioBuffer, editor.Frames(totalDuration))
	for _, c := range clips {
		src, ok := buffers[c.AssetID]
		if !ok {
			continue
		}
		start := editor.Frames(c.StartTime)
		srcFrame := editor.Frames(c.Offset)
		length := editor.Frames(c.Duration)
		if avail := len(src) - srcFrame; length > avail {
			length = avail
		}
		if avail := len(out) - start; length > avail {
			length = avail
		}
		if start < 0 || srcFrame < 0 || length <= 0 {
			continue
		}
		gain := float32(c.EffectiveVolume)
		for i := 0; i < length; i++ {
			s := src[srcFrame+i]
			out[start+i][0] += s[0] * gain
			out[start+i][1] += s[1] * gain
		}
	}
	return out, nil
}
