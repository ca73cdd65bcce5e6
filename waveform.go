package editor

import (
	"github.com/viterin/vek/vek32"
)

// WaveformPoints is the resolution of the waveform summaries computed on
// import.
const WaveformPoints = 1000

// WaveformSummary reduces a decoded buffer to a fixed number of normalized
// peak magnitudes for display. Each point is the mean absolute value of the
// left channel over one block, and the result is scaled so the loudest block
// is 1. A silent or empty buffer yields all zeros.
func WaveformSummary(buf AudioBuffer, points int) []float32 {
	if points <= 0 {
		return nil
	}
	ret := make([]float32, points)
	if len(buf) == 0 {
		return ret
	}
	blockSize := len(buf) / points
	if blockSize < 1 {
		blockSize = 1
	}
	scratch := make([]float32, blockSize)
	for i := 0; i < points; i++ {
		start := i * blockSize
		if start >= len(buf) {
			break
		}
		end := start + blockSize
		if end > len(buf) {
			end = len(buf)
		}
		for j := start; j < end; j++ {
			scratch[j-start] = buf[j][0]
		}
		block := scratch[:end-start]
		vek32.Abs_Inplace(block)
		ret[i] = vek32.Mean(block)
	}
	if peak := vek32.Max(ret); peak > 0 {
		vek32.DivNumber_Inplace(ret, peak)
	}
	return ret
}
