package editor

import (
	"math"
)

type (
	// AudioBuffer is a buffer of stereo audio, each element being one frame:
	// left and right channel samples as float32. The whole engine runs at a
	// fixed SampleRate; buffers never carry their own rate.
	AudioBuffer [][2]float32

	// Asset is an imported piece of media: its decoded audio samples plus the
	// precomputed waveform summary used for display. Assets are immutable once
	// created and their Buffer is shared by reference between every clip that
	// uses them, so nothing may write to it.
	Asset struct {
		ID       string
		Name     string
		Kind     AssetKind
		Buffer   AudioBuffer
		Duration float64   // seconds
		Waveform []float32 // normalized peak summary, values in [0,1]
	}

	AssetKind int

	// Track is one horizontal lane of the timeline. The ordering of tracks in
	// the model is significant: it defines the vertical position of the lane
	// and the track deltas during multi-track drags.
	Track struct {
		ID     string
		Name   string
		Volume float64
		Muted  bool
		Solo   bool
	}

	// Clip is a placed, time-bounded reference to a slice of an Asset on a
	// specific track. StartTime is timeline-global; Offset is how far into the
	// source asset the clip begins. Offset+Duration should not exceed the
	// asset duration; playback and rendering clamp if it does.
	Clip struct {
		ID        string
		TrackID   string
		AssetID   string
		StartTime float64 // seconds, >= 0
		Duration  float64 // seconds, > 0
		Offset    float64 // seconds into the source asset, >= 0
		Volume    float64
		Waveform  []float32
	}
)

const (
	KindAudio AssetKind = iota
	KindVideo
)

// SampleRate is the fixed engine sample rate in Hz. All decoded assets are
// converted to this rate on import.
const SampleRate = 44100

// NumChannels is the fixed channel count of the engine. Everything is stereo.
const NumChannels = 2

func (k AssetKind) String() string {
	switch k {
	case KindAudio:
		return "audio"
	case KindVideo:
		return "video"
	}
	return "unknown"
}

// EndTime returns the timeline-global time at which the clip stops playing.
func (c *Clip) EndTime() float64 {
	return c.StartTime + c.Duration
}

// Copy returns a copy of the clip. The waveform summary is immutable once
// computed, so the copy shares it by reference, the same way clips share
// their asset buffers.
func (c *Clip) Copy() Clip {
	ret := *c
	return ret
}

// CopyClips returns a copy of a clip list, used for history snapshots.
func CopyClips(clips []Clip) []Clip {
	ret := make([]Clip, len(clips))
	for i := range clips {
		ret[i] = clips[i].Copy()
	}
	return ret
}

// Frames converts seconds to a frame count, rounding to nearest.
func Frames(seconds float64) int {
	return int(math.Round(seconds * SampleRate))
}

// Seconds converts a frame count to seconds.
func Seconds(frames int) float64 {
	return float64(frames) / SampleRate
}
