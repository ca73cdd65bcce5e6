// Package oto is the audio device adapter, playing engine buffers through
// the default output device via the ebitengine oto library.
package oto

import (
	"fmt"
	"math"
	"time"

	"github.com/ebitengine/oto/v3"

	editor "github.com/dev-yashmathur/audio-editor"
)

type Context struct {
	context *oto.Context
}

// bufferLength is the number of frames pulled from the callback at a time.
const bufferLength = 2048

// NewContext opens the default audio device at the engine's fixed sample rate
// and channel count, blocking until the device is ready.
func NewContext() (*Context, error) {
	context, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   editor.SampleRate,
		ChannelCount: editor.NumChannels,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return nil, fmt.Errorf("cannot create oto context: %w", err)
	}
	<-ready
	return &Context{context: context}, nil
}

func (c *Context) Close() error { return nil }

// Play starts a player pulling audio from the callback. The callback runs on
// the device goroutine and fills one fixed-size buffer per call.
func (c *Context) Play(callback func(editor.AudioBuffer) error) editor.CloserWaiter {
	s := &source{
		callback: callback,
		buffer:   make(editor.AudioBuffer, bufferLength),
		raw:      make([]byte, 0, bufferLength*4),
		done:     make(chan struct{}),
	}
	p := c.context.NewPlayer(s)
	p.Play()
	return &playback{player: p, source: s}
}

type playback struct {
	player *oto.Player
	source *source
}

func (p *playback) Close() error {
	if err := p.player.Close(); err != nil {
		return fmt.Errorf("cannot close oto player: %w", err)
	}
	return nil
}

// Wait blocks until the callback has reported an error (or io.EOF) and the
// device has drained its buffered audio.
func (p *playback) Wait() {
	<-p.source.done
	for p.player.IsPlaying() {
		time.Sleep(10 * time.Millisecond)
	}
}

// source adapts the pull callback into the io.Reader the oto player consumes,
// converting float frames to 16-bit little-endian samples.
type source struct {
	callback func(editor.AudioBuffer) error
	buffer   editor.AudioBuffer
	raw      []byte // converted bytes not yet handed to the player
	err      error
	done     chan struct{}
}

func (s *source) Read(b []byte) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	total := 0
	for total < len(b) {
		if len(s.raw) == 0 {
			if err := s.callback(s.buffer); err != nil {
				s.err = err
				close(s.done)
				if total > 0 {
					return total, nil
				}
				return 0, err
			}
			s.raw = appendFrames(s.raw[:0], s.buffer)
		}
		n := copy(b[total:], s.raw)
		s.raw = s.raw[n:]
		total += n
	}
	return total, nil
}

// appendFrames converts float frames to clamped 16-bit little-endian bytes.
func appendFrames(dst []byte, buffer editor.AudioBuffer) []byte {
	for _, frame := range buffer {
		for _, v := range frame {
			var s int16
			if v < -1.0 {
				s = -math.MaxInt16
			} else if v > 1.0 {
				s = math.MaxInt16
			} else {
				s = int16(v * math.MaxInt16)
			}
			dst = append(dst, byte(s), byte(s>>8))
		}
	}
	return dst
}
