package editor

type (
	// AudioContext represents the audio playback device of the host. Play
	// starts pulling audio from the callback; the callback fills the buffer it
	// is given and is called from the audio goroutine until the returned
	// CloserWaiter is closed.
	AudioContext interface {
		Play(callback func(buffer AudioBuffer) error) CloserWaiter
		Close() error
	}

	// CloserWaiter is something that can be closed and/or waited until
	// closing is complete.
	CloserWaiter interface {
		Close() error
		Wait()
	}
)
