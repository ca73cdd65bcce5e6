package timeline

import (
	editor "github.com/dev-yashmathur/audio-editor"
)

type (
	// Broker is the centralized message broker between the model and the
	// player. The model runs on the control goroutine and owns all editing
	// state; the player runs on the audio goroutine. They never share mutable
	// state directly, only messages through the two channels here. Sends use
	// TrySend so neither side can block the other: a dropped position update
	// is replaced by the next one, and control messages are only dropped if a
	// channel backs up by a thousand messages, at which point the session has
	// bigger problems.
	Broker struct {
		ToModel  chan MsgToModel
		ToPlayer chan any
	}

	// MsgToModel is a message sent to the model. The player posts its
	// transport position after every processed buffer; infrequent events ride
	// in Data as boxed pointers or small structs.
	MsgToModel struct {
		HasPosition bool
		Position    float64 // transport position in seconds

		Data any
	}

	// playMsg (re)starts playback of the given resolved clips from Pos
	// seconds. Any previously scheduled clips are torn down first.
	playMsg struct {
		Clips []editor.EffectiveClip
		Pos   float64
	}

	// stopMsg stops playback and drops all scheduled clips. Stopping an
	// already stopped player is a no-op.
	stopMsg struct{}

	// volumeMsg ramps the gain of one live clip toward Volume.
	volumeMsg struct {
		ClipID string
		Volume float64
	}

	// bufferMsg hands the player the decoded samples of an imported asset.
	// The buffer is immutable and shared by reference.
	bufferMsg struct {
		AssetID string
		Buffer  editor.AudioBuffer
	}

	// clipDoneMsg is posted to the model when a scheduled clip finishes
	// playing naturally and removes itself from the player's registry.
	clipDoneMsg struct {
		ClipID string
	}
)

func NewBroker() *Broker {
	return &Broker{
		ToModel:  make(chan MsgToModel, 1024),
		ToPlayer: make(chan any, 1024),
	}
}

// TrySend is a helper to do a non-blocking send to a channel, returning false
// if the channel is full.
func TrySend[T any](c chan<- T, v T) bool {
	select {
	case c <- v:
	default:
		return false
	}
	return true
}
