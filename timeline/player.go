package timeline

import (
	"math"

	"go.uber.org/zap"

	editor "github.com/dev-yashmathur/audio-editor"
)

type (
	// Player schedules and mixes the arranged clips into the audio device
	// buffers. It runs on the audio goroutine and is controlled purely by
	// messages from the model through the broker; it holds no authoritative
	// state, only decoded asset buffers (immutable, shared by reference) and
	// a registry of currently scheduled clips which is rebuilt from scratch
	// on every play message.
	Player struct {
		buffers map[string]editor.AudioBuffer // assetID -> decoded samples
		nodes   map[string]*node              // clipID -> scheduled playback
		playing bool
		frame   int64   // frames elapsed since the session started
		pos     float64 // transport seconds at session frame zero

		broker *Broker
		logger *zap.Logger
	}

	// node is one scheduled clip: when it starts relative to the session
	// clock, where in the source it reads from, and for how long it plays.
	// gain ramps toward target so live volume changes do not click.
	node struct {
		src        editor.AudioBuffer
		startFrame int64
		srcFrame   int
		length     int64
		gain       float32
		target     float32
	}
)

// gainRampAlpha is the per-frame smoothing coefficient of the gain ramp,
// equivalent to a time constant of about 10 ms at the engine sample rate.
var gainRampAlpha = float32(1 - math.Exp(-1/(0.010*editor.SampleRate)))

func NewPlayer(broker *Broker, logger *zap.Logger) *Player {
	return &Player{
		buffers: make(map[string]editor.AudioBuffer),
		nodes:   make(map[string]*node),
		broker:  broker,
		logger:  logger,
	}
}

// Process fills one device buffer with the mix of all scheduled clips,
// advancing the session clock. The buffer is always zeroed first, so a
// stopped player produces silence. After each buffer the player posts its
// transport position to the model; the model's transport follows the audio
// clock rather than a display tick.
func (p *Player) Process(buf editor.AudioBuffer) {
	p.processMessages()
	for i := range buf {
		buf[i] = [2]float32{}
	}
	if !p.playing {
		return
	}
	bufEnd := p.frame + int64(len(buf))
	for id, n := range p.nodes {
		lo := n.startFrame
		if lo < p.frame {
			lo = p.frame
		}
		hi := n.startFrame + n.length
		if hi > bufEnd {
			hi = bufEnd
		}
		for f := lo; f < hi; f++ {
			if n.gain != n.target {
				n.gain += (n.target - n.gain) * gainRampAlpha
			}
			s := n.src[n.srcFrame+int(f-n.startFrame)]
			i := int(f - p.frame)
			buf[i][0] += s[0] * n.gain
			buf[i][1] += s[1] * n.gain
		}
		if n.startFrame+n.length <= bufEnd {
			delete(p.nodes, id)
			TrySend(p.broker.ToModel, MsgToModel{Data: clipDoneMsg{ClipID: id}})
		}
	}
	p.frame = bufEnd
	TrySend(p.broker.ToModel, MsgToModel{HasPosition: true, Position: p.pos + editor.Seconds(int(p.frame))})
}

func (p *Player) processMessages() {
	for {
		select {
		case msg := <-p.broker.ToPlayer:
			switch m := msg.(type) {
			case playMsg:
				p.schedule(m.Clips, m.Pos)
			case stopMsg:
				p.stop()
			case volumeMsg:
				if n, ok := p.nodes[m.ClipID]; ok {
					n.target = float32(m.Volume)
				}
			case bufferMsg:
				p.buffers[m.AssetID] = m.Buffer
			}
		default:
			return
		}
	}
}

// schedule tears down any prior session and schedules every clip that has not
// fully elapsed at pos. A clip starting in the future plays whole after a
// delay; a clip the transport is already inside plays its remainder from the
// corresponding point in the source.
func (p *Player) schedule(clips []editor.EffectiveClip, pos float64) {
	p.stop()
	p.playing = true
	p.frame = 0
	p.pos = pos
	for _, c := range clips {
		if c.StartTime+c.Duration <= pos {
			continue
		}
		var delay, offset, dur float64
		if c.StartTime > pos {
			delay = c.StartTime - pos
			offset = c.Offset
			dur = c.Duration
		} else {
			elapsed := pos - c.StartTime
			offset = c.Offset + elapsed
			dur = c.Duration - elapsed
		}
		if dur <= 0 {
			continue
		}
		src, ok := p.buffers[c.AssetID]
		if !ok {
			p.logger.Warn("clip skipped, asset not loaded",
				zap.String("clip", c.ID), zap.String("asset", c.AssetID))
			continue
		}
		srcFrame := editor.Frames(offset)
		length := int64(editor.Frames(dur))
		if avail := int64(len(src) - srcFrame); length > avail {
			length = avail // clamp reads to the source buffer
		}
		if srcFrame < 0 || length <= 0 {
			continue
		}
		gain := float32(c.EffectiveVolume)
		p.nodes[c.ID] = &node{
			src:        src,
			startFrame: int64(editor.Frames(delay)),
			srcFrame:   srcFrame,
			length:     length,
			gain:       gain,
			target:     gain,
		}
	}
}

// stop drops all scheduled clips. Clips that already finished naturally have
// removed themselves, so stopping late or twice is a no-op.
func (p *Player) stop() {
	p.playing = false
	for id := range p.nodes {
		delete(p.nodes, id)
	}
}
