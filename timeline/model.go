package timeline

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	editor "github.com/dev-yashmathur/audio-editor"
)

type (
	// Model is the authoritative state of the editing session: tracks, clips,
	// assets, selection, transport and history. It is owned by the control
	// goroutine; every mutation happens through its methods in response to
	// discrete events, so there is no locking. The player only ever sees
	// copies of the clip state through broker messages.
	Model struct {
		tracks    []editor.Track
		clips     []editor.Clip
		assets    map[string]*editor.Asset
		selection []string

		past   [][]editor.Clip
		future [][]editor.Clip

		currentTime float64
		isPlaying   bool
		duration    float64
		zoom        float64 // pixels per second, view only
		snapEnabled bool
		gridSize    float64 // seconds

		layout        Layout
		drag          *dragState
		lastScrubSync time.Time

		decoder Decoder
		encoder Encoder
		broker  *Broker
		logger  *zap.Logger
	}

	// Decoder is the import boundary: given decodable media bytes, produce an
	// Asset. Implemented by the asset package.
	Decoder interface {
		Decode(name, mime string, data []byte) (*editor.Asset, error)
	}

	// Encoder is the export boundary collaborator that turns canonical WAV
	// bytes into another format. Implemented by the encode package.
	Encoder interface {
		Encode(wav []byte, format string) ([]byte, error)
	}
)

const (
	// maxHistory caps the undo side of the history stack.
	maxHistory = 50

	// minDuration is the minimum visible project length in seconds, and
	// durationTail the trailing buffer added after the last clip.
	minDuration  = 60
	durationTail = 30

	defaultZoom     = 50
	defaultGridSize = 1.0

	// scrubSyncInterval bounds how often a scrub gesture restarts playback.
	scrubSyncInterval = 100 * time.Millisecond
)

// ErrNothingToExport is returned by ExportProject when the timeline has no
// clips; no rendering work is done in that case.
var ErrNothingToExport = errors.New("nothing to export")

func NewModel(broker *Broker, logger *zap.Logger, decoder Decoder, encoder Encoder) *Model {
	m := &Model{
		assets:      make(map[string]*editor.Asset),
		duration:    minDuration,
		zoom:        defaultZoom,
		snapEnabled: true,
		gridSize:    defaultGridSize,
		layout:      defaultLayout,
		decoder:     decoder,
		encoder:     encoder,
		broker:      broker,
		logger:      logger,
	}
	for i := 0; i < 3; i++ {
		m.appendTrack()
	}
	return m
}

// Tracks returns the ordered track list. The returned slice is owned by the
// model and must not be mutated by the caller.
func (m *Model) Tracks() []editor.Track { return m.tracks }

// Clips returns the live clip list. The returned slice is owned by the model
// and must not be mutated by the caller.
func (m *Model) Clips() []editor.Clip { return m.clips }

func (m *Model) Selection() []string  { return m.selection }
func (m *Model) CurrentTime() float64 { return m.currentTime }
func (m *Model) IsPlaying() bool      { return m.isPlaying }
func (m *Model) Duration() float64    { return m.duration }
func (m *Model) Zoom() float64        { return m.zoom }
func (m *Model) SnapEnabled() bool    { return m.snapEnabled }
func (m *Model) GridSize() float64    { return m.gridSize }

// Asset returns the asset with the given id, or nil.
func (m *Model) Asset(id string) *editor.Asset { return m.assets[id] }

func (m *Model) SetZoom(zoom float64) {
	if zoom > 0 {
		m.zoom = zoom
	}
}

func (m *Model) ToggleSnap()               { m.snapEnabled = !m.snapEnabled }
func (m *Model) SetGridSize(size float64)  { m.gridSize = size }
func (m *Model) SetLayout(l Layout)        { m.layout = l }
func (m *Model) SetSelection(ids []string) { m.selection = append(m.selection[:0:0], ids...) }

// ProcessMsg handles one message from the player. Transport position follows
// the audio clock while playing; stale position updates after a pause are
// dropped.
func (m *Model) ProcessMsg(msg MsgToModel) {
	if msg.HasPosition && m.isPlaying {
		m.currentTime = msg.Position
	}
	if done, ok := msg.Data.(clipDoneMsg); ok {
		m.logger.Debug("clip finished", zap.String("clip", done.ClipID))
	}
}

// SetIsPlaying starts or pauses playback. Starting schedules the current
// effective clip set from the current transport position; any prior session
// is torn down by the player before the new one starts.
func (m *Model) SetIsPlaying(playing bool) {
	m.isPlaying = playing
	if playing {
		TrySend(m.broker.ToPlayer, any(playMsg{Clips: m.effectiveClips(), Pos: m.currentTime}))
	} else {
		TrySend(m.broker.ToPlayer, any(stopMsg{}))
	}
}

func (m *Model) TogglePlayback() { m.SetIsPlaying(!m.isPlaying) }

// SeekTo moves the transport to an absolute position, restarting playback
// from there if the transport is running.
func (m *Model) SeekTo(t float64) {
	m.currentTime = max(0, t)
	m.refreshPlayback()
}

// SkipTime moves the transport by a relative amount of seconds.
func (m *Model) SkipTime(dt float64) {
	m.SeekTo(m.currentTime + dt)
}

// Scrub moves the transport while a ruler drag is in progress. Re-syncing the
// player is throttled so playback is not restarted on every pointer move;
// EndScrub guarantees a final re-sync on release.
func (m *Model) Scrub(t float64) {
	m.currentTime = max(0, t)
	if m.isPlaying && time.Since(m.lastScrubSync) >= scrubSyncInterval {
		m.lastScrubSync = time.Now()
		m.refreshPlayback()
	}
}

func (m *Model) EndScrub() {
	m.lastScrubSync = time.Time{}
	m.refreshPlayback()
}

// ImportAsset decodes media bytes into an Asset and registers it with the
// session. This is the only editing-surface operation that reports failures
// to the caller; decode errors propagate.
func (m *Model) ImportAsset(name, mime string, data []byte) (*editor.Asset, error) {
	asset, err := m.decoder.Decode(name, mime, data)
	if err != nil {
		return nil, fmt.Errorf("import %v: %w", name, err)
	}
	m.addAsset(asset)
	return asset, nil
}

// AddAsset registers an already decoded asset with the session and hands its
// buffer to the player.
func (m *Model) AddAsset(asset *editor.Asset) {
	m.addAsset(asset)
}

func (m *Model) addAsset(asset *editor.Asset) {
	m.assets[asset.ID] = asset
	TrySend(m.broker.ToPlayer, any(bufferMsg{AssetID: asset.ID, Buffer: asset.Buffer}))
	m.logger.Info("asset imported",
		zap.String("asset", asset.ID),
		zap.String("name", asset.Name),
		zap.Float64("duration", asset.Duration))
}

// ExportProject renders the arrangement to the canonical WAV byte layout and,
// for any other requested format, passes the WAV bytes to the encoder
// collaborator. Exporting an empty timeline fails fast without rendering.
func (m *Model) ExportProject(format string) ([]byte, error) {
	if len(m.clips) == 0 {
		return nil, ErrNothingToExport
	}
	exportDuration := 0.0
	for i := range m.clips {
		exportDuration = max(exportDuration, m.clips[i].EndTime())
	}
	for i := range m.clips {
		if _, ok := m.assets[m.clips[i].AssetID]; !ok {
			m.logger.Warn("clip excluded from export, asset not loaded",
				zap.String("clip", m.clips[i].ID), zap.String("asset", m.clips[i].AssetID))
		}
	}
	buffers := make(map[string]editor.AudioBuffer, len(m.assets))
	for id, a := range m.assets {
		buffers[id] = a.Buffer
	}
	mixed, err := Render(m.effectiveClips(), buffers, exportDuration)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	wav := editor.Wav(mixed)
	if format == "" || format == "wav" {
		return wav, nil
	}
	out, err := m.encoder.Encode(wav, format)
	if err != nil {
		return nil, fmt.Errorf("encode to %v: %w", format, err)
	}
	return out, nil
}

func (m *Model) effectiveClips() []editor.EffectiveClip {
	return editor.EffectiveClips(m.clips, m.tracks)
}

// refreshPlayback re-schedules the player with the current effective clip set
// so audio stays in sync with edits made while the transport is running.
func (m *Model) refreshPlayback() {
	if m.isPlaying {
		TrySend(m.broker.ToPlayer, any(playMsg{Clips: m.effectiveClips(), Pos: m.currentTime}))
	}
}

// recalcDuration recomputes the visible project length: a fixed minimum, or
// the last clip end plus a trailing buffer.
func (m *Model) recalcDuration() {
	maxEnd := 0.0
	for i := range m.clips {
		maxEnd = max(maxEnd, m.clips[i].EndTime())
	}
	if len(m.clips) == 0 {
		m.duration = minDuration
		return
	}
	m.duration = max(minDuration, maxEnd+durationTail)
}

func (m *Model) appendTrack() {
	m.tracks = append(m.tracks, editor.Track{
		ID:     uuid.NewString(),
		Name:   fmt.Sprintf("Audio %d", len(m.tracks)+1),
		Volume: 1.0,
	})
}
