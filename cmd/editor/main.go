// The editor command line utility arranges media files on a timeline and
// either plays the mix on the default audio device or exports it to a file.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	editor "github.com/dev-yashmathur/audio-editor"
	"github.com/dev-yashmathur/audio-editor/asset"
	"github.com/dev-yashmathur/audio-editor/config"
	"github.com/dev-yashmathur/audio-editor/encode"
	"github.com/dev-yashmathur/audio-editor/logger"
	"github.com/dev-yashmathur/audio-editor/oto"
	"github.com/dev-yashmathur/audio-editor/timeline"
	"github.com/dev-yashmathur/audio-editor/version"
)

var (
	configPath string
	stack      bool
	outPath    string
	format     string
)

var rootCmd = &cobra.Command{
	Use:          "editor",
	Short:        "Multi-track audio timeline engine",
	Version:      version.String(),
	SilenceUsage: true,
}

var playCmd = &cobra.Command{
	Use:   "play [files...]",
	Short: "Arrange the given media files on the timeline and play the mix",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPlay,
}

var exportCmd = &cobra.Command{
	Use:   "export [files...]",
	Short: "Arrange the given media files on the timeline and export the mix",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runExport,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path of an optional YAML config file")
	rootCmd.PersistentFlags().BoolVar(&stack, "stack", false, "place each file on its own track at t=0 instead of head to tail")
	exportCmd.Flags().StringVarP(&outPath, "out", "o", "mix.wav", "output file")
	exportCmd.Flags().StringVar(&format, "format", "", "output format: wav, mp3 or m4a (default: from the output extension)")
	rootCmd.AddCommand(playCmd, exportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

type session struct {
	cfg      config.Config
	logger   *zap.Logger
	broker   *timeline.Broker
	importer *asset.Importer
	model    *timeline.Model
}

func newSession() (*session, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	log, err := logger.New(logger.Config{
		Level:      cfg.LogLevel,
		OutputPath: cfg.LogPath,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     14,
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	broker := timeline.NewBroker()
	importer := asset.NewImporter(cfg.FFmpegPath, log)
	model := timeline.NewModel(broker, log, importer, encode.NewFFmpeg(cfg.FFmpegPath))
	model.SetZoom(cfg.ZoomPxPerSec)
	model.SetGridSize(cfg.GridSize)
	if model.SnapEnabled() != cfg.SnapEnabled {
		model.ToggleSnap()
	}
	return &session{cfg: cfg, logger: log, broker: broker, importer: importer, model: model}, nil
}

// arrange imports the files and places one clip per file: head to tail on the
// first track, or with --stack each on its own track at the timeline origin.
func (s *session) arrange(paths []string) error {
	cursor := 0.0
	for i, path := range paths {
		a, err := s.importer.DecodeFile(path)
		if err != nil {
			return err
		}
		s.model.AddAsset(a)
		if stack {
			for len(s.model.Tracks()) <= i {
				s.model.AddTrack()
			}
			s.model.AddClipToTrack(s.model.Tracks()[i].ID, a.ID, 0)
		} else {
			s.model.AddClipToTrack(s.model.Tracks()[0].ID, a.ID, cursor)
			cursor += a.Duration
		}
	}
	return nil
}

func runPlay(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.logger.Sync()
	if err := s.arrange(args); err != nil {
		return err
	}
	end := 0.0
	for _, c := range s.model.Clips() {
		end = max(end, c.EndTime())
	}

	player := timeline.NewPlayer(s.broker, s.logger)
	audioContext, err := oto.NewContext()
	if err != nil {
		return fmt.Errorf("could not acquire audio device: %w", err)
	}
	defer audioContext.Close()

	s.model.SetIsPlaying(true)
	playWaiter := audioContext.Play(func(buf editor.AudioBuffer) error {
		player.Process(buf)
		return nil
	})
	defer playWaiter.Close()

	for s.model.IsPlaying() && s.model.CurrentTime() < end {
		select {
		case msg := <-s.broker.ToModel:
			s.model.ProcessMsg(msg)
		case <-time.After(50 * time.Millisecond):
		}
	}
	s.model.SetIsPlaying(false)
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.logger.Sync()
	if err := s.arrange(args); err != nil {
		return err
	}

	f := format
	if f == "" {
		f = strings.TrimPrefix(strings.ToLower(filepath.Ext(outPath)), ".")
	}
	data, err := s.model.ExportProject(f)
	if err != nil {
		return err
	}

	// Write through a temp file in the target directory so a partially
	// written export never lands at the final path.
	dir := filepath.Dir(outPath)
	tmp, err := os.CreateTemp(dir, ".export-*")
	if err != nil {
		return fmt.Errorf("could not create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("could not write export: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("could not close export: %w", err)
	}
	if err := os.Rename(tmp.Name(), outPath); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("could not move export into place: %w", err)
	}
	s.logger.Info("export written", zap.String("path", outPath), zap.Int("bytes", len(data)))
	return nil
}
