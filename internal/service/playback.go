package service

import (
	"log/slog"
	"time"

	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/player"
)

// launcher abstracts media player launching (consumer-defined interface)
type launcher interface {
	Launch(mediaPath string, opts player.LaunchOptions) (*player.Process, error)
}

// PlaybackService starts the player and remembers where playback stopped
type PlaybackService struct {
	launcher launcher
	store    domain.Store
	logger   *slog.Logger
}

// NewPlaybackService creates a new playback service. store may be nil.
func NewPlaybackService(launcher launcher, store domain.Store, logger *slog.Logger) *PlaybackService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PlaybackService{
		launcher: launcher,
		store:    store,
		logger:   logger,
	}
}

// ResumeOffset returns the saved position for mediaPath, 0 when none
func (s *PlaybackService) ResumeOffset(mediaPath string) time.Duration {
	if s.store == nil {
		return 0
	}
	second, ok := s.store.GetPosition(mediaPath)
	if !ok || second <= 0 {
		return 0
	}
	return time.Duration(second) * time.Second
}

// Play launches mediaPath from the beginning
func (s *PlaybackService) Play(mediaPath, ipcSocket string) (*player.Process, error) {
	return s.launch(mediaPath, ipcSocket, 0)
}

// Resume launches mediaPath from its saved position
func (s *PlaybackService) Resume(mediaPath, ipcSocket string) (*player.Process, error) {
	return s.launch(mediaPath, ipcSocket, s.ResumeOffset(mediaPath))
}

func (s *PlaybackService) launch(mediaPath, ipcSocket string, offset time.Duration) (*player.Process, error) {
	s.logger.Info("launching playback", "media", mediaPath, "offset", offset)

	proc, err := s.launcher.Launch(mediaPath, player.LaunchOptions{
		StartOffset: offset,
		IPCSocket:   ipcSocket,
	})
	if err != nil {
		s.logger.Error("failed to launch player", "error", err, "media", mediaPath)
		return nil, err
	}
	return proc, nil
}

// SavePosition records the last reported second for mediaPath
func (s *PlaybackService) SavePosition(mediaPath string, second int) {
	if s.store == nil || mediaPath == "" {
		return
	}
	if err := s.store.SavePosition(mediaPath, second); err != nil {
		s.logger.Warn("failed to save position", "media", mediaPath, "second", second, "error", err)
	}
}

// ClearPosition forgets the saved position, e.g. once playback finished
func (s *PlaybackService) ClearPosition(mediaPath string) {
	s.SavePosition(mediaPath, 0)
}
