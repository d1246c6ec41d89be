package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/mmcdole/reel/internal/chapters"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/source"
)

// ChapterService loads chapter sets from metadata sources, caching decoded
// records in the store keyed by source path, decode options and
// modification time.
type ChapterService struct {
	store  domain.Store
	opts   source.Options
	logger *slog.Logger
}

// NewChapterService creates a chapter service. store may be nil to disable caching.
func NewChapterService(store domain.Store, opts source.Options, logger *slog.Logger) *ChapterService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChapterService{
		store:  store,
		opts:   opts,
		logger: logger,
	}
}

// Resolve returns chaptersPath if set, otherwise the source discovered next to mediaPath
func (s *ChapterService) Resolve(mediaPath, chaptersPath string) (string, error) {
	if chaptersPath != "" {
		return chaptersPath, nil
	}
	if mediaPath == "" {
		return "", fmt.Errorf("%w: no media or chapters path", domain.ErrUnsupportedSource)
	}
	return source.Discover(mediaPath)
}

// Records returns the decoded records of path, from cache when the source is unchanged
func (s *ChapterService) Records(ctx context.Context, path string) ([]domain.Record, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat chapter source: %w", err)
	}

	variant := s.opts.Fingerprint()
	if s.store != nil {
		if records, ok := s.store.GetRecords(path, variant, info.ModTime()); ok {
			s.logger.Debug("chapter records served from cache", "path", path, "count", len(records))
			return records, nil
		}
	}

	records, err := source.Load(ctx, path, s.opts)
	if err != nil {
		return nil, err
	}

	if s.store != nil {
		if err := s.store.SaveRecords(path, variant, info.ModTime(), records); err != nil {
			s.logger.Warn("failed to cache chapter records", "path", path, "error", err)
		}
	}
	return records, nil
}

// Load builds the chapter set of path. The set is always usable: a source
// that fails to load yields an empty set, and rejected records are left out.
// The returned error describes whatever was dropped.
func (s *ChapterService) Load(ctx context.Context, path string) (*chapters.Set, error) {
	records, err := s.Records(ctx, path)
	if err != nil {
		s.logger.Error("failed to load chapters", "path", path, "error", err)
		empty, _ := chapters.Build(nil)
		return empty, err
	}

	set, buildErr := chapters.Build(records)
	for _, rejected := range recordErrors(buildErr) {
		s.logger.Warn("rejected chapter record",
			"path", path, "index", rejected.Index, "id", rejected.ID, "error", rejected.Err)
	}

	s.logger.Info("loaded chapters", "path", path, "chapters", set.Len(), "rejected", len(recordErrors(buildErr)))
	return set, buildErr
}

// Invalidate drops the cached records for path
func (s *ChapterService) Invalidate(path string) {
	if s.store != nil {
		s.store.InvalidateRecords(path)
	}
}

// ClearCache drops every cached record and position
func (s *ChapterService) ClearCache() {
	if s.store != nil {
		s.store.InvalidateAll()
	}
}

// recordErrors flattens a Build error into its per-record errors
func recordErrors(err error) []*chapters.RecordError {
	if err == nil {
		return nil
	}

	var out []*chapters.RecordError
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			var re *chapters.RecordError
			if errors.As(e, &re) {
				out = append(out, re)
			}
		}
		return out
	}

	var re *chapters.RecordError
	if errors.As(err, &re) {
		out = append(out, re)
	}
	return out
}
