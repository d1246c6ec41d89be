// Package source reads chapter metadata from sidecar files and media
// containers and translates it into domain.Record values.
package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mmcdole/reel/internal/domain"
)

// TitleField selects which cue field titles a text-track chapter
type TitleField string

const (
	TitleFromID   TitleField = "id"
	TitleFromText TitleField = "text"
)

// DefaultContainerID is the element id holding sequence records in HTML pages
const DefaultContainerID = "sequences-data"

// Options tunes how sources are decoded
type Options struct {
	TitleFrom   TitleField // WebVTT only
	ContainerID string     // HTML only
	TrackEnd    float64    // End of the media in seconds, used to close the last cue (0 = unknown)
}

// Fingerprint identifies the decode settings; records cached under one
// fingerprint are not valid under another
func (o Options) Fingerprint() string {
	o = o.withDefaults()
	return fmt.Sprintf("title=%s;container=%s;end=%g", o.TitleFrom, o.ContainerID, o.TrackEnd)
}

func (o Options) withDefaults() Options {
	if o.TitleFrom == "" {
		o.TitleFrom = TitleFromID
	}
	if o.ContainerID == "" {
		o.ContainerID = DefaultContainerID
	}
	return o
}

// Kind identifies a metadata source format
type Kind string

const (
	KindWebVTT Kind = "webvtt"
	KindJSON   Kind = "json"
	KindHTML   Kind = "html"
	KindMedia  Kind = "media"
)

// mediaExtensions lists containers that may carry embedded chapters
var mediaExtensions = map[string]bool{
	".m4b":  true,
	".m4a":  true,
	".mp4":  true,
	".mp3":  true,
	".flac": true,
	".ogg":  true,
	".opus": true,
}

// DetectKind picks a source format from the file extension
func DetectKind(path string) (Kind, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case ext == ".vtt":
		return KindWebVTT, nil
	case ext == ".json":
		return KindJSON, nil
	case ext == ".html" || ext == ".htm":
		return KindHTML, nil
	case mediaExtensions[ext]:
		return KindMedia, nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedSource, ext)
	}
}

// Load reads records from path using the adapter matching its extension
func Load(ctx context.Context, path string, opts Options) ([]domain.Record, error) {
	opts = opts.withDefaults()

	kind, err := DetectKind(path)
	if err != nil {
		return nil, err
	}

	if kind == KindMedia {
		return LoadMedia(ctx, path, opts)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open chapter source: %w", err)
	}
	defer f.Close()

	switch kind {
	case KindWebVTT:
		cues, err := ParseWebVTT(f)
		if err != nil {
			return nil, err
		}
		return CuesToRecords(cues, opts.TrackEnd, opts.TitleFrom), nil
	case KindJSON:
		return DecodeJSON(f)
	default:
		return ParseHTML(f, opts.ContainerID)
	}
}

// Discover finds the chapter source for a media file: a sibling .vtt, then a
// sibling .chapters.json, then the media file itself if it can embed chapters.
func Discover(mediaPath string) (string, error) {
	base := strings.TrimSuffix(mediaPath, filepath.Ext(mediaPath))
	candidates := []string{
		base + ".vtt",
		base + ".chapters.vtt",
		base + ".chapters.json",
	}
	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}

	if mediaExtensions[strings.ToLower(filepath.Ext(mediaPath))] {
		return mediaPath, nil
	}

	return "", fmt.Errorf("%w: no chapter sidecar for %s", domain.ErrUnsupportedSource, filepath.Base(mediaPath))
}

// deriveEnds closes records whose end is missing or not after their start,
// using the next record's start or, for the last record, trackEnd.
func deriveEnds(records []domain.Record, trackEnd float64) {
	for i := range records {
		r := &records[i]
		if r.Start == nil || (r.End != nil && *r.End > *r.Start) {
			continue
		}
		if i+1 < len(records) && records[i+1].Start != nil {
			r.End = domain.FloatPtr(*records[i+1].Start)
			continue
		}
		if trackEnd > 0 {
			r.End = domain.FloatPtr(trackEnd)
		}
	}
}
