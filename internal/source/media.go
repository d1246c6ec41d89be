package source

import (
	"context"
	"fmt"

	"github.com/mmcdole/reel/internal/domain"
	"github.com/simonhull/audiometa"
)

// LoadMedia reads chapters embedded in a media container
func LoadMedia(ctx context.Context, path string, opts Options) ([]domain.Record, error) {
	file, err := audiometa.OpenContext(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read media chapters: %w", err)
	}
	defer file.Close()

	trackEnd := opts.TrackEnd
	if d := file.Audio.Duration.Seconds(); d > 0 {
		trackEnd = d
	}

	return MediaChaptersToRecords(file.Chapters, trackEnd), nil
}

// MediaChaptersToRecords converts embedded chapter markers to records.
// Markers without an end are closed by the next marker or trackEnd.
func MediaChaptersToRecords(markers []audiometa.Chapter, trackEnd float64) []domain.Record {
	records := make([]domain.Record, len(markers))
	for i, m := range markers {
		title := m.Title
		if title == "" {
			title = fmt.Sprintf("Chapter %d", m.Index)
		}

		r := domain.Record{
			ID:    fmt.Sprintf("chapter-%d", m.Index),
			Order: domain.IntPtr(m.Index),
			Start: domain.FloatPtr(m.StartTime.Seconds()),
			Title: title,
		}
		if m.EndTime > m.StartTime {
			r.End = domain.FloatPtr(m.EndTime.Seconds())
		}
		records[i] = r
	}

	deriveEnds(records, trackEnd)
	return records
}
