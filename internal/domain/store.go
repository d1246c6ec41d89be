package domain

import "time"

// Store is the local cache for decoded chapter metadata and resume positions.
type Store interface {
	// GetRecords returns cached records for a source if they were decoded
	// with the same options variant and the cache is at least as new as modTime
	GetRecords(sourcePath, variant string, modTime time.Time) ([]Record, bool)
	SaveRecords(sourcePath, variant string, modTime time.Time, records []Record) error

	// GetPosition returns the last reported second for a media path
	GetPosition(mediaPath string) (int, bool)
	SavePosition(mediaPath string, second int) error

	InvalidateRecords(sourcePath string)
	InvalidateAll()

	Close() error
}
