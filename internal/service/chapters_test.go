package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mmcdole/reel/internal/chapters"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/source"
	"github.com/mmcdole/reel/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chaptersJSON = `{"chapters": [
	{"id": "a", "order": 0, "start": 0, "end": 10, "title": "Opening"},
	{"id": "b", "order": 1, "start": 10, "end": 20, "title": "Middle"},
	{"id": "bad", "order": 2, "start": 30, "end": 25, "title": "Backwards"}
]}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func newMemoryStore(t *testing.T) *store.ChapterStore {
	s, err := store.NewChapterStore("")
	require.NoError(t, err)
	return s
}

func TestChapterService_LoadReportsRejects(t *testing.T) {
	path := writeFile(t, t.TempDir(), "film.chapters.json", chaptersJSON)
	svc := NewChapterService(newMemoryStore(t), source.Options{}, nil)

	set, err := svc.Load(context.Background(), path)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInterval)
	assert.Equal(t, 2, set.Len())

	rejected := recordErrors(err)
	require.Len(t, rejected, 1)
	assert.Equal(t, "bad", rejected[0].ID)
}

func TestChapterService_CachesByModTime(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "film.chapters.json", chaptersJSON)
	st := newMemoryStore(t)
	svc := NewChapterService(st, source.Options{}, nil)

	_, err := svc.Records(context.Background(), path)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	cached, ok := st.GetRecords(path, source.Options{}.Fingerprint(), info.ModTime())
	require.True(t, ok)
	assert.Len(t, cached, 3)

	// Rewrite with a newer mtime; the cache must not be served
	writeFile(t, dir, "film.chapters.json", `[{"id": "z", "order": 0, "start": 0, "end": 5}]`)
	later := info.ModTime().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))

	records, err := svc.Records(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "z", records[0].ID)
}

func TestChapterService_CacheKeepsDecodeOptionsApart(t *testing.T) {
	path := writeFile(t, t.TempDir(), "film.vtt", "WEBVTT\n\nIntro\n00:00.000 --> 00:10.000\nWelcome text\n")
	st := newMemoryStore(t)

	byID := NewChapterService(st, source.Options{TitleFrom: source.TitleFromID}, nil)
	records, err := byID.Records(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Intro", records[0].Title)

	byText := NewChapterService(st, source.Options{TitleFrom: source.TitleFromText}, nil)
	records, err = byText.Records(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Welcome text", records[0].Title)
}

func TestChapterService_MissingSourceYieldsEmptySet(t *testing.T) {
	svc := NewChapterService(nil, source.Options{}, nil)

	set, err := svc.Load(context.Background(), filepath.Join(t.TempDir(), "none.vtt"))
	require.Error(t, err)
	require.NotNil(t, set)
	assert.Equal(t, 0, set.Len())
}

func TestChapterService_Resolve(t *testing.T) {
	dir := t.TempDir()
	media := writeFile(t, dir, "film.mkv", "")
	sidecar := writeFile(t, dir, "film.vtt", "WEBVTT\n")
	svc := NewChapterService(nil, source.Options{}, nil)

	got, err := svc.Resolve(media, "")
	require.NoError(t, err)
	assert.Equal(t, sidecar, got)

	got, err = svc.Resolve(media, "/explicit.json")
	require.NoError(t, err)
	assert.Equal(t, "/explicit.json", got)

	_, err = svc.Resolve("", "")
	assert.ErrorIs(t, err, domain.ErrUnsupportedSource)
}

func TestRecordErrors(t *testing.T) {
	assert.Nil(t, recordErrors(nil))

	single := &chapters.RecordError{Index: 1, ID: "x", Err: domain.ErrDuplicateID}
	assert.Len(t, recordErrors(single), 1)

	joined := errors.Join(single, &chapters.RecordError{Index: 2, ID: "y", Err: domain.ErrMissingField})
	assert.Len(t, recordErrors(joined), 2)
}

func TestChapterService_InvalidateAndClearCache(t *testing.T) {
	path := writeFile(t, t.TempDir(), "film.chapters.json", chaptersJSON)
	st := newMemoryStore(t)
	svc := NewChapterService(st, source.Options{}, nil)
	variant := source.Options{}.Fingerprint()

	info, err := os.Stat(path)
	require.NoError(t, err)

	_, err = svc.Records(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, st.SavePosition("/videos/film.mp4", 42))

	svc.Invalidate(path)
	_, ok := st.GetRecords(path, variant, info.ModTime())
	assert.False(t, ok)
	_, ok = st.GetPosition("/videos/film.mp4")
	assert.True(t, ok, "invalidating records keeps positions")

	_, err = svc.Records(context.Background(), path)
	require.NoError(t, err)
	svc.ClearCache()
	_, ok = st.GetRecords(path, variant, info.ModTime())
	assert.False(t, ok)
	_, ok = st.GetPosition("/videos/film.mp4")
	assert.False(t, ok)
}
