package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/mmcdole/reel/internal/chapters"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSet(t *testing.T) *chapters.Set {
	t.Helper()
	set, err := chapters.Build([]domain.Record{
		{ID: "a", Order: domain.IntPtr(1), Start: domain.FloatPtr(0), End: domain.FloatPtr(90), Title: "Arrival"},
		{ID: "b", Order: domain.IntPtr(2), Start: domain.FloatPtr(90), End: domain.FloatPtr(3700), Title: "Departure"},
	})
	require.NoError(t, err)
	return set
}

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		args      []string
		wantMedia string
		wantChaps string
	}{
		{[]string{"film.mkv"}, "film.mkv", ""},
		{[]string{"film.vtt"}, "", "film.vtt"},
		{[]string{"page.html"}, "", "page.html"},
		{[]string{"book.m4b"}, "book.m4b", ""},
		{[]string{"film.mkv", "other.json"}, "film.mkv", "other.json"},
	}
	for _, tt := range tests {
		media, chaps := splitArgs(tt.args)
		assert.Equal(t, tt.wantMedia, media, "%v", tt.args)
		assert.Equal(t, tt.wantChaps, chaps, "%v", tt.args)
	}
}

func TestPrintList(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printList(&buf, testSet(t)))
	assert.Contains(t, buf.String(), "0:00 - 1:30")
	assert.Contains(t, buf.String(), "1:30 - 1:01:40")
	assert.Contains(t, buf.String(), "Departure")
}

func TestPrintAt(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printAt(&buf, testSet(t), "90"))
	assert.Contains(t, buf.String(), "2. Departure")

	err := printAt(&buf, testSet(t), "5000")
	assert.ErrorIs(t, err, domain.ErrChapterNotFound)

	assert.Error(t, printAt(&buf, testSet(t), "soon"))
}

func TestPrintFind(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printFind(&buf, testSet(t), "arr"))
	assert.Contains(t, buf.String(), "1. Arrival")

	assert.ErrorIs(t, printFind(&buf, testSet(t), "qqq"), domain.ErrChapterNotFound)
}

func TestLoadNotice(t *testing.T) {
	assert.Empty(t, loadNotice(nil))

	joined := errors.Join(
		&chapters.RecordError{Index: 0, Err: domain.ErrMissingField},
		&chapters.RecordError{Index: 3, ID: "x", Err: domain.ErrDuplicateID},
	)
	assert.Equal(t, "2 chapter records rejected (see log)", loadNotice(joined))

	assert.Contains(t, loadNotice(errors.New("open film.vtt: no such file")), "Failed to load chapters")
}

func TestExportJSON_RebuildsTheSameSet(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, exportJSON(&buf, testSet(t)))
	assert.Contains(t, buf.String(), `"chapters"`)

	records, err := source.DecodeJSON(&buf)
	require.NoError(t, err)

	rebuilt, err := chapters.Build(records)
	require.NoError(t, err)
	assert.Equal(t, testSet(t).All(), rebuilt.All())
}
