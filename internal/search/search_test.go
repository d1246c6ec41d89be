package search

import (
	"testing"

	"github.com/mmcdole/reel/internal/chapters"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSet(t *testing.T) *chapters.Set {
	t.Helper()
	rec := func(id string, order int, start, end float64, title, content string) domain.Record {
		return domain.Record{ID: id, Order: domain.IntPtr(order), Start: domain.FloatPtr(start), End: domain.FloatPtr(end), Title: title, Content: content}
	}
	set, err := chapters.Build([]domain.Record{
		rec("intro", 0, 0, 30, "Introduction", "Welcome to the course"),
		rec("setup", 1, 30, 90, "Setting up the workshop", "Tools and materials"),
		rec("joints", 2, 90, 200, "Dovetail joints", "Cutting tails with a saw"),
		rec("finish", 3, 200, 260, "Finishing", "Oil, wax and the workshop cleanup"),
	})
	require.NoError(t, err)
	return set
}

func ids(results []Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Chapter.ID
	}
	return out
}

func TestFind_RanksTitleMatches(t *testing.T) {
	set := buildSet(t)

	results := Find(set, "finishing")
	require.NotEmpty(t, results)
	assert.Equal(t, "finish", results[0].Chapter.ID)
	assert.Equal(t, scoreExact, results[0].Score)

	results = Find(set, "Dove")
	require.NotEmpty(t, results)
	assert.Equal(t, "joints", results[0].Chapter.ID)
	assert.Equal(t, scorePrefix, results[0].Score)
}

func TestFind_ContentMatchesRankLast(t *testing.T) {
	results := Find(buildSet(t), "workshop")
	assert.Equal(t, []string{"setup", "finish"}, ids(results))
	assert.Equal(t, scoreContain, results[0].Score)
	assert.GreaterOrEqual(t, results[1].Score, scoreContent)
}

func TestFind_Empty(t *testing.T) {
	assert.Nil(t, Find(buildSet(t), "  "))
	assert.Nil(t, Find(nil, "intro"))
	assert.Empty(t, Find(buildSet(t), "zzzz"))
}

func TestBest(t *testing.T) {
	c, ok := Best(buildSet(t), "intro")
	require.True(t, ok)
	assert.Equal(t, "intro", c.ID)

	_, ok = Best(buildSet(t), "qqq")
	assert.False(t, ok)
}

func TestCalculateMatchScore(t *testing.T) {
	assert.Equal(t, scoreExact, calculateMatchScore("finishing", "finishing"))
	assert.Equal(t, scorePrefix, calculateMatchScore("finishing", "fin"))
	assert.Equal(t, scoreContain, calculateMatchScore("finishing", "ish"))
	assert.Equal(t, scoreFuzzy+1, calculateMatchScore("finishing", "finishng"))
}

func TestFilter(t *testing.T) {
	labels := []string{"1. Introduction", "2. Setting up", "3. Dovetail joints"}

	matches := Filter(labels, "DVT")
	require.Len(t, matches, 1)
	assert.Equal(t, 2, matches[0].Index)
	assert.NotEmpty(t, matches[0].MatchedIndexes)

	assert.Nil(t, Filter(labels, ""))
	assert.Empty(t, Filter(labels, "xyz"))
}

func TestFilter_MatchedIndexesAreRunePositions(t *testing.T) {
	label := "İstanbul Köprüsü"
	matches := Filter([]string{label}, "köprü")
	require.Len(t, matches, 1)
	assert.Equal(t, []int{9, 10, 11, 12, 13}, matches[0].MatchedIndexes)

	runes := []rune(label)
	var got []rune
	for _, i := range matches[0].MatchedIndexes {
		got = append(got, runes[i])
	}
	assert.Equal(t, "Köprü", string(got))
}
