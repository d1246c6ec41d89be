package chapters

import (
	"errors"
	"testing"

	"github.com/mmcdole/reel/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(id string, order int, start, end float64) domain.Record {
	return domain.Record{
		ID:    id,
		Order: domain.IntPtr(order),
		Start: domain.FloatPtr(start),
		End:   domain.FloatPtr(end),
		Title: "Chapter " + id,
	}
}

func TestBuild_ValidRecords(t *testing.T) {
	set, err := Build([]domain.Record{
		record("a", 0, 0, 10),
		record("b", 1, 10, 25),
		record("c", 2, 25, 40),
	})
	require.NoError(t, err)

	assert.Equal(t, 3, set.Len())
	last, ok := set.Last()
	require.True(t, ok)
	assert.Equal(t, "c", last.ID)

	all := set.All()
	require.Len(t, all, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{all[0].ID, all[1].ID, all[2].ID})
}

func TestBuild_RejectsMalformedRecordsButKeepsTheRest(t *testing.T) {
	noOrder := record("x", 9, 0, 1)
	noOrder.Order = nil
	noEnd := record("y", 10, 0, 1)
	noEnd.End = nil

	set, err := Build([]domain.Record{
		record("a", 0, 0, 10),
		{Order: domain.IntPtr(5), Start: domain.FloatPtr(0), End: domain.FloatPtr(1)},
		noOrder,
		noEnd,
		record("inverted", 3, 20, 20),
		record("a", 4, 30, 40),
		record("dup-order", 0, 40, 50),
		record("b", 1, 10, 25),
	})
	require.Error(t, err)

	assert.Equal(t, 2, set.Len())
	_, ok := set.ByID("b")
	assert.True(t, ok)

	assert.ErrorIs(t, err, domain.ErrMissingField)
	assert.ErrorIs(t, err, domain.ErrInvalidInterval)
	assert.ErrorIs(t, err, domain.ErrDuplicateID)
	assert.ErrorIs(t, err, domain.ErrDuplicateOrder)

	var recErr *RecordError
	require.True(t, errors.As(err, &recErr))
	assert.Equal(t, 1, recErr.Index)
	assert.Empty(t, recErr.ID)
}

func TestBuild_Empty(t *testing.T) {
	set, err := Build(nil)
	require.NoError(t, err)

	assert.Equal(t, 0, set.Len())
	_, ok := set.Last()
	assert.False(t, ok)
	_, ok = set.AtTime(0)
	assert.False(t, ok)
}

func TestBuild_LastIsMaximalEnd(t *testing.T) {
	// Input order does not decide the last chapter
	set, err := Build([]domain.Record{
		record("late", 2, 20, 30),
		record("early", 1, 0, 20),
	})
	require.NoError(t, err)

	last, ok := set.Last()
	require.True(t, ok)
	assert.Equal(t, "late", last.ID)
}

func TestAtTime_HalfOpenIntervals(t *testing.T) {
	set, err := Build([]domain.Record{
		record("a", 0, 0, 10),
		record("b", 1, 10, 25),
	})
	require.NoError(t, err)

	tests := []struct {
		second int
		want   string
	}{
		{0, "a"},
		{9, "a"},
		{10, "b"},
		{24, "b"},
		{25, ""},
		{-1, ""},
	}

	for _, tt := range tests {
		c, ok := set.AtTime(tt.second)
		if tt.want == "" {
			assert.False(t, ok, "second %d", tt.second)
			continue
		}
		require.True(t, ok, "second %d", tt.second)
		assert.Equal(t, tt.want, c.ID, "second %d", tt.second)
	}
}

func TestAtTime_OverlapResolvesToFirstInInputOrder(t *testing.T) {
	set, err := Build([]domain.Record{
		record("wide", 0, 0, 30),
		record("narrow", 1, 10, 20),
	})
	require.NoError(t, err)

	c, ok := set.AtTime(15)
	require.True(t, ok)
	assert.Equal(t, "wide", c.ID)
}

func TestAtTime_Gap(t *testing.T) {
	set, err := Build([]domain.Record{
		record("a", 0, 0, 10),
		record("b", 1, 20, 30),
	})
	require.NoError(t, err)

	_, ok := set.AtTime(15)
	assert.False(t, ok)
}

func TestByOrder_NonContiguous(t *testing.T) {
	set, err := Build([]domain.Record{
		record("a", 3, 0, 10),
		record("b", 7, 10, 20),
	})
	require.NoError(t, err)

	c, ok := set.ByOrder(7)
	require.True(t, ok)
	assert.Equal(t, "b", c.ID)

	_, ok = set.ByOrder(4)
	assert.False(t, ok)
}

func TestByID_Miss(t *testing.T) {
	set, err := Build([]domain.Record{record("a", 0, 0, 10)})
	require.NoError(t, err)

	_, ok := set.ByID("zzz")
	assert.False(t, ok)
	assert.Equal(t, -1, set.IndexOf("zzz"))
	assert.Equal(t, 0, set.IndexOf("a"))
}

func TestAll_ReturnsCopy(t *testing.T) {
	set, err := Build([]domain.Record{record("a", 0, 0, 10)})
	require.NoError(t, err)

	all := set.All()
	all[0].Title = "mutated"

	c, _ := set.ByID("a")
	assert.Equal(t, "Chapter a", c.Title)
}
