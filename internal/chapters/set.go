// Package chapters holds the immutable, ordered chapter collection and its lookups.
package chapters

import (
	"errors"
	"fmt"

	"github.com/mmcdole/reel/internal/domain"
)

// RecordError describes a record rejected while building a Set.
type RecordError struct {
	Index int    // Position of the record in the input
	ID    string // Record id, empty if missing
	Err   error
}

func (e *RecordError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("record %d: %v", e.Index, e.Err)
	}
	return fmt.Sprintf("record %d (%q): %v", e.Index, e.ID, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }

// Set is an ordered, read-only collection of chapters keyed by id.
//
// Intervals are expected to be contiguous and non-overlapping. Overlapping
// input is accepted; AtTime then returns the first match in input order.
type Set struct {
	chapters []domain.Chapter
	byID     map[string]int
	byOrder  map[int]int
	last     int // index of the chapter with maximal End, -1 when empty
}

// Build validates records and assembles a Set from the valid ones.
// Rejected records are reported as joined *RecordError values; the returned
// Set is always usable and holds every record that passed validation.
func Build(records []domain.Record) (*Set, error) {
	s := &Set{
		chapters: make([]domain.Chapter, 0, len(records)),
		byID:     make(map[string]int, len(records)),
		byOrder:  make(map[int]int, len(records)),
		last:     -1,
	}

	var errs []error
	for i, r := range records {
		c, err := s.validate(r)
		if err != nil {
			errs = append(errs, &RecordError{Index: i, ID: r.ID, Err: err})
			continue
		}

		idx := len(s.chapters)
		s.chapters = append(s.chapters, c)
		s.byID[c.ID] = idx
		s.byOrder[c.Order] = idx
		if s.last < 0 || c.End > s.chapters[s.last].End {
			s.last = idx
		}
	}

	return s, errors.Join(errs...)
}

func (s *Set) validate(r domain.Record) (domain.Chapter, error) {
	switch {
	case r.ID == "":
		return domain.Chapter{}, fmt.Errorf("%w: id", domain.ErrMissingField)
	case r.Order == nil:
		return domain.Chapter{}, fmt.Errorf("%w: order", domain.ErrMissingField)
	case r.Start == nil:
		return domain.Chapter{}, fmt.Errorf("%w: start", domain.ErrMissingField)
	case r.End == nil:
		return domain.Chapter{}, fmt.Errorf("%w: end", domain.ErrMissingField)
	}
	if *r.Start >= *r.End {
		return domain.Chapter{}, fmt.Errorf("%w: [%g, %g)", domain.ErrInvalidInterval, *r.Start, *r.End)
	}
	if _, ok := s.byID[r.ID]; ok {
		return domain.Chapter{}, domain.ErrDuplicateID
	}
	if _, ok := s.byOrder[*r.Order]; ok {
		return domain.Chapter{}, fmt.Errorf("%w: %d", domain.ErrDuplicateOrder, *r.Order)
	}

	return domain.Chapter{
		ID:      r.ID,
		Order:   *r.Order,
		Start:   *r.Start,
		End:     *r.End,
		Title:   r.Title,
		Content: r.Content,
	}, nil
}

// Len returns the number of chapters
func (s *Set) Len() int { return len(s.chapters) }

// All returns the chapters in input order
func (s *Set) All() []domain.Chapter {
	out := make([]domain.Chapter, len(s.chapters))
	copy(out, s.chapters)
	return out
}

// Last returns the chapter with the maximal end
func (s *Set) Last() (domain.Chapter, bool) {
	if s.last < 0 {
		return domain.Chapter{}, false
	}
	return s.chapters[s.last], true
}

// ByID looks up a chapter by id
func (s *Set) ByID(id string) (domain.Chapter, bool) {
	idx, ok := s.byID[id]
	if !ok {
		return domain.Chapter{}, false
	}
	return s.chapters[idx], true
}

// ByOrder looks up a chapter by its order rank
func (s *Set) ByOrder(order int) (domain.Chapter, bool) {
	idx, ok := s.byOrder[order]
	if !ok {
		return domain.Chapter{}, false
	}
	return s.chapters[idx], true
}

// AtTime returns the first chapter whose interval contains second.
// Linear scan; chapter sets are small.
func (s *Set) AtTime(second int) (domain.Chapter, bool) {
	for _, c := range s.chapters {
		if c.Contains(second) {
			return c, true
		}
	}
	return domain.Chapter{}, false
}

// IndexOf returns the input position of the chapter with the given id, or -1
func (s *Set) IndexOf(id string) int {
	if idx, ok := s.byID[id]; ok {
		return idx
	}
	return -1
}
