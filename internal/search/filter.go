package search

import (
	"strings"
	"unicode"

	"github.com/sahilm/fuzzy"
)

// Match is a filtered menu entry
type Match struct {
	Index          int   // Index in the filtered labels
	MatchedIndexes []int // Rune positions in the original label that matched
}

// labelSource implements fuzzy.Source over lowercase labels
type labelSource []string

func (s labelSource) String(i int) string { return s[i] }
func (s labelSource) Len() int            { return len(s) }

// Filter narrows menu labels to those matching query as a subsequence,
// best match first. An empty query matches nothing.
func Filter(labels []string, query string) []Match {
	query = strings.ToLower(query)
	if query == "" {
		return nil
	}

	lower := make(labelSource, len(labels))
	runeAt := make([]map[int]int, len(labels))
	for i, l := range labels {
		lower[i], runeAt[i] = foldLabel(l)
	}

	matches := fuzzy.FindFrom(query, lower)
	out := make([]Match, len(matches))
	for i, m := range matches {
		indexes := make([]int, 0, len(m.MatchedIndexes))
		for _, b := range m.MatchedIndexes {
			if r, ok := runeAt[m.Index][b]; ok {
				indexes = append(indexes, r)
			}
		}
		out[i] = Match{Index: m.Index, MatchedIndexes: indexes}
	}
	return out
}

// foldLabel lowercases label rune by rune and maps each byte offset of the
// folded string back to the rune position it came from in label
func foldLabel(label string) (string, map[int]int) {
	var b strings.Builder
	runeAt := make(map[int]int, len(label))
	pos := 0
	for _, r := range label {
		runeAt[b.Len()] = pos
		b.WriteRune(unicode.ToLower(r))
		pos++
	}
	return b.String(), runeAt
}
