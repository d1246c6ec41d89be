// Package search finds chapters by title for jump-to and menu filtering.
package search

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mmcdole/reel/internal/chapters"
	"github.com/mmcdole/reel/internal/domain"
)

// Result is a ranked chapter match
type Result struct {
	Chapter domain.Chapter
	Score   int // lower is better
}

// Score bands, lower is better
const (
	scoreExact   = 0
	scorePrefix  = 10
	scoreContain = 50
	scoreFuzzy   = 100
	scoreContent = 500
)

// Find ranks the chapters of set against query. Titles are matched first;
// chapters whose content mentions the query rank after every title match.
func Find(set *chapters.Set, query string) []Result {
	query = strings.ToLower(strings.TrimSpace(query))
	if set == nil || query == "" {
		return nil
	}

	all := set.All()
	titles := make([]string, len(all))
	for i, c := range all {
		titles[i] = c.Title
	}

	seen := make(map[string]bool)
	var results []Result

	for _, rank := range fuzzy.RankFindNormalizedFold(query, titles) {
		c := all[rank.OriginalIndex]
		seen[c.ID] = true
		results = append(results, Result{Chapter: c, Score: calculateMatchScore(strings.ToLower(c.Title), query)})
	}

	for _, c := range all {
		if seen[c.ID] || c.Content == "" {
			continue
		}
		if fuzzy.MatchNormalizedFold(query, c.Content) {
			results = append(results, Result{Chapter: c, Score: scoreContent + fuzzy.LevenshteinDistance(query, strings.ToLower(c.Title))})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score < results[j].Score
		}
		return results[i].Chapter.Order < results[j].Chapter.Order
	})
	return results
}

// Best returns the top match for query
func Best(set *chapters.Set, query string) (domain.Chapter, bool) {
	results := Find(set, query)
	if len(results) == 0 {
		return domain.Chapter{}, false
	}
	return results[0].Chapter, true
}

// calculateMatchScore scores a lowercase title against a lowercase query
func calculateMatchScore(title, query string) int {
	// Exact match is best
	if title == query {
		return scoreExact
	}

	// Prefix match is very good
	if strings.HasPrefix(title, query) {
		return scorePrefix
	}

	// Contains match is good
	if strings.Contains(title, query) {
		return scoreContain
	}

	return scoreFuzzy + fuzzy.LevenshteinDistance(query, title)
}
