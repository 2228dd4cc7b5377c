package mood

import (
	"sort"
	"strings"
)

type keywordEntry struct {
	keyword string
	mood    string
}

var (
	exactMood   map[string]string
	keywordScan []keywordEntry
)

func init() {
	exactMood = make(map[string]string)
	for _, entry := range moodTable {
		for _, kw := range entry.Keywords {
			exactMood[kw] = entry.Name
			keywordScan = append(keywordScan, keywordEntry{kw, entry.Name})
		}
	}
}

// Classifier maps genre-tag combinations to a single mood label. Results
// are memoized per unique combination, insensitive to tag order.
type Classifier struct {
	memo map[string]string
}

func NewClassifier() *Classifier {
	return &Classifier{memo: make(map[string]string)}
}

// Classify scores each tag against the keyword table and returns the
// highest-scoring mood. A tag equal to a keyword counts toward that
// keyword's mood; otherwise the first keyword contained in the tag wins
// and the rest are not consulted. Unmatched input, including the empty
// list, is Neutral.
func (c *Classifier) Classify(genres []string) string {
	key := memoKey(genres)
	if m, ok := c.memo[key]; ok {
		return m
	}
	m := classify(genres)
	c.memo[key] = m
	return m
}

func classify(genres []string) string {
	scores := make(map[string]int)
	for _, genre := range genres {
		lower := strings.ToLower(genre)
		if m, ok := exactMood[lower]; ok {
			scores[m]++
			continue
		}
		for _, entry := range keywordScan {
			if strings.Contains(lower, entry.keyword) {
				scores[entry.mood]++
				break
			}
		}
	}
	if len(scores) == 0 {
		return Neutral
	}

	// Ties resolve to the earliest mood in the table.
	best, bestScore := Neutral, 0
	for _, entry := range moodTable {
		if s := scores[entry.Name]; s > bestScore {
			best, bestScore = entry.Name, s
		}
	}
	return best
}

func memoKey(genres []string) string {
	sorted := append([]string(nil), genres...)
	sort.Strings(sorted)
	return strings.Join(sorted, "\x00")
}
