package analysis

import (
	"fmt"
	"time"

	"github.com/sircorndog/scrobble-analysis/internal/scrobble"
)

// TrackInfo is a scrobble enriched with its artist's genre tags and the
// mood derived from them.
type TrackInfo struct {
	scrobble.Scrobble
	Genres []string `json:"genres"`
	Mood   string   `json:"mood"`
}

// Count is one entry of an ordered distribution.
type Count struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Month is one calendar month of listening. Grouping fills Year, Month,
// Tracks and Size; enrichment attaches the distributions and the primary
// mood.
type Month struct {
	Year   int
	Month  time.Month
	Tracks []TrackInfo
	Size   int

	// GenreDistribution holds the month's ten most-counted genres,
	// descending. MoodDistribution lists every mood in the order it
	// first appeared.
	GenreDistribution []Count
	MoodDistribution  []Count
	PrimaryMood       string
}

// Label returns the month as "2024-01".
func (m *Month) Label() string {
	return fmt.Sprintf("%d-%02d", m.Year, int(m.Month))
}

// Name returns the month as "January 2024".
func (m *Month) Name() string {
	return fmt.Sprintf("%s %d", m.Month, m.Year)
}
