package scrobble

import (
	"time"

	"github.com/sircorndog/scrobble-analysis/internal/lastfm"
)

// DateLayout is the display format attached to every scrobble, always in
// UTC.
const DateLayout = "2006-01-02 15:04:05"

// Scrobble is one recorded play of a track. The timestamp doubles as the
// identity key: two entries sharing a timestamp are treated as the same
// play even when their metadata differs.
type Scrobble struct {
	Track     string `json:"track"`
	Artist    string `json:"artist"`
	Album     string `json:"album"`
	Timestamp int64  `json:"timestamp"`
	Date      string `json:"date"`
}

// Time returns the scrobble's timestamp as a UTC time.
func (s Scrobble) Time() time.Time {
	return time.Unix(s.Timestamp, 0).UTC()
}

// FromTrack converts an API track entry to a Scrobble. Now-playing
// entries and entries without a timestamp are not scrobbles yet; ok is
// false for those.
func FromTrack(t lastfm.Track) (s Scrobble, ok bool) {
	if t.NowPlaying || t.UTS == 0 {
		return Scrobble{}, false
	}
	return Scrobble{
		Track:     t.Name,
		Artist:    t.Artist,
		Album:     t.Album,
		Timestamp: t.UTS,
		Date:      time.Unix(t.UTS, 0).UTC().Format(DateLayout),
	}, true
}

// cacheRecord is the on-disk fetch state for a single user. A finished
// run writes Username, Scrobbles, LastFetch and Complete; mid-run
// checkpoints add page progress instead of the completeness verdict.
type cacheRecord struct {
	Username   string     `json:"username"`
	Scrobbles  []Scrobble `json:"scrobbles"`
	LastFetch  float64    `json:"last_fetch"`
	Complete   bool       `json:"complete"`
	Incomplete bool       `json:"incomplete,omitempty"`
	LastPage   int        `json:"last_page,omitempty"`
	TotalPages int        `json:"total_pages,omitempty"`
}
