package analysis

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"github.com/sircorndog/scrobble-analysis/internal/genre"
	"github.com/sircorndog/scrobble-analysis/internal/mood"
	"github.com/sircorndog/scrobble-analysis/internal/scrobble"
)

const (
	topGenresPerMonth = 10
	genresPerTrack    = 3
)

// GroupByMonth buckets scrobbles into calendar months in UTC, sorted
// chronologically ascending.
func GroupByMonth(scrobbles []scrobble.Scrobble) []*Month {
	grouped := make(map[int]*Month)
	for _, s := range scrobbles {
		t := s.Time()
		key := t.Year()*100 + int(t.Month())
		m, ok := grouped[key]
		if !ok {
			m = &Month{Year: t.Year(), Month: t.Month()}
			grouped[key] = m
		}
		m.Tracks = append(m.Tracks, TrackInfo{Scrobble: s})
	}

	months := make([]*Month, 0, len(grouped))
	for _, m := range grouped {
		m.Size = len(m.Tracks)
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool {
		if months[i].Year != months[j].Year {
			return months[i].Year < months[j].Year
		}
		return months[i].Month < months[j].Month
	})
	return months
}

// EnricherConfig holds the collaborators for enrichment. Resolver and
// CachePath are required; a nil Classifier gets a fresh one.
type EnricherConfig struct {
	Resolver   *genre.Resolver
	Classifier *mood.Classifier
	CachePath  string
	Logger     zerolog.Logger
}

// Enricher attaches genre and mood data to grouped months and computes
// the per-month distributions.
type Enricher struct {
	resolver   *genre.Resolver
	classifier *mood.Classifier
	cachePath  string
	logger     zerolog.Logger
}

func NewEnricher(cfg EnricherConfig) *Enricher {
	e := &Enricher{
		resolver:   cfg.Resolver,
		classifier: cfg.Classifier,
		cachePath:  cfg.CachePath,
		logger:     cfg.Logger.With().Str("component", "analysis").Logger(),
	}
	if e.classifier == nil {
		e.classifier = mood.NewClassifier()
	}
	return e
}

// Enrich resolves genres for every artist seen across months, persists
// the genre cache when anything new was fetched, then fills in each
// month's track genres, track moods, distributions and primary mood.
// Months are mutated in place. Only a cache write failure is an error.
func (e *Enricher) Enrich(ctx context.Context, months []*Month) error {
	e.logger.Info().Int("cached_artists", len(e.resolver.Cache())).Msg("fetching genre data")

	artists := distinctArtists(months)
	e.logger.Info().Int("artists", len(artists)).Msg("found unique artists")

	var uncached []string
	for _, artist := range artists {
		if !e.resolver.Cached(artist) {
			uncached = append(uncached, artist)
		}
	}
	for i, artist := range uncached {
		e.logger.Info().Int("n", i+1).Int("of", len(uncached)).Str("artist", artist).Msg("fetching genres")
		e.resolver.Resolve(ctx, artist)
	}
	if len(uncached) > 0 {
		if err := e.resolver.Cache().Save(e.cachePath); err != nil {
			return err
		}
	}

	for _, month := range months {
		genres := NewCounter()
		moods := NewCounter()

		for i := range month.Tracks {
			track := &month.Tracks[i]
			track.Genres = e.resolver.Resolve(ctx, track.Artist)
			track.Mood = e.classifier.Classify(track.Genres)

			for _, g := range firstN(track.Genres, genresPerTrack) {
				genres.Add(g, 1)
			}
			moods.Add(track.Mood, 1)
		}

		month.GenreDistribution = genres.Top(topGenresPerMonth)
		month.MoodDistribution = moods.Items()
		if primary, ok := moods.Max(); ok {
			month.PrimaryMood = primary
		} else {
			month.PrimaryMood = mood.Unknown
		}
	}

	return nil
}

// distinctArtists returns every artist across all months, first seen
// first.
func distinctArtists(months []*Month) []string {
	seen := make(map[string]bool)
	var artists []string
	for _, month := range months {
		for _, track := range month.Tracks {
			if !seen[track.Artist] {
				seen[track.Artist] = true
				artists = append(artists, track.Artist)
			}
		}
	}
	return artists
}

func firstN(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
