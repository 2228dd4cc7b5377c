package scrobble

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/avast/retry-go"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/sircorndog/scrobble-analysis/internal/cache"
	"github.com/sircorndog/scrobble-analysis/internal/lastfm"
)

const (
	defaultMaxRetries      = 5
	defaultBaseDelay       = 10 * time.Second
	defaultPageSize        = 200
	defaultRate            = 250 * time.Millisecond
	defaultCheckpointEvery = 50

	cacheTTL = time.Hour
)

// FetcherConfig holds the settings for one fetch run. Client, CachePath
// and Username are required; the rest default sensibly.
type FetcherConfig struct {
	Client          *lastfm.Client
	CachePath       string
	Username        string
	Since           time.Time
	UseCache        bool
	MaxRetries      uint
	BaseDelay       time.Duration
	PageSize        int
	Rate            time.Duration
	CheckpointEvery int
	Logger          zerolog.Logger
}

// Fetcher retrieves a user's full listening history page by page,
// checkpointing progress so an interrupted run can resume.
type Fetcher struct {
	client          *lastfm.Client
	cachePath       string
	username        string
	since           time.Time
	useCache        bool
	maxRetries      uint
	baseDelay       time.Duration
	pageSize        int
	checkpointEvery int
	limiter         *rate.Limiter
	logger          zerolog.Logger
}

func NewFetcher(cfg FetcherConfig) *Fetcher {
	f := &Fetcher{
		client:          cfg.Client,
		cachePath:       cfg.CachePath,
		username:        cfg.Username,
		since:           cfg.Since,
		useCache:        cfg.UseCache,
		maxRetries:      cfg.MaxRetries,
		baseDelay:       cfg.BaseDelay,
		pageSize:        cfg.PageSize,
		checkpointEvery: cfg.CheckpointEvery,
		logger:          cfg.Logger.With().Str("component", "fetcher").Logger(),
	}
	if f.maxRetries == 0 {
		f.maxRetries = defaultMaxRetries
	}
	if f.baseDelay == 0 {
		f.baseDelay = defaultBaseDelay
	}
	if f.pageSize == 0 {
		f.pageSize = defaultPageSize
	}
	if f.checkpointEvery == 0 {
		f.checkpointEvery = defaultCheckpointEvery
	}
	interval := cfg.Rate
	if interval == 0 {
		interval = defaultRate
	}
	f.limiter = rate.NewLimiter(rate.Every(interval), 1)
	return f
}

// Fetch retrieves the user's listening history, oldest first. A fresh
// complete cache is returned without network activity; an incomplete one
// seeds the result and the fetch starts over, deduplicating by timestamp.
// When retries on a page are exhausted the partial result is persisted
// and returned rather than an error; only local cache I/O can fail the
// call.
func (f *Fetcher) Fetch(ctx context.Context) ([]Scrobble, error) {
	all := []Scrobble{}
	seen := make(map[int64]bool)

	if f.useCache {
		var rec cacheRecord
		if err := cache.Load(f.cachePath, &rec); err != nil {
			return nil, err
		}
		if rec.Username == f.username && len(rec.Scrobbles) > 0 {
			age := time.Since(time.Unix(int64(rec.LastFetch), 0))
			if rec.Complete && age < cacheTTL {
				f.logger.Info().Int("tracks", len(rec.Scrobbles)).Msg("using cached scrobbles")
				return rec.Scrobbles, nil
			}
			if !rec.Complete {
				all = rec.Scrobbles
				for _, s := range all {
					seen[s.Timestamp] = true
				}
				f.logger.Info().Int("tracks", len(all)).Msg("resuming incomplete fetch")
			}
		}
	}

	f.logger.Info().Str("user", f.username).Msg("fetching scrobbles")

	var from int64
	if !f.since.IsZero() {
		from = f.since.Unix()
	}

	page := 1
	totalPages := 1
	for page <= totalPages {
		var resp *lastfm.RecentTracksPage
		err := retry.Do(
			func() error {
				var err error
				resp, err = f.client.RecentTracks(ctx, f.username, page, f.pageSize, from)
				return err
			},
			retry.Attempts(f.maxRetries),
			retry.Delay(f.baseDelay),
			retry.DelayType(retry.BackOffDelay),
			retry.LastErrorOnly(true),
			retry.RetryIf(func(err error) bool {
				return !errors.Is(err, context.Canceled)
			}),
			retry.OnRetry(func(n uint, err error) {
				f.logger.Warn().Int("page", page).Uint("attempt", n+1).Err(err).Msg("page fetch failed, retrying")
			}),
			retry.Context(ctx),
		)
		if err != nil {
			f.logger.Error().Int("page", page).Err(err).Msg("retries exhausted, saving progress")
			break
		}

		totalPages = resp.TotalPages
		if len(resp.Tracks) == 0 {
			break
		}

		for _, t := range resp.Tracks {
			s, ok := FromTrack(t)
			if !ok || seen[s.Timestamp] {
				continue
			}
			all = append(all, s)
			seen[s.Timestamp] = true
		}

		f.logger.Info().Int("page", page).Int("total_pages", totalPages).Int("tracks", len(all)).Msg("fetched page")
		page++
		f.limiter.Wait(ctx)

		if page%f.checkpointEvery == 0 {
			f.logger.Info().Int("next_page", page).Msg("saving progress checkpoint")
			if err := f.checkpoint(all, page, totalPages); err != nil {
				return nil, err
			}
		}
	}

	sortByTimestamp(all)

	complete := page > totalPages
	rec := cacheRecord{
		Username:  f.username,
		Scrobbles: all,
		LastFetch: float64(time.Now().Unix()),
		Complete:  complete,
	}
	if err := cache.Save(f.cachePath, rec); err != nil {
		return nil, err
	}

	f.logger.Info().Int("tracks", len(all)).Bool("complete", complete).Msg("fetch finished")
	return all, nil
}

// checkpoint persists a sorted snapshot of the in-progress result so the
// next run can resume instead of starting from nothing.
func (f *Fetcher) checkpoint(scrobbles []Scrobble, nextPage, totalPages int) error {
	sorted := append([]Scrobble(nil), scrobbles...)
	sortByTimestamp(sorted)
	return cache.Save(f.cachePath, cacheRecord{
		Username:   f.username,
		Scrobbles:  sorted,
		LastFetch:  float64(time.Now().Unix()),
		Incomplete: true,
		LastPage:   nextPage,
		TotalPages: totalPages,
	})
}

func sortByTimestamp(scrobbles []Scrobble) {
	sort.SliceStable(scrobbles, func(i, j int) bool {
		return scrobbles[i].Timestamp < scrobbles[j].Timestamp
	})
}
