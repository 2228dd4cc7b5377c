package genre

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/sircorndog/scrobble-analysis/internal/cache"
	"github.com/sircorndog/scrobble-analysis/internal/lastfm"
)

const (
	defaultMaxRetries = 3
	defaultBaseDelay  = 5 * time.Second
	defaultRate       = 200 * time.Millisecond

	maxTags = 10
)

// Cache maps a lowercased artist name to its genre tags, at most ten,
// lowercased, in the API's popularity order. An artist whose lookup
// failed is present with an empty list so later runs skip it.
type Cache map[string][]string

// LoadCache reads a genre cache file. A missing file yields an empty
// cache.
func LoadCache(path string) (Cache, error) {
	c := Cache{}
	if err := cache.Load(path, &c); err != nil {
		return nil, err
	}
	return c, nil
}

// Save writes the cache back to path.
func (c Cache) Save(path string) error {
	return cache.Save(path, c)
}

// ResolverConfig holds the settings for a Resolver. Client and Cache are
// required; the rest default sensibly.
type ResolverConfig struct {
	Client     *lastfm.Client
	Cache      Cache
	MaxRetries uint
	BaseDelay  time.Duration
	Rate       time.Duration
	Logger     zerolog.Logger
}

// Resolver looks up genre tags for artists, reading through its Cache so
// each artist is fetched at most once per cache lifetime.
type Resolver struct {
	client     *lastfm.Client
	cache      Cache
	maxRetries uint
	baseDelay  time.Duration
	limiter    *rate.Limiter
	logger     zerolog.Logger
}

func NewResolver(cfg ResolverConfig) *Resolver {
	r := &Resolver{
		client:     cfg.Client,
		cache:      cfg.Cache,
		maxRetries: cfg.MaxRetries,
		baseDelay:  cfg.BaseDelay,
		logger:     cfg.Logger.With().Str("component", "genre").Logger(),
	}
	if r.cache == nil {
		r.cache = Cache{}
	}
	if r.maxRetries == 0 {
		r.maxRetries = defaultMaxRetries
	}
	if r.baseDelay == 0 {
		r.baseDelay = defaultBaseDelay
	}
	interval := cfg.Rate
	if interval == 0 {
		interval = defaultRate
	}
	r.limiter = rate.NewLimiter(rate.Every(interval), 1)
	return r
}

// Cached reports whether artist is already present in the cache.
func (r *Resolver) Cached(artist string) bool {
	_, ok := r.cache[strings.ToLower(artist)]
	return ok
}

// Cache returns the resolver's backing cache, for persisting after a
// batch of lookups.
func (r *Resolver) Cache() Cache {
	return r.cache
}

// Resolve returns the genre tags for artist, fetching and caching them on
// first sight. It never fails: once retries are exhausted, or on a
// malformed response, the artist is cached with no tags and an empty list
// is returned.
func (r *Resolver) Resolve(ctx context.Context, artist string) []string {
	key := strings.ToLower(artist)
	if tags, ok := r.cache[key]; ok {
		return tags
	}

	r.limiter.Wait(ctx)

	var tags []string
	err := retry.Do(
		func() error {
			fetched, err := r.client.ArtistTopTags(ctx, artist)
			if err != nil {
				return err
			}
			if len(fetched) > maxTags {
				fetched = fetched[:maxTags]
			}
			tags = make([]string, 0, len(fetched))
			for _, t := range fetched {
				tags = append(tags, strings.ToLower(t.Name))
			}
			return nil
		},
		retry.Attempts(r.maxRetries),
		retry.Delay(r.baseDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(lastfm.IsTransient),
		retry.Context(ctx),
	)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		r.logger.Warn().Str("artist", artist).Err(err).Msg("could not fetch genres")
		tags = []string{}
	}
	r.cache[key] = tags
	return tags
}
