package lastfm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultBaseURL = "http://ws.audioscrobbler.com/2.0/"
	userAgent      = "scrobble-analysis/0.1"

	defaultPageTimeout = 30 * time.Second
	defaultTagTimeout  = 10 * time.Second
)

// Config holds the settings for a Client. APIKey is required; everything
// else has a usable default.
type Config struct {
	APIKey      string
	BaseURL     string
	HTTPClient  *http.Client
	PageTimeout time.Duration
	TagTimeout  time.Duration
	Logger      zerolog.Logger
}

// Client talks to the Last.fm web API. It is stateless and safe for
// concurrent use.
type Client struct {
	apiKey      string
	baseURL     string
	httpClient  *http.Client
	pageTimeout time.Duration
	tagTimeout  time.Duration
	logger      zerolog.Logger
}

// New creates a Client from cfg.
func New(cfg Config) *Client {
	c := &Client{
		apiKey:      cfg.APIKey,
		baseURL:     cfg.BaseURL,
		httpClient:  cfg.HTTPClient,
		pageTimeout: cfg.PageTimeout,
		tagTimeout:  cfg.TagTimeout,
		logger:      cfg.Logger.With().Str("component", "lastfm").Logger(),
	}
	if c.baseURL == "" {
		c.baseURL = defaultBaseURL
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	if c.pageTimeout == 0 {
		c.pageTimeout = defaultPageTimeout
	}
	if c.tagTimeout == 0 {
		c.tagTimeout = defaultTagTimeout
	}
	return c
}

// RecentTracks fetches one page of user's listening history in extended
// form. A from of zero means no lower bound. Now-playing entries are
// flagged rather than filtered.
func (c *Client) RecentTracks(ctx context.Context, user string, page, limit int, from int64) (*RecentTracksPage, error) {
	params := url.Values{
		"method":   {"user.getRecentTracks"},
		"user":     {user},
		"format":   {"json"},
		"limit":    {strconv.Itoa(limit)},
		"page":     {strconv.Itoa(page)},
		"extended": {"1"},
	}
	if from > 0 {
		params.Set("from", strconv.FormatInt(from, 10))
	}

	body, err := c.get(ctx, c.pageTimeout, params)
	if err != nil {
		return nil, err
	}

	var resp recentTracksResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decoding recent tracks: %w", err)
	}

	out := &RecentTracksPage{
		Page:       resp.RecentTracks.Attr.Page,
		TotalPages: resp.RecentTracks.Attr.TotalPages,
		Total:      resp.RecentTracks.Attr.Total,
	}
	for _, t := range resp.RecentTracks.Track {
		out.Tracks = append(out.Tracks, t.normalize())
	}
	return out, nil
}

// ArtistTopTags fetches the most-applied tags for an artist, ranked by
// popularity.
func (c *Client) ArtistTopTags(ctx context.Context, artist string) ([]Tag, error) {
	params := url.Values{
		"method": {"artist.gettoptags"},
		"artist": {artist},
		"format": {"json"},
	}

	body, err := c.get(ctx, c.tagTimeout, params)
	if err != nil {
		return nil, err
	}

	var resp topTagsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decoding top tags: %w", err)
	}
	tags := make([]Tag, 0, len(resp.TopTags.Tag))
	for _, t := range resp.TopTags.Tag {
		tags = append(tags, Tag{Name: t.Name, Count: int(t.Count)})
	}
	return tags, nil
}

func (c *Client) get(ctx context.Context, timeout time.Duration, params url.Values) ([]byte, error) {
	params.Set("api_key", c.apiKey)

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug().Str("method", params.Get("method")).Msg("calling API")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	// The API reports failures in-band, frequently under a 200 status.
	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error != 0 {
		return nil, &Error{Code: apiErr.Error, Message: apiErr.Message}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return body, nil
}
