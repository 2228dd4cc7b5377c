package lastfm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(Config{
		APIKey:  "test-api-key",
		BaseURL: server.URL + "/",
	})
}

func TestRecentTracks(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		for key, want := range map[string]string{
			"method":   "user.getRecentTracks",
			"user":     "sircorndog",
			"format":   "json",
			"limit":    "200",
			"page":     "1",
			"extended": "1",
			"api_key":  "test-api-key",
		} {
			if got := q.Get(key); got != want {
				t.Errorf("query %s = %q, want %q", key, got, want)
			}
		}
		if q.Has("from") {
			t.Errorf("query from = %q, want absent", q.Get("from"))
		}
		fmt.Fprint(w, `{
			"recenttracks": {
				"track": [
					{"name": "Jurassic Park", "artist": {"name": "Stand Atlantic"}, "album": {"#text": "F.E.A.R."}, "date": {"uts": "1703980800"}},
					{"name": "Angeles", "artist": {"name": "Elliott Smith"}, "album": {"#text": "Either/Or"}, "date": {"uts": "1703984400"}}
				],
				"@attr": {"user": "sircorndog", "page": "1", "perPage": "200", "totalPages": "3", "total": "542"}
			}
		}`)
	})

	page, err := client.RecentTracks(context.Background(), "sircorndog", 1, 200, 0)
	if err != nil {
		t.Fatalf("RecentTracks() error = %v", err)
	}

	if page.Page != 1 || page.TotalPages != 3 || page.Total != 542 {
		t.Errorf("page attrs = %d/%d/%d, want 1/3/542", page.Page, page.TotalPages, page.Total)
	}
	want := []Track{
		{Name: "Jurassic Park", Artist: "Stand Atlantic", Album: "F.E.A.R.", UTS: 1703980800},
		{Name: "Angeles", Artist: "Elliott Smith", Album: "Either/Or", UTS: 1703984400},
	}
	if !reflect.DeepEqual(page.Tracks, want) {
		t.Errorf("tracks = %+v, want %+v", page.Tracks, want)
	}
}

func TestRecentTracksFrom(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("from"); got != "1704067200" {
			t.Errorf("query from = %q, want 1704067200", got)
		}
		fmt.Fprint(w, `{"recenttracks": {"track": [], "@attr": {"page": "1", "totalPages": "0", "total": "0"}}}`)
	})

	page, err := client.RecentTracks(context.Background(), "sircorndog", 1, 200, 1704067200)
	if err != nil {
		t.Fatalf("RecentTracks() error = %v", err)
	}
	if len(page.Tracks) != 0 {
		t.Errorf("got %d tracks, want 0", len(page.Tracks))
	}
	if page.TotalPages != 0 {
		t.Errorf("TotalPages = %d, want 0", page.TotalPages)
	}
}

func TestRecentTracksShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []Track
	}{
		{
			name: "artist and album keyed by #text",
			body: `{"recenttracks": {"track": [{"name": "Chicago", "artist": {"#text": "Sufjan Stevens"}, "album": {"#text": "Illinois"}, "date": {"uts": "1704067200"}}], "@attr": {"page": "1", "totalPages": "1", "total": "1"}}}`,
			want: []Track{{Name: "Chicago", Artist: "Sufjan Stevens", Album: "Illinois", UTS: 1704067200}},
		},
		{
			name: "artist as bare string",
			body: `{"recenttracks": {"track": [{"name": "First Love / Late Spring", "artist": "Mitski", "date": {"uts": "1704070800"}}], "@attr": {"page": "1", "totalPages": "1", "total": "1"}}}`,
			want: []Track{{Name: "First Love / Late Spring", Artist: "Mitski", UTS: 1704070800}},
		},
		{
			name: "single track collapsed to object",
			body: `{"recenttracks": {"track": {"name": "Angeles", "artist": {"name": "Elliott Smith"}, "album": {"#text": "Either/Or"}, "date": {"uts": "1704153600"}}, "@attr": {"page": "1", "totalPages": "1", "total": "1"}}}`,
			want: []Track{{Name: "Angeles", Artist: "Elliott Smith", Album: "Either/Or", UTS: 1704153600}},
		},
		{
			name: "now playing entry has no date",
			body: `{"recenttracks": {"track": [{"name": "Jurassic Park", "artist": {"name": "Stand Atlantic"}, "@attr": {"nowplaying": "true"}}], "@attr": {"page": "1", "totalPages": "1", "total": "1"}}}`,
			want: []Track{{Name: "Jurassic Park", Artist: "Stand Atlantic", NowPlaying: true}},
		},
		{
			name: "empty page",
			body: `{"recenttracks": {"track": [], "@attr": {"page": "4", "totalPages": "3", "total": "542"}}}`,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, tt.body)
			})
			page, err := client.RecentTracks(context.Background(), "sircorndog", 1, 200, 0)
			if err != nil {
				t.Fatalf("RecentTracks() error = %v", err)
			}
			if !reflect.DeepEqual(page.Tracks, tt.want) {
				t.Errorf("tracks = %+v, want %+v", page.Tracks, tt.want)
			}
		})
	}
}

func TestRecentTracksAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"error": 29, "message": "Rate limit exceeded"}`)
	})

	_, err := client.RecentTracks(context.Background(), "sircorndog", 1, 200, 0)
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("RecentTracks() error = %v, want *Error", err)
	}
	if apiErr.Code != ErrCodeRateLimited {
		t.Errorf("code = %d, want %d", apiErr.Code, ErrCodeRateLimited)
	}
}

func TestRecentTracksBadStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	})

	_, err := client.RecentTracks(context.Background(), "sircorndog", 1, 200, 0)
	if err == nil {
		t.Fatal("RecentTracks() error = nil, want error")
	}
}

func TestArtistTopTags(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		for key, want := range map[string]string{
			"method": "artist.gettoptags",
			"artist": "Stand Atlantic",
			"format": "json",
		} {
			if got := q.Get(key); got != want {
				t.Errorf("query %s = %q, want %q", key, got, want)
			}
		}
		fmt.Fprint(w, `{"toptags": {"tag": [{"name": "Pop punk", "count": 100}, {"name": "rock", "count": 64}], "@attr": {"artist": "Stand Atlantic"}}}`)
	})

	tags, err := client.ArtistTopTags(context.Background(), "Stand Atlantic")
	if err != nil {
		t.Fatalf("ArtistTopTags() error = %v", err)
	}
	want := []Tag{{Name: "Pop punk", Count: 100}, {Name: "rock", Count: 64}}
	if !reflect.DeepEqual(tags, want) {
		t.Errorf("tags = %+v, want %+v", tags, want)
	}
}

func TestArtistTopTagsStringCounts(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"toptags": {"tag": [{"name": "pop punk", "count": "100"}, {"name": "rock", "count": "80"}]}}`)
	})

	tags, err := client.ArtistTopTags(context.Background(), "Stand Atlantic")
	if err != nil {
		t.Fatalf("ArtistTopTags() error = %v", err)
	}
	want := []Tag{{Name: "pop punk", Count: 100}, {Name: "rock", Count: 80}}
	if !reflect.DeepEqual(tags, want) {
		t.Errorf("tags = %+v, want %+v", tags, want)
	}
}

func TestArtistTopTagsAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"error": 6, "message": "The artist you supplied could not be found"}`)
	})

	_, err := client.ArtistTopTags(context.Background(), "No Such Band")
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("ArtistTopTags() error = %v, want *Error", err)
	}
	if apiErr.Code != ErrCodeInvalidParams {
		t.Errorf("code = %d, want %d", apiErr.Code, ErrCodeInvalidParams)
	}
}

func TestTimeoutIsTransient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	t.Cleanup(server.Close)

	client := New(Config{
		APIKey:      "test-api-key",
		BaseURL:     server.URL + "/",
		PageTimeout: 20 * time.Millisecond,
	})

	_, err := client.RecentTracks(context.Background(), "sircorndog", 1, 200, 0)
	if err == nil {
		t.Fatal("RecentTracks() error = nil, want timeout")
	}
	if !IsTransient(err) {
		t.Errorf("IsTransient(%v) = false, want true", err)
	}
}

func TestIsTransient(t *testing.T) {
	if IsTransient(nil) {
		t.Error("IsTransient(nil) = true, want false")
	}
	if !IsTransient(&Error{Code: ErrCodeOperationFailed, Message: "backend error"}) {
		t.Error("IsTransient(*Error) = false, want true")
	}
	if !IsTransient(fmt.Errorf("page 3: %w", &Error{Code: ErrCodeServiceOffline})) {
		t.Error("IsTransient(wrapped *Error) = false, want true")
	}
	if IsTransient(errors.New("decoding recent tracks: unexpected EOF")) {
		t.Error("IsTransient(decode error) = true, want false")
	}
}
