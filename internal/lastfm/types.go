package lastfm

import (
	"encoding/json"
	"strconv"
)

// Track is a single entry in a user's listening history, normalized from
// the wire format's several equivalent encodings.
type Track struct {
	Name       string
	Artist     string
	Album      string
	UTS        int64
	NowPlaying bool
}

// Tag is one weighted genre tag attached to an artist.
type Tag struct {
	Name  string
	Count int
}

// RecentTracksPage is one page of the recent-tracks feed.
type RecentTracksPage struct {
	Tracks     []Track
	Page       int
	TotalPages int
	Total      int
}

// flexName decodes a field the API serves either as an object keyed
// "name" or "#text", or as a bare string in older payloads.
type flexName string

func (f *flexName) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexName(s)
		return nil
	}
	var obj struct {
		Name string `json:"name"`
		Text string `json:"#text"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	if obj.Name != "" {
		*f = flexName(obj.Name)
	} else {
		*f = flexName(obj.Text)
	}
	return nil
}

type rawTrack struct {
	Name   string   `json:"name"`
	Artist flexName `json:"artist"`
	Album  flexName `json:"album"`
	Date   struct {
		UTS string `json:"uts"`
	} `json:"date"`
	Attr struct {
		NowPlaying string `json:"nowplaying"`
	} `json:"@attr"`
}

func (t rawTrack) normalize() Track {
	uts, _ := strconv.ParseInt(t.Date.UTS, 10, 64)
	return Track{
		Name:       t.Name,
		Artist:     string(t.Artist),
		Album:      string(t.Album),
		UTS:        uts,
		NowPlaying: t.Attr.NowPlaying == "true",
	}
}

// trackList tolerates the API collapsing a single-element track array
// into a bare object.
type trackList []rawTrack

func (l *trackList) UnmarshalJSON(data []byte) error {
	var many []rawTrack
	if err := json.Unmarshal(data, &many); err == nil {
		*l = many
		return nil
	}
	var one rawTrack
	if err := json.Unmarshal(data, &one); err != nil {
		return err
	}
	*l = trackList{one}
	return nil
}

type recentTracksResponse struct {
	RecentTracks struct {
		Track trackList `json:"track"`
		Attr  struct {
			Page       int `json:"page,string"`
			TotalPages int `json:"totalPages,string"`
			Total      int `json:"total,string"`
		} `json:"@attr"`
	} `json:"recenttracks"`
}

// flexInt decodes a count the API serves as either a number or a
// numeric string.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*f = flexInt(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*f = flexInt(n)
	return nil
}

type rawTag struct {
	Name  string  `json:"name"`
	Count flexInt `json:"count"`
}

type topTagsResponse struct {
	TopTags struct {
		Tag []rawTag `json:"tag"`
	} `json:"toptags"`
}

// apiError is the in-band error envelope, e.g. {"error": 29, "message":
// "Rate limit exceeded"}.
type apiError struct {
	Error   int    `json:"error"`
	Message string `json:"message"`
}
