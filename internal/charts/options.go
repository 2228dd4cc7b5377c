package charts

import "fmt"

// Options selects which graphs Generate renders. The zero value renders
// nothing.
type Options struct {
	Activity      bool
	MoodTrends    bool
	GenresByYear  bool
	GenresOverall bool
	MoodTimeline  bool
	TopArtists    bool
	DayOfWeek     bool
	HourOfDay     bool
	Dashboard     bool
}

// AllEnabled returns Options with every graph selected.
func AllEnabled() Options {
	return Options{
		Activity:      true,
		MoodTrends:    true,
		GenresByYear:  true,
		GenresOverall: true,
		MoodTimeline:  true,
		TopArtists:    true,
		DayOfWeek:     true,
		HourOfDay:     true,
		Dashboard:     true,
	}
}

// NoneEnabled returns Options with no graph selected.
func NoneEnabled() Options {
	return Options{}
}

// AnyEnabled reports whether at least one graph is selected.
func (o Options) AnyEnabled() bool {
	return o != Options{}
}

// Names lists the selector names accepted by Enable, in render order.
func Names() []string {
	return []string{
		"activity",
		"mood_trends",
		"genres_by_year",
		"genres_overall",
		"mood_timeline",
		"top_artists",
		"day_of_week",
		"hour_of_day",
		"dashboard",
	}
}

// Enable turns on the graph with the given selector name.
func (o *Options) Enable(name string) error {
	switch name {
	case "activity":
		o.Activity = true
	case "mood_trends":
		o.MoodTrends = true
	case "genres_by_year":
		o.GenresByYear = true
	case "genres_overall":
		o.GenresOverall = true
	case "mood_timeline":
		o.MoodTimeline = true
	case "top_artists":
		o.TopArtists = true
	case "day_of_week":
		o.DayOfWeek = true
	case "hour_of_day":
		o.HourOfDay = true
	case "dashboard":
		o.Dashboard = true
	default:
		return fmt.Errorf("unknown graph %q", name)
	}
	return nil
}
