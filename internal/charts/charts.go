// Package charts renders analysis graphs as PNG files.
package charts

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sircorndog/scrobble-analysis/internal/analysis"
	"github.com/sircorndog/scrobble-analysis/internal/mood"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

type renderable interface {
	Render(chart.RendererProvider, io.Writer) error
}

// Generate renders the enabled graphs into a graphs directory under dir and
// returns that directory's path. It is a no-op when no graph is enabled or
// there is nothing to plot.
func Generate(months []*analysis.Month, dir string, opts Options) (string, error) {
	if len(months) == 0 || !opts.AnyEnabled() {
		return "", nil
	}

	graphsDir := filepath.Join(dir, "graphs")
	if err := os.MkdirAll(graphsDir, 0755); err != nil {
		return "", fmt.Errorf("creating graphs directory %s: %w", graphsDir, err)
	}

	if opts.Activity {
		if err := save(graphsDir, "scrobble_activity.png", activityChart(months)); err != nil {
			return "", err
		}
	}
	if opts.MoodTrends {
		if c, ok := moodTrendsChart(months); ok {
			if err := save(graphsDir, "mood_trends.png", c); err != nil {
				return "", err
			}
		}
	}
	if opts.GenresByYear {
		if c, ok := genresByYearChart(months); ok {
			if err := save(graphsDir, "genres_by_year.png", c); err != nil {
				return "", err
			}
		}
	}
	if opts.GenresOverall {
		if c, ok := genresOverallChart(months); ok {
			if err := save(graphsDir, "genres_overall.png", c); err != nil {
				return "", err
			}
		}
	}
	if opts.MoodTimeline {
		if err := save(graphsDir, "mood_timeline.png", moodTimelineChart(months)); err != nil {
			return "", err
		}
	}
	if opts.TopArtists {
		if c, ok := topArtistsChart(months); ok {
			if err := save(graphsDir, "top_artists.png", c); err != nil {
				return "", err
			}
		}
	}
	if opts.DayOfWeek {
		if err := save(graphsDir, "day_of_week.png", dayOfWeekChart(months)); err != nil {
			return "", err
		}
	}
	if opts.HourOfDay {
		if err := save(graphsDir, "hour_of_day.png", hourOfDayChart(months)); err != nil {
			return "", err
		}
	}
	if opts.Dashboard {
		if c, ok := dashboardChart(months); ok {
			if err := save(graphsDir, "summary_dashboard.png", c); err != nil {
				return "", err
			}
		}
	}

	return graphsDir, nil
}

func save(dir, name string, c renderable) error {
	var buf bytes.Buffer
	if err := c.Render(chart.PNG, &buf); err != nil {
		return fmt.Errorf("rendering %s: %w", name, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// activityChart draws one bar per month, colored by that month's primary
// mood.
func activityChart(months []*analysis.Month) chart.BarChart {
	bars := make([]chart.Value, 0, len(months))
	for _, m := range months {
		bars = append(bars, chart.Value{
			Value: float64(m.Size),
			Label: shortLabel(m),
			Style: barStyle(moodColor(primaryMood(m))),
		})
	}
	return chart.BarChart{
		Title:        "Monthly Scrobbles (colored by primary mood)",
		Width:        chartWidth(len(bars)),
		Height:       600,
		BarWidth:     40,
		UseBaseValue: true,
		Bars:         bars,
	}
}

// moodTrendsChart stacks each month's mood counts; the per-bar proportions
// match the month's mood share.
func moodTrendsChart(months []*analysis.Month) (chart.StackedBarChart, bool) {
	var bars []chart.StackedBar
	for _, m := range months {
		if len(m.MoodDistribution) == 0 {
			continue
		}
		values := make([]chart.Value, 0, len(m.MoodDistribution))
		for _, c := range m.MoodDistribution {
			values = append(values, chart.Value{
				Value: float64(c.Count),
				Label: c.Name,
				Style: barStyle(moodColor(c.Name)),
			})
		}
		bars = append(bars, chart.StackedBar{Name: shortLabel(m), Values: values})
	}
	if len(bars) == 0 {
		return chart.StackedBarChart{}, false
	}
	return chart.StackedBarChart{
		Title:  "Mood Distribution Over Time",
		Width:  chartWidth(len(bars)),
		Height: 600,
		Bars:   bars,
	}, true
}

func genresByYearChart(months []*analysis.Month) (chart.BarChart, bool) {
	var years []int
	byYear := make(map[int]*analysis.Counter)
	for _, m := range months {
		c := byYear[m.Year]
		if c == nil {
			c = analysis.NewCounter()
			byYear[m.Year] = c
			years = append(years, m.Year)
		}
		for _, g := range m.GenreDistribution {
			c.Add(g.Name, g.Count)
		}
	}
	sort.Ints(years)

	var bars []chart.Value
	for i, year := range years {
		color := chart.GetDefaultColor(i)
		for _, g := range byYear[year].Top(5) {
			bars = append(bars, chart.Value{
				Value: float64(g.Count),
				Label: fmt.Sprintf("%s '%02d", g.Name, year%100),
				Style: barStyle(color),
			})
		}
	}
	if len(bars) == 0 {
		return chart.BarChart{}, false
	}
	return chart.BarChart{
		Title:        "Top Genres by Year",
		Width:        chartWidth(len(bars)),
		Height:       600,
		BarWidth:     40,
		UseBaseValue: true,
		Bars:         bars,
	}, true
}

func genresOverallChart(months []*analysis.Month) (chart.PieChart, bool) {
	counts := analysis.NewCounter()
	for _, m := range months {
		for _, g := range m.GenreDistribution {
			counts.Add(g.Name, g.Count)
		}
	}
	if counts.Len() == 0 {
		return chart.PieChart{}, false
	}

	top := counts.Top(10)
	values := make([]chart.Value, 0, len(top)+1)
	for _, g := range top {
		values = append(values, chart.Value{Value: float64(g.Count), Label: g.Name})
	}
	other := 0
	for _, g := range counts.Top(0)[len(top):] {
		other += g.Count
	}
	if other > 0 {
		values = append(values, chart.Value{Value: float64(other), Label: "other"})
	}

	return chart.PieChart{
		Title:  "Overall Genre Distribution",
		Width:  800,
		Height: 800,
		Values: values,
	}, true
}

// moodTimelineChart draws a unit-height block per month in the primary
// mood's color.
func moodTimelineChart(months []*analysis.Month) chart.BarChart {
	bars := make([]chart.Value, 0, len(months))
	for _, m := range months {
		bars = append(bars, chart.Value{
			Value: 1,
			Label: shortLabel(m),
			Style: barStyle(moodColor(primaryMood(m))),
		})
	}
	return chart.BarChart{
		Title:      "Primary Mood Timeline",
		Width:      chartWidth(len(bars)),
		Height:     220,
		BarWidth:   56,
		BarSpacing: 4,
		YAxis: chart.YAxis{
			Style: chart.Style{Hidden: true},
			Range: &chart.ContinuousRange{Min: 0, Max: 1},
		},
		Bars: bars,
	}
}

func topArtistsChart(months []*analysis.Month) (chart.BarChart, bool) {
	counts := analysis.NewCounter()
	for _, m := range months {
		for _, t := range m.Tracks {
			counts.Add(t.Artist, 1)
		}
	}
	top := counts.Top(15)
	if len(top) == 0 {
		return chart.BarChart{}, false
	}

	bars := make([]chart.Value, 0, len(top))
	for i, a := range top {
		bars = append(bars, chart.Value{
			Value: float64(a.Count),
			Label: a.Name,
			Style: barStyle(chart.GetDefaultColor(i)),
		})
	}
	return chart.BarChart{
		Title:        "Top 15 Artists by Scrobble Count",
		Width:        chartWidth(len(bars)),
		Height:       600,
		BarWidth:     40,
		UseBaseValue: true,
		Bars:         bars,
	}, true
}

func dayOfWeekChart(months []*analysis.Month) chart.BarChart {
	var counts [7]int
	for _, m := range months {
		for _, t := range m.Tracks {
			// time.Weekday starts the week on Sunday; the chart starts on
			// Monday.
			counts[(int(t.Time().Weekday())+6)%7]++
		}
	}

	names := []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	bars := make([]chart.Value, 0, len(names))
	for i, name := range names {
		bars = append(bars, chart.Value{
			Value: float64(counts[i]),
			Label: name,
			Style: barStyle(chart.GetDefaultColor(i)),
		})
	}
	return chart.BarChart{
		Title:        "Listening Activity by Day of Week",
		Width:        1024,
		Height:       600,
		BarWidth:     60,
		UseBaseValue: true,
		Bars:         bars,
	}
}

func hourOfDayChart(months []*analysis.Month) chart.BarChart {
	var counts [24]int
	for _, m := range months {
		for _, t := range m.Tracks {
			counts[t.Time().Hour()]++
		}
	}

	bars := make([]chart.Value, 0, len(counts))
	for h, count := range counts {
		bars = append(bars, chart.Value{
			Value: float64(count),
			Label: fmt.Sprintf("%02d", h),
			Style: barStyle(chart.GetDefaultColor(h % 5)),
		})
	}
	return chart.BarChart{
		Title:        "Listening Activity by Hour of Day (UTC)",
		Width:        1440,
		Height:       600,
		BarWidth:     36,
		UseBaseValue: true,
		Bars:         bars,
	}
}

// dashboardChart summarizes the whole history as an overall mood pie.
func dashboardChart(months []*analysis.Month) (chart.PieChart, bool) {
	counts := analysis.NewCounter()
	for _, m := range months {
		for _, c := range m.MoodDistribution {
			counts.Add(c.Name, c.Count)
		}
	}
	if counts.Len() == 0 {
		return chart.PieChart{}, false
	}

	top := counts.Top(0)
	values := make([]chart.Value, 0, len(top))
	for _, c := range top {
		values = append(values, chart.Value{
			Value: float64(c.Count),
			Label: c.Name,
			Style: chart.Style{FillColor: moodColor(c.Name)},
		})
	}
	return chart.PieChart{
		Title:  "Overall Mood Distribution",
		Width:  800,
		Height: 800,
		Values: values,
	}, true
}

func primaryMood(m *analysis.Month) string {
	if m.PrimaryMood == "" {
		return mood.Neutral
	}
	return m.PrimaryMood
}

func moodColor(name string) drawing.Color {
	hex, ok := mood.Colors[name]
	if !ok {
		hex = mood.Colors[mood.Neutral]
	}
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}

func barStyle(c drawing.Color) chart.Style {
	return chart.Style{FillColor: c, StrokeColor: c}
}

func shortLabel(m *analysis.Month) string {
	return fmt.Sprintf("%s %d", m.Month.String()[:3], m.Year)
}

func chartWidth(bars int) int {
	if w := bars * 60; w > 1024 {
		return w
	}
	return 1024
}
