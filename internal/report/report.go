// Package report renders monthly listening analysis as console text and
// CSV files.
package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/sircorndog/scrobble-analysis/internal/analysis"
	"github.com/sircorndog/scrobble-analysis/internal/mood"
)

const (
	lineWidth    = 80
	barWidth     = 30
	topListLimit = 20
)

// Write prints the full analysis report to out: summary statistics, yearly
// and monthly breakdowns, activity and mood trends, and the top artist and
// track tables.
func Write(out io.Writer, months []*analysis.Month) error {
	fmt.Fprintf(out, "\n%s\n", strings.Repeat("=", lineWidth))
	fmt.Fprintln(out, "LAST.FM SCROBBLE ANALYSIS REPORT")
	fmt.Fprintln(out, strings.Repeat("=", lineWidth))

	if len(months) == 0 {
		fmt.Fprintln(out, "\nNo scrobbles to analyze.")
		return nil
	}

	writeSummary(out, months)

	section(out, "YEARLY ANALYSIS")
	writeYearly(out, months)

	section(out, "MONTHLY BREAKDOWN")
	writeMonthly(out, months)

	section(out, "LISTENING ACTIVITY TRENDS")
	writeActivity(out, months)

	section(out, "MOOD TRENDS OVER TIME")
	writeMoodTrends(out, months)

	section(out, "TOP ARTISTS (by scrobble count)")
	if err := writeTopArtists(out, months); err != nil {
		return err
	}

	section(out, "TOP TRACKS (by scrobble count)")
	if err := writeTopTracks(out, months); err != nil {
		return err
	}

	return nil
}

func section(out io.Writer, title string) {
	fmt.Fprintf(out, "\n%s\n", strings.Repeat("-", lineWidth))
	fmt.Fprintln(out, title)
	fmt.Fprintln(out, strings.Repeat("-", lineWidth))
}

type trackKey struct {
	artist string
	track  string
}

func writeSummary(out io.Writer, months []*analysis.Month) {
	total := 0
	artists := make(map[string]bool)
	tracks := make(map[trackKey]bool)
	for _, m := range months {
		total += m.Size
		for _, t := range m.Tracks {
			artists[t.Artist] = true
			tracks[trackKey{t.Artist, t.Track}] = true
		}
	}

	fmt.Fprintf(out, "\nTotal months analyzed: %d\n", len(months))
	fmt.Fprintf(out, "Total scrobbles: %d\n", total)
	fmt.Fprintf(out, "Unique artists: %d\n", len(artists))
	fmt.Fprintf(out, "Unique tracks: %d\n", len(tracks))
	fmt.Fprintf(out, "Date range: %s - %s\n", months[0].Name(), months[len(months)-1].Name())
	fmt.Fprintf(out, "Average scrobbles per month: %.1f\n", float64(total)/float64(len(months)))
}

func writeYearly(out io.Writer, months []*analysis.Month) {
	type yearStats struct {
		months    int
		scrobbles int
		genres    *analysis.Counter
		moods     *analysis.Counter
	}

	var years []int
	byYear := make(map[int]*yearStats)
	for _, m := range months {
		st := byYear[m.Year]
		if st == nil {
			st = &yearStats{genres: analysis.NewCounter(), moods: analysis.NewCounter()}
			byYear[m.Year] = st
			years = append(years, m.Year)
		}
		st.months++
		st.scrobbles += m.Size
		for _, c := range m.GenreDistribution {
			st.genres.Add(c.Name, c.Count)
		}
		for _, c := range m.MoodDistribution {
			st.moods.Add(c.Name, c.Count)
		}
	}
	sort.Ints(years)

	for _, year := range years {
		st := byYear[year]
		fmt.Fprintf(out, "\n%d:\n", year)
		fmt.Fprintf(out, "Months: %d\n", st.months)
		fmt.Fprintf(out, "Total scrobbles: %d\n", st.scrobbles)
		fmt.Fprintf(out, "Avg scrobbles/month: %.1f\n", float64(st.scrobbles)/float64(st.months))
		if top := st.genres.Top(5); len(top) > 0 {
			fmt.Fprintf(out, "Top genres: %s\n", strings.Join(names(top), ", "))
		}
		if top := st.moods.Top(3); len(top) > 0 {
			parts := make([]string, 0, len(top))
			for _, c := range top {
				parts = append(parts, fmt.Sprintf("%s(%d)", c.Name, c.Count))
			}
			fmt.Fprintf(out, "Mood breakdown: %s\n", strings.Join(parts, ", "))
		}
	}
}

func writeMonthly(out io.Writer, months []*analysis.Month) {
	year := 0
	for _, m := range months {
		if m.Year != year {
			year = m.Year
			fmt.Fprintf(out, "\n--- %d ---\n", year)
		}

		fmt.Fprintf(out, "\n%s:\n", m.Month.String())
		fmt.Fprintf(out, "Scrobbles: %d\n", m.Size)
		fmt.Fprintf(out, "Primary mood: %s\n", primaryMood(m))
		if top := names(m.GenreDistribution); len(top) > 0 {
			if len(top) > 3 {
				top = top[:3]
			}
			fmt.Fprintf(out, "Top genres: %s\n", strings.Join(top, ", "))
		}
	}
}

func writeActivity(out io.Writer, months []*analysis.Month) {
	quietest, busiest, total := months[0].Size, months[0].Size, 0
	for _, m := range months {
		if m.Size < quietest {
			quietest = m.Size
		}
		if m.Size > busiest {
			busiest = m.Size
		}
		total += m.Size
	}

	fmt.Fprintf(out, "\nQuietest month: %d scrobbles\n", quietest)
	fmt.Fprintf(out, "Most active month: %d scrobbles\n", busiest)
	fmt.Fprintf(out, "Average: %.1f scrobbles/month\n", float64(total)/float64(len(months)))

	fmt.Fprintln(out, "\nScrobbles by month (scaled):")
	for _, m := range months {
		bar := int(float64(m.Size) / float64(busiest) * barWidth)
		fmt.Fprintf(out, "%2d/%d: %s (%d)\n", int(m.Month), m.Year, strings.Repeat("|", bar), m.Size)
	}
}

func writeMoodTrends(out io.Writer, months []*analysis.Month) {
	fmt.Fprintln(out, "\nPrimary mood by month:")
	for _, m := range months {
		fmt.Fprintf(out, "%d/%d: %s\n", int(m.Month), m.Year, primaryMood(m))
	}
}

func writeTopArtists(out io.Writer, months []*analysis.Month) error {
	counts := analysis.NewCounter()
	for _, m := range months {
		for _, t := range m.Tracks {
			counts.Add(t.Artist, 1)
		}
	}

	table := tablewriter.NewWriter(out)
	table.Header([]string{"Artist", "Scrobbles"})
	for _, c := range counts.Top(topListLimit) {
		if err := table.Append([]string{c.Name, strconv.Itoa(c.Count)}); err != nil {
			return fmt.Errorf("rendering top artists: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("rendering top artists: %w", err)
	}
	return nil
}

func writeTopTracks(out io.Writer, months []*analysis.Month) error {
	type pairCount struct {
		artist string
		track  string
		count  int
	}

	index := make(map[trackKey]int)
	var pairs []pairCount
	for _, m := range months {
		for _, t := range m.Tracks {
			k := trackKey{t.Artist, t.Track}
			if i, ok := index[k]; ok {
				pairs[i].count++
				continue
			}
			index[k] = len(pairs)
			pairs = append(pairs, pairCount{artist: t.Artist, track: t.Track, count: 1})
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].count > pairs[j].count })
	if len(pairs) > topListLimit {
		pairs = pairs[:topListLimit]
	}

	table := tablewriter.NewWriter(out)
	table.Header([]string{"Track", "Artist", "Plays"})
	for _, p := range pairs {
		if err := table.Append([]string{p.track, p.artist, strconv.Itoa(p.count)}); err != nil {
			return fmt.Errorf("rendering top tracks: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("rendering top tracks: %w", err)
	}
	return nil
}

func names(counts []analysis.Count) []string {
	out := make([]string, 0, len(counts))
	for _, c := range counts {
		out = append(out, c.Name)
	}
	return out
}

func primaryMood(m *analysis.Month) string {
	if m.PrimaryMood == "" {
		return mood.Unknown
	}
	return m.PrimaryMood
}
