package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sircorndog/scrobble-analysis/internal/analysis"
	"github.com/sircorndog/scrobble-analysis/internal/mood"
)

const (
	monthlyCSVName   = "monthly_analysis.csv"
	scrobblesCSVName = "all_scrobbles.csv"
)

// ExportCSV writes the per-month summary and the full scrobble detail to CSV
// files under dir, creating it if needed. It returns the two file paths.
func ExportCSV(dir string, months []*analysis.Month) (string, string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", "", fmt.Errorf("creating output directory %s: %w", dir, err)
	}

	summary := filepath.Join(dir, monthlyCSVName)
	if err := writeMonthlyCSV(summary, months); err != nil {
		return "", "", err
	}

	detail := filepath.Join(dir, scrobblesCSVName)
	if err := writeScrobblesCSV(detail, months); err != nil {
		return "", "", err
	}

	return summary, detail, nil
}

func writeMonthlyCSV(path string, months []*analysis.Month) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"Year", "Month", "Scrobbles", "Primary Mood", "Top Genres", "Mood Distribution"}); err != nil {
		return err
	}
	for _, m := range months {
		genres := names(m.GenreDistribution)
		if len(genres) > 5 {
			genres = genres[:5]
		}
		moods := make([]string, 0, len(m.MoodDistribution))
		for _, c := range m.MoodDistribution {
			moods = append(moods, fmt.Sprintf("%s:%d", c.Name, c.Count))
		}

		record := []string{
			strconv.Itoa(m.Year),
			strconv.Itoa(int(m.Month)),
			strconv.Itoa(m.Size),
			primaryMood(m),
			strings.Join(genres, "; "),
			strings.Join(moods, "; "),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func writeScrobblesCSV(path string, months []*analysis.Month) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"Date", "Artist", "Track", "Album", "Mood", "Genres"}); err != nil {
		return err
	}
	for _, m := range months {
		for _, t := range m.Tracks {
			genres := t.Genres
			if len(genres) > 5 {
				genres = genres[:5]
			}

			record := []string{
				t.Date,
				t.Artist,
				t.Track,
				t.Album,
				trackMood(t),
				strings.Join(genres, "; "),
			}
			if err := w.Write(record); err != nil {
				return err
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func trackMood(t analysis.TrackInfo) string {
	if t.Mood == "" {
		return mood.Unknown
	}
	return t.Mood
}
