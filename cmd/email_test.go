/*
Copyright 2020 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package cmd

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/sircorndog/scrobble-analysis/internal/analysis"
)

func emailTestMonths() []*analysis.Month {
	return []*analysis.Month{
		{
			Year:              2023,
			Month:             time.December,
			Size:              2,
			GenreDistribution: []analysis.Count{{Name: "pop punk", Count: 2}, {Name: "rock", Count: 2}},
			MoodDistribution:  []analysis.Count{{Name: "energetic", Count: 2}},
			PrimaryMood:       "energetic",
		},
		{
			Year:              2024,
			Month:             time.January,
			Size:              3,
			GenreDistribution: []analysis.Count{{Name: "singer-songwriter", Count: 3}, {Name: "folk", Count: 3}},
			MoodDistribution:  []analysis.Count{{Name: "introspective", Count: 3}},
			PrimaryMood:       "introspective",
		},
	}
}

func TestGenerateEmailContent(t *testing.T) {
	start := time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	config := SendEmailConfig{
		User:  "testuser",
		Start: start,
		End:   end,
	}

	subject, body := generateEmailContent(config, emailTestMonths())

	expectedSubject := fmt.Sprintf("Listening report for testuser %s to %s", start.Format("2006-01-02"), end.Format("2006-01-02"))
	if subject != expectedSubject {
		t.Errorf("Subject mismatch.\nGot: %s\nWant: %s", subject, expectedSubject)
	}

	if !strings.Contains(body, "<h2>Listening analysis for testuser:</h2>") {
		t.Error("Body missing header")
	}
	if !strings.Contains(body, "<td>December 2023</td>") {
		t.Error("Body missing December row")
	}
	if !strings.Contains(body, "<td>energetic</td>") {
		t.Error("Body missing primary mood")
	}
	if !strings.Contains(body, "<td>pop punk, rock</td>") {
		t.Error("Body missing top genres")
	}
	if !strings.Contains(body, "<div>5 scrobbles across 2 months.</div>") {
		t.Error("Body missing summary")
	}
}

func TestGenerateEmailContentNoRange(t *testing.T) {
	config := SendEmailConfig{User: "testuser"}

	subject, _ := generateEmailContent(config, emailTestMonths())
	if subject != "Listening report for testuser" {
		t.Errorf("expected subject without dates, got %s", subject)
	}
}

func TestGenerateEmailContentUnknownMood(t *testing.T) {
	months := []*analysis.Month{{Year: 2024, Month: time.March, Size: 1}}
	config := SendEmailConfig{User: "testuser"}

	_, body := generateEmailContent(config, months)
	if !strings.Contains(body, "<td>unknown</td>") {
		t.Error("Body missing unknown mood fallback")
	}
}

func TestFilterMonths(t *testing.T) {
	months := emailTestMonths()

	all := filterMonths(months, time.Time{}, time.Time{})
	if len(all) != 2 {
		t.Errorf("expected 2 months with an open range, got %d", len(all))
	}

	onlyJanuary := filterMonths(months, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Time{})
	if len(onlyJanuary) != 1 || onlyJanuary[0].Month != time.January {
		t.Errorf("expected only January 2024, got %d months", len(onlyJanuary))
	}

	onlyDecember := filterMonths(months, time.Time{}, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	if len(onlyDecember) != 1 || onlyDecember[0].Month != time.December {
		t.Errorf("expected only December 2023, got %d months", len(onlyDecember))
	}

	midMonth := filterMonths(months, time.Date(2023, 12, 15, 0, 0, 0, 0, time.UTC), time.Time{})
	if len(midMonth) != 2 {
		t.Errorf("expected a mid-month start to keep the overlapping month, got %d months", len(midMonth))
	}
}

func TestEmailCommandRequiresFrom(t *testing.T) {
	// Reset viper
	viper.Reset()
	viper.Set("from", "")

	err := emailCmd.PreRunE(emailCmd, []string{"test@example.com"})
	if err == nil {
		t.Error("Expected error when from is missing, got nil")
	} else if err.Error() != "required flag(s) \"from\" not set" {
		t.Errorf("Expected 'required flag(s) \"from\" not set', got %v", err)
	}

	viper.Set("from", "reports@example.com")
	err = emailCmd.PreRunE(emailCmd, []string{"test@example.com"})
	if err != nil {
		t.Errorf("Expected nil when from is set, got %v", err)
	}
}
