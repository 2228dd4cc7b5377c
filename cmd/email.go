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
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sircorndog/scrobble-analysis/internal/analysis"
	"github.com/sircorndog/scrobble-analysis/internal/mood"
)

type SendEmailConfig struct {
	User        string
	APIKey      string
	From        string
	To          string
	CacheDir    string
	DryRun      bool
	SendGridKey string
	Start       time.Time
	End         time.Time
}

var emailCmd = &cobra.Command{
	Use:   "email <address> [date] [date]",
	Short: "Sends the monthly listening analysis as an email report",
	Long: `Emails the per-month scrobble, genre, and mood summary to the given address.
  Optional date arguments narrow the range (e.g. '2023' or '2023-01 2023-06').
  If no dates are provided, the whole listening history is included.`,
	Args: cobra.RangeArgs(1, 3),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if viper.GetString("from") == "" {
			return fmt.Errorf("required flag(s) \"from\" not set")
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		var start, end time.Time
		var err error
		if len(args) > 1 {
			start, end, err = parseDateRangeFromArgs(args[1:])
			if err != nil {
				fmt.Printf("Error parsing dates: %v\n", err)
				os.Exit(1)
			}
		}

		config := SendEmailConfig{
			User:        viper.GetString("user"),
			APIKey:      viper.GetString("api_key"),
			From:        viper.GetString("from"),
			To:          args[0],
			CacheDir:    viper.GetString("cache_dir"),
			DryRun:      viper.GetBool("dryRun"),
			SendGridKey: viper.GetString("sendgrid_api_key"),
			Start:       start,
			End:         end,
		}
		if err := sendEmail(config); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(emailCmd)

	var from string
	emailCmd.Flags().StringVar(&from, "from", "", "From email address")
	viper.BindPFlag("from", emailCmd.Flags().Lookup("from"))

	var sendgridKey string
	emailCmd.Flags().StringVar(&sendgridKey, "sendgrid_api_key", "", "SendGrid API key used to send the report")
	viper.BindPFlag("sendgrid_api_key", emailCmd.Flags().Lookup("sendgrid_api_key"))

	var dryRun bool
	emailCmd.Flags().BoolVarP(&dryRun, "dry_run", "n", false, "When true, just print instead of emailing")
	viper.BindPFlag("dryRun", emailCmd.Flags().Lookup("dry_run"))
}

func sendEmail(config SendEmailConfig) error {
	user, apiKey, err := requireCredentials(config.User, config.APIKey)
	if err != nil {
		return err
	}

	months, err := buildMonths(context.Background(), pipelineConfig{
		User:     user,
		APIKey:   apiKey,
		Since:    config.Start,
		CacheDir: config.CacheDir,
		UseCache: true,
	})
	if err != nil {
		return err
	}
	months = filterMonths(months, config.Start, config.End)
	if len(months) == 0 {
		return fmt.Errorf("no listening data for %q in the requested range", user)
	}

	config.User = user
	subject, out := generateEmailContent(config, months)

	if config.DryRun {
		fmt.Printf("Would have sent email: \nsubject: %s\n%s\n", subject, out)
		return nil
	}

	if config.SendGridKey == "" {
		return fmt.Errorf("sendgrid_api_key must be set in order to send emails")
	}

	from := mail.NewEmail("scrobble-analysis", config.From)
	to := mail.NewEmail(config.To, config.To)
	message := mail.NewSingleEmail(from, subject, to, "Open as HTML to view the report.", out)
	client := sendgrid.NewSendClient(config.SendGridKey)
	_, err = client.Send(message)
	if err != nil {
		return fmt.Errorf("sendEmail: %w", err)
	}

	fmt.Printf("Sent report to %s\n", config.To)
	return nil
}

// filterMonths keeps the months that overlap [start, end). Zero bounds are
// open-ended.
func filterMonths(months []*analysis.Month, start, end time.Time) []*analysis.Month {
	if start.IsZero() && end.IsZero() {
		return months
	}
	kept := make([]*analysis.Month, 0, len(months))
	for _, m := range months {
		monthStart := time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
		monthEnd := monthStart.AddDate(0, 1, 0)
		if !start.IsZero() && !monthEnd.After(start) {
			continue
		}
		if !end.IsZero() && !monthStart.Before(end) {
			continue
		}
		kept = append(kept, m)
	}
	return kept
}

func generateEmailContent(config SendEmailConfig, months []*analysis.Month) (subject string, body string) {
	out := `
<html>
  <head>
<style>
td {
  padding: 0.1em 0.2em;
}
table, th, td {
  border: 1px solid black;
  border-collapse: collapse;
}
</style>
  </head>
  <body>
`
	out += fmt.Sprintf("<h2>Listening analysis for %s:</h2>\n", config.User)
	out += `
			<table>
				<thead>
					<tr>
`
	for _, header := range []string{"Month", "Scrobbles", "Primary Mood", "Top Genres"} {
		out += fmt.Sprintf("<th>%s</th>", header)
	}
	out += `				</tr>
			</thead>`

	total := 0
	for _, m := range months {
		total += m.Size

		primary := m.PrimaryMood
		if primary == "" {
			primary = mood.Unknown
		}
		genres := make([]string, 0, 3)
		for _, g := range m.GenreDistribution {
			if len(genres) == 3 {
				break
			}
			genres = append(genres, g.Name)
		}

		out += "<tr>\n"
		out += fmt.Sprintf("<td>%s</td>\n", m.Name())
		out += fmt.Sprintf("<td>%d</td>\n", m.Size)
		out += fmt.Sprintf("<td>%s</td>\n", primary)
		out += fmt.Sprintf("<td>%s</td>\n", strings.Join(genres, ", "))
		out += "</tr>\n"
	}
	out += `
				</tbody>
			</table>
`
	out += fmt.Sprintf("<div>%d scrobbles across %d months.</div>\n", total, len(months))
	out += `  </body>
</html>
`

	subject = fmt.Sprintf("Listening report for %s", config.User)
	if !config.Start.IsZero() && !config.End.IsZero() {
		subject = fmt.Sprintf("%s %s to %s", subject, config.Start.Format("2006-01-02"), config.End.Format("2006-01-02"))
	}
	return subject, out
}
