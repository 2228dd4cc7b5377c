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
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sircorndog/scrobble-analysis/internal/lastfm"
	"github.com/sircorndog/scrobble-analysis/internal/scrobble"
)

type FetchConfig struct {
	User     string
	APIKey   string
	After    string
	Force    bool
	CacheDir string
}

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetches scrobble history from last.fm",
	Long: `Downloads the user's scrobble history and stores it in a local JSON
cache, so later runs only request what is missing.`,
	Run: func(cmd *cobra.Command, args []string) {
		config := FetchConfig{
			User:     viper.GetString("user"),
			APIKey:   viper.GetString("api_key"),
			After:    viper.GetString("after"),
			Force:    viper.GetBool("force"),
			CacheDir: viper.GetString("cache_dir"),
		}

		if err := runFetch(config); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	var afterString string
	fetchCmd.Flags().StringVar(&afterString, "after", "", "Only get listening data after this date, in yyyy-mm-dd format")
	viper.BindPFlag("after", fetchCmd.Flags().Lookup("after"))

	var force bool
	fetchCmd.Flags().BoolVarP(&force, "force", "f", false, "Fetch all listening data, regardless of what is already cached")
	viper.BindPFlag("force", fetchCmd.Flags().Lookup("force"))
}

func runFetch(config FetchConfig) error {
	user, apiKey, err := requireCredentials(config.User, config.APIKey)
	if err != nil {
		return err
	}

	var after time.Time
	if len(config.After) > 0 {
		parsed, err := parseSingleDatestring(config.After)
		if err != nil {
			return fmt.Errorf("--after: %w", err)
		}
		after = parsed.Date
	}

	logger := newLogger()
	client := lastfm.New(lastfm.Config{APIKey: apiKey, Logger: logger})

	fmt.Printf("Updating scrobble cache for %q\n", user)
	fetcher := scrobble.NewFetcher(scrobble.FetcherConfig{
		Client:    client,
		CachePath: filepath.Join(config.CacheDir, scrobbleCacheName),
		Username:  user,
		Since:     after,
		UseCache:  !config.Force,
		Logger:    logger,
	})
	scrobbles, err := fetcher.Fetch(context.Background())
	if err != nil {
		return fmt.Errorf("fetching recent tracks: %w", err)
	}

	if len(scrobbles) == 0 {
		fmt.Println("No scrobbles found")
		return nil
	}

	oldest := scrobbles[0]
	newest := scrobbles[len(scrobbles)-1]
	fmt.Printf("Cached %d scrobbles (%s to %s)\n", len(scrobbles),
		oldest.Time().Format("2006-01-02"), newest.Time().Format("2006-01-02"))
	return nil
}
