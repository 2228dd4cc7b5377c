package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sircorndog/scrobble-analysis/internal/analysis"
	"github.com/sircorndog/scrobble-analysis/internal/charts"
	"github.com/sircorndog/scrobble-analysis/internal/genre"
	"github.com/sircorndog/scrobble-analysis/internal/lastfm"
	"github.com/sircorndog/scrobble-analysis/internal/report"
	"github.com/sircorndog/scrobble-analysis/internal/scrobble"
)

const (
	scrobbleCacheName = "scrobble_cache.json"
	genreCacheName    = "genre_cache.json"
	bannerWidth       = 80
)

type AnalyzeConfig struct {
	User      string
	APIKey    string
	Since     string
	CacheDir  string
	OutputDir string
	UseCache  bool
	NoReport  bool
	NoCSV     bool
	Graphs    charts.Options
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Fetches scrobbles and reports genre and mood trends by month",
	Long: `Runs the full pipeline: fetch scrobble history, group it by month,
resolve artist genres, classify moods, and write the report, CSV exports,
and graphs.`,
	Run: func(cmd *cobra.Command, args []string) {
		config := AnalyzeConfig{
			User:      viper.GetString("user"),
			APIKey:    viper.GetString("api_key"),
			Since:     viper.GetString("since"),
			CacheDir:  viper.GetString("cache_dir"),
			OutputDir: viper.GetString("output_dir"),
			UseCache:  !viper.GetBool("no-cache"),
			NoReport:  viper.GetBool("no-report"),
			NoCSV:     viper.GetBool("no-csv"),
			Graphs:    graphOptionsFromFlags(),
		}

		if err := runAnalyze(config); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	var since string
	analyzeCmd.Flags().StringVar(&since, "since", "", "Only analyze scrobbles after this date (2006, 2006-01, or 2006-01-02)")
	viper.BindPFlag("since", analyzeCmd.Flags().Lookup("since"))

	var noCache bool
	analyzeCmd.Flags().BoolVar(&noCache, "no-cache", false, "Ignore cached data and fetch fresh from the API")
	viper.BindPFlag("no-cache", analyzeCmd.Flags().Lookup("no-cache"))

	var noReport bool
	analyzeCmd.Flags().BoolVar(&noReport, "no-report", false, "Skip console report generation")
	viper.BindPFlag("no-report", analyzeCmd.Flags().Lookup("no-report"))

	var noCSV bool
	analyzeCmd.Flags().BoolVar(&noCSV, "no-csv", false, "Skip CSV export")
	viper.BindPFlag("no-csv", analyzeCmd.Flags().Lookup("no-csv"))

	var noGraphs bool
	analyzeCmd.Flags().BoolVar(&noGraphs, "no-graphs", false, "Skip graph generation entirely")
	viper.BindPFlag("no-graphs", analyzeCmd.Flags().Lookup("no-graphs"))

	var graphs string
	analyzeCmd.Flags().StringVar(&graphs, "graphs", "",
		"Comma-separated list of graphs to generate. Options: "+strings.Join(charts.Names(), ", "))
	viper.BindPFlag("graphs", analyzeCmd.Flags().Lookup("graphs"))

	analyzeCmd.MarkFlagsMutuallyExclusive("no-graphs", "graphs")
}

func runAnalyze(config AnalyzeConfig) error {
	user, apiKey, err := requireCredentials(config.User, config.APIKey)
	if err != nil {
		return err
	}

	var since time.Time
	if config.Since != "" {
		parsed, err := parseSingleDatestring(config.Since)
		if err != nil {
			return fmt.Errorf("--since: %w", err)
		}
		since = parsed.Date
	}

	rule := strings.Repeat("=", bannerWidth)
	fmt.Println(rule)
	fmt.Println("LAST.FM SCROBBLE ANALYZER")
	fmt.Printf("User: %s\n", user)
	fmt.Println(rule)

	months, err := buildMonths(context.Background(), pipelineConfig{
		User:     user,
		APIKey:   apiKey,
		Since:    since,
		CacheDir: config.CacheDir,
		UseCache: config.UseCache,
	})
	if err != nil {
		return err
	}
	if len(months) == 0 {
		fmt.Println("\nNo scrobbles found. Please check your username and try again.")
		return nil
	}

	if !config.NoReport {
		if err := report.Write(os.Stdout, months); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
	}

	if !config.NoCSV {
		summary, detail, err := report.ExportCSV(config.OutputDir, months)
		if err != nil {
			return err
		}
		fmt.Printf("\nAnalysis exported to: %s\n", summary)
		fmt.Printf("Detailed scrobbles exported to: %s\n", detail)
	}

	if config.Graphs.AnyEnabled() {
		fmt.Println("\nGenerating graphs")
		graphsDir, err := charts.Generate(months, config.OutputDir, config.Graphs)
		if err != nil {
			return err
		}
		if graphsDir != "" {
			fmt.Printf("All graphs saved to: %s\n", graphsDir)
		}
	} else {
		fmt.Println("\nNo graphs selected for generation")
	}

	fmt.Println("\n" + rule)
	fmt.Println("Analysis complete!")
	fmt.Printf("Results saved to: %s\n", config.OutputDir)
	fmt.Println(rule)
	return nil
}

type pipelineConfig struct {
	User     string
	APIKey   string
	Since    time.Time
	CacheDir string
	UseCache bool
}

// buildMonths fetches the scrobble history and returns it grouped by month,
// enriched with genres and moods. The result is empty when the user has no
// scrobbles.
func buildMonths(ctx context.Context, config pipelineConfig) ([]*analysis.Month, error) {
	logger := newLogger()
	client := lastfm.New(lastfm.Config{APIKey: config.APIKey, Logger: logger})

	fetcher := scrobble.NewFetcher(scrobble.FetcherConfig{
		Client:    client,
		CachePath: filepath.Join(config.CacheDir, scrobbleCacheName),
		Username:  config.User,
		Since:     config.Since,
		UseCache:  config.UseCache,
		Logger:    logger,
	})
	scrobbles, err := fetcher.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching scrobbles: %w", err)
	}
	if len(scrobbles) == 0 {
		return nil, nil
	}

	fmt.Println("\nGrouping scrobbles by month")
	months := analysis.GroupByMonth(scrobbles)
	fmt.Printf("Found %d months of data\n", len(months))

	genreCachePath := filepath.Join(config.CacheDir, genreCacheName)
	genreCache, err := genre.LoadCache(genreCachePath)
	if err != nil {
		return nil, err
	}

	resolver := genre.NewResolver(genre.ResolverConfig{
		Client: client,
		Cache:  genreCache,
		Logger: logger,
	})
	enricher := analysis.NewEnricher(analysis.EnricherConfig{
		Resolver:  resolver,
		CachePath: genreCachePath,
		Logger:    logger,
	})
	if err := enricher.Enrich(ctx, months); err != nil {
		return nil, fmt.Errorf("analyzing months: %w", err)
	}

	return months, nil
}

func graphOptionsFromFlags() charts.Options {
	if viper.GetBool("no-graphs") {
		return charts.NoneEnabled()
	}
	list := viper.GetString("graphs")
	if list == "" {
		return charts.AllEnabled()
	}

	opts := charts.NoneEnabled()
	for _, name := range strings.Split(list, ",") {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		if err := opts.Enable(name); err != nil {
			fmt.Printf("Warning: %v, skipping\n", err)
		}
	}
	return opts
}

// requireCredentials prompts for the username and API key when the flags and
// config file did not provide them.
func requireCredentials(user, apiKey string) (string, string, error) {
	if user == "" {
		entered, err := promptFor("Enter your last.fm username: ")
		if err != nil {
			return "", "", err
		}
		if entered == "" {
			return "", "", fmt.Errorf("username is required")
		}
		user = entered
	}

	if apiKey == "" {
		entered, err := promptFor("Enter your last.fm API key: ")
		if err != nil {
			return "", "", err
		}
		if entered == "" {
			return "", "", fmt.Errorf("API key is required (create one at https://www.last.fm/api/account/create)")
		}
		apiKey = entered
	}

	return user, apiKey, nil
}

func promptFor(label string) (string, error) {
	reader := bufio.NewReader(os.Stdin)
	fmt.Print(label)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
