package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Database configuration
	DBPath string `long:"db-path" env:"DB_PATH" default:"./diynews.db" description:"Path to the SQLite database file"`

	// Application configuration
	SubscriptionsDir string `long:"subscriptions-dir" env:"SUBSCRIPTIONS_DIR" default:"./subscriptions" description:"Directory containing subscription seed files"`
	Port             string `long:"port" env:"PORT" default:"5000" description:"HTTP server port"`

	// Ingestion configuration
	DaysToFetch  int `long:"days-to-fetch" env:"DAYS_TO_FETCH" default:"7" description:"Recency window in days for collected posts"`
	MaxEntries   int `long:"max-entries" env:"MAX_ENTRIES" default:"10" description:"Maximum posts collected per subscription per run"`
	FetchTimeout int `long:"fetch-timeout" env:"FETCH_TIMEOUT" default:"10" description:"Per-call network timeout in seconds"`

	// External service credentials
	OpenAIAPIKey  string `long:"openai-api-key" env:"OPENAI_API_KEY" description:"OpenAI API key for post analysis (required to run a sync)"`
	YouTubeAPIKey string `long:"youtube-api-key" env:"YOUTUBE_API_KEY" description:"YouTube Data API key for channel handle lookups (optional)"`
	TwitterAPIKey string `long:"twitter-api-key" env:"TWITTER_API_KEY" description:"twitterapi.io API key for timeline fetching (optional)"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"DIY News Sync/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, Asia/Seoul)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		DBPath:           raw.DBPath,
		SubscriptionsDir: raw.SubscriptionsDir,
		Port:             raw.Port,
		DaysToFetch:      raw.DaysToFetch,
		MaxEntries:       raw.MaxEntries,
		FetchTimeout:     raw.FetchTimeout,
		OpenAIAPIKey:     raw.OpenAIAPIKey,
		YouTubeAPIKey:    raw.YouTubeAPIKey,
		TwitterAPIKey:    raw.TwitterAPIKey,
		UserAgent:        raw.UserAgent,
		Timezone:         raw.Timezone,
		Debug:            raw.Debug,
		Version:          GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
