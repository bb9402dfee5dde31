package cfg

import (
	"cmp"
	"errors"
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
	// Storage
	Store         string `long:"store" env:"STORE" default:"sqlite" choice:"sqlite" choice:"postgres" choice:"redis" choice:"memory" description:"Article store backend (memory keeps nothing after exit)"`
	DBPath        string `long:"db-path" env:"DB_PATH" default:"./data/headlines.db" description:"SQLite database file"`
	DatabaseURL   string `long:"database-url" env:"DATABASE_URL" description:"PostgreSQL connection string"`
	RedisAddr     string `long:"redis-addr" env:"REDIS_ADDR" default:"localhost:6379" description:"Redis address"`
	RedisPassword string `long:"redis-password" env:"REDIS_PASSWORD" description:"Redis password"`
	RedisDB       int    `long:"redis-db" env:"REDIS_DB" default:"0" description:"Redis database number"`

	// Sources
	SourcesDir string `long:"sources-dir" env:"SOURCES_DIR" default:"./sources" description:"Directory containing source definition files"`
	NewsAPIKey string `long:"news-api-key" env:"NEWS_API_KEY" description:"newsapi.org API key"`
	NewsAPIURL string `long:"news-api-url" env:"NEWS_API_URL" description:"Top-headlines URL used when no source definitions exist"`

	// Ingestion
	KeyScheme         string `long:"key-scheme" env:"KEY_SCHEME" default:"base64-prefix" choice:"base64-prefix" choice:"sha256" description:"Article id derivation from the title"`
	InsertWorkers     int    `long:"insert-workers" env:"INSERT_WORKERS" default:"4" description:"Concurrent inserts per ingest run"`
	WorkerCount       int    `long:"worker-count" env:"WORKER_COUNT" default:"2" description:"Number of background workers for scheduled ingestion"`
	SchedulerInterval int    `long:"scheduler-interval" env:"SCHEDULER_INTERVAL" default:"60" description:"Scheduler interval in seconds"`

	// Application configuration
	Port      string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Headline Comb/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for log timestamps (e.g., UTC, America/New_York)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`

	Ingest   struct{} `command:"ingest" description:"Fetch headlines once, store new articles and exit"`
	Serve    struct{} `command:"serve" description:"Serve the read-only news API"`
	Schedule struct{} `command:"schedule" description:"Ingest on a schedule and expose the ingest trigger"`
}

// Reported tells whether err was already printed by the flags parser.
func Reported(err error) bool {
	var flagsErr *flags.Error
	return errors.As(err, &flagsErr)
}

// Load parses args and the environment. It returns nil, nil when help was requested.
func Load(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if parser.Active == nil {
		return nil, fmt.Errorf("failed to parse configuration: no command given")
	}

	cfg := &Cfg{
		Command:           parser.Active.Name,
		Store:             raw.Store,
		DBPath:            raw.DBPath,
		DatabaseURL:       raw.DatabaseURL,
		RedisAddr:         raw.RedisAddr,
		RedisPassword:     raw.RedisPassword,
		RedisDB:           raw.RedisDB,
		SourcesDir:        raw.SourcesDir,
		NewsAPIKey:        raw.NewsAPIKey,
		NewsAPIURL:        raw.NewsAPIURL,
		KeyScheme:         raw.KeyScheme,
		InsertWorkers:     raw.InsertWorkers,
		WorkerCount:       raw.WorkerCount,
		SchedulerInterval: raw.SchedulerInterval,
		Port:              raw.Port,
		UserAgent:         raw.UserAgent,
		Timezone:          raw.Timezone,
		Debug:             raw.Debug,
		Version:           GetVersion(),
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Cfg) error {
	if cfg.Store == "postgres" && cfg.DatabaseURL == "" {
		return fmt.Errorf("database URL is required for the postgres store")
	}
	if cfg.InsertWorkers <= 0 {
		return fmt.Errorf("insert workers must be positive")
	}
	if cfg.WorkerCount <= 0 {
		return fmt.Errorf("worker count must be positive")
	}
	if cfg.SchedulerInterval <= 0 {
		return fmt.Errorf("scheduler interval must be positive")
	}
	return nil
}

// ApplyTimezone sets time.Local for log output. Stored timestamps are always UTC.
func ApplyTimezone(timezone string) error {
	if timezone == "" {
		return nil
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return err
	}
	time.Local = loc
	return nil
}
