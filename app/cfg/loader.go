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
	// Application configuration
	RecipesDir       string `long:"recipes-dir" env:"RECIPES_DIR" default:"./recipes" description:"Directory containing recipe configuration files"`
	DBPath           string `long:"db-path" env:"DB_PATH" default:"./recipe-rack.db" description:"Path to the SQLite registry database"`
	Port             string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	BaseUrl          string `long:"base-url" env:"BASE_URL" description:"Public base URL for the service (e.g., https://recipes.example.com)"`
	WorkerCount      int    `long:"worker-count" env:"WORKER_COUNT" default:"3" description:"Number of background workers for registry tasks"`
	RescanInterval   int    `long:"rescan-interval" env:"RESCAN_INTERVAL" default:"300" description:"Recipe directory rescan interval in seconds"`
	APIAccessKey     string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`
	MinRecipeVersion int    `long:"min-recipe-version" env:"MIN_RECIPE_VERSION" default:"1" description:"Reject recipes below this version"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Recipe Rack/1.0" description:"User agent string reported to consumers"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
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
		RecipesDir:       raw.RecipesDir,
		DBPath:           raw.DBPath,
		Port:             raw.Port,
		BaseUrl:          raw.BaseUrl,
		WorkerCount:      raw.WorkerCount,
		RescanInterval:   raw.RescanInterval,
		APIAccessKey:     raw.APIAccessKey,
		MinRecipeVersion: raw.MinRecipeVersion,
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
