// Package config loads voyage settings from defaults, an optional YAML file
// and VOYAGE_* environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/sadopc/voyage/internal/lookup"
	"github.com/sadopc/voyage/internal/store"
	"github.com/sadopc/voyage/internal/trip"
)

// Config holds every setting the application reads.
type Config struct {
	DBPath    string `mapstructure:"db_path"`
	LogFile   string `mapstructure:"log_file"`
	LogLevel  string `mapstructure:"log_level"`
	ExportDir string `mapstructure:"export_dir"`

	// APIKey enables place and weather lookups. Without it the app runs
	// offline.
	APIKey        string        `mapstructure:"api_key"`
	Model         string        `mapstructure:"model"`
	LookupTimeout time.Duration `mapstructure:"lookup_timeout"`
	WeatherDays   int           `mapstructure:"weather_days"`

	Trip Trip `mapstructure:"trip"`

	rng trip.Range
}

// Trip describes the one trip being planned.
type Trip struct {
	Start          string  `mapstructure:"start"`
	End            string  `mapstructure:"end"`
	Location       string  `mapstructure:"location"`
	ExchangeRate   float64 `mapstructure:"exchange_rate"`
	BudgetLimitMYR float64 `mapstructure:"budget_limit_myr"`
}

// Range is the validated trip date range.
func (c Config) Range() trip.Range { return c.rng }

// Region is the last comma-separated part of the trip location, e.g.
// "Taiwan" for "Taipei, Taiwan".
func (c Config) Region() string {
	parts := strings.Split(c.Trip.Location, ",")
	return strings.TrimSpace(parts[len(parts)-1])
}

// WeatherDates are the first WeatherDays dates of the trip.
func (c Config) WeatherDates() []string {
	if c.WeatherDays <= 0 {
		return nil
	}
	return c.rng.Dates(c.WeatherDays)
}

func setDefaults(v *viper.Viper) {
	dbPath, err := store.DefaultDBPath()
	if err != nil {
		dbPath = "voyage.db"
	}
	v.SetDefault("db_path", dbPath)
	v.SetDefault("log_file", filepath.Join(filepath.Dir(dbPath), "voyage.log"))
	v.SetDefault("log_level", "info")
	v.SetDefault("export_dir", ".")
	v.SetDefault("api_key", "")
	v.SetDefault("model", lookup.DefaultModel)
	v.SetDefault("lookup_timeout", 30*time.Second)
	v.SetDefault("weather_days", 3)

	v.SetDefault("trip.start", "2025-12-15")
	v.SetDefault("trip.end", "2026-01-05")
	v.SetDefault("trip.location", "Taipei, Taiwan")
	v.SetDefault("trip.exchange_rate", trip.DefaultExchangeRate)
	v.SetDefault("trip.budget_limit_myr", trip.DefaultBudgetLimitMYR)
}

// Load reads the configuration. configFile may be empty, in which case
// config.yaml in the voyage config directory is used when it exists.
func Load(configFile string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("VOYAGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("api_key", "VOYAGE_API_KEY", "GEMINI_API_KEY", "API_KEY"); err != nil {
		return Config{}, fmt.Errorf("bind api key env: %w", err)
	}

	if configFile != "" {
		path, err := homedir.Expand(configFile)
		if err != nil {
			return Config{}, fmt.Errorf("expand config path: %w", err)
		}
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(filepath.Dir(v.GetString("db_path")))
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.finish(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) finish() error {
	rng, err := trip.NewRange(c.Trip.Start, c.Trip.End)
	if err != nil {
		return fmt.Errorf("trip dates: %w", err)
	}
	c.rng = rng

	for _, p := range []*string{&c.DBPath, &c.LogFile, &c.ExportDir} {
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return fmt.Errorf("expand path %q: %w", *p, err)
		}
		*p = expanded
	}
	if c.Model == "" {
		c.Model = lookup.DefaultModel
	}
	return nil
}
