// Package config resolves the effective runtime configuration from command
// line flags, environment variables, persisted settings and defaults, in that
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/julianstephens/habitline/internal/constants"
	"github.com/julianstephens/habitline/internal/models"
	"github.com/julianstephens/habitline/internal/utils"
)

// Config is the resolved configuration for one command invocation.
type Config struct {
	APIURL          string
	Timezone        string
	Location        *time.Location
	OfflineFallback bool
	Timeout         time.Duration
}

// Overrides holds values given explicitly on the command line. Empty fields
// are unset.
type Overrides struct {
	APIURL   string
	Timezone string
	Timeout  time.Duration
}

// LoadEnv loads KEY=value pairs from the given files (default ".env") into
// the process environment without overriding variables that are already set.
// Missing files are ignored.
func LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}

// Resolve merges flags, environment and settings into a Config.
func Resolve(flags Overrides, settings models.Settings) (Config, error) {
	models.ApplyDefaultSettings(&settings)

	cfg := Config{
		APIURL:          firstNonEmpty(flags.APIURL, os.Getenv(constants.EnvAPIURL), settings.APIURL),
		Timezone:        firstNonEmpty(flags.Timezone, os.Getenv(constants.EnvTimezone), settings.Timezone),
		OfflineFallback: settings.OfflineFallback,
		Timeout:         flags.Timeout,
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = constants.DefaultRequestTimeout
	}

	loc, err := utils.LoadLocation(cfg.Timezone)
	if err != nil {
		return Config{}, err
	}
	cfg.Location = loc

	return cfg, nil
}

// In returns t in the configured location.
func (c Config) In(t time.Time) time.Time {
	if c.Location == nil {
		return t.In(time.Local)
	}
	return t.In(c.Location)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
