// Package config resolves runtime settings for the formbuilder binaries from
// an optional .env file and FORMBUILDER_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Prefix is prepended to every variable name.
const Prefix = "FORMBUILDER_"

// Config holds every tunable the CLI and server read.
type Config struct {
	Port            string
	LogLevel        logrus.Level
	TaxonomyBaseURL string
	TaxonomyTimeout time.Duration
	LocalStorePath  string
	GenerateDelay   time.Duration
	Theme           string
	ThemeVariant    string
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Port:            "8080",
		LogLevel:        logrus.InfoLevel,
		TaxonomyBaseURL: "http://3.111.34.117/api",
		TaxonomyTimeout: 10 * time.Second,
		LocalStorePath:  "formbuilder.db",
		GenerateDelay:   time.Second,
		Theme:           "formbuilder",
		ThemeVariant:    "light",
	}
}

// Load reads the given .env files (".env" when none are named) and then the
// process environment. Missing files are not an error.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: load %s: %w", f, err)
		}
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from lookup, starting from Default.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	get := func(key string) (string, bool) {
		v, ok := lookup(Prefix + key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get("PORT"); ok {
		cfg.Port = v
	}
	if v, ok := get("LOG_LEVEL"); ok {
		level, err := logrus.ParseLevel(v)
		if err != nil {
			return Config{}, fmt.Errorf("config: %sLOG_LEVEL: %w", Prefix, err)
		}
		cfg.LogLevel = level
	}
	if v, ok := get("TAXONOMY_BASE_URL"); ok {
		cfg.TaxonomyBaseURL = strings.TrimRight(v, "/")
	}
	if v, ok := get("TAXONOMY_TIMEOUT"); ok {
		d, err := parseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("config: %sTAXONOMY_TIMEOUT: %w", Prefix, err)
		}
		cfg.TaxonomyTimeout = d
	}
	if v, ok := get("LOCAL_STORE_PATH"); ok {
		cfg.LocalStorePath = v
	}
	if v, ok := get("GENERATE_DELAY"); ok {
		d, err := parseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("config: %sGENERATE_DELAY: %w", Prefix, err)
		}
		cfg.GenerateDelay = d
	}
	if v, ok := get("THEME"); ok {
		cfg.Theme = v
	}
	if v, ok := get("THEME_VARIANT"); ok {
		cfg.ThemeVariant = v
	}
	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	if strings.Contains(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

// NewLogger builds the process logger: text output with full timestamps at
// the configured level.
func (c Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logger.SetLevel(c.LogLevel)
	return logger
}

// parseDuration accepts Go durations ("1500ms") and bare milliseconds.
func parseDuration(v string) (time.Duration, error) {
	if ms, err := strconv.Atoi(v); err == nil {
		if ms < 0 {
			return 0, fmt.Errorf("negative duration %q", v)
		}
		return time.Duration(ms) * time.Millisecond, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %q", v)
	}
	return d, nil
}
