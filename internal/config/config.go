// Package config loads the service configuration from defaults, a .env file,
// CANVAS_* environment variables and command line flags, in increasing order
// of precedence.
package config

import (
	"flag"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/basicflag"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const envPrefix = "CANVAS_"

// Config holds application configuration
type Config struct {
	Port       int    `validate:"min=1,max=65535"`
	ListenAddr string
	BaseURL    string
	DevMode    bool
	LogLevel   string `validate:"oneof=debug info warn error"`
	CORSOrigin string `validate:"required"`

	// Simulated provider latency and failure injection.
	AppsDelay   time.Duration `validate:"min=0"`
	GraphDelay  time.Duration `validate:"min=0"`
	FailureRate float64       `validate:"min=0,max=1"`
	CatalogPath string

	FetchTimeout  time.Duration `validate:"min=0"`
	SessionTTL    time.Duration `validate:"min=0"`
	SweepInterval time.Duration `validate:"min=0"`
}

var defaults = map[string]interface{}{
	"port":           8080,
	"listen_addr":    "",
	"base_url":       "",
	"dev_mode":       false,
	"log_level":      "info",
	"cors_origin":    "*",
	"apps_delay":     "300ms",
	"graph_delay":    "400ms",
	"failure_rate":   0.0,
	"catalog_path":   "",
	"fetch_timeout":  "10s",
	"session_ttl":    "30m",
	"sweep_interval": "1m",
}

// Parse builds the configuration. args is the full argument vector,
// program name included.
func Parse(args []string) (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, errors.Wrap(err, "loading defaults")
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, errors.Wrap(err, "loading environment")
	}

	// Flag defaults are the values loaded so far, so loading every flag
	// only overrides what was passed explicitly.
	name := "canvas-api"
	if len(args) > 0 {
		name = args[0]
		args = args[1:]
	}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Int("port", k.Int("port"), "port to listen on")
	fs.String("listen_addr", k.String("listen_addr"), "address to bind, empty for all interfaces")
	fs.String("base_url", k.String("base_url"), "path prefix for every route")
	fs.Bool("dev_mode", k.Bool("dev_mode"), "human readable logs")
	fs.String("log_level", k.String("log_level"), "debug, info, warn or error")
	fs.String("cors_origin", k.String("cors_origin"), "allowed CORS origin")
	fs.Duration("apps_delay", k.Duration("apps_delay"), "simulated latency of the app list")
	fs.Duration("graph_delay", k.Duration("graph_delay"), "simulated latency of graph fetches")
	fs.Float64("failure_rate", k.Float64("failure_rate"), "fraction of provider calls that fail")
	fs.String("catalog_path", k.String("catalog_path"), "fixture catalog replacing the embedded one")
	fs.Duration("fetch_timeout", k.Duration("fetch_timeout"), "upper bound for one graph fetch")
	fs.Duration("session_ttl", k.Duration("session_ttl"), "idle time before a session expires")
	fs.Duration("sweep_interval", k.Duration("sweep_interval"), "how often idle sessions are swept")

	if err := fs.Parse(args); err != nil {
		return nil, errors.Wrap(err, "parsing flags")
	}

	if err := k.Load(basicflag.Provider(fs, "."), nil); err != nil {
		return nil, errors.Wrap(err, "loading flags")
	}

	cfg := &Config{
		Port:          k.Int("port"),
		ListenAddr:    k.String("listen_addr"),
		BaseURL:       strings.TrimSuffix(k.String("base_url"), "/"),
		DevMode:       k.Bool("dev_mode"),
		LogLevel:      strings.ToLower(k.String("log_level")),
		CORSOrigin:    k.String("cors_origin"),
		AppsDelay:     k.Duration("apps_delay"),
		GraphDelay:    k.Duration("graph_delay"),
		FailureRate:   k.Float64("failure_rate"),
		CatalogPath:   k.String("catalog_path"),
		FetchTimeout:  k.Duration("fetch_timeout"),
		SessionTTL:    k.Duration("session_ttl"),
		SweepInterval: k.Duration("sweep_interval"),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	return cfg, nil
}
