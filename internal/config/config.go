// Package config loads and validates application configuration from
// command-line flags and environment variables.
package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jessevdk/go-flags"
)

// Config holds all configuration values for the API server.
// Values are populated by Load; flags take precedence over environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to 8080.
	Port int

	// DataFile is the GeoJSON FeatureCollection served by the store.
	// Defaults to "data/places.geojson".
	DataFile string

	// BaseURL prefixes every href in OGC link documents.
	// Defaults to "http://localhost:<Port>".
	BaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"].
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// MaxBodyBytes caps request body size. Defaults to 10 MiB.
	MaxBodyBytes int64

	// BufferWorkers bounds concurrent geometry-engine calls per buffer request.
	// Defaults to 4.
	BufferWorkers int
}

// Addr returns the listen address for http.Server.
func (c Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

// options mirrors Config with go-flags tags. CORS origins stay a raw string
// so the env var and the flag share one comma-separated format.
type options struct {
	Port          int    `short:"p" long:"port"           env:"PORT"           default:"8080"                description:"Port to listen on"`
	DataFile      string `short:"d" long:"data"           env:"DATA_FILE"      default:"data/places.geojson" description:"GeoJSON FeatureCollection to serve"`
	BaseURL       string `long:"base-url"                 env:"BASE_URL"                                     description:"Public base URL used in links (default http://localhost:<port>)"`
	LogLevel      string `short:"l" long:"log-level"      env:"LOG_LEVEL"      default:"info"                description:"Minimum log level (debug, info, warn, error)"`
	CORSOrigins   string `long:"cors-origins"             env:"CORS_ORIGINS"   default:"http://localhost:5173" description:"Comma-separated allowed CORS origins"`
	MaxBodyBytes  int64  `long:"max-body-bytes"           env:"MAX_BODY_BYTES" default:"10485760"            description:"Maximum request body size in bytes"`
	BufferWorkers int    `short:"w" long:"buffer-workers" env:"BUFFER_WORKERS" default:"4"                   description:"Concurrent geometry operations per buffer request"`
}

// Load parses args (normally os.Args[1:]) with environment fallbacks and
// returns a validated Config. A *flags.Error of type flags.ErrHelp is
// returned unchanged when -h/--help is given.
func Load(args []string) (Config, error) {
	var opts options
	parser := flags.NewParser(&opts, flags.HelpFlag|flags.PassDoubleDash)
	if _, err := parser.ParseArgs(args); err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port:          opts.Port,
		DataFile:      strings.TrimSpace(opts.DataFile),
		BaseURL:       strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"),
		LogLevel:      strings.ToLower(strings.TrimSpace(opts.LogLevel)),
		CORSOrigins:   splitCSV(opts.CORSOrigins),
		MaxBodyBytes:  opts.MaxBodyBytes,
		BufferWorkers: opts.BufferWorkers,
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:" + strconv.Itoa(cfg.Port)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// validate returns an error listing every invalid setting.
func (c Config) validate() error {
	var problems []string

	if c.Port < 1 || c.Port > 65535 {
		problems = append(problems, fmt.Sprintf("PORT must be between 1 and 65535, got %d", c.Port))
	}
	if c.DataFile == "" {
		problems = append(problems, "DATA_FILE must not be empty")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("LOG_LEVEL must be one of debug, info, warn, error, got %q", c.LogLevel))
	}
	if c.MaxBodyBytes <= 0 {
		problems = append(problems, "MAX_BODY_BYTES must be positive")
	}
	if c.BufferWorkers <= 0 {
		problems = append(problems, "BUFFER_WORKERS must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
