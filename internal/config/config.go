// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes application settings
// such as server timeouts, logging, the document store backend, quiz rules,
// the movie catalog client, rate limiting, and observability.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Store backends understood by STORE_BACKEND.
const (
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
	BackendMemory = "memory"
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME (e.g. "go-movie-backend")
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// StoreConfig selects and tunes the document store backing every user namespace.
type StoreConfig struct {
	Backend   string // sqlite|badger|memory
	DBPath    string // SQLite path
	BadgerDir string // Badger data directory

	HistoryLimit  int // max watch-history entries kept per user
	ActivityLimit int // max activity feed entries kept per user
}

// QuizConfig holds quiz session rules.
type QuizConfig struct {
	SecondsPerQuestion int            // countdown per question
	Timezone           string         // IANA zone used for "today"
	Location           *time.Location // resolved Timezone
	SessionTTL         time.Duration  // idle sessions are evicted after this
}

// CatalogConfig configures the remote movie catalog (TMDB) client.
// The client is disabled when APIKey is empty.
type CatalogConfig struct {
	APIKey   string
	BaseURL  string
	ImageURL string
	Timeout  time.Duration
	RPS      float64
	CacheTTL time.Duration
	CacheLen int
}

// Enabled reports whether an API key was configured.
func (c CatalogConfig) Enabled() bool { return strings.TrimSpace(c.APIKey) != "" }

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // e.g. 20s
	IdleTimeout       time.Duration // e.g. 60s
	ShutdownTimeout   time.Duration // graceful shutdown budget
	MaxHeaderBytes    int           // bytes
	GinMode           string        // debug|release|test

	// Logging / Docs
	LogLevel       string // debug|info|warn|error|fatal|panic
	LogPretty      bool   // pretty console logs in dev
	SwaggerEnabled bool   // enable Swagger UI route
	APIBasePath    string // base path for API routes

	// App
	Store   StoreConfig
	Quiz    QuizConfig
	Catalog CatalogConfig

	// EventsBuffer is the per-subscriber buffer of the change-notification bus.
	EventsBuffer int

	// Rate limiting
	RateRPS   float64 // tokens per second (>= 0)
	RateBurst int     // bucket size (>= 1)

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Idempotency
	IdempotencyTTL time.Duration // how long a given Idempotency-Key is valid

	// Observability
	OTEL OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads the environment, applies defaults and validates the result.
// Unset or empty variables take their default; a set variable that does not
// parse is an error, as is any value out of range. All parse errors are
// reported together.
func Load() (Config, error) {
	var e env
	cfg := Config{
		Port:              e.str("PORT", "8080"),
		ReadTimeout:       e.duration("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: e.duration("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      e.duration("WRITE_TIMEOUT", 20*time.Second),
		IdleTimeout:       e.duration("IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout:   e.duration("SHUTDOWN_TIMEOUT", 10*time.Second),
		MaxHeaderBytes:    e.integer("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(e.str("GIN_MODE", "release")),

		LogLevel:       strings.ToLower(e.str("LOG_LEVEL", "info")),
		LogPretty:      e.flag("LOG_PRETTY", false),
		SwaggerEnabled: e.flag("SWAGGER_ENABLED", false),
		APIBasePath:    normalizeBasePath(e.str("API_BASE_PATH", "/api/v1")),

		Store: StoreConfig{
			Backend:       strings.ToLower(e.str("STORE_BACKEND", BackendSQLite)),
			DBPath:        e.str("DB_PATH", "app.db"),
			BadgerDir:     e.str("BADGER_DIR", "data/badger"),
			HistoryLimit:  e.integer("HISTORY_LIMIT", 50),
			ActivityLimit: e.integer("ACTIVITY_LIMIT", 50),
		},
		Quiz: QuizConfig{
			SecondsPerQuestion: e.integer("QUIZ_SECONDS_PER_QUESTION", 30),
			Timezone:           e.str("QUIZ_TIMEZONE", "UTC"),
			SessionTTL:         e.duration("QUIZ_SESSION_TTL", 2*time.Hour),
		},
		Catalog: CatalogConfig{
			APIKey:   e.str("TMDB_API_KEY", ""),
			BaseURL:  strings.TrimRight(e.str("TMDB_BASE_URL", "https://api.themoviedb.org/3"), "/"),
			ImageURL: strings.TrimRight(e.str("TMDB_IMAGE_URL", "https://image.tmdb.org/t/p"), "/"),
			Timeout:  e.duration("TMDB_TIMEOUT", 10*time.Second),
			RPS:      e.number("TMDB_RPS", 20),
			CacheTTL: e.duration("TMDB_CACHE_TTL", 10*time.Minute),
			CacheLen: e.integer("TMDB_CACHE_SIZE", 512),
		},
		EventsBuffer: e.integer("EVENTS_BUFFER", 16),

		RateRPS:   e.number("RATE_RPS", 5.0),
		RateBurst: e.integer("RATE_BURST", 10),

		CORS: CORSConfig{
			AllowedOrigins: splitCSV(e.str("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: e.flag("ENABLE_HSTS", false),
			HSTSMaxAge: e.duration("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		IdempotencyTTL: e.duration("IDEMPOTENCY_TTL", 24*time.Hour),

		OTEL: OTELConfig{
			Enabled:     e.flag("OTEL_ENABLED", false),
			Endpoint:    e.str("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    e.flag("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: e.str("OTEL_SERVICE_NAME", "go-movie-backend"),
			SampleRatio: e.number("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}
	if err := errors.Join(e.errs...); err != nil {
		return cfg, err
	}

	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	loc, err := time.LoadLocation(cfg.Quiz.Timezone)
	if err != nil {
		return cfg, errors.New("QUIZ_TIMEZONE must be a valid IANA time zone")
	}
	cfg.Quiz.Location = loc
	return cfg, nil
}

// MaxListLimit caps HISTORY_LIMIT and ACTIVITY_LIMIT.
const MaxListLimit = 50

func (c Config) validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}

	checks := []struct {
		bad bool
		msg string
	}{
		{strings.TrimSpace(c.Port) == "", "PORT must not be empty"},
		{c.ReadTimeout <= 0 || c.ReadHeaderTimeout <= 0 || c.WriteTimeout <= 0 || c.IdleTimeout <= 0, "timeouts must be positive durations"},
		{c.ShutdownTimeout <= 0, "SHUTDOWN_TIMEOUT must be > 0"},
		{c.MaxHeaderBytes <= 0, "MAX_HEADER_BYTES must be > 0"},
		{c.Store.HistoryLimit < 1 || c.Store.HistoryLimit > MaxListLimit, "HISTORY_LIMIT must be between 1 and 50"},
		{c.Store.ActivityLimit < 1 || c.Store.ActivityLimit > MaxListLimit, "ACTIVITY_LIMIT must be between 1 and 50"},
		{c.Quiz.SecondsPerQuestion < 1, "QUIZ_SECONDS_PER_QUESTION must be >= 1"},
		{c.Quiz.SessionTTL <= 0, "QUIZ_SESSION_TTL must be > 0"},
		{c.Catalog.Timeout <= 0, "TMDB_TIMEOUT must be > 0"},
		{c.Catalog.RPS <= 0, "TMDB_RPS must be > 0"},
		{c.Catalog.CacheLen < 0, "TMDB_CACHE_SIZE must be >= 0"},
		{c.EventsBuffer < 1, "EVENTS_BUFFER must be >= 1"},
		{c.RateRPS < 0, "RATE_RPS must be >= 0"},
		{c.RateBurst < 1, "RATE_BURST must be >= 1"},
		{c.Security.HSTSMaxAge < 0, "HSTS_MAX_AGE must be >= 0"},
		{c.IdempotencyTTL <= 0, "IDEMPOTENCY_TTL must be > 0"},
		{c.OTEL.SampleRatio < 0 || c.OTEL.SampleRatio > 1, "OTEL_TRACES_SAMPLER_ARG must be in [0,1]"},
	}
	for _, ch := range checks {
		if ch.bad {
			return errors.New(ch.msg)
		}
	}

	switch c.Store.Backend {
	case BackendSQLite:
		if strings.TrimSpace(c.Store.DBPath) == "" {
			return errors.New("DB_PATH must not be empty")
		}
	case BackendBadger:
		if strings.TrimSpace(c.Store.BadgerDir) == "" {
			return errors.New("BADGER_DIR must not be empty")
		}
	case BackendMemory:
	default:
		return errors.New("STORE_BACKEND must be one of: sqlite, badger, memory")
	}
	return nil
}

// env reads typed variables and collects the ones that fail to parse.
type env struct {
	errs []error
}

// lookup returns the raw value; unset and empty are the same.
func (e *env) lookup(k string) (string, bool) {
	v, ok := os.LookupEnv(k)
	return v, ok && v != ""
}

func (e *env) fail(k, v, kind string) {
	e.errs = append(e.errs, fmt.Errorf("%s: %q is not a valid %s", k, v, kind))
}

func (e *env) str(k, def string) string {
	if v, ok := e.lookup(k); ok {
		return v
	}
	return def
}

func (e *env) integer(k string, def int) int {
	v, ok := e.lookup(k)
	if !ok {
		return def
	}
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		e.fail(k, v, "integer")
		return def
	}
	return i
}

func (e *env) number(k string, def float64) float64 {
	v, ok := e.lookup(k)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		e.fail(k, v, "number")
		return def
	}
	return f
}

func (e *env) duration(k string, def time.Duration) time.Duration {
	v, ok := e.lookup(k)
	if !ok {
		return def
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		e.fail(k, v, "duration")
		return def
	}
	return d
}

func (e *env) flag(k string, def bool) bool {
	v, ok := e.lookup(k)
	if !ok {
		return def
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	}
	e.fail(k, v, "boolean")
	return def
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// normalizeBasePath ensures a leading '/' and strips trailing ones (except root).
func normalizeBasePath(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	return "/" + p
}
