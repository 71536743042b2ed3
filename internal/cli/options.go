package cli

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment fallbacks for flags.
const (
	EnvServiceURL = "INTAKE_SERVICE_URL"
	EnvTimeout    = "INTAKE_TIMEOUT"
	EnvLocale     = "INTAKE_LOCALE"
	EnvRedisURL   = "INTAKE_REDIS_URL"
	EnvBank       = "INTAKE_BANK"
	EnvResultKey  = "INTAKE_RESULT_KEY"
)

// DefaultServiceURL is where the reference service listens by default.
const DefaultServiceURL = "http://localhost:5000"

// RunOptions contains all the configuration for the run command.
type RunOptions struct {
	ServiceURL string
	Local      bool   // Decide in process with the reference engine
	Bank       string // Bank used by Local mode
	Locale     string
	Timeout    time.Duration
	JSON       bool
	Debug      bool
	NoBanner   bool

	// MetricsAddr serves the interview metrics on /metrics when set.
	MetricsAddr string
}

// ServeOptions contains all the configuration for the serve command.
type ServeOptions struct {
	Addr      string
	Bank      string
	Endpoint  string
	RedisURL  string
	ResultTTL time.Duration
	Metrics   bool
	Debug     bool
	LogLevel  string

	// Redact lists patterns of answer variables masked before a record is stored.
	Redact []string
	// ResultKey seals the answers of stored records (32 bytes, base64 or hex).
	ResultKey string
}

// EnvOr returns the value of key, or def when it is unset or blank.
func EnvOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// EnvDuration parses key as a duration ("15s") or a number of seconds.
// Invalid values fall back to def.
func EnvDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.ParseFloat(v, 64); err == nil && secs >= 0 {
		return time.Duration(secs * float64(time.Second))
	}
	return def
}
