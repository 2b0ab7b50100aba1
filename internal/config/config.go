package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"
)

// StorageType controls the journal backend.
type StorageType string

const (
	StorageSQLite StorageType = "sqlite"
	StorageMemory StorageType = "memory"
	StorageOff    StorageType = "off"
)

// ByteSize is a size parsed from values like "32MiB" or "10 MB".
type ByteSize int64

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *ByteSize) UnmarshalText(text []byte) error {
	n, err := humanize.ParseBytes(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	*b = ByteSize(n)
	return nil
}

func (b ByteSize) String() string {
	return humanize.IBytes(uint64(b))
}

// Config contains all runtime configuration for the dashboard.
type Config struct {
	// Core
	ListenAddr string `env:"LISTEN_ADDR" envDefault:":3000"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`

	// Backend
	BackendURL      string        `env:"BACKEND_URL" envDefault:"http://localhost:5000"`
	BackendTimeout  time.Duration `env:"BACKEND_TIMEOUT" envDefault:"0"` // 0 = no timeout
	RequestIDHeader string        `env:"REQUEST_ID_HEADER" envDefault:"X-Request-ID"`

	// Journal storage
	Storage        StorageType `env:"STORAGE" envDefault:"sqlite"`
	StoragePath    string      `env:"STORAGE_PATH" envDefault:"data/requester.sqlite"`
	StorageMaxRows int         `env:"STORAGE_MAX_ROWS" envDefault:"3000"`

	// Sessions
	SessionCookie string        `env:"SESSION_COOKIE" envDefault:"sid"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"30m"`
	MaxSessions   int           `env:"MAX_SESSIONS" envDefault:"1000"`

	// HTTP
	MaxUploadMemory ByteSize `env:"MAX_UPLOAD_MEMORY" envDefault:"32MiB"`
	CORSAllowOrigin string   `env:"CORS_ALLOW_ORIGIN" envDefault:"*"`
	MetricsEnabled  bool     `env:"METRICS_ENABLED" envDefault:"true"`

	// Form options
	Names        []string `env:"NAMES" envSeparator:"," envDefault:"Cerael Donggay,Andrew Donggay,Aries Paye"`
	ProductTypes []string `env:"PRODUCT_TYPES" envSeparator:"," envDefault:"Solar Roof Top,Solar Lights,Solar Pump"`
	RequestTypes []string `env:"REQUEST_TYPES" envSeparator:"," envDefault:"Site Survey,Project Evaluation,Request for Quotation"`
}

// DefaultEnvFiles are preloaded by Parse when present.
var DefaultEnvFiles = []string{".env", ".env.local"}

// Load reads .env files (when present) and env vars, and returns a validated Config.
// Variables already set in the process environment take precedence over .env files.
func Load() (Config, error) {
	cfg, err := Parse()
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse is Load without validation. Callers that only need part of the
// configuration validate that part themselves.
func Parse() (Config, error) {
	if err := loadEnvFiles(DefaultEnvFiles); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	cfg.Names = trimList(cfg.Names)
	cfg.ProductTypes = trimList(cfg.ProductTypes)
	cfg.RequestTypes = trimList(cfg.RequestTypes)
	return cfg, nil
}

// ValidateClient checks the settings needed to talk to the backend.
func (c Config) ValidateClient() error {
	u, err := url.Parse(c.BackendURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid BACKEND_URL: %q (must be an absolute http(s) URL)", c.BackendURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid BACKEND_URL: %q (scheme must be http or https)", c.BackendURL)
	}
	if c.BackendTimeout < 0 {
		return fmt.Errorf("BACKEND_TIMEOUT must be >= 0")
	}
	if c.RequestIDHeader == "" {
		return fmt.Errorf("REQUEST_ID_HEADER must not be empty")
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid LOG_LEVEL: %q (must be debug|info|warn|error)", c.LogLevel)
	}
	return nil
}

// Validate checks configuration constraints.
func (c Config) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("LISTEN_ADDR must not be empty")
	}
	if err := c.ValidateClient(); err != nil {
		return err
	}

	switch c.Storage {
	case StorageSQLite, StorageMemory, StorageOff:
	default:
		return fmt.Errorf("invalid STORAGE: %q (must be sqlite|memory|off)", c.Storage)
	}
	if c.StorageMaxRows < 100 {
		return fmt.Errorf("STORAGE_MAX_ROWS must be >= 100")
	}
	if c.Storage == StorageSQLite && c.StoragePath == "" {
		return fmt.Errorf("STORAGE_PATH must be set when STORAGE=sqlite")
	}

	if c.SessionCookie == "" {
		return fmt.Errorf("SESSION_COOKIE must not be empty")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be > 0")
	}
	if c.MaxSessions < 1 {
		return fmt.Errorf("MAX_SESSIONS must be >= 1")
	}
	if c.MaxUploadMemory < 1024 {
		return fmt.Errorf("MAX_UPLOAD_MEMORY must be >= 1KiB")
	}

	if len(c.Names) == 0 {
		return fmt.Errorf("NAMES must not be empty")
	}
	if len(c.ProductTypes) == 0 {
		return fmt.Errorf("PRODUCT_TYPES must not be empty")
	}
	if len(c.RequestTypes) == 0 {
		return fmt.Errorf("REQUEST_TYPES must not be empty")
	}

	return nil
}

// JournalEnabled reports whether submit outcomes are recorded.
func (c Config) JournalEnabled() bool {
	return c.Storage != StorageOff
}

func loadEnvFiles(files []string) error {
	var existing []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("load env files: %w", err)
	}
	return nil
}

func trimList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
