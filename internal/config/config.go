package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v8"

	applog "moneytracker/internal/log"
)

type Config struct {
	// Greeting shown in the main menu
	UserName string `env:"MONEYTRACKER_USER" envDefault:"Pedro"`

	// Backend selection
	DataBackend  string `env:"DATA_BACKEND" envDefault:"memory"`
	SQLiteDBPath string `env:"SQLITE_DB_PATH" envDefault:"./data/moneytracker.db"`
	SeedFile     string `env:"SEED_FILE" envDefault:"./data/seed.yaml"`

	Rates  RatesConfig  `envPrefix:"RATES_"`
	AMQP   AMQPConfig   `envPrefix:"AMQP_"`
	Sheets SheetsConfig `envPrefix:"GOOGLE_"`

	// Logging
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"LOG_FILE"`
}

// RatesConfig points at a Frankfurter compatible exchange rate API.
type RatesConfig struct {
	APIURL   string        `env:"API_URL" envDefault:"https://api.frankfurter.app"`
	Base     string        `env:"BASE" envDefault:"USD"`
	Timeout  time.Duration `env:"TIMEOUT" envDefault:"3s"`
	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"10m"`
}

// AMQPConfig enables event publishing when URL is set.
type AMQPConfig struct {
	URL      string `env:"URL"`
	Exchange string `env:"EXCHANGE" envDefault:"moneytracker"`
	Queue    string `env:"QUEUE" envDefault:"transactions"`
}

// SheetsConfig enables the spreadsheet export when SpreadsheetID is set.
type SheetsConfig struct {
	SpreadsheetID      string `env:"SPREADSHEET_ID"`
	SheetName          string `env:"SHEET_NAME" envDefault:"Transactions"`
	ServiceAccountFile string `env:"SERVICE_ACCOUNT_FILE"`
	ServiceAccountJSON string `env:"SERVICE_ACCOUNT_JSON"`
}

// Load reads the configuration from the process environment.
func Load() (*Config, error) {
	return parse(env.Options{})
}

// LoadFrom reads the configuration from the given variables only.
func LoadFrom(environ map[string]string) (*Config, error) {
	return parse(env.Options{Environment: environ})
}

func parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if strings.TrimSpace(c.UserName) == "" {
		errors = append(errors, "user name cannot be empty")
	}

	validBackends := []string{"memory", "sqlite"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	if c.DataBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	if parsedURL, err := url.Parse(c.Rates.APIURL); err != nil || c.Rates.APIURL == "" {
		errors = append(errors, fmt.Sprintf("invalid rates API URL '%s'", c.Rates.APIURL))
	} else if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		errors = append(errors, fmt.Sprintf("invalid rates API URL scheme '%s': must be 'http' or 'https'", parsedURL.Scheme))
	}
	if len(c.Rates.Base) != 3 {
		errors = append(errors, fmt.Sprintf("invalid base currency '%s': must be a 3 letter code", c.Rates.Base))
	}
	if c.Rates.Timeout < 100*time.Millisecond {
		errors = append(errors, fmt.Sprintf("invalid rates timeout %v: must be at least 100ms", c.Rates.Timeout))
	} else if c.Rates.Timeout > time.Minute {
		errors = append(errors, fmt.Sprintf("invalid rates timeout %v: must be at most 1 minute", c.Rates.Timeout))
	}
	if c.Rates.CacheTTL < 0 {
		errors = append(errors, fmt.Sprintf("invalid rates cache TTL %v: must not be negative", c.Rates.CacheTTL))
	}

	if c.AMQP.URL != "" {
		if parsedURL, err := url.Parse(c.AMQP.URL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQP.URL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQP.Exchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQP.Queue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.Sheets.SpreadsheetID != "" {
		if c.Sheets.SheetName == "" {
			errors = append(errors, "Google Sheet name is required when a spreadsheet ID is provided")
		}
		if c.Sheets.ServiceAccountFile != "" {
			if _, err := os.Stat(c.Sheets.ServiceAccountFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("Google service account file does not exist: %s", c.Sheets.ServiceAccountFile))
			}
		}
	}

	if _, err := applog.ParseLevel(c.LogLevel); err != nil {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be debug, info, warn or error", c.LogLevel))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// ExportEnabled reports whether a spreadsheet export target is configured.
func (c *Config) ExportEnabled() bool {
	return c.Sheets.SpreadsheetID != ""
}

// EventsEnabled reports whether transaction events should be published.
func (c *Config) EventsEnabled() bool {
	return c.AMQP.URL != ""
}
