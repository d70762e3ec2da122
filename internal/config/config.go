package config

import (
	"fmt"
	"net/url"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

type Config struct {
	// HTTP Server
	Port     string
	LogLevel string

	// Finance backend
	DataBackend string
	APIBaseURL  string
	APITimeout  time.Duration

	// Views
	ViewTTL      time.Duration
	ViewCapacity int

	// Mutating requests allowed per client and minute
	RateLimit int

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Activity journal
	JournalDBPath         string
	JournalRetention      time.Duration
	JournalPruneSchedule  string
	JournalMirrorInterval time.Duration
	JournalMirrorBatch    int

	// Google Sheets mirror (optional)
	GoogleSpreadsheetID      string
	GoogleJournalSheet       string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string
}

func Load() *Config {
	cfg := &Config{
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DataBackend: getEnv("DATA_BACKEND", "rest"),
		APIBaseURL:  getEnv("API_BASE_URL", "http://localhost:5000/api"),
		APITimeout:  getEnvDuration("API_TIMEOUT", 15*time.Second),

		ViewTTL:      getEnvDuration("VIEW_TTL", 30*time.Minute),
		ViewCapacity: getEnvInt("VIEW_CAPACITY", 500),
		RateLimit:    getEnvInt("RATE_LIMIT", 60),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "chitieu"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "chitieu_activity"),

		JournalDBPath:         getEnv("JOURNAL_DB_PATH", ""),
		JournalRetention:      getEnvDuration("JOURNAL_RETENTION", 90*24*time.Hour),
		JournalPruneSchedule:  getEnv("JOURNAL_PRUNE_SCHEDULE", "@daily"),
		JournalMirrorInterval: getEnvDuration("JOURNAL_MIRROR_INTERVAL", time.Minute),
		JournalMirrorBatch:    getEnvInt("JOURNAL_MIRROR_BATCH", 50),

		GoogleSpreadsheetID:      getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleJournalSheet:       getEnv("GOOGLE_JOURNAL_SHEET", "Nhật ký"),
		GoogleServiceAccountJSON: getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),
		GoogleServiceAccountFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	// Validate data backend
	validBackends := []string{"rest", "memory"}
	if !slices.Contains(validBackends, c.DataBackend) {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	if c.DataBackend == "rest" {
		if c.APIBaseURL == "" {
			errors = append(errors, "API base URL cannot be empty when using rest backend")
		} else if u, err := url.Parse(c.APIBaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errors = append(errors, fmt.Sprintf("invalid API base URL '%s': must be an absolute http(s) URL", c.APIBaseURL))
		}
		if c.APITimeout < time.Second || c.APITimeout > 2*time.Minute {
			errors = append(errors, fmt.Sprintf("invalid API timeout %v: must be between 1 second and 2 minutes", c.APITimeout))
		}
	}

	// Validate views
	if c.ViewTTL < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid view TTL %v: must be at least 1 minute", c.ViewTTL))
	}
	if c.ViewCapacity < 1 || c.ViewCapacity > 100000 {
		errors = append(errors, fmt.Sprintf("invalid view capacity %d: must be between 1 and 100000", c.ViewCapacity))
	}
	if c.RateLimit < 1 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %d: must be at least 1", c.RateLimit))
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	// Validate journal settings
	if c.JournalRetention < 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid journal retention %v: must be at least 24 hours", c.JournalRetention))
	}
	if _, err := cron.ParseStandard(c.JournalPruneSchedule); err != nil {
		errors = append(errors, fmt.Sprintf("invalid journal prune schedule '%s': %v", c.JournalPruneSchedule, err))
	}
	if c.JournalMirrorBatch < 1 {
		errors = append(errors, fmt.Sprintf("invalid journal mirror batch %d: must be at least 1", c.JournalMirrorBatch))
	} else if c.JournalMirrorBatch > 1000 {
		errors = append(errors, fmt.Sprintf("invalid journal mirror batch %d: must be at most 1000", c.JournalMirrorBatch))
	}
	if c.JournalMirrorInterval < time.Second {
		errors = append(errors, fmt.Sprintf("invalid journal mirror interval %v: must be at least 1 second", c.JournalMirrorInterval))
	} else if c.JournalMirrorInterval > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid journal mirror interval %v: must be at most 24 hours", c.JournalMirrorInterval))
	}

	// Validate Google Sheets configuration if a spreadsheet is set
	if c.GoogleSpreadsheetID != "" {
		if c.GoogleJournalSheet == "" {
			errors = append(errors, "Google journal sheet name is required when a spreadsheet is configured")
		}
		hasFile := c.GoogleServiceAccountFile != ""
		if !hasFile && c.GoogleServiceAccountJSON == "" {
			errors = append(errors, "either GOOGLE_SERVICE_ACCOUNT_FILE or GOOGLE_SERVICE_ACCOUNT_JSON must be provided when a spreadsheet is configured")
		}
		if hasFile {
			if _, err := os.Stat(c.GoogleServiceAccountFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("Google service account file does not exist: %s", c.GoogleServiceAccountFile))
			}
		}
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// ValidateWorker adds the settings only the journal worker needs.
func (c *Config) ValidateWorker() error {
	var errors []string
	if err := c.Validate(); err != nil {
		errors = append(errors, strings.TrimPrefix(err.Error(), "configuration validation failed:\n- "))
	}
	if c.AMQPURL == "" {
		errors = append(errors, "AMQP URL is required for the worker")
	}
	if c.JournalDBPath == "" {
		errors = append(errors, "journal database path is required for the worker")
	}
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

// MirrorEnabled reports whether journal rows are copied to a spreadsheet.
func (c *Config) MirrorEnabled() bool {
	return c.GoogleSpreadsheetID != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
