package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration for a synthesis run
type Config struct {
	// IBM Cloud Text to Speech credentials
	IBMCloudAPIKey string `envconfig:"IBM_CLOUD_API_KEY" required:"true"` // Sent as basic-auth password for user "apikey"
	IBMCloudURL    string `envconfig:"IBM_CLOUD_URL" required:"true"`     // Service instance base URL, without /v1/synthesize

	// Audio inspection
	SilenceRMSThreshold float64 `envconfig:"SILENCE_RMS_THRESHOLD" default:"50.0"` // WAV clips below this RMS are logged as near-silent

	// Observability configuration
	LogLevel        string `envconfig:"LOG_LEVEL" default:"info"`    // Log level: debug, info, warn, error
	LogPretty       bool   `envconfig:"LOG_PRETTY" default:"false"`  // Pretty print logs (for development)
	MetricsTextfile string `envconfig:"METRICS_TEXTFILE" default:""` // Write run metrics here on exit (textfile collector format)
}

// requiredVars are checked before envconfig runs so that every missing
// variable is reported at once.
var requiredVars = []string{"IBM_CLOUD_API_KEY", "IBM_CLOUD_URL"}

// ConfigurationError reports required environment variables that are unset or empty.
type ConfigurationError struct {
	Missing []string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("environment variables %s not found; supply them in a .env file or set them directly",
		strings.Join(e.Missing, " and "))
}

// Load reads configuration from environment variables
// It first attempts to load from .env file if it exists, then from environment
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	return LoadFromEnv()
}

// LoadFromEnv loads configuration directly from environment variables
// without attempting to load .env file (useful for containerized deployments)
func LoadFromEnv() (*Config, error) {
	var missing []string
	for _, key := range requiredVars {
		if os.Getenv(key) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, &ConfigurationError{Missing: missing}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	cfg.IBMCloudURL = strings.TrimRight(cfg.IBMCloudURL, "/")

	return &cfg, nil
}
