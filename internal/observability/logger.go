package observability

import (
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	globalLogger zerolog.Logger
	initialized  bool
)

// InitLogger initializes the global structured logger
func InitLogger(level string, pretty bool) {
	if initialized {
		return
	}

	zerolog.SetGlobalLevel(parseLevel(level))

	globalLogger = newLogger(os.Stdout, pretty)
	log.Logger = globalLogger

	initialized = true
}

// parseLevel maps LOG_LEVEL onto zerolog; anything unknown or empty is info
func parseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// newLogger writes JSON lines to out, or console output when pretty is set
func newLogger(out io.Writer, pretty bool) zerolog.Logger {
	if pretty {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
	}
	return zerolog.New(out).With().Timestamp().Logger()
}

// GetLogger returns the global logger
func GetLogger() zerolog.Logger {
	if !initialized {
		// Initialize with defaults if not already initialized
		InitLogger("info", false)
	}
	return globalLogger
}

// WithRunID creates a logger tagged with the run's ID, generating one if empty
func WithRunID(runID string) zerolog.Logger {
	return withRunID(GetLogger(), runID)
}

func withRunID(base zerolog.Logger, runID string) zerolog.Logger {
	if runID == "" {
		runID = NewRunID()
	}
	return base.With().Str("run_id", runID).Logger()
}

// ForComponent returns a sub-logger tagged with the component name
func ForComponent(name string) zerolog.Logger {
	return forComponent(GetLogger(), name)
}

func forComponent(base zerolog.Logger, name string) zerolog.Logger {
	return base.With().Str("component", name).Logger()
}

// NewRunID generates a new run ID
func NewRunID() string {
	return uuid.New().String()
}
