// Package synth renders a wakeword with every catalogue voice and lays the
// resulting clips out on disk, one subdirectory per word.
package synth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/lexiqai/wakeword-synth/internal/audio"
	"github.com/lexiqai/wakeword-synth/internal/observability"
	"github.com/lexiqai/wakeword-synth/internal/tts"
	"github.com/lexiqai/wakeword-synth/internal/voices"
)

// ErrEmptyWord is returned for an empty wakeword before any request is made
var ErrEmptyWord = errors.New("wakeword must not be empty")

// HaltPolicy decides what Run does after a voice fails
type HaltPolicy int

const (
	// HaltOnError stops at the first failing voice
	HaltOnError HaltPolicy = iota
	// ContinueOnError attempts every voice and reports all failures at the end
	ContinueOnError
)

func (p HaltPolicy) String() string {
	switch p {
	case HaltOnError:
		return "halt"
	case ContinueOnError:
		return "continue"
	default:
		return fmt.Sprintf("HaltPolicy(%d)", int(p))
	}
}

// Synthesizer drives a tts.Synthesizer across a list of voices
type Synthesizer struct {
	client           tts.Synthesizer
	voices           []voices.Voice
	policy           HaltPolicy
	silenceThreshold float64
	metrics          *observability.Metrics
	logger           zerolog.Logger
}

// Option configures a Synthesizer
type Option func(*Synthesizer)

// WithVoices restricts the run to vs, in the given order
func WithVoices(vs []voices.Voice) Option {
	return func(s *Synthesizer) {
		s.voices = append([]voices.Voice(nil), vs...)
	}
}

// WithPolicy sets the halt policy (default HaltOnError)
func WithPolicy(p HaltPolicy) Option {
	return func(s *Synthesizer) { s.policy = p }
}

// WithSilenceThreshold sets the RMS below which a WAV clip is logged as near-silent
func WithSilenceThreshold(rms float64) Option {
	return func(s *Synthesizer) { s.silenceThreshold = rms }
}

// WithMetrics records into m instead of a private tracker
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Synthesizer) { s.metrics = m }
}

// WithLogger sets the logger used for progress lines
func WithLogger(l zerolog.Logger) Option {
	return func(s *Synthesizer) { s.logger = l }
}

// New creates a Synthesizer covering the full voice catalogue
func New(client tts.Synthesizer, opts ...Option) *Synthesizer {
	s := &Synthesizer{
		client:           client,
		voices:           voices.All(),
		policy:           HaltOnError,
		silenceThreshold: 50.0,
		logger:           observability.ForComponent("synth"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = observability.NewRunMetrics()
	}
	return s
}

// Synthesize renders word with voice and writes the clip below outputDir.
// A failed request writes nothing and creates no directory.
func (s *Synthesizer) Synthesize(ctx context.Context, word string, voice voices.Voice, outputDir string) Result {
	result := Result{Voice: voice, Path: OutputPath(outputDir, word, voice)}
	if word == "" {
		result.Err = ErrEmptyWord
		return result
	}

	start := time.Now()
	data, err := s.client.Synthesize(ctx, tts.Request{Text: word, Voice: voice})
	latency := time.Since(start)

	if err != nil {
		var apiErr *tts.APIError
		if errors.As(err, &apiErr) {
			s.metrics.RecordRequest(string(voice), observability.StatusAPIError, apiErr.StatusCode, latency)
		} else {
			s.metrics.RecordRequest(string(voice), observability.StatusError, 0, latency)
		}
		result.Err = err
		return result
	}
	s.metrics.RecordRequest(string(voice), observability.StatusSuccess, 200, latency)

	if err := writeClip(result.Path, data); err != nil {
		result.Err = err
		return result
	}
	s.metrics.RecordFile(len(data))

	result.Bytes = len(data)
	result.Audio = audio.Inspect(data, s.silenceThreshold)

	event := s.logger.Debug()
	if result.Audio.Silent {
		event = s.logger.Warn()
	}
	event.
		Str("voice", string(voice)).
		Str("path", result.Path).
		Int("bytes", result.Bytes).
		Str("format", string(result.Audio.Format)).
		Dur("duration", result.Audio.Duration).
		Float64("rms", result.Audio.RMS).
		Dur("latency", latency).
		Bool("silent", result.Audio.Silent).
		Msg("clip written")

	return result
}

// Run synthesizes word with every configured voice, sequentially, creating
// outputDir if needed. Clips written before a failure stay on disk.
func (s *Synthesizer) Run(ctx context.Context, word, outputDir string) (*Report, error) {
	report := &Report{Word: word, Policy: s.policy}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return report, fmt.Errorf("failed to create output directory: %w", err)
	}

	var errs []error
	for i, voice := range s.voices {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		s.logger.Info().
			Int("index", i).
			Int("total", len(s.voices)).
			Msgf("Synthesizing hotword %q with voice %s", word, voice)

		result := s.Synthesize(ctx, word, voice, outputDir)
		report.Results = append(report.Results, result)
		if result.Err == nil {
			continue
		}

		err := fmt.Errorf("voice %s: %w", voice, result.Err)
		if s.policy == HaltOnError {
			return report, err
		}
		s.logger.Error().Err(result.Err).Str("voice", string(voice)).Msg("voice failed, continuing")
		errs = append(errs, err)
	}

	return report, errors.Join(errs...)
}

// writeClip creates the word directory on demand and replaces any existing clip
func writeClip(path string, data []byte) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create word directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create clip: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close clip: %w", cerr)
		}
	}()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("failed to write clip: %w", err)
	}
	return nil
}
