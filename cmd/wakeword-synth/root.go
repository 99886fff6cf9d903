package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lexiqai/wakeword-synth/internal/config"
	"github.com/lexiqai/wakeword-synth/internal/observability"
	"github.com/lexiqai/wakeword-synth/internal/synth"
	"github.com/lexiqai/wakeword-synth/internal/tts"
	"github.com/lexiqai/wakeword-synth/internal/voices"
)

// synthClient is what a run needs from the IBM client
type synthClient interface {
	tts.Synthesizer
	Close() error
}

type rootOptions struct {
	continueOnError bool
	voices          []string
	listVoices      bool

	newClient func(*config.Config) synthClient
}

func newRootCmd() *cobra.Command {
	return newRootCmdWith(func(cfg *config.Config) synthClient {
		return tts.NewIBMClient(cfg)
	})
}

// newRootCmdWith builds the command around newClient, which is only called
// once configuration has loaded.
func newRootCmdWith(newClient func(*config.Config) synthClient) *cobra.Command {
	opts := &rootOptions{newClient: newClient}

	cmd := &cobra.Command{
		Use:   "wakeword-synth <wakeword> <location>",
		Short: "Synthesize audio samples of a wakeword with IBM Cloud Text to Speech",
		Long: `Synthesizes one clip of the wakeword per catalogue voice and saves them to
<location>/<wakeword_with_underscores>/<wakeword>_<voice>.mp3.

Requires IBM_CLOUD_API_KEY and IBM_CLOUD_URL, set directly or in a .env file.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if opts.listVoices {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(2)(cmd, args)
		},
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.listVoices {
				return runListVoices(cmd)
			}
			return runSynthesize(cmd, opts, args[0], args[1])
		},
	}

	cmd.Flags().BoolVar(&opts.continueOnError, "continue-on-error", false, "Keep going after a voice fails and report all failures at the end")
	cmd.Flags().StringSliceVar(&opts.voices, "voice", nil, "Only synthesize these voices (repeatable)")
	cmd.Flags().BoolVar(&opts.listVoices, "list-voices", false, "Print the voice catalogue and exit")

	return cmd
}

func runListVoices(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	for _, f := range voices.Families() {
		fmt.Fprintf(out, "%s:\n", f.Name)
		for _, v := range f.Voices {
			fmt.Fprintf(out, "  %s\n", v)
		}
	}
	return nil
}

func runSynthesize(cmd *cobra.Command, opts *rootOptions, word, location string) error {
	selected, err := selectVoices(opts.voices)
	if err != nil {
		return err
	}

	// Configuration is validated before any network activity
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	observability.InitLogger(cfg.LogLevel, cfg.LogPretty)
	logger := observability.WithRunID("")

	policy := synth.HaltOnError
	if opts.continueOnError {
		policy = synth.ContinueOnError
	}

	logger.Info().
		Str("wakeword", word).
		Str("location", location).
		Int("voices", len(selected)).
		Str("policy", policy.String()).
		Msg("Synthesis run starting")

	client := opts.newClient(cfg)
	defer client.Close()

	metrics := observability.NewRunMetrics()
	s := synth.New(client,
		synth.WithVoices(selected),
		synth.WithPolicy(policy),
		synth.WithSilenceThreshold(cfg.SilenceRMSThreshold),
		synth.WithMetrics(metrics),
		synth.WithLogger(logger),
	)

	report, runErr := s.Run(cmd.Context(), word, location)
	metrics.RecordRunEnd(runErr == nil)

	if cfg.MetricsTextfile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsTextfile); err != nil {
			logger.Error().Err(err).Str("path", cfg.MetricsTextfile).Msg("Failed to export metrics")
		}
	}

	event := logger.Info()
	if runErr != nil {
		event = logger.Error().Err(runErr)
	}
	event.
		Int("written", report.Succeeded()).
		Int("failed", len(report.Failed())).
		Int("silent", len(report.Silent())).
		Str("directory", synth.WordDir(location, word)).
		Msg("Synthesis run finished")

	return runErr
}

// selectVoices maps --voice values onto the catalogue, keeping flag order.
// No values means every voice.
func selectVoices(names []string) ([]voices.Voice, error) {
	if len(names) == 0 {
		return voices.All(), nil
	}

	selected := make([]voices.Voice, 0, len(names))
	for _, name := range names {
		v, ok := voices.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("unknown voice %q (see --list-voices)", name)
		}
		selected = append(selected, v)
	}
	return selected, nil
}
