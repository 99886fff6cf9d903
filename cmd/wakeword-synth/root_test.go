package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexiqai/wakeword-synth/internal/config"
	"github.com/lexiqai/wakeword-synth/internal/tts"
	"github.com/lexiqai/wakeword-synth/internal/voices"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func countingServer(t *testing.T, status int) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(status)
		if status == http.StatusOK {
			w.Write([]byte("ID3" + r.URL.Query().Get("voice")))
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func unsetEnv(t *testing.T, key string) {
	t.Setenv(key, "")
	os.Unsetenv(key)
}

func TestRoot_MissingAPIKeyMakesNoRequest(t *testing.T) {
	srv, hits := countingServer(t, http.StatusOK)
	unsetEnv(t, "IBM_CLOUD_API_KEY")
	t.Setenv("IBM_CLOUD_URL", srv.URL)

	_, err := execute(t, "hello", t.TempDir())

	var cfgErr *config.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, []string{"IBM_CLOUD_API_KEY"}, cfgErr.Missing)
	assert.Equal(t, int32(0), hits.Load())
}

func TestRoot_MissingConfigMakesNoRequest(t *testing.T) {
	tests := []struct {
		name    string
		apiKey  string
		url     string
		missing []string
	}{
		{"missing api key", "", "https://api.example.test", []string{"IBM_CLOUD_API_KEY"}},
		{"missing url", "test-ibm-key", "", []string{"IBM_CLOUD_URL"}},
		{"missing both", "", "", []string{"IBM_CLOUD_API_KEY", "IBM_CLOUD_URL"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, hits := countingServer(t, http.StatusOK)
			for key, val := range map[string]string{"IBM_CLOUD_API_KEY": tt.apiKey, "IBM_CLOUD_URL": tt.url} {
				if val == "" {
					unsetEnv(t, key)
				} else {
					t.Setenv(key, val)
				}
			}

			// The client always targets the counting server, whatever the env says
			var built atomic.Int32
			cmd := newRootCmdWith(func(cfg *config.Config) synthClient {
				built.Add(1)
				return tts.NewIBMClient(&config.Config{IBMCloudAPIKey: "k", IBMCloudURL: srv.URL})
			})
			var out bytes.Buffer
			cmd.SetOut(&out)
			cmd.SetErr(&out)

			location := filepath.Join(t.TempDir(), "out")
			cmd.SetArgs([]string{"hello", location})
			err := cmd.ExecuteContext(context.Background())

			var cfgErr *config.ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.missing, cfgErr.Missing)
			assert.Equal(t, int32(0), built.Load(), "client must not be built")
			assert.Equal(t, int32(0), hits.Load(), "no HTTP request expected")

			// No partial output
			_, statErr := os.Stat(location)
			assert.True(t, os.IsNotExist(statErr))
		})
	}
}

func TestRoot_WritesClips(t *testing.T) {
	srv, hits := countingServer(t, http.StatusOK)
	t.Setenv("IBM_CLOUD_API_KEY", "test-ibm-key")
	t.Setenv("IBM_CLOUD_URL", srv.URL)
	unsetEnv(t, "METRICS_TEXTFILE")

	location := t.TempDir()
	_, err := execute(t, "ok google", location)
	require.NoError(t, err)

	assert.Equal(t, int32(len(voices.All())), hits.Load())
	got, err := os.ReadFile(filepath.Join(location, "ok_google", "ok google_en-US_AllisonV3Voice.mp3"))
	require.NoError(t, err)
	assert.Equal(t, "ID3en-US_AllisonV3Voice", string(got))
}

func TestRoot_HaltsOnAPIError(t *testing.T) {
	srv, hits := countingServer(t, http.StatusUnauthorized)
	t.Setenv("IBM_CLOUD_API_KEY", "bad-key")
	t.Setenv("IBM_CLOUD_URL", srv.URL)

	_, err := execute(t, "hello", t.TempDir())

	var apiErr *tts.APIError
	require.True(t, errors.As(err, &apiErr), "expected *tts.APIError, got %v", err)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, int32(1), hits.Load())
}

func TestRoot_ContinueOnError(t *testing.T) {
	srv, hits := countingServer(t, http.StatusInternalServerError)
	t.Setenv("IBM_CLOUD_API_KEY", "test-ibm-key")
	t.Setenv("IBM_CLOUD_URL", srv.URL)

	_, err := execute(t, "--continue-on-error", "hello", t.TempDir())
	require.Error(t, err)
	assert.Equal(t, int32(len(voices.All())), hits.Load())
}

func TestRoot_VoiceFlag(t *testing.T) {
	srv, hits := countingServer(t, http.StatusOK)
	t.Setenv("IBM_CLOUD_API_KEY", "test-ibm-key")
	t.Setenv("IBM_CLOUD_URL", srv.URL)

	location := t.TempDir()
	_, err := execute(t, "--voice", "de-DE_BirgitV3Voice", "--voice", "fr-FR_ReneeV3Voice", "hello", location)
	require.NoError(t, err)

	assert.Equal(t, int32(2), hits.Load())
	entries, err := os.ReadDir(filepath.Join(location, "hello"))
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestRoot_UnknownVoice(t *testing.T) {
	srv, hits := countingServer(t, http.StatusOK)
	t.Setenv("IBM_CLOUD_API_KEY", "test-ibm-key")
	t.Setenv("IBM_CLOUD_URL", srv.URL)

	_, err := execute(t, "--voice", "xx-XX_NobodyVoice", "hello", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown voice")
	assert.Equal(t, int32(0), hits.Load())
}

func TestRoot_MetricsTextfile(t *testing.T) {
	srv, _ := countingServer(t, http.StatusOK)
	t.Setenv("IBM_CLOUD_API_KEY", "test-ibm-key")
	t.Setenv("IBM_CLOUD_URL", srv.URL)
	metricsPath := filepath.Join(t.TempDir(), "run.prom")
	t.Setenv("METRICS_TEXTFILE", metricsPath)

	_, err := execute(t, "--voice", "en-GB_KateV3Voice", "hello", t.TempDir())
	require.NoError(t, err)

	data, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "wakeword_synth_files_total 1")
}

func TestRoot_ListVoicesNeedsNoCredentials(t *testing.T) {
	unsetEnv(t, "IBM_CLOUD_API_KEY")
	unsetEnv(t, "IBM_CLOUD_URL")

	out, err := execute(t, "--list-voices")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "German:\n"))
	for _, v := range voices.All() {
		assert.Contains(t, out, string(v))
	}
}

func TestRoot_RequiresTwoArgs(t *testing.T) {
	_, err := execute(t, "hello")
	assert.Error(t, err)
}
