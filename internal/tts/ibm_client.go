package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/lexiqai/wakeword-synth/internal/config"
	"github.com/lexiqai/wakeword-synth/internal/observability"
	"github.com/lexiqai/wakeword-synth/internal/voices"
)

const (
	synthesizePath = "/v1/synthesize"
	ratePercentage = -10
	acceptFormat   = "audio/wav"
	basicAuthUser  = "apikey"

	maxErrorBody = 512
)

// IBMClient implements Synthesizer using the IBM Cloud Text to Speech API
type IBMClient struct {
	apiKey     string
	apiURL     string
	httpClient *http.Client
	logger     zerolog.Logger
}

// ibmRequest represents the request payload for the synthesize endpoint
type ibmRequest struct {
	Text string `json:"text"`
}

// NewIBMClient creates a new IBM Cloud TTS client. The underlying HTTP client
// keeps its defaults; no timeout is imposed beyond the caller's context.
func NewIBMClient(cfg *config.Config) *IBMClient {
	return &IBMClient{
		apiKey:     cfg.IBMCloudAPIKey,
		apiURL:     cfg.IBMCloudURL + synthesizePath,
		httpClient: &http.Client{},
		logger:     observability.ForComponent("ibm_tts"),
	}
}

// Synthesize sends one POST for req and returns the response body on 200
func (c *IBMClient) Synthesize(ctx context.Context, req Request) ([]byte, error) {
	jsonData, err := json.Marshal(ibmRequest{Text: req.Text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.requestURL(req.Voice), bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Accept", acceptFormat)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.SetBasicAuth(basicAuthUser, c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Debug().
			Int("status", resp.StatusCode).
			Str("voice", string(req.Voice)).
			Str("body", string(body)).
			Msg("synthesize request rejected")
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(body),
		}
	}

	audioData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	c.logger.Debug().
		Str("voice", string(req.Voice)).
		Str("content_type", resp.Header.Get("Content-Type")).
		Int("bytes", len(audioData)).
		Msg("synthesize request succeeded")

	return audioData, nil
}

// requestURL keeps voice ahead of rate_percentage; url.Values would sort them.
func (c *IBMClient) requestURL(voice voices.Voice) string {
	return c.apiURL + "?voice=" + url.QueryEscape(string(voice)) +
		"&rate_percentage=" + strconv.Itoa(ratePercentage)
}

// Close releases pooled connections. Safe to call more than once.
func (c *IBMClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
