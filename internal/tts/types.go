package tts

import (
	"context"
	"fmt"

	"github.com/lexiqai/wakeword-synth/internal/voices"
)

// Request is a single word rendered by a single voice
type Request struct {
	Text  string
	Voice voices.Voice
}

// Synthesizer defines the interface for a Text-to-Speech backend
type Synthesizer interface {
	// Synthesize returns the complete audio body for req
	Synthesize(ctx context.Context, req Request) ([]byte, error)
}

// APIError is returned for any non-200 response, whatever the body says
type APIError struct {
	StatusCode int
	Status     string
	Body       string // First bytes of the response body, for diagnostics
}

func (e *APIError) Error() string {
	return fmt.Sprintf("error during API access, code: %d", e.StatusCode)
}
