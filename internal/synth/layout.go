package synth

import (
	"path/filepath"
	"strings"

	"github.com/lexiqai/wakeword-synth/internal/voices"
)

// fileExt is fixed regardless of the format the API returns.
const fileExt = ".mp3"

// WordDir returns the per-word subdirectory: every space in word becomes "_".
func WordDir(outputDir, word string) string {
	return filepath.Join(outputDir, strings.ReplaceAll(word, " ", "_"))
}

// OutputPath returns where the clip for word and voice is written. Only the
// directory is sanitized; the file name keeps word as given.
func OutputPath(outputDir, word string, voice voices.Voice) string {
	return filepath.Join(WordDir(outputDir, word), word+"_"+string(voice)+fileExt)
}
