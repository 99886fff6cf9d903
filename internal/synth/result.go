package synth

import (
	"github.com/lexiqai/wakeword-synth/internal/audio"
	"github.com/lexiqai/wakeword-synth/internal/voices"
)

// Result is the outcome of one voice. Err is nil on success.
type Result struct {
	Voice voices.Voice
	Path  string
	Bytes int
	Audio audio.Inspection
	Err   error
}

// OK reports whether the clip was written
func (r Result) OK() bool {
	return r.Err == nil
}

// Report lists the results of a run in voice order. Voices skipped after a
// halt have no entry.
type Report struct {
	Word    string
	Policy  HaltPolicy
	Results []Result
}

// Succeeded returns the number of clips written
func (r *Report) Succeeded() int {
	n := 0
	for _, res := range r.Results {
		if res.OK() {
			n++
		}
	}
	return n
}

// Failed returns the failing results
func (r *Report) Failed() []Result {
	var failed []Result
	for _, res := range r.Results {
		if !res.OK() {
			failed = append(failed, res)
		}
	}
	return failed
}

// Silent returns the clips whose level fell below the silence threshold
func (r *Report) Silent() []Result {
	var silent []Result
	for _, res := range r.Results {
		if res.OK() && res.Audio.Silent {
			silent = append(silent, res)
		}
	}
	return silent
}
