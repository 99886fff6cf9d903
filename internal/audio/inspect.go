package audio

import "time"

// Inspection summarises a synthesized clip for logging. It is computed from
// the bytes as returned by the API and never changes them.
type Inspection struct {
	Format   Format
	Bytes    int
	Duration time.Duration // Zero unless the clip is WAV
	RMS      float64       // Zero unless the clip is 16-bit PCM WAV
	Silent   bool
}

// Inspect sniffs data and, for 16-bit PCM WAV, measures its level against
// silenceThreshold. Parse failures leave the WAV fields zero.
func Inspect(data []byte, silenceThreshold float64) Inspection {
	in := Inspection{
		Format: DetectFormat(data),
		Bytes:  len(data),
	}
	if in.Format != FormatWAV {
		return in
	}

	info, err := ParseWAVHeader(data)
	if err != nil {
		return in
	}
	in.Duration = info.Duration()

	samples, err := info.Samples(data)
	if err != nil {
		return in
	}
	in.RMS = CalculateRMS(samples)
	in.Silent = DetectSilence(samples, silenceThreshold)
	return in
}
