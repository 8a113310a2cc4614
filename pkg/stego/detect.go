package stego

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

const (
	// DefaultThreshold is the tri-level fraction above which a buffer is
	// classified as Protected.
	DefaultThreshold = 0.8

	// DefaultSamplePixels is the number of pixels the detector samples.
	DefaultSamplePixels = 33
)

// Detector guesses whether a buffer's payload was written with the
// Protected profile. It looks at the low two bits of early payload
// channels: tri-level writing leaves only 11 and 00, while plain writing
// and natural image noise spread over all four values.
//
// This is a heuristic. A plain payload made mostly of zero bits, or an
// unusual carrier, can be misclassified.
type Detector struct {
	Threshold    float64
	SamplePixels int
}

// DefaultDetector uses DefaultThreshold and DefaultSamplePixels.
var DefaultDetector = Detector{
	Threshold:    DefaultThreshold,
	SamplePixels: DefaultSamplePixels,
}

// Validate checks the detector's tuning.
func (d Detector) Validate() error {
	if d.Threshold <= 0 || d.Threshold >= 1 {
		return fmt.Errorf("detector threshold must be in (0, 1), got %v", d.Threshold)
	}
	if d.SamplePixels < 1 {
		return fmt.Errorf("detector sample size must be positive, got %d", d.SamplePixels)
	}
	return nil
}

// window returns how many payload channels to sample. When the header
// holds a plausible length shorter than the sample size, sampling stops
// there so untouched carrier channels do not dilute the count.
func (d Detector) window(buf []byte) int {
	n := d.SamplePixels * ColorChannels
	if c := Capacity(buf, Protected); n > c {
		n = c
	}
	if length, err := validLength(buf); err == nil && length < n {
		n = length
	}
	return n
}

// Fraction returns the share of sampled channels whose low bits are 11 or 00.
// It returns 0 when there is nothing to sample.
func (d Detector) Fraction(buf []byte) float64 {
	n := d.window(buf)
	if n == 0 {
		return 0
	}
	hits := 0
	for k := 0; k < n; k++ {
		if isTriLevel(buf[channelOffset(PayloadOffset, k)]) {
			hits++
		}
	}
	return float64(hits) / float64(n)
}

// IsProtected reports whether the sampled fraction exceeds the threshold.
func (d Detector) IsProtected(buf []byte) bool {
	return d.Fraction(buf) > d.Threshold
}

// Analysis summarises the low-bit distribution of a buffer's sample window.
type Analysis struct {
	Pixels       int
	Capacity     int
	HeaderLength uint32
	HeaderValid  bool

	Sampled int
	// Counts holds how many sampled channels ended in 00, 01, 10 and 11.
	Counts           [4]int
	TriLevelFraction float64
	// Entropy of the low-bit distribution in bits (0 to 2).
	Entropy   float64
	Protected bool
}

// Analyze reports the statistics the detector bases its verdict on.
func (d Detector) Analyze(buf []byte) Analysis {
	a := Analysis{
		Pixels:   PixelCount(buf),
		Capacity: Capacity(buf, Protected),
	}
	if length, err := readHeader(buf); err == nil {
		a.HeaderLength = length
		_, err = validLength(buf)
		a.HeaderValid = err == nil
	}

	a.Sampled = d.window(buf)
	for k := 0; k < a.Sampled; k++ {
		a.Counts[buf[channelOffset(PayloadOffset, k)]&lowBitsMask]++
	}
	if a.Sampled > 0 {
		p := make([]float64, len(a.Counts))
		for i, c := range a.Counts {
			p[i] = float64(c) / float64(a.Sampled)
		}
		a.Entropy = stat.Entropy(p) / math.Ln2
		a.TriLevelFraction = float64(a.Counts[0]+a.Counts[3]) / float64(a.Sampled)
	}
	a.Protected = a.TriLevelFraction > d.Threshold
	return a
}
