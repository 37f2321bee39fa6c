package entropy

import (
	"bytes"
	"fmt"

	"github.com/klauspost/compress/gzip"
)

// #region gzip
// Gzip compresses with the deflate-based gzip container at BestCompression.
// Lower levels store inputs under 128 bytes without match search, which hides
// repetition inside a single sentence. The 18-byte gzip header and trailer are
// counted, so short strings can score above 1.
type Gzip struct{}

// CompressedSize returns the gzip-compressed length of raw.
func (Gzip) CompressedSize(raw []byte) (int, error) {
	var buf bytes.Buffer
	zw, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
	if err != nil {
		return 0, fmt.Errorf("gzip writer: %w", err)
	}
	if _, err := zw.Write(raw); err != nil {
		return 0, fmt.Errorf("gzip write: %w", err)
	}
	if err := zw.Close(); err != nil {
		return 0, fmt.Errorf("gzip close: %w", err)
	}
	return buf.Len(), nil
}

// #endregion gzip

// #region estimator
// Estimator turns text into a compressibility score.
type Estimator struct {
	method     Method
	compressor Compressor
	onDegrade  DegradationFunc
}

// NewEstimator creates an estimator. compressor may be nil (defaults to Gzip).
// onDegrade may be nil.
func NewEstimator(method Method, compressor Compressor, onDegrade DegradationFunc) *Estimator {
	if compressor == nil {
		compressor = Gzip{}
	}
	if method == "" {
		method = MethodCompression
	}
	return &Estimator{method: method, compressor: compressor, onDegrade: onDegrade}
}

// Method returns the configured primary method.
func (e *Estimator) Method() Method {
	return e.method
}

// Estimate returns the entropy of text and whether the diversity fallback was
// used because the compressor failed. Empty text is exactly 0.
func (e *Estimator) Estimate(text string) (float64, bool) {
	if len(text) == 0 {
		return 0, false
	}
	if e.method == MethodDiversity {
		return Diversity(text), false
	}

	raw := []byte(text)
	size, err := e.compressor.CompressedSize(raw)
	if err != nil || size <= 0 {
		if err == nil {
			err = fmt.Errorf("compressor returned size %d", size)
		}
		if e.onDegrade != nil {
			e.onDegrade(err)
		}
		return Diversity(text), true
	}
	return float64(size) / float64(len(raw)), false
}

// #endregion estimator

// #region helpers
var defaultEstimator = NewEstimator(MethodCompression, Gzip{}, nil)

// Estimate computes compression entropy with the default gzip estimator.
func Estimate(text string) float64 {
	h, _ := defaultEstimator.Estimate(text)
	return h
}

// Diversity returns distinct runes / total runes. Invalid UTF-8 bytes each
// count as utf8.RuneError.
func Diversity(text string) float64 {
	if len(text) == 0 {
		return 0
	}
	seen := make(map[rune]struct{})
	total := 0
	for _, r := range text {
		seen[r] = struct{}{}
		total++
	}
	return float64(len(seen)) / float64(total)
}

// #endregion helpers
