package scan

import (
	"time"

	"github.com/quantum-lichen/LMC-Scanner/internal/diagnostic"
	"github.com/quantum-lichen/LMC-Scanner/internal/entropy"
)

// #region sentence

// SentenceAnalysis is the per-sentence record of a scan.
type SentenceAnalysis struct {
	ID         string              `json:"id"`
	Text       string              `json:"text"`
	Entropy    float64             `json:"entropy"`   // H
	Coherence  float64             `json:"coherence"` // C
	LMCScore   float64             `json:"lmcScore"`
	Diagnostic diagnostic.Category `json:"diagnostic"`
}

// #endregion sentence

// #region result

// Result is the outcome of one scan. Sentences keep provider order.
type Result struct {
	ID               string                      `json:"id"`
	Topic            string                      `json:"topic"`
	Sentences        []SentenceAnalysis          `json:"sentences"`
	AverageLMC       float64                     `json:"averageLmc"`
	AverageEntropy   float64                     `json:"averageEntropy"`
	AverageCoherence float64                     `json:"averageCoherence"`
	Counts           map[diagnostic.Category]int `json:"counts"`
	Degraded         bool                        `json:"degraded"`
	CreatedAt        time.Time                   `json:"createdAt"`
}

// #endregion result

// #region config

// Config holds scanner parameters.
type Config struct {
	Workers       int                   `yaml:"workers"`
	EntropyMethod entropy.Method        `yaml:"entropy_method"`
	Thresholds    diagnostic.Thresholds `yaml:"thresholds"`
	// Compressor overrides gzip. Nil means gzip.
	Compressor entropy.Compressor `yaml:"-"`
}

// DefaultConfig returns the default scanner configuration.
func DefaultConfig() Config {
	return Config{
		Workers:       4,
		EntropyMethod: entropy.MethodCompression,
		Thresholds:    diagnostic.DefaultThresholds(),
	}
}

// #endregion config
