package logging

import (
	"time"

	"github.com/quantum-lichen/LMC-Scanner/internal/diagnostic"
)

// #region config
// Config controls the process logger.
type Config struct {
	Level string `yaml:"level"` // debug | info | warn | error
	// File enables a rotating file sink in addition to stderr.
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	JSON       bool   `yaml:"json"`
}

// DefaultConfig returns info-level console logging with rotation defaults.
func DefaultConfig() Config {
	return Config{
		Level:      "info",
		MaxSizeMB:  10,
		MaxBackups: 5,
		MaxAgeDays: 28,
	}
}

// #endregion config

// #region scan-entry
// ScanEntry is a single row in the provenance_log table.
type ScanEntry struct {
	ScanID      string // empty when the scan failed before a result existed
	Source      string // "cli" | "http" | "watch" | "replay"
	Provider    string
	Outcome     string // "ok" | "invalid" | "provider_error" | "canceled"
	Reason      string
	DetailsJSON string
	CreatedAt   time.Time
}

// #endregion scan-entry

// #region scan-record
// ScanRecord captures the classifier inputs active for one scan.
// Serialized as JSON into provenance_log.details_json.
type ScanRecord struct {
	Topic         string                      `json:"topic"`
	Sentences     int                         `json:"sentences"`
	EntropyMethod string                      `json:"entropy_method"`
	Thresholds    diagnostic.Thresholds       `json:"thresholds"`
	Counts        map[diagnostic.Category]int `json:"counts,omitempty"`
	Degraded      bool                        `json:"degraded"`
	ElapsedMS     int64                       `json:"elapsed_ms"`
}

// #endregion scan-record
