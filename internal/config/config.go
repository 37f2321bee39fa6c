package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/quantum-lichen/LMC-Scanner/internal/entropy"
	"github.com/quantum-lichen/LMC-Scanner/internal/logging"
	"github.com/quantum-lichen/LMC-Scanner/internal/provider"
	"github.com/quantum-lichen/LMC-Scanner/internal/scan"
)

// #region types

// Provider kinds.
const (
	ProviderLexical = "lexical"
	ProviderOllama  = "ollama"
	ProviderGRPC    = "grpc"
)

// ProviderConfig selects and tunes the coherence provider.
type ProviderConfig struct {
	Kind         string        `yaml:"kind"`
	OllamaURL    string        `yaml:"ollama_url"`
	OllamaModel  string        `yaml:"ollama_model"`
	CodecAddr    string        `yaml:"codec_addr"`
	Timeout      time.Duration `yaml:"timeout"`
	Retry        bool          `yaml:"retry"`
	RetryBackoff time.Duration `yaml:"retry_backoff"`
	StemLength   int           `yaml:"stem_length"`
	DocWeight    float64       `yaml:"document_weight"`
}

// HTTPConfig configures the API server.
type HTTPConfig struct {
	Addr        string        `yaml:"addr"`
	CORSOrigin  string        `yaml:"cors_origin"`
	ScanTimeout time.Duration `yaml:"scan_timeout"`
	MaxBodyKB   int64         `yaml:"max_body_kb"`
}

// WatchConfig configures directory watching.
type WatchConfig struct {
	Dir      string        `yaml:"dir"`
	Topic    string        `yaml:"topic"`
	Debounce time.Duration `yaml:"debounce"`
}

// Config is the full application configuration.
type Config struct {
	DB       string         `yaml:"db"`
	Provider ProviderConfig `yaml:"provider"`
	Scan     scan.Config    `yaml:"scan"`
	HTTP     HTTPConfig     `yaml:"http"`
	Watch    WatchConfig    `yaml:"watch"`
	Log      logging.Config `yaml:"log"`
}

// #endregion types

// #region defaults

// Default returns the built-in configuration.
func Default() Config {
	lex := provider.DefaultLexicalConfig()
	return Config{
		DB: "lmc.db",
		Provider: ProviderConfig{
			Kind:         ProviderLexical,
			OllamaURL:    provider.DefaultOllamaURL,
			OllamaModel:  provider.DefaultOllamaModel,
			CodecAddr:    "localhost:50061",
			Timeout:      120 * time.Second,
			Retry:        true,
			RetryBackoff: 500 * time.Millisecond,
			StemLength:   lex.StemLength,
			DocWeight:    lex.DocumentWeight,
		},
		Scan: scan.DefaultConfig(),
		HTTP: HTTPConfig{
			Addr:        ":8080",
			CORSOrigin:  "*",
			ScanTimeout: 3 * time.Minute,
			MaxBodyKB:   512,
		},
		Watch: WatchConfig{
			Debounce: 500 * time.Millisecond,
		},
		Log: logging.DefaultConfig(),
	}
}

// #endregion defaults

// #region load

// Load reads .env (if present), then the YAML file at path (skipped when path
// is empty), then LMC_* environment overrides, and validates the result.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("LMC_DB"); v != "" {
		cfg.DB = v
	}
	if v := os.Getenv("LMC_PROVIDER"); v != "" {
		cfg.Provider.Kind = v
	}
	if v := os.Getenv("LMC_OLLAMA_URL"); v != "" {
		cfg.Provider.OllamaURL = v
	}
	if v := os.Getenv("LMC_OLLAMA_MODEL"); v != "" {
		cfg.Provider.OllamaModel = v
	}
	if v := os.Getenv("LMC_CODEC_ADDR"); v != "" {
		cfg.Provider.CodecAddr = v
	}
	if v := os.Getenv("LMC_HTTP_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}
	if v := os.Getenv("LMC_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("LMC_WORKERS: %w", err)
		}
		cfg.Scan.Workers = n
	}
	if v := os.Getenv("LMC_ENTROPY_METHOD"); v != "" {
		cfg.Scan.EntropyMethod = entropy.Method(v)
	}
	if v := os.Getenv("LMC_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LMC_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	return nil
}

// #endregion load

// #region validate

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	switch c.Provider.Kind {
	case ProviderLexical, ProviderOllama, ProviderGRPC:
	default:
		return fmt.Errorf("unknown provider %q", c.Provider.Kind)
	}
	if _, ok := entropy.ParseMethod(string(c.Scan.EntropyMethod)); !ok {
		return fmt.Errorf("unknown entropy method %q", c.Scan.EntropyMethod)
	}
	if c.Scan.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Scan.Workers)
	}
	t := c.Scan.Thresholds
	if t.DropoutCoherence < 0 || t.OptimalScore < 0 || t.StereotypeEntropy < 0 || t.NoiseEntropy < 0 {
		return fmt.Errorf("thresholds must be non-negative: %+v", t)
	}
	if t.StereotypeEntropy > t.NoiseEntropy {
		return fmt.Errorf("stereotype entropy %.2f exceeds noise entropy %.2f", t.StereotypeEntropy, t.NoiseEntropy)
	}
	return nil
}

// LexicalConfig returns the offline provider settings.
func (c Config) LexicalConfig() provider.LexicalConfig {
	return provider.LexicalConfig{
		StemLength:     c.Provider.StemLength,
		DocumentWeight: c.Provider.DocWeight,
	}
}

// #endregion validate
