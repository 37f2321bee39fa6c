package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// #region types

const (
	DefaultOllamaURL   = "http://localhost:11434"
	DefaultOllamaModel = "llama3.2"
)

// StatusError is returned when the Ollama server answers with a non-200 code.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("ollama returned status %d", e.Code)
}

// Temporary reports whether the status is worth retrying.
func (e *StatusError) Temporary() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= 500
}

type ollamaGenerateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
	Format string `json:"format"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

type segmentsPayload struct {
	Segments []Segment `json:"segments"`
}

// #endregion types

// #region ollama

// Ollama asks a local Ollama model to segment the text and rate coherence.
type Ollama struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewOllama creates an Ollama provider. Empty values fall back to defaults.
func NewOllama(baseURL, model string, timeout time.Duration) *Ollama {
	if baseURL == "" {
		baseURL = DefaultOllamaURL
	}
	if model == "" {
		model = DefaultOllamaModel
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Ollama{
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{Timeout: timeout},
	}
}

// Prompt builds the segmentation prompt for topic and text.
func Prompt(topic, text string) string {
	return fmt.Sprintf(`You are a semantic analysis engine.
Context Topic: %q

Analyze the following text block. Split it into individual sentences (ignore very short segments < %d chars).
For each sentence, calculate a "coherence" score between 0.0 and 1.0, representing how semantically relevant
and consistent the sentence is regarding the Context Topic.

1.0 = Perfectly on topic.
0.0 = Completely off topic or nonsense.

Answer with JSON only, shaped as {"segments":[{"text":"...","coherence":0.0}]}.

Text Block:
%q
`, topic, MinSegmentChars, text)
}

// Segment implements Provider.
func (o *Ollama) Segment(ctx context.Context, topic, text string) ([]Segment, error) {
	body, err := json.Marshal(ollamaGenerateRequest{
		Model:  o.model,
		Prompt: Prompt(topic, text),
		Stream: false,
		Format: "json",
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling ollama: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode}
	}

	var gen ollamaGenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gen); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	var payload segmentsPayload
	if err := json.Unmarshal([]byte(gen.Response), &payload); err != nil {
		return nil, fmt.Errorf("decoding segments: %w", err)
	}
	return Filter(payload.Segments), nil
}

// #endregion ollama
