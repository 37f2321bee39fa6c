package provider

import (
	"context"
	"strings"
	"unicode/utf8"
)

// #region types

// MinSegmentChars is the shortest sentence, in runes, a provider returns.
const MinSegmentChars = 10

// Segment is one sentence of the input text with its topic coherence.
// Coherence is nominally in [0, 1]; callers clamp it.
type Segment struct {
	Text      string  `json:"text"`
	Coherence float64 `json:"coherence"`
}

// Provider splits text into sentences and rates each one against the topic.
type Provider interface {
	Segment(ctx context.Context, topic, text string) ([]Segment, error)
}

// Func adapts a plain function to the Provider interface.
type Func func(ctx context.Context, topic, text string) ([]Segment, error)

// Segment calls f.
func (f Func) Segment(ctx context.Context, topic, text string) ([]Segment, error) {
	return f(ctx, topic, text)
}

// #endregion types

// #region filter

// Filter trims each segment and drops blank ones and those shorter than
// MinSegmentChars. Order is preserved.
func Filter(segments []Segment) []Segment {
	out := make([]Segment, 0, len(segments))
	for _, s := range segments {
		s.Text = strings.TrimSpace(s.Text)
		if s.Text == "" || utf8.RuneCountInString(s.Text) < MinSegmentChars {
			continue
		}
		out = append(out, s)
	}
	return out
}

// #endregion filter
