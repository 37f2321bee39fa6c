package provider

import (
	"context"
	"math"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// #region config

// LexicalConfig tunes the offline provider.
type LexicalConfig struct {
	// StemLength truncates folded tokens to this many runes. 0 disables.
	StemLength int
	// DocumentWeight scales the share of a sentence's stems found in the
	// sentences that match the topic directly. 0 disables expansion.
	DocumentWeight float64
}

// DefaultLexicalConfig returns the defaults used by the CLI and server.
func DefaultLexicalConfig() LexicalConfig {
	return LexicalConfig{
		StemLength:     6,
		DocumentWeight: 0.5,
	}
}

// #endregion config

// #region lexical

// Lexical is a deterministic, network-free provider. Sentences are split on
// terminal punctuation and newlines.
//
// Coherence is the square root of the larger of two shares: the topic stems
// found in the sentence, and (weighted) the sentence stems found in other
// sentences that match the topic directly.
type Lexical struct {
	config LexicalConfig
}

// NewLexical creates a Lexical provider.
func NewLexical(config LexicalConfig) *Lexical {
	return &Lexical{config: config}
}

var sentencePattern = regexp.MustCompile(`[^.!?\n]+[.!?]*`)

// Split returns the raw sentences of text, unfiltered.
func Split(text string) []string {
	return sentencePattern.FindAllString(text, -1)
}

// Segment implements Provider.
func (l *Lexical) Segment(ctx context.Context, topic, text string) ([]Segment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw := Split(text)
	segments := make([]Segment, 0, len(raw))
	for _, s := range raw {
		segments = append(segments, Segment{Text: s})
	}
	segments = Filter(segments)

	topicStems := l.stemSet(topic)
	stems := make([][]string, len(segments))
	direct := make([]float64, len(segments))
	for i, seg := range segments {
		stems[i] = l.stemSet(seg.Text)
		direct[i] = coverage(topicStems, stems[i])
	}

	for i := range segments {
		c := direct[i]
		if l.config.DocumentWeight > 0 {
			var related []string
			for j := range segments {
				if j != i && direct[j] > 0 {
					related = append(related, stems[j]...)
				}
			}
			if d := l.config.DocumentWeight * coverage(stems[i], related); d > c {
				c = d
			}
		}
		segments[i].Coherence = math.Sqrt(c)
	}
	return segments, nil
}

// #endregion lexical

// #region tokens

// Fold lowercases s and strips diacritics.
func Fold(s string) string {
	t := norm.NFD.String(strings.ToLower(s))
	return strings.Map(func(r rune) rune {
		if unicode.Is(unicode.Mn, r) {
			return -1
		}
		return r
	}, t)
}

// Tokens returns folded, stemmed, stop-word-filtered tokens of s.
func (l *Lexical) Tokens(s string) []string {
	words := strings.FieldsFunc(Fold(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	var tokens []string
	for _, w := range words {
		if len([]rune(w)) < 2 || stopwords[w] {
			continue
		}
		tokens = append(tokens, l.stem(w))
	}
	return tokens
}

func (l *Lexical) stem(w string) string {
	r := []rune(w)
	if len(r) > 3 && (r[len(r)-1] == 's' || r[len(r)-1] == 'x') {
		r = r[:len(r)-1]
	}
	if l.config.StemLength > 0 && len(r) > l.config.StemLength {
		r = r[:l.config.StemLength]
	}
	return string(r)
}

// stemSet returns the distinct tokens of s in first-seen order.
func (l *Lexical) stemSet(s string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range l.Tokens(s) {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

// coverage returns the share of want that has a match in have.
func coverage(want, have []string) float64 {
	if len(want) == 0 || len(have) == 0 {
		return 0
	}
	found := 0
	for _, w := range want {
		for _, h := range have {
			if stemsMatch(w, h) {
				found++
				break
			}
		}
	}
	return float64(found) / float64(len(want))
}

// stemsMatch reports whether a and b are equal, or share a prefix covering
// all but the last rune of the shorter one when it has at least 4 runes
// ("etude" and "etudie").
func stemsMatch(a, b string) bool {
	if a == b {
		return true
	}
	ra, rb := []rune(a), []rune(b)
	if len(rb) < len(ra) {
		ra, rb = rb, ra
	}
	if len(ra) < 4 {
		return false
	}
	for i := 0; i < len(ra)-1; i++ {
		if ra[i] != rb[i] {
			return false
		}
	}
	return true
}

// #endregion tokens
