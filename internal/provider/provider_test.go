package provider

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFilter(t *testing.T) {
	in := []Segment{
		{Text: "  Les étoiles brillent la nuit.  ", Coherence: 0.9},
		{Text: "Oui.", Coherence: 0.5},
		{Text: "   ", Coherence: 0.1},
		{Text: "Exactement!", Coherence: 0.4},
		{Text: "Le soleil est une étoile.", Coherence: 0.8},
	}
	want := []Segment{
		{Text: "Les étoiles brillent la nuit.", Coherence: 0.9},
		{Text: "Exactement!", Coherence: 0.4},
		{Text: "Le soleil est une étoile.", Coherence: 0.8},
	}
	if diff := cmp.Diff(want, Filter(in)); diff != "" {
		t.Errorf("Filter mismatch (-want +got):\n%s", diff)
	}
}

func TestFilter_CountsRunes(t *testing.T) {
	// 9 runes, 12 bytes
	if got := Filter([]Segment{{Text: "ééééééééé"}}); len(got) != 0 {
		t.Errorf("expected 9-rune segment dropped, got %v", got)
	}
	if got := Filter([]Segment{{Text: "éééééééééé"}}); len(got) != 1 {
		t.Errorf("expected 10-rune segment kept, got %v", got)
	}
}

func TestFunc_Adapter(t *testing.T) {
	var p Provider = Func(func(ctx context.Context, topic, text string) ([]Segment, error) {
		return []Segment{{Text: topic + ":" + text}}, nil
	})
	got, err := p.Segment(context.Background(), "a", "b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Text != "a:b" {
		t.Errorf("unexpected segments: %v", got)
	}
}
