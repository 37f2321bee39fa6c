package diagnostic

import (
	"testing"

	"github.com/quantum-lichen/LMC-Scanner/internal/score"
)

// #region rule-order-tests
func TestClassify_Rules(t *testing.T) {
	tests := []struct {
		name      string
		coherence float64
		entropy   float64
		score     float64
		want      Category
	}{
		{"dropout beats optimal", 0.1, 0.2, 5.0, Dropout},
		{"optimal beats stereotype", 0.9, 0.1, 8.9, Optimal},
		{"stereotype", 0.3, 0.2, 1.49, Stereotype},
		{"noise", 0.9, 0.9, 0.9999, Noise},
		{"neutral", 0.9, 0.5, 1.7997, Neutral},
		{"coherence at dropout bound is not dropout", 0.25, 0.5, 0.5, Neutral},
		{"entropy at stereotype bound", 0.5, 0.3, 1.6, Neutral},
		{"entropy at noise bound", 0.5, 0.85, 0.58, Neutral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.coherence, tt.entropy, tt.score); got != tt.want {
				t.Errorf("Classify(%v, %v, %v) = %s, want %s", tt.coherence, tt.entropy, tt.score, got, tt.want)
			}
		})
	}
}

func TestClassify_OptimalBoundaryExclusive(t *testing.T) {
	if got := Classify(0.9, 0.5, 1.8); got != Neutral {
		t.Fatalf("score exactly 1.8 must not be OPTIMAL, got %s", got)
	}
	if got := Classify(0.9, 0.5, 1.8000001); got != Optimal {
		t.Fatalf("score just above 1.8 must be OPTIMAL, got %s", got)
	}
}

// #endregion rule-order-tests

// #region scenario-tests
func TestClassify_ScenarioB_DropoutPrecedence(t *testing.T) {
	c, h := 0.1, 0.05
	s := score.Combine(c, h)
	if s <= 1.8 {
		t.Fatalf("precondition: expected score above 1.8, got %f", s)
	}
	if got := Classify(c, h, s); got != Dropout {
		t.Errorf("expected DROPOUT, got %s", got)
	}
}

func TestClassify_ScenarioC_Noise(t *testing.T) {
	c, h := 0.9, 0.9
	if got := Classify(c, h, score.Combine(c, h)); got != Noise {
		t.Errorf("expected NOISE, got %s", got)
	}
}

func TestClassify_ScenarioD_Neutral(t *testing.T) {
	c, h := 0.9, 0.5
	s := score.Combine(c, h)
	if s > 1.8 {
		t.Fatalf("precondition: expected score <= 1.8, got %f", s)
	}
	if got := Classify(c, h, s); got != Neutral {
		t.Errorf("expected NEUTRAL, got %s", got)
	}
}

func TestClassify_ScenarioA_LowEntropyHighCoherence(t *testing.T) {
	// Rule 2 precedes rule 3: low entropy with high coherence is OPTIMAL.
	c, h := 0.9, 0.1
	if got := Classify(c, h, score.Combine(c, h)); got != Optimal {
		t.Errorf("expected OPTIMAL, got %s", got)
	}
	// Weak coherence keeps the score under 1.8 and rule 3 fires.
	c, h = 0.26, 0.2
	if got := Classify(c, h, score.Combine(c, h)); got != Stereotype {
		t.Errorf("expected STEREOTYPE, got %s", got)
	}
}

// #endregion scenario-tests

// #region totality-tests
func TestClassify_TotalAndExclusive(t *testing.T) {
	for c := 0.0; c <= 1.0; c += 0.05 {
		for h := 0.0; h <= 2.0; h += 0.05 {
			got := Classify(c, h, score.Combine(c, h))
			if !got.Valid() {
				t.Fatalf("invalid category %q for c=%v h=%v", got, c, h)
			}
		}
	}
}

func TestNewClassifier_ZeroUsesDefaults(t *testing.T) {
	c := NewClassifier(Thresholds{})
	if c.Thresholds() != DefaultThresholds() {
		t.Errorf("expected defaults, got %+v", c.Thresholds())
	}
}

func TestClassifier_CustomThresholds(t *testing.T) {
	c := NewClassifier(Thresholds{
		DropoutCoherence:  0.5,
		OptimalScore:      10,
		StereotypeEntropy: 0.1,
		NoiseEntropy:      0.6,
	})
	if got := c.Classify(0.4, 0.5, 1); got != Dropout {
		t.Errorf("expected DROPOUT with raised bound, got %s", got)
	}
	if got := c.Classify(0.9, 0.7, 1.3); got != Noise {
		t.Errorf("expected NOISE with lowered bound, got %s", got)
	}
}

func TestCategory_Label(t *testing.T) {
	want := map[Category]string{
		Optimal:    "OPTIMAL",
		Dropout:    "DÉCROCHAGE",
		Stereotype: "STÉRÉOTYPE",
		Noise:      "BRUIT",
		Neutral:    "NEUTRE",
	}
	for c, label := range want {
		if got := c.Label(); got != label {
			t.Errorf("%s.Label() = %q, want %q", c, got, label)
		}
	}
}

// #endregion totality-tests
