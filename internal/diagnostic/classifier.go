package diagnostic

// #region classifier
// Classifier maps (coherence, entropy, score) to a Category.
type Classifier struct {
	thresholds Thresholds
}

// NewClassifier creates a classifier. A zero Thresholds value means defaults.
func NewClassifier(t Thresholds) *Classifier {
	if t.IsZero() {
		t = DefaultThresholds()
	}
	return &Classifier{thresholds: t}
}

// Thresholds returns the active cut-offs.
func (c *Classifier) Thresholds() Thresholds {
	return c.thresholds
}

// Classify evaluates the rules in order; the first match wins.
//  1. coherence < DropoutCoherence  -> Dropout
//  2. score > OptimalScore          -> Optimal
//  3. entropy < StereotypeEntropy   -> Stereotype
//  4. entropy > NoiseEntropy        -> Noise
//  5. otherwise                     -> Neutral
func (c *Classifier) Classify(coherence, entropy, score float64) Category {
	t := c.thresholds
	switch {
	case coherence < t.DropoutCoherence:
		return Dropout
	case score > t.OptimalScore:
		return Optimal
	case entropy < t.StereotypeEntropy:
		return Stereotype
	case entropy > t.NoiseEntropy:
		return Noise
	default:
		return Neutral
	}
}

// #endregion classifier

// #region default
var defaultClassifier = NewClassifier(DefaultThresholds())

// Classify uses the default thresholds.
func Classify(coherence, entropy, score float64) Category {
	return defaultClassifier.Classify(coherence, entropy, score)
}

// #endregion default
