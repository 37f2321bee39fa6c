package diagnostic

// #region category
// Category is the diagnostic outcome for one sentence.
type Category string

const (
	Optimal    Category = "OPTIMAL"
	Dropout    Category = "DROPOUT"    // off-topic
	Stereotype Category = "STEREOTYPE" // repetitive, boilerplate
	Noise      Category = "NOISE"      // disordered
	Neutral    Category = "NEUTRAL"
)

// Categories lists every category in rule order, with Neutral last.
var Categories = []Category{Dropout, Optimal, Stereotype, Noise, Neutral}

// Valid reports whether c is one of the five categories.
func (c Category) Valid() bool {
	switch c {
	case Optimal, Dropout, Stereotype, Noise, Neutral:
		return true
	}
	return false
}

// Label returns the French display label shown in reports.
func (c Category) Label() string {
	switch c {
	case Dropout:
		return "DÉCROCHAGE"
	case Stereotype:
		return "STÉRÉOTYPE"
	case Noise:
		return "BRUIT"
	case Neutral:
		return "NEUTRE"
	}
	return string(c)
}

// #endregion category

// #region thresholds
const (
	DropoutCoherence  = 0.25 // coherence below this is DROPOUT
	OptimalScore      = 1.8  // LMC score above this is OPTIMAL
	StereotypeEntropy = 0.3  // entropy below this is STEREOTYPE
	NoiseEntropy      = 0.85 // entropy above this is NOISE
)

// Thresholds holds the classifier cut-offs. All comparisons are strict.
type Thresholds struct {
	DropoutCoherence  float64 `yaml:"dropout_coherence" json:"dropout_coherence"`
	OptimalScore      float64 `yaml:"optimal_score" json:"optimal_score"`
	StereotypeEntropy float64 `yaml:"stereotype_entropy" json:"stereotype_entropy"`
	NoiseEntropy      float64 `yaml:"noise_entropy" json:"noise_entropy"`
}

// DefaultThresholds returns the fixed LMC cut-offs.
func DefaultThresholds() Thresholds {
	return Thresholds{
		DropoutCoherence:  DropoutCoherence,
		OptimalScore:      OptimalScore,
		StereotypeEntropy: StereotypeEntropy,
		NoiseEntropy:      NoiseEntropy,
	}
}

// IsZero reports whether no threshold was set.
func (t Thresholds) IsZero() bool {
	return t == Thresholds{}
}

// #endregion thresholds
