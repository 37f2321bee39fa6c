package score

// #region constants
// Epsilon keeps the denominator positive when entropy is 0.
const Epsilon = 0.0001

// #endregion constants

// #region combine
// Combine computes the LMC score: coherence / (entropy + Epsilon).
func Combine(coherence, entropy float64) float64 {
	return coherence / (entropy + Epsilon)
}

// #endregion combine

// #region clamp
// Clamp01 restricts v to [0, 1]. NaN maps to 0.
func Clamp01(v float64) float64 {
	if v != v || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// #endregion clamp
