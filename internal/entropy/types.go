package entropy

// #region method
// Method selects how entropy is estimated.
type Method string

const (
	// MethodCompression is the gzip compression ratio.
	MethodCompression Method = "compression"
	// MethodDiversity is the distinct-rune ratio. It is a degraded
	// approximation and does not match compression values numerically.
	MethodDiversity Method = "diversity"
)

// ParseMethod maps a config string to a Method. Empty means compression.
func ParseMethod(s string) (Method, bool) {
	switch Method(s) {
	case "", MethodCompression:
		return MethodCompression, true
	case MethodDiversity:
		return MethodDiversity, true
	}
	return "", false
}

// #endregion method

// #region compressor
// Compressor reports the compressed size of a byte slice.
type Compressor interface {
	CompressedSize(raw []byte) (int, error)
}

// #endregion compressor

// #region degradation-hook
// DegradationFunc is called when the compressor fails and the estimator
// falls back to character diversity.
type DegradationFunc func(err error)

// #endregion degradation-hook
