package scan

import "errors"

var (
	ErrEmptyTopic = errors.New("topic is empty")
	ErrEmptyText  = errors.New("text is empty")
	ErrCanceled   = errors.New("scan canceled")
)

// providerMessage is the only provider detail surfaced to end users.
const providerMessage = "failed to analyze text via coherence provider"

// ProviderError reports a failed coherence provider call.
type ProviderError struct {
	Cause error
}

func (e *ProviderError) Error() string {
	return providerMessage
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}
