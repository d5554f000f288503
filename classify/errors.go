package classify

import "fmt"

// InsufficientAudioError reports a clip shorter than the minimum duration the
// feature extractor can work with.
type InsufficientAudioError struct {
	Samples    int
	Required   int
	SampleRate int
}

func (e *InsufficientAudioError) Error() string {
	return fmt.Sprintf("audio clip too short: %d samples at %d Hz, need at least %d",
		e.Samples, e.SampleRate, e.Required)
}

// ModelUnavailableError reports that the external embedding model collaborator
// was unreachable or returned an error.
type ModelUnavailableError struct {
	Err error
}

func (e *ModelUnavailableError) Error() string {
	return fmt.Sprintf("embedding model unavailable: %v", e.Err)
}

func (e *ModelUnavailableError) Unwrap() error {
	return e.Err
}

// InternalComputationError reports a degenerate numeric result, such as NaN
// descriptors from silence or clipping.
type InternalComputationError struct {
	Stage string
	Err   error
}

func (e *InternalComputationError) Error() string {
	return fmt.Sprintf("internal computation failed in %s: %v", e.Stage, e.Err)
}

func (e *InternalComputationError) Unwrap() error {
	return e.Err
}
