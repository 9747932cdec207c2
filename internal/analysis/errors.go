package analysis

import "fmt"

// InputError reports a malformed feature vector (NaN or infinite values).
// It is fatal for the request that produced it; missing features are not
// an InputError, they exclude the track instead.
type InputError struct {
	TrackID string
	Feature string
	Value   float64
}

func (e *InputError) Error() string {
	return fmt.Sprintf("track %s: feature %q has non-finite value %v", e.TrackID, e.Feature, e.Value)
}
