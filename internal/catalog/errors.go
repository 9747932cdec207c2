package catalog

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/zmb3/spotify/v2"
)

// ErrReauthRequired is returned when the access token is expired or
// invalid. The caller should send the user back through the auth flow.
var ErrReauthRequired = errors.New("spotify authorization expired or invalid")

// RateLimitedError is returned when Spotify rejects a call with 429. It is
// surfaced to the caller with whatever retry hint the API gave; this layer
// never retries on its own.
type RateLimitedError struct {
	RetryAfter time.Duration // 0 when the API gave no hint
	Message    string
}

func (e *RateLimitedError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited by spotify (retry after %s): %s", e.RetryAfter, e.Message)
	}
	return fmt.Sprintf("rate limited by spotify: %s", e.Message)
}

// MaterializeError reports a playlist materialization failure. When the
// create step succeeded but populating the playlist did not, PlaylistID
// names the orphaned (empty) playlist; it is reported as-is, never rolled
// back.
type MaterializeError struct {
	Stage      string // "create" or "add-tracks"
	PlaylistID string // set when the playlist exists despite the failure
	Err        error
}

func (e *MaterializeError) Error() string {
	if e.PlaylistID != "" {
		return fmt.Sprintf("materialization failed at %s (playlist %s left empty): %v", e.Stage, e.PlaylistID, e.Err)
	}
	return fmt.Sprintf("materialization failed at %s: %v", e.Stage, e.Err)
}

func (e *MaterializeError) Unwrap() error {
	return e.Err
}

// classify maps a Spotify API error onto the taxonomy. Anything that is
// not an auth or rate-limit failure passes through unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var apiErr spotify.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Status {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %s", ErrReauthRequired, apiErr.Message)
		case http.StatusTooManyRequests:
			return &RateLimitedError{Message: apiErr.Message}
		}
	}
	return err
}
