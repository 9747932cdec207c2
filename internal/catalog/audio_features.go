package catalog

import (
	"context"
	"fmt"

	"github.com/zmb3/spotify/v2"

	"github.com/georgifidanov/spotify-mood-classifier/internal/analysis"
)

// FetchAudioFeatures fills in audio features for the given tracks in
// place, batching to the API's 100-track limit. Tracks the API has no
// features for keep nil feature fields; the extractor treats those as
// absent.
func (c *Client) FetchAudioFeatures(ctx context.Context, tracks []analysis.Track) error {
	if len(tracks) == 0 {
		return nil
	}

	ids := make([]spotify.ID, len(tracks))
	indexByID := make(map[string]int, len(tracks))
	for i, t := range tracks {
		ids[i] = spotify.ID(t.ID)
		indexByID[t.ID] = i
	}

	total := len(ids)
	for i := 0; i < total; i += maxTracksPerRequest {
		end := min(i+maxTracksPerRequest, total)

		features, err := c.api.GetAudioFeatures(ctx, ids[i:end]...)
		if err != nil {
			return fmt.Errorf("fetching audio features (batch %d-%d): %w", i+1, end, classify(err))
		}

		for _, feat := range features {
			if feat == nil {
				continue // no features available for this track
			}
			idx, ok := indexByID[feat.ID.String()]
			if !ok {
				continue
			}
			applyAudioFeatures(&tracks[idx], feat)
		}
	}

	return nil
}

// applyAudioFeatures copies feature values onto a track.
func applyAudioFeatures(t *analysis.Track, f *spotify.AudioFeatures) {
	t.Acousticness = float64Ptr(f.Acousticness)
	t.Danceability = float64Ptr(f.Danceability)
	t.Energy = float64Ptr(f.Energy)
	t.Instrumentalness = float64Ptr(f.Instrumentalness)
	t.Liveness = float64Ptr(f.Liveness)
	t.Loudness = float64Ptr(f.Loudness)
	t.Speechiness = float64Ptr(f.Speechiness)
	t.Tempo = float64Ptr(f.Tempo)
	t.Valence = float64Ptr(f.Valence)
}

func float64Ptr(v float32) *float64 {
	f := float64(v)
	return &f
}
