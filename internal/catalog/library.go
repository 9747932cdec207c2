package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/zmb3/spotify/v2"

	"github.com/georgifidanov/spotify-mood-classifier/internal/analysis"
)

// LibraryTracks builds a listening profile from the user's recently played
// and top tracks, de-duplicated by track ID with recently played first.
func (c *Client) LibraryTracks(ctx context.Context) ([]analysis.Track, error) {
	recent, err := c.api.PlayerRecentlyPlayedOpt(ctx, &spotify.RecentlyPlayedOptions{Limit: 50})
	if err != nil {
		return nil, fmt.Errorf("fetching recently played: %w", classify(err))
	}

	top, err := c.api.CurrentUsersTopTracks(ctx, spotify.Limit(50))
	if err != nil {
		return nil, fmt.Errorf("fetching top tracks: %w", classify(err))
	}

	seen := make(map[string]bool)
	var tracks []analysis.Track

	for _, item := range recent {
		id := item.Track.ID.String()
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		tracks = append(tracks, convertSimpleTrack(&item.Track))
	}

	for i := range top.Tracks {
		ft := &top.Tracks[i]
		id := ft.ID.String()
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		tracks = append(tracks, convertFullTrack(ft))
	}

	return tracks, nil
}

// convertSimpleTrack converts a Spotify SimpleTrack (as returned by the
// recently-played endpoint, which carries no popularity) to an
// analysis.Track.
func convertSimpleTrack(st *spotify.SimpleTrack) analysis.Track {
	artists := make([]string, len(st.Artists))
	for i, a := range st.Artists {
		artists[i] = a.Name
	}

	return analysis.Track{
		ID:     st.ID.String(),
		Name:   st.Name,
		Artist: strings.Join(artists, ", "),
	}
}
