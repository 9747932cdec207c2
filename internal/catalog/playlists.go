package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/zmb3/spotify/v2"

	"github.com/georgifidanov/spotify-mood-classifier/internal/analysis"
)

// Playlist is a playlist reference: just enough for the picker UI.
type Playlist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Playlists lists the current user's playlists, following pagination.
func (c *Client) Playlists(ctx context.Context) ([]Playlist, error) {
	page, err := c.api.CurrentUsersPlaylists(ctx, spotify.Limit(50))
	if err != nil {
		return nil, fmt.Errorf("listing playlists: %w", classify(err))
	}

	var playlists []Playlist
	for {
		for _, p := range page.Playlists {
			playlists = append(playlists, Playlist{
				ID:   p.ID.String(),
				Name: p.Name,
			})
		}

		err = c.api.NextPage(ctx, page)
		if errors.Is(err, spotify.ErrNoMorePages) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("listing playlists (next page): %w", classify(err))
		}
	}

	return playlists, nil
}

// PlaylistTracks retrieves every track of a playlist in playlist order.
// Local files and episodes (items without a track ID) are skipped.
func (c *Client) PlaylistTracks(ctx context.Context, playlistID string) ([]analysis.Track, error) {
	page, err := c.api.GetPlaylistItems(ctx, spotify.ID(playlistID), spotify.Limit(100))
	if err != nil {
		return nil, fmt.Errorf("fetching playlist tracks: %w", classify(err))
	}

	var tracks []analysis.Track
	for {
		for _, item := range page.Items {
			ft := item.Track.Track
			if ft == nil || ft.ID == "" {
				continue
			}
			tracks = append(tracks, convertFullTrack(ft))
		}

		err = c.api.NextPage(ctx, page)
		if errors.Is(err, spotify.ErrNoMorePages) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("fetching playlist tracks (next page): %w", classify(err))
		}
	}

	return tracks, nil
}

// convertFullTrack converts a Spotify FullTrack to an analysis.Track.
// Audio feature fields stay nil until FetchAudioFeatures fills them.
func convertFullTrack(ft *spotify.FullTrack) analysis.Track {
	artists := make([]string, len(ft.Artists))
	for i, a := range ft.Artists {
		artists[i] = a.Name
	}

	popularity := float64(ft.Popularity)

	return analysis.Track{
		ID:         ft.ID.String(),
		Name:       ft.Name,
		Artist:     strings.Join(artists, ", "),
		Album:      ft.Album.Name,
		Popularity: &popularity,
	}
}
