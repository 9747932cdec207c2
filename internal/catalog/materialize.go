package catalog

import (
	"context"

	"github.com/zmb3/spotify/v2"
)

// MaterializeRequest names a playlist to create and the tracks to put in
// it. The caller supplies the track IDs explicitly; no server-side
// analysis result is consulted.
type MaterializeRequest struct {
	Name        string
	Description string
	TrackIDs    []string
}

// Materialize creates a playlist for the current user and populates it
// with the requested tracks. An empty TrackIDs is a valid request: the
// playlist is created and the add step is a no-op.
//
// Failures surface as a *MaterializeError. There is no retry and no
// rollback: if adding tracks fails after a successful create, the error
// carries the ID of the playlist that was left empty.
func (c *Client) Materialize(ctx context.Context, req MaterializeRequest) (string, error) {
	userID, err := c.UserID(ctx)
	if err != nil {
		return "", &MaterializeError{Stage: "create", Err: err}
	}

	playlist, err := c.api.CreatePlaylistForUser(ctx, userID, req.Name, req.Description, false, false)
	if err != nil {
		return "", &MaterializeError{Stage: "create", Err: classify(err)}
	}
	playlistID := playlist.ID.String()

	if err := c.addTracks(ctx, playlistID, req.TrackIDs); err != nil {
		return "", &MaterializeError{Stage: "add-tracks", PlaylistID: playlistID, Err: err}
	}

	return playlistID, nil
}

// addTracks adds tracks to a playlist in batches of 100.
func (c *Client) addTracks(ctx context.Context, playlistID string, trackIDs []string) error {
	if len(trackIDs) == 0 {
		return nil
	}

	ids := make([]spotify.ID, len(trackIDs))
	for i, id := range trackIDs {
		ids[i] = spotify.ID(id)
	}

	for i := 0; i < len(ids); i += maxTracksPerRequest {
		end := min(i+maxTracksPerRequest, len(ids))
		if _, err := c.api.AddTracksToPlaylist(ctx, spotify.ID(playlistID), ids[i:end]...); err != nil {
			return classify(err)
		}
	}

	return nil
}
