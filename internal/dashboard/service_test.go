package dashboard

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"github.com/georgifidanov/spotify-mood-classifier/internal/analysis"
	"github.com/georgifidanov/spotify-mood-classifier/internal/catalog"
)

// fakeCatalog implements Catalog for tests.
type fakeCatalog struct {
	tracks        []analysis.Track
	tracksErr     error
	featuresErr   error
	featuresCalls int

	materializeReq *catalog.MaterializeRequest
	materializeID  string
	materializeErr error
}

func (fc *fakeCatalog) PlaylistTracks(_ context.Context, _ string) ([]analysis.Track, error) {
	if fc.tracksErr != nil {
		return nil, fc.tracksErr
	}
	return fc.tracks, nil
}

func (fc *fakeCatalog) LibraryTracks(_ context.Context) ([]analysis.Track, error) {
	if fc.tracksErr != nil {
		return nil, fc.tracksErr
	}
	return fc.tracks, nil
}

func (fc *fakeCatalog) FetchAudioFeatures(_ context.Context, _ []analysis.Track) error {
	fc.featuresCalls++
	return fc.featuresErr
}

func (fc *fakeCatalog) Materialize(_ context.Context, req catalog.MaterializeRequest) (string, error) {
	fc.materializeReq = &req
	if fc.materializeErr != nil {
		return "", fc.materializeErr
	}
	return fc.materializeID, nil
}

func f(v float64) *float64 {
	return &v
}

func featureTrack(id string, energy, valence float64) analysis.Track {
	return analysis.Track{
		ID:           id,
		Name:         "Track " + id,
		Energy:       f(energy),
		Valence:      f(valence),
		Danceability: f(0.5),
		Acousticness: f(0.3),
	}
}

func newService() *Service {
	return New(analysis.DefaultConfig(), zerolog.Nop())
}

func TestAnalyzePlaylist(t *testing.T) {
	fc := &fakeCatalog{
		tracks: []analysis.Track{
			featureTrack("a", 0.9, 0.9),
			featureTrack("b", 0.85, 0.8),
			featureTrack("c", 0.1, 0.1),
			featureTrack("d", 0.15, 0.2),
		},
	}

	res, err := newService().AnalyzePlaylist(context.Background(), fc, "pl1", AnalyzeOptions{})
	if err != nil {
		t.Fatalf("AnalyzePlaylist() error = %v", err)
	}

	if res.Status != analysis.StatusOK {
		t.Errorf("Status = %q, want %q", res.Status, analysis.StatusOK)
	}
	if fc.featuresCalls != 1 {
		t.Errorf("FetchAudioFeatures called %d times, want 1", fc.featuresCalls)
	}

	total := 0
	for _, c := range res.Clusters {
		total += len(c.Members)
	}
	if total != 4 {
		t.Errorf("cluster sizes sum to %d, want 4", total)
	}
}

func TestAnalyzePlaylistAuthErrorSkipsClustering(t *testing.T) {
	// A 401 from the catalog during track listing must surface the auth
	// error and never reach the feature/clustering stages.
	fc := &fakeCatalog{
		tracksErr: fmt.Errorf("fetching playlist tracks: %w", catalog.ErrReauthRequired),
	}

	_, err := newService().AnalyzePlaylist(context.Background(), fc, "pl1", AnalyzeOptions{})

	if !errors.Is(err, catalog.ErrReauthRequired) {
		t.Fatalf("error = %v, want ErrReauthRequired", err)
	}
	if fc.featuresCalls != 0 {
		t.Errorf("FetchAudioFeatures called %d times after fetch failure, want 0", fc.featuresCalls)
	}
}

func TestAnalyzePlaylistInsufficientData(t *testing.T) {
	fc := &fakeCatalog{
		tracks: []analysis.Track{
			{ID: "a", Name: "A"},
			{ID: "b", Name: "B"},
			{ID: "c", Name: "C"},
		},
	}

	res, err := newService().AnalyzePlaylist(context.Background(), fc, "pl1", AnalyzeOptions{})
	if err != nil {
		t.Fatalf("AnalyzePlaylist() error = %v", err)
	}
	if res.Status != analysis.StatusInsufficientData {
		t.Errorf("Status = %q, want %q", res.Status, analysis.StatusInsufficientData)
	}
	if len(res.Clusters) != 0 {
		t.Errorf("got %d clusters, want 0", len(res.Clusters))
	}
}

func TestAnalyzeLibrary(t *testing.T) {
	fc := &fakeCatalog{
		tracks: []analysis.Track{
			featureTrack("a", 0.9, 0.9),
			featureTrack("b", 0.1, 0.2),
			featureTrack("c", 0.8, 0.2),
			featureTrack("d", 0.2, 0.9),
		},
	}

	res, err := newService().AnalyzeLibrary(context.Background(), fc, AnalyzeOptions{})
	if err != nil {
		t.Fatalf("AnalyzeLibrary() error = %v", err)
	}
	if res.Status != analysis.StatusOK {
		t.Errorf("Status = %q, want %q", res.Status, analysis.StatusOK)
	}
}

func TestCreateFromCluster(t *testing.T) {
	tests := []struct {
		name            string
		req             CreateRequest
		wantName        string
		wantDescription string
		wantTracks      int
	}{
		{
			name: "explicit name and description",
			req: CreateRequest{
				ClusterID:   2,
				Name:        "Gym Mix",
				Description: "High energy picks",
				TrackIDs:    []string{"t1", "t2"},
			},
			wantName:        "Gym Mix",
			wantDescription: "High energy picks",
			wantTracks:      2,
		},
		{
			name: "defaults derived from cluster id",
			req:  CreateRequest{ClusterID: 0, TrackIDs: []string{"t1"}},
			wantName:        "Cluster 1 Playlist",
			wantDescription: "Automatically generated playlist from cluster 1",
			wantTracks:      1,
		},
		{
			name:            "empty track list is still created",
			req:             CreateRequest{ClusterID: 3, Name: "Empty"},
			wantName:        "Empty",
			wantDescription: "Automatically generated playlist from cluster 4",
			wantTracks:      0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := &fakeCatalog{materializeID: "newpl"}

			got, err := newService().CreateFromCluster(context.Background(), fc, tt.req)
			if err != nil {
				t.Fatalf("CreateFromCluster() error = %v", err)
			}
			if got != "newpl" {
				t.Errorf("playlist ID = %q, want %q", got, "newpl")
			}

			if fc.materializeReq == nil {
				t.Fatal("Materialize was not called")
			}
			if fc.materializeReq.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", fc.materializeReq.Name, tt.wantName)
			}
			if fc.materializeReq.Description != tt.wantDescription {
				t.Errorf("Description = %q, want %q", fc.materializeReq.Description, tt.wantDescription)
			}
			if len(fc.materializeReq.TrackIDs) != tt.wantTracks {
				t.Errorf("got %d track IDs, want %d", len(fc.materializeReq.TrackIDs), tt.wantTracks)
			}
		})
	}
}

func TestCreateFromClusterSurfacesMaterializeError(t *testing.T) {
	matErr := &catalog.MaterializeError{Stage: "add-tracks", PlaylistID: "orphan", Err: errors.New("boom")}
	fc := &fakeCatalog{materializeErr: matErr}

	_, err := newService().CreateFromCluster(context.Background(), fc, CreateRequest{ClusterID: 1})

	var got *catalog.MaterializeError
	if !errors.As(err, &got) {
		t.Fatalf("error = %v, want *MaterializeError", err)
	}
	if got.PlaylistID != "orphan" {
		t.Errorf("PlaylistID = %q, want %q", got.PlaylistID, "orphan")
	}
}
