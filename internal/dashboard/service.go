// Package dashboard orchestrates one request's worth of work: fetch
// tracks from the catalog, run the analysis pipeline, or materialize a
// cluster as a real playlist. The service holds no per-user state; every
// call operates on the catalog capability passed in.
package dashboard

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/georgifidanov/spotify-mood-classifier/internal/analysis"
	"github.com/georgifidanov/spotify-mood-classifier/internal/catalog"
	"github.com/georgifidanov/spotify-mood-classifier/internal/telemetry"
)

// Catalog is the slice of the catalog API the service needs. Implemented
// by *catalog.Client.
type Catalog interface {
	PlaylistTracks(ctx context.Context, playlistID string) ([]analysis.Track, error)
	LibraryTracks(ctx context.Context) ([]analysis.Track, error)
	FetchAudioFeatures(ctx context.Context, tracks []analysis.Track) error
	Materialize(ctx context.Context, req catalog.MaterializeRequest) (string, error)
}

var _ Catalog = (*catalog.Client)(nil)

// Service runs analyses and materializations.
type Service struct {
	cfg    analysis.Config
	logger zerolog.Logger
}

// New creates a Service with the given base analysis configuration.
func New(cfg analysis.Config, logger zerolog.Logger) *Service {
	return &Service{cfg: cfg, logger: logger}
}

// SampleSize reports how many preview tracks each cluster summary carries.
func (s *Service) SampleSize() int {
	if s.cfg.SampleSize > 0 {
		return s.cfg.SampleSize
	}
	return analysis.DefaultConfig().SampleSize
}

// AnalyzeOptions carries per-request overrides of the base configuration.
type AnalyzeOptions struct {
	NumClusters int // 0 keeps the configured/automatic choice
}

// AnalyzePlaylist fetches one playlist's tracks and audio features, then
// runs the clustering pipeline over them. An upstream auth failure during
// track listing surfaces immediately; clustering is never attempted on a
// failed fetch.
func (s *Service) AnalyzePlaylist(ctx context.Context, cat Catalog, playlistID string, opts AnalyzeOptions) (*analysis.Result, error) {
	tracks, err := cat.PlaylistTracks(ctx, playlistID)
	if err != nil {
		return nil, fmt.Errorf("loading playlist %s: %w", playlistID, err)
	}

	return s.analyze(ctx, cat, tracks, opts, "playlist "+playlistID)
}

// AnalyzeLibrary runs the pipeline over the user's listening profile
// (recently played + top tracks).
func (s *Service) AnalyzeLibrary(ctx context.Context, cat Catalog, opts AnalyzeOptions) (*analysis.Result, error) {
	tracks, err := cat.LibraryTracks(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading library tracks: %w", err)
	}

	return s.analyze(ctx, cat, tracks, opts, "library")
}

func (s *Service) analyze(ctx context.Context, cat Catalog, tracks []analysis.Track, opts AnalyzeOptions, source string) (*analysis.Result, error) {
	if err := cat.FetchAudioFeatures(ctx, tracks); err != nil {
		return nil, fmt.Errorf("fetching audio features: %w", err)
	}

	cfg := s.cfg
	if opts.NumClusters > 0 {
		cfg.NumClusters = opts.NumClusters
	}

	res, err := analysis.Analyze(tracks, cfg)
	if err != nil {
		return nil, err
	}

	telemetry.AnalysesTotal.WithLabelValues(string(res.Status)).Inc()
	s.logger.Info().
		Str("analysis_id", res.ID).
		Str("source", source).
		Str("status", string(res.Status)).
		Int("tracks", len(tracks)).
		Int("included", len(res.Included)).
		Int("clusters", len(res.Clusters)).
		Msg("analysis complete")

	return res, nil
}

// CreateRequest is the explicit state for materializing a cluster. The
// client echoes back the cluster ID and the member track IDs from its own
// copy of the analysis; nothing is looked up server-side.
type CreateRequest struct {
	ClusterID   int
	Name        string
	Description string
	TrackIDs    []string
}

// CreateFromCluster materializes a cluster as a new playlist and returns
// the created playlist's ID. Blank name and description fall back to
// defaults derived from the cluster ID.
func (s *Service) CreateFromCluster(ctx context.Context, cat Catalog, req CreateRequest) (string, error) {
	name := req.Name
	if name == "" {
		name = fmt.Sprintf("Cluster %d Playlist", req.ClusterID+1)
	}
	description := req.Description
	if description == "" {
		description = fmt.Sprintf("Automatically generated playlist from cluster %d", req.ClusterID+1)
	}

	playlistID, err := cat.Materialize(ctx, catalog.MaterializeRequest{
		Name:        name,
		Description: description,
		TrackIDs:    req.TrackIDs,
	})
	if err != nil {
		return "", err
	}

	telemetry.PlaylistsCreatedTotal.Inc()
	s.logger.Info().
		Str("playlist_id", playlistID).
		Int("cluster_id", req.ClusterID).
		Int("tracks", len(req.TrackIDs)).
		Msg("playlist created from cluster")

	return playlistID, nil
}
