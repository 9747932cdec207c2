package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/georgifidanov/spotify-mood-classifier/internal/analysis"
	"github.com/georgifidanov/spotify-mood-classifier/internal/catalog"
	"github.com/georgifidanov/spotify-mood-classifier/internal/dashboard"
)

// analyzeTimeout bounds one analysis request end to end, including every
// Spotify page fetch. Materialization gets the same bound.
const analyzeTimeout = 45 * time.Second

type analyzeRequest struct {
	NumClusters int `json:"num_clusters"`
}

type analyzeResponse struct {
	AnalysisID       string             `json:"analysis_id"`
	ClusterLabels    []int              `json:"cluster_labels,omitempty"`
	ClusterSummaries []analysis.Summary `json:"cluster_summaries,omitempty"`
	Tree             *analysis.TreeNode `json:"tree,omitempty"`
	ExcludedTrackIDs []string           `json:"excluded_track_ids,omitempty"`
	Message          string             `json:"message,omitempty"`
}

type createRequest struct {
	ClusterID   int      `json:"cluster_id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	TrackIDs    []string `json:"track_ids"`
}

type createResponse struct {
	Status     string `json:"status"`
	PlaylistID string `json:"playlist_id"`
}

type errorResponse struct {
	Status     string `json:"status"`
	Code       string `json:"code"`
	Detail     string `json:"detail"`
	RetryAfter int    `json:"retry_after,omitempty"`
	PlaylistID string `json:"playlist_id,omitempty"`
}

type playlistItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type trackItem struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Artist string `json:"artist"`
	Album  string `json:"album"`
}

// requireSession resolves the session or writes a 401 and returns nil.
func (h *Handlers) requireSession(w http.ResponseWriter, r *http.Request) *Session {
	session := h.session(r)
	if session == nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{
			Status: "error",
			Code:   "reauthenticate",
			Detail: "not logged in",
		})
	}
	return session
}

// APIPlaylists handles GET /api/playlists.
func (h *Handlers) APIPlaylists(w http.ResponseWriter, r *http.Request) {
	session := h.requireSession(w, r)
	if session == nil {
		return
	}

	playlists, err := h.catalogFor(r, session).Playlists(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	items := make([]playlistItem, 0, len(playlists))
	for _, p := range playlists {
		items = append(items, playlistItem{ID: p.ID, Name: p.Name})
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// APIPlaylistTracks handles GET /api/playlists/{id}/tracks.
func (h *Handlers) APIPlaylistTracks(w http.ResponseWriter, r *http.Request) {
	session := h.requireSession(w, r)
	if session == nil {
		return
	}

	tracks, err := h.catalogFor(r, session).PlaylistTracks(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	items := make([]trackItem, 0, len(tracks))
	for _, t := range tracks {
		items = append(items, trackItem{ID: t.ID, Name: t.Name, Artist: t.Artist, Album: t.Album})
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// APIAnalyzePlaylist handles POST /api/playlists/{id}/analyze. The body is
// optional; an empty body keeps the automatic cluster count.
func (h *Handlers) APIAnalyzePlaylist(w http.ResponseWriter, r *http.Request) {
	session := h.requireSession(w, r)
	if session == nil {
		return
	}

	var req analyzeRequest
	if err := decodeJSON(r, &req, true); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Status: "error",
			Code:   "invalid_input",
			Detail: err.Error(),
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), analyzeTimeout)
	defer cancel()

	res, err := h.service.AnalyzePlaylist(ctx, h.catalogFor(r, session), chi.URLParam(r, "id"),
		dashboard.AnalyzeOptions{NumClusters: req.NumClusters})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, buildAnalyzeResponse(res, h.service.SampleSize()))
}

// APIAnalyzeLibrary handles GET /api/library/analyze. Runs the pipeline
// over the user's recently played and top tracks.
func (h *Handlers) APIAnalyzeLibrary(w http.ResponseWriter, r *http.Request) {
	session := h.requireSession(w, r)
	if session == nil {
		return
	}

	numClusters := 0
	if v := r.URL.Query().Get("num_clusters"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{
				Status: "error",
				Code:   "invalid_input",
				Detail: "num_clusters must be a non-negative integer",
			})
			return
		}
		numClusters = n
	}

	ctx, cancel := context.WithTimeout(r.Context(), analyzeTimeout)
	defer cancel()

	res, err := h.service.AnalyzeLibrary(ctx, h.catalogFor(r, session),
		dashboard.AnalyzeOptions{NumClusters: numClusters})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, buildAnalyzeResponse(res, h.service.SampleSize()))
}

// APICreatePlaylist handles POST /api/playlists/create. The client sends
// the cluster's track IDs from its own copy of the analysis.
func (h *Handlers) APICreatePlaylist(w http.ResponseWriter, r *http.Request) {
	session := h.requireSession(w, r)
	if session == nil {
		return
	}

	var req createRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Status: "error",
			Code:   "invalid_input",
			Detail: err.Error(),
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), analyzeTimeout)
	defer cancel()

	playlistID, err := h.service.CreateFromCluster(ctx, h.catalogFor(r, session), dashboard.CreateRequest{
		ClusterID:   req.ClusterID,
		Name:        req.Name,
		Description: req.Description,
		TrackIDs:    req.TrackIDs,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, createResponse{Status: "created", PlaylistID: playlistID})
}

// Healthz handles GET /healthz.
func (h *Handlers) Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "healthy",
		"spotify_config": map[string]bool{
			"credentials_set":      true,
			"redirect_uri_present": true,
		},
	})
}

func buildAnalyzeResponse(res *analysis.Result, sampleSize int) analyzeResponse {
	out := analyzeResponse{
		AnalysisID: res.ID,
		Message:    res.Message,
	}
	for _, t := range res.Excluded {
		out.ExcludedTrackIDs = append(out.ExcludedTrackIDs, t.ID)
	}
	if res.Status != analysis.StatusOK {
		return out
	}

	out.ClusterLabels = res.Labels
	out.ClusterSummaries = analysis.Summaries(res.Clusters, sampleSize)
	tree := analysis.BuildTree("Analysis", res.Clusters)
	out.Tree = &tree
	return out
}

// writeError maps the error taxonomy to HTTP statuses and wire codes.
func (h *Handlers) writeError(w http.ResponseWriter, err error) {
	var (
		matErr   *catalog.MaterializeError
		rateErr  *catalog.RateLimitedError
		inputErr *analysis.InputError
	)

	switch {
	case errors.As(err, &matErr):
		// The orphaned playlist ID is reported so the caller can clean up;
		// partially filled playlists are never rolled back.
		writeJSON(w, http.StatusBadGateway, errorResponse{
			Status:     "error",
			Code:       "materialization_failed",
			Detail:     matErr.Error(),
			PlaylistID: matErr.PlaylistID,
		})
	case errors.Is(err, catalog.ErrReauthRequired):
		writeJSON(w, http.StatusUnauthorized, errorResponse{
			Status: "error",
			Code:   "reauthenticate",
			Detail: "Spotify authorization expired, log in again",
		})
	case errors.As(err, &rateErr):
		retryAfter := int(rateErr.RetryAfter / time.Second)
		if retryAfter > 0 {
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
		}
		writeJSON(w, http.StatusTooManyRequests, errorResponse{
			Status:     "error",
			Code:       "rate_limited",
			Detail:     rateErr.Error(),
			RetryAfter: retryAfter,
		})
	case errors.As(err, &inputErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Status: "error",
			Code:   "invalid_input",
			Detail: inputErr.Error(),
		})
	default:
		h.logger.Error().Err(err).Msg("upstream error")
		writeJSON(w, http.StatusBadGateway, errorResponse{
			Status: "error",
			Code:   "upstream_error",
			Detail: err.Error(),
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON decodes the request body into v. With allowEmpty, an absent
// body leaves v at its zero value.
func decodeJSON(r *http.Request, v any, allowEmpty bool) error {
	dec := json.NewDecoder(r.Body)
	err := dec.Decode(v)
	if errors.Is(err, io.EOF) && allowEmpty {
		return nil
	}
	return err
}
