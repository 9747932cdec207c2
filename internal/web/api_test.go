package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/georgifidanov/spotify-mood-classifier/internal/analysis"
	"github.com/georgifidanov/spotify-mood-classifier/internal/catalog"
)

func testHandlers() *Handlers {
	return &Handlers{
		sessions: NewMemorySessions(),
		logger:   zerolog.Nop(),
	}
}

func decodeErrorResponse(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding error response: %v", err)
	}
	return resp
}

func TestWriteErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "reauth required",
			err:        catalog.ErrReauthRequired,
			wantStatus: http.StatusUnauthorized,
			wantCode:   "reauthenticate",
		},
		{
			name:       "wrapped reauth required",
			err:        errors.Join(errors.New("loading playlist"), catalog.ErrReauthRequired),
			wantStatus: http.StatusUnauthorized,
			wantCode:   "reauthenticate",
		},
		{
			name:       "rate limited",
			err:        &catalog.RateLimitedError{RetryAfter: 3 * time.Second, Message: "slow down"},
			wantStatus: http.StatusTooManyRequests,
			wantCode:   "rate_limited",
		},
		{
			name:       "invalid input",
			err:        &analysis.InputError{TrackID: "t1", Feature: "energy"},
			wantStatus: http.StatusBadRequest,
			wantCode:   "invalid_input",
		},
		{
			name:       "materialization failure",
			err:        &catalog.MaterializeError{Stage: "add-tracks", PlaylistID: "p9", Err: errors.New("boom")},
			wantStatus: http.StatusBadGateway,
			wantCode:   "materialization_failed",
		},
		{
			name:       "anything else",
			err:        errors.New("connection reset"),
			wantStatus: http.StatusBadGateway,
			wantCode:   "upstream_error",
		},
	}

	h := testHandlers()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.writeError(rec, tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			resp := decodeErrorResponse(t, rec)
			if resp.Status != "error" {
				t.Errorf("Status = %q, want error", resp.Status)
			}
			if resp.Code != tt.wantCode {
				t.Errorf("Code = %q, want %q", resp.Code, tt.wantCode)
			}
		})
	}
}

func TestWriteErrorRateLimitHint(t *testing.T) {
	h := testHandlers()
	rec := httptest.NewRecorder()
	h.writeError(rec, &catalog.RateLimitedError{RetryAfter: 5 * time.Second, Message: "busy"})

	if got := rec.Header().Get("Retry-After"); got != "5" {
		t.Errorf("Retry-After header = %q, want 5", got)
	}
	resp := decodeErrorResponse(t, rec)
	if resp.RetryAfter != 5 {
		t.Errorf("RetryAfter = %d, want 5", resp.RetryAfter)
	}
}

func TestWriteErrorOrphanPlaylist(t *testing.T) {
	h := testHandlers()
	rec := httptest.NewRecorder()
	h.writeError(rec, &catalog.MaterializeError{
		Stage:      "add-tracks",
		PlaylistID: "orphan42",
		Err:        errors.New("add failed"),
	})

	resp := decodeErrorResponse(t, rec)
	if resp.PlaylistID != "orphan42" {
		t.Errorf("PlaylistID = %q, want orphan42", resp.PlaylistID)
	}
}

func TestRequireSessionUnauthenticated(t *testing.T) {
	h := testHandlers()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/playlists", nil)

	if session := h.requireSession(rec, req); session != nil {
		t.Fatalf("requireSession() = %v, want nil", session)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	resp := decodeErrorResponse(t, rec)
	if resp.Code != "reauthenticate" {
		t.Errorf("Code = %q, want reauthenticate", resp.Code)
	}
}

func TestDecodeJSONEmptyBody(t *testing.T) {
	var req analyzeRequest

	r := httptest.NewRequest(http.MethodPost, "/api/playlists/p1/analyze", strings.NewReader(""))
	if err := decodeJSON(r, &req, true); err != nil {
		t.Fatalf("decodeJSON(empty, allowEmpty) error = %v", err)
	}
	if req.NumClusters != 0 {
		t.Errorf("NumClusters = %d, want 0", req.NumClusters)
	}

	r = httptest.NewRequest(http.MethodPost, "/api/playlists/create", strings.NewReader(""))
	var create createRequest
	if err := decodeJSON(r, &create, false); err == nil {
		t.Error("decodeJSON(empty, required) error = nil, want error")
	}

	r = httptest.NewRequest(http.MethodPost, "/api/playlists/p1/analyze", strings.NewReader(`{"num_clusters": 4}`))
	if err := decodeJSON(r, &req, true); err != nil {
		t.Fatalf("decodeJSON(body) error = %v", err)
	}
	if req.NumClusters != 4 {
		t.Errorf("NumClusters = %d, want 4", req.NumClusters)
	}
}

func TestBuildAnalyzeResponseOK(t *testing.T) {
	e, v := 0.9, 0.8
	res := &analysis.Result{
		ID:     "run-1",
		Status: analysis.StatusOK,
		Labels: []int{0, 0},
		Clusters: []analysis.Cluster{
			{
				ID:      0,
				Mood:    analysis.MoodEnergeticHappy,
				Profile: analysis.Profile{Energy: e, Valence: v},
				Members: []analysis.Track{
					{ID: "t1", Name: "One", Artist: "A"},
					{ID: "t2", Name: "Two", Artist: "B"},
				},
			},
		},
		Excluded: []analysis.Track{{ID: "t3"}},
	}

	out := buildAnalyzeResponse(res, 3)

	if out.AnalysisID != "run-1" {
		t.Errorf("AnalysisID = %q", out.AnalysisID)
	}
	if len(out.ClusterSummaries) != 1 {
		t.Fatalf("ClusterSummaries length = %d, want 1", len(out.ClusterSummaries))
	}
	if out.Tree == nil || out.Tree.Kind != analysis.NodeRoot {
		t.Fatalf("Tree = %+v, want root node", out.Tree)
	}
	if len(out.ExcludedTrackIDs) != 1 || out.ExcludedTrackIDs[0] != "t3" {
		t.Errorf("ExcludedTrackIDs = %v, want [t3]", out.ExcludedTrackIDs)
	}
}

func TestBuildAnalyzeResponseInsufficient(t *testing.T) {
	res := &analysis.Result{
		ID:      "run-2",
		Status:  analysis.StatusInsufficientData,
		Message: "not enough tracks",
	}

	out := buildAnalyzeResponse(res, 3)

	if out.Message != "not enough tracks" {
		t.Errorf("Message = %q", out.Message)
	}
	if out.ClusterSummaries != nil {
		t.Errorf("ClusterSummaries = %v, want nil", out.ClusterSummaries)
	}
	if out.Tree != nil {
		t.Errorf("Tree = %v, want nil", out.Tree)
	}

	// The wire shape must omit cluster_summaries entirely, not send null.
	raw, err := json.Marshal(out)
	if err != nil {
		t.Fatalf("marshaling response: %v", err)
	}
	if strings.Contains(string(raw), "cluster_summaries") {
		t.Errorf("insufficient-data response contains cluster_summaries key: %s", raw)
	}
}
