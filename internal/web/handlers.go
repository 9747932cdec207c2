package web

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"

	"github.com/georgifidanov/spotify-mood-classifier/internal/catalog"
	"github.com/georgifidanov/spotify-mood-classifier/internal/dashboard"
)

// Handlers contains the page and auth handlers.
type Handlers struct {
	auth      *spotifyauth.Authenticator
	sessions  SessionManager
	templates *Templates
	service   *dashboard.Service
	logger    zerolog.Logger
}

// NewHandlers creates a Handlers instance.
func NewHandlers(auth *spotifyauth.Authenticator, sessions SessionManager, templates *Templates, service *dashboard.Service, logger zerolog.Logger) *Handlers {
	return &Handlers{
		auth:      auth,
		sessions:  sessions,
		templates: templates,
		service:   service,
		logger:    logger,
	}
}

// session extracts the current session from the request cookie, or nil.
func (h *Handlers) session(r *http.Request) *Session {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return nil
	}
	return h.sessions.Get(r.Context(), cookie.Value)
}

// catalogFor builds a catalog client bound to the session's token.
func (h *Handlers) catalogFor(r *http.Request, session *Session) *catalog.Client {
	httpClient := h.auth.Client(r.Context(), session.Token)
	return catalog.New(spotify.New(httpClient))
}

// Home handles the landing page (GET /).
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	session := h.session(r)

	data := HomePageData{
		PageData: PageData{
			Title:       "Spotify Mood Classifier",
			CurrentPath: r.URL.Path,
		},
		Authenticated: session != nil,
	}
	if session != nil {
		data.User = &UserData{ID: session.UserID, Name: session.UserName}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.Render(w, "home", data); err != nil {
		h.logger.Error().Err(err).Msg("rendering home page")
		http.Error(w, "Failed to render template", http.StatusInternalServerError)
	}
}

// Dashboard handles the analysis dashboard (GET /dashboard). The page
// lists the user's playlists; analysis itself runs through the JSON API.
func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	session := h.session(r)
	if session == nil {
		http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
		return
	}

	playlists, err := h.catalogFor(r, session).Playlists(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("listing playlists for dashboard")
		http.Error(w, "Failed to load playlists", http.StatusBadGateway)
		return
	}

	data := DashboardPageData{
		PageData: PageData{
			Title:       "Dashboard",
			User:        &UserData{ID: session.UserID, Name: session.UserName},
			CurrentPath: r.URL.Path,
		},
	}
	for _, p := range playlists {
		data.Playlists = append(data.Playlists, PlaylistData{ID: p.ID, Name: p.Name})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.Render(w, "dashboard", data); err != nil {
		h.logger.Error().Err(err).Msg("rendering dashboard page")
		http.Error(w, "Failed to render template", http.StatusInternalServerError)
	}
}

// Login initiates the Spotify OAuth flow (GET /auth/login).
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	state, err := newOAuthState()
	if err != nil {
		http.Error(w, "Failed to generate state", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   300,
	})

	http.Redirect(w, r, h.auth.AuthURL(state), http.StatusTemporaryRedirect)
}

// Callback handles the OAuth callback from Spotify (GET /callback).
func (h *Handlers) Callback(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie("oauth_state")
	if err != nil {
		http.Error(w, "Missing state cookie", http.StatusBadRequest)
		return
	}

	state := r.URL.Query().Get("state")
	if state != stateCookie.Value {
		http.Error(w, "State mismatch", http.StatusBadRequest)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})

	if errMsg := r.URL.Query().Get("error"); errMsg != "" {
		http.Error(w, fmt.Sprintf("Spotify auth error: %s", errMsg), http.StatusBadRequest)
		return
	}

	token, err := h.auth.Token(r.Context(), state, r)
	if err != nil {
		http.Error(w, "Failed to get token", http.StatusInternalServerError)
		return
	}

	client := spotify.New(h.auth.Client(r.Context(), token))
	user, err := client.CurrentUser(r.Context())
	if err != nil {
		http.Error(w, "Failed to get user info", http.StatusInternalServerError)
		return
	}

	session, err := h.sessions.Create(r.Context(), token, string(user.ID), user.DisplayName)
	if err != nil {
		h.logger.Error().Err(err).Msg("creating session")
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}

	setSessionCookie(w, session)
	h.logger.Info().Str("user_id", session.UserID).Msg("user logged in")
	http.Redirect(w, r, "/dashboard", http.StatusTemporaryRedirect)
}

// Logout clears the session and redirects home (POST /auth/logout).
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if session := h.session(r); session != nil {
		h.sessions.Delete(r.Context(), session.ID)
	}

	clearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
}

func newOAuthState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
