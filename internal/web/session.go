// Package web provides the HTTP server, OAuth flow, and JSON API for the
// mood dashboard.
package web

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/georgifidanov/spotify-mood-classifier/internal/db"
)

const (
	sessionCookieName = "mood_session"
	sessionTTL        = 24 * time.Hour
)

// Session is an authenticated user session.
type Session struct {
	ID        string
	Token     *oauth2.Token
	UserID    string
	UserName  string
	CreatedAt time.Time
}

// SessionManager stores and retrieves sessions. Cookie handling lives in
// the handlers; the manager only deals in session records.
type SessionManager interface {
	Create(ctx context.Context, token *oauth2.Token, userID, userName string) (*Session, error)
	Get(ctx context.Context, id string) *Session
	Delete(ctx context.Context, id string)
	UpdateToken(ctx context.Context, id string, token *oauth2.Token)
}

// MemorySessions keeps sessions in process memory. Suitable for local use;
// sessions do not survive a restart.
type MemorySessions struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemorySessions creates an empty in-memory session store.
func NewMemorySessions() *MemorySessions {
	return &MemorySessions{sessions: make(map[string]*Session)}
}

// Create generates a new session for the given token and user.
func (s *MemorySessions) Create(_ context.Context, token *oauth2.Token, userID, userName string) (*Session, error) {
	id, err := newSessionID()
	if err != nil {
		return nil, err
	}

	session := &Session{
		ID:        id,
		Token:     token,
		UserID:    userID,
		UserName:  userName,
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	s.sessions[id] = session
	s.mu.Unlock()

	return session, nil
}

// Get retrieves a session by ID, or nil if missing or expired.
func (s *MemorySessions) Get(_ context.Context, id string) *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok || time.Since(session.CreatedAt) > sessionTTL {
		return nil
	}
	return session
}

// Delete removes a session by ID.
func (s *MemorySessions) Delete(_ context.Context, id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// UpdateToken replaces the OAuth token for a session.
func (s *MemorySessions) UpdateToken(_ context.Context, id string, token *oauth2.Token) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session, ok := s.sessions[id]; ok {
		session.Token = token
	}
}

// DBSessions keeps sessions in PostgreSQL so logins survive restarts.
type DBSessions struct {
	database *db.DB
}

// NewDBSessions creates a database-backed session store.
func NewDBSessions(database *db.DB) *DBSessions {
	return &DBSessions{database: database}
}

// Create upserts the user row and inserts a new session.
func (s *DBSessions) Create(ctx context.Context, token *oauth2.Token, userID, userName string) (*Session, error) {
	id, err := newSessionID()
	if err != nil {
		return nil, err
	}

	user := &db.User{ID: userID, DisplayName: userName}
	if err := s.database.Users().Upsert(ctx, user); err != nil {
		return nil, err
	}

	now := time.Now()
	record := &db.Session{
		ID:           id,
		UserID:       userID,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenExpiry:  token.Expiry,
		CreatedAt:    now,
		ExpiresAt:    now.Add(sessionTTL),
	}
	if err := s.database.Sessions().Create(ctx, record); err != nil {
		return nil, err
	}

	return &Session{
		ID:        id,
		Token:     token,
		UserID:    userID,
		UserName:  userName,
		CreatedAt: now,
	}, nil
}

// Get retrieves a session and its user from the database, or nil.
func (s *DBSessions) Get(ctx context.Context, id string) *Session {
	record, err := s.database.Sessions().Get(ctx, id)
	if err != nil {
		return nil
	}

	user, err := s.database.Users().Get(ctx, record.UserID)
	if err != nil {
		return nil
	}

	return &Session{
		ID: record.ID,
		Token: &oauth2.Token{
			AccessToken:  record.AccessToken,
			RefreshToken: record.RefreshToken,
			Expiry:       record.TokenExpiry,
			TokenType:    "Bearer",
		},
		UserID:    record.UserID,
		UserName:  user.DisplayName,
		CreatedAt: record.CreatedAt,
	}
}

// Delete removes a session from the database.
func (s *DBSessions) Delete(ctx context.Context, id string) {
	_ = s.database.Sessions().Delete(ctx, id)
}

// UpdateToken stores refreshed tokens for a session.
func (s *DBSessions) UpdateToken(ctx context.Context, id string, token *oauth2.Token) {
	_ = s.database.Sessions().UpdateToken(ctx, id, token.AccessToken, token.RefreshToken, token.Expiry)
}

func newSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func setSessionCookie(w http.ResponseWriter, session *Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    session.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(sessionTTL.Seconds()),
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

var (
	_ SessionManager = (*MemorySessions)(nil)
	_ SessionManager = (*DBSessions)(nil)
)
