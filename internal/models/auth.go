package models

import (
	"fmt"
	"time"
)

// User is a Spotify account that has logged in at least once.
type User struct {
	id          string
	spotifyID   string
	displayName string
	createdAt   time.Time
	updatedAt   time.Time
}

// NewUser creates a User for the given Spotify account.
func NewUser(spotifyID, displayName string) *User {
	now := time.Now().UTC()
	return &User{
		spotifyID:   spotifyID,
		displayName: displayName,
		createdAt:   now,
		updatedAt:   now,
	}
}

func (u *User) ID() string            { return u.id }
func (u *User) SpotifyID() string     { return u.spotifyID }
func (u *User) DisplayName() string   { return u.displayName }
func (u *User) CreatedAt() time.Time  { return u.createdAt }
func (u *User) UpdatedAt() time.Time  { return u.updatedAt }
func (u *User) SetID(id string)       { u.id = id }
func (u *User) SetDisplayName(n string) {
	u.displayName = n
}
func (u *User) SetCreatedAt(t time.Time) { u.createdAt = t }
func (u *User) SetUpdatedAt(t time.Time) { u.updatedAt = t }

// Validate checks if the user's data is valid.
func (u *User) Validate() error {
	if u.spotifyID == "" {
		return fmt.Errorf("user missing spotify account id")
	}
	return nil
}

// Session is a logged-in session holding the delegated Spotify tokens.
//
// The access token is short-lived; the refresh token lets the credential
// provider mint a fresh one when it expires.
type Session struct {
	id             string
	userID         string
	accessToken    string
	refreshToken   string
	tokenExpiresAt time.Time
	createdAt      time.Time
	expiresAt      time.Time
}

// SessionTTL is how long a session stays valid after login.
const SessionTTL = 30 * 24 * time.Hour

// NewSession creates a Session for the given user and token pair.
func NewSession(userID, accessToken, refreshToken string, tokenExpiresAt time.Time) *Session {
	now := time.Now().UTC()
	return &Session{
		userID:         userID,
		accessToken:    accessToken,
		refreshToken:   refreshToken,
		tokenExpiresAt: tokenExpiresAt,
		createdAt:      now,
		expiresAt:      now.Add(SessionTTL),
	}
}

func (s *Session) ID() string                { return s.id }
func (s *Session) UserID() string            { return s.userID }
func (s *Session) AccessToken() string       { return s.accessToken }
func (s *Session) RefreshToken() string      { return s.refreshToken }
func (s *Session) TokenExpiresAt() time.Time { return s.tokenExpiresAt }
func (s *Session) CreatedAt() time.Time      { return s.createdAt }
func (s *Session) UpdatedAt() time.Time      { return s.createdAt }
func (s *Session) ExpiresAt() time.Time      { return s.expiresAt }
func (s *Session) SetID(id string)           { s.id = id }
func (s *Session) SetCreatedAt(t time.Time)  { s.createdAt = t }
func (s *Session) SetExpiresAt(t time.Time)  { s.expiresAt = t }

// SetTokens replaces the delegated token pair after a refresh.
func (s *Session) SetTokens(accessToken, refreshToken string, tokenExpiresAt time.Time) {
	s.accessToken = accessToken
	if refreshToken != "" {
		s.refreshToken = refreshToken
	}
	s.tokenExpiresAt = tokenExpiresAt
}

// Expired reports whether the session itself (not the access token) has lapsed.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.expiresAt)
}

// Validate checks if the session's data is valid.
func (s *Session) Validate() error {
	if s.userID == "" {
		return fmt.Errorf("session missing user id")
	}
	if s.accessToken == "" {
		return fmt.Errorf("session missing access token")
	}
	return nil
}
