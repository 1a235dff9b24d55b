// Package repositories implements SQLite persistence for login state.
//
// The analyzer itself is stateless per request; the only durable entities
// are the Spotify accounts that have logged in and their sessions holding
// delegated tokens.
//
// Key Implementations:
//   - [UserRepository] : Spotify account persistence with spotify_id lookups
//   - [SessionRepository] : Session persistence with token refresh writes and expiry sweeps
package repositories
