// Package server provides HTTP routing, middleware, OAuth handling, and the
// JSON API for the web interface.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with
// method-qualified patterns and path wildcards.
//
// # API Surface
//
//	GET  /api/playlist/{id}           → Analyzed playlist with year histogram
//	GET  /api/playlist/{id}/image.png → Share card image for link previews
//	GET  /api/me/playlists            → Logged-in user's playlists
//	POST /api/playlist/create         → Create a playlist from selected tracks
//	GET  /auth/login                  → OAuth initiation
//	GET  /auth/callback               → OAuth completion, session creation
//	POST /auth/logout                 → Session teardown
//
// Anonymous requests are served with an application token; the create and
// library endpoints require a session cookie established by the OAuth flow.
//
// # OAuth Callback Handler
//
// [OAuthHandler] implements the one-shot OAuth2 authorization code callback
// used by the CLI login command: it validates the state parameter (CSRF
// protection), exchanges the authorization code for tokens, and sends the
// result through a channel. It only processes one callback to prevent replay
// attacks. The web flow instead persists the exchanged tokens as a session
// via [AuthHandler].
package server
