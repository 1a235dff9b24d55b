// Package services talks to the Spotify Web API.
//
// [SpotifyService] implements [Catalog] with typed request/response structs
// based on https://developer.spotify.com/documentation/web-api/reference/.
// Every method takes the bearer token explicitly so one client instance can
// serve many sessions; credentials come from either [AppTokenProvider]
// (client-credentials grant, cached process-wide) or [SessionCredentials]
// (a logged-in user's delegated token, refreshed on demand).
//
// Non-success upstream statuses are mapped onto the shared sentinel errors:
// 404 -> shared.ErrPlaylistNotFound, 401/403 -> shared.ErrAccessDenied,
// anything else -> shared.ErrUpstream.
package services
