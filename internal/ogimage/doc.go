// Package ogimage renders playlist share cards as PNG images.
//
// Cards are 1200x630, the standard link-preview aspect, and carry the
// playlist name, track count, and the release-year histogram. Rendering is
// pure: callers pass the already-analyzed playlist data and receive encoded
// bytes, so the HTTP layer owns caching policy.
package ogimage
