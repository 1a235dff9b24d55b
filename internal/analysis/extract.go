package analysis

import "regexp"

// Spotify playlist identifiers are 22 base62 characters.
var (
	bareIDPattern = regexp.MustCompile(`^[a-zA-Z0-9]{22}$`)
	urlPattern    = regexp.MustCompile(`(?:spotify\.com/playlist/|spotify:playlist:)([a-zA-Z0-9]{22})`)
)

// ExtractPlaylistID parses a free-form input string into a canonical playlist
// identifier. It accepts a bare ID, an open.spotify.com/playlist URL with
// optional query content, or a spotify:playlist: URI, matched anywhere in the
// string. The second return is false when nothing matches. Never errors.
func ExtractPlaylistID(input string) (string, bool) {
	if bareIDPattern.MatchString(input) {
		return input, true
	}

	if m := urlPattern.FindStringSubmatch(input); m != nil {
		return m[1], true
	}

	return "", false
}
