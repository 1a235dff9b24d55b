package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("spotify credentials not configured")

	// Authentication errors
	ErrAuthRequired     = fmt.Errorf("login required")
	ErrTokenUnavailable = fmt.Errorf("no spotify access token for this session")
	ErrTokenExchange    = fmt.Errorf("token exchange failed")
	ErrSessionNotFound  = fmt.Errorf("session not found")

	// Catalog errors
	ErrInvalidPlaylistID = fmt.Errorf("invalid playlist ID or URL")
	ErrPlaylistNotFound  = fmt.Errorf("playlist not found")
	ErrAccessDenied      = fmt.Errorf("cannot access this playlist")
	ErrUpstream          = fmt.Errorf("spotify API request failed")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
)
