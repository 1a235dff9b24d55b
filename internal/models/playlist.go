package models

// Image is a cover image resource. Ordered lists put the preferred
// rendition first.
type Image struct {
	URL    string `json:"url"`
	Width  *int   `json:"width"`
	Height *int   `json:"height"`
}

// Artist is a track contributor reference.
type Artist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Album is the containing-collection reference carried by a track.
// ReleaseDatePrecision is one of "year", "month", "day".
type Album struct {
	ID                   string  `json:"id"`
	Name                 string  `json:"name"`
	Images               []Image `json:"images"`
	ReleaseDate          string  `json:"releaseDate"`
	ReleaseDatePrecision string  `json:"releaseDatePrecision"`
}

// Owner identifies the playlist owner.
type Owner struct {
	ID          string  `json:"id"`
	DisplayName *string `json:"display_name"`
}

// Track is a playable track parsed from a Spotify playlist item.
//
// Immutable once constructed; ReleaseYear is derived exactly once at parse
// time from the leading year component of the album release date.
type Track struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Artists     []Artist          `json:"artists"`
	Album       Album             `json:"album"`
	ReleaseYear int               `json:"releaseYear"`
	DurationMS  int               `json:"durationMs"`
	PreviewURL  *string           `json:"previewUrl"`
	URI         string            `json:"uri"`
	ExternalURL map[string]string `json:"external_urls"`
}

// PlaylistMeta is a snapshot of playlist metadata. It is not kept in sync
// with Spotify after the fetch.
type PlaylistMeta struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description *string           `json:"description"`
	Images      []Image           `json:"images"`
	Owner       Owner             `json:"owner"`
	Public      *bool             `json:"public"`
	Tracks      TrackCount        `json:"tracks"`
	ExternalURL map[string]string `json:"external_urls"`
}

// TrackCount carries the declared total item count of a playlist.
type TrackCount struct {
	Total int `json:"total"`
}

// YearStats aggregates the tracks released in one year.
//
// For any track list the set of years is exactly the set of distinct
// release years, ordered ascending with no duplicates.
type YearStats struct {
	Year   int     `json:"year"`
	Count  int     `json:"count"`
	Tracks []Track `json:"tracks"`
}

// PlaylistData is the aggregated result of one playlist fetch: metadata,
// the surviving tracks in remote paging order, year statistics, and the
// summed duration.
type PlaylistData struct {
	Meta            PlaylistMeta `json:"meta"`
	Tracks          []Track      `json:"tracks"`
	YearStats       []YearStats  `json:"yearStats"`
	TotalDurationMS int          `json:"totalDurationMs"`
}

// CreatedPlaylist is the result of exporting a selection as a new playlist.
type CreatedPlaylist struct {
	ID          string            `json:"id"`
	ExternalURL map[string]string `json:"external_urls"`
}
