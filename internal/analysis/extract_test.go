package analysis

import "testing"

func TestExtractPlaylistID(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"Bare ID", "37i9dQZF1DXcBWIGoYBM5M", "37i9dQZF1DXcBWIGoYBM5M", true},
		{"Open URL", "https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M", "37i9dQZF1DXcBWIGoYBM5M", true},
		{"Open URL With Query", "https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M?si=abc123", "37i9dQZF1DXcBWIGoYBM5M", true},
		{"URI", "spotify:playlist:37i9dQZF1DXcBWIGoYBM5M", "37i9dQZF1DXcBWIGoYBM5M", true},
		{"URL Embedded In Text", "check this out https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M !", "37i9dQZF1DXcBWIGoYBM5M", true},
		{"Not A URL", "not a url", "", false},
		{"Empty", "", "", false},
		{"Too Short ID", "37i9dQZF1DX", "", false},
		{"Too Long Bare ID", "37i9dQZF1DXcBWIGoYBM5Mxx", "", false},
		{"Track URL", "https://open.spotify.com/track/37i9dQZF1DXcBWIGoYBM5M", "", false},
		{"ID With Punctuation", "37i9dQZF1DXcBWIGoYBM5-", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ExtractPlaylistID(tc.input)
			if ok != tc.ok {
				t.Fatalf("ExtractPlaylistID(%q) ok = %v, want %v", tc.input, ok, tc.ok)
			}
			if got != tc.want {
				t.Errorf("ExtractPlaylistID(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}
