package analysis

import "github.com/decades-app/decades/internal/models"

// Selection tracks a click-driven single-year or year-range pick over the
// year histogram. The zero value is the empty selection.
//
// Transitions on Click(y):
//   - empty            -> single year y
//   - single y0, y!=y0 -> range [min(y0,y), max(y0,y)]
//   - single y0, y==y0 -> empty (toggle off)
//   - completed range  -> single year y (a range is replaced, never extended)
//
// A range whose endpoints coincide is normalized to a single-year pick, so
// the invariant start < end holds whenever end is set.
type Selection struct {
	start int
	end   int
	// active and ranged track which of the three states we are in; Go has
	// no option type, so two booleans stand in for start/end nullability.
	active bool
	ranged bool
}

// Click applies one year click to the selection.
func (s *Selection) Click(year int) {
	switch {
	case !s.active:
		s.start = year
		s.active = true
	case s.ranged:
		// Completed range: restart as a fresh single pick.
		s.start = year
		s.ranged = false
	case s.start != year:
		lo, hi := s.start, year
		if hi < lo {
			lo, hi = hi, lo
		}
		s.start, s.end = lo, hi
		s.ranged = true
	default:
		// Same year clicked again: toggle off.
		s.active = false
	}
}

// Clear resets to the empty selection.
func (s *Selection) Clear() {
	*s = Selection{}
}

// Empty reports whether nothing is selected.
func (s *Selection) Empty() bool {
	return !s.active
}

// Bounds returns the inclusive selected range. ok is false when empty;
// a single-year pick returns lo == hi.
func (s *Selection) Bounds() (lo, hi int, ok bool) {
	if !s.active {
		return 0, 0, false
	}
	if !s.ranged {
		return s.start, s.start, true
	}
	return s.start, s.end, true
}

// Contains reports whether year falls inside the selection.
func (s *Selection) Contains(year int) bool {
	lo, hi, ok := s.Bounds()
	return ok && year >= lo && year <= hi
}

// SelectedYears returns the inclusive set of selected years, empty when
// nothing is selected.
func (s *Selection) SelectedYears() map[int]bool {
	years := make(map[int]bool)
	lo, hi, ok := s.Bounds()
	if !ok {
		return years
	}
	for year := lo; year <= hi; year++ {
		years[year] = true
	}
	return years
}

// Filter returns the tracks whose release year falls in the selection,
// preserving order. The full list is returned when the selection is empty.
func (s *Selection) Filter(tracks []models.Track) []models.Track {
	if s.Empty() {
		return tracks
	}

	filtered := make([]models.Track, 0, len(tracks))
	for _, track := range tracks {
		if s.Contains(track.ReleaseYear) {
			filtered = append(filtered, track)
		}
	}
	return filtered
}
