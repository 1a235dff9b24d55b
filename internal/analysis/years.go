package analysis

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/decades-app/decades/internal/models"
)

// ParseReleaseYear derives the integer release year from a Spotify release
// date string: the leading "-"-delimited component ("1999-03-02" -> 1999,
// bare "1999" -> 1999). A missing or non-numeric leading component is an
// error; the caller treats it as upstream data corruption rather than
// guessing a fallback year.
func ParseReleaseYear(releaseDate string) (int, error) {
	head := strings.SplitN(releaseDate, "-", 2)[0]
	year, err := strconv.Atoi(head)
	if err != nil || head == "" {
		return 0, fmt.Errorf("malformed release date %q", releaseDate)
	}
	return year, nil
}

// CalculateYearStats groups tracks by release year.
//
// The returned slice covers exactly the distinct release years present in
// tracks, ascending, no duplicates; the sum of counts equals len(tracks).
func CalculateYearStats(tracks []models.Track) []models.YearStats {
	yearMap := make(map[int][]models.Track)
	for _, track := range tracks {
		yearMap[track.ReleaseYear] = append(yearMap[track.ReleaseYear], track)
	}

	stats := make([]models.YearStats, 0, len(yearMap))
	for year, yearTracks := range yearMap {
		stats = append(stats, models.YearStats{
			Year:   year,
			Count:  len(yearTracks),
			Tracks: yearTracks,
		})
	}

	sort.Slice(stats, func(i, j int) bool { return stats[i].Year < stats[j].Year })
	return stats
}

// TotalDuration sums track durations in milliseconds.
func TotalDuration(tracks []models.Track) int {
	total := 0
	for _, track := range tracks {
		total += track.DurationMS
	}
	return total
}
