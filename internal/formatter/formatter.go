// package formatter renders analyzed playlist data for terminal output and
// file export (plain text, CSV, Markdown, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/decades-app/decades/internal/models"
	"github.com/decades-app/decades/internal/shared"
)

// histogramWidth is the maximum bar width of the terminal histogram.
const histogramWidth = 50

// ArtistNames joins a track's artist names for display.
func ArtistNames(track models.Track) string {
	names := make([]string, len(track.Artists))
	for i, artist := range track.Artists {
		names[i] = artist.Name
	}
	return strings.Join(names, ", ")
}

// FormatHistogram renders year stats as a terminal bar chart.
func FormatHistogram(stats []models.YearStats) string {
	if len(stats) == 0 {
		return "No release years found.\n"
	}

	maxCount := 0
	for _, stat := range stats {
		if stat.Count > maxCount {
			maxCount = stat.Count
		}
	}

	var buf bytes.Buffer
	for _, stat := range stats {
		width := stat.Count * histogramWidth / maxCount
		if width < 1 {
			width = 1
		}
		buf.WriteString(fmt.Sprintf("%4d │%s %d\n", stat.Year, strings.Repeat("█", width), stat.Count))
	}
	return buf.String()
}

// FormatSummary renders the analysis header shown above the histogram.
func FormatSummary(data *models.PlaylistData) string {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Playlist: %s\n", data.Meta.Name))
	if data.Meta.Description != nil && *data.Meta.Description != "" {
		buf.WriteString(fmt.Sprintf("Description: %s\n", *data.Meta.Description))
	}
	if data.Meta.Owner.DisplayName != nil {
		buf.WriteString(fmt.Sprintf("Owner: %s\n", *data.Meta.Owner.DisplayName))
	}
	buf.WriteString(fmt.Sprintf("Visibility: %s\n", shared.VisibilityString(data.Meta.Public)))
	buf.WriteString(fmt.Sprintf("Tracks: %d\n", len(data.Tracks)))
	buf.WriteString(fmt.Sprintf("Duration: %s\n", shared.FormatDuration(data.TotalDurationMS)))

	if len(data.YearStats) > 0 {
		first := data.YearStats[0].Year
		last := data.YearStats[len(data.YearStats)-1].Year
		buf.WriteString(fmt.Sprintf("Years: %d to %d\n", first, last))
	}

	return buf.String()
}

// ExportToCSV converts analyzed tracks to CSV with columns: ID, Title, Artists, Album, Year, Duration, URI
func ExportToCSV(data *models.PlaylistData) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Artists", "Album", "Year", "Duration", "URI"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, track := range data.Tracks {
		record := []string{
			track.ID,
			track.Name,
			ArtistNames(track),
			track.Album.Name,
			strconv.Itoa(track.ReleaseYear),
			strconv.Itoa(track.DurationMS),
			track.URI,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts an analysis to Markdown with a year table and track list
func ExportToMarkdown(data *models.PlaylistData) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", data.Meta.Name))

	if data.Meta.Description != nil && *data.Meta.Description != "" {
		buf.WriteString(fmt.Sprintf("**Description**: %s\n\n", *data.Meta.Description))
	}

	buf.WriteString(fmt.Sprintf("**Tracks**: %d\n", len(data.Tracks)))
	buf.WriteString(fmt.Sprintf("**Duration**: %s\n", shared.FormatDuration(data.TotalDurationMS)))
	buf.WriteString(fmt.Sprintf("**Visibility**: %s\n\n", shared.VisibilityString(data.Meta.Public)))

	if len(data.YearStats) > 0 {
		buf.WriteString("## Years\n\n")
		buf.WriteString("| Year | Tracks |\n|------|--------|\n")
		for _, stat := range data.YearStats {
			buf.WriteString(fmt.Sprintf("| %d | %d |\n", stat.Year, stat.Count))
		}
		buf.WriteString("\n")
	}

	buf.WriteString("## Tracks\n\n")
	for i, track := range data.Tracks {
		duration := shared.FormatTrackDuration(track.DurationMS)
		albumPart := ""
		if track.Album.Name != "" {
			albumPart = fmt.Sprintf(" (%s, %d)", track.Album.Name, track.ReleaseYear)
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s%s [%s]\n", i+1, ArtistNames(track), track.Name, albumPart, duration))
	}

	return buf.Bytes(), nil
}

// ExportToText converts an analysis to plain text format
func ExportToText(data *models.PlaylistData) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(FormatSummary(data))
	buf.WriteString("\n")
	buf.WriteString(FormatHistogram(data.YearStats))
	buf.WriteString("\n")

	for i, track := range data.Tracks {
		buf.WriteString(fmt.Sprintf("%d. %s - %s (%d)\n", i+1, ArtistNames(track), track.Name, track.ReleaseYear))
	}

	return buf.Bytes(), nil
}

// ToJSON generates the same JSON representation the API serves
func ToJSON(data *models.PlaylistData) ([]byte, error) {
	return shared.MarshalJSON(data, true)
}

// WriteExport writes an analysis to a file in the given format.
//
// Supported formats: json (default), csv, markdown, txt.
// The path defaults to {playlist.ID}.{ext}.
func WriteExport(data *models.PlaylistData, format, path string) (string, error) {
	var (
		payload []byte
		err     error
		ext     string
	)

	switch format {
	case "csv":
		payload, err = ExportToCSV(data)
		ext = "csv"
	case "markdown":
		payload, err = ExportToMarkdown(data)
		ext = "md"
	case "txt":
		payload, err = ExportToText(data)
		ext = "txt"
	case "json", "":
		payload, err = ToJSON(data)
		ext = "json"
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
	if err != nil {
		return "", fmt.Errorf("failed to generate %s export: %w", format, err)
	}

	if path == "" {
		path = fmt.Sprintf("%s.%s", data.Meta.ID, ext)
	}

	if err := os.WriteFile(path, payload, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}
