package formatter

import (
	"encoding/csv"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/decades-app/decades/internal/analysis"
	"github.com/decades-app/decades/internal/models"
	helpers "github.com/decades-app/decades/internal/testing"
)

func testData() *models.PlaylistData {
	description := "Songs for the road"
	tracks := []models.Track{
		{
			ID:          "t1",
			Name:        "First Song",
			Artists:     []models.Artist{{ID: "a1", Name: "Alpha"}},
			Album:       models.Album{Name: "Debut", ReleaseDate: "1994-05-02"},
			ReleaseYear: 1994,
			DurationMS:  215000,
			URI:         "spotify:track:t1",
		},
		{
			ID:          "t2",
			Name:        "Second Song",
			Artists:     []models.Artist{{ID: "a2", Name: "Beta"}, {ID: "a3", Name: "Gamma"}},
			Album:       models.Album{Name: "Sequel", ReleaseDate: "2003"},
			ReleaseYear: 2003,
			DurationMS:  185000,
			URI:         "spotify:track:t2",
		},
	}

	return &models.PlaylistData{
		Meta: models.PlaylistMeta{
			ID:          "pl1",
			Name:        "Road Trip",
			Description: &description,
		},
		Tracks:          tracks,
		YearStats:       analysis.CalculateYearStats(tracks),
		TotalDurationMS: analysis.TotalDuration(tracks),
	}
}

func TestFormatHistogram(t *testing.T) {
	t.Run("Empty Stats", func(t *testing.T) {
		if got := FormatHistogram(nil); !strings.Contains(got, "No release years") {
			t.Errorf("unexpected output %q", got)
		}
	})

	t.Run("Bars Scale With Counts", func(t *testing.T) {
		stats := []models.YearStats{
			{Year: 1990, Count: 1},
			{Year: 2000, Count: 10},
		}

		out := FormatHistogram(stats)
		lines := strings.Split(strings.TrimSpace(out), "\n")
		if len(lines) != 2 {
			t.Fatalf("expected 2 lines, got %d", len(lines))
		}
		if strings.Count(lines[0], "█") >= strings.Count(lines[1], "█") {
			t.Error("expected the bigger bucket to render a longer bar")
		}
		if !strings.Contains(lines[1], "10") {
			t.Errorf("expected the count in the line: %q", lines[1])
		}
	})
}

func TestFormatSummary(t *testing.T) {
	out := FormatSummary(testData())

	for _, want := range []string{"Road Trip", "Songs for the road", "Tracks: 2", "1994 to 2003"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestExportToCSV(t *testing.T) {
	data, err := ExportToCSV(testData())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(records))
	}
	if records[1][2] != "Alpha" || records[2][2] != "Beta, Gamma" {
		t.Errorf("unexpected artist columns %q / %q", records[1][2], records[2][2])
	}
	if records[1][4] != "1994" {
		t.Errorf("year column = %q, want 1994", records[1][4])
	}
}

func TestExportToMarkdown(t *testing.T) {
	data, err := ExportToMarkdown(testData())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	out := string(data)
	for _, want := range []string{"# Road Trip", "| 1994 | 1 |", "Beta, Gamma - Second Song"} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestToJSON(t *testing.T) {
	payload, err := ToJSON(testData())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	var decoded models.PlaylistData
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded.TotalDurationMS != 400000 {
		t.Errorf("totalDurationMs = %d, want 400000", decoded.TotalDurationMS)
	}
}

func TestWriteExport(t *testing.T) {
	dir := t.TempDir()

	t.Run("Writes Each Format", func(t *testing.T) {
		for _, format := range []string{"json", "csv", "markdown", "txt"} {
			t.Run(format, func(t *testing.T) {
				path := filepath.Join(dir, "out_"+format)
				written, err := WriteExport(testData(), format, path)
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				helpers.AssertFileExists(t, written)
				if helpers.MustReadFile(t, written) == "" {
					t.Error("expected file content")
				}
			})
		}
	})

	t.Run("Default Path Uses Playlist ID", func(t *testing.T) {
		wd := helpers.MustGetwd(t)
		helpers.MustChdir(t, dir)
		t.Cleanup(func() { helpers.MustChdir(t, wd) })

		written, err := WriteExport(testData(), "json", "")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if written != "pl1.json" {
			t.Errorf("path = %q, want pl1.json", written)
		}
	})

	t.Run("Unsupported Format", func(t *testing.T) {
		if _, err := WriteExport(testData(), "yaml", ""); err == nil {
			t.Error("expected an error for unsupported format")
		}
	})
}
