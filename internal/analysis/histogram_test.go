package analysis

import (
	"testing"

	"github.com/decades-app/decades/internal/models"
)

func statsForYears(counts map[int]int) []models.YearStats {
	var tracks []models.Track
	i := 0
	for year, n := range counts {
		for range n {
			tracks = append(tracks, trackWithYear(string(rune('a'+i)), year, 1000))
			i++
		}
	}
	return CalculateYearStats(tracks)
}

func TestHistogramBars(t *testing.T) {
	t.Run("Empty Stats", func(t *testing.T) {
		if bars := HistogramBars(nil, 1000, 240); bars != nil {
			t.Errorf("expected nil for empty stats, got %d bars", len(bars))
		}
	})

	t.Run("Bar Per Year", func(t *testing.T) {
		stats := statsForYears(map[int]int{1999: 2, 2001: 1, 2005: 4})
		bars := HistogramBars(stats, 1000, 240)

		if len(bars) != 3 {
			t.Fatalf("expected 3 bars, got %d", len(bars))
		}
		for i, bar := range bars {
			if bar.Year != stats[i].Year {
				t.Errorf("bar %d year = %d, want %d", i, bar.Year, stats[i].Year)
			}
			if bar.Width < 4 {
				t.Errorf("bar %d narrower than minimum: %f", i, bar.Width)
			}
		}
	})

	t.Run("Tallest Bar Fills Chart", func(t *testing.T) {
		stats := statsForYears(map[int]int{1990: 1, 2000: 10})
		bars := HistogramBars(stats, 1000, 240)

		if bars[1].Height <= bars[0].Height {
			t.Error("expected the bigger bucket to render taller")
		}
		wantMax := 240.0 - histPadTop - histPadBottom
		if bars[1].Height != wantMax {
			t.Errorf("max bar height = %f, want %f", bars[1].Height, wantMax)
		}
	})

	t.Run("Few Bars All Labeled", func(t *testing.T) {
		stats := statsForYears(map[int]int{1999: 1, 2001: 1, 2003: 1})
		for i, bar := range HistogramBars(stats, 1000, 240) {
			if !bar.ShowLabel {
				t.Errorf("bar %d should carry a label when there are few bars", i)
			}
		}
	})
}
