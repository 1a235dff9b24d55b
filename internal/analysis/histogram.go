package analysis

import "github.com/decades-app/decades/internal/models"

// HistogramBar is one bar of the year histogram in pixel coordinates.
type HistogramBar struct {
	X         float64
	Y         float64
	Width     float64
	Height    float64
	Year      int
	Count     int
	ShowLabel bool
}

const (
	histPadTop    = 10.0
	histPadBottom = 10.0
	histPadSide   = 20.0
)

// HistogramBars lays out one bar per year stat inside a width x height
// canvas. Bars share the available width with a gap clamped to 2..4px and a
// minimum bar width of 4px. Labels are shown for decade years, the first and
// last bar, or for every bar when there are at most ten.
func HistogramBars(stats []models.YearStats, width, height float64) []HistogramBar {
	if len(stats) == 0 {
		return nil
	}

	chartWidth := width - 2*histPadSide
	chartHeight := height - histPadTop - histPadBottom

	maxCount := 0
	for _, stat := range stats {
		if stat.Count > maxCount {
			maxCount = stat.Count
		}
	}

	barCount := len(stats)
	barGap := float64(int(chartWidth / float64(barCount) / 10))
	if barGap < 2 {
		barGap = 2
	} else if barGap > 4 {
		barGap = 4
	}

	barWidth := (chartWidth - float64(barCount-1)*barGap) / float64(barCount)
	if barWidth < 4 {
		barWidth = 4
	}

	bars := make([]HistogramBar, barCount)
	for i, stat := range stats {
		barHeight := float64(stat.Count) / float64(maxCount) * chartHeight
		x := histPadSide + float64(i)*(barWidth+barGap)
		y := height - histPadBottom - barHeight

		showLabel := barCount <= 10 || stat.Year%10 == 0 || i == 0 || i == barCount-1

		bars[i] = HistogramBar{
			X:         x,
			Y:         y,
			Width:     barWidth,
			Height:    barHeight,
			Year:      stat.Year,
			Count:     stat.Count,
			ShowLabel: showLabel,
		}
	}

	return bars
}
