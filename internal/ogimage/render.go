package ogimage

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"github.com/decades-app/decades/internal/analysis"
	"github.com/decades-app/decades/internal/models"
	"github.com/decades-app/decades/internal/shared"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Card dimensions follow the standard link-preview aspect ratio.
const (
	CardWidth  = 1200
	CardHeight = 630
)

// Chart region inside the card.
const (
	chartLeft   = 60
	chartTop    = 240
	chartWidth  = CardWidth - 2*chartLeft
	chartHeight = 320
)

var (
	backgroundColor = color.RGBA{18, 18, 18, 255}
	barColor        = color.RGBA{29, 185, 84, 255}
	titleColor      = color.RGBA{255, 255, 255, 255}
	subtitleColor   = color.RGBA{179, 179, 179, 255}
	axisColor       = color.RGBA{83, 83, 83, 255}
)

const maxTitleRunes = 42

// Render draws the share card for an analyzed playlist and returns it PNG-encoded.
func Render(data *models.PlaylistData) ([]byte, error) {
	if data == nil {
		return nil, fmt.Errorf("no playlist data to render")
	}

	img := newCard()

	drawScaledText(img, chartLeft, 80, truncate(data.Meta.Name, maxTitleRunes), titleColor, 4)
	drawScaledText(img, chartLeft, 150, subtitle(data), subtitleColor, 2)

	bars := analysis.HistogramBars(data.YearStats, chartWidth, chartHeight)
	for _, bar := range bars {
		fillRect(img,
			chartLeft+int(bar.X),
			chartTop+int(bar.Y),
			int(bar.Width),
			int(bar.Height),
			barColor,
		)
		if bar.ShowLabel {
			label := fmt.Sprintf("%d", bar.Year)
			labelX := chartLeft + int(bar.X+bar.Width/2) - len(label)*basicfont.Face7x13.Advance
			drawScaledText(img, labelX, chartTop+chartHeight+30, label, subtitleColor, 2)
		}
	}

	// Baseline under the bars.
	fillRect(img, chartLeft, chartTop+chartHeight, chartWidth, 2, axisColor)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode card: %w", err)
	}
	return buf.Bytes(), nil
}

// Fallback draws the card served when a playlist cannot be analyzed.
func Fallback() ([]byte, error) {
	img := newCard()

	drawScaledText(img, chartLeft, 280, "decades", titleColor, 6)
	drawScaledText(img, chartLeft, 360, "See your playlist's release years at a glance", subtitleColor, 2)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode fallback card: %w", err)
	}
	return buf.Bytes(), nil
}

func newCard() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, CardWidth, CardHeight))
	draw.Draw(img, img.Bounds(), &image.Uniform{backgroundColor}, image.Point{}, draw.Src)
	return img
}

// subtitle summarizes the analysis under the title.
func subtitle(data *models.PlaylistData) string {
	trackCount := len(data.Tracks)
	if len(data.YearStats) == 0 {
		return fmt.Sprintf("%d tracks", trackCount)
	}

	first := data.YearStats[0].Year
	last := data.YearStats[len(data.YearStats)-1].Year
	duration := shared.FormatDuration(data.TotalDurationMS)

	if first == last {
		return fmt.Sprintf("%d tracks - %d - %s", trackCount, first, duration)
	}
	return fmt.Sprintf("%d tracks - %d to %d - %s", trackCount, first, last, duration)
}

// truncate shortens s to maxRunes, ending with an ASCII ellipsis. The
// basicfont face has no glyph for U+2026.
func truncate(s string, maxRunes int) string {
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes-3]) + "..."
}

// fillRect fills an axis-aligned rectangle clipped to the image bounds.
func fillRect(img *image.RGBA, x, y, w, h int, c color.Color) {
	rect := image.Rect(x, y, x+w, y+h).Intersect(img.Bounds())
	draw.Draw(img, rect, &image.Uniform{c}, image.Point{}, draw.Src)
}

// drawScaledText renders text with the basic bitmap face scaled up by an
// integer factor. (x, y) is the top-left corner of the rendered block.
func drawScaledText(img *image.RGBA, x, y int, text string, c color.Color, scale int) {
	if text == "" || scale < 1 {
		return
	}

	face := basicfont.Face7x13
	w := len(text) * face.Advance
	h := face.Height

	block := image.NewRGBA(image.Rect(0, 0, w, h))
	drawer := &font.Drawer{
		Dst:  block,
		Src:  &image.Uniform{c},
		Face: face,
		Dot:  fixed.P(0, face.Ascent),
	}
	drawer.DrawString(text)

	bounds := img.Bounds()
	for by := 0; by < h; by++ {
		for bx := 0; bx < w; bx++ {
			_, _, _, alpha := block.At(bx, by).RGBA()
			if alpha == 0 {
				continue
			}
			for dy := 0; dy < scale; dy++ {
				for dx := 0; dx < scale; dx++ {
					px, py := x+bx*scale+dx, y+by*scale+dy
					if image.Pt(px, py).In(bounds) {
						img.Set(px, py, c)
					}
				}
			}
		}
	}
}
