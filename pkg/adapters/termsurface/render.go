package termsurface

import (
	"fmt"
	"image"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const halfBlock = "▀"

// cellSize returns the cell grid that fits img into maxCols x maxRows.
// Each cell shows two pixel rows.
func cellSize(img image.Image, maxCols, maxRows int) (int, int) {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 || maxCols <= 0 || maxRows <= 0 {
		return 0, 0
	}

	cols := maxCols
	rows := cols * b.Dy() / b.Dx() / 2
	if rows > maxRows {
		rows = maxRows
		cols = rows * 2 * b.Dx() / b.Dy()
	}
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return cols, rows
}

// renderHalfBlocks draws img as cols x rows cells of upper half blocks, the
// foreground carrying the top pixel and the background the bottom one.
func renderHalfBlocks(img image.Image, cols, rows int) string {
	if cols <= 0 || rows <= 0 {
		return ""
	}
	b := img.Bounds()

	var sb strings.Builder
	for row := 0; row < rows; row++ {
		topY := b.Min.Y + (2*row)*b.Dy()/(2*rows)
		bottomY := b.Min.Y + (2*row+1)*b.Dy()/(2*rows)
		for col := 0; col < cols; col++ {
			x := b.Min.X + col*b.Dx()/cols
			style := lipgloss.NewStyle().
				Foreground(lipgloss.Color(hexColor(img, x, topY))).
				Background(lipgloss.Color(hexColor(img, x, bottomY)))
			sb.WriteString(style.Render(halfBlock))
		}
		if row < rows-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func hexColor(img image.Image, x, y int) string {
	r, g, b, _ := img.At(x, y).RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}

// progressBar renders a bar of width cells filled to fraction.
func progressBar(fraction float64, width int) string {
	if width <= 0 {
		return ""
	}
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	filled := int(fraction * float64(width))
	return barStyle.Render(strings.Repeat("━", filled)) + dimStyle.Render(strings.Repeat("─", width-filled))
}

// clock formats seconds as m:ss.
func clock(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
