package present

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/user/reelsort/pkg/ports"
)

// Theme holds overlay colours.
type Theme struct {
	Keep  color.Color
	Trash color.Color
	Bar   color.Color
	Text  color.Color
}

// DefaultTheme returns the built-in overlay colours.
func DefaultTheme() Theme {
	return Theme{
		Keep:  color.RGBA{R: 0x2e, G: 0xa0, B: 0x43, A: 0xff},
		Trash: color.RGBA{R: 0xd0, G: 0x3a, B: 0x2f, A: 0xff},
		Bar:   color.RGBA{R: 0xf0, G: 0xb4, B: 0x29, A: 0xff},
		Text:  color.White,
	}
}

// Overlay describes what Annotate draws over a frame.
type Overlay struct {
	Label    string
	Decision ports.Decision
	Position float64
	Duration float64
}

const (
	badgeHeight = 24
	barHeight   = 4
	margin      = 8
)

// Annotate draws the decision badge, label and position bar over img.
func Annotate(renderer ports.Renderer, theme Theme, img image.Image, o Overlay) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	canvas := renderer.CreateCanvas(w, h, color.Black)
	canvas.DrawImage(img, 0, 0)

	badge := theme.Keep
	if o.Decision == ports.DecisionTrash {
		badge = theme.Trash
	}
	text := fmt.Sprintf("%s  %s", o.Decision, o.Label)
	style := ports.TextStyle{
		FontSize: 13,
		Color:    theme.Text,
		Align:    ports.AlignLeft,
	}
	textWidth, _ := canvas.MeasureText(text, style)
	badgeWidth := 16 + int(math.Ceil(textWidth))
	if badgeWidth > w-2*margin {
		badgeWidth = w - 2*margin
	}
	if badgeWidth > 0 {
		canvas.DrawRoundedRect(margin, margin, badgeWidth, badgeHeight, 6, badge)
		canvas.DrawText(text, margin+8, margin+badgeHeight/2, style)
	}

	if o.Duration > 0 {
		progress := o.Position / o.Duration
		if progress > 1 {
			progress = 1
		}
		if progress > 0 {
			canvas.DrawRect(0, h-barHeight, int(float64(w)*progress), barHeight, theme.Bar)
		}
	}

	return canvas.ToImage()
}
