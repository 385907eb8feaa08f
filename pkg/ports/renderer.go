package ports

import (
	"image"
	"image/color"
)

// Renderer builds presentation buffers and debug stills.
type Renderer interface {
	// CreateCanvas creates a canvas of the given size filled with bg.
	CreateCanvas(width, height int, bg color.Color) Canvas

	// EncodeImage encodes img. quality is used by JPEG only.
	EncodeImage(img image.Image, format ImageFormat, quality int) ([]byte, error)

	// ResizeImage scales img to exactly width x height.
	ResizeImage(img image.Image, width, height int) image.Image
}

// Canvas is a drawing surface for the playback overlay.
type Canvas interface {
	DrawImage(img image.Image, x, y int)
	DrawRect(x, y, w, h int, c color.Color)
	DrawRoundedRect(x, y, w, h, radius int, c color.Color)

	// DrawText draws text with y as its vertical centre.
	DrawText(text string, x, y int, style TextStyle)

	// MeasureText returns the size text would occupy when drawn with style.
	MeasureText(text string, style TextStyle) (w, h float64)

	ToImage() image.Image
}

// TextStyle defines text rendering properties.
type TextStyle struct {
	FontSize float64
	FontPath string // Empty uses the built-in face
	Color    color.Color
	Align    TextAlign
}

// TextAlign specifies horizontal text alignment.
type TextAlign int

const (
	AlignLeft TextAlign = iota
	AlignCenter
	AlignRight
)

// ImageFormat specifies image encoding format.
type ImageFormat int

const (
	FormatJPEG ImageFormat = iota
	FormatPNG
)
