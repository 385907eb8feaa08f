// Package present turns decoded frames into fixed-size presentation buffers.
package present

import (
	"errors"
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/user/reelsort/pkg/ports"
)

// ErrInvalidFrame is returned for frames with a short or empty pixel buffer.
var ErrInvalidFrame = errors.New("present: invalid frame")

// Converter letterboxes frames into a fixed display size.
type Converter struct {
	renderer ports.Renderer
	width    int
	height   int
	bg       color.Color
}

// NewConverter creates a Converter producing width x height buffers.
// A zero size keeps frames at their decoded size.
func NewConverter(renderer ports.Renderer, width, height int) *Converter {
	return &Converter{
		renderer: renderer,
		width:    width,
		height:   height,
		bg:       color.Black,
	}
}

// Size returns the display size.
func (c *Converter) Size() (int, int) {
	return c.width, c.height
}

// Convert returns an *image.RGBA of the display size with the frame centred.
func (c *Converter) Convert(f ports.Frame) (image.Image, error) {
	if !f.Valid() {
		return nil, ErrInvalidFrame
	}

	src := ToRGBA(f)
	if c.width <= 0 || c.height <= 0 || (f.Width == c.width && f.Height == c.height) {
		return src, nil
	}

	w, h := Fit(f.Width, f.Height, c.width, c.height)
	scaled := c.renderer.ResizeImage(src, w, h)

	canvas := c.renderer.CreateCanvas(c.width, c.height, c.bg)
	canvas.DrawImage(scaled, (c.width-w)/2, (c.height-h)/2)
	return AsRGBA(canvas.ToImage()), nil
}

// ToRGBA expands packed RGB24 pixels to an opaque RGBA image.
func ToRGBA(f ports.Frame) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	stride := f.Stride()
	for y := 0; y < f.Height; y++ {
		src := f.Pix[y*stride : y*stride+stride]
		dst := img.Pix[y*img.Stride : y*img.Stride+f.Width*4]
		for x := 0; x < f.Width; x++ {
			dst[x*4] = src[x*3]
			dst[x*4+1] = src[x*3+1]
			dst[x*4+2] = src[x*3+2]
			dst[x*4+3] = 0xff
		}
	}
	return img
}

// AsRGBA returns img as *image.RGBA, copying when needed.
func AsRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}

// Fit returns the largest size with the aspect ratio of w x h that fits
// inside maxW x maxH.
func Fit(w, h, maxW, maxH int) (int, int) {
	if w <= 0 || h <= 0 {
		return maxW, maxH
	}
	if w*maxH > h*maxW {
		fh := h * maxW / w
		if fh < 1 {
			fh = 1
		}
		return maxW, fh
	}
	fw := w * maxH / h
	if fw < 1 {
		fw = 1
	}
	return fw, maxH
}
