package ggrenderer

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/user/reelsort/pkg/ports"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestRenderer_CreateCanvas(t *testing.T) {
	canvas := New().CreateCanvas(64, 36, color.Black)

	img := canvas.ToImage()
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 36 {
		t.Errorf("expected 64x36, got %dx%d", b.Dx(), b.Dy())
	}

	r, g, b, a := img.At(10, 10).RGBA()
	if r != 0 || g != 0 || b != 0 || a != 0xffff {
		t.Errorf("expected opaque black background, got %v %v %v %v", r, g, b, a)
	}
}

func TestRenderer_EncodeImage(t *testing.T) {
	r := New()
	img := solid(20, 10, color.RGBA{R: 255, A: 255})

	tests := []struct {
		name   string
		format ports.ImageFormat
		decode func([]byte) (image.Image, error)
	}{
		{"png", ports.FormatPNG, func(b []byte) (image.Image, error) { return png.Decode(bytes.NewReader(b)) }},
		{"jpeg", ports.FormatJPEG, func(b []byte) (image.Image, error) { return jpeg.Decode(bytes.NewReader(b)) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := r.EncodeImage(img, tt.format, 85)
			if err != nil {
				t.Fatalf("EncodeImage failed: %v", err)
			}
			decoded, err := tt.decode(data)
			if err != nil {
				t.Fatalf("decode failed: %v", err)
			}
			if b := decoded.Bounds(); b.Dx() != 20 || b.Dy() != 10 {
				t.Errorf("expected 20x10, got %dx%d", b.Dx(), b.Dy())
			}
		})
	}
}

func TestRenderer_EncodeImageUnsupported(t *testing.T) {
	if _, err := New().EncodeImage(solid(2, 2, color.RGBA{A: 255}), ports.ImageFormat(99), 0); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestRenderer_ResizeImage(t *testing.T) {
	resized := New().ResizeImage(solid(100, 60, color.RGBA{G: 200, A: 255}), 50, 30)
	if b := resized.Bounds(); b.Dx() != 50 || b.Dy() != 30 {
		t.Errorf("expected 50x30, got %dx%d", b.Dx(), b.Dy())
	}
	if _, g, _, _ := resized.At(25, 15).RGBA(); g>>8 < 190 {
		t.Errorf("expected green to survive scaling, got %d", g>>8)
	}
}

func TestRenderer_ResizeImageSameSize(t *testing.T) {
	src := solid(8, 8, color.RGBA{B: 255, A: 255})
	out := New().ResizeImage(src, 8, 8)
	if out == image.Image(src) {
		t.Error("expected a copy, got the source image")
	}
	if _, _, b, _ := out.At(4, 4).RGBA(); b>>8 != 255 {
		t.Errorf("expected blue pixel, got %d", b>>8)
	}
}

func TestCanvas_DrawRect(t *testing.T) {
	canvas := New().CreateCanvas(100, 100, color.White)
	canvas.DrawRect(10, 10, 30, 30, color.RGBA{R: 255, A: 255})

	img := canvas.ToImage()
	if _, g, _, _ := img.At(20, 20).RGBA(); g != 0 {
		t.Error("expected red pixel inside rectangle")
	}
	if _, g, _, _ := img.At(60, 60).RGBA(); g == 0 {
		t.Error("expected white pixel outside rectangle")
	}
}

func TestCanvas_DrawRoundedRect(t *testing.T) {
	canvas := New().CreateCanvas(100, 100, color.White)
	canvas.DrawRoundedRect(10, 10, 80, 40, 12, color.Black)

	img := canvas.ToImage()
	if r, _, _, _ := img.At(50, 30).RGBA(); r != 0 {
		t.Error("expected black pixel inside rounded rectangle")
	}
	if r, _, _, _ := img.At(10, 10).RGBA(); r == 0 {
		t.Error("expected rounded corner to stay white")
	}
}

func TestCanvas_DrawImage(t *testing.T) {
	canvas := New().CreateCanvas(100, 100, color.White)
	canvas.DrawImage(solid(20, 20, color.RGBA{R: 255, A: 255}), 10, 10)

	img := canvas.ToImage()
	if _, g, _, _ := img.At(15, 15).RGBA(); g != 0 {
		t.Error("expected red pixel from drawn image")
	}
}

func TestCanvas_DrawText(t *testing.T) {
	canvas := New().CreateCanvas(200, 50, color.White)
	canvas.DrawText("KEEP", 100, 25, ports.TextStyle{
		FontSize: 14,
		Color:    color.Black,
		Align:    ports.AlignCenter,
	})

	img := canvas.ToImage()
	dark := false
	for x := 80; x < 120 && !dark; x++ {
		for y := 15; y < 35; y++ {
			if r, _, _, _ := img.At(x, y).RGBA(); r < 0x8000 {
				dark = true
				break
			}
		}
	}
	if !dark {
		t.Error("expected text pixels around the anchor")
	}
}

func TestCanvas_DrawTextMissingFont(t *testing.T) {
	canvas := New().CreateCanvas(50, 20, color.White)
	canvas.DrawText("x", 0, 10, ports.TextStyle{FontPath: "/nonexistent.ttf", FontSize: 12, Color: color.Black})
	if canvas.ToImage() == nil {
		t.Error("expected image after drawing with a missing font")
	}
}

func TestCanvas_MeasureText(t *testing.T) {
	canvas := New().CreateCanvas(200, 50, color.Black)
	style := ports.TextStyle{FontSize: 13, Color: color.White}

	short, h := canvas.MeasureText("keep", style)
	long, _ := canvas.MeasureText("keep  Video 10 of 12", style)

	if short <= 0 || h <= 0 {
		t.Fatalf("expected positive size, got %.1fx%.1f", short, h)
	}
	if long <= short {
		t.Errorf("expected longer text to measure wider: %.1f <= %.1f", long, short)
	}
}

func TestCanvas_MissingFontKeepsFace(t *testing.T) {
	canvas := New().CreateCanvas(200, 50, color.Black)
	before, _ := canvas.MeasureText("abc", ports.TextStyle{})
	after, _ := canvas.MeasureText("abc", ports.TextStyle{FontPath: "/nonexistent.ttf", FontSize: 40})

	if before != after {
		t.Errorf("expected default face kept, got %.1f then %.1f", before, after)
	}
}
