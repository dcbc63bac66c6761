// Package icon draws the window icon.
package icon

import (
	"image"
	"image/color"
)

var (
	background = color.RGBA{R: 0x10, G: 0x10, B: 0x14, A: 0xFF}
	screen     = color.RGBA{R: 0x2A, G: 0x2D, B: 0x3A, A: 0xFF}
	cueLine    = color.RGBA{R: 0xF5, G: 0xD0, B: 0x4C, A: 0xFF}
)

// Generate returns 64x64 and 32x32 icon images for use with ebiten.SetWindowIcon.
func Generate() []image.Image {
	return []image.Image{
		generate(64),
		generate(32),
	}
}

// generate draws a screen with two subtitle lines near its bottom edge.
func generate(size int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	u := size / 16

	fillRect(img, 0, 0, size, size, background)
	fillRect(img, u, 2*u, size-u, size-3*u, screen)
	fillRect(img, 4*u, size-7*u, size-4*u, size-6*u, cueLine)
	fillRect(img, 3*u, size-5*u, size-3*u, size-4*u, cueLine)
	return img
}

func fillRect(img *image.RGBA, x0, y0, x1, y1 int, c color.RGBA) {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}
