// Package video turns emulated scanlines into true-color pixels.
package video

import (
	"image"
	"image/color"
)

const bytesPerPixel = 4

// Framebuffer is a fixed-size RGBA pixel buffer whose rows may be wider in
// memory than they are on screen. Stride is in pixels.
type Framebuffer struct {
	Width  int
	Height int
	Stride int
	Pix    []byte
}

// NewFramebuffer allocates a zeroed buffer. A stride narrower than width is
// raised to width.
func NewFramebuffer(width, height, stride int) *Framebuffer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	if stride < width {
		stride = width
	}
	return &Framebuffer{
		Width:  width,
		Height: height,
		Stride: stride,
		Pix:    make([]byte, stride*height*bytesPerPixel),
	}
}

// WriteRow copies row into line y. At most Width pixels are written, so a
// row longer than the buffer is truncated instead of spilling into the
// padding or the next line. It returns the number of pixels written.
func (fb *Framebuffer) WriteRow(y int, row []color.RGBA) int {
	if y < 0 || y >= fb.Height {
		return 0
	}
	n := len(row)
	if n > fb.Width {
		n = fb.Width
	}
	off := y * fb.Stride * bytesPerPixel
	for x := 0; x < n; x++ {
		i := off + x*bytesPerPixel
		fb.Pix[i] = row[x].R
		fb.Pix[i+1] = row[x].G
		fb.Pix[i+2] = row[x].B
		fb.Pix[i+3] = row[x].A
	}
	return n
}

// At returns the pixel at x, y. Coordinates inside the stride padding are
// readable so tests can check nothing was written there.
func (fb *Framebuffer) At(x, y int) color.RGBA {
	if x < 0 || x >= fb.Stride || y < 0 || y >= fb.Height {
		return color.RGBA{}
	}
	i := (y*fb.Stride + x) * bytesPerPixel
	return color.RGBA{R: fb.Pix[i], G: fb.Pix[i+1], B: fb.Pix[i+2], A: fb.Pix[i+3]}
}

// Clear zeroes every pixel, padding included.
func (fb *Framebuffer) Clear() {
	for i := range fb.Pix {
		fb.Pix[i] = 0
	}
}

// RGBA returns an image view over the visible area. It shares memory with
// the framebuffer.
func (fb *Framebuffer) RGBA() *image.RGBA {
	return &image.RGBA{
		Pix:    fb.Pix,
		Stride: fb.Stride * bytesPerPixel,
		Rect:   image.Rect(0, 0, fb.Width, fb.Height),
	}
}

// Pitch is the row length in bytes.
func (fb *Framebuffer) Pitch() int {
	return fb.Stride * bytesPerPixel
}
