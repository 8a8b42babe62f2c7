package video

import "image/color"

// LineWidth is the number of pixels in one emulated scanline.
const LineWidth = 160

// Palette is the four-shade monochrome palette, lightest first.
var Palette = [4]color.RGBA{
	{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF},
	{R: 0xA5, G: 0xA5, B: 0xA5, A: 0xFF},
	{R: 0x52, G: 0x52, B: 0x52, A: 0xFF},
	{R: 0x00, G: 0x00, B: 0x00, A: 0xFF},
}

// Renderer writes scanlines into a framebuffer it does not own.
type Renderer struct {
	fb  *Framebuffer
	row [LineWidth]color.RGBA
}

func NewRenderer(fb *Framebuffer) *Renderer {
	return &Renderer{fb: fb}
}

// DrawLine maps each 2-bit palette index to a color and writes the line at
// row line. Only the low two bits of each value are used.
func (r *Renderer) DrawLine(pixels *[LineWidth]uint8, line int) {
	for i, p := range pixels {
		r.row[i] = Palette[p&3]
	}
	r.fb.WriteRow(line, r.row[:])
}

func (r *Renderer) Framebuffer() *Framebuffer {
	return r.fb
}
