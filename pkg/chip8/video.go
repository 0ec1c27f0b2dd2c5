package chip8

import (
	"image"
	"image/color"
	"image/png"
	"os"
)

// FramebufferRGBA decodes a framebuffer snapshot into a 64x32 RGBA8888 byte
// slice (length 64*32*4), on pixels in pixel and off pixels in background.
// Renderers can upload the result directly as a texture.
func FramebufferRGBA(snapshot [DisplayHeight][DisplayWidth]bool, pixel, background color.RGBA) []byte {
	pixels := make([]byte, DisplayWidth*DisplayHeight*4)
	for y := 0; y < DisplayHeight; y++ {
		for x := 0; x < DisplayWidth; x++ {
			c := background
			if snapshot[y][x] {
				c = pixel
			}
			i := (y*DisplayWidth + x) * 4
			pixels[i+0] = c.R
			pixels[i+1] = c.G
			pixels[i+2] = c.B
			pixels[i+3] = c.A
		}
	}
	return pixels
}

// FramebufferImage returns the current framebuffer as an *image.RGBA.
func (s *System) FramebufferImage(pixel, background color.RGBA) *image.RGBA {
	return &image.RGBA{
		Pix:    FramebufferRGBA(s.Display.Snapshot(), pixel, background),
		Stride: DisplayWidth * 4,
		Rect:   image.Rect(0, 0, DisplayWidth, DisplayHeight),
	}
}

// SaveScreenshot encodes the current framebuffer as a PNG and writes it to
// filename.
func (s *System) SaveScreenshot(filename string, pixel, background color.RGBA) error {
	img := s.FramebufferImage(pixel, background)
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
