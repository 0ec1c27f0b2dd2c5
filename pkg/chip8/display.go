package chip8

const (
	// DisplayWidth and DisplayHeight are the framebuffer dimensions in
	// pixels. The display is monochrome; a pixel is either on or off.
	DisplayWidth  = 64
	DisplayHeight = 32
)

// Display is the 64x32 monochrome framebuffer. Only the draw and clear
// instructions mutate it; everything else reads snapshots.
type Display struct {
	at [DisplayHeight][DisplayWidth]bool
}

// Reset turns every pixel off.
func (d *Display) Reset() {
	d.at = [DisplayHeight][DisplayWidth]bool{}
}

// Clear implements the CLS instruction.
func (d *Display) Clear() {
	d.Reset()
}

// Draw XOR-blits a sprite at (x, y) and reports whether any pixel was
// erased in the process (the collision flag). Each sprite byte is one row
// of 8 pixels, most significant bit leftmost. Both the start coordinates
// and any pixels past the edges wrap modulo the display dimensions.
func (d *Display) Draw(x, y uint8, sprite []byte) bool {
	collision := false
	for row, line := range sprite {
		py := (int(y) + row) % DisplayHeight
		for bit := 0; bit < 8; bit++ {
			px := (int(x) + bit) % DisplayWidth
			on := line>>(7-bit)&1 == 1
			if on && d.at[py][px] {
				collision = true
			}
			d.at[py][px] = d.at[py][px] != on
		}
	}
	return collision
}

// Pixel reports the state of one pixel, wrapping out-of-range coordinates.
func (d *Display) Pixel(x, y int) bool {
	return d.at[y%DisplayHeight][x%DisplayWidth]
}

// Snapshot returns a copy of the framebuffer for a renderer to consume.
// The returned array is a value; the caller cannot mutate display state
// through it.
func (d *Display) Snapshot() [DisplayHeight][DisplayWidth]bool {
	return d.at
}
