package chip8

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func countLit(d *Display) int {
	lit := 0
	for y := 0; y < DisplayHeight; y++ {
		for x := 0; x < DisplayWidth; x++ {
			if d.Pixel(x, y) {
				lit++
			}
		}
	}
	return lit
}

func TestDisplayDraw(t *testing.T) {
	var d Display
	collision := d.Draw(0, 0, []byte{0xC0, 0xC0})

	assert.False(t, collision)
	assert.True(t, d.Pixel(0, 0))
	assert.True(t, d.Pixel(1, 0))
	assert.True(t, d.Pixel(0, 1))
	assert.True(t, d.Pixel(1, 1))
	assert.Equal(t, 4, countLit(&d))
}

func TestDisplayDrawWraps(t *testing.T) {
	var d Display
	d.Draw(63, 31, []byte{0xC0, 0xC0})

	assert.True(t, d.Pixel(63, 31))
	assert.True(t, d.Pixel(0, 31))
	assert.True(t, d.Pixel(63, 0))
	assert.True(t, d.Pixel(0, 0))
	assert.Equal(t, 4, countLit(&d))
}

func TestDisplayDrawTwiceErases(t *testing.T) {
	var d Display
	sprite := []byte{0xF0, 0x90, 0xF0}

	assert.False(t, d.Draw(4, 4, sprite))
	assert.True(t, d.Draw(4, 4, sprite))
	assert.Equal(t, 0, countLit(&d))
}

func TestDisplayDrawOverlapPartial(t *testing.T) {
	var d Display
	assert.False(t, d.Draw(0, 0, []byte{0xF0}))
	// Shifted by one pixel: three pixels collide, two stay lit at the edges.
	assert.True(t, d.Draw(1, 0, []byte{0xF0}))
	assert.True(t, d.Pixel(0, 0))
	assert.True(t, d.Pixel(4, 0))
	assert.Equal(t, 2, countLit(&d))
}

func TestDisplayDrawDisjointNoCollision(t *testing.T) {
	var d Display
	assert.False(t, d.Draw(0, 0, []byte{0xFF}))
	assert.False(t, d.Draw(0, 1, []byte{0xFF}))
	assert.Equal(t, 16, countLit(&d))
}

func TestDisplayClear(t *testing.T) {
	var d Display
	d.Draw(10, 10, []byte{0xFF, 0xFF})
	d.Clear()
	assert.Equal(t, 0, countLit(&d))
}

func TestDisplaySnapshotIsACopy(t *testing.T) {
	var d Display
	d.Draw(0, 0, []byte{0x80})

	snap := d.Snapshot()
	snap[0][0] = false

	assert.True(t, d.Pixel(0, 0))
}
