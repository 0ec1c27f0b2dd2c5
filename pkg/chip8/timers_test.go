package chip8

import (
	"testing"
	"time"

	"github.com/retroenv/retrogolib/assert"
)

func TestTimersTickAtSixtyHertz(t *testing.T) {
	var tm Timers
	tm.Delay = 60
	tm.SetSound(60)

	tm.Tick(time.Second)

	assert.Equal(t, uint8(0), tm.Delay)
	assert.Equal(t, uint8(0), tm.Sound)
	assert.False(t, tm.SoundActive())
}

func TestTimersCadenceIndependentOfCallPattern(t *testing.T) {
	var lump, sliced Timers
	lump.Delay = 60
	sliced.Delay = 60

	lump.Tick(time.Second)
	for i := 0; i < 100; i++ {
		sliced.Tick(10 * time.Millisecond)
	}

	assert.Equal(t, lump.Delay, sliced.Delay)
}

func TestTimersAccumulateSubIntervalTime(t *testing.T) {
	var tm Timers
	tm.Delay = 10

	tm.Tick(10 * time.Millisecond) // under 1/60s, no decrement yet
	assert.Equal(t, uint8(10), tm.Delay)

	tm.Tick(7 * time.Millisecond) // crosses the 1/60s boundary once
	assert.Equal(t, uint8(9), tm.Delay)
}

func TestTimersClampAtZero(t *testing.T) {
	var tm Timers
	tm.Delay = 1
	tm.SetSound(1)

	tm.Tick(time.Second)

	assert.Equal(t, uint8(0), tm.Delay)
	assert.Equal(t, uint8(0), tm.Sound)
}

func TestSoundActiveFollowsSoundTimer(t *testing.T) {
	var tm Timers
	assert.False(t, tm.SoundActive())

	tm.SetSound(2)
	assert.True(t, tm.SoundActive())

	tm.Tick(TickInterval)
	assert.True(t, tm.SoundActive())

	tm.Tick(TickInterval)
	assert.False(t, tm.SoundActive())
}

func TestTimersReset(t *testing.T) {
	var tm Timers
	tm.Delay = 5
	tm.SetSound(5)
	tm.Tick(5 * time.Millisecond)

	tm.Reset()

	assert.Equal(t, uint8(0), tm.Delay)
	assert.Equal(t, uint8(0), tm.Sound)
	assert.False(t, tm.SoundActive())

	// No stale fraction from before the reset.
	tm.Delay = 1
	tm.Tick(10 * time.Millisecond)
	assert.Equal(t, uint8(1), tm.Delay)
}
