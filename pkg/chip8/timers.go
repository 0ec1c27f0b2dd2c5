package chip8

import (
	"sync/atomic"
	"time"
)

// TickInterval is the fixed cadence at which both timers decrement. The
// host drives Tick with wall-clock elapsed time; the CPU clock rate has no
// influence on it.
const TickInterval = time.Second / 60

// Timers holds the delay and sound countdown timers. Both decrement at
// 60 Hz while nonzero and clamp at zero. Sound is active exactly while the
// sound timer is nonzero; the flag is atomically readable so an audio
// component on another goroutine can poll it without tearing.
type Timers struct {
	Delay uint8
	Sound uint8

	accumulated time.Duration
	soundActive atomic.Bool
}

// Reset zeroes both timers and the tick accumulator.
func (t *Timers) Reset() {
	t.Delay = 0
	t.Sound = 0
	t.accumulated = 0
	t.soundActive.Store(false)
}

// Tick accumulates elapsed wall-clock time and applies as many 60 Hz
// decrements as have become due. Calling it with one large duration or with
// many small ones summing to the same duration yields the same end state.
func (t *Timers) Tick(elapsed time.Duration) {
	t.accumulated += elapsed
	for t.accumulated >= TickInterval {
		t.accumulated -= TickInterval
		if t.Delay > 0 {
			t.Delay--
		}
		if t.Sound > 0 {
			t.Sound--
		}
	}
	t.soundActive.Store(t.Sound > 0)
}

// SetSound loads the sound timer and updates the sound-active flag without
// waiting for the next tick.
func (t *Timers) SetSound(value uint8) {
	t.Sound = value
	t.soundActive.Store(value > 0)
}

// SoundActive reports whether the buzzer should currently be on.
func (t *Timers) SoundActive() bool {
	return t.soundActive.Load()
}
