// Package chip8 implements the CHIP-8 virtual machine: 4KB of memory,
// sixteen 8-bit registers, a 16-entry call stack, two 60 Hz countdown
// timers, a 64x32 monochrome framebuffer and a 16-key hex keypad.
//
// The package contains no scheduling of its own. A host loop drives the
// machine by calling Step at its chosen CPU clock rate (1-500 Hz) and Tick
// at whatever cadence it likes, passing measured elapsed time; the timers
// decrement on their own fixed 60 Hz grid regardless of either rate.
package chip8

import (
	"errors"
	"fmt"
	"math/rand"
	"time"
)

const (
	// MinClockHz and MaxClockHz bound the configurable CPU step rate.
	MinClockHz = 1
	MaxClockHz = 500

	// DefaultClockHz is used when Config leaves the rate unset.
	DefaultClockHz = 500
)

// ErrBadClockSpeed is returned by New for a clock rate outside 1-500 Hz.
var ErrBadClockSpeed = errors.New("unsupported clock speed")

// Config holds the construction-time parameters of a System. The CPU clock
// rate is the only core-level knob; display color, ROM path and the like
// are host concerns.
type Config struct {
	// ClockHz is the rate at which the host promises to call Step,
	// between MinClockHz and MaxClockHz. Zero selects DefaultClockHz.
	ClockHz int

	// Seed, when nonzero, makes the RND instruction deterministic.
	Seed int64

	// Tracer, when non-nil, receives one record per executed
	// instruction. Leave nil to skip trace bookkeeping entirely.
	Tracer TraceFunc
}

// System is one CHIP-8 machine instance. All mutable state lives in the
// struct so independent instances never share anything; Step and Tick are
// the only mutators and must be called from a single goroutine.
type System struct {
	Regs    Registers
	Mem     Memory
	Timers  Timers
	Display Display
	Keypad  Keypad

	clockHz int
	rng     *rand.Rand
	tracer  TraceFunc

	// Wait-for-key sub-state. While waiting is set, Step only samples
	// the keypad looking for a press edge against lastKeys.
	waiting  bool
	waitReg  uint8
	lastKeys [NumKeys]bool
}

// New builds a System from cfg and validates the clock rate. The machine
// starts with an empty program; call LoadROM before stepping.
func New(cfg Config) (*System, error) {
	if cfg.ClockHz == 0 {
		cfg.ClockHz = DefaultClockHz
	}
	if cfg.ClockHz < MinClockHz || cfg.ClockHz > MaxClockHz {
		return nil, fmt.Errorf("%w: %d Hz", ErrBadClockSpeed, cfg.ClockHz)
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	s := &System{
		clockHz: cfg.ClockHz,
		rng:     rand.New(rand.NewSource(seed)),
		tracer:  cfg.Tracer,
	}
	s.reset()
	return s, nil
}

// ClockHz returns the configured CPU step rate.
func (s *System) ClockHz() int {
	return s.clockHz
}

func (s *System) reset() {
	s.Mem.Reset()
	s.Regs.Reset()
	s.Timers.Reset()
	s.Display.Reset()
	s.Keypad.Reset()
	s.waiting = false
	s.waitReg = 0
	s.lastKeys = [NumKeys]bool{}
}

// LoadROM resets the machine and loads a raw program image at 0x200.
func (s *System) LoadROM(rom []byte) error {
	s.reset()
	return s.Mem.LoadROM(rom)
}

// SoundActive reports whether the buzzer should be on. Safe to call from a
// goroutine other than the one driving Step.
func (s *System) SoundActive() bool {
	return s.Timers.SoundActive()
}

// Tick advances the 60 Hz timers by the given elapsed wall-clock time.
func (s *System) Tick(elapsed time.Duration) {
	s.Timers.Tick(elapsed)
}

// Step runs one fetch-decode-execute cycle, or polls the keypad when the
// machine is suspended in wait-for-key. Unknown opcodes are skipped and
// reported only through the trace hook; stack faults are returned and leave
// the machine in a state the host should not step further.
func (s *System) Step() error {
	if s.waiting {
		s.pollWaitKey()
		return nil
	}

	pc := s.Regs.PC & addrMask
	word := uint16(s.Mem.Read(pc))<<8 | uint16(s.Mem.Read(pc+1))
	in := Decode(word)

	if s.tracer != nil {
		s.tracer(Trace{PC: pc, Word: word, Mnemonic: Disassemble(word)})
	}

	if err := s.execute(pc, in); err != nil {
		return fmt.Errorf("%w (pc=%03X opcode=%04X)", err, pc, word)
	}

	// The keypad state seen by this cycle is the baseline for press-edge
	// detection should the next instruction be a key wait.
	s.lastKeys = s.Keypad.State()
	return nil
}

// pollWaitKey looks for a key that went down since the last observed keypad
// state. A key already held when the wait began does not satisfy it.
func (s *System) pollWaitKey() {
	now := s.Keypad.State()
	for key := uint8(0); key < NumKeys; key++ {
		if now[key] && !s.lastKeys[key] {
			s.Regs.V[s.waitReg] = key
			s.waiting = false
			s.Regs.PC = (s.Regs.PC + 2) & addrMask
			break
		}
	}
	s.lastKeys = now
}

func (s *System) execute(pc uint16, in Instruction) error {
	r := &s.Regs
	next := pc + 2

	switch in.Op {
	case OpCls:
		s.Display.Clear()

	case OpRet:
		addr, err := r.Pop()
		if err != nil {
			return err
		}
		next = addr

	case OpJp:
		next = in.NNN

	case OpCall:
		if err := r.Push(pc + 2); err != nil {
			return err
		}
		next = in.NNN

	case OpSeByte:
		if r.V[in.X] == in.KK {
			next += 2
		}

	case OpSneByte:
		if r.V[in.X] != in.KK {
			next += 2
		}

	case OpSeReg:
		if r.V[in.X] == r.V[in.Y] {
			next += 2
		}

	case OpLdByte:
		r.V[in.X] = in.KK

	case OpAddByte:
		r.V[in.X] += in.KK

	case OpLdReg:
		r.V[in.X] = r.V[in.Y]

	case OpOr:
		r.V[in.X] |= r.V[in.Y]

	case OpAnd:
		r.V[in.X] &= r.V[in.Y]

	case OpXor:
		r.V[in.X] ^= r.V[in.Y]

	case OpAddReg:
		sum := uint16(r.V[in.X]) + uint16(r.V[in.Y])
		r.V[in.X] = uint8(sum)
		r.V[0xF] = uint8(sum >> 8)

	case OpSub:
		noBorrow := r.V[in.X] >= r.V[in.Y]
		r.V[in.X] -= r.V[in.Y]
		r.V[0xF] = flag(noBorrow)

	case OpShr:
		out := r.V[in.X] & 0x01
		r.V[in.X] >>= 1
		r.V[0xF] = out

	case OpSubn:
		noBorrow := r.V[in.Y] >= r.V[in.X]
		r.V[in.X] = r.V[in.Y] - r.V[in.X]
		r.V[0xF] = flag(noBorrow)

	case OpShl:
		out := r.V[in.X] >> 7
		r.V[in.X] <<= 1
		r.V[0xF] = out

	case OpSneReg:
		if r.V[in.X] != r.V[in.Y] {
			next += 2
		}

	case OpLdI:
		r.I = in.NNN

	case OpJpV0:
		next = in.NNN + uint16(r.V[0])

	case OpRnd:
		r.V[in.X] = uint8(s.rng.Intn(256)) & in.KK

	case OpDrw:
		sprite := s.Mem.Sprite(r.I, in.N)
		collision := s.Display.Draw(r.V[in.X], r.V[in.Y], sprite)
		r.V[0xF] = flag(collision)

	case OpSkp:
		if s.Keypad.IsPressed(r.V[in.X]) {
			next += 2
		}

	case OpSknp:
		if !s.Keypad.IsPressed(r.V[in.X]) {
			next += 2
		}

	case OpLdVxDt:
		r.V[in.X] = s.Timers.Delay

	case OpLdKey:
		// Suspend at this instruction. PC stays put so the trace and
		// any host inspection see the machine parked on the wait;
		// pollWaitKey advances it once a fresh press arrives.
		s.waiting = true
		s.waitReg = in.X
		next = pc

	case OpLdDtVx:
		s.Timers.Delay = r.V[in.X]

	case OpLdStVx:
		s.Timers.SetSound(r.V[in.X])

	case OpAddI:
		r.I += uint16(r.V[in.X])

	case OpLdFont:
		r.I = FontAddr(r.V[in.X])

	case OpLdBcd:
		v := r.V[in.X]
		s.Mem.Write(r.I, v/100)
		s.Mem.Write(r.I+1, v/10%10)
		s.Mem.Write(r.I+2, v%10)

	case OpLdMemVx:
		for i := uint16(0); i <= uint16(in.X); i++ {
			s.Mem.Write(r.I+i, r.V[i])
		}

	case OpLdVxMem:
		for i := uint16(0); i <= uint16(in.X); i++ {
			r.V[i] = s.Mem.Read(r.I + i)
		}

	case OpUnknown:
		// Skip the word and keep going; the trace already recorded it.
	}

	r.PC = next & addrMask
	return nil
}

func flag(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
