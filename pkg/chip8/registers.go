package chip8

import "errors"

// StackSize is the maximum number of nested subroutine calls.
const StackSize = 16

var (
	// ErrStackOverflow is returned by Step when a CALL would exceed
	// StackSize nested calls. It is terminal for the current execution.
	ErrStackOverflow = errors.New("stack overflow")

	// ErrStackUnderflow is returned by Step when RET executes with an
	// empty call stack.
	ErrStackUnderflow = errors.New("stack underflow")
)

// Registers holds the register file: sixteen 8-bit general registers (VF
// doubles as the carry/borrow/collision flag), the 16-bit index register I,
// the program counter and the call stack.
type Registers struct {
	V     [16]uint8
	I     uint16
	PC    uint16
	SP    uint8
	Stack [StackSize]uint16
}

// Reset zeroes every register and points PC at the program start.
func (r *Registers) Reset() {
	*r = Registers{PC: ProgramStart}
}

// Push records a return address on the call stack.
func (r *Registers) Push(addr uint16) error {
	if r.SP >= StackSize {
		return ErrStackOverflow
	}
	r.Stack[r.SP] = addr
	r.SP++
	return nil
}

// Pop removes and returns the most recent return address.
func (r *Registers) Pop() (uint16, error) {
	if r.SP == 0 {
		return 0, ErrStackUnderflow
	}
	r.SP--
	return r.Stack[r.SP], nil
}
