package chip8

import (
	"fmt"

	rchip8 "github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// Trace is one per-step execution record for verbose diagnostics. The core
// only produces these when a Tracer is configured; it never logs on its own.
type Trace struct {
	PC       uint16
	Word     uint16
	Mnemonic string
}

// TraceFunc consumes trace records, typically by handing them to the host's
// logger.
type TraceFunc func(Trace)

// instructionName looks the opcode word up in the retrogolib CHIP-8 tables
// and returns its canonical instruction name, or "" for an unassigned word.
func instructionName(word uint16) string {
	firstNibble := (word & 0xF000) >> 12
	for _, op := range rchip8.Opcodes[int(firstNibble)] {
		if op.Info.Mask&word == op.Info.Value {
			if op.Instruction == nil {
				return ""
			}
			return op.Instruction.Name
		}
	}
	return ""
}

// Disassemble renders one opcode word as assembly text. Words outside the
// base instruction set render as a data directive so a full ROM dump stays
// round-trippable through the assembler.
func Disassemble(word uint16) string {
	in := Decode(word)
	if in.Op == OpUnknown {
		return fmt.Sprintf("db $%02X, $%02X", word>>8, word&0xFF)
	}

	name := instructionName(word)
	switch in.Op {
	case OpCls, OpRet:
		return name
	case OpJp, OpCall, OpLdI:
		if in.Op == OpLdI {
			return fmt.Sprintf("%s i, $%03X", name, in.NNN)
		}
		return fmt.Sprintf("%s $%03X", name, in.NNN)
	case OpJpV0:
		return fmt.Sprintf("%s v0, $%03X", name, in.NNN)
	case OpSeByte, OpSneByte, OpLdByte, OpAddByte, OpRnd:
		return fmt.Sprintf("%s v%X, $%02X", name, in.X, in.KK)
	case OpSeReg, OpSneReg, OpLdReg, OpOr, OpAnd, OpXor, OpAddReg, OpSub, OpSubn:
		return fmt.Sprintf("%s v%X, v%X", name, in.X, in.Y)
	case OpShr, OpShl, OpSkp, OpSknp:
		return fmt.Sprintf("%s v%X", name, in.X)
	case OpDrw:
		return fmt.Sprintf("%s v%X, v%X, $%X", name, in.X, in.Y, in.N)
	case OpLdVxDt:
		return fmt.Sprintf("%s v%X, dt", name, in.X)
	case OpLdKey:
		return fmt.Sprintf("%s v%X, k", name, in.X)
	case OpLdDtVx:
		return fmt.Sprintf("%s dt, v%X", name, in.X)
	case OpLdStVx:
		return fmt.Sprintf("%s st, v%X", name, in.X)
	case OpAddI:
		return fmt.Sprintf("%s i, v%X", name, in.X)
	case OpLdFont:
		return fmt.Sprintf("%s f, v%X", name, in.X)
	case OpLdBcd:
		return fmt.Sprintf("%s b, v%X", name, in.X)
	case OpLdMemVx:
		return fmt.Sprintf("%s [i], v%X", name, in.X)
	case OpLdVxMem:
		return fmt.Sprintf("%s v%X, [i]", name, in.X)
	}
	return name
}
