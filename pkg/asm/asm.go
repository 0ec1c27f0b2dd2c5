// Package asm implements a small two-pass assembler for the CHIP-8
// instruction set. It exists so ROM images can be written as text instead of
// hand-encoded opcode words: labels resolve to 12-bit addresses, a db
// directive emits raw sprite bytes, and the mnemonic syntax matches what the
// emulator's disassembler prints.
package asm

import (
	"fmt"
	"strconv"
	"strings"

	"gochip8/pkg/chip8"
)

// Origin is the address the first assembled byte is placed at when the
// output is loaded into the virtual machine.
const Origin = chip8.ProgramStart

type parsedLine struct {
	lineNo   int
	label    string
	mnemonic string
	operands []string
}

// Assembler carries label state between the two passes.
type Assembler struct {
	labels map[string]uint16
}

func NewAssembler() *Assembler {
	return &Assembler{labels: make(map[string]uint16)}
}

// Assemble is shorthand for NewAssembler().Assemble(code).
func Assemble(code string) ([]byte, error) {
	return NewAssembler().Assemble(code)
}

// Assemble turns assembly text into a raw ROM image. Pass one sizes each
// line and records label addresses; pass two encodes opcode words.
func (a *Assembler) Assemble(code string) ([]byte, error) {
	lines, err := parse(code)
	if err != nil {
		return nil, err
	}

	addr := uint16(Origin)
	for _, line := range lines {
		if line.label != "" {
			if _, dup := a.labels[line.label]; dup {
				return nil, fmt.Errorf("line %d: duplicate label %q", line.lineNo, line.label)
			}
			a.labels[line.label] = addr
		}
		size, err := lineSize(line)
		if err != nil {
			return nil, err
		}
		addr += size
	}

	var out []byte
	for _, line := range lines {
		if line.mnemonic == "" {
			continue
		}
		encoded, err := a.encodeLine(line)
		if err != nil {
			return nil, err
		}
		out = append(out, encoded...)
	}
	return out, nil
}

func parse(code string) ([]parsedLine, error) {
	var lines []parsedLine
	for i, raw := range strings.Split(code, "\n") {
		line := parsedLine{lineNo: i + 1}

		text := raw
		if idx := strings.Index(text, ";"); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		if idx := strings.Index(text, ":"); idx >= 0 {
			line.label = strings.ToLower(strings.TrimSpace(text[:idx]))
			if line.label == "" || strings.ContainsAny(line.label, " \t") {
				return nil, fmt.Errorf("line %d: bad label %q", line.lineNo, text[:idx])
			}
			text = strings.TrimSpace(text[idx+1:])
		}

		if text != "" {
			fields := strings.SplitN(text, " ", 2)
			line.mnemonic = strings.ToLower(fields[0])
			if len(fields) == 2 {
				for _, op := range strings.Split(fields[1], ",") {
					line.operands = append(line.operands, strings.ToLower(strings.TrimSpace(op)))
				}
			}
		}

		lines = append(lines, line)
	}
	return lines, nil
}

// lineSize returns the number of bytes a line assembles to. Every
// instruction is one 2-byte word; db emits one byte per operand.
func lineSize(line parsedLine) (uint16, error) {
	switch {
	case line.mnemonic == "":
		return 0, nil
	case line.mnemonic == "db":
		if len(line.operands) == 0 {
			return 0, fmt.Errorf("line %d: db needs at least one byte", line.lineNo)
		}
		return uint16(len(line.operands)), nil
	default:
		return 2, nil
	}
}

func (a *Assembler) encodeLine(line parsedLine) ([]byte, error) {
	if line.mnemonic == "db" {
		out := make([]byte, 0, len(line.operands))
		for _, op := range line.operands {
			v, err := a.number(line, op, 0xFF)
			if err != nil {
				return nil, err
			}
			out = append(out, byte(v))
		}
		return out, nil
	}

	word, err := a.encodeWord(line)
	if err != nil {
		return nil, err
	}
	return []byte{byte(word >> 8), byte(word)}, nil
}

//nolint:funlen // one arm per instruction shape
func (a *Assembler) encodeWord(line parsedLine) (uint16, error) {
	ops := line.operands
	switch line.mnemonic {
	case "cls":
		return 0x00E0, nil
	case "ret":
		return 0x00EE, nil

	case "jp":
		switch len(ops) {
		case 1:
			addr, err := a.address(line, ops[0])
			return 0x1000 | addr, err
		case 2:
			if ops[0] != "v0" {
				return 0, fmt.Errorf("line %d: indexed jump is relative to v0 only", line.lineNo)
			}
			addr, err := a.address(line, ops[1])
			return 0xB000 | addr, err
		}

	case "call":
		if len(ops) == 1 {
			addr, err := a.address(line, ops[0])
			return 0x2000 | addr, err
		}

	case "se", "sne":
		base := map[string][2]uint16{"se": {0x3000, 0x5000}, "sne": {0x4000, 0x9000}}[line.mnemonic]
		if len(ops) == 2 {
			x, err := register(line, ops[0])
			if err != nil {
				return 0, err
			}
			if y, yerr := register(line, ops[1]); yerr == nil {
				return base[1] | uint16(x)<<8 | uint16(y)<<4, nil
			}
			kk, err := a.number(line, ops[1], 0xFF)
			return base[0] | uint16(x)<<8 | kk, err
		}

	case "ld":
		return a.encodeLd(line)

	case "add":
		if len(ops) == 2 {
			if ops[0] == "i" {
				x, err := register(line, ops[1])
				return 0xF01E | uint16(x)<<8, err
			}
			x, err := register(line, ops[0])
			if err != nil {
				return 0, err
			}
			if y, yerr := register(line, ops[1]); yerr == nil {
				return 0x8004 | uint16(x)<<8 | uint16(y)<<4, nil
			}
			kk, err := a.number(line, ops[1], 0xFF)
			return 0x7000 | uint16(x)<<8 | kk, err
		}

	case "or", "and", "xor", "sub", "subn":
		n := map[string]uint16{"or": 0x1, "and": 0x2, "xor": 0x3, "sub": 0x5, "subn": 0x7}[line.mnemonic]
		if len(ops) == 2 {
			x, err := register(line, ops[0])
			if err != nil {
				return 0, err
			}
			y, err := register(line, ops[1])
			return 0x8000 | uint16(x)<<8 | uint16(y)<<4 | n, err
		}

	case "shr", "shl":
		n := map[string]uint16{"shr": 0x6, "shl": 0xE}[line.mnemonic]
		if len(ops) == 1 {
			x, err := register(line, ops[0])
			return 0x8000 | uint16(x)<<8 | n, err
		}

	case "rnd":
		if len(ops) == 2 {
			x, err := register(line, ops[0])
			if err != nil {
				return 0, err
			}
			kk, err := a.number(line, ops[1], 0xFF)
			return 0xC000 | uint16(x)<<8 | kk, err
		}

	case "drw":
		if len(ops) == 3 {
			x, err := register(line, ops[0])
			if err != nil {
				return 0, err
			}
			y, err := register(line, ops[1])
			if err != nil {
				return 0, err
			}
			n, err := a.number(line, ops[2], 0xF)
			return 0xD000 | uint16(x)<<8 | uint16(y)<<4 | n, err
		}

	case "skp", "sknp":
		base := map[string]uint16{"skp": 0xE09E, "sknp": 0xE0A1}[line.mnemonic]
		if len(ops) == 1 {
			x, err := register(line, ops[0])
			return base | uint16(x)<<8, err
		}

	default:
		return 0, fmt.Errorf("line %d: unknown mnemonic %q", line.lineNo, line.mnemonic)
	}

	return 0, fmt.Errorf("line %d: bad operands for %s", line.lineNo, line.mnemonic)
}

// encodeLd handles the many destination/source shapes of the ld mnemonic.
func (a *Assembler) encodeLd(line parsedLine) (uint16, error) {
	ops := line.operands
	if len(ops) != 2 {
		return 0, fmt.Errorf("line %d: ld needs two operands", line.lineNo)
	}

	dst, src := ops[0], ops[1]
	switch dst {
	case "i":
		addr, err := a.address(line, src)
		return 0xA000 | addr, err
	case "dt":
		x, err := register(line, src)
		return 0xF015 | uint16(x)<<8, err
	case "st":
		x, err := register(line, src)
		return 0xF018 | uint16(x)<<8, err
	case "f":
		x, err := register(line, src)
		return 0xF029 | uint16(x)<<8, err
	case "b":
		x, err := register(line, src)
		return 0xF033 | uint16(x)<<8, err
	case "[i]":
		x, err := register(line, src)
		return 0xF055 | uint16(x)<<8, err
	}

	x, err := register(line, dst)
	if err != nil {
		return 0, err
	}
	switch src {
	case "dt":
		return 0xF007 | uint16(x)<<8, nil
	case "k":
		return 0xF00A | uint16(x)<<8, nil
	case "[i]":
		return 0xF065 | uint16(x)<<8, nil
	}
	if y, yerr := register(line, src); yerr == nil {
		return 0x8000 | uint16(x)<<8 | uint16(y)<<4, nil
	}
	kk, err := a.number(line, src, 0xFF)
	return 0x6000 | uint16(x)<<8 | kk, err
}

// register parses v0-vf.
func register(line parsedLine, s string) (uint8, error) {
	if len(s) == 2 && s[0] == 'v' {
		if v, err := strconv.ParseUint(s[1:], 16, 8); err == nil {
			return uint8(v), nil
		}
	}
	return 0, fmt.Errorf("line %d: expected register v0-vf, got %q", line.lineNo, s)
}

// address resolves a label or a numeric literal to a 12-bit address.
func (a *Assembler) address(line parsedLine, s string) (uint16, error) {
	if addr, ok := a.labels[s]; ok {
		return addr & 0x0FFF, nil
	}
	return a.number(line, s, 0x0FFF)
}

// number parses a decimal, $hex or 0x-hex literal up to max.
func (a *Assembler) number(line parsedLine, s string, max uint16) (uint16, error) {
	base := 10
	digits := s
	switch {
	case strings.HasPrefix(s, "$"):
		base = 16
		digits = s[1:]
	case strings.HasPrefix(s, "0x"):
		base = 16
		digits = s[2:]
	}
	v, err := strconv.ParseUint(digits, base, 16)
	if err != nil {
		return 0, fmt.Errorf("line %d: bad number %q", line.lineNo, s)
	}
	if v > uint64(max) {
		return 0, fmt.Errorf("line %d: value %q exceeds maximum %d", line.lineNo, s, max)
	}
	return uint16(v), nil
}
