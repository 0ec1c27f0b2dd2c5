package asm

import (
	"fmt"
	"testing"

	"github.com/retroenv/retrogolib/assert"

	"gochip8/pkg/chip8"
)

func assembleWord(t *testing.T, source string) uint16 {
	t.Helper()
	rom, err := Assemble(source)
	assert.NoError(t, err, source)
	assert.Equal(t, 2, len(rom), source)
	return uint16(rom[0])<<8 | uint16(rom[1])
}

func TestAssembleInstructions(t *testing.T) {
	tests := []struct {
		source string
		want   uint16
	}{
		{"cls", 0x00E0},
		{"ret", 0x00EE},
		{"jp $228", 0x1228},
		{"jp v0, $300", 0xB300},
		{"call $2a0", 0x22A0},
		{"se v4, $12", 0x3412},
		{"se v4, v5", 0x5450},
		{"sne v4, $12", 0x4412},
		{"sne v4, v5", 0x9450},
		{"ld v0, $05", 0x6005},
		{"ld v0, 255", 0x60FF},
		{"ld v1, v2", 0x8120},
		{"ld i, $123", 0xA123},
		{"ld v3, dt", 0xF307},
		{"ld v3, k", 0xF30A},
		{"ld dt, v3", 0xF315},
		{"ld st, v3", 0xF318},
		{"ld f, v3", 0xF329},
		{"ld b, v3", 0xF333},
		{"ld [i], v3", 0xF355},
		{"ld v3, [i]", 0xF365},
		{"add v0, $01", 0x7001},
		{"add v0, v1", 0x8014},
		{"add i, v2", 0xF21E},
		{"or v1, v2", 0x8121},
		{"and v1, v2", 0x8122},
		{"xor v1, v2", 0x8123},
		{"sub v1, v2", 0x8125},
		{"subn v1, v2", 0x8127},
		{"shr v1", 0x8106},
		{"shl v1", 0x810E},
		{"rnd v2, $0f", 0xC20F},
		{"drw v0, v1, $5", 0xD015},
		{"drw va, vb, 15", 0xDABF},
		{"skp v6", 0xE69E},
		{"sknp v6", 0xE6A1},
	}

	for _, tt := range tests {
		got := assembleWord(t, tt.source)
		assert.Equal(t, tt.want, got, tt.source)
	}
}

func TestAssembleLabelsAndComments(t *testing.T) {
	rom, err := Assemble(`
; draw loop skeleton
start:  ld v0, $00
loop:   add v0, $01
        jp loop     ; forever
`)
	assert.NoError(t, err)
	assert.Equal(t, 6, len(rom))

	// loop: is the second instruction, at Origin+2.
	word := uint16(rom[4])<<8 | uint16(rom[5])
	assert.Equal(t, uint16(0x1000|Origin+2), word)
}

func TestAssembleLabelOnOwnLine(t *testing.T) {
	rom, err := Assemble(`
        jp end
        db $ff, $ff
end:
        cls
`)
	assert.NoError(t, err)
	assert.Equal(t, 6, len(rom))
	assert.Equal(t, uint16(0x1000|Origin+4), uint16(rom[0])<<8|uint16(rom[1]))
	assert.Equal(t, uint8(0x00), rom[4])
	assert.Equal(t, uint8(0xE0), rom[5])
}

func TestAssembleDataDirective(t *testing.T) {
	rom, err := Assemble(`
sprite: db $f0, $90, $90, $90, $f0
        db 1, 2, 3
`)
	assert.NoError(t, err)
	assert.Equal(t, 8, len(rom))
	assert.Equal(t, uint8(0xF0), rom[0])
	assert.Equal(t, uint8(0x90), rom[1])
	assert.Equal(t, uint8(3), rom[7])
}

func TestAssembleErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"unknown mnemonic", "frobnicate v1"},
		{"bad register", "ld vg, $05"},
		{"missing operands", "ld v1"},
		{"value too large", "ld v1, $100"},
		{"address too large", "jp $1000"},
		{"unresolved label", "jp nowhere"},
		{"duplicate label", "a: cls\na: ret"},
		{"db without bytes", "db"},
		{"db byte too large", "db $100"},
		{"indexed jump not via v0", "jp v1, $300"},
		{"shift with two operands", "shr v1, v2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Assemble(tt.source)
			assert.Error(t, err)
		})
	}
}

func TestDisassembleRoundTrip(t *testing.T) {
	words := []uint16{
		0x00E0, 0x00EE,
		0x1234, 0x2345, 0xB123, 0xA123,
		0x3A42, 0x4B99, 0x5120, 0x9120,
		0x6CFF, 0x7D01,
		0x8120, 0x8121, 0x8122, 0x8123, 0x8124, 0x8125, 0x8106, 0x8127, 0x810E,
		0xC10F, 0xD125,
		0xE19E, 0xE1A1,
		0xF107, 0xF10A, 0xF115, 0xF118, 0xF11E, 0xF129, 0xF133, 0xF155, 0xF165,
		0x5011, // unassigned word renders as a db directive
	}

	for _, word := range words {
		text := chip8.Disassemble(word)
		rom, err := Assemble(text)
		assert.NoError(t, err, text)
		assert.Equal(t, 2, len(rom), text)
		assert.Equal(t, word, uint16(rom[0])<<8|uint16(rom[1]),
			fmt.Sprintf("%04X -> %q", word, text))
	}
}

func TestShiftsReassembleToCanonicalEncoding(t *testing.T) {
	// The single-operand shift syntax cannot carry the Y nibble, so words
	// with a nonzero Y come back in the canonical Y=0 encoding. Execution
	// ignores Y either way, so the instruction is unchanged.
	tests := []struct {
		word uint16
		want uint16
	}{
		{0x8126, 0x8106},
		{0x812E, 0x810E},
	}

	for _, tt := range tests {
		text := chip8.Disassemble(tt.word)
		rom, err := Assemble(text)
		assert.NoError(t, err, text)
		got := uint16(rom[0])<<8 | uint16(rom[1])
		assert.Equal(t, tt.want, got, text)

		in, out := chip8.Decode(tt.word), chip8.Decode(got)
		assert.Equal(t, in.Op, out.Op)
		assert.Equal(t, in.X, out.X)
	}
}

func TestAssembledProgramRuns(t *testing.T) {
	rom, err := Assemble(`
start:  ld v0, $05
        ld v1, $0a
        add v0, v1      ; v0 = 15
        call bump
        jp done
bump:   add v0, $01
        ret
done:   jp done
`)
	assert.NoError(t, err)

	vm, err := chip8.New(chip8.Config{Seed: 1})
	assert.NoError(t, err)
	assert.NoError(t, vm.LoadROM(rom))

	for i := 0; i < 6; i++ {
		assert.NoError(t, vm.Step())
	}

	assert.Equal(t, uint8(16), vm.Regs.V[0])
	// back from the subroutine, about to take the jp done
	assert.Equal(t, uint16(Origin+8), vm.Regs.PC)
}
