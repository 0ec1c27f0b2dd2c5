package chip8

import (
	"fmt"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestDecodeFieldExtraction(t *testing.T) {
	in := Decode(0x8A7C)
	assert.Equal(t, uint16(0x8A7C), in.Word)
	assert.Equal(t, uint8(0xA), in.X)
	assert.Equal(t, uint8(0x7), in.Y)
	assert.Equal(t, uint8(0xC), in.N)
	assert.Equal(t, uint8(0x7C), in.KK)
	assert.Equal(t, uint16(0xA7C), in.NNN)
}

func TestDecodeClassification(t *testing.T) {
	tests := []struct {
		word uint16
		want Op
	}{
		{0x00E0, OpCls},
		{0x00EE, OpRet},
		{0x1234, OpJp},
		{0x2345, OpCall},
		{0x3A42, OpSeByte},
		{0x4B99, OpSneByte},
		{0x5120, OpSeReg},
		{0x6CFF, OpLdByte},
		{0x7D01, OpAddByte},
		{0x8120, OpLdReg},
		{0x8121, OpOr},
		{0x8122, OpAnd},
		{0x8123, OpXor},
		{0x8124, OpAddReg},
		{0x8125, OpSub},
		{0x8126, OpShr},
		{0x8127, OpSubn},
		{0x812E, OpShl},
		{0x9120, OpSneReg},
		{0xA123, OpLdI},
		{0xB123, OpJpV0},
		{0xC10F, OpRnd},
		{0xD125, OpDrw},
		{0xE19E, OpSkp},
		{0xE1A1, OpSknp},
		{0xF107, OpLdVxDt},
		{0xF10A, OpLdKey},
		{0xF115, OpLdDtVx},
		{0xF118, OpLdStVx},
		{0xF11E, OpAddI},
		{0xF129, OpLdFont},
		{0xF133, OpLdBcd},
		{0xF155, OpLdMemVx},
		{0xF165, OpLdVxMem},
	}

	for _, tt := range tests {
		got := Decode(tt.word)
		assert.Equal(t, tt.want, got.Op, fmt.Sprintf("word %04X", tt.word))
	}
}

func TestDecodeUnassignedWords(t *testing.T) {
	words := []uint16{
		0x0000, // sys, not part of the base set
		0x0123,
		0x00E1,
		0x5121, // 5xyN with N != 0
		0x8128, // 8xyN with unassigned N
		0x812F,
		0x9121, // 9xyN with N != 0
		0xE100,
		0xE1FF,
		0xF100,
		0xF1FF,
	}
	for _, word := range words {
		got := Decode(word)
		assert.Equal(t, OpUnknown, got.Op, fmt.Sprintf("word %04X", word))
	}
}
