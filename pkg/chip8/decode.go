package chip8

// Op identifies one of the 34 documented base instructions. OpUnknown marks
// opcode words that match none of them; execution recovers from those by
// skipping the word.
type Op int

const (
	OpUnknown Op = iota
	OpCls        // 00E0: clear the display
	OpRet        // 00EE: return from subroutine
	OpJp         // 1nnn: jump to nnn
	OpCall       // 2nnn: call subroutine at nnn
	OpSeByte     // 3xkk: skip next if Vx == kk
	OpSneByte    // 4xkk: skip next if Vx != kk
	OpSeReg      // 5xy0: skip next if Vx == Vy
	OpLdByte     // 6xkk: Vx = kk
	OpAddByte    // 7xkk: Vx += kk (no flag)
	OpLdReg      // 8xy0: Vx = Vy
	OpOr         // 8xy1: Vx |= Vy
	OpAnd        // 8xy2: Vx &= Vy
	OpXor        // 8xy3: Vx ^= Vy
	OpAddReg     // 8xy4: Vx += Vy, VF = carry
	OpSub        // 8xy5: Vx -= Vy, VF = no borrow
	OpShr        // 8xy6: VF = Vx & 1, Vx >>= 1
	OpSubn       // 8xy7: Vx = Vy - Vx, VF = no borrow
	OpShl        // 8xyE: VF = Vx >> 7, Vx <<= 1
	OpSneReg     // 9xy0: skip next if Vx != Vy
	OpLdI        // Annn: I = nnn
	OpJpV0       // Bnnn: jump to nnn + V0
	OpRnd        // Cxkk: Vx = rand() & kk
	OpDrw        // Dxyn: draw n-byte sprite at (Vx, Vy), VF = collision
	OpSkp        // Ex9E: skip next if key Vx pressed
	OpSknp       // ExA1: skip next if key Vx not pressed
	OpLdVxDt     // Fx07: Vx = delay timer
	OpLdKey      // Fx0A: wait for a key press, Vx = key
	OpLdDtVx     // Fx15: delay timer = Vx
	OpLdStVx     // Fx18: sound timer = Vx
	OpAddI       // Fx1E: I += Vx (no flag)
	OpLdFont     // Fx29: I = font glyph address for digit Vx
	OpLdBcd      // Fx33: memory[I..I+3) = BCD of Vx
	OpLdMemVx    // Fx55: memory[I..I+x+1) = V0..Vx
	OpLdVxMem    // Fx65: V0..Vx = memory[I..I+x+1)
)

// Instruction is one decoded opcode word. Decode fills every operand field
// the word can carry; execution picks the ones its Op uses.
type Instruction struct {
	Op   Op
	Word uint16 // the raw big-endian opcode word

	X   uint8  // second nibble, register index
	Y   uint8  // third nibble, register index
	N   uint8  // fourth nibble, 4-bit immediate
	KK  uint8  // low byte, 8-bit immediate
	NNN uint16 // low 12 bits, address
}

// Decode splits an opcode word into its nibble fields and classifies it.
// Decoding is total: unmatched patterns yield OpUnknown rather than an
// error, so the decoder can be tested exhaustively on all 65536 words.
func Decode(word uint16) Instruction {
	in := Instruction{
		Op:   OpUnknown,
		Word: word,
		X:    uint8(word >> 8 & 0x0F),
		Y:    uint8(word >> 4 & 0x0F),
		N:    uint8(word & 0x0F),
		KK:   uint8(word & 0xFF),
		NNN:  word & 0x0FFF,
	}

	switch word >> 12 {
	case 0x0:
		switch word {
		case 0x00E0:
			in.Op = OpCls
		case 0x00EE:
			in.Op = OpRet
		}
		// Any other 0nnn is the historical SYS call, not part of the
		// base set. Left as OpUnknown.
	case 0x1:
		in.Op = OpJp
	case 0x2:
		in.Op = OpCall
	case 0x3:
		in.Op = OpSeByte
	case 0x4:
		in.Op = OpSneByte
	case 0x5:
		if in.N == 0 {
			in.Op = OpSeReg
		}
	case 0x6:
		in.Op = OpLdByte
	case 0x7:
		in.Op = OpAddByte
	case 0x8:
		switch in.N {
		case 0x0:
			in.Op = OpLdReg
		case 0x1:
			in.Op = OpOr
		case 0x2:
			in.Op = OpAnd
		case 0x3:
			in.Op = OpXor
		case 0x4:
			in.Op = OpAddReg
		case 0x5:
			in.Op = OpSub
		case 0x6:
			in.Op = OpShr
		case 0x7:
			in.Op = OpSubn
		case 0xE:
			in.Op = OpShl
		}
	case 0x9:
		if in.N == 0 {
			in.Op = OpSneReg
		}
	case 0xA:
		in.Op = OpLdI
	case 0xB:
		in.Op = OpJpV0
	case 0xC:
		in.Op = OpRnd
	case 0xD:
		in.Op = OpDrw
	case 0xE:
		switch in.KK {
		case 0x9E:
			in.Op = OpSkp
		case 0xA1:
			in.Op = OpSknp
		}
	case 0xF:
		switch in.KK {
		case 0x07:
			in.Op = OpLdVxDt
		case 0x0A:
			in.Op = OpLdKey
		case 0x15:
			in.Op = OpLdDtVx
		case 0x18:
			in.Op = OpLdStVx
		case 0x1E:
			in.Op = OpAddI
		case 0x29:
			in.Op = OpLdFont
		case 0x33:
			in.Op = OpLdBcd
		case 0x55:
			in.Op = OpLdMemVx
		case 0x65:
			in.Op = OpLdVxMem
		}
	}

	return in
}
