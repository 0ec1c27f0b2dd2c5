package chip8

import "errors"

const (
	// MemorySize is the full CHIP-8 address space in bytes.
	MemorySize = 4096

	// ProgramStart is the address where ROM images are loaded and where
	// execution begins. The first 512 bytes belonged to the original
	// interpreter and hold only the font table here.
	ProgramStart = 0x200

	// FontSize is the height in bytes of one built-in font glyph.
	FontSize = 5

	addrMask = 0x0FFF
)

// ErrROMTooLarge is returned when a program image does not fit into the
// memory above ProgramStart.
var ErrROMTooLarge = errors.New("rom too large for memory")

// font holds the sixteen 5-byte hex digit glyphs, 0 through F.
var font = [FontSize * 16]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// Memory is the flat 4KB address space. The font table lives at 0x000 and a
// program image at 0x200. Nothing is hardware protected; programs are free
// to overwrite the font.
type Memory struct {
	at [MemorySize]byte
}

// Reset zeroes the address space and restores the font table.
func (m *Memory) Reset() {
	m.at = [MemorySize]byte{}
	copy(m.at[:], font[:])
}

// LoadROM copies a raw program image to ProgramStart. The previous program
// region is not cleared first; callers wanting a clean slate call Reset.
func (m *Memory) LoadROM(rom []byte) error {
	if len(rom) > MemorySize-ProgramStart {
		return ErrROMTooLarge
	}
	copy(m.at[ProgramStart:], rom)
	return nil
}

// Read returns the byte at addr. Addresses wrap modulo the 12-bit address
// space, matching the original hardware.
func (m *Memory) Read(addr uint16) byte {
	return m.at[addr&addrMask]
}

// Write stores a byte at addr, wrapping modulo the address space.
func (m *Memory) Write(addr uint16, value byte) {
	m.at[addr&addrMask] = value
}

// Sprite copies size bytes starting at from. Rows beyond the end of the
// address space wrap around to 0x000.
func (m *Memory) Sprite(from uint16, size uint8) []byte {
	sprite := make([]byte, size)
	for i := range sprite {
		sprite[i] = m.Read(from + uint16(i))
	}
	return sprite
}

// FontAddr returns the address of the glyph for the hex digit in the low
// nibble of digit.
func FontAddr(digit uint8) uint16 {
	return uint16(digit&0x0F) * FontSize
}
