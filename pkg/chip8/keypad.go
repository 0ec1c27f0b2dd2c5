package chip8

// NumKeys is the number of keys on the hex keypad, indexed 0x0-0xF.
const NumKeys = 16

// Keypad is the 16-key input state. The host input collaborator sets key
// states; the interpreter only reads them.
type Keypad struct {
	pressed [NumKeys]bool
}

// Reset releases every key.
func (k *Keypad) Reset() {
	k.pressed = [NumKeys]bool{}
}

// Set records the pressed state of one key. Indices outside 0x0-0xF are
// folded into range so a buggy host mapping cannot corrupt adjacent state.
func (k *Keypad) Set(key uint8, down bool) {
	k.pressed[key&0x0F] = down
}

// Press marks a key as held down.
func (k *Keypad) Press(key uint8) { k.Set(key, true) }

// Release marks a key as up.
func (k *Keypad) Release(key uint8) { k.Set(key, false) }

// IsPressed reports whether a key is currently held.
func (k *Keypad) IsPressed(key uint8) bool {
	return k.pressed[key&0x0F]
}

// State returns a copy of all key states.
func (k *Keypad) State() [NumKeys]bool {
	return k.pressed
}
