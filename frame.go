// Package somfy encodes Somfy RTS remote-control commands
// into OOK pulse sequences.
package somfy

// FrameSize is the length of an RTS frame in bytes.
const FrameSize = 7

// KeyByte is the constant first byte of every frame.
const KeyByte = 0xA0

// Frame represents a 7-byte RTS command frame:
//
//	[0]    key byte 0xA0
//	[1]    command << 4 | checksum
//	[2..3] rolling code, big-endian
//	[4..6] address, big-endian
type Frame [FrameSize]byte

// BuildFrame returns the plaintext frame for the given command,
// rolling code, and address. Only the low 24 bits of address are used.
func BuildFrame(cmd Command, rollingCode uint16, address uint32) Frame {
	var f Frame
	f[0] = KeyByte
	f[1] = byte(cmd&0x0F) << 4
	copy(f[2:4], marshalUint16(rollingCode))
	copy(f[4:7], marshalUint24(address))
	f[1] |= f.nibbleSum()
	return f
}

// nibbleSum returns the XOR of all 14 nibbles of f.
func (f *Frame) nibbleSum() byte {
	sum := byte(0)
	for _, b := range f {
		sum ^= b>>4 ^ b&0x0F
	}
	return sum & 0x0F
}

// Obfuscate applies the RTS byte-chain transform to f in place.
// Each byte is XORed with the already obfuscated byte before it,
// so the order of the loop matters.
func (f *Frame) Obfuscate() {
	for i := 1; i < FrameSize; i++ {
		f[i] ^= f[i-1]
	}
}

// Deobfuscate reverses Obfuscate.
func (f Frame) Deobfuscate() Frame {
	p := f
	for i := 1; i < FrameSize; i++ {
		p[i] = f[i] ^ f[i-1]
	}
	return p
}

// Valid reports whether a plaintext frame has the key nibble
// and a correct checksum.
func (f Frame) Valid() bool {
	return f[0]>>4 == KeyByte>>4 && f.nibbleSum() == 0
}

// Command returns the command of a plaintext frame.
func (f Frame) Command() Command {
	return Command(f[1] >> 4)
}

// Checksum returns the checksum nibble of a plaintext frame.
func (f Frame) Checksum() byte {
	return f[1] & 0x0F
}

// RollingCode returns the rolling code of a plaintext frame.
func (f Frame) RollingCode() uint16 {
	return unmarshalUint16(f[2:4])
}

// Address returns the 24-bit address of a plaintext frame.
func (f Frame) Address() uint32 {
	return unmarshalUint24(f[4:7])
}
