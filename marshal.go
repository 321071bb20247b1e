package somfy

// Marshaling of ints in big-endian order.

func marshalUint16(n uint16) []byte {
	return []byte{byte(n >> 8), byte(n & 0xFF)}
}

// marshalUint24 discards the top 8 bits of n.
func marshalUint24(n uint32) []byte {
	return append([]byte{byte(n >> 16)}, marshalUint16(uint16(n&0xFFFF))...)
}

func unmarshalUint16(b []byte) uint16 {
	return uint16(b[0])<<8 | uint16(b[1])
}

func unmarshalUint24(b []byte) uint32 {
	return uint32(b[0])<<16 | uint32(unmarshalUint16(b[1:]))
}
