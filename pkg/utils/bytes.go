package utils

func BytesToUint16(upper, lower uint8) uint16 {
	return uint16(upper)<<8 ^ uint16(lower)
}

func Uint16ToBytes(value uint16) (upper, lower uint8) {
	return uint8(value >> 8), uint8(value & 0xFF)
}

// Uint32ToWords splits a 32-bit chip address into its high and low
// words, in the order they are written to a pointer register pair.
func Uint32ToWords(value uint32) (hi, lo uint16) {
	return uint16(value >> 16), uint16(value & 0xFFFF)
}

// WordsToUint32 joins a high and low word back into a 32-bit address.
func WordsToUint32(hi, lo uint16) uint32 {
	return uint32(hi)<<16 | uint32(lo)
}
