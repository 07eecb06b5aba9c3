package hwio

func GetBit8(v uint8, n uint) bool {
	return GetBiti8(v, n) != 0
}

func GetBiti8(v uint8, n uint) uint8 {
	return v >> n & 0x01
}

func SetBit8(v *uint8, n uint) {
	*v |= 1 << n
}

func ClearBit8(v *uint8, n uint) {
	*v &^= 1 << n
}

func ClearBits8(v *uint8, mask uint8) {
	*v &^= mask
}

// PageCrossed reports whether a and b lie on different 256-byte pages.
func PageCrossed(a, b uint16) bool {
	return a&0xFF00 != b&0xFF00
}
