package hwio

// Mirror maps addr, which lies in a range starting at mlo that mirrors
// [lo, hi], back into [lo, hi]. The offset of addr from mlo is taken modulo
// the size of the source range, so mlo need not be aligned on that size.
func Mirror(lo, hi, mlo, addr uint16) uint16 {
	size := uint32(hi) - uint32(lo) + 1
	off := (uint32(addr) - uint32(mlo)) % size
	return lo + uint16(off)
}
