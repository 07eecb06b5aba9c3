package mappers

var NROM = MapperDesc{
	Name: "NROM",
	Load: loadNROM,
}

// NROM has no bank switching. 16KB PRG-ROM is mirrored at $C000.
func loadNROM(b *base) error {
	if len(b.cart.PRG) > 0x8000 {
		return errPRGSize(b, 0x8000)
	}
	b.selectPRGPage16KB(0, 0)
	b.selectPRGPage16KB(1, -1)
	b.selectCHRPage8KB(0)
	return nil
}
