package hw

import "nescore/hw/hwdefs"

// A Mapper is the cartridge hardware. It serves the CPU cartridge space
// ($4020-$FFFF) and the PPU pattern tables ($0000-$1FFF), and is the only
// owner of PRG, PRG-RAM and CHR memory. Accesses outside of these ranges, or
// outside of the cartridge geometry, must raise hwdefs.MapperFault.
type Mapper interface {
	Read(addr uint16) uint8
	Write(addr uint16, val uint8)
	ReadPPU(addr uint16) uint8
	WritePPU(addr uint16, val uint8)
}

// A MirroringController is a Mapper that controls nametable mirroring. For
// other mappers, mirroring is fixed by the cartridge.
type MirroringController interface {
	Mirroring() hwdefs.Mirroring
}
