package hw

import (
	"nescore/hw/hwdefs"
	"nescore/hw/hwio"
)

// InitBus maps the PPU bus:
//
//	$0000-$1FFF  pattern tables (cartridge CHR)
//	$2000-$2FFF  nametables, 2KB of VRAM arranged by the mirroring
//	$3000-$3EFF  mirror of $2000-$2EFF
//	$3F00-$3F1F  palette RAM
//	$3F20-$3FFF  mirror of $3F00-$3F1F
//	$4000-$FFFF  mirror of $0000-$3FFF
//
// mirroring is used unless the mapper is a MirroringController.
func (p *PPU) InitBus(mapper Mapper, mirroring hwdefs.Mirroring) {
	p.CHR.ReadCb = mapper.ReadPPU
	p.CHR.PeekCb = mapper.ReadPPU
	p.CHR.WriteCb = mapper.WritePPU

	p.mirroring = func() hwdefs.Mirroring { return mirroring }
	if mc, ok := mapper.(MirroringController); ok {
		p.mirroring = mc.Mirroring
	}

	p.Bus.Reset()
	p.Bus.MapBank(0x0000, p, 0)
	p.Bus.MapMirror(0x3000, 0x3EFF, 0x2000, 0x2EFF)
	p.Bus.MapMirror(0x3F20, 0x3FFF, 0x3F00, 0x3F1F)
	p.Bus.MapMirror(0x4000, 0xFFFF, 0x0000, 0x3FFF)
}

// vramIndex returns the VRAM offset of nametable address addr.
func (p *PPU) vramIndex(addr uint16) uint16 {
	off := addr & 0x0FFF
	table := off / 0x400

	switch p.mirroring() {
	case hwdefs.HorzMirroring:
		table /= 2
	case hwdefs.VertMirroring:
		table %= 2
	case hwdefs.OnlyAScreen:
		table = 0
	case hwdefs.OnlyBScreen:
		table = 1
	}
	return table*0x400 + off%0x400
}

func (p *PPU) ReadNAMETABLES(addr uint16) uint8 {
	return p.VRAM[p.vramIndex(addr)]
}

func (p *PPU) WriteNAMETABLES(addr uint16, val uint8) {
	p.VRAM[p.vramIndex(addr)] = val
}

// paletteIndex resolves the sprite palette entries shadowing the background
// ones ($3F10/$3F14/$3F18/$3F1C).
func paletteIndex(addr uint16) uint16 {
	if addr&0x13 == 0x10 {
		addr = hwio.Mirror(0x3F00, 0x3F0F, 0x3F10, addr)
	}
	return addr - 0x3F00
}

func (p *PPU) ReadPALETTE(addr uint16) uint8 {
	return p.palette[paletteIndex(addr)]
}

func (p *PPU) WritePALETTE(addr uint16, val uint8) {
	p.palette[paletteIndex(addr)] = val & 0x3F
}
