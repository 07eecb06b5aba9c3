package mappers

import (
	"nescore/hw/hwdefs"
	"nescore/hw/hwio"
)

var MMC1 = MapperDesc{
	Name: "MMC1",
	Load: loadMMC1,
}

type mmc1 struct {
	*base

	serial  shiftReg // shift register
	counter uint8    // count of bits shifted

	// CTRL reg bits
	chrmode uint8
	prgmode uint8
	ntm     uint8

	// CHR reg bits
	chrbank0 uint8
	chrbank1 uint8

	// PRG reg bits
	disableWRAM bool
	prgbank     uint8
}

type shiftReg uint8

func (sr shiftReg) push(val uint8) shiftReg {
	sr >>= 1
	sr |= shiftReg((val << 4) & 0x10)
	return sr
}

func (m *mmc1) WritePRGROM(addr uint16, val uint8) {
	if val&0x80 != 0 {
		// Reset:
		//	- ignore data bit
		//	- reset shift register (so that the next write is the "first" write)
		//	- bits 2,3 of control reg are set (16k PRG mode, $8000 swappable)
		//	- other bits of $8000 (and other regs) are unchanged
		m.serial = 0
		m.counter = 0
		m.prgmode = 0b11
		m.remap()
		return
	}

	m.serial = m.serial.push(val)
	m.counter++
	if m.counter == 5 {
		m.writeREG(addr, uint8(m.serial))
		m.remap()
		m.serial = 0
		m.counter = 0
	}
}

func (m *mmc1) writeREG(addr uint16, val uint8) {
	switch (addr & 0x6000) >> 13 {
	case 0:
		m.writeCTRL(val)
	case 1:
		m.writeCHR0(val)
	case 2:
		m.writeCHR1(val)
	case 3:
		m.writePRG(val)
	}
}

func (m *mmc1) writeCTRL(val uint8) {
	m.chrmode = (val & 0x10) >> 4
	m.prgmode = (val & 0x0C) >> 2
	m.ntm = val & 0x03

	switch m.ntm {
	case 0:
		m.setNTMirroring(hwdefs.OnlyAScreen)
	case 1:
		m.setNTMirroring(hwdefs.OnlyBScreen)
	case 2:
		m.setNTMirroring(hwdefs.VertMirroring)
	case 3:
		m.setNTMirroring(hwdefs.HorzMirroring)
	}

	modMapper.DebugZ("Write CTRL reg").String("mapper", m.desc.Name).
		Uint8("val", val).
		Uint8("prgmode", m.prgmode).
		Uint8("chrmode", m.chrmode).
		End()
}

func (m *mmc1) writeCHR0(val uint8) {
	modMapper.DebugZ("Write CHR0 reg").String("mapper", m.desc.Name).Uint8("val", val).End()
	m.chrbank0 = val & 0b11111
}

func (m *mmc1) writeCHR1(val uint8) {
	modMapper.DebugZ("Write CHR1 reg").String("mapper", m.desc.Name).Uint8("val", val).End()
	m.chrbank1 = val & 0b11111
}

func (m *mmc1) writePRG(val uint8) {
	modMapper.DebugZ("Write PRG reg").String("mapper", m.desc.Name).Uint8("val", val).End()

	// $E000-FFFF:  [...W PPPP]
	// W = WRAM Disable (0=enabled, 1=disabled)
	// P = PRG Reg
	m.disableWRAM = val&0b1_0000 != 0
	m.prgbank = val & 0b1111
}

func (m *mmc1) remap() {
	switch m.prgmode {
	case 0, 1:
		// 32KB mode, the low bit of the bank number is ignored.
		m.selectPRGPage32KB(int(m.prgbank >> 1))
	case 2:
		m.selectPRGPage16KB(0, 0)
		m.selectPRGPage16KB(1, int(m.prgbank))
	case 3:
		m.selectPRGPage16KB(0, int(m.prgbank))
		m.selectPRGPage16KB(1, -1)
	}

	switch m.chrmode {
	case 0:
		m.selectCHRPage8KB(int(m.chrbank0 >> 1))
	case 1:
		m.selectCHRPage4KB(0, int(m.chrbank0))
		m.selectCHRPage4KB(1, int(m.chrbank1))
	}
}

// ReadPRGRAM and WritePRGRAM honor the WRAM disable bit, a disabled PRG-RAM
// reads back 0 (open bus) and ignores writes.
func (m *mmc1) ReadPRGRAM(addr uint16) uint8 {
	if m.disableWRAM {
		return 0
	}
	return m.PRGRAM.Data[int(addr-0x6000)%len(m.PRGRAM.Data)]
}

func (m *mmc1) WritePRGRAM(addr uint16, val uint8) {
	if m.disableWRAM {
		modMapper.DebugZ("write to disabled PRG-RAM").Hex16("addr", addr).Hex8("val", val).End()
		return
	}
	m.PRGRAM.Data[int(addr-0x6000)%len(m.PRGRAM.Data)] = val
}

// ctrlMirroring returns the CTRL register bits selecting m.
func ctrlMirroring(m hwdefs.Mirroring) uint8 {
	switch m {
	case hwdefs.OnlyBScreen:
		return 1
	case hwdefs.VertMirroring:
		return 2
	case hwdefs.HorzMirroring:
		return 3
	}
	return 0
}

func loadMMC1(b *base) error {
	mmc1 := &mmc1{base: b}
	b.init(mmc1.WritePRGROM)

	if len(b.PRGRAM.Data) > 0 {
		// Replace the plain PRG-RAM mapping by one that can be disabled.
		b.cpu.Unmap(0x6000, 0x7FFF)
		b.cpu.MapDevice(0x6000, &hwio.Device{
			Name:    "PRGRAM",
			Size:    0x2000,
			ReadCb:  mmc1.ReadPRGRAM,
			PeekCb:  mmc1.ReadPRGRAM,
			WriteCb: mmc1.WritePRGRAM,
		})
	}

	// On powerup: bits 2,3 of $8000 are set (this ensures the $8000 is bank 0,
	// and $C000 is the last bank - needed for SEROM/SHROM/SH1ROM which do no
	// support banking)
	mmc1.writeREG(0x8000, 0x0C|ctrlMirroring(b.mirroring))
	mmc1.writeREG(0xA000, 0)
	mmc1.writeREG(0xC000, 0)
	mmc1.writeREG(0xE000, 0)
	mmc1.remap()
	return nil
}
