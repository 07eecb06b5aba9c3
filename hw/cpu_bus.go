package hw

import (
	"nescore/emu/log"
	"nescore/hw/hwio"
)

// InitBus maps all the hardware visible from the CPU:
//
//	$0000-$07FF  RAM, mirrored up to $1FFF
//	$2000-$2007  PPU registers, mirrored up to $3FFF
//	$4000-$4013  APU registers
//	$4014        OAM DMA
//	$4015        APU status
//	$4016-$4017  controller ports (and APU frame counter on write)
//	$4020-$FFFF  cartridge
//
// $4018-$401F is left unmapped, accessing it faults.
func (c *CPU) InitBus(mapper Mapper) {
	hwio.MustInitRegs(c)
	c.Bus.Reset()

	// CPU internal RAM, mirrored.
	c.Bus.MapBank(0x0000, c, 0)

	// PPU registers. Writes are queued along with the cycle they happen at.
	c.Bus.MapDevice(0x2000, &hwio.Device{
		Name:    "PPU",
		Size:    8,
		ReadCb:  c.readPPU,
		PeekCb:  c.peekPPU,
		WriteCb: c.writePPU,
	})
	c.Bus.MapMirror(0x2008, 0x3FFF, 0x2000, 0x2007)

	hwio.MustInitRegs(&c.apu)
	c.Bus.MapBank(0x4000, &c.apu, 0)

	hwio.MustInitRegs(&c.DMA)
	c.Bus.MapBank(0x4014, &c.DMA, 0)

	hwio.MustInitRegs(&c.Input)
	c.Input.frameCounter = &c.apu.FrameCounter
	c.Bus.MapBank(0x4016, &c.Input, 0)

	c.Bus.MapDevice(0x4020, &hwio.Device{
		Name:    "cartridge",
		Size:    0x10000 - 0x4020,
		ReadCb:  mapper.Read,
		PeekCb:  mapper.Read,
		WriteCb: mapper.Write,
	})
}

/* PPU registers */

type ppuWrite struct {
	addr  uint16
	val   uint8
	count int64
}

func (c *CPU) writePPU(addr uint16, val uint8) {
	c.ppuWrites = append(c.ppuWrites, ppuWrite{addr: addr, val: val, count: c.Count})
}

func (c *CPU) readPPU(addr uint16) uint8 {
	// The PPU must have seen every write that precedes this read.
	c.FlushPPU()
	return c.PPU.ReadReg(addr)
}

func (c *CPU) peekPPU(addr uint16) uint8 {
	return c.PPU.PeekReg(addr)
}

// FlushPPU forwards the queued register writes to the PPU, in order.
func (c *CPU) FlushPPU() {
	for _, w := range c.ppuWrites {
		c.PPU.WriteReg(w.addr, w.val, w.count)
	}
	c.ppuWrites = c.ppuWrites[:0]
}

/* APU */

// apuRegs holds the sound registers. Sound isn't emulated, the registers only
// store what's written to them so that games can initialize the APU.
type apuRegs struct {
	Channels     hwio.Mem  `hwio:"offset=0x00,size=0x14"` // $4000-$4013
	Status       hwio.Reg8 `hwio:"offset=0x15,wcb"`       // $4015
	FrameCounter hwio.Reg8                                // $4017 (write)
}

func (a *apuRegs) WriteSTATUS(old, val uint8) {
	log.ModCPU.DebugZ("APU status write").Hex8("val", val).End()
}
