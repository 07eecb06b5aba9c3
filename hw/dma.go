package hw

import (
	"nescore/emu/log"
	"nescore/hw/hwio"
)

// DMA is the OAM DMA unit. Writing a page number to $4014 copies that CPU
// page into OAM. The transfer is serviced before the next instruction and
// stalls the CPU for 513 cycles, or 514 if the write happened on an odd
// cycle.
type DMA struct {
	OAMDMA hwio.Reg8 `hwio:"offset=0x0,writeonly,wcb"`

	cpu *CPU

	pending bool
	page    uint8
	parity  int64
}

func (d *DMA) reset() {
	d.pending = false
}

func (d *DMA) WriteOAMDMA(old, val uint8) {
	d.pending = true
	d.page = val
	d.parity = d.cpu.Count % 2
	log.ModDMA.DebugZ("OAM DMA requested").
		Hex8("page", val).
		Int64("count", d.cpu.Count).
		End()
}

// Pending reports whether a transfer waits to be serviced.
func (d *DMA) Pending() bool {
	return d.pending
}

// ServiceDMA runs a pending OAM DMA transfer. Bus faults are reported the same
// way as Step does.
func (c *CPU) ServiceDMA() error {
	if !c.DMA.pending {
		return nil
	}
	return c.guard(c.runDMA)
}

func (c *CPU) runDMA() {
	d := &c.DMA
	d.pending = false

	base := uint16(d.page) << 8
	oamaddr := c.PPU.OAMADDR.Value
	for i := range uint16(256) {
		c.PPU.OAM[oamaddr+uint8(i)] = c.Read8(base + i)
	}
	c.Count += 513 + d.parity
	c.Cycles += 513 + d.parity
}
