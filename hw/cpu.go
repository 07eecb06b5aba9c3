package hw

import (
	"io"

	"nescore/emu/log"
	"nescore/hw/hwdefs"
	"nescore/hw/hwio"
)

// Locations reserved for vector pointers.
const (
	NMIVector   = uint16(0xFFFA) // Non-Maskable Interrupt
	ResetVector = uint16(0xFFFC) // Reset
	IRQVector   = uint16(0xFFFE) // Interrupt Request
)

// FrameCycles is the number of CPU cycles in a NTSC frame.
const FrameCycles = 29781

type CPU struct {
	Bus *hwio.Table

	RAM hwio.Mem `hwio:"bank=0,offset=0x0,size=0x800,vsize=0x2000"`

	PPU   *PPU // non-nil when there's a PPU.
	DMA   DMA
	Input InputPorts
	apu   apuRegs

	// PPU register writes not yet seen by the PPU.
	ppuWrites []ppuWrite

	// Non-nil when execution tracing is enabled.
	tracer *tracer

	Count  int64 // CPU cycles in the current frame
	Cycles int64 // CPU cycles since power up

	// cpu registers
	A, X, Y, S uint8
	PC         uint16
	P          P

	NMI bool // pending non-maskable interrupt

	// Current instruction, for fault reports.
	opPC   uint16
	opcode uint8

	halted error
}

// NewCPU creates a new CPU at power-up state.
func NewCPU(ppu *PPU) *CPU {
	cpu := &CPU{
		Bus: hwio.NewTable("cpu"),
		S:   0xFD,
		P:   Interrupt,
		PPU: ppu,
	}
	if ppu != nil {
		ppu.CPU = cpu
	}
	cpu.DMA.cpu = cpu
	return cpu
}

func (c *CPU) Reset(soft bool) {
	if soft {
		c.S -= 0x03
		c.P.setFlag(Interrupt, true)
	} else {
		c.A = 0x00
		c.X = 0x00
		c.Y = 0x00
		c.S = 0xFD
		c.P = Interrupt
	}

	c.NMI = false
	c.halted = nil
	c.ppuWrites = c.ppuWrites[:0]
	c.DMA.reset()

	c.PC = hwio.Read16(c.Bus, ResetVector)

	// The reset sequence takes 7 cycles before the first instruction.
	c.Count += 7
	c.Cycles += 7
}

// Step executes one instruction and services a pending NMI. It returns the
// number of cycles it took. Faults raised on the buses while executing the
// instruction halt the CPU, once halted Step always returns the same error.
func (c *CPU) Step() (ncycles int, err error) {
	if c.halted != nil {
		return 0, c.halted
	}

	start := c.Count
	defer func() {
		if r := recover(); r != nil {
			err = c.fault(r)
		}
		ncycles = int(c.Count - start)
		c.Cycles += int64(ncycles)
	}()

	c.traceOp()

	c.opPC = c.PC
	c.opcode = c.Read8(c.PC)
	c.PC++
	if err := c.exec(c.opcode); err != nil {
		return 0, c.halt(err)
	}

	if c.NMI {
		c.serviceNMI()
	}
	return 0, nil
}

// guard runs fn, converting bus faults into a returned error, as Step does.
func (c *CPU) guard(fn func()) (err error) {
	if c.halted != nil {
		return c.halted
	}
	defer func() {
		if r := recover(); r != nil {
			err = c.fault(r)
		}
	}()
	fn()
	return nil
}

func (c *CPU) fault(r any) error {
	f, ok := r.(*hwdefs.Fault)
	if !ok {
		panic(r)
	}
	return c.halt(f)
}

func (c *CPU) halt(err error) error {
	if f, ok := err.(*hwdefs.Fault); ok {
		f.PC = c.opPC
		f.Opcode = c.opcode
	}
	c.halted = err
	log.ModCPU.WarnZ("CPU halted").
		Hex16("PC", c.opPC).
		Hex8("opcode", c.opcode).
		Error("err", err).
		End()
	return err
}

func (c *CPU) IsHalted() bool {
	return c.halted != nil
}

func (c *CPU) serviceNMI() {
	c.NMI = false
	c.push16(c.PC)
	c.push8(c.GetP() &^ Interrupt)
	c.P.setFlag(Interrupt, true)
	c.PC = c.read16(NMIVector)
	c.Count += 7
	log.ModCPU.DebugZ("NMI").Hex16("handler", c.PC).End()
}

func (c *CPU) Read8(addr uint16) uint8 {
	return c.Bus.Read8(addr)
}

func (c *CPU) Write8(addr uint16, val uint8) {
	c.Bus.Write8(addr, val)
}

func (c *CPU) read16(addr uint16) uint16 {
	return hwio.Read16(c.Bus, addr)
}

/* stack operations */

func (c *CPU) push8(val uint8) {
	top := uint16(c.S) + 0x0100
	c.Write8(top, val)
	c.S--
}

func (c *CPU) push16(val uint16) {
	c.push8(uint8(val >> 8))
	c.push8(uint8(val & 0xff))
}

func (c *CPU) pull8() uint8 {
	c.S++
	top := uint16(c.S) + 0x0100
	return c.Read8(top)
}

func (c *CPU) pull16() uint16 {
	lo := c.pull8()
	hi := c.pull8()
	return uint16(hi)<<8 | uint16(lo)
}

/* tracing */

// SetTraceOutput enables the execution trace, one line per instruction, in
// the nestest log format. A nil writer disables it.
func (c *CPU) SetTraceOutput(w io.Writer) {
	if w == nil {
		c.tracer = nil
		return
	}
	c.tracer = &tracer{w: w, d: c}
}

func (c *CPU) traceOp() {
	if c.tracer == nil {
		return
	}
	c.tracer.write(cpuState{
		A:     c.A,
		X:     c.X,
		Y:     c.Y,
		P:     c.GetP(),
		SP:    c.S,
		PC:    c.PC,
		Clock: c.Cycles,
		Count: c.Count,
	})
}
