package hw

import (
	"testing"

	"nescore/hw/hwdefs"
)

// flatMapper maps a flat 64KB PRG space and 8KB of CHR RAM, enough to run
// code from anywhere in the cartridge space.
type flatMapper struct {
	prg [0x10000]uint8
	chr [0x2000]uint8
}

func (m *flatMapper) Read(addr uint16) uint8            { return m.prg[addr] }
func (m *flatMapper) Write(addr uint16, val uint8)      { m.prg[addr] = val }
func (m *flatMapper) ReadPPU(addr uint16) uint8         { return m.chr[addr&0x1FFF] }
func (m *flatMapper) WritePPU(addr uint16, val uint8)   { m.chr[addr&0x1FFF] = val }
func (m *flatMapper) setVector(vec uint16, addr uint16) { m.prg[vec], m.prg[vec+1] = uint8(addr), uint8(addr>>8) }

func newTestCPU(t testing.TB) (*CPU, *flatMapper) {
	t.Helper()

	ppu := NewPPU()
	cpu := NewCPU(ppu)
	m := &flatMapper{}
	ppu.InitBus(m, hwdefs.VertMirroring)
	cpu.InitBus(m)
	return cpu, m
}

// load places code at addr and points PC at it, with a zeroed cycle count.
func load(cpu *CPU, m *flatMapper, addr uint16, code ...uint8) {
	copy(m.prg[addr:], code)
	cpu.PC = addr
	cpu.Count = 0
}

func step(t testing.TB, cpu *CPU) int {
	t.Helper()

	n, err := cpu.Step()
	if err != nil {
		t.Fatalf("step at $%04X: %v", cpu.PC, err)
	}
	return n
}

// countAt returns the first CPU cycle of the given visible line.
func countAt(line int) int64 {
	return int64((line+VBL)*341/3 + 1)
}
