package hwio_test

import (
	"errors"
	"testing"

	"nescore/hw/hwdefs"
	"nescore/hw/hwio"
)

type testTable struct {
	t   testing.TB
	Bus *hwio.Table

	// mapped to $0000-$07FF, mirrored up to $1FFF
	RAM hwio.Mem `hwio:"bank=0,offset=0x0,size=0x800,vsize=0x2000"`

	// $2000
	Reg0 hwio.Reg8 `hwio:"bank=1,offset=0x0,reset=0x77"`
	// $2001
	Reg1 hwio.Reg8 `hwio:"bank=1,offset=0x1,rwmask=0xF0,rcb,reset=0x99"`
	// $2002
	Reg2 hwio.Reg8 `hwio:"bank=1,offset=0x2,rwmask=0xF0,readonly,pcb=PeekReg2"`

	// $4100-$41FF
	DEV hwio.Device `hwio:"bank=2,offset=0x100,size=0x100,rcb,wcb"`
	// $4300-$43FF
	WoDEV hwio.Device `hwio:"bank=2,offset=0x300,size=0x100,wcb,writeonly"`

	devval uint8
}

func newTestTable(tb testing.TB) *testTable {
	tbl := &testTable{t: tb}
	hwio.MustInitRegs(tbl)

	tbl.Bus = hwio.NewTable("bus")
	tbl.Bus.MapBank(0x0000, tbl, 0)
	tbl.Bus.MapBank(0x2000, tbl, 1)
	tbl.Bus.MapMirror(0x2008, 0x3FFF, 0x2000, 0x2007)
	tbl.Bus.MapBank(0x4000, tbl, 2)
	return tbl
}

// $2001
func (tbl *testTable) ReadREG1(val uint8) uint8 { return tbl.Reg1.Value + 1 }

// $2002
func (tbl *testTable) PeekReg2(val uint8) uint8 { return 0x12 }

// $4100-41FF
func (tbl *testTable) ReadDEV(addr uint16) uint8       { return 0xE1 }
func (tbl *testTable) WriteDEV(addr uint16, val uint8) { tbl.devval = uint8(addr) & val }

// $4300-43FF
func (tbl *testTable) WriteWODEV(addr uint16, val uint8) { tbl.devval = uint8(addr) &^ val }

func (tbl *testTable) wantRead8(addr uint16, want uint8) {
	tbl.t.Helper()

	if got := tbl.Bus.Read8(addr); got != want {
		tbl.t.Errorf("Read8(%04X) = %02X, want %02X", addr, got, want)
	}
}

func (tbl *testTable) wantPeek8(addr uint16, want uint8) {
	tbl.t.Helper()

	if got := tbl.Bus.Peek8(addr); got != want {
		tbl.t.Errorf("Peek8(%04X) = %02X, want %02X", addr, got, want)
	}
}

func TestTableMem(t *testing.T) {
	tbl := newTestTable(t)

	tbl.wantRead8(0x00, 0)
	tbl.Bus.Write8(0x00, 0x12)
	tbl.wantRead8(0x00, 0x12)
	tbl.wantRead8(0x800, 0x12)
	tbl.wantRead8(0x1800, 0x12)

	// Write through a mirror, read canonical address.
	tbl.Bus.Write8(0x1FFF, 0x34)
	tbl.wantRead8(0x07FF, 0x34)
}

func TestTableUnalignedMirror(t *testing.T) {
	bus := hwio.NewTable("bus")
	bus.MapMem(0x2000, &hwio.Mem{Name: "vram", Data: make([]byte, 0xF00)})
	bus.MapMirror(0x3000, 0x3EFF, 0x2000, 0x2EFF)

	bus.Write8(0x2000, 0xAB)
	bus.Write8(0x2100, 0xCD)
	bus.Write8(0x3C10, 0xEF)

	tests := []struct {
		addr uint16
		want uint8
	}{
		{0x3000, 0xAB},
		{0x3100, 0xCD},
		{0x2C10, 0xEF},
	}
	for _, tt := range tests {
		if got := bus.Read8(tt.addr); got != tt.want {
			t.Errorf("Read8(%04X) = %02X, want %02X", tt.addr, got, tt.want)
		}
	}
	if _, caddr := bus.Canonical(0x3EFF); caddr != 0x2EFF {
		t.Errorf("Canonical(3EFF) = %04X, want 2EFF", caddr)
	}
}

func TestTableRegs(t *testing.T) {
	tbl := newTestTable(t)

	tbl.wantRead8(0x2000, 0x77)
	tbl.wantRead8(0x2008, 0x77)
	tbl.wantRead8(0x3FF8, 0x77)

	// Reg1
	tbl.wantRead8(0x2001, 0x9a)
	tbl.Bus.Write8(0x2001, 0xff)
	tbl.wantRead8(0x2001, 0xfa)
	tbl.Bus.Write8(0x3FF9, 0x0F)
	tbl.wantRead8(0x2001, 0x0A)

	// Reg2
	tbl.wantRead8(0x2002, 0x00)
	tbl.wantPeek8(0x2002, 0x12)
	tbl.Bus.Write8(0x2002, 0x9b)
	tbl.wantRead8(0x2002, 0x00)
}

func TestTableDevice(t *testing.T) {
	tbl := newTestTable(t)

	tbl.wantRead8(0x4100, 0xE1)
	tbl.wantPeek8(0x41FF, 0xE1)
	tbl.Bus.Write8(0x4107, 0xFF)
	if tbl.devval != 0x07 {
		t.Errorf("devval = %02X, want 07", tbl.devval)
	}

	tbl.wantRead8(0x4300, 0x00)
	tbl.Bus.Write8(0x43F0, 0x0F)
	if tbl.devval != 0xF0 {
		t.Errorf("devval = %02X, want F0", tbl.devval)
	}
}

func TestTableUnmappedFaults(t *testing.T) {
	tbl := newTestTable(t)

	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok {
			t.Fatalf("recovered %v, want an error", r)
		}
		if !errors.Is(err, hwdefs.ErrBusFault) {
			t.Fatalf("got %v, want a bus fault", err)
		}
		var fault *hwdefs.Fault
		if !errors.As(err, &fault) || fault.Addr != 0x4000 || fault.Bus != "bus" {
			t.Fatalf("got fault %+v", fault)
		}
	}()

	tbl.wantPeek8(0x4000, 0)
	tbl.Bus.Read8(0x4000)
	t.Fatal("Read8 from unmapped address should have panicked")
}

func TestTableOverlapPanics(t *testing.T) {
	tbl := newTestTable(t)
	defer func() {
		if recover() == nil {
			t.Fatal("overlapping mapping should panic")
		}
	}()
	tbl.Bus.MapReg8(0x0100, &hwio.Reg8{})
}

func TestTableUnmap(t *testing.T) {
	tbl := newTestTable(t)
	tbl.Bus.Unmap(0x4100, 0x43FF)
	tbl.Bus.MapDevice(0x4100, &hwio.Device{Name: "new", Size: 0x300, ReadCb: func(uint16) uint8 { return 0x55 }})
	tbl.wantRead8(0x4300, 0x55)
}
