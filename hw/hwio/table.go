package hwio

import (
	"fmt"
	"slices"

	"nescore/emu/log"
	"nescore/hw/hwdefs"
)

type BankIO8 interface {
	Read8(addr uint16) uint8
	// Peek8 reads a byte without side effects (debugging/tracing).
	Peek8(addr uint16) uint8
	Write8(addr uint16, val uint8)
}

func Read16(b BankIO8, addr uint16) uint16 {
	lo := b.Read8(addr)
	hi := b.Read8(addr + 1)
	return uint16(hi)<<8 | uint16(lo)
}

type mapping struct {
	lo, hi uint16
	io     BankIO8

	// For mirrors, io is nil and accesses are redirected to [srclo, srchi].
	srclo, srchi uint16
}

// Table is an address space. It maps non-overlapping address ranges to
// devices, memories, registers or mirrors of other ranges.
type Table struct {
	Name string

	// Unmapped, when set, serves accesses outside any mapped range. When nil,
	// such accesses raise a bus fault.
	Unmapped BankIO8

	maps []mapping // sorted by lo
}

func NewTable(name string) *Table {
	return &Table{Name: name}
}

func (t *Table) Reset() {
	t.maps = nil
}

func (t *Table) insert(m mapping) {
	if m.hi < m.lo {
		panic(fmt.Errorf("%s: invalid range [%04x-%04x]", t.Name, m.lo, m.hi))
	}
	idx, _ := slices.BinarySearchFunc(t.maps, m.lo, func(e mapping, lo uint16) int {
		return int(e.lo) - int(lo)
	})
	if idx > 0 && t.maps[idx-1].hi >= m.lo {
		panic(fmt.Errorf("%s: range [%04x-%04x] overlaps [%04x-%04x]", t.Name, m.lo, m.hi, t.maps[idx-1].lo, t.maps[idx-1].hi))
	}
	if idx < len(t.maps) && t.maps[idx].lo <= m.hi {
		panic(fmt.Errorf("%s: range [%04x-%04x] overlaps [%04x-%04x]", t.Name, m.lo, m.hi, t.maps[idx].lo, t.maps[idx].hi))
	}
	t.maps = slices.Insert(t.maps, idx, m)
}

// Map a register bank (that is, a structure containing multiple Reg8, Mem or
// Device fields). Registers must have a struct tag "hwio" (see InitRegs),
// only those of the given bank number are mapped, at addr+offset.
func (t *Table) MapBank(addr uint16, bank any, bankNum int) {
	regs, err := bankGetRegs(bank, bankNum)
	if err != nil {
		panic(err)
	}

	for _, reg := range regs {
		switch r := reg.regPtr.(type) {
		case *Mem:
			t.MapMem(addr+reg.offset, r)
		case *Reg8:
			t.MapReg8(addr+reg.offset, r)
		case *Device:
			t.MapDevice(addr+reg.offset, r)
		default:
			panic(fmt.Errorf("invalid reg type: %T", r))
		}
	}
}

func (t *Table) MapReg8(addr uint16, io *Reg8) {
	t.insert(mapping{lo: addr, hi: addr, io: io})
}

func (t *Table) MapDevice(addr uint16, dev *Device) {
	if dev.Size <= 0 {
		panic(fmt.Errorf("%s: device %s has no size", t.Name, dev.Name))
	}
	t.insert(mapping{lo: addr, hi: addr + uint16(dev.Size-1), io: dev})
}

// MapMem maps mem at addr. When the memory virtual size is bigger than its
// physical size, the remaining space mirrors it.
func (t *Table) MapMem(addr uint16, mem *Mem) {
	log.ModHwIo.DebugZ("mapping mem").
		Hex16("addr", addr).
		Int("size", len(mem.Data)).
		Int("vsize", mem.VSize).
		String("area", mem.Name).
		String("bus", t.Name).
		End()

	size := len(mem.Data)
	if size == 0 {
		panic(fmt.Errorf("%s: mem %s has no data", t.Name, mem.Name))
	}
	vsize := max(mem.VSize, size)
	end := addr + uint16(size-1)
	t.insert(mapping{lo: addr, hi: end, io: mem.bankIO8(addr)})
	if vsize > size {
		t.MapMirror(end+1, addr+uint16(vsize-1), addr, end)
	}
}

// MapMirror makes [lo, hi] a mirror of [srclo, srchi].
func (t *Table) MapMirror(lo, hi, srclo, srchi uint16) {
	t.insert(mapping{lo: lo, hi: hi, srclo: srclo, srchi: srchi})
}

// Unmap removes all mappings fully contained in [lo, hi].
func (t *Table) Unmap(lo, hi uint16) {
	t.maps = slices.DeleteFunc(t.maps, func(m mapping) bool {
		return m.lo >= lo && m.hi <= hi
	})
}

// Canonical returns the device mapped at addr, and addr itself after all
// mirrors have been resolved. The device is nil for unmapped addresses.
func (t *Table) Canonical(addr uint16) (BankIO8, uint16) {
	// Mirrors can be chained (e.g. palette shadows within a mirrored range),
	// the depth is bounded by the number of mappings.
	for range len(t.maps) + 1 {
		idx, found := slices.BinarySearchFunc(t.maps, addr, func(e mapping, a uint16) int {
			switch {
			case e.hi < a:
				return -1
			case e.lo > a:
				return 1
			}
			return 0
		})
		if !found {
			return nil, addr
		}
		m := &t.maps[idx]
		if m.io != nil {
			return m.io, addr
		}
		addr = Mirror(m.srclo, m.srchi, m.lo, addr)
	}
	panic(fmt.Errorf("%s: mirror loop at %04x", t.Name, addr))
}

// Read8 forwards the read to the device mapped at the given address.
func (t *Table) Read8(addr uint16) uint8 {
	io, caddr := t.Canonical(addr)
	if io == nil {
		if t.Unmapped != nil {
			return t.Unmapped.Read8(addr)
		}
		hwdefs.BusFault(t.Name, addr, false)
	}
	return io.Read8(caddr)
}

// Peek8 is a side-effect free Read8. Unmapped addresses read as 0.
func (t *Table) Peek8(addr uint16) uint8 {
	io, caddr := t.Canonical(addr)
	if io == nil {
		if t.Unmapped != nil {
			return t.Unmapped.Peek8(addr)
		}
		return 0
	}
	return io.Peek8(caddr)
}

func (t *Table) Write8(addr uint16, val uint8) {
	io, caddr := t.Canonical(addr)
	if io == nil {
		if t.Unmapped != nil {
			t.Unmapped.Write8(addr, val)
			return
		}
		hwdefs.BusFault(t.Name, addr, true)
	}
	io.Write8(caddr, val)
}
