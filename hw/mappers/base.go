package mappers

import (
	"fmt"

	"nescore/hw/hwdefs"
	"nescore/hw/hwio"
)

// base holds what all mappers share: the cartridge memories and the bank
// windows mapped into the CPU and PPU views of the cartridge.
type base struct {
	desc MapperDesc
	cart hwdefs.Cartridge

	cpu *hwio.Table // $4020-$FFFF
	ppu *hwio.Table // $0000-$1FFF

	/* CPU */
	PRGROM hwio.Device `hwio:"offset=0x8000,size=0x8000,rcb,pcb=ReadPRGROM"`
	PRGRAM hwio.Mem    `hwio:"bank=2,offset=0x6000,vsize=0x2000"`

	/* PPU */
	CHR hwio.Device `hwio:"bank=1,offset=0x0000,size=0x2000,rcb,wcb,pcb=ReadCHR"`

	chr    []byte // CHR-ROM, or CHR-RAM if the cartridge has none
	chrRAM bool

	prgOff [2]int // PRG offsets of the 16KB windows at $8000 and $C000
	chrOff [2]int // CHR offsets of the 4KB windows at $0000 and $1000

	mirroring hwdefs.Mirroring
}

func ispow2(n int) bool {
	return n&(n-1) == 0
}

func newbase(desc MapperDesc, cart hwdefs.Cartridge) (*base, error) {
	if len(cart.PRG) == 0 || len(cart.PRG)%0x4000 != 0 {
		return nil, fmt.Errorf("PRG-ROM size must be a multiple of 16KB, got %d", len(cart.PRG))
	}
	if !ispow2(len(cart.PRG)) {
		return nil, fmt.Errorf("only support PRG-ROM with power of 2 size, got %d", len(cart.PRG))
	}
	if len(cart.CHR)%0x2000 != 0 {
		return nil, fmt.Errorf("CHR-ROM size must be a multiple of 8KB, got %d", len(cart.CHR))
	}

	b := &base{
		desc:      desc,
		cart:      cart,
		cpu:       hwio.NewTable(desc.Name),
		ppu:       hwio.NewTable(desc.Name + "-chr"),
		chr:       cart.CHR,
		mirroring: cart.Mirroring(),
	}
	if len(b.chr) == 0 {
		b.chr = make([]byte, 0x2000)
		b.chrRAM = true
	}
	if cart.PRGRAMSize > 0 {
		b.PRGRAM.Data = make([]byte, min(cart.PRGRAMSize, 0x2000))
	}

	hwio.MustInitRegs(b)

	// Accesses outside of the cartridge memories are contract violations.
	b.cpu.Unmapped = faultIO{name: desc.Name}
	b.ppu.Unmapped = faultIO{name: desc.Name + "-chr"}

	b.cpu.MapBank(0x0000, b, 0)
	if len(b.PRGRAM.Data) > 0 {
		b.cpu.MapBank(0x0000, b, 2)
	}
	b.ppu.MapBank(0x0000, b, 1)

	b.PRGROM.WriteCb = b.writeROM
	b.selectPRGPage16KB(0, 0)
	b.selectPRGPage16KB(1, -1)
	b.selectCHRPage8KB(0)
	return b, nil
}

// init sets the handler of the writes to the PRG-ROM area, the mapper
// registers for most boards.
func (b *base) init(write func(addr uint16, val uint8)) {
	b.PRGROM.WriteCb = write
}

/* hw.Mapper */

func (b *base) Read(addr uint16) uint8 {
	return b.cpu.Read8(addr)
}

func (b *base) Write(addr uint16, val uint8) {
	b.cpu.Write8(addr, val)
}

func (b *base) ReadPPU(addr uint16) uint8 {
	return b.ppu.Read8(addr)
}

func (b *base) WritePPU(addr uint16, val uint8) {
	b.ppu.Write8(addr, val)
}

func (b *base) Mirroring() hwdefs.Mirroring {
	return b.mirroring
}

/* memory access */

func (b *base) ReadPRGROM(addr uint16) uint8 {
	off := addr - 0x8000
	return b.cart.PRG[b.prgOff[off>>14]+int(off&0x3FFF)]
}

func (b *base) writeROM(addr uint16, val uint8) {
	modMapper.DebugZ("write to PRG-ROM ignored").
		String("mapper", b.desc.Name).
		Hex16("addr", addr).
		Hex8("val", val).
		End()
}

func (b *base) ReadCHR(addr uint16) uint8 {
	return b.chr[b.chrOff[addr>>12]+int(addr&0x0FFF)]
}

func (b *base) WriteCHR(addr uint16, val uint8) {
	if !b.chrRAM {
		modMapper.DebugZ("write to CHR-ROM ignored").
			String("mapper", b.desc.Name).
			Hex16("addr", addr).
			Hex8("val", val).
			End()
		return
	}
	b.chr[b.chrOff[addr>>12]+int(addr&0x0FFF)] = val
}

// busConflict returns what the board actually sees when val is written at
// addr, the ROM drives the data bus at the same time.
func (b *base) busConflict(addr uint16, val uint8) uint8 {
	return val & b.ReadPRGROM(addr)
}

/* bank switching */

// bank wraps a bank number (negative values count from the end) into the
// number of banks available.
func bank(n, nbanks int) int {
	if n < 0 {
		n += nbanks
	}
	return n % nbanks
}

func (b *base) selectPRGPage16KB(slot, n int) {
	b.prgOff[slot] = bank(n, len(b.cart.PRG)/0x4000) * 0x4000
}

func (b *base) selectPRGPage32KB(n int) {
	off := bank(n, max(len(b.cart.PRG)/0x8000, 1)) * 0x8000
	b.prgOff[0] = off
	b.prgOff[1] = off + 0x4000
	if len(b.cart.PRG) < 0x8000 {
		// 16KB boards see the same bank twice.
		b.prgOff[1] = 0
	}
}

func (b *base) selectCHRPage4KB(slot, n int) {
	b.chrOff[slot] = bank(n, len(b.chr)/0x1000) * 0x1000
}

func (b *base) selectCHRPage8KB(n int) {
	off := bank(n, len(b.chr)/0x2000) * 0x2000
	b.chrOff[0] = off
	b.chrOff[1] = off + 0x1000
}

func (b *base) setNTMirroring(m hwdefs.Mirroring) {
	if m == b.mirroring {
		return
	}
	modMapper.DebugZ("select NT mirroring").
		String("mapper", b.desc.Name).
		Stringer("prev", b.mirroring).
		Stringer("new", m).
		End()
	b.mirroring = m
}

// faultIO serves the addresses a mapper doesn't decode.
type faultIO struct{ name string }

func (f faultIO) Read8(addr uint16) uint8 {
	hwdefs.MapperFault(f.name, addr, false)
	return 0
}

func (f faultIO) Peek8(addr uint16) uint8 { return 0 }

func (f faultIO) Write8(addr uint16, val uint8) {
	hwdefs.MapperFault(f.name, addr, true)
}

func errPRGSize(b *base, limit int) error {
	return fmt.Errorf("%s supports up to %dKB of PRG-ROM, got %dKB", b.desc.Name, limit/1024, len(b.cart.PRG)/1024)
}
