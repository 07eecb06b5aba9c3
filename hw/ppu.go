package hw

import (
	"image"

	"nescore/emu/log"
	"nescore/hw/hwdefs"
	"nescore/hw/hwio"
)

const (
	Width  = 256 // visible pixels per line
	Height = 240 // visible lines

	// Number of vertical blank lines at the start of a frame. The line of a
	// CPU cycle count is count*3/341 (3 PPU dots per CPU cycle, 341 dots per
	// line).
	VBL = 21
)

const (
	// PPUCTRL bits
	// $2000

	// Nametable selection mask
	// (0 = $2000; 1 = $2400; 2 = $2800; 3 = $2C00)
	ntselect = 0b11

	// VRAM address increment per CPU read/write of PPUDATA
	// (0: +1 i.e. horizontal; 1: +32 i.e. vertical)
	vramIncr = 2

	// Sprite pattern table address for 8x8 sprites
	// (0: $0000; 1: $1000; ignored in 8x16 mode)
	spriteAddr = 3

	// Background pattern table address (0: $0000; 1: $1000)
	backgroundAddr = 4

	// Sprite size (0: 8x8 pixels; 1: 8x16 pixels)
	spriteSize = 5

	// Generate an NMI at the start of the
	// vertical blanking interval (0: off; 1: on)
	nmi = 7
)

const (
	// PPUMASK bits
	// $2001

	// Greyscale
	// (0: normal color, 1: produce a greyscale display)
	greyscale = 0

	// Show background
	showBg = 3

	// Show sprites
	showSprites = 4
)

const (
	// PPUSTATUS bits
	// $2002

	// Sprite overflow, more than 8 sprites on a line.
	spriteOverflow = 5

	// Sprite 0 Hit. Set when a nonzero pixel of sprite 0 overlaps
	// a nonzero background pixel.
	sprite0Hit = 6

	// Vertical blank has started (0: not in vblank; 1: in vblank).
	vblank = 7
)

// snapshot is the state of the registers affecting rendering, recorded at the
// CPU cycle they changed. Frames are rasterized in bands, one per snapshot.
type snapshot struct {
	Count int64

	Nametable        uint8
	ScrollX, ScrollY uint8

	SpriteTable  uint16
	BgTable      uint16
	SpriteSize16 bool

	Greyscale      bool
	ShowBackground bool
	ShowSprites    bool
}

func (s *snapshot) spriteHeight() int {
	if s.SpriteSize16 {
		return 16
	}
	return 8
}

type PPU struct {
	Bus *hwio.Table // PPU bus
	CPU *CPU

	regs *hwio.Table // $2000-$2007

	// PPU bus.
	CHR        hwio.Device `hwio:"offset=0x0000,size=0x2000"`
	Nametables hwio.Device `hwio:"offset=0x2000,size=0x1000,rcb,wcb"`
	Palette    hwio.Device `hwio:"offset=0x3F00,size=0x20,rcb,wcb"`

	// CPU visible registers. Write-only registers read back the I/O latch.
	PPUCTRL   hwio.Reg8 `hwio:"bank=1,offset=0x0,writeonly,wcb,rcb=ReadIOLatch"`
	PPUMASK   hwio.Reg8 `hwio:"bank=1,offset=0x1,writeonly,wcb,rcb=ReadIOLatch"`
	PPUSTATUS hwio.Reg8 `hwio:"bank=1,offset=0x2,readonly,rcb"`
	OAMADDR   hwio.Reg8 `hwio:"bank=1,offset=0x3,writeonly,rcb=ReadIOLatch"`
	OAMDATA   hwio.Reg8 `hwio:"bank=1,offset=0x4,rcb,wcb,pcb=ReadOAMDATA"`
	PPUSCROLL hwio.Reg8 `hwio:"bank=1,offset=0x5,writeonly,wcb,rcb=ReadIOLatch"`
	PPUADDR   hwio.Reg8 `hwio:"bank=1,offset=0x6,writeonly,wcb,rcb=ReadIOLatch"`
	PPUDATA   hwio.Reg8 `hwio:"bank=1,offset=0x7,rcb,wcb,pcb"`

	OAM     [256]uint8
	VRAM    [0x800]uint8
	palette [32]uint8

	mirroring func() hwdefs.Mirroring

	latch     uint8 // last value written to any register
	toggle    bool  // shared $2005/$2006 write toggle
	vramAddr  uint16
	readBuf   uint8 // $2007 read delay buffer
	scrollX   uint8
	scrollY   uint8
	nametable uint8

	writeCount int64 // CPU cycle of the register write being processed
	states     []snapshot

	blanked bool
	line    int // last visible line seen by Tick

	// sprite 0 hit detection
	s0row   int // next sprite 0 row to check
	s0bgOK  bool
	s0bgBuf [16][8]uint8

	raster raster
	frame  *image.RGBA
}

func NewPPU() *PPU {
	p := &PPU{
		Bus:   hwio.NewTable("ppu"),
		regs:  hwio.NewTable("ppu-regs"),
		frame: image.NewRGBA(image.Rect(0, 0, Width, Height)),
		line:  -1,
	}
	hwio.MustInitRegs(p)
	p.regs.MapBank(0x2000, p, 1)
	p.mirroring = func() hwdefs.Mirroring { return hwdefs.HorzMirroring }
	return p
}

func (p *PPU) Reset() {
	p.PPUCTRL.Value = 0
	p.PPUMASK.Value = 0
	p.PPUSTATUS.Value = 0
	p.OAMADDR.Value = 0
	p.toggle = false
	p.readBuf = 0
	p.scrollX, p.scrollY = 0, 0
	p.nametable = 0
	p.states = p.states[:0]
	p.blanked = false
	p.line = -1
	p.s0row = 0
	p.s0bgOK = false
}

// WriteReg writes the register at addr ($2000-$2007, mirrors accepted).
// count is the CPU cycle count at the time of the write.
func (p *PPU) WriteReg(addr uint16, val uint8, count int64) {
	p.latch = val
	p.writeCount = count
	p.regs.Write8(0x2000|addr&7, val)
}

func (p *PPU) ReadReg(addr uint16) uint8 {
	return p.regs.Read8(0x2000 | addr&7)
}

func (p *PPU) PeekReg(addr uint16) uint8 {
	return p.regs.Peek8(0x2000 | addr&7)
}

func (p *PPU) snapshot(count int64) snapshot {
	return snapshot{
		Count:          count,
		Nametable:      p.nametable,
		ScrollX:        p.scrollX,
		ScrollY:        p.scrollY,
		SpriteTable:    uint16(p.PPUCTRL.GetBiti(spriteAddr)) * 0x1000,
		BgTable:        uint16(p.PPUCTRL.GetBiti(backgroundAddr)) * 0x1000,
		SpriteSize16:   p.PPUCTRL.GetBit(spriteSize),
		Greyscale:      p.PPUMASK.GetBit(greyscale),
		ShowBackground: p.PPUMASK.GetBit(showBg),
		ShowSprites:    p.PPUMASK.GetBit(showSprites),
	}
}

func (p *PPU) pushState(count int64) {
	p.states = append(p.states, p.snapshot(count))
}

// current returns the snapshot in effect.
func (p *PPU) current() snapshot {
	if len(p.states) == 0 {
		return p.snapshot(0)
	}
	return p.states[len(p.states)-1]
}

/* registers */

func (p *PPU) ReadIOLatch(val uint8) uint8 {
	log.ModPPU.DebugZ("read from write-only register").Hex8("latch", p.latch).End()
	return p.latch
}

// $2000
func (p *PPU) WritePPUCTRL(old, val uint8) {
	p.nametable = val & ntselect
	p.pushState(p.writeCount)
}

// $2001
func (p *PPU) WritePPUMASK(old, val uint8) {
	p.pushState(p.writeCount)
}

// $2002
func (p *PPU) ReadPPUSTATUS(val uint8) uint8 {
	p.PPUSTATUS.ClearBit(vblank)
	p.toggle = false
	return val & 0xE0
}

// $2004
func (p *PPU) ReadOAMDATA(val uint8) uint8 {
	return p.OAM[p.OAMADDR.Value]
}

func (p *PPU) WriteOAMDATA(old, val uint8) {
	p.OAM[p.OAMADDR.Value] = val
	p.OAMADDR.Value++
}

// $2005
func (p *PPU) WritePPUSCROLL(old, val uint8) {
	if !p.toggle {
		p.scrollX = val
		p.pushState(p.writeCount)
	} else {
		p.scrollY = val
	}
	p.toggle = !p.toggle
}

// $2006
func (p *PPU) WritePPUADDR(old, val uint8) {
	if !p.toggle {
		p.vramAddr = uint16(val)<<8 | p.vramAddr&0x00FF
	} else {
		p.vramAddr = p.vramAddr&0xFF00 | uint16(val)

		// Scrolling isn't emulated at the dot level, the nametable selected
		// by the address is what games using $2006 for scrolling expect.
		nt := (uint8(p.vramAddr>>8) & 0x0C) >> 2
		if nt != p.nametable {
			p.nametable = nt
			p.pushState(p.writeCount)
		}
	}
	p.toggle = !p.toggle
}

// $2007
func (p *PPU) ReadPPUDATA(val uint8) uint8 {
	addr := p.vramAddr
	p.incrAddr()

	// Only pattern table reads are delayed.
	if _, caddr := p.Bus.Canonical(addr); caddr < 0x2000 {
		ret := p.readBuf
		p.readBuf = p.Bus.Read8(addr)
		return ret
	}
	return p.Bus.Read8(addr)
}

func (p *PPU) PeekPPUDATA(val uint8) uint8 {
	if _, caddr := p.Bus.Canonical(p.vramAddr); caddr < 0x2000 {
		return p.readBuf
	}
	return p.Bus.Peek8(p.vramAddr)
}

func (p *PPU) WritePPUDATA(old, val uint8) {
	p.Bus.Write8(p.vramAddr, val)
	p.incrAddr()
}

func (p *PPU) incrAddr() {
	if p.PPUCTRL.GetBit(vramIncr) {
		p.vramAddr += 32
	} else {
		p.vramAddr++
	}
}

/* timing */

// Tick brings the PPU up to date with the CPU cycle count: vertical blank
// start and end, NMI, sprite overflow and sprite 0 hit.
func (p *PPU) Tick() {
	count := p.CPU.Count
	y := int(count * 3 / 341)

	if y < VBL && !p.blanked {
		p.blanked = true
		p.PPUSTATUS.SetBit(vblank)
		p.OAMADDR.Value = 0
		if p.PPUCTRL.GetBit(nmi) {
			p.CPU.NMI = true
		}
		log.ModPPU.DebugZ("vblank start").Int64("count", count).Bool("nmi", p.CPU.NMI).End()
	}

	if y >= VBL && p.blanked {
		p.blanked = false
		p.PPUSTATUS.ClearBits(1<<vblank | 1<<sprite0Hit | 1<<spriteOverflow)
		p.line = -1
		p.s0row = 0
		p.s0bgOK = false

		p.states = p.states[:0]
		p.pushState(count)
	}

	if p.blanked {
		return
	}
	// Past the last visible line, sprite 0 rows on line 239 still have to
	// be checked.
	line := y - VBL
	p.checkOverflow(min(line, Height-1))
	p.checkSprite0Hit(min(line, Height))
}

func (p *PPU) rendering() bool {
	return p.PPUMASK.GetBit(showBg) || p.PPUMASK.GetBit(showSprites)
}

func (p *PPU) spriteHeight() int {
	if p.PPUCTRL.GetBit(spriteSize) {
		return 16
	}
	return 8
}

// checkOverflow sets the sprite overflow flag when more than 8 sprites are
// on one of the lines reached since the last call.
func (p *PPU) checkOverflow(line int) {
	if line <= p.line {
		return
	}
	from := p.line + 1
	p.line = line
	if !p.rendering() || p.PPUSTATUS.GetBit(spriteOverflow) {
		return
	}

	h := p.spriteHeight()
	for l := from; l <= line; l++ {
		n := 0
		for i := range 64 {
			top := int(p.OAM[i*4]) + 1
			if l >= top && l < top+h {
				n++
			}
		}
		if n > 8 {
			p.PPUSTATUS.SetBit(spriteOverflow)
			log.ModPPU.DebugZ("sprite overflow").Int("line", l).End()
			return
		}
	}
}

// checkSprite0Hit checks the rows of sprite 0 that have been fully drawn
// against the background.
func (p *PPU) checkSprite0Hit(line int) {
	if !p.PPUMASK.GetBit(showBg) || !p.PPUMASK.GetBit(showSprites) || p.PPUSTATUS.GetBit(sprite0Hit) {
		return
	}

	s := p.sprite(0)
	if s.y >= 0xF0 {
		return
	}
	st := p.current()
	h := st.spriteHeight()

	for ; p.s0row < h && s.y+p.s0row < line && s.y+p.s0row < Height; p.s0row++ {
		if !p.s0bgOK {
			p.s0bgOK = true
			p.drawSprite0Background(&st, s, h)
		}

		lo, hi := p.spriteRow(s, p.s0row, h, st.SpriteTable)
		for col := range 8 {
			// No hit at x=255.
			if s.x+col >= Width-1 {
				break
			}
			if spritePixel(lo, hi, col, s.attr) != 0 && p.s0bgBuf[p.s0row][col] != 0 {
				p.PPUSTATUS.SetBit(sprite0Hit)
				log.ModPPU.DebugZ("sprite 0 hit").
					Int("x", s.x+col).
					Int("y", s.y+p.s0row).
					End()
				return
			}
		}
	}
}

// drawSprite0Background renders the background pixels behind sprite 0.
func (p *PPU) drawSprite0Background(st *snapshot, s sprite, h int) {
	for row := range h {
		y := s.y + row
		for col := range 8 {
			x := s.x + col
			if x >= Width || y >= Height {
				p.s0bgBuf[row][col] = 0
				continue
			}
			p.s0bgBuf[row][col] = p.bgPixel(st, x, y) & 0b11
		}
	}
}
