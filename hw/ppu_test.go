package hw

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"nescore/hw/hwdefs"
)

// setAddr writes a VRAM address through PPUADDR.
func setAddr(p *PPU, addr uint16) {
	p.WriteReg(0x2006, uint8(addr>>8), 0)
	p.WriteReg(0x2006, uint8(addr), 0)
}

func TestPPUSTATUSRead(t *testing.T) {
	cpu, _ := newTestCPU(t)
	p := cpu.PPU

	p.PPUSTATUS.Value = 0xFF
	p.WriteReg(0x2005, 0x12, 0)
	if !p.toggle {
		t.Errorf("p.toggle = false, want true")
	}

	if diff := cmp.Diff(uint8(0xE0), p.ReadReg(0x2002)); diff != "" {
		t.Errorf("p.ReadReg(0x2002) mismatch (-want +got):\n%s", diff)
	}
	if p.toggle {
		t.Errorf("p.toggle = true, want false")
	}
	if diff := cmp.Diff(uint8(0x60), p.ReadReg(0x2002)); diff != "" {
		t.Errorf("p.ReadReg(0x2002) mismatch (-want +got):\n%s", diff)
	}

	// Peeking has no side effect.
	p.PPUSTATUS.SetBit(vblank)
	if diff := cmp.Diff(uint8(0xFF), p.PeekReg(0x2002)); diff != "" {
		t.Errorf("p.PeekReg(0x2002) mismatch (-want +got):\n%s", diff)
	}
	if !p.PPUSTATUS.GetBit(vblank) {
		t.Errorf("p.PPUSTATUS.GetBit(vblank) = false, want true")
	}
}

func TestPPUSharedToggle(t *testing.T) {
	cpu, _ := newTestCPU(t)
	p := cpu.PPU

	p.WriteReg(0x2005, 0x08, 0) // first write: X scroll
	p.WriteReg(0x2006, 0x21, 0) // second write: address low byte
	if diff := cmp.Diff(uint8(0x08), p.scrollX); diff != "" {
		t.Errorf("p.scrollX mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(uint16(0x0021), p.vramAddr); diff != "" {
		t.Errorf("p.vramAddr mismatch (-want +got):\n%s", diff)
	}
	if p.toggle {
		t.Errorf("p.toggle = true, want false")
	}

	p.WriteReg(0x2006, 0x23, 0)
	p.WriteReg(0x2006, 0xC0, 0)
	if diff := cmp.Diff(uint16(0x23C0), p.vramAddr); diff != "" {
		t.Errorf("p.vramAddr mismatch (-want +got):\n%s", diff)
	}
}

func TestPPUWriteOnlyReadsLatch(t *testing.T) {
	cpu, _ := newTestCPU(t)
	p := cpu.PPU

	p.WriteReg(0x2000, 0x80, 0)
	if diff := cmp.Diff(uint8(0x80), p.ReadReg(0x2000)); diff != "" {
		t.Errorf("p.ReadReg(0x2000) mismatch (-want +got):\n%s", diff)
	}
	p.WriteReg(0x2003, 0x5A, 0)
	if diff := cmp.Diff(uint8(0x5A), p.ReadReg(0x2006)); diff != "" {
		t.Errorf("p.ReadReg(0x2006) mismatch (-want +got):\n%s", diff)
	}
}

func TestPPUDATAReadDelay(t *testing.T) {
	cpu, m := newTestCPU(t)
	p := cpu.PPU
	m.chr[0x0010] = 0xAB
	m.chr[0x0011] = 0xCD

	// Pattern table reads go through the delay buffer.
	setAddr(p, 0x0010)
	if diff := cmp.Diff(uint8(0x00), p.ReadReg(0x2007)); diff != "" {
		t.Errorf("p.ReadReg(0x2007) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(uint8(0xAB), p.ReadReg(0x2007)); diff != "" {
		t.Errorf("p.ReadReg(0x2007) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(uint8(0xCD), p.ReadReg(0x2007)); diff != "" {
		t.Errorf("p.ReadReg(0x2007) mismatch (-want +got):\n%s", diff)
	}

	// Nametable reads don't.
	setAddr(p, 0x2000)
	p.WriteReg(0x2007, 0x42, 0)
	p.WriteReg(0x2007, 0x43, 0)
	setAddr(p, 0x2000)
	if diff := cmp.Diff(uint8(0x42), p.ReadReg(0x2007)); diff != "" {
		t.Errorf("p.ReadReg(0x2007) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(uint8(0x43), p.ReadReg(0x2007)); diff != "" {
		t.Errorf("p.ReadReg(0x2007) mismatch (-want +got):\n%s", diff)
	}

	// Writes to CHR RAM go to the mapper.
	setAddr(p, 0x1000)
	p.WriteReg(0x2007, 0x99, 0)
	if diff := cmp.Diff(uint8(0x99), m.chr[0x1000]); diff != "" {
		t.Errorf("m.chr[0x1000] mismatch (-want +got):\n%s", diff)
	}
}

func TestPPUDATAIncrement(t *testing.T) {
	cpu, _ := newTestCPU(t)
	p := cpu.PPU

	p.WriteReg(0x2000, 1<<vramIncr, 0)
	setAddr(p, 0x2000)
	p.WriteReg(0x2007, 1, 0)
	p.WriteReg(0x2007, 2, 0)
	if diff := cmp.Diff(uint16(0x2040), p.vramAddr); diff != "" {
		t.Errorf("p.vramAddr mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(uint8(1), p.Bus.Read8(0x2000)); diff != "" {
		t.Errorf("p.Bus.Read8(0x2000) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(uint8(2), p.Bus.Read8(0x2020)); diff != "" {
		t.Errorf("p.Bus.Read8(0x2020) mismatch (-want +got):\n%s", diff)
	}
}

func TestOAMDATA(t *testing.T) {
	cpu, _ := newTestCPU(t)
	p := cpu.PPU

	p.WriteReg(0x2003, 0xFF, 0)
	p.WriteReg(0x2004, 0x11, 0)
	p.WriteReg(0x2004, 0x22, 0)
	if diff := cmp.Diff(uint8(0x11), p.OAM[0xFF]); diff != "" {
		t.Errorf("p.OAM[0xFF] mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(uint8(0x22), p.OAM[0x00]); diff != "" {
		t.Errorf("p.OAM[0x00] mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(uint8(0x01), p.OAMADDR.Value); diff != "" {
		t.Errorf("p.OAMADDR.Value mismatch (-want +got):\n%s", diff)
	}

	// Reads don't increment the address.
	p.WriteReg(0x2003, 0x00, 0)
	if diff := cmp.Diff(uint8(0x22), p.ReadReg(0x2004)); diff != "" {
		t.Errorf("p.ReadReg(0x2004) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(uint8(0x22), p.ReadReg(0x2004)); diff != "" {
		t.Errorf("p.ReadReg(0x2004) mismatch (-want +got):\n%s", diff)
	}
}

func TestPPUBusMirroring(t *testing.T) {
	tests := []struct {
		name      string
		mirroring hwdefs.Mirroring
		same      [][2]uint16
		distinct  [][2]uint16
	}{
		{
			name:      "vertical",
			mirroring: hwdefs.VertMirroring,
			same:      [][2]uint16{{0x2000, 0x2800}, {0x2400, 0x2C00}, {0x2005, 0x3005}, {0x2C10, 0x3C10}, {0x2000, 0x3000}},
			distinct:  [][2]uint16{{0x2000, 0x2400}, {0x3000, 0x2100}},
		},
		{
			name:      "horizontal",
			mirroring: hwdefs.HorzMirroring,
			same:      [][2]uint16{{0x2000, 0x2400}, {0x2800, 0x2C00}, {0x2405, 0x3405}},
			distinct:  [][2]uint16{{0x2000, 0x2800}},
		},
		{
			name:      "single screen A",
			mirroring: hwdefs.OnlyAScreen,
			same:      [][2]uint16{{0x2000, 0x2400}, {0x2000, 0x2800}, {0x2000, 0x2C00}},
		},
		{
			name:      "palette",
			mirroring: hwdefs.VertMirroring,
			same: [][2]uint16{
				{0x3F00, 0x3F10}, {0x3F04, 0x3F14}, {0x3F08, 0x3F18}, {0x3F0C, 0x3F1C},
				{0x3F01, 0x3F21}, {0x3F1F, 0x3FFF},
			},
			distinct: [][2]uint16{{0x3F01, 0x3F11}},
		},
		{
			name:      "upper mirror",
			mirroring: hwdefs.VertMirroring,
			same:      [][2]uint16{{0x0123, 0x4123}, {0x2000, 0x6000}, {0x3F00, 0xFF00}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPPU()
			p.InitBus(&flatMapper{}, tt.mirroring)

			for i, pair := range tt.same {
				val := uint8(i + 1)
				p.Bus.Write8(pair[0], val)
				if got := p.Bus.Read8(pair[1]); got != val {
					t.Errorf("wrote %02x at $%04X, read %02x at $%04X", val, pair[0], got, pair[1])
				}
			}
			for _, pair := range tt.distinct {
				p.Bus.Write8(pair[0], 0x0A)
				p.Bus.Write8(pair[1], 0x0B)
				if got := p.Bus.Read8(pair[0]); got != 0x0A {
					t.Errorf("$%04X overwritten by a write to $%04X", pair[0], pair[1])
				}
			}
		})
	}
}

func TestPaletteWriteMasked(t *testing.T) {
	p := NewPPU()
	p.InitBus(&flatMapper{}, hwdefs.VertMirroring)

	p.Bus.Write8(0x3F01, 0xFF)
	if diff := cmp.Diff(uint8(0x3F), p.Bus.Read8(0x3F01)); diff != "" {
		t.Errorf("p.Bus.Read8(0x3F01) mismatch (-want +got):\n%s", diff)
	}
}

func TestPPUVBlank(t *testing.T) {
	cpu, _ := newTestCPU(t)
	p := cpu.PPU
	p.WriteReg(0x2000, 1<<nmi, 0)

	cpu.Count = 0
	p.Tick()
	if !p.PPUSTATUS.GetBit(vblank) {
		t.Errorf("p.PPUSTATUS.GetBit(vblank) = false, want true")
	}
	if !cpu.NMI {
		t.Errorf("cpu.NMI = false, want true")
	}

	// Only the vblank start raises NMI.
	cpu.NMI = false
	cpu.Count = 1000
	p.Tick()
	if cpu.NMI {
		t.Errorf("cpu.NMI = true, want false")
	}

	cpu.Count = countAt(0)
	p.Tick()
	if p.PPUSTATUS.GetBit(vblank) {
		t.Errorf("p.PPUSTATUS.GetBit(vblank) = true, want false")
	}
	if got := len(p.states); got != 1 {
		t.Fatalf("len(p.states) = %d, want %d", got, 1)
	}
	if diff := cmp.Diff(countAt(0), p.states[0].Count); diff != "" {
		t.Errorf("p.states[0].Count mismatch (-want +got):\n%s", diff)
	}

	// Next frame.
	cpu.Count = 0
	p.Tick()
	if !p.PPUSTATUS.GetBit(vblank) {
		t.Errorf("p.PPUSTATUS.GetBit(vblank) = false, want true")
	}
	if !cpu.NMI {
		t.Errorf("cpu.NMI = false, want true")
	}
}

func TestPPUVBlankNMIDisabled(t *testing.T) {
	cpu, _ := newTestCPU(t)
	p := cpu.PPU

	cpu.Count = 0
	p.Tick()
	if !p.PPUSTATUS.GetBit(vblank) {
		t.Errorf("p.PPUSTATUS.GetBit(vblank) = false, want true")
	}
	if cpu.NMI {
		t.Errorf("cpu.NMI = true, want false")
	}
}

func TestBands(t *testing.T) {
	p := NewPPU()
	p.states = []snapshot{
		{Count: countAt(0)},
		{Count: countAt(0) + 10}, // same line as the previous one
		{Count: countAt(100)},
		{Count: countAt(239) + 200},
		{Count: FrameCycles - 10}, // after the last visible line
	}

	want := []band{
		{state: 0, start: 0, end: 1},
		{state: 1, start: 0, end: 100},
		{state: 2, start: 100, end: 240},
	}
	got := p.bands()
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(band{})); diff != "" {
		t.Errorf("bands mismatch (-want +got):\n%s", diff)
	}
}

// setupScreen fills nametable 0 with tile 1, fully opaque in CHR, and
// enables rendering.
func setupScreen(t *testing.T) (*CPU, *flatMapper) {
	t.Helper()

	cpu, m := newTestCPU(t)
	p := cpu.PPU
	for i := range 8 {
		m.chr[0x10+i] = 0xFF // tile 1, low plane
	}
	for i := range uint16(960) {
		p.Bus.Write8(0x2000+i, 1)
	}
	p.WriteReg(0x2001, 1<<showBg|1<<showSprites, 0)
	return cpu, m
}

func TestSprite0Hit(t *testing.T) {
	tests := []struct {
		name    string
		tile    uint8
		wantHit bool
	}{
		{name: "opaque", tile: 1, wantHit: true},
		{name: "transparent", tile: 2, wantHit: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cpu, _ := setupScreen(t)
			p := cpu.PPU
			copy(p.OAM[:4], []uint8{9, tt.tile, 0, 20}) // top line is 10

			cpu.Count = 0
			p.Tick()
			cpu.Count = countAt(0)
			p.Tick()

			cpu.Count = countAt(10)
			p.Tick()
			if p.PPUSTATUS.GetBit(sprite0Hit) {
				t.Errorf("hit before the line was drawn")
			}

			cpu.Count = countAt(11)
			p.Tick()
			if diff := cmp.Diff(tt.wantHit, p.PPUSTATUS.GetBit(sprite0Hit)); diff != "" {
				t.Errorf("p.PPUSTATUS.GetBit(sprite0Hit) mismatch (-want +got):\n%s", diff)
			}

			cpu.Count = countAt(239)
			p.Tick()
			if diff := cmp.Diff(tt.wantHit, p.PPUSTATUS.GetBit(sprite0Hit)); diff != "" {
				t.Errorf("p.PPUSTATUS.GetBit(sprite0Hit) mismatch (-want +got):\n%s", diff)
			}

			// Cleared when leaving the next vblank.
			cpu.Count = 0
			p.Tick()
			cpu.Count = countAt(0)
			p.Tick()
			if p.PPUSTATUS.GetBit(sprite0Hit) {
				t.Errorf("p.PPUSTATUS.GetBit(sprite0Hit) = true, want false")
			}
		})
	}
}

func TestSprite0HitScreenEdges(t *testing.T) {
	tests := []struct {
		name    string
		oam     []uint8
		line    int // hit is checked once this line is reached
		wantHit bool
	}{
		{name: "last line", oam: []uint8{238, 1, 0, 20}, line: 240, wantHit: true},
		{name: "x=254", oam: []uint8{9, 1, 0, 254}, line: 11, wantHit: true},
		{name: "x=255", oam: []uint8{9, 1, 0, 255}, line: 11, wantHit: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cpu, _ := setupScreen(t)
			p := cpu.PPU
			copy(p.OAM[:4], tt.oam)

			cpu.Count = 0
			p.Tick()
			cpu.Count = countAt(0)
			p.Tick()

			cpu.Count = countAt(tt.line - 1)
			p.Tick()
			if p.PPUSTATUS.GetBit(sprite0Hit) {
				t.Fatalf("sprite 0 hit before line %d was drawn", tt.line-1)
			}

			cpu.Count = countAt(tt.line)
			p.Tick()
			if got := p.PPUSTATUS.GetBit(sprite0Hit); got != tt.wantHit {
				t.Errorf("sprite 0 hit = %t, want %t", got, tt.wantHit)
			}
		})
	}
}

func TestSprite0HitBackgroundDisabled(t *testing.T) {
	cpu, _ := setupScreen(t)
	p := cpu.PPU
	p.WriteReg(0x2001, 1<<showSprites, 0)
	copy(p.OAM[:4], []uint8{9, 1, 0, 20})

	cpu.Count = 0
	p.Tick()
	cpu.Count = countAt(200)
	p.Tick()
	if p.PPUSTATUS.GetBit(sprite0Hit) {
		t.Errorf("p.PPUSTATUS.GetBit(sprite0Hit) = true, want false")
	}
}

func TestSpriteOverflow(t *testing.T) {
	for _, n := range []int{8, 9} {
		cpu, _ := setupScreen(t)
		p := cpu.PPU
		for i := range 64 {
			y := uint8(0xF8) // off-screen
			if i < n {
				y = 50
			}
			p.OAM[i*4] = y
		}

		cpu.Count = 0
		p.Tick()
		cpu.Count = countAt(100)
		p.Tick()

		if got, want := p.PPUSTATUS.GetBit(spriteOverflow), n > 8; got != want {
			t.Errorf("%d sprites on a line: overflow = %t, want %t", n, got, want)
		}
	}
}

func TestPrepareDraw(t *testing.T) {
	cpu, _ := setupScreen(t)
	p := cpu.PPU

	p.Bus.Write8(0x3F00, 0x0F) // universal background
	p.Bus.Write8(0x3F01, 0x30) // background palette 0, color 1
	p.Bus.Write8(0x3F11, 0x16) // sprite palette 0, color 1

	copy(p.OAM[0:8], []uint8{
		49, 1, 0x00, 100, // in front, top at line 50
		49, 1, 0x20, 200, // behind the background
	})
	for i := 8; i < 256; i += 4 {
		p.OAM[i] = 0xFF
	}

	cpu.Count = 0
	p.Tick()
	cpu.Count = countAt(0)
	p.Tick()
	p.PrepareDraw()

	frame := p.Frame()
	if diff := cmp.Diff(NTSCPalette[0x30], frame.RGBAAt(0, 0)); diff != "" {
		t.Errorf("frame.RGBAAt(0, 0) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(NTSCPalette[0x16], frame.RGBAAt(100, 50)); diff != "" {
		t.Errorf("frame.RGBAAt(100, 50) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(NTSCPalette[0x16], frame.RGBAAt(107, 57)); diff != "" {
		t.Errorf("frame.RGBAAt(107, 57) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(NTSCPalette[0x30], frame.RGBAAt(108, 50)); diff != "" {
		t.Errorf("frame.RGBAAt(108, 50) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(NTSCPalette[0x30], frame.RGBAAt(200, 50)); diff != "" {
		t.Errorf("frame.RGBAAt(200, 50) mismatch (-want +got):\n%s", diff)
	}

	// Background disabled, the universal background color shows.
	p.WriteReg(0x2001, 0, countAt(0))
	cpu.Count = 0
	p.Tick()
	cpu.Count = countAt(0)
	p.Tick()
	p.PrepareDraw()
	if diff := cmp.Diff(NTSCPalette[0x0F], frame.RGBAAt(0, 0)); diff != "" {
		t.Errorf("frame.RGBAAt(0, 0) mismatch (-want +got):\n%s", diff)
	}
}

func TestPrepareDrawScrollBands(t *testing.T) {
	cpu, _ := setupScreen(t)
	p := cpu.PPU
	p.WriteReg(0x2001, 1<<showBg, 0)

	// Tile 2 is transparent, put it on the left half of nametable 0.
	for ty := range uint16(30) {
		for tx := range uint16(16) {
			p.Bus.Write8(0x2000+32*ty+tx, 2)
		}
	}

	p.Bus.Write8(0x3F00, 0x0F)
	p.Bus.Write8(0x3F01, 0x30)

	cpu.Count = 0
	p.Tick()
	cpu.Count = countAt(0)
	p.Tick()

	// Scroll by half a screen from line 120.
	p.WriteReg(0x2005, 128, countAt(120))
	p.WriteReg(0x2005, 0, countAt(120))
	p.PrepareDraw()

	frame := p.Frame()
	if diff := cmp.Diff(NTSCPalette[0x0F], frame.RGBAAt(0, 0)); diff != "" {
		t.Errorf("frame.RGBAAt(0, 0) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(NTSCPalette[0x30], frame.RGBAAt(128, 0)); diff != "" {
		t.Errorf("frame.RGBAAt(128, 0) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(NTSCPalette[0x0F], frame.RGBAAt(0, 119)); diff != "" {
		t.Errorf("frame.RGBAAt(0, 119) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(NTSCPalette[0x30], frame.RGBAAt(0, 120)); diff != "" {
		t.Errorf("frame.RGBAAt(0, 120) mismatch (-want +got):\n%s", diff)
	}
}

func TestPrepareDrawGreyscale(t *testing.T) {
	cpu, _ := setupScreen(t)
	p := cpu.PPU
	p.WriteReg(0x2001, 1<<showBg|1<<greyscale, 0)
	p.Bus.Write8(0x3F01, 0x16)

	cpu.Count = 0
	p.Tick()
	cpu.Count = countAt(0)
	p.Tick()
	p.PrepareDraw()

	if diff := cmp.Diff(NTSCPalette[0x10], p.Frame().RGBAAt(10, 10)); diff != "" {
		t.Errorf("p.Frame().RGBAAt(10, 10) mismatch (-want +got):\n%s", diff)
	}
}
