package hw

import "image"

// raster holds the intermediate layers of a frame.
type raster struct {
	bg    [Height][Width]uint8 // background palette entry, 0 is transparent
	spr   [Height][Width]uint8 // sprite palette entry (with bit 4 set), 0 is none
	front [Height][Width]bool  // sprite has priority over the background
	grey  [Height]bool
}

func (r *raster) clear() {
	*r = raster{}
}

// Frame returns the image of the last frame prepared by PrepareDraw.
func (p *PPU) Frame() *image.RGBA {
	return p.frame
}

// PrepareDraw rasterizes the current frame. Each snapshot recorded during the
// frame governs the lines until the next one.
func (p *PPU) PrepareDraw() {
	p.raster.clear()
	for _, b := range p.bands() {
		p.drawBand(&p.states[b.state], b.start, b.end)
	}
	p.composite()
}

type band struct {
	state      int // index in the snapshot list
	start, end int // lines [start, end)
}

// bands computes the lines governed by each snapshot. Snapshots that don't
// cover any visible line are skipped.
func (p *PPU) bands() []band {
	var bands []band
	for i := range p.states {
		start := max(int(p.states[i].Count*3/341)-VBL, 0)
		end := Height
		if i < len(p.states)-1 {
			end = min(max(int(p.states[i+1].Count*3/341)-VBL, 1), Height)
		}
		if end <= start {
			continue
		}
		bands = append(bands, band{state: i, start: start, end: end})
	}
	return bands
}

func (p *PPU) drawBand(st *snapshot, y0, y1 int) {
	for y := y0; y < y1; y++ {
		p.raster.grey[y] = st.Greyscale
		if st.ShowBackground {
			p.drawBgLine(st, y)
		}
	}
	if st.ShowSprites {
		p.drawSprites(st, y0, y1)
	}
}

// scrolled returns the position of the screen pixel (x, y) in the 512x480
// plane formed by the 4 nametables.
func scrolled(st *snapshot, x, y int) (vx, vy int) {
	vx = (x + int(st.ScrollX) + 256*int(st.Nametable&1)) % 512
	vy = (y + int(st.ScrollY) + 240*int(st.Nametable>>1)) % 480
	return vx, vy
}

// bgTileRow fetches the pattern row and palette of the background tile at
// plane position (vx, vy).
func (p *PPU) bgTileRow(st *snapshot, vx, vy int) (lo, hi, pal uint8) {
	nt := uint16(vx/256 + 2*(vy/240))
	tx, ty := uint16(vx%256/8), uint16(vy%240/8)
	base := 0x2000 + nt*0x400

	tile := p.Bus.Read8(base + 32*ty + tx)
	attr := p.Bus.Read8(base + 0x3C0 + tx/4 + 8*(ty/4))
	pal = (attr >> (4*((ty/2)%2) + 2*((tx/2)%2))) & 0b11

	addr := st.BgTable + 16*uint16(tile) + uint16(vy%8)
	return p.Bus.Read8(addr), p.Bus.Read8(addr + 8), pal
}

func patternPixel(lo, hi uint8, bit int) uint8 {
	return (lo>>bit)&1 | ((hi>>bit)&1)<<1
}

// bgPixel returns the background palette entry at screen pixel (x, y), 0 if
// transparent.
func (p *PPU) bgPixel(st *snapshot, x, y int) uint8 {
	vx, vy := scrolled(st, x, y)
	lo, hi, pal := p.bgTileRow(st, vx, vy)
	px := patternPixel(lo, hi, 7-vx%8)
	if px == 0 {
		return 0
	}
	return pal<<2 | px
}

func (p *PPU) drawBgLine(st *snapshot, y int) {
	var lo, hi, pal uint8
	for x := range Width {
		vx, vy := scrolled(st, x, y)
		if x == 0 || vx%8 == 0 {
			lo, hi, pal = p.bgTileRow(st, vx, vy)
		}
		px := patternPixel(lo, hi, 7-vx%8)
		if px != 0 {
			px |= pal << 2
		}
		p.raster.bg[y][x] = px
	}
}

type sprite struct {
	x, y int // y is the first line, one below the OAM value
	tile uint8
	attr uint8
}

// sprite returns the i-th OAM entry, counting from OAMADDR.
func (p *PPU) sprite(i int) sprite {
	base := p.OAMADDR.Value + uint8(4*i)
	return sprite{
		y:    int(p.OAM[base]) + 1,
		tile: p.OAM[base+1],
		attr: p.OAM[base+2],
		x:    int(p.OAM[base+3]),
	}
}

// spriteRow fetches the pattern bytes of the given sprite row (in screen
// order, vertical flip is applied here).
func (p *PPU) spriteRow(s sprite, row, height int, table uint16) (lo, hi uint8) {
	if s.attr&0x80 != 0 {
		row = height - 1 - row
	}
	tile := s.tile
	if height == 16 {
		table = uint16(tile&1) * 0x1000
		tile &= 0xFE
		if row >= 8 {
			tile++
			row -= 8
		}
	}
	addr := table + 16*uint16(tile) + uint16(row)
	return p.Bus.Read8(addr), p.Bus.Read8(addr + 8)
}

// spritePixel returns the pattern value of column col, horizontal flip
// applied.
func spritePixel(lo, hi uint8, col int, attr uint8) uint8 {
	bit := 7 - col
	if attr&0x40 != 0 {
		bit = col
	}
	return patternPixel(lo, hi, bit)
}

// drawSprites draws the sprites of lines [y0, y1). The first opaque sprite
// pixel at a location wins, in OAM order.
func (p *PPU) drawSprites(st *snapshot, y0, y1 int) {
	h := st.spriteHeight()
	r := &p.raster
	for i := range 64 {
		s := p.sprite(i)
		if s.y >= 0xF0 {
			continue
		}
		for row := range h {
			y := s.y + row
			if y < y0 || y >= y1 {
				continue
			}
			lo, hi := p.spriteRow(s, row, h, st.SpriteTable)
			for col := range 8 {
				x := s.x + col
				if x >= Width || r.spr[y][x] != 0 {
					continue
				}
				px := spritePixel(lo, hi, col, s.attr)
				if px == 0 {
					continue
				}
				r.spr[y][x] = 0x10 | (s.attr&0b11)<<2 | px
				r.front[y][x] = s.attr&0x20 == 0
			}
		}
	}
}

// composite merges the background and sprite layers and converts the palette
// entries to RGB.
func (p *PPU) composite() {
	r := &p.raster
	pix := p.frame.Pix
	for y := range Height {
		for x := range Width {
			entry := r.bg[y][x]
			if spr := r.spr[y][x]; spr != 0 && (r.front[y][x] || entry == 0) {
				entry = spr
			}
			idx := p.Bus.Read8(0x3F00 + uint16(entry))
			if r.grey[y] {
				idx &= 0x30
			}
			c := NTSCPalette[idx&0x3F]
			off := p.frame.PixOffset(x, y)
			pix[off+0] = c.R
			pix[off+1] = c.G
			pix[off+2] = c.B
			pix[off+3] = 0xFF
		}
	}
}
