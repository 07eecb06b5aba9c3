package mappers

var GxROM = MapperDesc{
	Name: "GxROM",
	Load: loadGxROM,
}

type gxrom struct {
	*base

	chrbank int
	prgbank int
}

func (m *gxrom) WritePRGROM(addr uint16, val uint8) {
	// GxROM boards always have bus conflicts.
	val = m.busConflict(addr, val)

	// 7  bit  0
	// ---- ----
	// xxPP xxCC
	//   ||   ||
	//   ||   ++- Select 8 KB CHR ROM bank for PPU $0000-$1FFF
	//   ++------ Select 32 KB PRG ROM bank for CPU $8000-$FFFF
	prevchr := m.chrbank
	m.chrbank = int(val & 0x3)
	if prevchr != m.chrbank {
		m.selectCHRPage8KB(m.chrbank)
		modMapper.DebugZ("CHRROM bank switch").String("mapper", m.desc.Name).Int("prev", prevchr).Int("new", m.chrbank).End()
	}

	prevprg := m.prgbank
	m.prgbank = int((val >> 4) & 0x3)
	if prevprg != m.prgbank {
		m.selectPRGPage32KB(m.prgbank)
		modMapper.DebugZ("PRGROM bank switch").String("mapper", m.desc.Name).Int("prev", prevprg).Int("new", m.prgbank).End()
	}
}

func loadGxROM(b *base) error {
	gxrom := &gxrom{base: b}
	b.init(gxrom.WritePRGROM)

	b.selectPRGPage32KB(0)
	b.selectCHRPage8KB(0)
	return nil
}
