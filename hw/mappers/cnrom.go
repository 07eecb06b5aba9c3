package mappers

var CNROM = MapperDesc{
	Name: "CNROM",
	Load: loadCNROM,
}

type cnrom struct {
	*base

	chrbank      int
	busConflicts bool
}

func (m *cnrom) WritePRGROM(addr uint16, val uint8) {
	if m.busConflicts {
		val = m.busConflict(addr, val)
	}

	// 7  bit  0
	// ---- ----
	// cccc ccCC
	// |||| ||||
	// ++++-++++- Select 8 KB CHR ROM bank for PPU $0000-$1FFF
	// CNROM only uses lowest 2 bits
	prev := m.chrbank
	m.chrbank = int(val & 0b11)
	if prev != m.chrbank {
		m.selectCHRPage8KB(m.chrbank)
		modMapper.DebugZ("CHRROM bank switch").String("mapper", m.desc.Name).Int("prev", prev).Int("new", m.chrbank).End()
	}
}

func loadCNROM(b *base) error {
	if len(b.cart.PRG) > 0x8000 {
		return errPRGSize(b, 0x8000)
	}
	cnrom := &cnrom{
		base:         b,
		busConflicts: b.cart.SubMapper == 2,
	}
	b.init(cnrom.WritePRGROM)

	b.selectPRGPage16KB(0, 0)
	b.selectPRGPage16KB(1, -1)
	b.selectCHRPage8KB(0)
	return nil
}
