package mappers

import "nescore/hw/hwdefs"

var AxROM = MapperDesc{
	Name: "AxROM",
	Load: loadAxROM,
}

type axrom struct {
	*base

	prgbank      int
	busConflicts bool
}

func (m *axrom) WritePRGROM(addr uint16, val uint8) {
	if m.busConflicts {
		val = m.busConflict(addr, val)
	}

	// 7  bit  0
	// ---- ----
	// xxxM xPPP
	//    |  |||
	//    |  +++- Select 32 KB PRG ROM bank for CPU $8000-$FFFF
	//    +------ Select 1 KB VRAM page for all 4 nametables
	prev := m.prgbank
	m.prgbank = int(val & 0x7)
	if prev != m.prgbank {
		m.selectPRGPage32KB(m.prgbank)
		modMapper.DebugZ("PRGROM bank switch").String("mapper", m.desc.Name).Int("prev", prev).Int("new", m.prgbank).End()
	}

	if val&0x10 == 0x10 {
		m.setNTMirroring(hwdefs.OnlyBScreen)
	} else {
		m.setNTMirroring(hwdefs.OnlyAScreen)
	}
}

func loadAxROM(b *base) error {
	axrom := &axrom{
		base:         b,
		busConflicts: b.cart.SubMapper == 2,
	}
	b.init(axrom.WritePRGROM)

	b.mirroring = hwdefs.OnlyAScreen
	b.selectCHRPage8KB(0)
	b.selectPRGPage32KB(0)
	return nil
}
