package hwio

import "nescore/emu/log"

type MemFlags int

const (
	MemFlagReadWrite MemFlags = 0
	MemFlag8ReadOnly MemFlags = (1 << iota) // read-only accesses
	MemFlagNoROLog                          // skip logging attempts to write when configured to readonly
)

// Mem is a linear memory area that can be mapped into a Table.
type Mem struct {
	Name    string              // name of the memory area (for debugging)
	Data    []byte              // actual memory buffer
	VSize   int                 // virtual size of the memory (bigger than len(Data) means mirrored)
	Flags   MemFlags            // flags determining how the memory can be accessed
	WriteCb func(uint16, uint8) // optional, called after each successful write
}

// mem adapts a Mem mapped at a given base address to BankIO8.
type mem struct {
	*Mem
	base uint16
}

func (m *Mem) bankIO8(base uint16) BankIO8 {
	return &mem{Mem: m, base: base}
}

func (m *mem) Read8(addr uint16) uint8 { return m.Data[addr-m.base] }
func (m *mem) Peek8(addr uint16) uint8 { return m.Data[addr-m.base] }

func (m *mem) Write8(addr uint16, val uint8) {
	switch {
	case m.Flags&MemFlag8ReadOnly == 0:
		m.Data[addr-m.base] = val
		if m.WriteCb != nil {
			m.WriteCb(addr, val)
		}
	case m.Flags&MemFlagNoROLog == 0:
		log.ModHwIo.ErrorZ("Write8 to readonly memory").
			String("name", m.Name).
			Hex16("addr", addr).
			Hex8("val", val).
			End()
	}
}
