package mappers

import (
	"fmt"

	"nescore/emu/log"
	"nescore/hw"
	"nescore/hw/hwdefs"
)

var modMapper = log.NewModule("mapper")

// New creates the mapper of the cartridge board.
func New(cart hwdefs.Cartridge) (hw.Mapper, error) {
	desc, ok := All[cart.MapperID]
	if !ok {
		return nil, fmt.Errorf("%w %d", hwdefs.ErrUnsupportedMapper, cart.MapperID)
	}
	b, err := newbase(desc, cart)
	if err != nil {
		return nil, fmt.Errorf("mapper initialization failed: %w", err)
	}
	if err := desc.Load(b); err != nil {
		return nil, fmt.Errorf("failed to load mapper %s: %w", desc.Name, err)
	}
	modMapper.InfoZ("mapper loaded").
		String("name", desc.Name).
		Int("prg", len(cart.PRG)).
		Int("chr", len(cart.CHR)).
		Int("prgram", len(b.PRGRAM.Data)).
		Stringer("mirroring", b.mirroring).
		End()
	return b, nil
}

type MapperDesc struct {
	Name string
	Load func(*base) error
}

// All the supported mappers, by iNES mapper number.
var All = map[uint8]MapperDesc{
	0:  NROM,
	1:  MMC1,
	2:  UxROM,
	3:  CNROM,
	7:  AxROM,
	66: GxROM,
}
