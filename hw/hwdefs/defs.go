package hwdefs

import (
	"errors"
	"fmt"
)

// Error kinds. Use errors.Is to match a *Fault against one of them.
var (
	ErrBusFault          = errors.New("bus fault")
	ErrIllegalOpcode     = errors.New("illegal opcode")
	ErrMapperContract    = errors.New("mapper contract violation")
	ErrUnsupportedMapper = errors.New("unsupported mapper")
)

// A Fault is an unrecoverable emulation error. Faults raised while an
// instruction executes are propagated as panics and converted back into an
// error by the CPU.
type Fault struct {
	Kind  error
	Bus   string // bus or device name
	Addr  uint16
	Write bool

	// Set by the CPU once the fault has been recovered.
	PC     uint16
	Opcode uint8
}

func (f *Fault) Error() string {
	switch f.Kind {
	case ErrIllegalOpcode:
		return fmt.Sprintf("%v $%02X at PC=$%04X", f.Kind, f.Opcode, f.PC)
	}
	dir := "read"
	if f.Write {
		dir = "write"
	}
	return fmt.Sprintf("%v: %s %s $%04X (PC=$%04X opcode=$%02X)", f.Kind, f.Bus, dir, f.Addr, f.PC, f.Opcode)
}

func (f *Fault) Unwrap() error { return f.Kind }

// BusFault panics with a bus fault for the given access.
func BusFault(bus string, addr uint16, write bool) {
	panic(&Fault{Kind: ErrBusFault, Bus: bus, Addr: addr, Write: write})
}

// MapperFault panics with a mapper contract violation for the given access.
func MapperFault(mapper string, addr uint16, write bool) {
	panic(&Fault{Kind: ErrMapperContract, Bus: mapper, Addr: addr, Write: write})
}

// Mirroring describes how the 4 logical nametables are laid out onto the 2KB
// of PPU VRAM.
type Mirroring uint8

const (
	HorzMirroring Mirroring = iota // $2000=$2400, $2800=$2C00
	VertMirroring                  // $2000=$2800, $2400=$2C00
	OnlyAScreen                    // single screen, lower bank
	OnlyBScreen                    // single screen, upper bank
)

func (m Mirroring) String() string {
	switch m {
	case HorzMirroring:
		return "horizontal"
	case VertMirroring:
		return "vertical"
	case OnlyAScreen:
		return "single-A"
	case OnlyBScreen:
		return "single-B"
	}
	return fmt.Sprintf("Mirroring(%d)", uint8(m))
}

// Cartridge holds everything needed to build the machine from a game image.
type Cartridge struct {
	MapperID            uint8
	SubMapper           uint8 // NES 2.0 only, 0 otherwise
	PRGRAMSize          int
	HorizontalMirroring bool
	PRG                 []byte
	CHR                 []byte // empty means the board has 8KB of CHR-RAM
}

func (c *Cartridge) Mirroring() Mirroring {
	if c.HorizontalMirroring {
		return HorzMirroring
	}
	return VertMirroring
}

const (
	SoftReset = true
	HardReset = false
)
