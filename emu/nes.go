package emu

import (
	"nescore/emu/log"
	"nescore/hw"
	"nescore/hw/hwdefs"
	"nescore/hw/mappers"
)

// NES is the whole machine: CPU, PPU and the cartridge board.
type NES struct {
	CPU    *hw.CPU
	PPU    *hw.PPU
	Mapper hw.Mapper
	Cart   hwdefs.Cartridge

	Frames int64 // frames completed since power up
}

// PowerUp builds the machine for the given cartridge and performs a hard
// reset. Unsupported mappers are rejected here, before any emulation.
func PowerUp(cart hwdefs.Cartridge) (*NES, error) {
	mapper, err := mappers.New(cart)
	if err != nil {
		return nil, err
	}

	ppu := hw.NewPPU()
	cpu := hw.NewCPU(ppu)
	ppu.InitBus(mapper, cart.Mirroring())
	cpu.InitBus(mapper)

	nes := &NES{
		CPU:    cpu,
		PPU:    ppu,
		Mapper: mapper,
		Cart:   cart,
	}
	nes.Reset(hwdefs.HardReset)
	return nes, nil
}

func (nes *NES) Reset(soft bool) {
	log.ModEmu.InfoZ("reset").Bool("soft", soft).End()
	nes.PPU.Reset()
	nes.CPU.Reset(soft)
}

// RunOneFrame emulates until the end of the current frame, then rasterizes
// it. A fault halts the machine and is returned, the frame is then left
// unfinished.
func (nes *NES) RunOneFrame() error {
	cpu := nes.CPU
	for cpu.Count < hw.FrameCycles {
		if err := cpu.ServiceDMA(); err != nil {
			return err
		}
		cpu.FlushPPU()
		if _, err := cpu.Step(); err != nil {
			return err
		}
		cpu.FlushPPU()
		nes.PPU.Tick()
	}
	cpu.Count -= hw.FrameCycles

	nes.PPU.PrepareDraw()
	nes.Frames++
	return nil
}

// RunFrames runs n frames, stopping at the first error.
func (nes *NES) RunFrames(n int) error {
	for range n {
		if err := nes.RunOneFrame(); err != nil {
			return err
		}
	}
	return nil
}

// Peek8 reads the CPU bus without side effects. Addresses the cartridge
// doesn't decode read as 0.
func (nes *NES) Peek8(addr uint16) (val uint8) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(*hwdefs.Fault); !ok {
				panic(r)
			}
			val = 0
		}
	}()
	return nes.CPU.Bus.Peek8(addr)
}

// AddLogContext stamps log entries with the machine position.
func (nes *NES) AddLogContext(z *log.EntryZ) {
	z.Int64("frame", nes.Frames).Hex16("pc", nes.CPU.PC)
}
