package emu

import (
	"fmt"
	"image"
	"sync/atomic"
	"time"

	"nescore/emu/log"
	"nescore/hw"
	"nescore/ines"
)

// Output presents frames to the user.
type Output interface {
	// Poll processes pending host events, it returns false once the user
	// asked to quit.
	Poll() bool
	Present(frame *image.RGBA)
	Close()
}

// An Input sets the state of the controllers, it's called once per frame.
type Input interface {
	Update(pads *[2]hw.Controller)
}

// NTSC frame rate is 60.0988Hz.
const frameDuration = time.Second * 1000 / 60099

type Emulator struct {
	NES *NES
	out Output
	in  Input
	cfg Config

	// These are accessed concurrently by the emulator loop and the UI.
	quit   atomic.Bool
	paused atomic.Bool
	reset  atomic.Bool
	hard   atomic.Bool

	err error
}

// Launch powers up the machine for the given rom and connects it to the
// output and input. It doesn't start the emulation loop, call Run() for
// that.
func Launch(rom *ines.Rom, out Output, in Input, cfg Config) (*Emulator, error) {
	cart, err := rom.Cartridge()
	if err != nil {
		return nil, err
	}
	nes, err := PowerUp(cart)
	if err != nil {
		return nil, fmt.Errorf("power up failed: %w", err)
	}

	// CPU execution trace setup.
	if cfg.TraceOut != nil {
		nes.CPU.SetTraceOutput(cfg.TraceOut)
	}

	return &Emulator{
		NES: nes,
		out: out,
		in:  in,
		cfg: cfg,
	}, nil
}

// Run runs the emulation loop until the output is closed, Stop is called or
// the machine halts. It returns the fault that halted the machine, if any.
func (e *Emulator) Run() error {
	log.AddContext(e.NES)
	defer log.RemoveContext(e.NES)

	var tick <-chan time.Time
	if !e.cfg.Video.VSync && !e.cfg.Emulation.Turbo {
		ticker := time.NewTicker(frameDuration)
		defer ticker.Stop()
		tick = ticker.C
	}

	for e.out.Poll() {
		if e.isPaused() {
			// Don't burn cpu while paused.
			time.Sleep(100 * time.Millisecond)
		} else if !e.runOneFrame() {
			break
		}
		if e.shouldStop() {
			break
		}
		e.handleReset()
		if tick != nil {
			<-tick
		}
	}

	e.out.Close()
	log.ModEmu.InfoZ("emulation loop exited").Int64("frames", e.NES.Frames).End()
	return e.err
}

func (e *Emulator) runOneFrame() bool {
	if e.in != nil {
		e.in.Update(&e.NES.CPU.Input.Pads)
	}
	if err := e.NES.RunOneFrame(); err != nil {
		log.ModEmu.ErrorZ("emulation halted").Error("err", err).End()
		e.err = err
		return false
	}
	e.out.Present(e.NES.PPU.Frame())
	return true
}

// Screenshot saves the last frame as a PNG file.
func (e *Emulator) Screenshot(path string) error {
	return SaveAsPNG(e.NES.PPU.Frame(), path)
}

// SetPause, Stop and Reset allow to control the emulator loop in a
// concurrent-safe way.

func (e *Emulator) SetPause(pause bool) { e.paused.Store(pause) }
func (e *Emulator) TogglePause()        { e.SetPause(!e.paused.Load()) }
func (e *Emulator) Stop()               { e.quit.Store(true) }

// Reset requests a reset, performed at the end of the current frame.
func (e *Emulator) Reset(soft bool) {
	e.hard.Store(!soft)
	e.reset.Store(true)
}

func (e *Emulator) isPaused() bool {
	return e.paused.Load()
}

func (e *Emulator) shouldStop() bool {
	return e.quit.Load() || e.NES.CPU.IsHalted()
}

func (e *Emulator) handleReset() {
	if e.reset.CompareAndSwap(true, false) {
		e.NES.Reset(!e.hard.Load())
	}
}
