// Package ui provides the SDL2 front-end of the emulator: an OpenGL window
// presenting the frames, and the keyboard/game controller input source.
package ui

import (
	"image"

	"github.com/veandco/go-sdl2/sdl"

	"nescore/emu"
	"nescore/emu/log"
	"nescore/hw"
)

// Hotkeys are the actions triggered by the emulator keys. Nil actions are
// ignored.
type Hotkeys struct {
	Pause      func()          // P
	Reset      func(soft bool) // F1 (soft), F2 (hard)
	Screenshot func()          // F12
}

// Output is the emulator window, it implements emu.Output.
type Output struct {
	Hotkeys Hotkeys

	win   *window
	ctrls *GameControllers
	in    *Input
}

// NewOutput creates the window and the input source. It must be called
// from the function passed to sdl.Main.
func NewOutput(cfg emu.Config) (*Output, error) {
	var (
		out = &Output{}
		err error
	)
	sdl.Do(func() {
		out.win, err = newWindow(windowConfig{
			title:   "nescore",
			texw:    hw.Width,
			texh:    hw.Height,
			scale:   cfg.Video.Scale,
			monitor: cfg.Video.Monitor,
			vsync:   cfg.Video.VSync,
			shader:  cfg.Video.Shader,
		})
		if err != nil {
			return
		}
		out.ctrls = NewGameControllers()
		out.in, err = NewInput(cfg.Input, out.ctrls)
	})
	if err != nil {
		if out.win != nil {
			out.Close()
		}
		return nil, err
	}
	return out, nil
}

// Input returns the input source bound to the window.
func (o *Output) Input() *Input { return o.in }

// Poll processes the SDL events. It returns false when the window has been
// closed or Escape pressed.
func (o *Output) Poll() bool {
	running := true
	sdl.Do(func() {
		for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
			switch e := ev.(type) {
			case sdl.QuitEvent:
				running = false
			case sdl.WindowEvent:
				if e.Event == sdl.WINDOWEVENT_CLOSE {
					running = false
				}
			case sdl.KeyboardEvent:
				if e.Type != sdl.KEYDOWN || e.Repeat != 0 {
					break
				}
				if e.Keysym.Scancode == sdl.SCANCODE_ESCAPE {
					running = false
					break
				}
				o.hotkey(e.Keysym.Scancode)
			case sdl.ControllerDeviceEvent:
				o.ctrls.UpdateDevices(e)
			}
		}
	})
	return running
}

func (o *Output) hotkey(code sdl.Scancode) {
	hk := o.Hotkeys
	switch {
	case code == sdl.SCANCODE_P && hk.Pause != nil:
		hk.Pause()
	case code == sdl.SCANCODE_F1 && hk.Reset != nil:
		hk.Reset(true)
	case code == sdl.SCANCODE_F2 && hk.Reset != nil:
		hk.Reset(false)
	case code == sdl.SCANCODE_F12 && hk.Screenshot != nil:
		hk.Screenshot()
	}
}

func (o *Output) Present(frame *image.RGBA) {
	sdl.Do(func() { o.win.draw(frame) })
}

func (o *Output) Close() {
	sdl.Do(func() {
		if o.ctrls != nil {
			o.ctrls.Close()
		}
		if err := o.win.close(); err != nil {
			log.ModEmu.WarnZ("failed to close window").Error("err", err).End()
		}
	})
}
