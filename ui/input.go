package ui

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"

	"nescore/emu"
	"nescore/hw"
)

type padBindings struct {
	plugged bool
	codes   [hw.NumButtons]Code
}

// Input sets the controllers state from the keyboard and game controllers,
// according to the configured bindings.
type Input struct {
	pads     [2]padBindings
	keystate []uint8
	ctrls    *GameControllers
}

// parseBindings parses the input codes of the configuration.
func parseBindings(cfg emu.InputConfig) ([2]padBindings, error) {
	var pads [2]padBindings
	for i, padcfg := range cfg.Pads {
		pads[i].plugged = padcfg.Plugged
		for b, text := range padcfg.Buttons {
			if err := pads[i].codes[b].UnmarshalText([]byte(text)); err != nil {
				return pads, fmt.Errorf("pad %d, button %s: %w", i+1, hw.Button(b), err)
			}
		}
	}
	return pads, nil
}

// NewInput creates the input source. It must be called from the SDL thread.
func NewInput(cfg emu.InputConfig, ctrls *GameControllers) (*Input, error) {
	pads, err := parseBindings(cfg)
	if err != nil {
		return nil, err
	}
	return &Input{
		pads:     pads,
		keystate: sdl.GetKeyboardState(),
		ctrls:    ctrls,
	}, nil
}

// Update implements emu.Input.
func (in *Input) Update(pads *[2]hw.Controller) {
	sdl.Do(func() {
		for i := range pads {
			for b := range hw.Button(hw.NumButtons) {
				pressed := in.pads[i].plugged && in.pressed(in.pads[i].codes[b])
				pads[i].SetButton(b, pressed)
			}
		}
	})
}

func (in *Input) pressed(code Code) bool {
	switch code.Type {
	case Keyboard:
		return in.keystate[code.Scancode] != 0
	case ControllerButton:
		if ctrl := in.ctrls.byGUID(code.CtrlGUID); ctrl != nil {
			return ctrl.Button(code.CtrlButton) != 0
		}
	case ControllerAxis:
		if ctrl := in.ctrls.byGUID(code.CtrlGUID); ctrl != nil {
			return axisPressed(ctrl.Axis(code.CtrlAxis), code.CtrlAxisDir)
		}
	}
	return false
}
