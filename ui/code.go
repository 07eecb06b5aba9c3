package ui

import (
	"fmt"
	"strings"

	"github.com/veandco/go-sdl2/sdl"
)

type ControllerType uint8

const (
	UnsetController ControllerType = iota
	Keyboard
	ControllerButton
	ControllerAxis
)

func (t ControllerType) String() string {
	switch t {
	case Keyboard:
		return "key"
	case ControllerButton:
		return "joy button"
	case ControllerAxis:
		return "joy axis"
	}
	return "not set"
}

// A Code describes a host input (keyboard key, game controller button or
// axis direction) bound to a controller button. Only the fields matching
// Type are valid.
type Code struct {
	Scancode sdl.Scancode

	CtrlGUID    string
	CtrlButton  sdl.GameControllerButton
	CtrlAxis    sdl.GameControllerAxis
	CtrlAxisDir int16

	Type ControllerType
}

// Name returns an user-friendly name for the input code.
func (mc Code) Name() string {
	switch mc.Type {
	case Keyboard:
		return sdl.GetScancodeName(mc.Scancode)
	case ControllerButton:
		return sdl.GameControllerGetStringForButton(mc.CtrlButton)
	case ControllerAxis:
		axis := sdl.GameControllerGetStringForAxis(mc.CtrlAxis)
		if mc.CtrlAxisDir >= 0 {
			axis += "+"
		} else {
			axis += "-"
		}
		return axis
	}
	return ""
}

func (mc Code) MarshalText() ([]byte, error) {
	s := ""
	name := mc.Name()
	switch mc.Type {
	case Keyboard:
		s = fmt.Sprintf("key %s", name)
	case ControllerButton:
		s = fmt.Sprintf("joybtn %s %s", name, mc.CtrlGUID)
	case ControllerAxis:
		s = fmt.Sprintf("joyaxis %s %s", name, mc.CtrlGUID)
	}
	return []byte(s), nil
}

func (mc *Code) UnmarshalText(text []byte) error {
	s := string(text)
	*mc = Code{}

	switch {
	case s == "":
		mc.Type = UnsetController

	case strings.HasPrefix(s, "joybtn "):
		str := ""
		if _, err := fmt.Sscanf(s, "joybtn %s %s", &str, &mc.CtrlGUID); err != nil {
			return fmt.Errorf("malformed joybtn code: %s", s)
		}
		mc.CtrlButton = sdl.GameControllerGetButtonFromString(str)
		if mc.CtrlButton == sdl.CONTROLLER_BUTTON_INVALID {
			return fmt.Errorf("unrecognized button %q", str)
		}
		mc.Type = ControllerButton

	case strings.HasPrefix(s, "joyaxis "):
		str := ""
		if _, err := fmt.Sscanf(s, "joyaxis %s %s", &str, &mc.CtrlGUID); err != nil {
			return fmt.Errorf("malformed joyaxis code: %s", s)
		}
		switch {
		case strings.HasSuffix(str, "+"):
			mc.CtrlAxisDir = 1
		case strings.HasSuffix(str, "-"):
			mc.CtrlAxisDir = -1
		default:
			return fmt.Errorf("malformed axis direction: %s", str)
		}

		mc.CtrlAxis = sdl.GameControllerGetAxisFromString(str[:len(str)-1])
		if mc.CtrlAxis == sdl.CONTROLLER_AXIS_INVALID {
			return fmt.Errorf("unrecognized axis %q", str)
		}
		mc.Type = ControllerAxis

	case strings.HasPrefix(s, "key "):
		// Key names may contain spaces ("Right Shift").
		name := strings.TrimSpace(strings.TrimPrefix(s, "key "))
		if name == "" {
			return fmt.Errorf("malformed key code: %s", s)
		}
		mc.Scancode = sdl.GetScancodeFromName(name)
		if mc.Scancode == sdl.SCANCODE_UNKNOWN {
			return fmt.Errorf("unrecognized scancode %q", name)
		}
		mc.Type = Keyboard

	default:
		return fmt.Errorf("unrecognized input code: %s", s)
	}
	return nil
}
