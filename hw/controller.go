package hw

import (
	"nescore/emu/log"
	"nescore/hw/hwio"
)

//go:generate go tool stringer -type=Button -trimprefix=Button

// Button is a standard controller button, in the order the controller
// reports them.
type Button uint8

const (
	ButtonA Button = iota
	ButtonB
	ButtonSelect
	ButtonStart
	ButtonUp
	ButtonDown
	ButtonLeft
	ButtonRight

	NumButtons = 8
)

// Controller is a standard NES controller: an 8-bit shift register loaded
// with the buttons state. The input source sets the button fields directly.
type Controller struct {
	A, B, Select, Start   bool
	Up, Down, Left, Right bool

	strobe bool
	count  uint8 // reads since the strobe went low
}

// SetButton sets the state of a single button.
func (c *Controller) SetButton(b Button, pressed bool) {
	*c.button(b) = pressed
}

func (c *Controller) Pressed(b Button) bool {
	return *c.button(b)
}

func (c *Controller) button(b Button) *bool {
	switch b {
	case ButtonA:
		return &c.A
	case ButtonB:
		return &c.B
	case ButtonSelect:
		return &c.Select
	case ButtonStart:
		return &c.Start
	case ButtonUp:
		return &c.Up
	case ButtonDown:
		return &c.Down
	case ButtonLeft:
		return &c.Left
	case ButtonRight:
		return &c.Right
	}
	panic("invalid button " + b.String())
}

// Write sets the strobe from bit 0 of val and restarts the read sequence.
func (c *Controller) Write(val uint8) {
	c.strobe = val&1 != 0
	c.count = 0
}

// Read returns the next button state (0 or 1). While the strobe is high, A
// is returned continuously. After the 8 buttons, reads return 1.
func (c *Controller) Read() uint8 {
	if c.strobe {
		return b2u8(c.A)
	}

	c.count = min(c.count+1, NumButtons+1)
	if c.count > NumButtons {
		return 1
	}
	return b2u8(*c.button(Button(c.count - 1)))
}

func b2u8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// InputPorts are the controller ports at $4016 and $4017. Writing $4016
// strobes both controllers, $4017 writes go to the APU frame counter.
type InputPorts struct {
	JOY1 hwio.Reg8 `hwio:"offset=0x0,rcb,wcb"`
	JOY2 hwio.Reg8 `hwio:"offset=0x1,rcb,wcb"`

	Pads [2]Controller

	frameCounter *hwio.Reg8
}

func (ip *InputPorts) ReadJOY1(val uint8) uint8 { return ip.Pads[0].Read() }
func (ip *InputPorts) ReadJOY2(val uint8) uint8 { return ip.Pads[1].Read() }

func (ip *InputPorts) WriteJOY1(old, val uint8) {
	ip.Pads[0].Write(val)
	ip.Pads[1].Write(val)
	log.ModInput.DebugZ("controller strobe").Bool("on", val&1 != 0).End()
}

func (ip *InputPorts) WriteJOY2(old, val uint8) {
	if ip.frameCounter != nil {
		ip.frameCounter.Value = val
	}
}
