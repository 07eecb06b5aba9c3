package ui

import (
	"github.com/veandco/go-sdl2/sdl"

	"nescore/emu/log"
)

// Threshold above which an axis is considered as 'pressed', axis values
// go from -32768 to 32767.
const JoyAxisThreshold = 16000

// axisPressed reports whether axis value v is pushed far enough in the
// direction dir (1 or -1).
func axisPressed(v, dir int16) bool {
	return int32(v)*int32(dir) >= JoyAxisThreshold
}

// GameControllers tracks the connected game controllers. UpdateDevices
// must be called for each controller device event in order to remain in
// sync.
type GameControllers struct {
	guids map[string]*sdl.GameController         // GUID -> controller
	ids   map[sdl.JoystickID]*sdl.GameController // joystick ID -> controller
}

// NewGameControllers opens all the connected game controllers. It must be
// called from the SDL thread.
func NewGameControllers() *GameControllers {
	gcs := GameControllers{
		guids: make(map[string]*sdl.GameController),
		ids:   make(map[sdl.JoystickID]*sdl.GameController),
	}
	for i := range sdl.NumJoysticks() {
		if sdl.IsGameController(i) {
			gcs.open(i)
		}
	}
	return &gcs
}

func (gcs *GameControllers) open(idx int) {
	c := sdl.GameControllerOpen(idx)
	if c == nil {
		log.ModInput.WarnZ("failed to open controller").Int("index", idx).End()
		return
	}
	joy := c.Joystick()
	guid := sdl.JoystickGetGUIDString(joy.GUID())
	id := joy.InstanceID()
	gcs.guids[guid] = c
	gcs.ids[id] = c

	log.ModInput.InfoZ("added controller").
		Int("id", int(id)).
		String("guid", guid).
		String("name", c.Name()).
		End()
}

func (gcs *GameControllers) byGUID(guid string) *sdl.GameController {
	return gcs.guids[guid]
}

func (gcs *GameControllers) UpdateDevices(e sdl.ControllerDeviceEvent) {
	switch e.Type {
	case sdl.CONTROLLERDEVICEADDED:
		gcs.open(int(e.Which))

	case sdl.CONTROLLERDEVICEREMOVED:
		c := gcs.ids[e.Which]
		if c == nil {
			log.ModInput.WarnZ("removed controller not found").Int("id", int(e.Which)).End()
			return
		}
		guid := sdl.JoystickGetGUIDString(c.Joystick().GUID())
		delete(gcs.guids, guid)
		delete(gcs.ids, e.Which)
		c.Close()

		log.ModInput.InfoZ("removed controller").
			Int("id", int(e.Which)).
			String("guid", guid).
			End()
	}
}

func (gcs *GameControllers) Close() {
	for _, c := range gcs.ids {
		c.Close()
	}
	clear(gcs.guids)
	clear(gcs.ids)
}
