package emu

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/kirsle/configdir"

	"nescore/emu/log"
	"nescore/hw"
)

type Config struct {
	Video     VideoConfig     `toml:"video"`
	Input     InputConfig     `toml:"input"`
	Emulation EmulationConfig `toml:"emulation"`

	TraceOut io.WriteCloser `toml:"-"`
}

type VideoConfig struct {
	Scale   int    `toml:"scale"`
	VSync   bool   `toml:"vsync"`
	Monitor int32  `toml:"monitor"`
	Shader  string `toml:"shader"`
}

type EmulationConfig struct {
	// Number of frames a ROM runs for in the check command, 0 means until
	// the test status is final.
	FrameLimit int `toml:"frame_limit"`

	// Run as fast as possible, without frame pacing.
	Turbo bool `toml:"turbo"`

	// Trace file used when none is given on the command line.
	TraceFile string `toml:"trace_file"`
}

// InputConfig holds the input bindings of both controller ports.
type InputConfig struct {
	Pads [2]PadConfig `toml:"pads"`
}

// PadConfig maps each button of a controller to a host input code. Codes are
// text, "key <scancode name>", "joybtn <button> <guid>" or
// "joyaxis <axis>[+-] <guid>". An empty code leaves the button unbound.
type PadConfig struct {
	Plugged bool     `toml:"plugged"`
	Buttons PadCodes `toml:"buttons"`
}

// PadCodes are the input codes indexed by hw.Button.
type PadCodes [hw.NumButtons]string

func DefaultConfig() Config {
	return Config{
		Video: VideoConfig{
			Scale:  3,
			VSync:  true,
			Shader: "passthrough",
		},
		Input: InputConfig{
			Pads: [2]PadConfig{
				{
					Plugged: true,
					Buttons: PadCodes{
						hw.ButtonA:      "key X",
						hw.ButtonB:      "key Z",
						hw.ButtonSelect: "key Right Shift",
						hw.ButtonStart:  "key Return",
						hw.ButtonUp:     "key Up",
						hw.ButtonDown:   "key Down",
						hw.ButtonLeft:   "key Left",
						hw.ButtonRight:  "key Right",
					},
				},
			},
		},
		Emulation: EmulationConfig{
			FrameLimit: 60 * 60,
		},
	}
}

// ConfigDir returns the nescore configuration directory, creating it if
// needed.
var ConfigDir = sync.OnceValue(func() string {
	dir := configdir.LocalConfig("nescore")
	if err := configdir.MakePath(dir); err != nil {
		log.ModEmu.Fatalf("failed to create directory %s: %v", dir, err)
	}
	return dir
})

const cfgFilename = "config.toml"

// LoadConfig reads the configuration at path. Settings missing from the file
// keep their default value.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return DefaultConfig(), err
	}
	cfg.check()
	return cfg, nil
}

// LoadConfigOrDefault loads the configuration from the nescore config
// directory, or provides the default one.
func LoadConfigOrDefault() Config {
	path := filepath.Join(ConfigDir(), cfgFilename)
	cfg, err := LoadConfig(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.ModEmu.WarnZ("invalid config, using default").
				String("path", path).
				Error("err", err).
				End()
		}
		return DefaultConfig()
	}
	return cfg
}

// WriteConfig writes cfg at path.
func WriteConfig(path string, cfg Config) error {
	buf, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, buf, 0o644)
}

// SaveConfig into the nescore config directory.
func SaveConfig(cfg Config) error {
	return WriteConfig(filepath.Join(ConfigDir(), cfgFilename), cfg)
}

func (cfg *Config) check() {
	if cfg.Video.Scale < 1 {
		log.ModEmu.Warnf("invalid video scale %d, fallback to 1", cfg.Video.Scale)
		cfg.Video.Scale = 1
	}
	if cfg.Emulation.FrameLimit < 0 {
		cfg.Emulation.FrameLimit = 0
	}
}
