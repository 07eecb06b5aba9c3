package main

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/pkg/profile"
	"github.com/veandco/go-sdl2/sdl"

	"nescore/emu"
	"nescore/emu/log"
	"nescore/ines"
	"nescore/ui"
)

// startProfile starts the profiler selected with --profile, the returned
// function stops it.
func startProfile(kind string) (stop func(), err error) {
	var mode func(*profile.Profile)
	switch kind {
	case "":
		return func() {}, nil
	case "cpu":
		mode = profile.CPUProfile
	case "mem":
		mode = profile.MemProfile
	default:
		return nil, fmt.Errorf("unknown profile %q (want cpu or mem)", kind)
	}
	p := profile.Start(mode, profile.ProfilePath("."), profile.NoShutdownHook)
	return p.Stop, nil
}

func loadConfig(args Run) (emu.Config, error) {
	var cfg emu.Config
	if args.Config == "" {
		cfg = emu.LoadConfigOrDefault()
	} else {
		var err error
		if cfg, err = emu.LoadConfig(args.Config); err != nil {
			return cfg, err
		}
	}

	if args.Monitor >= 0 {
		cfg.Video.Monitor = args.Monitor
	}
	if args.Scale > 0 {
		cfg.Video.Scale = args.Scale
	}
	if args.Shader != "" {
		cfg.Video.Shader = args.Shader
	}
	if !slices.Contains(ui.ShaderNames(), cfg.Video.Shader) {
		return cfg, fmt.Errorf("unknown shader %q, want one of %s", cfg.Video.Shader, strings.Join(ui.ShaderNames(), ", "))
	}
	if args.Turbo {
		cfg.Emulation.Turbo = true
		cfg.Video.VSync = false
	}
	if args.Trace != nil {
		cfg.TraceOut = args.Trace
	} else if cfg.Emulation.TraceFile != "" {
		f, err := os.Create(cfg.Emulation.TraceFile)
		if err != nil {
			return cfg, fmt.Errorf("trace file: %w", err)
		}
		cfg.TraceOut = f
	}
	return cfg, nil
}

// screenshotPath returns a path in the config directory for a screenshot of
// the given rom.
func screenshotPath(rompath string) string {
	base := strings.TrimSuffix(filepath.Base(rompath), filepath.Ext(rompath))
	name := fmt.Sprintf("%s-%s.png", base, time.Now().Format("20060102-150405"))
	return filepath.Join(emu.ConfigDir(), name)
}

// runMain runs the emulator in a window with the given rom. It returns the
// process exit code.
func runMain(args Run) int {
	var exitcode int
	sdl.Main(func() {
		rom, err := ines.Open(args.RomPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error reading ROM: %s\n", err)
			exitcode = 1
			return
		}

		cfg, err := loadConfig(args)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid configuration: %s\n", err)
			exitcode = 1
			return
		}
		if cfg.TraceOut != nil {
			defer cfg.TraceOut.Close()
		}
		if args.Save {
			if err := emu.SaveConfig(cfg); err != nil {
				log.ModEmu.WarnZ("failed to save config").Error("err", err).End()
			}
		}

		out, err := ui.NewOutput(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to create window: %v\n", err)
			exitcode = 1
			return
		}

		emulator, err := emu.Launch(rom, out, out.Input(), cfg)
		if err != nil {
			out.Close()
			fmt.Fprintf(os.Stderr, "failed to start emulator: %v\n", err)
			exitcode = 1
			return
		}

		out.Hotkeys = ui.Hotkeys{
			Pause: emulator.TogglePause,
			Reset: emulator.Reset,
			Screenshot: func() {
				path := screenshotPath(args.RomPath)
				if err := emulator.Screenshot(path); err != nil {
					log.ModEmu.WarnZ("screenshot failed").Error("err", err).End()
					return
				}
				log.ModEmu.InfoZ("screenshot saved").String("path", path).End()
			},
		}

		stop, err := startProfile(args.Profile)
		if err != nil {
			out.Close()
			fmt.Fprintln(os.Stderr, err)
			exitcode = 1
			return
		}
		defer stop()

		if err := emulator.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "emulation halted: %v\n", err)
			exitcode = 2
		}
	})
	return exitcode
}
