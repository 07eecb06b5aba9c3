package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"nescore/emu"
	"nescore/ines"
)

// checkROM runs the test ROM at path, headless, and reports its result.
func checkROM(path string, maxFrames int, shotsDir string) emu.Report {
	start := time.Now()

	rom, err := ines.Open(path)
	if err != nil {
		return emu.NewReport(path, nil, emu.TestResult{}, err, time.Since(start))
	}
	cart, err := rom.Cartridge()
	if err != nil {
		return emu.NewReport(path, nil, emu.TestResult{}, err, time.Since(start))
	}
	nes, err := emu.PowerUp(cart)
	if err != nil {
		return emu.NewReport(path, nil, emu.TestResult{}, err, time.Since(start))
	}

	res, err := nes.RunTestROM(maxFrames)
	report := emu.NewReport(path, nes, res, err, time.Since(start))

	if shotsDir != "" {
		base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		if err := emu.SaveAsPNG(nes.PPU.Frame(), filepath.Join(shotsDir, base+".png")); err != nil {
			fmt.Fprintf(os.Stderr, "%s: screenshot: %v\n", path, err)
		}
	}
	return report
}

// checkMain runs all the test ROMs in parallel and prints a summary. It
// returns the process exit code: 0 if all ROMs passed.
func checkMain(args Check) int {
	maxFrames := args.Frames
	if maxFrames == 0 {
		maxFrames = emu.LoadConfigOrDefault().Emulation.FrameLimit
	}
	jobs := args.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	if args.Screenshots != "" {
		checkf(os.MkdirAll(args.Screenshots, 0o755), "failed to create screenshots directory")
	}

	reports := make([]emu.Report, len(args.RomPaths))

	var g errgroup.Group
	g.SetLimit(jobs)
	for i, path := range args.RomPaths {
		g.Go(func() error {
			reports[i] = checkROM(path, maxFrames, args.Screenshots)
			return nil
		})
	}
	g.Wait()

	failed := 0
	for _, r := range reports {
		if r.Status != emu.StatusPassed {
			failed++
		}
		line := fmt.Sprintf("%-8s %s (%d frames, %s)", strings.ToUpper(r.Status), r.ROM, r.Frames, r.Duration.Round(time.Millisecond))
		if r.Error != "" {
			line += ": " + r.Error
		} else if r.Status == emu.StatusFailed && r.Text != "" {
			line += ": " + r.Text
		}
		fmt.Println(line)
	}
	fmt.Printf("\n%d/%d passed\n", len(reports)-failed, len(reports))

	if args.JSON != nil {
		defer args.JSON.Close()
		if err := emu.WriteReports(args.JSON, reports); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write JSON report: %v\n", err)
			return 1
		}
	}

	if failed != 0 {
		return 1
	}
	return 0
}
