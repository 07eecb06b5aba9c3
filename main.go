package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"nescore/ines"
)

func main() {
	cli := parseArgs(os.Args[1:])

	switch cli.mode {
	case runMode:
		os.Exit(runMain(cli.Run))
	case checkMode:
		os.Exit(checkMain(cli.Check))
	case romInfosMode:
		rom, err := ines.Open(cli.RomInfos.RomPath)
		checkf(err, "failed to open rom")
		fmt.Print(rom)
	case versionMode:
		printVersion()
	}
}

func printVersion() {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		fmt.Println("nescore (unknown version)")
		return
	}
	version := bi.Main.Version
	if version == "" {
		version = "(devel)"
	}
	fmt.Printf("nescore %s %s\n", version, bi.GoVersion)
	for _, s := range bi.Settings {
		if s.Key == "vcs.revision" || s.Key == "vcs.time" {
			fmt.Printf("  %s: %s\n", s.Key, s.Value)
		}
	}
}
