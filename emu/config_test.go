package emu

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"nescore/hw"
)

func TestConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), cfgFilename)

	want := DefaultConfig()
	want.Video.Scale = 2
	want.Video.Shader = "crt"
	want.Input.Pads[1].Plugged = true
	want.Input.Pads[1].Buttons[hw.ButtonStart] = "joybtn start 030000004c050000cc0900"
	want.Emulation.FrameLimit = 100

	require.NoError(t, WriteConfig(path, want))
	got, err := LoadConfig(path)
	require.NoError(t, err)

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LoadConfig mismatch (-want +got):\n%s", diff)
	}
}

func TestConfigPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), cfgFilename)
	const partial = `
[video]
scale = 0

[emulation]
turbo = true
`
	require.NoError(t, os.WriteFile(path, []byte(partial), 0o644))

	got, err := LoadConfig(path)
	require.NoError(t, err)

	want := DefaultConfig()
	want.Video.Scale = 1 // invalid, fixed
	want.Emulation.Turbo = true
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LoadConfig mismatch (-want +got):\n%s", diff)
	}
}

func TestConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), cfgFilename)
	require.NoError(t, os.WriteFile(path, []byte("[video\nscale = "), 0o644))

	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if got := filepath.Base(dir); got != "nescore" {
		t.Errorf("ConfigDir() = %s, want a nescore directory", dir)
	}
	fi, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("config directory not created: %v", err)
	}
	if !fi.IsDir() {
		t.Errorf("%s is not a directory", dir)
	}
	if again := ConfigDir(); again != dir {
		t.Errorf("ConfigDir() changed from %s to %s", dir, again)
	}
}
