package emu

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"nescore/hw"
	"nescore/hw/hwdefs"
)

func turbo() Config {
	cfg := DefaultConfig()
	cfg.Emulation.Turbo = true
	cfg.Video.VSync = false
	return cfg
}

func TestEmulatorRun(t *testing.T) {
	out := &Headless{MaxFrames: 3}
	e, err := Launch(testRom(t, jmp(resetAddr)), out, nil, turbo())
	require.NoError(t, err)

	require.NoError(t, e.Run())
	if diff := cmp.Diff(3, out.Frames()); diff != "" {
		t.Errorf("out.Frames() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(int64(3), e.NES.Frames); diff != "" {
		t.Errorf("e.NES.Frames mismatch (-want +got):\n%s", diff)
	}
	if out.Last() != e.NES.PPU.Frame() {
		t.Errorf("out.Last() is not the PPU frame")
	}
}

func TestEmulatorHalts(t *testing.T) {
	out := &Headless{MaxFrames: 3}
	code := []byte{0xAD, 0x18, 0x40} // LDA $4018
	e, err := Launch(testRom(t, code), out, nil, turbo())
	require.NoError(t, err)

	require.ErrorIs(t, e.Run(), hwdefs.ErrBusFault)
	if diff := cmp.Diff(0, out.Frames()); diff != "" {
		t.Errorf("out.Frames() mismatch (-want +got):\n%s", diff)
	}
}

func TestEmulatorStop(t *testing.T) {
	out := &Headless{}
	e, err := Launch(testRom(t, jmp(resetAddr)), out, nil, turbo())
	require.NoError(t, err)

	go func() {
		time.Sleep(50 * time.Millisecond)
		e.Stop()
	}()
	require.NoError(t, e.Run())
}

type pressA struct{}

func (pressA) Update(pads *[2]hw.Controller) {
	pads[0].A = true
}

func TestEmulatorInput(t *testing.T) {
	code := asm(
		sta(0x4016, 1),
		sta(0x4016, 0),
		[]byte{0xAD, 0x16, 0x40}, // LDA $4016
		[]byte{0x85, 0x00},       // STA $00
		jmp(resetAddr+15),
	)
	out := &Headless{MaxFrames: 1}
	e, err := Launch(testRom(t, code), out, pressA{}, turbo())
	require.NoError(t, err)

	require.NoError(t, e.Run())
	if diff := cmp.Diff(uint8(1), e.NES.Peek8(0x0000)&1); diff != "" {
		t.Errorf("e.NES.Peek8(0x0000)&1 mismatch (-want +got):\n%s", diff)
	}
}

func TestEmulatorTrace(t *testing.T) {
	var sb strings.Builder
	cfg := turbo()
	cfg.TraceOut = nopCloser{&sb}

	out := &Headless{MaxFrames: 1}
	e, err := Launch(testRom(t, jmp(resetAddr)), out, nil, cfg)
	require.NoError(t, err)
	require.NoError(t, e.Run())

	first, _, _ := strings.Cut(sb.String(), "\n")
	if !strings.HasPrefix(first, "8000  4C 00 80  JMP $8000") {
		t.Errorf("first trace line = %q, want JMP $8000 at $8000", first)
	}
}

type nopCloser struct{ *strings.Builder }

func (nopCloser) Close() error { return nil }

func TestSaveAsPNG(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, hw.Width, hw.Height))
	img.Set(10, 20, color.RGBA{R: 0x12, G: 0x34, B: 0x56, A: 0xFF})

	path := filepath.Join(t.TempDir(), "frame.png")
	require.NoError(t, SaveAsPNG(img, path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	got, err := png.Decode(f)
	require.NoError(t, err)

	if diff := cmp.Diff(img.Bounds(), got.Bounds()); diff != "" {
		t.Errorf("got.Bounds() mismatch (-want +got):\n%s", diff)
	}
	r, g, b, a := got.At(10, 20).RGBA()
	if diff := cmp.Diff([4]uint32{0x1212, 0x3434, 0x5656, 0xFFFF}, [4]uint32{r, g, b, a}); diff != "" {
		t.Errorf("pixel mismatch (-want +got):\n%s", diff)
	}
}
