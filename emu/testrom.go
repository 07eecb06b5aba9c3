package emu

import (
	"errors"
	"fmt"
	"strings"

	"nescore/emu/log"
	"nescore/hw/hwdefs"
)

// Test ROMs following blargg's convention report their progress in PRG-RAM:
//
//	$6000      status: $80 running, $81 needs a reset, below $80 final result
//	$6001-6003 signature DE B0 61, status is only valid once it's there
//	$6004-     zero-terminated text output
const (
	statusAddr = 0x6000
	magicAddr  = 0x6001
	textAddr   = 0x6004

	statusRunning    = 0x80
	statusNeedsReset = 0x81
)

var testMagic = [3]uint8{0xDE, 0xB0, 0x61}

// ErrTestTimeout is returned when a test ROM has not reported a final status
// before the frame limit.
var ErrTestTimeout = errors.New("test rom timeout")

// TestResult is the final status of a test ROM.
type TestResult struct {
	Code   uint8  // 0 means success
	Text   string // text output, trimmed
	Frames int64  // frames it took
}

func (r TestResult) Passed() bool { return r.Code == 0 }

func (r TestResult) String() string {
	if r.Passed() {
		return fmt.Sprintf("passed after %d frames", r.Frames)
	}
	return fmt.Sprintf("failed with code %d after %d frames: %s", r.Code, r.Frames, r.Text)
}

// TestStatus returns the test ROM status byte. ok is false when the ROM
// hasn't (yet) written the signature.
func (nes *NES) TestStatus() (status uint8, ok bool) {
	for i, b := range testMagic {
		if nes.Peek8(magicAddr+uint16(i)) != b {
			return 0, false
		}
	}
	return nes.Peek8(statusAddr), true
}

// TestText returns the text output of a test ROM.
func (nes *NES) TestText() string {
	var sb strings.Builder
	for addr := uint16(textAddr); addr < 0x8000; addr++ {
		c := nes.Peek8(addr)
		if c == 0 {
			break
		}
		sb.WriteByte(c)
	}
	return strings.TrimSpace(sb.String())
}

// Frames to wait before honoring a reset request, the protocol asks for at
// least 100ms.
const resetDelay = 6

// RunTestROM runs a test ROM until it reports a final status, at most
// maxFrames frames (0 means no limit). Reset requests are honored.
func (nes *NES) RunTestROM(maxFrames int) (TestResult, error) {
	resetAt := int64(-1)
	for maxFrames == 0 || nes.Frames < int64(maxFrames) {
		if err := nes.RunOneFrame(); err != nil {
			return TestResult{}, err
		}

		status, ok := nes.TestStatus()
		switch {
		case !ok, status == statusRunning:
		case status == statusNeedsReset:
			if resetAt < 0 {
				resetAt = nes.Frames + resetDelay
			}
			if nes.Frames >= resetAt {
				log.ModEmu.InfoZ("test rom requested reset").Int64("frame", nes.Frames).End()
				nes.Reset(hwdefs.SoftReset)
				resetAt = -1
			}
		default:
			return TestResult{
				Code:   status,
				Text:   nes.TestText(),
				Frames: nes.Frames,
			}, nil
		}
	}
	return TestResult{Text: nes.TestText(), Frames: nes.Frames}, ErrTestTimeout
}
