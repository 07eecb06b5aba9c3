package emu

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"nescore/hw"
	"nescore/hw/hwdefs"
)

func TestPowerUpUnsupportedMapper(t *testing.T) {
	cart := testCart(nil, nil)
	cart.MapperID = 4

	_, err := PowerUp(cart)
	require.ErrorIs(t, err, hwdefs.ErrUnsupportedMapper)
}

func TestPowerUp(t *testing.T) {
	nes := powerUp(t, jmp(resetAddr), nil)

	if diff := cmp.Diff(uint16(resetAddr), nes.CPU.PC); diff != "" {
		t.Errorf("nes.CPU.PC mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(uint8(0xFD), nes.CPU.S); diff != "" {
		t.Errorf("nes.CPU.S mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(int64(7), nes.CPU.Count); diff != "" {
		t.Errorf("nes.CPU.Count mismatch (-want +got):\n%s", diff)
	}
}

func TestRunOneFrame(t *testing.T) {
	nes := powerUp(t, jmp(resetAddr), nil)

	require.NoError(t, nes.RunOneFrame())
	if diff := cmp.Diff(int64(1), nes.Frames); diff != "" {
		t.Errorf("nes.Frames mismatch (-want +got):\n%s", diff)
	}

	// 7 reset cycles followed by 3-cycle jumps, the last one ends 1 cycle
	// into the next frame.
	if diff := cmp.Diff(int64(1), nes.CPU.Count); diff != "" {
		t.Errorf("nes.CPU.Count mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(int64(hw.FrameCycles+1), nes.CPU.Cycles); diff != "" {
		t.Errorf("nes.CPU.Cycles mismatch (-want +got):\n%s", diff)
	}

	require.NoError(t, nes.RunFrames(2))
	if diff := cmp.Diff(int64(3), nes.Frames); diff != "" {
		t.Errorf("nes.Frames mismatch (-want +got):\n%s", diff)
	}
}

func TestNMIEachFrame(t *testing.T) {
	code := asm(
		sta(0x2000, 0x80), // enable NMI
		jmp(resetAddr+5),
	)
	nmi := []byte{
		0xE6, 0x00, // INC $00
		0x40, // RTI
	}
	nes := powerUp(t, code, nmi)

	// NMI is enabled after the first vertical blank.
	require.NoError(t, nes.RunFrames(3))
	if diff := cmp.Diff(uint8(2), nes.Peek8(0x0000)); diff != "" {
		t.Errorf("nes.Peek8(0x0000) mismatch (-want +got):\n%s", diff)
	}
}

func TestOAMDMAFromFrameLoop(t *testing.T) {
	code := asm(
		sta(0x0200, 0xAB),
		sta(0x4014, 0x02),
		jmp(resetAddr+10),
	)
	nes := powerUp(t, code, nil)

	require.NoError(t, nes.RunOneFrame())
	if diff := cmp.Diff(uint8(0xAB), nes.PPU.OAM[0]); diff != "" {
		t.Errorf("nes.PPU.OAM[0] mismatch (-want +got):\n%s", diff)
	}
}

func TestFaultHaltsMachine(t *testing.T) {
	code := []byte{0xAD, 0x18, 0x40} // LDA $4018
	nes := powerUp(t, code, nil)

	err := nes.RunOneFrame()
	require.ErrorIs(t, err, hwdefs.ErrBusFault)
	if !nes.CPU.IsHalted() {
		t.Errorf("nes.CPU.IsHalted() = false, want true")
	}
	if diff := cmp.Diff(int64(0), nes.Frames); diff != "" {
		t.Errorf("nes.Frames mismatch (-want +got):\n%s", diff)
	}

	var fault *hwdefs.Fault
	require.ErrorAs(t, err, &fault)
	if diff := cmp.Diff(uint16(0x4018), fault.Addr); diff != "" {
		t.Errorf("fault.Addr mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(uint16(resetAddr), fault.PC); diff != "" {
		t.Errorf("fault.PC mismatch (-want +got):\n%s", diff)
	}

	if err2 := nes.RunOneFrame(); err2 != err {
		t.Errorf("RunOneFrame() after halt = %v, want %v", err2, err)
	}
}

func TestPeekUndecoded(t *testing.T) {
	cart := testCart(jmp(resetAddr), nil)
	cart.PRGRAMSize = 0
	nes, err := PowerUp(cart)
	require.NoError(t, err)

	// No PRG-RAM, the cartridge doesn't decode $6000.
	if diff := cmp.Diff(uint8(0), nes.Peek8(0x6000)); diff != "" {
		t.Errorf("nes.Peek8(0x6000) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(uint8(0x4C), nes.Peek8(resetAddr)); diff != "" {
		t.Errorf("nes.Peek8(resetAddr) mismatch (-want +got):\n%s", diff)
	}
}
