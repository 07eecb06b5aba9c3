package emu

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"nescore/emu/log"
	"nescore/hw/hwdefs"
	"nescore/ines"
)

func init() {
	log.Disable()
}

const (
	resetAddr = 0x8000
	nmiAddr   = 0x9000
)

// asm concatenates instructions.
func asm(ins ...[]byte) []byte {
	return bytes.Join(ins, nil)
}

// sta stores val at addr (LDA #val; STA addr).
func sta(addr uint16, val uint8) []byte {
	return []byte{0xA9, val, 0x8D, uint8(addr), uint8(addr >> 8)}
}

// jmp jumps to addr.
func jmp(addr uint16) []byte {
	return []byte{0x4C, uint8(addr), uint8(addr >> 8)}
}

// prgImage returns a 32KB PRG-ROM with the reset code at $8000 and the NMI
// handler at $9000.
func prgImage(code, nmi []byte) []byte {
	prg := make([]byte, 0x8000)
	copy(prg, code)
	copy(prg[nmiAddr-0x8000:], nmi)
	prg[0x7FFA], prg[0x7FFB] = nmiAddr&0xFF, nmiAddr>>8
	prg[0x7FFC], prg[0x7FFD] = resetAddr&0xFF, resetAddr>>8
	prg[0x7FFE], prg[0x7FFF] = nmiAddr&0xFF, nmiAddr>>8
	return prg
}

func testCart(code, nmi []byte) hwdefs.Cartridge {
	return hwdefs.Cartridge{
		MapperID:   0,
		PRGRAMSize: 0x2000,
		PRG:        prgImage(code, nmi),
	}
}

func powerUp(t *testing.T, code, nmi []byte) *NES {
	t.Helper()

	nes, err := PowerUp(testCart(code, nmi))
	require.NoError(t, err)
	return nes
}

// testRom returns an iNES rom (NROM, CHR-RAM) running code.
func testRom(t *testing.T, code []byte) *ines.Rom {
	t.Helper()

	buf := append([]byte(ines.Magic), 2, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0)
	buf = append(buf, prgImage(code, []byte{0x40})...)

	rom := new(ines.Rom)
	_, err := rom.ReadFrom(bytes.NewReader(buf))
	require.NoError(t, err)
	return rom
}
