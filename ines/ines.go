// package ines implements a Reader for roms in the iNES file format (and its
// NES 2.0 extension), used for the distribution of NES binary programs.
package ines

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"nescore/hw/hwdefs"
)

type Rom struct {
	header
	Trainer []byte // Trainer, 512 bytes if present, or empty.
	PRG     []byte // PRG is PRG ROM data (length is multiples of 16k)
	CHR     []byte // CHR is CHR ROM data (length is multiples of 8k), empty for CHR-RAM boards
}

// Open loads a rom from file.
func Open(path string) (*Rom, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rom := new(Rom)
	if _, err := rom.ReadFrom(f); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rom, nil
}

// ReadFrom implements io.ReaderFrom interface
func (rom *Rom) ReadFrom(r io.Reader) (int64, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}

	// header
	var off int
	if err := rom.decode(buf); err != nil {
		return 0, fmt.Errorf("failed to decode header: %w", err)
	}
	off += 16

	// trainer
	if rom.HasTrainer() {
		if len(buf) < off+512 {
			return 0, fmt.Errorf("incomplete TRAINER section")
		}
		rom.Trainer = buf[off : off+512]
		off += 512
	}

	// PRG rom data
	if len(buf) < off+rom.prgsz {
		return 0, fmt.Errorf("incomplete PRG section")
	}
	rom.PRG = buf[off : off+rom.prgsz]
	off += rom.prgsz

	// CHR rom data
	if len(buf) < off+rom.chrsz {
		return 0, fmt.Errorf("incomplete CHR section")
	}
	rom.CHR = buf[off : off+rom.chrsz]
	off += rom.chrsz

	return int64(len(buf)), nil
}

// Cartridge returns what's needed to build the cartridge board.
func (rom *Rom) Cartridge() (hwdefs.Cartridge, error) {
	if rom.Mapper() > 0xFF {
		return hwdefs.Cartridge{}, fmt.Errorf("%w %d", hwdefs.ErrUnsupportedMapper, rom.Mapper())
	}
	return hwdefs.Cartridge{
		MapperID:            uint8(rom.Mapper()),
		SubMapper:           rom.SubMapper(),
		PRGRAMSize:          rom.PRGRAMSize(),
		HorizontalMirroring: rom.Mirroring() == hwdefs.HorzMirroring,
		PRG:                 rom.PRG,
		CHR:                 rom.CHR,
	}, nil
}

func (rom *Rom) String() string {
	var sb strings.Builder
	format := "iNES"
	if rom.IsNES20() {
		format = "NES 2.0"
	}
	fmt.Fprintf(&sb, "format:     %s\n", format)
	fmt.Fprintf(&sb, "mapper:     %d", rom.Mapper())
	if rom.IsNES20() {
		fmt.Fprintf(&sb, " (submapper %d)", rom.SubMapper())
	}
	sb.WriteByte('\n')
	fmt.Fprintf(&sb, "PRG-ROM:    %dKB\n", len(rom.PRG)/1024)
	if len(rom.CHR) == 0 {
		fmt.Fprintf(&sb, "CHR-RAM:    8KB\n")
	} else {
		fmt.Fprintf(&sb, "CHR-ROM:    %dKB\n", len(rom.CHR)/1024)
	}
	fmt.Fprintf(&sb, "PRG-RAM:    %dKB\n", rom.PRGRAMSize()/1024)
	fmt.Fprintf(&sb, "mirroring:  %s\n", rom.Mirroring())
	fmt.Fprintf(&sb, "battery:    %t\n", rom.HasPersistent())
	fmt.Fprintf(&sb, "trainer:    %t\n", rom.HasTrainer())
	return sb.String()
}

const Magic = "NES\x1a"

var (
	ErrShortHeader = errors.New("too small, needs 16 bytes")
	ErrMagic       = errors.New("invalid magic number")
)

func (hdr *header) decode(p []byte) error {
	if len(p) < 16 {
		return ErrShortHeader
	}
	if string(p[:4]) != Magic {
		return ErrMagic
	}
	copy(hdr.raw[:], p[:16])

	prgunits, chrunits := int(hdr.raw[4]), int(hdr.raw[5])
	if hdr.IsNES20() {
		prgmsb, chrmsb := int(hdr.raw[9]&0x0F), int(hdr.raw[9]>>4)
		if prgmsb == 0x0F || chrmsb == 0x0F {
			return fmt.Errorf("exponent-multiplier ROM sizes are not supported")
		}
		prgunits |= prgmsb << 8
		chrunits |= chrmsb << 8
	}
	hdr.prgsz = prgunits * 16384
	hdr.chrsz = chrunits * 8192
	return nil
}

type header struct {
	raw   [16]byte
	prgsz int
	chrsz int
}

// IsNES20 reports whether the header uses the NES 2.0 extensions.
func (hdr *header) IsNES20() bool {
	return hdr.raw[7]&0x0C == 0x08
}

// Has Trainer indicates the presence of a trainer section in the rom.
func (hdr *header) HasTrainer() bool {
	return hdr.raw[6]&0x04 != 0
}

// HasPersistent indicates the presence of persistent memory in the rom.
func (hdr *header) HasPersistent() bool {
	return hdr.raw[6]&0x02 != 0
}

// Mapper returns the mapper number. Old iNES dumps often have garbage in
// bytes 7-15, the upper nibble is only trusted when the header is clean.
func (hdr *header) Mapper() uint16 {
	lo := uint16(hdr.raw[6] >> 4)
	switch {
	case hdr.IsNES20():
		return uint16(hdr.raw[8]&0x0F)<<8 | uint16(hdr.raw[7]&0xF0) | lo
	case hdr.raw[12]|hdr.raw[13]|hdr.raw[14]|hdr.raw[15] != 0:
		return lo
	}
	return uint16(hdr.raw[7]&0xF0) | lo
}

func (hdr *header) SubMapper() uint8 {
	if !hdr.IsNES20() {
		return 0
	}
	return hdr.raw[8] >> 4
}

// Mirroring returns the nametable mirroring wired on the board. Boards with 4
// screens of VRAM are reported as vertical.
func (hdr *header) Mirroring() hwdefs.Mirroring {
	if hdr.raw[6]&0x01 == 0 {
		return hwdefs.HorzMirroring
	}
	return hwdefs.VertMirroring
}

// PRGRAMSize returns the size of the PRG-RAM ($6000-$7FFF). iNES headers
// don't reliably tell, 8KB is assumed.
func (hdr *header) PRGRAMSize() int {
	if !hdr.IsNES20() {
		return 0x2000
	}
	size := 0
	for _, shift := range []uint8{hdr.raw[10] & 0x0F, hdr.raw[10] >> 4} {
		if shift != 0 {
			size += 64 << shift
		}
	}
	return size
}
