package hw

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestOpcodeTable(t *testing.T) {
	count := 0
	for i, op := range opcodes {
		if op.name == "" {
			if op.op != nil {
				t.Errorf("opcode %02X has an operation but no name", i)
			}
			continue
		}
		count++
	}

	// The 151 documented 6502 opcodes.
	if count != 151 {
		t.Errorf("got %d opcodes, want 151", count)
	}
}

// Every manual opcode must be handled by execManual.
func TestManualOpcodesImplemented(t *testing.T) {
	for i, op := range opcodes {
		if op.name == "" || op.op != nil {
			continue
		}
		cpu, m := newTestCPU(t)
		load(cpu, m, 0x8000, uint8(i), 0x00, 0x02)
		if _, err := cpu.Step(); err != nil {
			t.Errorf("%s (%02X): %v", op.name, i, err)
		}
	}
}

func TestDisasm(t *testing.T) {
	cpu, m := newTestCPU(t)
	copy(m.prg[0xC000:], []uint8{
		0xA9, 0x32, // LDA #$32
		0x8D, 0x00, 0x20, // STA PpuControl_2000
		0xB1, 0x10, // LDA ($10),Y
		0xD0, 0xFC, // BNE $C005
		0x6C, 0x34, 0x12, // JMP ($1234)
		0x0A, // ASL A
		0x02, // illegal
	})

	want := []string{
		"C000  A9 32     LDA #$32",
		"C002  8D 00 20  STA PpuControl_2000",
		"C005  B1 10     LDA ($10),Y",
		"C007  D0 FC     BNE $C005",
		"C009  6C 34 12  JMP ($1234)",
		"C00C  0A        ASL A",
		"C00D  02        ???",
	}

	var got []string
	pc := uint16(0xC000)
	for range want {
		d := cpu.Disasm(pc)
		got = append(got, d.String())
		pc += uint16(len(d.Buf))
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("disasm mismatch (-want +got):\n%s", diff)
	}
}
