package hw

import (
	"fmt"
	"strings"
)

type DisasmOp struct {
	Opcode string
	Oper   string
	Buf    []byte
	PC     uint16
}

// String formats the instruction the way nestest logs do:
//
//	C000  4C F5 C5  JMP $C5F5
func (d DisasmOp) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%04X  ", d.PC)
	for i := range 3 {
		if i < len(d.Buf) {
			fmt.Fprintf(&sb, "%02X ", d.Buf[i])
		} else {
			sb.WriteString("   ")
		}
	}
	sb.WriteByte(' ')
	sb.WriteString(d.Opcode)
	if d.Oper != "" {
		sb.WriteByte(' ')
		sb.WriteString(d.Oper)
	}
	return sb.String()
}

// Disasm disassembles the instruction at pc, without side effects.
func (c *CPU) Disasm(pc uint16) DisasmOp {
	opcode := c.Bus.Peek8(pc)
	op := &opcodes[opcode]

	d := DisasmOp{PC: pc, Opcode: op.name, Buf: []byte{opcode}}
	if op.name == "" {
		d.Opcode = "???"
		return d
	}
	for i := range op.mode.Size() {
		d.Buf = append(d.Buf, c.Bus.Peek8(pc+1+uint16(i)))
	}

	var (
		b8  uint8
		b16 uint16
	)
	if len(d.Buf) > 1 {
		b8 = d.Buf[1]
		b16 = uint16(b8)
	}
	if len(d.Buf) > 2 {
		b16 |= uint16(d.Buf[2]) << 8
	}

	switch op.mode {
	case Accumulator:
		d.Oper = "A"
	case Immediate:
		d.Oper = fmt.Sprintf("#$%02X", b8)
	case ZeroPage:
		d.Oper = fmt.Sprintf("$%02X", b8)
	case ZeroPageX:
		d.Oper = fmt.Sprintf("$%02X,X", b8)
	case ZeroPageY:
		d.Oper = fmt.Sprintf("$%02X,Y", b8)
	case Absolute:
		d.Oper = formatAddr(b16)
	case AbsoluteX:
		d.Oper = formatAddr(b16) + ",X"
	case AbsoluteY:
		d.Oper = formatAddr(b16) + ",Y"
	case Indirect:
		d.Oper = fmt.Sprintf("($%04X)", b16)
	case IndirectX:
		d.Oper = fmt.Sprintf("($%02X,X)", b8)
	case IndirectY:
		d.Oper = fmt.Sprintf("($%02X),Y", b8)
	case Relative:
		d.Oper = fmt.Sprintf("$%04X", pc+2+uint16(int8(b8)))
	}
	return d
}

var addressLabels = map[uint16]string{
	0x2000: "PpuControl_2000",
	0x2001: "PpuMask_2001",
	0x2002: "PpuStatus_2002",
	0x2003: "OamAddr_2003",
	0x2004: "OamData_2004",
	0x2005: "PpuScroll_2005",
	0x2006: "PpuAddr_2006",
	0x2007: "PpuData_2007",
	0x4014: "SpriteDma_4014",
	0x4015: "ApuStatus_4015",
	0x4016: "Ctrl1_4016",
	0x4017: "Ctrl2_FrameCtr_4017",
}

func formatAddr(addr uint16) string {
	if label, ok := addressLabels[addr]; ok {
		return label
	}
	return fmt.Sprintf("$%04X", addr)
}
