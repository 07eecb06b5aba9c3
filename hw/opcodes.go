package hw

import (
	"nescore/hw/hwdefs"
	"nescore/hw/hwio"
)

type opcode struct {
	name string
	op   func(*CPU, Operand) // nil for instructions executed by CPU.execManual
	mode AddrMode

	extra int64 // cycles added to the addressing mode cost
	page  bool  // crossing a page costs one cycle
}

// Extra cycles of read-modify-write instructions operating on memory.
const (
	rmw     = 2
	rmwAbsX = 3
)

// opcodes is indexed by opcode. Unofficial opcodes have no name.
var opcodes = [256]opcode{
	// ADC
	0x69: {"ADC", ADC, Immediate, 0, true},
	0x65: {"ADC", ADC, ZeroPage, 0, true},
	0x75: {"ADC", ADC, ZeroPageX, 0, true},
	0x6D: {"ADC", ADC, Absolute, 0, true},
	0x7D: {"ADC", ADC, AbsoluteX, 0, true},
	0x79: {"ADC", ADC, AbsoluteY, 0, true},
	0x61: {"ADC", ADC, IndirectX, 0, true},
	0x71: {"ADC", ADC, IndirectY, 0, true},

	// AND
	0x29: {"AND", AND, Immediate, 0, true},
	0x25: {"AND", AND, ZeroPage, 0, true},
	0x35: {"AND", AND, ZeroPageX, 0, true},
	0x2D: {"AND", AND, Absolute, 0, true},
	0x3D: {"AND", AND, AbsoluteX, 0, true},
	0x39: {"AND", AND, AbsoluteY, 0, true},
	0x21: {"AND", AND, IndirectX, 0, true},
	0x31: {"AND", AND, IndirectY, 0, true},

	// CMP
	0xC9: {"CMP", CMP, Immediate, 0, true},
	0xC5: {"CMP", CMP, ZeroPage, 0, true},
	0xD5: {"CMP", CMP, ZeroPageX, 0, true},
	0xCD: {"CMP", CMP, Absolute, 0, true},
	0xDD: {"CMP", CMP, AbsoluteX, 0, true},
	0xD9: {"CMP", CMP, AbsoluteY, 0, true},
	0xC1: {"CMP", CMP, IndirectX, 0, true},
	0xD1: {"CMP", CMP, IndirectY, 0, true},

	// EOR
	0x49: {"EOR", EOR, Immediate, 0, true},
	0x45: {"EOR", EOR, ZeroPage, 0, true},
	0x55: {"EOR", EOR, ZeroPageX, 0, true},
	0x4D: {"EOR", EOR, Absolute, 0, true},
	0x5D: {"EOR", EOR, AbsoluteX, 0, true},
	0x59: {"EOR", EOR, AbsoluteY, 0, true},
	0x41: {"EOR", EOR, IndirectX, 0, true},
	0x51: {"EOR", EOR, IndirectY, 0, true},

	// LDA
	0xA9: {"LDA", LDA, Immediate, 0, true},
	0xA5: {"LDA", LDA, ZeroPage, 0, true},
	0xB5: {"LDA", LDA, ZeroPageX, 0, true},
	0xAD: {"LDA", LDA, Absolute, 0, true},
	0xBD: {"LDA", LDA, AbsoluteX, 0, true},
	0xB9: {"LDA", LDA, AbsoluteY, 0, true},
	0xA1: {"LDA", LDA, IndirectX, 0, true},
	0xB1: {"LDA", LDA, IndirectY, 0, true},

	// ORA
	0x09: {"ORA", ORA, Immediate, 0, true},
	0x05: {"ORA", ORA, ZeroPage, 0, true},
	0x15: {"ORA", ORA, ZeroPageX, 0, true},
	0x0D: {"ORA", ORA, Absolute, 0, true},
	0x1D: {"ORA", ORA, AbsoluteX, 0, true},
	0x19: {"ORA", ORA, AbsoluteY, 0, true},
	0x01: {"ORA", ORA, IndirectX, 0, true},
	0x11: {"ORA", ORA, IndirectY, 0, true},

	// SBC
	0xE9: {"SBC", SBC, Immediate, 0, true},
	0xE5: {"SBC", SBC, ZeroPage, 0, true},
	0xF5: {"SBC", SBC, ZeroPageX, 0, true},
	0xED: {"SBC", SBC, Absolute, 0, true},
	0xFD: {"SBC", SBC, AbsoluteX, 0, true},
	0xF9: {"SBC", SBC, AbsoluteY, 0, true},
	0xE1: {"SBC", SBC, IndirectX, 0, true},
	0xF1: {"SBC", SBC, IndirectY, 0, true},

	// LDX, LDY
	0xA2: {"LDX", LDX, Immediate, 0, true},
	0xA6: {"LDX", LDX, ZeroPage, 0, true},
	0xB6: {"LDX", LDX, ZeroPageY, 0, true},
	0xAE: {"LDX", LDX, Absolute, 0, true},
	0xBE: {"LDX", LDX, AbsoluteY, 0, true},
	0xA0: {"LDY", LDY, Immediate, 0, true},
	0xA4: {"LDY", LDY, ZeroPage, 0, true},
	0xB4: {"LDY", LDY, ZeroPageX, 0, true},
	0xAC: {"LDY", LDY, Absolute, 0, true},
	0xBC: {"LDY", LDY, AbsoluteX, 0, true},

	// CPX, CPY, BIT
	0xE0: {"CPX", CPX, Immediate, 0, true},
	0xE4: {"CPX", CPX, ZeroPage, 0, true},
	0xEC: {"CPX", CPX, Absolute, 0, true},
	0xC0: {"CPY", CPY, Immediate, 0, true},
	0xC4: {"CPY", CPY, ZeroPage, 0, true},
	0xCC: {"CPY", CPY, Absolute, 0, true},
	0x24: {"BIT", BIT, ZeroPage, 0, true},
	0x2C: {"BIT", BIT, Absolute, 0, true},

	// Stores never pay the page crossing penalty, indexed stores always
	// take the extra cycle.
	0x85: {"STA", STA, ZeroPage, 0, false},
	0x95: {"STA", STA, ZeroPageX, 0, false},
	0x8D: {"STA", STA, Absolute, 0, false},
	0x9D: {"STA", STA, AbsoluteX, 1, false},
	0x99: {"STA", STA, AbsoluteY, 1, false},
	0x81: {"STA", STA, IndirectX, 0, false},
	0x91: {"STA", STA, IndirectY, 1, false},
	0x86: {"STX", STX, ZeroPage, 0, false},
	0x96: {"STX", STX, ZeroPageY, 0, false},
	0x8E: {"STX", STX, Absolute, 0, false},
	0x84: {"STY", STY, ZeroPage, 0, false},
	0x94: {"STY", STY, ZeroPageX, 0, false},
	0x8C: {"STY", STY, Absolute, 0, false},

	// Shifts and rotates
	0x0A: {"ASL", ASL, Accumulator, 2, false},
	0x06: {"ASL", ASL, ZeroPage, rmw, false},
	0x16: {"ASL", ASL, ZeroPageX, rmw, false},
	0x0E: {"ASL", ASL, Absolute, rmw, false},
	0x1E: {"ASL", ASL, AbsoluteX, rmwAbsX, false},
	0x4A: {"LSR", LSR, Accumulator, 2, false},
	0x46: {"LSR", LSR, ZeroPage, rmw, false},
	0x56: {"LSR", LSR, ZeroPageX, rmw, false},
	0x4E: {"LSR", LSR, Absolute, rmw, false},
	0x5E: {"LSR", LSR, AbsoluteX, rmwAbsX, false},
	0x2A: {"ROL", ROL, Accumulator, 2, false},
	0x26: {"ROL", ROL, ZeroPage, rmw, false},
	0x36: {"ROL", ROL, ZeroPageX, rmw, false},
	0x2E: {"ROL", ROL, Absolute, rmw, false},
	0x3E: {"ROL", ROL, AbsoluteX, rmwAbsX, false},
	0x6A: {"ROR", ROR, Accumulator, 2, false},
	0x66: {"ROR", ROR, ZeroPage, rmw, false},
	0x76: {"ROR", ROR, ZeroPageX, rmw, false},
	0x6E: {"ROR", ROR, Absolute, rmw, false},
	0x7E: {"ROR", ROR, AbsoluteX, rmwAbsX, false},

	// Increments and decrements
	0xE6: {"INC", INC, ZeroPage, rmw, false},
	0xF6: {"INC", INC, ZeroPageX, rmw, false},
	0xEE: {"INC", INC, Absolute, rmw, false},
	0xFE: {"INC", INC, AbsoluteX, rmwAbsX, false},
	0xC6: {"DEC", DEC, ZeroPage, rmw, false},
	0xD6: {"DEC", DEC, ZeroPageX, rmw, false},
	0xCE: {"DEC", DEC, Absolute, rmw, false},
	0xDE: {"DEC", DEC, AbsoluteX, rmwAbsX, false},
	0xE8: {"INX", INC, RegisterX, 2, false},
	0xC8: {"INY", INC, RegisterY, 2, false},
	0xCA: {"DEX", DEC, RegisterX, 2, false},
	0x88: {"DEY", DEC, RegisterY, 2, false},

	// Executed by execManual.
	0x00: {name: "BRK", mode: Implied},
	0x08: {name: "PHP", mode: Implied},
	0x28: {name: "PLP", mode: Implied},
	0x48: {name: "PHA", mode: Implied},
	0x68: {name: "PLA", mode: Implied},
	0x18: {name: "CLC", mode: Implied},
	0x38: {name: "SEC", mode: Implied},
	0x58: {name: "CLI", mode: Implied},
	0x78: {name: "SEI", mode: Implied},
	0xB8: {name: "CLV", mode: Implied},
	0xD8: {name: "CLD", mode: Implied},
	0xF8: {name: "SED", mode: Implied},
	0xAA: {name: "TAX", mode: Implied},
	0xA8: {name: "TAY", mode: Implied},
	0x8A: {name: "TXA", mode: Implied},
	0x98: {name: "TYA", mode: Implied},
	0xBA: {name: "TSX", mode: Implied},
	0x9A: {name: "TXS", mode: Implied},
	0xEA: {name: "NOP", mode: Implied},
	0x20: {name: "JSR", mode: Absolute},
	0x60: {name: "RTS", mode: Implied},
	0x40: {name: "RTI", mode: Implied},
	0x4C: {name: "JMP", mode: Absolute},
	0x6C: {name: "JMP", mode: Indirect},
	0x10: {name: "BPL", mode: Relative},
	0x30: {name: "BMI", mode: Relative},
	0x50: {name: "BVC", mode: Relative},
	0x70: {name: "BVS", mode: Relative},
	0x90: {name: "BCC", mode: Relative},
	0xB0: {name: "BCS", mode: Relative},
	0xD0: {name: "BNE", mode: Relative},
	0xF0: {name: "BEQ", mode: Relative},
}

// exec executes the instruction for the given opcode, PC points to the byte
// following the opcode.
func (c *CPU) exec(opcode uint8) error {
	op := &opcodes[opcode]
	if op.op == nil {
		return c.execManual(opcode)
	}

	o := c.operand(op.mode, op.page)
	op.op(c, o)
	c.Count += op.extra
	return nil
}

// execManual executes the instructions that don't fit the operand/operation
// scheme: stack, flags, transfers, branches and jumps.
func (c *CPU) execManual(opcode uint8) error {
	switch opcode {
	case 0x00: // BRK
		c.push16(c.PC + 1)
		c.push8(c.GetP() | Break)
		c.P.setFlag(Interrupt, true)
		c.PC = c.read16(IRQVector)
		c.Count += 7

	// Stack
	case 0x08: // PHP
		c.push8(c.GetP() | Break)
		c.Count += 3
	case 0x28: // PLP
		c.SetP(c.pull8())
		c.Count += 4
	case 0x48: // PHA
		c.push8(c.A)
		c.Count += 3
	case 0x68: // PLA
		c.A = c.pull8()
		c.P.checkNZ(c.A)
		c.Count += 4

	// Flags
	case 0x18: // CLC
		c.flagOp(Carry, false)
	case 0x38: // SEC
		c.flagOp(Carry, true)
	case 0x58: // CLI
		c.flagOp(Interrupt, false)
	case 0x78: // SEI
		c.flagOp(Interrupt, true)
	case 0xB8: // CLV
		c.flagOp(Overflow, false)
	case 0xD8: // CLD
		c.flagOp(Decimal, false)
	case 0xF8: // SED
		c.flagOp(Decimal, true)

	// Transfers
	case 0xAA: // TAX
		c.X = c.transfer(c.A)
	case 0xA8: // TAY
		c.Y = c.transfer(c.A)
	case 0x8A: // TXA
		c.A = c.transfer(c.X)
	case 0x98: // TYA
		c.A = c.transfer(c.Y)
	case 0xBA: // TSX
		c.X = c.transfer(c.S)
	case 0x9A: // TXS
		c.S = c.X
		c.Count += 2

	case 0xEA: // NOP
		c.Count += 2

	// Jumps
	case 0x20: // JSR
		addr := c.read16(c.PC)
		c.push16(c.PC + 1)
		c.PC = addr
		c.Count += 6
	case 0x60: // RTS
		c.PC = c.pull16() + 1
		c.Count += 6
	case 0x40: // RTI
		c.SetP(c.pull8())
		c.PC = c.pull16()
		c.Count += 6
	case 0x4C: // JMP abs
		c.PC = c.read16(c.PC)
		c.Count += 3
	case 0x6C: // JMP (ind)
		// The pointer high byte is fetched without carrying into the page.
		ptr := c.read16(c.PC)
		lo := c.Read8(ptr)
		hi := c.Read8(ptr&0xFF00 | uint16(uint8(ptr)+1))
		c.PC = uint16(hi)<<8 | uint16(lo)
		c.Count += 5

	// Branches
	case 0x10: // BPL
		c.branch(!c.P.Negative())
	case 0x30: // BMI
		c.branch(c.P.Negative())
	case 0x50: // BVC
		c.branch(!c.P.Overflow())
	case 0x70: // BVS
		c.branch(c.P.Overflow())
	case 0x90: // BCC
		c.branch(!c.P.Carry())
	case 0xB0: // BCS
		c.branch(c.P.Carry())
	case 0xD0: // BNE
		c.branch(!c.P.Zero())
	case 0xF0: // BEQ
		c.branch(c.P.Zero())

	default:
		return &hwdefs.Fault{Kind: hwdefs.ErrIllegalOpcode, Bus: "cpu", Addr: c.PC - 1}
	}
	return nil
}

func (c *CPU) flagOp(flag P, set bool) {
	c.P.setFlag(flag, set)
	c.Count += 2
}

func (c *CPU) transfer(v uint8) uint8 {
	c.P.checkNZ(v)
	c.Count += 2
	return v
}

// branch costs 2 cycles, 3 if taken, 4 if taken to another page.
func (c *CPU) branch(taken bool) {
	off := c.operand(Relative, false).Val
	if !taken {
		return
	}
	target := c.PC + uint16(int8(off))
	c.Count++
	if hwio.PageCrossed(c.PC, target) {
		c.Count++
	}
	c.PC = target
}
