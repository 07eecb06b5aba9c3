package hw

import (
	"fmt"

	"nescore/hw/hwio"
)

// AddrMode is an instruction addressing mode.
type AddrMode uint8

const (
	Implied AddrMode = iota
	Accumulator
	RegisterX // INX/DEX
	RegisterY // INY/DEY
	Immediate
	ZeroPage
	ZeroPageX
	ZeroPageY
	Absolute
	AbsoluteX
	AbsoluteY
	Indirect
	IndirectX
	IndirectY
	Relative
)

// Size returns the number of operand bytes following the opcode.
func (m AddrMode) Size() int {
	switch m {
	case Implied, Accumulator, RegisterX, RegisterY:
		return 0
	case Absolute, AbsoluteX, AbsoluteY, Indirect:
		return 2
	}
	return 1
}

// OperandKind tells where an Operand lives.
type OperandKind uint8

const (
	Value   OperandKind = iota // immediate byte, read-only
	Address                    // bus address
	RegA
	RegX
	RegY
)

// Operand is the result of an addressing mode: a value, a bus location or a
// register. Shifts, rotates and increments read and write through it,
// without caring about where the operand lives.
type Operand struct {
	Kind OperandKind
	Addr uint16
	Val  uint8
}

func (o Operand) Read(c *CPU) uint8 {
	switch o.Kind {
	case Value:
		return o.Val
	case Address:
		return c.Read8(o.Addr)
	case RegA:
		return c.A
	case RegX:
		return c.X
	case RegY:
		return c.Y
	}
	panic(fmt.Sprintf("invalid operand kind %d", o.Kind))
}

func (o Operand) Write(c *CPU, val uint8) {
	switch o.Kind {
	case Address:
		c.Write8(o.Addr, val)
	case RegA:
		c.A = val
	case RegX:
		c.X = val
	case RegY:
		c.Y = val
	default:
		panic(fmt.Sprintf("write to read-only operand (kind %d)", o.Kind))
	}
}

func (c *CPU) fetch8() uint8 {
	v := c.Read8(c.PC)
	c.PC++
	return v
}

func (c *CPU) fetch16() uint16 {
	lo := c.fetch8()
	hi := c.fetch8()
	return uint16(hi)<<8 | uint16(lo)
}

// zpRead16 reads a pointer from the zero page, wrapping within it.
func (c *CPU) zpRead16(zp uint8) uint16 {
	lo := c.Read8(uint16(zp))
	hi := c.Read8(uint16(zp + 1))
	return uint16(hi)<<8 | uint16(lo)
}

// operand resolves the operand of the current instruction, advances PC past
// it and charges the mode cost. For the indexed modes, crossing a page costs
// one more cycle when pageMatters is set.
func (c *CPU) operand(mode AddrMode, pageMatters bool) Operand {
	switch mode {
	case Implied:
		return Operand{}
	case Accumulator:
		return Operand{Kind: RegA}
	case RegisterX:
		return Operand{Kind: RegX}
	case RegisterY:
		return Operand{Kind: RegY}
	case Immediate, Relative:
		c.Count += 2
		return Operand{Kind: Value, Val: c.fetch8()}
	case ZeroPage:
		c.Count += 3
		return Operand{Kind: Address, Addr: uint16(c.fetch8())}
	case ZeroPageX:
		c.Count += 4
		return Operand{Kind: Address, Addr: uint16(c.fetch8() + c.X)}
	case ZeroPageY:
		c.Count += 4
		return Operand{Kind: Address, Addr: uint16(c.fetch8() + c.Y)}
	case Absolute:
		c.Count += 4
		return Operand{Kind: Address, Addr: c.fetch16()}
	case AbsoluteX:
		c.Count += 4
		return c.indexed(c.fetch16(), c.X, pageMatters)
	case AbsoluteY:
		c.Count += 4
		return c.indexed(c.fetch16(), c.Y, pageMatters)
	case IndirectX:
		c.Count += 6
		return Operand{Kind: Address, Addr: c.zpRead16(c.fetch8() + c.X)}
	case IndirectY:
		c.Count += 5
		return c.indexed(c.zpRead16(c.fetch8()), c.Y, pageMatters)
	}
	panic(fmt.Sprintf("unexpected addressing mode %d", mode))
}

func (c *CPU) indexed(base uint16, idx uint8, pageMatters bool) Operand {
	addr := base + uint16(idx)
	if pageMatters && hwio.PageCrossed(base, addr) {
		c.Count++
	}
	return Operand{Kind: Address, Addr: addr}
}
