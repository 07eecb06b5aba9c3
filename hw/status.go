package hw

// P is the processor status register. The break and reserved bits don't
// exist in the register itself, they only appear when it's pushed on the
// stack (see CPU.GetP).
type P uint8

const (
	Carry = 1 << iota
	Zero
	Interrupt
	Decimal
	Break
	Reserved
	Overflow
	Negative
)

func (p P) String() string {
	const bits = "nvubdizcNVUBDIZC"

	s := make([]byte, 8)
	for i := range 8 {
		ibit := (uint8(p) & (1 << (7 - i))) >> (7 - i)
		s[i] = bits[i+int(8*ibit)]
	}
	return string(s)
}

func (p P) Carry() bool      { return p&Carry != 0 }
func (p P) Zero() bool       { return p&Zero != 0 }
func (p P) IntDisable() bool { return p&Interrupt != 0 }
func (p P) Decimal() bool    { return p&Decimal != 0 }
func (p P) Overflow() bool   { return p&Overflow != 0 }
func (p P) Negative() bool   { return p&Negative != 0 }

func (p *P) setFlag(flag P, set bool) {
	if set {
		*p |= flag
	} else {
		*p &^= flag
	}
}

func (p *P) ibit(flag P) uint8 {
	if *p&flag != 0 {
		return 1
	}
	return 0
}

// checkNZ sets N and Z from v.
func (p *P) checkNZ(v uint8) {
	p.setFlag(Negative, v&0x80 != 0)
	p.setFlag(Zero, v == 0)
}

// GetP returns the status register as a byte, with the reserved bit set and
// the break bit clear.
func (c *CPU) GetP() uint8 {
	return uint8(c.P)&^Break | Reserved
}

// SetP loads the status register from a byte, bits 4 and 5 are ignored.
func (c *CPU) SetP(v uint8) {
	c.P = P(v &^ (Break | Reserved))
}
