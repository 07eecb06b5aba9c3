package hw

/* loads and stores */

func LDA(c *CPU, o Operand) {
	c.A = o.Read(c)
	c.P.checkNZ(c.A)
}

func LDX(c *CPU, o Operand) {
	c.X = o.Read(c)
	c.P.checkNZ(c.X)
}

func LDY(c *CPU, o Operand) {
	c.Y = o.Read(c)
	c.P.checkNZ(c.Y)
}

func STA(c *CPU, o Operand) { o.Write(c, c.A) }
func STX(c *CPU, o Operand) { o.Write(c, c.X) }
func STY(c *CPU, o Operand) { o.Write(c, c.Y) }

/* arithmetic */

func (c *CPU) adc(m uint8) {
	carry := c.P.ibit(Carry)
	sum := uint16(c.A) + uint16(m) + uint16(carry)
	ssum := int16(int8(c.A)) + int16(int8(m)) + int16(carry)

	c.P.setFlag(Carry, sum > 0xFF)
	c.P.setFlag(Overflow, ssum < -128 || ssum > 127)
	c.A = uint8(sum)
	c.P.checkNZ(c.A)
}

func ADC(c *CPU, o Operand) { c.adc(o.Read(c)) }

// SBC is ADC of the one's complement, the carry acts as an inverted borrow.
func SBC(c *CPU, o Operand) { c.adc(^o.Read(c)) }

// compare runs a subtraction of m from reg, only N, Z and C are affected.
func (c *CPU) compare(reg, m uint8) {
	a, v := c.A, c.P.Overflow()

	c.A = reg
	c.P.setFlag(Carry, true)
	c.adc(^m)

	c.A = a
	c.P.setFlag(Overflow, v)
}

func CMP(c *CPU, o Operand) { c.compare(c.A, o.Read(c)) }
func CPX(c *CPU, o Operand) { c.compare(c.X, o.Read(c)) }
func CPY(c *CPU, o Operand) { c.compare(c.Y, o.Read(c)) }

/* logic */

func AND(c *CPU, o Operand) {
	c.A &= o.Read(c)
	c.P.checkNZ(c.A)
}

func ORA(c *CPU, o Operand) {
	c.A |= o.Read(c)
	c.P.checkNZ(c.A)
}

func EOR(c *CPU, o Operand) {
	c.A ^= o.Read(c)
	c.P.checkNZ(c.A)
}

func BIT(c *CPU, o Operand) {
	m := o.Read(c)
	c.P.setFlag(Zero, c.A&m == 0)
	c.P.setFlag(Overflow, m&0x40 != 0)
	c.P.setFlag(Negative, m&0x80 != 0)
}

/* read-modify-write */

func ASL(c *CPU, o Operand) {
	v := o.Read(c)
	c.P.setFlag(Carry, v&0x80 != 0)
	v <<= 1
	o.Write(c, v)
	c.P.checkNZ(v)
}

func LSR(c *CPU, o Operand) {
	v := o.Read(c)
	c.P.setFlag(Carry, v&0x01 != 0)
	v >>= 1
	o.Write(c, v)
	c.P.checkNZ(v)
}

func ROL(c *CPU, o Operand) {
	v := o.Read(c)
	carry := c.P.ibit(Carry)
	c.P.setFlag(Carry, v&0x80 != 0)
	v = v<<1 | carry
	o.Write(c, v)
	c.P.checkNZ(v)
}

func ROR(c *CPU, o Operand) {
	v := o.Read(c)
	carry := c.P.ibit(Carry)
	c.P.setFlag(Carry, v&0x01 != 0)
	v = v>>1 | carry<<7
	o.Write(c, v)
	c.P.checkNZ(v)
}

// INC and DEC also implement INX, INY, DEX and DEY, through a register
// operand.
func INC(c *CPU, o Operand) {
	v := o.Read(c) + 1
	o.Write(c, v)
	c.P.checkNZ(v)
}

func DEC(c *CPU, o Operand) {
	v := o.Read(c) - 1
	o.Write(c, v)
	c.P.checkNZ(v)
}
