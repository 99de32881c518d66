package hw

// Instruction semantics. Each function receives the operand resolved by the
// addressing mode of the opcode, and is reused across all the opcodes sharing
// the same mnemonic.

// The decimal flag is tracked but has no effect on ADC and SBC.

func ADC(cpu *CPU, oper operand) {
	cpu.add(cpu.load(oper))
}

func SBC(cpu *CPU, oper operand) {
	// A - M - !C == A + ^M + C
	cpu.add(cpu.load(oper) ^ 0xFF)
}

func (c *CPU) add(val uint8) {
	carry := uint16(0)
	if c.P.C() {
		carry = 1
	}
	sum := uint16(c.A) + uint16(val) + carry
	c.P.checkCV(c.A, val, sum)
	c.A = uint8(sum)
	c.P.checkNZ(c.A)
}

func AND(cpu *CPU, oper operand) {
	cpu.A &= cpu.load(oper)
	cpu.P.checkNZ(cpu.A)
}

func ORA(cpu *CPU, oper operand) {
	cpu.A |= cpu.load(oper)
	cpu.P.checkNZ(cpu.A)
}

func EOR(cpu *CPU, oper operand) {
	cpu.A ^= cpu.load(oper)
	cpu.P.checkNZ(cpu.A)
}

func BIT(cpu *CPU, oper operand) {
	val := cpu.load(oper)
	cpu.P.SetZ(cpu.A&val == 0)
	cpu.P.SetV(val&0x40 != 0)
	cpu.P.SetN(val&0x80 != 0)
}

/* shifts and rotates, on A or memory */

func ASL(cpu *CPU, oper operand) {
	val := cpu.load(oper)
	cpu.P.SetC(val&0x80 != 0)
	val <<= 1
	cpu.P.checkNZ(val)
	cpu.store(oper, val)
}

func LSR(cpu *CPU, oper operand) {
	val := cpu.load(oper)
	cpu.P.SetC(val&0x01 != 0)
	val >>= 1
	cpu.P.checkNZ(val)
	cpu.store(oper, val)
}

func ROL(cpu *CPU, oper operand) {
	val := cpu.load(oper)
	carry := val & 0x80
	val <<= 1
	if cpu.P.C() {
		val |= 1 << 0
	}
	cpu.P.SetC(carry != 0)
	cpu.P.checkNZ(val)
	cpu.store(oper, val)
}

func ROR(cpu *CPU, oper operand) {
	val := cpu.load(oper)
	carry := val & 0x01
	val >>= 1
	if cpu.P.C() {
		val |= 1 << 7
	}
	cpu.P.SetC(carry != 0)
	cpu.P.checkNZ(val)
	cpu.store(oper, val)
}

/* compare */

func compare(reg func(*CPU) uint8) func(*CPU, operand) {
	return func(cpu *CPU, oper operand) {
		r := reg(cpu)
		val := cpu.load(oper)
		cpu.P.SetC(r >= val)
		cpu.P.checkNZ(r - val)
	}
}

var (
	CMP = compare(func(c *CPU) uint8 { return c.A })
	CPX = compare(func(c *CPU) uint8 { return c.X })
	CPY = compare(func(c *CPU) uint8 { return c.Y })
)

/* increments and decrements */

func INC(cpu *CPU, oper operand) {
	val := cpu.load(oper) + 1
	cpu.P.checkNZ(val)
	cpu.store(oper, val)
}

func DEC(cpu *CPU, oper operand) {
	val := cpu.load(oper) - 1
	cpu.P.checkNZ(val)
	cpu.store(oper, val)
}

func INX(cpu *CPU, _ operand) { cpu.setreg(&cpu.X, cpu.X+1) }
func INY(cpu *CPU, _ operand) { cpu.setreg(&cpu.Y, cpu.Y+1) }
func DEX(cpu *CPU, _ operand) { cpu.setreg(&cpu.X, cpu.X-1) }
func DEY(cpu *CPU, _ operand) { cpu.setreg(&cpu.Y, cpu.Y-1) }

// setreg sets a register and updates N and Z accordingly.
func (c *CPU) setreg(reg *uint8, val uint8) {
	*reg = val
	c.P.checkNZ(val)
}

/* loads, stores and transfers */

func LDA(cpu *CPU, oper operand) { cpu.setreg(&cpu.A, cpu.load(oper)) }
func LDX(cpu *CPU, oper operand) { cpu.setreg(&cpu.X, cpu.load(oper)) }
func LDY(cpu *CPU, oper operand) { cpu.setreg(&cpu.Y, cpu.load(oper)) }

func STA(cpu *CPU, oper operand) { cpu.Write8(oper.addr, cpu.A) }
func STX(cpu *CPU, oper operand) { cpu.Write8(oper.addr, cpu.X) }
func STY(cpu *CPU, oper operand) { cpu.Write8(oper.addr, cpu.Y) }

func TAX(cpu *CPU, _ operand) { cpu.setreg(&cpu.X, cpu.A) }
func TAY(cpu *CPU, _ operand) { cpu.setreg(&cpu.Y, cpu.A) }
func TXA(cpu *CPU, _ operand) { cpu.setreg(&cpu.A, cpu.X) }
func TYA(cpu *CPU, _ operand) { cpu.setreg(&cpu.A, cpu.Y) }
func TSX(cpu *CPU, _ operand) { cpu.setreg(&cpu.X, cpu.SP) }

// TXS is the only transfer leaving flags untouched.
func TXS(cpu *CPU, _ operand) { cpu.SP = cpu.X }

/* stack */

func PHA(cpu *CPU, _ operand) {
	cpu.push8(cpu.A)
}

func PLA(cpu *CPU, _ operand) {
	cpu.setreg(&cpu.A, cpu.pull8())
}

// PHP pushes P with the break and unused bits set.
func PHP(cpu *CPU, _ operand) {
	p := cpu.P | Break | Reserved
	cpu.push8(uint8(p))
}

func PLP(cpu *CPU, _ operand) {
	cpu.pullP()
}

// pullP restores P from the stack. The break and unused bits don't exist as
// flip-flops in the CPU so they keep their current value.
func (c *CPU) pullP() {
	const mask = ^(Break | Reserved)
	p := P(c.pull8())
	c.P = c.P&^mask | p&mask
}

/* control transfer */

func JMP(cpu *CPU, oper operand) {
	cpu.PC = oper.addr
}

// JSR pushes the address of its last byte, RTS adds one when pulling it.
func JSR(cpu *CPU, oper operand) {
	cpu.push16(cpu.PC - 1)
	cpu.PC = oper.addr
}

func RTS(cpu *CPU, _ operand) {
	cpu.PC = cpu.pull16() + 1
}

func RTI(cpu *CPU, _ operand) {
	cpu.pullP()
	cpu.PC = cpu.pull16()
}

// BRK pushes the address of the opcode plus 2, so the byte following BRK is
// skipped on return, and P with the break bit set.
func BRK(cpu *CPU, _ operand) {
	cpu.push16(cpu.PC + 1)

	p := cpu.P | Break | Reserved
	cpu.push8(uint8(p))

	cpu.P.SetI(true)
	cpu.PC = cpu.Read16(IRQVector)
}

/* branches */

// branch returns a conditional branch taken when flag equals val.
func branch(flag P, val bool) func(*CPU, operand) {
	return func(cpu *CPU, oper operand) {
		if cpu.P.hasFlag(flag) != val {
			return
		}

		// +1 cycle if taken, +1 if the target is on another page.
		cpu.spend(1)
		if pageCrossed(cpu.PC, oper.addr) {
			cpu.spend(1)
		}
		cpu.PC = oper.addr
	}
}

var (
	BCC = branch(Carry, false)
	BCS = branch(Carry, true)
	BNE = branch(Zero, false)
	BEQ = branch(Zero, true)
	BPL = branch(Negative, false)
	BMI = branch(Negative, true)
	BVC = branch(Overflow, false)
	BVS = branch(Overflow, true)
)

/* flags */

func setFlag(flag P) func(*CPU, operand) {
	return func(cpu *CPU, _ operand) { cpu.P |= flag }
}

func clearFlag(flag P) func(*CPU, operand) {
	return func(cpu *CPU, _ operand) { cpu.P &^= flag }
}

var (
	CLC = clearFlag(Carry)
	SEC = setFlag(Carry)
	CLI = clearFlag(Interrupt)
	SEI = setFlag(Interrupt)
	CLD = clearFlag(Decimal)
	SED = setFlag(Decimal)
	CLV = clearFlag(Overflow)
)

func NOP(*CPU, operand) {}
