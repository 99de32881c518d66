package hw

import "mos6502/hw/hwio"

// P is the 6502 Processor Status Register.
type P uint8

// Status register bits.
const (
	pbitC = iota // Carry flag
	pbitZ        // Zero flag
	pbitI        // Interrupt disable flag
	pbitD        // Decimal mode flag
	pbitB        // Break flag
	pbitU        // Unused, reads as 1 on the stack
	pbitV        // oVerflow flag
	pbitN        // Negative flag
)

// Status register masks.
const (
	Carry     P = 1 << pbitC
	Zero      P = 1 << pbitZ
	Interrupt P = 1 << pbitI
	Decimal   P = 1 << pbitD
	Break     P = 1 << pbitB
	Reserved  P = 1 << pbitU
	Overflow  P = 1 << pbitV
	Negative  P = 1 << pbitN
)

func (p P) C() bool { return p.bit(pbitC) }
func (p P) Z() bool { return p.bit(pbitZ) }
func (p P) I() bool { return p.bit(pbitI) }
func (p P) D() bool { return p.bit(pbitD) }
func (p P) B() bool { return p.bit(pbitB) }
func (p P) V() bool { return p.bit(pbitV) }
func (p P) N() bool { return p.bit(pbitN) }

func (p *P) SetC(v bool) { p.writeBit(pbitC, v) }
func (p *P) SetZ(v bool) { p.writeBit(pbitZ, v) }
func (p *P) SetI(v bool) { p.writeBit(pbitI, v) }
func (p *P) SetD(v bool) { p.writeBit(pbitD, v) }
func (p *P) SetB(v bool) { p.writeBit(pbitB, v) }
func (p *P) SetV(v bool) { p.writeBit(pbitV, v) }
func (p *P) SetN(v bool) { p.writeBit(pbitN, v) }

func (p P) bit(i uint) bool {
	return hwio.GetBit8(uint8(p), i)
}

func (p *P) writeBit(i uint, v bool) {
	hwio.WriteBit8((*uint8)(p), i, v)
}

func (p P) hasFlag(flag P) bool {
	return p&flag == flag
}

func (p *P) checkNZ(v uint8) {
	p.SetN(v&0x80 != 0)
	p.SetZ(v == 0)
}

func (p *P) checkCV(x, y uint8, sum uint16) {
	// forward carry or unsigned overflow.
	p.SetC(sum > 0xFF)

	// signed overflow, can only happen if the sign of the sum differs
	// from that of both operands.
	v := (uint16(x) ^ sum) & (uint16(y) ^ sum) & 0x80
	p.SetV(v != 0)
}

// String returns the flags from bit 7 to bit 0, uppercase when set.
func (p P) String() string {
	const bits = "nvubdizcNVUBDIZC"

	s := make([]byte, 8)
	for i := 0; i < 8; i++ {
		ibit := hwio.GetBiti8(uint8(p), uint(7-i))
		s[i] = bits[i+int(8*ibit)]
	}
	return string(s)
}
