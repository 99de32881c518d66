package hw

import "mos6502/hw/hwio"

// AddrMode is the way an instruction locates its operand.
type AddrMode uint8

const (
	Implied     AddrMode = iota // no operand
	Accumulator                 // operates on A
	Immediate                   // operand is the byte following the opcode
	ZeroPage                    // 8-bit address in page zero
	Absolute                    // full 16-bit address
	Indirect                    // pointer: (ind,X), (ind),Y, or JMP (abs)
	Relative                    // signed 8-bit branch displacement
)

func (m AddrMode) String() string {
	switch m {
	case Implied:
		return "implied"
	case Accumulator:
		return "accumulator"
	case Immediate:
		return "immediate"
	case ZeroPage:
		return "zeropage"
	case Absolute:
		return "absolute"
	case Indirect:
		return "indirect"
	case Relative:
		return "relative"
	}
	return "unknown"
}

// Index is the index register optionally combined with an addressing mode.
type Index uint8

const (
	NoIndex Index = iota
	IndexX
	IndexY
)

func (i Index) String() string {
	switch i {
	case NoIndex:
		return "none"
	case IndexX:
		return "X"
	case IndexY:
		return "Y"
	}
	return "unknown"
}

// operandBytes returns the number of bytes following the opcode for the given
// mode and index combination.
func operandBytes(m AddrMode, idx Index) int {
	switch m {
	case Immediate, ZeroPage, Relative:
		return 1
	case Absolute:
		return 2
	case Indirect:
		if idx == NoIndex {
			return 2 // JMP ($nnnn)
		}
		return 1
	}
	return 0
}

// validOperand reports whether the mode can be combined with idx.
func validOperand(m AddrMode, idx Index) bool {
	switch m {
	case ZeroPage, Absolute, Indirect:
		return idx <= IndexY
	case Implied, Accumulator, Immediate, Relative:
		return idx == NoIndex
	}
	return false
}

// operand is the resolved location of an instruction operand.
type operand struct {
	mode AddrMode
	addr uint16 // effective address, branch target for Relative
}

func (c *CPU) index(idx Index) uint8 {
	switch idx {
	case IndexX:
		return c.X
	case IndexY:
		return c.Y
	}
	return 0
}

// resolve computes the effective address of the operand of the instruction
// described by def, consuming its operand bytes and advancing PC past them. The
// extra cycle due to page crossing is spent here for page-sensitive
// instructions. def must have passed validOperand.
func (c *CPU) resolve(def *opdef) operand {
	oper := operand{mode: def.mode}
	crossed := false

	switch def.mode {
	case Implied, Accumulator:

	case Immediate:
		// The operand byte is read in place.
		oper.addr = c.PC
		c.PC++

	case ZeroPage:
		zp := c.fetch8()
		// Indexing wraps around within page zero.
		oper.addr = uint16(zp + c.index(def.index))

	case Absolute:
		base := c.fetch16()
		oper.addr = base + uint16(c.index(def.index))
		crossed = uint8(oper.addr) < uint8(base)

	case Indirect:
		switch def.index {
		case NoIndex:
			ptr := c.fetch16()
			oper.addr = c.readPointer(ptr)
		case IndexX:
			zp := c.fetch8() + c.X
			oper.addr = c.readZeroPagePointer(zp)
		case IndexY:
			zp := c.fetch8()
			base := c.readZeroPagePointer(zp)
			oper.addr = base + uint16(c.Y)
			crossed = uint8(oper.addr) < uint8(base)
		}

	case Relative:
		off := int8(c.fetch8())
		oper.addr = c.PC + uint16(off)
	}

	if crossed && def.page {
		c.spend(1)
	}
	return oper
}

// readZeroPagePointer reads a 16-bit pointer stored in page zero. The high
// byte of a pointer at $FF is read from $00.
func (c *CPU) readZeroPagePointer(zp uint8) uint16 {
	lo := c.Read8(uint16(zp))
	hi := c.Read8(uint16(zp + 1))
	return uint16(hi)<<8 | uint16(lo)
}

// readPointer reads the target of JMP ($nnnn). The NMOS 6502 does not carry
// into the high byte of the pointer: JMP ($10FF) reads $10FF and $1000.
func (c *CPU) readPointer(ptr uint16) uint16 {
	lo := c.Read8(ptr)
	hi := c.Read8(ptr&0xFF00 | uint16(uint8(ptr)+1))
	return uint16(hi)<<8 | uint16(lo)
}

// load returns the value of the operand.
func (c *CPU) load(oper operand) uint8 {
	if oper.mode == Accumulator {
		return c.A
	}
	return c.Read8(oper.addr)
}

// store writes val to the operand.
func (c *CPU) store(oper operand, val uint8) {
	if oper.mode == Accumulator {
		c.A = val
		return
	}
	c.Write8(oper.addr, val)
}

// pageCrossed reports whether a branch from pc to target lands in another page.
func pageCrossed(pc, target uint16) bool {
	return !hwio.SamePage(pc, target)
}
