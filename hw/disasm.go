package hw

import "fmt"

// DisasmOp is a disassembled instruction.
type DisasmOp struct {
	Opcode string // mnemonic, ??? for undocumented opcodes
	Oper   string
	Buf    []byte // instruction bytes
	PC     uint16
}

func (d DisasmOp) String() string {
	return string(d.Bytes())
}

// Len returns the length of the instruction in bytes.
func (d DisasmOp) Len() int {
	return len(d.Buf)
}

// Disasm disassembles the instruction at pc. Memory is peeked, so Disasm never
// has side effects on the bus.
func (c *CPU) Disasm(pc uint16) DisasmOp {
	return Disasm(c.Bus, pc)
}

type peeker interface {
	Read8(addr uint16, peek bool) uint8
}

// Disasm disassembles the instruction at pc, read from bus.
func Disasm(bus peeker, pc uint16) DisasmOp {
	opcode := bus.Read8(pc, true)
	def := ops[opcode]
	if def == nil {
		return DisasmOp{
			Opcode: "???",
			Buf:    []byte{opcode},
			PC:     pc,
		}
	}

	n := operandBytes(def.mode, def.index)
	buf := make([]byte, 1+n)
	buf[0] = opcode
	for i := 1; i <= n; i++ {
		buf[i] = bus.Read8(pc+uint16(i), true)
	}

	return DisasmOp{
		Opcode: def.name,
		Oper:   formatOperand(def, buf[1:], pc),
		Buf:    buf,
		PC:     pc,
	}
}

func formatOperand(def *opdef, oper []byte, pc uint16) string {
	var suffix string
	switch def.index {
	case IndexX:
		suffix = ",X"
	case IndexY:
		suffix = ",Y"
	}

	switch def.mode {
	case Accumulator:
		return "A"
	case Immediate:
		return fmt.Sprintf("#$%02X", oper[0])
	case ZeroPage:
		return fmt.Sprintf("$%02X", oper[0]) + suffix
	case Absolute:
		return fmt.Sprintf("$%02X%02X", oper[1], oper[0]) + suffix
	case Indirect:
		switch def.index {
		case IndexX:
			return fmt.Sprintf("($%02X,X)", oper[0])
		case IndexY:
			return fmt.Sprintf("($%02X),Y", oper[0])
		}
		return fmt.Sprintf("($%02X%02X)", oper[1], oper[0])
	case Relative:
		target := pc + 2 + uint16(int8(oper[0]))
		return fmt.Sprintf("$%04X", target)
	}
	return ""
}
