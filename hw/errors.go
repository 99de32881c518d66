package hw

import (
	"fmt"

	"github.com/go-faster/errors"
)

var (
	// ErrInvalidOpcode is returned when the CPU fetches an opcode that has no
	// entry in the instruction table (undocumented or illegal opcode).
	ErrInvalidOpcode = errors.New("invalid opcode")

	// ErrInvalidOperand signals an addressing mode/index register combination
	// that has no meaning. It can only come from a bug in the instruction
	// table, never from program data.
	ErrInvalidOperand = errors.New("invalid operand")
)

// A Fault is an unrecoverable CPU error. After a fault the CPU is halted until
// the next Reset.
type Fault struct {
	Err    error  // ErrInvalidOpcode or ErrInvalidOperand
	Opcode uint8  // faulting opcode
	PC     uint16 // address of the faulting opcode
	Mode   AddrMode
	Index  Index
}

func (f *Fault) Error() string {
	if errors.Is(f.Err, ErrInvalidOperand) {
		return fmt.Sprintf("$%04X: opcode $%02X: %s mode with index %s: %s", f.PC, f.Opcode, f.Mode, f.Index, f.Err)
	}
	return fmt.Sprintf("$%04X: opcode $%02X: %s", f.PC, f.Opcode, f.Err)
}

func (f *Fault) Unwrap() error { return f.Err }
