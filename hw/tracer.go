package hw

import (
	"io"
	"strconv"
)

// cpuState stores the CPU state for the execution trace.
type cpuState struct {
	A, X, Y uint8
	P       P
	SP      uint8
	PC      uint16

	Clock uint64
}

type disasmer interface {
	Disasm(pc uint16) DisasmOp
}

type tracer struct {
	d disasmer
	w io.Writer
}

func hexEncode(dst []byte, v byte) {
	const hextable = "0123456789ABCDEF"
	dst[0] = hextable[v>>4]
	dst[1] = hextable[v&0x0f]
}

// appendReg appends "name:XX ".
func appendReg(buf []byte, name byte, v uint8) []byte {
	var hex [2]byte
	hexEncode(hex[:], v)
	return append(buf, name, ':', hex[0], hex[1], ' ')
}

// write the execution trace line of the instruction about to be executed.
func (t *tracer) write(state cpuState) {
	const regsCol = 49

	dis := t.d.Disasm(state.PC)
	buf := make([]byte, 0, 96)
	buf = append(buf, dis.Bytes()...)
	for len(buf) < regsCol {
		buf = append(buf, ' ')
	}

	buf = appendReg(buf, 'A', state.A)
	buf = appendReg(buf, 'X', state.X)
	buf = appendReg(buf, 'Y', state.Y)
	buf = appendReg(buf, 'P', uint8(state.P))
	buf = appendReg(buf, 'S', state.SP)
	buf = append(buf, "CYC:"...)
	buf = strconv.AppendUint(buf, state.Clock, 10)
	buf = append(buf, '\n')
	t.w.Write(buf)
}

// Bytes returns the string representation of a DisasmOp, this is optimized
// version, suitable for the execution tracer.
func (d DisasmOp) Bytes() []byte {
	const totalLen = 48
	buf := make([]byte, totalLen)

	hexEncode(buf[0:], byte(d.PC>>8))
	hexEncode(buf[2:], byte(d.PC))
	buf[4] = ' '
	buf[5] = ' '

	off := 6
	for i := range d.Buf {
		hexEncode(buf[off:], d.Buf[i])
		buf[off+2] = ' '
		off += 3
	}

	for ; off < 16; off++ {
		buf[off] = ' '
	}

	off += copy(buf[off:], d.Opcode)
	buf[off] = ' '
	off++

	buf = append(buf[:off], d.Oper...)
	off += len(d.Oper)
	if len(buf) > totalLen {
		buf = append(buf, ' ')
	} else {
		buf = buf[:totalLen]
		for i := off; i < totalLen; i++ {
			buf[i] = ' '
		}
	}

	return buf
}
