package emu

import (
	"fmt"
	"io"

	"github.com/go-faster/jx"

	"mos6502/emu/debugger"
	"mos6502/hw"
)

// Status is a snapshot of the machine state.
type Status struct {
	Cycles    uint64
	A, X, Y   uint8
	SP        uint8
	PC        uint16
	P         hw.P
	Interrupt hw.IntState
	Fault     error
	CallStack []debugger.FrameInfo
}

// Status returns a snapshot of the machine state.
func (m *Machine) Status() Status {
	return Status{
		Cycles:    m.CPU.Cycles,
		A:         m.CPU.A,
		X:         m.CPU.X,
		Y:         m.CPU.Y,
		SP:        m.CPU.SP,
		PC:        m.CPU.PC,
		P:         m.CPU.P,
		Interrupt: m.CPU.InterruptState(),
		Fault:     m.CPU.Fault(),
		CallStack: m.Debugger.CallStack(),
	}
}

func hex8(v uint8) string   { return fmt.Sprintf("0x%02x", v) }
func hex16(v uint16) string { return fmt.Sprintf("0x%04x", v) }

// Encode writes the status as a JSON object.
func (s Status) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("cycles")
	e.UInt64(s.Cycles)

	e.FieldStart("registers")
	e.ObjStart()
	e.FieldStart("a")
	e.Str(hex8(s.A))
	e.FieldStart("x")
	e.Str(hex8(s.X))
	e.FieldStart("y")
	e.Str(hex8(s.Y))
	e.FieldStart("sp")
	e.Str(hex8(s.SP))
	e.FieldStart("pc")
	e.Str(hex16(s.PC))
	e.FieldStart("p")
	e.Str(hex8(uint8(s.P)))
	e.ObjEnd()

	e.FieldStart("flags")
	e.ObjStart()
	for _, f := range s.flags() {
		e.FieldStart(f.name)
		e.Bool(f.set)
	}
	e.ObjEnd()

	e.FieldStart("interrupt")
	e.Str(s.Interrupt.String())

	e.FieldStart("fault")
	if s.Fault != nil {
		e.Str(s.Fault.Error())
	} else {
		e.Null()
	}

	e.FieldStart("callstack")
	e.ArrStart()
	for _, f := range s.CallStack {
		e.ObjStart()
		e.FieldStart("entry")
		e.Str(f[0])
		e.FieldStart("pc")
		e.Str(f[1])
		e.ObjEnd()
	}
	e.ArrEnd()
	e.ObjEnd()
}

// MarshalJSON implements json.Marshaler.
func (s Status) MarshalJSON() ([]byte, error) {
	var e jx.Encoder
	s.Encode(&e)
	return e.Bytes(), nil
}

type flag struct {
	name string
	set  bool
}

func (s Status) flags() []flag {
	return []flag{
		{"C", s.P.C()},
		{"Z", s.P.Z()},
		{"I", s.P.I()},
		{"D", s.P.D()},
		{"B", s.P.B()},
		{"V", s.P.V()},
		{"N", s.P.N()},
	}
}

func b2s(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// WriteText writes a human readable report: cycle count, registers and each
// status flag.
func (s Status) WriteText(w io.Writer) error {
	ew := &errWriter{w: w}
	ew.printf("Cycles: %d\n", s.Cycles)
	ew.printf("Registers:\n")
	ew.printf("A:  $%02X (%d)\n", s.A, s.A)
	ew.printf("X:  $%02X (%d)\n", s.X, s.X)
	ew.printf("Y:  $%02X (%d)\n", s.Y, s.Y)
	ew.printf("SP: $%02X\n", s.SP)
	ew.printf("PC: $%04X\n", s.PC)
	ew.printf("P:  $%02X [%s]\n", uint8(s.P), s.P)
	ew.printf("Status flags:\n")
	for _, f := range s.flags() {
		ew.printf("%s: %s\n", f.name, b2s(f.set))
	}
	ew.printf("Interrupt: %s\n", s.Interrupt)
	if s.Fault != nil {
		ew.printf("Fault: %s\n", s.Fault)
	}
	if len(s.CallStack) > 1 {
		ew.printf("Call stack:\n")
		for _, f := range s.CallStack {
			ew.printf("  %-18s %s\n", f[0], f[1])
		}
	}
	return ew.err
}

type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
