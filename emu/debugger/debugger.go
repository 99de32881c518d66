// Package debugger monitors a running CPU: it keeps track of the call stack,
// breakpoints and of the last fault.
package debugger

import (
	"slices"

	"mos6502/emu/log"
	"mos6502/hw"
)

// Opcodes changing the call stack.
const (
	opBRK = 0x00
	opJSR = 0x20
	opRTI = 0x40
	opRTS = 0x60

	// Opcode value meaning no instruction was traced, undocumented so it
	// can't clash with any of the above.
	opNone = 0xFF
)

// A Debugger holds the state of the CPU debugger. In order to be able to
// debug a program at any moment, the debugger has to keep track of the CPU
// state, even when not stopped. The state to keep track of is kept to the
// minimum, that is the previous instruction and stack frames.
type Debugger struct {
	cpu *hw.CPU

	breakpoints map[uint16]struct{}

	prevPC     uint16
	prevOpcode uint8
	resetPC    uint16
	fault      error

	cstack callStack
}

// New creates a Debugger and attaches it to cpu.
func New(cpu *hw.CPU) *Debugger {
	dbg := &Debugger{
		cpu:         cpu,
		breakpoints: make(map[uint16]struct{}),
		prevOpcode:  opNone,
	}
	cpu.SetDebugger(dbg)
	return dbg
}

func (d *Debugger) AddBreakpoint(addr uint16) {
	d.breakpoints[addr] = struct{}{}
	log.ModEmu.DebugZ("breakpoint added").Hex16("addr", addr).End()
}

func (d *Debugger) RemoveBreakpoint(addr uint16) {
	delete(d.breakpoints, addr)
}

func (d *Debugger) IsBreakpoint(addr uint16) bool {
	_, ok := d.breakpoints[addr]
	return ok
}

// Breakpoints returns the sorted list of breakpoints.
func (d *Debugger) Breakpoints() []uint16 {
	addrs := make([]uint16, 0, len(d.breakpoints))
	for addr := range d.breakpoints {
		addrs = append(addrs, addr)
	}
	slices.Sort(addrs)
	return addrs
}

// CallStack returns the call stack frames, innermost first.
func (d *Debugger) CallStack() []FrameInfo {
	return d.cstack.build(d.cpu.PC)
}

// ResetPC returns the address the CPU started from at the last reset.
func (d *Debugger) ResetPC() uint16 {
	return d.resetPC
}

// LastFault returns the fault which halted the CPU, if any, since last reset.
func (d *Debugger) LastFault() error {
	return d.fault
}

// Reset implements hw.Debugger.
func (d *Debugger) Reset() {
	d.resetPC = d.cpu.PC
	d.prevOpcode = opNone
	d.fault = nil
	d.cstack.reset()
}

// Trace implements hw.Debugger.
func (d *Debugger) Trace(pc uint16) {
	d.updateStack(pc, sffNone)

	d.prevPC = pc
	d.prevOpcode = d.cpu.Bus.Read8(pc, true)
}

// updateStack accounts for the effect of the previous instruction on the call
// stack, now that its destination dstPc is known.
func (d *Debugger) updateStack(dstPc uint16, sff stackFrameFlag) {
	switch d.prevOpcode {
	case opJSR:
		d.cstack.push(d.prevPC, dstPc, d.prevPC+3, sff)
	case opBRK:
		d.cstack.push(d.prevPC, dstPc, d.prevPC+2, sffBRK)
	case opRTS, opRTI:
		d.cstack.pop()
	}
}

// Interrupt implements hw.Debugger.
func (d *Debugger) Interrupt(prevpc, curpc uint16, isNMI bool) {
	flag := sffIRQ
	if isNMI {
		flag = sffNMI
	}
	d.updateStack(prevpc, sffNone)
	d.prevOpcode = opNone

	d.cstack.push(prevpc, curpc, prevpc, flag)
}

// Fault implements hw.Debugger.
func (d *Debugger) Fault(err error) {
	d.fault = err
}
