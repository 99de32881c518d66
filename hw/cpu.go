package hw

import (
	"io"

	"mos6502/emu/log"
	"mos6502/hw/hwio"
)

// Locations reserved for vector pointers.
const (
	NMIVector   = uint16(0xFFFA) // Non-Maskable Interrupt
	ResetVector = uint16(0xFFFC) // Reset
	IRQVector   = uint16(0xFFFE) // Interrupt Request
)

const stackBase = 0x0100

// Register values after Reset.
const (
	resetP  = P(0x36)
	resetSP = 0xFF
)

// Number of cycles spent by Reset and by the interrupt sequences.
const interruptCycles = 7

// CPU is a MOS 6502. It owns its registers and cycle counter; memory is
// accessed through Bus, which the CPU doesn't own.
type CPU struct {
	Bus hwio.BankIO8

	// cpu registers
	A, X, Y, SP uint8
	PC          uint16
	P           P

	Cycles uint64 // elapsed cycles since power up, never reset.

	// interrupt handling
	irqPending bool
	nmiPending bool
	servicing  bool

	// Non-nil when the CPU has faulted.
	fault error

	// Non-nil when execution tracing is enabled.
	tracer *tracer
	dbg    Debugger
}

// NewCPU creates a CPU connected to bus. Call Reset before running it.
func NewCPU(bus hwio.BankIO8) *CPU {
	return &CPU{
		Bus: bus,
		SP:  resetSP,
		P:   resetP,
		dbg: nopDebugger{},
	}
}

// Reset reinitializes the registers and loads PC from the reset vector. Pending
// interrupts and faults are cleared. Nothing is pushed on the stack.
func (c *CPU) Reset() {
	c.A = 0x00
	c.X = 0x00
	c.Y = 0x00
	c.SP = resetSP
	c.P = resetP

	c.irqPending = false
	c.nmiPending = false
	c.servicing = false
	c.fault = nil

	c.PC = hwio.Read16(c.Bus, ResetVector)
	c.spend(interruptCycles)
	c.dbg.Reset()

	log.ModCPU.InfoZ("reset").
		Hex16("vector", c.PC).
		End()
}

// Step runs the CPU up to the next instruction boundary. If an interrupt is
// pending and can be serviced, Step only performs the interrupt sequence.
// Otherwise it fetches, decodes and executes one instruction.
func (c *CPU) Step() error {
	if c.fault != nil {
		return c.fault
	}

	if c.pollInterrupts() {
		return nil
	}

	c.traceOp()
	opcode := c.fetch8()
	return c.ExecuteInstruction(opcode)
}

// Run executes instructions until at least ncycles cycles have elapsed, or until
// a fault occurs.
func (c *CPU) Run(ncycles uint64) error {
	until := c.Cycles + ncycles
	for c.Cycles < until {
		if err := c.Step(); err != nil {
			return err
		}
	}
	return nil
}

// ExecuteInstruction decodes and executes opcode. The caller must have fetched
// opcode from PC and advanced PC past it.
func (c *CPU) ExecuteInstruction(opcode uint8) error {
	if c.fault != nil {
		return c.fault
	}

	pc := c.PC - 1
	def := ops[opcode]
	if def == nil {
		return c.halt(&Fault{Err: ErrInvalidOpcode, Opcode: opcode, PC: pc})
	}

	if !validOperand(def.mode, def.index) {
		return c.halt(&Fault{Err: ErrInvalidOperand, Opcode: opcode, PC: pc, Mode: def.mode, Index: def.index})
	}

	c.spend(int(def.cycles))
	def.exec(c, c.resolve(def))
	return nil
}

func (c *CPU) halt(err error) error {
	c.fault = err
	log.ModCPU.ErrorZ("CPU halted").
		Error("err", err).
		End()
	c.dbg.Fault(err)
	return err
}

// IsHalted reports whether the CPU stopped on a fault.
func (c *CPU) IsHalted() bool {
	return c.fault != nil
}

// Fault returns the fault that halted the CPU, if any.
func (c *CPU) Fault() error {
	return c.fault
}

// spend accounts for n elapsed clock cycles.
func (c *CPU) spend(n int) {
	c.Cycles += uint64(n)
}

/* memory access */

func (c *CPU) Read8(addr uint16) uint8 {
	return c.Bus.Read8(addr, false)
}

func (c *CPU) Write8(addr uint16, val uint8) {
	c.Bus.Write8(addr, val)
}

func (c *CPU) Read16(addr uint16) uint16 {
	return hwio.Read16(c.Bus, addr)
}

func (c *CPU) fetch8() uint8 {
	val := c.Read8(c.PC)
	c.PC++
	return val
}

func (c *CPU) fetch16() uint16 {
	lo := c.fetch8()
	hi := c.fetch8()
	return uint16(hi)<<8 | uint16(lo)
}

/* stack operations */

func (c *CPU) push8(val uint8) {
	top := stackBase + uint16(c.SP)
	c.Write8(top, val)
	c.SP--
}

func (c *CPU) push16(val uint16) {
	c.push8(uint8(val >> 8))
	c.push8(uint8(val & 0xff))
}

func (c *CPU) pull8() uint8 {
	c.SP++
	top := stackBase + uint16(c.SP)
	return c.Read8(top)
}

func (c *CPU) pull16() uint16 {
	lo := c.pull8()
	hi := c.pull8()
	return uint16(hi)<<8 | uint16(lo)
}

/* tracing / debugging */

func (c *CPU) traceOp() {
	if c.tracer != nil {
		c.tracer.write(cpuState{
			A:     c.A,
			X:     c.X,
			Y:     c.Y,
			P:     c.P,
			SP:    c.SP,
			PC:    c.PC,
			Clock: c.Cycles,
		})
	}

	c.dbg.Trace(c.PC)
}

// SetTraceOutput enables the execution trace, one line per instruction. A nil
// writer disables it.
func (c *CPU) SetTraceOutput(w io.Writer) {
	if w == nil {
		c.tracer = nil
		return
	}
	c.tracer = &tracer{w: w, d: c}
}

func (c *CPU) SetDebugger(dbg Debugger) {
	if dbg == nil {
		dbg = nopDebugger{}
	}
	c.dbg = dbg
}

// AddLogContext stamps log entries with the CPU position.
func (c *CPU) AddLogContext(e *log.EntryZ) {
	e.Hex16("pc", c.PC).Uint64("cycles", c.Cycles)
}
