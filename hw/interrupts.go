package hw

import "mos6502/emu/log"

// IntState is the state of the interrupt controller, as seen at an instruction
// boundary.
type IntState uint8

const (
	IntIdle IntState = iota
	IntIRQRequested
	IntNMIRequested
	IntServicing
)

func (s IntState) String() string {
	switch s {
	case IntIdle:
		return "idle"
	case IntIRQRequested:
		return "irq-requested"
	case IntNMIRequested:
		return "nmi-requested"
	case IntServicing:
		return "servicing"
	}
	return "unknown"
}

// TriggerInterrupt requests an interrupt: IRQ if maskable, NMI otherwise. The
// request is serviced at the next instruction boundary. An IRQ stays pending
// while the interrupt disable flag is set.
func (c *CPU) TriggerInterrupt(maskable bool) {
	if maskable {
		c.irqPending = true
	} else {
		c.nmiPending = true
	}
	log.ModIRQ.DebugZ("interrupt requested").
		Bool("maskable", maskable).
		End()
}

// InterruptState returns the current state of the interrupt controller. NMI
// takes priority when both lines are pending.
func (c *CPU) InterruptState() IntState {
	switch {
	case c.servicing:
		return IntServicing
	case c.nmiPending:
		return IntNMIRequested
	case c.irqPending:
		return IntIRQRequested
	}
	return IntIdle
}

// pollInterrupts services a pending interrupt, if any can be, and reports
// whether it did.
func (c *CPU) pollInterrupts() bool {
	switch {
	case c.nmiPending:
		c.nmiPending = false
		c.interrupt(NMIVector, true)
		return true
	case c.irqPending && !c.P.I():
		c.irqPending = false
		c.interrupt(IRQVector, false)
		return true
	}
	return false
}

// interrupt pushes PC and P (with the break flag clear) and jumps through vector.
func (c *CPU) interrupt(vector uint16, isNMI bool) {
	c.servicing = true
	defer func() { c.servicing = false }()

	prevpc := c.PC
	c.push16(c.PC)

	p := c.P | Reserved
	p &^= Break
	c.push8(uint8(p))

	c.P.SetI(true)
	c.PC = c.Read16(vector)
	c.spend(interruptCycles)

	c.dbg.Interrupt(prevpc, c.PC, isNMI)
	log.ModIRQ.DebugZ("servicing interrupt").
		Bool("nmi", isNMI).
		Hex16("from", prevpc).
		Hex16("handler", c.PC).
		End()
}
