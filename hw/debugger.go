package hw

// A Debugger monitors a CPU.
type Debugger interface {
	// Trace is called before each opcode is executed. The debugger can pause
	// the CPU by blocking until user interaction finishes.
	Trace(pc uint16)

	// Interrupt is called once an interrupt sequence completed. prevpc is the
	// address of the instruction that was about to be executed, curpc is the
	// address of the interrupt handler, and isNMI is true if the interrupt is
	// a non-maskable interrupt.
	Interrupt(prevpc, curpc uint16, isNMI bool)

	// Reset is called after the CPU has been reset.
	Reset()

	// Fault is called when the CPU halts on err.
	Fault(err error)
}

type nopDebugger struct{}

func (nopDebugger) Trace(uint16)                   {}
func (nopDebugger) Interrupt(uint16, uint16, bool) {}
func (nopDebugger) Reset()                         {}
func (nopDebugger) Fault(error)                    {}
