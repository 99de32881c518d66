package emu

import (
	"context"
	"sync/atomic"

	"github.com/go-faster/errors"
	"golang.org/x/sync/errgroup"

	"mos6502/emu/debugger"
	"mos6502/emu/log"
	"mos6502/hw"
	"mos6502/hw/hwio"
	"mos6502/image"
)

// StopReason tells why Machine.Run returned.
type StopReason uint8

const (
	StopCancelled  StopReason = iota // context cancelled or pacer stopped
	StopMaxCycles                    // cycle budget exhausted
	StopTrap                         // instruction jumping to itself
	StopBreakpoint                   // breakpoint reached
	StopFault                        // CPU halted on a fault
)

func (r StopReason) String() string {
	switch r {
	case StopCancelled:
		return "cancelled"
	case StopMaxCycles:
		return "max cycles"
	case StopTrap:
		return "trap"
	case StopBreakpoint:
		return "breakpoint"
	case StopFault:
		return "fault"
	}
	return "unknown"
}

// ctx is checked every ctxCheckSteps instructions.
const ctxCheckSteps = 1024

// Machine is a 6502 with 64KB of RAM, optionally a read-only region holding
// the program image and a console device.
type Machine struct {
	CPU      *hw.CPU
	Bus      *hwio.Table
	RAM      *hwio.Mem
	ROM      *hwio.Mem // read-only view over the image, nil if not protected
	Console  *Console  // nil if disabled
	Debugger *debugger.Debugger
	Image    *image.Image

	cfg   Config
	pacer Pacer

	// interrupt requests coming from other goroutines.
	irqReq atomic.Bool
	nmiReq atomic.Bool

	// number of attached interrupt sources, while non-zero an instruction
	// jumping to itself waits for an interrupt instead of being a trap.
	intSources atomic.Int32
}

// NewMachine creates a machine. Memory is mapped by PowerUp.
func NewMachine(cfg Config) *Machine {
	bus := hwio.NewTable("cpu")
	m := &Machine{
		Bus: bus,
		RAM: hwio.NewRAM("ram", 0x10000),
		CPU: hw.NewCPU(bus),
		cfg: cfg,
	}
	m.Debugger = debugger.New(m.CPU)
	if cfg.TraceOut != nil {
		m.CPU.SetTraceOutput(cfg.TraceOut)
	}
	return m
}

// SetPacer sets the pacer called before each instruction, nil disables it.
func (m *Machine) SetPacer(p Pacer) {
	m.pacer = p
}

// SetConsole sets the console, to be mapped at the configured io base address
// by PowerUp.
func (m *Machine) SetConsole(c *Console) {
	m.Console = c
}

// PowerUp maps memory, places the image at the configured origin and resets
// the CPU.
func (m *Machine) PowerUp(img *image.Image) error {
	mcfg := m.cfg.Memory
	if err := img.PlaceInto(m.RAM.Data, mcfg.Origin); err != nil {
		return errors.Wrap(err, "power up")
	}
	m.Image = img

	m.Bus.Reset()
	m.Bus.MapMem(0x0000, 0x10000, m.RAM)

	if mcfg.ROMProtect {
		m.ROM = &hwio.Mem{
			Name:  "rom",
			Data:  m.RAM.Data,
			Flags: hwio.MemFlag8ReadOnly,
		}
		m.Bus.MapMem(mcfg.Origin, img.Size(), m.ROM)
	}

	if mcfg.Console {
		if m.Console == nil {
			m.Console = NewConsole(nil)
		}
		m.Console.Map(m.Bus, mcfg.IOBase)
	}

	if vec := m.cfg.CPU.ResetVector; vec != nil {
		hwio.Write16(m.RAM, hw.ResetVector, *vec)
	}

	log.ModEmu.InfoZ("power up").
		Hex16("origin", mcfg.Origin).
		Int("size", img.Size()).
		Bool("rom", mcfg.ROMProtect).
		Bool("console", mcfg.Console).
		End()

	m.Reset()
	return nil
}

// Reset resets the CPU, the image stays in memory.
func (m *Machine) Reset() {
	m.irqReq.Store(false)
	m.nmiReq.Store(false)
	m.CPU.Reset()
}

// RequestInterrupt requests an IRQ if maskable, an NMI otherwise. It's safe to
// call concurrently with Run, the request is forwarded to the CPU between
// instructions.
func (m *Machine) RequestInterrupt(maskable bool) {
	if maskable {
		m.irqReq.Store(true)
	} else {
		m.nmiReq.Store(true)
	}
}

func (m *Machine) pollRequests() {
	if m.nmiReq.Swap(false) {
		m.CPU.TriggerInterrupt(false)
	}
	if m.irqReq.Swap(false) {
		m.CPU.TriggerInterrupt(true)
	}
}

// Run executes the program until ctx is cancelled, the cycle budget is
// exhausted, a trap or breakpoint is reached, or the CPU faults. A breakpoint
// at the current PC doesn't stop Run, so that it can be resumed. The error is
// only non-nil for a fault.
//
// An instruction jumping to itself is a trap, unless an interrupt source is
// attached (see RunWith) or an interrupt request is pending: the CPU then
// keeps executing it, as a program idling until the next interrupt.
func (m *Machine) Run(ctx context.Context) (StopReason, error) {
	log.AddContext(m.CPU)
	defer log.RemoveContext(m.CPU)

	var clock *clockPacer
	if hz := m.cfg.CPU.ClockHz; hz > 0 {
		clock = newClockPacer(hz, m.CPU.Cycles)
	}
	maxCycles := m.cfg.CPU.MaxCycles

	for i := 0; ; i++ {
		if i%ctxCheckSteps == 0 && ctx.Err() != nil {
			return m.stop(StopCancelled, nil)
		}
		if maxCycles != 0 && m.CPU.Cycles >= maxCycles {
			return m.stop(StopMaxCycles, nil)
		}
		m.pollRequests()

		pc := m.CPU.PC
		if i != 0 && m.Debugger.IsBreakpoint(pc) {
			return m.stop(StopBreakpoint, nil)
		}
		if m.pacer != nil {
			if err := m.pacer.Pace(ctx, m.CPU.Disasm(pc)); err != nil {
				return m.stop(StopCancelled, nil)
			}
		}

		if err := m.CPU.Step(); err != nil {
			return m.stop(StopFault, err)
		}
		if m.CPU.PC == pc && !m.awaitingInterrupt() {
			return m.stop(StopTrap, nil)
		}

		if clock != nil {
			if err := clock.sync(ctx, m.CPU.Cycles); err != nil {
				return m.stop(StopCancelled, nil)
			}
		}
	}
}

// awaitingInterrupt reports whether an interrupt can still take the CPU out
// of a self-jump.
func (m *Machine) awaitingInterrupt() bool {
	switch m.CPU.InterruptState() {
	case hw.IntNMIRequested:
		return true
	case hw.IntIRQRequested:
		if !m.CPU.P.I() {
			return true
		}
	}
	return m.intSources.Load() > 0 || m.nmiReq.Load() || m.irqReq.Load() && !m.CPU.P.I()
}

func (m *Machine) stop(reason StopReason, err error) (StopReason, error) {
	log.ModEmu.InfoZ("stopped").
		Stringer("reason", reason).
		Hex16("pc", m.CPU.PC).
		Uint64("cycles", m.CPU.Cycles).
		End()
	return reason, err
}

// RunWith runs the machine like Run while forwarding interrupt requests
// received on interrupts (true for IRQ, false for NMI). Until interrupts is
// closed, a self-jump waits for the next interrupt rather than stopping the
// run.
func (m *Machine) RunWith(ctx context.Context, interrupts <-chan bool) (StopReason, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m.intSources.Add(1)
	attached := true
	detach := func() {
		if attached {
			attached = false
			m.intSources.Add(-1)
		}
	}
	defer detach()

	g, ctx := errgroup.WithContext(ctx)

	var reason StopReason
	g.Go(func() error {
		defer cancel()

		var err error
		reason, err = m.Run(ctx)
		return err
	})
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case maskable, ok := <-interrupts:
				if !ok {
					// Keep waiting for the end of the run.
					interrupts = nil
					detach()
					continue
				}
				m.RequestInterrupt(maskable)
			}
		}
	})

	err := g.Wait()
	return reason, err
}
