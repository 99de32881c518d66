package hw

import (
	"testing"

	"github.com/go-faster/errors"
	"github.com/google/go-cmp/cmp"
)

func TestReset(t *testing.T) {
	cpu := loadCPUWith(t, `FFFC: 34 12`)
	cpu.A, cpu.X, cpu.Y = 1, 2, 3
	cpu.SP = 0x10
	cpu.P = 0xFF
	cpu.TriggerInterrupt(false)

	cpu.Reset()

	got := cpuState{A: cpu.A, X: cpu.X, Y: cpu.Y, P: cpu.P, SP: cpu.SP, PC: cpu.PC, Clock: cpu.Cycles}
	want := cpuState{P: 0x36, SP: 0xFF, PC: 0x1234, Clock: 7}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("state after reset mismatch (-want +got):\n%s", diff)
	}
	if s := cpu.InterruptState(); s != IntIdle {
		t.Errorf("interrupt state = %s, want %s", s, IntIdle)
	}
	// Nothing is pushed.
	wantMem8(t, cpu, 0x0110, 0x00)
	wantMem8(t, cpu, 0x01FF, 0x00)
}

func TestPageCrossing(t *testing.T) {
	tests := []struct {
		name   string
		dump   string
		cycles uint64
	}{
		{"LDA $20FF,X", `0200: bd ff 20`, 5},
		{"LDA $2000,X", `0200: bd 00 20`, 4},
		{"LDA $20FF,Y", `0200: b9 ff 20`, 5},
		{"STA $20FF,X", `0200: 9d ff 20`, 5},
		{"INC $20FF,X", `0200: fe ff 20`, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cpu := loadCPUWith(t, tt.dump)
			cpu.PC = 0x0200
			cpu.X = 1
			cpu.Y = 1
			if err := cpu.Step(); err != nil {
				t.Fatal(err)
			}
			if cpu.Cycles != tt.cycles {
				t.Errorf("cycles = %d, want %d", cpu.Cycles, tt.cycles)
			}
			if cpu.PC != 0x0203 {
				t.Errorf("PC = $%04X, want $0203", cpu.PC)
			}
		})
	}
}

func TestZeroPageWrap(t *testing.T) {
	dump := `
0001: 42
0101: 99
0200: b5 ff`
	cpu := loadCPUWith(t, dump)
	cpu.PC = 0x0200
	cpu.X = 2
	runAndCheckState(t, cpu, 4,
		"A", uint8(0x42),
		"PC", uint16(0x0202),
	)
}

func TestBranch(t *testing.T) {
	tests := []struct {
		name   string
		pc     uint16
		disp   uint8
		p      P
		wantpc uint16
		cycles uint64
	}{
		{"taken", 0x8010, 0x05, Zero, 0x8017, 3},
		{"not taken", 0x8010, 0x05, 0, 0x8012, 2},
		{"backward", 0x8010, 0xFA, Zero, 0x800C, 3},
		{"page cross", 0x80F0, 0x20, Zero, 0x8112, 4},
		{"backward page cross", 0x8000, 0xF0, Zero, 0x7FF2, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// BEQ disp
			bus, ram := newTestBus()
			ram.Load(tt.pc, []byte{0xF0, tt.disp})
			cpu := NewCPU(bus)
			cpu.PC = tt.pc
			cpu.P = tt.p

			runAndCheckState(t, cpu, 2,
				"PC", tt.wantpc,
				"cycles", tt.cycles,
			)
		})
	}
}

func TestADCSBCRoundTrip(t *testing.T) {
	cpu := loadCPUWith(t, ``)
	const addr = 0x0300
	oper := operand{mode: Absolute, addr: addr}

	for a := range 256 {
		for m := range 256 {
			cpu.Write8(addr, uint8(m))
			cpu.A = uint8(a)
			cpu.P.SetC(false)
			ADC(cpu, oper)
			cpu.P.SetC(true)
			SBC(cpu, oper)
			if cpu.A != uint8(a) {
				t.Fatalf("A=%02X M=%02X: CLC/ADC/SEC/SBC gives %02X", a, m, cpu.A)
			}
		}
	}
}

func TestADCFlags(t *testing.T) {
	tests := []struct {
		a, m  uint8
		carry bool
		want  uint8
		wantP P
	}{
		{0x01, 0x01, false, 0x02, 0},
		{0x7F, 0x01, false, 0x80, Negative | Overflow},
		{0xFF, 0x01, false, 0x00, Zero | Carry},
		{0x80, 0x80, false, 0x00, Zero | Carry | Overflow},
		{0x00, 0x00, true, 0x01, 0},
	}
	for _, tt := range tests {
		cpu := loadCPUWith(t, ``)
		cpu.Write8(0x0300, tt.m)
		cpu.A = tt.a
		cpu.P = 0
		cpu.P.SetC(tt.carry)
		ADC(cpu, operand{mode: Absolute, addr: 0x0300})
		if cpu.A != tt.want || cpu.P != tt.wantP {
			t.Errorf("%02X+%02X+%v = %02X P=%s, want %02X P=%s", tt.a, tt.m, tt.carry, cpu.A, cpu.P, tt.want, tt.wantP)
		}
	}
}

func TestDecimalFlagIgnored(t *testing.T) {
	cpu := loadCPUWith(t, `0200: f8 18 a9 09 69 01`)
	cpu.PC = 0x0200
	runAndCheckState(t, cpu, 8,
		"A", uint8(0x0A),
		"Pd", uint8(1),
	)
}

// Operations defining Z and N must set them from their result.
func TestFlagInvariants(t *testing.T) {
	type op struct {
		name string
		exec func(*CPU, operand)
		res  func(*CPU) uint8
	}
	ra := func(c *CPU) uint8 { return c.A }
	rx := func(c *CPU) uint8 { return c.X }
	ry := func(c *CPU) uint8 { return c.Y }
	mem := func(c *CPU) uint8 { return c.Read8(0x0300) }

	oplist := []op{
		{"LDA", LDA, ra}, {"LDX", LDX, rx}, {"LDY", LDY, ry},
		{"AND", AND, ra}, {"ORA", ORA, ra}, {"EOR", EOR, ra},
		{"ADC", ADC, ra}, {"SBC", SBC, ra},
		{"ASL", ASL, mem}, {"LSR", LSR, mem}, {"ROL", ROL, mem}, {"ROR", ROR, mem},
		{"INC", INC, mem}, {"DEC", DEC, mem},
		{"INX", INX, rx}, {"DEX", DEX, rx}, {"INY", INY, ry}, {"DEY", DEY, ry},
		{"TAX", TAX, rx}, {"TAY", TAY, ry}, {"TXA", TXA, ra}, {"TYA", TYA, ra},
	}

	cpu := loadCPUWith(t, ``)
	oper := operand{mode: Absolute, addr: 0x0300}
	for _, o := range oplist {
		for v := range 256 {
			for _, carry := range []bool{false, true} {
				cpu.Write8(0x0300, uint8(v))
				cpu.A, cpu.X, cpu.Y = uint8(v*7), uint8(v*13), uint8(v*31)
				cpu.P = 0
				cpu.P.SetC(carry)
				o.exec(cpu, oper)

				res := o.res(cpu)
				if cpu.P.Z() != (res == 0) || cpu.P.N() != (res&0x80 != 0) {
					t.Fatalf("%s: v=%02X carry=%v: result %02X with P=%s", o.name, v, carry, res, cpu.P)
				}
			}
		}
	}
}

func TestInterrupts(t *testing.T) {
	t.Run("IRQ", func(t *testing.T) {
		dump := `
0200: ea
FFFE: 34 12`
		cpu := loadCPUWith(t, dump)
		cpu.PC = 0x0200
		cpu.P = Carry | Reserved

		cpu.TriggerInterrupt(true)
		if s := cpu.InterruptState(); s != IntIRQRequested {
			t.Fatalf("interrupt state = %s, want %s", s, IntIRQRequested)
		}
		runAndCheckState(t, cpu, 1,
			"PC", uint16(0x1234),
			"SP", uint8(0xFC),
			"Pi", uint8(1),
			"Pc", uint8(1),
			"cycles", uint64(7),
			// PCH, PCL, P without B
			"mem", `01fd: 21 00 02`,
		)
		if s := cpu.InterruptState(); s != IntIdle {
			t.Errorf("interrupt state = %s, want %s", s, IntIdle)
		}
	})

	t.Run("IRQ masked", func(t *testing.T) {
		dump := `
0200: ea 58 ea
FFFE: 34 12`
		cpu := loadCPUWith(t, dump)
		cpu.PC = 0x0200
		cpu.P = Interrupt

		cpu.TriggerInterrupt(true)
		// NOP runs, IRQ stays pending.
		runAndCheckState(t, cpu, 2,
			"PC", uint16(0x0201),
		)
		if s := cpu.InterruptState(); s != IntIRQRequested {
			t.Fatalf("interrupt state = %s, want %s", s, IntIRQRequested)
		}
		// CLI, then IRQ is serviced.
		runAndCheckState(t, cpu, 2,
			"PC", uint16(0x0202),
			"Pi", uint8(0),
		)
		runAndCheckState(t, cpu, 1,
			"PC", uint16(0x1234),
			"mem", `01fe: 02 02`,
		)
	})

	t.Run("NMI ignores I and has priority", func(t *testing.T) {
		dump := `
0200: ea
FFFA: 00 90
FFFE: 34 12`
		cpu := loadCPUWith(t, dump)
		cpu.PC = 0x0200
		cpu.P = Interrupt

		cpu.TriggerInterrupt(true)
		cpu.TriggerInterrupt(false)
		if s := cpu.InterruptState(); s != IntNMIRequested {
			t.Fatalf("interrupt state = %s, want %s", s, IntNMIRequested)
		}
		runAndCheckState(t, cpu, 1,
			"PC", uint16(0x9000),
			"mem", `01fd: 24 00 02`,
		)
		if s := cpu.InterruptState(); s != IntIRQRequested {
			t.Errorf("interrupt state = %s, want %s", s, IntIRQRequested)
		}
	})
}

type recDebugger struct {
	traces     []uint16
	interrupts int
	resets     int
	faults     []error
}

func (d *recDebugger) Trace(pc uint16)                { d.traces = append(d.traces, pc) }
func (d *recDebugger) Interrupt(_, _ uint16, _ bool) { d.interrupts++ }
func (d *recDebugger) Reset()                         { d.resets++ }
func (d *recDebugger) Fault(err error)                { d.faults = append(d.faults, err) }

func TestInvalidOpcode(t *testing.T) {
	dump := `
0200: ea 02 ea
FFFC: 00 02`
	cpu := loadCPUWith(t, dump)
	dbg := &recDebugger{}
	cpu.SetDebugger(dbg)

	err := cpu.Run(100)
	if !errors.Is(err, ErrInvalidOpcode) {
		t.Fatalf("Run() = %v, want %v", err, ErrInvalidOpcode)
	}
	var fault *Fault
	if !errors.As(err, &fault) {
		t.Fatalf("Run() error is %T, want *Fault", err)
	}
	if fault.PC != 0x0201 || fault.Opcode != 0x02 {
		t.Errorf("fault at $%04X opcode $%02X, want $0201 opcode $02", fault.PC, fault.Opcode)
	}

	// Halted until reset.
	if !cpu.IsHalted() {
		t.Error("CPU should be halted")
	}
	cycles := cpu.Cycles
	if err := cpu.Step(); err != fault {
		t.Errorf("Step() = %v, want %v", err, fault)
	}
	if cpu.Cycles != cycles {
		t.Errorf("halted CPU spent cycles")
	}

	cpu.Reset()
	if cpu.IsHalted() || cpu.Fault() != nil {
		t.Error("CPU should not be halted after reset")
	}

	if diff := cmp.Diff([]uint16{0x0200, 0x0201}, dbg.traces); diff != "" {
		t.Errorf("traced pcs mismatch (-want +got):\n%s", diff)
	}
	if len(dbg.faults) != 1 || dbg.resets != 1 {
		t.Errorf("got %d faults and %d resets, want 1 and 1", len(dbg.faults), dbg.resets)
	}
}

func TestInvalidOperand(t *testing.T) {
	saved := ops[0x02]
	t.Cleanup(func() { ops[0x02] = saved })
	ops[0x02] = &opdef{name: "BAD", mode: Accumulator, index: IndexX, cycles: 2, exec: NOP}

	cpu := loadCPUWith(t, `0200: 02`)
	cpu.PC = 0x0200
	cycles := cpu.Cycles
	err := cpu.Step()
	if cpu.Cycles != cycles {
		t.Errorf("faulting instruction spent %d cycles", cpu.Cycles-cycles)
	}
	if !errors.Is(err, ErrInvalidOperand) {
		t.Fatalf("Step() = %v, want %v", err, ErrInvalidOperand)
	}
	var fault *Fault
	if !errors.As(err, &fault) {
		t.Fatalf("Step() error is %T, want *Fault", err)
	}
	if fault.Mode != Accumulator || fault.Index != IndexX || fault.PC != 0x0200 {
		t.Errorf("fault = %+v", fault)
	}
}

func TestDisasm(t *testing.T) {
	dump := `
0200: a9 32 bd ff 20 b1 10 6c ff 10 0a d0 fe 02 a1 fe 96 10`
	cpu := loadCPUWith(t, dump)

	want := []struct {
		pc   uint16
		text string
	}{
		{0x0200, "LDA #$32"},
		{0x0202, "LDA $20FF,X"},
		{0x0205, "LDA ($10),Y"},
		{0x0207, "JMP ($10FF)"},
		{0x020A, "ASL A"},
		{0x020B, "BNE $020B"},
		{0x020D, "??? "},
		{0x020E, "LDA ($FE,X)"},
		{0x0210, "STX $10,Y"},
	}

	pc := uint16(0x0200)
	for _, w := range want {
		if pc != w.pc {
			t.Fatalf("pc = $%04X, want $%04X", pc, w.pc)
		}
		op := cpu.Disasm(pc)
		if got := op.Opcode + " " + op.Oper; got != w.text {
			t.Errorf("$%04X: got %q, want %q", pc, got, w.text)
		}
		pc += uint16(op.Len())
	}
}
