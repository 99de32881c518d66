package emu

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"mos6502/hw"
	"mos6502/image"
)

// newImage returns an image to load at origin, covering up to $FFFF, made of
// the given code chunks.
func newImage(origin uint16, chunks map[uint16][]byte) *image.Image {
	data := make([]byte, 0x10000-int(origin))
	for addr, code := range chunks {
		copy(data[addr-origin:], code)
	}
	return &image.Image{Data: data}
}

func powerUp(t *testing.T, cfg Config, chunks map[uint16][]byte) *Machine {
	t.Helper()

	if _, ok := chunks[hw.ResetVector]; !ok {
		chunks[hw.ResetVector] = []byte{0x00, 0x80}
	}
	m := NewMachine(cfg)
	if err := m.PowerUp(newImage(cfg.Memory.Origin, chunks)); err != nil {
		t.Fatal(err)
	}
	return m
}

func run(t *testing.T, m *Machine, want StopReason) {
	t.Helper()

	got, err := m.Run(context.Background())
	if got != want {
		t.Fatalf("Run() stopped with %s (err: %v), want %s", got, err, want)
	}
}

func TestMachineTrap(t *testing.T) {
	m := powerUp(t, DefaultConfig(), map[uint16][]byte{
		// LDA #$42; STA $0200; JMP $8005
		0x8000: {0xA9, 0x42, 0x8D, 0x00, 0x02, 0x4C, 0x05, 0x80},
	})
	run(t, m, StopTrap)

	if m.CPU.PC != 0x8005 || m.CPU.A != 0x42 {
		t.Errorf("PC=$%04X A=$%02X, want PC=$8005 A=$42", m.CPU.PC, m.CPU.A)
	}
	if got := m.RAM.Data[0x0200]; got != 0x42 {
		t.Errorf("$0200 = $%02X, want $42", got)
	}
	// reset (7) + LDA (2) + STA (4) + JMP (3)
	if m.CPU.Cycles != 16 {
		t.Errorf("cycles = %d, want 16", m.CPU.Cycles)
	}
}

func TestMachineFault(t *testing.T) {
	m := powerUp(t, DefaultConfig(), map[uint16][]byte{
		0x8000: {0xEA, 0x02},
	})
	reason, err := m.Run(context.Background())
	if reason != StopFault || !errors.Is(err, hw.ErrInvalidOpcode) {
		t.Fatalf("Run() = %s, %v, want %s, %v", reason, err, StopFault, hw.ErrInvalidOpcode)
	}
	if st := m.Status(); st.Fault == nil {
		t.Error("status should report the fault")
	}
}

// INX; JMP $8000
var countLoop = []byte{0xE8, 0x4C, 0x00, 0x80}

func TestMachineMaxCycles(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CPU.MaxCycles = 107
	m := powerUp(t, cfg, map[uint16][]byte{0x8000: countLoop})
	run(t, m, StopMaxCycles)

	if m.CPU.Cycles != 107 || m.CPU.X != 20 {
		t.Errorf("cycles=%d X=%d, want 107 and 20", m.CPU.Cycles, m.CPU.X)
	}
}

func TestMachineBreakpoint(t *testing.T) {
	m := powerUp(t, DefaultConfig(), map[uint16][]byte{0x8000: countLoop})
	m.Debugger.AddBreakpoint(0x8001)

	for i := range 3 {
		run(t, m, StopBreakpoint)
		if m.CPU.PC != 0x8001 || m.CPU.X != uint8(i+1) {
			t.Fatalf("PC=$%04X X=%d, want PC=$8001 X=%d", m.CPU.PC, m.CPU.X, i+1)
		}
	}
}

func TestMachineCancel(t *testing.T) {
	m := powerUp(t, DefaultConfig(), map[uint16][]byte{0x8000: countLoop})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reason, err := m.Run(ctx)
	if reason != StopCancelled || err != nil {
		t.Fatalf("Run() = %s, %v, want %s", reason, err, StopCancelled)
	}
}

func TestMachineROMProtect(t *testing.T) {
	// LDA #$00; STA $8000; JMP $8005
	prog := []byte{0xA9, 0x00, 0x8D, 0x00, 0x80, 0x4C, 0x05, 0x80}

	for _, protect := range []bool{false, true} {
		cfg := DefaultConfig()
		cfg.Memory.ROMProtect = protect
		m := powerUp(t, cfg, map[uint16][]byte{0x8000: prog})
		run(t, m, StopTrap)

		want := uint8(0x00)
		if protect {
			want = 0xA9
		}
		if got := m.RAM.Data[0x8000]; got != want {
			t.Errorf("rom_protect=%v: $8000 = $%02X, want $%02X", protect, got, want)
		}
	}
}

func TestMachineResetVectorOverride(t *testing.T) {
	cfg := DefaultConfig()
	vec := uint16(0x9000)
	cfg.CPU.ResetVector = &vec
	m := powerUp(t, cfg, map[uint16][]byte{
		0x9000: {0x4C, 0x00, 0x90}, // JMP $9000
	})
	if m.CPU.PC != 0x9000 {
		t.Errorf("PC = $%04X after power up, want $9000", m.CPU.PC)
	}
	run(t, m, StopTrap)
}

func TestMachineConsole(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Memory.Console = true

	var out bytes.Buffer
	m := NewMachine(cfg)
	m.SetConsole(NewConsole(&out))
	m.Console.Feed([]byte("A"))

	img := newImage(cfg.Memory.Origin, map[uint16][]byte{
		0x8000: {
			0xA9, 'H', 0x8D, 0x00, 0x7F, // LDA #'H'; STA $7F00
			0xA9, 'I', 0x8D, 0x00, 0x7F, // LDA #'I'; STA $7F00
			0xAD, 0x01, 0x7F, // LDA $7F01 (status)
			0x8D, 0x01, 0x02, // STA $0201
			0xAD, 0x00, 0x7F, // LDA $7F00 (data)
			0x8D, 0x00, 0x02, // STA $0200
			0xAD, 0x00, 0x7F, // LDA $7F00 (empty)
			0x4C, 0x19, 0x80, // JMP $8019
		},
		hw.ResetVector: {0x00, 0x80},
	})
	if err := m.PowerUp(img); err != nil {
		t.Fatal(err)
	}
	run(t, m, StopTrap)

	if out.String() != "HI" {
		t.Errorf("console output = %q, want %q", out.String(), "HI")
	}
	if m.RAM.Data[0x0201] != 0x80 || m.RAM.Data[0x0200] != 'A' || m.CPU.A != 0 {
		t.Errorf("status=$%02X data=$%02X A=$%02X, want $80, 'A' and 0",
			m.RAM.Data[0x0201], m.RAM.Data[0x0200], m.CPU.A)
	}
}

func TestMachineRunWith(t *testing.T) {
	m := powerUp(t, DefaultConfig(), map[uint16][]byte{
		// CLI; NOP; JMP $8001
		0x8000: {0x58, 0xEA, 0x4C, 0x01, 0x80},
		// LDA #$01; STA $0200; JMP $9005
		0x9000:       {0xA9, 0x01, 0x8D, 0x00, 0x02, 0x4C, 0x05, 0x90},
		hw.IRQVector: {0x00, 0x90},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	irqs := make(chan bool, 1)
	irqs <- true
	close(irqs)

	reason, err := m.RunWith(ctx, irqs)
	if err != nil || reason != StopTrap {
		t.Fatalf("RunWith() = %s, %v, want %s", reason, err, StopTrap)
	}
	if m.CPU.PC != 0x9005 || m.RAM.Data[0x0200] != 0x01 {
		t.Errorf("PC=$%04X $0200=$%02X, want PC=$9005 and $01", m.CPU.PC, m.RAM.Data[0x0200])
	}
	if !m.CPU.P.I() {
		t.Error("I flag should be set in the interrupt handler")
	}
}

func TestMachineRunWithIdleLoop(t *testing.T) {
	m := powerUp(t, DefaultConfig(), map[uint16][]byte{
		// CLI; JMP $8001
		0x8000: {0x58, 0x4C, 0x01, 0x80},
		// LDA #$42; STA $0200; JMP $9005
		0x9000:       {0xA9, 0x42, 0x8D, 0x00, 0x02, 0x4C, 0x05, 0x90},
		hw.IRQVector: {0x00, 0x90},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	irqs := make(chan bool)
	go func() {
		time.Sleep(20 * time.Millisecond)
		irqs <- true
		close(irqs)
	}()

	reason, err := m.RunWith(ctx, irqs)
	if err != nil || reason != StopTrap {
		t.Fatalf("RunWith() = %s, %v, want %s", reason, err, StopTrap)
	}
	if m.CPU.PC != 0x9005 || m.RAM.Data[0x0200] != 0x42 {
		t.Errorf("PC=$%04X $0200=$%02X, want PC=$9005 and $42", m.CPU.PC, m.RAM.Data[0x0200])
	}
}

func TestMachineTrapMaskedIRQ(t *testing.T) {
	m := powerUp(t, DefaultConfig(), map[uint16][]byte{
		// SEI; JMP $8001
		0x8000:       {0x78, 0x4C, 0x01, 0x80},
		hw.IRQVector: {0x00, 0x90},
	})
	m.RequestInterrupt(true)

	run(t, m, StopTrap)
	if m.CPU.PC != 0x8001 {
		t.Errorf("PC = $%04X, want $8001", m.CPU.PC)
	}
	if got := m.CPU.InterruptState(); got != hw.IntIRQRequested {
		t.Errorf("interrupt state = %s, want %s", got, hw.IntIRQRequested)
	}
}

type countPacer struct {
	ops   []string
	limit int
}

func (p *countPacer) Pace(_ context.Context, op hw.DisasmOp) error {
	if len(p.ops) == p.limit {
		return errors.New("stop")
	}
	p.ops = append(p.ops, op.Opcode)
	return nil
}

func TestMachinePacer(t *testing.T) {
	m := powerUp(t, DefaultConfig(), map[uint16][]byte{0x8000: countLoop})
	p := &countPacer{limit: 3}
	m.SetPacer(p)
	run(t, m, StopCancelled)

	if got := strings.Join(p.ops, ","); got != "INX,JMP,INX" {
		t.Errorf("paced ops = %s", got)
	}
	if m.CPU.X != 2 {
		t.Errorf("X = %d, want 2", m.CPU.X)
	}
}

func TestMachineClockHz(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CPU.ClockHz = 100_000
	cfg.CPU.MaxCycles = 5_000
	m := powerUp(t, cfg, map[uint16][]byte{0x8000: countLoop})

	start := time.Now()
	run(t, m, StopMaxCycles)
	// ~5000 cycles at 100kHz
	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Errorf("run took %s, expected throttling", elapsed)
	}
}

func TestPowerUpOverflow(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Memory.Origin = 0xFFFF
	m := NewMachine(cfg)
	err := m.PowerUp(&image.Image{Data: []byte{0xEA, 0xEA}})
	if !errors.Is(err, image.ErrOverflow) {
		t.Errorf("PowerUp() = %v, want %v", err, image.ErrOverflow)
	}
}

func TestStatus(t *testing.T) {
	m := powerUp(t, DefaultConfig(), map[uint16][]byte{
		// JSR $8010
		0x8000: {0x20, 0x10, 0x80},
		// LDA #$80; JMP $8012
		0x8010: {0xA9, 0x80, 0x4C, 0x12, 0x80},
	})
	run(t, m, StopTrap)

	st := m.Status()
	buf, err := st.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	if !jx.Valid(buf) {
		t.Fatalf("invalid JSON: %s", buf)
	}

	var (
		pc     string
		cycles uint64
		flagN  bool
		frames int
	)
	err = jx.DecodeBytes(buf).Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "cycles":
			v, err := d.UInt64()
			cycles = v
			return err
		case "registers":
			return d.Obj(func(d *jx.Decoder, key string) error {
				if key != "pc" {
					return d.Skip()
				}
				v, err := d.Str()
				pc = v
				return err
			})
		case "flags":
			return d.Obj(func(d *jx.Decoder, key string) error {
				if key != "N" {
					return d.Skip()
				}
				v, err := d.Bool()
				flagN = v
				return err
			})
		case "callstack":
			return d.Arr(func(d *jx.Decoder) error {
				frames++
				return d.Skip()
			})
		}
		return d.Skip()
	})
	if err != nil {
		t.Fatal(err)
	}

	// reset (7) + JSR (6) + LDA (2) + JMP (3)
	if pc != "0x8012" || cycles != 18 || !flagN || frames != 2 {
		t.Errorf("pc=%s cycles=%d N=%v frames=%d in %s", pc, cycles, flagN, frames, buf)
	}

	var text bytes.Buffer
	if err := st.WriteText(&text); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Cycles: 18\n", "A:  $80 (128)\n", "PC: $8012\n", "N: 1\n", "Z: 0\n", "Call stack:\n"} {
		if !strings.Contains(text.String(), want) {
			t.Errorf("status report doesn't contain %q:\n%s", want, text.String())
		}
	}
}
