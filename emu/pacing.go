package emu

import (
	"context"
	"time"

	"mos6502/hw"
)

// A Pacer is called before each instruction is executed. It can block, to
// single-step through a program. A non-nil error stops execution.
type Pacer interface {
	Pace(ctx context.Context, op hw.DisasmOp) error
}

// clockPacer throttles execution to a given clock frequency.
type clockPacer struct {
	hz     uint64
	start  time.Time
	cycle0 uint64

	// cycle count at which to check for the next sync.
	next uint64
}

// Sync granularity, in cycles.
const clockSyncCycles = 1000

func newClockPacer(hz, cycles uint64) *clockPacer {
	return &clockPacer{
		hz:     hz,
		start:  time.Now(),
		cycle0: cycles,
		next:   cycles + clockSyncCycles,
	}
}

// sync sleeps if the emulation is ahead of wall-clock time.
func (p *clockPacer) sync(ctx context.Context, cycles uint64) error {
	if cycles < p.next {
		return nil
	}
	p.next = cycles + clockSyncCycles

	elapsed := cycles - p.cycle0
	want := time.Duration(float64(elapsed) / float64(p.hz) * float64(time.Second))
	ahead := want - time.Since(p.start)
	if ahead <= 0 {
		return nil
	}

	t := time.NewTimer(ahead)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
