package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/go-faster/jx"

	"mos6502/emu"
	"mos6502/emu/log"
	"mos6502/hw"
	"mos6502/hw/hwio"
	"mos6502/image"
)

// runMain runs the image and returns the process exit code.
func runMain(args Run, logmask log.ModuleMask) int {
	cfg := emu.LoadConfigOrDefault()
	if args.Config != "" {
		var err error
		cfg, err = emu.LoadConfig(args.Config)
		checkf(err, "failed to load config")
	}
	applyRunFlags(&cfg, args)

	cfgmask, err := log.ParseModules(cfg.Log.Modules)
	checkf(err, "invalid log modules")
	log.EnableDebugModules(cfgmask | logmask)
	checkf(cfg.Check(), "invalid configuration")

	img, err := image.Open(args.ImagePath)
	checkf(err, "failed to open image")
	defer img.Close()

	if args.Trace != nil {
		cfg.TraceOut = args.Trace
		defer args.Trace.Close()
	} else if cfg.Trace.Enabled {
		cfg.TraceOut = os.Stderr
	}

	m := emu.NewMachine(cfg)
	if cfg.Memory.Console {
		m.SetConsole(emu.NewConsole(os.Stdout))
	}
	checkf(m.PowerUp(img), "power up failed")

	for _, addr := range args.Breaks {
		m.Debugger.AddBreakpoint(uint16(addr))
	}

	if args.Step {
		sp, err := newStepPacer(os.Stdin, os.Stderr)
		checkf(err, "cannot single-step")
		defer sp.Close()
		m.SetPacer(sp)
	} else if m.Console != nil {
		go func() {
			if err := m.Console.FeedFrom(os.Stdin); err != nil {
				log.ModEmu.WarnZ("console input").Error("err", err).End()
			}
		}()
	}

	if args.SaveConfig {
		cfg.TraceOut = nil
		if err := emu.SaveConfig(cfg); err != nil {
			log.ModEmu.WarnZ("failed to save config").Error("err", err).End()
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	reason, runErr := m.Run(ctx)
	printStatus(m, reason, args.JSON)
	if runErr != nil {
		return 1
	}
	return 0
}

// applyRunFlags overrides the configuration with command line flags.
func applyRunFlags(cfg *emu.Config, args Run) {
	if args.Origin != nil {
		cfg.Memory.Origin = uint16(*args.Origin)
	}
	if args.Reset != nil {
		vec := uint16(*args.Reset)
		cfg.CPU.ResetVector = &vec
	}
	if args.MaxCycles != 0 {
		cfg.CPU.MaxCycles = args.MaxCycles
	}
	if args.ClockHz != 0 {
		cfg.CPU.ClockHz = args.ClockHz
	}
	if args.ROM {
		cfg.Memory.ROMProtect = true
	}
	if args.Console {
		cfg.Memory.Console = true
	}
	if args.IOBase != nil {
		cfg.Memory.IOBase = uint16(*args.IOBase)
	}
}

func printStatus(m *emu.Machine, reason emu.StopReason, asJSON bool) {
	st := m.Status()
	if asJSON {
		var e jx.Encoder
		e.SetIdent(2)
		e.ObjStart()
		e.FieldStart("stop")
		e.Str(reason.String())
		e.FieldStart("status")
		st.Encode(&e)
		e.ObjEnd()
		fmt.Println(e.String())
		return
	}

	fmt.Printf("\nstopped: %s\n", reason)
	checkf(st.WriteText(os.Stdout), "failed to write status")
}

func disasmMain(args Disasm) {
	img, err := image.Open(args.ImagePath)
	checkf(err, "failed to open image")
	defer img.Close()

	origin := emu.DefaultConfig().Memory.Origin
	if args.Origin != nil {
		origin = uint16(*args.Origin)
	}

	ram := hwio.NewRAM("ram", 0x10000)
	checkf(img.PlaceInto(ram.Data, origin), "failed to place image")
	bus := hwio.NewTable("disasm")
	bus.MapMem(0x0000, 0x10000, ram)

	pc := origin
	if args.Start != nil {
		pc = uint16(*args.Start)
	}
	end := int(img.End(origin))

	for n := 0; args.Count == 0 || n < args.Count; n++ {
		if args.Count == 0 && int(pc) > end {
			break
		}
		op := hw.Disasm(bus, pc)
		fmt.Println(op)
		next := pc + uint16(op.Len())
		if next < pc {
			// wrapped around the address space
			break
		}
		pc = next
	}
}

func infosMain(args Infos) {
	img, err := image.Open(args.ImagePath)
	checkf(err, "failed to open image")
	defer img.Close()

	origin := emu.DefaultConfig().Memory.Origin
	if args.Origin != nil {
		origin = uint16(*args.Origin)
	}
	img.PrintInfos(os.Stdout, origin)
}
