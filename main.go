package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"mos6502/emu/log"
)

func main() {
	args := parseArgs(os.Args[1:])

	switch args.mode {
	case runMode:
		os.Exit(runMain(args.Run, log.ModuleMask(args.Log)))
	case disasmMode:
		disasmMain(args.Disasm)
	case infosMode:
		infosMain(args.Infos)
	case versionMode:
		printVersion()
	}
}

func printVersion() {
	version := "(devel)"
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" {
		version = bi.Main.Version
	}
	fmt.Println("mos6502", version)
}
