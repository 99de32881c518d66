package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"mos6502/emu/log"
)

type mode byte

const (
	runMode     mode = iota // Run an image
	disasmMode              // Disassemble an image
	infosMode               // Show image infos
	versionMode             // Show mos6502 version
)

type (
	CLI struct {
		Run     Run     `cmd:"" help:"Run a program image."`
		Disasm  Disasm  `cmd:"" help:"Disassemble a program image."`
		Infos   Infos   `cmd:"" help:"Show program image infos."`
		Version Version `cmd:"" help:"Show mos6502 version."`

		Log logModMask `help:"${log_help}" placeholder:"mod0,mod1,..."`

		mode mode
	}

	Run struct {
		ImagePath string `arg:"" name:"/path/to/image" help:"Raw binary program image." type:"existingfile"`

		Config     string    `name:"config" help:"${config_help}" type:"existingfile"`
		Origin     *address  `name:"origin" help:"Address at which the image is loaded." placeholder:"ADDR"`
		Reset      *address  `name:"reset" help:"Override the reset vector." placeholder:"ADDR"`
		MaxCycles  uint64    `name:"max-cycles" help:"Stop after that many cycles (0: no limit)."`
		ClockHz    uint64    `name:"clock" help:"Throttle execution to the given frequency in Hz (0: unthrottled)."`
		ROM        bool      `name:"rom" help:"Write-protect the image region."`
		Console    bool      `name:"console" help:"Map the console device, connected to stdin/stdout."`
		IOBase     *address  `name:"io-base" help:"Console base address." placeholder:"ADDR"`
		Trace      *outfile  `name:"trace" help:"Write CPU execution trace." placeholder:"FILE|stdout|stderr"`
		Step       bool      `name:"step" help:"${step_help}"`
		JSON       bool      `name:"json" help:"Print final status as JSON."`
		Breaks     []address `name:"break" help:"Stop at the given addresses." placeholder:"ADDR,..." sep:","`
		SaveConfig bool      `name:"save-config" help:"Save the resulting configuration in the user config directory."`
	}

	Disasm struct {
		ImagePath string `arg:"" name:"/path/to/image" type:"existingfile"`

		Origin *address `name:"origin" help:"Address at which the image is loaded." placeholder:"ADDR"`
		Start  *address `name:"start" help:"Address to start disassembling at (default: origin)." placeholder:"ADDR"`
		Count  int      `name:"count" help:"Number of instructions to disassemble (0: up to the image end)." default:"0"`
	}

	Infos struct {
		ImagePath string   `arg:"" name:"/path/to/image" type:"existingfile"`
		Origin    *address `name:"origin" help:"Address at which the image is loaded." placeholder:"ADDR"`
	}

	Version struct{}
)

var vars = kong.Vars{
	"config_help": "Configuration file (default: config.toml in the user config directory).",
	"step_help":   "Single-step: press a key to execute each instruction, q to quit.",
	"log_help":    "Enable logging for specified modules.",
}

func parseArgs(args []string) CLI {
	var cfg CLI
	parser, err := kong.New(&cfg,
		kong.Name("mos6502"),
		kong.Description("MOS 6502 emulator."),
		kong.UsageOnError(),
		kong.Help(printHelp),
		vars)
	if err != nil {
		panic(err)
	}

	ctx, err := parser.Parse(args)
	checkf(err, "failed to parse command line")
	checkf(ctx.Error, "failed to parse command line")

	switch ctx.Command() {
	case "disasm </path/to/image>":
		cfg.mode = disasmMode
	case "infos </path/to/image>":
		cfg.mode = infosMode
	case "version":
		cfg.mode = versionMode
	default:
		cfg.mode = runMode
	}
	return cfg
}

func printHelp(options kong.HelpOptions, ctx *kong.Context) error {
	if err := kong.DefaultHelpPrinter(options, ctx); err != nil {
		return err
	}
	if strings.HasPrefix(ctx.Command(), "run") {
		loggingHelp := `
Log modules:
  The --log flag accepts a comma-separated list of modules.

  Valid log modules are:
%s

  As a special case, the following values are accepted:
    - no                     Disable all logging.
    - all                    Enable all logs.
`
		var strs []string
		for _, m := range log.ModuleNames() {
			strs = append(strs, "    - "+m)
		}

		fmt.Fprintf(os.Stderr, loggingHelp, strings.Join(strs, "\n"))
	}

	return nil
}

type logModMask log.ModuleMask

// Decode decodes a comma-separated list of module names into a module mask.
//
// Implements kong.MapperValue interface.
func (lm *logModMask) Decode(ctx *kong.DecodeContext) error {
	tok := ctx.Scan.Pop()
	list := tok.Value.(string)

	var hasAll, hasNo bool
	for _, v := range strings.Split(list, ",") {
		switch v {
		case "all":
			hasAll = true
		case "no":
			hasNo = true
		}
	}
	if hasNo && list != "no" {
		if hasAll {
			return fmt.Errorf("cannot use 'all' and 'no' together")
		}
		return fmt.Errorf("cannot combine 'no' with other log modules")
	}

	mask, err := log.ParseModules(list)
	if err != nil {
		return err
	}
	*lm = logModMask(mask)
	return nil
}

// address is a 16-bit address given as $hhhh, 0xhhhh or decimal.
type address uint16

// Decode implements kong.MapperValue interface.
func (a *address) Decode(ctx *kong.DecodeContext) error {
	var s string
	if err := ctx.Scan.PopValueInto("address", &s); err != nil {
		return err
	}
	v, err := parseAddress(s)
	if err != nil {
		return err
	}
	*a = address(v)
	return nil
}

func parseAddress(s string) (uint16, error) {
	digits, base := s, 10
	switch {
	case strings.HasPrefix(s, "$"):
		digits, base = s[1:], 16
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		digits, base = s[2:], 16
	}
	v, err := strconv.ParseUint(digits, base, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid address %q: must be $hhhh, 0xhhhh or decimal in [0, 65535]", s)
	}
	return uint16(v), nil
}

type outfile struct {
	w     io.Writer
	name  string
	close func() error
}

// Decode decodes FILE|stdout|stderr into an io.WriteCloser
// that writes to that file.
//
// Implements kong.MapperValue interface.
func (f *outfile) Decode(ctx *kong.DecodeContext) error {
	tok := ctx.Scan.Pop()
	f.name = tok.Value.(string)
	f.close = func() error { return nil }

	switch f.name {
	case "stdout":
		f.w = os.Stdout
	case "stderr":
		f.w = os.Stderr
	default:
		fd, err := os.Create(f.name)
		if err != nil {
			return err
		}
		f.w = fd
		f.close = fd.Close
	}
	return nil
}

func (f *outfile) String() string              { return f.name }
func (f *outfile) Write(p []byte) (int, error) { return f.w.Write(p) }
func (f *outfile) Close() error                { return f.close() }

func checkf(err error, format string, args ...any) {
	if err == nil {
		return
	}
	fatalf(format+".\n"+err.Error(), args...)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "fatal error:")
	fmt.Fprintf(os.Stderr, "\n\t%s\n", fmt.Sprintf(format, args...))
	os.Exit(1)
}
