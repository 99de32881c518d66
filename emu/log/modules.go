package log

import "strings"

type ModuleMask uint64
type Module uint

const ModuleMaskAll ModuleMask = 0xFFFFFFFFFFFFFFFF

// Modules used throughout the emulator. Debug and info messages of a module are
// only emitted when the module has been enabled with EnableDebugModules,
// warnings and errors are always emitted.
const (
	ModEmu Module = iota + 1
	ModCPU
	ModIRQ
	ModMem
	ModHwIo
	ModLoader

	endStandardMods
)

var modDebugMask ModuleMask

var modNames = [endStandardMods]string{
	"<error>", "emu", "cpu", "irq", "mem", "hwio", "loader",
}

// ModuleNames returns the names of all log modules, for command line help.
func ModuleNames() []string {
	return append([]string(nil), modNames[1:]...)
}

func ModuleByName(name string) (Module, bool) {
	for idx, s := range modNames {
		if idx != 0 && s == name {
			return Module(idx), true
		}
	}
	return 0, false
}

// ParseModules parses a comma-separated list of module names. "all" enables
// every module, "no" (or an empty string) none.
func ParseModules(list string) (ModuleMask, error) {
	var mask ModuleMask
	for _, name := range strings.Split(list, ",") {
		name = strings.TrimSpace(name)
		switch name {
		case "", "no":
			continue
		case "all":
			mask |= ModuleMaskAll
			continue
		}
		mod, ok := ModuleByName(name)
		if !ok {
			return 0, &UnknownModuleError{Name: name}
		}
		mask |= mod.Mask()
	}
	return mask, nil
}

type UnknownModuleError struct {
	Name string
}

func (e *UnknownModuleError) Error() string {
	return "unknown log module: " + e.Name
}

func EnableDebugModules(mask ModuleMask) {
	modDebugMask |= mask
}

func DisableDebugModules(mask ModuleMask) {
	modDebugMask &^= mask
}

func (mod Module) String() string {
	if int(mod) < len(modNames) {
		return modNames[mod]
	}
	return modNames[0]
}

func (mod Module) Mask() ModuleMask {
	return 1 << ModuleMask(mod)
}

func (mod Module) Enabled(level Level) bool {
	return level <= WarnLevel || modDebugMask&mod.Mask() != 0
}

func (mod Module) WithField(key string, value any) Entry {
	return Entry{mod: mod}.WithField(key, value)
}

func (mod Module) Debugf(format string, args ...any) { Entry{mod: mod}.Debugf(format, args...) }
func (mod Module) Infof(format string, args ...any)  { Entry{mod: mod}.Infof(format, args...) }
func (mod Module) Warnf(format string, args ...any)  { Entry{mod: mod}.Warnf(format, args...) }
func (mod Module) Errorf(format string, args ...any) { Entry{mod: mod}.Errorf(format, args...) }
func (mod Module) Fatalf(format string, args ...any) { Entry{mod: mod}.Fatalf(format, args...) }

// Fast, allocation-free when disabled, structured logging.

func (mod Module) logz(lvl Level, msg string) *EntryZ {
	if !mod.Enabled(lvl) {
		return nil
	}
	e := newEntryZ()
	e.lvl = lvl
	e.msg = msg
	e.mod = mod
	return e
}

func (mod Module) DebugZ(msg string) *EntryZ { return mod.logz(DebugLevel, msg) }
func (mod Module) InfoZ(msg string) *EntryZ  { return mod.logz(InfoLevel, msg) }
func (mod Module) WarnZ(msg string) *EntryZ  { return mod.logz(WarnLevel, msg) }
func (mod Module) ErrorZ(msg string) *EntryZ { return mod.logz(ErrorLevel, msg) }
func (mod Module) FatalZ(msg string) *EntryZ { return mod.logz(FatalLevel, msg) }
