package emu

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/go-faster/errors"
	"github.com/kirsle/configdir"

	"mos6502/emu/log"
)

type Config struct {
	Memory MemoryConfig `toml:"memory"`
	CPU    CPUConfig    `toml:"cpu"`
	Log    LogConfig    `toml:"log"`
	Trace  TraceConfig  `toml:"trace"`

	TraceOut io.Writer `toml:"-"`
}

type MemoryConfig struct {
	// Origin is the address the program image is loaded at.
	Origin uint16 `toml:"origin"`
	// ROMProtect makes the image region read-only.
	ROMProtect bool `toml:"rom_protect"`
	// Console maps the console device at IOBase.
	Console bool   `toml:"console"`
	IOBase  uint16 `toml:"io_base"`
}

type CPUConfig struct {
	// ResetVector, if set, overrides the reset vector found in memory.
	ResetVector *uint16 `toml:"reset_vector,omitempty"`
	// MaxCycles stops execution after that many cycles, 0 means no limit.
	MaxCycles uint64 `toml:"max_cycles"`
	// ClockHz throttles execution to the given frequency, 0 runs unthrottled.
	ClockHz uint64 `toml:"clock_hz"`
}

type LogConfig struct {
	// Modules is a comma-separated list of modules with debug logging.
	Modules string `toml:"modules"`
}

type TraceConfig struct {
	Enabled bool `toml:"enabled"`
}

// DefaultConfig returns the configuration used when none is provided. Images
// are loaded in the upper half of the address space, the console is mapped
// in the page below.
func DefaultConfig() Config {
	return Config{
		Memory: MemoryConfig{
			Origin: 0x8000,
			IOBase: 0x7F00,
		},
	}
}

// Check validates the configuration.
func (cfg *Config) Check() error {
	if _, err := log.ParseModules(cfg.Log.Modules); err != nil {
		return errors.Wrap(err, "log.modules")
	}
	if cfg.Memory.Console && cfg.Memory.IOBase == 0xFFFF {
		return errors.New("memory.io_base: console needs 2 bytes")
	}
	return nil
}

// ConfigDir returns the mos6502 configuration directory.
var ConfigDir = sync.OnceValue(func() string {
	return configdir.LocalConfig("mos6502")
})

const cfgFilename = "config.toml"

// LoadConfig loads the configuration from path. Fields absent from the file
// keep their default value.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, errors.Wrapf(err, "config %s", path)
	}
	for _, key := range md.Undecoded() {
		log.ModEmu.WarnZ("unknown config key").
			String("path", path).
			String("key", key.String()).
			End()
	}
	if err := cfg.Check(); err != nil {
		return Config{}, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// LoadConfigOrDefault loads the configuration from the mos6502 config
// directory, or provide a default one.
func LoadConfigOrDefault() Config {
	path := filepath.Join(ConfigDir(), cfgFilename)
	cfg, err := LoadConfig(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.ModEmu.WarnZ("ignoring config").Error("err", err).End()
		}
		return DefaultConfig()
	}
	return cfg
}

// SaveConfig into mos6502 config directory.
func SaveConfig(cfg Config) error {
	dir := ConfigDir()
	if err := configdir.MakePath(dir); err != nil {
		return errors.Wrapf(err, "failed to create directory %s", dir)
	}
	return SaveConfigTo(cfg, filepath.Join(dir, cfgFilename))
}

// SaveConfigTo writes cfg to path.
func SaveConfigTo(cfg Config, path string) error {
	buf, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, buf, 0644)
}
