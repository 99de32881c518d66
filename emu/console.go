package emu

import (
	"io"

	"mos6502/emu/log"
	"mos6502/hw/hwio"
)

// Console registers, relative to the console base address.
const (
	ConsoleData   = 0 // write: output byte, read: next input byte or 0
	ConsoleStatus = 1 // bit 7 set when an input byte is available, read-only
)

const consoleInputBuffer = 256

// Console is a memory-mapped character device. Bytes written to its data
// register go to Out, bytes fed with Feed are read from it.
type Console struct {
	Out io.Writer

	in chan byte
}

func NewConsole(out io.Writer) *Console {
	return &Console{
		Out: out,
		in:  make(chan byte, consoleInputBuffer),
	}
}

// Feed queues input bytes. It blocks while the input buffer is full and is
// safe to call from another goroutine than the one running the CPU.
func (c *Console) Feed(p []byte) {
	for _, b := range p {
		c.in <- b
	}
}

// FeedFrom feeds the console with r until EOF or error.
func (c *Console) FeedFrom(r io.Reader) error {
	buf := make([]byte, 64)
	for {
		n, err := r.Read(buf)
		c.Feed(buf[:n])
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// readData pops the next input byte, 0 if none is available.
func (c *Console) readData() uint8 {
	select {
	case b := <-c.in:
		return b
	default:
		return 0
	}
}

func (c *Console) status() uint8 {
	if len(c.in) > 0 {
		return 0x80
	}
	return 0
}

func (c *Console) writeData(val uint8) {
	if c.Out == nil {
		return
	}
	if _, err := c.Out.Write([]byte{val}); err != nil {
		log.ModEmu.WarnZ("console output").Error("err", err).End()
	}
}

// Map maps the console registers on bus at base. The status register is
// read-only.
func (c *Console) Map(bus *hwio.Table, base uint16) {
	bus.MapDevice(base+ConsoleData, 1, &hwio.Device{
		Name:    "console data",
		ReadCb:  func(uint16) uint8 { return c.readData() },
		WriteCb: func(_ uint16, val uint8) { c.writeData(val) },
	})
	bus.MapDevice(base+ConsoleStatus, 1, &hwio.Device{
		Name:   "console status",
		Flags:  hwio.ReadOnlyFlag,
		ReadCb: func(uint16) uint8 { return c.status() },
		PeekCb: func(uint16) uint8 { return c.status() },
	})
}
