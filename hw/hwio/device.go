package hwio

import "mos6502/emu/log"

type RWFlags int

const (
	ReadWriteFlag RWFlags = 0
	ReadOnlyFlag  RWFlags = 1
)

// Device is a BankIO8 implementation that allows manual management of an entire
// range of memory, typically a memory-mapped peripheral.
type Device struct {
	Name  string // name of the memory area (for debugging)
	Flags RWFlags

	ReadCb  func(addr uint16) uint8
	PeekCb  func(addr uint16) uint8
	WriteCb func(addr uint16, val uint8)
}

func (d *Device) Read8(addr uint16, peek bool) uint8 {
	if peek {
		if d.PeekCb != nil {
			return d.PeekCb(addr)
		}
		return 0
	}

	if d.ReadCb == nil {
		return 0
	}
	return d.ReadCb(addr)
}

func (d *Device) Write8(addr uint16, val uint8) {
	switch {
	case d.Flags&ReadOnlyFlag != 0:
		log.ModHwIo.ErrorZ("invalid Write8 to readonly device").
			String("name", d.Name).
			Hex16("addr", addr).
			End()
		return
	case d.WriteCb == nil:
		return
	}

	d.WriteCb(addr, val)
}
