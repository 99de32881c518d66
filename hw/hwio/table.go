package hwio

import (
	"fmt"

	"mos6502/emu/log"
)

// page is a 256-byte slot of the address space. A page is either served by a
// single BankIO8, or split byte by byte when a device is mapped on part of it.
type page struct {
	io   BankIO8
	fine *[256]BankIO8
}

// Table dispatches bus accesses to the memory areas and devices mapped on it.
// Reads from unmapped addresses return 0, writes to them are dropped.
type Table struct {
	Name string

	pages [256]page
}

func NewTable(name string) *Table {
	t := new(Table)
	t.Name = name
	return t
}

func (t *Table) Reset() {
	t.pages = [256]page{}
}

// MapMem maps mem over [addr, addr+size). If mem is smaller than size, it is
// mirrored.
func (t *Table) MapMem(addr uint16, size int, mem *Mem) {
	log.ModHwIo.DebugZ("mapping mem").
		Hex16("addr", addr).
		Int("size", size).
		String("area", mem.Name).
		String("bus", t.Name).
		End()

	if len(mem.Data)&(len(mem.Data)-1) != 0 {
		panic("memory buffer size is not pow2")
	}
	t.mapRange(addr, size, mem)
}

// MapDevice maps dev over [addr, addr+size).
func (t *Table) MapDevice(addr uint16, size int, dev *Device) {
	log.ModHwIo.DebugZ("mapping device").
		Hex16("addr", addr).
		Int("size", size).
		String("device", dev.Name).
		String("bus", t.Name).
		End()

	t.mapRange(addr, size, dev)
}

// Unmap removes whatever is mapped over [addr, addr+size).
func (t *Table) Unmap(addr uint16, size int) {
	t.mapRange(addr, size, nil)
}

func (t *Table) mapRange(addr uint16, size int, io BankIO8) {
	if size <= 0 || int(addr)+size > 0x10000 {
		panic(fmt.Errorf("hwio: invalid range $%04X+%d on bus %q", addr, size, t.Name))
	}

	cur := int(addr)
	end := int(addr) + size
	for cur < end {
		p := &t.pages[cur>>8]
		if cur&0xFF == 0 && end-cur >= 0x100 {
			// whole page
			p.io = io
			p.fine = nil
			cur += 0x100
			continue
		}

		if p.fine == nil {
			p.fine = new([256]BankIO8)
			for i := range p.fine {
				p.fine[i] = p.io
			}
		}
		p.fine[cur&0xFF] = io
		cur++
	}
}

func (t *Table) search(addr uint16) BankIO8 {
	p := &t.pages[addr>>8]
	if p.fine != nil {
		return p.fine[addr&0xFF]
	}
	return p.io
}

// Read8 forwards the read to the memory area or device mapped at addr.
func (t *Table) Read8(addr uint16, peek bool) uint8 {
	io := t.search(addr)
	if io == nil {
		if !peek {
			log.ModHwIo.DebugZ("unmapped Read8").
				String("name", t.Name).
				Hex16("addr", addr).
				End()
		}
		return 0
	}
	return io.Read8(addr, peek)
}

// Peek8 is a convenience function.
func (t *Table) Peek8(addr uint16) uint8 {
	return t.Read8(addr, true)
}

func (t *Table) Write8(addr uint16, val uint8) {
	io := t.search(addr)
	if io == nil {
		log.ModHwIo.DebugZ("unmapped Write8").
			String("name", t.Name).
			Hex16("addr", addr).
			Hex8("val", val).
			End()
		return
	}
	io.Write8(addr, val)
}
