package hwio

import "mos6502/emu/log"

type MemFlags int

const (
	MemFlagReadWrite MemFlags = 0
	MemFlag8ReadOnly MemFlags = 1 << iota // read-only accesses
)

// Mem is a linear memory area that can be mapped into a Table, or used directly
// as a flat bus.
//
// Addresses are masked to the size of Data, which must be a power of two, so a
// buffer smaller than the range it is mapped to is mirrored across it.
type Mem struct {
	Name  string   // name of the memory area (for debugging)
	Data  []byte   // actual memory buffer
	Flags MemFlags // flags determining how the memory can be accessed
}

// NewRAM returns a read-write memory area of size bytes.
func NewRAM(name string, size int) *Mem {
	if size <= 0 || size&(size-1) != 0 {
		panic("memory buffer size is not pow2")
	}
	return &Mem{Name: name, Data: make([]byte, size)}
}

func (m *Mem) mask() uint16 {
	return uint16(len(m.Data) - 1)
}

func (m *Mem) Read8(addr uint16, _ bool) uint8 {
	return m.Data[addr&m.mask()]
}

func (m *Mem) Peek8(addr uint16) uint8 {
	return m.Data[addr&m.mask()]
}

func (m *Mem) Write8(addr uint16, val uint8) {
	if m.Flags&MemFlag8ReadOnly != 0 {
		log.ModHwIo.ErrorZ("Write8 to readonly memory").
			String("name", m.Name).
			Hex16("addr", addr).
			Hex8("val", val).
			End()
		return
	}
	m.Data[addr&m.mask()] = val
}

// Load copies buf at offset off, bypassing the read-only protection.
func (m *Mem) Load(off uint16, buf []byte) {
	for i, b := range buf {
		m.Data[(off+uint16(i))&m.mask()] = b
	}
}

// Size returns the number of bytes of the underlying buffer.
func (m *Mem) Size() int {
	return len(m.Data)
}
