package hwio

// BankIO8 is implemented by everything that can sit on the 16-bit address bus.
type BankIO8 interface {
	// Read8 reads a byte from the given address. If peek is true, the read
	// shouldn't have any side effects (debugging/tracing).
	Read8(addr uint16, peek bool) uint8
	Write8(addr uint16, val uint8)
}

// Read16 reads a little-endian word. The high byte address wraps at $FFFF.
func Read16(b BankIO8, addr uint16) uint16 {
	lo := b.Read8(addr, false)
	hi := b.Read8(addr+1, false)
	return uint16(hi)<<8 | uint16(lo)
}

// Write16 writes a little-endian word.
func Write16(b BankIO8, addr uint16, val uint16) {
	b.Write8(addr, uint8(val&0xff))
	b.Write8(addr+1, uint8(val>>8))
}
