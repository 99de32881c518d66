package hwio

func GetBit8(v uint8, n uint) bool {
	return GetBiti8(v, n) != 0
}

func GetBiti8(v uint8, n uint) uint8 {
	return v >> n & 0x01
}

func SetBit8(v *uint8, n uint) {
	*v |= 1 << n
}

func ClearBit8(v *uint8, n uint) {
	*v &= ^(1 << n)
}

// WriteBit8 sets or clears bit n of v, leaving the other bits untouched.
func WriteBit8(v *uint8, n uint, b bool) {
	if b {
		SetBit8(v, n)
	} else {
		ClearBit8(v, n)
	}
}

// SamePage reports whether a and b are in the same 256-byte page.
func SamePage(a, b uint16) bool {
	return a&0xFF00 == b&0xFF00
}
