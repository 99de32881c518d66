package hw

// opdef describes an instruction: its mnemonic, how its operand is located and
// how many cycles it takes. exec implements the instruction semantics and
// operates on the resolved operand.
type opdef struct {
	name   string
	mode   AddrMode
	index  Index
	cycles uint8 // base cycle count
	page   bool  // +1 cycle when indexing crosses a page
	exec   func(*CPU, operand)
}

// ops maps each opcode to its definition. Opcodes without an entry are
// undocumented and fault when executed.
var ops = [256]*opdef{
	0x00: {name: "BRK", mode: Implied, cycles: 7, exec: BRK},
	0x01: {name: "ORA", mode: Indirect, index: IndexX, cycles: 6, exec: ORA},
	0x05: {name: "ORA", mode: ZeroPage, cycles: 3, exec: ORA},
	0x06: {name: "ASL", mode: ZeroPage, cycles: 5, exec: ASL},
	0x08: {name: "PHP", mode: Implied, cycles: 3, exec: PHP},
	0x09: {name: "ORA", mode: Immediate, cycles: 2, exec: ORA},
	0x0A: {name: "ASL", mode: Accumulator, cycles: 2, exec: ASL},
	0x0D: {name: "ORA", mode: Absolute, cycles: 4, exec: ORA},
	0x0E: {name: "ASL", mode: Absolute, cycles: 6, exec: ASL},
	0x10: {name: "BPL", mode: Relative, cycles: 2, exec: BPL},
	0x11: {name: "ORA", mode: Indirect, index: IndexY, cycles: 5, page: true, exec: ORA},
	0x15: {name: "ORA", mode: ZeroPage, index: IndexX, cycles: 4, exec: ORA},
	0x16: {name: "ASL", mode: ZeroPage, index: IndexX, cycles: 6, exec: ASL},
	0x18: {name: "CLC", mode: Implied, cycles: 2, exec: CLC},
	0x19: {name: "ORA", mode: Absolute, index: IndexY, cycles: 4, page: true, exec: ORA},
	0x1D: {name: "ORA", mode: Absolute, index: IndexX, cycles: 4, page: true, exec: ORA},
	0x1E: {name: "ASL", mode: Absolute, index: IndexX, cycles: 7, exec: ASL},
	0x20: {name: "JSR", mode: Absolute, cycles: 6, exec: JSR},
	0x21: {name: "AND", mode: Indirect, index: IndexX, cycles: 6, exec: AND},
	0x24: {name: "BIT", mode: ZeroPage, cycles: 3, exec: BIT},
	0x25: {name: "AND", mode: ZeroPage, cycles: 3, exec: AND},
	0x26: {name: "ROL", mode: ZeroPage, cycles: 5, exec: ROL},
	0x28: {name: "PLP", mode: Implied, cycles: 4, exec: PLP},
	0x29: {name: "AND", mode: Immediate, cycles: 2, exec: AND},
	0x2A: {name: "ROL", mode: Accumulator, cycles: 2, exec: ROL},
	0x2C: {name: "BIT", mode: Absolute, cycles: 4, exec: BIT},
	0x2D: {name: "AND", mode: Absolute, cycles: 4, exec: AND},
	0x2E: {name: "ROL", mode: Absolute, cycles: 6, exec: ROL},
	0x30: {name: "BMI", mode: Relative, cycles: 2, exec: BMI},
	0x31: {name: "AND", mode: Indirect, index: IndexY, cycles: 5, page: true, exec: AND},
	0x35: {name: "AND", mode: ZeroPage, index: IndexX, cycles: 4, exec: AND},
	0x36: {name: "ROL", mode: ZeroPage, index: IndexX, cycles: 6, exec: ROL},
	0x38: {name: "SEC", mode: Implied, cycles: 2, exec: SEC},
	0x39: {name: "AND", mode: Absolute, index: IndexY, cycles: 4, page: true, exec: AND},
	0x3D: {name: "AND", mode: Absolute, index: IndexX, cycles: 4, page: true, exec: AND},
	0x3E: {name: "ROL", mode: Absolute, index: IndexX, cycles: 7, exec: ROL},
	0x40: {name: "RTI", mode: Implied, cycles: 6, exec: RTI},
	0x41: {name: "EOR", mode: Indirect, index: IndexX, cycles: 6, exec: EOR},
	0x45: {name: "EOR", mode: ZeroPage, cycles: 3, exec: EOR},
	0x46: {name: "LSR", mode: ZeroPage, cycles: 5, exec: LSR},
	0x48: {name: "PHA", mode: Implied, cycles: 3, exec: PHA},
	0x49: {name: "EOR", mode: Immediate, cycles: 2, exec: EOR},
	0x4A: {name: "LSR", mode: Accumulator, cycles: 2, exec: LSR},
	0x4C: {name: "JMP", mode: Absolute, cycles: 3, exec: JMP},
	0x4D: {name: "EOR", mode: Absolute, cycles: 4, exec: EOR},
	0x4E: {name: "LSR", mode: Absolute, cycles: 6, exec: LSR},
	0x50: {name: "BVC", mode: Relative, cycles: 2, exec: BVC},
	0x51: {name: "EOR", mode: Indirect, index: IndexY, cycles: 5, page: true, exec: EOR},
	0x55: {name: "EOR", mode: ZeroPage, index: IndexX, cycles: 4, exec: EOR},
	0x56: {name: "LSR", mode: ZeroPage, index: IndexX, cycles: 6, exec: LSR},
	0x58: {name: "CLI", mode: Implied, cycles: 2, exec: CLI},
	0x59: {name: "EOR", mode: Absolute, index: IndexY, cycles: 4, page: true, exec: EOR},
	0x5D: {name: "EOR", mode: Absolute, index: IndexX, cycles: 4, page: true, exec: EOR},
	0x5E: {name: "LSR", mode: Absolute, index: IndexX, cycles: 7, exec: LSR},
	0x60: {name: "RTS", mode: Implied, cycles: 6, exec: RTS},
	0x61: {name: "ADC", mode: Indirect, index: IndexX, cycles: 6, exec: ADC},
	0x65: {name: "ADC", mode: ZeroPage, cycles: 3, exec: ADC},
	0x66: {name: "ROR", mode: ZeroPage, cycles: 5, exec: ROR},
	0x68: {name: "PLA", mode: Implied, cycles: 4, exec: PLA},
	0x69: {name: "ADC", mode: Immediate, cycles: 2, exec: ADC},
	0x6A: {name: "ROR", mode: Accumulator, cycles: 2, exec: ROR},
	0x6C: {name: "JMP", mode: Indirect, cycles: 5, exec: JMP},
	0x6D: {name: "ADC", mode: Absolute, cycles: 4, exec: ADC},
	0x6E: {name: "ROR", mode: Absolute, cycles: 6, exec: ROR},
	0x70: {name: "BVS", mode: Relative, cycles: 2, exec: BVS},
	0x71: {name: "ADC", mode: Indirect, index: IndexY, cycles: 5, page: true, exec: ADC},
	0x75: {name: "ADC", mode: ZeroPage, index: IndexX, cycles: 4, exec: ADC},
	0x76: {name: "ROR", mode: ZeroPage, index: IndexX, cycles: 6, exec: ROR},
	0x78: {name: "SEI", mode: Implied, cycles: 2, exec: SEI},
	0x79: {name: "ADC", mode: Absolute, index: IndexY, cycles: 4, page: true, exec: ADC},
	0x7D: {name: "ADC", mode: Absolute, index: IndexX, cycles: 4, page: true, exec: ADC},
	0x7E: {name: "ROR", mode: Absolute, index: IndexX, cycles: 7, exec: ROR},
	0x81: {name: "STA", mode: Indirect, index: IndexX, cycles: 6, exec: STA},
	0x84: {name: "STY", mode: ZeroPage, cycles: 3, exec: STY},
	0x85: {name: "STA", mode: ZeroPage, cycles: 3, exec: STA},
	0x86: {name: "STX", mode: ZeroPage, cycles: 3, exec: STX},
	0x88: {name: "DEY", mode: Implied, cycles: 2, exec: DEY},
	0x8A: {name: "TXA", mode: Implied, cycles: 2, exec: TXA},
	0x8C: {name: "STY", mode: Absolute, cycles: 4, exec: STY},
	0x8D: {name: "STA", mode: Absolute, cycles: 4, exec: STA},
	0x8E: {name: "STX", mode: Absolute, cycles: 4, exec: STX},
	0x90: {name: "BCC", mode: Relative, cycles: 2, exec: BCC},
	0x91: {name: "STA", mode: Indirect, index: IndexY, cycles: 6, exec: STA},
	0x94: {name: "STY", mode: ZeroPage, index: IndexX, cycles: 4, exec: STY},
	0x95: {name: "STA", mode: ZeroPage, index: IndexX, cycles: 4, exec: STA},
	0x96: {name: "STX", mode: ZeroPage, index: IndexY, cycles: 4, exec: STX},
	0x98: {name: "TYA", mode: Implied, cycles: 2, exec: TYA},
	0x99: {name: "STA", mode: Absolute, index: IndexY, cycles: 5, exec: STA},
	0x9A: {name: "TXS", mode: Implied, cycles: 2, exec: TXS},
	0x9D: {name: "STA", mode: Absolute, index: IndexX, cycles: 5, exec: STA},
	0xA0: {name: "LDY", mode: Immediate, cycles: 2, exec: LDY},
	0xA1: {name: "LDA", mode: Indirect, index: IndexX, cycles: 6, exec: LDA},
	0xA2: {name: "LDX", mode: Immediate, cycles: 2, exec: LDX},
	0xA4: {name: "LDY", mode: ZeroPage, cycles: 3, exec: LDY},
	0xA5: {name: "LDA", mode: ZeroPage, cycles: 3, exec: LDA},
	0xA6: {name: "LDX", mode: ZeroPage, cycles: 3, exec: LDX},
	0xA8: {name: "TAY", mode: Implied, cycles: 2, exec: TAY},
	0xA9: {name: "LDA", mode: Immediate, cycles: 2, exec: LDA},
	0xAA: {name: "TAX", mode: Implied, cycles: 2, exec: TAX},
	0xAC: {name: "LDY", mode: Absolute, cycles: 4, exec: LDY},
	0xAD: {name: "LDA", mode: Absolute, cycles: 4, exec: LDA},
	0xAE: {name: "LDX", mode: Absolute, cycles: 4, exec: LDX},
	0xB0: {name: "BCS", mode: Relative, cycles: 2, exec: BCS},
	0xB1: {name: "LDA", mode: Indirect, index: IndexY, cycles: 5, page: true, exec: LDA},
	0xB4: {name: "LDY", mode: ZeroPage, index: IndexX, cycles: 4, exec: LDY},
	0xB5: {name: "LDA", mode: ZeroPage, index: IndexX, cycles: 4, exec: LDA},
	0xB6: {name: "LDX", mode: ZeroPage, index: IndexY, cycles: 4, exec: LDX},
	0xB8: {name: "CLV", mode: Implied, cycles: 2, exec: CLV},
	0xB9: {name: "LDA", mode: Absolute, index: IndexY, cycles: 4, page: true, exec: LDA},
	0xBA: {name: "TSX", mode: Implied, cycles: 2, exec: TSX},
	0xBC: {name: "LDY", mode: Absolute, index: IndexX, cycles: 4, page: true, exec: LDY},
	0xBD: {name: "LDA", mode: Absolute, index: IndexX, cycles: 4, page: true, exec: LDA},
	0xBE: {name: "LDX", mode: Absolute, index: IndexY, cycles: 4, page: true, exec: LDX},
	0xC0: {name: "CPY", mode: Immediate, cycles: 2, exec: CPY},
	0xC1: {name: "CMP", mode: Indirect, index: IndexX, cycles: 6, exec: CMP},
	0xC4: {name: "CPY", mode: ZeroPage, cycles: 3, exec: CPY},
	0xC5: {name: "CMP", mode: ZeroPage, cycles: 3, exec: CMP},
	0xC6: {name: "DEC", mode: ZeroPage, cycles: 5, exec: DEC},
	0xC8: {name: "INY", mode: Implied, cycles: 2, exec: INY},
	0xC9: {name: "CMP", mode: Immediate, cycles: 2, exec: CMP},
	0xCA: {name: "DEX", mode: Implied, cycles: 2, exec: DEX},
	0xCC: {name: "CPY", mode: Absolute, cycles: 4, exec: CPY},
	0xCD: {name: "CMP", mode: Absolute, cycles: 4, exec: CMP},
	0xCE: {name: "DEC", mode: Absolute, cycles: 6, exec: DEC},
	0xD0: {name: "BNE", mode: Relative, cycles: 2, exec: BNE},
	0xD1: {name: "CMP", mode: Indirect, index: IndexY, cycles: 5, page: true, exec: CMP},
	0xD5: {name: "CMP", mode: ZeroPage, index: IndexX, cycles: 4, exec: CMP},
	0xD6: {name: "DEC", mode: ZeroPage, index: IndexX, cycles: 6, exec: DEC},
	0xD8: {name: "CLD", mode: Implied, cycles: 2, exec: CLD},
	0xD9: {name: "CMP", mode: Absolute, index: IndexY, cycles: 4, page: true, exec: CMP},
	0xDD: {name: "CMP", mode: Absolute, index: IndexX, cycles: 4, page: true, exec: CMP},
	0xDE: {name: "DEC", mode: Absolute, index: IndexX, cycles: 7, exec: DEC},
	0xE0: {name: "CPX", mode: Immediate, cycles: 2, exec: CPX},
	0xE1: {name: "SBC", mode: Indirect, index: IndexX, cycles: 6, exec: SBC},
	0xE4: {name: "CPX", mode: ZeroPage, cycles: 3, exec: CPX},
	0xE5: {name: "SBC", mode: ZeroPage, cycles: 3, exec: SBC},
	0xE6: {name: "INC", mode: ZeroPage, cycles: 5, exec: INC},
	0xE8: {name: "INX", mode: Implied, cycles: 2, exec: INX},
	0xE9: {name: "SBC", mode: Immediate, cycles: 2, exec: SBC},
	0xEA: {name: "NOP", mode: Implied, cycles: 2, exec: NOP},
	0xEC: {name: "CPX", mode: Absolute, cycles: 4, exec: CPX},
	0xED: {name: "SBC", mode: Absolute, cycles: 4, exec: SBC},
	0xEE: {name: "INC", mode: Absolute, cycles: 6, exec: INC},
	0xF0: {name: "BEQ", mode: Relative, cycles: 2, exec: BEQ},
	0xF1: {name: "SBC", mode: Indirect, index: IndexY, cycles: 5, page: true, exec: SBC},
	0xF5: {name: "SBC", mode: ZeroPage, index: IndexX, cycles: 4, exec: SBC},
	0xF6: {name: "INC", mode: ZeroPage, index: IndexX, cycles: 6, exec: INC},
	0xF8: {name: "SED", mode: Implied, cycles: 2, exec: SED},
	0xF9: {name: "SBC", mode: Absolute, index: IndexY, cycles: 4, page: true, exec: SBC},
	0xFD: {name: "SBC", mode: Absolute, index: IndexX, cycles: 4, page: true, exec: SBC},
	0xFE: {name: "INC", mode: Absolute, index: IndexX, cycles: 7, exec: INC},
}
