package nes

// addressingMode is the way an instruction locates its operand.
//
// The 6502 has thirteen of them. Most matter only for which bytes follow the
// opcode, but the indexed modes also determine the dummy reads the cpu
// performs while computing the effective address, which are observable on
// the bus and therefore part of the contract.
type addressingMode byte

const (
	implied addressingMode = iota
	accumulator
	immediate
	zeroPage
	zeroPageIndexedX
	zeroPageIndexedY
	absolute
	indexedX
	indexedY
	indirect
	preIndexedIndirect
	postIndexedIndirect
	relative
)

// accessKind describes how an instruction touches memory once the effective
// address is known. Read instructions only pay the page-cross penalty read
// when the index actually crosses a page; write and read-modify-write
// instructions always perform the extra read at the partially-carried
// address.
type accessKind byte

const (
	read accessKind = iota
	readModWrite
	write
)

type instruction struct {
	name       string
	mode       addressingMode
	kind       accessKind
	size       byte
	cycles     byte
	pageCycles byte
	illegal    bool
}

// instructions is the full dispatch table, official and unofficial opcodes
// alike. Size 0 marks unofficial opcodes the disassembler renders with their
// operand bytes inferred from the mode.
var instructions = [256]instruction{
	0x00: {"BRK", implied, read, 2, 7, 0, false},
	0x01: {"ORA", preIndexedIndirect, read, 2, 6, 0, false},
	0x02: {"KIL", implied, read, 0, 2, 0, true},
	0x03: {"SLO", preIndexedIndirect, readModWrite, 2, 8, 0, true},
	0x04: {"NOP", zeroPage, read, 2, 3, 0, true},
	0x05: {"ORA", zeroPage, read, 2, 3, 0, false},
	0x06: {"ASL", zeroPage, readModWrite, 2, 5, 0, false},
	0x07: {"SLO", zeroPage, readModWrite, 2, 5, 0, true},
	0x08: {"PHP", implied, read, 1, 3, 0, false},
	0x09: {"ORA", immediate, read, 2, 2, 0, false},
	0x0A: {"ASL", accumulator, readModWrite, 1, 2, 0, false},
	0x0B: {"ANC", immediate, read, 0, 2, 0, true},
	0x0C: {"NOP", absolute, read, 3, 4, 0, true},
	0x0D: {"ORA", absolute, read, 3, 4, 0, false},
	0x0E: {"ASL", absolute, readModWrite, 3, 6, 0, false},
	0x0F: {"SLO", absolute, readModWrite, 3, 6, 0, true},
	0x10: {"BPL", relative, read, 2, 2, 1, false},
	0x11: {"ORA", postIndexedIndirect, read, 2, 5, 1, false},
	0x12: {"KIL", implied, read, 0, 2, 0, true},
	0x13: {"SLO", postIndexedIndirect, readModWrite, 2, 8, 0, true},
	0x14: {"NOP", zeroPageIndexedX, read, 2, 4, 0, true},
	0x15: {"ORA", zeroPageIndexedX, read, 2, 4, 0, false},
	0x16: {"ASL", zeroPageIndexedX, readModWrite, 2, 6, 0, false},
	0x17: {"SLO", zeroPageIndexedX, readModWrite, 2, 6, 0, true},
	0x18: {"CLC", implied, read, 1, 2, 0, false},
	0x19: {"ORA", indexedY, read, 3, 4, 1, false},
	0x1A: {"NOP", implied, read, 1, 2, 0, true},
	0x1B: {"SLO", indexedY, readModWrite, 3, 7, 0, true},
	0x1C: {"NOP", indexedX, read, 3, 4, 1, true},
	0x1D: {"ORA", indexedX, read, 3, 4, 1, false},
	0x1E: {"ASL", indexedX, readModWrite, 3, 7, 0, false},
	0x1F: {"SLO", indexedX, readModWrite, 3, 7, 0, true},
	0x20: {"JSR", absolute, read, 3, 6, 0, false},
	0x21: {"AND", preIndexedIndirect, read, 2, 6, 0, false},
	0x22: {"KIL", implied, read, 0, 2, 0, true},
	0x23: {"RLA", preIndexedIndirect, readModWrite, 2, 8, 0, true},
	0x24: {"BIT", zeroPage, read, 2, 3, 0, false},
	0x25: {"AND", zeroPage, read, 2, 3, 0, false},
	0x26: {"ROL", zeroPage, readModWrite, 2, 5, 0, false},
	0x27: {"RLA", zeroPage, readModWrite, 2, 5, 0, true},
	0x28: {"PLP", implied, read, 1, 4, 0, false},
	0x29: {"AND", immediate, read, 2, 2, 0, false},
	0x2A: {"ROL", accumulator, readModWrite, 1, 2, 0, false},
	0x2B: {"ANC", immediate, read, 0, 2, 0, true},
	0x2C: {"BIT", absolute, read, 3, 4, 0, false},
	0x2D: {"AND", absolute, read, 3, 4, 0, false},
	0x2E: {"ROL", absolute, readModWrite, 3, 6, 0, false},
	0x2F: {"RLA", absolute, readModWrite, 3, 6, 0, true},
	0x30: {"BMI", relative, read, 2, 2, 1, false},
	0x31: {"AND", postIndexedIndirect, read, 2, 5, 1, false},
	0x32: {"KIL", implied, read, 0, 2, 0, true},
	0x33: {"RLA", postIndexedIndirect, readModWrite, 2, 8, 0, true},
	0x34: {"NOP", zeroPageIndexedX, read, 2, 4, 0, true},
	0x35: {"AND", zeroPageIndexedX, read, 2, 4, 0, false},
	0x36: {"ROL", zeroPageIndexedX, readModWrite, 2, 6, 0, false},
	0x37: {"RLA", zeroPageIndexedX, readModWrite, 2, 6, 0, true},
	0x38: {"SEC", implied, read, 1, 2, 0, false},
	0x39: {"AND", indexedY, read, 3, 4, 1, false},
	0x3A: {"NOP", implied, read, 1, 2, 0, true},
	0x3B: {"RLA", indexedY, readModWrite, 3, 7, 0, true},
	0x3C: {"NOP", indexedX, read, 3, 4, 1, true},
	0x3D: {"AND", indexedX, read, 3, 4, 1, false},
	0x3E: {"ROL", indexedX, readModWrite, 3, 7, 0, false},
	0x3F: {"RLA", indexedX, readModWrite, 3, 7, 0, true},
	0x40: {"RTI", implied, read, 1, 6, 0, false},
	0x41: {"EOR", preIndexedIndirect, read, 2, 6, 0, false},
	0x42: {"KIL", implied, read, 0, 2, 0, true},
	0x43: {"SRE", preIndexedIndirect, readModWrite, 2, 8, 0, true},
	0x44: {"NOP", zeroPage, read, 2, 3, 0, true},
	0x45: {"EOR", zeroPage, read, 2, 3, 0, false},
	0x46: {"LSR", zeroPage, readModWrite, 2, 5, 0, false},
	0x47: {"SRE", zeroPage, readModWrite, 2, 5, 0, true},
	0x48: {"PHA", implied, read, 1, 3, 0, false},
	0x49: {"EOR", immediate, read, 2, 2, 0, false},
	0x4A: {"LSR", accumulator, readModWrite, 1, 2, 0, false},
	0x4B: {"ALR", immediate, read, 0, 2, 0, true},
	0x4C: {"JMP", absolute, read, 3, 3, 0, false},
	0x4D: {"EOR", absolute, read, 3, 4, 0, false},
	0x4E: {"LSR", absolute, readModWrite, 3, 6, 0, false},
	0x4F: {"SRE", absolute, readModWrite, 3, 6, 0, true},
	0x50: {"BVC", relative, read, 2, 2, 1, false},
	0x51: {"EOR", postIndexedIndirect, read, 2, 5, 1, false},
	0x52: {"KIL", implied, read, 0, 2, 0, true},
	0x53: {"SRE", postIndexedIndirect, readModWrite, 2, 8, 0, true},
	0x54: {"NOP", zeroPageIndexedX, read, 2, 4, 0, true},
	0x55: {"EOR", zeroPageIndexedX, read, 2, 4, 0, false},
	0x56: {"LSR", zeroPageIndexedX, readModWrite, 2, 6, 0, false},
	0x57: {"SRE", zeroPageIndexedX, readModWrite, 2, 6, 0, true},
	0x58: {"CLI", implied, read, 1, 2, 0, false},
	0x59: {"EOR", indexedY, read, 3, 4, 1, false},
	0x5A: {"NOP", implied, read, 1, 2, 0, true},
	0x5B: {"SRE", indexedY, readModWrite, 3, 7, 0, true},
	0x5C: {"NOP", indexedX, read, 3, 4, 1, true},
	0x5D: {"EOR", indexedX, read, 3, 4, 1, false},
	0x5E: {"LSR", indexedX, readModWrite, 3, 7, 0, false},
	0x5F: {"SRE", indexedX, readModWrite, 3, 7, 0, true},
	0x60: {"RTS", implied, read, 1, 6, 0, false},
	0x61: {"ADC", preIndexedIndirect, read, 2, 6, 0, false},
	0x62: {"KIL", implied, read, 0, 2, 0, true},
	0x63: {"RRA", preIndexedIndirect, readModWrite, 2, 8, 0, true},
	0x64: {"NOP", zeroPage, read, 2, 3, 0, true},
	0x65: {"ADC", zeroPage, read, 2, 3, 0, false},
	0x66: {"ROR", zeroPage, readModWrite, 2, 5, 0, false},
	0x67: {"RRA", zeroPage, readModWrite, 2, 5, 0, true},
	0x68: {"PLA", implied, read, 1, 4, 0, false},
	0x69: {"ADC", immediate, read, 2, 2, 0, false},
	0x6A: {"ROR", accumulator, readModWrite, 1, 2, 0, false},
	0x6B: {"ARR", immediate, read, 0, 2, 0, true},
	0x6C: {"JMP", indirect, read, 3, 5, 0, false},
	0x6D: {"ADC", absolute, read, 3, 4, 0, false},
	0x6E: {"ROR", absolute, readModWrite, 3, 6, 0, false},
	0x6F: {"RRA", absolute, readModWrite, 3, 6, 0, true},
	0x70: {"BVS", relative, read, 2, 2, 1, false},
	0x71: {"ADC", postIndexedIndirect, read, 2, 5, 1, false},
	0x72: {"KIL", implied, read, 0, 2, 0, true},
	0x73: {"RRA", postIndexedIndirect, readModWrite, 2, 8, 0, true},
	0x74: {"NOP", zeroPageIndexedX, read, 2, 4, 0, true},
	0x75: {"ADC", zeroPageIndexedX, read, 2, 4, 0, false},
	0x76: {"ROR", zeroPageIndexedX, readModWrite, 2, 6, 0, false},
	0x77: {"RRA", zeroPageIndexedX, readModWrite, 2, 6, 0, true},
	0x78: {"SEI", implied, read, 1, 2, 0, false},
	0x79: {"ADC", indexedY, read, 3, 4, 1, false},
	0x7A: {"NOP", implied, read, 1, 2, 0, true},
	0x7B: {"RRA", indexedY, readModWrite, 3, 7, 0, true},
	0x7C: {"NOP", indexedX, read, 3, 4, 1, true},
	0x7D: {"ADC", indexedX, read, 3, 4, 1, false},
	0x7E: {"ROR", indexedX, readModWrite, 3, 7, 0, false},
	0x7F: {"RRA", indexedX, readModWrite, 3, 7, 0, true},
	0x80: {"NOP", immediate, read, 2, 2, 0, true},
	0x81: {"STA", preIndexedIndirect, write, 2, 6, 0, false},
	0x82: {"NOP", immediate, read, 0, 2, 0, true},
	0x83: {"SAX", preIndexedIndirect, write, 2, 6, 0, true},
	0x84: {"STY", zeroPage, write, 2, 3, 0, false},
	0x85: {"STA", zeroPage, write, 2, 3, 0, false},
	0x86: {"STX", zeroPage, write, 2, 3, 0, false},
	0x87: {"SAX", zeroPage, write, 2, 3, 0, true},
	0x88: {"DEY", implied, read, 1, 2, 0, false},
	0x89: {"NOP", immediate, read, 0, 2, 0, true},
	0x8A: {"TXA", implied, read, 1, 2, 0, false},
	0x8B: {"XAA", immediate, read, 0, 2, 0, true},
	0x8C: {"STY", absolute, write, 3, 4, 0, false},
	0x8D: {"STA", absolute, write, 3, 4, 0, false},
	0x8E: {"STX", absolute, write, 3, 4, 0, false},
	0x8F: {"SAX", absolute, write, 3, 4, 0, true},
	0x90: {"BCC", relative, read, 2, 2, 1, false},
	0x91: {"STA", postIndexedIndirect, write, 2, 6, 0, false},
	0x92: {"KIL", implied, read, 0, 2, 0, true},
	0x93: {"AHX", postIndexedIndirect, write, 0, 6, 0, true},
	0x94: {"STY", zeroPageIndexedX, write, 2, 4, 0, false},
	0x95: {"STA", zeroPageIndexedX, write, 2, 4, 0, false},
	0x96: {"STX", zeroPageIndexedY, write, 2, 4, 0, false},
	0x97: {"SAX", zeroPageIndexedY, write, 2, 4, 0, true},
	0x98: {"TYA", implied, read, 1, 2, 0, false},
	0x99: {"STA", indexedY, write, 3, 5, 0, false},
	0x9A: {"TXS", implied, read, 1, 2, 0, false},
	0x9B: {"TAS", indexedY, write, 0, 5, 0, true},
	0x9C: {"SHY", indexedX, write, 0, 5, 0, true},
	0x9D: {"STA", indexedX, write, 3, 5, 0, false},
	0x9E: {"SHX", indexedY, write, 0, 5, 0, true},
	0x9F: {"AHX", indexedY, write, 0, 5, 0, true},
	0xA0: {"LDY", immediate, read, 2, 2, 0, false},
	0xA1: {"LDA", preIndexedIndirect, read, 2, 6, 0, false},
	0xA2: {"LDX", immediate, read, 2, 2, 0, false},
	0xA3: {"LAX", preIndexedIndirect, read, 2, 6, 0, true},
	0xA4: {"LDY", zeroPage, read, 2, 3, 0, false},
	0xA5: {"LDA", zeroPage, read, 2, 3, 0, false},
	0xA6: {"LDX", zeroPage, read, 2, 3, 0, false},
	0xA7: {"LAX", zeroPage, read, 2, 3, 0, true},
	0xA8: {"TAY", implied, read, 1, 2, 0, false},
	0xA9: {"LDA", immediate, read, 2, 2, 0, false},
	0xAA: {"TAX", implied, read, 1, 2, 0, false},
	0xAB: {"LAX", immediate, read, 0, 2, 0, true},
	0xAC: {"LDY", absolute, read, 3, 4, 0, false},
	0xAD: {"LDA", absolute, read, 3, 4, 0, false},
	0xAE: {"LDX", absolute, read, 3, 4, 0, false},
	0xAF: {"LAX", absolute, read, 3, 4, 0, true},
	0xB0: {"BCS", relative, read, 2, 2, 1, false},
	0xB1: {"LDA", postIndexedIndirect, read, 2, 5, 1, false},
	0xB2: {"KIL", implied, read, 0, 2, 0, true},
	0xB3: {"LAX", postIndexedIndirect, read, 2, 5, 1, true},
	0xB4: {"LDY", zeroPageIndexedX, read, 2, 4, 0, false},
	0xB5: {"LDA", zeroPageIndexedX, read, 2, 4, 0, false},
	0xB6: {"LDX", zeroPageIndexedY, read, 2, 4, 0, false},
	0xB7: {"LAX", zeroPageIndexedY, read, 2, 4, 0, true},
	0xB8: {"CLV", implied, read, 1, 2, 0, false},
	0xB9: {"LDA", indexedY, read, 3, 4, 1, false},
	0xBA: {"TSX", implied, read, 1, 2, 0, false},
	0xBB: {"LAS", indexedY, read, 0, 4, 1, true},
	0xBC: {"LDY", indexedX, read, 3, 4, 1, false},
	0xBD: {"LDA", indexedX, read, 3, 4, 1, false},
	0xBE: {"LDX", indexedY, read, 3, 4, 1, false},
	0xBF: {"LAX", indexedY, read, 3, 4, 1, true},
	0xC0: {"CPY", immediate, read, 2, 2, 0, false},
	0xC1: {"CMP", preIndexedIndirect, read, 2, 6, 0, false},
	0xC2: {"NOP", immediate, read, 0, 2, 0, true},
	0xC3: {"DCP", preIndexedIndirect, readModWrite, 2, 8, 0, true},
	0xC4: {"CPY", zeroPage, read, 2, 3, 0, false},
	0xC5: {"CMP", zeroPage, read, 2, 3, 0, false},
	0xC6: {"DEC", zeroPage, readModWrite, 2, 5, 0, false},
	0xC7: {"DCP", zeroPage, readModWrite, 2, 5, 0, true},
	0xC8: {"INY", implied, read, 1, 2, 0, false},
	0xC9: {"CMP", immediate, read, 2, 2, 0, false},
	0xCA: {"DEX", implied, read, 1, 2, 0, false},
	0xCB: {"AXS", immediate, read, 0, 2, 0, true},
	0xCC: {"CPY", absolute, read, 3, 4, 0, false},
	0xCD: {"CMP", absolute, read, 3, 4, 0, false},
	0xCE: {"DEC", absolute, readModWrite, 3, 6, 0, false},
	0xCF: {"DCP", absolute, readModWrite, 3, 6, 0, true},
	0xD0: {"BNE", relative, read, 2, 2, 1, false},
	0xD1: {"CMP", postIndexedIndirect, read, 2, 5, 1, false},
	0xD2: {"KIL", implied, read, 0, 2, 0, true},
	0xD3: {"DCP", postIndexedIndirect, readModWrite, 2, 8, 0, true},
	0xD4: {"NOP", zeroPageIndexedX, read, 2, 4, 0, true},
	0xD5: {"CMP", zeroPageIndexedX, read, 2, 4, 0, false},
	0xD6: {"DEC", zeroPageIndexedX, readModWrite, 2, 6, 0, false},
	0xD7: {"DCP", zeroPageIndexedX, readModWrite, 2, 6, 0, true},
	0xD8: {"CLD", implied, read, 1, 2, 0, false},
	0xD9: {"CMP", indexedY, read, 3, 4, 1, false},
	0xDA: {"NOP", implied, read, 1, 2, 0, true},
	0xDB: {"DCP", indexedY, readModWrite, 3, 7, 0, true},
	0xDC: {"NOP", indexedX, read, 3, 4, 1, true},
	0xDD: {"CMP", indexedX, read, 3, 4, 1, false},
	0xDE: {"DEC", indexedX, readModWrite, 3, 7, 0, false},
	0xDF: {"DCP", indexedX, readModWrite, 3, 7, 0, true},
	0xE0: {"CPX", immediate, read, 2, 2, 0, false},
	0xE1: {"SBC", preIndexedIndirect, read, 2, 6, 0, false},
	0xE2: {"NOP", immediate, read, 0, 2, 0, true},
	0xE3: {"ISB", preIndexedIndirect, readModWrite, 2, 8, 0, true},
	0xE4: {"CPX", zeroPage, read, 2, 3, 0, false},
	0xE5: {"SBC", zeroPage, read, 2, 3, 0, false},
	0xE6: {"INC", zeroPage, readModWrite, 2, 5, 0, false},
	0xE7: {"ISB", zeroPage, readModWrite, 2, 5, 0, true},
	0xE8: {"INX", implied, read, 1, 2, 0, false},
	0xE9: {"SBC", immediate, read, 2, 2, 0, false},
	0xEA: {"NOP", implied, read, 1, 2, 0, false},
	0xEB: {"SBC", immediate, read, 2, 2, 0, true},
	0xEC: {"CPX", absolute, read, 3, 4, 0, false},
	0xED: {"SBC", absolute, read, 3, 4, 0, false},
	0xEE: {"INC", absolute, readModWrite, 3, 6, 0, false},
	0xEF: {"ISB", absolute, readModWrite, 3, 6, 0, true},
	0xF0: {"BEQ", relative, read, 2, 2, 1, false},
	0xF1: {"SBC", postIndexedIndirect, read, 2, 5, 1, false},
	0xF2: {"KIL", implied, read, 0, 2, 0, true},
	0xF3: {"ISB", postIndexedIndirect, readModWrite, 2, 8, 0, true},
	0xF4: {"NOP", zeroPageIndexedX, read, 2, 4, 0, true},
	0xF5: {"SBC", zeroPageIndexedX, read, 2, 4, 0, false},
	0xF6: {"INC", zeroPageIndexedX, readModWrite, 2, 6, 0, false},
	0xF7: {"ISB", zeroPageIndexedX, readModWrite, 2, 6, 0, true},
	0xF8: {"SED", implied, read, 1, 2, 0, false},
	0xF9: {"SBC", indexedY, read, 3, 4, 1, false},
	0xFA: {"NOP", implied, read, 1, 2, 0, true},
	0xFB: {"ISB", indexedY, readModWrite, 3, 7, 0, true},
	0xFC: {"NOP", indexedX, read, 3, 4, 1, true},
	0xFD: {"SBC", indexedX, read, 3, 4, 1, false},
	0xFE: {"INC", indexedX, readModWrite, 3, 7, 0, false},
	0xFF: {"ISB", indexedX, readModWrite, 3, 7, 0, true},
}
