package nes

import (
	"fmt"
	"io"
	"strings"
)

// disassemble writes one nestest-style trace line: address, raw bytes, an
// asterisk for unofficial opcodes, the mnemonic and operand, then the
// register file, ppu position and cycle count.
func disassemble(out io.Writer, bus *sysBus,
	instPC uint16, opCode, a, x, y, p, sp byte,
	inst instruction, intermediateAddr, resolvedAddr uint16, cycles uint64, ppu *ppu) {
	var strlen int

	size := inst.size
	if size == 0 {
		size = modeSizes[inst.mode]
	}

	n, _ := fmt.Fprintf(out, "%04X  ", instPC)
	strlen += n

	switch size {
	case 1:
		n, _ = fmt.Fprintf(out, "%02X      ", opCode)
	case 2:
		n, _ = fmt.Fprintf(out, "%02X %02X   ", opCode, bus.peek(instPC+1))
	case 3:
		n, _ = fmt.Fprintf(out, "%02X %02X %02X", opCode, bus.peek(instPC+1), bus.peek(instPC+2))
	}
	strlen += n

	if inst.illegal {
		n, _ = fmt.Fprint(out, " *")
	} else {
		n, _ = fmt.Fprint(out, "  ")
	}
	strlen += n

	n, _ = fmt.Fprint(out, inst.name, " ")
	strlen += n

	switch inst.mode {
	case accumulator:
		n, _ := fmt.Fprint(out, "A")
		strlen += n
	case implied:
	default:
		var arg uint16
		switch inst.mode {
		case immediate, zeroPage, zeroPageIndexedX, zeroPageIndexedY, preIndexedIndirect, postIndexedIndirect:
			arg = uint16(bus.peek(instPC + 1))
		case absolute, indirect, indexedX, indexedY:
			arg = uint16(bus.peek(instPC+1)) | uint16(bus.peek(instPC+2))<<8
		case relative:
			arg = resolvedAddr
		}

		n, _ := fmt.Fprintf(out, addressingFormats[inst.mode], arg)
		strlen += n
	}

	if pad := 48 - strlen; pad > 0 {
		fmt.Fprint(out, strings.Repeat(" ", pad))
	}

	var dot, scanline int
	if ppu != nil {
		dot, scanline = ppu.dot, ppu.scanline
	}
	fmt.Fprintf(out, "A:%02X X:%02X Y:%02X P:%02X SP:%02X PPU:%3d,%3d CYC:%d\n",
		a, x, y, p, sp, scanline, dot, cycles)
}

var modeSizes = map[addressingMode]byte{
	implied:             1,
	accumulator:         1,
	immediate:           2,
	zeroPage:            2,
	zeroPageIndexedX:    2,
	zeroPageIndexedY:    2,
	absolute:            3,
	indexedX:            3,
	indexedY:            3,
	indirect:            3,
	preIndexedIndirect:  2,
	postIndexedIndirect: 2,
	relative:            2,
}

var addressingFormats = map[addressingMode]string{
	immediate:           "#$%02X",
	absolute:            "$%04X",
	zeroPage:            "$%02X",
	implied:             "",
	indirect:            "($%04X)",
	indexedX:            "$%04X,X",
	indexedY:            "$%04X,Y",
	zeroPageIndexedX:    "$%02X,X",
	zeroPageIndexedY:    "$%02X,Y",
	preIndexedIndirect:  "($%02X,X)",
	postIndexedIndirect: "($%02X),Y",
	relative:            "$%04X",
	accumulator:         "A",
}
