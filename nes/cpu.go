package nes

import (
	"io"
)

const (
	nmiAddr    = uint16(0xFFFA)
	resetAddr  = uint16(0xFFFC)
	irqBrkAddr = uint16(0xFFFE)

	stackHi = 0x0100

	oamDmaAddr = uint16(0x4014)
)

// status are all the flags that represent the processor status.
type status byte

const (
	// Carry flag.
	//
	// After ADC, this is the carry result of the addition; after SBC or CMP
	// it is set if no borrow was needed. Shift instructions park the bit
	// shifted out here.
	carry status = 1 << iota

	// Zero flag is set when the result of an instruction is zero.
	zero

	// InterruptDisable inhibits all interrupts except the NMI.
	//
	// Automatically set when an interrupt is serviced, restored by RTI.
	interruptDisable

	// Decimal flag. Stored and restored like any other flag but has no
	// arithmetic effect on the 2A03.
	decimal

	// Break flag.
	//
	// Not a real register bit: it only exists in the byte pushed to the
	// stack. PHP and BRK push it set, /IRQ and /NMI push it clear, which is
	// the only way a handler can tell the two apart. PLP and RTI ignore it.
	brk

	// Unused flag, hardwired to 1 in every pushed status byte.
	unused

	// Overflow flag: set when the signed interpretation of an ADC/SBC
	// result is invalid. BIT loads bit 6 of the operand here directly.
	overflow

	// Negative flag: bit 7 of the last value result. BIT loads bit 7 of the
	// operand here directly.
	negative
)

// cpu is a 2A03 (6502 without decimal mode) that owns the master clock:
// every bus access it performs advances the ppu by three dots and the apu by
// one tick, so the rest of the machine is always exactly in step with the
// current cycle of the current instruction.
type cpu struct {
	cycles uint64

	a, x, y byte
	pc      uint16
	s       byte
	p       status

	// A jammed cpu fetched one of the KIL opcodes and will do nothing more
	// until reset.
	jammed bool

	// NMI is edge triggered: nmiPending is latched when the line goes high
	// and dropped again if the line falls before the next instruction
	// boundary, which is how software can withdraw an NMI by clearing
	// PPUCTRL.7 while the vblank flag is still set.
	nmiLine    bool
	nmiPending bool

	// irqLine is sampled between instructions. Level sensitive: the console
	// wires it to the frame counter, DMC and mapper IRQ sources.
	irqLine func() bool

	servicingDMC bool

	trace io.Writer

	ppu *ppu
	apu *apu
}

func newCpu(trace io.Writer, ppu *ppu, apu *apu) *cpu {
	return &cpu{
		trace: trace,
		p:     interruptDisable | unused,
		s:     0xFD,
		pc:    resetAddr,
		ppu:   ppu,
		apu:   apu,
	}
}

// init performs the power-on sequence: seven cycles ending with the reset
// vector fetch.
func (c *cpu) init(bus *sysBus) {
	for i := 0; i < 5; i++ {
		c.clock(bus)
	}
	c.pc = c.readAddress(bus, resetAddr)
}

func (c *cpu) setPC(pc uint16) {
	c.pc = pc
}

// reset pulls the RES line: the stack pointer drops by three without any
// writes, interrupts are disabled and execution restarts at the reset
// vector. Takes seven cycles, like the interrupt sequence it is internally.
func (c *cpu) reset(bus *sysBus) {
	c.p |= interruptDisable
	c.s -= 3
	c.jammed = false
	c.nmiPending = false

	for i := 0; i < 5; i++ {
		c.clock(bus)
	}
	c.pc = c.readAddress(bus, resetAddr)
}

// setNMILine drives the /NMI input. Only the rising edge latches a pending
// interrupt; a falling edge before the next poll withdraws it.
func (c *cpu) setNMILine(high bool) {
	if high && !c.nmiLine {
		c.nmiPending = true
	}
	if !high {
		c.nmiPending = false
	}
	c.nmiLine = high
}

// execute runs exactly one instruction (or services one interrupt) and
// returns the number of cycles that elapsed.
func (c *cpu) execute(bus *sysBus) uint64 {
	if c.jammed {
		return 0
	}

	oldCycles := c.cycles

	c.serviceDMC(bus)

	// Interrupts are polled at instruction boundaries. NMI wins over IRQ,
	// and IRQ is gated on the I flag at poll time.
	if c.nmiPending {
		c.nmiPending = false
		c.interrupt(bus, nmiAddr)
		return c.cycles - oldCycles
	}
	if c.p&interruptDisable == 0 && c.irqLine != nil && c.irqLine() {
		c.interrupt(bus, irqBrkAddr)
		return c.cycles - oldCycles
	}

	initialPC := c.pc

	opCode := c.read(bus, c.pc)
	c.pc++

	inst := instructions[opCode]
	intermediateAddr, addr := c.resolveAddress(bus, inst)

	if c.trace != nil {
		disassemble(c.trace, bus, initialPC, opCode, c.a, c.x, c.y, byte(c.p), c.s, inst, intermediateAddr, addr, oldCycles, c.ppu)
	}

	c.dispatch(bus, opCode, inst.mode, addr)

	return c.cycles - oldCycles
}

func (c *cpu) dispatch(bus *sysBus, opCode byte, mode addressingMode, addr uint16) {
	switch opCode {
	case 0x04, 0x0C, 0x14, 0x1A, 0x1C, 0x34, 0x3A, 0x3C, 0x44, 0x54, 0x5A,
		0x5C, 0x64, 0x74, 0x7A, 0x7C, 0x80, 0x82, 0x89, 0xC2, 0xD4, 0xDA,
		0xDC, 0xE2, 0xEA, 0xF4, 0xFA, 0xFC:
		c.nop(bus, mode, addr)
	case 0x61, 0x65, 0x69, 0x6D, 0x71, 0x75, 0x79, 0x7D:
		c.adc(bus, mode, addr)
	case 0x93, 0x9F:
		c.ahx(bus, mode, addr)
	case 0x4B:
		c.alr(bus, mode, addr)
	case 0x0B, 0x2B:
		c.anc(bus, mode, addr)
	case 0x21, 0x25, 0x29, 0x2D, 0x31, 0x35, 0x39, 0x3D:
		c.and(bus, mode, addr)
	case 0x6B:
		c.arr(bus, mode, addr)
	case 0x06, 0x0A, 0x0E, 0x16, 0x1E:
		c.asl(bus, mode, addr)
	case 0xCB:
		c.axs(bus, mode, addr)
	case 0x90:
		c.bcc(bus, mode, addr)
	case 0xB0:
		c.bcs(bus, mode, addr)
	case 0xF0:
		c.beq(bus, mode, addr)
	case 0x24, 0x2C:
		c.bit(bus, mode, addr)
	case 0x30:
		c.bmi(bus, mode, addr)
	case 0xD0:
		c.bne(bus, mode, addr)
	case 0x10:
		c.bpl(bus, mode, addr)
	case 0x00:
		c.brk(bus, mode, addr)
	case 0x50:
		c.bvc(bus, mode, addr)
	case 0x70:
		c.bvs(bus, mode, addr)
	case 0x18:
		c.clc(bus, mode, addr)
	case 0xD8:
		c.cld(bus, mode, addr)
	case 0x58:
		c.cli(bus, mode, addr)
	case 0xB8:
		c.clv(bus, mode, addr)
	case 0xC1, 0xC5, 0xC9, 0xCD, 0xD1, 0xD5, 0xD9, 0xDD:
		c.cmp(bus, mode, addr)
	case 0xE0, 0xE4, 0xEC:
		c.cpx(bus, mode, addr)
	case 0xC0, 0xC4, 0xCC:
		c.cpy(bus, mode, addr)
	case 0xC3, 0xC7, 0xCF, 0xD3, 0xD7, 0xDB, 0xDF:
		c.dcp(bus, mode, addr)
	case 0xC6, 0xCE, 0xD6, 0xDE:
		c.dec(bus, mode, addr)
	case 0xCA:
		c.dex(bus, mode, addr)
	case 0x88:
		c.dey(bus, mode, addr)
	case 0x41, 0x45, 0x49, 0x4D, 0x51, 0x55, 0x59, 0x5D:
		c.eor(bus, mode, addr)
	case 0xE6, 0xEE, 0xF6, 0xFE:
		c.inc(bus, mode, addr)
	case 0xE8:
		c.inx(bus, mode, addr)
	case 0xC8:
		c.iny(bus, mode, addr)
	case 0xE3, 0xE7, 0xEF, 0xF3, 0xF7, 0xFB, 0xFF:
		c.isb(bus, mode, addr)
	case 0x4C, 0x6C:
		c.jmp(bus, mode, addr)
	case 0x20:
		c.jsr(bus, mode, addr)
	case 0x02, 0x12, 0x22, 0x32, 0x42, 0x52, 0x62, 0x72, 0x92, 0xB2, 0xD2, 0xF2:
		c.kil(bus, mode, addr)
	case 0xBB:
		c.las(bus, mode, addr)
	case 0xA3, 0xA7, 0xAB, 0xAF, 0xB3, 0xB7, 0xBF:
		c.lax(bus, mode, addr)
	case 0xA1, 0xA5, 0xA9, 0xAD, 0xB1, 0xB5, 0xB9, 0xBD:
		c.lda(bus, mode, addr)
	case 0xA2, 0xA6, 0xAE, 0xB6, 0xBE:
		c.ldx(bus, mode, addr)
	case 0xA0, 0xA4, 0xAC, 0xB4, 0xBC:
		c.ldy(bus, mode, addr)
	case 0x46, 0x4A, 0x4E, 0x56, 0x5E:
		c.lsr(bus, mode, addr)
	case 0x01, 0x05, 0x09, 0x0D, 0x11, 0x15, 0x19, 0x1D:
		c.ora(bus, mode, addr)
	case 0x48:
		c.pha(bus, mode, addr)
	case 0x08:
		c.php(bus, mode, addr)
	case 0x68:
		c.pla(bus, mode, addr)
	case 0x28:
		c.plp(bus, mode, addr)
	case 0x23, 0x27, 0x2F, 0x33, 0x37, 0x3B, 0x3F:
		c.rla(bus, mode, addr)
	case 0x26, 0x2A, 0x2E, 0x36, 0x3E:
		c.rol(bus, mode, addr)
	case 0x66, 0x6A, 0x6E, 0x76, 0x7E:
		c.ror(bus, mode, addr)
	case 0x63, 0x67, 0x6F, 0x73, 0x77, 0x7B, 0x7F:
		c.rra(bus, mode, addr)
	case 0x40:
		c.rti(bus, mode, addr)
	case 0x60:
		c.rts(bus, mode, addr)
	case 0x83, 0x87, 0x8F, 0x97:
		c.sax(bus, mode, addr)
	case 0xE1, 0xE5, 0xE9, 0xEB, 0xED, 0xF1, 0xF5, 0xF9, 0xFD:
		c.sbc(bus, mode, addr)
	case 0x38:
		c.sec(bus, mode, addr)
	case 0xF8:
		c.sed(bus, mode, addr)
	case 0x78:
		c.sei(bus, mode, addr)
	case 0x9E:
		c.shx(bus, mode, addr)
	case 0x9C:
		c.shy(bus, mode, addr)
	case 0x03, 0x07, 0x0F, 0x13, 0x17, 0x1B, 0x1F:
		c.slo(bus, mode, addr)
	case 0x43, 0x47, 0x4F, 0x53, 0x57, 0x5B, 0x5F:
		c.sre(bus, mode, addr)
	case 0x81, 0x85, 0x8D, 0x91, 0x95, 0x99, 0x9D:
		c.sta(bus, mode, addr)
	case 0x86, 0x8E, 0x96:
		c.stx(bus, mode, addr)
	case 0x84, 0x8C, 0x94:
		c.sty(bus, mode, addr)
	case 0x9B:
		c.tas(bus, mode, addr)
	case 0xAA:
		c.tax(bus, mode, addr)
	case 0xA8:
		c.tay(bus, mode, addr)
	case 0xBA:
		c.tsx(bus, mode, addr)
	case 0x8A:
		c.txa(bus, mode, addr)
	case 0x9A:
		c.txs(bus, mode, addr)
	case 0x98:
		c.tya(bus, mode, addr)
	case 0x8B:
		c.xaa(bus, mode, addr)
	}
}

// clock advances the machine by one cpu cycle: three ppu dots and one apu
// tick.
func (c *cpu) clock(bus *sysBus) {
	c.cycles++
	c.ppu.tick(c)
	c.ppu.tick(c)
	c.ppu.tick(c)
	c.apu.tick()
}

func (c *cpu) read(bus *sysBus, address uint16) byte {
	c.clock(bus)
	v := bus.read(address)
	c.serviceDMC(bus)
	return v
}

func (c *cpu) readAddress(bus *sysBus, address uint16) uint16 {
	lo := c.read(bus, address)
	hi := c.read(bus, address+1)

	return uint16(hi)<<8 | uint16(lo)
}

func (c *cpu) write(bus *sysBus, address uint16, value byte) {
	if address == oamDmaAddr {
		c.clock(bus)
		bus.openBus = value
		c.dmaTransfer(bus, value)
		return
	}

	c.clock(bus)
	bus.write(address, value)
	c.serviceDMC(bus)
}

// dmaTransfer copies a 256 byte page into primary OAM through $2004. The
// cpu is halted for the duration: one halt cycle, one alignment cycle when
// the transfer begins on an odd cycle, then 512 alternating read/write
// cycles.
func (c *cpu) dmaTransfer(bus *sysBus, page byte) {
	c.clock(bus)
	if c.cycles&1 == 1 {
		c.clock(bus)
	}

	addr := uint16(page) << 8
	for i := 0; i < 256; i++ {
		c.clock(bus)
		v := bus.read(addr)

		c.clock(bus)
		c.ppu.writeDMA(v)

		addr++
	}
}

// serviceDMC performs a memory fetch on behalf of the delta channel,
// charging the stall to the cpu so the dmc itself never touches the bus.
//
// The stall is modeled as the common 4 cycle read-aligned case; the full
// per-operand table (3, 2 or 1 cycles in the documented corner cases) is
// not distinguishable by the behaviors this core is tested against.
func (c *cpu) serviceDMC(bus *sysBus) {
	if c.servicingDMC || c.apu == nil {
		return
	}
	d := &c.apu.dmc
	if !d.needsSample() {
		return
	}

	c.servicingDMC = true
	c.clock(bus)
	c.clock(bus)
	c.clock(bus)
	c.clock(bus)
	d.fillSample(bus.read(d.currentAddress))
	c.servicingDMC = false
}

func (c *cpu) resolveAddress(bus *sysBus, inst instruction) (intermediateAddr, address uint16) {
	switch inst.mode {
	case accumulator, implied:
		_ = c.read(bus, c.pc)
		return 0, 0

	case immediate:
		pc := c.pc
		c.pc++
		return 0, pc

	case absolute:
		lo := c.read(bus, c.pc)
		c.pc++

		hi := c.read(bus, c.pc)
		c.pc++

		return 0, uint16(hi)<<8 | uint16(lo)

	case zeroPage:
		addr := c.read(bus, c.pc)
		c.pc++

		return 0, uint16(addr)

	case zeroPageIndexedX:
		addr := c.read(bus, c.pc)
		c.pc++

		_ = c.read(bus, uint16(addr))

		return 0, uint16(addr + c.x) // wraps within the zero page

	case zeroPageIndexedY:
		addr := c.read(bus, c.pc)
		c.pc++

		_ = c.read(bus, uint16(addr))

		return 0, uint16(addr + c.y) // wraps within the zero page

	case indexedX:
		lo := c.read(bus, c.pc)
		c.pc++

		hi := c.read(bus, c.pc)
		c.pc++

		switch inst.kind {
		case read:
			if lo+c.x < lo {
				_ = c.read(bus, uint16(hi)<<8|uint16(lo+c.x))
			}
		case readModWrite, write:
			_ = c.read(bus, uint16(hi)<<8|uint16(lo+c.x))
		}

		return 0, uint16(hi)<<8 | uint16(lo) + uint16(c.x)

	case indexedY:
		lo := c.read(bus, c.pc)
		c.pc++

		hi := c.read(bus, c.pc)
		c.pc++

		switch inst.kind {
		case read:
			if lo+c.y < lo {
				_ = c.read(bus, uint16(hi)<<8|uint16(lo+c.y))
			}
		case readModWrite, write:
			_ = c.read(bus, uint16(hi)<<8|uint16(lo+c.y))
		}

		return 0, uint16(hi)<<8 | uint16(lo) + uint16(c.y)

	case relative:
		operand := c.read(bus, c.pc)
		c.pc++

		return 0, c.pc + uint16(int8(operand))

	case preIndexedIndirect:
		pointer := c.read(bus, c.pc)
		c.pc++

		_ = c.read(bus, uint16(pointer))

		pointer += c.x // wraps within the zero page
		lo := c.read(bus, uint16(pointer))
		hi := c.read(bus, uint16(pointer+1))

		return uint16(pointer), uint16(hi)<<8 | uint16(lo)

	case postIndexedIndirect:
		pointer := c.read(bus, c.pc)
		c.pc++

		lo := c.read(bus, uint16(pointer))
		hi := c.read(bus, uint16(pointer+1))

		switch inst.kind {
		case read:
			if lo+c.y < lo {
				_ = c.read(bus, uint16(hi)<<8|uint16(lo+c.y))
			}
		case readModWrite, write:
			_ = c.read(bus, uint16(hi)<<8|uint16(lo+c.y))
		}

		addr := uint16(hi)<<8 | uint16(lo)
		return addr, addr + uint16(c.y)

	case indirect:
		pointerLo := c.read(bus, c.pc)
		c.pc++

		pointerHi := c.read(bus, c.pc)
		c.pc++

		pointer := uint16(pointerHi)<<8 | uint16(pointerLo)
		lo := c.read(bus, pointer)
		// The high byte fetch wraps within the pointer's page: JMP ($xxFF)
		// reads its high byte from $xx00.
		hi := c.read(bus, pointer&0xFF00|uint16(byte(pointer)+1))

		return pointer, uint16(hi)<<8 | uint16(lo)
	}

	return 0, 0
}

// interrupt runs the seven cycle service sequence: two internal cycles,
// PCH, PCL and P pushed (Break clear, Unused set), then the vector fetch.
func (c *cpu) interrupt(bus *sysBus, vector uint16) {
	c.clock(bus)
	c.clock(bus)

	c.pushAddress(bus, c.pc)
	c.push(bus, byte(c.p&^brk|unused))

	c.p |= interruptDisable
	c.pc = c.readAddress(bus, vector)
}

func (c *cpu) push(bus *sysBus, v byte) {
	c.write(bus, stackHi|uint16(c.s), v)
	c.s--
}

func (c *cpu) pull(bus *sysBus) byte {
	c.s++
	return c.read(bus, stackHi|uint16(c.s))
}

func (c *cpu) pushAddress(bus *sysBus, value uint16) {
	c.push(bus, byte(value>>8))
	c.push(bus, byte(value))
}

func (c *cpu) pullAddress(bus *sysBus) uint16 {
	lo := uint16(c.pull(bus))
	hi := uint16(c.pull(bus))

	return hi<<8 | lo
}

func (c *cpu) setFlag(flag status, on bool) {
	if on {
		c.p |= flag
	} else {
		c.p &^= flag
	}
}

func (c *cpu) updateZN(v byte) {
	c.setFlag(zero, v == 0)
	c.setFlag(negative, v&0x80 != 0)
}

func (c *cpu) compare(a, b byte) {
	c.setFlag(carry, a >= b)
	c.setFlag(zero, a == b)
	c.setFlag(negative, (a-b)&0x80 != 0)
}

func (c *cpu) doAdd(v byte) {
	a := uint16(c.a)
	b := uint16(v)
	crry := uint16(c.p & carry)

	result := a + b + crry

	c.setFlag(carry, result&0x0100 != 0)
	c.setFlag(overflow, (a^result)&(b^result)&0x80 != 0)

	c.a = byte(result)
	c.updateZN(c.a)
}

func (c *cpu) doAsl(v byte) byte {
	c.setFlag(carry, v&0x80 != 0)
	v <<= 1
	c.updateZN(v)
	return v
}

func (c *cpu) doLsr(v byte) byte {
	c.setFlag(carry, v&1 != 0)
	v >>= 1
	c.updateZN(v)
	return v
}

func (c *cpu) doRol(v byte) byte {
	carries := v&0x80 != 0
	v = v<<1 | byte(c.p&carry)
	c.setFlag(carry, carries)
	c.updateZN(v)
	return v
}

func (c *cpu) doRor(v byte) byte {
	carries := v&1 != 0
	v >>= 1
	if c.p&carry != 0 {
		v |= 0x80
	}
	c.setFlag(carry, carries)
	c.updateZN(v)
	return v
}

// rmw performs the read-modify-write dance: the unmodified value is written
// back before the modified one, which is observable (and load bearing for
// things like acknowledging mapper IRQs with INC).
func (c *cpu) rmw(bus *sysBus, addr uint16, f func(byte) byte) {
	v := c.read(bus, addr)
	c.write(bus, addr, v)
	c.write(bus, addr, f(v))
}

// branch taken: one extra cycle, two if the destination is on another page.
func (c *cpu) branch(bus *sysBus, addr uint16) {
	if c.pc&0xFF00 != addr&0xFF00 {
		c.clock(bus)
	}

	c.clock(bus)
	c.pc = addr
}

// ADC - Add with Carry. A = A + M + C. Sets carry, zero, overflow, negative.
func (c *cpu) adc(bus *sysBus, mode addressingMode, addr uint16) {
	c.doAdd(c.read(bus, addr))
}

// SBC - Subtract with Carry. A = A - M - (1-C), implemented as addition of
// the operand's complement.
func (c *cpu) sbc(bus *sysBus, mode addressingMode, addr uint16) {
	c.doAdd(^c.read(bus, addr))
}

// AND - Logical AND with accumulator.
func (c *cpu) and(bus *sysBus, mode addressingMode, addr uint16) {
	c.a &= c.read(bus, addr)
	c.updateZN(c.a)
}

// ORA - Logical OR with accumulator.
func (c *cpu) ora(bus *sysBus, mode addressingMode, addr uint16) {
	c.a |= c.read(bus, addr)
	c.updateZN(c.a)
}

// EOR - Exclusive OR with accumulator.
func (c *cpu) eor(bus *sysBus, mode addressingMode, addr uint16) {
	c.a ^= c.read(bus, addr)
	c.updateZN(c.a)
}

// ASL - Arithmetic Shift Left.
func (c *cpu) asl(bus *sysBus, mode addressingMode, addr uint16) {
	if mode == accumulator {
		c.a = c.doAsl(c.a)
		return
	}
	c.rmw(bus, addr, c.doAsl)
}

// LSR - Logical Shift Right.
func (c *cpu) lsr(bus *sysBus, mode addressingMode, addr uint16) {
	if mode == accumulator {
		c.a = c.doLsr(c.a)
		return
	}
	c.rmw(bus, addr, c.doLsr)
}

// ROL - Rotate Left through carry.
func (c *cpu) rol(bus *sysBus, mode addressingMode, addr uint16) {
	if mode == accumulator {
		c.a = c.doRol(c.a)
		return
	}
	c.rmw(bus, addr, c.doRol)
}

// ROR - Rotate Right through carry.
func (c *cpu) ror(bus *sysBus, mode addressingMode, addr uint16) {
	if mode == accumulator {
		c.a = c.doRor(c.a)
		return
	}
	c.rmw(bus, addr, c.doRor)
}

// BIT - Bit Test. Z from A&M, N and V straight from the operand.
func (c *cpu) bit(bus *sysBus, mode addressingMode, addr uint16) {
	v := c.read(bus, addr)
	c.setFlag(zero, c.a&v == 0)
	c.setFlag(overflow, v&0x40 != 0)
	c.setFlag(negative, v&0x80 != 0)
}

// CMP/CPX/CPY - register/memory comparisons.
func (c *cpu) cmp(bus *sysBus, mode addressingMode, addr uint16) {
	c.compare(c.a, c.read(bus, addr))
}

func (c *cpu) cpx(bus *sysBus, mode addressingMode, addr uint16) {
	c.compare(c.x, c.read(bus, addr))
}

func (c *cpu) cpy(bus *sysBus, mode addressingMode, addr uint16) {
	c.compare(c.y, c.read(bus, addr))
}

// DEC/INC and the register variants.
func (c *cpu) dec(bus *sysBus, mode addressingMode, addr uint16) {
	c.rmw(bus, addr, func(v byte) byte {
		v--
		c.updateZN(v)
		return v
	})
}

func (c *cpu) inc(bus *sysBus, mode addressingMode, addr uint16) {
	c.rmw(bus, addr, func(v byte) byte {
		v++
		c.updateZN(v)
		return v
	})
}

func (c *cpu) dex(bus *sysBus, mode addressingMode, addr uint16) {
	c.x--
	c.updateZN(c.x)
}

func (c *cpu) dey(bus *sysBus, mode addressingMode, addr uint16) {
	c.y--
	c.updateZN(c.y)
}

func (c *cpu) inx(bus *sysBus, mode addressingMode, addr uint16) {
	c.x++
	c.updateZN(c.x)
}

func (c *cpu) iny(bus *sysBus, mode addressingMode, addr uint16) {
	c.y++
	c.updateZN(c.y)
}

// Loads and stores.
func (c *cpu) lda(bus *sysBus, mode addressingMode, addr uint16) {
	c.a = c.read(bus, addr)
	c.updateZN(c.a)
}

func (c *cpu) ldx(bus *sysBus, mode addressingMode, addr uint16) {
	c.x = c.read(bus, addr)
	c.updateZN(c.x)
}

func (c *cpu) ldy(bus *sysBus, mode addressingMode, addr uint16) {
	c.y = c.read(bus, addr)
	c.updateZN(c.y)
}

func (c *cpu) sta(bus *sysBus, mode addressingMode, addr uint16) {
	c.write(bus, addr, c.a)
}

func (c *cpu) stx(bus *sysBus, mode addressingMode, addr uint16) {
	c.write(bus, addr, c.x)
}

func (c *cpu) sty(bus *sysBus, mode addressingMode, addr uint16) {
	c.write(bus, addr, c.y)
}

// Register transfers.
func (c *cpu) tax(bus *sysBus, mode addressingMode, addr uint16) {
	c.x = c.a
	c.updateZN(c.x)
}

func (c *cpu) tay(bus *sysBus, mode addressingMode, addr uint16) {
	c.y = c.a
	c.updateZN(c.y)
}

func (c *cpu) tsx(bus *sysBus, mode addressingMode, addr uint16) {
	c.x = c.s
	c.updateZN(c.x)
}

func (c *cpu) txa(bus *sysBus, mode addressingMode, addr uint16) {
	c.a = c.x
	c.updateZN(c.a)
}

func (c *cpu) txs(bus *sysBus, mode addressingMode, addr uint16) {
	c.s = c.x
}

func (c *cpu) tya(bus *sysBus, mode addressingMode, addr uint16) {
	c.a = c.y
	c.updateZN(c.a)
}

// Flag manipulation.
func (c *cpu) clc(bus *sysBus, mode addressingMode, addr uint16) { c.p &^= carry }
func (c *cpu) cld(bus *sysBus, mode addressingMode, addr uint16) { c.p &^= decimal }
func (c *cpu) cli(bus *sysBus, mode addressingMode, addr uint16) { c.p &^= interruptDisable }
func (c *cpu) clv(bus *sysBus, mode addressingMode, addr uint16) { c.p &^= overflow }
func (c *cpu) sec(bus *sysBus, mode addressingMode, addr uint16) { c.p |= carry }
func (c *cpu) sed(bus *sysBus, mode addressingMode, addr uint16) { c.p |= decimal }
func (c *cpu) sei(bus *sysBus, mode addressingMode, addr uint16) { c.p |= interruptDisable }

// Branches.
func (c *cpu) bcc(bus *sysBus, mode addressingMode, addr uint16) {
	if c.p&carry == 0 {
		c.branch(bus, addr)
	}
}

func (c *cpu) bcs(bus *sysBus, mode addressingMode, addr uint16) {
	if c.p&carry != 0 {
		c.branch(bus, addr)
	}
}

func (c *cpu) beq(bus *sysBus, mode addressingMode, addr uint16) {
	if c.p&zero != 0 {
		c.branch(bus, addr)
	}
}

func (c *cpu) bne(bus *sysBus, mode addressingMode, addr uint16) {
	if c.p&zero == 0 {
		c.branch(bus, addr)
	}
}

func (c *cpu) bmi(bus *sysBus, mode addressingMode, addr uint16) {
	if c.p&negative != 0 {
		c.branch(bus, addr)
	}
}

func (c *cpu) bpl(bus *sysBus, mode addressingMode, addr uint16) {
	if c.p&negative == 0 {
		c.branch(bus, addr)
	}
}

func (c *cpu) bvc(bus *sysBus, mode addressingMode, addr uint16) {
	if c.p&overflow == 0 {
		c.branch(bus, addr)
	}
}

func (c *cpu) bvs(bus *sysBus, mode addressingMode, addr uint16) {
	if c.p&overflow != 0 {
		c.branch(bus, addr)
	}
}

// Jumps and subroutines.
func (c *cpu) jmp(bus *sysBus, mode addressingMode, addr uint16) {
	c.pc = addr
}

func (c *cpu) jsr(bus *sysBus, mode addressingMode, addr uint16) {
	c.clock(bus)
	c.pushAddress(bus, c.pc-1)
	c.pc = addr
}

func (c *cpu) rts(bus *sysBus, mode addressingMode, addr uint16) {
	c.clock(bus)
	c.pc = c.pullAddress(bus) + 1
	c.clock(bus)
}

// BRK - Force Interrupt. Pushes the return address past the padding byte
// and the flags with Break and Unused set, then jumps through $FFFE.
func (c *cpu) brk(bus *sysBus, mode addressingMode, addr uint16) {
	c.pushAddress(bus, c.pc+1)
	c.push(bus, byte(c.p|brk|unused))
	c.p |= interruptDisable
	c.pc = c.readAddress(bus, irqBrkAddr)
}

// RTI - Return from Interrupt. Pulls flags (ignoring Break, forcing Unused)
// then the return address.
func (c *cpu) rti(bus *sysBus, mode addressingMode, addr uint16) {
	c.clock(bus)
	c.p = status(c.pull(bus))&^brk | unused
	c.pc = c.pullAddress(bus)
}

// Stack operations.
func (c *cpu) pha(bus *sysBus, mode addressingMode, addr uint16) {
	c.push(bus, c.a)
}

// PHP pushes the flags with Break and Unused set, like BRK does.
func (c *cpu) php(bus *sysBus, mode addressingMode, addr uint16) {
	c.push(bus, byte(c.p|brk|unused))
}

func (c *cpu) pla(bus *sysBus, mode addressingMode, addr uint16) {
	c.clock(bus)
	c.a = c.pull(bus)
	c.updateZN(c.a)
}

// PLP ignores the pulled Break bit and forces Unused on.
func (c *cpu) plp(bus *sysBus, mode addressingMode, addr uint16) {
	c.clock(bus)
	c.p = status(c.pull(bus))&^brk | unused
}

// NOP, including the unofficial variants that still perform their
// addressing mode's memory access.
func (c *cpu) nop(bus *sysBus, mode addressingMode, addr uint16) {
	switch mode {
	case implied, accumulator:
	default:
		c.read(bus, addr)
	}
}

// KIL - one of the twelve opcodes that wedge the cpu. Nothing but RES gets
// it going again.
func (c *cpu) kil(bus *sysBus, mode addressingMode, addr uint16) {
	c.jammed = true
}

// The unofficial compound opcodes below combine a read-modify-write
// operation with an ALU operation in a single instruction.

// SLO - ASL then ORA.
func (c *cpu) slo(bus *sysBus, mode addressingMode, addr uint16) {
	c.rmw(bus, addr, func(v byte) byte {
		v = c.doAsl(v)
		c.a |= v
		c.updateZN(c.a)
		return v
	})
}

// RLA - ROL then AND.
func (c *cpu) rla(bus *sysBus, mode addressingMode, addr uint16) {
	c.rmw(bus, addr, func(v byte) byte {
		v = c.doRol(v)
		c.a &= v
		c.updateZN(c.a)
		return v
	})
}

// SRE - LSR then EOR.
func (c *cpu) sre(bus *sysBus, mode addressingMode, addr uint16) {
	c.rmw(bus, addr, func(v byte) byte {
		v = c.doLsr(v)
		c.a ^= v
		c.updateZN(c.a)
		return v
	})
}

// RRA - ROR then ADC.
func (c *cpu) rra(bus *sysBus, mode addressingMode, addr uint16) {
	c.rmw(bus, addr, func(v byte) byte {
		v = c.doRor(v)
		c.doAdd(v)
		return v
	})
}

// DCP - DEC then CMP.
func (c *cpu) dcp(bus *sysBus, mode addressingMode, addr uint16) {
	c.rmw(bus, addr, func(v byte) byte {
		v--
		c.compare(c.a, v)
		return v
	})
}

// ISB - INC then SBC. Also known as ISC.
func (c *cpu) isb(bus *sysBus, mode addressingMode, addr uint16) {
	c.rmw(bus, addr, func(v byte) byte {
		v++
		c.doAdd(^v)
		return v
	})
}

// LAX - LDA and LDX in one.
func (c *cpu) lax(bus *sysBus, mode addressingMode, addr uint16) {
	v := c.read(bus, addr)
	c.a = v
	c.x = v
	c.updateZN(v)
}

// SAX - store A AND X, flags untouched.
func (c *cpu) sax(bus *sysBus, mode addressingMode, addr uint16) {
	c.write(bus, addr, c.a&c.x)
}

// ALR - AND immediate then LSR A.
func (c *cpu) alr(bus *sysBus, mode addressingMode, addr uint16) {
	c.a &= c.read(bus, addr)
	c.a = c.doLsr(c.a)
}

// ANC - AND immediate, carry mirrors the negative flag.
func (c *cpu) anc(bus *sysBus, mode addressingMode, addr uint16) {
	c.a &= c.read(bus, addr)
	c.updateZN(c.a)
	c.setFlag(carry, c.a&0x80 != 0)
}

// ARR - AND immediate then ROR A, with carry and overflow derived from bits
// 6 and 5 of the result.
func (c *cpu) arr(bus *sysBus, mode addressingMode, addr uint16) {
	c.a &= c.read(bus, addr)
	c.a >>= 1
	if c.p&carry != 0 {
		c.a |= 0x80
	}
	c.updateZN(c.a)
	c.setFlag(carry, c.a&0x40 != 0)
	c.setFlag(overflow, (c.a>>6^c.a>>5)&1 != 0)
}

// AXS - X = (A AND X) - immediate, without borrow.
func (c *cpu) axs(bus *sysBus, mode addressingMode, addr uint16) {
	v := c.read(bus, addr)
	t := c.a & c.x
	c.setFlag(carry, t >= v)
	c.x = t - v
	c.updateZN(c.x)
}

// LAS - memory AND stack pointer into A, X and S.
func (c *cpu) las(bus *sysBus, mode addressingMode, addr uint16) {
	v := c.read(bus, addr) & c.s
	c.a = v
	c.x = v
	c.s = v
	c.updateZN(v)
}

// The "high byte plus one" store group. On hardware the stored value is
// ANDed with the high byte of the target address plus one.
func (c *cpu) ahx(bus *sysBus, mode addressingMode, addr uint16) {
	c.write(bus, addr, c.a&c.x&(byte(addr>>8)+1))
}

func (c *cpu) shx(bus *sysBus, mode addressingMode, addr uint16) {
	c.write(bus, addr, c.x&(byte(addr>>8)+1))
}

func (c *cpu) shy(bus *sysBus, mode addressingMode, addr uint16) {
	c.write(bus, addr, c.y&(byte(addr>>8)+1))
}

func (c *cpu) tas(bus *sysBus, mode addressingMode, addr uint16) {
	c.s = c.a & c.x
	c.write(bus, addr, c.s&(byte(addr>>8)+1))
}

// XAA - highly unstable on hardware; the common A = X AND immediate model.
func (c *cpu) xaa(bus *sysBus, mode addressingMode, addr uint16) {
	c.a = c.x & c.read(bus, addr)
	c.updateZN(c.a)
}
