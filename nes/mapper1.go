package nes

// mmc1 is mapper 1. All control flows through a 5-bit serial shift
// register: writes to $8000-$FFFF shift bit 0 in, and the fifth shift
// latches the value into one of four internal registers selected by bits
// 13-14 of the address. A write with bit 7 set resets the register and
// locks the PRG mode to fix-last-bank.
type mmc1 struct {
	mapperBase

	prg    []byte
	chr    []byte
	chrRAM bool

	prgRAM  []byte
	battery bool

	shift      byte
	shiftCount byte

	// control register fields
	mirrorBits byte // 0: single lower, 1: single upper, 2: vertical, 3: horizontal
	prgMode    byte // 0/1: 32 KiB, 2: fix first at $8000, 3: fix last at $C000
	chrMode    byte // 0: 8 KiB, 1: two 4 KiB banks

	chrBank0 byte
	chrBank1 byte
	prgBank  byte

	prgRAMDisable bool

	// Writes on consecutive cpu cycles are ignored by the hardware, which
	// is what makes read-modify-write instructions safe against double
	// shifting. Tracked at instruction granularity: good enough, since
	// back-to-back writes only happen inside one instruction.
	wroteThisInstr bool
}

func newMMC1(cart *Cartridge) *mmc1 {
	chr, ram := chrMem(cart)
	return &mmc1{
		prg:        cart.PRG,
		chr:        chr,
		chrRAM:     ram,
		prgRAM:     prgRAM(cart),
		battery:    cart.Battery,
		shift:      0x10,
		prgMode:    3,
		mirrorBits: mmc1MirrorBits(cart.MirrorMode),
	}
}

func mmc1MirrorBits(m MirrorMode) byte {
	switch m {
	case SingleLower:
		return 0
	case SingleUpper:
		return 1
	case Vertical:
		return 2
	default:
		return 3
	}
}

func (m *mmc1) prgBanks() int { return len(m.prg) / 0x4000 }

func (m *mmc1) cpuRead(addr uint16) (byte, bool) {
	switch {
	case addr >= 0xC000:
		var bank int
		switch m.prgMode {
		case 0, 1:
			bank = int(m.prgBank&0x0E) | 1
		case 2:
			bank = int(m.prgBank)
		case 3:
			bank = m.prgBanks() - 1
		}
		return m.prg[(bank*0x4000+int(addr-0xC000))%len(m.prg)], true

	case addr >= 0x8000:
		var bank int
		switch m.prgMode {
		case 0, 1:
			bank = int(m.prgBank & 0x0E)
		case 2:
			bank = 0
		case 3:
			bank = int(m.prgBank)
		}
		return m.prg[(bank*0x4000+int(addr-0x8000))%len(m.prg)], true

	case addr >= 0x6000:
		if m.prgRAMDisable {
			return 0, false
		}
		return m.prgRAM[int(addr-0x6000)%len(m.prgRAM)], true
	}
	return 0, false
}

func (m *mmc1) cpuWrite(addr uint16, v byte) {
	switch {
	case addr >= 0x8000:
		if m.wroteThisInstr {
			return
		}
		m.wroteThisInstr = true

		if v&0x80 != 0 {
			m.shift = 0x10
			m.shiftCount = 0
			m.prgMode = 3
			return
		}

		m.shift = m.shift>>1 | v&1<<4
		m.shiftCount++
		if m.shiftCount == 5 {
			m.writeRegister(addr, m.shift)
			m.shift = 0x10
			m.shiftCount = 0
		}

	case addr >= 0x6000:
		if !m.prgRAMDisable {
			m.prgRAM[int(addr-0x6000)%len(m.prgRAM)] = v
		}
	}
}

func (m *mmc1) writeRegister(addr uint16, v byte) {
	switch {
	case addr < 0xA000: // control
		m.mirrorBits = v & 0x03
		m.prgMode = v >> 2 & 0x03
		m.chrMode = v >> 4 & 0x01
	case addr < 0xC000:
		m.chrBank0 = v & 0x1F
	case addr < 0xE000:
		m.chrBank1 = v & 0x1F
	default:
		m.prgBank = v & 0x0F
		m.prgRAMDisable = v&0x10 != 0
	}
}

func (m *mmc1) chrOffset(addr uint16) int {
	if m.chrMode == 0 {
		// 8 KiB mode: low bit of the bank number is ignored.
		return (int(m.chrBank0&0x1E)*0x1000 + int(addr)) % len(m.chr)
	}
	if addr < 0x1000 {
		return (int(m.chrBank0)*0x1000 + int(addr)) % len(m.chr)
	}
	return (int(m.chrBank1)*0x1000 + int(addr-0x1000)) % len(m.chr)
}

func (m *mmc1) ppuRead(addr uint16) (byte, bool) {
	if addr < 0x2000 {
		return m.chr[m.chrOffset(addr)], true
	}
	return 0, false
}

func (m *mmc1) ppuWrite(addr uint16, v byte) {
	if addr < 0x2000 && m.chrRAM {
		m.chr[m.chrOffset(addr)] = v
	}
}

func (m *mmc1) mirror() MirrorMode {
	switch m.mirrorBits {
	case 0:
		return SingleLower
	case 1:
		return SingleUpper
	case 2:
		return Vertical
	default:
		return Horizontal
	}
}

func (m *mmc1) notifyCPUCycles(uint64) {
	m.wroteThisInstr = false
}

func (m *mmc1) batteryRAM() []byte {
	if !m.battery {
		return nil
	}
	return m.prgRAM
}

func (m *mmc1) saveState(w *stateWriter) {
	w.bytes(m.prgRAM)
	if m.chrRAM {
		w.bytes(m.chr)
	}
	w.u8(m.shift)
	w.u8(m.shiftCount)
	w.u8(m.mirrorBits)
	w.u8(m.prgMode)
	w.u8(m.chrMode)
	w.u8(m.chrBank0)
	w.u8(m.chrBank1)
	w.u8(m.prgBank)
	w.bool(m.prgRAMDisable)
}

func (m *mmc1) loadState(r *stateReader) {
	r.bytes(m.prgRAM)
	if m.chrRAM {
		r.bytes(m.chr)
	}
	m.shift = r.u8()
	m.shiftCount = r.u8()
	m.mirrorBits = r.u8()
	m.prgMode = r.u8()
	m.chrMode = r.u8()
	m.chrBank0 = r.u8()
	m.chrBank1 = r.u8()
	m.prgBank = r.u8()
	m.prgRAMDisable = r.bool()
}
