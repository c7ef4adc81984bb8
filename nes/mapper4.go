package nes

// mmc3 is mapper 4: two switchable 8 KiB PRG banks plus two fixed, six
// switchable CHR banks (two 2 KiB, four 1 KiB, with an A12 inversion mode),
// register-controlled mirroring and the scanline IRQ counter clocked by
// filtered rising edges of PPU A12.
type mmc3 struct {
	prg    []byte
	chr    []byte
	chrRAM bool

	prgRAM  []byte
	battery bool

	bankSelect byte
	prgMode    byte
	chrMode    byte
	registers  [8]byte

	mirrorMode MirrorMode
	fourScreen bool

	prgRAMDisable      bool
	prgRAMWriteProtect bool

	irqLatch   byte
	irqCounter byte
	irqEnabled bool
	irqReload  bool
	irqAssert  bool
}

func newMMC3(cart *Cartridge) *mmc3 {
	chr, ram := chrMem(cart)
	return &mmc3{
		prg:        cart.PRG,
		chr:        chr,
		chrRAM:     ram,
		prgRAM:     prgRAM(cart),
		battery:    cart.Battery,
		mirrorMode: cart.MirrorMode,
		fourScreen: cart.MirrorMode == FourScreen,
	}
}

func (m *mmc3) prgBanks() int { return len(m.prg) / 0x2000 }

func (m *mmc3) prgOffset(addr uint16) int {
	var bank int
	switch {
	case addr < 0xA000: // $8000-$9FFF
		if m.prgMode == 0 {
			bank = int(m.registers[6])
		} else {
			bank = m.prgBanks() - 2
		}
	case addr < 0xC000: // $A000-$BFFF
		bank = int(m.registers[7])
	case addr < 0xE000: // $C000-$DFFF
		if m.prgMode == 0 {
			bank = m.prgBanks() - 2
		} else {
			bank = int(m.registers[6])
		}
	default: // $E000-$FFFF, fixed to the last bank
		bank = m.prgBanks() - 1
	}
	return (bank*0x2000 + int(addr&0x1FFF)) % len(m.prg)
}

func (m *mmc3) cpuRead(addr uint16) (byte, bool) {
	switch {
	case addr >= 0x8000:
		return m.prg[m.prgOffset(addr)], true
	case addr >= 0x6000:
		if m.prgRAMDisable {
			return 0, false
		}
		return m.prgRAM[int(addr-0x6000)%len(m.prgRAM)], true
	}
	return 0, false
}

func (m *mmc3) cpuWrite(addr uint16, v byte) {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		if !m.prgRAMDisable && !m.prgRAMWriteProtect {
			m.prgRAM[int(addr-0x6000)%len(m.prgRAM)] = v
		}

	case addr >= 0x8000 && addr < 0xA000:
		if addr&1 == 0 { // bank select
			m.bankSelect = v & 0x07
			m.prgMode = v >> 6 & 1
			m.chrMode = v >> 7 & 1
		} else { // bank data
			m.registers[m.bankSelect] = v
		}

	case addr >= 0xA000 && addr < 0xC000:
		if addr&1 == 0 {
			// Boards wired for four-screen VRAM ignore this register.
			if !m.fourScreen {
				if v&1 == 0 {
					m.mirrorMode = Vertical
				} else {
					m.mirrorMode = Horizontal
				}
			}
		} else {
			m.prgRAMWriteProtect = v&0x40 != 0
			m.prgRAMDisable = v&0x80 == 0
		}

	case addr >= 0xC000 && addr < 0xE000:
		if addr&1 == 0 {
			m.irqLatch = v
		} else {
			m.irqCounter = 0
			m.irqReload = true
		}

	case addr >= 0xE000:
		if addr&1 == 0 {
			m.irqEnabled = false
			m.irqAssert = false
		} else {
			m.irqEnabled = true
		}
	}
}

func (m *mmc3) chrOffset(addr uint16) int {
	// chrMode inverts A12: the two 2 KiB banks sit in whichever half bit 12
	// doesn't select.
	if m.chrMode == 1 {
		addr ^= 0x1000
	}

	var bank int
	var base uint16
	switch {
	case addr < 0x0800:
		bank = int(m.registers[0] & 0xFE)
		base = 0x0000
	case addr < 0x1000:
		bank = int(m.registers[1] & 0xFE)
		base = 0x0800
	case addr < 0x1400:
		bank = int(m.registers[2])
		base = 0x1000
	case addr < 0x1800:
		bank = int(m.registers[3])
		base = 0x1400
	case addr < 0x1C00:
		bank = int(m.registers[4])
		base = 0x1800
	default:
		bank = int(m.registers[5])
		base = 0x1C00
	}
	return (bank*0x0400 + int(addr-base)) % len(m.chr)
}

func (m *mmc3) ppuRead(addr uint16) (byte, bool) {
	if addr < 0x2000 {
		return m.chr[m.chrOffset(addr)], true
	}
	return 0, false
}

func (m *mmc3) ppuWrite(addr uint16, v byte) {
	if addr < 0x2000 && m.chrRAM {
		m.chr[m.chrOffset(addr)] = v
	}
}

func (m *mmc3) mirror() MirrorMode { return m.mirrorMode }

func (m *mmc3) irqPending() bool { return m.irqAssert }

func (m *mmc3) clearIRQ() { m.irqAssert = false }

// notifyA12 clocks the scanline counter. The counter reloads from the latch
// when it is zero or a reload is pending, otherwise decrements; a clock
// that leaves it at zero asserts the IRQ line when enabled. The line stays
// asserted until acknowledged.
func (m *mmc3) notifyA12() {
	if m.irqCounter == 0 || m.irqReload {
		m.irqCounter = m.irqLatch
		m.irqReload = false
	} else {
		m.irqCounter--
	}

	if m.irqCounter == 0 && m.irqEnabled {
		m.irqAssert = true
	}
}

func (m *mmc3) notifyCPUCycles(uint64) {}

func (m *mmc3) batteryRAM() []byte {
	if !m.battery {
		return nil
	}
	return m.prgRAM
}

func (m *mmc3) saveState(w *stateWriter) {
	w.bytes(m.prgRAM)
	if m.chrRAM {
		w.bytes(m.chr)
	}
	w.u8(m.bankSelect)
	w.u8(m.prgMode)
	w.u8(m.chrMode)
	for _, reg := range m.registers {
		w.u8(reg)
	}
	w.u32(uint32(m.mirrorMode))
	w.bool(m.prgRAMDisable)
	w.bool(m.prgRAMWriteProtect)
	w.u8(m.irqLatch)
	w.u8(m.irqCounter)
	w.bool(m.irqEnabled)
	w.bool(m.irqReload)
	w.bool(m.irqAssert)
}

func (m *mmc3) loadState(r *stateReader) {
	r.bytes(m.prgRAM)
	if m.chrRAM {
		r.bytes(m.chr)
	}
	m.bankSelect = r.u8()
	m.prgMode = r.u8()
	m.chrMode = r.u8()
	for i := range m.registers {
		m.registers[i] = r.u8()
	}
	m.mirrorMode = MirrorMode(r.u32())
	m.prgRAMDisable = r.bool()
	m.prgRAMWriteProtect = r.bool()
	m.irqLatch = r.u8()
	m.irqCounter = r.u8()
	m.irqEnabled = r.bool()
	m.irqReload = r.bool()
	m.irqAssert = r.bool()
}
