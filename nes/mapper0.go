package nes

// nrom is mapper 0: no banking at all. 16 KiB PRG images mirror into both
// halves of $8000-$FFFF, CHR is a fixed 8 KiB of rom or ram, mirroring is
// hard-wired by the board.
type nrom struct {
	mapperBase

	prg    []byte
	chr    []byte
	chrRAM bool

	prgRAM  []byte
	battery bool

	mirrorMode MirrorMode
}

func newNROM(cart *Cartridge) *nrom {
	chr, ram := chrMem(cart)
	return &nrom{
		prg:        cart.PRG,
		chr:        chr,
		chrRAM:     ram,
		prgRAM:     prgRAM(cart),
		battery:    cart.Battery,
		mirrorMode: cart.MirrorMode,
	}
}

func (m *nrom) cpuRead(addr uint16) (byte, bool) {
	switch {
	case addr >= 0x8000:
		return m.prg[int(addr-0x8000)%len(m.prg)], true
	case addr >= 0x6000:
		return m.prgRAM[int(addr-0x6000)%len(m.prgRAM)], true
	}
	return 0, false
}

func (m *nrom) cpuWrite(addr uint16, v byte) {
	if addr >= 0x6000 && addr < 0x8000 {
		m.prgRAM[int(addr-0x6000)%len(m.prgRAM)] = v
	}
}

func (m *nrom) ppuRead(addr uint16) (byte, bool) {
	if addr < 0x2000 {
		return m.chr[int(addr)%len(m.chr)], true
	}
	return 0, false
}

func (m *nrom) ppuWrite(addr uint16, v byte) {
	if addr < 0x2000 && m.chrRAM {
		m.chr[int(addr)%len(m.chr)] = v
	}
}

func (m *nrom) mirror() MirrorMode { return m.mirrorMode }

func (m *nrom) batteryRAM() []byte {
	if !m.battery {
		return nil
	}
	return m.prgRAM
}

func (m *nrom) saveState(w *stateWriter) {
	w.bytes(m.prgRAM)
	if m.chrRAM {
		w.bytes(m.chr)
	}
}

func (m *nrom) loadState(r *stateReader) {
	r.bytes(m.prgRAM)
	if m.chrRAM {
		r.bytes(m.chr)
	}
}
