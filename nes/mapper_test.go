package nes

import (
	"errors"
	"testing"
)

// bankedCartridge builds a cartridge whose PRG banks are tagged with their
// bank number so reads reveal the mapping.
func bankedCartridge(mapperNum uint16, prgBanks, chrBanks int) *Cartridge {
	prg := make([]byte, prgBanks*0x4000)
	for b := 0; b < prgBanks; b++ {
		for i := 0; i < 0x4000; i++ {
			prg[b*0x4000+i] = byte(b)
		}
	}

	var chr []byte
	if chrBanks > 0 {
		chr = make([]byte, chrBanks*0x2000)
		for b := 0; b < chrBanks; b++ {
			for i := 0; i < 0x2000; i++ {
				chr[b*0x2000+i] = byte(b)
			}
		}
	}

	return &Cartridge{
		Mapper:     mapperNum,
		MirrorMode: Horizontal,
		PRG:        prg,
		CHR:        chr,
		PRGRAMSize: 8192,
		CHRRAMSize: 8192,
	}
}

func TestMapperUnsupported(t *testing.T) {
	_, err := newMapper(bankedCartridge(42, 1, 0))
	if !errors.Is(err, ErrUnsupportedMapper) {
		t.Errorf("mapper 42 error = %v, want ErrUnsupportedMapper", err)
	}
}

func TestNROM_Mirror16K(t *testing.T) {
	cart := bankedCartridge(0, 1, 1)
	// Tag a location to prove the 16K image mirrors into both halves.
	cart.PRG[0x0123] = 0x42

	m, err := newMapper(cart)
	if err != nil {
		t.Fatal(err)
	}

	lo, _ := m.cpuRead(0x8123)
	hi, _ := m.cpuRead(0xC123)
	if lo != 0x42 || hi != 0x42 {
		t.Errorf("16K image: $8123=%02X $C123=%02X, want both 42", lo, hi)
	}
}

func TestNROM_PRGRAM(t *testing.T) {
	m, err := newMapper(bankedCartridge(0, 1, 1))
	if err != nil {
		t.Fatal(err)
	}

	m.cpuWrite(0x6000, 0x99)
	if v, _ := m.cpuRead(0x6000); v != 0x99 {
		t.Errorf("prg ram readback = %02X, want 99", v)
	}
}

// mmc1Write shifts a 5-bit value into an MMC1 register one serial bit at a
// time, clearing the consecutive-write guard between writes the way real
// instructions do.
func mmc1Write(m *mmc1, addr uint16, v byte) {
	for i := 0; i < 5; i++ {
		m.notifyCPUCycles(1)
		m.cpuWrite(addr, v>>i&1)
	}
}

func TestMMC1_ShiftRegister(t *testing.T) {
	m := newMMC1(bankedCartridge(1, 8, 0))

	// Select PRG bank 3 in fix-last mode (the power-on default).
	mmc1Write(m, 0xE000, 0x03)

	if v, _ := m.cpuRead(0x8000); v != 3 {
		t.Errorf("$8000 bank = %d, want 3", v)
	}
	if v, _ := m.cpuRead(0xC000); v != 7 {
		t.Errorf("$C000 bank = %d, want fixed last bank 7", v)
	}
}

func TestMMC1_ResetBit(t *testing.T) {
	m := newMMC1(bankedCartridge(1, 8, 0))

	// Switch to 32K mode first.
	mmc1Write(m, 0x8000, 0x00)
	if m.prgMode != 0 {
		t.Fatalf("prg mode = %d, want 0", m.prgMode)
	}

	// Two serial bits then a reset write: the partial shift is discarded
	// and the PRG mode locks back to fix-last.
	m.notifyCPUCycles(1)
	m.cpuWrite(0x8000, 1)
	m.notifyCPUCycles(1)
	m.cpuWrite(0x8000, 1)
	m.notifyCPUCycles(1)
	m.cpuWrite(0x8000, 0x80)

	if m.prgMode != 3 {
		t.Errorf("prg mode = %d after reset write, want 3", m.prgMode)
	}
	if m.shiftCount != 0 {
		t.Errorf("shift count = %d after reset write, want 0", m.shiftCount)
	}
}

func TestMMC1_ConsecutiveWritesIgnored(t *testing.T) {
	m := newMMC1(bankedCartridge(1, 8, 0))

	// Two writes with no cycle notification between them: only the first
	// shift counts, as with a read-modify-write instruction.
	m.notifyCPUCycles(1)
	m.cpuWrite(0x8000, 1)
	m.cpuWrite(0x8000, 1)

	if m.shiftCount != 1 {
		t.Errorf("shift count = %d, want 1 (second write ignored)", m.shiftCount)
	}
}

func TestMMC1_Mirroring(t *testing.T) {
	m := newMMC1(bankedCartridge(1, 2, 0))

	modes := []struct {
		bits byte
		want MirrorMode
	}{
		{0, SingleLower},
		{1, SingleUpper},
		{2, Vertical},
		{3, Horizontal},
	}

	for _, tt := range modes {
		mmc1Write(m, 0x8000, tt.bits|0x0C) // keep prg mode 3
		if got := m.mirror(); got != tt.want {
			t.Errorf("control %02b: mirror = %v, want %v", tt.bits, got, tt.want)
		}
	}
}

func TestUxROM_Banking(t *testing.T) {
	m, err := newMapper(bankedCartridge(2, 8, 0))
	if err != nil {
		t.Fatal(err)
	}

	m.cpuWrite(0x8000, 5)
	if v, _ := m.cpuRead(0x8000); v != 5 {
		t.Errorf("switchable bank = %d, want 5", v)
	}
	if v, _ := m.cpuRead(0xC000); v != 7 {
		t.Errorf("fixed bank = %d, want last bank 7", v)
	}
}

func TestCNROM_Banking(t *testing.T) {
	cart := bankedCartridge(3, 2, 4)
	// CHR banks tagged per 8K; the PRG must contain the written value for
	// the bus-conflict AND to pass it through.
	for i := range cart.PRG {
		cart.PRG[i] = 0xFF
	}

	m, err := newMapper(cart)
	if err != nil {
		t.Fatal(err)
	}

	m.cpuWrite(0x8000, 2)
	if v, _ := m.ppuRead(0x0000); v != 2 {
		t.Errorf("chr bank = %d, want 2", v)
	}

	// CHR-ROM ignores writes.
	m.ppuWrite(0x0000, 0x55)
	if v, _ := m.ppuRead(0x0000); v != 2 {
		t.Errorf("chr rom modified by write: %02X", v)
	}
}

func TestMMC3_PRGBanking(t *testing.T) {
	cart := bankedCartridge(4, 4, 1) // 8 8K banks
	prg8 := make([]byte, len(cart.PRG))
	for b := 0; b < len(prg8)/0x2000; b++ {
		for i := 0; i < 0x2000; i++ {
			prg8[b*0x2000+i] = byte(b)
		}
	}
	cart.PRG = prg8

	m := newMMC3(cart)

	// R6 = 2, R7 = 5, prg mode 0.
	m.cpuWrite(0x8000, 6)
	m.cpuWrite(0x8001, 2)
	m.cpuWrite(0x8000, 7)
	m.cpuWrite(0x8001, 5)

	reads := []struct {
		addr uint16
		want byte
	}{
		{0x8000, 2}, // R6
		{0xA000, 5}, // R7
		{0xC000, 6}, // second-last, fixed
		{0xE000, 7}, // last, fixed
	}
	for _, r := range reads {
		if v, _ := m.cpuRead(r.addr); v != r.want {
			t.Errorf("read %04X = bank %d, want %d", r.addr, v, r.want)
		}
	}

	// PRG mode 1 swaps $8000 and $C000.
	m.cpuWrite(0x8000, 0x46)
	if v, _ := m.cpuRead(0x8000); v != 6 {
		t.Errorf("mode 1 $8000 = bank %d, want second-last 6", v)
	}
	if v, _ := m.cpuRead(0xC000); v != 2 {
		t.Errorf("mode 1 $C000 = bank %d, want R6 2", v)
	}
}

func TestMMC3_ScanlineIRQ(t *testing.T) {
	m := newMMC3(bankedCartridge(4, 2, 1))

	// Latch 7, clear pending, enable: the eighth A12 edge asserts.
	m.cpuWrite(0xC000, 7) // latch
	m.cpuWrite(0xC001, 0) // reload
	m.cpuWrite(0xE001, 0) // enable

	for i := 0; i < 7; i++ {
		m.notifyA12()
		if m.irqPending() {
			t.Fatalf("IRQ asserted after %d edges, want 8", i+1)
		}
	}

	m.notifyA12()
	if !m.irqPending() {
		t.Fatal("IRQ not asserted on the eighth edge")
	}

	// Asserted until acknowledged.
	m.notifyA12()
	if !m.irqPending() {
		t.Error("IRQ line dropped without acknowledge")
	}
	m.clearIRQ()
	if m.irqPending() {
		t.Error("IRQ line still up after acknowledge")
	}
}

func TestMMC3_IRQDisableAcknowledges(t *testing.T) {
	m := newMMC3(bankedCartridge(4, 2, 1))

	m.cpuWrite(0xC000, 0)
	m.cpuWrite(0xC001, 0)
	m.cpuWrite(0xE001, 0)
	m.notifyA12()
	if !m.irqPending() {
		t.Fatal("latch 0 should assert on the first edge")
	}

	m.cpuWrite(0xE000, 0)
	if m.irqPending() {
		t.Error("IRQ disable did not acknowledge the pending IRQ")
	}
}

func TestMMC3_Mirroring(t *testing.T) {
	m := newMMC3(bankedCartridge(4, 2, 1))

	m.cpuWrite(0xA000, 0)
	if m.mirror() != Vertical {
		t.Error("mirroring bit 0 clear should be vertical")
	}
	m.cpuWrite(0xA000, 1)
	if m.mirror() != Horizontal {
		t.Error("mirroring bit 0 set should be horizontal")
	}
}

func TestAxROM_Banking(t *testing.T) {
	cart := bankedCartridge(7, 8, 0) // 4 32K banks
	prg32 := make([]byte, len(cart.PRG))
	for b := 0; b < len(prg32)/0x8000; b++ {
		for i := 0; i < 0x8000; i++ {
			prg32[b*0x8000+i] = byte(b)
		}
	}
	cart.PRG = prg32

	m, err := newMapper(cart)
	if err != nil {
		t.Fatal(err)
	}

	m.cpuWrite(0x8000, 2)
	if v, _ := m.cpuRead(0x8000); v != 2 {
		t.Errorf("bank = %d, want 2", v)
	}

	if m.mirror() != SingleLower {
		t.Error("bit 4 clear should select single-screen lower")
	}
	m.cpuWrite(0x8000, 0x10)
	if m.mirror() != SingleUpper {
		t.Error("bit 4 set should select single-screen upper")
	}
}

func TestMapper_BatteryRAM(t *testing.T) {
	cart := bankedCartridge(1, 2, 0)
	cart.Battery = true

	m, err := newMapper(cart)
	if err != nil {
		t.Fatal(err)
	}

	ram := m.batteryRAM()
	if ram == nil {
		t.Fatal("battery board returned no ram")
	}

	m.cpuWrite(0x6010, 0x77)
	if ram[0x10] != 0x77 {
		t.Error("battery ram slice does not alias live state")
	}

	cart.Battery = false
	m, _ = newMapper(cart)
	if m.batteryRAM() != nil {
		t.Error("non-battery board returned ram")
	}
}

func TestMMC3_SpriteFetchClocksIRQ(t *testing.T) {
	// End to end: with the background table at $0000 and sprites at
	// $1000, each rendered scanline produces one filtered A12 rising edge
	// during the sprite fetches, so a latch of 7 fires on the eighth
	// rendered line.
	cart := bankedCartridge(4, 2, 1)
	console := NewConsole(NTSC, 0, nil)
	if err := console.Load(cart); err != nil {
		t.Fatal(err)
	}

	m := console.mapper.(*mmc3)

	console.Write(0x2000, 0x08) // sprites at $1000, background at $0000
	console.Write(0x2001, byte(showBackground|showSprites))

	console.Write(0xC000, 7)
	console.Write(0xC001, 0)
	console.Write(0xE001, 0)

	ppu := console.ppu
	lines := 0
	for lines < 7 {
		ppu.tick(nil)
		if ppu.dot == 0 && ppu.scanline > 0 && ppu.scanline < 240 {
			lines++
		}
		if m.irqPending() {
			t.Fatalf("IRQ asserted after %d rendered lines, want 8", lines)
		}
	}
	for ppu.scanline < 9 {
		ppu.tick(nil)
	}

	if !m.irqPending() {
		t.Error("IRQ not asserted on the eighth rendered scanline")
	}
}
