package nes

import "fmt"

// mapper is the cartridge-side logic: it presents the PRG view to the cpu
// and the CHR view to the ppu, reports the current nametable mirroring and
// optionally drives an IRQ line.
//
// Every variant is a self-contained value with its own registers; there is
// no inheritance, just this capability set. The second return value of the
// read methods reports whether the cartridge drove the data bus at all -
// when it didn't, the bus serves its open-bus latch instead.
type mapper interface {
	cpuRead(addr uint16) (byte, bool)
	cpuWrite(addr uint16, v byte)
	ppuRead(addr uint16) (byte, bool)
	ppuWrite(addr uint16, v byte)

	mirror() MirrorMode

	irqPending() bool
	clearIRQ()

	// notifyA12 is called by the ppu on a filtered rising edge of PPU
	// address bit 12, the MMC3 scanline counter's clock.
	notifyA12()

	// notifyCPUCycles reports elapsed cpu cycles for mappers with
	// cycle-based timers or write timing rules.
	notifyCPUCycles(n uint64)

	// batteryRAM returns the persistent ram slice, or nil when the board
	// has none. The caller owns nothing: the slice aliases live state.
	batteryRAM() []byte

	saveState(w *stateWriter)
	loadState(r *stateReader)
}

// newMapper builds the mapper state machine for a loaded cartridge.
func newMapper(cart *Cartridge) (mapper, error) {
	switch cart.Mapper {
	case 0:
		return newNROM(cart), nil
	case 1:
		return newMMC1(cart), nil
	case 2:
		return newUxROM(cart), nil
	case 3:
		return newCNROM(cart), nil
	case 4:
		return newMMC3(cart), nil
	case 7:
		return newAxROM(cart), nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnsupportedMapper, cart.Mapper)
}

// mapperBase carries the defaults shared by boards without IRQ or timing
// needs.
type mapperBase struct{}

func (mapperBase) irqPending() bool        { return false }
func (mapperBase) clearIRQ()               {}
func (mapperBase) notifyA12()              {}
func (mapperBase) notifyCPUCycles(uint64)  {}
func (mapperBase) batteryRAM() []byte      { return nil }

// chrMem returns the board's pattern memory: the rom when present,
// otherwise a fresh ram of the size the header asked for.
func chrMem(cart *Cartridge) (mem []byte, ram bool) {
	if len(cart.CHR) > 0 {
		return cart.CHR, false
	}
	size := cart.CHRRAMSize
	if size == 0 {
		size = 8192
	}
	return make([]byte, size), true
}

// prgRAM allocates the board's work ram, defaulting to the classic 8 KiB
// when the header didn't say.
func prgRAM(cart *Cartridge) []byte {
	size := cart.PRGRAMSize
	if size == 0 {
		size = 8192
	}
	return make([]byte, size)
}
