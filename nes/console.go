package nes

import (
	"fmt"
	"io"
	"os"
)

// Console wires the whole machine together and owns every component. The
// cpu is the master clock: each of its bus accesses advances the ppu by
// three dots and the apu by one tick, so a Step here is one instruction
// with the rest of the hardware exactly caught up.
//
// The external contract is deliberately small: load a cartridge, push
// controller state, step frames, read the indexed framebuffer, drain the
// audio channel. None of it is safe for concurrent use; callers
// synchronize at frame boundaries.
type Console struct {
	cartridge *Cartridge
	mapper    mapper

	cpu *cpu
	apu *apu
	ppu *ppu

	controller1 *controller
	controller2 *controller

	bus *sysBus

	region Region
}

// NewConsole builds an empty console for the given region. sampleRate is
// the audio output rate (0 picks 44.1 kHz); trace, when non-nil, receives
// one disassembled line per instruction.
func NewConsole(region Region, sampleRate float32, trace io.Writer) *Console {
	t := region.timing()

	ppu := newPpu()
	ppu.timing = t
	apu := newApu(t, 4096, sampleRate)
	cpu := newCpu(trace, ppu, apu)
	ppu.cpu = cpu

	ctrl1 := &controller{}
	ctrl2 := &controller{}

	bus := &sysBus{
		cpu:   cpu,
		apu:   apu,
		ppu:   ppu,
		ctrl1: ctrl1,
		ctrl2: ctrl2,
	}

	console := &Console{
		cpu:         cpu,
		apu:         apu,
		ppu:         ppu,
		controller1: ctrl1,
		controller2: ctrl2,
		bus:         bus,
		region:      region,
	}

	cpu.irqLine = func() bool {
		if console.apu.irqPending() {
			return true
		}
		return console.mapper != nil && console.mapper.irqPending()
	}

	return console
}

// Empty reports whether a cartridge is loaded.
func (c *Console) Empty() bool {
	return c.cartridge == nil
}

// Load inserts a cartridge. On failure (an unsupported mapper, say) the
// previously loaded game keeps running untouched.
func (c *Console) Load(cartridge *Cartridge) error {
	m, err := newMapper(cartridge)
	if err != nil {
		return err
	}

	first := c.cartridge == nil
	c.cartridge = cartridge
	c.mapper = m
	c.bus.mapper = m
	c.ppu.mapper = m

	if cartridge.Trainer != nil {
		for i, v := range cartridge.Trainer {
			c.mapper.cpuWrite(0x7000+uint16(i), v)
		}
	}

	if first {
		c.cpu.init(c.bus)
		return nil
	}

	c.Reset()
	return nil
}

// LoadRom parses and inserts a cartridge image from a reader.
func (c *Console) LoadRom(rom io.Reader) error {
	cart, err := LoadINES(rom)
	if err != nil {
		return err
	}
	return c.Load(cart)
}

// LoadPath parses and inserts a cartridge image from a file.
func (c *Console) LoadPath(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("unable to open rom: %w", err)
	}
	defer f.Close()

	return c.LoadRom(f)
}

// Reset pulls the reset line on the cpu and apu.
func (c *Console) Reset() {
	c.cpu.reset(c.bus)
	c.apu.reset()
}

// Step executes one cpu instruction (or one interrupt sequence) and
// returns the cycles spent. A jammed cpu spends none.
func (c *Console) Step() uint64 {
	if c.Empty() {
		return 0
	}

	n := c.cpu.execute(c.bus)
	if c.mapper != nil {
		c.mapper.notifyCPUCycles(n)
	}
	return n
}

// StepFrame runs instructions until the ppu finishes the current frame.
// Frame boundaries are the synchronization point with video and audio
// consumers.
func (c *Console) StepFrame() {
	if c.Empty() || c.cpu.jammed {
		return
	}

	frame := c.ppu.frame
	for frame == c.ppu.frame && !c.cpu.jammed {
		c.Step()
	}
}

// SetPC overrides the program counter, for harnesses that enter a rom at a
// fixed address instead of through the reset vector.
func (c *Console) SetPC(pc uint16) {
	c.cpu.setPC(pc)
}

// Jammed reports whether the cpu hit a KIL opcode. Only Reset clears it.
func (c *Console) Jammed() bool {
	return c.cpu.jammed
}

// Cycles is the total cpu cycle count since power-on.
func (c *Console) Cycles() uint64 {
	return c.cpu.cycles
}

// Frame is the number of completed ppu frames.
func (c *Console) Frame() uint64 {
	return c.ppu.frame
}

// Press and Release update a controller's pressed-button snapshot; ports
// are 0 and 1.
func (c *Console) Press(ctrl int, button Button) {
	switch ctrl {
	case 0:
		c.controller1.press(button)
	case 1:
		c.controller2.press(button)
	}
}

func (c *Console) Release(ctrl int, button Button) {
	switch ctrl {
	case 0:
		c.controller1.release(button)
	case 1:
		c.controller2.release(button)
	}
}

// SetButtons replaces a controller's entire snapshot, bit 0 = A through
// bit 7 = Right.
func (c *Console) SetButtons(ctrl int, buttons byte) {
	switch ctrl {
	case 0:
		c.controller1.setButtons(buttons)
	case 1:
		c.controller2.setButtons(buttons)
	}
}

// Buffer is the 256x240 palette-indexed framebuffer, overwritten dot by
// dot. Read it between frames.
func (c *Console) Buffer() []byte {
	return c.ppu.buffer[:]
}

// Emphasis returns the PPUMASK color emphasis bits for the renderer.
func (c *Console) Emphasis() byte {
	return byte(c.ppu.mask) >> 5
}

// AudioChannel is the mixed, filtered, downsampled sample stream.
func (c *Console) AudioChannel() <-chan float32 {
	return c.apu.channel()
}

// StartRecording begins WAV capture of every channel plus the mix; the
// callback supplies one file per stream.
func (c *Console) StartRecording(makeFile func(channel string) (io.WriteSeeker, error)) error {
	return c.apu.mixer.startRecording(makeFile)
}

// PauseRecording toggles capture without closing the files.
func (c *Console) PauseRecording() {
	c.apu.mixer.pauseRecording()
}

// StopRecording finalizes the WAV files.
func (c *Console) StopRecording() error {
	return c.apu.mixer.stopRecording()
}

// Read and Write access cpu memory with full side effects, as if the cpu
// itself did it (but without advancing the clock).
func (c *Console) Read(addr uint16) byte {
	return c.bus.read(addr)
}

func (c *Console) Write(addr uint16, v byte) {
	c.bus.write(addr, v)
}

// Peek reads cpu memory without perturbing anything, which is what test
// harnesses need to watch diagnostic rom status bytes.
func (c *Console) Peek(addr uint16) byte {
	return c.bus.peek(addr)
}

// TestStatus reads the Blargg diagnostic rom convention: the status byte
// at $6000 ($80 running, $81 reset needed, $00 pass, anything else a
// failure code) and the NUL-terminated message at $6004.
func (c *Console) TestStatus() (code byte, message string) {
	code = c.Peek(0x6000)

	var msg []byte
	for addr := uint16(0x6004); addr < 0x6100; addr++ {
		b := c.Peek(addr)
		if b == 0 {
			break
		}
		msg = append(msg, b)
	}
	return code, string(msg)
}

// BatteryRAM exposes the battery-backed save ram, nil when the board has
// none. Persistence is the caller's business.
func (c *Console) BatteryRAM() []byte {
	if c.mapper == nil {
		return nil
	}
	return c.mapper.batteryRAM()
}

// DrawNametables renders the four nametables into a 512x480 indexed
// buffer, for debug viewers.
func (c *Console) DrawNametables(buf []byte) {
	c.ppu.drawNametables(buf)
}

// DrawPatternTables renders both pattern tables into a 256x128 indexed
// buffer using the given palette, for debug viewers.
func (c *Console) DrawPatternTables(buf []byte, palette byte) {
	c.ppu.drawPatternTables(buf, palette)
}
