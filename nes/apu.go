package nes

import (
	"io"
	"math"

	"github.com/go-audio/wav"
)

var lengthTable = [32]byte{
	10, 254, 20, 2, 40, 4, 80, 6, 160, 8, 60, 10, 14, 12, 26, 14,
	12, 16, 24, 18, 48, 20, 96, 22, 192, 24, 72, 26, 16, 28, 32, 30,
}

var pulseDutyTables = [4][8]byte{
	{0, 1, 0, 0, 0, 0, 0, 0},
	{0, 1, 1, 0, 0, 0, 0, 0},
	{0, 1, 1, 1, 1, 0, 0, 0},
	{1, 0, 0, 1, 1, 1, 1, 1},
}

var triangleTable = [32]byte{
	15, 14, 13, 12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1, 0,
	0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15,
}

// The non-linear mixer, precomputed. pulseTable[n] covers both pulse
// channels summed, tndTable[3*t + 2*n + d] the rest.
var pulseTable [31]float32
var tndTable [203]float32

func init() {
	for i := 1; i < 31; i++ {
		pulseTable[i] = 95.52 / (8128.0/float32(i) + 100)
	}
	for i := 1; i < 203; i++ {
		tndTable[i] = 163.67 / (24329.0/float32(i) + 100)
	}
}

// envelope is the shared volume generator of the pulse and noise channels.
type envelope struct {
	start    bool
	loop     bool
	constant bool
	volume   byte

	divider byte
	decay   byte
}

func (e *envelope) clock() {
	if e.start {
		e.start = false
		e.decay = 15
		e.divider = e.volume
		return
	}

	if e.divider > 0 {
		e.divider--
		return
	}

	e.divider = e.volume
	if e.decay > 0 {
		e.decay--
	} else if e.loop {
		e.decay = 15
	}
}

func (e *envelope) output() byte {
	if e.constant {
		return e.volume
	}
	return e.decay
}

// pulse is one of the two square channels: an 11-bit timer driving an
// 8-step duty sequencer, gated by a length counter, an envelope and a
// sweep unit.
type pulse struct {
	enabled bool
	channel byte

	dutyTable   byte
	dutyCounter byte

	lengthHalt    bool
	lengthCounter byte

	env envelope

	sweepEnabled bool
	sweepPeriod  byte
	sweepNegate  bool
	sweepShift   byte
	sweepReload  bool
	sweepCounter byte

	timerPeriod uint16
	timer       uint16
}

func (p *pulse) writePort(addr uint16, v byte) {
	switch addr & 3 {
	case 0: // DDLC VVVV
		p.dutyTable = v >> 6
		p.lengthHalt = v&0x20 != 0
		p.env.loop = v&0x20 != 0
		p.env.constant = v&0x10 != 0
		p.env.volume = v & 0x0F

	case 1: // EPPP NSSS
		p.sweepEnabled = v&0x80 != 0
		p.sweepPeriod = v >> 4 & 7
		p.sweepNegate = v&0x08 != 0
		p.sweepShift = v & 7
		p.sweepReload = true

	case 2: // TTTT TTTT
		p.timerPeriod = p.timerPeriod&0x0700 | uint16(v)

	case 3: // LLLL LTTT
		p.timerPeriod = uint16(v&7)<<8 | p.timerPeriod&0x00FF
		if p.enabled {
			p.lengthCounter = lengthTable[v>>3]
		}
		// The sequencer phase resets here too.
		p.timer = p.timerPeriod
		p.dutyCounter = 0
		p.env.start = true
	}
}

func (p *pulse) setEnabled(on bool) {
	p.enabled = on
	if !on {
		p.lengthCounter = 0
	}
}

func (p *pulse) clockTimer() {
	if p.timer > 0 {
		p.timer--
	} else {
		p.timer = p.timerPeriod
		p.dutyCounter = (p.dutyCounter + 1) & 7
	}
}

func (p *pulse) clockLength() {
	if !p.lengthHalt && p.lengthCounter > 0 {
		p.lengthCounter--
	}
}

// sweepTarget is the period the sweep unit is steering towards. Pulse 1
// uses one's complement for the negated change, pulse 2 two's complement,
// so the two channels detune slightly differently.
func (p *pulse) sweepTarget() int {
	delta := int(p.timerPeriod >> p.sweepShift)
	if p.sweepNegate {
		if p.channel == 0 {
			return int(p.timerPeriod) - delta - 1
		}
		return int(p.timerPeriod) - delta
	}
	return int(p.timerPeriod) + delta
}

// sweepMuted silences the channel when the timer is ultrasonic or the
// target period overflows, whether or not the sweep is enabled.
func (p *pulse) sweepMuted() bool {
	return p.timerPeriod < 8 || (!p.sweepNegate && p.sweepTarget() > 0x7FF)
}

func (p *pulse) clockSweep() {
	if p.sweepCounter == 0 && p.sweepEnabled && p.sweepShift != 0 &&
		!p.sweepReload && !p.sweepMuted() {
		target := p.sweepTarget()
		if target >= 0 {
			p.timerPeriod = uint16(target)
		}
	}

	if p.sweepCounter == 0 || p.sweepReload {
		p.sweepCounter = p.sweepPeriod
		p.sweepReload = false
	} else {
		p.sweepCounter--
	}
}

func (p *pulse) sample() byte {
	if !p.enabled || p.lengthCounter == 0 || p.sweepMuted() {
		return 0
	}
	if pulseDutyTables[p.dutyTable][p.dutyCounter] == 0 {
		return 0
	}
	return p.env.output()
}

func (p *pulse) saveState(w *stateWriter) {
	w.bool(p.enabled)
	w.u8(p.dutyTable)
	w.u8(p.dutyCounter)
	w.bool(p.lengthHalt)
	w.u8(p.lengthCounter)
	w.bool(p.env.start)
	w.bool(p.env.loop)
	w.bool(p.env.constant)
	w.u8(p.env.volume)
	w.u8(p.env.divider)
	w.u8(p.env.decay)
	w.bool(p.sweepEnabled)
	w.u8(p.sweepPeriod)
	w.bool(p.sweepNegate)
	w.u8(p.sweepShift)
	w.bool(p.sweepReload)
	w.u8(p.sweepCounter)
	w.u16(p.timerPeriod)
	w.u16(p.timer)
}

func (p *pulse) loadState(r *stateReader) {
	p.enabled = r.bool()
	p.dutyTable = r.u8()
	p.dutyCounter = r.u8()
	p.lengthHalt = r.bool()
	p.lengthCounter = r.u8()
	p.env.start = r.bool()
	p.env.loop = r.bool()
	p.env.constant = r.bool()
	p.env.volume = r.u8()
	p.env.divider = r.u8()
	p.env.decay = r.u8()
	p.sweepEnabled = r.bool()
	p.sweepPeriod = r.u8()
	p.sweepNegate = r.bool()
	p.sweepShift = r.u8()
	p.sweepReload = r.bool()
	p.sweepCounter = r.u8()
	p.timerPeriod = r.u16()
	p.timer = r.u16()
}

// triangle runs its timer at cpu rate, stepping a 32-entry sequence when
// both the length and linear counters are live.
type triangle struct {
	enabled bool

	control       bool
	lengthHalt    bool
	linearLoad    byte
	linearCounter byte
	linearReload  bool

	lengthCounter byte

	timerPeriod uint16
	timer       uint16

	step byte
}

func (t *triangle) writePort(addr uint16, v byte) {
	switch addr {
	case 0x4008: // CRRR RRRR
		t.control = v&0x80 != 0
		t.lengthHalt = v&0x80 != 0
		t.linearLoad = v & 0x7F

	case 0x400A: // TTTT TTTT
		t.timerPeriod = t.timerPeriod&0x0700 | uint16(v)

	case 0x400B: // LLLL LTTT
		t.timerPeriod = uint16(v&7)<<8 | t.timerPeriod&0x00FF
		if t.enabled {
			t.lengthCounter = lengthTable[v>>3]
		}
		t.linearReload = true
	}
}

func (t *triangle) setEnabled(on bool) {
	t.enabled = on
	if !on {
		t.lengthCounter = 0
	}
}

func (t *triangle) clockTimer() {
	if t.timer > 0 {
		t.timer--
		return
	}

	t.timer = t.timerPeriod
	// The ultrasonic guard: below period 2 the sequencer would run above
	// audibility and alias badly, so it holds instead.
	if t.lengthCounter > 0 && t.linearCounter > 0 && t.timerPeriod >= 2 {
		t.step = (t.step + 1) & 31
	}
}

func (t *triangle) clockLinear() {
	if t.linearReload {
		t.linearCounter = t.linearLoad
	} else if t.linearCounter > 0 {
		t.linearCounter--
	}

	if !t.control {
		t.linearReload = false
	}
}

func (t *triangle) clockLength() {
	if !t.lengthHalt && t.lengthCounter > 0 {
		t.lengthCounter--
	}
}

func (t *triangle) sample() byte {
	return triangleTable[t.step]
}

func (t *triangle) saveState(w *stateWriter) {
	w.bool(t.enabled)
	w.bool(t.control)
	w.bool(t.lengthHalt)
	w.u8(t.linearLoad)
	w.u8(t.linearCounter)
	w.bool(t.linearReload)
	w.u8(t.lengthCounter)
	w.u16(t.timerPeriod)
	w.u16(t.timer)
	w.u8(t.step)
}

func (t *triangle) loadState(r *stateReader) {
	t.enabled = r.bool()
	t.control = r.bool()
	t.lengthHalt = r.bool()
	t.linearLoad = r.u8()
	t.linearCounter = r.u8()
	t.linearReload = r.bool()
	t.lengthCounter = r.u8()
	t.timerPeriod = r.u16()
	t.timer = r.u16()
	t.step = r.u8()
}

// noise drives a 15-bit linear feedback shift register from a table-indexed
// period. The feedback tap is bit 1 normally, bit 6 in short mode.
type noise struct {
	enabled bool

	lengthHalt    bool
	lengthCounter byte

	env envelope

	shortMode bool
	lfsr      uint16

	timerPeriod uint16
	timer       uint16

	periods *[16]uint16
}

func (n *noise) writePort(addr uint16, v byte) {
	switch addr {
	case 0x400C: // --LC VVVV
		n.lengthHalt = v&0x20 != 0
		n.env.loop = v&0x20 != 0
		n.env.constant = v&0x10 != 0
		n.env.volume = v & 0x0F

	case 0x400E: // L--- PPPP
		n.shortMode = v&0x80 != 0
		n.timerPeriod = n.periods[v&0x0F]

	case 0x400F: // LLLL L---
		if n.enabled {
			n.lengthCounter = lengthTable[v>>3]
		}
		n.env.start = true
	}
}

func (n *noise) setEnabled(on bool) {
	n.enabled = on
	if !on {
		n.lengthCounter = 0
	}
}

func (n *noise) clockTimer() {
	if n.timer > 0 {
		n.timer--
		return
	}
	n.timer = n.timerPeriod

	tap := n.lfsr >> 1
	if n.shortMode {
		tap = n.lfsr >> 6
	}
	feedback := (n.lfsr ^ tap) & 1
	n.lfsr = n.lfsr>>1 | feedback<<14
}

func (n *noise) clockLength() {
	if !n.lengthHalt && n.lengthCounter > 0 {
		n.lengthCounter--
	}
}

func (n *noise) sample() byte {
	if n.lengthCounter == 0 || n.lfsr&1 == 1 {
		return 0
	}
	return n.env.output()
}

func (n *noise) saveState(w *stateWriter) {
	w.bool(n.enabled)
	w.bool(n.lengthHalt)
	w.u8(n.lengthCounter)
	w.bool(n.env.start)
	w.bool(n.env.loop)
	w.bool(n.env.constant)
	w.u8(n.env.volume)
	w.u8(n.env.divider)
	w.u8(n.env.decay)
	w.bool(n.shortMode)
	w.u16(n.lfsr)
	w.u16(n.timerPeriod)
	w.u16(n.timer)
}

func (n *noise) loadState(r *stateReader) {
	n.enabled = r.bool()
	n.lengthHalt = r.bool()
	n.lengthCounter = r.u8()
	n.env.start = r.bool()
	n.env.loop = r.bool()
	n.env.constant = r.bool()
	n.env.volume = r.u8()
	n.env.divider = r.u8()
	n.env.decay = r.u8()
	n.shortMode = r.bool()
	n.lfsr = r.u16()
	n.timerPeriod = r.u16()
	n.timer = r.u16()
}

// dmc plays back 1-bit delta samples fetched from cpu memory. It never
// touches the bus itself: when the sample buffer runs dry the cpu performs
// the fetch on its behalf and pays the stall cycles, which is how the
// hardware steals time from the program.
type dmc struct {
	irqEnabled bool
	irqPending bool
	loop       bool

	outputLevel byte

	sampleBuffer     byte
	sampleBufferFull bool

	shiftRegister byte
	bitsRemaining byte
	silence       bool

	sampleAddress  uint16
	currentAddress uint16
	sampleLength   uint16
	bytesRemaining uint16

	timerPeriod uint16
	timer       uint16

	rates *[16]uint16
}

func (d *dmc) writePort(addr uint16, v byte) {
	switch addr {
	case 0x4010: // IL-- RRRR
		d.irqEnabled = v&0x80 != 0
		d.loop = v&0x40 != 0
		d.timerPeriod = d.rates[v&0x0F]
		if !d.irqEnabled {
			d.irqPending = false
		}

	case 0x4011: // -DDD DDDD
		d.outputLevel = v & 0x7F

	case 0x4012: // AAAA AAAA, address = $C000 + A*64
		d.sampleAddress = 0xC000 + uint16(v)<<6

	case 0x4013: // LLLL LLLL, length = L*16 + 1
		d.sampleLength = uint16(v)<<4 + 1
	}
}

func (d *dmc) setEnabled(on bool) {
	if on {
		if d.bytesRemaining == 0 {
			d.restart()
		}
	} else {
		d.bytesRemaining = 0
	}
}

func (d *dmc) restart() {
	d.currentAddress = d.sampleAddress
	d.bytesRemaining = d.sampleLength
}

func (d *dmc) active() bool { return d.bytesRemaining > 0 }

// needsSample reports whether the cpu owes the channel a memory fetch.
func (d *dmc) needsSample() bool {
	return !d.sampleBufferFull && d.bytesRemaining > 0
}

// fillSample delivers a fetched byte. The read address wraps from $FFFF
// back to $8000, and the end of the sample either loops or raises the DMC
// IRQ.
func (d *dmc) fillSample(v byte) {
	d.sampleBuffer = v
	d.sampleBufferFull = true

	if d.currentAddress == 0xFFFF {
		d.currentAddress = 0x8000
	} else {
		d.currentAddress++
	}

	d.bytesRemaining--
	if d.bytesRemaining == 0 {
		if d.loop {
			d.restart()
		} else if d.irqEnabled {
			d.irqPending = true
		}
	}
}

func (d *dmc) clockTimer() {
	if d.timer > 0 {
		d.timer--
		return
	}
	d.timer = d.timerPeriod
	d.clockOutput()
}

func (d *dmc) clockOutput() {
	if d.bitsRemaining == 0 {
		d.bitsRemaining = 8
		if d.sampleBufferFull {
			d.shiftRegister = d.sampleBuffer
			d.sampleBufferFull = false
			d.silence = false
		} else {
			d.silence = true
		}
	}

	if !d.silence {
		if d.shiftRegister&1 != 0 {
			if d.outputLevel <= 125 {
				d.outputLevel += 2
			}
		} else if d.outputLevel >= 2 {
			d.outputLevel -= 2
		}
	}

	d.shiftRegister >>= 1
	d.bitsRemaining--
}

func (d *dmc) sample() byte { return d.outputLevel }

func (d *dmc) saveState(w *stateWriter) {
	w.bool(d.irqEnabled)
	w.bool(d.irqPending)
	w.bool(d.loop)
	w.u8(d.outputLevel)
	w.u8(d.sampleBuffer)
	w.bool(d.sampleBufferFull)
	w.u8(d.shiftRegister)
	w.u8(d.bitsRemaining)
	w.bool(d.silence)
	w.u16(d.sampleAddress)
	w.u16(d.currentAddress)
	w.u16(d.sampleLength)
	w.u16(d.bytesRemaining)
	w.u16(d.timerPeriod)
	w.u16(d.timer)
}

func (d *dmc) loadState(r *stateReader) {
	d.irqEnabled = r.bool()
	d.irqPending = r.bool()
	d.loop = r.bool()
	d.outputLevel = r.u8()
	d.sampleBuffer = r.u8()
	d.sampleBufferFull = r.bool()
	d.shiftRegister = r.u8()
	d.bitsRemaining = r.u8()
	d.silence = r.bool()
	d.sampleAddress = r.u16()
	d.currentAddress = r.u16()
	d.sampleLength = r.u16()
	d.bytesRemaining = r.u16()
	d.timerPeriod = r.u16()
	d.timer = r.u16()
}

// apu is the 2A03's audio half: two pulses, triangle, noise, dmc, the frame
// counter and the mixer. It ticks once per cpu cycle.
type apu struct {
	pulse0   pulse
	pulse1   pulse
	triangle triangle
	noise    noise
	dmc      dmc

	// Frame counter: a cpu-cycle counter stepping the envelope, length and
	// sweep clocks in either the 4-step or 5-step sequence.
	sequencerMode byte
	irqInhibit    bool
	frameIRQ      bool
	frameCounter  uint64

	// A $4017 write resets the frame counter a few cycles later.
	resetDelay int8

	last4017 byte

	cycles uint64

	timing *timing

	mixer *mixer
}

func newApu(t *timing, bufferSize int, sampleRate float32) *apu {
	a := &apu{
		pulse0: pulse{channel: 0},
		pulse1: pulse{channel: 1},
		noise:  noise{lfsr: 1},
		timing: t,
		mixer:  newMixer(t, bufferSize, sampleRate),

		resetDelay: -1,
	}
	a.noise.periods = &t.noisePeriods
	a.dmc.rates = &t.dmcRates
	a.dmc.timerPeriod = t.dmcRates[0]
	return a
}

func (a *apu) channel() <-chan float32 {
	return a.mixer.Output
}

func (a *apu) readPort(addr uint16) byte {
	if addr != 0x4015 {
		return 0
	}

	// IF-D NT21: length counter status, frame IRQ, DMC IRQ. Reading
	// acknowledges the frame IRQ but not the DMC one.
	v := a.peek4015()
	a.frameIRQ = false
	return v
}

func (a *apu) peek4015() byte {
	var v byte
	if a.pulse0.lengthCounter > 0 {
		v |= 0x01
	}
	if a.pulse1.lengthCounter > 0 {
		v |= 0x02
	}
	if a.triangle.lengthCounter > 0 {
		v |= 0x04
	}
	if a.noise.lengthCounter > 0 {
		v |= 0x08
	}
	if a.dmc.active() {
		v |= 0x10
	}
	if a.frameIRQ {
		v |= 0x40
	}
	if a.dmc.irqPending {
		v |= 0x80
	}
	return v
}

func (a *apu) writePort(addr uint16, v byte) {
	switch {
	case addr <= 0x4003:
		a.pulse0.writePort(addr, v)

	case addr <= 0x4007:
		a.pulse1.writePort(addr, v)

	case addr <= 0x400B:
		a.triangle.writePort(addr, v)

	case addr <= 0x400F:
		a.noise.writePort(addr, v)

	case addr <= 0x4013:
		a.dmc.writePort(addr, v)

	case addr == 0x4015: // ---D NT21
		a.pulse0.setEnabled(v&0x01 != 0)
		a.pulse1.setEnabled(v&0x02 != 0)
		a.triangle.setEnabled(v&0x04 != 0)
		a.noise.setEnabled(v&0x08 != 0)
		a.dmc.setEnabled(v&0x10 != 0)
		a.dmc.irqPending = false

	case addr == 0x4017: // MI-- ----
		a.last4017 = v
		a.sequencerMode = v >> 7
		a.irqInhibit = v&0x40 != 0
		if a.irqInhibit {
			a.frameIRQ = false
		}

		// The counter reset lands 3 or 4 cycles after the write depending
		// on alignment.
		if a.cycles&1 == 0 {
			a.resetDelay = 3
		} else {
			a.resetDelay = 2
		}

		// Entering 5-step mode clocks a half frame immediately.
		if a.sequencerMode == 1 {
			a.clockQuarterFrame()
			a.clockHalfFrame()
		}
	}
}

// tick advances the apu by one cpu cycle.
func (a *apu) tick() {
	a.cycles++

	if a.resetDelay >= 0 {
		a.resetDelay--
		if a.resetDelay < 0 {
			a.frameCounter = 0
		}
	}

	// Pulse and noise timers run at half cpu rate; triangle and dmc at
	// full rate.
	if a.cycles&1 == 0 {
		a.pulse0.clockTimer()
		a.pulse1.clockTimer()
		a.noise.clockTimer()
	}
	a.triangle.clockTimer()
	a.dmc.clockTimer()

	a.clockFrameCounter()

	a.mixer.mix(
		a.pulse0.sample(),
		a.pulse1.sample(),
		a.triangle.sample(),
		a.noise.sample(),
		a.dmc.sample(),
	)
}

func (a *apu) clockFrameCounter() {
	a.frameCounter++

	t := a.timing
	if a.sequencerMode == 0 {
		switch a.frameCounter {
		case t.frameQuarter1:
			a.clockQuarterFrame()
		case t.frameHalf1:
			a.clockQuarterFrame()
			a.clockHalfFrame()
		case t.frameQuarter2:
			a.clockQuarterFrame()
		case t.frameHalf2:
			a.clockQuarterFrame()
			a.clockHalfFrame()
			a.setFrameIRQ()
		case t.frameHalf2 + 1:
			a.setFrameIRQ()
		case t.frameWrap4Step:
			a.setFrameIRQ()
			a.frameCounter = 0
		}
		return
	}

	switch a.frameCounter {
	case t.frameQuarter1:
		a.clockQuarterFrame()
	case t.frameHalf1:
		a.clockQuarterFrame()
		a.clockHalfFrame()
	case t.frameQuarter2:
		a.clockQuarterFrame()
	case t.frameHalf5Step:
		a.clockQuarterFrame()
		a.clockHalfFrame()
		a.frameCounter = 0
	}
}

func (a *apu) setFrameIRQ() {
	if !a.irqInhibit {
		a.frameIRQ = true
	}
}

func (a *apu) clockQuarterFrame() {
	a.pulse0.env.clock()
	a.pulse1.env.clock()
	a.triangle.clockLinear()
	a.noise.env.clock()
}

func (a *apu) clockHalfFrame() {
	a.pulse0.clockSweep()
	a.pulse0.clockLength()

	a.pulse1.clockSweep()
	a.pulse1.clockLength()

	a.triangle.clockLength()

	a.noise.clockLength()
}

func (a *apu) irqPending() bool {
	return a.frameIRQ || a.dmc.irqPending
}

func (a *apu) reset() {
	a.writePort(0x4015, 0)
	a.writePort(0x4017, a.last4017)
}

func (a *apu) saveState(w *stateWriter) {
	a.pulse0.saveState(w)
	a.pulse1.saveState(w)
	a.triangle.saveState(w)
	a.noise.saveState(w)
	a.dmc.saveState(w)
	w.u8(a.sequencerMode)
	w.bool(a.irqInhibit)
	w.bool(a.frameIRQ)
	w.u64(a.frameCounter)
	w.u8(byte(a.resetDelay))
	w.u8(a.last4017)
	w.u64(a.cycles)
}

func (a *apu) loadState(r *stateReader) {
	a.pulse0.loadState(r)
	a.pulse1.loadState(r)
	a.triangle.loadState(r)
	a.noise.loadState(r)
	a.dmc.loadState(r)
	a.sequencerMode = r.u8()
	a.irqInhibit = r.bool()
	a.frameIRQ = r.bool()
	a.frameCounter = r.u64()
	a.resetDelay = int8(r.u8())
	a.last4017 = r.u8()
	a.cycles = r.u64()
}

// mixer combines the channel outputs through the non-linear lookup tables,
// runs the 90 Hz / 440 Hz high-pass and 14 kHz low-pass chain, and
// downsamples in-line to the output rate. It can also capture each channel
// and the mix to WAV for debugging.
type mixer struct {
	Output chan float32

	filters []filter
	divider uint64
	cycles  uint64

	recorders []*recorder
	p0, p1    *recorder
	t, n, d   *recorder
	m         *recorder
}

func newMixer(t *timing, bufferSize int, sampleRate float32) *mixer {
	if sampleRate <= 0 {
		sampleRate = 44100
	}

	m := &mixer{
		Output:  make(chan float32, bufferSize),
		divider: uint64(t.cpuFreq / float64(sampleRate)),
		filters: []filter{
			highpass(sampleRate, 90),
			highpass(sampleRate, 440),
			lowpass(sampleRate, 14000),
		},
		p0: newRecorder("pulse_0", sampleRate),
		p1: newRecorder("pulse_1", sampleRate),
		t:  newRecorder("triangle", sampleRate),
		n:  newRecorder("noise", sampleRate),
		d:  newRecorder("dmc", sampleRate),
		m:  newRecorder("mix", sampleRate),
	}
	m.recorders = []*recorder{m.p0, m.p1, m.t, m.n, m.d, m.m}
	return m
}

func (m *mixer) mix(p0, p1, t, n, d byte) {
	if m.cycles%m.divider == 0 {
		out := pulseTable[p0+p1] + tndTable[3*uint16(t)+2*uint16(n)+uint16(d)]
		for _, f := range m.filters {
			out = f(out)
		}

		m.p0.process(pulseTable[p0])
		m.p1.process(pulseTable[p1])
		m.t.process(tndTable[3*uint16(t)])
		m.n.process(tndTable[2*uint16(n)])
		m.d.process(tndTable[uint16(d)])
		m.m.process(out)

		// Drop samples when the consumer falls behind rather than stall
		// the emulation.
		select {
		case m.Output <- out:
		default:
		}
	}

	m.cycles++
}

func (m *mixer) startRecording(makeFile func(channel string) (io.WriteSeeker, error)) error {
	for _, r := range m.recorders {
		if err := r.start(makeFile); err != nil {
			return err
		}
	}
	return nil
}

func (m *mixer) pauseRecording() {
	for _, r := range m.recorders {
		r.pause()
	}
}

func (m *mixer) stopRecording() error {
	var err error
	for _, r := range m.recorders {
		if e := r.stop(); e != nil && err == nil {
			err = e
		}
	}
	return err
}

// recorder captures one stream to a WAV file.
type recorder struct {
	name      string
	rate      float32
	recording bool
	paused    bool
	enc       *wav.Encoder
}

func newRecorder(name string, rate float32) *recorder {
	return &recorder{name: name, rate: rate}
}

func (r *recorder) start(makeFile func(channel string) (io.WriteSeeker, error)) error {
	if r.recording {
		r.paused = false
		return nil
	}

	f, err := makeFile(r.name)
	if err != nil {
		return err
	}

	r.enc = wav.NewEncoder(f, int(r.rate), 32, 1, 0x0003)
	r.recording = true
	r.paused = false
	return nil
}

func (r *recorder) process(v float32) {
	if !r.recording || r.paused {
		return
	}
	_ = r.enc.WriteFrame(v)
}

func (r *recorder) pause() {
	if r.recording {
		r.paused = !r.paused
	}
}

func (r *recorder) stop() error {
	if !r.recording {
		return nil
	}
	r.recording = false
	r.paused = false
	return r.enc.Close()
}

type filter func(float32) float32

func lowpass(sampleRate, cutoff float32) filter {
	rc := 1.0 / (2.0 * math.Pi * cutoff)
	dt := 1.0 / sampleRate
	alpha := dt / (rc + dt)

	var prev float32
	return func(x float32) float32 {
		ret := alpha*x + (1.0-alpha)*prev
		prev = ret
		return ret
	}
}

func highpass(sampleRate, cutoff float32) filter {
	rc := 1.0 / (2.0 * math.Pi * cutoff)
	dt := 1.0 / sampleRate
	alpha := rc / (rc + dt)

	var prev, prevx float32
	return func(x float32) float32 {
		ret := alpha*prev + alpha*(x-prevx)
		prev = ret
		prevx = x
		return ret
	}
}
