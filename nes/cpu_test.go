package nes

import (
	"testing"
)

// testCartridge builds a 32 KiB NROM image with the program at $8000 and
// the reset vector pointing at it.
func testCartridge(program []byte) *Cartridge {
	prg := make([]byte, 0x8000)
	copy(prg, program)
	prg[0x7FFC] = 0x00
	prg[0x7FFD] = 0x80
	return &Cartridge{
		PRGRAMSize: 8192,
		CHRRAMSize: 8192,
		PRG:        prg,
	}
}

func newTestConsole(t *testing.T, program []byte) *Console {
	t.Helper()
	console := NewConsole(NTSC, 0, nil)
	if err := console.Load(testCartridge(program)); err != nil {
		t.Fatalf("unable to load test cartridge: %v", err)
	}
	return console
}

func TestCPU_PowerOn(t *testing.T) {
	console := newTestConsole(t, []byte{0xEA})

	if got := console.Cycles(); got != 7 {
		t.Errorf("power-on cycles = %d, want 7", got)
	}
	if got := console.cpu.pc; got != 0x8000 {
		t.Errorf("power-on pc = %04X, want 8000", got)
	}
	if console.cpu.p&interruptDisable == 0 {
		t.Error("interrupt disable not set at power-on")
	}
	if console.cpu.p&unused == 0 {
		t.Error("unused flag not set at power-on")
	}
	if got := console.cpu.s; got != 0xFD {
		t.Errorf("power-on sp = %02X, want FD", got)
	}
}

func TestCPU_ADC(t *testing.T) {
	// The eight canonical carry/overflow combinations.
	tests := []struct {
		name     string
		a, m     byte
		want     byte
		carry    bool
		overflow bool
	}{
		{"no carry no overflow", 0x50, 0x10, 0x60, false, false},
		{"signed overflow", 0x50, 0x50, 0xA0, false, true},
		{"negative operand", 0x50, 0x90, 0xE0, false, false},
		{"unsigned carry", 0x50, 0xD0, 0x20, true, false},
		{"negative a", 0xD0, 0x10, 0xE0, false, false},
		{"carry from negative a", 0xD0, 0x50, 0x20, true, false},
		{"carry and overflow", 0xD0, 0x90, 0x60, true, true},
		{"carry no overflow", 0xD0, 0xD0, 0xA0, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			console := newTestConsole(t, []byte{
				0xA9, tt.a, // LDA #a
				0x69, tt.m, // ADC #m
			})

			console.Step()
			console.Step()

			c := console.cpu
			if c.a != tt.want {
				t.Errorf("A = %02X, want %02X", c.a, tt.want)
			}
			if got := c.p&carry != 0; got != tt.carry {
				t.Errorf("carry = %v, want %v", got, tt.carry)
			}
			if got := c.p&overflow != 0; got != tt.overflow {
				t.Errorf("overflow = %v, want %v", got, tt.overflow)
			}
		})
	}
}

func TestCPU_SBC(t *testing.T) {
	tests := []struct {
		name     string
		a, m     byte
		want     byte
		carry    bool
		overflow bool
	}{
		{"borrow no overflow", 0x50, 0xF0, 0x60, false, false},
		{"borrow and overflow", 0x50, 0xB0, 0xA0, false, true},
		{"borrow negative result", 0x50, 0x70, 0xE0, false, false},
		{"no borrow", 0x50, 0x30, 0x20, true, false},
		{"negative a borrow", 0xD0, 0xF0, 0xE0, false, false},
		{"negative a no borrow", 0xD0, 0xB0, 0x20, true, false},
		{"overflow from negative", 0xD0, 0x70, 0x60, true, true},
		{"negative no overflow", 0xD0, 0x30, 0xA0, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			console := newTestConsole(t, []byte{
				0x38,       // SEC
				0xA9, tt.a, // LDA #a
				0xE9, tt.m, // SBC #m
			})

			console.Step()
			console.Step()
			console.Step()

			c := console.cpu
			if c.a != tt.want {
				t.Errorf("A = %02X, want %02X", c.a, tt.want)
			}
			if got := c.p&carry != 0; got != tt.carry {
				t.Errorf("carry = %v, want %v", got, tt.carry)
			}
			if got := c.p&overflow != 0; got != tt.overflow {
				t.Errorf("overflow = %v, want %v", got, tt.overflow)
			}
		})
	}
}

func TestCPU_InstructionCycles(t *testing.T) {
	tests := []struct {
		name    string
		program []byte
		want    uint64
	}{
		{"LDA immediate", []byte{0xA9, 0x01}, 2},
		{"LDA zero page", []byte{0xA5, 0x10}, 3},
		{"LDA zero page X", []byte{0xB5, 0x10}, 4},
		{"LDA absolute", []byte{0xAD, 0x00, 0x02}, 4},
		{"LDA (indirect,X)", []byte{0xA1, 0x10}, 6},
		{"STA absolute X", []byte{0x9D, 0x00, 0x02}, 5},
		{"INC zero page", []byte{0xE6, 0x10}, 5},
		{"INC absolute", []byte{0xEE, 0x00, 0x02}, 6},
		{"INC absolute X", []byte{0xFE, 0x00, 0x02}, 7},
		{"SLO (indirect),Y", []byte{0x13, 0x10}, 8},
		{"JSR", []byte{0x20, 0x10, 0x80}, 6},
		{"PHP", []byte{0x08}, 3},
		{"PLP", []byte{0x28}, 4},
		{"RTI", []byte{0x40}, 6},
		{"NOP", []byte{0xEA}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			console := newTestConsole(t, tt.program)
			if got := console.Step(); got != tt.want {
				t.Errorf("cycles = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCPU_PageCrossPenalty(t *testing.T) {
	// LDA $01F0,X with X=0x20 crosses into page 2: 4+1 cycles.
	console := newTestConsole(t, []byte{
		0xA2, 0x20, // LDX #$20
		0xBD, 0xF0, 0x01, // LDA $01F0,X
	})
	console.Step()
	if got := console.Step(); got != 5 {
		t.Errorf("page-crossing LDA abs,X = %d cycles, want 5", got)
	}

	// Without the cross it stays at 4.
	console = newTestConsole(t, []byte{
		0xA2, 0x01, // LDX #$01
		0xBD, 0xF0, 0x01, // LDA $01F0,X
	})
	console.Step()
	if got := console.Step(); got != 4 {
		t.Errorf("non-crossing LDA abs,X = %d cycles, want 4", got)
	}
}

func TestCPU_BranchCycles(t *testing.T) {
	// Not taken: 2 cycles.
	console := newTestConsole(t, []byte{
		0xA9, 0x01, // LDA #$01 (clears zero)
		0xF0, 0x02, // BEQ +2
	})
	console.Step()
	if got := console.Step(); got != 2 {
		t.Errorf("branch not taken = %d cycles, want 2", got)
	}

	// Taken, same page: 3 cycles.
	console = newTestConsole(t, []byte{
		0xA9, 0x00, // LDA #$00 (sets zero)
		0xF0, 0x02, // BEQ +2
	})
	console.Step()
	if got := console.Step(); got != 3 {
		t.Errorf("branch taken = %d cycles, want 3", got)
	}

	// Taken across a page boundary: 4 cycles. The branch sits at $80FC so
	// its target $8101 is on the next page.
	program := make([]byte, 0x100)
	program[0x00] = 0xA9 // LDA #$00
	program[0x01] = 0x00
	program[0x02] = 0x4C // JMP $80FC
	program[0x03] = 0xFC
	program[0x04] = 0x80
	program[0xFC] = 0xF0 // BEQ +3 -> $8101
	program[0xFD] = 0x03
	console = newTestConsole(t, program)
	console.Step()
	console.Step()
	if got := console.Step(); got != 4 {
		t.Errorf("page-crossing branch = %d cycles, want 4", got)
	}
	if got := console.cpu.pc; got != 0x8101 {
		t.Errorf("branch target = %04X, want 8101", got)
	}
}

func TestCPU_IndirectJMPBug(t *testing.T) {
	// JMP ($02FF) fetches the high byte from $0200, not $0300.
	console := newTestConsole(t, []byte{
		0x6C, 0xFF, 0x02, // JMP ($02FF)
	})
	console.Write(0x02FF, 0x34)
	console.Write(0x0200, 0x12)
	console.Write(0x0300, 0x56)

	console.Step()
	if got := console.cpu.pc; got != 0x1234 {
		t.Errorf("pc = %04X, want 1234 (same-page wrap)", got)
	}
}

func TestCPU_FlagPushSemantics(t *testing.T) {
	// PHP pushes Break and Unused set.
	console := newTestConsole(t, []byte{0x08}) // PHP
	console.Step()
	pushed := console.Read(0x01FD)
	if pushed&byte(brk) == 0 {
		t.Error("PHP pushed Break clear, want set")
	}
	if pushed&byte(unused) == 0 {
		t.Error("PHP pushed Unused clear, want set")
	}

	// An interrupt pushes Break clear, Unused set.
	console = newTestConsole(t, []byte{0xEA, 0xEA})
	console.cpu.setNMILine(true)
	console.Step()
	pushed = console.Read(0x01FB)
	if pushed&byte(brk) != 0 {
		t.Error("NMI pushed Break set, want clear")
	}
	if pushed&byte(unused) == 0 {
		t.Error("NMI pushed Unused clear, want set")
	}

	// PLP ignores the pulled Break bit and forces Unused.
	console = newTestConsole(t, []byte{
		0xA9, 0xFF, // LDA #$FF
		0x48, // PHA
		0x28, // PLP
	})
	console.Step()
	console.Step()
	console.Step()
	if console.cpu.p&brk != 0 {
		t.Error("PLP restored Break, want ignored")
	}
	if console.cpu.p&unused == 0 {
		t.Error("PLP cleared Unused, want forced set")
	}
}

func TestCPU_InterruptCycles(t *testing.T) {
	// NMI service is exactly 7 cycles.
	console := newTestConsole(t, []byte{0xEA, 0xEA})
	console.cpu.setNMILine(true)
	before := console.Cycles()
	console.Step()
	if got := console.Cycles() - before; got != 7 {
		t.Errorf("NMI service = %d cycles, want 7", got)
	}
	if got := console.cpu.pc; got != 0x0000 { // NMI vector is zero in the test image
		t.Errorf("pc = %04X, want NMI vector 0000", got)
	}
	if console.cpu.p&interruptDisable == 0 {
		t.Error("interrupt disable not set after NMI")
	}

	// IRQ likewise, once the I flag is cleared.
	console = newTestConsole(t, []byte{
		0x58, // CLI
		0xEA,
	})
	console.Step()
	fired := false
	console.cpu.irqLine = func() bool { return true }
	before = console.Cycles()
	console.Step()
	fired = console.Cycles()-before == 7
	if !fired {
		t.Errorf("IRQ service = %d cycles, want 7", console.Cycles()-before)
	}
}

func TestCPU_IRQMasked(t *testing.T) {
	console := newTestConsole(t, []byte{0xEA, 0xEA})
	console.cpu.irqLine = func() bool { return true }

	// I is set after power-on, so the IRQ must not fire.
	console.Step()
	if got := console.cpu.pc; got != 0x8001 {
		t.Errorf("pc = %04X, IRQ fired through the I flag", got)
	}
}

func TestCPU_NMIWithdrawal(t *testing.T) {
	console := newTestConsole(t, []byte{0xEA, 0xEA})

	console.cpu.setNMILine(true)
	if !console.cpu.nmiPending {
		t.Fatal("rising edge did not latch NMI")
	}

	// Dropping the line before the next poll withdraws the interrupt.
	console.cpu.setNMILine(false)
	console.Step()
	if got := console.cpu.pc; got != 0x8001 {
		t.Errorf("pc = %04X, withdrawn NMI was serviced", got)
	}
}

func TestCPU_KILJams(t *testing.T) {
	console := newTestConsole(t, []byte{0x02, 0xEA}) // KIL

	console.Step()
	if !console.Jammed() {
		t.Fatal("KIL did not jam the cpu")
	}

	// A jammed cpu spends no cycles.
	if got := console.Step(); got != 0 {
		t.Errorf("jammed Step = %d cycles, want 0", got)
	}

	pc := console.cpu.pc
	console.Step()
	if console.cpu.pc != pc {
		t.Error("jammed cpu advanced pc")
	}

	// Reset clears the jam.
	console.Reset()
	if console.Jammed() {
		t.Error("reset did not clear the jam")
	}
}

func TestCPU_ResetCycles(t *testing.T) {
	console := newTestConsole(t, []byte{0xEA})
	console.Step()

	before := console.Cycles()
	s := console.cpu.s
	console.Reset()

	if got := console.Cycles() - before; got != 7 {
		t.Errorf("reset = %d cycles, want 7", got)
	}
	if got := console.cpu.s; got != s-3 {
		t.Errorf("sp after reset = %02X, want %02X", got, s-3)
	}
	if got := console.cpu.pc; got != 0x8000 {
		t.Errorf("pc after reset = %04X, want 8000", got)
	}
}

func TestCPU_UnofficialLAX(t *testing.T) {
	console := newTestConsole(t, []byte{
		0xA7, 0x10, // LAX $10
	})
	console.Write(0x0010, 0x5A)
	console.Step()

	if console.cpu.a != 0x5A || console.cpu.x != 0x5A {
		t.Errorf("LAX: A=%02X X=%02X, want both 5A", console.cpu.a, console.cpu.x)
	}
}

func TestCPU_UnofficialSAX(t *testing.T) {
	console := newTestConsole(t, []byte{
		0xA9, 0xF0, // LDA #$F0
		0xA2, 0x3C, // LDX #$3C
		0x87, 0x10, // SAX $10
	})
	console.Step()
	console.Step()
	console.Step()

	if got := console.Read(0x0010); got != 0x30 {
		t.Errorf("SAX stored %02X, want 30", got)
	}
}

func TestCPU_UnofficialDCP(t *testing.T) {
	console := newTestConsole(t, []byte{
		0xA9, 0x40, // LDA #$40
		0xC7, 0x10, // DCP $10
	})
	console.Write(0x0010, 0x41)
	console.Step()
	console.Step()

	if got := console.Read(0x0010); got != 0x40 {
		t.Errorf("DCP result = %02X, want 40", got)
	}
	if console.cpu.p&zero == 0 {
		t.Error("DCP comparison should set zero (A == M-1)")
	}
}

func TestCPU_OAMDMACycles(t *testing.T) {
	// Seed the source page.
	prog := []byte{
		0xA9, 0x02, // LDA #$02
		0x8D, 0x14, 0x40, // STA $4014
	}
	console := newTestConsole(t, prog)
	for i := 0; i < 256; i++ {
		console.Write(uint16(0x0200+i), byte(i))
	}

	console.Step() // LDA
	got := console.Step()
	if got != 4+513 && got != 4+514 {
		t.Fatalf("STA $4014 = %d cycles, want 517 or 518", got)
	}
	even := got == 4+513

	for i := 0; i < 256; i++ {
		if console.ppu.oam[i] != byte(i) {
			t.Fatalf("oam[%d] = %02X, want %02X", i, console.ppu.oam[i], byte(i))
		}
	}

	// Shifting the start parity with a 3-cycle instruction flips the
	// alignment cost.
	prog = []byte{
		0xA5, 0x00, // LDA $00
		0xA9, 0x02, // LDA #$02
		0x8D, 0x14, 0x40, // STA $4014
	}
	console = newTestConsole(t, prog)
	console.Step()
	console.Step()
	got = console.Step()
	if even {
		if got != 4+514 {
			t.Errorf("odd-aligned DMA = %d cycles, want 518", got)
		}
	} else if got != 4+513 {
		t.Errorf("even-aligned DMA = %d cycles, want 517", got)
	}
}

func TestInstructionTableComplete(t *testing.T) {
	for op, inst := range instructions {
		if inst.name == "" {
			t.Errorf("opcode %02X has no table entry", op)
		}
		if inst.cycles == 0 {
			t.Errorf("opcode %02X has zero base cycles", op)
		}
	}
}
