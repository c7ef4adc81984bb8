package nes

import (
	"bytes"
	"errors"
	"testing"
)

func runSomeFrames(t *testing.T) *Console {
	t.Helper()
	console := newTestConsole(t, []byte{
		0xA9, 0x2A, // LDA #$2A
		0x85, 0x10, // STA $10
		0xE6, 0x10, // INC $10
		0x4C, 0x04, 0x80, // JMP $8004
	})
	console.Write(0x2001, byte(showBackground))
	for i := 0; i < 3; i++ {
		console.StepFrame()
	}
	return console
}

func TestSaveState_RoundTrip(t *testing.T) {
	console := runSomeFrames(t)

	var buf bytes.Buffer
	if err := console.SaveState(&buf); err != nil {
		t.Fatal(err)
	}

	// Saving, running zero cycles and loading must reproduce the state
	// byte for byte.
	before := console.encodeState()
	if err := console.LoadState(bytes.NewReader(buf.Bytes())); err != nil {
		t.Fatal(err)
	}
	after := console.encodeState()

	if !bytes.Equal(before, after) {
		t.Fatal("state not identical after round trip")
	}
}

func TestSaveState_RestoresExecution(t *testing.T) {
	console := runSomeFrames(t)

	var buf bytes.Buffer
	if err := console.SaveState(&buf); err != nil {
		t.Fatal(err)
	}
	saved := console.encodeState()

	// Run ahead, then rewind.
	for i := 0; i < 5; i++ {
		console.StepFrame()
	}
	if bytes.Equal(saved, console.encodeState()) {
		t.Fatal("running ahead did not change state")
	}

	if err := console.LoadState(bytes.NewReader(buf.Bytes())); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(saved, console.encodeState()) {
		t.Fatal("load did not restore the saved state")
	}

	// And the machine still runs from there.
	console.StepFrame()
}

func TestSaveState_Errors(t *testing.T) {
	console := runSomeFrames(t)

	var buf bytes.Buffer
	if err := console.SaveState(&buf); err != nil {
		t.Fatal(err)
	}
	good := buf.Bytes()

	corrupt := func(f func([]byte) []byte) []byte {
		c := append([]byte{}, good...)
		return f(c)
	}

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{
			"bad magic",
			corrupt(func(b []byte) []byte { b[0] = 'X'; return b }),
			ErrStateInvalidMagic,
		},
		{
			"bad version",
			corrupt(func(b []byte) []byte { b[4] = 0xFF; return b }),
			ErrStateVersion,
		},
		{
			"bad checksum",
			corrupt(func(b []byte) []byte { b[len(b)-1] ^= 0xFF; return b }),
			ErrStateChecksum,
		},
		{
			"truncated header",
			good[:20],
			ErrStateTruncated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := console.encodeState()
			err := console.LoadState(bytes.NewReader(tt.data))
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
			if !bytes.Equal(before, console.encodeState()) {
				t.Error("failed load changed the console state")
			}
		})
	}
}

func TestSaveState_RomMismatch(t *testing.T) {
	console := runSomeFrames(t)
	var buf bytes.Buffer
	if err := console.SaveState(&buf); err != nil {
		t.Fatal(err)
	}

	other := newTestConsole(t, []byte{0xEA})
	other.cartridge.Hash[0] ^= 0xFF

	err := other.LoadState(bytes.NewReader(buf.Bytes()))
	if !errors.Is(err, ErrStateRomMismatch) {
		t.Errorf("error = %v, want ErrStateRomMismatch", err)
	}
}

func TestSaveState_NoCartridge(t *testing.T) {
	console := NewConsole(NTSC, 0, nil)

	var buf bytes.Buffer
	if err := console.SaveState(&buf); err == nil {
		t.Error("save with no cartridge should fail")
	}
	if err := console.LoadState(bytes.NewReader(nil)); err == nil {
		t.Error("load with no cartridge should fail")
	}
}

func TestSaveState_HeaderFrameCount(t *testing.T) {
	console := runSomeFrames(t)
	frame := console.ppu.frame

	var buf bytes.Buffer
	if err := console.SaveState(&buf); err != nil {
		t.Fatal(err)
	}

	// The frame counter lives at offset 56 in the header, after the magic,
	// version, checksum, flags, rom hash and timestamp.
	data := buf.Bytes()
	var got uint64
	for i := 7; i >= 0; i-- {
		got = got<<8 | uint64(data[56+i])
	}
	if got != frame {
		t.Errorf("header frame count = %d, want %d", got, frame)
	}
}