package nes

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"time"

	"github.com/klauspost/compress/flate"
)

// Save states are a compact binary capture of the whole machine: a fixed
// header pairing the state with its cartridge, followed by a
// flate-compressed dump of every component's registers and memories.
//
// Any mismatch - magic, version, checksum, rom hash - or a truncated or
// undecompressable payload rejects the load and leaves the running state
// untouched.

var stateMagic = [4]byte{'N', 'E', 'S', 'S'}

const stateVersion = 1

const stateFlagFlate = 1 << 0

var (
	ErrStateInvalidMagic = errors.New("nes: save state: invalid magic")
	ErrStateVersion      = errors.New("nes: save state: unsupported version")
	ErrStateChecksum     = errors.New("nes: save state: checksum mismatch")
	ErrStateRomMismatch  = errors.New("nes: save state: rom hash mismatch")
	ErrStateTruncated    = errors.New("nes: save state: truncated payload")
)

type stateHeader struct {
	Magic    [4]byte
	Version  uint32
	Checksum uint32
	Flags    uint32
	RomHash  [32]byte
	Time     uint64
	Frame    uint64
	Reserved [8]byte
}

// SaveState writes the complete machine state to w.
func (c *Console) SaveState(w io.Writer) error {
	if c.Empty() {
		return errors.New("nes: save state: no cartridge loaded")
	}

	payload := c.encodeState()

	var compressed bytes.Buffer
	fw, err := flate.NewWriter(&compressed, flate.DefaultCompression)
	if err != nil {
		return fmt.Errorf("nes: save state: %w", err)
	}
	if _, err := fw.Write(payload); err != nil {
		return fmt.Errorf("nes: save state: %w", err)
	}
	if err := fw.Close(); err != nil {
		return fmt.Errorf("nes: save state: %w", err)
	}

	h := stateHeader{
		Magic:    stateMagic,
		Version:  stateVersion,
		Checksum: crc32.ChecksumIEEE(compressed.Bytes()),
		Flags:    stateFlagFlate,
		RomHash:  c.cartridge.Hash,
		Time:     uint64(time.Now().Unix()),
		Frame:    c.ppu.frame,
	}

	if err := binary.Write(w, binary.LittleEndian, &h); err != nil {
		return fmt.Errorf("nes: save state: %w", err)
	}
	if _, err := w.Write(compressed.Bytes()); err != nil {
		return fmt.Errorf("nes: save state: %w", err)
	}
	return nil
}

// LoadState restores a state previously written by SaveState. On any
// error the console is exactly as it was.
func (c *Console) LoadState(r io.Reader) error {
	if c.Empty() {
		return errors.New("nes: save state: no cartridge loaded")
	}

	var h stateHeader
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return fmt.Errorf("%w: %v", ErrStateTruncated, err)
	}

	if h.Magic != stateMagic {
		return ErrStateInvalidMagic
	}
	if h.Version != stateVersion {
		return fmt.Errorf("%w: %d", ErrStateVersion, h.Version)
	}
	if h.RomHash != c.cartridge.Hash {
		return ErrStateRomMismatch
	}

	compressed, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStateTruncated, err)
	}

	if crc32.ChecksumIEEE(compressed) != h.Checksum {
		return ErrStateChecksum
	}

	payload := compressed
	if h.Flags&stateFlagFlate != 0 {
		fr := flate.NewReader(bytes.NewReader(compressed))
		payload, err = io.ReadAll(fr)
		if err != nil {
			return fmt.Errorf("nes: save state: decompress: %w", err)
		}
		if err := fr.Close(); err != nil {
			return fmt.Errorf("nes: save state: decompress: %w", err)
		}
	}

	// Decode over the live state, keeping a snapshot to roll back to if
	// the payload runs short.
	snapshot := c.encodeState()

	sr := &stateReader{data: payload}
	c.decodeState(sr)
	if sr.err != nil {
		c.decodeState(&stateReader{data: snapshot})
		return ErrStateTruncated
	}

	return nil
}

func (c *Console) encodeState() []byte {
	w := &stateWriter{}

	w.bytes(c.bus.ram[:])
	w.u8(c.bus.openBus)

	c.cpu.saveState(w)
	c.ppu.saveState(w)
	c.apu.saveState(w)
	c.controller1.saveState(w)
	c.controller2.saveState(w)
	c.mapper.saveState(w)

	return w.buf
}

func (c *Console) decodeState(r *stateReader) {
	r.bytes(c.bus.ram[:])
	c.bus.openBus = r.u8()

	c.cpu.loadState(r)
	c.ppu.loadState(r)
	c.apu.loadState(r)
	c.controller1.loadState(r)
	c.controller2.loadState(r)
	c.mapper.loadState(r)
}

func (c *cpu) saveState(w *stateWriter) {
	w.u64(c.cycles)
	w.u8(c.a)
	w.u8(c.x)
	w.u8(c.y)
	w.u16(c.pc)
	w.u8(c.s)
	w.u8(byte(c.p))
	w.bool(c.jammed)
	w.bool(c.nmiLine)
	w.bool(c.nmiPending)
}

func (c *cpu) loadState(r *stateReader) {
	c.cycles = r.u64()
	c.a = r.u8()
	c.x = r.u8()
	c.y = r.u8()
	c.pc = r.u16()
	c.s = r.u8()
	c.p = status(r.u8())
	c.jammed = r.bool()
	c.nmiLine = r.bool()
	c.nmiPending = r.bool()
}

// stateWriter serializes fields little-endian into a flat buffer. The
// matching stateReader consumes them in identical order; the format has no
// framing beyond that shared order.
type stateWriter struct {
	buf []byte
}

func (w *stateWriter) u8(v byte) {
	w.buf = append(w.buf, v)
}

func (w *stateWriter) bool(v bool) {
	if v {
		w.u8(1)
	} else {
		w.u8(0)
	}
}

func (w *stateWriter) u16(v uint16) {
	w.buf = binary.LittleEndian.AppendUint16(w.buf, v)
}

func (w *stateWriter) u32(v uint32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

func (w *stateWriter) u64(v uint64) {
	w.buf = binary.LittleEndian.AppendUint64(w.buf, v)
}

func (w *stateWriter) bytes(b []byte) {
	w.buf = append(w.buf, b...)
}

// stateReader carries a sticky error: once the payload runs short every
// further read yields zero, and the caller checks err once at the end.
type stateReader struct {
	data []byte
	pos  int
	err  error
}

func (r *stateReader) take(n int) []byte {
	if r.err != nil || r.pos+n > len(r.data) {
		if r.err == nil {
			r.err = io.ErrUnexpectedEOF
		}
		return make([]byte, n)
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b
}

func (r *stateReader) u8() byte {
	return r.take(1)[0]
}

func (r *stateReader) bool() bool {
	return r.u8() != 0
}

func (r *stateReader) u16() uint16 {
	return binary.LittleEndian.Uint16(r.take(2))
}

func (r *stateReader) u32() uint32 {
	return binary.LittleEndian.Uint32(r.take(4))
}

func (r *stateReader) u64() uint64 {
	return binary.LittleEndian.Uint64(r.take(8))
}

func (r *stateReader) bytes(b []byte) {
	copy(b, r.take(len(b)))
}
