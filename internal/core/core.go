// Package core defines the contract between the adapter and an emulation
// core. The core owns CPU/PPU timing; the adapter owns every byte of ROM and
// cartridge RAM and receives finished scanlines.
package core

import (
	"errors"
	"fmt"
)

const (
	ScreenWidth  = 160
	ScreenHeight = 144
)

// Scanline holds one emitted display line as 2-bit shade values, 0 lightest.
type Scanline [ScreenWidth]uint8

// Joypad bits as seen by the core. The byte is active-low: a cleared bit
// means the button is held.
const (
	JoypA      uint8 = 0x01
	JoypB      uint8 = 0x02
	JoypSelect uint8 = 0x04
	JoypStart  uint8 = 0x08
	JoypRight  uint8 = 0x10
	JoypLeft   uint8 = 0x20
	JoypUp     uint8 = 0x40
	JoypDown   uint8 = 0x80

	JoypReleased uint8 = 0xFF
)

// Host is the callback side of the contract, implemented by the adapter and
// handed to the core on Init.
type Host interface {
	ReadROM(addr uint32) byte
	ReadRAM(addr uint32) byte
	WriteRAM(addr uint32, v byte)
	// Scanline is called once per emitted line. px is only valid during the call.
	Scanline(px *Scanline, line int)
	// Error reports a core condition with an associated value such as the
	// offending address.
	Error(kind ErrorKind, value uint16)
}

// Engine is an emulation core.
type Engine interface {
	// Init binds the core to host and validates the cartridge.
	Init(host Host) error
	// SaveSize is the cartridge's battery RAM size, valid after Init.
	SaveSize() int
	SetJoypad(state uint8)
	// RunFrame executes one frame of cycles, emitting scanlines to the host.
	RunFrame()
	// TickRTC advances the cartridge clock by one second.
	TickRTC()
	Reset()
	Close()
}

// Factory builds a fresh engine for each loaded ROM.
type Factory func() Engine

var (
	ErrUnsupportedCartridge = errors.New("unsupported cartridge")
	ErrChecksum             = errors.New("cartridge checksum mismatch")
)

// ErrorKind classifies conditions reported through Host.Error.
type ErrorKind int

const (
	ErrUnknown ErrorKind = iota
	ErrInvalidOpcode
	ErrInvalidRead
	ErrInvalidWrite
	ErrHaltForever
)

func (k ErrorKind) String() string {
	switch k {
	case ErrInvalidOpcode:
		return "invalid opcode"
	case ErrInvalidRead:
		return "invalid read"
	case ErrInvalidWrite:
		return "invalid write"
	case ErrHaltForever:
		return "halt forever"
	default:
		return "unknown error"
	}
}

// Recoverable reports whether emulation may continue after the condition.
// Only stray memory accesses are tolerated.
func (k ErrorKind) Recoverable() bool {
	return k == ErrInvalidRead || k == ErrInvalidWrite
}

// Fault is a fatal core condition surfaced as an error.
type Fault struct {
	Kind  ErrorKind
	Value uint16
}

func (f *Fault) Error() string {
	return fmt.Sprintf("core: %s at $%04X", f.Kind, f.Value)
}
