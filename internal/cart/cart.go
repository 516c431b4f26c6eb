// Package cart decodes cartridge headers and implements the bank switching
// of the common memory bank controllers. Controllers never hold ROM or RAM
// bytes themselves: every access is forwarded as a flat offset to a Memory,
// which keeps the adapter the single owner of both buffers.
package cart

// Memory is byte-granular access to cartridge ROM and battery RAM by flat
// offset.
type Memory interface {
	ReadROM(addr uint32) byte
	ReadRAM(addr uint32) byte
	WriteRAM(addr uint32, v byte)
}

// FaultFunc is told about CPU accesses to external RAM that hit disabled or
// absent memory.
type FaultFunc func(write bool, addr uint16)

// Mapper is a memory bank controller seen from the CPU address space.
type Mapper interface {
	// Read serves ROM (0x0000-0x7FFF) and external RAM (0xA000-0xBFFF).
	Read(addr uint16) byte
	// Write handles control registers (0x0000-0x7FFF) and external RAM.
	Write(addr uint16, value byte)
}

// NewMapper picks a controller for h. Headers that fail Validate are
// rejected.
func NewMapper(h *Header, mem Memory, fault FaultFunc) (Mapper, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}
	if fault == nil {
		fault = func(bool, uint16) {}
	}
	b := banks{mem: mem, fault: fault, romBanks: h.ROMBanks, ramSize: h.RAMSizeBytes}
	if b.romBanks == 0 {
		b.romBanks = 2
	}
	switch h.Controller {
	case ControllerMBC1:
		return newMBC1(b), nil
	case ControllerMBC3:
		return newMBC3(b, h.RTC), nil
	case ControllerMBC5:
		return newMBC5(b), nil
	default:
		return &romOnly{banks: b}, nil
	}
}

// banks carries what every controller needs to translate addresses.
type banks struct {
	mem      Memory
	fault    FaultFunc
	romBanks int
	ramSize  int
}

func (b *banks) rom(bank int, addr uint16) byte {
	bank %= b.romBanks
	return b.mem.ReadROM(uint32(bank)*0x4000 + uint32(addr&0x3FFF))
}

func (b *banks) ramOffset(enabled bool, bank int, addr uint16) (uint32, bool) {
	if !enabled || b.ramSize == 0 {
		return 0, false
	}
	off := bank*0x2000 + int(addr-0xA000)
	if off >= b.ramSize {
		off %= b.ramSize
	}
	return uint32(off), true
}

func (b *banks) readRAM(enabled bool, bank int, addr uint16) byte {
	off, ok := b.ramOffset(enabled, bank, addr)
	if !ok {
		b.fault(false, addr)
		return 0xFF
	}
	return b.mem.ReadRAM(off)
}

func (b *banks) writeRAM(enabled bool, bank int, addr uint16, v byte) {
	off, ok := b.ramOffset(enabled, bank, addr)
	if !ok {
		b.fault(true, addr)
		return
	}
	b.mem.WriteRAM(off, v)
}

func isRAM(addr uint16) bool { return addr >= 0xA000 && addr <= 0xBFFF }

// romOnly has no banking; RAM, if declared, is always enabled.
type romOnly struct {
	banks
}

func (c *romOnly) Read(addr uint16) byte {
	switch {
	case addr < 0x8000:
		return c.mem.ReadROM(uint32(addr))
	case isRAM(addr):
		return c.readRAM(true, 0, addr)
	}
	return 0xFF
}

func (c *romOnly) Write(addr uint16, value byte) {
	if isRAM(addr) {
		c.writeRAM(true, 0, addr, value)
	}
}
