package cart

// mbc5 supports up to 8MB ROM and 128KB RAM.
type mbc5 struct {
	banks

	romBank    uint16 // 9 bits; bank 0 is selectable
	ramBank    byte
	ramEnabled bool
}

func newMBC5(b banks) *mbc5 {
	return &mbc5{banks: b, romBank: 1}
}

func (m *mbc5) Read(addr uint16) byte {
	switch {
	case addr < 0x4000:
		return m.rom(0, addr)
	case addr < 0x8000:
		return m.rom(int(m.romBank), addr)
	case isRAM(addr):
		return m.readRAM(m.ramEnabled, int(m.ramBank), addr)
	}
	return 0xFF
}

func (m *mbc5) Write(addr uint16, value byte) {
	switch {
	case addr < 0x2000:
		m.ramEnabled = value&0x0F == 0x0A
	case addr < 0x3000:
		m.romBank = m.romBank&0x100 | uint16(value)
	case addr < 0x4000:
		m.romBank = m.romBank&0x0FF | uint16(value&0x01)<<8
	case addr < 0x6000:
		m.ramBank = value & 0x0F
	case isRAM(addr):
		m.writeRAM(m.ramEnabled, int(m.ramBank), addr, value)
	}
}
