package cart

// mbc1 supports ROM banking up to 2MB and RAM up to 32KB.
type mbc1 struct {
	banks

	romBankLow5       byte // 0 is remapped to 1
	ramBankOrRomHigh2 byte // RAM bank in mode 1, ROM bank bits 5-6 otherwise
	ramEnabled        bool
	modeSelect        byte
}

func newMBC1(b banks) *mbc1 {
	return &mbc1{banks: b, romBankLow5: 1}
}

func (m *mbc1) Read(addr uint16) byte {
	switch {
	case addr < 0x4000:
		bank := 0
		if m.modeSelect == 1 {
			bank = int(m.ramBankOrRomHigh2&0x03) << 5
		}
		return m.rom(bank, addr)
	case addr < 0x8000:
		return m.rom(int(m.romBankLow5|(m.ramBankOrRomHigh2&0x03)<<5), addr)
	case isRAM(addr):
		return m.readRAM(m.ramEnabled, m.ramBank(), addr)
	}
	return 0xFF
}

func (m *mbc1) Write(addr uint16, value byte) {
	switch {
	case addr < 0x2000:
		m.ramEnabled = value&0x0F == 0x0A
	case addr < 0x4000:
		m.romBankLow5 = value & 0x1F
		if m.romBankLow5 == 0 {
			m.romBankLow5 = 1
		}
	case addr < 0x6000:
		m.ramBankOrRomHigh2 = value & 0x03
	case addr < 0x8000:
		m.modeSelect = value & 0x01
	case isRAM(addr):
		m.writeRAM(m.ramEnabled, m.ramBank(), addr, value)
	}
}

func (m *mbc1) ramBank() int {
	if m.modeSelect == 1 {
		return int(m.ramBankOrRomHigh2 & 0x03)
	}
	return 0
}
