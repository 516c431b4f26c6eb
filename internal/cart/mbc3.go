package cart

// mbc3 implements ROM/RAM banking and, on timer carts, the RTC.
// - 0000-1FFF: RAM and RTC enable (0x0A in low nibble)
// - 2000-3FFF: ROM bank, 7 bits, 0 maps to 1
// - 4000-5FFF: RAM bank 0-3 or RTC register 08-0C
// - 6000-7FFF: latch clock on 00 then 01
type mbc3 struct {
	banks

	ramEnabled bool
	romBank    byte
	sel        byte // RAM bank or RTC register
	rtc        *RTC
}

func newMBC3(b banks, hasRTC bool) *mbc3 {
	m := &mbc3{banks: b, romBank: 1}
	if hasRTC {
		m.rtc = &RTC{}
	}
	return m
}

// Clock returns the cartridge RTC, or nil when the cartridge has none.
func (m *mbc3) Clock() *RTC { return m.rtc }

func (m *mbc3) Read(addr uint16) byte {
	switch {
	case addr < 0x4000:
		return m.rom(0, addr)
	case addr < 0x8000:
		return m.rom(int(m.romBank), addr)
	case isRAM(addr):
		if m.sel >= 0x08 {
			if m.rtc == nil || !m.ramEnabled {
				m.fault(false, addr)
				return 0xFF
			}
			return m.rtc.read(m.sel)
		}
		return m.readRAM(m.ramEnabled, int(m.sel&0x03), addr)
	}
	return 0xFF
}

func (m *mbc3) Write(addr uint16, value byte) {
	switch {
	case addr < 0x2000:
		m.ramEnabled = value&0x0F == 0x0A
	case addr < 0x4000:
		m.romBank = value & 0x7F
		if m.romBank == 0 {
			m.romBank = 1
		}
	case addr < 0x6000:
		if value <= 0x03 || (value >= 0x08 && value <= 0x0C) {
			m.sel = value
		}
	case addr < 0x8000:
		if m.rtc != nil {
			m.rtc.latchWrite(value)
		}
	case isRAM(addr):
		if m.sel >= 0x08 {
			if m.rtc == nil || !m.ramEnabled {
				m.fault(true, addr)
				return
			}
			m.rtc.write(m.sel, value)
			return
		}
		m.writeRAM(m.ramEnabled, int(m.sel&0x03), addr, value)
	}
}

// Clocked is implemented by mappers that carry an RTC.
type Clocked interface {
	Clock() *RTC
}
