package cart

import (
	"errors"
	"testing"
)

type fakeMemory struct {
	rom []byte
	ram []byte
}

func (f *fakeMemory) ReadROM(addr uint32) byte {
	if int(addr) < len(f.rom) {
		return f.rom[addr]
	}
	return 0xFF
}

func (f *fakeMemory) ReadRAM(addr uint32) byte {
	if int(addr) < len(f.ram) {
		return f.ram[addr]
	}
	return 0xFF
}

func (f *fakeMemory) WriteRAM(addr uint32, v byte) {
	if int(addr) < len(f.ram) {
		f.ram[addr] = v
	}
}

type faultLog struct {
	reads, writes []uint16
}

func (l *faultLog) fn(write bool, addr uint16) {
	if write {
		l.writes = append(l.writes, addr)
	} else {
		l.reads = append(l.reads, addr)
	}
}

// bankedROM builds a valid ROM and stamps each bank's first byte with its number.
func bankedROM(cartType, romCode, ramCode byte, size int) []byte {
	rom := buildROM("BANKS", cartType, romCode, ramCode, size)
	for bank := 1; bank*0x4000 < size; bank++ {
		rom[bank*0x4000] = byte(bank)
	}
	return rom
}

func newTestMapper(t *testing.T, rom []byte) (Mapper, *fakeMemory, *faultLog) {
	t.Helper()
	h, err := ParseHeader(rom)
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	mem := &fakeMemory{rom: rom, ram: make([]byte, h.RAMSizeBytes)}
	var faults faultLog
	m, err := NewMapper(h, mem, faults.fn)
	if err != nil {
		t.Fatalf("NewMapper: %v", err)
	}
	return m, mem, &faults
}

func TestNewMapperRejectsInvalid(t *testing.T) {
	rom := buildROM("BAD", 0x05, 0x00, 0x00, 32*1024)
	h, _ := ParseHeader(rom)
	if _, err := NewMapper(h, &fakeMemory{rom: rom}, nil); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("NewMapper got %v want ErrUnsupported", err)
	}
}

func TestROMOnly_NoRAMFaults(t *testing.T) {
	m, _, faults := newTestMapper(t, buildROM("PLAIN", 0x00, 0x00, 0x00, 32*1024))
	if got := m.Read(0x0147); got != 0x00 {
		t.Fatalf("header read got %02X", got)
	}
	m.Write(0xA000, 0x12)
	if got := m.Read(0xA000); got != 0xFF {
		t.Fatalf("absent RAM read got %02X want FF", got)
	}
	if len(faults.writes) != 1 || len(faults.reads) != 1 || faults.writes[0] != 0xA000 {
		t.Fatalf("faults got %+v", faults)
	}
}

func TestMBC1_ROMBanking(t *testing.T) {
	m, _, _ := newTestMapper(t, bankedROM(0x01, 0x02, 0x00, 128*1024))

	if got := m.Read(0x4000); got != 0x01 {
		t.Fatalf("bank1 read got %02X want 01", got)
	}
	m.Write(0x2000, 0x03)
	if got := m.Read(0x4000); got != 0x03 {
		t.Fatalf("bank3 read got %02X want 03", got)
	}
	m.Write(0x2000, 0x00)
	if got := m.Read(0x4000); got != 0x01 {
		t.Fatalf("bank0->1 remap failed: got %02X", got)
	}
	// Bank numbers beyond the ROM wrap.
	m.Write(0x2000, 0x09)
	if got := m.Read(0x4000); got != 0x01 {
		t.Fatalf("bank 9 of 8 got %02X want 01", got)
	}
}

func TestMBC1_RAMBanking_Mode1(t *testing.T) {
	m, mem, faults := newTestMapper(t, buildROM("RAM", 0x03, 0x02, 0x03, 128*1024))

	m.Write(0xA000, 0x55) // disabled
	m.Write(0x0000, 0x0A)
	m.Write(0x6000, 0x01)
	m.Write(0x4000, 0x02)
	m.Write(0xA001, 0x77)
	if got := m.Read(0xA001); got != 0x77 {
		t.Fatalf("RAM bank2 RW failed: got %02X", got)
	}
	if mem.ram[2*0x2000+1] != 0x77 {
		t.Fatalf("write did not land at bank 2 offset")
	}
	if len(faults.writes) != 1 {
		t.Fatalf("disabled write faults got %d want 1", len(faults.writes))
	}
}

func TestMBC5_NineBitBank(t *testing.T) {
	m, _, _ := newTestMapper(t, bankedROM(0x19, 0x08, 0x00, 8*1024*1024))
	m.Write(0x2000, 0x05)
	m.Write(0x3000, 0x01)
	if got, want := m.Read(0x4000), byte(0x105&0xFF); got != want {
		t.Fatalf("bank 0x105 got %02X want %02X", got, want)
	}
	m.Write(0x2000, 0x00)
	m.Write(0x3000, 0x00)
	if got := m.Read(0x4000); got != 0x00 {
		t.Fatalf("bank 0 selectable on MBC5, got %02X", got)
	}
}

func TestMBC3_RTC_LatchAndRead(t *testing.T) {
	m, _, _ := newTestMapper(t, buildROM("CLOCK", 0x10, 0x00, 0x02, 32*1024))
	rtc := m.(Clocked).Clock()
	if rtc == nil {
		t.Fatalf("MBC3+TIMER has no clock")
	}

	m.Write(0x0000, 0x0A)
	rtc.Sec, rtc.Min, rtc.Hour, rtc.Day = 5, 6, 7, 0x101
	m.Write(0x6000, 0x00)
	m.Write(0x6000, 0x01)

	m.Write(0x4000, 0x08)
	if got := m.Read(0xA000); got != 5 {
		t.Fatalf("latched sec got %d want 5", got)
	}
	rtc.Sec = 30
	if got := m.Read(0xA000); got != 5 {
		t.Fatalf("latched sec changed unexpectedly: got %d", got)
	}

	m.Write(0x4000, 0x0B)
	if got := m.Read(0xA000); got != 0x01 {
		t.Fatalf("latched day low got %02X want 01", got)
	}
	m.Write(0x4000, 0x0C)
	got := m.Read(0xA000)
	if got&0x01 == 0 {
		t.Fatalf("latched day high bit not set")
	}
	if got&0x40 != 0 {
		t.Fatalf("halt bit set unexpectedly")
	}

	// Writing the halt bit stops the clock.
	m.Write(0xA000, 0x40)
	before := rtc.Sec
	rtc.Tick()
	if rtc.Sec != before {
		t.Fatalf("halted clock advanced")
	}
}

func TestRTC_TickRollover(t *testing.T) {
	r := RTC{Sec: 59, Min: 59, Hour: 23, Day: 0x1FF}
	r.Tick()
	if r.Sec != 0 || r.Min != 0 || r.Hour != 0 || r.Day != 0 || !r.Carry {
		t.Fatalf("rollover got %02d:%02d:%02d day=%03d carry=%v", r.Hour, r.Min, r.Sec, r.Day, r.Carry)
	}
	for i := 0; i < 20; i++ {
		r.Tick()
	}
	if r.Sec != 20 || r.Min != 0 {
		t.Fatalf("20 ticks got %d:%d", r.Min, r.Sec)
	}
}

func TestMBC3_NoClockFaults(t *testing.T) {
	m, _, faults := newTestMapper(t, buildROM("NOCLK", 0x13, 0x00, 0x02, 32*1024))
	if m.(Clocked).Clock() != nil {
		t.Fatalf("MBC3 without timer reports a clock")
	}
	m.Write(0x0000, 0x0A)
	m.Write(0x4000, 0x08)
	_ = m.Read(0xA000)
	if len(faults.reads) != 1 {
		t.Fatalf("RTC read without clock faults got %d want 1", len(faults.reads))
	}
}
