package cart

// RTC is the MBC3 real-time clock. It does not read wall time; the owner
// advances it with Tick once per real second.
type RTC struct {
	Sec, Min, Hour byte
	Day            uint16 // 9 bits
	Halt           bool
	Carry          bool // day counter overflowed

	latched    [5]byte
	latchArmed bool
}

// Tick advances the clock by one second unless halted.
func (r *RTC) Tick() {
	if r.Halt {
		return
	}
	r.Sec++
	if r.Sec < 60 {
		return
	}
	r.Sec = 0
	r.Min++
	if r.Min < 60 {
		return
	}
	r.Min = 0
	r.Hour++
	if r.Hour < 24 {
		return
	}
	r.Hour = 0
	r.Day++
	if r.Day > 0x1FF {
		r.Day = 0
		r.Carry = true
	}
}

// latchWrite copies the live registers on a 0 then 1 write sequence.
func (r *RTC) latchWrite(v byte) {
	if v == 0 {
		r.latchArmed = true
		return
	}
	if v == 1 && r.latchArmed {
		r.latched = [5]byte{r.Sec, r.Min, r.Hour, byte(r.Day), r.dayHigh()}
	}
	r.latchArmed = false
}

func (r *RTC) dayHigh() byte {
	v := byte(r.Day>>8) & 0x01
	if r.Halt {
		v |= 0x40
	}
	if r.Carry {
		v |= 0x80
	}
	return v
}

// read returns latched register 0x08-0x0C.
func (r *RTC) read(reg byte) byte {
	if reg < 0x08 || reg > 0x0C {
		return 0xFF
	}
	return r.latched[reg-0x08]
}

// write sets live register 0x08-0x0C.
func (r *RTC) write(reg, v byte) {
	switch reg {
	case 0x08:
		r.Sec = v % 60
	case 0x09:
		r.Min = v % 60
	case 0x0A:
		r.Hour = v % 24
	case 0x0B:
		r.Day = r.Day&0x100 | uint16(v)
	case 0x0C:
		r.Day = r.Day&0x0FF | uint16(v&0x01)<<8
		r.Halt = v&0x40 != 0
		r.Carry = v&0x80 != 0
	}
}
