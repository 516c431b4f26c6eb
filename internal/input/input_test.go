package input

import (
	"testing"

	"github.com/FabianRolfMatthiasNoll/gbpanel/internal/core"
)

func crankRun(m *Mapper, angles ...float64) []Direction {
	out := make([]Direction, 0, len(angles))
	for _, a := range angles {
		out = append(out, m.Crank(a))
	}
	return out
}

func count(ds []Direction, want Direction) int {
	n := 0
	for _, d := range ds {
		if d == want {
			n++
		}
	}
	return n
}

func TestCrankWithinBandAssertsNothing(t *testing.T) {
	m := NewMapper(CrankConfig{})
	ds := crankRun(m, 0, 2, 3, 1, 0)
	if count(ds, Still) != len(ds) {
		t.Fatalf("in-band sequence asserted a signal: %v", ds)
	}
}

func TestCrankSmallStepsAssertNothing(t *testing.T) {
	m := NewMapper(CrankConfig{})
	ds := crankRun(m, 0, 2, 4)
	if count(ds, Still) != len(ds) {
		t.Fatalf("[0 2 4] asserted a signal: %v", ds)
	}
	ds = crankRun(m, 5, 6, 7, 8, 9, 10)
	if count(ds, Still) != len(ds) {
		t.Fatalf("slow turn asserted a signal: %v", ds)
	}
}

func TestCrankCrossingAssertsOnce(t *testing.T) {
	m := NewMapper(CrankConfig{})
	ds := crankRun(m, 0, 4)
	if count(ds, Clockwise) != 1 || count(ds, CounterClockwise) != 0 {
		t.Fatalf("[0 4] got %v want exactly one clockwise", ds)
	}
}

func TestCrankSignalStaysLatched(t *testing.T) {
	m := NewMapper(CrankConfig{})
	crankRun(m, 0, 10)
	// In-band samples leave the last signal as it was.
	for _, a := range []float64{10, 11, 9} {
		if d := m.Crank(a); d != Clockwise {
			t.Fatalf("crank at %v got %v want clockwise held", a, d)
		}
	}
	if d := m.Crank(0); d != CounterClockwise {
		t.Fatalf("reverse turn got %v want counter-clockwise", d)
	}
	m.Reset(0)
	if d := m.Crank(1); d != Still {
		t.Fatalf("after reset got %v want still", d)
	}
}

func TestCrankWrapsAroundZero(t *testing.T) {
	m := NewMapper(CrankConfig{})
	m.Reset(358)
	if d := m.Crank(2); d != Clockwise {
		t.Fatalf("358 -> 2 got %v want clockwise", d)
	}
	if d := m.Crank(356); d != CounterClockwise {
		t.Fatalf("2 -> 356 got %v want counter-clockwise", d)
	}
}

func TestSampleActiveLow(t *testing.T) {
	m := NewMapper(CrankConfig{})
	if got := m.Sample(Buttons{}, 0); got != core.JoypReleased {
		t.Fatalf("idle joypad got %#02x want 0xff", got)
	}
	got := m.Sample(Buttons{A: true, Left: true}, 0)
	if got != ^(core.JoypA | core.JoypLeft) {
		t.Fatalf("A+Left got %#02x", got)
	}
	got = m.Sample(Buttons{}, 10)
	if got != ^core.JoypStart {
		t.Fatalf("clockwise crank got %#02x want Start held", got)
	}
	got = m.Sample(Buttons{}, 0)
	if got != ^core.JoypSelect {
		t.Fatalf("counter-clockwise crank got %#02x want Select held", got)
	}
}

func TestSampleCustomCrankButtons(t *testing.T) {
	m := NewMapper(CrankConfig{Threshold: 10, Clockwise: ButtonDown, CounterClockwise: ButtonUp})
	if got := m.Sample(Buttons{}, 8); got != core.JoypReleased {
		t.Fatalf("8 degrees inside a 10 degree band got %#02x", got)
	}
	if got := m.Sample(Buttons{}, 19); got != ^core.JoypDown {
		t.Fatalf("clockwise got %#02x want Down held", got)
	}
}
