// Package input turns host controls into the core's joypad byte.
package input

import (
	"math"

	"github.com/FabianRolfMatthiasNoll/gbpanel/internal/core"
)

// Buttons is the host's digital button state; true means held.
type Buttons struct {
	A, B, Start, Select   bool
	Up, Down, Left, Right bool
}

// Source is polled once per frame by the adapter.
type Source interface {
	Buttons() Buttons
	// CrankAngle is the rotary sensor position in degrees, [0, 360).
	CrankAngle() float64
}

// Button names a joypad line a crank direction can drive.
type Button uint8

const (
	ButtonNone   Button = 0
	ButtonA             = Button(core.JoypA)
	ButtonB             = Button(core.JoypB)
	ButtonSelect        = Button(core.JoypSelect)
	ButtonStart         = Button(core.JoypStart)
	ButtonRight         = Button(core.JoypRight)
	ButtonLeft          = Button(core.JoypLeft)
	ButtonUp            = Button(core.JoypUp)
	ButtonDown          = Button(core.JoypDown)
)

// CrankConfig sets the hysteresis band and the buttons each turning
// direction presses.
type CrankConfig struct {
	Threshold        float64 // degrees
	Clockwise        Button
	CounterClockwise Button
}

// Defaults fills zero fields: a 3 degree band, clockwise Start and
// counter-clockwise Select.
func (c *CrankConfig) Defaults() {
	if c.Threshold <= 0 {
		c.Threshold = 3
	}
	if c.Clockwise == ButtonNone {
		c.Clockwise = ButtonStart
	}
	if c.CounterClockwise == ButtonNone {
		c.CounterClockwise = ButtonSelect
	}
}

// Direction is the synthetic signal derived from crank motion.
type Direction int

const (
	Still Direction = iota
	Clockwise
	CounterClockwise
)

// Mapper holds the crank reference angle and the latched crank signal
// between samples.
type Mapper struct {
	cfg  CrankConfig
	prev float64
	held Direction
}

func NewMapper(cfg CrankConfig) *Mapper {
	cfg.Defaults()
	return &Mapper{cfg: cfg}
}

// Reset makes angle the new crank reference and releases the crank signal.
func (m *Mapper) Reset(angle float64) { m.prev, m.held = angle, Still }

// Crank compares angle with the last sample and returns the signal to hold.
// A move past the threshold switches the signal to that direction; a move
// within it changes nothing. Either way angle becomes the next reference,
// so small steps never add up to a crossing.
func (m *Mapper) Crank(angle float64) Direction {
	d := math.Mod(angle-m.prev+540, 360) - 180
	switch {
	case d > m.cfg.Threshold:
		m.held = Clockwise
	case d < -m.cfg.Threshold:
		m.held = CounterClockwise
	}
	m.prev = angle
	return m.held
}

// Sample builds the active-low joypad byte for one frame.
func (m *Mapper) Sample(b Buttons, angle float64) uint8 {
	var held uint8
	if b.Right {
		held |= core.JoypRight
	}
	if b.Left {
		held |= core.JoypLeft
	}
	if b.Up {
		held |= core.JoypUp
	}
	if b.Down {
		held |= core.JoypDown
	}
	if b.A {
		held |= core.JoypA
	}
	if b.B {
		held |= core.JoypB
	}
	if b.Select {
		held |= core.JoypSelect
	}
	if b.Start {
		held |= core.JoypStart
	}
	switch m.Crank(angle) {
	case Clockwise:
		held |= uint8(m.cfg.Clockwise)
	case CounterClockwise:
		held |= uint8(m.cfg.CounterClockwise)
	}
	return ^held
}
