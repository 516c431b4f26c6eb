package term

import (
	"math"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/FabianRolfMatthiasNoll/gbpanel/internal/input"
)

// Terminals report presses but not releases, so a key counts as held for
// hold after its last press or auto-repeat.
const (
	hold        = 150 * time.Millisecond
	crankDegree = 10
)

// Keys is the terminal's input.Source. Press is called from the tview
// event goroutine, Buttons and CrankAngle from the frame loop.
type Keys struct {
	mu    sync.Mutex
	until map[input.Button]time.Time
	angle float64
	now   func() time.Time
}

func NewKeys() *Keys {
	return &Keys{until: make(map[input.Button]time.Time), now: time.Now}
}

func (k *Keys) Press(b input.Button) {
	k.mu.Lock()
	k.until[b] = k.now().Add(hold)
	k.mu.Unlock()
}

// Turn moves the crank by deg degrees, positive clockwise.
func (k *Keys) Turn(deg float64) {
	k.mu.Lock()
	k.angle = math.Mod(math.Mod(k.angle+deg, 360)+360, 360)
	k.mu.Unlock()
}

func (k *Keys) Buttons() input.Buttons {
	k.mu.Lock()
	defer k.mu.Unlock()
	now := k.now()
	held := func(b input.Button) bool { return now.Before(k.until[b]) }
	return input.Buttons{
		A:      held(input.ButtonA),
		B:      held(input.ButtonB),
		Start:  held(input.ButtonStart),
		Select: held(input.ButtonSelect),
		Up:     held(input.ButtonUp),
		Down:   held(input.ButtonDown),
		Left:   held(input.ButtonLeft),
		Right:  held(input.ButtonRight),
	}
}

func (k *Keys) CrankAngle() float64 {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.angle
}

// keyButton maps a terminal key to a joypad line.
func keyButton(ev *tcell.EventKey) (input.Button, bool) {
	switch ev.Key() {
	case tcell.KeyUp:
		return input.ButtonUp, true
	case tcell.KeyDown:
		return input.ButtonDown, true
	case tcell.KeyLeft:
		return input.ButtonLeft, true
	case tcell.KeyRight:
		return input.ButtonRight, true
	case tcell.KeyEnter:
		return input.ButtonStart, true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return input.ButtonSelect, true
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'z', 'Z':
			return input.ButtonA, true
		case 'x', 'X':
			return input.ButtonB, true
		}
	}
	return input.ButtonNone, false
}
