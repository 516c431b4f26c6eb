package ui

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/FabianRolfMatthiasNoll/gbpanel/internal/input"
)

const (
	wheelDegrees = 15 // crank travel per wheel notch
	keyDegrees   = 6  // crank travel per frame while a crank key is held
)

// Keys is the window's input.Source: keyboard for the buttons, mouse wheel
// or the comma and period keys for the crank. Poll must run on the ebiten
// update goroutine before the adapter samples it.
type Keys struct {
	buttons input.Buttons
	angle   float64
}

func NewKeys() *Keys { return &Keys{} }

func (k *Keys) Buttons() input.Buttons { return k.buttons }

func (k *Keys) CrankAngle() float64 { return k.angle }

func (k *Keys) Poll() {
	var b input.Buttons
	b.Right = ebiten.IsKeyPressed(ebiten.KeyArrowRight)
	b.Left = ebiten.IsKeyPressed(ebiten.KeyArrowLeft)
	b.Up = ebiten.IsKeyPressed(ebiten.KeyArrowUp)
	b.Down = ebiten.IsKeyPressed(ebiten.KeyArrowDown)
	b.A = ebiten.IsKeyPressed(ebiten.KeyZ)
	b.B = ebiten.IsKeyPressed(ebiten.KeyX)
	b.Start = ebiten.IsKeyPressed(ebiten.KeyEnter)
	b.Select = ebiten.IsKeyPressed(ebiten.KeyShiftRight)
	k.buttons = b

	_, dy := ebiten.Wheel()
	turn := dy * wheelDegrees
	if ebiten.IsKeyPressed(ebiten.KeyPeriod) {
		turn += keyDegrees
	}
	if ebiten.IsKeyPressed(ebiten.KeyComma) {
		turn -= keyDegrees
	}
	k.angle = math.Mod(k.angle+turn+360, 360)
}

// Release drops every held button, used while the menu has the keyboard.
func (k *Keys) Release() { k.buttons = input.Buttons{} }
