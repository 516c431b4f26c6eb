package ui

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/FabianRolfMatthiasNoll/gbpanel/internal/display"
)

const (
	itemMode = iota
	itemInterlace
	itemReset
	itemResume
	itemQuit
	itemCount
)

func newShade() *ebiten.Image {
	img := ebiten.NewImage(display.Width, display.Height)
	img.Fill(color.RGBA{0, 0, 0, 160})
	return img
}

func (a *App) updateMenu() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) && a.menuIdx > 0 {
		a.menuIdx--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) && a.menuIdx < itemCount-1 {
		a.menuIdx++
	}
	change := inpututil.IsKeyJustPressed(ebiten.KeyEnter) ||
		inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft) ||
		inpututil.IsKeyJustPressed(ebiten.KeyArrowRight)
	if !change {
		return nil
	}
	switch a.menuIdx {
	case itemMode:
		a.prefs.Mode = a.prefs.Mode.Next()
		a.apply("mode " + a.prefs.Mode.String())
	case itemInterlace:
		a.prefs.Interlace = !a.prefs.Interlace
		a.apply(fmt.Sprintf("interlace %v", a.prefs.Interlace))
	case itemReset:
		if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
			a.ad.Reset()
			a.showMenu = false
		}
	case itemResume:
		a.showMenu = false
	case itemQuit:
		if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
			return ebiten.Termination
		}
	}
	return nil
}

func (a *App) drawMenu(screen *ebiten.Image) {
	if a.menuShade == nil {
		a.menuShade = newShade()
	}
	screen.DrawImage(a.menuShade, nil)
	on := "off"
	if a.prefs.Interlace {
		on = "on"
	}
	lines := []string{
		"Menu:",
		"  Scaling: " + a.prefs.Mode.String(),
		"  Interlace: " + on,
		"  Reset",
		"  Resume",
		"  Quit",
	}
	for i, s := range lines {
		prefix := "  "
		if i == a.menuIdx+1 {
			prefix = "> "
		}
		ebitenutil.DebugPrintAt(screen, prefix+s, 10, 10+i*14)
	}
	hint := "M: Mode  I: Interlace  R: Reset  P: Pause  F12: Screenshot  Esc: Back"
	ebitenutil.DebugPrintAt(screen, hint, 10, display.Height-20)
}

// drawStopped explains why nothing is running, e.g. after a fatal core
// error unloaded the cartridge.
func (a *App) drawStopped(screen *ebiten.Image) {
	msg := "No cartridge loaded"
	if err := a.ad.Err(); err != nil {
		msg = err.Error()
	}
	ebitenutil.DebugPrintAt(screen, msg, 10, 10)
	if a.cfg.ROMPath != "" {
		ebitenutil.DebugPrintAt(screen, "Enter: reload "+a.cfg.ROMPath, 10, 24)
	}
}

func (a *App) drawToast(screen *ebiten.Image) {
	if a.toastMsg == "" || time.Now().After(a.toastTil) {
		return
	}
	ebitenutil.DebugPrintAt(screen, a.toastMsg, 10, display.Height-34)
}
