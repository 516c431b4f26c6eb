package ui

import (
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/FabianRolfMatthiasNoll/gbpanel/internal/display"
	"github.com/FabianRolfMatthiasNoll/gbpanel/internal/emu"
	"github.com/FabianRolfMatthiasNoll/gbpanel/internal/settings"
)

type App struct {
	cfg   Config
	ad    *emu.Adapter
	panel *display.Buffer
	keys  *Keys
	prefs settings.Settings
	watch *settings.Watcher

	tex    *ebiten.Image
	rgba   []byte
	clock  emu.Stopwatch
	paused bool

	// overlay/menu
	showMenu  bool
	menuIdx   int
	menuShade *ebiten.Image
	toastMsg  string
	toastTil  time.Time
}

// NewApp wires a window around an adapter that was built with panel and
// keys. prefs is the state the menu starts from; watch may be nil.
func NewApp(cfg Config, ad *emu.Adapter, panel *display.Buffer, keys *Keys, prefs settings.Settings, watch *settings.Watcher) *App {
	cfg.Defaults()
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(display.Width*cfg.Scale, display.Height*cfg.Scale)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(60)
	return &App{
		cfg:   cfg,
		ad:    ad,
		panel: panel,
		keys:  keys,
		prefs: prefs,
		watch: watch,
		rgba:  make([]byte, display.Width*display.Height*4),
	}
}

func (a *App) Run() error {
	defer a.ad.Unload()
	return ebiten.RunGame(a)
}

func (a *App) Update() error {
	delta := a.clock.Lap(time.Now())

	a.applyReloads()

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		a.showMenu = !a.showMenu
		a.menuIdx = 0
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		a.screenshot()
	}
	if a.showMenu {
		a.keys.Release()
		return a.updateMenu()
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		a.paused = !a.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		a.prefs.Mode = a.prefs.Mode.Next()
		a.apply("mode " + a.prefs.Mode.String())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyI) {
		a.prefs.Interlace = !a.prefs.Interlace
		a.apply(fmt.Sprintf("interlace %v", a.prefs.Interlace))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		a.ad.Reset()
		a.toast("reset")
	}

	if a.ad.State() != emu.Running {
		if inpututil.IsKeyJustPressed(ebiten.KeyEnter) && a.cfg.ROMPath != "" {
			if err := a.ad.Load(a.cfg.ROMPath); err != nil {
				a.toast("load failed")
			}
		}
		return nil
	}
	if a.paused {
		return nil
	}
	a.keys.Poll()
	a.ad.Update(delta)
	return nil
}

func (a *App) Draw(screen *ebiten.Image) {
	if a.tex == nil {
		a.tex = ebiten.NewImage(display.Width, display.Height)
	}
	if rows := a.panel.TakeDirty(); !rows.Empty() {
		a.panel.Frame().RGBA(a.rgba, rows.First, rows.Last)
		a.tex.WritePixels(a.rgba)
	}
	screen.DrawImage(a.tex, nil)

	if a.showMenu {
		a.drawMenu(screen)
	} else if a.ad.State() != emu.Running {
		a.drawStopped(screen)
	}
	a.drawToast(screen)
}

func (a *App) Layout(outW, outH int) (int, int) { return display.Width, display.Height }

// applyReloads takes settings that changed on disk.
func (a *App) applyReloads() {
	if a.watch == nil {
		return
	}
	select {
	case s := <-a.watch.C:
		if s.Mode != a.prefs.Mode {
			a.ad.SetScalingMode(s.Mode)
		}
		a.ad.SetInterlace(s.Interlace)
		a.prefs = s
		a.toast("settings reloaded")
	default:
	}
}

// apply pushes the menu state to the adapter and the settings file.
func (a *App) apply(msg string) {
	if a.ad.Mode() != a.prefs.Mode {
		a.ad.SetScalingMode(a.prefs.Mode)
	}
	a.ad.SetInterlace(a.prefs.Interlace)
	if a.cfg.SettingsPath != "" {
		if err := settings.Save(a.cfg.SettingsPath, a.prefs); err != nil {
			log.Printf("ui: %v", err)
		}
	}
	a.toast(msg)
}

func (a *App) screenshot() {
	name := fmt.Sprintf("screenshot_%s.png", time.Now().Format("20060102_150405"))
	path := filepath.Join(a.cfg.ScreenshotDir, name)
	if err := a.panel.Frame().WritePNG(path, a.cfg.Scale); err != nil {
		log.Printf("ui: screenshot: %v", err)
		a.toast("screenshot failed")
		return
	}
	a.toast("saved " + name)
}

func (a *App) toast(msg string) {
	a.toastMsg = msg
	a.toastTil = time.Now().Add(2 * time.Second)
}
