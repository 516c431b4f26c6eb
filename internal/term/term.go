// Package term hosts the adapter in a terminal. The panel is drawn with
// braille characters, two pixels wide and four tall per cell, next to a
// scrolling log pane.
package term

import (
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/FabianRolfMatthiasNoll/gbpanel/internal/display"
	"github.com/FabianRolfMatthiasNoll/gbpanel/internal/emu"
	"github.com/FabianRolfMatthiasNoll/gbpanel/internal/settings"
)

type Config struct {
	SettingsPath string // rewritten when m or i change the display
	ROMPath      string // reloaded with l after the session stops
	FPS          int
}

type Host struct {
	cfg   Config
	ad    *emu.Adapter
	panel *display.Buffer
	keys  *Keys
	watch *settings.Watcher

	mu    sync.Mutex
	prefs settings.Settings

	app    *tview.Application
	screen *tview.TextView
	log    *tview.TextView
	status *tview.TextView
	cells  brailleScreen
}

// New builds the terminal layout. The adapter must have been created with
// panel and keys. watch may be nil.
func New(cfg Config, ad *emu.Adapter, panel *display.Buffer, keys *Keys, prefs settings.Settings, watch *settings.Watcher) *Host {
	if cfg.FPS <= 0 {
		cfg.FPS = 30
	}
	h := &Host{
		cfg:   cfg,
		ad:    ad,
		panel: panel,
		keys:  keys,
		watch: watch,
		prefs: prefs,
		screen: tview.NewTextView().
			SetWrap(false),
		log: tview.NewTextView().
			SetMaxLines(500),
		status: tview.NewTextView().
			SetWrap(false),
		app: tview.NewApplication(),
	}
	h.log.SetChangedFunc(func() { h.app.Draw() })
	h.status.SetBackgroundColor(tcell.ColorDarkGrey)
	h.status.SetTextColor(tcell.ColorBlack)

	body := tview.NewFlex().
		AddItem(h.screen, cols+2, 0, false).
		AddItem(h.log, 0, 1, false)
	root := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(body, 0, 1, false).
		AddItem(h.status, 1, 0, false)
	h.app.SetRoot(root, true)
	h.app.SetInputCapture(h.key)
	return h
}

// Run blocks until the user quits. The log package writes into the log
// pane meanwhile.
func (h *Host) Run() error {
	log.SetOutput(h.log)
	defer log.SetOutput(os.Stderr)

	done := make(chan struct{})
	go h.loop(done)
	err := h.app.Run()
	close(done)
	h.ad.Unload()
	return err
}

func (h *Host) loop(done <-chan struct{}) {
	tick := time.NewTicker(time.Second / time.Duration(h.cfg.FPS))
	defer tick.Stop()
	var reload <-chan settings.Settings
	if h.watch != nil {
		reload = h.watch.C
	}
	var clock emu.Stopwatch
	clock.Lap(time.Now())
	for {
		select {
		case <-done:
			return
		case s := <-reload:
			h.mu.Lock()
			h.prefs = s
			h.mu.Unlock()
			h.ad.SetScalingMode(s.Mode)
			h.ad.SetInterlace(s.Interlace)
			log.Printf("settings reloaded")
		case now := <-tick.C:
			h.ad.Update(clock.Lap(now))
			h.refresh()
		}
	}
}

// refresh redraws the braille lines under dirty rows and the status bar.
func (h *Host) refresh() {
	rows := h.panel.TakeDirty()
	h.cells.update(h.panel.Frame(), rows)
	var text string
	if !rows.Empty() {
		text = h.cells.String()
	}
	status := h.statusLine()
	h.app.QueueUpdateDraw(func() {
		if text != "" {
			h.screen.SetText(text)
		}
		h.status.SetText(status)
	})
}

func (h *Host) statusLine() string {
	st := h.ad.State()
	if st != emu.Running {
		if err := h.ad.Err(); err != nil {
			return fmt.Sprintf(" %s: %v  [l] reload  [q] quit", st, err)
		}
		return fmt.Sprintf(" %s  [l] reload  [q] quit", st)
	}
	return fmt.Sprintf(" %s  mode %s  interlace %v  [m] mode  [i] interlace  [r] reset  [,.] crank  [q] quit",
		h.ad.ROMName(), h.ad.Mode(), h.ad.Interlace())
}

func (h *Host) key(ev *tcell.EventKey) *tcell.EventKey {
	if b, ok := keyButton(ev); ok {
		h.keys.Press(b)
		return nil
	}
	if ev.Key() != tcell.KeyRune {
		return ev
	}
	switch ev.Rune() {
	case '.':
		h.keys.Turn(crankDegree)
	case ',':
		h.keys.Turn(-crankDegree)
	case 'm':
		h.mu.Lock()
		h.prefs.Mode = h.prefs.Mode.Next()
		h.mu.Unlock()
		h.save()
	case 'i':
		h.mu.Lock()
		h.prefs.Interlace = !h.prefs.Interlace
		h.mu.Unlock()
		h.save()
	case 'r':
		h.ad.Reset()
	case 'l':
		if h.cfg.ROMPath != "" && h.ad.State() != emu.Running {
			h.ad.Load(h.cfg.ROMPath)
		}
	case 'q':
		h.app.Stop()
	default:
		return ev
	}
	return nil
}

// save applies the current preferences and stores them.
func (h *Host) save() {
	h.mu.Lock()
	p := h.prefs
	h.mu.Unlock()
	h.ad.SetScalingMode(p.Mode)
	h.ad.SetInterlace(p.Interlace)
	if h.cfg.SettingsPath == "" {
		return
	}
	if err := settings.Save(h.cfg.SettingsPath, p); err != nil {
		log.Printf("term: %v", err)
	}
}
