package main

import (
	"errors"
	"flag"
	"fmt"
	"hash/crc32"
	"log"
	"os"
	"strings"
	"time"

	"github.com/FabianRolfMatthiasNoll/gbpanel/internal/cart"
	"github.com/FabianRolfMatthiasNoll/gbpanel/internal/display"
	"github.com/FabianRolfMatthiasNoll/gbpanel/internal/emu"
	"github.com/FabianRolfMatthiasNoll/gbpanel/internal/render"
	"github.com/FabianRolfMatthiasNoll/gbpanel/internal/romfile"
	"github.com/FabianRolfMatthiasNoll/gbpanel/internal/settings"
	"github.com/FabianRolfMatthiasNoll/gbpanel/internal/term"
	"github.com/FabianRolfMatthiasNoll/gbpanel/internal/testcard"
	"github.com/FabianRolfMatthiasNoll/gbpanel/internal/ui"
)

type CLIFlags struct {
	ROMPath   string
	Config    string // settings file
	SaveDir   string
	Mode      string
	Interlace bool
	Scale     int
	Title     string
	TUI       bool
	Watch     bool

	// headless
	Headless bool
	Frames   int
	DeltaMs  int
	PNGOut   string
	PNGScale int
	Expect   string // expected framebuffer CRC32 hex (e.g., "1a2b3c4d")

	set map[string]bool // flags given on the command line
}

func parseFlags() CLIFlags {
	var f CLIFlags
	flag.StringVar(&f.ROMPath, "rom", "", "path to ROM (.gb, .gbc, or an archive holding one)")
	flag.StringVar(&f.Config, "config", "gbpanel.json", "settings file")
	flag.StringVar(&f.SaveDir, "savedir", "", "directory for .sav files (default: next to the ROM)")
	flag.StringVar(&f.Mode, "mode", "", "scaling mode: natural, fitted, doubled or sliced")
	flag.BoolVar(&f.Interlace, "interlace", true, "render alternate lines each frame")
	flag.IntVar(&f.Scale, "scale", 0, "window scale")
	flag.StringVar(&f.Title, "title", "gbpanel", "window title")
	flag.BoolVar(&f.TUI, "tui", false, "run in the terminal instead of a window")
	flag.BoolVar(&f.Watch, "watch", true, "reload the settings file when it changes")

	// headless options
	flag.BoolVar(&f.Headless, "headless", false, "run without a window")
	flag.IntVar(&f.Frames, "frames", 300, "frames to run in headless mode")
	flag.IntVar(&f.DeltaMs, "delta", 16, "wall-clock ms per headless frame")
	flag.StringVar(&f.PNGOut, "outpng", "", "write last framebuffer to PNG at path")
	flag.IntVar(&f.PNGScale, "pngscale", 1, "PNG upscaling factor")
	flag.StringVar(&f.Expect, "expect", "", "assert framebuffer CRC32 (hex)")
	flag.Parse()

	f.set = make(map[string]bool)
	flag.Visit(func(fl *flag.Flag) { f.set[fl.Name] = true })
	return f
}

// preferences loads the settings file and lets explicit flags win.
func preferences(f CLIFlags) (settings.Settings, error) {
	s, err := settings.Load(f.Config)
	if err != nil {
		return s, err
	}
	if f.set["mode"] {
		m, err := render.ParseMode(f.Mode)
		if err != nil {
			return s, err
		}
		s.Mode = m
	}
	if f.set["interlace"] {
		s.Interlace = f.Interlace
	}
	if f.set["savedir"] {
		s.SaveDir = f.SaveDir
	}
	if f.set["scale"] && f.Scale > 0 {
		s.Scale = f.Scale
	}
	return s, nil
}

type headlessOpts struct {
	Frames   int
	DeltaMs  int
	PNGPath  string
	PNGScale int
	Expect   string
}

func runHeadless(ad *emu.Adapter, panel *display.Buffer, o headlessOpts) error {
	if o.Frames <= 0 {
		o.Frames = 1
	}

	start := time.Now()
	for i := 0; i < o.Frames; i++ {
		ad.Update(o.DeltaMs)
		if ad.State() != emu.Running {
			return fmt.Errorf("stopped after %d frames: %w", i+1, ad.Err())
		}
	}
	dur := time.Since(start)

	fb := panel.Frame()
	crc := crc32.ChecksumIEEE(fb.Pix)
	fps := float64(o.Frames) / dur.Seconds()

	log.Printf("headless: frames=%d elapsed=%s fps=%.2f fb_crc32=%08x",
		o.Frames, dur.Truncate(time.Millisecond), fps, crc)

	if o.PNGPath != "" {
		if err := fb.WritePNG(o.PNGPath, o.PNGScale); err != nil {
			return fmt.Errorf("write PNG: %w", err)
		}
		log.Printf("wrote %s", o.PNGPath)
	}

	if o.Expect != "" {
		// normalize expected hex (allow with/without 0x, upper/lowercase)
		want := strings.TrimPrefix(strings.ToLower(o.Expect), "0x")
		got := fmt.Sprintf("%08x", crc)
		if got != want {
			return fmt.Errorf("checksum mismatch: got %s, want %s", got, want)
		}
	}
	return nil
}

func logHeader(path string) {
	rom, name, err := romfile.Load(path, romfile.Extensions)
	if err != nil {
		return
	}
	if h, err := cart.ParseHeader(rom); err == nil {
		log.Printf("ROM: %s %q type=%s banks=%d ram=%dB", name, h.Title, h.Controller, h.ROMBanks, h.RAMSizeBytes)
	}
}

func main() {
	f := parseFlags()
	prefs, err := preferences(f)
	if err != nil {
		log.Fatalf("settings: %v", err)
	}

	if f.ROMPath != "" {
		logHeader(f.ROMPath)
	}

	panel := display.NewBuffer()
	cfg := prefs.EmuConfig()

	if f.Headless {
		if f.ROMPath == "" {
			log.Fatal("-rom is required with -headless")
		}
		ad := emu.New(cfg, testcard.New, panel, nil)
		if err := ad.Load(f.ROMPath); err != nil {
			log.Fatalf("load: %v", err)
		}
		err := runHeadless(ad, panel, headlessOpts{
			Frames:   f.Frames,
			DeltaMs:  f.DeltaMs,
			PNGPath:  f.PNGOut,
			PNGScale: f.PNGScale,
			Expect:   f.Expect,
		})
		ad.Unload()
		if err != nil {
			log.Fatal(err)
		}
		return
	}

	var watch *settings.Watcher
	if f.Watch && f.Config != "" {
		if _, err := os.Stat(f.Config); errors.Is(err, os.ErrNotExist) {
			if err := settings.Save(f.Config, prefs); err != nil {
				log.Printf("settings: %v", err)
			}
		}
		if watch, err = settings.Watch(f.Config); err != nil {
			log.Printf("settings: not watching %s: %v", f.Config, err)
			watch = nil
		} else {
			defer watch.Close()
		}
	}

	if f.TUI {
		keys := term.NewKeys()
		ad := emu.New(cfg, testcard.New, panel, keys)
		if f.ROMPath != "" {
			ad.Load(f.ROMPath)
		}
		host := term.New(term.Config{SettingsPath: f.Config, ROMPath: f.ROMPath}, ad, panel, keys, prefs, watch)
		if err := host.Run(); err != nil {
			log.Fatal(err)
		}
		return
	}

	keys := ui.NewKeys()
	ad := emu.New(cfg, testcard.New, panel, keys)
	if f.ROMPath != "" {
		ad.Load(f.ROMPath)
	}
	app := ui.NewApp(ui.Config{
		Title:        f.Title,
		Scale:        prefs.Scale,
		SettingsPath: f.Config,
		ROMPath:      f.ROMPath,
	}, ad, panel, keys, prefs, watch)
	if err := app.Run(); err != nil {
		log.Fatal(err)
	}
}
