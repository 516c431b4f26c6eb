// Package emu drives an emulation core against the 400x240 panel. The
// Adapter owns the cartridge ROM and save-RAM, feeds the core one frame per
// host refresh, and keeps the wall-clock RTC and save-flush timers.
package emu

import (
	"fmt"
	"log"
	"sync"

	"github.com/FabianRolfMatthiasNoll/gbpanel/internal/core"
	"github.com/FabianRolfMatthiasNoll/gbpanel/internal/display"
	"github.com/FabianRolfMatthiasNoll/gbpanel/internal/input"
	"github.com/FabianRolfMatthiasNoll/gbpanel/internal/render"
	"github.com/FabianRolfMatthiasNoll/gbpanel/internal/romfile"
)

type State int

const (
	Unloaded State = iota
	Loading
	Running
	Failed // last Load was rejected; see Err
)

func (s State) String() string {
	switch s {
	case Unloaded:
		return "unloaded"
	case Loading:
		return "loading"
	case Running:
		return "running"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Adapter connects one core instance to a panel and an input source. All
// methods are safe to call from any goroutine; they serialize on one lock,
// so Unload waits for an Update (and its flush) already in progress.
type Adapter struct {
	mu sync.Mutex

	cfg     Config
	factory core.Factory
	panel   display.Panel
	src     input.Source
	mapper  *input.Mapper

	state    State
	err      error
	romPath  string
	romName  string
	savePath string
	rom      []byte
	sram     []byte
	engine   core.Engine
	renderer render.Renderer

	rtcAcc  int
	saveAcc int
	frame   uint64
	redraw  bool           // next frame clears and repaints the whole panel
	fb      *display.Frame // only set while the core runs a frame
	fault   *core.Fault
	flushes int
}

// New returns an unloaded adapter. src may be nil for a headless run with
// no input.
func New(cfg Config, factory core.Factory, panel display.Panel, src input.Source) *Adapter {
	cfg.Defaults()
	return &Adapter{
		cfg:     cfg,
		factory: factory,
		panel:   panel,
		src:     src,
		mapper:  input.NewMapper(cfg.Crank),
	}
}

// Load replaces any running cartridge with the one at path. The previous
// cartridge is flushed and released first. On failure the adapter holds no
// cartridge and State reports Failed.
func (a *Adapter) Load(path string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.stop()
	a.state = Loading
	a.err = nil

	rom, name, err := romfile.Load(path, romfile.Extensions)
	if err != nil {
		return a.fail(err)
	}
	a.rom, a.romPath, a.romName = rom, path, name

	eng := a.factory()
	if err := eng.Init(bridge{a}); err != nil {
		eng.Close()
		return a.fail(fmt.Errorf("init %s: %w", name, err))
	}
	a.engine = eng
	if f := a.fault; f != nil {
		a.fault = nil
		return a.fail(fmt.Errorf("init %s: %w", name, f))
	}

	a.sram = make([]byte, eng.SaveSize())
	for i := range a.sram {
		a.sram[i] = 0xFF
	}
	a.savePath = SavePath(a.cfg.SaveDir, path)
	if len(a.sram) > 0 {
		if err := readSave(a.savePath, a.sram); err != nil {
			log.Printf("%v; starting with erased save", err)
		}
	}

	a.renderer = render.New(a.cfg.Mode)
	a.rtcAcc, a.saveAcc, a.frame = 0, 0, 0
	a.redraw = true
	a.mapper.Reset(a.crankAngle())
	a.state = Running
	log.Printf("loaded %s (save %d bytes, mode %s)", name, len(a.sram), a.cfg.Mode)
	return nil
}

// Update runs one emulated frame and advances the timers by deltaMs of
// wall-clock time. It does nothing unless a cartridge is running.
func (a *Adapter) Update(deltaMs int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state != Running {
		return
	}

	var b input.Buttons
	if a.src != nil {
		b = a.src.Buttons()
	}
	a.engine.SetJoypad(a.mapper.Sample(b, a.crankAngle()))

	a.fb = a.panel.Frame()
	if a.redraw {
		a.fb.Clear()
	}
	a.engine.RunFrame()
	if a.redraw {
		a.panel.MarkUpdatedRows(0, display.Height-1)
		a.redraw = false
	}
	a.fb = nil
	a.frame++

	if f := a.fault; f != nil {
		a.fault = nil
		log.Printf("%v; unloading %s", f, a.romName)
		a.stop()
		a.err = f
		return
	}

	if deltaMs < 0 {
		deltaMs = 0
	}
	a.rtcAcc += deltaMs
	for a.rtcAcc >= a.cfg.RTCIntervalMs {
		a.rtcAcc -= a.cfg.RTCIntervalMs
		a.engine.TickRTC()
	}
	a.saveAcc += deltaMs
	for a.saveAcc >= a.cfg.SaveIntervalMs {
		a.saveAcc -= a.cfg.SaveIntervalMs
		a.flush()
	}
}

// Unload flushes save-RAM and releases the cartridge. It is safe to call in
// any state.
func (a *Adapter) Unload() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stop()
}

// Reset restarts the core on the same cartridge. Save-RAM is kept.
func (a *Adapter) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state != Running {
		return
	}
	a.engine.Reset()
	a.rtcAcc, a.saveAcc, a.frame = 0, 0, 0
	a.redraw = true
	a.mapper.Reset(a.crankAngle())
}

// SetScalingMode swaps the renderer. The next frame repaints every row.
func (a *Adapter) SetScalingMode(m render.Mode) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cfg.Mode = m
	if a.state == Running {
		a.renderer = render.New(m)
		a.redraw = true
	}
}

func (a *Adapter) SetInterlace(on bool) {
	a.mu.Lock()
	a.cfg.Interlace = on
	a.mu.Unlock()
}

func (a *Adapter) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Err returns why the last Load failed or why the running session was
// aborted. A *core.Fault is returned for fatal core errors.
func (a *Adapter) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.err
}

func (a *Adapter) SavePath() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.savePath
}

// ROMName is the file name the cartridge was read from, archive member
// names included.
func (a *Adapter) ROMName() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.romName
}

func (a *Adapter) Mode() render.Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cfg.Mode
}

func (a *Adapter) Interlace() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cfg.Interlace
}

// stop flushes a running cartridge and releases everything it owns.
func (a *Adapter) stop() {
	if a.state == Running {
		a.flush()
	}
	a.release()
	a.state = Unloaded
}

func (a *Adapter) release() {
	if a.engine != nil {
		a.engine.Close()
	}
	a.engine, a.renderer = nil, nil
	a.rom, a.sram = nil, nil
	a.romPath, a.romName, a.savePath = "", "", ""
	a.fb, a.fault = nil, nil
}

func (a *Adapter) fail(err error) error {
	log.Printf("load: %v", err)
	a.release()
	a.state = Failed
	a.err = err
	return err
}

func (a *Adapter) flush() {
	if len(a.sram) == 0 {
		return
	}
	a.flushes++
	if err := writeSave(a.savePath, a.sram); err != nil {
		log.Printf("%v; will retry", err)
	}
}

func (a *Adapter) crankAngle() float64 {
	if a.src == nil {
		return 0
	}
	return a.src.CrankAngle()
}

// scanline renders one source line while a frame is running.
func (a *Adapter) scanline(px *core.Scanline, line int) {
	if a.fb == nil {
		return
	}
	if a.cfg.Interlace && uint64(line)%2 != a.frame%2 {
		return
	}
	rows := a.renderer.Render(a.fb, px, line)
	if !a.redraw && !rows.Empty() {
		a.panel.MarkUpdatedRows(rows.First, rows.Last)
	}
}

func (a *Adapter) coreError(kind core.ErrorKind, value uint16) {
	if kind.Recoverable() {
		log.Printf("core: %s at $%04X (ignored)", kind, value)
		return
	}
	if a.fault == nil {
		a.fault = &core.Fault{Kind: kind, Value: value}
	}
}

// bridge is the core's view of the adapter. It runs on the goroutine that
// called Load or Update, with the adapter lock already held.
type bridge struct{ a *Adapter }

func (b bridge) ReadROM(addr uint32) byte {
	if int(addr) < len(b.a.rom) {
		return b.a.rom[addr]
	}
	return 0xFF
}

func (b bridge) ReadRAM(addr uint32) byte {
	if int(addr) < len(b.a.sram) {
		return b.a.sram[addr]
	}
	return 0xFF
}

func (b bridge) WriteRAM(addr uint32, v byte) {
	if int(addr) < len(b.a.sram) {
		b.a.sram[addr] = v
	}
}

func (b bridge) Scanline(px *core.Scanline, line int) { b.a.scanline(px, line) }

func (b bridge) Error(kind core.ErrorKind, value uint16) { b.a.coreError(kind, value) }
