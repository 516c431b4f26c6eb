// Package settings persists the user's display and input preferences as
// JSON and reloads them when the file changes on disk.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/FabianRolfMatthiasNoll/gbpanel/internal/emu"
	"github.com/FabianRolfMatthiasNoll/gbpanel/internal/input"
	"github.com/FabianRolfMatthiasNoll/gbpanel/internal/render"
)

type Settings struct {
	Mode           render.Mode `json:"mode"`
	Interlace      bool        `json:"interlace"`
	SaveDir        string      `json:"save_dir,omitempty"`
	CrankThreshold float64     `json:"crank_threshold"`
	Scale          int         `json:"scale"` // window pixels per panel pixel
}

// Default starts on the fitted mode with interlacing on.
func Default() Settings {
	return Settings{Mode: render.Fitted, Interlace: true, CrankThreshold: 3, Scale: 2}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Settings, error) {
	s := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("read settings: %w", err)
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return Default(), fmt.Errorf("parse settings %s: %w", path, err)
	}
	s.fix()
	return s, nil
}

// Save writes s to a temp file next to path and renames it into place.
func Save(path string, s Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("commit settings: %w", err)
	}
	return nil
}

// EmuConfig maps the stored preferences onto an adapter config.
func (s Settings) EmuConfig() emu.Config {
	cfg := emu.Config{
		SaveDir:   s.SaveDir,
		Mode:      s.Mode,
		Interlace: s.Interlace,
		Crank:     input.CrankConfig{Threshold: s.CrankThreshold},
	}
	cfg.Defaults()
	return cfg
}

func (s *Settings) fix() {
	if s.CrankThreshold <= 0 {
		s.CrankThreshold = 3
	}
	if s.Scale < 1 {
		s.Scale = 1
	}
	if s.Scale > 6 {
		s.Scale = 6
	}
}
