package emu

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/FabianRolfMatthiasNoll/gbpanel/internal/romfile"
)

// SavePath returns <dir>/<rom base name>.sav. An empty dir keeps the save
// next to the ROM.
func SavePath(dir, romPath string) string {
	if dir == "" {
		dir = filepath.Dir(romPath)
	}
	return filepath.Join(dir, romfile.BaseName(romPath)+".sav")
}

// readSave fills buf from path. A missing file leaves buf untouched.
func readSave(path string, buf []byte) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read save: %w", err)
	}
	if len(data) != len(buf) {
		log.Printf("save %s is %d bytes, cartridge has %d", path, len(data), len(buf))
	}
	copy(buf, data)
	return nil
}

// writeSave replaces path atomically so a crash mid-write keeps the last
// good save.
func writeSave(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create save dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write save: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}
