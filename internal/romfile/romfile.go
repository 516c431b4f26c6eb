// Package romfile reads cartridge images from disk. Plain files are read
// as-is; zip, gzip, tar.gz, 7z and rar archives are opened and the first
// entry with a cartridge extension is extracted.
package romfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// MaxSize bounds what a single cartridge image may decompress to.
const MaxSize = 8 << 20

// Extensions accepted for Game Boy cartridge images.
var Extensions = []string{".gb", ".gbc"}

var (
	ErrNoROM       = errors.New("no cartridge image in archive")
	ErrUnsupported = errors.New("unsupported file format")
	ErrTooLarge    = errors.New("cartridge image too large")
)

type format int

const (
	formatUnknown format = iota
	formatRaw
	formatZip
	formatGzip
	format7z
	formatRar
)

var magics = []struct {
	prefix []byte
	f      format
}{
	{[]byte("PK\x03\x04"), formatZip},
	{[]byte("PK\x05\x06"), formatZip},
	{[]byte("Rar!"), formatRar},
	{[]byte{0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C}, format7z},
	{[]byte{0x1F, 0x8B}, formatGzip},
}

// Load returns the cartridge bytes found at path together with the name of
// the entry they came from.
func Load(path string, exts []string) ([]byte, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("open rom: %w", err)
	}
	defer f.Close()

	head := make([]byte, 8)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, "", fmt.Errorf("read rom header: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, "", fmt.Errorf("seek rom: %w", err)
	}

	switch detect(head[:n], path, exts) {
	case formatRaw:
		data, err := readLimited(f)
		if err != nil {
			return nil, "", fmt.Errorf("read rom: %w", err)
		}
		return data, filepath.Base(path), nil
	case formatZip:
		return fromZip(path, exts)
	case formatGzip:
		return fromGzip(f, path, exts)
	case format7z:
		return from7z(path, exts)
	case formatRar:
		return fromRar(path, exts)
	}
	return nil, "", fmt.Errorf("%w: %s", ErrUnsupported, path)
}

// BaseName strips the directory and any archive or cartridge suffixes, so
// "roms/Tetris.gb.zip" becomes "Tetris".
func BaseName(path string) string {
	name := filepath.Base(path)
	for {
		ext := strings.ToLower(filepath.Ext(name))
		switch ext {
		case ".zip", ".gz", ".tgz", ".tar", ".7z", ".rar", ".gb", ".gbc":
			name = name[:len(name)-len(ext)]
			continue
		}
		return name
	}
}

func detect(head []byte, path string, exts []string) format {
	for _, m := range magics {
		if bytes.HasPrefix(head, m.prefix) {
			return m.f
		}
	}
	lower := strings.ToLower(path)
	switch filepath.Ext(lower) {
	case ".zip":
		return formatZip
	case ".gz", ".tgz":
		return formatGzip
	case ".7z":
		return format7z
	case ".rar":
		return formatRar
	}
	if hasExt(lower, exts) {
		return formatRaw
	}
	return formatUnknown
}

func hasExt(name string, exts []string) bool {
	lower := strings.ToLower(name)
	for _, ext := range exts {
		if strings.HasSuffix(lower, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}

func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxSize {
		return nil, ErrTooLarge
	}
	return data, nil
}
