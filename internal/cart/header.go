package cart

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
)

const (
	headerStart = 0x0100
	headerEnd   = 0x014F

	// HeaderSize is the number of ROM bytes ParseHeader needs.
	HeaderSize = headerEnd + 1
)

var (
	ErrShortROM    = errors.New("ROM too small to contain header")
	ErrBadChecksum = errors.New("header checksum mismatch")
	ErrUnsupported = errors.New("unsupported cartridge type")
)

var nintendoLogo = [48]byte{
	0xCE, 0xED, 0x66, 0x66, 0xCC, 0x0D, 0x00, 0x0B, 0x03, 0x73, 0x00, 0x83, 0x00, 0x0C, 0x00, 0x0D,
	0x00, 0x08, 0x11, 0x1F, 0x88, 0x89, 0x00, 0x0E, 0xDC, 0xCC, 0x6E, 0xE6, 0xDD, 0xDD, 0xD9, 0x99,
	0xBB, 0xBB, 0x67, 0x63, 0x6E, 0x0E, 0xEC, 0xCC, 0xDD, 0xDC, 0x99, 0x9F, 0xBB, 0xB9, 0x33, 0x3E,
}

// Controller identifies the memory bank controller on the cartridge.
type Controller int

const (
	ControllerNone Controller = iota
	ControllerMBC1
	ControllerMBC2
	ControllerMBC3
	ControllerMBC5
	ControllerOther
)

func (c Controller) String() string {
	switch c {
	case ControllerNone:
		return "ROM ONLY"
	case ControllerMBC1:
		return "MBC1"
	case ControllerMBC2:
		return "MBC2"
	case ControllerMBC3:
		return "MBC3"
	case ControllerMBC5:
		return "MBC5"
	default:
		return "Other/unknown"
	}
}

type Header struct {
	Title          string // trimmed ASCII
	CGBFlag        byte   // 0x0143
	CartType       byte   // 0x0147
	ROMSizeCode    byte   // 0x0148
	RAMSizeCode    byte   // 0x0149
	HeaderChecksum byte   // 0x014D
	GlobalChecksum uint16 // 0x014E-0x014F

	Controller   Controller
	Battery      bool
	RTC          bool
	ROMSizeBytes int
	ROMBanks     int
	RAMSizeBytes int
	LogoOK       bool
	ChecksumOK   bool
}

// ParseHeader decodes the cartridge header. It does not reject bad
// checksums; see Validate.
func ParseHeader(rom []byte) (*Header, error) {
	if len(rom) < HeaderSize {
		return nil, ErrShortROM
	}

	// Title region is 0x0134-0x0143, but the last byte doubles as the CGB flag.
	title := string(rom[0x0134:0x0144])
	if i := strings.IndexByte(title, 0); i >= 0 {
		title = title[:i]
	}

	h := &Header{
		Title:          strings.TrimSpace(title),
		CGBFlag:        rom[0x0143],
		CartType:       rom[0x0147],
		ROMSizeCode:    rom[0x0148],
		RAMSizeCode:    rom[0x0149],
		HeaderChecksum: rom[0x014D],
		GlobalChecksum: binary.BigEndian.Uint16(rom[0x014E:0x0150]),
		LogoOK:         [48]byte(rom[0x0104:0x0134]) == nintendoLogo,
		ChecksumOK:     headerChecksum(rom) == rom[0x014D],
	}
	if h.CGBFlag&0x80 != 0 {
		// CGB titles are at most 15 characters.
		h.Title = strings.TrimSpace(strings.TrimRight(string(rom[0x0134:0x0143]), "\x00"))
	}
	h.ROMSizeBytes, h.ROMBanks = decodeROMSize(h.ROMSizeCode)
	h.RAMSizeBytes = decodeRAMSize(h.RAMSizeCode)
	h.Controller, h.Battery, h.RTC = decodeCartType(h.CartType)
	if h.Controller == ControllerMBC2 {
		h.RAMSizeBytes = 512 // built in, 4 bits per byte
	}
	return h, nil
}

// Validate rejects headers an emulation core cannot run.
func (h *Header) Validate() error {
	if !h.ChecksumOK {
		return fmt.Errorf("%w: stored %#02x", ErrBadChecksum, h.HeaderChecksum)
	}
	switch h.Controller {
	case ControllerNone, ControllerMBC1, ControllerMBC3, ControllerMBC5:
		return nil
	}
	return fmt.Errorf("%w: type %#02x (%s)", ErrUnsupported, h.CartType, h.Controller)
}

// SaveSize is the number of bytes of battery-backed RAM to persist; zero
// when the cartridge has no battery.
func (h *Header) SaveSize() int {
	if !h.Battery {
		return 0
	}
	return h.RAMSizeBytes
}

func headerChecksum(rom []byte) byte {
	var sum byte
	for addr := 0x0134; addr <= 0x014C; addr++ {
		sum = sum - rom[addr] - 1
	}
	return sum
}

func decodeROMSize(code byte) (size, banks int) {
	if code <= 0x08 {
		banks = 2 << code
		return banks * 16 * 1024, banks
	}
	switch code {
	case 0x52:
		return 1152 * 1024, 72
	case 0x53:
		return 1280 * 1024, 80
	case 0x54:
		return 1536 * 1024, 96
	default:
		return 0, 0
	}
}

func decodeRAMSize(code byte) int {
	switch code {
	case 0x02:
		return 8 * 1024
	case 0x03:
		return 32 * 1024
	case 0x04:
		return 128 * 1024
	case 0x05:
		return 64 * 1024
	default:
		return 0
	}
}

func decodeCartType(code byte) (c Controller, battery, rtc bool) {
	switch code {
	case 0x00, 0x08:
		return ControllerNone, false, false
	case 0x09:
		return ControllerNone, true, false
	case 0x01, 0x02:
		return ControllerMBC1, false, false
	case 0x03:
		return ControllerMBC1, true, false
	case 0x05:
		return ControllerMBC2, false, false
	case 0x06:
		return ControllerMBC2, true, false
	case 0x0F, 0x10:
		return ControllerMBC3, true, true
	case 0x11, 0x12:
		return ControllerMBC3, false, false
	case 0x13:
		return ControllerMBC3, true, false
	case 0x19, 0x1A, 0x1C, 0x1D:
		return ControllerMBC5, false, false
	case 0x1B, 0x1E:
		return ControllerMBC5, true, false
	default:
		return ControllerOther, false, false
	}
}
