package ppu

// VRAMReader reads tile data and maps at their bus addresses
// (0x8000-0x9FFF).
type VRAMReader interface {
	Read(addr uint16) byte
}

// tileRowAddr is the address of row fineY of tile n. Unsigned addressing
// counts tiles up from 0x8000; signed addressing counts from 0x9000 and
// reaches back to 0x8800 for n >= 0x80.
func tileRowAddr(n byte, unsigned bool, fineY byte) uint16 {
	row := uint16(fineY&7) * 2
	if unsigned {
		return 0x8000 + uint16(n)*16 + row
	}
	return uint16(0x9000+int(int8(n))*16) + row
}

// decodeRow merges the two bitplanes of a tile row into colour indices,
// leftmost pixel first.
func decodeRow(lo, hi byte) (px [8]byte) {
	for i := range px {
		px[i] = (hi>>(7-i)&1)<<1 | lo>>(7-i)&1
	}
	return px
}

// shifter queues decoded pixels on their way out to the line. It holds two
// tile rows.
type shifter struct {
	px [16]byte
	n  int
}

func (s *shifter) len() int { return s.n }

// load appends a tile row. It refuses when a full row no longer fits.
func (s *shifter) load(row [8]byte) bool {
	if s.n > len(s.px)-len(row) {
		return false
	}
	copy(s.px[s.n:], row[:])
	s.n += len(row)
	return true
}

func (s *shifter) shift() (byte, bool) {
	if s.n == 0 {
		return 0, false
	}
	v := s.px[0]
	copy(s.px[:], s.px[1:s.n])
	s.n--
	return v, true
}

// fetcher walks one row of a tile map left to right, wrapping after 32
// entries.
type fetcher struct {
	mem      VRAMReader
	rowBase  uint16 // map address of column 0
	col      byte
	fineY    byte
	unsigned bool
}

func newFetcher(mem VRAMReader, bg BG, mapY, col, fineY byte) *fetcher {
	return &fetcher{
		mem:      mem,
		rowBase:  bg.MapBase + uint16(mapY&31)*32,
		col:      col & 31,
		fineY:    fineY & 7,
		unsigned: bg.TileData8000,
	}
}

// next decodes the tile row under the current column and steps right.
func (f *fetcher) next() [8]byte {
	n := f.mem.Read(f.rowBase + uint16(f.col))
	addr := tileRowAddr(n, f.unsigned, f.fineY)
	f.col = (f.col + 1) & 31
	return decodeRow(f.mem.Read(addr), f.mem.Read(addr+1))
}
