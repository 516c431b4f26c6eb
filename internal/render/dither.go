package render

// ditherTable maps a 2-bit shade and a (row mod 4) position to a 4-pixel
// pattern, leftmost pixel in bit 3. Shade 0 is lightest and set bits are
// white. The pattern depends only on panel position, so flat areas do not
// flicker from frame to frame.
var ditherTable = [4][4]uint8{
	{0xF, 0xF, 0xF, 0xF},
	{0x5, 0xF, 0x5, 0xF},
	{0xA, 0x5, 0xA, 0x5},
	{0x0, 0x0, 0x0, 0x0},
}

// ditherBit returns the output bit for shade c at panel position (x, y).
func ditherBit(c uint8, x, y int) uint32 {
	return uint32(ditherTable[c&3][y&3]>>(3-uint(x&3))) & 1
}
