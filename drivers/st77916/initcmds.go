package st77916

// Vendor init table per the panel maker's reference sequence. Command
// page F0 selects register banks; the B0..D2 block sets the power and
// voltage rails, E0/E1 the gamma curves. Order matters.
type initCmd struct {
	cmd     byte
	data    []byte
	delayMs uint16
}

var initCmds = []initCmd{
	{0xF0, []byte{0x28}, 0},
	{0xF2, []byte{0x28}, 0},
	{0x73, []byte{0xF0}, 0},
	{0x7C, []byte{0xD1}, 0},
	{0x83, []byte{0xE0}, 0},
	{0x84, []byte{0x61}, 0},
	{0xF2, []byte{0x82}, 0},
	{0xF0, []byte{0x00}, 0},
	{0xF0, []byte{0x01}, 0},
	{0xF1, []byte{0x01}, 0},
	{0xB0, []byte{0x56}, 0},
	{0xB1, []byte{0x4D}, 0},
	{0xB2, []byte{0x24}, 0},
	{0xB4, []byte{0x87}, 0},
	{0xB5, []byte{0x44}, 0},
	{0xB6, []byte{0x8B}, 0},
	{0xB7, []byte{0x40}, 0},
	{0xB8, []byte{0x86}, 0},
	{0xBA, []byte{0x00}, 0},
	{0xBB, []byte{0x08}, 0},
	{0xBC, []byte{0x08}, 0},
	{0xBD, []byte{0x00}, 0},
	{0xC0, []byte{0x80}, 0},
	{0xC1, []byte{0x10}, 0},
	{0xC2, []byte{0x37}, 0},
	{0xC3, []byte{0x80}, 0},
	{0xC4, []byte{0x10}, 0},
	{0xC5, []byte{0x37}, 0},
	{0xC6, []byte{0xA9}, 0},
	{0xC7, []byte{0x41}, 0},
	{0xC8, []byte{0x01}, 0},
	{0xC9, []byte{0xA9}, 0},
	{0xCA, []byte{0x41}, 0},
	{0xCB, []byte{0x01}, 0},
	{0xD0, []byte{0x91}, 0},
	{0xD1, []byte{0x68}, 0},
	{0xD2, []byte{0x68}, 0},
	{0xF5, []byte{0x00, 0xA5}, 0},
	{0xDD, []byte{0x4F}, 0},
	{0xDE, []byte{0x4F}, 0},
	{0xE0, []byte{
		0xF0, 0x0A, 0x10, 0x09, 0x09, 0x36, 0x35, 0x33,
		0x4A, 0x29, 0x15, 0x15, 0x2E, 0x34,
	}, 0},
	{0xE1, []byte{
		0xF0, 0x0A, 0x0F, 0x08, 0x08, 0x05, 0x34, 0x33,
		0x4A, 0x39, 0x15, 0x15, 0x2D, 0x33,
	}, 0},
	{0xF0, []byte{0x10}, 0},
	{0xF3, []byte{0x10}, 0},
	{0xE0, []byte{0x07}, 0},
	{0xE1, []byte{0x00}, 0},
	{0xE2, []byte{0x00}, 0},
	{0xE3, []byte{0x00}, 0},
	{0xE4, []byte{0xE0}, 0},
	{0xE5, []byte{0x06}, 0},
	{0xE6, []byte{0x21}, 0},
	{0xE7, []byte{0x00}, 0},
	{0xE8, []byte{0x05}, 0},
	{0xE9, []byte{0x82}, 0},
	{0xEA, []byte{0xDF}, 0},
	{0xEB, []byte{0x89}, 0},
	{0xEC, []byte{0x20}, 0},
	{0xED, []byte{0x14}, 0},
	{0xEE, []byte{0xFF}, 0},
	{0xEF, []byte{0x00}, 0},
	{0xF8, []byte{0xFF}, 0},
	{0xF9, []byte{0x00}, 0},
	{0xFA, []byte{0x00}, 0},
	{0xFB, []byte{0x30}, 0},
	{0xFC, []byte{0x00}, 0},
	{0xFD, []byte{0x00}, 0},
	{0xFE, []byte{0x00}, 0},
	{0xFF, []byte{0x00}, 0},
	{0xF0, []byte{0x00}, 0},
	{0xF0, []byte{0x01}, 0},
	{0xF1, []byte{0x00}, 0},
	{0xF2, []byte{0x00}, 0},
}
