package graphics

import "image/color"

// RGB565-safe palette. Values are 8-bit RGBA but chosen so the 5-6-5
// truncation in the panel driver loses nothing.
var (
	Black     = color.RGBA{0x00, 0x00, 0x00, 0xff}
	White     = color.RGBA{0xf8, 0xfc, 0xf8, 0xff}
	Red       = color.RGBA{0xf8, 0x00, 0x00, 0xff}
	Green     = color.RGBA{0x00, 0xfc, 0x00, 0xff}
	Blue      = color.RGBA{0x00, 0x00, 0xf8, 0xff}
	Yellow    = color.RGBA{0xf8, 0xfc, 0x00, 0xff}
	Cyan      = color.RGBA{0x00, 0xfc, 0xf8, 0xff}
	Magenta   = color.RGBA{0xf8, 0x00, 0xf8, 0xff}
	Orange    = color.RGBA{0xf8, 0x80, 0x00, 0xff}
	Purple    = color.RGBA{0x80, 0x00, 0x80, 0xff}
	Pink      = color.RGBA{0xf8, 0x50, 0xf8, 0xff}
	Gray      = color.RGBA{0x80, 0x80, 0x80, 0xff}
	DarkGray  = color.RGBA{0x40, 0x40, 0x40, 0xff}
	LightGray = color.RGBA{0xc0, 0xc0, 0xc0, 0xff}
	Navy      = color.RGBA{0x00, 0x00, 0x80, 0xff}
)

// ToRGB565 packs a color into the panel's native 5-6-5 format.
func ToRGB565(c color.RGBA) uint16 {
	return uint16(c.R&0xf8)<<8 | uint16(c.G&0xfc)<<3 | uint16(c.B)>>3
}

// FromRGB565 unpacks a 5-6-5 value, replicating high bits into low ones
// so full white round-trips to full white.
func FromRGB565(v uint16) color.RGBA {
	r := uint8(v>>11) << 3
	g := uint8(v>>5&0x3f) << 2
	b := uint8(v&0x1f) << 3
	return color.RGBA{r | r>>5, g | g>>6, b | b>>5, 0xff}
}
