package color

import (
	"fmt"
	"image/color"
)

// Color indexes a small fixed palette. Curves are drawn in the cycle
// Red, Green, Blue, Cyan, Magenta, Orange, Black, one colour per input group,
// on a White background.
type Color byte

const (
	White Color = iota
	Black
	Gray
	Red
	Green
	Blue
	Magenta
	Cyan
	Orange
)

var Palette = color.Palette{
	color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, // White
	color.RGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xff}, // Black
	color.RGBA{R: 0x7f, G: 0x7f, B: 0x7f, A: 0xff}, // Gray
	color.RGBA{R: 0xff, G: 0x00, B: 0x00, A: 0xff}, // Red
	color.RGBA{R: 0x00, G: 0xcc, B: 0x00, A: 0xff}, // Green
	color.RGBA{R: 0x00, G: 0x00, B: 0xff, A: 0xff}, // Blue
	color.RGBA{R: 0xcc, G: 0x00, B: 0xcc, A: 0xff}, // Magenta
	color.RGBA{R: 0x00, G: 0xbb, B: 0xdd, A: 0xff}, // Cyan
	color.RGBA{R: 0xff, G: 0xdd, B: 0x00, A: 0xff}, // Orange
}

var cycle = []Color{Red, Green, Blue, Cyan, Magenta, Orange, Black}

// ForGroup returns the drawing colour for group i. Negative groups are
// folded into the cycle like positive ones.
func ForGroup(i int) Color {
	n := len(cycle)
	return cycle[((i%n)+n)%n]
}

func ColorToImageColor(c Color) color.Color {
	if int(c) >= len(Palette) {
		return Palette[White]
	}
	return Palette[c]
}

// Hex returns the colour as an SVG hex triplet such as "#ff0000".
func (c Color) Hex() string {
	rgba := ColorToImageColor(c).(color.RGBA)
	return fmt.Sprintf("#%02x%02x%02x", rgba.R, rgba.G, rgba.B)
}
