package document

import (
	"fmt"

	"github.com/mattn/go-runewidth"
)

// Palette colors series, bars and legend swatches in order.
type Palette []Color

// At returns the color for index i, cycling through the palette.
func (p Palette) At(i int) Color {
	if len(p) == 0 {
		return colorPrimary
	}
	if i < 0 {
		i = -i
	}
	return p[i%len(p)]
}

var (
	colorPrimary   = Color{30, 58, 95}
	colorText      = Color{44, 62, 80}
	colorMuted     = Color{127, 140, 141}
	colorGrid      = Color{220, 220, 220}
	colorPanel     = Color{248, 249, 250}
	colorHeaderRow = Color{226, 232, 240}
	colorAltRow    = Color{241, 245, 249}
	colorUp        = Color{46, 160, 67}
	colorDown      = Color{207, 34, 46}
	colorWhite     = Color{255, 255, 255}
)

// Style carries per-render presentation settings. Build it with
// DefaultStyle for every render; it is never shared between renders.
type Style struct {
	Palette   Palette
	PieWedges bool
	PageSize  PageSize
}

// DefaultStyle returns a freshly allocated style.
func DefaultStyle() Style {
	return Style{
		Palette: Palette{
			{52, 152, 219},
			{155, 89, 182},
			{241, 196, 15},
			{46, 204, 113},
			{230, 126, 34},
			{26, 188, 156},
			{231, 76, 60},
			{52, 73, 94},
		},
		PageSize: PageA4,
	}
}

// FormatCount renders a count for labels, abbreviating values above 1000.
func FormatCount(v float64) string {
	v = clean(v)
	switch {
	case v >= 1_000_000:
		return fmt.Sprintf("%.1fM", v/1_000_000)
	case v > 1000:
		return fmt.Sprintf("%.1fk", v/1000)
	default:
		return fmt.Sprintf("%.0f", v)
	}
}

// FormatChange renders a signed percentage change.
func FormatChange(pct float64) string {
	pct = clean(pct)
	if pct >= 0 {
		return fmt.Sprintf("+%.1f%%", pct)
	}
	return fmt.Sprintf("%.1f%%", pct)
}

// fitText shortens s until the canvas reports it fits within width.
func fitText(c Canvas, s string, width float64) string {
	s = Sanitize(s)
	if width <= 0 {
		return ""
	}
	if c.TextWidth(s) <= width {
		return s
	}
	for n := runewidth.StringWidth(s) - 1; n > 0; n-- {
		t := runewidth.Truncate(s, n, "..")
		if c.TextWidth(t) <= width {
			return t
		}
	}
	return ""
}
