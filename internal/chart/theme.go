package chart

import (
	"fmt"
	"image/color"
	"strings"
)

// Theme is the palette a chart is drawn with. It is passed to the renderer
// explicitly; there is no process-wide theme.
type Theme struct {
	Name       string
	Background color.Color
	Foreground color.Color
	Grid       color.Color
	// Palette colours successive series; Yes/No/Other answers use the first three.
	Palette []color.Color
}

func rgb(hex uint32) color.RGBA {
	return color.RGBA{R: uint8(hex >> 16), G: uint8(hex >> 8), B: uint8(hex), A: 0xff}
}

var (
	Light = Theme{
		Name:       "light",
		Background: rgb(0xffffff),
		Foreground: rgb(0x1f2937),
		Grid:       rgb(0xe5e7eb),
		Palette:    []color.Color{rgb(0x0099ff), rgb(0xe66225), rgb(0x6c757d), rgb(0x2ca02c), rgb(0x9467bd), rgb(0x17becf)},
	}
	Dark = Theme{
		Name:       "dark",
		Background: rgb(0x0e1117),
		Foreground: rgb(0xfafafa),
		Grid:       rgb(0x30363d),
		Palette:    []color.Color{rgb(0x33adff), rgb(0xff7f3f), rgb(0xadb5bd), rgb(0x5cd65c), rgb(0xc39bd3), rgb(0x48d1e0)},
	}
)

// ThemeByName returns the light or dark theme.
func ThemeByName(name string) (Theme, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "light":
		return Light, nil
	case "dark":
		return Dark, nil
	}
	return Theme{}, fmt.Errorf("unknown theme %q (use light or dark)", name)
}

// Color returns the i-th palette colour, cycling when there are more series than colours.
func (t Theme) Color(i int) color.Color {
	if len(t.Palette) == 0 {
		return t.Foreground
	}
	return t.Palette[i%len(t.Palette)]
}
