// Package ui draws the parameter panel and the side display around the board.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// Theme holds UI styling constants.
type Theme struct {
	Background     rl.Color
	PanelBg        rl.Color
	PanelBorder    rl.Color
	SectionHeader  rl.Color
	LabelColor     rl.Color
	ValueColor     rl.Color
	BarBg          rl.Color
	BarFillLow     rl.Color
	BarFillMedium  rl.Color
	BarFillHigh    rl.Color
	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	BarHeight      int32
	FontSize       int32
	HeaderFontSize int32
	TitleFontSize  int32
}

// DefaultTheme returns the default UI theme: dark text on a light board.
func DefaultTheme() Theme {
	return Theme{
		Background:     rl.RayWhite,
		PanelBg:        rl.Color{R: 245, G: 245, B: 245, A: 255},
		PanelBorder:    rl.Black,
		SectionHeader:  rl.DarkBlue,
		LabelColor:     rl.Black,
		ValueColor:     rl.DarkGray,
		BarBg:          rl.Color{R: 220, G: 220, B: 220, A: 255},
		BarFillLow:     rl.Color{R: 100, G: 200, B: 100, A: 255},
		BarFillMedium:  rl.Color{R: 220, G: 170, B: 60, A: 255},
		BarFillHigh:    rl.Color{R: 210, G: 70, B: 70, A: 255},
		Padding:        10,
		LineHeight:     40,
		LabelWidth:     220,
		BarHeight:      12,
		FontSize:       20,
		HeaderFontSize: 18,
		TitleFontSize:  36,
	}
}

// headerStep is the vertical space a section header takes.
func (t Theme) headerStep() int32 {
	return t.HeaderFontSize + 6
}
