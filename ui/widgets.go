package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Renderer handles all UI drawing with consistent styling.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a panel background with border.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// DrawSectionHeader draws a section header and returns the new Y position.
func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	return y + r.Theme.headerStep()
}

// DrawLabelValue draws "label: value" and returns the new Y position.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	text := label + ": " + value
	rl.DrawText(text, x, y, r.Theme.FontSize, r.Theme.LabelColor)
	return y + r.Theme.LineHeight
}

// DrawBar draws a progress bar for [0, 1] values, shaded by level.
func (r *Renderer) DrawBar(x, y int32, label string, value float32, width int32) int32 {
	value = min(max(value, 0), 1)

	barX := x + r.Theme.LabelWidth
	barWidth := width - r.Theme.LabelWidth - 60

	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawRectangle(barX, y+4, barWidth, r.Theme.BarHeight, r.Theme.BarBg)

	fill := r.Theme.BarFillLow
	switch {
	case value >= 0.6:
		fill = r.Theme.BarFillHigh
	case value >= 0.3:
		fill = r.Theme.BarFillMedium
	}
	rl.DrawRectangle(barX, y+4, int32(float32(barWidth)*value), r.Theme.BarHeight, fill)

	rl.DrawText(fmt.Sprintf("%.0f%%", value*100), barX+barWidth+5, y, r.Theme.FontSize, r.Theme.ValueColor)

	return y + r.Theme.LineHeight
}

// swatchStep is the vertical step of one key entry.
const swatchStep = 30

// DrawSwatch draws a bordered color square followed by a caption.
func (r *Renderer) DrawSwatch(x, y int32, color rl.Color, caption string) int32 {
	rl.DrawRectangle(x, y, 20, 20, color)
	rl.DrawRectangleLines(x, y, 20, 20, r.Theme.PanelBorder)
	rl.DrawText(caption, x+28, y+1, r.Theme.HeaderFontSize, r.Theme.LabelColor)
	return y + swatchStep
}
