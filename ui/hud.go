package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/contagion/components"
	"github.com/pthm-cable/contagion/game"
	"github.com/pthm-cable/contagion/renderer"
)

// keyOrder lists the color key entries top to bottom.
var keyOrder = []struct {
	status  components.Status
	caption string
}{
	{components.StatusContagious, "INFECTED, CONTAGIOUS"},
	{components.StatusIncubating, "INFECTED, NOT CONTAGIOUS"},
	{components.StatusSusceptible, "HEALTHY"},
	{components.StatusImmune, "IMMUNE"},
}

// Sidebar shows the run parameters, live counts, and the color key next to
// the board.
type Sidebar struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewSidebar creates a sidebar at the given position.
func NewSidebar(x, y, width int32) *Sidebar {
	return &Sidebar{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// countsLineHeight is the step between the two small count rows.
const countsLineHeight = 20

// contentHeight is the height of everything Draw lays out.
func (s *Sidebar) contentHeight() int32 {
	t := s.renderer.Theme
	return 2*t.headerStep() + 6*t.LineHeight + 2*countsLineHeight + int32(len(keyOrder))*swatchStep
}

// Panel returns the sidebar background rectangle.
func (s *Sidebar) Panel() rl.Rectangle {
	pad := s.renderer.Theme.Padding
	return rl.Rectangle{
		X:      float32(s.x - pad),
		Y:      float32(s.y - pad),
		Width:  float32(s.width + 2*pad),
		Height: float32(s.contentHeight() + 2*pad),
	}
}

// Draw renders the sidebar for one frame.
func (s *Sidebar) Draw(d game.Display) {
	r := s.renderer
	x, y := s.x, s.y

	p := s.Panel()
	r.DrawPanel(int32(p.X), int32(p.Y), int32(p.Width), int32(p.Height))

	y = r.DrawSectionHeader(x, y, "PARAMETERS")
	y = r.DrawBar(x, y, "Infected", float32(d.InfectionRate), s.width)
	y = r.DrawLabelValue(x, y, "Population Size", fmt.Sprint(d.Population))
	y = r.DrawLabelValue(x, y, "Vaccination Rate", fmt.Sprintf("%.1f%%", d.Params.VaccinationRate))
	y = r.DrawLabelValue(x, y, "Vaccine Efficacy", fmt.Sprintf("%.1f%%", d.Params.VaccineEfficacy))
	y = r.DrawLabelValue(x, y, "Transmission Rate", fmt.Sprintf("%.1f%%", d.Params.TransmissionRate))
	y = r.DrawLabelValue(x, y, "Immunity Rate", fmt.Sprintf("%.1f%%", d.Params.ImmunityRate))

	small := r.Theme.HeaderFontSize - 4
	rl.DrawText(fmt.Sprintf("Healthy %d  Infected %d", d.Healthy, d.Infected), x, y, small, r.Theme.ValueColor)
	y += countsLineHeight
	rl.DrawText(fmt.Sprintf("Immune %d  Deaths %d", d.Immune, d.Deaths), x, y, small, r.Theme.ValueColor)
	y += countsLineHeight

	y = r.DrawSectionHeader(x, y, "KEY")
	s.DrawKey(x, y)
}

// DrawKey draws the status color key.
func (s *Sidebar) DrawKey(x, y int32) {
	for _, k := range keyOrder {
		y = s.renderer.DrawSwatch(x, y, renderer.StatusColors[k.status], k.caption)
	}
}

// DrawInstructions draws the start page shown while parameters are set.
func DrawInstructions() {
	t := DefaultTheme()

	rl.DrawText("EPIDEMIC SIMULATION", 63, 50, t.TitleFontSize, rl.Blue)

	rl.DrawRectangleLines(70, 100, 385, 380, rl.Black)
	rl.DrawLine(70, 220, 455, 220, rl.Black)
	rl.DrawLine(70, 370, 455, 370, rl.Black)

	rl.DrawText("USE THE CONTROLS TO SET\nSIMULATION PARAMETERS", 75, 105, t.FontSize, rl.Black)
	rl.DrawText("PRESS START TO BEGIN", 75, 180, t.FontSize, rl.Black)
	rl.DrawText("THE SPREAD OF A CONTAGIOUS\nDISEASE THROUGH A POPULATION\nWITHOUT QUARANTINE OR\nSOCIAL DISTANCING", 75, 230, t.FontSize, rl.Black)

	help := []string{
		"Infection Rate: share of the population infected at start.",
		"Population Size: number of people in the population.",
		"Vaccination Rate: percentage of the population vaccinated.",
		"Vaccine Efficacy: chance the vaccine blocks an infection.",
		"Transmission Rate: chance of infection per contact.",
		"Immunity Rate: chance of immunity after recovery.",
	}
	for i, line := range help {
		rl.DrawText(line, 75, 375+int32(i)*17, 10, rl.Black)
	}
}
