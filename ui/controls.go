package ui

import (
	"fmt"
	"math"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/contagion/config"
)

// Slider describes one adjustable parameter.
type Slider struct {
	Label string
	Min   float64
	Max   float64
	Step  float64 // values snap to multiples of Step
	Unit  string  // shown after the value

	get func(*config.Params) float64
	set func(*config.Params, float64)
}

// Snap clamps v to [Min, Max] and rounds it to the nearest Step.
func (s Slider) Snap(v float64) float64 {
	if s.Step > 0 {
		v = math.Round(v/s.Step) * s.Step
	}
	return min(max(v, s.Min), s.Max)
}

// Format renders the current value the way the panel shows it.
func (s Slider) Format(v float64) string {
	switch {
	case s.Step >= 1:
		return fmt.Sprintf("%.0f%s", v, s.Unit)
	case s.Step >= 0.1:
		return fmt.Sprintf("%.1f%s", v, s.Unit)
	default:
		return fmt.Sprintf("%.2f%s", v, s.Unit)
	}
}

// Sliders returns the parameter sliders in panel order.
func Sliders() []Slider {
	return []Slider{
		{
			Label: "Infection Rate", Min: 0, Max: 1, Step: 0.01,
			get: func(p *config.Params) float64 { return p.InfectionRate },
			set: func(p *config.Params, v float64) { p.InfectionRate = v },
		},
		{
			Label: "Population Size", Min: 0, Max: config.MaxPopulation, Step: 1,
			get: func(p *config.Params) float64 { return float64(p.PopulationSize) },
			set: func(p *config.Params, v float64) { p.PopulationSize = int(v) },
		},
		{
			Label: "Vaccination Rate", Min: 0, Max: 100, Step: 0.1, Unit: "%",
			get: func(p *config.Params) float64 { return p.VaccinationRate },
			set: func(p *config.Params, v float64) { p.VaccinationRate = v },
		},
		{
			Label: "Vaccine Efficacy", Min: 0, Max: 100, Step: 0.1, Unit: "%",
			get: func(p *config.Params) float64 { return p.VaccineEfficacy },
			set: func(p *config.Params, v float64) { p.VaccineEfficacy = v },
		},
		{
			Label: "Transmission Rate", Min: 0, Max: 100, Step: 0.1, Unit: "%",
			get: func(p *config.Params) float64 { return p.TransmissionRate },
			set: func(p *config.Params, v float64) { p.TransmissionRate = v },
		},
		{
			Label: "Immunity Rate", Min: 0, Max: 100, Step: 0.1, Unit: "%",
			get: func(p *config.Params) float64 { return p.ImmunityRate },
			set: func(p *config.Params, v float64) { p.ImmunityRate = v },
		},
	}
}

// Apply snaps v and stores it in p.
func (s Slider) Apply(p *config.Params, v float64) {
	s.set(p, s.Snap(v))
}

// Value reads the slider's parameter from p.
func (s Slider) Value(p *config.Params) float64 {
	return s.get(p)
}

// ControlsPanel lets the user set the run parameters before the start.
// Parameters are frozen once START is pressed.
type ControlsPanel struct {
	renderer *Renderer
	sliders  []Slider
	x, y     int32
	width    int32
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		sliders:  Sliders(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// Draw renders the sliders and the START button, writing adjustments into p.
// Returns true when START was pressed.
func (c *ControlsPanel) Draw(p *config.Params) bool {
	r := c.renderer
	x := float32(c.x)
	y := float32(c.y)
	sliderWidth := float32(c.width - 110)

	for _, s := range c.sliders {
		v := s.Value(p)
		rl.DrawText(s.Label, c.x, int32(y), r.Theme.HeaderFontSize, r.Theme.LabelColor)
		y += float32(r.Theme.HeaderFontSize) + 2

		nv := gui.SliderBar(
			rl.Rectangle{X: x, Y: y, Width: sliderWidth, Height: 16},
			"", "",
			float32(v), float32(s.Min), float32(s.Max),
		)
		if float64(nv) != v {
			s.Apply(p, float64(nv))
		}
		rl.DrawText(s.Format(s.Value(p)), int32(x+sliderWidth+10), int32(y), r.Theme.HeaderFontSize, r.Theme.ValueColor)
		y += 26
	}

	y += 10
	return gui.Button(rl.Rectangle{X: x, Y: y, Width: 80, Height: 30}, "START")
}
