package telemetry

import (
	"errors"
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrTooFewPoints is returned when a curve has fewer than two points to plot.
var ErrTooFewPoints = errors.New("curve needs at least two points")

// Series colors match the board's color key.
var (
	colorInfected = chart.ColorRed
	colorHealthy  = chart.ColorGreen
	colorImmune   = drawing.Color{R: 238, G: 130, B: 238, A: 255}
	colorDeaths   = drawing.Color{R: 80, G: 80, B: 80, A: 255}
)

// Curve accumulates the epidemic curve, one point per stats window.
type Curve struct {
	Days     []float64
	Infected []float64
	Healthy  []float64
	Immune   []float64
	Deaths   []float64
}

// Add appends a point for the window.
func (c *Curve) Add(s WindowStats) {
	c.Days = append(c.Days, float64(s.Day)+s.Hour/24)
	c.Infected = append(c.Infected, float64(s.Infected))
	c.Healthy = append(c.Healthy, float64(s.Live-s.Infected))
	c.Immune = append(c.Immune, float64(s.Immune))
	c.Deaths = append(c.Deaths, float64(s.TotalDeaths))
}

// Len returns the number of points.
func (c *Curve) Len() int {
	return len(c.Days)
}

// maxY returns the largest plotted value, at least 1 so flat curves still
// have a non-empty range.
func (c *Curve) maxY() float64 {
	top := 1.0
	for _, ys := range [][]float64{c.Infected, c.Healthy, c.Immune, c.Deaths} {
		for _, y := range ys {
			top = max(top, y)
		}
	}
	return top
}

// Render writes the curve as a PNG line chart.
func (c *Curve) Render(w io.Writer, width, height int) error {
	if c.Len() < 2 {
		return ErrTooFewPoints
	}

	series := func(name string, ys []float64, color drawing.Color) chart.ContinuousSeries {
		return chart.ContinuousSeries{
			Name:    name,
			XValues: c.Days,
			YValues: ys,
			Style:   chart.Style{StrokeColor: color, StrokeWidth: 3.0},
		}
	}

	graph := chart.Chart{
		Width:  width,
		Height: height,
		XAxis: chart.XAxis{
			Name:  "day",
			Style: chart.Style{FontSize: 10.0},
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%.0f", v.(float64))
			},
		},
		YAxis: chart.YAxis{
			Name:  "agents",
			Style: chart.Style{FontSize: 10.0},
			Range: &chart.ContinuousRange{Min: 0, Max: c.maxY()},
		},
		Series: []chart.Series{
			series("infected", c.Infected, colorInfected),
			series("healthy", c.Healthy, colorHealthy),
			series("immune", c.Immune, colorImmune),
			series("deaths", c.Deaths, colorDeaths),
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("rendering curve: %w", err)
	}
	return nil
}
