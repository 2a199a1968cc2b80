package ui

import (
	"testing"

	"github.com/pthm-cable/contagion/config"
)

func TestSlidersKeepParamsValid(t *testing.T) {
	p := config.Params{}
	for _, s := range Sliders() {
		s.Apply(&p, s.Max+50)
		if got := s.Value(&p); got != s.Max {
			t.Errorf("%s: above max snapped to %v, want %v", s.Label, got, s.Max)
		}
	}
	if err := p.Validate(); err != nil {
		t.Errorf("params at maximum are invalid: %v", err)
	}

	for _, s := range Sliders() {
		s.Apply(&p, s.Min-50)
		if got := s.Value(&p); got != s.Min {
			t.Errorf("%s: below min snapped to %v, want %v", s.Label, got, s.Min)
		}
	}
	if err := p.Validate(); err != nil {
		t.Errorf("params at minimum are invalid: %v", err)
	}
}

func TestSliderSnap(t *testing.T) {
	tests := []struct {
		name   string
		slider Slider
		in     float64
		want   float64
	}{
		{"hundredths", Slider{Min: 0, Max: 1, Step: 0.01}, 0.504, 0.5},
		{"whole", Slider{Min: 0, Max: 120, Step: 1}, 57.6, 58},
		{"clamped high", Slider{Min: 0, Max: 120, Step: 1}, 130, 120},
		{"clamped low", Slider{Min: 0, Max: 100, Step: 0.1}, -3, 0},
		{"no step", Slider{Min: 0, Max: 10}, 3.14159, 3.14159},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.slider.Snap(tt.in)
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("Snap(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSliderFormat(t *testing.T) {
	sliders := Sliders()
	if got := sliders[0].Format(0.5); got != "0.50" {
		t.Errorf("infection rate = %q, want 0.50", got)
	}
	if got := sliders[1].Format(100); got != "100" {
		t.Errorf("population = %q, want 100", got)
	}
	if got := sliders[2].Format(10); got != "10.0%" {
		t.Errorf("vaccination = %q, want 10.0%%", got)
	}
}
