// Package main provides CMA-ES search for the cheapest intervention that
// keeps an outbreak small.
package main

import (
	"github.com/pthm-cable/contagion/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the intervention parameters, starting from base.
// Transmission is searched below its base value only: lowering it models
// distancing and masks.
func NewParamVector(base config.Params) *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "vaccination_rate", Path: "params.vaccination_rate", Min: 0, Max: 100, Default: base.VaccinationRate},
			{Name: "transmission_rate", Path: "params.transmission_rate", Min: 0, Max: base.TransmissionRate, Default: base.TransmissionRate},
		},
	}
}

// LogHeader returns the optimize_log.csv header: fixed columns, then each
// parameter by its config path.
func (pv *ParamVector) LogHeader() []string {
	header := []string{"eval", "fitness", "death_share", "peak_share", "days"}
	for _, spec := range pv.Specs {
		header = append(header, spec.Path)
	}
	return header
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		if spec.Max == spec.Min {
			continue
		}
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToParams writes clamped values into p. Order must match Specs.
func (pv *ParamVector) ApplyToParams(p *config.Params, values []float64) {
	clamped := pv.Clamp(values)
	p.VaccinationRate = clamped[0]
	p.TransmissionRate = clamped[1]
}
