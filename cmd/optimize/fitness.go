package main

import (
	"context"
	"sync"

	"github.com/pthm-cable/contagion/config"
	"github.com/pthm-cable/contagion/game"
)

// Fitness weights. Deaths dominate; intervention costs break ties between
// policies that contain the outbreak equally well.
const (
	weightDeaths    = 10.0
	weightPeak      = 1.0
	costVaccination = 0.5 // per 100% vaccinated
	costDistancing  = 0.5 // per 100% transmission removed
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params     *ParamVector
	maxTicks   int
	seeds      []uint64
	baseConfig *config.Config

	mu          sync.Mutex
	lastOutcome outcome // from the most recent Evaluate call
}

// outcome aggregates runs of one parameter vector.
type outcome struct {
	deathShare float64 // mean deaths / population
	peakShare  float64 // mean peak infected / population
	days       float64 // mean run length
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int, seeds []uint64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		maxTicks:   maxTicks,
		seeds:      seeds,
		baseConfig: baseCfg,
	}
}

// LastOutcome returns the aggregate outcome of the most recent evaluation.
func (fe *FitnessEvaluator) LastOutcome() outcome {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastOutcome
}

// Evaluate computes fitness for a raw parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.configFor(x)

	// Run all seeds in parallel
	results := make([]game.Result, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s uint64) {
			defer wg.Done()
			results[idx] = fe.runSimulation(cfg, s)
		}(i, seed)
	}
	wg.Wait()

	out := aggregate(results, cfg.Params.PopulationSize)
	fitness := computeFitness(out, cfg.Params, fe.baseConfig.Params)

	fe.mu.Lock()
	fe.lastOutcome = out
	fe.mu.Unlock()

	return fitness
}

// configFor returns a copy of the base config with x applied.
func (fe *FitnessEvaluator) configFor(x []float64) *config.Config {
	p := fe.baseConfig.Params
	fe.params.ApplyToParams(&p, x)
	return fe.baseConfig.WithParams(p)
}

// runSimulation executes a single headless run to completion or maxTicks.
// A run that fails to start counts as a total loss.
func (fe *FitnessEvaluator) runSimulation(cfg *config.Config, seed uint64) game.Result {
	sim, err := game.New(cfg, game.Options{Seed: seed})
	if err != nil {
		return game.Result{Seed: seed, Deaths: cfg.Params.PopulationSize, PeakInfected: cfg.Params.PopulationSize}
	}
	defer sim.Close()

	res, _ := sim.Run(context.Background(), fe.maxTicks)
	return res
}

// aggregate averages run results as shares of the starting population.
func aggregate(results []game.Result, population int) outcome {
	if len(results) == 0 || population == 0 {
		return outcome{}
	}
	var out outcome
	for _, r := range results {
		out.deathShare += float64(r.Deaths) / float64(population)
		out.peakShare += float64(r.PeakInfected) / float64(population)
		out.days += float64(r.Day) + r.Hour/24
	}
	n := float64(len(results))
	out.deathShare /= n
	out.peakShare /= n
	out.days /= n
	return out
}

// computeFitness scores an outcome under the applied intervention.
func computeFitness(out outcome, applied, base config.Params) float64 {
	fitness := weightDeaths*out.deathShare + weightPeak*out.peakShare
	fitness += costVaccination * applied.VaccinationRate / 100
	if base.TransmissionRate > 0 {
		removed := max(0, base.TransmissionRate-applied.TransmissionRate) / base.TransmissionRate
		fitness += costDistancing * removed
	}
	return fitness
}
