package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int     `csv:"-"`
	WindowEndTick   int     `csv:"window_end"`
	Day             uint    `csv:"day"`
	Hour            float64 `csv:"hour"`

	// Population counts at window end
	Live          int     `csv:"live"`
	Susceptible   int     `csv:"susceptible"`
	Incubating    int     `csv:"incubating"`
	Contagious    int     `csv:"contagious"`
	Infected      int     `csv:"infected"`
	Immune        int     `csv:"immune"`
	Vaccinated    int     `csv:"vaccinated"`
	InfectionRate float64 `csv:"infection_rate"`

	// Events during window
	Contacts   int `csv:"contacts"`
	Infections int `csv:"infections"`
	Deaths     int `csv:"deaths"`
	Immunized  int `csv:"immunized"`
	Relapsed   int `csv:"relapsed"`
	Stalled    int `csv:"stalled"`

	TotalDeaths int `csv:"total_deaths"`

	// Infection age distribution (sampled at window end)
	InfectionAgeMean float64 `csv:"infection_age_mean"`
	InfectionAgeP50  float64 `csv:"infection_age_p50"`
	InfectionAgeP90  float64 `csv:"infection_age_p90"`
}

// Summary describes a sample of values.
type Summary struct {
	N    int     `csv:"n"`
	Mean float64 `csv:"mean"`
	Std  float64 `csv:"std"`
	Min  float64 `csv:"min"`
	P10  float64 `csv:"p10"`
	P50  float64 `csv:"p50"`
	P90  float64 `csv:"p90"`
	Max  float64 `csv:"max"`
}

// Summarize computes mean, sample standard deviation, and empirical
// quantiles. Returns the zero Summary for an empty slice.
func Summarize(values []float64) Summary {
	n := len(values)
	if n == 0 {
		return Summary{}
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	mean, std := stat.MeanStdDev(sorted, nil)
	if n < 2 {
		std = 0
	}

	return Summary{
		N:    n,
		Mean: mean,
		Std:  std,
		Min:  sorted[0],
		P10:  stat.Quantile(0.10, stat.Empirical, sorted, nil),
		P50:  stat.Quantile(0.50, stat.Empirical, sorted, nil),
		P90:  stat.Quantile(0.90, stat.Empirical, sorted, nil),
		Max:  sorted[n-1],
	}
}

// LogValue implements slog.LogValuer.
func (s Summary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("n", s.N),
		slog.Float64("mean", s.Mean),
		slog.Float64("std", s.Std),
		slog.Float64("p50", s.P50),
		slog.Float64("min", s.Min),
		slog.Float64("max", s.Max),
	)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", s.WindowStartTick),
		slog.Int("window_end", s.WindowEndTick),
		slog.Uint64("day", uint64(s.Day)),
		slog.Float64("hour", s.Hour),
		slog.Int("live", s.Live),
		slog.Int("susceptible", s.Susceptible),
		slog.Int("incubating", s.Incubating),
		slog.Int("contagious", s.Contagious),
		slog.Int("immune", s.Immune),
		slog.Int("vaccinated", s.Vaccinated),
		slog.Float64("infection_rate", s.InfectionRate),
		slog.Int("contacts", s.Contacts),
		slog.Int("infections", s.Infections),
		slog.Int("deaths", s.Deaths),
		slog.Int("immunized", s.Immunized),
		slog.Int("relapsed", s.Relapsed),
		slog.Int("stalled", s.Stalled),
		slog.Int("total_deaths", s.TotalDeaths),
		slog.Float64("infection_age_mean", s.InfectionAgeMean),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"day", s.Day,
		"live", s.Live,
		"susceptible", s.Susceptible,
		"incubating", s.Incubating,
		"contagious", s.Contagious,
		"immune", s.Immune,
		"infection_rate", s.InfectionRate,
		"infections", s.Infections,
		"deaths", s.Deaths,
		"immunized", s.Immunized,
		"relapsed", s.Relapsed,
		"stalled", s.Stalled,
		"total_deaths", s.TotalDeaths,
	)
}
