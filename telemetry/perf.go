package telemetry

import (
	"log/slog"
	"time"
)

// Stage is one step of the tick pipeline.
type Stage int

const (
	StageMove Stage = iota
	StageDetect
	StageContact
	StageResolve
	StageCleanup
	StageTelemetry
	numStages
)

var stageNames = [numStages]string{"move", "detect", "contact", "resolve", "cleanup", "telemetry"}

func (s Stage) String() string {
	if s < 0 || s >= numStages {
		return "unknown"
	}
	return stageNames[s]
}

// StageProfile accumulates time and work per stage over a run of ticks.
// Work is stage-specific: agents moved, contacts detected, infections
// transmitted, infections resolved, agents removed.
type StageProfile struct {
	Ticks int
	Time  [numStages]time.Duration
	Work  [numStages]int
}

// TickTime is the mean wall time of a tick.
func (p StageProfile) TickTime() time.Duration {
	if p.Ticks == 0 {
		return 0
	}
	var total time.Duration
	for _, d := range p.Time {
		total += d
	}
	return total / time.Duration(p.Ticks)
}

// StageTime is the mean wall time of one stage per tick.
func (p StageProfile) StageTime(s Stage) time.Duration {
	if p.Ticks == 0 {
		return 0
	}
	return p.Time[s] / time.Duration(p.Ticks)
}

// Share is the stage's percentage of total tick time.
func (p StageProfile) Share(s Stage) float64 {
	var total time.Duration
	for _, d := range p.Time {
		total += d
	}
	if total == 0 {
		return 0
	}
	return float64(p.Time[s]) / float64(total) * 100
}

// WorkPerTick is the mean work count of one stage per tick.
func (p StageProfile) WorkPerTick(s Stage) float64 {
	if p.Ticks == 0 {
		return 0
	}
	return float64(p.Work[s]) / float64(p.Ticks)
}

// Profiler times the stages of each tick and counts the work each did.
type Profiler struct {
	now func() time.Time

	window  StageProfile
	tick    StageProfile
	current Stage
	mark    time.Time
	active  bool
}

// NewProfiler creates a profiler reading the wall clock.
func NewProfiler() *Profiler {
	return &Profiler{now: time.Now}
}

// Begin starts a tick.
func (p *Profiler) Begin() {
	p.tick = StageProfile{}
	p.active = false
}

// Enter closes the running stage, if any, and starts s.
func (p *Profiler) Enter(s Stage) {
	now := p.now()
	if p.active {
		p.tick.Time[p.current] += now.Sub(p.mark)
	}
	p.current, p.mark, p.active = s, now, true
}

// Count adds n units of work to stage s.
func (p *Profiler) Count(s Stage, n int) {
	p.tick.Work[s] += n
}

// End closes the running stage and adds the tick to the window.
func (p *Profiler) End() {
	if p.active {
		p.tick.Time[p.current] += p.now().Sub(p.mark)
		p.active = false
	}
	p.window.Ticks++
	for i := range p.window.Time {
		p.window.Time[i] += p.tick.Time[i]
		p.window.Work[i] += p.tick.Work[i]
	}
}

// Take returns the completed ticks since the last Take and starts a new window.
func (p *Profiler) Take() StageProfile {
	w := p.window
	p.window = StageProfile{}
	return w
}

// LogStats logs the profile.
func (p StageProfile) LogStats() {
	slog.Info("perf", "profile", p)
}

// LogValue implements slog.LogValuer for structured logging.
func (p StageProfile) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("ticks", p.Ticks),
		slog.Int64("tick_us", p.TickTime().Microseconds()),
	}
	for s := Stage(0); s < numStages; s++ {
		if pct := p.Share(s); pct > 0.1 {
			attrs = append(attrs, slog.Float64(s.String()+"_pct", float64(int(pct*10))/10))
		}
	}
	attrs = append(attrs,
		slog.Float64("contacts_per_tick", p.WorkPerTick(StageDetect)),
		slog.Float64("infections_per_tick", p.WorkPerTick(StageContact)),
	)
	return slog.GroupValue(attrs...)
}

// StageProfileCSV is a flat struct for CSV export of a profile.
type StageProfileCSV struct {
	WindowEnd int   `csv:"window_end"`
	Ticks     int   `csv:"ticks"`
	TickUS    int64 `csv:"tick_us"`

	MoveUS      int64 `csv:"move_us"`
	DetectUS    int64 `csv:"detect_us"`
	ContactUS   int64 `csv:"contact_us"`
	ResolveUS   int64 `csv:"resolve_us"`
	CleanupUS   int64 `csv:"cleanup_us"`
	TelemetryUS int64 `csv:"telemetry_us"`

	Agents     float64 `csv:"agents_per_tick"`
	Contacts   float64 `csv:"contacts_per_tick"`
	Infections float64 `csv:"infections_per_tick"`
	Resolved   float64 `csv:"resolved_per_tick"`
	Removed    float64 `csv:"removed_per_tick"`
}

// ToCSV converts the profile to a CSV row ending at tick windowEnd.
func (p StageProfile) ToCSV(windowEnd int) StageProfileCSV {
	return StageProfileCSV{
		WindowEnd:   windowEnd,
		Ticks:       p.Ticks,
		TickUS:      p.TickTime().Microseconds(),
		MoveUS:      p.StageTime(StageMove).Microseconds(),
		DetectUS:    p.StageTime(StageDetect).Microseconds(),
		ContactUS:   p.StageTime(StageContact).Microseconds(),
		ResolveUS:   p.StageTime(StageResolve).Microseconds(),
		CleanupUS:   p.StageTime(StageCleanup).Microseconds(),
		TelemetryUS: p.StageTime(StageTelemetry).Microseconds(),
		Agents:      p.WorkPerTick(StageMove),
		Contacts:    p.WorkPerTick(StageDetect),
		Infections:  p.WorkPerTick(StageContact),
		Resolved:    p.WorkPerTick(StageResolve),
		Removed:     p.WorkPerTick(StageCleanup),
	}
}
