package telemetry

// Census is a head count of the live population by epidemiological status.
type Census struct {
	Live        int
	Susceptible int
	Incubating  int
	Contagious  int
	Immune      int
	Vaccinated  int
}

// Infected returns the number of infected agents, contagious or not.
func (c Census) Infected() int {
	return c.Incubating + c.Contagious
}

// Healthy returns the number of live agents that are not infected.
func (c Census) Healthy() int {
	return c.Live - c.Infected()
}

// InfectionRate returns infected/live, or 0 for an empty population.
func (c Census) InfectionRate() float64 {
	if c.Live == 0 {
		return 0
	}
	return float64(c.Infected()) / float64(c.Live)
}

// Collector accumulates events within tick windows and produces WindowStats.
type Collector struct {
	windowTicks int

	// Current window tracking
	windowStartTick int

	// Event counters for current window
	contacts   int
	infections int
	deaths     int
	immunized  int
	relapsed   int
	stalled    int

	totalDeaths int
}

// NewCollector creates a new stats collector flushing every windowTicks ticks.
func NewCollector(windowTicks int) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{windowTicks: windowTicks}
}

// RecordContacts adds the number of contacts detected in a tick.
func (c *Collector) RecordContacts(n int) {
	c.contacts += n
}

// RecordInfection records a transmission.
func (c *Collector) RecordInfection() {
	c.infections++
}

// RecordDeath records a death.
func (c *Collector) RecordDeath() {
	c.deaths++
	c.totalDeaths++
}

// RecordImmunity records a recovery with immunity.
func (c *Collector) RecordImmunity() {
	c.immunized++
}

// RecordRelapse records a recovery back to susceptible.
func (c *Collector) RecordRelapse() {
	c.relapsed++
}

// RecordStall records a resolution attempt that made no progress.
func (c *Collector) RecordStall() {
	c.stalled++
}

// SetTotalDeaths overrides the cumulative death count (used after a restore).
func (c *Collector) SetTotalDeaths(n int) {
	c.totalDeaths = n
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int) bool {
	return currentTick-c.windowStartTick >= c.windowTicks
}

// Pending reports whether the current window has seen any ticks.
func (c *Collector) Pending(currentTick int) bool {
	return currentTick > c.windowStartTick
}

// Reset starts a fresh window at tick without touching cumulative totals.
func (c *Collector) Reset(tick int) {
	c.windowStartTick = tick
	c.contacts = 0
	c.infections = 0
	c.deaths = 0
	c.immunized = 0
	c.relapsed = 0
	c.stalled = 0
}

// Flush produces a WindowStats and resets counters for the next window.
// infectionAges holds the infection age of every infected agent at window end.
func (c *Collector) Flush(currentTick int, day uint, hour float64, census Census, infectionAges []float64) WindowStats {
	ages := Summarize(infectionAges)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		Day:             day,
		Hour:            hour,

		Live:          census.Live,
		Susceptible:   census.Susceptible,
		Incubating:    census.Incubating,
		Contagious:    census.Contagious,
		Infected:      census.Infected(),
		Immune:        census.Immune,
		Vaccinated:    census.Vaccinated,
		InfectionRate: census.InfectionRate(),

		Contacts:   c.contacts,
		Infections: c.infections,
		Deaths:     c.deaths,
		Immunized:  c.immunized,
		Relapsed:   c.relapsed,
		Stalled:    c.stalled,

		TotalDeaths: c.totalDeaths,

		InfectionAgeMean: ages.Mean,
		InfectionAgeP50:  ages.P50,
		InfectionAgeP90:  ages.P90,
	}

	c.Reset(currentTick)

	return stats
}
