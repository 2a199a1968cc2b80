package telemetry

// Outcome is how an agent's last infection ended.
type Outcome string

const (
	OutcomeNone     Outcome = ""
	OutcomeDied     Outcome = "died"
	OutcomeImmune   Outcome = "immune"
	OutcomeRelapsed Outcome = "relapsed"
)

// LifetimeStats tracks per-agent infection history.
type LifetimeStats struct {
	AgentID    uint32
	Vaccinated bool

	// Infections caught, including an infection at spawn.
	Infections        int
	FirstInfectedTick int // -1 if never infected
	LastInfectedTick  int

	// Agents this one infected.
	Transmissions int

	Outcome   Outcome
	EndedTick int
}

// LifetimeTracker manages per-agent lifetime statistics keyed by entity ID.
type LifetimeTracker struct {
	stats map[uint32]*LifetimeStats
}

// NewLifetimeTracker creates a new lifetime tracker.
func NewLifetimeTracker() *LifetimeTracker {
	return &LifetimeTracker{
		stats: make(map[uint32]*LifetimeStats),
	}
}

// Register creates lifetime stats for an agent. Agents infected at spawn
// count their first infection at tick.
func (lt *LifetimeTracker) Register(agentID uint32, tick int, vaccinated, infected bool) {
	s := &LifetimeStats{
		AgentID:           agentID,
		Vaccinated:        vaccinated,
		FirstInfectedTick: -1,
	}
	lt.stats[agentID] = s
	if infected {
		lt.RecordInfection(agentID, tick)
	}
}

// Get returns the lifetime stats for an agent, or nil if not found.
func (lt *LifetimeTracker) Get(agentID uint32) *LifetimeStats {
	return lt.stats[agentID]
}

// Remove removes an agent's stats and returns them.
func (lt *LifetimeTracker) Remove(agentID uint32) *LifetimeStats {
	stats := lt.stats[agentID]
	delete(lt.stats, agentID)
	return stats
}

// RecordInfection marks an agent as infected at tick.
func (lt *LifetimeTracker) RecordInfection(agentID uint32, tick int) {
	s := lt.stats[agentID]
	if s == nil {
		return
	}
	s.Infections++
	if s.FirstInfectedTick < 0 {
		s.FirstInfectedTick = tick
	}
	s.LastInfectedTick = tick
}

// RecordTransmission credits a source agent with one infection.
func (lt *LifetimeTracker) RecordTransmission(sourceID uint32) {
	if s := lt.stats[sourceID]; s != nil {
		s.Transmissions++
	}
}

// RecordOutcome stores how an infection ended.
func (lt *LifetimeTracker) RecordOutcome(agentID uint32, outcome Outcome, tick int) {
	if s := lt.stats[agentID]; s != nil {
		s.Outcome = outcome
		s.EndedTick = tick
	}
}

// All returns all tracked stats.
func (lt *LifetimeTracker) All() map[uint32]*LifetimeStats {
	return lt.stats
}

// Count returns the number of tracked agents.
func (lt *LifetimeTracker) Count() int {
	return len(lt.stats)
}
