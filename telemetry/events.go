// Package telemetry provides epidemic tracking: daily stats windows, events,
// bookmarks, spreader records, CSV/chart output, and snapshots.
package telemetry

import "log/slog"

// EventType identifies telemetry events.
type EventType string

const (
	EventInfection EventType = "infection"
	EventDeath     EventType = "death"
	EventImmunity  EventType = "immunity"
	EventRelapse   EventType = "relapse"
)

// Event represents a single epidemiological event.
type Event struct {
	Tick    int       `csv:"tick"`
	Day     uint      `csv:"day"`
	Hour    float64   `csv:"hour"`
	Type    EventType `csv:"type"`
	AgentID uint32    `csv:"agent"`

	// SourceID is the spreading agent for infection events.
	SourceID uint32 `csv:"source"`
}

// NewInfectionEvent creates an infection event.
func NewInfectionEvent(tick int, day uint, hour float64, targetID, sourceID uint32) Event {
	return Event{
		Tick:     tick,
		Day:      day,
		Hour:     hour,
		Type:     EventInfection,
		AgentID:  targetID,
		SourceID: sourceID,
	}
}

// NewDeathEvent creates a death event.
func NewDeathEvent(tick int, day uint, hour float64, agentID uint32) Event {
	return Event{Tick: tick, Day: day, Hour: hour, Type: EventDeath, AgentID: agentID}
}

// NewImmunityEvent creates an event for an agent that recovered with immunity.
func NewImmunityEvent(tick int, day uint, hour float64, agentID uint32) Event {
	return Event{Tick: tick, Day: day, Hour: hour, Type: EventImmunity, AgentID: agentID}
}

// NewRelapseEvent creates an event for an agent that recovered without immunity.
func NewRelapseEvent(tick int, day uint, hour float64, agentID uint32) Event {
	return Event{Tick: tick, Day: day, Hour: hour, Type: EventRelapse, AgentID: agentID}
}

// LogValue implements slog.LogValuer.
func (e Event) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("type", string(e.Type)),
		slog.Int("tick", e.Tick),
		slog.Uint64("agent", uint64(e.AgentID)),
	}
	if e.Type == EventInfection {
		attrs = append(attrs, slog.Uint64("source", uint64(e.SourceID)))
	}
	return slog.GroupValue(attrs...)
}
