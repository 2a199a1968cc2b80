package telemetry

import (
	"encoding/json"
	"sort"
)

// SpreaderEntry is one agent on the spreader board.
type SpreaderEntry struct {
	AgentID       uint32  `json:"agent_id"`
	Transmissions int     `json:"transmissions"`
	Infections    int     `json:"infections"`
	Vaccinated    bool    `json:"vaccinated"`
	Outcome       Outcome `json:"outcome,omitempty"`
	Alive         bool    `json:"alive"`
}

// SpreaderBoard keeps the agents that infected the most others,
// sorted by transmissions descending.
type SpreaderBoard struct {
	entries []SpreaderEntry
	maxSize int
}

// NewSpreaderBoard creates a board holding at most maxSize entries.
func NewSpreaderBoard(maxSize int) *SpreaderBoard {
	return &SpreaderBoard{
		entries: make([]SpreaderEntry, 0, maxSize),
		maxSize: maxSize,
	}
}

// Consider evaluates an agent for the board. Agents that never infected
// anyone are skipped. An agent already on the board is updated in place.
// Returns true if the agent is on the board afterwards.
func (sb *SpreaderBoard) Consider(stats *LifetimeStats, alive bool) bool {
	if sb.maxSize <= 0 || stats == nil || stats.Transmissions == 0 {
		return false
	}

	entry := SpreaderEntry{
		AgentID:       stats.AgentID,
		Transmissions: stats.Transmissions,
		Infections:    stats.Infections,
		Vaccinated:    stats.Vaccinated,
		Outcome:       stats.Outcome,
		Alive:         alive,
	}

	for i := range sb.entries {
		if sb.entries[i].AgentID == stats.AgentID {
			sb.entries = append(sb.entries[:i], sb.entries[i+1:]...)
			break
		}
	}

	return sb.insertEntry(entry)
}

// insertEntry adds an entry, maintaining sorted order by transmissions.
// Ties keep the earlier entry first. If the board is full, the last entry
// is dropped.
func (sb *SpreaderBoard) insertEntry(entry SpreaderEntry) bool {
	idx := sort.Search(len(sb.entries), func(i int) bool {
		return sb.entries[i].Transmissions < entry.Transmissions
	})

	if len(sb.entries) >= sb.maxSize && idx >= sb.maxSize {
		return false
	}

	sb.entries = append(sb.entries, SpreaderEntry{})
	copy(sb.entries[idx+1:], sb.entries[idx:])
	sb.entries[idx] = entry

	if len(sb.entries) > sb.maxSize {
		sb.entries = sb.entries[:sb.maxSize]
	}
	return true
}

// Entries returns the board in rank order.
func (sb *SpreaderBoard) Entries() []SpreaderEntry {
	return sb.entries
}

// MarshalJSON exports the board for spreaders.json.
func (sb *SpreaderBoard) MarshalJSON() ([]byte, error) {
	return json.MarshalIndent(struct {
		Spreaders []SpreaderEntry `json:"spreaders"`
	}{sb.entries}, "", "  ")
}
