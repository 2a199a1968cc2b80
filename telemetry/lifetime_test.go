package telemetry

import "testing"

func TestLifetimeTracker(t *testing.T) {
	lt := NewLifetimeTracker()
	lt.Register(1, 0, false, true)
	lt.Register(2, 0, true, false)

	lt.RecordInfection(2, 10)
	lt.RecordTransmission(1)
	lt.RecordOutcome(2, OutcomeImmune, 500)
	lt.RecordInfection(99, 10) // unknown agents are ignored

	a, b := lt.Get(1), lt.Get(2)
	if a.Infections != 1 || a.FirstInfectedTick != 0 || a.Transmissions != 1 {
		t.Errorf("agent 1 = %+v", a)
	}
	if b.Infections != 1 || b.FirstInfectedTick != 10 || b.Outcome != OutcomeImmune || !b.Vaccinated {
		t.Errorf("agent 2 = %+v", b)
	}

	if removed := lt.Remove(1); removed != a {
		t.Error("Remove returned a different record")
	}
	if lt.Count() != 1 || lt.Get(1) != nil {
		t.Errorf("count = %d after remove", lt.Count())
	}
}

func TestLifetimeTracker_NeverInfected(t *testing.T) {
	lt := NewLifetimeTracker()
	lt.Register(7, 0, false, false)
	if s := lt.Get(7); s.FirstInfectedTick != -1 || s.Infections != 0 {
		t.Errorf("stats = %+v", s)
	}
}

func TestSpreaderBoard(t *testing.T) {
	sb := NewSpreaderBoard(2)

	if sb.Consider(&LifetimeStats{AgentID: 1}, true) {
		t.Error("agent without transmissions entered the board")
	}

	sb.Consider(&LifetimeStats{AgentID: 1, Transmissions: 2}, true)
	sb.Consider(&LifetimeStats{AgentID: 2, Transmissions: 5}, true)
	if sb.Consider(&LifetimeStats{AgentID: 3, Transmissions: 1}, false) {
		t.Error("weaker spreader entered a full board")
	}
	sb.Consider(&LifetimeStats{AgentID: 4, Transmissions: 3, Outcome: OutcomeDied}, false)

	got := sb.Entries()
	if len(got) != 2 || got[0].AgentID != 2 || got[1].AgentID != 4 {
		t.Fatalf("entries = %+v", got)
	}
	if got[1].Alive || got[1].Outcome != OutcomeDied {
		t.Errorf("entry 4 = %+v", got[1])
	}

	// Re-considering an agent updates it instead of duplicating it.
	sb.Consider(&LifetimeStats{AgentID: 4, Transmissions: 9}, true)
	got = sb.Entries()
	if len(got) != 2 || got[0].AgentID != 4 || got[0].Transmissions != 9 || got[1].AgentID != 2 {
		t.Errorf("entries after update = %+v", got)
	}
}
