package telemetry

import "testing"

func TestCollectorWindows(t *testing.T) {
	c := NewCollector(48)

	for tick := 1; tick < 48; tick++ {
		if c.ShouldFlush(tick) {
			t.Fatalf("flush requested at tick %d", tick)
		}
	}
	if !c.ShouldFlush(48) {
		t.Fatal("no flush at tick 48")
	}

	c.RecordContacts(4)
	c.RecordInfection()
	c.RecordInfection()
	c.RecordDeath()
	c.RecordImmunity()
	c.RecordRelapse()
	c.RecordStall()

	census := Census{Live: 9, Susceptible: 3, Incubating: 2, Contagious: 2, Immune: 2, Vaccinated: 1}
	stats := c.Flush(48, 1, 0, census, []float64{100, 300, 500})

	if stats.WindowStartTick != 0 || stats.WindowEndTick != 48 || stats.Day != 1 {
		t.Errorf("window = [%d, %d] day %d", stats.WindowStartTick, stats.WindowEndTick, stats.Day)
	}
	if stats.Contacts != 4 || stats.Infections != 2 || stats.Deaths != 1 || stats.Immunized != 1 || stats.Relapsed != 1 || stats.Stalled != 1 {
		t.Errorf("event counts = %+v", stats)
	}
	if stats.Infected != 4 || stats.InfectionRate != 4.0/9 {
		t.Errorf("infected = %d rate = %v", stats.Infected, stats.InfectionRate)
	}
	if stats.InfectionAgeMean != 300 || stats.InfectionAgeP50 != 300 {
		t.Errorf("infection age mean = %v p50 = %v", stats.InfectionAgeMean, stats.InfectionAgeP50)
	}

	// Counters reset, cumulative deaths carry over.
	c.RecordDeath()
	next := c.Flush(96, 2, 0, Census{Live: 8}, nil)
	if next.WindowStartTick != 48 || next.Infections != 0 || next.Deaths != 1 || next.TotalDeaths != 2 {
		t.Errorf("second window = %+v", next)
	}
	if c.ShouldFlush(100) || !c.ShouldFlush(144) {
		t.Error("window boundary not moved by Flush")
	}
}

func TestCollectorPending(t *testing.T) {
	c := NewCollector(10)
	if c.Pending(0) {
		t.Error("pending at window start")
	}
	if !c.Pending(3) {
		t.Error("not pending mid-window")
	}
	c.Reset(3)
	if c.Pending(3) {
		t.Error("pending after reset")
	}
}

func TestNewCollectorClampsWindow(t *testing.T) {
	c := NewCollector(0)
	if c.ShouldFlush(0) {
		t.Error("flush due before any tick")
	}
	if !c.ShouldFlush(1) {
		t.Error("one-tick window not due after one tick")
	}
}
