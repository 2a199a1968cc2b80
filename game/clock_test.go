package game

import "testing"

func TestClockRollover(t *testing.T) {
	c := NewClock(0.5)

	for i := 0; i < 47; i++ {
		c.Advance()
	}
	if c.Day != 0 || c.Hour != 23.5 {
		t.Fatalf("after 47 ticks: day %d hour %v", c.Day, c.Hour)
	}

	c.Advance()
	if c.Day != 1 || c.Hour != 0 {
		t.Errorf("after 48 ticks: day %d hour %v, want day 1 hour 0", c.Day, c.Hour)
	}

	for i := 0; i < 48*9; i++ {
		c.Advance()
	}
	if c.Day != 10 || c.Hour != 0 {
		t.Errorf("after 480 ticks: day %d hour %v, want day 10 hour 0", c.Day, c.Hour)
	}
}

func TestClockFormatting(t *testing.T) {
	tests := []struct {
		clock Clock
		want  string
		days  float64
	}{
		{Clock{}, "DAY: 0 HOUR: 00", 0},
		{Clock{Day: 3, Hour: 7.5}, "DAY: 3 HOUR: 07", 3.3125},
		{Clock{Day: 12, Hour: 18}, "DAY: 12 HOUR: 18", 12.75},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.clock.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
			if got := tt.clock.Days(); got != tt.days {
				t.Errorf("Days() = %v, want %v", got, tt.days)
			}
		})
	}
}
