package telemetry

import "testing"

func hasBookmark(bookmarks []Bookmark, typ BookmarkType) bool {
	for _, bm := range bookmarks {
		if bm.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_FirstDeathOnce(t *testing.T) {
	bd := NewBookmarkDetector(10)

	if got := bd.Check(WindowStats{WindowEndTick: 48, Live: 100, Infected: 10}); hasBookmark(got, BookmarkFirstDeath) {
		t.Fatal("first_death without deaths")
	}
	if got := bd.Check(WindowStats{WindowEndTick: 96, Live: 99, Infected: 10, Deaths: 1}); !hasBookmark(got, BookmarkFirstDeath) {
		t.Fatal("expected first_death bookmark")
	}
	if got := bd.Check(WindowStats{WindowEndTick: 144, Live: 98, Infected: 10, Deaths: 1}); hasBookmark(got, BookmarkFirstDeath) {
		t.Error("first_death fired twice")
	}
}

func TestBookmarkDetector_OutbreakPeak(t *testing.T) {
	bd := NewBookmarkDetector(10)

	infected := []int{2, 8, 12, 10}
	for i, n := range infected {
		got := bd.Check(WindowStats{WindowEndTick: (i + 1) * 48, Day: uint(i + 1), Live: 100, Infected: n})
		if hasBookmark(got, BookmarkOutbreakPeak) {
			t.Fatalf("window %d: peak fired early at %d infected", i, n)
		}
	}

	// One window under the drop line is not yet a turn.
	if got := bd.Check(WindowStats{WindowEndTick: 240, Day: 5, Live: 100, Infected: 7}); hasBookmark(got, BookmarkOutbreakPeak) {
		t.Fatal("peak fired on a single low window")
	}

	got := bd.Check(WindowStats{WindowEndTick: 288, Day: 6, Live: 100, Infected: 6})
	if !hasBookmark(got, BookmarkOutbreakPeak) {
		t.Fatal("expected outbreak_peak bookmark")
	}
}

func TestBookmarkDetector_DipThenRiseIsNoPeak(t *testing.T) {
	bd := NewBookmarkDetector(3)

	for i, n := range []int{10, 20, 13, 18, 12, 30} {
		got := bd.Check(WindowStats{WindowEndTick: (i + 1) * 48, Live: 100, Infected: n})
		if hasBookmark(got, BookmarkOutbreakPeak) {
			t.Fatalf("window %d: peak fired on a dip (%d infected)", i, n)
		}
	}
}

func TestBookmarkDetector_RecentIsTimeOrdered(t *testing.T) {
	bd := NewBookmarkDetector(3)
	for tick := 1; tick <= 5; tick++ {
		bd.addToHistory(WindowStats{WindowEndTick: tick})
	}

	got := bd.recent(3)
	want := []int{3, 4, 5}
	if len(got) != len(want) {
		t.Fatalf("recent(3) returned %d windows", len(got))
	}
	for i, w := range want {
		if got[i].WindowEndTick != w {
			t.Errorf("recent(3)[%d] = tick %d, want %d", i, got[i].WindowEndTick, w)
		}
	}

	if got := bd.recent(1); len(got) != 1 || got[0].WindowEndTick != 5 {
		t.Errorf("recent(1) = %+v, want the latest window", got)
	}
	if got := NewBookmarkDetector(3).recent(2); len(got) != 0 {
		t.Errorf("recent on empty history = %+v", got)
	}
}

func TestBookmarkDetector_SmallOutbreakHasNoPeak(t *testing.T) {
	bd := NewBookmarkDetector(10)
	for i, n := range []int{3, 4, 1, 0} {
		got := bd.Check(WindowStats{WindowEndTick: (i + 1) * 48, Live: 50, Infected: n})
		if hasBookmark(got, BookmarkOutbreakPeak) {
			t.Fatalf("peak bookmarked for an outbreak of %d", 4)
		}
	}
}

func TestBookmarkDetector_HerdImmunity(t *testing.T) {
	bd := NewBookmarkDetector(10)

	if got := bd.Check(WindowStats{Live: 100, Immune: 49, Infected: 5}); hasBookmark(got, BookmarkHerdImmunity) {
		t.Fatal("herd_immunity below threshold")
	}
	if got := bd.Check(WindowStats{Live: 100, Immune: 50, Infected: 5}); !hasBookmark(got, BookmarkHerdImmunity) {
		t.Fatal("expected herd_immunity bookmark")
	}
}

func TestBookmarkDetector_End(t *testing.T) {
	tests := []struct {
		name  string
		final WindowStats
		want  BookmarkType
	}{
		{"contained", WindowStats{Live: 80, Immune: 30}, BookmarkContained},
		{"extinction", WindowStats{TotalDeaths: 3}, BookmarkExtinction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bd := NewBookmarkDetector(10)
			bd.Check(WindowStats{Live: 80, Infected: 3})
			if got := bd.Check(tt.final); !hasBookmark(got, tt.want) {
				t.Errorf("expected %s bookmark, got %v", tt.want, got)
			}
		})
	}
}

func TestBookmarkDetector_NoInfectionNoContainment(t *testing.T) {
	bd := NewBookmarkDetector(10)
	if got := bd.Check(WindowStats{Live: 10}); hasBookmark(got, BookmarkContained) {
		t.Error("contained bookmark without any infection")
	}
}
