package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkFirstDeath   BookmarkType = "first_death"
	BookmarkOutbreakPeak BookmarkType = "outbreak_peak"
	BookmarkHerdImmunity BookmarkType = "herd_immunity"
	BookmarkContained    BookmarkType = "contained"
	BookmarkExtinction   BookmarkType = "extinction"
)

// Peak detection thresholds.
const (
	peakMinInfected = 5   // smaller outbreaks are not bookmarked
	peakDropRatio   = 0.7 // infected must fall below this share of the peak
	peakConfirm     = 2   // consecutive windows below the drop line, current included
	herdImmuneShare = 0.5 // immune share of the live population
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int          `csv:"tick"`
	Day         uint         `csv:"day"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"day", b.Day,
		"description", b.Description,
	)
}

// BookmarkDetector detects turning points of an outbreak from window stats.
// Every bookmark type fires at most once per run.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	peakInfected int
	peakDay      uint
	fired        map[BookmarkType]bool
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 3 {
		historySize = 3
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
		fired:       make(map[BookmarkType]bool),
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark
	add := func(b *Bookmark) {
		if b == nil || bd.fired[b.Type] {
			return
		}
		bd.fired[b.Type] = true
		bookmarks = append(bookmarks, *b)
	}

	add(bd.checkFirstDeath(stats))
	add(bd.checkOutbreakPeak(stats))
	add(bd.checkHerdImmunity(stats))
	add(bd.checkEnd(stats))

	bd.addToHistory(stats)

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

// recent returns up to n of the latest recorded windows, oldest first.
func (bd *BookmarkDetector) recent(n int) []WindowStats {
	count := bd.historyIdx
	if bd.historyFull {
		count = bd.historySize
	}
	n = min(n, count)

	out := make([]WindowStats, n)
	for i := range out {
		out[i] = bd.history[(bd.historyIdx-n+i+bd.historySize)%bd.historySize]
	}
	return out
}

func (bd *BookmarkDetector) checkFirstDeath(stats WindowStats) *Bookmark {
	if stats.Deaths == 0 {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkFirstDeath,
		Tick:        stats.WindowEndTick,
		Day:         stats.Day,
		Description: fmt.Sprintf("%d death(s) with %d infected", stats.Deaths, stats.Infected),
	}
}

// checkOutbreakPeak fires once infections have stayed below peakDropRatio of
// the highest count seen for peakConfirm consecutive windows.
func (bd *BookmarkDetector) checkOutbreakPeak(stats WindowStats) *Bookmark {
	if stats.Infected > bd.peakInfected {
		bd.peakInfected = stats.Infected
		bd.peakDay = stats.Day
		return nil
	}
	if bd.peakInfected < peakMinInfected {
		return nil
	}
	dropLine := float64(bd.peakInfected) * peakDropRatio
	if float64(stats.Infected) >= dropLine {
		return nil
	}

	prev := bd.recent(peakConfirm - 1)
	if len(prev) < peakConfirm-1 {
		return nil
	}
	for _, h := range prev {
		if float64(h.Infected) >= dropLine {
			return nil
		}
	}

	return &Bookmark{
		Type:        BookmarkOutbreakPeak,
		Tick:        stats.WindowEndTick,
		Day:         stats.Day,
		Description: fmt.Sprintf("Infections peaked at %d on day %d, now %d", bd.peakInfected, bd.peakDay, stats.Infected),
	}
}

func (bd *BookmarkDetector) checkHerdImmunity(stats WindowStats) *Bookmark {
	if stats.Live == 0 {
		return nil
	}
	share := float64(stats.Immune) / float64(stats.Live)
	if share < herdImmuneShare {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkHerdImmunity,
		Tick:        stats.WindowEndTick,
		Day:         stats.Day,
		Description: fmt.Sprintf("%.0f%% of %d agents immune", share*100, stats.Live),
	}
}

func (bd *BookmarkDetector) checkEnd(stats WindowStats) *Bookmark {
	switch {
	case stats.Live == 0:
		return &Bookmark{
			Type:        BookmarkExtinction,
			Tick:        stats.WindowEndTick,
			Day:         stats.Day,
			Description: fmt.Sprintf("No agents left after %d deaths", stats.TotalDeaths),
		}
	case stats.Infected == 0 && bd.peakInfected > 0:
		return &Bookmark{
			Type:        BookmarkContained,
			Tick:        stats.WindowEndTick,
			Day:         stats.Day,
			Description: fmt.Sprintf("No infections left, %d of %d agents immune", stats.Immune, stats.Live),
		}
	}
	return nil
}
