package analyze

import (
	"sort"
	"time"

	"github.com/histlens/histlens/internal/history"
)

// View filters which commands feed the heatmap.
type View string

const (
	ViewAll         View = "all"
	ViewDangerous   View = "dangerous"
	ViewExperiments View = "experiments"
	ViewFailed      View = "failed"
)

// Window bounds the heatmap time range relative to now.
type Window string

const (
	WindowDay   Window = "day"
	WindowWeek  Window = "week"
	WindowMonth Window = "month"
	WindowYear  Window = "year"
)

// HeatmapData is a 24x7 activity grid. Rows are hours of day, columns are
// weekdays with Monday at index 0. Cells are normalized against the
// busiest cell, so values sit in [0,1] and an empty grid stays all zero.
type HeatmapData struct {
	Grid          [24][7]float64
	MaxActivity   float64
	TotalCommands int
	PeakHour      int
	PeakDay       time.Weekday
	WorkPatterns  WorkPatterns
}

// WorkPatterns summarizes when activity happens.
type WorkPatterns struct {
	WeekdayRatio   float64
	WeekendRatio   float64
	WorkHoursRatio float64 // 09:00-17:00
	LateNightRatio float64 // before 06:00 or from 22:00
}

// Heatmap buckets commands into the hour/weekday grid. The view filter
// applies first, then the time window against now. When the window would
// empty a non-empty view, the most recent records stand in (50 for day,
// 200 for week, 500 for month, everything for year) so the grid always
// shows something when there is anything to show.
func Heatmap(cmds []history.Command, view View, window Window, now time.Time) HeatmapData {
	filtered := filterForHeatmap(cmds, view, window, now)

	var counts [24][7]int
	maxCount := 0
	for i := range filtered {
		hour := filtered[i].Timestamp.Hour()
		day := weekdayIndex(filtered[i].Timestamp.Weekday())
		counts[hour][day]++
		if counts[hour][day] > maxCount {
			maxCount = counts[hour][day]
		}
	}

	h := HeatmapData{
		MaxActivity:   float64(maxCount),
		TotalCommands: len(filtered),
		PeakHour:      12,
		PeakDay:       time.Monday,
		WorkPatterns:  workPatterns(filtered),
	}
	if maxCount > 0 {
		for hour := 0; hour < 24; hour++ {
			for day := 0; day < 7; day++ {
				h.Grid[hour][day] = float64(counts[hour][day]) / float64(maxCount)
			}
		}
	}
	if len(filtered) > 0 {
		h.PeakHour = mostActiveHour(filtered)
		h.PeakDay = mostActiveDay(filtered)
	}
	return h
}

func filterForHeatmap(cmds []history.Command, view View, window Window, now time.Time) []history.Command {
	var viewFiltered []history.Command
	for i := range cmds {
		if matchesView(&cmds[i], view) {
			viewFiltered = append(viewFiltered, cmds[i])
		}
	}

	cutoff := now.Add(-windowSpan(window))
	var inWindow []history.Command
	for i := range viewFiltered {
		if !viewFiltered[i].Timestamp.Before(cutoff) {
			inWindow = append(inWindow, viewFiltered[i])
		}
	}
	if len(inWindow) > 0 || len(viewFiltered) == 0 {
		return inWindow
	}

	// Nothing inside the window: fall back to the most recent records.
	limit := len(viewFiltered)
	switch window {
	case WindowDay:
		limit = 50
	case WindowWeek:
		limit = 200
	case WindowMonth:
		limit = 500
	}
	sort.SliceStable(viewFiltered, func(i, j int) bool {
		return viewFiltered[i].Timestamp.After(viewFiltered[j].Timestamp)
	})
	if len(viewFiltered) > limit {
		viewFiltered = viewFiltered[:limit]
	}
	return viewFiltered
}

func matchesView(c *history.Command, view View) bool {
	switch view {
	case ViewDangerous:
		return c.IsDangerous
	case ViewExperiments:
		return c.IsExperiment
	case ViewFailed:
		return c.Failed()
	default:
		return true
	}
}

func windowSpan(window Window) time.Duration {
	switch window {
	case WindowDay:
		return 24 * time.Hour
	case WindowWeek:
		return 7 * 24 * time.Hour
	case WindowMonth:
		return 30 * 24 * time.Hour
	default:
		return 365 * 24 * time.Hour
	}
}

// weekdayIndex maps Go's Sunday-first weekday onto a Monday-first column.
func weekdayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}

func workPatterns(cmds []history.Command) WorkPatterns {
	if len(cmds) == 0 {
		return WorkPatterns{}
	}

	var weekday, weekend, workHours, lateNight int
	for i := range cmds {
		hour := cmds[i].Timestamp.Hour()
		switch cmds[i].Timestamp.Weekday() {
		case time.Saturday, time.Sunday:
			weekend++
		default:
			weekday++
		}
		if hour >= 9 && hour < 17 {
			workHours++
		}
		if hour < 6 || hour >= 22 {
			lateNight++
		}
	}

	total := float64(len(cmds))
	return WorkPatterns{
		WeekdayRatio:   float64(weekday) / total,
		WeekendRatio:   float64(weekend) / total,
		WorkHoursRatio: float64(workHours) / total,
		LateNightRatio: float64(lateNight) / total,
	}
}
