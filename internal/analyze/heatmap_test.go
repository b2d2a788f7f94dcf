package analyze

import (
	"testing"
	"time"

	"github.com/histlens/histlens/internal/history"
)

// 2024-03-04 is a Monday.
var heatmapNow = time.Date(2024, 3, 4, 15, 0, 0, 0, time.UTC)

func TestHeatmap_EmptyInput(t *testing.T) {
	h := Heatmap(nil, ViewAll, WindowWeek, heatmapNow)

	if h.TotalCommands != 0 || h.MaxActivity != 0 {
		t.Errorf("total/max = %d/%v, want 0/0", h.TotalCommands, h.MaxActivity)
	}
	for hour := 0; hour < 24; hour++ {
		for day := 0; day < 7; day++ {
			if h.Grid[hour][day] != 0 {
				t.Fatalf("grid[%d][%d] = %v, want 0", hour, day, h.Grid[hour][day])
			}
		}
	}
}

func TestHeatmap_GridPlacementAndNormalization(t *testing.T) {
	monday10 := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)
	saturday22 := time.Date(2024, 3, 2, 22, 0, 0, 0, time.UTC)

	cmds := []history.Command{
		cmd("ls", monday10),
		cmd("pwd", monday10.Add(time.Minute)),
		cmd("make", saturday22),
	}

	h := Heatmap(cmds, ViewAll, WindowWeek, heatmapNow)
	if h.TotalCommands != 3 {
		t.Fatalf("TotalCommands = %d, want 3", h.TotalCommands)
	}
	if h.MaxActivity != 2 {
		t.Errorf("MaxActivity = %v, want 2", h.MaxActivity)
	}
	// Monday is column 0, Saturday column 5.
	if h.Grid[10][0] != 1.0 {
		t.Errorf("grid[10][Mon] = %v, want 1.0", h.Grid[10][0])
	}
	if h.Grid[22][5] != 0.5 {
		t.Errorf("grid[22][Sat] = %v, want 0.5", h.Grid[22][5])
	}
	if h.PeakHour != 10 || h.PeakDay != time.Monday {
		t.Errorf("peak = %d/%v", h.PeakHour, h.PeakDay)
	}
}

func TestHeatmap_ViewFilters(t *testing.T) {
	ts := heatmapNow.Add(-time.Hour)
	d := cmd("rm -rf /", ts)
	d.IsDangerous = true
	e := cmd("man jq", ts)
	e.IsExperiment = true
	one := 1
	f := cmd("make test", ts)
	f.ExitCode = &one
	plain := cmd("ls", ts)

	cmds := []history.Command{d, e, f, plain}

	tests := []struct {
		view View
		want int
	}{
		{ViewAll, 4},
		{ViewDangerous, 1},
		{ViewExperiments, 1},
		{ViewFailed, 1},
	}
	for _, tt := range tests {
		t.Run(string(tt.view), func(t *testing.T) {
			h := Heatmap(cmds, tt.view, WindowWeek, heatmapNow)
			if h.TotalCommands != tt.want {
				t.Errorf("TotalCommands = %d, want %d", h.TotalCommands, tt.want)
			}
		})
	}
}

func TestHeatmap_WindowCutoff(t *testing.T) {
	cmds := []history.Command{
		cmd("ls", heatmapNow.Add(-2*time.Hour)),
		cmd("pwd", heatmapNow.Add(-8*24*time.Hour)),
	}

	h := Heatmap(cmds, ViewAll, WindowWeek, heatmapNow)
	if h.TotalCommands != 1 {
		t.Errorf("TotalCommands = %d, want 1 (old command outside window)", h.TotalCommands)
	}
}

func TestHeatmap_FallbackToRecent(t *testing.T) {
	// Everything predates the day window; the day view falls back to the
	// most recent records instead of rendering an empty grid.
	var cmds []history.Command
	for i := 0; i < 60; i++ {
		cmds = append(cmds, cmd("ls", heatmapNow.Add(-time.Duration(i+3)*24*time.Hour)))
	}

	h := Heatmap(cmds, ViewAll, WindowDay, heatmapNow)
	if h.TotalCommands != 50 {
		t.Errorf("TotalCommands = %d, want 50 recent fallback records", h.TotalCommands)
	}
}

func TestHeatmap_NoFallbackWhenViewEmpty(t *testing.T) {
	cmds := []history.Command{cmd("ls", heatmapNow.Add(-100*24*time.Hour))}

	h := Heatmap(cmds, ViewDangerous, WindowDay, heatmapNow)
	if h.TotalCommands != 0 {
		t.Errorf("TotalCommands = %d, want 0 (view filter emptied the set)", h.TotalCommands)
	}
}

func TestWeekdayIndex(t *testing.T) {
	tests := []struct {
		day  time.Weekday
		want int
	}{
		{time.Monday, 0},
		{time.Tuesday, 1},
		{time.Friday, 4},
		{time.Saturday, 5},
		{time.Sunday, 6},
	}
	for _, tt := range tests {
		if got := weekdayIndex(tt.day); got != tt.want {
			t.Errorf("weekdayIndex(%v) = %d, want %d", tt.day, got, tt.want)
		}
	}
}

func TestWorkPatterns(t *testing.T) {
	cmds := []history.Command{
		cmd("ls", time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)),  // Monday work hours
		cmd("pwd", time.Date(2024, 3, 4, 23, 0, 0, 0, time.UTC)), // Monday late night
		cmd("make", time.Date(2024, 3, 2, 11, 0, 0, 0, time.UTC)), // Saturday work hours
		cmd("top", time.Date(2024, 3, 3, 3, 0, 0, 0, time.UTC)),  // Sunday late night
	}

	p := workPatterns(cmds)
	if p.WeekdayRatio != 0.5 || p.WeekendRatio != 0.5 {
		t.Errorf("weekday/weekend = %v/%v, want 0.5/0.5", p.WeekdayRatio, p.WeekendRatio)
	}
	if p.WorkHoursRatio != 0.5 {
		t.Errorf("WorkHoursRatio = %v, want 0.5", p.WorkHoursRatio)
	}
	if p.LateNightRatio != 0.5 {
		t.Errorf("LateNightRatio = %v, want 0.5", p.LateNightRatio)
	}
}
