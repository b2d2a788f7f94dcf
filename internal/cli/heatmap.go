package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/histlens/histlens/internal/analyze"
)

var (
	heatmapView   string
	heatmapWindow string
)

var heatmapCmd = &cobra.Command{
	Use:   "heatmap",
	Short: "Show an hour-by-weekday activity heatmap",
	Long: `Render command activity as an hour × weekday grid. The view filter
selects which commands count; the window bounds how far back to look.

  histlens heatmap
  histlens heatmap --view dangerous --window month`,
	RunE: heatmapCommand,
}

func init() {
	heatmapCmd.Flags().StringVar(&heatmapView, "view", "all", "View filter: all, dangerous, experiments or failed")
	heatmapCmd.Flags().StringVar(&heatmapWindow, "window", "week", "Time window: day, week, month or year")
	addScanFlag(heatmapCmd)
	rootCmd.AddCommand(heatmapCmd)
}

func heatmapCommand(cmd *cobra.Command, args []string) error {
	view, err := parseView(heatmapView)
	if err != nil {
		return err
	}
	window, err := parseWindow(heatmapWindow)
	if err != nil {
		return err
	}

	cmds, err := loadCommands(cmd.Context())
	if err != nil {
		return err
	}
	renderHeatmap(analyze.Heatmap(cmds, view, window, time.Now()), view, window)
	auditReport("heatmap", len(cmds))
	return nil
}

// parseView validates a --view value.
func parseView(s string) (analyze.View, error) {
	switch v := analyze.View(strings.ToLower(s)); v {
	case analyze.ViewAll, analyze.ViewDangerous, analyze.ViewExperiments, analyze.ViewFailed:
		return v, nil
	}
	return "", fmt.Errorf("unknown view %q (want all, dangerous, experiments or failed)", s)
}

// parseWindow validates a --window value.
func parseWindow(s string) (analyze.Window, error) {
	switch w := analyze.Window(strings.ToLower(s)); w {
	case analyze.WindowDay, analyze.WindowWeek, analyze.WindowMonth, analyze.WindowYear:
		return w, nil
	}
	return "", fmt.Errorf("unknown window %q (want day, week, month or year)", s)
}

// heatCell maps a normalized activity level to a block character.
func heatCell(level float64) string {
	switch {
	case level <= 0:
		return "·"
	case level < 0.25:
		return "░"
	case level < 0.5:
		return "▒"
	case level < 0.75:
		return "▓"
	default:
		return "█"
	}
}

func renderHeatmap(h analyze.HeatmapData, view analyze.View, window analyze.Window) {
	printHeader(fmt.Sprintf("Activity Heatmap  (%s, last %s)", view, window))

	if h.TotalCommands == 0 {
		fmt.Println("  No commands match this view and window.")
		fmt.Println()
		return
	}

	fmt.Println("         Mon  Tue  Wed  Thu  Fri  Sat  Sun")
	for hour := 0; hour < 24; hour++ {
		var b strings.Builder
		fmt.Fprintf(&b, "  %02d:00 ", hour)
		for day := 0; day < 7; day++ {
			b.WriteString("  ")
			b.WriteString(heatCell(h.Grid[hour][day]))
			b.WriteString("  ")
		}
		fmt.Println(b.String())
	}
	fmt.Println()
	fmt.Println(dimStyle.Render("  · none   ░ low   ▒ medium   ▓ high   █ peak"))
	fmt.Println()

	printSection("Work Patterns")
	fmt.Printf("  Commands:   %d\n", h.TotalCommands)
	fmt.Printf("  Peak:       %s %02d:00\n", h.PeakDay, h.PeakHour)
	fmt.Printf("  Weekdays:   %s\n", percentText(h.WorkPatterns.WeekdayRatio))
	fmt.Printf("  Weekends:   %s\n", percentText(h.WorkPatterns.WeekendRatio))
	fmt.Printf("  Work hours: %s\n", percentText(h.WorkPatterns.WorkHoursRatio))
	fmt.Printf("  Late night: %s\n", percentText(h.WorkPatterns.LateNightRatio))
	fmt.Println()
}
