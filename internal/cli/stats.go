package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/histlens/histlens/internal/analyze"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show usage statistics for your shell history",
	Long: `Aggregate usage statistics over the imported history: totals, success
rate, busiest hour and day, most used commands, shell and host
distribution, and a productivity read with suggestions.

  histlens stats
  histlens stats --scan`,
	RunE: statsCommand,
}

func init() {
	addScanFlag(statsCmd)
	rootCmd.AddCommand(statsCmd)
}

func statsCommand(cmd *cobra.Command, args []string) error {
	cmds, err := loadCommands(cmd.Context())
	if err != nil {
		return err
	}
	renderStats(analyze.Stats(cmds))
	auditReport("stats", len(cmds))
	return nil
}

func renderStats(s analyze.CommandStats) {
	printHeader("Command Statistics")

	fmt.Printf("  Commands:     %d total, %d unique\n", s.TotalCommands, s.UniqueCommands)
	fmt.Printf("  Success rate: %s\n", percentText(s.SuccessRate))
	if s.AverageDuration != nil {
		fmt.Printf("  Avg duration: %s\n", formatMillis(*s.AverageDuration))
	}
	fmt.Printf("  Per day:      %.1f\n", s.CommandsPerDay)
	fmt.Printf("  Peak time:    %s %02d:00\n", s.MostActiveDay, s.MostActiveHour)
	fmt.Printf("  Complexity:   %.2f\n", s.AverageComplexity)
	fmt.Printf("  Productivity: %s\n", scoreText(s.ProductivityScore))
	fmt.Println()

	if len(s.TopCommands) > 0 {
		printSection("Top Commands")
		for i, tc := range s.TopCommands {
			fmt.Printf("  %2d. %-36s %4d  %s\n",
				i+1, truncate(tc.Command, 36), tc.Count,
				dimStyle.Render(fmt.Sprintf("%.1f%%", tc.Percentage)))
		}
		fmt.Println()
	}

	if len(s.ShellDistribution) > 0 {
		printSection("Shells")
		printDistribution(s.ShellDistribution, s.TotalCommands)
		fmt.Println()
	}

	if len(s.HostDistribution) > 1 {
		printSection("Hosts")
		printDistribution(s.HostDistribution, s.TotalCommands)
		fmt.Println()
	}

	if len(s.Indicators) > 0 {
		printSection("Efficiency")
		for _, ind := range s.Indicators {
			fmt.Println("  ✅ " + ind)
		}
		fmt.Println()
	}

	if len(s.Suggestions) > 0 {
		printSection("Suggestions")
		for _, sug := range s.Suggestions {
			fmt.Println("  • " + sug)
		}
		fmt.Println()
	}
}

// printDistribution lists counts largest first with a share bar.
func printDistribution(counts map[string]int, total int) {
	type entry struct {
		name  string
		count int
	}
	entries := make([]entry, 0, len(counts))
	for name, count := range counts {
		entries = append(entries, entry{name, count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].name < entries[j].name
	})

	for _, e := range entries {
		share := float64(e.count) / float64(total)
		fmt.Printf("  %-22s %5d  %-20s %s\n",
			truncate(e.name, 22), e.count,
			bar(float64(e.count), float64(total), 20), percentText(share))
	}
}
