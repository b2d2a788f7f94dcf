package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/histlens/histlens/internal/analyze"
)

var dangerCmd = &cobra.Command{
	Use:   "danger",
	Short: "Show dangerous commands and safety recommendations",
	Long: `List the riskiest commands in your history with the reasons they were
flagged, safer alternatives where one is known, and the recent trend of
dangerous activity.

  histlens danger
  histlens danger --scan`,
	RunE: dangerCommand,
}

func init() {
	addScanFlag(dangerCmd)
	rootCmd.AddCommand(dangerCmd)
}

func dangerCommand(cmd *cobra.Command, args []string) error {
	cmds, err := loadCommands(cmd.Context())
	if err != nil {
		return err
	}
	renderDanger(analyze.Danger(cmds), len(cmds))
	auditReport("danger", len(cmds))
	return nil
}

func renderDanger(d analyze.DangerAnalysis, total int) {
	printHeader("Dangerous Commands")

	fmt.Printf("  Dangerous:    %d of %d commands\n", d.TotalDangerous, total)
	fmt.Printf("  Safety score: %s\n", healthText(d.SafetyScore))
	fmt.Println()

	if d.TotalDangerous == 0 {
		fmt.Println("  ✅ No dangerous commands on record.")
		fmt.Println()
		return
	}

	if len(d.ByReason) > 0 {
		printSection("By Reason")
		type entry struct {
			reason string
			count  int
		}
		entries := make([]entry, 0, len(d.ByReason))
		for reason, count := range d.ByReason {
			entries = append(entries, entry{reason, count})
		}
		sort.Slice(entries, func(i, j int) bool {
			if entries[i].count != entries[j].count {
				return entries[i].count > entries[j].count
			}
			return entries[i].reason < entries[j].reason
		})
		for _, e := range entries {
			fmt.Printf("  %-40s %d\n", e.reason, e.count)
		}
		fmt.Println()
	}

	if len(d.TopRisky) > 0 {
		printSection("Riskiest Commands")
		for i, rc := range d.TopRisky {
			count := ""
			if rc.Count > 1 {
				count = fmt.Sprintf(" ×%d", rc.Count)
			}
			fmt.Printf("  %2d. %s  %s%s\n", i+1, dangerText(rc.MaxScore), truncate(rc.Command, 42), count)
			if len(rc.Reasons) > 0 {
				fmt.Printf("      %s\n", dimStyle.Render(strings.Join(rc.Reasons, "; ")))
			}
			for _, alt := range rc.Alternatives {
				fmt.Printf("      try: %s\n", successStyle.Render(alt))
			}
		}
		fmt.Println()
	}

	if len(d.Trends) > 0 {
		printSection("Recent Days")
		trends := d.Trends
		if len(trends) > 14 {
			trends = trends[len(trends)-14:]
		}
		for _, tr := range trends {
			line := fmt.Sprintf("  %s  %4d commands", tr.Date, tr.Total)
			if tr.Dangerous > 0 {
				line += dangerStyle.Render(fmt.Sprintf("  %d dangerous (%s)", tr.Dangerous, percentText(tr.Ratio)))
			}
			fmt.Println(line)
		}
		fmt.Println()
	}

	if len(d.Recommendations) > 0 {
		printSection("Recommendations")
		for _, rec := range d.Recommendations {
			fmt.Println("  ⚠  " + rec)
		}
		fmt.Println()
	}
}
