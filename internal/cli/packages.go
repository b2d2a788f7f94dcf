package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/histlens/histlens/internal/analyze"
)

var packagesCmd = &cobra.Command{
	Use:   "packages",
	Short: "Show package manager activity",
	Long: `Break down package operations by manager: installs, removes, updates,
the most touched packages, usage trends and version conflicts.

  histlens packages
  histlens packages --scan`,
	RunE: packagesCommand,
}

func init() {
	addScanFlag(packagesCmd)
	rootCmd.AddCommand(packagesCmd)
}

func packagesCommand(cmd *cobra.Command, args []string) error {
	cmds, err := loadCommands(cmd.Context())
	if err != nil {
		return err
	}
	renderPackages(analyze.Packages(cmds))
	auditReport("packages", len(cmds))
	return nil
}

func renderPackages(p analyze.PackageAnalysis) {
	printHeader("Package Operations")

	fmt.Printf("  Operations:   %d\n", p.TotalOperations)
	fmt.Printf("  Health score: %s\n", healthText(p.HealthScore))
	fmt.Println()

	if p.TotalOperations == 0 {
		fmt.Println("  No package manager activity on record.")
		fmt.Println()
		return
	}

	for _, m := range p.Managers {
		printSection(m.Manager)
		fmt.Printf("  %d operations: %d installs, %d removes, %d updates\n",
			m.Total, m.Installs, m.Removes, m.Updates)
		for _, pkg := range m.TopPackages {
			line := fmt.Sprintf("  %-26s %d installs", truncate(pkg.Name, 26), pkg.InstallCount)
			if pkg.RemoveCount > 0 {
				line += fmt.Sprintf(", %d removes", pkg.RemoveCount)
			}
			if len(pkg.VersionsSeen) > 1 {
				line += dimStyle.Render(fmt.Sprintf("  %d versions", len(pkg.VersionsSeen)))
			}
			fmt.Println(line)
		}
		fmt.Println()
	}

	if len(p.Trends) > 0 {
		printSection("Trends")
		for _, tr := range p.Trends {
			fmt.Printf("  %s %s/%s: %d times over %d days\n",
				trendLabel(tr.Kind), tr.Manager, tr.Package, tr.Frequency, tr.SpanDays)
		}
		fmt.Println()
	}

	if len(p.Conflicts) > 0 {
		printSection("Version Conflicts")
		for _, c := range p.Conflicts {
			fmt.Printf("  ⚠  %s/%s: %s\n", c.Manager, c.Package, strings.Join(c.Versions, ", "))
			fmt.Printf("     %s\n", dimStyle.Render(c.Recommendation))
		}
		fmt.Println()
	}

	if len(p.Recommendations) > 0 {
		printSection("Recommendations")
		for _, rec := range p.Recommendations {
			fmt.Println("  • " + rec)
		}
		fmt.Println()
	}
}

func trendLabel(kind analyze.TrendKind) string {
	switch kind {
	case analyze.TrendFrequentInstalls:
		return infoStyle.Render("[frequent]")
	case analyze.TrendRepeatedInstalls:
		return warnStyle.Render("[repeated]")
	case analyze.TrendQuickRemoval:
		return warnStyle.Render("[short-lived]")
	default:
		return fmt.Sprintf("[%s]", kind)
	}
}
