package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/histlens/histlens/internal/analyze"
)

var aliasExport string

var aliasesCmd = &cobra.Command{
	Use:   "aliases",
	Short: "Suggest aliases for your most repeated commands",
	Long: `Find the long commands you type most and propose short aliases with
the keystrokes each one would save. --export prints ready-to-source
alias definitions instead of the report.

  histlens aliases
  histlens aliases --export zsh >> ~/.zshrc`,
	RunE: aliasesCommand,
}

func init() {
	aliasesCmd.Flags().StringVar(&aliasExport, "export", "", "Print alias definitions for a shell: bash, zsh or fish")
	addScanFlag(aliasesCmd)
	rootCmd.AddCommand(aliasesCmd)
}

func aliasesCommand(cmd *cobra.Command, args []string) error {
	cmds, err := loadCommands(cmd.Context())
	if err != nil {
		return err
	}
	report := analyze.Aliases(cmds)

	if aliasExport != "" {
		fmt.Print(analyze.ShellLines(report.Suggestions, aliasExport))
		return nil
	}

	renderAliases(report)
	auditReport("aliases", len(cmds))
	return nil
}

func renderAliases(a analyze.AliasAnalysis) {
	printHeader("Alias Suggestions")

	if len(a.Suggestions) == 0 {
		fmt.Println("  No alias-worthy commands found yet.")
		fmt.Println()
		return
	}

	printSection("Suggestions")
	for _, s := range a.Suggestions {
		// Pad before styling so ANSI codes stay out of the width math.
		alias := successStyle.Render(fmt.Sprintf("%-10s", s.Alias))
		fmt.Printf("  %s %-38s %4d uses  %s\n",
			alias, truncate(s.Command, 38), s.Frequency,
			dimStyle.Render(fmt.Sprintf("saves %d (%d/use)", s.TotalSaved, s.SavedPerUse)))
	}
	fmt.Println()
	fmt.Printf("  Potential savings: %d keystrokes (%.1f%% efficiency gain)\n",
		a.PotentialSavings, a.EfficiencyGain)
	fmt.Println()

	if len(a.ExistingAliases) > 0 {
		printSection("Short Commands In Use")
		type entry struct {
			name  string
			count int
		}
		entries := make([]entry, 0, len(a.ExistingAliases))
		for name, count := range a.ExistingAliases {
			entries = append(entries, entry{name, count})
		}
		sort.Slice(entries, func(i, j int) bool {
			if entries[i].count != entries[j].count {
				return entries[i].count > entries[j].count
			}
			return entries[i].name < entries[j].name
		})
		for _, e := range entries {
			fmt.Printf("  %-10s %d uses\n", e.name, e.count)
		}
		fmt.Println()
	}
}
