package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/histlens/histlens/internal/analyze"
)

var experimentsCmd = &cobra.Command{
	Use:   "experiments",
	Short: "Show learning sessions and knowledge gaps",
	Long: `Surface the sessions you spent exploring new tools, the learning
patterns behind them (help lookups, trial and error), and the tools
where repeated failures suggest a knowledge gap.

  histlens experiments
  histlens experiments --scan`,
	RunE: experimentsCommand,
}

func init() {
	addScanFlag(experimentsCmd)
	rootCmd.AddCommand(experimentsCmd)
}

func experimentsCommand(cmd *cobra.Command, args []string) error {
	cmds, err := loadCommands(cmd.Context())
	if err != nil {
		return err
	}
	renderExperiments(analyze.Experiments(cmds))
	auditReport("experiments", len(cmds))
	return nil
}

func renderExperiments(e analyze.ExperimentAnalysis) {
	printHeader("Learning & Experiments")

	fmt.Printf("  Experimental commands: %d\n", e.TotalExperiments)
	fmt.Println()

	if e.TotalExperiments == 0 {
		fmt.Println("  No experimental activity on record.")
		fmt.Println()
		return
	}

	if len(e.Sessions) > 0 {
		printSection("Experiment Sessions")
		for _, s := range e.Sessions {
			fmt.Printf("  %s  %s, %d commands, %s experimental\n",
				s.Start.Format("2006-01-02 15:04"), durationLabel(s.DurationMinutes),
				s.CommandCount, percentText(s.ExperimentRatio))
			detail := "focus " + s.PrimaryFocus
			if len(s.ToolsExplored) > 0 {
				detail += "  tools " + strings.Join(s.ToolsExplored, ", ")
			}
			fmt.Printf("      %s\n", dimStyle.Render(detail))
			for _, ind := range s.Indicators {
				fmt.Printf("      %s\n", dimStyle.Render(ind))
			}
		}
		fmt.Println()
	}

	if len(e.Patterns) > 0 {
		printSection("Learning Patterns")
		for _, p := range e.Patterns {
			fmt.Printf("  %s ×%d  %s\n",
				p.Description, p.Frequency,
				dimStyle.Render(fmt.Sprintf("confidence %.0f%%", p.Confidence*100)))
			if len(p.Tools) > 0 {
				fmt.Printf("      %s\n", dimStyle.Render(strings.Join(p.Tools, ", ")))
			}
		}
		fmt.Println()
	}

	if len(e.ToolExploration) > 0 {
		printSection("Tools Explored")
		for _, tool := range e.ToolExploration {
			fmt.Printf("  %-14s %3d commands, %d help, %d trials, %s success\n",
				tool.Tool, len(tool.Commands), tool.HelpCount, tool.TestCount,
				percentText(tool.SuccessRate))
		}
		fmt.Println()
	}

	if len(e.KnowledgeGaps) > 0 {
		printSection("Knowledge Gaps")
		for _, gap := range e.KnowledgeGaps {
			fmt.Printf("  %s %s: %s\n",
				severityText(gap.Priority), gap.Area, strings.Join(gap.Indicators, "; "))
			for _, res := range gap.Resources {
				fmt.Printf("      %s\n", dimStyle.Render(res))
			}
		}
		fmt.Println()
	}

	if len(e.Recommendations) > 0 {
		printSection("Recommendations")
		for _, rec := range e.Recommendations {
			fmt.Println("  • " + rec)
		}
		fmt.Println()
	}
}
