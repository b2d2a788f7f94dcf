package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/histlens/histlens/internal/analyze"
	"github.com/histlens/histlens/internal/history"
)

// reportCache keeps the combined report fresh across renders within one
// process.
var reportCache = analyze.NewCache()

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Run every analyzer and render the combined report",
	Long: `Produce the whole picture in one pass: statistics, dangerous
commands, package operations, network activity, the weekly heatmap,
alias suggestions and learning patterns.

  histlens report
  histlens report --scan`,
	RunE: reportCommand,
}

func init() {
	addScanFlag(reportCmd)
	rootCmd.AddCommand(reportCmd)
}

func reportCommand(cmd *cobra.Command, args []string) error {
	cmds, err := loadCommands(cmd.Context())
	if err != nil {
		return err
	}

	report, err := fullReport(cmd.Context(), cmds)
	if err != nil {
		return err
	}

	renderStats(report.Stats)
	renderDanger(report.Danger, len(cmds))
	renderPackages(report.Packages)
	renderNetwork(report.Network)
	renderHeatmap(report.Heatmap, analyze.ViewAll, analyze.WindowWeek)
	renderAliases(report.Aliases)
	renderExperiments(report.Experiments)
	auditReport("full", len(cmds))
	return nil
}

// fullReport consults the cache before fanning the analyzers out.
func fullReport(ctx context.Context, cmds []history.Command) (*analyze.FullReport, error) {
	if report, ok := reportCache.Get(time.Now()); ok {
		return report, nil
	}
	report, err := analyze.NewEngine().Analyze(ctx, cmds)
	if err != nil {
		return nil, err
	}
	reportCache.Put(report, time.Now())
	return report, nil
}
