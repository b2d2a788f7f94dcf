package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/histlens/histlens/internal/audit"
	"github.com/histlens/histlens/internal/config"
	"github.com/histlens/histlens/internal/detect"
	"github.com/histlens/histlens/internal/history"
	"github.com/histlens/histlens/internal/store"
)

var (
	importFrom  string
	importShell string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import shell history into the database",
	Long: `Parse the configured history files (or a single file via --from),
enrich every command and persist the result. Credential-looking values
are redacted before storage when redaction is enabled, and records
already in the database are skipped.

  histlens import
  histlens import --from ~/.histfile --shell zsh`,
	RunE: importCommand,
}

func init() {
	importCmd.Flags().StringVar(&importFrom, "from", "", "Import a single history file instead of the configured paths")
	importCmd.Flags().StringVar(&importShell, "shell", "", "Shell format for --from: bash, zsh or fish (inferred when empty)")
	rootCmd.AddCommand(importCmd)
}

func importCommand(cmd *cobra.Command, args []string) error {
	sources := historySources()
	if importFrom != "" {
		path := config.ExpandPath(importFrom)
		shell := importShell
		if shell == "" {
			shell = inferShell(path)
		}
		switch shell {
		case history.ShellBash, history.ShellZsh, history.ShellFish:
		default:
			return fmt.Errorf("unknown shell %q (want bash, zsh or fish)", shell)
		}
		sources = []history.Source{{Shell: shell, Path: path}}
	}

	printHeader("History Import")

	result, counts, err := runImport(cmd.Context(), sources)
	if err != nil {
		return err
	}

	for _, src := range sources {
		icon := "✅"
		if counts[src.Path] == 0 {
			icon = "⬚ "
		}
		fmt.Printf("  %s %-5s %-38s %d commands\n", icon, src.Shell, collapseHome(src.Path), counts[src.Path])
	}
	fmt.Println()

	fmt.Printf("  Saved %d new commands to %s", result.Saved, collapseHome(cfg.Database))
	if result.Redacted > 0 {
		fmt.Printf(" (%d redacted)", result.Redacted)
	}
	fmt.Println()
	return nil
}

// runImport parses the sources, persists everything in one batch, and
// records the run in the audit trail. Parsed counts come back keyed by
// source path.
func runImport(ctx context.Context, sources []history.Source) (store.SaveResult, map[string]int, error) {
	rules := detect.DefaultRuleset()

	counts := make(map[string]int, len(sources))
	var all []history.Command
	for _, src := range sources {
		cmds, err := history.ParseFile(ctx, src, rules)
		if err != nil {
			auditEvent(audit.Event{Action: "import", Source: src.Shell, Error: err.Error()})
			return store.SaveResult{}, nil, fmt.Errorf("parse %s: %w", src.Path, err)
		}
		counts[src.Path] = len(cmds)
		all = append(all, cmds...)
	}

	s, err := openStore()
	if err != nil {
		return store.SaveResult{}, nil, err
	}
	defer s.Close()

	result, err := s.SaveCommands(ctx, all)
	if err != nil {
		auditEvent(audit.Event{Action: "import", Error: err.Error()})
		return store.SaveResult{}, nil, err
	}
	if result.Saved > 0 {
		reportCache.Invalidate()
	}

	shells := make([]string, 0, len(sources))
	for _, src := range sources {
		shells = append(shells, src.Shell)
	}
	logger.Info("history imported",
		zap.Int("parsed", len(all)),
		zap.Int("saved", result.Saved),
		zap.Int("redacted", result.Redacted),
		zap.Strings("shells", shells))
	auditEvent(audit.Event{
		Action:   "import",
		Source:   strings.Join(shells, ","),
		Commands: result.Saved,
		Redacted: result.Redacted,
	})
	return result, counts, nil
}
