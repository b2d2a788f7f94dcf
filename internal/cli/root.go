// Package cli wires the histlens commands: import, the report family,
// search, and configuration management. Commands share one loaded
// config and one zap logger, both initialized before any RunE fires.
package cli

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/histlens/histlens/internal/audit"
	"github.com/histlens/histlens/internal/config"
	"github.com/histlens/histlens/internal/detect"
	"github.com/histlens/histlens/internal/history"
	"github.com/histlens/histlens/internal/logging"
	"github.com/histlens/histlens/internal/store"
)

var (
	configPath string
	dbPath     string
	verbose    bool
	scanFiles  bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "histlens",
	Short: "histlens - Analytics for your shell history",
	Long: `histlens ingests bash, zsh and fish history files, enriches every
command with network, package, danger and experiment annotations, and
renders reports over the result: usage statistics, risky commands,
package operations, network endpoints, an activity heatmap, alias
suggestions and learning patterns.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			path = config.DefaultPath()
		}
		var err error
		if cfg, err = config.Load(path); err != nil {
			return err
		}
		if dbPath != "" {
			cfg.Database = config.ExpandPath(dbPath)
		}
		if logger, err = logging.New(cfg.Logging.Level, verbose); err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config YAML file (default: ~/.histlens/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to SQLite database (default: from config)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// addScanFlag registers --scan on a report command: parse the history
// files directly instead of reading the database.
func addScanFlag(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&scanFiles, "scan", false, "Analyze history files directly instead of the database")
}

func openStore() (*store.Store, error) {
	return store.Open(cfg.Database, store.Options{RedactCredentials: cfg.RedactionEnabled})
}

// historySources resolves the history files to read. Configured paths
// win; without any, the conventional per-shell locations under the home
// directory are used.
func historySources() []history.Source {
	if len(cfg.HistoryPaths) == 0 {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		return history.DefaultSources(home)
	}
	sources := make([]history.Source, 0, len(cfg.HistoryPaths))
	for _, path := range cfg.HistoryPaths {
		sources = append(sources, history.Source{Shell: inferShell(path), Path: path})
	}
	return sources
}

// inferShell guesses the history format from a file path. Bash is the
// fallback: its parser accepts any plain line-per-command file.
func inferShell(path string) string {
	name := strings.ToLower(filepath.Base(path))
	switch {
	case strings.Contains(name, "zsh"):
		return history.ShellZsh
	case strings.Contains(name, "fish"):
		return history.ShellFish
	default:
		return history.ShellBash
	}
}

// loadCommands returns the records the report commands analyze, oldest
// first. With --scan the history files are parsed directly; otherwise
// records come from the database, preceded by a refresh import when
// auto_import is configured.
func loadCommands(ctx context.Context) ([]history.Command, error) {
	if scanFiles {
		return history.ParseAllHistories(ctx, historySources(), detect.DefaultRuleset())
	}

	if cfg.AutoImport {
		if _, _, err := runImport(ctx, historySources()); err != nil {
			return nil, err
		}
	}

	s, err := openStore()
	if err != nil {
		return nil, err
	}
	defer s.Close()

	cmds, err := s.LoadCommands(ctx, 0)
	if err != nil {
		return nil, err
	}

	// The database returns newest first; the analyzers expect
	// chronological order.
	sort.SliceStable(cmds, func(i, j int) bool {
		return cmds[i].Timestamp.Before(cmds[j].Timestamp)
	})
	return cmds, nil
}

// auditEvent appends one event to the audit trail. Audit failures are
// logged at debug and never fail the command.
func auditEvent(event audit.Event) {
	log, err := audit.New(cfg.AuditLog)
	if err != nil {
		logger.Debug("audit log unavailable", zap.Error(err))
		return
	}
	defer log.Close()
	if err := log.Log(event); err != nil {
		logger.Debug("audit write failed", zap.Error(err))
	}
}

func auditReport(analyzer string, commands int) {
	auditEvent(audit.Event{Action: "report", Source: analyzer, Commands: commands})
}
