package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/histlens/histlens/internal/config"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show histlens status: history files, database, audit log",
	Long: `Check what histlens can see: which history files exist, whether the
database has been populated, and where config and audit live.

  histlens status`,
	RunE: statusCommand,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func statusCommand(cmd *cobra.Command, args []string) error {
	printHeader("histlens Status")

	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	fmt.Printf("  Version:  %s\n", Version)
	fmt.Printf("  Config:   %s", collapseHome(path))
	if _, err := os.Stat(path); err != nil {
		fmt.Print(dimStyle.Render("  (defaults, no file)"))
	}
	fmt.Println()
	fmt.Println()

	printSection("History Files")
	for _, src := range historySources() {
		info, err := os.Stat(src.Path)
		if err != nil {
			fmt.Printf("  ⬚  %-5s %s\n", src.Shell, collapseHome(src.Path))
			continue
		}
		fmt.Printf("  ✅ %-5s %-38s %s\n", src.Shell, collapseHome(src.Path), sizeLabel(info.Size()))
	}
	fmt.Println()

	printSection("Database")
	if _, err := os.Stat(cfg.Database); err != nil {
		fmt.Printf("  ⬚  %s (run 'histlens import')\n", collapseHome(cfg.Database))
	} else {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()
		sum, err := s.Summary(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("  ✅ %s\n", collapseHome(cfg.Database))
		fmt.Printf("     %d commands, %d sessions, %d hosts\n", sum.Commands, sum.Sessions, sum.Hosts)
		if sum.Dangerous > 0 {
			fmt.Printf("     %s\n", dangerStyle.Render(fmt.Sprintf("%d dangerous", sum.Dangerous)))
		}
		if sum.Experiments > 0 {
			fmt.Printf("     %d experiments\n", sum.Experiments)
		}
	}
	fmt.Println()

	printSection("Audit Log")
	if info, err := os.Stat(cfg.AuditLog); err != nil {
		fmt.Printf("  ⬚  %s (no events yet)\n", collapseHome(cfg.AuditLog))
	} else {
		fmt.Printf("  ✅ %-38s %s\n", collapseHome(cfg.AuditLog), sizeLabel(info.Size()))
	}
	fmt.Println()

	fmt.Printf("  Redaction: %s   Auto-import: %s\n", onOff(cfg.RedactionEnabled), onOff(cfg.AutoImport))
	return nil
}

func onOff(b bool) string {
	if b {
		return successStyle.Render("on")
	}
	return dimStyle.Render("off")
}

// sizeLabel renders a byte count human-readably.
func sizeLabel(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
