package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/histlens/histlens/internal/analyze"
)

var networkCmd = &cobra.Command{
	Use:   "network",
	Short: "Show network activity and security issues",
	Long: `Summarize the endpoints your commands talked to, the protocols in
play, and any risky usage: plain-HTTP transfers, credentials on the
command line, piped remote scripts.

  histlens network
  histlens network --scan`,
	RunE: networkCommand,
}

func init() {
	addScanFlag(networkCmd)
	rootCmd.AddCommand(networkCmd)
}

func networkCommand(cmd *cobra.Command, args []string) error {
	cmds, err := loadCommands(cmd.Context())
	if err != nil {
		return err
	}
	renderNetwork(analyze.Network(cmds))
	auditReport("network", len(cmds))
	return nil
}

func renderNetwork(n analyze.NetworkAnalysis) {
	printHeader("Network Activity")

	fmt.Printf("  Network commands: %d\n", n.TotalNetworkCommands)
	fmt.Printf("  Unique endpoints: %d\n", n.UniqueEndpoints)
	fmt.Printf("  Security score:   %s\n", healthText(n.SecurityScore))
	fmt.Println()

	if n.TotalNetworkCommands == 0 {
		fmt.Println("  No network activity on record.")
		fmt.Println()
		return
	}

	if len(n.ProtocolBreakdown) > 0 {
		printSection("Protocols")
		type entry struct {
			protocol string
			count    int
		}
		entries := make([]entry, 0, len(n.ProtocolBreakdown))
		for protocol, count := range n.ProtocolBreakdown {
			entries = append(entries, entry{protocol, count})
		}
		sort.Slice(entries, func(i, j int) bool {
			if entries[i].count != entries[j].count {
				return entries[i].count > entries[j].count
			}
			return entries[i].protocol < entries[j].protocol
		})
		for _, e := range entries {
			fmt.Printf("  %-8s %d\n", e.protocol, e.count)
		}
		fmt.Println()
	}

	if len(n.TopEndpoints) > 0 {
		printSection("Top Endpoints")
		for _, ep := range n.TopEndpoints {
			icon := "✅"
			if !ep.Secure {
				icon = "⚠ "
			}
			fmt.Printf("  %s %-36s %-6s %3d uses\n",
				icon, truncate(ep.Endpoint, 36), ep.Protocol, ep.UseCount)
		}
		fmt.Println()
	}

	if len(n.Issues) > 0 {
		printSection("Security Issues")
		for _, issue := range n.Issues {
			fmt.Printf("  %s %s\n", severityText(issue.Severity), issue.Description)
			for _, affected := range issue.AffectedCommands {
				fmt.Printf("      %s\n", dimStyle.Render(truncate(affected, 60)))
			}
			fmt.Printf("      fix: %s\n", issue.Recommendation)
		}
		fmt.Println()
	}

	if len(n.Patterns) > 0 {
		printSection("Patterns")
		for _, pat := range n.Patterns {
			fmt.Printf("  %s %s ×%d\n", severityText(pat.Risk), pat.Description, pat.Frequency)
		}
		fmt.Println()
	}
}
