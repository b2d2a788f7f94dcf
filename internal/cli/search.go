package cli

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/histlens/histlens/internal/history"
)

var (
	searchQuery       string
	searchHost        string
	searchDangerous   bool
	searchExperiments bool
	searchFailed      bool
	searchSort        string
	searchLast        int
	searchInteractive bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the imported history",
	Long: `Filter the imported history by text, host and annotations. The
interactive mode keeps a readline prompt open; plain input replaces the
text query and slash commands adjust the other filters.

  histlens search docker
  histlens search --dangerous --last 20
  histlens search --interactive`,
	Args: cobra.ArbitraryArgs,
	RunE: searchCommand,
}

func init() {
	searchCmd.Flags().StringVar(&searchQuery, "query", "", "Substring to match, case-insensitive")
	searchCmd.Flags().StringVar(&searchHost, "host", "", "Only commands run on this host")
	searchCmd.Flags().BoolVar(&searchDangerous, "dangerous", false, "Only dangerous commands")
	searchCmd.Flags().BoolVar(&searchExperiments, "experiments", false, "Only experimental commands")
	searchCmd.Flags().BoolVar(&searchFailed, "failed", false, "Only commands that exited non-zero")
	searchCmd.Flags().StringVar(&searchSort, "sort", "time", "Sort order: time or name")
	searchCmd.Flags().IntVar(&searchLast, "last", 0, "Keep only the first N results (0 keeps all)")
	searchCmd.Flags().BoolVar(&searchInteractive, "interactive", false, "Open an interactive search prompt")
	rootCmd.AddCommand(searchCmd)
}

// searchFilter is the full filter state for one search pass.
type searchFilter struct {
	Query       string
	Host        string
	Dangerous   bool
	Experiments bool
	Failed      bool
	Sort        string
	Last        int
}

func searchCommand(cmd *cobra.Command, args []string) error {
	if searchSort != "time" && searchSort != "name" {
		return fmt.Errorf("unknown sort %q (want time or name)", searchSort)
	}
	if searchQuery == "" && len(args) > 0 {
		searchQuery = strings.Join(args, " ")
	}

	cmds, err := loadCommands(cmd.Context())
	if err != nil {
		return err
	}

	if searchInteractive {
		return searchREPL(cmds)
	}

	filter := searchFilter{
		Query:       searchQuery,
		Host:        searchHost,
		Dangerous:   searchDangerous,
		Experiments: searchExperiments,
		Failed:      searchFailed,
		Sort:        searchSort,
		Last:        searchLast,
	}
	renderSearchResults(filterCommands(cmds, filter))
	auditReport("search", len(cmds))
	return nil
}

// filterCommands applies the filter and sort. Time sort is newest
// first; name sort is alphabetical. Last truncates after sorting.
func filterCommands(cmds []history.Command, f searchFilter) []history.Command {
	query := strings.ToLower(f.Query)

	out := make([]history.Command, 0, len(cmds))
	for i := range cmds {
		c := cmds[i]
		if query != "" && !strings.Contains(strings.ToLower(c.Command), query) {
			continue
		}
		if f.Host != "" && c.HostID != f.Host {
			continue
		}
		if f.Dangerous && !c.IsDangerous {
			continue
		}
		if f.Experiments && !c.IsExperiment {
			continue
		}
		if f.Failed && !c.Failed() {
			continue
		}
		out = append(out, c)
	}

	switch f.Sort {
	case "name":
		sort.SliceStable(out, func(i, j int) bool { return out[i].Command < out[j].Command })
	default:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	}

	if f.Last > 0 && len(out) > f.Last {
		out = out[:f.Last]
	}
	return out
}

func renderSearchResults(cmds []history.Command) {
	if len(cmds) == 0 {
		fmt.Println("  No matching commands.")
		return
	}

	width := terminalWidth() - 24
	for i := range cmds {
		c := &cmds[i]
		status := " "
		if c.Failed() {
			status = dangerStyle.Render("✗")
		} else if c.Succeeded() {
			status = successStyle.Render("✓")
		}
		marker := " "
		if c.IsDangerous {
			marker = dangerStyle.Render("!")
		} else if c.IsExperiment {
			marker = infoStyle.Render("?")
		}
		fmt.Printf("  %s %s%s %s\n",
			dimStyle.Render(c.Timestamp.Format("2006-01-02 15:04")),
			status, marker, truncate(c.Command, width))
	}
	fmt.Printf("\n  %d matching commands\n", len(cmds))
}

// searchREPL runs the interactive loop. Filters accumulate across
// inputs; bare text replaces the query, slash commands toggle the rest.
func searchREPL(cmds []history.Command) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "search> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("open interactive prompt: %w", err)
	}
	defer rl.Close()

	filter := searchFilter{Sort: "time", Last: 25}
	fmt.Println("Interactive search over", len(cmds), "commands. /help lists commands, /quit leaves.")
	fmt.Println()
	renderSearchResults(filterCommands(cmds, filter))

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				// Ctrl+C at the prompt clears the line only.
				continue
			}
			if err == io.EOF {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		switch {
		case line == "":
			continue
		case line == "/quit" || line == "/q" || line == "/exit":
			return nil
		case line == "/help":
			printSearchHelp()
			continue
		case line == "/clear":
			filter = searchFilter{Sort: "time", Last: 25}
		case strings.HasPrefix(line, "/"):
			if err := applyFilterCommand(line, &filter); err != nil {
				fmt.Println("  " + err.Error())
				continue
			}
		default:
			filter.Query = line
		}
		renderSearchResults(filterCommands(cmds, filter))
	}
}

// applyFilterCommand mutates the filter per one slash command.
func applyFilterCommand(line string, f *searchFilter) error {
	fields := strings.Fields(line)
	switch fields[0] {
	case "/host":
		if len(fields) < 2 {
			f.Host = ""
			return nil
		}
		f.Host = fields[1]
	case "/dangerous":
		f.Dangerous = !f.Dangerous
	case "/experiments":
		f.Experiments = !f.Experiments
	case "/failed":
		f.Failed = !f.Failed
	case "/sort":
		if len(fields) < 2 || (fields[1] != "time" && fields[1] != "name") {
			return fmt.Errorf("usage: /sort time|name")
		}
		f.Sort = fields[1]
	case "/last":
		if len(fields) < 2 {
			return fmt.Errorf("usage: /last N")
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil || n < 0 {
			return fmt.Errorf("usage: /last N")
		}
		f.Last = n
	default:
		return fmt.Errorf("unknown command %s (try /help)", fields[0])
	}
	return nil
}

func printSearchHelp() {
	fmt.Println("  <text>          set the query")
	fmt.Println("  /host [NAME]    filter by host; no argument clears it")
	fmt.Println("  /dangerous      toggle dangerous-only")
	fmt.Println("  /experiments    toggle experiments-only")
	fmt.Println("  /failed         toggle failed-only")
	fmt.Println("  /sort time|name change the sort order")
	fmt.Println("  /last N         cap the result count")
	fmt.Println("  /clear          reset all filters")
	fmt.Println("  /quit           leave")
}
