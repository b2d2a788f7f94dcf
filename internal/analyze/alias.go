package analyze

import (
	"fmt"
	"sort"
	"strings"

	"github.com/histlens/histlens/internal/history"
)

// AliasAnalysis reports alias opportunities over recent history.
type AliasAnalysis struct {
	Suggestions      []AliasSuggestion
	ExistingAliases  map[string]int
	PotentialSavings int
	EfficiencyGain   float64
}

// AliasSuggestion proposes one alias and its typing savings.
type AliasSuggestion struct {
	Command     string
	Alias       string
	Frequency   int
	SavedPerUse int
	TotalSaved  int
}

// aliasWindow bounds how much history feeds the suggestion pass.
const aliasWindow = 1000

// Aliases scans the most recent history for commands worth aliasing.
// Command texts are normalized first (numbers and file paths collapse)
// so variants of the same invocation count together.
func Aliases(cmds []history.Command) AliasAnalysis {
	if len(cmds) == 0 {
		return AliasAnalysis{ExistingAliases: map[string]int{}}
	}

	recent := cmds
	if len(recent) > aliasWindow {
		recent = recent[len(recent)-aliasWindow:]
	}

	counts := make(map[string]int)
	for i := range recent {
		counts[normalizeForAlias(recent[i].Command)]++
	}

	var suggestions []AliasSuggestion
	savings := 0
	for command, count := range counts {
		minFrequency := 3
		if strings.Contains(command, "git") || strings.Contains(command, "docker") {
			minFrequency = 2
		}
		if count < minFrequency {
			continue
		}

		// The length gate only filters the generic fallback; curated
		// tool aliases like "git status" -> gs stay suggestible no
		// matter how short the command is.
		if !curatedAliasTool(firstToken(command)) {
			minLength := 12
			if len(strings.Fields(command)) > 3 {
				minLength = 8
			}
			if len(command) <= minLength {
				continue
			}
		}

		alias, ok := aliasName(command)
		if !ok {
			continue
		}
		saved := len(command) - len(alias)
		if saved < 3 {
			continue
		}

		suggestions = append(suggestions, AliasSuggestion{
			Command:     command,
			Alias:       alias,
			Frequency:   count,
			SavedPerUse: saved,
			TotalSaved:  saved * count,
		})
		savings += saved * count
	}

	sort.Slice(suggestions, func(i, j int) bool {
		a := suggestions[i].Frequency * suggestions[i].SavedPerUse * aliasComplexity(suggestions[i].Command)
		b := suggestions[j].Frequency * suggestions[j].SavedPerUse * aliasComplexity(suggestions[j].Command)
		if a != b {
			return a > b
		}
		return suggestions[i].Command < suggestions[j].Command
	})
	if len(suggestions) > 25 {
		suggestions = suggestions[:25]
	}

	return AliasAnalysis{
		Suggestions:      suggestions,
		ExistingAliases:  existingAliases(cmds),
		PotentialSavings: savings,
		EfficiencyGain:   efficiencyGain(savings),
	}
}

// normalizeForAlias collapses variable parts so repeated invocations with
// different arguments count as one command: whole-number words become N,
// path-like data file words become /FILE.
func normalizeForAlias(command string) string {
	words := strings.Fields(command)
	for i, word := range words {
		if word != "" && allDigits(word) {
			words[i] = "N"
			continue
		}
		if strings.Contains(word, "/") && hasDataFileExt(word) {
			words[i] = "/FILE"
		}
	}
	return strings.Join(words, " ")
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func hasDataFileExt(word string) bool {
	for _, ext := range []string{".txt", ".log", ".json", ".yaml", ".yml"} {
		if strings.HasSuffix(word, ext) {
			return true
		}
	}
	return false
}

// aliasComplexity weights the suggestion ranking toward longer invocations
// of the usual heavyweight tools.
func aliasComplexity(command string) int {
	score := 1
	if n := len(strings.Fields(command)); n > 1 {
		score += n - 1
	}
	score += strings.Count(command, "--")
	score += strings.Count(command, " -")
	if strings.Contains(command, "docker") {
		score += 2
	}
	if strings.Contains(command, "kubectl") {
		score += 3
	}
	if strings.Contains(command, "git") {
		score++
	}
	if strings.Contains(command, "npm") || strings.Contains(command, "yarn") {
		score++
	}
	return score
}

// curatedAliasTool reports whether aliasName has a hand-picked table for
// this leading tool.
func curatedAliasTool(tool string) bool {
	switch tool {
	case "git", "docker", "kubectl", "npm", "yarn", "cargo", "systemctl", "ls":
		return true
	}
	return false
}

// aliasName picks a short memorable alias. Well-known tools get curated
// names per subcommand; anything else long enough falls back to first
// letters.
func aliasName(command string) (string, bool) {
	parts := strings.Fields(command)
	if len(parts) == 0 {
		return "", false
	}

	sub := ""
	if len(parts) > 1 {
		sub = parts[1]
	}

	switch parts[0] {
	case "git":
		if sub == "" {
			return "g", true
		}
		switch sub {
		case "status":
			return "gs", true
		case "add":
			if len(parts) > 2 && parts[2] == "." {
				return "gaa", true
			}
			return "ga", true
		case "commit":
			if containsString(parts, "-m") {
				return "gcm", true
			}
			if containsString(parts, "--amend") {
				return "gca", true
			}
			return "gc", true
		case "push":
			if containsString(parts, "origin") {
				return "gpo", true
			}
			return "gp", true
		case "pull":
			if containsString(parts, "origin") {
				return "glo", true
			}
			return "gl", true
		case "checkout":
			return "gco", true
		case "branch":
			return "gb", true
		case "log":
			if containsString(parts, "--oneline") {
				return "glog1", true
			}
			return "glog", true
		case "diff":
			return "gd", true
		case "merge":
			return "gm", true
		case "rebase":
			return "gr", true
		case "stash":
			return "gst", true
		case "remote":
			return "grem", true
		}
		return initialAlias("g", sub)
	case "docker":
		if sub == "" {
			return "d", true
		}
		switch sub {
		case "ps":
			return "dps", true
		case "images":
			return "di", true
		case "run":
			return "dr", true
		case "exec":
			return "de", true
		case "build":
			return "db", true
		case "compose":
			return "dc", true
		}
		return initialAlias("d", sub)
	case "kubectl":
		if sub == "" {
			return "k", true
		}
		switch sub {
		case "get":
			return "kg", true
		case "describe":
			return "kd", true
		case "apply":
			return "ka", true
		case "delete":
			return "kdel", true
		case "logs":
			return "kl", true
		case "exec":
			return "ke", true
		case "port-forward":
			return "kpf", true
		}
		return initialAlias("k", sub)
	case "npm":
		if sub == "" {
			return "n", true
		}
		switch sub {
		case "install":
			return "ni", true
		case "start":
			return "ns", true
		case "test":
			return "nt", true
		case "run":
			return "nr", true
		case "build":
			return "nb", true
		}
		return initialAlias("n", sub)
	case "yarn":
		if sub == "" {
			return "y", true
		}
		switch sub {
		case "install":
			return "yi", true
		case "start":
			return "ys", true
		case "test":
			return "yt", true
		case "build":
			return "yb", true
		case "add":
			return "ya", true
		}
		return initialAlias("y", sub)
	case "cargo":
		if sub == "" {
			return "c", true
		}
		switch sub {
		case "build":
			return "cb", true
		case "run":
			return "cr", true
		case "test":
			return "ct", true
		case "check":
			return "cc", true
		case "clippy":
			return "ccl", true
		}
		return initialAlias("c", sub)
	case "systemctl":
		if sub == "" {
			return "sc", true
		}
		switch sub {
		case "status":
			return "scs", true
		case "start":
			return "scst", true
		case "stop":
			return "scsp", true
		case "restart":
			return "scr", true
		case "enable":
			return "sce", true
		case "disable":
			return "scd", true
		}
		return initialAlias("sc", sub)
	case "ls":
		if strings.Contains(command, "-la") || strings.Contains(command, "-al") {
			return "ll", true
		}
		if strings.Contains(command, "-l") {
			return "l", true
		}
		return "", false
	}

	// Generic fallback: first letter of up to three words.
	if len(command) <= 15 {
		return "", false
	}
	var b strings.Builder
	for i, word := range parts {
		if i >= 3 {
			break
		}
		b.WriteByte(word[0])
	}
	alias := b.String()
	if len(alias) < 2 || len(alias) > 5 {
		return "", false
	}
	return alias, true
}

func initialAlias(prefix, sub string) (string, bool) {
	if sub == "" {
		return "", false
	}
	return prefix + sub[:1], true
}

// existingAliases counts leading words that look like already-defined
// short aliases, over the full history rather than the recent window.
func existingAliases(cmds []history.Command) map[string]int {
	known := map[string]struct{}{
		"ll": {}, "la": {}, "l": {}, "gs": {}, "ga": {}, "gc": {}, "gp": {},
		"gl": {}, "gco": {}, "gb": {}, "dps": {}, "di": {}, "dr": {}, "de": {},
		"db": {}, "dc": {}, "kg": {}, "kd": {}, "ka": {}, "kl": {}, "vim": {},
		"vi": {}, "nano": {}, "cat": {}, "less": {}, "more": {}, "grep": {},
		"find": {},
	}

	usage := make(map[string]int)
	for i := range cmds {
		word := firstToken(cmds[i].Command)
		if _, ok := known[word]; ok {
			usage[word]++
		}
	}
	return usage
}

// efficiencyGain converts characters saved into a rough 0-100 percentage,
// assuming around 200 typed characters per minute.
func efficiencyGain(savings int) float64 {
	if savings == 0 {
		return 0
	}
	gain := float64(savings) / 200 * 10
	if gain > 100 {
		return 100
	}
	return gain
}

// ShellLines renders the top suggestions as alias definitions for the
// given shell.
func ShellLines(suggestions []AliasSuggestion, shell string) string {
	var b strings.Builder

	switch shell {
	case history.ShellBash, history.ShellZsh:
		b.WriteString("# Generated aliases by histlens\n")
		for i, s := range suggestions {
			if i >= 10 {
				break
			}
			fmt.Fprintf(&b, "alias %s='%s'\n", s.Alias, s.Command)
		}
	case history.ShellFish:
		b.WriteString("# Generated aliases by histlens\n")
		for i, s := range suggestions {
			if i >= 10 {
				break
			}
			fmt.Fprintf(&b, "alias %s '%s'\n", s.Alias, s.Command)
		}
	default:
		b.WriteString("# Shell not supported for alias generation\n")
	}

	return b.String()
}
