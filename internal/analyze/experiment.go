package analyze

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/histlens/histlens/internal/history"
)

// PatternKind classifies a learning pattern.
type PatternKind string

const (
	PatternHelpSeeking     PatternKind = "help-seeking"
	PatternToolExploration PatternKind = "tool-exploration"
	PatternTrialAndError   PatternKind = "trial-and-error"
)

// ExperimentAnalysis reports on learning and exploration behavior.
type ExperimentAnalysis struct {
	TotalExperiments int
	Sessions         []ExperimentSession
	Patterns         []LearningPattern
	ToolExploration  []ToolExploration
	KnowledgeGaps    []KnowledgeGap
	Recommendations  []string
}

// ExperimentSession is one session dominated by experimental commands.
type ExperimentSession struct {
	SessionID       string
	Start           time.Time
	End             time.Time
	DurationMinutes int
	CommandCount    int
	ExperimentRatio float64
	PrimaryFocus    string
	ToolsExplored   []string
	Indicators      []string
}

// LearningPattern is one recognized learning behavior.
type LearningPattern struct {
	Kind        PatternKind
	Description string
	Frequency   int
	Tools       []string
	Confidence  float64
}

// ToolExploration aggregates experimental usage of one tool.
type ToolExploration struct {
	Tool        string
	Commands    []string
	HelpCount   int
	TestCount   int
	SuccessRate float64
}

// KnowledgeGap flags a tool with repeated failures.
type KnowledgeGap struct {
	Area       string
	Indicators []string
	Resources  []string
	Priority   Severity
}

// Experiments computes the learning report over all commands; sessions
// consider everything, the pattern and gap passes look only at commands
// tagged experimental.
func Experiments(cmds []history.Command) ExperimentAnalysis {
	var experiments []*history.Command
	for i := range cmds {
		if cmds[i].IsExperiment {
			experiments = append(experiments, &cmds[i])
		}
	}

	patterns := learningPatterns(experiments)
	exploration := toolExploration(experiments)
	gaps := knowledgeGaps(experiments)

	return ExperimentAnalysis{
		TotalExperiments: len(experiments),
		Sessions:         experimentSessions(cmds),
		Patterns:         patterns,
		ToolExploration:  exploration,
		KnowledgeGaps:    gaps,
		Recommendations:  learningRecommendations(patterns, exploration, gaps),
	}
}

// experimentSessions keeps sessions where experiments dominate: over 30%
// experimental and more than two experimental commands.
func experimentSessions(cmds []history.Command) []ExperimentSession {
	bySession := make(map[string][]*history.Command)
	for i := range cmds {
		id := cmds[i].SessionID
		bySession[id] = append(bySession[id], &cmds[i])
	}

	var sessions []ExperimentSession
	for id, group := range bySession {
		experiments := 0
		for _, c := range group {
			if c.IsExperiment {
				experiments++
			}
		}
		ratio := float64(experiments) / float64(len(group))
		if ratio <= 0.3 || experiments <= 2 {
			continue
		}

		start, end := group[0].Timestamp, group[0].Timestamp
		for _, c := range group {
			if c.Timestamp.Before(start) {
				start = c.Timestamp
			}
			if c.Timestamp.After(end) {
				end = c.Timestamp
			}
		}

		sessions = append(sessions, ExperimentSession{
			SessionID:       id,
			Start:           start,
			End:             end,
			DurationMinutes: int(end.Sub(start).Minutes()),
			CommandCount:    len(group),
			ExperimentRatio: ratio,
			PrimaryFocus:    sessionFocus(group),
			ToolsExplored:   sessionTools(group),
			Indicators:      learningIndicators(group),
		})
	}

	sort.Slice(sessions, func(i, j int) bool {
		if !sessions[i].Start.Equal(sessions[j].Start) {
			return sessions[i].Start.After(sessions[j].Start)
		}
		return sessions[i].SessionID < sessions[j].SessionID
	})
	return sessions
}

// sessionFocus is the most common leading tool, ties broken alphabetically.
func sessionFocus(group []*history.Command) string {
	counts := make(map[string]int)
	for _, c := range group {
		if tool := firstToken(c.Command); tool != "" {
			counts[tool]++
		}
	}

	focus, best := "General", 0
	for tool, n := range counts {
		if n > best || (n == best && best > 0 && tool < focus) {
			focus, best = tool, n
		}
	}
	return focus
}

func sessionTools(group []*history.Command) []string {
	seen := make(map[string]struct{})
	for _, c := range group {
		if tool := firstToken(c.Command); tool != "" {
			seen[tool] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

func learningIndicators(group []*history.Command) []string {
	help, test := 0, 0
	for _, c := range group {
		if strings.Contains(c.Command, "--help") ||
			strings.HasPrefix(c.Command, "man ") ||
			strings.HasPrefix(c.Command, "tldr ") {
			help++
		}
		if strings.Contains(c.Command, "test") ||
			strings.Contains(c.Command, "try") ||
			strings.Contains(c.Command, "example") {
			test++
		}
	}

	var out []string
	if help > 0 {
		out = append(out, fmt.Sprintf("Help-seeking: %d commands", help))
	}
	if test > 0 {
		out = append(out, fmt.Sprintf("Testing: %d commands", test))
	}
	return out
}

func learningPatterns(experiments []*history.Command) []LearningPattern {
	var patterns []LearningPattern

	helpTools := make(map[string]struct{})
	help := 0
	for _, c := range experiments {
		isHelp := strings.Contains(c.Command, "--help") ||
			strings.Contains(c.Command, "-h ") ||
			strings.HasPrefix(c.Command, "man ") ||
			strings.HasPrefix(c.Command, "tldr ") ||
			strings.HasPrefix(c.Command, "info ")
		if !isHelp {
			continue
		}
		help++
		if strings.HasPrefix(c.Command, "man ") {
			if fields := strings.Fields(c.Command); len(fields) > 1 {
				helpTools[fields[1]] = struct{}{}
			}
		} else if strings.Contains(c.Command, "--help") {
			if tool := firstToken(c.Command); tool != "" {
				helpTools[tool] = struct{}{}
			}
		}
	}
	if help > 5 {
		patterns = append(patterns, LearningPattern{
			Kind:        PatternHelpSeeking,
			Description: fmt.Sprintf("Frequent help command usage (%d instances)", help),
			Frequency:   help,
			Tools:       sortedKeys(helpTools),
			Confidence:  0.9,
		})
	}

	bareTools := make(map[string]struct{})
	bare := 0
	for _, c := range experiments {
		fields := strings.Fields(c.Command)
		if len(fields) != 1 {
			continue
		}
		switch fields[0] {
		case "ls", "cd", "pwd", "clear":
			continue
		}
		bare++
		bareTools[fields[0]] = struct{}{}
	}
	if bare > 3 {
		patterns = append(patterns, LearningPattern{
			Kind:        PatternToolExploration,
			Description: fmt.Sprintf("Tool exploration detected (%d bare commands)", bare),
			Frequency:   bare,
			Tools:       sortedKeys(bareTools),
			Confidence:  0.8,
		})
	}

	if groups := trialAndErrorTools(experiments); len(groups) > 0 {
		patterns = append(patterns, LearningPattern{
			Kind:        PatternTrialAndError,
			Description: fmt.Sprintf("Trial and error learning (%d command groups)", len(groups)),
			Frequency:   len(groups),
			Tools:       groups,
			Confidence:  0.7,
		})
	}

	return patterns
}

// trialAndErrorTools finds tools whose experimental commands include a
// burst of three variations within ten minutes.
func trialAndErrorTools(experiments []*history.Command) []string {
	byTool := make(map[string][]*history.Command)
	for _, c := range experiments {
		if tool := firstToken(c.Command); tool != "" {
			byTool[tool] = append(byTool[tool], c)
		}
	}

	var tools []string
	for tool, sequence := range byTool {
		if len(sequence) < 3 {
			continue
		}
		sort.Slice(sequence, func(i, j int) bool {
			return sequence[i].Timestamp.Before(sequence[j].Timestamp)
		})
		for i := 0; i+2 < len(sequence); i++ {
			window := sequence[i : i+3]
			if window[2].Timestamp.Sub(window[0].Timestamp) > 10*time.Minute {
				continue
			}
			if window[1].Command != window[0].Command || window[2].Command != window[0].Command {
				tools = append(tools, tool)
				break
			}
		}
	}
	sort.Strings(tools)
	return tools
}

func toolExploration(experiments []*history.Command) []ToolExploration {
	byTool := make(map[string][]*history.Command)
	for _, c := range experiments {
		if tool := firstToken(c.Command); tool != "" {
			byTool[tool] = append(byTool[tool], c)
		}
	}

	var out []ToolExploration
	for tool, group := range byTool {
		if len(group) < 3 {
			continue
		}

		help, test, ok := 0, 0, 0
		commands := make([]string, 0, len(group))
		for _, c := range group {
			commands = append(commands, c.Command)
			if strings.Contains(c.Command, "--help") || strings.Contains(c.Command, "-h") {
				help++
			}
			if strings.Contains(c.Command, "test") || strings.Contains(c.Command, "example") {
				test++
			}
			if c.Succeeded() {
				ok++
			}
		}

		out = append(out, ToolExploration{
			Tool:        tool,
			Commands:    commands,
			HelpCount:   help,
			TestCount:   test,
			SuccessRate: float64(ok) / float64(len(group)),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if len(out[i].Commands) != len(out[j].Commands) {
			return len(out[i].Commands) > len(out[j].Commands)
		}
		return out[i].Tool < out[j].Tool
	})
	if len(out) > 10 {
		out = out[:10]
	}
	return out
}

// knowledgeGaps flags tools with three or more failed experimental
// commands; more than five failures raises the priority.
func knowledgeGaps(experiments []*history.Command) []KnowledgeGap {
	failures := make(map[string]int)
	for _, c := range experiments {
		if !c.Failed() {
			continue
		}
		if tool := firstToken(c.Command); tool != "" {
			failures[tool]++
		}
	}

	var gaps []KnowledgeGap
	for tool, n := range failures {
		if n < 3 {
			continue
		}
		priority := SeverityMedium
		if n > 5 {
			priority = SeverityHigh
		}
		gaps = append(gaps, KnowledgeGap{
			Area:       tool + " usage",
			Indicators: []string{fmt.Sprintf("%d failed commands", n)},
			Resources: []string{
				"man " + tool,
				tool + " --help",
				"Online tutorials for " + tool,
			},
			Priority: priority,
		})
	}
	sort.Slice(gaps, func(i, j int) bool { return gaps[i].Area < gaps[j].Area })
	return gaps
}

func learningRecommendations(patterns []LearningPattern, exploration []ToolExploration, gaps []KnowledgeGap) []string {
	var out []string

	for _, p := range patterns {
		switch p.Kind {
		case PatternHelpSeeking:
			out = append(out, "Good use of help resources; consider bookmarking useful man pages")
		case PatternToolExploration:
			out = append(out, "Tool exploration shows curiosity; try 'tldr' for quick examples")
		case PatternTrialAndError:
			out = append(out, "Trial and error is valuable; consider testing in safe environments first")
		}
	}

	for i, e := range exploration {
		if i >= 3 {
			break
		}
		if e.SuccessRate < 0.5 {
			out = append(out, fmt.Sprintf("Struggling with %s? Try starting with basic examples and building up", e.Tool))
		} else if e.SuccessRate > 0.8 {
			out = append(out, fmt.Sprintf("You're mastering %s; consider exploring advanced features", e.Tool))
		}
	}

	for i, gap := range gaps {
		if i >= 2 {
			break
		}
		if gap.Priority == SeverityHigh {
			out = append(out, fmt.Sprintf("Focus on improving %s skills", gap.Area))
		}
	}

	for _, p := range patterns {
		if p.Kind == PatternHelpSeeking {
			out = append(out, "Consider keeping a personal cheat sheet for frequently used commands")
			break
		}
	}

	if len(out) > 6 {
		out = out[:6]
	}
	return out
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
