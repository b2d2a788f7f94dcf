package analyze

import (
	"fmt"
	"sort"
	"time"

	"github.com/histlens/histlens/internal/history"
)

// CommandStats is the headline usage report.
type CommandStats struct {
	TotalCommands     int
	UniqueCommands    int
	SuccessRate       float64
	AverageDuration   *float64 // milliseconds
	CommandsPerDay    float64
	MostActiveHour    int
	MostActiveDay     time.Weekday
	TopCommands       []CommandCount
	ShellDistribution map[string]int
	HostDistribution  map[string]int
	AverageComplexity float64
	ProductivityScore float64
	Indicators        []string
	Suggestions       []string
}

// CommandCount is one entry of the most-used list.
type CommandCount struct {
	Command         string
	Count           int
	Percentage      float64
	LastUsed        time.Time
	AverageDuration *float64
}

// Stats computes the usage report. Empty input yields the neutral report:
// zero counts, hour 12, Monday, no success history.
func Stats(cmds []history.Command) CommandStats {
	if len(cmds) == 0 {
		return CommandStats{
			MostActiveHour:    12,
			MostActiveDay:     time.Monday,
			ShellDistribution: map[string]int{},
			HostDistribution:  map[string]int{},
		}
	}

	s := CommandStats{
		TotalCommands:     len(cmds),
		UniqueCommands:    countUnique(cmds),
		SuccessRate:       successRate(cmds),
		AverageDuration:   averageDuration(cmds),
		CommandsPerDay:    commandsPerDay(cmds),
		MostActiveHour:    mostActiveHour(cmds),
		MostActiveDay:     mostActiveDay(cmds),
		TopCommands:       topCommands(cmds, 10),
		ShellDistribution: distribution(cmds, func(c *history.Command) string { return c.Shell }),
		HostDistribution:  distribution(cmds, func(c *history.Command) string { return c.HostID }),
		AverageComplexity: averageComplexity(cmds),
	}
	s.ProductivityScore = productivityScore(cmds, s)
	s.Indicators = efficiencyIndicators(cmds, s)
	s.Suggestions = improvementSuggestions(cmds, s)
	return s
}

func countUnique(cmds []history.Command) int {
	seen := make(map[string]struct{}, len(cmds))
	for i := range cmds {
		seen[cmds[i].Command] = struct{}{}
	}
	return len(seen)
}

// successRate is successes over commands whose exit code is known. With no
// exit codes on record it reports 1.0: unknown outcomes are not failures.
func successRate(cmds []history.Command) float64 {
	known, ok := 0, 0
	for i := range cmds {
		if cmds[i].ExitCode == nil {
			continue
		}
		known++
		if cmds[i].Succeeded() {
			ok++
		}
	}
	if known == 0 {
		return 1.0
	}
	return float64(ok) / float64(known)
}

func averageDuration(cmds []history.Command) *float64 {
	var sum, n int64
	for i := range cmds {
		if d := cmds[i].Duration; d != nil {
			sum += *d
			n++
		}
	}
	if n == 0 {
		return nil
	}
	avg := float64(sum) / float64(n)
	return &avg
}

func commandsPerDay(cmds []history.Command) float64 {
	first, last := cmds[0].Timestamp, cmds[0].Timestamp
	for i := range cmds {
		if cmds[i].Timestamp.Before(first) {
			first = cmds[i].Timestamp
		}
		if cmds[i].Timestamp.After(last) {
			last = cmds[i].Timestamp
		}
	}
	days := int(last.Sub(first).Hours() / 24)
	if days < 1 {
		days = 1
	}
	return float64(len(cmds)) / float64(days)
}

// mostActiveHour picks the busiest hour of day, smallest hour on ties.
func mostActiveHour(cmds []history.Command) int {
	var counts [24]int
	for i := range cmds {
		counts[cmds[i].Timestamp.Hour()]++
	}
	best := 0
	for h := 1; h < 24; h++ {
		if counts[h] > counts[best] {
			best = h
		}
	}
	return best
}

func mostActiveDay(cmds []history.Command) time.Weekday {
	var counts [7]int
	for i := range cmds {
		counts[cmds[i].Timestamp.Weekday()]++
	}
	best := time.Monday
	for d := time.Sunday; d <= time.Saturday; d++ {
		if counts[d] > counts[best] {
			best = d
		}
	}
	return best
}

func topCommands(cmds []history.Command, limit int) []CommandCount {
	type agg struct {
		count    int
		lastUsed time.Time
		durSum   int64
		durCount int64
	}
	byCommand := make(map[string]*agg)
	for i := range cmds {
		c := &cmds[i]
		a := byCommand[c.Command]
		if a == nil {
			a = &agg{lastUsed: c.Timestamp}
			byCommand[c.Command] = a
		}
		a.count++
		if c.Timestamp.After(a.lastUsed) {
			a.lastUsed = c.Timestamp
		}
		if c.Duration != nil {
			a.durSum += *c.Duration
			a.durCount++
		}
	}

	total := float64(len(cmds))
	out := make([]CommandCount, 0, len(byCommand))
	for command, a := range byCommand {
		cc := CommandCount{
			Command:    command,
			Count:      a.count,
			Percentage: float64(a.count) / total * 100,
			LastUsed:   a.lastUsed,
		}
		if a.durCount > 0 {
			avg := float64(a.durSum) / float64(a.durCount)
			cc.AverageDuration = &avg
		}
		out = append(out, cc)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Command < out[j].Command
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func distribution(cmds []history.Command, key func(*history.Command) string) map[string]int {
	dist := make(map[string]int)
	for i := range cmds {
		dist[key(&cmds[i])]++
	}
	return dist
}

func averageComplexity(cmds []history.Command) float64 {
	var total float64
	for i := range cmds {
		total += commandComplexity(cmds[i].Command)
	}
	return total / float64(len(cmds))
}

// productivityScore blends success (30), diversity (25), complexity (25),
// and experimentation (20) into a 0-100 score.
func productivityScore(cmds []history.Command, s CommandStats) float64 {
	n := float64(len(cmds))
	score := s.SuccessRate * 30
	score += float64(s.UniqueCommands) / n * 25
	score += s.AverageComplexity / 10 * 25
	score += experimentRatio(cmds) * 20
	if score > 100 {
		return 100
	}
	return score
}

func experimentRatio(cmds []history.Command) float64 {
	n := 0
	for i := range cmds {
		if cmds[i].IsExperiment {
			n++
		}
	}
	return float64(n) / float64(len(cmds))
}

func efficiencyIndicators(cmds []history.Command, s CommandStats) []string {
	var out []string
	if s.SuccessRate > 0.9 {
		out = append(out, "High command success rate")
	}
	if float64(s.UniqueCommands)/float64(s.TotalCommands) > 0.7 {
		out = append(out, "Good command diversity")
	}
	if experimentRatio(cmds) > 0.1 {
		out = append(out, "Active learning and experimentation")
	}
	if s.AverageDuration != nil && *s.AverageDuration < 1000 {
		out = append(out, "Fast command execution")
	}
	return out
}

func improvementSuggestions(cmds []history.Command, s CommandStats) []string {
	var out []string
	if s.SuccessRate < 0.8 {
		out = append(out, "Consider using --help or man pages to reduce command failures")
	}

	for _, top := range s.TopCommands {
		if len(top.Command) > 20 && top.Count > 5 {
			name := top.Command
			if len(name) > 30 {
				name = name[:27] + "..."
			}
			out = append(out, fmt.Sprintf("Consider creating an alias for %q", name))
			break
		}
	}

	if experimentRatio(cmds) < 0.05 {
		out = append(out, "Try exploring new tools and commands to expand your skills")
	}

	dangerous := 0
	for i := range cmds {
		if cmds[i].IsDangerous {
			dangerous++
		}
	}
	if float64(dangerous)/float64(len(cmds)) > 0.1 {
		out = append(out, "Review dangerous commands and consider safer alternatives")
	}

	if len(out) > 5 {
		out = out[:5]
	}
	return out
}
