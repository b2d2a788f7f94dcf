package analyze

import (
	"fmt"
	"sort"
	"strings"

	"github.com/histlens/histlens/internal/history"
)

// DangerAnalysis reports on risky command usage.
type DangerAnalysis struct {
	TotalDangerous  int
	ByReason        map[string]int
	Trends          []DangerTrend
	TopRisky        []RiskyCommand
	Recommendations []string
	SafetyScore     float64
}

// DangerTrend is one day of activity, dated YYYY-MM-DD.
type DangerTrend struct {
	Date      string
	Total     int
	Dangerous int
	Ratio     float64
}

// RiskyCommand aggregates every dangerous occurrence of one command text.
type RiskyCommand struct {
	Command      string
	Count        int
	MaxScore     float64
	Reasons      []string
	Alternatives []string
}

// Danger computes the risk report. Empty input scores a perfect 1.0.
func Danger(cmds []history.Command) DangerAnalysis {
	byReason := make(map[string]int)
	total := 0
	for i := range cmds {
		if !cmds[i].IsDangerous {
			continue
		}
		total++
		for _, reason := range cmds[i].DangerReasons {
			byReason[reason]++
		}
	}

	topRisky := topRiskyCommands(cmds, 10)
	return DangerAnalysis{
		TotalDangerous:  total,
		ByReason:        byReason,
		Trends:          dangerTrends(cmds),
		TopRisky:        topRisky,
		Recommendations: safetyRecommendations(byReason, topRisky),
		SafetyScore:     safetyScore(cmds),
	}
}

func dangerTrends(cmds []history.Command) []DangerTrend {
	type day struct{ total, dangerous int }
	byDate := make(map[string]*day)
	for i := range cmds {
		date := cmds[i].Timestamp.Format("2006-01-02")
		d := byDate[date]
		if d == nil {
			d = &day{}
			byDate[date] = d
		}
		d.total++
		if cmds[i].IsDangerous {
			d.dangerous++
		}
	}

	trends := make([]DangerTrend, 0, len(byDate))
	for date, d := range byDate {
		trends = append(trends, DangerTrend{
			Date:      date,
			Total:     d.total,
			Dangerous: d.dangerous,
			Ratio:     float64(d.dangerous) / float64(d.total),
		})
	}
	sort.Slice(trends, func(i, j int) bool { return trends[i].Date < trends[j].Date })
	return trends
}

// topRiskyCommands ranks dangerous command texts by max score times
// occurrence count.
func topRiskyCommands(cmds []history.Command, limit int) []RiskyCommand {
	byCommand := make(map[string]*RiskyCommand)
	for i := range cmds {
		c := &cmds[i]
		if !c.IsDangerous {
			continue
		}
		r := byCommand[c.Command]
		if r == nil {
			r = &RiskyCommand{Command: c.Command}
			byCommand[c.Command] = r
		}
		r.Count++
		if c.DangerScore > r.MaxScore {
			r.MaxScore = c.DangerScore
		}
		for _, reason := range c.DangerReasons {
			if !containsString(r.Reasons, reason) {
				r.Reasons = append(r.Reasons, reason)
			}
		}
	}

	out := make([]RiskyCommand, 0, len(byCommand))
	for _, r := range byCommand {
		r.Alternatives = saferAlternatives(r.Command)
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		a := out[i].MaxScore * float64(out[i].Count)
		b := out[j].MaxScore * float64(out[j].Count)
		if a != b {
			return a > b
		}
		return out[i].Command < out[j].Command
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func saferAlternatives(command string) []string {
	var out []string
	if strings.Contains(command, "rm -rf") {
		out = append(out,
			"Use 'rm -i' for interactive deletion",
			"Move to trash instead of permanent deletion",
			"Use 'find' with '-delete' for more control")
	}
	if strings.Contains(command, "chmod 777") {
		out = append(out,
			"Use more restrictive permissions like 755 or 644",
			"Set specific user/group permissions instead")
	}
	if strings.Contains(command, "sudo rm") {
		out = append(out,
			"Double-check the path before running",
			"Use 'sudo -l' to verify permissions first")
	}
	if strings.Contains(command, "curl") && strings.Contains(command, "| bash") {
		out = append(out,
			"Download script first, then review before executing",
			"Use package manager instead of direct script execution")
	}
	if strings.Contains(command, "dd") {
		out = append(out,
			"Double-check input and output devices",
			"Use 'lsblk' to verify device names first")
	}
	if len(out) == 0 {
		out = append(out,
			"Review command carefully before execution",
			"Test in a safe environment first")
	}
	return out
}

func safetyRecommendations(byReason map[string]int, topRisky []RiskyCommand) []string {
	out := []string{
		"Always backup important data before running destructive commands",
		"Use 'man' or '--help' to understand command options before use",
		"Test dangerous commands in a safe environment first",
	}

	if byReason["File deletion"] > 5 {
		out = append(out, "Consider using a trash utility instead of 'rm' for safer file deletion")
	}
	if byReason["Permission change"] > 3 {
		out = append(out, "Use principle of least privilege and avoid 777 permissions")
	}
	if byReason["Privileged execution"] > 10 {
		out = append(out, "Minimize sudo usage and prefer regular user permissions when possible")
	}

	for i, risky := range topRisky {
		if i >= 3 {
			break
		}
		if risky.Count > 5 {
			tool := firstToken(risky.Command)
			if tool == "" {
				tool = risky.Command
			}
			out = append(out, fmt.Sprintf("You frequently use '%s', consider safer alternatives", tool))
		}
	}

	if len(out) > 8 {
		out = out[:8]
	}
	return out
}

// safetyScore is the safe-command ratio minus half the mean danger score,
// clamped to [0,1]. No commands means nothing risky happened: 1.0.
func safetyScore(cmds []history.Command) float64 {
	if len(cmds) == 0 {
		return 1.0
	}

	total := float64(len(cmds))
	dangerous := 0.0
	scoreSum := 0.0
	for i := range cmds {
		if cmds[i].IsDangerous {
			dangerous++
		}
		scoreSum += cmds[i].DangerScore
	}

	safeRatio := (total - dangerous) / total
	penalty := scoreSum / total * 0.5
	return clamp01(safeRatio - penalty)
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
