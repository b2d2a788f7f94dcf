// Package analyze computes reports over enriched command history. Seven
// analyzers (stats, danger, packages, network, heatmap, aliases,
// experiments) are pure functions over an immutable []history.Command;
// the Engine fans them out concurrently and the Cache keeps the combined
// report fresh for a short window.
//
// Shared policies: every top-K list is sorted with a deterministic
// secondary key before truncation, ratios guard division by zero with a
// documented neutral value, and scores are clamped after adjustment.
package analyze

import (
	"strings"
)

// Severity grades a reported issue.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// severityWeight is the score penalty factor for one issue of this grade.
func severityWeight(s Severity) float64 {
	switch s {
	case SeverityCritical:
		return 0.4
	case SeverityHigh:
		return 0.3
	case SeverityMedium:
		return 0.2
	default:
		return 0.1
	}
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func firstToken(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// commandComplexity estimates how involved one command line is on a 1-10
// scale: word count plus weights for pipes, redirects, chaining, command
// substitution, and long flags.
func commandComplexity(command string) float64 {
	complexity := 1.0

	words := len(strings.Fields(command))
	if words > 1 {
		complexity += float64(words-1) * 0.5
	}

	if strings.Contains(command, "|") {
		complexity += 2.0
	}
	if strings.Contains(command, ">") || strings.Contains(command, "<") {
		complexity += 1.0
	}
	if strings.Contains(command, "&&") || strings.Contains(command, "||") {
		complexity += 1.5
	}
	if strings.Contains(command, "$(") || strings.Contains(command, "`") {
		complexity += 2.0
	}
	if strings.Contains(command, "--") {
		complexity += 0.5
	}

	if complexity > 10 {
		return 10
	}
	return complexity
}
