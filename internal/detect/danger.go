package detect

import "strings"

// DangerAssessment is the risk annotation for one command. Score is the
// maximum score of any matched pattern or leading command, never a sum;
// Dangerous holds exactly when Score exceeds 0.5.
type DangerAssessment struct {
	Dangerous bool
	Score     float64
	Reasons   []string
}

// Danger scores a command against the high-confidence pattern table and the
// risky leading-command table. Patterns are checked first; every match
// contributes its reason and raises the score to at most its own. The
// leading-command table then applies when the first token matches, skipping
// reasons already covered by a pattern match.
func (r *Ruleset) Danger(command string) DangerAssessment {
	var score float64
	var reasons []string

	for _, p := range r.dangerPatterns {
		if p.re.MatchString(command) {
			if p.score > score {
				score = p.score
			}
			reasons = append(reasons, p.reason)
		}
	}

	first := firstWord(command)
	for _, c := range r.riskyCommands {
		if first != c.name {
			continue
		}
		if c.score > score {
			score = c.score
		}
		covered := false
		for _, reason := range reasons {
			if strings.Contains(reason, c.reason) {
				covered = true
				break
			}
		}
		if !covered {
			reasons = append(reasons, c.reason)
		}
	}

	return DangerAssessment{
		Dangerous: score > 0.5,
		Score:     score,
		Reasons:   reasons,
	}
}
