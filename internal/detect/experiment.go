package detect

import "strings"

// Experiment tags recognized by the classifier.
const (
	TagLearning        = "learning"
	TagHelpSeeking     = "help-seeking"
	TagTesting         = "testing"
	TagToolExploration = "tool-exploration"
)

// ExperimentSignal marks a command as exploratory or learning-driven.
// Multiple tags may co-occur; Experiment holds when any tag fired.
type ExperimentSignal struct {
	Experiment bool
	Tags       []string
}

// Experiment classifies learning/exploration intent: a leading learning
// command (man, tldr, ...), a help flag (--help, -h, --usage), testing
// vocabulary as whole words, or a known explorable tool run bare with no
// arguments.
func (r *Ruleset) Experiment(command string) ExperimentSignal {
	var sig ExperimentSignal

	first := firstWord(command)

	if contains(r.learningCommands, first) {
		sig.Experiment = true
		sig.Tags = append(sig.Tags, TagLearning)
	}

	for _, p := range r.helpPatterns {
		if p.MatchString(command) {
			sig.Experiment = true
			sig.Tags = append(sig.Tags, TagHelpSeeking)
			break
		}
	}

	for _, p := range r.testPatterns {
		if p.MatchString(command) {
			sig.Experiment = true
			sig.Tags = append(sig.Tags, TagTesting)
			break
		}
	}

	if len(strings.Fields(command)) == 1 && !contains(r.learningCommands, first) {
		if contains(r.explorableTools, first) {
			sig.Experiment = true
			sig.Tags = append(sig.Tags, TagToolExploration)
		}
	}

	return sig
}
