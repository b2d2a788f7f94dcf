// Package history turns raw shell history files into enriched Command
// records. Three format parsers (bash, zsh, fish) emit base records; the
// enrichment pass annotates each one with every classifier in
// internal/detect exactly once. Records merged across shells are sorted by
// timestamp ascending.
package history

import (
	"time"

	"github.com/histlens/histlens/internal/detect"
)

// Shell names stamped on parsed records.
const (
	ShellBash    = "bash"
	ShellZsh     = "zsh"
	ShellFish    = "fish"
	ShellUnknown = "unknown"
)

// Command is the canonical record for one executed shell line. The raw text
// is never mutated after creation; enrichment fills every annotation field,
// degrading to empty or false defaults when no classifier matches. ID is
// assigned by storage and stays zero until then.
type Command struct {
	ID               int64               `json:"id,omitempty"`
	Command          string              `json:"command"`
	Timestamp        time.Time           `json:"timestamp"`
	ExitCode         *int                `json:"exit_code,omitempty"`
	Duration         *int64              `json:"duration,omitempty"` // milliseconds
	WorkingDirectory string              `json:"working_directory,omitempty"`
	SessionID        string              `json:"session_id"`
	HostID           string              `json:"host_id"`
	Shell            string              `json:"shell"`
	NetworkEndpoints []string            `json:"network_endpoints,omitempty"`
	PackagesUsed     []detect.PackageRef `json:"packages_used,omitempty"`
	IsDangerous      bool                `json:"is_dangerous"`
	DangerScore      float64             `json:"danger_score"`
	DangerReasons    []string            `json:"danger_reasons,omitempty"`
	IsExperiment     bool                `json:"is_experiment"`
	ExperimentTags   []string            `json:"experiment_tags,omitempty"`
}

// NewCommand builds a base record with defaults applied: host is local
// until enrichment says otherwise, and an empty shell name reads as
// unknown.
func NewCommand(text string, ts time.Time, shell, sessionID string) Command {
	if shell == "" {
		shell = ShellUnknown
	}
	return Command{
		Command:   text,
		Timestamp: ts,
		SessionID: sessionID,
		HostID:    detect.LocalHost,
		Shell:     shell,
	}
}

// Succeeded reports whether the command is known to have exited zero.
// An absent exit code means unknown, not success.
func (c *Command) Succeeded() bool {
	return c.ExitCode != nil && *c.ExitCode == 0
}

// Failed reports whether the command is known to have exited non-zero.
func (c *Command) Failed() bool {
	return c.ExitCode != nil && *c.ExitCode != 0
}
