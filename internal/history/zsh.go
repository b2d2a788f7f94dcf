package history

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Extended zsh history line: ": <epoch-seconds>:<duration-seconds>;<command>".
var zshLine = regexp.MustCompile(`^: (\d+):(\d+);(.+)$`)

// parseZsh handles zsh's extended history format. Conforming lines carry
// their own timestamp and duration (stored in seconds, converted to
// milliseconds); anything else non-blank is kept as a raw command stamped
// with now, so malformed lines are never dropped.
func parseZsh(content string, now time.Time, sessionID string) []Command {
	var cmds []Command
	for _, line := range splitLines(content) {
		if strings.TrimSpace(line) == "" {
			continue
		}

		m := zshLine.FindStringSubmatch(line)
		if m == nil {
			cmds = append(cmds, NewCommand(line, now, ShellZsh, sessionID))
			continue
		}

		ts := now
		if secs, err := strconv.ParseInt(m[1], 10, 64); err == nil {
			ts = time.Unix(secs, 0).UTC()
		}
		cmd := NewCommand(m[3], ts, ShellZsh, sessionID)
		if secs, err := strconv.ParseInt(m[2], 10, 64); err == nil {
			ms := secs * 1000
			cmd.Duration = &ms
		}
		cmds = append(cmds, cmd)
	}
	return cmds
}
