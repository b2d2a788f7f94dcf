package history

import (
	"strings"
	"time"
)

// parseBash handles plain newline-delimited history with no timestamps on
// disk. Blank lines and #-prefixed lines (bash's HISTTIMEFORMAT markers)
// are skipped. Line positions stand in for time: the last line is the most
// recent and each line above it is one synthetic minute older.
func parseBash(content string, now time.Time, shell, sessionID string) []Command {
	lines := splitLines(content)

	var cmds []Command
	for i, line := range lines {
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		age := time.Duration(len(lines)-1-i) * time.Minute
		cmds = append(cmds, NewCommand(line, now.Add(-age), shell, sessionID))
	}
	return cmds
}
