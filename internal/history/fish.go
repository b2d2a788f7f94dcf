package history

import (
	"strconv"
	"strings"
	"time"
)

// parseFish handles fish's YAML-like history blocks: "- cmd: <text>" opens
// a record and an optional "  when: <epoch>" supplies its timestamp. The
// next "- cmd:" line, a blank line, or end of file closes the pending
// record. Records without a usable "when" default to now. Other block
// fields (paths, ...) are ignored.
func parseFish(content string, now time.Time, sessionID string) []Command {
	var cmds []Command

	var current string
	var haveCurrent bool
	var ts *time.Time

	emit := func() {
		if !haveCurrent {
			return
		}
		when := now
		if ts != nil {
			when = *ts
		}
		cmds = append(cmds, NewCommand(current, when, ShellFish, sessionID))
		current, haveCurrent, ts = "", false, nil
	}

	for _, line := range splitLines(content) {
		switch {
		case strings.HasPrefix(line, "- cmd: "):
			emit()
			current = strings.TrimPrefix(line, "- cmd: ")
			haveCurrent = true
		case strings.HasPrefix(line, "  when: "):
			if secs, err := strconv.ParseInt(strings.TrimPrefix(line, "  when: "), 10, 64); err == nil {
				t := time.Unix(secs, 0).UTC()
				ts = &t
			}
		case strings.TrimSpace(line) == "":
			emit()
		}
	}
	emit()

	return cmds
}
