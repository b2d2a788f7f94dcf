package history

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/histlens/histlens/internal/detect"
)

// Source names one history file to ingest.
type Source struct {
	Shell string
	Path  string
}

// DefaultSources resolves the conventional history file locations under the
// given home directory.
func DefaultSources(home string) []Source {
	return []Source{
		{ShellBash, filepath.Join(home, ".bash_history")},
		{ShellZsh, filepath.Join(home, ".zsh_history")},
		{ShellFish, filepath.Join(home, ".local", "share", "fish", "fish_history")},
	}
}

// ParseAllHistories reads every source concurrently, enriches each record,
// and returns the merged set sorted by timestamp ascending. A missing file
// is an empty source, not an error; an unreadable file fails the whole
// call, since it points at a configuration problem the caller must see.
func ParseAllHistories(ctx context.Context, sources []Source, rules *detect.Ruleset) ([]Command, error) {
	g, ctx := errgroup.WithContext(ctx)

	results := make([][]Command, len(sources))
	for i, src := range sources {
		g.Go(func() error {
			cmds, err := ParseFile(ctx, src, rules)
			if err != nil {
				return err
			}
			results[i] = cmds
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []Command
	for _, cmds := range results {
		all = append(all, cmds...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Timestamp.Before(all[j].Timestamp)
	})
	return all, nil
}

// ParseFile reads and enriches one history file. The shell name picks the
// format; unrecognized shells fall back to the bash line format.
func ParseFile(ctx context.Context, src Source, rules *detect.Ruleset) ([]Command, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(src.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s history %s: %w", src.Shell, src.Path, err)
	}

	now := time.Now().UTC()
	session := newSessionID(src.Shell)

	var cmds []Command
	switch src.Shell {
	case ShellZsh:
		cmds = parseZsh(string(data), now, session)
	case ShellFish:
		cmds = parseFish(string(data), now, session)
	default:
		cmds = parseBash(string(data), now, src.Shell, session)
	}

	for i := range cmds {
		Enrich(rules, &cmds[i])
	}
	return cmds, nil
}

// newSessionID stamps one parse invocation: every run of a parser is its
// own session.
func newSessionID(shell string) string {
	return shell + "-" + uuid.NewString()
}

// splitLines splits file content the way the parsers count lines: no
// trailing empty line for a final newline, and no carriage returns.
func splitLines(content string) []string {
	lines := strings.Split(content, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
