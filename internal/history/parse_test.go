package history

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/histlens/histlens/internal/detect"
)

var testNow = time.Unix(1700003600, 0).UTC()

func TestParseBash(t *testing.T) {
	content := "ls -la\n\n# comment line\ngit status\nmake test\n"

	cmds := parseBash(content, testNow, ShellBash, "bash-t1")
	if len(cmds) != 3 {
		t.Fatalf("got %d commands, want 3", len(cmds))
	}

	// Five raw lines; the last line is newest, each line above one minute older.
	wantTimes := []time.Time{
		testNow.Add(-4 * time.Minute),
		testNow.Add(-1 * time.Minute),
		testNow,
	}
	wantCmds := []string{"ls -la", "git status", "make test"}
	for i, c := range cmds {
		if c.Command != wantCmds[i] {
			t.Errorf("cmds[%d].Command = %q, want %q", i, c.Command, wantCmds[i])
		}
		if !c.Timestamp.Equal(wantTimes[i]) {
			t.Errorf("cmds[%d].Timestamp = %v, want %v", i, c.Timestamp, wantTimes[i])
		}
		if c.Shell != ShellBash || c.SessionID != "bash-t1" {
			t.Errorf("cmds[%d] shell/session = %q/%q", i, c.Shell, c.SessionID)
		}
	}
}

func TestParseBash_CommentAndBlankOnly(t *testing.T) {
	cmds := parseBash("# just a marker\n\n\n", testNow, ShellBash, "bash-t2")
	if len(cmds) != 0 {
		t.Fatalf("got %d commands, want 0", len(cmds))
	}
}

func TestParseZsh(t *testing.T) {
	tests := []struct {
		name       string
		line       string
		wantCmd    string
		wantTime   time.Time
		wantDurMS  int64
		wantHasDur bool
	}{
		{
			name:       "extended format",
			line:       ": 1700000000:5;ls -la",
			wantCmd:    "ls -la",
			wantTime:   time.Unix(1700000000, 0).UTC(),
			wantDurMS:  5000,
			wantHasDur: true,
		},
		{
			name:       "zero duration",
			line:       ": 1700000100:0;pwd",
			wantCmd:    "pwd",
			wantTime:   time.Unix(1700000100, 0).UTC(),
			wantDurMS:  0,
			wantHasDur: true,
		},
		{
			name:     "plain line falls back to raw text",
			line:     "echo no metadata",
			wantCmd:  "echo no metadata",
			wantTime: testNow,
		},
		{
			name:     "near miss falls back whole",
			line:     ": not:a-number;ls",
			wantCmd:  ": not:a-number;ls",
			wantTime: testNow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmds := parseZsh(tt.line+"\n", testNow, "zsh-t1")
			if len(cmds) != 1 {
				t.Fatalf("got %d commands, want 1", len(cmds))
			}
			c := cmds[0]
			if c.Command != tt.wantCmd {
				t.Errorf("Command = %q, want %q", c.Command, tt.wantCmd)
			}
			if !c.Timestamp.Equal(tt.wantTime) {
				t.Errorf("Timestamp = %v, want %v", c.Timestamp, tt.wantTime)
			}
			if tt.wantHasDur {
				if c.Duration == nil || *c.Duration != tt.wantDurMS {
					t.Errorf("Duration = %v, want %d ms", c.Duration, tt.wantDurMS)
				}
			} else if c.Duration != nil {
				t.Errorf("Duration = %v, want nil", *c.Duration)
			}
			if c.Shell != ShellZsh {
				t.Errorf("Shell = %q", c.Shell)
			}
		})
	}
}

func TestParseZsh_SkipsBlankLines(t *testing.T) {
	cmds := parseZsh("\n\n: 1700000000:1;ls\n\n", testNow, "zsh-t2")
	if len(cmds) != 1 {
		t.Fatalf("got %d commands, want 1", len(cmds))
	}
}

func TestParseFish(t *testing.T) {
	content := "- cmd: git pull\n  when: 1700000000\n\n- cmd: make build\n\n- cmd: make install\n  when: 1700000200\n"

	cmds := parseFish(content, testNow, "fish-t1")
	if len(cmds) != 3 {
		t.Fatalf("got %d commands, want 3", len(cmds))
	}

	if cmds[0].Command != "git pull" || !cmds[0].Timestamp.Equal(time.Unix(1700000000, 0).UTC()) {
		t.Errorf("first = %q @ %v", cmds[0].Command, cmds[0].Timestamp)
	}
	if cmds[1].Command != "make build" || !cmds[1].Timestamp.Equal(testNow) {
		t.Errorf("second = %q @ %v, want defaulted timestamp", cmds[1].Command, cmds[1].Timestamp)
	}
	// Final block closed by end of file, not a blank line.
	if cmds[2].Command != "make install" || !cmds[2].Timestamp.Equal(time.Unix(1700000200, 0).UTC()) {
		t.Errorf("third = %q @ %v", cmds[2].Command, cmds[2].Timestamp)
	}
}

func TestParseFish_BackToBackRecords(t *testing.T) {
	// Real fish history files have no blank lines between records; the
	// next "- cmd:" line closes the previous block.
	content := "- cmd: git pull\n  when: 1700000000\n- cmd: git push\n  when: 1700000060\n- cmd: git log\n"

	cmds := parseFish(content, testNow, "fish-t4")
	if len(cmds) != 3 {
		t.Fatalf("got %d commands, want 3", len(cmds))
	}
	if cmds[0].Command != "git pull" || !cmds[0].Timestamp.Equal(time.Unix(1700000000, 0).UTC()) {
		t.Errorf("first = %q @ %v", cmds[0].Command, cmds[0].Timestamp)
	}
	if cmds[1].Command != "git push" || !cmds[1].Timestamp.Equal(time.Unix(1700000060, 0).UTC()) {
		t.Errorf("second = %q @ %v", cmds[1].Command, cmds[1].Timestamp)
	}
	if cmds[2].Command != "git log" || !cmds[2].Timestamp.Equal(testNow) {
		t.Errorf("third = %q @ %v, want defaulted timestamp", cmds[2].Command, cmds[2].Timestamp)
	}
}

func TestParseFish_IgnoresOtherFields(t *testing.T) {
	content := "- cmd: vim notes.md\n  when: 1700000000\n  paths:\n    - notes.md\n\n"

	cmds := parseFish(content, testNow, "fish-t2")
	if len(cmds) != 1 {
		t.Fatalf("got %d commands, want 1", len(cmds))
	}
	if cmds[0].Command != "vim notes.md" {
		t.Errorf("Command = %q", cmds[0].Command)
	}
}

func TestParseFish_BadWhenDefaultsToNow(t *testing.T) {
	cmds := parseFish("- cmd: ls\n  when: soon\n\n", testNow, "fish-t3")
	if len(cmds) != 1 {
		t.Fatalf("got %d commands, want 1", len(cmds))
	}
	if !cmds[0].Timestamp.Equal(testNow) {
		t.Errorf("Timestamp = %v, want now fallback", cmds[0].Timestamp)
	}
}

func TestParseFile_MissingFileIsEmpty(t *testing.T) {
	rules := detect.DefaultRuleset()
	cmds, err := ParseFile(context.Background(), Source{ShellBash, filepath.Join(t.TempDir(), "nope")}, rules)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cmds) != 0 {
		t.Fatalf("got %d commands, want 0", len(cmds))
	}
}

func TestParseAllHistories_MergeAndSort(t *testing.T) {
	dir := t.TempDir()
	rules := detect.DefaultRuleset()

	bashPath := filepath.Join(dir, "bash_history")
	zshPath := filepath.Join(dir, "zsh_history")
	if err := os.WriteFile(bashPath, []byte("ls\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(zshPath, []byte(": 1700000000:1;git status\n: 1700000300:2;git push\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	sources := []Source{
		{ShellBash, bashPath},
		{ShellZsh, zshPath},
		{ShellFish, filepath.Join(dir, "missing_fish_history")},
	}

	cmds, err := ParseAllHistories(context.Background(), sources, rules)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cmds) != 3 {
		t.Fatalf("got %d commands, want 3", len(cmds))
	}
	for i := 1; i < len(cmds); i++ {
		if cmds[i].Timestamp.Before(cmds[i-1].Timestamp) {
			t.Errorf("commands not sorted ascending at %d: %v after %v", i, cmds[i].Timestamp, cmds[i-1].Timestamp)
		}
	}
	// Enrichment ran on every record.
	for _, c := range cmds {
		if c.HostID == "" {
			t.Errorf("command %q was not enriched", c.Command)
		}
	}
}

func TestSessionIDsAreUniquePerRun(t *testing.T) {
	a := newSessionID(ShellBash)
	b := newSessionID(ShellBash)
	if a == b {
		t.Fatalf("two parse runs shared a session id: %s", a)
	}
}
