package cli

import (
	"testing"
	"time"

	"github.com/histlens/histlens/internal/history"
)

var searchNow = time.Unix(1700000000, 0).UTC()

func searchFixture() []history.Command {
	ok, fail := 0, 1
	return []history.Command{
		{Command: "docker ps", Timestamp: searchNow, HostID: "local", ExitCode: &ok},
		{Command: "docker build -t app .", Timestamp: searchNow.Add(time.Minute), HostID: "local", IsExperiment: true},
		{Command: "rm -rf /tmp/cache", Timestamp: searchNow.Add(2 * time.Minute), HostID: "local", IsDangerous: true},
		{Command: "cargo test", Timestamp: searchNow.Add(3 * time.Minute), HostID: "ssh:deploy@web-01", ExitCode: &fail},
	}
}

func TestFilterCommands(t *testing.T) {
	cmds := searchFixture()

	tests := []struct {
		name   string
		filter searchFilter
		want   []string
	}{
		{
			name:   "no filter, newest first",
			filter: searchFilter{},
			want:   []string{"cargo test", "rm -rf /tmp/cache", "docker build -t app .", "docker ps"},
		},
		{
			name:   "query is case-insensitive",
			filter: searchFilter{Query: "DOCKER"},
			want:   []string{"docker build -t app .", "docker ps"},
		},
		{
			name:   "host",
			filter: searchFilter{Host: "ssh:deploy@web-01"},
			want:   []string{"cargo test"},
		},
		{
			name:   "dangerous only",
			filter: searchFilter{Dangerous: true},
			want:   []string{"rm -rf /tmp/cache"},
		},
		{
			name:   "experiments only",
			filter: searchFilter{Experiments: true},
			want:   []string{"docker build -t app ."},
		},
		{
			name:   "failed only skips unknown exits",
			filter: searchFilter{Failed: true},
			want:   []string{"cargo test"},
		},
		{
			name:   "name sort",
			filter: searchFilter{Sort: "name"},
			want:   []string{"cargo test", "docker build -t app .", "docker ps", "rm -rf /tmp/cache"},
		},
		{
			name:   "last caps after sorting",
			filter: searchFilter{Last: 2},
			want:   []string{"cargo test", "rm -rf /tmp/cache"},
		},
		{
			name:   "filters combine",
			filter: searchFilter{Query: "docker", Experiments: true},
			want:   []string{"docker build -t app ."},
		},
		{
			name:   "no match",
			filter: searchFilter{Query: "kubectl"},
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := filterCommands(cmds, tt.filter)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d results, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i].Command != tt.want[i] {
					t.Errorf("result %d = %q, want %q", i, got[i].Command, tt.want[i])
				}
			}
		})
	}
}

func TestFilterCommands_PreservesInput(t *testing.T) {
	cmds := searchFixture()
	filterCommands(cmds, searchFilter{Sort: "name"})
	if cmds[0].Command != "docker ps" {
		t.Errorf("input slice reordered, first is now %q", cmds[0].Command)
	}
}

func TestApplyFilterCommand(t *testing.T) {
	t.Run("host set and clear", func(t *testing.T) {
		var f searchFilter
		if err := applyFilterCommand("/host web-01", &f); err != nil {
			t.Fatal(err)
		}
		if f.Host != "web-01" {
			t.Errorf("host = %q, want web-01", f.Host)
		}
		if err := applyFilterCommand("/host", &f); err != nil {
			t.Fatal(err)
		}
		if f.Host != "" {
			t.Errorf("host = %q after clear, want empty", f.Host)
		}
	})

	t.Run("toggles flip", func(t *testing.T) {
		var f searchFilter
		for _, line := range []string{"/dangerous", "/experiments", "/failed"} {
			if err := applyFilterCommand(line, &f); err != nil {
				t.Fatal(err)
			}
		}
		if !f.Dangerous || !f.Experiments || !f.Failed {
			t.Errorf("toggles not set: %+v", f)
		}
		if err := applyFilterCommand("/dangerous", &f); err != nil {
			t.Fatal(err)
		}
		if f.Dangerous {
			t.Error("second /dangerous should clear the toggle")
		}
	})

	t.Run("sort validates its argument", func(t *testing.T) {
		var f searchFilter
		if err := applyFilterCommand("/sort name", &f); err != nil {
			t.Fatal(err)
		}
		if f.Sort != "name" {
			t.Errorf("sort = %q, want name", f.Sort)
		}
		if err := applyFilterCommand("/sort size", &f); err == nil {
			t.Error("expected error for /sort size")
		}
	})

	t.Run("last parses a count", func(t *testing.T) {
		var f searchFilter
		if err := applyFilterCommand("/last 10", &f); err != nil {
			t.Fatal(err)
		}
		if f.Last != 10 {
			t.Errorf("last = %d, want 10", f.Last)
		}
		if err := applyFilterCommand("/last many", &f); err == nil {
			t.Error("expected error for /last many")
		}
	})

	t.Run("unknown command", func(t *testing.T) {
		var f searchFilter
		if err := applyFilterCommand("/frobnicate", &f); err == nil {
			t.Error("expected error for unknown command")
		}
	})
}
