package analyze

import (
	"strings"
	"testing"
	"time"

	"github.com/histlens/histlens/internal/history"
)

func repeat(text string, n int) []history.Command {
	var cmds []history.Command
	for i := 0; i < n; i++ {
		cmds = append(cmds, cmd(text, statsNow.Add(time.Duration(i)*time.Minute)))
	}
	return cmds
}

func findSuggestion(a AliasAnalysis, command string) (AliasSuggestion, bool) {
	for _, s := range a.Suggestions {
		if s.Command == command {
			return s, true
		}
	}
	return AliasSuggestion{}, false
}

func TestAliases_EmptyInput(t *testing.T) {
	a := Aliases(nil)
	if len(a.Suggestions) != 0 || a.PotentialSavings != 0 || a.EfficiencyGain != 0 {
		t.Errorf("analysis = %+v, want zero", a)
	}
}

func TestAliases_GitStatusSuggestsGS(t *testing.T) {
	a := Aliases(repeat("git status", 5))

	s, ok := findSuggestion(a, "git status")
	if !ok {
		t.Fatalf("no suggestion for git status in %v", a.Suggestions)
	}
	if s.Alias != "gs" {
		t.Errorf("Alias = %q, want %q", s.Alias, "gs")
	}
	if s.Frequency != 5 {
		t.Errorf("Frequency = %d, want 5", s.Frequency)
	}
	if s.SavedPerUse != len("git status")-len("gs") {
		t.Errorf("SavedPerUse = %d", s.SavedPerUse)
	}
	if s.TotalSaved != s.SavedPerUse*5 {
		t.Errorf("TotalSaved = %d", s.TotalSaved)
	}
}

func TestAliases_CuratedTable(t *testing.T) {
	tests := []struct {
		command string
		alias   string
	}{
		{"git checkout main", "gco"},
		{"git commit -m msg", "gcm"},
		{"git push origin develop", "gpo"},
		{"docker ps -a", "dps"},
		{"kubectl get pods", "kg"},
		{"kubectl delete pod web", "kdel"},
		{"npm install", "ni"},
		{"yarn add react", "ya"},
		{"cargo build --release", "cb"},
		{"systemctl restart nginx", "scr"},
		{"ls -la", "ll"},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			got, ok := aliasName(tt.command)
			if !ok {
				t.Fatalf("no alias for %q", tt.command)
			}
			if got != tt.alias {
				t.Errorf("aliasName(%q) = %q, want %q", tt.command, got, tt.alias)
			}
		})
	}
}

func TestAliases_GenericFallback(t *testing.T) {
	alias, ok := aliasName("terraform plan -out=tfplan")
	if !ok {
		t.Fatal("expected a generic alias")
	}
	if alias != "tp-" {
		t.Errorf("alias = %q, want first letters", alias)
	}

	if _, ok := aliasName("du -sh"); ok {
		t.Error("short uncurated command should not get an alias")
	}
}

func TestAliases_SavingsFloor(t *testing.T) {
	// Bare "git" would alias to "g", saving only 2 characters. An alias
	// must save at least 3 to be worth the muscle memory.
	a := Aliases(repeat("git", 5))
	if _, ok := findSuggestion(a, "git"); ok {
		t.Error("git -> g saves under 3 chars and should be skipped")
	}
}

func TestAliases_Normalization(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"kill 1234", "kill N"},
		{"tail -f /var/log/app.log", "tail -f /FILE"},
		{"cat notes.txt", "cat notes.txt"}, // no slash, stays put
		{"git status", "git status"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := normalizeForAlias(tt.in); got != tt.want {
				t.Errorf("normalizeForAlias(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestAliases_NormalizationIdempotent(t *testing.T) {
	inputs := []string{"kill 1234", "tail -f /var/log/app.log", "git status"}
	for _, in := range inputs {
		once := normalizeForAlias(in)
		if twice := normalizeForAlias(once); twice != once {
			t.Errorf("normalize(%q): %q then %q", in, once, twice)
		}
	}
}

func TestAliases_MergesNormalizedVariants(t *testing.T) {
	cmds := append(repeat("kill 1234", 2), repeat("kill 5678", 2)...)
	// Four invocations of the same shape; kill is uncurated and short, so
	// no suggestion, but the counting must merge. Use a longer command to
	// see the merged frequency surface.
	long := append(repeat("journalctl --unit nginx --since 2024", 2),
		repeat("journalctl --unit nginx --since 2025", 1)...)
	a := Aliases(append(cmds, long...))

	s, ok := findSuggestion(a, "journalctl --unit nginx --since N")
	if !ok {
		t.Fatalf("no merged suggestion in %v", a.Suggestions)
	}
	if s.Frequency != 3 {
		t.Errorf("Frequency = %d, want 3 merged uses", s.Frequency)
	}
}

func TestAliases_SuggestionsAlwaysShorter(t *testing.T) {
	cmds := append(repeat("git status", 5), repeat("docker ps -a", 4)...)
	cmds = append(cmds, repeat("kubectl get pods --namespace prod", 6)...)

	for _, s := range Aliases(cmds).Suggestions {
		if s.SavedPerUse < 3 {
			t.Errorf("suggestion %q -> %q saves %d, want >= 3", s.Command, s.Alias, s.SavedPerUse)
		}
		if len(s.Alias) >= len(s.Command) {
			t.Errorf("alias %q not shorter than %q", s.Alias, s.Command)
		}
	}
}

func TestAliases_ExistingAliasDetection(t *testing.T) {
	cmds := append(repeat("ll", 3), repeat("gs", 2)...)
	a := Aliases(cmds)

	if a.ExistingAliases["ll"] != 3 || a.ExistingAliases["gs"] != 2 {
		t.Errorf("ExistingAliases = %v", a.ExistingAliases)
	}
}

func TestShellLines(t *testing.T) {
	suggestions := []AliasSuggestion{
		{Command: "git status", Alias: "gs"},
		{Command: "docker ps -a", Alias: "dps"},
	}

	bash := ShellLines(suggestions, history.ShellBash)
	if !strings.Contains(bash, "alias gs='git status'") {
		t.Errorf("bash output missing definition:\n%s", bash)
	}

	fish := ShellLines(suggestions, history.ShellFish)
	if !strings.Contains(fish, "alias gs 'git status'") {
		t.Errorf("fish output missing definition:\n%s", fish)
	}

	other := ShellLines(suggestions, "powershell")
	if !strings.Contains(other, "not supported") {
		t.Errorf("unsupported shell output = %q", other)
	}
}
