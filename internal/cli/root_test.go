package cli

import (
	"testing"

	"github.com/histlens/histlens/internal/history"
)

func TestInferShell(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/home/dev/.bash_history", history.ShellBash},
		{"/home/dev/.zsh_history", history.ShellZsh},
		{"/home/dev/.local/share/fish/fish_history", history.ShellFish},
		{"/backup/zsh_history.old", history.ShellZsh},
		{"/home/dev/.histfile", history.ShellBash},
		{"/tmp/commands.txt", history.ShellBash},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := inferShell(tt.path); got != tt.want {
				t.Errorf("inferShell(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
