package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if len(cfg.HistoryPaths) != 3 {
		t.Errorf("HistoryPaths = %v, want bash/zsh/fish", cfg.HistoryPaths)
	}
	if cfg.DangerThreshold != 0.7 {
		t.Errorf("DangerThreshold = %v, want 0.7", cfg.DangerThreshold)
	}
	if !cfg.RedactionEnabled {
		t.Error("RedactionEnabled = false, want true")
	}
	if cfg.AutoImport {
		t.Error("AutoImport = true, want false")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.DangerThreshold != 0.7 || !cfg.RedactionEnabled {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if strings.HasPrefix(cfg.Database, "~") {
		t.Errorf("Database %q not expanded", cfg.Database)
	}
}

func TestLoad_FileOverridesMergeWithDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
database: /var/lib/histlens/commands.db
redaction_enabled: false
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Database != "/var/lib/histlens/commands.db" {
		t.Errorf("Database = %q", cfg.Database)
	}
	if cfg.RedactionEnabled {
		t.Error("RedactionEnabled should be overridden to false")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	// Untouched keys keep their defaults.
	if cfg.DangerThreshold != 0.7 {
		t.Errorf("DangerThreshold = %v, want default 0.7", cfg.DangerThreshold)
	}
	if len(cfg.HistoryPaths) != 3 {
		t.Errorf("HistoryPaths = %v, want defaults", cfg.HistoryPaths)
	}
}

func TestLoad_EmptyHistoryPathsFallBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("history_paths: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.HistoryPaths) != 3 {
		t.Errorf("HistoryPaths = %v, want standard locations", cfg.HistoryPaths)
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("database: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}
	if err := WriteDefault(path); err == nil {
		t.Error("expected error on existing file")
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DangerThreshold != 0.7 {
		t.Errorf("round trip lost defaults: %+v", cfg)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		in   string
		want string
	}{
		{"~", home},
		{"~/.histlens/histlens.db", filepath.Join(home, ".histlens/histlens.db")},
		{"/var/lib/histlens.db", "/var/lib/histlens.db"},
		{"relative/path.db", "relative/path.db"},
		{"~user/file", "~user/file"}, // only the bare ~ form expands
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ExpandPath(tt.in); got != tt.want {
				t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
