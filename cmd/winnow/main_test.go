package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/panbanda/winnow/pkg/config"
)

func TestGenerateDefaultConfig_TOMLRoundTrip(t *testing.T) {
	content, err := generateDefaultConfig("winnow.toml")
	if err != nil {
		t.Fatalf("generateDefaultConfig() error: %v", err)
	}
	if !strings.HasPrefix(content, "# Winnow configuration") {
		t.Error("scaffold missing header comment")
	}

	path := filepath.Join(t.TempDir(), "winnow.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("scaffold does not load back: %v", err)
	}
	if cfg.Dedup.ShingleSize != 7 || cfg.Dedup.MinhashPermutations != 128 {
		t.Errorf("round-tripped dedup config = %+v", cfg.Dedup)
	}
	if !cfg.Quality.Enabled || cfg.Quality.MinLOC != 5 {
		t.Errorf("round-tripped quality config = %+v", cfg.Quality)
	}
}

func TestGenerateDefaultConfig_YAMLRoundTrip(t *testing.T) {
	content, err := generateDefaultConfig("winnow.yaml")
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "winnow.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("YAML scaffold does not load back: %v", err)
	}
	if cfg.Dedup.LSHThreshold != 0.85 {
		t.Errorf("LSHThreshold = %v, want 0.85", cfg.Dedup.LSHThreshold)
	}
}

func TestFirstLine(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"single", "single"},
		{"\n\n  lead  \nrest", "lead"},
		{strings.Repeat("x", 80), strings.Repeat("x", 57) + "..."},
	}
	for _, tt := range tests {
		if got := firstLine(tt.in); got != tt.want {
			t.Errorf("firstLine(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
