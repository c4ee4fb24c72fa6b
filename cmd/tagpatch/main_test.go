package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tagpatch/internal/rewrite"
)

func TestParseFlagsDefaults(t *testing.T) {
	cfg, err := parseFlags(nil)
	if err != nil {
		t.Fatalf("parseFlags error: %v", err)
	}
	if cfg.target != defaultTarget {
		t.Fatalf("target got %q", cfg.target)
	}
	if cfg.dryRun || cfg.showDiff || cfg.backup || cfg.noColor {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.diffContext != 4 {
		t.Fatalf("diffContext got %d", cfg.diffContext)
	}
}

func TestParseFlagsBasic(t *testing.T) {
	args := []string{"-dry-run", "-diff", "-diff-context", "7", "-backup", "src/screenshot.rs"}
	cfg, err := parseFlags(args)
	if err != nil {
		t.Fatalf("parseFlags error: %v", err)
	}
	if cfg.target != "src/screenshot.rs" {
		t.Fatalf("target got %q", cfg.target)
	}
	if !cfg.dryRun || !cfg.showDiff || !cfg.backup {
		t.Fatalf("flags not captured: %+v", cfg)
	}
	if cfg.diffContext != 7 {
		t.Fatalf("diffContext got %d", cfg.diffContext)
	}
}

func TestParseFlagsTooManyTargets(t *testing.T) {
	if _, err := parseFlags([]string{"a.rs", "b.rs"}); err == nil {
		t.Fatalf("expected error for two positional targets")
	}
}

func TestFileModePreservesPermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "screenshot.rs")
	if err := os.WriteFile(path, []byte("pub struct Screenshot {}\n"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if got := fileMode(path); got != 0o600 {
		t.Fatalf("fileMode got %o, want 600", got)
	}
}

func TestFileModeMissingFileFallsBack(t *testing.T) {
	if got := fileMode(filepath.Join(t.TempDir(), "absent.rs")); got != 0o644 {
		t.Fatalf("fileMode fallback got %o, want 644", got)
	}
}

func TestSummarizeStates(t *testing.T) {
	s := summarize("x.rs", rewrite.Report{SaveCommand: true, Backfilled: 2})
	if want := "save-command=inserted"; !strings.Contains(s, want) {
		t.Fatalf("summary %q missing %q", s, want)
	}
	s = summarize("x.rs", rewrite.Report{SaveGuarded: true})
	if want := "save-command=already-present"; !strings.Contains(s, want) {
		t.Fatalf("summary %q missing %q", s, want)
	}
	s = summarize("x.rs", rewrite.Report{})
	if want := "save-command=no-anchor"; !strings.Contains(s, want) {
		t.Fatalf("summary %q missing %q", s, want)
	}
}
