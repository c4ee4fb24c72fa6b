// Package main provides the tagpatch CLI: a one-shot patcher that threads a
// `tags: Vec<String>` attribute through a screenshot.rs-shaped Rust source
// file — struct definition, reader command, a new save_screenshot_tags
// persistence command, and every capture-site construction.
//
// Usage:
//
//	tagpatch [flags] [target_file]
//
// The target defaults to src-tauri/src/screenshot.rs. The file is rewritten
// in place; -dry-run inspects without writing and -diff previews the edit as
// a unified patch.
//
// Pattern misses are not errors: a stage whose expected shape is absent
// leaves the buffer alone, and the summary line shows what actually matched.
// Only I/O failures abort the run.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"

	"tagpatch/internal/diff"
	"tagpatch/internal/rewrite"
	"tagpatch/internal/textutil"
)

// defaultTarget mirrors the fixed path the patch was written for.
const defaultTarget = "src-tauri/src/screenshot.rs"

// Config carries all parsed CLI options.
type Config struct {
	target      string
	dryRun      bool
	showDiff    bool
	diffContext int
	noColor     bool
	backup      bool
}

// parseFlags parses args (without the program name) into a Config.
// Kept separate from main so it is unit-testable.
func parseFlags(args []string) (Config, error) {
	var cfg Config
	fs := flag.NewFlagSet("tagpatch", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage:\n")
		fmt.Fprintf(fs.Output(), "  %s [flags] [target_file]\n", filepath.Base(os.Args[0]))
		fmt.Fprintf(fs.Output(), "\nDefault target: %s\n\nFlags:\n", defaultTarget)
		fs.PrintDefaults()
	}

	fs.BoolVar(&cfg.dryRun, "dry-run", false, "run the pipeline but do not write the file")
	fs.BoolVar(&cfg.showDiff, "diff", false, "print a unified diff of the edit")
	fs.IntVar(&cfg.diffContext, "diff-context", 4, "context lines in the unified diff")
	fs.BoolVar(&cfg.noColor, "no-color", false, "disable ANSI colors in output")
	fs.BoolVar(&cfg.backup, "backup", false, "keep the original content as <target>.bak before overwriting")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	switch fs.NArg() {
	case 0:
		cfg.target = defaultTarget
	case 1:
		cfg.target = filepath.Clean(fs.Arg(0))
	default:
		return cfg, fmt.Errorf("expected at most one target file, got %d", fs.NArg())
	}
	return cfg, nil
}

// summarize renders the per-stage outcome in one line: every count the
// stages reported, nothing inferred.
func summarize(target string, rep rewrite.Report) string {
	save := "inserted"
	switch {
	case rep.SaveGuarded:
		save = "already-present"
	case !rep.SaveCommand:
		save = "no-anchor"
	}
	return fmt.Sprintf(
		"Patched %s (struct=%v, preamble=%v, reader-sites=%d, save-command=%s, backfilled=%d)",
		target, rep.StructField, rep.MetaPreamble, rep.GetterSites, save, rep.Backfilled,
	)
}

// fileMode returns the target's current permission bits so the rewrite keeps
// them. Falls back to 0644 when the file cannot be stat'ed.
func fileMode(path string) os.FileMode {
	info, err := os.Stat(path)
	if err != nil {
		return 0o644
	}
	return info.Mode().Perm()
}

var noticeColor = color.New(color.FgYellow, color.Bold)

func main() {
	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		if err == flag.ErrHelp {
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		os.Exit(2)
	}
	if cfg.noColor {
		color.NoColor = true
	}

	// ----- Load ---------------------------------------------------------------
	raw, err := os.ReadFile(cfg.target)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		os.Exit(1)
	}
	decoded, err := textutil.DecodeUTF8LF(raw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s: %v\n", cfg.target, err)
		os.Exit(1)
	}
	original := string(decoded)
	mode := fileMode(cfg.target)

	// ----- Transform ----------------------------------------------------------
	patched, rep := rewrite.Apply(original)

	if cfg.showDiff || cfg.dryRun {
		body, oversize := diff.Unified(
			"a/"+filepath.ToSlash(cfg.target),
			"b/"+filepath.ToSlash(cfg.target),
			[]byte(original), []byte(patched),
			diff.Options{Context: cfg.diffContext},
		)
		if oversize {
			fmt.Fprintln(os.Stderr, "Note: diff omitted (oversize)")
		}
		if body != "" {
			diff.Render(os.Stdout, body)
		}
	}

	if !rep.Changed() {
		fmt.Println("No recognizable patterns; file left unchanged.")
		return
	}

	if cfg.dryRun {
		noticeColor.Fprintln(os.Stdout, "dry-run: no changes written")
		fmt.Println(summarize(cfg.target, rep))
		return
	}

	// ----- Write --------------------------------------------------------------
	if cfg.backup {
		if err := os.WriteFile(cfg.target+".bak", raw, mode); err != nil {
			fmt.Fprintln(os.Stderr, "ERROR:", err)
			os.Exit(1)
		}
	}
	if err := os.WriteFile(cfg.target, []byte(patched), mode); err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		os.Exit(1)
	}

	fmt.Println(summarize(cfg.target, rep))
}
