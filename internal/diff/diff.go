// Package diff produces a unified patch preview of the transformation: the
// loaded buffer versus the patched buffer. It uses
// github.com/pmezard/go-difflib/difflib for classic unified output
// (---/+++ headers, @@ hunks, lines prefixed with ' ', '-', '+').
package diff

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	difflib "github.com/pmezard/go-difflib/difflib"
)

// Options controls patch generation behavior.
type Options struct {
	// MaxBytes is a guardrail on input size (old+new). When exceeded,
	// a minimal placeholder patch is returned and oversize=true.
	// 0 means "no limit".
	MaxBytes int

	// Context controls the number of context lines in unified hunks.
	// If 0, default to 4.
	Context int
}

// Unified produces a classic unified patch for a↦b. Identical inputs yield an
// empty body. The oversize flag reports that the patch was omitted because of
// the size guardrail.
func Unified(aName, bName string, a, b []byte, opt Options) (body string, oversize bool) {
	if opt.MaxBytes > 0 && (len(a)+len(b)) > opt.MaxBytes {
		return omitted(aName, bName), true
	}
	if string(a) == string(b) {
		return "", false
	}

	ctx := opt.Context
	if ctx <= 0 {
		ctx = 4
	}

	u := difflib.UnifiedDiff{
		A:        splitLinesKeepNL(string(a)),
		B:        splitLinesKeepNL(string(b)),
		FromFile: aName,
		ToFile:   bName,
		Context:  ctx,
	}
	s, err := difflib.GetUnifiedDiffString(u)
	if err != nil {
		return omitted(aName, bName), false
	}
	return s, false
}

var (
	addColor  = color.New(color.FgGreen)
	delColor  = color.New(color.FgRed)
	hunkColor = color.New(color.FgCyan)
)

// Render writes a unified patch to w with per-line ANSI colors: additions
// green, deletions red, hunk headers cyan. Honors color.NoColor, so callers
// disable coloring globally rather than per call.
func Render(w io.Writer, patch string) {
	for _, line := range strings.SplitAfter(patch, "\n") {
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "@@"):
			hunkColor.Fprint(w, line)
		case strings.HasPrefix(line, "+") && !strings.HasPrefix(line, "+++"):
			addColor.Fprint(w, line)
		case strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "---"):
			delColor.Fprint(w, line)
		default:
			fmt.Fprint(w, line)
		}
	}
}

// splitLinesKeepNL splits into lines and keeps newline characters,
// which produces better unified hunks.
func splitLinesKeepNL(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.SplitAfter(s, "\n")
}

// omitted returns a compact placeholder when size limits are exceeded.
func omitted(aName, bName string) string {
	return fmt.Sprintf("--- %s\n+++ %s\n@@\n# diff omitted (oversize)\n", aName, bName)
}
