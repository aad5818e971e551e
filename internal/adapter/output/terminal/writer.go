// Package terminal renders run results for the terminal.
package terminal

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/bkyoung/lintdiff/internal/usecase/lintdiff"
)

const (
	ansiReset  = "\033[0m"
	ansiRed    = "\033[31m"
	ansiYellow = "\033[33m"
	ansiCyan   = "\033[36m"
	ansiBold   = "\033[1m"
)

// Writer renders findings as "<path>:<line>:<column> <severity> <message>",
// one per line, files in diff order. Severities are colorized when stdout is
// a terminal.
type Writer struct {
	out    io.Writer
	errOut io.Writer
	color  bool
	titler cases.Caser
}

// NewWriter builds a writer for the given streams, enabling color when out
// is os.Stdout and attached to a terminal.
func NewWriter(out, errOut io.Writer) *Writer {
	color := false
	if f, ok := out.(*os.File); ok {
		color = term.IsTerminal(int(f.Fd()))
	}
	return &Writer{
		out:    out,
		errOut: errOut,
		color:  color,
		titler: cases.Title(language.English),
	}
}

// WithColor overrides TTY detection; used by tests and a future --color flag.
func (w *Writer) WithColor(enabled bool) *Writer {
	w.color = enabled
	return w
}

// Write renders the result. Findings go to out; per-file errors go to
// errOut so they survive piping the findings elsewhere.
func (w *Writer) Write(result lintdiff.Result) error {
	for _, file := range result.Files {
		for _, f := range file.Findings {
			line := fmt.Sprintf("%s:%d:%d %s %s", file.Path, f.Line, f.Column, w.severity(f.Severity), f.Message)
			if _, err := fmt.Fprintln(w.out, line); err != nil {
				return err
			}
		}
	}

	for _, fe := range result.Errors {
		if _, err := fmt.Fprintf(w.errOut, "lintdiff: %s: %v\n", fe.Path, fe.Err); err != nil {
			return err
		}
	}

	if count := result.NewFindingCount(); count > 0 {
		summary := fmt.Sprintf("%d New %s in %d %s",
			count, w.plural(count, "finding"), len(result.Files), w.plural(len(result.Files), "file"))
		if w.color {
			summary = ansiBold + summary + ansiReset
		}
		if _, err := fmt.Fprintln(w.out, summary); err != nil {
			return err
		}
	}

	return nil
}

func (w *Writer) severity(severity string) string {
	if !w.color {
		return severity
	}
	switch severity {
	case "error", "fatal":
		return ansiRed + severity + ansiReset
	case "warning":
		return ansiYellow + severity + ansiReset
	default:
		return ansiCyan + severity + ansiReset
	}
}

// plural title-cases the word for the summary line and appends "s" unless
// the count is exactly one.
func (w *Writer) plural(n int, word string) string {
	word = w.titler.String(word)
	if n == 1 {
		return word
	}
	return word + "s"
}
