// Package lint runs the external linter and parses its findings.
package lint

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/bkyoung/lintdiff/internal/domain"
)

// Output formats the runner can parse.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Runner invokes a configured linter command on one file at a time. The
// command is an argv template; "{file}" expands to the file path and
// "{config}" to the configured linter config directory. When no "{file}"
// placeholder is present the path is appended.
type Runner struct {
	argv      []string
	configDir string
	format    string
}

// NewRunner builds a runner from a whitespace-separated command template.
func NewRunner(command, configDir, format string) (*Runner, error) {
	argv := strings.Fields(command)
	if len(argv) == 0 {
		return nil, fmt.Errorf("lint command is empty")
	}
	if format != FormatText && format != FormatJSON {
		return nil, fmt.Errorf("unsupported lint output format %q", format)
	}
	return &Runner{argv: argv, configDir: configDir, format: format}, nil
}

// Lint runs the linter on file (relative to dir) and returns its findings.
// Each call is a full, independent lint; nothing is cached between the
// old-version and new-version invocations of the same file.
//
// Linters conventionally exit non-zero when they report findings, so a
// non-zero exit with parseable output is a normal result. A non-zero exit
// with no findings and no parseable output is an invocation error.
func (r *Runner) Lint(ctx context.Context, dir, file string) ([]domain.Finding, error) {
	argv := r.expand(file)
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	if ctx.Err() != nil {
		return nil, fmt.Errorf("lint %s: %w", file, ctx.Err())
	}

	var findings []domain.Finding
	var parseErr error
	switch r.format {
	case FormatJSON:
		findings, parseErr = parseJSONFindings(stdout.Bytes(), file)
	default:
		findings, parseErr = parseTextFindings(stdout.String(), file)
	}

	if parseErr != nil {
		return nil, fmt.Errorf("lint %s: parse output: %w", file, parseErr)
	}
	if runErr != nil && len(findings) == 0 && stdout.Len() == 0 {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return nil, fmt.Errorf("lint %s: %w: %s", file, runErr, detail)
		}
		return nil, fmt.Errorf("lint %s: %w", file, runErr)
	}

	return findings, nil
}

func (r *Runner) expand(file string) []string {
	argv := make([]string, 0, len(r.argv)+1)
	sawFile := false
	for _, arg := range r.argv {
		if strings.Contains(arg, "{file}") {
			sawFile = true
		}
		arg = strings.ReplaceAll(arg, "{file}", file)
		arg = strings.ReplaceAll(arg, "{config}", r.configDir)
		argv = append(argv, arg)
	}
	if !sawFile {
		argv = append(argv, file)
	}
	return argv
}
