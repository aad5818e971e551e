package lint

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/bkyoung/lintdiff/internal/domain"
)

// DefaultSeverity is assigned when the linter's output carries none.
const DefaultSeverity = "warning"

// textFindingRe matches "line:col: message", optionally prefixed with the
// file path (flake8-style "path:line:col: message") and optionally carrying
// a bracketed severity ("line:col: [error] message").
var textFindingRe = regexp.MustCompile(`^(?:[^:\s][^:]*:)?(\d+):(\d+):?\s+(?:\[(\w+)\]\s+)?(.+)$`)

// parseTextFindings extracts findings from line-oriented linter output.
// Lines that do not look like findings (banners, summaries) are skipped.
func parseTextFindings(out, file string) ([]domain.Finding, error) {
	var findings []domain.Finding
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		m := textFindingRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		lineNum, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		col, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		severity := m[3]
		if severity == "" {
			severity = DefaultSeverity
		}
		findings = append(findings, domain.Finding{
			File:     file,
			Line:     lineNum,
			Column:   col,
			Severity: strings.ToLower(severity),
			Message:  strings.TrimSpace(m[4]),
		})
	}
	return findings, nil
}

type jsonFinding struct {
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// parseJSONFindings decodes a top-level array of finding objects.
func parseJSONFindings(out []byte, file string) ([]domain.Finding, error) {
	trimmed := strings.TrimSpace(string(out))
	if trimmed == "" {
		return nil, nil
	}

	var raw []jsonFinding
	if err := json.Unmarshal([]byte(trimmed), &raw); err != nil {
		return nil, fmt.Errorf("decode findings: %w", err)
	}

	findings := make([]domain.Finding, 0, len(raw))
	for _, f := range raw {
		severity := f.Severity
		if severity == "" {
			severity = DefaultSeverity
		}
		findings = append(findings, domain.Finding{
			File:     file,
			Line:     f.Line,
			Column:   f.Column,
			Severity: strings.ToLower(severity),
			Message:  f.Message,
		})
	}
	if len(findings) == 0 {
		return nil, nil
	}
	return findings, nil
}
