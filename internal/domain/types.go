package domain

import (
	"fmt"
	"sort"
)

// Finding represents a single issue reported by the linter at a specific
// position in a file.
type Finding struct {
	File     string
	Line     int
	Column   int
	Severity string
	Message  string
}

// Identity is the tuple used to decide whether two findings, possibly from
// different versions of a file, represent the same issue. Column and message
// must both match; severity and line number are irrelevant.
type Identity struct {
	Column  int
	Message string
}

// Identity returns the finding's cross-version identity.
func (f Finding) Identity() Identity {
	return Identity{Column: f.Column, Message: f.Message}
}

// Render formats the finding for terminal output.
func (f Finding) Render() string {
	return fmt.Sprintf("%s:%d:%d %s %s", f.File, f.Line, f.Column, f.Severity, f.Message)
}

// FindingsByLine groups findings by line number, preserving the linter's
// reporting order within each line.
type FindingsByLine map[int][]Finding

// GroupByLine builds a FindingsByLine from a flat finding list.
func GroupByLine(findings []Finding) FindingsByLine {
	if len(findings) == 0 {
		return nil
	}
	grouped := make(FindingsByLine, len(findings))
	for _, f := range findings {
		grouped[f.Line] = append(grouped[f.Line], f)
	}
	return grouped
}

// Lines returns the line numbers present in the group in ascending order.
func (g FindingsByLine) Lines() []int {
	lines := make([]int, 0, len(g))
	for line := range g {
		lines = append(lines, line)
	}
	sort.Ints(lines)
	return lines
}
