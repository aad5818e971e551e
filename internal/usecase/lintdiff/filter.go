package lintdiff

import (
	"github.com/bmatcuk/doublestar/v4"
)

// PathFilter selects which changed files are considered for linting.
// Include patterns, when present, are a whitelist; exclude patterns always
// win. Patterns use doublestar globs ("**/*.py", "vendor/**").
type PathFilter struct {
	include []string
	exclude []string
}

// NewPathFilter builds a filter from include and exclude glob lists. Either
// list may be empty; a nil filter matches everything.
func NewPathFilter(include, exclude []string) *PathFilter {
	return &PathFilter{include: include, exclude: exclude}
}

// Match reports whether a path passes the filter.
func (f *PathFilter) Match(path string) bool {
	if f == nil {
		return true
	}
	for _, pattern := range f.exclude {
		if ok, err := doublestar.Match(pattern, path); err == nil && ok {
			return false
		}
	}
	if len(f.include) == 0 {
		return true
	}
	for _, pattern := range f.include {
		if ok, err := doublestar.Match(pattern, path); err == nil && ok {
			return true
		}
	}
	return false
}

// Apply filters a path list, preserving order.
func (f *PathFilter) Apply(paths []string) []string {
	if f == nil || (len(f.include) == 0 && len(f.exclude) == 0) {
		return paths
	}
	kept := make([]string, 0, len(paths))
	for _, p := range paths {
		if f.Match(p) {
			kept = append(kept, p)
		}
	}
	return kept
}
