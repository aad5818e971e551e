package diff

import (
	"regexp"
	"strings"
)

// FileDiff is the per-file record produced by segmenting one repository
// comparison. OldPath is empty for created files, NewPath for deleted ones.
// HunkHeaders keeps the raw "@@" lines in diff order; parsing is deferred to
// the line mapper so a header problem only fails that file.
type FileDiff struct {
	OldPath     string
	NewPath     string
	HunkHeaders []string
	IsBinary    bool

	// Malformed is set when a block has hunk content but is missing the
	// ---/+++ path markers. Such a file is unprocessable, not droppable.
	Malformed bool
}

// Path returns the best display name for the file: the new path, falling
// back to the old path for deletions.
func (fd FileDiff) Path() string {
	if fd.NewPath != "" {
		return fd.NewPath
	}
	return fd.OldPath
}

var diffHeaderRe = regexp.MustCompile(`^diff --git a/(.+) b/(.+)$`)

// Segment splits the raw output of a unified diff covering many files into
// per-file records. Blocks start at lines beginning "diff "; within a block
// the first "---" line and the following "+++" line carry the old and new
// paths, "/dev/null" meaning the side does not exist. Files changed without
// content hunks (mode changes) yield a record with no headers.
func Segment(raw string) []FileDiff {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	lines := strings.Split(raw, "\n")
	var files []FileDiff
	i := 0

	for i < len(lines) {
		if !strings.HasPrefix(lines[i], "diff ") {
			i++
			continue
		}

		var fd FileDiff
		// Fallback naming for blocks whose path markers never appear.
		var headerOld, headerNew string
		if m := diffHeaderRe.FindStringSubmatch(lines[i]); m != nil {
			headerOld, headerNew = m[1], m[2]
		}
		i++

		sawMarkers := false
		for i < len(lines) && !strings.HasPrefix(lines[i], "diff ") {
			line := lines[i]
			switch {
			case strings.HasPrefix(line, "--- ") && !sawMarkers:
				fd.OldPath = stripPathMarker(line[4:])
				if i+1 < len(lines) && strings.HasPrefix(lines[i+1], "+++ ") {
					fd.NewPath = stripPathMarker(lines[i+1][4:])
					i++
				}
				sawMarkers = true
			case strings.HasPrefix(line, "@@"):
				fd.HunkHeaders = append(fd.HunkHeaders, line)
			case strings.HasPrefix(line, "Binary files ") || strings.HasPrefix(line, "GIT binary patch"):
				fd.IsBinary = true
			}
			i++
		}

		if !sawMarkers {
			fd.OldPath = headerOld
			fd.NewPath = headerNew
			if !fd.IsBinary && len(fd.HunkHeaders) > 0 {
				fd.Malformed = true
			}
		}

		files = append(files, fd)
	}

	return files
}

// stripPathMarker removes the 2-character "a/" or "b/" prefix git puts on
// --- and +++ paths. "/dev/null" denotes an absent side.
func stripPathMarker(s string) string {
	s = strings.TrimSpace(s)
	// Drop any trailing tab-separated timestamp some diff tools emit.
	if idx := strings.IndexByte(s, '\t'); idx >= 0 {
		s = s[:idx]
	}
	if s == "/dev/null" {
		return ""
	}
	if strings.HasPrefix(s, "a/") || strings.HasPrefix(s, "b/") {
		return s[2:]
	}
	return s
}
