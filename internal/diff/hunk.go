package diff

import (
	"fmt"
	"regexp"
	"strconv"
)

// Op classifies what a hunk does to the file.
type Op int

const (
	OpUpdate Op = iota
	OpCreate
	OpDelete
)

func (o Op) String() string {
	switch o {
	case OpCreate:
		return "create"
	case OpDelete:
		return "delete"
	default:
		return "update"
	}
}

// Hunk is the structured form of one unified-diff hunk header.
//
// A and B refer to the old and new version of the file. Start/Lines come
// straight from the header; End, Next and PostOffset are derived. PostOffset
// is the net line-number shift this hunk applies to every new-version line
// after it.
type Hunk struct {
	Op         Op
	AStart     int
	ALines     int
	BStart     int
	BLines     int
	AEnd       int
	BEnd       int
	ANext      int
	BNext      int
	PostOffset int

	// correspondence pairs new-version lines with old-version lines
	// positionally within the hunk. Only the overlap of the two ranges has
	// entries: excess new-version lines are pure insertions with no
	// predecessor.
	correspondence map[int]int
}

// OldLine returns the old-version line corresponding to the given
// new-version line within this hunk, if the positional pairing defines one.
func (h Hunk) OldLine(bLine int) (int, bool) {
	old, ok := h.correspondence[bLine]
	return old, ok
}

var hunkHeaderRe = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@`)

// ParseHunkHeader parses one header line of the form
// "@@ -aStart[,aLines] +bStart[,bLines] @@". Omitted counts default to 1.
// Trailing context after the closing @@ is ignored.
func ParseHunkHeader(header string) (Hunk, error) {
	m := hunkHeaderRe.FindStringSubmatch(header)
	if m == nil {
		return Hunk{}, fmt.Errorf("malformed hunk header %q", header)
	}

	aStart, err := strconv.Atoi(m[1])
	if err != nil {
		return Hunk{}, fmt.Errorf("hunk header %q: old start: %w", header, err)
	}
	aLines := 1
	if m[2] != "" {
		if aLines, err = strconv.Atoi(m[2]); err != nil {
			return Hunk{}, fmt.Errorf("hunk header %q: old count: %w", header, err)
		}
	}
	bStart, err := strconv.Atoi(m[3])
	if err != nil {
		return Hunk{}, fmt.Errorf("hunk header %q: new start: %w", header, err)
	}
	bLines := 1
	if m[4] != "" {
		if bLines, err = strconv.Atoi(m[4]); err != nil {
			return Hunk{}, fmt.Errorf("hunk header %q: new count: %w", header, err)
		}
	}

	h := Hunk{
		AStart: aStart,
		ALines: aLines,
		BStart: bStart,
		BLines: bLines,
	}

	switch {
	case aLines == 0:
		h.Op = OpCreate
	case bLines == 0:
		h.Op = OpDelete
	default:
		h.Op = OpUpdate
	}

	if h.Op == OpCreate {
		h.AEnd = aStart
	} else {
		h.AEnd = aStart + aLines - 1
	}
	if h.Op == OpDelete {
		h.BEnd = bStart
	} else {
		h.BEnd = bStart + bLines - 1
	}
	h.ANext = h.AEnd + 1
	h.BNext = h.BEnd + 1
	h.PostOffset = h.ANext - h.BNext

	// Positional pairing stops at the shorter range. This is a heuristic,
	// not a content-aware match; keep it as-is.
	overlap := aLines
	if bLines < overlap {
		overlap = bLines
	}
	if overlap > 0 {
		h.correspondence = make(map[int]int, overlap)
		for i := 0; i < overlap; i++ {
			h.correspondence[bStart+i] = aStart + i
		}
	}

	return h, nil
}

// ParseHunkHeaders parses an ordered sequence of hunk header lines.
func ParseHunkHeaders(headers []string) ([]Hunk, error) {
	hunks := make([]Hunk, 0, len(headers))
	for _, header := range headers {
		h, err := ParseHunkHeader(header)
		if err != nil {
			return nil, err
		}
		hunks = append(hunks, h)
	}
	return hunks, nil
}
