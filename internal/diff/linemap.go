package diff

// NoOldLine marks a new-version line with no old-version correspondent
// (inserted content). Diff line numbers are 1-based, so 0 is free.
const NoOldLine = 0

// LineMap maps a finite set of new-version line numbers to the corresponding
// old-version line number, or NoOldLine when the line is new content.
type LineMap map[int]int

// MapLines walks hunks and target lines in lockstep and returns a total
// mapping for the targets. hunks must be ordered by non-decreasing BStart and
// non-overlapping in the new-version line space; targets must be strictly
// increasing. Runs in O(len(targets) + len(hunks)).
func MapLines(hunks []Hunk, targets []int) LineMap {
	mapping := make(LineMap, len(targets))

	// offset accumulates the line-number shift for lines in unchanged
	// regions, i.e. the PostOffset of the last hunk fully behind the cursor.
	offset := 0
	hi := 0

	for ti := 0; ti < len(targets); {
		line := targets[ti]

		if hi >= len(hunks) {
			mapping[line] = line + offset
			ti++
			continue
		}

		h := hunks[hi]
		switch {
		case line > h.BEnd:
			// Hunk fully behind this target; its shift now applies.
			offset = h.PostOffset
			hi++
		case line < h.BStart:
			mapping[line] = line + offset
			ti++
		default:
			if old, ok := h.OldLine(line); ok {
				mapping[line] = old
			} else {
				mapping[line] = NoOldLine
			}
			// The hunk may still cover later targets; keep it.
			ti++
		}
	}

	return mapping
}

// MapLineHeaders is MapLines over raw header strings.
func MapLineHeaders(headers []string, targets []int) (LineMap, error) {
	hunks, err := ParseHunkHeaders(headers)
	if err != nil {
		return nil, err
	}
	return MapLines(hunks, targets), nil
}
