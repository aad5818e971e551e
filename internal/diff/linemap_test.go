package diff

import "testing"

func mustParse(t *testing.T, headers []string) []Hunk {
	t.Helper()
	hunks, err := ParseHunkHeaders(headers)
	if err != nil {
		t.Fatalf("parse hunk headers: %v", err)
	}
	return hunks
}

func TestMapLinesIdentityWithoutHunks(t *testing.T) {
	targets := []int{1, 7, 300}
	mapping := MapLines(nil, targets)

	for _, line := range targets {
		if mapping[line] != line {
			t.Errorf("mapping[%d] = %d, want identity", line, mapping[line])
		}
	}
}

func TestMapLinesCreateHunk(t *testing.T) {
	hunks := mustParse(t, []string{"@@ -0,0 +5,3 @@"})
	mapping := MapLines(hunks, []int{5, 6, 7})

	for _, line := range []int{5, 6, 7} {
		if mapping[line] != NoOldLine {
			t.Errorf("mapping[%d] = %d, want none", line, mapping[line])
		}
	}
}

func TestMapLinesDeleteShiftsFollowingLines(t *testing.T) {
	hunks := mustParse(t, []string{"@@ -10,3 +9 @@"})
	mapping := MapLines(hunks, []int{9, 10})

	// Line 9 falls in the hunk overlap and pairs positionally with 10.
	if mapping[9] != 10 {
		t.Errorf("mapping[9] = %d, want 10", mapping[9])
	}
	// Past the hunk the net deletion of two lines applies.
	if mapping[10] != 13 {
		t.Errorf("mapping[10] = %d, want 13", mapping[10])
	}
}

func TestMapLinesWorkedExample(t *testing.T) {
	headers := []string{
		"@@ -0,0 +1 @@",
		"@@ -108 +109 @@",
		"@@ -119,4 +120,2 @@",
		"@@ -127 +126 @@",
		"@@ -144,0 +144 @@",
	}
	mapping, err := MapLineHeaders(headers, []int{1, 5, 109, 115, 144})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := LineMap{
		1:   NoOldLine,
		5:   4,
		109: 108,
		115: 114,
		144: NoOldLine,
	}
	if len(mapping) != len(want) {
		t.Fatalf("mapping has %d entries, want %d", len(mapping), len(want))
	}
	for line, old := range want {
		if mapping[line] != old {
			t.Errorf("mapping[%d] = %d, want %d", line, mapping[line], old)
		}
	}
}

func TestMapLinesMonotonic(t *testing.T) {
	headers := []string{"@@ -3,2 +3,4 @@", "@@ -20,5 +22,1 @@", "@@ -40 +39,3 @@"}
	targets := []int{1, 3, 4, 5, 6, 10, 22, 30, 39, 40, 41, 50}

	mapping, err := MapLineHeaders(headers, targets)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mapping) != len(targets) {
		t.Fatalf("mapping not total: %d entries for %d targets", len(mapping), len(targets))
	}

	prev := 0
	for _, line := range targets {
		old := mapping[line]
		if old == NoOldLine {
			continue
		}
		if old < prev {
			t.Errorf("mapping reorders lines: %d -> %d after old line %d", line, old, prev)
		}
		prev = old
	}
}

func TestMapLinesMultipleTargetsInOneHunk(t *testing.T) {
	hunks := mustParse(t, []string{"@@ -10,4 +10,4 @@"})
	mapping := MapLines(hunks, []int{10, 12, 13})

	for line, want := range map[int]int{10: 10, 12: 12, 13: 13} {
		if mapping[line] != want {
			t.Errorf("mapping[%d] = %d, want %d", line, mapping[line], want)
		}
	}
}

func TestMapLineHeadersMalformed(t *testing.T) {
	if _, err := MapLineHeaders([]string{"not a header"}, []int{1}); err == nil {
		t.Error("expected error for malformed header")
	}
}
