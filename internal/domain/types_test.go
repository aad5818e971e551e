package domain

import "testing"

func TestIdentityIgnoresSeverityAndLine(t *testing.T) {
	a := Finding{File: "a.go", Line: 10, Column: 3, Severity: "warning", Message: "unused var"}
	b := Finding{File: "a.go", Line: 42, Column: 3, Severity: "error", Message: "unused var"}

	if a.Identity() != b.Identity() {
		t.Errorf("expected identical identities, got %+v and %+v", a.Identity(), b.Identity())
	}

	c := Finding{File: "a.go", Line: 10, Column: 4, Severity: "warning", Message: "unused var"}
	if a.Identity() == c.Identity() {
		t.Error("expected differing columns to produce differing identities")
	}
}

func TestRender(t *testing.T) {
	f := Finding{File: "pkg/x.go", Line: 7, Column: 2, Severity: "error", Message: "undefined: y"}
	want := "pkg/x.go:7:2 error undefined: y"
	if got := f.Render(); got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestGroupByLine(t *testing.T) {
	findings := []Finding{
		{Line: 9, Column: 1, Message: "first"},
		{Line: 3, Column: 2, Message: "second"},
		{Line: 9, Column: 5, Message: "third"},
	}

	grouped := GroupByLine(findings)
	if len(grouped) != 2 {
		t.Fatalf("expected 2 line groups, got %d", len(grouped))
	}
	if len(grouped[9]) != 2 {
		t.Fatalf("expected 2 findings at line 9, got %d", len(grouped[9]))
	}
	// Per-line order must match reporting order.
	if grouped[9][0].Message != "first" || grouped[9][1].Message != "third" {
		t.Errorf("line 9 order wrong: %+v", grouped[9])
	}

	lines := grouped.Lines()
	if len(lines) != 2 || lines[0] != 3 || lines[1] != 9 {
		t.Errorf("Lines() = %v, want [3 9]", lines)
	}
}

func TestGroupByLineEmpty(t *testing.T) {
	if g := GroupByLine(nil); g != nil {
		t.Errorf("expected nil group for no findings, got %v", g)
	}
}
