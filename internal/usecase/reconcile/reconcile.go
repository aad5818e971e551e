// Package reconcile decides which new-version findings were actually
// introduced by the working-tree change, by comparing them against the
// old-version findings at the mapped line.
package reconcile

import (
	"github.com/bkyoung/lintdiff/internal/diff"
	"github.com/bkyoung/lintdiff/internal/domain"
)

// Reconcile reports every finding in newByLine whose identity was not
// already present at the corresponding old-version line. Findings on lines
// with no old correspondent are always reported, as is everything when
// oldByLine is absent (the file did not previously exist). Output is ordered
// by ascending line, preserving the linter's per-line order. Pure function,
// no side effects.
func Reconcile(newByLine, oldByLine domain.FindingsByLine, lineMap diff.LineMap) []domain.Finding {
	var introduced []domain.Finding

	for _, line := range newByLine.Lines() {
		findings := newByLine[line]

		oldLine := lineMap[line]
		if oldLine == diff.NoOldLine || oldByLine == nil {
			introduced = append(introduced, findings...)
			continue
		}

		existing := identitySet(oldByLine[oldLine])
		for _, f := range findings {
			if !existing[f.Identity()] {
				introduced = append(introduced, f)
			}
		}
	}

	return introduced
}

func identitySet(findings []domain.Finding) map[domain.Identity]bool {
	if len(findings) == 0 {
		return nil
	}
	set := make(map[domain.Identity]bool, len(findings))
	for _, f := range findings {
		set[f.Identity()] = true
	}
	return set
}
