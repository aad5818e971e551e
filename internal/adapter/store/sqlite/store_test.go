package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bkyoung/lintdiff/internal/domain"
	"github.com/bkyoung/lintdiff/internal/usecase/lintdiff"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRecordRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run := lintdiff.RunRecord{
		Timestamp:    time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Repository:   "/work/project",
		Head:         "abc123",
		ChangedFiles: 3,
		Findings: []domain.Finding{
			{File: "a.py", Line: 10, Column: 2, Severity: "warning", Message: "unused var"},
			{File: "b.py", Line: 4, Column: 1, Severity: "error", Message: "undefined name"},
		},
	}
	require.NoError(t, s.RecordRun(ctx, run))

	count, err := s.RunCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	var findings int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM findings`).Scan(&findings))
	assert.Equal(t, 2, findings)
}

func TestRecordRunWithoutFindings(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run := lintdiff.RunRecord{
		Timestamp:  time.Now(),
		Repository: "/work/project",
		Head:       "def456",
	}
	require.NoError(t, s.RecordRun(ctx, run))

	count, err := s.RunCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRunIDDeterministic(t *testing.T) {
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	a := lintdiff.RunRecord{Repository: "/r", Head: "h", Timestamp: ts}
	b := lintdiff.RunRecord{Repository: "/r", Head: "h", Timestamp: ts}
	assert.Equal(t, runID(a), runID(b))

	c := lintdiff.RunRecord{Repository: "/r", Head: "h2", Timestamp: ts}
	assert.NotEqual(t, runID(a), runID(c))
}
