package lint

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRunnerValidation(t *testing.T) {
	_, err := NewRunner("", "", FormatText)
	assert.Error(t, err)

	_, err = NewRunner("flake8 {file}", "", "xml")
	assert.Error(t, err)

	r, err := NewRunner("flake8 --config {config} {file}", "/etc/lint", FormatText)
	require.NoError(t, err)
	assert.NotNil(t, r)
}

func TestExpandPlaceholders(t *testing.T) {
	r, err := NewRunner("mylint --config={config} {file}", "conf.d", FormatText)
	require.NoError(t, err)

	argv := r.expand("src/a.py")
	assert.Equal(t, []string{"mylint", "--config=conf.d", "src/a.py"}, argv)
}

func TestExpandAppendsFileWhenNoPlaceholder(t *testing.T) {
	r, err := NewRunner("mylint --strict", "", FormatText)
	require.NoError(t, err)

	argv := r.expand("src/a.py")
	assert.Equal(t, []string{"mylint", "--strict", "src/a.py"}, argv)
}

func TestLintParsesCommandOutput(t *testing.T) {
	// echo stands in for a linter emitting one text finding.
	r, err := NewRunner("echo {file}:3:1: boom", "", FormatText)
	require.NoError(t, err)

	findings, err := r.Lint(context.Background(), t.TempDir(), "x.go")
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, 3, findings[0].Line)
	assert.Equal(t, 1, findings[0].Column)
	assert.Equal(t, "boom", findings[0].Message)
}

func TestLintCommandFailureWithoutOutput(t *testing.T) {
	r, err := NewRunner("false", "", FormatText)
	require.NoError(t, err)

	_, err = r.Lint(context.Background(), t.TempDir(), "x.go")
	assert.Error(t, err)
}
