package git

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func TestExtractPathAndOldPath(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		wantPath string
		wantOld  string
	}{
		{"modified", " M internal/diff/hunk.go", "internal/diff/hunk.go", ""},
		{"staged added", "A  docs/new.md", "docs/new.md", ""},
		{"untracked", "?? scratch.txt", "scratch.txt", ""},
		{"deleted", " D old.txt", "old.txt", ""},
		{"renamed", "R  old_name.go -> new_name.go", "new_name.go", "old_name.go"},
		{"short line", "M", "M", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, oldPath := ExtractPathAndOldPath(tt.line)
			if path != tt.wantPath {
				t.Errorf("path = %q, want %q", path, tt.wantPath)
			}
			if oldPath != tt.wantOld {
				t.Errorf("oldPath = %q, want %q", oldPath, tt.wantOld)
			}
		})
	}
}

func TestParseChangedFiles(t *testing.T) {
	tests := []struct {
		name string
		out  string
		want []string
	}{
		{"empty", "", nil},
		{"blank lines only", "\n\n", nil},
		{
			"mixed statuses",
			" M src/app.py\nA  docs/new.md\n?? scratch.txt\n D old.txt\n",
			[]string{"src/app.py", "docs/new.md", "scratch.txt", "old.txt"},
		},
		{
			"rename yields new path",
			"R  old_name.go -> new_name.go\n",
			[]string{"new_name.go"},
		},
		{
			"untracked directory skipped",
			"?? build/\n M keep.go\n",
			[]string{"keep.go"},
		},
		{
			"short line skipped",
			"M\n M keep.go\n",
			[]string{"keep.go"},
		},
		{
			"crlf output",
			" M a.go\r\n M b.go\r\n",
			[]string{"a.go", "b.go"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseChangedFiles(tt.out)
			if len(got) != len(tt.want) {
				t.Fatalf("parseChangedFiles() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("parseChangedFiles()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

// initTestRepo creates a repository with one committed file, a staged edit
// and an unstaged edit on top, so porcelain status reads "MM f.txt".
func initTestRepo(t *testing.T) (string, *Engine) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	dir := t.TempDir()
	ctx := context.Background()
	git := func(args ...string) {
		t.Helper()
		if out, err := runGitCommand(ctx, dir, args...); err != nil {
			t.Fatalf("git %v: %v\n%s", args, err, out)
		}
	}

	git("init", "--quiet")
	git("config", "user.email", "test@example.com")
	git("config", "user.name", "test")

	writeFile(t, dir, "committed\n")
	git("add", "f.txt")
	git("commit", "--quiet", "-m", "initial")

	writeFile(t, dir, "committed\nstaged\n")
	git("add", "f.txt")
	writeFile(t, dir, "committed\nstaged\nunstaged\n")

	return dir, NewEngine(dir)
}

func writeFile(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "f.txt"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func porcelainStatus(t *testing.T, dir string) string {
	t.Helper()
	out, err := runGitCommand(context.Background(), dir, "status", "--porcelain")
	if err != nil {
		t.Fatalf("git status: %v", err)
	}
	return strings.TrimSpace(out)
}

func readFile(t *testing.T, dir string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, "f.txt"))
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestWithPristineTreeRestoresIndexAndWorktree(t *testing.T) {
	dir, engine := initTestRepo(t)

	if status := porcelainStatus(t, dir); status != "MM f.txt" {
		t.Fatalf("precondition: status = %q, want %q", status, "MM f.txt")
	}

	err := engine.WithPristineTree(context.Background(), func(ctx context.Context) error {
		if got := readFile(t, dir); got != "committed\n" {
			t.Errorf("inside scope: content = %q, want committed state", got)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The snapshot must come back exactly: staged hunks staged, unstaged
	// hunks unstaged.
	if status := porcelainStatus(t, dir); status != "MM f.txt" {
		t.Errorf("after scope: status = %q, want %q", status, "MM f.txt")
	}
	if got := readFile(t, dir); got != "committed\nstaged\nunstaged\n" {
		t.Errorf("after scope: content = %q, want working-tree state", got)
	}
}

func TestWithPristineTreeRestoresOnBodyError(t *testing.T) {
	dir, engine := initTestRepo(t)

	bodyErr := errors.New("lint blew up")
	err := engine.WithPristineTree(context.Background(), func(ctx context.Context) error {
		return bodyErr
	})
	if !errors.Is(err, bodyErr) {
		t.Fatalf("error = %v, want body error", err)
	}

	if status := porcelainStatus(t, dir); status != "MM f.txt" {
		t.Errorf("after failed scope: status = %q, want %q", status, "MM f.txt")
	}
}

func TestWithPristineTreeCleanTreeSkipsStash(t *testing.T) {
	dir, engine := initTestRepo(t)

	ctx := context.Background()
	if out, err := runGitCommand(ctx, dir, "checkout", "--quiet", "--", "."); err != nil {
		t.Fatalf("git checkout: %v\n%s", err, out)
	}
	if out, err := runGitCommand(ctx, dir, "reset", "--quiet", "--hard", "HEAD"); err != nil {
		t.Fatalf("git reset: %v\n%s", err, out)
	}

	ran := false
	err := engine.WithPristineTree(ctx, func(ctx context.Context) error {
		ran = true
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ran {
		t.Error("body must run even when there is nothing to stash")
	}
}
