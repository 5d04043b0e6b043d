package orchestrator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"tagsentry/internal/filetype"
	"tagsentry/internal/invoke"
	"tagsentry/internal/logging"
	"tagsentry/internal/resolve"
)

// recordingRunner captures invocations instead of executing them.
type recordingRunner struct {
	batches [][]invoke.Invocation
	err     error
}

func (r *recordingRunner) RunAll(_ context.Context, invs []invoke.Invocation) error {
	r.batches = append(r.batches, invs)
	return r.err
}

func newOrchestrator(t *testing.T, runner BatchRunner) *Orchestrator {
	t.Helper()
	reg, err := filetype.Compile([]string{"*.c", "*.h"})
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	resolver := resolve.New(".tags", reg, logging.NopLogger())
	builder := invoke.NewBuilder("ctags", "", ".tags.exclude", logging.NopLogger())
	return New(resolver, builder, runner, logging.NopLogger())
}

func projectTree(t *testing.T) (root, src string) {
	t.Helper()
	root = t.TempDir()
	src = filepath.Join(root, "src")
	if err := os.MkdirAll(src, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, ".tags"), nil, 0644); err != nil {
		t.Fatal(err)
	}
	return root, src
}

func TestHandleBatch_OneInvocationPerRoot(t *testing.T) {
	root, src := projectTree(t)
	runner := &recordingRunner{}
	o := newOrchestrator(t, runner)

	err := o.HandleBatch(context.Background(), []string{
		filepath.Join(src, "a.c"),
		filepath.Join(src, "b.c"),
	})
	if err != nil {
		t.Fatalf("HandleBatch() error = %v", err)
	}

	if len(runner.batches) != 1 {
		t.Fatalf("runner called %d times, want 1", len(runner.batches))
	}
	invs := runner.batches[0]
	if len(invs) != 1 {
		t.Fatalf("invocations = %d, want 1 (deduplicated)", len(invs))
	}
	if invs[0].MarkerPath != filepath.Join(root, ".tags") {
		t.Errorf("MarkerPath = %q, want %q", invs[0].MarkerPath, filepath.Join(root, ".tags"))
	}
	if invs[0].ScanDir != root+"/" {
		t.Errorf("ScanDir = %q, want %q", invs[0].ScanDir, root+"/")
	}
}

func TestHandleBatch_EmptyRootMapIsNoOpCompletion(t *testing.T) {
	_, src := projectTree(t)
	runner := &recordingRunner{}
	lm := logging.NewTestManager()

	reg, err := filetype.Compile([]string{"*.c"})
	if err != nil {
		t.Fatal(err)
	}
	resolver := resolve.New(".tags", reg, logging.NopLogger())
	builder := invoke.NewBuilder("ctags", "", ".tags.exclude", logging.NopLogger())
	o := New(resolver, builder, runner, lm.For("orchestrator"))

	// Only an irrelevant file changed: the batch must still complete
	// successfully, without running the tool.
	err = o.HandleBatch(context.Background(), []string{filepath.Join(src, "readme.md")})
	if err != nil {
		t.Fatalf("HandleBatch() error = %v, want nil no-op completion", err)
	}
	if len(runner.batches) != 0 {
		t.Errorf("runner called %d times, want 0", len(runner.batches))
	}

	entries := lm.Entries().FilterMessage("no roots affected, completing batch as no-op").All()
	if len(entries) != 1 {
		t.Errorf("expected explicit no-op completion log, got %d entries", len(entries))
	}
}

func TestHandleBatch_MarkerSelfChangeTakesNoOpPath(t *testing.T) {
	root, _ := projectTree(t)
	runner := &recordingRunner{}
	o := newOrchestrator(t, runner)

	err := o.HandleBatch(context.Background(), []string{filepath.Join(root, ".tags")})
	if err != nil {
		t.Fatalf("HandleBatch() error = %v", err)
	}
	if len(runner.batches) != 0 {
		t.Error("marker self-change must not trigger an invocation")
	}
}

func TestHandleBatch_MultipleRootsSortedOrder(t *testing.T) {
	base := t.TempDir()
	for _, name := range []string{"beta", "alpha"} {
		dir := filepath.Join(base, name)
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, ".tags"), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}

	runner := &recordingRunner{}
	o := newOrchestrator(t, runner)

	err := o.HandleBatch(context.Background(), []string{
		filepath.Join(base, "beta", "b.c"),
		filepath.Join(base, "alpha", "a.c"),
	})
	if err != nil {
		t.Fatalf("HandleBatch() error = %v", err)
	}

	invs := runner.batches[0]
	if len(invs) != 2 {
		t.Fatalf("invocations = %d, want 2", len(invs))
	}
	if invs[0].MarkerPath != filepath.Join(base, "alpha", ".tags") {
		t.Errorf("first invocation = %q, want alpha root first", invs[0].MarkerPath)
	}
}

func TestHandleBatch_RunnerFailureSurfaces(t *testing.T) {
	_, src := projectTree(t)
	runner := &recordingRunner{err: errors.New("ctags exited with code 1")}
	o := newOrchestrator(t, runner)

	err := o.HandleBatch(context.Background(), []string{filepath.Join(src, "a.c")})
	if err == nil {
		t.Error("HandleBatch() error = nil, want runner failure surfaced")
	}
}
