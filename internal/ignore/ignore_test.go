package ignore

import (
	"testing"

	"tagsentry/internal/filetype"
)

func testRegistry(t *testing.T) *filetype.Registry {
	t.Helper()
	reg, err := filetype.Compile([]string{"*.c", "*.h", "*.go"})
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	return reg
}

func TestShouldIgnore_DirectoryNeverIgnored(t *testing.T) {
	reg := testRegistry(t)
	if ShouldIgnore("/repo/src/", ".tags", reg) {
		t.Error("directory path should never be ignored")
	}
}

func TestShouldIgnore_MarkerAlwaysIgnored(t *testing.T) {
	reg := testRegistry(t)
	if !ShouldIgnore("/repo/.tags", ".tags", reg) {
		t.Error("marker file itself must always be ignored")
	}
	// Regardless of how marker-like the extension is.
	if !ShouldIgnore("/repo/sub/.tags", ".tags", reg) {
		t.Error("marker file in subdirectory must always be ignored")
	}
}

func TestShouldIgnore_UnknownExtension(t *testing.T) {
	reg := testRegistry(t)
	if !ShouldIgnore("/repo/docs/readme.md", ".tags", reg) {
		t.Error("file with unknown extension should be ignored")
	}
}

func TestShouldIgnore_KnownExtension(t *testing.T) {
	reg := testRegistry(t)
	if ShouldIgnore("/repo/src/a.c", ".tags", reg) {
		t.Error("file with known extension should not be ignored")
	}
}
