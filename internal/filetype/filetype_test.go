package filetype

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

const sampleMaps = `Asm      *.asm *.s
C        *.c
C++      *.c++ *.cc *.cpp *.cxx *.h *.hpp
Make     [Mm]akefile GNUmakefile *.mak
`

func TestParseMaps_SkipsLanguageColumn(t *testing.T) {
	got := ParseMaps("C        *.c\nGo       *.go\n")
	want := []string{"*.c", "*.go"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseMaps = %v, want %v", got, want)
	}
}

func TestParseMaps_SkipsPatternlessLines(t *testing.T) {
	got := ParseMaps("Orphan\n\nC *.c\n")
	want := []string{"*.c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseMaps = %v, want %v", got, want)
	}
}

func TestCompile_AnchoredToFilenameEnd(t *testing.T) {
	reg, err := Compile([]string{"*.c"})
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	if !reg.Matches("main.c") {
		t.Error("main.c should match *.c")
	}
	if reg.Matches("main.cpp") {
		t.Error("main.cpp should not match *.c (anchored)")
	}
	if reg.Matches("macro") {
		t.Error("macro should not match *.c (dot is literal)")
	}
}

func TestCompile_MetacharactersAreLiteral(t *testing.T) {
	reg, err := Compile([]string{"*.c++"})
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if !reg.Matches("vec.c++") {
		t.Error("vec.c++ should match *.c++")
	}
	if reg.Matches("vec.cc") {
		t.Error("vec.cc should not match *.c++")
	}
}

func TestRegistry_Matches(t *testing.T) {
	reg, err := Compile(ParseMaps(sampleMaps))
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	cases := []struct {
		filename string
		want     bool
	}{
		{"main.c", true},
		{"boot.s", true},
		{"widget.hpp", true},
		{"readme.md", false},
		{"notes.txt", false},
	}
	for _, tc := range cases {
		if got := reg.Matches(tc.filename); got != tc.want {
			t.Errorf("Matches(%q) = %v, want %v", tc.filename, got, tc.want)
		}
	}
}

func TestDiscoverWith_Success(t *testing.T) {
	reg, err := DiscoverWith(context.Background(), "ctags", func(_ context.Context, toolPath string, args ...string) ([]byte, error) {
		if toolPath != "ctags" {
			t.Errorf("toolPath = %q, want %q", toolPath, "ctags")
		}
		if len(args) != 1 || args[0] != "--list-maps" {
			t.Errorf("args = %v, want [--list-maps]", args)
		}
		return []byte(sampleMaps), nil
	})
	if err != nil {
		t.Fatalf("DiscoverWith() error = %v", err)
	}
	if len(reg.Patterns()) == 0 {
		t.Error("expected compiled patterns")
	}
}

func TestDiscoverWith_ToolFailureIsError(t *testing.T) {
	_, err := DiscoverWith(context.Background(), "ctags", func(context.Context, string, ...string) ([]byte, error) {
		return nil, errors.New("exec: not found")
	})
	if err == nil {
		t.Error("expected error when tool invocation fails")
	}
}

func TestDiscoverWith_EmptyOutputIsError(t *testing.T) {
	_, err := DiscoverWith(context.Background(), "ctags", func(context.Context, string, ...string) ([]byte, error) {
		return []byte("\n"), nil
	})
	if err == nil {
		t.Error("expected error for empty map listing")
	}
}
