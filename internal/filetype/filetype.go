// pattern: Functional Core

// package filetype builds the process-wide registry of filename
// patterns the external indexing tool understands. The registry is
// constructed once at startup and read-only afterward.
package filetype

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
)

// Pattern is a compiled matcher for one extension token reported by
// the external tool (e.g. "*.c").
type Pattern struct {
	raw string
	re  *regexp.Regexp
}

// Raw returns the original token the pattern was compiled from.
func (p Pattern) Raw() string { return p.raw }

// Match reports whether the given filename (not a full path) matches.
func (p Pattern) Match(filename string) bool {
	return p.re.MatchString(filename)
}

// Registry is the immutable set of known filename patterns.
type Registry struct {
	patterns []Pattern
}

// Patterns returns the compiled patterns in discovery order.
func (r *Registry) Patterns() []Pattern { return r.patterns }

// Matches reports whether any known pattern matches the filename.
func (r *Registry) Matches(filename string) bool {
	for _, p := range r.patterns {
		if p.Match(filename) {
			return true
		}
	}
	return false
}

// RunToolFunc is the function signature for invoking the external
// tool's filetype listing. Injected in tests.
type RunToolFunc func(ctx context.Context, toolPath string, args ...string) ([]byte, error)

func runTool(ctx context.Context, toolPath string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, toolPath, args...).Output()
}

// Discover queries the external tool for its supported filename
// patterns and compiles them into a Registry. Failure is fatal to
// startup: without the listing no changed path could ever be judged
// relevant.
func Discover(ctx context.Context, toolPath string) (*Registry, error) {
	return DiscoverWith(ctx, toolPath, runTool)
}

// DiscoverWith is Discover with an injectable tool runner.
func DiscoverWith(ctx context.Context, toolPath string, run RunToolFunc) (*Registry, error) {
	out, err := run(ctx, toolPath, "--list-maps")
	if err != nil {
		return nil, fmt.Errorf("filetype discovery (%s --list-maps): %w", toolPath, err)
	}

	tokens := ParseMaps(string(out))
	if len(tokens) == 0 {
		return nil, fmt.Errorf("filetype discovery: %s --list-maps produced no patterns", toolPath)
	}

	return Compile(tokens)
}

// ParseMaps extracts the raw extension tokens from the tool's map
// listing. Each output line is "<language> <pattern>..."; the leading
// language column is skipped, the remaining whitespace-delimited
// tokens are the patterns.
func ParseMaps(output string) []string {
	var tokens []string
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		tokens = append(tokens, fields[1:]...)
	}
	return tokens
}

// Compile turns raw extension tokens into anchored filename matchers.
// Everything is taken literally except "*", which becomes match-any;
// the pattern is anchored to the end of the filename, so "*.c"
// compiles to `.*\.c$`.
func Compile(tokens []string) (*Registry, error) {
	patterns := make([]Pattern, 0, len(tokens))
	for _, tok := range tokens {
		expr := strings.ReplaceAll(regexp.QuoteMeta(tok), `\*`, ".*")
		re, err := regexp.Compile(expr + "$")
		if err != nil {
			return nil, fmt.Errorf("compile filetype pattern %q: %w", tok, err)
		}
		patterns = append(patterns, Pattern{raw: tok, re: re})
	}
	return &Registry{patterns: patterns}, nil
}
