// pattern: Functional Core

// package invoke assembles and executes the external indexing tool
// commands for resolved project roots.
package invoke

import (
	"os"
	"path/filepath"
	"strings"

	"tagsentry/internal/logging"
)

// Invocation is the fully assembled external command for one root.
type Invocation struct {
	ToolPath    string
	ToolArgs    string // raw argument string, may be empty
	ExcludePath string // empty when no exclude spec file exists
	MarkerPath  string // index output file (-f)
	ScanDir     string // recursive scan root (-R), trailing separator
}

// Argv returns the exec argument vector (excluding the tool path).
func (inv Invocation) Argv() []string {
	args := strings.Fields(inv.ToolArgs)
	if inv.ExcludePath != "" {
		args = append(args, "--exclude=@"+inv.ExcludePath)
	}
	return append(args, "-f", inv.MarkerPath, "-R", inv.ScanDir)
}

// CommandString renders the invocation as a single shell-style command
// line. Stable for an unchanged filesystem: building twice yields an
// identical string.
func (inv Invocation) CommandString() string {
	var sb strings.Builder
	sb.WriteString(inv.ToolPath)
	if inv.ToolArgs != "" {
		sb.WriteString(" ")
		sb.WriteString(inv.ToolArgs)
	}
	if inv.ExcludePath != "" {
		sb.WriteString(" --exclude=@")
		sb.WriteString(inv.ExcludePath)
	}
	sb.WriteString(" -f ")
	sb.WriteString(inv.MarkerPath)
	sb.WriteString(" -R ")
	sb.WriteString(inv.ScanDir)
	return sb.String()
}

// Builder assembles invocations for resolved roots.
type Builder struct {
	toolPath    string
	toolArgs    string
	excludeName string
	logger      *logging.ScopedLogger
}

// NewBuilder creates a Builder. excludeName is the per-root exclusion
// list filename looked up beside each marker.
func NewBuilder(toolPath, toolArgs, excludeName string, logger *logging.ScopedLogger) *Builder {
	return &Builder{
		toolPath:    toolPath,
		toolArgs:    toolArgs,
		excludeName: excludeName,
		logger:      logger,
	}
}

// Build assembles the invocation for one root. When
// <markerDir>/<excludeName> exists its path is passed to the tool as
// an exclusion list; absence is not an error and only noted in the log.
func (b *Builder) Build(markerPath, markerDir string) Invocation {
	inv := Invocation{
		ToolPath:   b.toolPath,
		ToolArgs:   b.toolArgs,
		MarkerPath: markerPath,
		ScanDir:    markerDir,
	}

	excludePath := filepath.Join(markerDir, b.excludeName)
	if _, err := os.Stat(excludePath); err == nil {
		inv.ExcludePath = excludePath
	} else {
		b.logger.Info("no exclude spec for root, proceeding without it",
			"dir", markerDir, "exclude_file", b.excludeName)
	}

	return inv
}
