// Package sourcectx reads bounded windows of source lines around a reported
// issue location. It is a read-only collaborator: each call re-reads the file
// and nothing is cached between calls.
package sourcectx

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound indicates the referenced source file does not exist under the
// project root. Callers distinguish it from read failures with errors.Is.
var ErrNotFound = errors.New("source file not found")

// Window is the slice of source lines surrounding a target line. Line numbers
// are 1-based and inclusive, clamped to the file bounds.
type Window struct {
	FilePath   string
	TargetLine int
	StartLine  int
	EndLine    int
	// Lines spans StartLine..EndLine in order. Empty when the clamped range
	// is empty (e.g., an empty file).
	Lines []string
	// IssueLineText is the exact text at TargetLine with trailing whitespace
	// stripped, or "" when TargetLine falls outside the file.
	IssueLineText string
	TotalLines    int
}

// Extract reads the file at filePath (resolved against rootDir) and returns
// the window of lines within radius of targetLine.
//
// The whole file is loaded into memory; targets are source files, not
// arbitrarily large data. A trailing newline does not produce a phantom
// empty last line: the empty element left behind by splitting on '\n' is
// dropped before the line count is computed, so files with and without a
// final newline yield identical windows.
func Extract(filePath string, targetLine, radius int, rootDir string) (*Window, error) {
	fullPath := filepath.Join(rootDir, filePath)

	if _, err := os.Stat(fullPath); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", filePath, ErrNotFound)
		}
		return nil, fmt.Errorf("stat %s: %w", filePath, err)
	}

	data, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filePath, err)
	}

	lines := splitLines(string(data))
	total := len(lines)

	start := targetLine - radius
	if start < 1 {
		start = 1
	}
	end := targetLine + radius
	if end > total {
		end = total
	}

	w := &Window{
		FilePath:   filePath,
		TargetLine: targetLine,
		StartLine:  start,
		EndLine:    end,
		TotalLines: total,
	}

	if start <= end {
		w.Lines = lines[start-1 : end]
	}
	if targetLine >= 1 && targetLine <= total {
		w.IssueLineText = strings.TrimRight(lines[targetLine-1], " \t\r\n\v\f")
	}
	return w, nil
}

// splitLines splits file content on newlines, dropping the single empty
// trailing element a final '\n' leaves behind.
func splitLines(content string) []string {
	lines := strings.Split(content, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}
