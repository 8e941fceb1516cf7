// Package report renders human-readable triage reports from a set of
// static-analysis findings, pulling in source context around each issue.
// The formatter is pure: it never writes to a terminal or file and never
// mutates the sources it reads.
package report

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/xkilldash9x/suture-cli/api/schemas"
	"github.com/xkilldash9x/suture-cli/internal/sourcectx"
)

const (
	// Context radius for the full report and the single-file variant.
	fullReportRadius = 5
	fileReportRadius = 3

	lineWidth = 80
)

var (
	banner = strings.Repeat("=", lineWidth)
	rule   = strings.Repeat("-", lineWidth)
)

// Formatter renders findings into fixed-layout text reports. Rendering is
// deterministic: the same set and unchanged source files produce
// byte-identical output.
type Formatter struct {
	rootDir string
	log     *zap.Logger
}

// NewFormatter creates a formatter that resolves finding paths against
// rootDir.
func NewFormatter(rootDir string, logger *zap.Logger) *Formatter {
	return &Formatter{
		rootDir: rootDir,
		log:     logger.Named("report_formatter"),
	}
}

// Format renders the full analysis report: a summary header, one numbered
// block per finding in input order, and the fixed remediation footer.
func (f *Formatter) Format(set *schemas.FindingSet) string {
	var out []string

	out = append(out,
		banner,
		"COVERITY ISSUES ANALYSIS",
		banner,
		"")

	summary := set.EffectiveSummary()
	out = append(out,
		fmt.Sprintf("Total Issues: %d", summary.TotalIssues),
		fmt.Sprintf("High Severity: %d", summary.HighSeverity),
		fmt.Sprintf("Medium Severity: %d", summary.MediumSeverity),
		fmt.Sprintf("Low Severity: %d", summary.LowSeverity),
		"",
		banner,
		"")

	for idx, issue := range set.Issues {
		out = append(out,
			fmt.Sprintf("ISSUE #%d: %s", idx+1, issue.Checker),
			rule,
			fmt.Sprintf("File: %s", issue.File),
			fmt.Sprintf("Line: %d", issue.Line),
			fmt.Sprintf("Function: %s", issue.Function),
			fmt.Sprintf("Severity: %s", issue.Severity),
			fmt.Sprintf("Category: %s", issue.Category),
			fmt.Sprintf("CWE: %s", issue.CWE),
			"",
			fmt.Sprintf("Description: %s", issue.Description),
			"",
			fmt.Sprintf("Recommendation: %s", issue.Recommendation),
			"")

		out = f.appendContext(out, issue, fullReportRadius, true)

		out = append(out, "", banner, "")
	}

	out = append(out, fixingInstructions...)
	return strings.Join(out, "\n")
}

// FormatForFile renders a report restricted to findings whose file matches
// filePath exactly (no normalization). An empty filtered set is a soft
// failure: the result is an explanatory message, not an error.
func (f *Formatter) FormatForFile(set *schemas.FindingSet, filePath string) string {
	var matched []schemas.Finding
	for _, issue := range set.Issues {
		if issue.File == filePath {
			matched = append(matched, issue)
		}
	}

	if len(matched) == 0 {
		return fmt.Sprintf("No Coverity issues found in file: %s", filePath)
	}

	var out []string
	out = append(out,
		fmt.Sprintf("COVERITY ISSUES IN %s", filePath),
		banner,
		fmt.Sprintf("Total Issues in File: %d", len(matched)),
		"")

	for idx, issue := range matched {
		out = append(out,
			fmt.Sprintf("ISSUE #%d: %s (Line %d)", idx+1, issue.Checker, issue.Line),
			rule,
			fmt.Sprintf("Function: %s", issue.Function),
			fmt.Sprintf("Severity: %s", issue.Severity),
			fmt.Sprintf("Description: %s", issue.Description),
			fmt.Sprintf("Recommendation: %s", issue.Recommendation),
			"")

		out = f.appendContext(out, issue, fileReportRadius, false)

		out = append(out, "", banner, "")
	}

	return strings.Join(out, "\n")
}

// appendContext renders the source window for one finding. An extraction
// failure degrades to a one-line notice so the remaining findings still
// render. The full-report layout closes the block with a rule and the exact
// issue line; the per-file layout leaves it open, matching the header case.
func (f *Formatter) appendContext(out []string, issue schemas.Finding, radius int, full bool) []string {
	w, err := sourcectx.Extract(issue.File, issue.Line, radius, f.rootDir)
	if err != nil {
		f.log.Debug("Context extraction failed, degrading to notice.",
			zap.String("file", issue.File), zap.Int("line", issue.Line), zap.Error(err))
		return append(out, fmt.Sprintf("Context: %v", err))
	}

	if full {
		out = append(out, fmt.Sprintf("CODE CONTEXT (Lines %d-%d):", w.StartLine, w.EndLine), rule)
	} else {
		out = append(out, fmt.Sprintf("Code Context (Lines %d-%d):", w.StartLine, w.EndLine))
	}

	for i, line := range w.Lines {
		num := w.StartLine + i
		marker := "    "
		if num == issue.Line {
			marker = ">>> "
		}
		out = append(out, fmt.Sprintf("%s%4d | %s", marker, num, line))
	}

	if full {
		out = append(out, rule, fmt.Sprintf("Issue Line: %s", w.IssueLineText))
	}
	return out
}

// fixingInstructions is the static footer appended to every full report.
// It explains issues; it never fixes them.
var fixingInstructions = []string{
	"FIXING INSTRUCTIONS:",
	rule,
	"To fix these issues:",
	"1. Review each issue's description and recommendation",
	"2. Navigate to the specified file and line number",
	"3. Apply the recommended fix based on the issue type",
	"4. Test the changes to ensure no functionality is broken",
	"5. Re-run Coverity analysis to verify the fix",
	"",
	"Common Fixes by Issue Type:",
	"- RESOURCE_LEAK: Release files, sockets, and handles on every path",
	"- NULL_POINTER: Add null checks before dereferencing",
	"- UNINITIALIZED_VARIABLE: Initialize variables at declaration",
	"- BUFFER_OVERFLOW: Add bounds checking and input validation",
	"- MEMORY_LEAK: Free or release allocated resources when done",
	"- FORMAT_STRING_VULNERABILITY: Use parameterized formatting",
	"- PATH_TRAVERSAL: Validate and sanitize file paths",
	"- SQL_INJECTION: Use parameterized queries",
	"",
}
