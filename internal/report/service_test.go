package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T, issuesJSON string, sources map[string]string) (*Service, string) {
	t.Helper()
	root := t.TempDir()
	for name, content := range sources {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	issuesPath := filepath.Join(root, "coverity_issues.json")
	if issuesJSON != "" {
		require.NoError(t, os.WriteFile(issuesPath, []byte(issuesJSON), 0o644))
	}
	return NewService(root, issuesPath, zap.NewNop()), issuesPath
}

func TestAnalyzeIssues_FullReport(t *testing.T) {
	svc, _ := newTestService(t, `{
		"issues": [{"file": "app/main.py", "line": 2, "checker": "RESOURCE_LEAK", "severity": "High"}],
		"summary": {"total_issues": 1, "high_severity": 1}
	}`, map[string]string{
		"app/main.py": "f = open('x')\ndata = f.read()\nprint(data)\n",
	})

	out := svc.AnalyzeIssues("")

	assert.Contains(t, out, "COVERITY ISSUES ANALYSIS")
	assert.Contains(t, out, "Total Issues: 1")
	assert.Contains(t, out, "ISSUE #1: RESOURCE_LEAK")
	assert.Contains(t, out, ">>>    2 | data = f.read()")
	assert.Contains(t, out, "Common Fixes by Issue Type:")
}

func TestAnalyzeIssues_MissingDocument(t *testing.T) {
	svc, issuesPath := newTestService(t, "", nil)

	out := svc.AnalyzeIssues("")

	// Single-line message only: no banner, no footer.
	assert.Equal(t, "Error: Coverity issues file not found at "+issuesPath, out)
	assert.NotContains(t, out, "=")
	assert.Equal(t, 1, len(strings.Split(out, "\n")))
}

func TestAnalyzeIssues_MalformedDocument(t *testing.T) {
	svc, issuesPath := newTestService(t, `{"issues": [}`, nil)

	out := svc.AnalyzeIssues("")

	assert.True(t, strings.HasPrefix(out, "Error: Invalid JSON format in "+issuesPath), out)
	assert.NotContains(t, out, "FIXING INSTRUCTIONS")
}

func TestAnalyzeIssues_ExplicitPathOverridesDefault(t *testing.T) {
	svc, _ := newTestService(t, `{"issues": []}`, nil)
	other := filepath.Join(t.TempDir(), "other.json")
	require.NoError(t, os.WriteFile(other, []byte(`{"issues": [{"file": "x.c", "line": 1, "checker": "NULL_POINTER"}]}`), 0o644))

	out := svc.AnalyzeIssues(other)

	assert.Contains(t, out, "ISSUE #1: NULL_POINTER")
}

func TestAnalyzeIssues_RelativeDocumentResolvesAgainstRoot(t *testing.T) {
	// The default document name is relative and the root is a temp dir far
	// from the test working directory; the report must still render.
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "app.py"), []byte("x = 1\ny = None\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "coverity_issues.json"), []byte(`{
		"issues": [{"file": "app.py", "line": 2, "checker": "NULL_POINTER", "severity": "High"}]
	}`), 0o644))

	svc := NewService(root, "coverity_issues.json", zap.NewNop())

	out := svc.AnalyzeIssues("")
	assert.Contains(t, out, "ISSUE #1: NULL_POINTER")
	assert.Contains(t, out, ">>>    2 | y = None")

	// Explicit relative overrides resolve the same way.
	out = svc.AnalyzeIssues("coverity_issues.json")
	assert.Contains(t, out, "ISSUE #1: NULL_POINTER")
}

func TestAnalyzeIssues_RelativeMissingDocumentEchoesGivenPath(t *testing.T) {
	svc := NewService(t.TempDir(), "coverity_issues.json", zap.NewNop())

	// The not-found message carries the caller's path, not the joined one.
	out := svc.AnalyzeIssues("nope.json")
	assert.Equal(t, "Error: Coverity issues file not found at nope.json", out)
}

func TestIssuesByFile_FiltersAndCounts(t *testing.T) {
	svc, _ := newTestService(t, `{"issues": [
		{"file": "a.py", "line": 1, "checker": "ONE", "severity": "High"},
		{"file": "b.py", "line": 1, "checker": "TWO", "severity": "Low"}
	]}`, map[string]string{"a.py": "hello\n", "b.py": "world\n"})

	out := svc.IssuesByFile("a.py", "")

	assert.Contains(t, out, "COVERITY ISSUES IN a.py")
	assert.Contains(t, out, "Total Issues in File: 1")
	assert.Contains(t, out, "ISSUE #1: ONE (Line 1)")
	assert.NotContains(t, out, "TWO")
}

func TestIssuesByFile_MissingDocument(t *testing.T) {
	svc, issuesPath := newTestService(t, "", nil)

	out := svc.IssuesByFile("a.py", "")
	assert.Equal(t, "Error: Coverity issues file not found at "+issuesPath, out)
}

func TestIssuesByFile_NoMatches(t *testing.T) {
	svc, _ := newTestService(t, `{"issues": [{"file": "a.py", "line": 1}]}`, nil)

	out := svc.IssuesByFile("zzz.py", "")
	assert.Equal(t, "No Coverity issues found in file: zzz.py", out)
}
