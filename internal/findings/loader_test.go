package findings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDoc(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "coverity_issues.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_AppliesFieldFallbacks(t *testing.T) {
	path := writeDoc(t, `{"issues": [{"file": "app/main.py", "line": 42}]}`)

	set, err := Load(path)
	require.NoError(t, err)
	require.Len(t, set.Issues, 1)

	f := set.Issues[0]
	assert.Equal(t, "app/main.py", f.File)
	assert.Equal(t, 42, f.Line)
	assert.Equal(t, "Unknown", f.Function)
	assert.Equal(t, "Unknown", f.Checker)
	assert.Equal(t, "Unknown", f.Severity)
	assert.Equal(t, "Unknown", f.Category)
	assert.Equal(t, "N/A", f.CWE)
	assert.Equal(t, "No description", f.Description)
	assert.Equal(t, "No recommendation provided", f.Recommendation)
}

func TestLoad_PreservesIssueOrder(t *testing.T) {
	path := writeDoc(t, `{"issues": [
		{"file": "c.py", "line": 3},
		{"file": "a.py", "line": 1},
		{"file": "b.py", "line": 2}
	]}`)

	set, err := Load(path)
	require.NoError(t, err)
	require.Len(t, set.Issues, 3)
	assert.Equal(t, "c.py", set.Issues[0].File)
	assert.Equal(t, "a.py", set.Issues[1].File)
	assert.Equal(t, "b.py", set.Issues[2].File)
}

func TestLoad_SummaryPresent(t *testing.T) {
	path := writeDoc(t, `{
		"issues": [{"file": "a.py", "line": 1}],
		"summary": {"total_issues": 7, "high_severity": 3, "medium_severity": 2, "low_severity": 2}
	}`)

	set, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, set.Summary)
	assert.Equal(t, 7, set.Summary.TotalIssues)
	assert.Equal(t, 3, set.Summary.HighSeverity)

	eff := set.EffectiveSummary()
	assert.Equal(t, 7, eff.TotalIssues, "supplied summary is never recomputed")
}

func TestLoad_SummaryTotalDefaultsToIssueCount(t *testing.T) {
	path := writeDoc(t, `{
		"issues": [{"file": "a.py", "line": 1}, {"file": "b.py", "line": 2}],
		"summary": {"high_severity": 1}
	}`)

	set, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, set.Summary)
	assert.Equal(t, 2, set.Summary.TotalIssues)
	assert.Equal(t, 1, set.Summary.HighSeverity)
}

func TestLoad_SummaryAbsent(t *testing.T) {
	path := writeDoc(t, `{"issues": [{"file": "a.py", "line": 1}]}`)

	set, err := Load(path)
	require.NoError(t, err)
	assert.Nil(t, set.Summary)

	eff := set.EffectiveSummary()
	assert.Equal(t, 1, eff.TotalIssues)
	assert.Zero(t, eff.HighSeverity)
	assert.Zero(t, eff.MediumSeverity)
	assert.Zero(t, eff.LowSeverity)
}

func TestLoad_MissingDocument(t *testing.T) {
	set, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	assert.Nil(t, set)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoad_MalformedDocument(t *testing.T) {
	path := writeDoc(t, `{"issues": [`)

	set, err := Load(path)
	assert.Nil(t, set)
	require.Error(t, err)

	var decErr *DecodeError
	require.ErrorAs(t, err, &decErr)
	assert.Equal(t, path, decErr.Path)
	assert.NotNil(t, decErr.Err)
}

func TestLoad_EmptyIssueList(t *testing.T) {
	path := writeDoc(t, `{"issues": []}`)

	set, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, set.Issues)
	assert.Equal(t, 0, set.EffectiveSummary().TotalIssues)
}
