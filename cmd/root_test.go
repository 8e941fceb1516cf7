package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xkilldash9x/suture-cli/internal/config"
)

const testIssuesDoc = `{
  "issues": [
    {
      "file": "app.py",
      "line": 2,
      "checker": "NULL_POINTER",
      "severity": "High",
      "description": "Possible null dereference"
    },
    {
      "file": "other.py",
      "line": 1,
      "checker": "RESOURCE_LEAK",
      "severity": "Medium"
    }
  ]
}`

// newTestProject lays out a minimal project with sources and a findings
// document, returning the root and the document path.
func newTestProject(t *testing.T) (string, string) {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "app.py"), []byte("import os\ndata = None\nprint(data)\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "other.py"), []byte("x = open('f')\n"), 0o644))
	issuesPath := filepath.Join(root, "coverity_issues.json")
	require.NoError(t, os.WriteFile(issuesPath, []byte(testIssuesDoc), 0o644))
	return root, issuesPath
}

// executeCommand runs a pristine root command with the given args, keeping
// the logger quiet and capturing combined output.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("SUTURE_LOGGER_LEVEL", "fatal")

	var out bytes.Buffer
	rootCmd := NewRootCommand()
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestReportCommand_PrintsFullReport(t *testing.T) {
	root, issuesPath := newTestProject(t)

	out, err := executeCommand(t, "report", "--root", root, "--issues", issuesPath)
	require.NoError(t, err)

	assert.Contains(t, out, "COVERITY ISSUES ANALYSIS")
	assert.Contains(t, out, "Total Issues: 2")
	assert.Contains(t, out, "ISSUE #1: NULL_POINTER")
	assert.Contains(t, out, ">>>    2 | data = None")
}

func TestReportCommand_FileFilter(t *testing.T) {
	root, issuesPath := newTestProject(t)

	out, err := executeCommand(t, "report", "--root", root, "--issues", issuesPath, "--file", "other.py")
	require.NoError(t, err)

	assert.Contains(t, out, "COVERITY ISSUES IN other.py")
	assert.Contains(t, out, "Total Issues in File: 1")
	assert.NotContains(t, out, "NULL_POINTER")
}

func TestReportCommand_WritesOutputFile(t *testing.T) {
	root, issuesPath := newTestProject(t)
	outputPath := filepath.Join(t.TempDir(), "report.txt")

	out, err := executeCommand(t, "report", "--root", root, "--issues", issuesPath, "-o", outputPath)
	require.NoError(t, err)
	assert.NotContains(t, out, "COVERITY ISSUES ANALYSIS", "report goes to the file, not stdout")

	content, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "COVERITY ISSUES ANALYSIS")
}

func TestReportCommand_MissingDocumentIsReportText(t *testing.T) {
	root, _ := newTestProject(t)

	// A missing findings document is not a command failure; the report text
	// carries the error line instead.
	out, err := executeCommand(t, "report", "--root", root, "--issues", "missing.json")
	require.NoError(t, err)
	assert.Contains(t, out, "Error: Coverity issues file not found at missing.json")
}

func TestRunReport_DirectInvocation(t *testing.T) {
	root, issuesPath := newTestProject(t)

	var out bytes.Buffer
	require.NoError(t, runReport(zap.NewNop(), root, issuesPath, "", "", &out))
	assert.Contains(t, out.String(), "FIXING INSTRUCTIONS:")
}

func TestRootCommand_UnknownSubcommand(t *testing.T) {
	_, err := executeCommand(t, "frobnicate")
	require.Error(t, err)
}

func TestIngestCommand_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("SUTURE_DATABASE_URL", "")

	_, err := executeCommand(t, "ingest")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database URL is not configured")
}

func TestServeConfig_OverrideLeavesSharedConfigUntouched(t *testing.T) {
	shared := &config.Config{}
	shared.Bridge.ListenAddr = "127.0.0.1:8080"

	srvCfg := serveConfig(shared, "0.0.0.0:9090")

	assert.Equal(t, "0.0.0.0:9090", srvCfg.Bridge.ListenAddr)
	assert.Equal(t, "127.0.0.1:8080", shared.Bridge.ListenAddr)
	assert.NotSame(t, shared, srvCfg)
}

func TestServeConfig_NoOverrideKeepsAddress(t *testing.T) {
	shared := &config.Config{}
	shared.Bridge.ListenAddr = "127.0.0.1:8080"

	srvCfg := serveConfig(shared, "")
	assert.Equal(t, "127.0.0.1:8080", srvCfg.Bridge.ListenAddr)
}

func TestGetConfigFromContext_Missing(t *testing.T) {
	cfg, err := getConfigFromContext(context.Background())
	assert.Nil(t, cfg)
	require.Error(t, err)
}
