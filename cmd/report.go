package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/suture-cli/internal/observability"
	"github.com/xkilldash9x/suture-cli/internal/report"
)

// newReportCmd creates and configures the `report` command.
func newReportCmd() *cobra.Command {
	var issuesPath string
	var filePath string
	var rootDir string
	var outputPath string

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Render the findings report with surrounding source context",
		Long: `Loads the findings document, extracts the source lines around each issue,
and prints a plain-text report. With --file the report is restricted to the
issues recorded against that one file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := getConfigFromContext(cmd.Context())
			if err != nil {
				return err
			}

			if rootDir == "" {
				rootDir = cfg.Report.ProjectRoot
			}
			if issuesPath == "" {
				issuesPath = cfg.Report.IssuesFile
			}

			return runReport(observability.GetLogger(), rootDir, issuesPath, filePath, outputPath, cmd.OutOrStdout())
		},
	}

	reportCmd.Flags().StringVar(&issuesPath, "issues", "", "Path to the findings JSON document (default from config)")
	reportCmd.Flags().StringVar(&filePath, "file", "", "Restrict the report to issues in this source file")
	reportCmd.Flags().StringVar(&rootDir, "root", "", "Project root the findings file paths are relative to (default from config)")
	reportCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path. If unset, the report is printed to stdout.")

	return reportCmd
}

// runReport contains the core, testable logic for rendering a report.
func runReport(logger *zap.Logger, rootDir, issuesPath, filePath, outputPath string, stdout io.Writer) error {
	svc := report.NewService(rootDir, issuesPath, logger)

	var text string
	if filePath != "" {
		text = svc.IssuesByFile(filePath, issuesPath)
	} else {
		text = svc.AnalyzeIssues(issuesPath)
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, []byte(text+"\n"), 0o644); err != nil {
			return fmt.Errorf("failed to write report file: %w", err)
		}
		logger.Info("Report written to file", zap.String("path", outputPath))
		return nil
	}

	fmt.Fprintln(stdout, text)
	return nil
}
