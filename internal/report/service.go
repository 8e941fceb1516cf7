package report

import (
	"errors"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/xkilldash9x/suture-cli/internal/findings"
)

// Service binds the findings loader and the formatter into the two
// operations exposed to callers: analyze everything, or analyze one file.
// It follows a best-effort contract: loader failures are converted into
// single-line report text instead of propagating, so a calling agent always
// receives something it can show.
type Service struct {
	rootDir    string
	issuesPath string
	formatter  *Formatter
	log        *zap.Logger
}

// NewService creates a report service rooted at rootDir. issuesPath is the
// default findings document, used when a call does not name one.
func NewService(rootDir, issuesPath string, logger *zap.Logger) *Service {
	return &Service{
		rootDir:    rootDir,
		issuesPath: issuesPath,
		formatter:  NewFormatter(rootDir, logger),
		log:        logger.Named("report_service"),
	}
}

// AnalyzeIssues loads the findings document and renders the full report.
func (s *Service) AnalyzeIssues(issuesPath string) string {
	path := s.resolveIssuesPath(issuesPath)
	set, err := findings.Load(s.joinRoot(path))
	if err != nil {
		return s.loadFailureText(path, err)
	}
	return s.formatter.Format(set)
}

// IssuesByFile loads the findings document and renders the report
// restricted to findings in filePath.
func (s *Service) IssuesByFile(filePath, issuesPath string) string {
	path := s.resolveIssuesPath(issuesPath)
	set, err := findings.Load(s.joinRoot(path))
	if err != nil {
		return s.loadFailureText(path, err)
	}
	return s.formatter.FormatForFile(set, filePath)
}

func (s *Service) resolveIssuesPath(issuesPath string) string {
	if issuesPath == "" {
		return s.issuesPath
	}
	return issuesPath
}

// joinRoot resolves a relative findings-document path against the project
// root, never the process working directory. Failure messages still echo
// the path the caller gave, so joining happens only at the read.
func (s *Service) joinRoot(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(s.rootDir, path)
}

// loadFailureText maps loader errors onto the single-line messages the
// report contract promises: no banner, no footer, just the explanation.
func (s *Service) loadFailureText(path string, err error) string {
	s.log.Warn("Findings document could not be loaded.", zap.String("path", path), zap.Error(err))

	var decErr *findings.DecodeError
	switch {
	case errors.Is(err, findings.ErrNotFound):
		return fmt.Sprintf("Error: Coverity issues file not found at %s", path)
	case errors.As(err, &decErr):
		return fmt.Sprintf("Error: Invalid JSON format in %s: %v", path, decErr.Err)
	default:
		return fmt.Sprintf("Error processing Coverity issues: %v", err)
	}
}
