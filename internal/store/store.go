// Package store persists findings to PostgreSQL. Persistence is optional:
// the report path never touches the database, and a missing connection only
// disables the ingest and query commands.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/xkilldash9x/suture-cli/api/schemas"
)

// Default and maximum row counts for file queries.
const (
	defaultQueryLimit = 50
	maxQueryLimit     = 500
)

// DB is the subset of pgxpool.Pool the store needs. It is an interface so
// tests can substitute pgxmock.
type DB interface {
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
}

// Store provides batch ingestion and querying of findings.
type Store struct {
	db  DB
	log *zap.Logger
}

// New creates a Store over an established database connection.
func New(db DB, logger *zap.Logger) *Store {
	return &Store{
		db:  db,
		log: logger.Named("store"),
	}
}

// findingColumns matches the findings table schema; keep the CopyFrom row
// layout in Ingest aligned with it.
var findingColumns = []string{
	"id", "ingest_id", "source",
	"file", "line", "function", "checker",
	"severity", "category", "cwe",
	"description", "recommendation", "recorded_at",
}

// Ingest batch-inserts every finding in the set using pgx.CopyFrom and
// returns the generated ingest ID that groups them. sourcePath records which
// findings document the rows came from.
func (s *Store) Ingest(ctx context.Context, sourcePath string, set *schemas.FindingSet) (string, error) {
	ingestID := uuid.New().String()
	now := time.Now().UTC()

	rows := make([][]interface{}, 0, len(set.Issues))
	for _, f := range set.Issues {
		rows = append(rows, []interface{}{
			uuid.New().String(), ingestID, sourcePath,
			f.File, f.Line, f.Function, f.Checker,
			f.Severity, f.Category, f.CWE,
			f.Description, f.Recommendation, now,
		})
	}

	if len(rows) == 0 {
		s.log.Debug("No findings to persist.", zap.String("source", sourcePath))
		return ingestID, nil
	}

	copied, err := s.db.CopyFrom(ctx, pgx.Identifier{"findings"}, findingColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return "", fmt.Errorf("failed to copy findings batch: %w", err)
	}
	if int(copied) != len(rows) {
		return "", fmt.Errorf("mismatch in copied findings count: expected %d, got %d", len(rows), copied)
	}

	s.log.Info("Persisted findings batch.",
		zap.String("ingest_id", ingestID),
		zap.String("source", sourcePath),
		zap.Int("count", len(rows)))
	return ingestID, nil
}

// QueryByFile returns the stored findings for one file, ordered by line
// number. The file filter is an exact string match, parameterized.
func (s *Store) QueryByFile(ctx context.Context, file string, limit int) ([]schemas.Finding, error) {
	if limit <= 0 {
		limit = defaultQueryLimit
	} else if limit > maxQueryLimit {
		limit = maxQueryLimit
	}

	query := `
        SELECT file, line, function, checker, severity, category, cwe, description, recommendation
        FROM findings
        WHERE file = $1
        ORDER BY line ASC, recorded_at DESC
        LIMIT $2`

	rows, err := s.db.Query(ctx, query, file, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query findings for %s: %w", file, err)
	}
	defer rows.Close()

	var out []schemas.Finding
	for rows.Next() {
		var f schemas.Finding
		if err := rows.Scan(
			&f.File, &f.Line, &f.Function, &f.Checker,
			&f.Severity, &f.Category, &f.CWE,
			&f.Description, &f.Recommendation,
		); err != nil {
			return nil, fmt.Errorf("failed to scan finding row: %w", err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during row iteration: %w", err)
	}

	// Return an empty slice instead of nil when nothing matched.
	if out == nil {
		out = []schemas.Finding{}
	}
	return out, nil
}
