package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/xkilldash9x/suture-cli/internal/findings"
	"github.com/xkilldash9x/suture-cli/internal/observability"
	"github.com/xkilldash9x/suture-cli/internal/store"
)

// newIngestCmd creates and configures the `ingest` command.
func newIngestCmd() *cobra.Command {
	var issuesPath string

	ingestCmd := &cobra.Command{
		Use:   "ingest",
		Short: "Persist a findings document to the database",
		Long: `Loads the findings JSON document and batch-inserts every issue into the
configured PostgreSQL database, tagged with a fresh ingest ID.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()

			cfg, err := getConfigFromContext(ctx)
			if err != nil {
				return err
			}
			if cfg.Database.URL == "" {
				return fmt.Errorf("database URL is not configured (SUTURE_DATABASE_URL)")
			}
			if issuesPath == "" {
				issuesPath = cfg.Report.IssuesFile
			}
			// Relative documents live under the project root, same as the
			// report path.
			if !filepath.IsAbs(issuesPath) {
				issuesPath = filepath.Join(cfg.Report.ProjectRoot, issuesPath)
			}

			set, err := findings.Load(issuesPath)
			if err != nil {
				return fmt.Errorf("failed to load findings document: %w", err)
			}

			pool, err := pgxpool.New(ctx, cfg.Database.URL)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer pool.Close()

			if err := pool.Ping(ctx); err != nil {
				return fmt.Errorf("failed to ping database: %w", err)
			}

			ingestID, err := store.New(pool, logger).Ingest(ctx, issuesPath, set)
			if err != nil {
				return fmt.Errorf("failed to persist findings: %w", err)
			}

			cmd.Printf("Ingested %d findings from %s (ingest ID %s)\n", len(set.Issues), issuesPath, ingestID)
			return nil
		},
	}

	ingestCmd.Flags().StringVar(&issuesPath, "issues", "", "Path to the findings JSON document (default from config)")

	return ingestCmd
}
