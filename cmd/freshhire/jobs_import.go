package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"freshhire-backend/internal/jobs"
	"freshhire-backend/internal/shared/config"
	"freshhire-backend/internal/shared/storage/db"
	"freshhire-backend/internal/shared/telemetry"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Manage job postings",
}

var jobsImportCmd = &cobra.Command{
	Use:   "import <catalog.yaml>",
	Short: "Insert or update job postings from a YAML catalog",
	Args:  cobra.ExactArgs(1),
	RunE:  runJobsImport,
}

func init() {
	jobsCmd.AddCommand(jobsImportCmd)
	rootCmd.AddCommand(jobsCmd)
}

func runJobsImport(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.UsesMemoryStore() {
		return fmt.Errorf("jobs import needs a Postgres DATABASE_URL")
	}

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	ctx := cmd.Context()
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultMigrateOptions()))
	if err != nil {
		return err
	}
	defer sqlDB.Close()
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	n, err := jobs.NewImporter(&jobs.PGRepo{DB: sqlDB}).Import(ctx, f)
	if err != nil {
		return err
	}
	telemetry.Info("jobs.imported", map[string]any{"count": n, "file": args[0]})
	fmt.Fprintf(cmd.OutOrStdout(), "imported %d jobs\n", n)
	return nil
}
