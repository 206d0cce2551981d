package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// migrateCmd applies the embedded schema
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update database tables",
	Long: `Apply the embedded schema. Every statement is idempotent,
so running migrate twice is safe.

Example:
  go run ./cmd/warehouse migrate`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()

	if err := a.db.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	PrintSuccess("Schema is up to date")
	return nil
}
