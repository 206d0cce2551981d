package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/warehouse/internal/contracts"
)

// seedCmd loads demo data
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the admin account and demo data",
	Long: `Migrate, then create the bootstrap admin (ADMIN_LOGIN / ADMIN_PASSWORD),
the demo floor map, five sample receipts and the demo product catalog.
Existing rows are kept.

Example:
  go run ./cmd/warehouse seed`,
	RunE: runSeed,
}

// demoCatalog matches the ids the demo robots report
var demoCatalog = []contracts.Product{
	{ID: "P001", Name: "Wi-Fi router"},
	{ID: "P002", Name: "UTP 5e cable"},
	{ID: "P003", Name: "Router"},
	{ID: "P004", Name: "Patch panel 24p"},
	{ID: "P005", Name: "Cross panel"},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()

	PrintHeader("Seed")

	if err := a.db.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	if a.cfg.Auth.AdminPassword == "" {
		PrintWarning("ADMIN_PASSWORD is empty, admin account not created")
	} else {
		created, err := a.auth.EnsureAdmin(ctx, a.cfg.Auth.AdminLogin, a.cfg.Auth.AdminPassword)
		if err != nil {
			return fmt.Errorf("ensure admin: %w", err)
		}
		PrintKeyValue("Admin", fmt.Sprintf("%s (created: %t)", a.cfg.Auth.AdminLogin, created), 10)
	}

	result, err := a.warehouse.Seed(ctx, time.Now())
	if err != nil {
		return err
	}
	PrintKeyValue("Map cells", fmt.Sprintf("%d", result.Cells), 10)
	PrintKeyValue("Receipts", fmt.Sprintf("%d", result.Receipts), 10)

	for _, p := range demoCatalog {
		if err := a.stockRepo.Upsert(ctx, p); err != nil {
			return fmt.Errorf("seed product %s: %w", p.ID, err)
		}
	}
	PrintKeyValue("Products", fmt.Sprintf("%d", len(demoCatalog)), 10)

	PrintSeparator()
	PrintSuccess("Seed completed")
	return nil
}
