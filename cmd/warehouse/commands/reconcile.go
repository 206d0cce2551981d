package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// reconcileCmd rebuilds the stock projection
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Recompute product quantities and statuses from the scan log",
	Long: `Fold the whole scan event log into per-product totals and rewrite
every product's quantity and status. Safe to run at any time.

Example:
  go run ./cmd/warehouse reconcile`,
	RunE: runReconcile,
}

func init() {
	rootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	PrintHeader("Stock reconcile")
	t := a.reconciler.Thresholds()
	PrintKeyValue("Thresholds", fmt.Sprintf("ideal > %d, critical <= %d", t.Ideal, t.Critical), 10)

	report, err := a.reconciler.Reconcile(cmd.Context())
	if err != nil {
		return err
	}

	PrintKeyValue("Products", fmt.Sprintf("%d", report.Products), 10)
	PrintKeyValue("Updated", fmt.Sprintf("%d", report.Updated), 10)
	PrintKeyValue("Skipped", fmt.Sprintf("%d", report.Skipped), 10)
	PrintKeyValue("Failed", fmt.Sprintf("%d", report.Failed), 10)
	PrintSeparator()
	PrintSuccess(fmt.Sprintf("Reconcile completed in %s", report.Duration))

	return nil
}
