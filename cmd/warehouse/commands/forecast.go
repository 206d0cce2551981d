package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wonny/warehouse/internal/forecast"
)

// forecastCmd groups forecast subcommands
var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Stock-out forecasts",
	Long: `Run forecasts against the configured provider chain.

Subcommands:
  run     - structured per-product forecast from recent scans
  report  - narrative forecast from recent receipts
  list    - recent stored predictions

Example:
  go run ./cmd/warehouse forecast run
  go run ./cmd/warehouse forecast list --limit 10`,
}

var (
	forecastRunCmd = &cobra.Command{
		Use:   "run",
		Short: "Run one structured forecast",
		RunE:  runForecast,
	}

	forecastReportCmd = &cobra.Command{
		Use:   "report",
		Short: "Write one narrative forecast",
		RunE:  runForecastReport,
	}

	forecastListCmd = &cobra.Command{
		Use:   "list",
		Short: "List recent predictions",
		RunE:  listPredictions,
	}

	forecastListLimit int
)

func init() {
	rootCmd.AddCommand(forecastCmd)
	forecastCmd.AddCommand(forecastRunCmd)
	forecastCmd.AddCommand(forecastReportCmd)
	forecastCmd.AddCommand(forecastListCmd)

	forecastListCmd.Flags().IntVar(&forecastListLimit, "limit", 20, "number of predictions")
}

func runForecast(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	PrintHeader("Forecast run")

	out, err := a.orchestrator.Run(cmd.Context())
	if err != nil {
		return err
	}

	PrintKeyValue("Run ID", out.RunID.String(), 10)
	PrintKeyValue("State", string(out.State), 10)
	if out.Provider != "" {
		PrintKeyValue("Provider", out.Provider, 10)
	}
	PrintKeyValue("Written", fmt.Sprintf("%d", out.Written), 10)
	PrintKeyValue("Skipped", fmt.Sprintf("%d", out.Skipped), 10)
	for _, f := range out.Failures {
		PrintKeyValue("Failure", f.Error(), 10)
	}
	if out.Notice != "" {
		PrintWarning(out.Notice)
	}

	PrintSeparator()
	PrintSuccess("Forecast completed")
	return nil
}

func runForecastReport(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	PrintHeader("Forecast report")

	report, err := a.narrator.Generate(cmd.Context())
	if errors.Is(err, forecast.ErrNoData) {
		PrintWarning("No receipts recorded yet, nothing to analyze")
		return nil
	}
	if err != nil {
		return err
	}

	source := report.Provider
	if report.Fallback {
		source = "local demo"
	}
	PrintKeyValue("Source", source, 10)
	PrintSeparator()
	fmt.Println(strings.TrimSpace(report.Text))
	return nil
}

func listPredictions(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	preds, err := a.predictionRepo.ListRecent(cmd.Context(), forecastListLimit)
	if err != nil {
		return err
	}

	PrintHeader(fmt.Sprintf("Predictions (%d)", len(preds)))

	widths := []int{12, 12, 10, 10, 10, 10}
	PrintTableHeader([]string{"Product", "Date", "Stockout", "Order", "Conf", "Source"}, widths)
	for _, p := range preds {
		PrintTableRow([]string{
			p.ProductID,
			p.PredictionDate.Format("2006-01-02"),
			optional(p.DaysUntilStockout, "%dd"),
			optional(p.RecommendedOrder, "%d"),
			optional(p.ConfidenceScore, "%.2f"),
			string(p.Source),
		}, widths)
	}
	return nil
}
