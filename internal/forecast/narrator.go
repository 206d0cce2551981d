package forecast

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/wonny/warehouse/internal/contracts"
)

// ErrNoData is returned when there is nothing to write a report about
var ErrNoData = errors.New("no receipts to analyze")

const narrativeWindow = 50

// ReceiptSource lists recent goods receipts
type ReceiptSource interface {
	ListRecentReceipts(ctx context.Context, limit int) ([]contracts.Receipt, error)
}

// Narrator produces free-text forecast reports from recent receipts
type Narrator struct {
	receipts ReceiptSource
	reports  contracts.ForecastReportRepository
	chain    *Chain
	log      zerolog.Logger
}

// NewNarrator creates a narrator
func NewNarrator(receipts ReceiptSource, reports contracts.ForecastReportRepository, chain *Chain, log zerolog.Logger) *Narrator {
	return &Narrator{
		receipts: receipts,
		reports:  reports,
		chain:    chain,
		log:      log.With().Str("component", "forecast.narrator").Logger(),
	}
}

// Generate asks the chain for a narrative forecast and stores it.
// Without a provider answer a local demo report is stored instead.
func (n *Narrator) Generate(ctx context.Context) (*contracts.ForecastReport, error) {
	receipts, err := n.receipts.ListRecentReceipts(ctx, narrativeWindow)
	if err != nil {
		return nil, fmt.Errorf("read receipts: %w", err)
	}
	if len(receipts) == 0 {
		return nil, ErrNoData
	}

	report := &contracts.ForecastReport{}
	result, err := n.chain.Run(ctx, BuildNarrativePrompt(receipts))
	switch {
	case errors.Is(err, ErrNoProviderResult):
		report.Text = DemoReport(receipts, result.PaymentRequired())
		report.Fallback = true
	case err != nil:
		return nil, err
	default:
		report.Text = result.Text
		report.Provider = result.Provider
	}

	if err := n.reports.Save(ctx, report); err != nil {
		return nil, fmt.Errorf("save forecast report: %w", err)
	}

	n.log.Info().
		Int64("report_id", report.ID).
		Str("provider", report.Provider).
		Bool("fallback", report.Fallback).
		Msg("narrative forecast stored")

	return report, nil
}

// DemoReport is the local stand-in used when no provider answers
func DemoReport(receipts []contracts.Receipt, paymentRequired bool) string {
	var products []string
	seen := make(map[string]bool)
	for _, r := range receipts {
		if !seen[r.ProductName] {
			seen[r.ProductName] = true
			products = append(products, r.ProductName)
		}
	}

	listed := products
	more := ""
	if len(products) > DefaultFallbackLimit {
		listed = products[:DefaultFallbackLimit]
		more = "..."
	}

	note := NoticeNoProvider
	if paymentRequired {
		note = NoticePaymentRequired
	}

	return fmt.Sprintf(
		"Forecast based on %d receipt records:\n\n"+
			"Products analyzed: %s%s\n\n"+
			"Recommendation: review purchase volumes for the most frequently received products "+
			"and align supplier delivery frequency with demand.\n\n%s",
		len(receipts), strings.Join(listed, ", "), more, note,
	)
}
