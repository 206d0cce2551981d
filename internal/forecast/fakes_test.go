package forecast

import (
	"context"
	"errors"
	"fmt"

	"github.com/wonny/warehouse/internal/contracts"
)

type fakeProvider struct {
	name       string
	configured bool
	text       string
	err        error
	calls      int
	prompts    []string
}

func (p *fakeProvider) Name() string     { return p.name }
func (p *fakeProvider) Configured() bool { return p.configured }

func (p *fakeProvider) Complete(ctx context.Context, prompt string) (string, error) {
	p.calls++
	p.prompts = append(p.prompts, prompt)
	return p.text, p.err
}

type fakeEvents struct {
	events []contracts.ScanEvent
	err    error
}

func (f *fakeEvents) ListAll(ctx context.Context) ([]contracts.ScanEvent, error) {
	return f.events, f.err
}

func (f *fakeEvents) ListRecent(ctx context.Context, limit int) ([]contracts.ScanEvent, error) {
	if f.err != nil {
		return nil, f.err
	}
	if limit < len(f.events) {
		return f.events[:limit], nil
	}
	return f.events, nil
}

type fakeProducts struct {
	products []contracts.Product
	err      error
}

func (f *fakeProducts) List(ctx context.Context) ([]contracts.Product, error) {
	return f.products, f.err
}

func (f *fakeProducts) UpdateProjection(ctx context.Context, id string, qty int64, status contracts.StockStatus) (bool, error) {
	return false, nil
}

func (f *fakeProducts) Upsert(ctx context.Context, p contracts.Product) error { return nil }

type fakePredictions struct {
	saved  []contracts.Prediction
	failOn map[string]bool
}

func (f *fakePredictions) Save(ctx context.Context, p *contracts.Prediction) error {
	if f.failOn[p.ProductID] {
		return errors.New("insert failed")
	}
	p.ID = int64(len(f.saved) + 1)
	f.saved = append(f.saved, *p)
	return nil
}

func (f *fakePredictions) ListRecent(ctx context.Context, limit int) ([]contracts.Prediction, error) {
	return f.saved, nil
}

type fakeReports struct {
	saved []contracts.ForecastReport
	err   error
}

func (f *fakeReports) Save(ctx context.Context, r *contracts.ForecastReport) error {
	if f.err != nil {
		return f.err
	}
	r.ID = int64(len(f.saved) + 1)
	f.saved = append(f.saved, *r)
	return nil
}

func (f *fakeReports) ListRecent(ctx context.Context, limit int) ([]contracts.ForecastReport, error) {
	return f.saved, nil
}

type fakeReceipts struct {
	receipts []contracts.Receipt
}

func (f *fakeReceipts) ListRecentReceipts(ctx context.Context, limit int) ([]contracts.Receipt, error) {
	return f.receipts, nil
}

// scans builds one event per product id, in order
func scans(ids ...string) []contracts.ScanEvent {
	events := make([]contracts.ScanEvent, 0, len(ids))
	for i, id := range ids {
		events = append(events, contracts.ScanEvent{
			ID:        int64(i + 1),
			RobotID:   "R1",
			ProductID: id,
			Quantity:  float64(10 * (i + 1)),
			Zone:      "A",
			RowNumber: 1, ShelfNumber: 1,
			Status:    "OK",
			ScannedAt: fmt.Sprintf("2026-10-01T10:%02d:00Z", i),
		})
	}
	return events
}
