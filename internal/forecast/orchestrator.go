package forecast

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/wonny/warehouse/internal/contracts"
)

// State is a forecast run state
type State string

const (
	StateNoData            State = "NO_DATA"
	StateCollecting        State = "COLLECTING"
	StateCallingProviders  State = "CALLING_PROVIDERS"
	StateInterpreting      State = "INTERPRETING"
	StatePersisted         State = "PERSISTED"
	StatePersistedFallback State = "PERSISTED_FALLBACK"
)

// Terminal reports whether s ends a run
func (s State) Terminal() bool {
	return s == StateNoData || s == StatePersisted || s == StatePersistedFallback
}

// User-facing notices
const (
	NoticeNoData          = "nothing to analyze: no scan history yet"
	NoticeNoProvider      = "no forecast provider answered; set GROQ_API_KEY (free tier) or DEEPSEEK_API_KEY to enable AI forecasts. Placeholder estimates were stored."
	NoticePaymentRequired = "a forecast provider rejected the request for insufficient balance (HTTP 402). Top up the account or configure GROQ_API_KEY (free tier at https://console.groq.com/keys). Placeholder estimates were stored."
	NoticeUnusableAnswer  = "the provider answer could not be parsed; placeholder estimates were stored."
)

// Outcome reports one forecast run
type Outcome struct {
	RunID       uuid.UUID              `json:"run_id"`
	State       State                  `json:"state"`
	Predictions []contracts.Prediction `json:"predictions"`
	Written     int                    `json:"written"`
	Skipped     int                    `json:"skipped"`
	Provider    string                 `json:"provider,omitempty"`
	Notice      string                 `json:"notice,omitempty"`
	Failures    []*Failure             `json:"failures,omitempty"`
}

// Options tunes the orchestrator
type Options struct {
	RecentWindow  int
	FallbackLimit int
}

// DefaultOptions returns a 50-event window and 5 placeholder products
func DefaultOptions() Options {
	return Options{RecentWindow: 50, FallbackLimit: DefaultFallbackLimit}
}

// =============================================================================
// Orchestrator
// =============================================================================

// Orchestrator runs the structured forecast pipeline:
// recent scans + catalog → prompt → provider chain → interpreter → predictions
// ⭐ SSOT: the only writer of Prediction rows
type Orchestrator struct {
	events      contracts.ScanEventRepository
	products    contracts.ProductRepository
	predictions contracts.PredictionRepository
	chain       *Chain
	opts        Options
	now         func() time.Time
	log         zerolog.Logger
}

// NewOrchestrator creates an orchestrator
func NewOrchestrator(
	events contracts.ScanEventRepository,
	products contracts.ProductRepository,
	predictions contracts.PredictionRepository,
	chain *Chain,
	opts Options,
	log zerolog.Logger,
) *Orchestrator {
	if opts.RecentWindow <= 0 {
		opts.RecentWindow = DefaultOptions().RecentWindow
	}
	if opts.FallbackLimit <= 0 {
		opts.FallbackLimit = DefaultFallbackLimit
	}
	return &Orchestrator{
		events:      events,
		products:    products,
		predictions: predictions,
		chain:       chain,
		opts:        opts,
		now:         time.Now,
		log:         log.With().Str("component", "forecast.orchestrator").Logger(),
	}
}

// Run executes one forecast. Provider problems never become errors;
// only failing to read scan history or the catalog does.
func (o *Orchestrator) Run(ctx context.Context) (*Outcome, error) {
	out := &Outcome{RunID: uuid.New(), Predictions: []contracts.Prediction{}}
	log := o.log.With().Str("run_id", out.RunID.String()).Logger()

	window, err := o.events.ListRecent(ctx, o.opts.RecentWindow)
	if err != nil {
		return nil, fmt.Errorf("read recent scan events: %w", err)
	}
	if len(window) == 0 {
		out.State = StateNoData
		out.Notice = NoticeNoData
		log.Info().Msg("no scan history, nothing to forecast")
		return out, nil
	}

	// 1. COLLECTING
	out.State = StateCollecting
	catalog, err := o.products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("read product catalog: %w", err)
	}
	prompt := BuildPrompt(window, catalog)
	log.Debug().Int("events", len(window)).Int("catalog", len(catalog)).Msg("prompt built")

	synthesize := func() []contracts.Prediction {
		return Synthesize(window, o.opts.FallbackLimit)
	}

	// 2. CALLING_PROVIDERS
	out.State = StateCallingProviders
	result, err := o.chain.Run(ctx, prompt)
	out.Failures = result.Failures

	var preds []contracts.Prediction
	switch {
	case errors.Is(err, ErrNoProviderResult):
		preds = synthesize()
		out.State = StatePersistedFallback
		out.Notice = NoticeNoProvider
		if result.PaymentRequired() {
			out.Notice = NoticePaymentRequired
		}
	case err != nil:
		return nil, err
	default:
		// 3. INTERPRETING
		out.State = StateInterpreting
		out.Provider = result.Provider
		interp := Interpret(result.Text, synthesize)
		preds = interp.Predictions
		out.State = StatePersisted
		if interp.Synthesized {
			out.State = StatePersistedFallback
			out.Notice = NoticeUnusableAnswer
			log.Warn().Err(interp.ParseError).Str("provider", result.Provider).Msg("unusable provider answer, synthesized")
		}
	}

	// 4. persist, one independent write per prediction
	o.persist(ctx, out, preds, log)

	log.Info().
		Str("state", string(out.State)).
		Str("provider", out.Provider).
		Int("written", out.Written).
		Int("skipped", out.Skipped).
		Int("failures", len(out.Failures)).
		Msg("forecast run completed")

	return out, nil
}

func (o *Orchestrator) persist(ctx context.Context, out *Outcome, preds []contracts.Prediction, log zerolog.Logger) {
	now := o.now()
	date := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	for i := range preds {
		p := preds[i]
		p.PredictionDate = date
		if err := o.predictions.Save(ctx, &p); err != nil {
			out.Skipped++
			log.Warn().Err(err).Str("product_id", p.ProductID).Msg("prediction write failed, skipped")
			continue
		}
		out.Written++
		out.Predictions = append(out.Predictions, p)
	}
}
