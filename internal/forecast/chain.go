package forecast

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
)

// ErrNoProviderResult means every configured provider failed, or none is configured
var ErrNoProviderResult = errors.New("no provider result")

// ChainResult is the outcome of one chain run
type ChainResult struct {
	Text      string     `json:"-"`
	Provider  string     `json:"provider,omitempty"`
	Attempted []string   `json:"attempted"`
	Failures  []*Failure `json:"failures,omitempty"`
}

// PaymentRequired reports whether any provider failed for lack of balance
func (r *ChainResult) PaymentRequired() bool {
	for _, f := range r.Failures {
		if f.Kind == FailurePaymentRequired {
			return true
		}
	}
	return false
}

// Chain tries providers in priority order and returns the first non-empty answer.
// Each provider is attempted at most once per run.
type Chain struct {
	providers []Provider
	log       zerolog.Logger
}

// NewChain creates a chain; order of providers is priority order
func NewChain(providers []Provider, log zerolog.Logger) *Chain {
	return &Chain{
		providers: providers,
		log:       log.With().Str("component", "forecast.chain").Logger(),
	}
}

// Configured returns the names of providers that would be attempted
func (c *Chain) Configured() []string {
	var names []string
	for _, p := range c.providers {
		if p.Configured() {
			names = append(names, p.Name())
		}
	}
	return names
}

// Run sends prompt to each configured provider until one answers.
// The result is returned even with ErrNoProviderResult so callers can inspect failures.
func (c *Chain) Run(ctx context.Context, prompt string) (*ChainResult, error) {
	result := &ChainResult{}

	for _, p := range c.providers {
		if !p.Configured() {
			continue
		}
		name := p.Name()
		result.Attempted = append(result.Attempted, name)

		text, err := p.Complete(ctx, prompt)
		if err != nil {
			f := asFailure(name, err)
			result.Failures = append(result.Failures, f)
			c.log.Warn().
				Str("provider", name).
				Str("kind", string(f.Kind)).
				Int("status", f.StatusCode).
				Str("reason", f.Reason).
				Msg("provider failed, trying next")
			continue
		}

		if strings.TrimSpace(text) == "" {
			result.Failures = append(result.Failures, FormatFailure(name, "empty completion"))
			c.log.Warn().Str("provider", name).Msg("provider returned empty text, trying next")
			continue
		}

		result.Text = text
		result.Provider = name
		c.log.Info().Str("provider", name).Int("chars", len(text)).Msg("provider answered")
		return result, nil
	}

	c.log.Warn().
		Strs("attempted", result.Attempted).
		Bool("payment_required", result.PaymentRequired()).
		Msg("no provider result")

	return result, ErrNoProviderResult
}
