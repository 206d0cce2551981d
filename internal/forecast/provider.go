package forecast

import (
	"context"
	"errors"
	"fmt"
)

// Provider is one external text-generation service
type Provider interface {
	Name() string
	// Configured is false when the provider has no credential; it is then skipped
	Configured() bool
	Complete(ctx context.Context, prompt string) (string, error)
}

// FailureKind classifies a provider failure
type FailureKind string

const (
	FailureTransport       FailureKind = "transport"
	FailureFormat          FailureKind = "format"
	FailurePaymentRequired FailureKind = "payment_required"
)

// Failure is a non-fatal provider error recorded by the chain
type Failure struct {
	Kind       FailureKind `json:"kind"`
	Provider   string      `json:"provider"`
	StatusCode int         `json:"status_code,omitempty"`
	Reason     string      `json:"reason"`
}

func (f *Failure) Error() string {
	if f.StatusCode != 0 {
		return fmt.Sprintf("%s: %s failure (HTTP %d): %s", f.Provider, f.Kind, f.StatusCode, f.Reason)
	}
	return fmt.Sprintf("%s: %s failure: %s", f.Provider, f.Kind, f.Reason)
}

// TransportFailure builds a transport failure
func TransportFailure(provider string, status int, reason string) *Failure {
	return &Failure{Kind: FailureTransport, Provider: provider, StatusCode: status, Reason: reason}
}

// FormatFailure builds a format failure
func FormatFailure(provider string, reason string) *Failure {
	return &Failure{Kind: FailureFormat, Provider: provider, Reason: reason}
}

// PaymentRequiredFailure builds a payment-required failure
func PaymentRequiredFailure(provider string, status int, reason string) *Failure {
	return &Failure{Kind: FailurePaymentRequired, Provider: provider, StatusCode: status, Reason: reason}
}

// asFailure wraps any provider error as a *Failure, defaulting to transport
func asFailure(provider string, err error) *Failure {
	var f *Failure
	if errors.As(err, &f) {
		if f.Provider == "" {
			f.Provider = provider
		}
		return f
	}
	return TransportFailure(provider, 0, err.Error())
}
