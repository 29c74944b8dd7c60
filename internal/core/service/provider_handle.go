package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/pulselink/pulselink-api/internal/pkg/metrics"
	"github.com/pulselink/pulselink-api/internal/core/ports"
)

// ProviderState is the lifecycle position of the provider handle.
type ProviderState int

const (
	ProviderUninitialized ProviderState = iota
	ProviderReady
	ProviderUnavailable
)

func (s ProviderState) String() string {
	switch s {
	case ProviderReady:
		return "ready"
	case ProviderUnavailable:
		return "unavailable"
	default:
		return "uninitialized"
	}
}

var (
	errMissingCredential     = errors.New("provider api key is not set")
	errPlaceholderCredential = errors.New("provider api key is still the placeholder value")
)

// ProviderHandle is the process-wide provider client. It is built once by
// InitProvider before requests are served and is read-only afterwards.
// The zero value is an uninitialized handle with no client.
type ProviderHandle struct {
	client ports.AIProvider
	state  ProviderState
	reason error
}

// Client returns the provider client and true only when the handle is ready.
func (h ProviderHandle) Client() (ports.AIProvider, bool) {
	if h.state != ProviderReady || h.client == nil {
		return nil, false
	}
	return h.client, true
}

func (h ProviderHandle) State() ProviderState { return h.state }

// Reason explains why the handle is unavailable; nil otherwise.
func (h ProviderHandle) Reason() error { return h.reason }

// ProviderCredential carries the API key and the placeholder sentinel that
// must not be mistaken for a real key.
type ProviderCredential struct {
	APIKey      string
	Placeholder string
}

// ProviderFactory builds a client for the given API key.
type ProviderFactory func(apiKey string) (ports.AIProvider, error)

// InitProvider moves the handle from uninitialized to ready or unavailable.
// A missing or placeholder key, a factory error, a failed probe, or a panic
// in any of those steps all end in ProviderUnavailable.
func InitProvider(ctx context.Context, cred ProviderCredential, factory ProviderFactory, log zerolog.Logger) (h ProviderHandle) {
	defer func() {
		if r := recover(); r != nil {
			h = unavailable(fmt.Errorf("provider initialization panicked: %v", r), log)
		}
		metrics.ProviderReady.Set(boolToFloat(h.state == ProviderReady))
	}()

	switch {
	case cred.APIKey == "":
		return unavailable(errMissingCredential, log)
	case cred.Placeholder != "" && cred.APIKey == cred.Placeholder:
		return unavailable(errPlaceholderCredential, log)
	}

	client, err := factory(cred.APIKey)
	if err != nil {
		return unavailable(fmt.Errorf("create provider client: %w", err), log)
	}
	if err := client.Probe(ctx); err != nil {
		return unavailable(fmt.Errorf("provider probe: %w", err), log)
	}

	log.Info().Msg("ai provider client initialized")
	return ProviderHandle{client: client, state: ProviderReady}
}

func unavailable(reason error, log zerolog.Logger) ProviderHandle {
	log.Error().Err(reason).Msg("ai provider unavailable")
	return ProviderHandle{state: ProviderUnavailable, reason: reason}
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
