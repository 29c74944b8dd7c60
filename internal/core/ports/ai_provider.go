package ports

import (
	"context"

	"github.com/pulselink/pulselink-api/internal/core/domain"
)

// AIProvider is the upstream language-model client. Implementations report
// provider-side failures as *domain.ProviderError and anything else as a
// plain error.
type AIProvider interface {
	// Probe is a lightweight connectivity check run once at startup.
	Probe(ctx context.Context) error
	// Complete returns the text of every choice, in provider order.
	Complete(ctx context.Context, messages []domain.Message) ([]string, error)
	// Transcribe runs speech-to-text with language auto-detection.
	Transcribe(ctx context.Context, clip domain.AudioClip) (string, error)
}
