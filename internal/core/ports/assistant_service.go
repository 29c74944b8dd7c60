package ports

import (
	"context"

	"github.com/pulselink/pulselink-api/internal/core/domain"
)

// AssistantService brokers chat and transcription requests to the provider.
// Both operations return domain.ErrServiceUnavailable when the provider
// handle is not ready.
type AssistantService interface {
	Chat(ctx context.Context, subject string, history []domain.Message) (domain.ChatReply, error)
	Transcribe(ctx context.Context, subject string, clip domain.AudioClip) (string, error)
}
