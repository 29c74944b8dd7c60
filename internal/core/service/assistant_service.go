package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/pulselink/pulselink-api/internal/pkg/metrics"
	"github.com/pulselink/pulselink-api/internal/core/domain"
	"github.com/pulselink/pulselink-api/internal/core/ports"
)

// EmptyResponseFallback answers a chat when the provider returns no choices.
const EmptyResponseFallback = "I'm sorry, I received an empty response from the AI."

// AssistantService brokers chat and transcription through the provider
// handle. Every call is a single synchronous attempt.
type AssistantService struct {
	handle ProviderHandle
	usage  ports.UsageRecorder
	log    zerolog.Logger
	now    func() time.Time
}

// NewAssistantService returns an AssistantService. usage may be nil.
func NewAssistantService(handle ProviderHandle, usage ports.UsageRecorder, log zerolog.Logger) *AssistantService {
	return &AssistantService{handle: handle, usage: usage, log: log, now: time.Now}
}

// ProviderState reports the lifecycle state of the underlying handle.
func (s *AssistantService) ProviderState() ProviderState {
	return s.handle.State()
}

// Chat sends the assembled conversation to the provider. Provider and local
// failures are folded into the reply; the only error returned is
// domain.ErrServiceUnavailable.
func (s *AssistantService) Chat(ctx context.Context, subject string, history []domain.Message) (domain.ChatReply, error) {
	client, ok := s.handle.Client()
	if !ok {
		return domain.ChatReply{}, domain.ErrServiceUnavailable
	}

	start := s.now()
	choices, err := client.Complete(ctx, AssembleConversation(history))
	reply, outcome := s.classifyChat(choices, err)
	s.observe(subject, domain.OperationChat, outcome, start)

	return reply, nil
}

func (s *AssistantService) classifyChat(choices []string, err error) (domain.ChatReply, string) {
	var perr *domain.ProviderError
	switch {
	case err == nil && len(choices) == 0:
		return domain.ChatReply{Kind: domain.ReplyOK, Text: EmptyResponseFallback}, domain.OutcomeFallback
	case err == nil:
		return domain.ChatReply{Kind: domain.ReplyOK, Text: choices[0]}, domain.OutcomeOK
	case errors.As(err, &perr):
		s.log.Warn().Err(err).Int("status", perr.StatusCode).Msg("provider rejected chat completion")
		return domain.ChatReply{Kind: domain.ReplyProviderError, Detail: perr.Message}, domain.OutcomeProviderError
	default:
		s.log.Error().Err(err).Msg("unexpected error during chat completion")
		return domain.ChatReply{Kind: domain.ReplyInternalError}, domain.OutcomeInternalError
	}
}

// Transcribe returns the transcript of clip. Any provider or local failure
// is logged and reported as domain.ErrTranscriptionFailed.
func (s *AssistantService) Transcribe(ctx context.Context, subject string, clip domain.AudioClip) (string, error) {
	client, ok := s.handle.Client()
	if !ok {
		return "", domain.ErrServiceUnavailable
	}
	if len(clip.Data) == 0 {
		return "", fmt.Errorf("transcribe: %w: empty audio payload", domain.ErrValidation)
	}

	start := s.now()
	text, err := client.Transcribe(ctx, clip)
	if err != nil {
		outcome := domain.OutcomeInternalError
		var perr *domain.ProviderError
		if errors.As(err, &perr) {
			outcome = domain.OutcomeProviderError
		}
		s.observe(subject, domain.OperationTranscribe, outcome, start)
		s.log.Error().Err(err).
			Str("filename", clip.Filename).
			Str("content_type", clip.ContentType).
			Int("bytes", len(clip.Data)).
			Msg("transcription failed")
		return "", domain.ErrTranscriptionFailed
	}

	s.observe(subject, domain.OperationTranscribe, domain.OutcomeOK, start)
	return text, nil
}

func (s *AssistantService) observe(subject, operation, outcome string, start time.Time) {
	latency := s.now().Sub(start)
	metrics.ProviderRequestsTotal.WithLabelValues(operation, outcome).Inc()
	metrics.ProviderRequestDuration.WithLabelValues(operation).Observe(latency.Seconds())

	if s.usage == nil {
		return
	}
	s.usage.Record(domain.UsageEvent{
		Subject:    subject,
		Operation:  operation,
		Outcome:    outcome,
		Latency:    latency,
		RecordedAt: start.UTC(),
	})
}
