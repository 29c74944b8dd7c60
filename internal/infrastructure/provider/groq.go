// Package provider adapts the Groq API, which speaks the OpenAI wire
// protocol, to ports.AIProvider.
package provider

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/http"
	"net/url"
	"path/filepath"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/pulselink/pulselink-api/internal/core/domain"
)

const (
	defaultProbeTimeout   = 10 * time.Second
	defaultRequestTimeout = 60 * time.Second
	fallbackAudioName     = "audio"
)

const (
	msgConnection         = "Connection error."
	msgTimeout            = "Request timed out."
	msgUnexpectedResponse = "Unexpected response from provider."
)

// Config holds the Groq endpoint and model settings.
type Config struct {
	BaseURL            string
	ChatModel          string
	TranscriptionModel string
	ProbeTimeout       time.Duration
	RequestTimeout     time.Duration
}

// GroqClient implements ports.AIProvider on top of go-openai.
type GroqClient struct {
	client             *openai.Client
	chatModel          string
	transcriptionModel string
	probeTimeout       time.Duration
	requestTimeout     time.Duration
}

// NewGroqClient builds a client for apiKey. It does not contact the
// provider; call Probe for that.
func NewGroqClient(apiKey string, cfg Config) (*GroqClient, error) {
	if _, err := url.ParseRequestURI(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("groq base url: %w", err)
	}
	if cfg.ChatModel == "" || cfg.TranscriptionModel == "" {
		return nil, errors.New("groq: chat and transcription models are required")
	}

	oc := openai.DefaultConfig(apiKey)
	oc.BaseURL = cfg.BaseURL

	probeTimeout := cfg.ProbeTimeout
	if probeTimeout <= 0 {
		probeTimeout = defaultProbeTimeout
	}
	requestTimeout := cfg.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = defaultRequestTimeout
	}

	return &GroqClient{
		client:             openai.NewClientWithConfig(oc),
		chatModel:          cfg.ChatModel,
		transcriptionModel: cfg.TranscriptionModel,
		probeTimeout:       probeTimeout,
		requestTimeout:     requestTimeout,
	}, nil
}

// Probe lists the available models as a cheap authenticated round trip.
func (c *GroqClient) Probe(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.probeTimeout)
	defer cancel()

	if _, err := c.client.ListModels(ctx); err != nil {
		return classify("list models", err)
	}
	return nil
}

// Complete sends one chat completion request and returns each choice's text.
func (c *GroqClient) Complete(ctx context.Context, messages []domain.Message) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model:    c.chatModel,
		Messages: make([]openai.ChatCompletionMessage, 0, len(messages)),
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, classify("chat completion", err)
	}

	choices := make([]string, 0, len(resp.Choices))
	for _, ch := range resp.Choices {
		choices = append(choices, ch.Message.Content)
	}
	return choices, nil
}

// Transcribe uploads the clip for speech-to-text. No language is sent, so
// the provider auto-detects it.
func (c *GroqClient) Transcribe(ctx context.Context, clip domain.AudioClip) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	resp, err := c.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    c.transcriptionModel,
		FilePath: uploadName(clip),
		Reader:   bytes.NewReader(clip.Data),
		Format:   openai.AudioResponseFormatJSON,
	})
	if err != nil {
		return "", classify("transcription", err)
	}
	return resp.Text, nil
}

// uploadName picks the multipart filename. The provider infers the codec
// from the extension, so a missing one is derived from the content type.
func uploadName(clip domain.AudioClip) string {
	name := filepath.Base(clip.Filename)
	if name == "." || name == string(filepath.Separator) {
		name = fallbackAudioName
	}
	if filepath.Ext(name) != "" || clip.ContentType == "" {
		return name
	}
	if exts, err := mime.ExtensionsByType(clip.ContentType); err == nil && len(exts) > 0 {
		return name + exts[0]
	}
	return name
}

// classify turns errors the provider reported into *domain.ProviderError and
// wraps everything else as a local failure. Transport failures count as
// provider errors; a cancelled caller does not.
func classify(op string, err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &domain.ProviderError{StatusCode: apiErr.HTTPStatusCode, Message: apiErr.Message}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &domain.ProviderError{StatusCode: reqErr.HTTPStatusCode, Message: statusMessage(reqErr.HTTPStatusCode)}
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", op, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return &domain.ProviderError{Message: msgTimeout}
		}
		return &domain.ProviderError{Message: msgConnection}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// statusMessage describes a non-JSON error response by its status alone;
// the raw body is never surfaced.
func statusMessage(code int) string {
	if text := http.StatusText(code); text != "" {
		return text
	}
	return msgUnexpectedResponse
}
