package domain

import (
	"errors"
	"fmt"
)

var (
	ErrServiceUnavailable  = errors.New("ai service is unavailable")
	ErrTranscriptionFailed = errors.New("could not transcribe audio")
	ErrRateLimited         = errors.New("rate limit exceeded")
)

// ProviderError is a structured failure reported by the upstream provider,
// as opposed to a local fault while talking to it.
type ProviderError struct {
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("provider error: %s", e.Message)
	}
	return fmt.Sprintf("provider error (status %d): %s", e.StatusCode, e.Message)
}

// ReplyKind tells the boundary layer how a chat reply came to be.
type ReplyKind int

const (
	ReplyOK ReplyKind = iota
	ReplyProviderError
	ReplyInternalError
)

func (k ReplyKind) String() string {
	switch k {
	case ReplyOK:
		return "ok"
	case ReplyProviderError:
		return "provider_error"
	case ReplyInternalError:
		return "internal_error"
	default:
		return "unknown"
	}
}

// ChatReply is the outcome of a chat exchange. Text is set for ReplyOK,
// Detail for ReplyProviderError. ReplyInternalError carries neither.
type ChatReply struct {
	Kind   ReplyKind
	Text   string
	Detail string
}

// AudioClip is a raw audio upload destined for speech-to-text.
type AudioClip struct {
	Data        []byte
	Filename    string
	ContentType string
}
