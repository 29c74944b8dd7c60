package domain

import "time"

// Provider operations recorded in the usage audit trail.
const (
	OperationChat       = "chat"
	OperationTranscribe = "transcribe"
)

// Usage outcomes. OutcomeFallback marks a chat answered with the canned
// empty-response text.
const (
	OutcomeOK            = "ok"
	OutcomeFallback      = "fallback"
	OutcomeProviderError = "provider_error"
	OutcomeInternalError = "internal_error"
)

// UsageEvent records one provider call. It never carries message content.
type UsageEvent struct {
	Subject    string
	Operation  string
	Outcome    string
	Latency    time.Duration
	RecordedAt time.Time
}
