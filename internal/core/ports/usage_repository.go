package ports

import (
	"context"

	"github.com/pulselink/pulselink-api/internal/core/domain"
)

// UsageRepository persists the provider usage audit trail.
type UsageRepository interface {
	InsertUsage(ctx context.Context, event *domain.UsageEvent) error
}

// UsageRecorder accepts usage events without blocking the caller.
type UsageRecorder interface {
	Record(event domain.UsageEvent)
}
