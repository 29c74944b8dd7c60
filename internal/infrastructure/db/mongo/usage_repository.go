package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/pulselink/pulselink-api/internal/core/domain"
	"github.com/pulselink/pulselink-api/internal/core/ports"
)

const usageCollection = "ai_usage"

// UsageRepository implements ports.UsageRepository using MongoDB.
type UsageRepository struct {
	coll *mongo.Collection
}

// NewUsageRepository creates a new UsageRepository.
func NewUsageRepository(db *mongo.Database) ports.UsageRepository {
	return &UsageRepository{coll: db.Collection(usageCollection)}
}

// InsertUsage appends one provider call to the ai_usage audit collection.
func (r *UsageRepository) InsertUsage(ctx context.Context, event *domain.UsageEvent) error {
	doc := bson.M{
		"subject":     event.Subject,
		"operation":   event.Operation,
		"outcome":     event.Outcome,
		"latency_ms":  event.Latency.Milliseconds(),
		"recorded_at": event.RecordedAt.UTC(),
		"written_at":  time.Now().UTC(),
	}

	_, err := r.coll.InsertOne(ctx, doc)
	return err
}
