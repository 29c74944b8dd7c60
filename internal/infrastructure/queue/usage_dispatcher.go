package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/pulselink/pulselink-api/internal/pkg/metrics"
	"github.com/pulselink/pulselink-api/internal/core/domain"
	"github.com/pulselink/pulselink-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	writeTimeout   = 5 * time.Second
)

// UsageDispatcher writes provider usage events in the background. Events are
// sharded by subject onto a fixed set of workers so each user's events are
// written in order.
type UsageDispatcher struct {
	workers []chan domain.UsageEvent
	repo    ports.UsageRepository
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewUsageDispatcher creates a dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewUsageDispatcher(numWorkers int, repo ports.UsageRepository, log zerolog.Logger) *UsageDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &UsageDispatcher{
		workers: make([]chan domain.UsageEvent, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.UsageEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers drain their queues and stop
// when ctx is cancelled; Wait blocks until they have.
func (d *UsageDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has exited.
func (d *UsageDispatcher) Wait() {
	d.wg.Wait()
}

// Record enqueues an event on its subject's worker. It never blocks: when
// the worker queue is full the event is dropped and counted.
func (d *UsageDispatcher) Record(event domain.UsageEvent) {
	idx := d.shardIndex(event.Subject)
	select {
	case d.workers[idx] <- event:
		metrics.UsageQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.UsageDroppedTotal.Inc()
		d.log.Warn().Str("subject", event.Subject).Int("worker_id", idx).Msg("usage queue full, event dropped")
	}
}

// shardIndex maps a subject deterministically to a worker index.
func (d *UsageDispatcher) shardIndex(subject string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(subject))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *UsageDispatcher) runWorker(ctx context.Context, id int, ch chan domain.UsageEvent) {
	defer d.wg.Done()
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			d.drain(id, ch)
			return
		case event := <-ch:
			metrics.UsageQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			d.write(context.Background(), id, event)
		}
	}
}

// drain writes whatever is still queued after shutdown was requested.
func (d *UsageDispatcher) drain(id int, ch chan domain.UsageEvent) {
	for {
		select {
		case event := <-ch:
			d.write(context.Background(), id, event)
		default:
			return
		}
	}
}

func (d *UsageDispatcher) write(parent context.Context, id int, event domain.UsageEvent) {
	ctx, cancel := context.WithTimeout(parent, writeTimeout)
	defer cancel()

	if err := d.repo.InsertUsage(ctx, &event); err != nil {
		metrics.UsageWriteErrorsTotal.Inc()
		d.log.Error().Err(err).
			Str("subject", event.Subject).
			Str("operation", event.Operation).
			Int("worker_id", id).
			Msg("usage event write failed")
	}
}
