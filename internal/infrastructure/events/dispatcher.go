package events

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/aegisid/identity-service/internal/api/metrics"
	"github.com/aegisid/identity-service/internal/core/domain"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

// Sink consumes dispatched domain events.
type Sink interface {
	Handle(ctx context.Context, event domain.Event) error
}

// Dispatcher fans domain events out to a fixed set of workers using
// consistent hashing on the aggregate id, so events for one aggregate are
// always handled in publication order. It implements ports.EventPublisher.
type Dispatcher struct {
	workers []chan domain.Event
	sink    Sink
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, sink Sink, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.Event, numWorkers),
		sink:    sink,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.Event, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Publish enqueues an event on the worker owning its aggregate. The call is
// non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Publish(event domain.Event) error {
	idx := d.shardIndex(event.AggregateID())
	d.workers[idx] <- event
	metrics.EventsQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	return nil
}

// shardIndex maps an aggregate id deterministically to a worker index.
func (d *Dispatcher) shardIndex(aggregateID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(aggregateID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.Event) {
	worker := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			metrics.EventsQueueDepth.WithLabelValues(worker).Set(float64(len(ch)))
			if err := d.sink.Handle(ctx, event); err != nil {
				d.log.Error().Err(err).
					Str("event", event.Name()).
					Str("aggregate_id", event.AggregateID()).
					Int("worker_id", id).
					Msg("event handling failed")
				continue
			}
			metrics.EventsPublishedTotal.WithLabelValues(event.Name()).Inc()
		}
	}
}
