package events

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/moldovancsaba/narimato-sub003/internal/logger"

	"go.uber.org/zap"
)

// ErrEventBusClosed is returned when trying to use a closed event bus.
var ErrEventBusClosed = errors.New("event bus is closed")

// EventListener handles a single event.
type EventListener func(ctx context.Context, event Event) error

// EventBus publishes domain events to subscribed listeners. The play
// engine and the hierarchical controller use it to notify the global
// ELO aggregator asynchronously whenever a play finalizes.
type EventBus interface {
	Subscribe(eventType string, listener EventListener)
	Publish(ctx context.Context, event Event) error
	Unsubscribe(eventType string, listener EventListener)
	Close() error
}

type eventJob struct {
	ctx      context.Context
	event    Event
	listener EventListener
}

// InMemoryEventBus implements EventBus with a fixed-size worker pool so a
// slow listener (e.g. a full ELO recompute) cannot block the caller that
// published the event.
type InMemoryEventBus struct {
	listeners map[string][]EventListener
	mutex     sync.RWMutex
	jobQueue  chan eventJob
	workers   int
	workerWg  sync.WaitGroup
	closeOnce sync.Once
	closed    chan struct{}
	workerSem chan struct{}
}

// NewInMemoryEventBus creates a bus with the default worker pool size.
func NewInMemoryEventBus() *InMemoryEventBus {
	return NewInMemoryEventBusWithWorkers(10, 1000)
}

// NewInMemoryEventBusWithWorkers creates a bus with a specific worker
// count and queue depth.
func NewInMemoryEventBusWithWorkers(workerCount, bufferSize int) *InMemoryEventBus {
	if workerCount <= 0 {
		workerCount = 10
	}
	if bufferSize <= 0 {
		bufferSize = 1000
	}

	bus := &InMemoryEventBus{
		listeners: make(map[string][]EventListener),
		jobQueue:  make(chan eventJob, bufferSize),
		workers:   workerCount,
		closed:    make(chan struct{}),
		workerSem: make(chan struct{}, workerCount),
	}

	bus.startWorkers()
	return bus
}

func (bus *InMemoryEventBus) startWorkers() {
	logger.Info("starting event bus worker pool", zap.Int("workers", bus.workers))

	for i := 0; i < bus.workers; i++ {
		bus.workerWg.Add(1)
		go bus.worker(i)
	}
}

func (bus *InMemoryEventBus) worker(id int) {
	defer bus.workerWg.Done()
	log := logger.WithContext(zap.Int("worker_id", id))

	for {
		select {
		case <-bus.closed:
			return
		case job := <-bus.jobQueue:
			bus.workerSem <- struct{}{}

			func() {
				defer func() {
					<-bus.workerSem
					if r := recover(); r != nil {
						log.Error("event listener panicked",
							zap.Any("panic", r),
							zap.String("event_type", job.event.GetType()))
					}
				}()

				ctx, cancel := context.WithTimeout(job.ctx, 30*time.Second)
				defer cancel()

				if err := job.listener(ctx, job.event); err != nil {
					log.Error("event listener failed",
						zap.String("event_type", job.event.GetType()),
						zap.String("tenant_id", job.event.GetTenantID()),
						zap.Error(err))
				}
			}()
		}
	}
}

// Subscribe registers a listener for events of the specified type.
func (bus *InMemoryEventBus) Subscribe(eventType string, listener EventListener) {
	bus.mutex.Lock()
	defer bus.mutex.Unlock()

	bus.listeners[eventType] = append(bus.listeners[eventType], listener)
}

// Publish queues event for every listener subscribed to its type. It
// returns immediately once jobs are queued; listener execution and any
// resulting errors happen on the worker pool, not on the caller's
// goroutine.
func (bus *InMemoryEventBus) Publish(ctx context.Context, event Event) error {
	select {
	case <-bus.closed:
		return ErrEventBusClosed
	default:
	}

	bus.mutex.RLock()
	listeners := bus.listeners[event.GetType()]
	bus.mutex.RUnlock()

	if len(listeners) == 0 {
		return nil
	}

	log := logger.WithTenant(event.GetTenantID())

	jobsQueued := 0
	for _, listener := range listeners {
		job := eventJob{ctx: ctx, event: event, listener: listener}

		select {
		case bus.jobQueue <- job:
			jobsQueued++
		case <-ctx.Done():
			return ctx.Err()
		case <-bus.closed:
			return ErrEventBusClosed
		default:
			log.Warn("event job queue full, dropping event",
				zap.String("event_type", event.GetType()))
		}
	}

	return nil
}

// Unsubscribe removes every listener registered for eventType.
func (bus *InMemoryEventBus) Unsubscribe(eventType string, listener EventListener) {
	bus.mutex.Lock()
	defer bus.mutex.Unlock()

	if bus.listeners[eventType] == nil {
		return
	}
	bus.listeners[eventType] = nil
}

// Close stops the worker pool, waiting up to 30s for in-flight listeners
// to finish.
func (bus *InMemoryEventBus) Close() error {
	var closeErr error

	bus.closeOnce.Do(func() {
		close(bus.closed)

		done := make(chan struct{})
		go func() {
			bus.workerWg.Wait()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(30 * time.Second):
			closeErr = errors.New("worker pool shutdown timeout")
		}

		close(bus.jobQueue)
		for range bus.jobQueue {
		}
	})

	return closeErr
}
