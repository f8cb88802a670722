package events

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublish_DeliversToSubscribedListener(t *testing.T) {
	bus := NewInMemoryEventBusWithWorkers(2, 10)
	defer bus.Close()

	var received int32
	done := make(chan struct{})
	bus.Subscribe(TypePlayCompleted, func(ctx context.Context, event Event) error {
		atomic.AddInt32(&received, 1)
		close(done)
		return nil
	})

	err := bus.Publish(context.Background(), NewPlayCompletedEvent("t1", PlayCompletedPayload{PlayID: "p1"}))
	require.NoError(t, err)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("listener was not invoked in time")
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&received))
}

func TestPublish_NoListenersIsNoOp(t *testing.T) {
	bus := NewInMemoryEventBusWithWorkers(2, 10)
	defer bus.Close()

	err := bus.Publish(context.Background(), NewPlayCompletedEvent("t1", PlayCompletedPayload{PlayID: "p1"}))
	assert.NoError(t, err)
}

func TestPublish_FansOutToEveryListener(t *testing.T) {
	bus := NewInMemoryEventBusWithWorkers(4, 10)
	defer bus.Close()

	var wg sync.WaitGroup
	wg.Add(3)
	var count int32
	for i := 0; i < 3; i++ {
		bus.Subscribe(TypePlayCompleted, func(ctx context.Context, event Event) error {
			atomic.AddInt32(&count, 1)
			wg.Done()
			return nil
		})
	}

	require.NoError(t, bus.Publish(context.Background(), NewPlayCompletedEvent("t1", PlayCompletedPayload{PlayID: "p1"})))

	waitDone := make(chan struct{})
	go func() { wg.Wait(); close(waitDone) }()
	select {
	case <-waitDone:
	case <-time.After(time.Second):
		t.Fatal("not all listeners ran in time")
	}
	assert.Equal(t, int32(3), atomic.LoadInt32(&count))
}

func TestUnsubscribe_StopsFurtherDelivery(t *testing.T) {
	bus := NewInMemoryEventBusWithWorkers(2, 10)
	defer bus.Close()

	var called int32
	listener := func(ctx context.Context, event Event) error {
		atomic.AddInt32(&called, 1)
		return nil
	}
	bus.Subscribe(TypePlayCompleted, listener)
	bus.Unsubscribe(TypePlayCompleted, listener)

	require.NoError(t, bus.Publish(context.Background(), NewPlayCompletedEvent("t1", PlayCompletedPayload{PlayID: "p1"})))
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&called))
}

func TestClose_RejectsFurtherPublish(t *testing.T) {
	bus := NewInMemoryEventBusWithWorkers(2, 10)
	require.NoError(t, bus.Close())

	err := bus.Publish(context.Background(), NewPlayCompletedEvent("t1", PlayCompletedPayload{PlayID: "p1"}))
	assert.ErrorIs(t, err, ErrEventBusClosed)
}

func TestClose_IsIdempotent(t *testing.T) {
	bus := NewInMemoryEventBusWithWorkers(2, 10)
	require.NoError(t, bus.Close())
	require.NoError(t, bus.Close())
}

func TestWorker_PanicInListenerDoesNotCrashBus(t *testing.T) {
	bus := NewInMemoryEventBusWithWorkers(2, 10)
	defer bus.Close()

	done := make(chan struct{})
	bus.Subscribe(TypePlayCompleted, func(ctx context.Context, event Event) error {
		defer close(done)
		panic("boom")
	})

	require.NoError(t, bus.Publish(context.Background(), NewPlayCompletedEvent("t1", PlayCompletedPayload{PlayID: "p1"})))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("panicking listener was never invoked")
	}

	// Bus must still accept and deliver new events after a listener panic.
	var recovered int32
	recoveredDone := make(chan struct{})
	bus.Subscribe(TypePlayCompleted, func(ctx context.Context, event Event) error {
		atomic.AddInt32(&recovered, 1)
		close(recoveredDone)
		return nil
	})
	require.NoError(t, bus.Publish(context.Background(), NewPlayCompletedEvent("t1", PlayCompletedPayload{PlayID: "p2"})))
	select {
	case <-recoveredDone:
	case <-time.After(time.Second):
		t.Fatal("bus stopped delivering after panic")
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&recovered))
}
