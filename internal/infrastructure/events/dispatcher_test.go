package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/neilotoole/slogt"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"charityconnect/internal/infrastructure/metrics"
)

type testEvent struct {
	name string
	n    int
}

func (e testEvent) EventName() string { return e.name }

func TestDispatcherDeliversInOrder(t *testing.T) {
	m := metrics.New()
	d := NewDispatcher(slogt.New(t), m, 8)

	var mu sync.Mutex
	var got []int
	d.Subscribe("tick", func(_ context.Context, evt Event) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, evt.(testEvent).n)
		return nil
	})

	d.Start(context.Background())
	for i := 1; i <= 3; i++ {
		require.True(t, d.Publish(testEvent{name: "tick", n: i}))
	}
	d.Close()

	assert.Equal(t, []int{1, 2, 3}, got)
	assert.Equal(t, 3.0, testutil.ToFloat64(m.EventsPublished.WithLabelValues("tick")))
}

func TestDispatcherCountsHandlerFailures(t *testing.T) {
	m := metrics.New()
	d := NewDispatcher(slogt.New(t), m, 4)
	d.Subscribe("boom", func(context.Context, Event) error {
		return errors.New("profile store unavailable")
	})

	d.Start(context.Background())
	assert.True(t, d.Publish(testEvent{name: "boom"}))
	d.Close()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.EventFailures.WithLabelValues("boom")))
}

func TestDispatcherDropsWhenFull(t *testing.T) {
	m := metrics.New()
	d := NewDispatcher(slogt.New(t), m, 1)

	// not started, so the single slot stays occupied
	assert.True(t, d.Publish(testEvent{name: "tick"}))
	assert.False(t, d.Publish(testEvent{name: "tick"}))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EventsDropped.WithLabelValues("tick")))
}

func TestDispatcherRejectsAfterClose(t *testing.T) {
	m := metrics.New()
	d := NewDispatcher(slogt.New(t), m, 1)
	d.Start(context.Background())
	d.Close()

	assert.False(t, d.Publish(testEvent{name: "tick"}))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EventsDropped.WithLabelValues("tick")))
}

func TestDispatcherHandlerGetsLiveContext(t *testing.T) {
	d := NewDispatcher(slogt.New(t), metrics.New(), 1)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	d.Subscribe("tick", func(hctx context.Context, _ Event) error {
		cancel()
		select {
		case <-hctx.Done():
			done <- hctx.Err()
		case <-time.After(10 * time.Millisecond):
			done <- nil
		}
		return nil
	})

	d.Start(ctx)
	d.Publish(testEvent{name: "tick"})

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("handler not invoked")
	}
}
