package eventbus

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/blockslide/internal/config"
	"github.com/annel0/blockslide/internal/puzzle"
	"github.com/annel0/blockslide/internal/vec"
)

func mustEvent(t *testing.T, eventType, levelID string, payload any) *Envelope {
	t.Helper()
	ev, err := NewLevelEvent(eventType, "test", levelID, payload)
	require.NoError(t, err)
	return ev
}

func receive(t *testing.T, ch <-chan *Envelope) *Envelope {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("событие не доставлено")
		return nil
	}
}

func TestNewLevelEvent(t *testing.T) {
	block := puzzle.Block{Direction: puzzle.XP, Min: vec.Vec3{}, Max: vec.Vec3{X: 1, Y: 1, Z: 1}}
	ev := mustEvent(t, EventBlockMoved, "lvl-1", BlockMovedPayload{
		LevelID: "lvl-1", BlockID: 3, From: block, To: block, Travel: 2,
	})

	assert.NotEmpty(t, ev.ID)
	assert.Equal(t, EventBlockMoved, ev.EventType)
	assert.Equal(t, "lvl-1", ev.Metadata[MetaLevelID])
	assert.Equal(t, 1, ev.Priority)

	var got BlockMovedPayload
	require.NoError(t, DecodePayload(ev, &got))
	assert.Equal(t, 3, got.BlockID)
	assert.True(t, got.To.Equal(block))

	done := mustEvent(t, EventLevelCompleted, "lvl-1", LevelCompletedPayload{LevelID: "lvl-1"})
	assert.Equal(t, 5, done.Priority)
	assert.NotEqual(t, ev.ID, done.ID)
}

func TestDecodePayloadError(t *testing.T) {
	ev := &Envelope{EventType: EventBlockMoved, Payload: []byte("{")}
	var got BlockMovedPayload
	assert.Error(t, DecodePayload(ev, &got))
}

func TestMemoryBusPublishSubscribe(t *testing.T) {
	bus := NewMemoryBus(16)
	defer bus.Close()

	ch := make(chan *Envelope, 4)
	sub, err := bus.Subscribe(context.Background(), Filter{Types: []string{EventLevelGenerated}},
		func(ctx context.Context, ev *Envelope) { ch <- ev })
	require.NoError(t, err)
	defer sub.Unsubscribe()

	require.NoError(t, bus.Publish(context.Background(), mustEvent(t, EventBlockMoved, "a", nil)))
	require.NoError(t, bus.Publish(context.Background(), mustEvent(t, EventLevelGenerated, "a", nil)))

	got := receive(t, ch)
	assert.Equal(t, EventLevelGenerated, got.EventType)

	select {
	case ev := <-ch:
		t.Fatalf("лишнее событие %s", ev.EventType)
	case <-time.After(50 * time.Millisecond):
	}

	assert.Equal(t, uint64(2), bus.Metrics().Published)
}

func TestMemoryBusMetadataFilter(t *testing.T) {
	bus := NewMemoryBus(16)
	defer bus.Close()

	ch := make(chan *Envelope, 4)
	_, err := bus.Subscribe(context.Background(), LevelFilter("b"),
		func(ctx context.Context, ev *Envelope) { ch <- ev })
	require.NoError(t, err)

	require.NoError(t, bus.Publish(context.Background(), mustEvent(t, EventBlockMoved, "a", nil)))
	require.NoError(t, bus.Publish(context.Background(), mustEvent(t, EventBlockDeparted, "b", nil)))

	got := receive(t, ch)
	assert.Equal(t, "b", got.Metadata[MetaLevelID])
	assert.Equal(t, EventBlockDeparted, got.EventType)
}

func TestMatchFilter(t *testing.T) {
	ev := &Envelope{EventType: EventBlockMoved, Source: "svc", Metadata: map[string]string{MetaLevelID: "x"}}

	assert.True(t, matchFilter(ev, Filter{}))
	assert.True(t, matchFilter(ev, Filter{Types: []string{EventLevelGenerated, EventBlockMoved}}))
	assert.False(t, matchFilter(ev, Filter{Types: []string{EventLevelGenerated}}))
	assert.True(t, matchFilter(ev, Filter{Sources: []string{"svc"}}))
	assert.False(t, matchFilter(ev, Filter{Sources: []string{"other"}}))
	assert.True(t, matchFilter(ev, LevelFilter("x", EventBlockMoved)))
	assert.False(t, matchFilter(ev, LevelFilter("y")))
}

func TestMemoryBusUnsubscribe(t *testing.T) {
	bus := NewMemoryBus(16)
	defer bus.Close()

	ch := make(chan *Envelope, 4)
	sub, err := bus.Subscribe(context.Background(), Filter{}, func(ctx context.Context, ev *Envelope) { ch <- ev })
	require.NoError(t, err)
	sub.Unsubscribe()

	require.NoError(t, bus.Publish(context.Background(), mustEvent(t, EventBlockMoved, "a", nil)))
	select {
	case <-ch:
		t.Fatal("отписанный обработчик получил событие")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestMemoryBusClose(t *testing.T) {
	bus := NewMemoryBus(4)
	require.NoError(t, bus.Close())
	require.NoError(t, bus.Close())

	err := bus.Publish(context.Background(), mustEvent(t, EventBlockMoved, "a", nil))
	assert.ErrorIs(t, err, ErrBusClosed)
}

func TestMemoryBusDropsLowPriorityWhenFull(t *testing.T) {
	bus := NewMemoryBus(1).(*memoryBus)
	defer bus.Close()

	block := make(chan struct{})
	defer close(block)
	_, err := bus.Subscribe(context.Background(), Filter{}, func(ctx context.Context, ev *Envelope) { <-block })
	require.NoError(t, err)

	// Буфер на одно событие: часть низкоприоритетных событий будет отброшена
	for i := 0; i < 50; i++ {
		require.NoError(t, bus.Publish(context.Background(), mustEvent(t, EventBlockMoved, "a", nil)))
	}
	stats := bus.Metrics()
	assert.Equal(t, uint64(50), stats.Published+stats.Dropped)
}

func TestMetricsExporter(t *testing.T) {
	bus := NewMemoryBus(16)
	defer bus.Close()

	reg := prometheus.NewRegistry()
	exporter := NewMetricsExporter(bus, reg)
	exporter.interval = 10 * time.Millisecond
	exporter.Start()

	for i := 0; i < 3; i++ {
		require.NoError(t, bus.Publish(context.Background(), mustEvent(t, EventBlockMoved, "a", nil)))
	}
	exporter.Stop()

	families, err := reg.Gather()
	require.NoError(t, err)

	values := make(map[string]float64)
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			if c := m.GetCounter(); c != nil {
				values[mf.GetName()] = c.GetValue()
			}
		}
	}
	assert.Equal(t, float64(3), values["eventbus_messages_published_total"])
}

func TestOpen(t *testing.T) {
	bus, err := Open(config.EventBusConfig{Backend: "memory", Capacity: 8})
	require.NoError(t, err)
	require.NoError(t, bus.Close())

	_, err = Open(config.EventBusConfig{Backend: "kafka"})
	assert.Error(t, err)
}
