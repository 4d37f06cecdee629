package app

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/blockslide/internal/config"
	"github.com/annel0/blockslide/internal/eventbus"
	"github.com/annel0/blockslide/internal/level"
	"github.com/annel0/blockslide/internal/logging"
	"github.com/annel0/blockslide/internal/observability"
	"github.com/annel0/blockslide/internal/storage"
	"github.com/annel0/blockslide/internal/vec"
)

const singleBlockLiteral = `[{"direction":{"axis":"Y","positive":true},"min":[0,0,0],"max":[1,1,1]}]`

type fixture struct {
	svc  *LevelService
	repo *storage.MemoryLevelRepo
	bus  eventbus.EventBus
}

func newFixture(t *testing.T, gen config.GeneratorConfig) *fixture {
	t.Helper()
	repo := storage.NewMemoryLevelRepo()
	bus := eventbus.NewMemoryBus(64)
	t.Cleanup(func() { bus.Close() })

	svc, err := NewLevelService(Deps{
		Repo:      repo,
		Bus:       bus,
		Metrics:   observability.NewGameMetrics(prometheus.NewRegistry()),
		Logger:    logging.NewConsoleLogger("test", io.Discard),
		Generator: gen,
	})
	require.NoError(t, err)
	return &fixture{svc: svc, repo: repo, bus: bus}
}

func (f *fixture) events(t *testing.T, filter eventbus.Filter) <-chan *eventbus.Envelope {
	t.Helper()
	ch := make(chan *eventbus.Envelope, 16)
	sub, err := f.bus.Subscribe(context.Background(), filter, func(ctx context.Context, ev *eventbus.Envelope) {
		ch <- ev
	})
	require.NoError(t, err)
	t.Cleanup(sub.Unsubscribe)
	return ch
}

func waitEvent(t *testing.T, ch <-chan *eventbus.Envelope) *eventbus.Envelope {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("событие не получено")
		return nil
	}
}

func seed(v int64) *int64 { return &v }

func TestNewLevelServiceRequiresRepo(t *testing.T) {
	_, err := NewLevelService(Deps{})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestGenerate(t *testing.T) {
	f := newFixture(t, config.Default().Generator)
	events := f.events(t, eventbus.Filter{Types: []string{eventbus.EventLevelGenerated}})

	view, err := f.svc.Generate(context.Background(), GenerateRequest{SideLength: 4, Seed: seed(42)})
	require.NoError(t, err)

	assert.NotEmpty(t, view.ID)
	assert.Equal(t, 4, view.SideLength)
	assert.Equal(t, int64(42), view.Seed)
	assert.Equal(t, storage.SourceGenerated, view.Source)
	assert.Equal(t, len(view.Blocks), view.Remaining)
	for i, b := range view.Blocks {
		assert.Equal(t, level.BlockID(i+1), b.ID)
		require.NoError(t, b.Block.Validate())
		assert.NotEmpty(t, b.Model)
	}

	rec, found, err := f.repo.Load(context.Background(), view.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Len(t, rec.Initial, len(view.Blocks))

	ev := waitEvent(t, events)
	var payload eventbus.LevelCreatedPayload
	require.NoError(t, eventbus.DecodePayload(ev, &payload))
	assert.Equal(t, view.ID, payload.LevelID)
	assert.Equal(t, len(view.Blocks), payload.Blocks)
	assert.Equal(t, view.Pruned, payload.Pruned)
}

func TestGenerateIsDeterministic(t *testing.T) {
	gen := config.Default().Generator
	gen.Seed = 7

	a, err := newFixture(t, gen).svc.Generate(context.Background(), GenerateRequest{Number: 2})
	require.NoError(t, err)
	b, err := newFixture(t, gen).svc.Generate(context.Background(), GenerateRequest{Number: 2})
	require.NoError(t, err)

	assert.Equal(t, int64(9), a.Seed)
	assert.Equal(t, 4, a.SideLength)
	require.Equal(t, len(a.Blocks), len(b.Blocks))
	for i := range a.Blocks {
		assert.True(t, a.Blocks[i].Block.Equal(b.Blocks[i].Block))
	}
}

func TestGenerateWithoutPruning(t *testing.T) {
	f := newFixture(t, config.Default().Generator)
	off := false

	view, err := f.svc.Generate(context.Background(), GenerateRequest{SideLength: 3, Seed: seed(1), Prune: &off})
	require.NoError(t, err)
	assert.Zero(t, view.Pruned)

	// без прореживания блоки покрывают куб целиком, кроме пустых клеток
	volume := 0
	for _, b := range view.Blocks {
		size := b.Block.ISize()
		volume += size.X * size.Y * size.Z
	}
	assert.LessOrEqual(t, volume, 27)
}

func TestGenerateRejectsBadParameters(t *testing.T) {
	f := newFixture(t, config.Default().Generator)

	_, err := f.svc.Generate(context.Background(), GenerateRequest{SideLength: 50})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = f.svc.Generate(context.Background(), GenerateRequest{Number: -1})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = f.svc.Generate(context.Background(), GenerateRequest{SideLength: -2})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func importDefault(t *testing.T, f *fixture) *LevelView {
	t.Helper()
	literal, err := level.Encode(level.DefaultLevel())
	require.NoError(t, err)
	view, err := f.svc.Import(context.Background(), literal, 1)
	require.NoError(t, err)
	return view
}

func TestImportAndGet(t *testing.T) {
	f := newFixture(t, config.Default().Generator)
	events := f.events(t, eventbus.Filter{Types: []string{eventbus.EventLevelImported}})

	view := importDefault(t, f)
	assert.Equal(t, storage.SourceLiteral, view.Source)
	assert.Equal(t, 6, view.SideLength)
	waitEvent(t, events)

	got, err := f.svc.Get(context.Background(), view.ID)
	require.NoError(t, err)
	assert.Len(t, got.Blocks, 6)
	assert.Equal(t, vec.Vec3{}, got.BoundsMin)
	assert.Equal(t, vec.Vec3{X: 6, Y: 2, Z: 6}, got.BoundsMax)
	assert.Equal(t, vec.Vec3Float{X: 3, Y: 1, Z: 3}, got.Center)

	literal, err := f.svc.Literal(context.Background(), view.ID)
	require.NoError(t, err)
	decoded, err := level.Decode(literal)
	require.NoError(t, err)
	assert.Equal(t, level.DefaultLevel().Blocks, decoded.Blocks)
}

func TestImportRejectsInvalidLiteral(t *testing.T) {
	f := newFixture(t, config.Default().Generator)

	_, err := f.svc.Import(context.Background(), []byte(`[{"direction":{"axis":"W"}}]`), 1)
	assert.ErrorIs(t, err, level.ErrInvalidLevel)
	assert.Zero(t, f.repo.Count())
}

func TestGetUnknownLevel(t *testing.T) {
	f := newFixture(t, config.Default().Generator)

	_, err := f.svc.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, storage.ErrLevelNotFound)

	_, err = f.svc.Move(context.Background(), "nope", 1)
	assert.ErrorIs(t, err, storage.ErrLevelNotFound)
}

func TestMoveSlidesAndFliesAway(t *testing.T) {
	f := newFixture(t, config.Default().Generator)
	view := importDefault(t, f)
	events := f.events(t, eventbus.LevelFilter(view.ID))

	// блок 2 упирается в блок 6
	out, err := f.svc.Move(context.Background(), view.ID, 2)
	require.NoError(t, err)
	assert.True(t, out.Changed)
	assert.False(t, out.Removed)
	assert.Equal(t, 4.0, out.Travel)
	assert.Equal(t, vec.Vec3{X: 1, Y: 0, Z: 4}, out.To.Min)
	assert.Equal(t, 6, out.Remaining)
	require.Len(t, out.Frames, 1)
	assert.True(t, out.Frames[0].Arrived)

	ev := waitEvent(t, events)
	assert.Equal(t, eventbus.EventBlockMoved, ev.EventType)

	// повторный ход вырожден: блок уже касается препятствия
	out, err = f.svc.Move(context.Background(), view.ID, 2)
	require.NoError(t, err)
	assert.False(t, out.Changed)
	assert.Empty(t, out.Frames)

	// блок 1 улетает
	out, err = f.svc.Move(context.Background(), view.ID, 1)
	require.NoError(t, err)
	assert.True(t, out.Removed)
	assert.Equal(t, 5, out.Remaining)

	ev = waitEvent(t, events)
	assert.Equal(t, eventbus.EventBlockDeparted, ev.EventType)
	var payload eventbus.BlockMovedPayload
	require.NoError(t, eventbus.DecodePayload(ev, &payload))
	assert.Equal(t, 1, payload.BlockID)

	got, err := f.svc.Get(context.Background(), view.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Moves)
	assert.Len(t, got.Blocks, 5)
	for _, b := range got.Blocks {
		assert.NotEqual(t, level.BlockID(1), b.ID)
	}

	_, err = f.svc.Move(context.Background(), view.ID, 1)
	assert.ErrorIs(t, err, level.ErrUnknownBlock)
}

func TestMoveCompletesLevel(t *testing.T) {
	f := newFixture(t, config.Default().Generator)
	view, err := f.svc.Import(context.Background(), []byte(singleBlockLiteral), 1)
	require.NoError(t, err)
	events := f.events(t, eventbus.LevelFilter(view.ID, eventbus.EventLevelCompleted))

	out, err := f.svc.Move(context.Background(), view.ID, 1)
	require.NoError(t, err)
	assert.True(t, out.Completed)
	assert.Zero(t, out.Remaining)

	ev := waitEvent(t, events)
	var payload eventbus.LevelCompletedPayload
	require.NoError(t, eventbus.DecodePayload(ev, &payload))
	assert.Equal(t, 1, payload.Moves)

	_, err = f.svc.Move(context.Background(), view.ID, 1)
	assert.ErrorIs(t, err, ErrLevelCompleted)

	summaries, err := f.svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.True(t, summaries[0].Completed)
}

func TestListAndDelete(t *testing.T) {
	f := newFixture(t, config.Default().Generator)
	first := importDefault(t, f)
	second, err := f.svc.Generate(context.Background(), GenerateRequest{SideLength: 3, Seed: seed(5)})
	require.NoError(t, err)

	summaries, err := f.svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	ids := []string{summaries[0].ID, summaries[1].ID}
	assert.ElementsMatch(t, []string{first.ID, second.ID}, ids)

	require.NoError(t, f.svc.Delete(context.Background(), first.ID))
	assert.ErrorIs(t, f.svc.Delete(context.Background(), first.ID), storage.ErrLevelNotFound)
	assert.Equal(t, 1, f.repo.Count())
}

func TestSubscribe(t *testing.T) {
	f := newFixture(t, config.Default().Generator)
	view := importDefault(t, f)

	ch := make(chan *eventbus.Envelope, 4)
	sub, err := f.svc.Subscribe(context.Background(), view.ID, func(ctx context.Context, ev *eventbus.Envelope) {
		ch <- ev
	})
	require.NoError(t, err)
	defer sub.Unsubscribe()

	_, err = f.svc.Move(context.Background(), view.ID, 1)
	require.NoError(t, err)
	ev := waitEvent(t, ch)
	assert.Equal(t, view.ID, ev.Metadata[eventbus.MetaLevelID])

	_, err = f.svc.Subscribe(context.Background(), "nope", func(context.Context, *eventbus.Envelope) {})
	assert.ErrorIs(t, err, storage.ErrLevelNotFound)
}
