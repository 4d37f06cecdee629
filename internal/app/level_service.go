package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/annel0/blockslide/internal/config"
	"github.com/annel0/blockslide/internal/eventbus"
	"github.com/annel0/blockslide/internal/generator"
	"github.com/annel0/blockslide/internal/level"
	"github.com/annel0/blockslide/internal/logging"
	"github.com/annel0/blockslide/internal/observability"
	"github.com/annel0/blockslide/internal/prune"
	"github.com/annel0/blockslide/internal/puzzle"
	"github.com/annel0/blockslide/internal/storage"
)

// EventSource имя источника событий сервиса
const EventSource = "level-service"

var (
	// ErrInvalidRequest некорректные параметры генерации
	ErrInvalidRequest = errors.New("invalid request")
	// ErrLevelCompleted на уровне не осталось блоков
	ErrLevelCompleted = errors.New("level already completed")
)

// GenerateRequest параметры генерации уровня. Если SideLength не задан,
// он выводится из номера уровня.
type GenerateRequest struct {
	Number     int    `json:"number"`
	SideLength int    `json:"side_length"`
	Seed       *int64 `json:"seed,omitempty"`
	Prune      *bool  `json:"prune,omitempty"`
}

// MoveOutcome итог хода игрока
type MoveOutcome struct {
	LevelID   string        `json:"level_id"`
	BlockID   level.BlockID `json:"block_id"`
	From      puzzle.Block  `json:"from"`
	To        puzzle.Block  `json:"to"`
	Changed   bool          `json:"changed"`
	Removed   bool          `json:"removed"`
	Travel    float64       `json:"travel"`
	Frames    []level.Frame `json:"frames"`
	Remaining int           `json:"remaining"`
	Completed bool          `json:"completed"`
}

// LevelService создаёт уровни, хранит их и применяет ходы.
// Репозиторий остаётся единственным источником состояния: сессия
// восстанавливается из записи на каждый ход.
type LevelService struct {
	repo    storage.LevelRepo
	bus     eventbus.EventBus
	metrics *observability.GameMetrics
	log     *logging.Logger
	cfg     config.GeneratorConfig

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex

	now     func() time.Time
	newSeed func() int64
}

// Deps зависимости сервиса. Bus, Metrics и Logger необязательны.
type Deps struct {
	Repo      storage.LevelRepo
	Bus       eventbus.EventBus
	Metrics   *observability.GameMetrics
	Logger    *logging.Logger
	Generator config.GeneratorConfig
}

// NewLevelService создаёт сервис уровней
func NewLevelService(deps Deps) (*LevelService, error) {
	if deps.Repo == nil {
		return nil, fmt.Errorf("%w: level repository is required", ErrInvalidRequest)
	}
	if deps.Logger == nil {
		deps.Logger = logging.GetGameLogger()
	}
	if deps.Generator.MaxSide < 1 {
		deps.Generator.MaxSide = config.Default().Generator.MaxSide
	}
	if deps.Generator.FirstLevel < 1 {
		deps.Generator.FirstLevel = 1
	}

	s := &LevelService{
		repo:    deps.Repo,
		bus:     deps.Bus,
		metrics: deps.Metrics,
		log:     deps.Logger,
		cfg:     deps.Generator,
		locks:   make(map[string]*sync.Mutex),
		now:     func() time.Time { return time.Now().UTC() },
	}
	s.newSeed = func() int64 { return time.Now().UnixNano() }
	return s, nil
}

// lock блокирует уровень на время хода
func (s *LevelService) lock(id string) func() {
	s.locksMu.Lock()
	m, ok := s.locks[id]
	if !ok {
		m = &sync.Mutex{}
		s.locks[id] = m
	}
	s.locksMu.Unlock()

	m.Lock()
	return m.Unlock
}

// resolveSeed seed запроса, затем seed конфигурации со сдвигом на номер уровня
func (s *LevelService) resolveSeed(req GenerateRequest, number int) int64 {
	if req.Seed != nil {
		return *req.Seed
	}
	if s.cfg.Seed != 0 {
		return s.cfg.Seed + int64(number)
	}
	return s.newSeed()
}

// Generate строит новый уровень, сохраняет его и публикует level.generated
func (s *LevelService) Generate(ctx context.Context, req GenerateRequest) (*LevelView, error) {
	ctx, span := observability.Tracer().Start(ctx, "LevelService.Generate")
	defer span.End()

	number := req.Number
	if number == 0 {
		number = s.cfg.FirstLevel
	}
	if number < 0 {
		return nil, s.fail(span, fmt.Errorf("%w: level number %d", ErrInvalidRequest, number))
	}
	side := req.SideLength
	if side == 0 {
		side = generator.SideLengthForLevel(number)
	}
	if side < 1 || side > s.cfg.MaxSide {
		return nil, s.fail(span, fmt.Errorf("%w: side length %d outside [1, %d]", ErrInvalidRequest, side, s.cfg.MaxSide))
	}
	pruneLocked := s.cfg.Prune
	if req.Prune != nil {
		pruneLocked = *req.Prune
	}
	seed := s.resolveSeed(req, number)

	span.SetAttributes(
		attribute.Int("level.number", number),
		attribute.Int("level.side_length", side),
		attribute.Int64("level.seed", seed),
		attribute.Bool("level.prune", pruneLocked),
	)

	start := time.Now()
	rng := generator.NewRandSource(seed)
	var (
		l      *level.Level
		report prune.Report
	)
	if pruneLocked {
		var err error
		l, report, err = level.Generate(rng, side)
		if err != nil {
			return nil, s.fail(span, err)
		}
	} else {
		blocks, err := generator.Generate(rng, side)
		if err != nil {
			return nil, s.fail(span, err)
		}
		l = level.New(blocks)
	}
	took := time.Since(start)

	rec := s.newRecord(l, storage.SourceGenerated, number, side, seed)
	rec.Pruned = report.Total()
	if err := s.repo.Save(ctx, rec); err != nil {
		return nil, s.fail(span, err)
	}

	if s.metrics != nil {
		s.metrics.ObserveLevel(storage.SourceGenerated, l.Len(), took)
		for i, removed := range report.ByAxis {
			s.metrics.ObservePruned(puzzle.AllAxes[i].String(), len(removed))
		}
	}
	s.log.Info("🧩 Уровень %s сгенерирован: номер=%d сторона=%d seed=%d блоков=%d удалено=%d за %s",
		rec.ID, number, side, seed, l.Len(), rec.Pruned, took)

	s.publish(ctx, eventbus.EventLevelGenerated, rec.ID, eventbus.LevelCreatedPayload{
		LevelID:    rec.ID,
		Number:     number,
		SideLength: side,
		Seed:       seed,
		Blocks:     l.Len(),
		Pruned:     rec.Pruned,
	})

	span.SetAttributes(attribute.String("level.id", rec.ID), attribute.Int("level.blocks", l.Len()))
	return NewLevelView(rec), nil
}

// Import сохраняет уровень из JSON-литерала и публикует level.imported
func (s *LevelService) Import(ctx context.Context, literal []byte, number int) (*LevelView, error) {
	ctx, span := observability.Tracer().Start(ctx, "LevelService.Import")
	defer span.End()

	l, err := level.Decode(literal)
	if err != nil {
		return nil, s.fail(span, err)
	}
	side := 0
	if l.Len() > 0 {
		min, max := l.Bounds()
		size := max.Sub(min)
		side = size.X
		if size.Y > side {
			side = size.Y
		}
		if size.Z > side {
			side = size.Z
		}
	}

	rec := s.newRecord(l, storage.SourceLiteral, number, side, 0)
	if err := s.repo.Save(ctx, rec); err != nil {
		return nil, s.fail(span, err)
	}

	if s.metrics != nil {
		s.metrics.ObserveLevel(storage.SourceLiteral, l.Len(), 0)
	}
	s.log.Info("📥 Уровень %s импортирован: блоков=%d", rec.ID, l.Len())

	s.publish(ctx, eventbus.EventLevelImported, rec.ID, eventbus.LevelCreatedPayload{
		LevelID:    rec.ID,
		Number:     number,
		SideLength: side,
		Blocks:     l.Len(),
	})

	span.SetAttributes(attribute.String("level.id", rec.ID), attribute.Int("level.blocks", l.Len()))
	return NewLevelView(rec), nil
}

func (s *LevelService) newRecord(l *level.Level, source string, number, side int, seed int64) *storage.LevelRecord {
	now := s.now()
	return &storage.LevelRecord{
		ID:         uuid.NewString(),
		Number:     number,
		SideLength: side,
		Seed:       seed,
		Source:     source,
		Initial:    l.Clone().Blocks,
		Blocks:     level.NewSession(l).Blocks(),
		Completed:  l.Len() == 0,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// load читает запись или возвращает storage.ErrLevelNotFound
func (s *LevelService) load(ctx context.Context, id string) (*storage.LevelRecord, error) {
	rec, found, err := s.repo.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", storage.ErrLevelNotFound, id)
	}
	return rec, nil
}

// Get возвращает текущее состояние уровня
func (s *LevelService) Get(ctx context.Context, id string) (*LevelView, error) {
	ctx, span := observability.Tracer().Start(ctx, "LevelService.Get",
		trace.WithAttributes(attribute.String("level.id", id)))
	defer span.End()

	rec, err := s.load(ctx, id)
	if err != nil {
		return nil, s.fail(span, err)
	}
	return NewLevelView(rec), nil
}

// Literal исходный набор блоков уровня в формате литерала
func (s *LevelService) Literal(ctx context.Context, id string) ([]byte, error) {
	rec, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return level.Encode(level.New(rec.Initial))
}

// List краткие сведения обо всех уровнях в порядке создания
func (s *LevelService) List(ctx context.Context) ([]LevelSummary, error) {
	recs, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]LevelSummary, len(recs))
	for i, rec := range recs {
		out[i] = NewLevelSummary(rec)
	}
	return out, nil
}

// Delete удаляет уровень
func (s *LevelService) Delete(ctx context.Context, id string) error {
	unlock := s.lock(id)
	defer unlock()

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("🗑️ Уровень %s удалён", id)
	return nil
}

// Move сдвигает блок. Анимация завершается сразу, клиент получает кадры
// с конечными положениями.
func (s *LevelService) Move(ctx context.Context, id string, blockID level.BlockID) (*MoveOutcome, error) {
	ctx, span := observability.Tracer().Start(ctx, "LevelService.Move", trace.WithAttributes(
		attribute.String("level.id", id),
		attribute.Int("block.id", int(blockID)),
	))
	defer span.End()

	unlock := s.lock(id)
	defer unlock()

	rec, err := s.load(ctx, id)
	if err != nil {
		return nil, s.fail(span, err)
	}
	if rec.Completed {
		s.observeMove(observability.OutcomeRejected)
		return nil, s.fail(span, fmt.Errorf("%w: %s", ErrLevelCompleted, id))
	}

	sess := level.RestoreSession(rec.Blocks)
	result, err := sess.AttemptMove(blockID)
	if err != nil {
		s.observeMove(observability.OutcomeRejected)
		return nil, s.fail(span, fmt.Errorf("block %d: %w", blockID, err))
	}
	frames := sess.Settle()
	res := result.Resolution

	outcome := &MoveOutcome{
		LevelID:   id,
		BlockID:   blockID,
		From:      res.From,
		To:        res.To,
		Changed:   res.Changed,
		Removed:   res.Removed,
		Travel:    res.Travel,
		Frames:    frames,
		Remaining: sess.Remaining(),
		Completed: sess.Completed(),
	}

	if !res.Changed {
		s.observeMove(observability.OutcomeDegenerate)
		return outcome, nil
	}

	rec.Blocks = sess.Blocks()
	rec.Moves++
	rec.Completed = outcome.Completed
	rec.UpdatedAt = s.now()
	if err := s.repo.Save(ctx, rec); err != nil {
		return nil, s.fail(span, err)
	}

	payload := eventbus.BlockMovedPayload{
		LevelID: id,
		BlockID: int(blockID),
		From:    res.From,
		To:      res.To,
		Travel:  res.Travel,
	}
	if res.Removed {
		s.observeMove(observability.OutcomeFlewAway)
		s.publish(ctx, eventbus.EventBlockDeparted, id, payload)
	} else {
		s.observeMove(observability.OutcomeSlid)
		s.publish(ctx, eventbus.EventBlockMoved, id, payload)
	}
	s.log.Debug("Уровень %s: блок %d %s -> %s (путь %.1f)", id, blockID, res.From, res.To, res.Travel)

	if outcome.Completed {
		if s.metrics != nil {
			s.metrics.ObserveCompleted()
		}
		s.log.Info("🏁 Уровень %s пройден за %d ходов", id, rec.Moves)
		s.publish(ctx, eventbus.EventLevelCompleted, id, eventbus.LevelCompletedPayload{
			LevelID: id,
			Moves:   rec.Moves,
		})
	}

	span.SetAttributes(attribute.Bool("move.removed", res.Removed), attribute.Int("level.remaining", outcome.Remaining))
	return outcome, nil
}

// Subscribe подписывает обработчик на события уровня
func (s *LevelService) Subscribe(ctx context.Context, id string, h eventbus.Handler) (eventbus.Subscription, error) {
	if s.bus == nil {
		return nil, fmt.Errorf("event bus is not configured")
	}
	if _, err := s.load(ctx, id); err != nil {
		return nil, err
	}
	return s.bus.Subscribe(ctx, eventbus.LevelFilter(id), h)
}

// publish ошибки публикации только логируются: ход уже сохранён
func (s *LevelService) publish(ctx context.Context, eventType, levelID string, payload any) {
	if s.bus == nil {
		return
	}
	ev, err := eventbus.NewLevelEvent(eventType, EventSource, levelID, payload)
	if err != nil {
		s.log.Error("Не удалось собрать событие %s: %v", eventType, err)
		return
	}
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		ev.CorrelationID = sc.TraceID().String()
	}
	if err := s.bus.Publish(ctx, ev); err != nil {
		s.log.Warn("⚠️ Не удалось опубликовать %s для уровня %s: %v", eventType, levelID, err)
	}
}

func (s *LevelService) observeMove(outcome string) {
	if s.metrics != nil {
		s.metrics.ObserveMove(outcome)
	}
}

func (s *LevelService) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
