package storage

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/annel0/blockslide/internal/level"
	"github.com/annel0/blockslide/internal/puzzle"
)

// ErrLevelNotFound уровень с таким ID не сохранён
var ErrLevelNotFound = errors.New("уровень не найден")

// Источники уровня
const (
	SourceGenerated = "generated"
	SourceLiteral   = "literal"
)

// LevelRecord сохраняемое состояние уровня: исходный набор блоков и
// текущие блоки сессии с их идентификаторами
type LevelRecord struct {
	ID         string             `json:"id"`
	Number     int                `json:"number"`
	SideLength int                `json:"side_length"`
	Seed       int64              `json:"seed"`
	Source     string             `json:"source"`
	Initial    []puzzle.Block     `json:"initial"`
	Blocks     []level.BlockState `json:"blocks"`
	Pruned     int                `json:"pruned"`
	Moves      int                `json:"moves"`
	Completed  bool               `json:"completed"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

// Clone глубокая копия записи
func (r *LevelRecord) Clone() *LevelRecord {
	c := *r
	c.Initial = slices.Clone(r.Initial)
	c.Blocks = slices.Clone(r.Blocks)
	return &c
}

// LevelRepo определяет интерфейс хранилища уровней.
type LevelRepo interface {
	// Save сохраняет запись целиком, перезаписывая существующую с тем же ID
	Save(ctx context.Context, rec *LevelRecord) error

	// Load загружает уровень.
	// Возвращает:
	//   *LevelRecord - запись (nil, если не найдена)
	//   bool - true если уровень найден
	//   error - ошибка при загрузке
	Load(ctx context.Context, id string) (*LevelRecord, bool, error)

	// Delete удаляет уровень; ErrLevelNotFound, если его нет
	Delete(ctx context.Context, id string) error

	// List возвращает все уровни в порядке создания
	List(ctx context.Context) ([]*LevelRecord, error)

	Close() error
}

// sortRecords упорядочивает записи по времени создания, затем по ID
func sortRecords(recs []*LevelRecord) {
	slices.SortFunc(recs, func(a, b *LevelRecord) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
}
