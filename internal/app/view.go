package app

import (
	"time"

	"github.com/annel0/blockslide/internal/level"
	"github.com/annel0/blockslide/internal/puzzle"
	"github.com/annel0/blockslide/internal/storage"
	"github.com/annel0/blockslide/internal/vec"
)

// BlockView блок уровня в том виде, в котором его получает клиент
type BlockView struct {
	ID       level.BlockID    `json:"id"`
	Block    puzzle.Block     `json:"block"`
	Center   vec.Vec3Float    `json:"center"`
	Model    puzzle.ModelKind `json:"model"`
	Rotation puzzle.Rotation  `json:"rotation"`
}

// LevelView состояние уровня для клиента
type LevelView struct {
	ID         string      `json:"id"`
	Number     int         `json:"number"`
	SideLength int         `json:"side_length"`
	Seed       int64       `json:"seed"`
	Source     string      `json:"source"`
	Blocks     []BlockView `json:"blocks"`
	// Границы и центр считаются по исходному набору блоков, чтобы камера
	// не смещалась по мере прохождения
	BoundsMin vec.Vec3      `json:"bounds_min"`
	BoundsMax vec.Vec3      `json:"bounds_max"`
	Center    vec.Vec3Float `json:"center"`
	Pruned    int           `json:"pruned"`
	Moves     int           `json:"moves"`
	Remaining int           `json:"remaining"`
	Completed bool          `json:"completed"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// NewLevelView строит представление уровня из записи
func NewLevelView(rec *storage.LevelRecord) *LevelView {
	initial := level.New(rec.Initial)
	min, max := initial.Bounds()

	blocks := make([]BlockView, 0, len(rec.Blocks))
	for _, st := range rec.Blocks {
		if st.Departing {
			continue
		}
		kind, rot := st.Block.Model()
		blocks = append(blocks, BlockView{
			ID:       st.ID,
			Block:    st.Block,
			Center:   st.Block.Center(),
			Model:    kind,
			Rotation: rot,
		})
	}

	return &LevelView{
		ID:         rec.ID,
		Number:     rec.Number,
		SideLength: rec.SideLength,
		Seed:       rec.Seed,
		Source:     rec.Source,
		Blocks:     blocks,
		BoundsMin:  min,
		BoundsMax:  max,
		Center:     initial.Center(),
		Pruned:     rec.Pruned,
		Moves:      rec.Moves,
		Remaining:  len(blocks),
		Completed:  rec.Completed,
		CreatedAt:  rec.CreatedAt,
		UpdatedAt:  rec.UpdatedAt,
	}
}

// LevelSummary краткие сведения об уровне для списка
type LevelSummary struct {
	ID         string    `json:"id"`
	Number     int       `json:"number"`
	SideLength int       `json:"side_length"`
	Source     string    `json:"source"`
	Remaining  int       `json:"remaining"`
	Moves      int       `json:"moves"`
	Completed  bool      `json:"completed"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewLevelSummary строит краткие сведения из записи
func NewLevelSummary(rec *storage.LevelRecord) LevelSummary {
	return LevelSummary{
		ID:         rec.ID,
		Number:     rec.Number,
		SideLength: rec.SideLength,
		Source:     rec.Source,
		Remaining:  len(rec.Blocks),
		Moves:      rec.Moves,
		Completed:  rec.Completed,
		CreatedAt:  rec.CreatedAt,
	}
}
