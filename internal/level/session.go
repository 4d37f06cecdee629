package level

import (
	"errors"
	"sort"
	"sync"

	"github.com/annel0/blockslide/internal/puzzle"
	"github.com/annel0/blockslide/internal/vec"
)

var (
	// ErrUnknownBlock блока с таким идентификатором нет в сессии
	ErrUnknownBlock = errors.New("unknown block")
	// ErrBlockInMotion блок ещё не завершил предыдущее движение
	ErrBlockInMotion = errors.New("block is in motion")
)

// BlockID стабильный идентификатор блока внутри сессии
type BlockID int

// BlockState блок сессии вместе с его состоянием движения
type BlockState struct {
	ID        BlockID      `json:"id"`
	Block     puzzle.Block `json:"block"`
	Moving    bool         `json:"moving"`
	Departing bool         `json:"departing"`
}

// MoveResult итог попытки сдвинуть блок
type MoveResult struct {
	ID         BlockID
	Resolution puzzle.MoveResolution
	// Motion nil, если положение блока не изменилось
	Motion *puzzle.Motion
}

// Frame положение движущегося блока после шага анимации
type Frame struct {
	ID       BlockID       `json:"id"`
	Position vec.Vec3Float `json:"position"`
	Arrived  bool          `json:"arrived"`
	Despawn  bool          `json:"despawn"`
}

// Session игровое состояние уровня. Блок получает новое положение сразу
// при ходе, а движение к нему анимируется отдельно через Advance.
type Session struct {
	mu sync.Mutex

	blocks    map[BlockID]puzzle.Block
	motions   map[BlockID]puzzle.Motion
	departing map[BlockID]bool
}

// NewSession создаёт сессию; блоки нумеруются с 1 в порядке уровня
func NewSession(l *Level) *Session {
	s := &Session{
		blocks:    make(map[BlockID]puzzle.Block, len(l.Blocks)),
		motions:   make(map[BlockID]puzzle.Motion),
		departing: make(map[BlockID]bool),
	}
	for i, b := range l.Blocks {
		s.blocks[BlockID(i+1)] = b
	}
	return s
}

// RestoreSession восстанавливает сессию из снимка. Незавершённые движения
// считаются завершёнными, улетающие блоки отбрасываются.
func RestoreSession(states []BlockState) *Session {
	s := &Session{
		blocks:    make(map[BlockID]puzzle.Block, len(states)),
		motions:   make(map[BlockID]puzzle.Motion),
		departing: make(map[BlockID]bool),
	}
	for _, st := range states {
		if st.Departing {
			continue
		}
		s.blocks[st.ID] = st.Block
	}
	return s
}

// ids идентификаторы живых блоков по возрастанию
func (s *Session) ids() []BlockID {
	ids := make([]BlockID, 0, len(s.blocks))
	for id := range s.blocks {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Blocks снимок всех блоков сессии
func (s *Session) Blocks() []BlockState {
	s.mu.Lock()
	defer s.mu.Unlock()

	states := make([]BlockState, 0, len(s.blocks))
	for _, id := range s.ids() {
		_, moving := s.motions[id]
		states = append(states, BlockState{
			ID:        id,
			Block:     s.blocks[id],
			Moving:    moving,
			Departing: s.departing[id],
		})
	}
	return states
}

// Block текущее положение блока
func (s *Session) Block(id BlockID) (puzzle.Block, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.blocks[id]
	return b, ok
}

// Level уровень из блоков, которые остаются на поле
func (s *Session) Level() *Level {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &Level{Blocks: s.obstacles()}
}

// obstacles живые блоки, кроме улетающих, в порядке идентификаторов
func (s *Session) obstacles() []puzzle.Block {
	blocks := make([]puzzle.Block, 0, len(s.blocks))
	for _, id := range s.ids() {
		if s.departing[id] {
			continue
		}
		blocks = append(blocks, s.blocks[id])
	}
	return blocks
}

// AttemptMove сдвигает блок по его направлению до ближайшего препятствия
// или отправляет его за пределы поля
func (s *Session) AttemptMove(id BlockID) (MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.blocks[id]
	if !ok || s.departing[id] {
		return MoveResult{}, ErrUnknownBlock
	}
	if _, moving := s.motions[id]; moving {
		return MoveResult{}, ErrBlockInMotion
	}

	res := b.ResolveMove(s.obstacles())
	result := MoveResult{ID: id, Resolution: res}
	if !res.Changed {
		return result, nil
	}

	s.blocks[id] = res.To
	motion := puzzle.NewMotion(res.From, res.To, res.Removed)
	s.motions[id] = motion
	if res.Removed {
		s.departing[id] = true
	}
	result.Motion = &motion
	return result, nil
}

// Advance продвигает все движения на dt секунд. Долетевшие до края блоки
// удаляются из сессии.
func (s *Session) Advance(dt float64) []Frame {
	s.mu.Lock()
	defer s.mu.Unlock()

	var frames []Frame
	for _, id := range s.ids() {
		m, ok := s.motions[id]
		if !ok {
			continue
		}
		next, arrived := m.Step(dt)
		frames = append(frames, Frame{ID: id, Position: next.Position, Arrived: arrived, Despawn: next.Despawn})
		if arrived {
			s.finish(id, next)
		} else {
			s.motions[id] = next
		}
	}
	return frames
}

// Settle мгновенно завершает все движения
func (s *Session) Settle() []Frame {
	s.mu.Lock()
	defer s.mu.Unlock()

	var frames []Frame
	for _, id := range s.ids() {
		m, ok := s.motions[id]
		if !ok {
			continue
		}
		frames = append(frames, Frame{ID: id, Position: m.Dest, Arrived: true, Despawn: m.Despawn})
		s.finish(id, m)
	}
	return frames
}

func (s *Session) finish(id BlockID, m puzzle.Motion) {
	delete(s.motions, id)
	if m.Despawn {
		delete(s.blocks, id)
		delete(s.departing, id)
	}
}

// Remaining количество блоков, ещё не покинувших поле
func (s *Session) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.blocks)
}

// Completed true, когда на поле не осталось блоков
func (s *Session) Completed() bool {
	return s.Remaining() == 0
}
