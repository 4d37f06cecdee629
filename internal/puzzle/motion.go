package puzzle

import (
	"github.com/annel0/blockslide/internal/vec"
)

// MotionSpeed скорость скольжения блока, единиц в секунду
const MotionSpeed = 16.0

// Motion анимация скольжения блока к точке назначения.
// Время не отслеживается: вызывающий передаёт прошедший интервал в Step.
type Motion struct {
	Position  vec.Vec3Float `json:"position"`
	Dest      vec.Vec3Float `json:"dest"`
	Direction Direction     `json:"direction"`
	Despawn   bool          `json:"despawn"`
}

// NewMotion анимация перехода из from в to
func NewMotion(from, to Block, despawn bool) Motion {
	return Motion{
		Position:  from.Center(),
		Dest:      to.Center(),
		Direction: from.Direction,
		Despawn:   despawn,
	}
}

// Step продвигает анимацию на elapsed секунд. Возвращает true, когда
// точка назначения достигнута; в этом случае Position == Dest.
func (m Motion) Step(elapsed float64) (Motion, bool) {
	unit := m.Direction.UnitVector()
	next := m.Position.Add(unit.Mul(MotionSpeed * elapsed))
	if unit.Dot(m.Dest.Sub(next)) < 0 {
		m.Position = m.Dest
		return m, true
	}
	m.Position = next
	return m, false
}
