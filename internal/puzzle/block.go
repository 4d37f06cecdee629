package puzzle

import (
	"errors"
	"fmt"
	"math"

	"github.com/annel0/blockslide/internal/physics"
	"github.com/annel0/blockslide/internal/vec"
)

// ErrInvalidBlockShape блок не является кубом 1×1×1 или доминошкой 1×1×2
var ErrInvalidBlockShape = errors.New("invalid block shape")

// Block выровненный по осям блок с назначенным направлением скольжения.
// Размер - 1×1×1 или 1×1×2 вдоль одной из осей.
type Block struct {
	Direction Direction `json:"direction"`
	Min       vec.Vec3  `json:"min"`
	Max       vec.Vec3  `json:"max"`
}

// FromCorners собирает блок из направления и пары углов
func FromCorners(direction Direction, min, max vec.Vec3) Block {
	return Block{Direction: direction, Min: min, Max: max}
}

// FromCenterSize собирает блок по центру и размеру
func FromCenterSize(direction Direction, center, size vec.Vec3Float) Block {
	half := size.Mul(0.5)
	return Block{
		Direction: direction,
		Min:       center.Sub(half).Trunc(),
		Max:       center.Add(half).Trunc(),
	}
}

// Corners возвращает пару углов (min, max)
func (b Block) Corners() (vec.Vec3, vec.Vec3) {
	return b.Min, b.Max
}

// ISize целочисленный размер
func (b Block) ISize() vec.Vec3 {
	return b.Max.Sub(b.Min)
}

// Size размер с плавающей точкой
func (b Block) Size() vec.Vec3Float {
	return b.ISize().ToFloat()
}

// Center центр блока
func (b Block) Center() vec.Vec3Float {
	return b.Max.ToFloat().Midpoint(b.Min.ToFloat())
}

// Elongation ось, вдоль которой блок имеет длину 2; false для единичного куба
func (b Block) Elongation() (Axis, bool) {
	switch b.ISize() {
	case vec.Vec3{X: 2, Y: 1, Z: 1}:
		return AxisX, true
	case vec.Vec3{X: 1, Y: 2, Z: 1}:
		return AxisY, true
	case vec.Vec3{X: 1, Y: 1, Z: 2}:
		return AxisZ, true
	default:
		return 0, false
	}
}

// IsLongAlong true, если блок вытянут вдоль оси axis
func (b Block) IsLongAlong(axis Axis) bool {
	el, ok := b.Elongation()
	return ok && el == axis
}

// Equal структурное равенство
func (b Block) Equal(other Block) bool {
	return b == other
}

// Validate проверяет инвариант формы блока
func (b Block) Validate() error {
	if b.Direction.Axis > AxisZ {
		return fmt.Errorf("%w: unknown axis %d", ErrInvalidBlockShape, b.Direction.Axis)
	}
	if !b.Min.Less(b.Max) {
		return fmt.Errorf("%w: min %v is not below max %v", ErrInvalidBlockShape, b.Min, b.Max)
	}
	size := b.ISize()
	if size == (vec.Vec3{X: 1, Y: 1, Z: 1}) {
		return nil
	}
	if _, ok := b.Elongation(); !ok {
		return fmt.Errorf("%w: size %v", ErrInvalidBlockShape, size)
	}
	return nil
}

// String краткое представление для логов
func (b Block) String() string {
	return fmt.Sprintf("%s[%v..%v]", b.Direction, b.Min, b.Max)
}

// laneRect проекция блока на плоскость, ортогональную оси
func (b Block) laneRect(axis Axis) physics.Rect {
	u, v := axis.RemainingTwo()[0], axis.RemainingTwo()[1]
	return physics.NewRect(u.IComponent(b.Min), v.IComponent(b.Min), u.IComponent(b.Max), v.IComponent(b.Max))
}

// OverlapInDirection проверяет, пересекаются ли проекции блоков на плоскость,
// ортогональную axis (блоки лежат в одной "полосе" движения)
func OverlapInDirection(a, b Block, axis Axis) bool {
	return physics.RectsOverlap(a.laneRect(axis), b.laneRect(axis))
}

// possibleCollision other стоит впереди по направлению движения не ближе
// одной единицы и не смещён в сторону
func (b Block) possibleCollision(other Block) bool {
	if other == b {
		return false
	}
	diff := other.Center().Sub(b.Center())
	ahead := b.Direction.UnitVector().Dot(diff) >= 1.0
	if !ahead {
		return false
	}
	for _, ax := range b.Direction.Axis.RemainingTwo() {
		if math.Abs(ax.Component(diff)) >= 1.0 {
			return false
		}
	}
	return true
}

// forwardDistance расстояние между центрами вдоль направления, усечённое к нулю
func (b Block) forwardDistance(other Block) int {
	return int(b.Direction.UnitVector().Dot(other.Center().Sub(b.Center())))
}

// BlocksInFront все блоки, с которыми b может столкнуться
func (b Block) BlocksInFront(all []Block) []Block {
	var res []Block
	for _, other := range all {
		if b.possibleCollision(other) {
			res = append(res, other)
		}
	}
	return res
}

// NearestBlockInFront ближайший блок впереди. При равных расстояниях
// возвращается первый по порядку входного среза.
func (b Block) NearestBlockInFront(all []Block) (Block, bool) {
	var (
		best     Block
		bestDist int
		found    bool
	)
	for _, other := range all {
		if !b.possibleCollision(other) {
			continue
		}
		d := b.forwardDistance(other)
		if !found || d < bestDist {
			best, bestDist, found = other, d, true
		}
	}
	return best, found
}
