package vec

import "math"

// Vec2 представляет 2D координаты (клетка проекции объёма на плоскость)
type Vec2 struct {
	X, Y int
}

// Vec2Float представляет 2D координаты с плавающей точкой
type Vec2Float struct {
	X, Y float64
}

// Add складывает два вектора
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{X: v.X + other.X, Y: v.Y + other.Y}
}

// CellCenter возвращает центр единичной клетки с углом в v
func (v Vec2) CellCenter() Vec2Float {
	return Vec2Float{X: float64(v.X) + 0.5, Y: float64(v.Y) + 0.5}
}

// ManhattanTo вычисляет манхэттенское расстояние до другой точки
func (v Vec2Float) ManhattanTo(other Vec2Float) float64 {
	return math.Abs(v.X-other.X) + math.Abs(v.Y-other.Y)
}
