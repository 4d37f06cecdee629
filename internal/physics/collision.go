package physics

import (
	"github.com/annel0/blockslide/internal/vec"
)

// Rect представляет прямоугольник на целочисленной сетке [Min, Max)
type Rect struct {
	Min vec.Vec2
	Max vec.Vec2
}

// NewRect создаёт прямоугольник по углам
func NewRect(x0, y0, x1, y1 int) Rect {
	return Rect{
		Min: vec.Vec2{X: x0, Y: y0},
		Max: vec.Vec2{X: x1, Y: y1},
	}
}

// Intersect возвращает пересечение двух прямоугольников.
// Пустое пересечение даёт прямоугольник с Min >= Max хотя бы по одной оси.
func (r Rect) Intersect(other Rect) Rect {
	return Rect{
		Min: vec.Vec2{X: max(r.Min.X, other.Min.X), Y: max(r.Min.Y, other.Min.Y)},
		Max: vec.Vec2{X: min(r.Max.X, other.Max.X), Y: min(r.Max.Y, other.Max.Y)},
	}
}

// IsEmpty true, если площадь прямоугольника нулевая
func (r Rect) IsEmpty() bool {
	return r.Max.X <= r.Min.X || r.Max.Y <= r.Min.Y
}

// Width ширина прямоугольника
func (r Rect) Width() int {
	return r.Max.X - r.Min.X
}

// Height высота прямоугольника
func (r Rect) Height() int {
	return r.Max.Y - r.Min.Y
}

// RectsOverlap проверяет, пересекаются ли прямоугольники с ненулевой площадью.
// Касание по ребру пересечением не считается.
func RectsOverlap(a, b Rect) bool {
	return !a.Intersect(b).IsEmpty()
}

// Cells перебирает все единичные клетки прямоугольника построчно
func (r Rect) Cells(fn func(cell vec.Vec2)) {
	for x := r.Min.X; x < r.Max.X; x++ {
		for y := r.Min.Y; y < r.Max.Y; y++ {
			fn(vec.Vec2{X: x, Y: y})
		}
	}
}
