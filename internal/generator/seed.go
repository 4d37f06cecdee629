package generator

import (
	"errors"
	"fmt"

	"github.com/annel0/blockslide/internal/puzzle"
	"github.com/annel0/blockslide/internal/vec"
)

var (
	// ErrInvalidWidth ширина области по оси не положительна
	ErrInvalidWidth = errors.New("invalid seed width")
	// ErrUnreachableBranch сочетание ширин, которое не должно встречаться
	ErrUnreachableBranch = errors.New("unreachable width combination")
	// ErrInvalidSideLength длина стороны уровня меньше 1
	ErrInvalidSideLength = errors.New("side length must be positive")
)

// Range полуоткрытый диапазон [Low, High)
type Range struct {
	Low  int
	High int
}

// Width длина диапазона
func (r Range) Width() int {
	return r.High - r.Low
}

// Seed область объёма, которую ещё предстоит разбить
type Seed struct {
	X Range
	Y Range
	Z Range
}

// CubeSeed куб [0, side) по всем осям
func CubeSeed(side int) Seed {
	r := Range{Low: 0, High: side}
	return Seed{X: r, Y: r, Z: r}
}

// Field диапазон по оси
func (s Seed) Field(axis puzzle.Axis) Range {
	switch axis {
	case puzzle.AxisX:
		return s.X
	case puzzle.AxisY:
		return s.Y
	default:
		return s.Z
	}
}

// SetField возвращает копию с заменённым диапазоном по оси
func (s Seed) SetField(axis puzzle.Axis, r Range) Seed {
	switch axis {
	case puzzle.AxisX:
		s.X = r
	case puzzle.AxisY:
		s.Y = r
	default:
		s.Z = r
	}
	return s
}

// Split делит область по оси в точке mid на нижнюю и верхнюю половины
func (s Seed) Split(axis puzzle.Axis, mid int) (Seed, Seed) {
	r := s.Field(axis)
	low := s.SetField(axis, Range{Low: r.Low, High: mid})
	high := s.SetField(axis, Range{Low: mid, High: r.High})
	return low, high
}

// MinMax углы области
func (s Seed) MinMax() (vec.Vec3, vec.Vec3) {
	return vec.Vec3{X: s.X.Low, Y: s.Y.Low, Z: s.Z.Low},
		vec.Vec3{X: s.X.High, Y: s.Y.High, Z: s.Z.High}
}

// Width классификация ширины области по оси
type Width uint8

const (
	WidthOne Width = iota + 1
	WidthTwo
	WidthMore
)

// ClassifyWidth относит ширину к One (1), Two (2) или More (>2)
func ClassifyWidth(n int) (Width, error) {
	switch {
	case n == 1:
		return WidthOne, nil
	case n == 2:
		return WidthTwo, nil
	case n > 2:
		return WidthMore, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrInvalidWidth, n)
	}
}

// Widths классифицирует ширины по осям X, Y, Z
func (s Seed) Widths() ([3]Width, error) {
	var ws [3]Width
	for i, axis := range puzzle.AllAxes {
		w, err := ClassifyWidth(s.Field(axis).Width())
		if err != nil {
			return ws, fmt.Errorf("axis %s: %w", axis, err)
		}
		ws[i] = w
	}
	return ws, nil
}
