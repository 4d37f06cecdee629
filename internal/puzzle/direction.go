package puzzle

import (
	"github.com/annel0/blockslide/internal/vec"
)

// Direction направление скольжения блока: ось и знак
type Direction struct {
	Axis     Axis `json:"axis"`
	Positive bool `json:"positive"`
}

// Шесть канонических направлений
var (
	XP = Direction{Axis: AxisX, Positive: true}
	XN = Direction{Axis: AxisX, Positive: false}
	YP = Direction{Axis: AxisY, Positive: true}
	YN = Direction{Axis: AxisY, Positive: false}
	ZP = Direction{Axis: AxisZ, Positive: true}
	ZN = Direction{Axis: AxisZ, Positive: false}
)

// AllDirections все шесть направлений
var AllDirections = [6]Direction{XP, XN, YP, YN, ZP, ZN}

// NewDirection создаёт направление
func NewDirection(axis Axis, positive bool) Direction {
	return Direction{Axis: axis, Positive: positive}
}

// Sign +1 или -1
func (d Direction) Sign() int {
	if d.Positive {
		return 1
	}
	return -1
}

// UnitVector единичный вектор направления
func (d Direction) UnitVector() vec.Vec3Float {
	return d.Axis.UnitVector().Mul(float64(d.Sign()))
}

// Opposite противоположное направление
func (d Direction) Opposite() Direction {
	return Direction{Axis: d.Axis, Positive: !d.Positive}
}

// String возвращает "+X", "-Z" и т.п.
func (d Direction) String() string {
	if d.Positive {
		return "+" + d.Axis.String()
	}
	return "-" + d.Axis.String()
}
