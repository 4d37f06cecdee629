package puzzle

import (
	"encoding/json"
	"fmt"

	"github.com/annel0/blockslide/internal/vec"
)

// Axis одна из трёх ортогональных осей
type Axis uint8

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// AllAxes все оси в порядке X, Y, Z
var AllAxes = [3]Axis{AxisX, AxisY, AxisZ}

// String возвращает строковое представление оси
func (a Axis) String() string {
	switch a {
	case AxisX:
		return "X"
	case AxisY:
		return "Y"
	case AxisZ:
		return "Z"
	default:
		return "UNKNOWN"
	}
}

// ParseAxis разбирает "X", "Y" или "Z"
func ParseAxis(s string) (Axis, error) {
	switch s {
	case "X", "x":
		return AxisX, nil
	case "Y", "y":
		return AxisY, nil
	case "Z", "z":
		return AxisZ, nil
	}
	return 0, fmt.Errorf("unknown axis %q", s)
}

// Next следующая ось правой тройки: X→Y→Z→X
func (a Axis) Next() Axis {
	switch a {
	case AxisX:
		return AxisY
	case AxisY:
		return AxisZ
	default:
		return AxisX
	}
}

// Cross знак векторного произведения единичных векторов осей:
// +1 для (X,Y), (Y,Z), (Z,X), -1 для обратного порядка, 0 для одинаковых осей
func (a Axis) Cross(other Axis) int {
	switch {
	case a == other:
		return 0
	case a.Next() == other:
		return 1
	default:
		return -1
	}
}

// Remaining третья ось для двух различных осей
func (a Axis) Remaining(other Axis) (Axis, bool) {
	if a == other {
		return 0, false
	}
	// X+Y+Z = 0+1+2 = 3
	return Axis(3 - int(a) - int(other)), true
}

// RemainingTwo две оси, ортогональные данной, в циклическом порядке
func (a Axis) RemainingTwo() [2]Axis {
	return [2]Axis{a.Next(), a.Next().Next()}
}

// UnitVector единичный вектор вдоль оси
func (a Axis) UnitVector() vec.Vec3Float {
	switch a {
	case AxisX:
		return vec.Vec3Float{X: 1}
	case AxisY:
		return vec.Vec3Float{Y: 1}
	default:
		return vec.Vec3Float{Z: 1}
	}
}

// Component компонента вектора вдоль оси
func (a Axis) Component(v vec.Vec3Float) float64 {
	switch a {
	case AxisX:
		return v.X
	case AxisY:
		return v.Y
	default:
		return v.Z
	}
}

// IComponent компонента целочисленного вектора вдоль оси
func (a Axis) IComponent(v vec.Vec3) int {
	switch a {
	case AxisX:
		return v.X
	case AxisY:
		return v.Y
	default:
		return v.Z
	}
}

// WithIComponent возвращает копию v с заменённой компонентой вдоль оси
func (a Axis) WithIComponent(v vec.Vec3, value int) vec.Vec3 {
	switch a {
	case AxisX:
		v.X = value
	case AxisY:
		v.Y = value
	default:
		v.Z = value
	}
	return v
}

// MarshalJSON сериализует ось строкой "X" | "Y" | "Z"
func (a Axis) MarshalJSON() ([]byte, error) {
	if a > AxisZ {
		return nil, fmt.Errorf("invalid axis %d", a)
	}
	return json.Marshal(a.String())
}

// UnmarshalJSON читает ось из строки
func (a *Axis) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseAxis(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
