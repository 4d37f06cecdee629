package puzzle

// ModelKind вид модели, которой клиент отображает блок
type ModelKind string

const (
	ModelSmall ModelKind = "small" // куб 1×1×1
	ModelLong  ModelKind = "long"  // вытянут вдоль направления движения
	ModelWide  ModelKind = "wide"  // вытянут поперёк направления движения
)

// Rotation поворот модели на Turns четвертей оборота вокруг Axis
type Rotation struct {
	Axis  Axis `json:"axis"`
	Turns int  `json:"turns"`
}

// RotateAxisToAxis поворот, переводящий ось from в ось to.
// Для одинаковых осей возвращает false (тождественный поворот).
func RotateAxisToAxis(from, to Axis) (Rotation, bool) {
	around, ok := from.Remaining(to)
	if !ok {
		return Rotation{}, false
	}
	return Rotation{Axis: around, Turns: from.Cross(to)}, true
}

// Model вид модели блока. Модели нарисованы вдоль оси Y, поэтому
// поворот переводит Y в ось направления.
func (b Block) Model() (ModelKind, Rotation) {
	rot, _ := RotateAxisToAxis(AxisY, b.Direction.Axis)
	el, ok := b.Elongation()
	switch {
	case !ok:
		return ModelSmall, rot
	case el == b.Direction.Axis:
		return ModelLong, rot
	default:
		return ModelWide, rot
	}
}
