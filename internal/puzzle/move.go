package puzzle

// FlyAwayEdge координата далеко за пределами игрового объёма, куда улетает
// блок, которому ничто не мешает
const FlyAwayEdge = 20

// Move сдвигает блок вдоль его направления вплотную к препятствию.
// Не меняет b. Возвращает false, если блоки не в одной полосе или препятствие
// не находится впереди по оси движения.
func (b Block) Move(obstacle Block) (Block, bool) {
	axis := b.Direction.Axis
	if !OverlapInDirection(b, obstacle, axis) {
		return Block{}, false
	}

	length := 1
	if b.IsLongAlong(axis) {
		length = 2
	}

	moved := b
	if b.Direction.Positive {
		if axis.IComponent(b.Max) > axis.IComponent(obstacle.Min) {
			return Block{}, false
		}
		face := axis.IComponent(obstacle.Min)
		moved.Min = axis.WithIComponent(b.Min, face-length)
		moved.Max = axis.WithIComponent(b.Max, face)
	} else {
		if axis.IComponent(b.Min) < axis.IComponent(obstacle.Max) {
			return Block{}, false
		}
		face := axis.IComponent(obstacle.Max)
		moved.Min = axis.WithIComponent(b.Min, face)
		moved.Max = axis.WithIComponent(b.Max, face+length)
	}
	return moved, true
}

// FlyAway конечное положение блока, улетающего за пределы объёма
func (b Block) FlyAway() Block {
	axis := b.Direction.Axis
	size := axis.IComponent(b.ISize())

	res := b
	if b.Direction.Positive {
		res.Min = axis.WithIComponent(b.Min, FlyAwayEdge-size)
		res.Max = axis.WithIComponent(b.Max, FlyAwayEdge)
	} else {
		res.Min = axis.WithIComponent(b.Min, -FlyAwayEdge)
		res.Max = axis.WithIComponent(b.Max, -FlyAwayEdge+size)
	}
	return res
}

// MoveResolution итог попытки хода
type MoveResolution struct {
	From    Block   // положение до хода
	To      Block   // новое положение (при Removed - точка улёта)
	Removed bool    // блок улетает и должен быть удалён после анимации
	Changed bool    // положение изменилось
	Blocker *Block  // блок, в который упёрся ход (nil при улёте)
	Travel  float64 // путь вдоль направления, от центра до центра
}

// ResolveMove выполняет протокол хода: ближайший блок впереди, затем Move;
// если препятствия нет или Move невозможен, блок улетает.
func (b Block) ResolveMove(all []Block) MoveResolution {
	res := MoveResolution{From: b}

	if nearest, ok := b.NearestBlockInFront(all); ok {
		if moved, ok := b.Move(nearest); ok {
			blocker := nearest
			res.To = moved
			res.Blocker = &blocker
		}
	}
	if res.Blocker == nil {
		res.To = b.FlyAway()
		res.Removed = true
	}

	res.Changed = res.To != b
	res.Travel = b.Direction.UnitVector().Dot(res.To.Center().Sub(b.Center()))
	return res
}
