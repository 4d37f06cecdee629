// Package prune удаляет блоки, которые заведомо нельзя убрать с поля:
// на одной линии положительный блок стоит раньше отрицательного и они
// неизбежно упрутся друг в друга.
package prune

import (
	"sort"

	"github.com/annel0/blockslide/internal/puzzle"
	"github.com/annel0/blockslide/internal/vec"
)

// Report блоки, удалённые на проходе по каждой оси
type Report struct {
	ByAxis [3][]puzzle.Block
}

// Total общее число удалённых блоков
func (r Report) Total() int {
	n := 0
	for _, removed := range r.ByAxis {
		n += len(removed)
	}
	return n
}

// LockedBlocksToRemove анализирует упорядоченную вдоль axis линию блоков.
// Положительные блоки до первого отрицательного попадают в forward,
// отрицательные после первого положительного в backward. Если оба списка
// не пусты, возвращается forward, затем backward. Блоки, направленные вдоль
// других осей, пропускаются.
func LockedBlocksToRemove(line []puzzle.Block, axis puzzle.Axis) []puzzle.Block {
	var forward, backward []puzzle.Block
	seenPositive, seenNegative := false, false

	for _, b := range line {
		if b.Direction.Axis != axis {
			continue
		}
		if b.Direction.Positive {
			if !seenNegative {
				forward = append(forward, b)
			}
			seenPositive = true
		} else {
			if seenPositive {
				backward = append(backward, b)
			}
			seenNegative = true
		}
	}

	if len(forward) == 0 || len(backward) == 0 {
		return nil
	}
	return append(forward, backward...)
}

// Bounds ограничивающий параллелепипед набора блоков
func Bounds(blocks []puzzle.Block) (vec.Vec3, vec.Vec3) {
	if len(blocks) == 0 {
		return vec.Vec3{}, vec.Vec3{}
	}
	min, max := blocks[0].Min, blocks[0].Max
	for _, b := range blocks[1:] {
		min = min.Min(b.Min)
		max = max.Max(b.Max)
	}
	return min, max
}

// RemoveLocked удаляет запертые блоки, по одному проходу на каждую ось.
// Входной срез не изменяется.
func RemoveLocked(blocks []puzzle.Block) []puzzle.Block {
	out, _ := RemoveLockedWithReport(blocks)
	return out
}

// RemoveLockedWithReport как RemoveLocked, но дополнительно возвращает
// удалённые блоки по осям
func RemoveLockedWithReport(blocks []puzzle.Block) ([]puzzle.Block, Report) {
	working := make([]puzzle.Block, len(blocks))
	copy(working, blocks)

	var report Report
	min, max := Bounds(working)

	for i, axis := range puzzle.AllAxes {
		plane := axis.RemainingTwo()
		uLow, uHigh := plane[0].IComponent(min), plane[0].IComponent(max)
		vLow, vHigh := plane[1].IComponent(min), plane[1].IComponent(max)

		for u := uLow; u < uHigh; u++ {
			for v := vLow; v < vHigh; v++ {
				cell := vec.Vec2{X: u, Y: v}.CellCenter()
				line := lineThrough(working, axis, plane, cell)
				locked := LockedBlocksToRemove(line, axis)
				if len(locked) == 0 {
					continue
				}
				working = without(working, locked)
				report.ByAxis[i] = append(report.ByAxis[i], locked...)
			}
		}
	}

	return working, report
}

// lineThrough блоки, центр которых проецируется на клетку плоскости
// (манхэттенское расстояние не больше 0.5), отсортированные вдоль оси
func lineThrough(blocks []puzzle.Block, axis puzzle.Axis, plane [2]puzzle.Axis, cell vec.Vec2Float) []puzzle.Block {
	var line []puzzle.Block
	for _, b := range blocks {
		c := b.Center()
		projected := vec.Vec2Float{X: plane[0].Component(c), Y: plane[1].Component(c)}
		if projected.ManhattanTo(cell) <= 0.5 {
			line = append(line, b)
		}
	}
	sort.SliceStable(line, func(i, j int) bool {
		return axis.Component(line[i].Center()) < axis.Component(line[j].Center())
	})
	return line
}

func without(blocks, removed []puzzle.Block) []puzzle.Block {
	out := blocks[:0:0]
	for _, b := range blocks {
		if !containsBlock(removed, b) {
			out = append(out, b)
		}
	}
	return out
}

func containsBlock(blocks []puzzle.Block, b puzzle.Block) bool {
	for _, other := range blocks {
		if other.Equal(b) {
			return true
		}
	}
	return false
}
