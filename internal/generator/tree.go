package generator

import (
	"github.com/annel0/blockslide/internal/puzzle"
	"github.com/annel0/blockslide/internal/vec"
)

// GBlock кандидат в блок: клетка разбиения, которая может остаться пустой
type GBlock struct {
	Min vec.Vec3
	Max vec.Vec3

	direction puzzle.Direction
	filled    bool
}

// EmptyCell клетка без блока
func EmptyCell(min, max vec.Vec3) GBlock {
	return GBlock{Min: min, Max: max}
}

// DirectedCell клетка с блоком заданного направления
func DirectedCell(direction puzzle.Direction, min, max vec.Vec3) GBlock {
	return GBlock{Min: min, Max: max, direction: direction, filled: true}
}

// Direction направление блока; false для пустой клетки
func (g GBlock) Direction() (puzzle.Direction, bool) {
	return g.direction, g.filled
}

// ToBlock превращает кандидата в блок; false для пустой клетки
func (g GBlock) ToBlock() (puzzle.Block, bool) {
	if !g.filled {
		return puzzle.Block{}, false
	}
	return puzzle.FromCorners(g.direction, g.Min, g.Max), true
}

// ToBlocks отбрасывает пустые клетки и переводит остальные в блоки 1:1
func ToBlocks(cells []GBlock) []puzzle.Block {
	blocks := make([]puzzle.Block, 0, len(cells))
	for _, c := range cells {
		if b, ok := c.ToBlock(); ok {
			blocks = append(blocks, b)
		}
	}
	return blocks
}

// node узел дерева разбиения: лист с кандидатом или разрез на две половины
type node struct {
	leaf  bool
	cell  GBlock
	left  int
	right int
}

// Tree двоичное дерево разбиения, хранимое в массиве узлов
type Tree struct {
	nodes []node
	root  int
}

func (t *Tree) addLeaf(cell GBlock) int {
	t.nodes = append(t.nodes, node{leaf: true, cell: cell})
	return len(t.nodes) - 1
}

func (t *Tree) addNode(left, right int) int {
	t.nodes = append(t.nodes, node{left: left, right: right})
	return len(t.nodes) - 1
}

// Len количество узлов
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Flatten обходит дерево слева направо (нижняя половина раньше верхней)
// и возвращает листья
func (t *Tree) Flatten() []GBlock {
	if len(t.nodes) == 0 {
		return nil
	}
	var acc []GBlock
	t.flatten(t.root, &acc)
	return acc
}

func (t *Tree) flatten(idx int, acc *[]GBlock) {
	n := t.nodes[idx]
	if n.leaf {
		*acc = append(*acc, n.cell)
		return
	}
	t.flatten(n.left, acc)
	t.flatten(n.right, acc)
}
