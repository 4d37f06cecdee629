package level

import (
	"github.com/annel0/blockslide/internal/puzzle"
	"github.com/annel0/blockslide/internal/vec"
)

// DefaultLevel небольшой уровень, заданный вручную
func DefaultLevel() *Level {
	b := func(d puzzle.Direction, min, max vec.Vec3) puzzle.Block {
		return puzzle.FromCorners(d, min, max)
	}
	return &Level{Blocks: []puzzle.Block{
		b(puzzle.ZP, vec.NewVec3(0, 0, 0), vec.NewVec3(1, 1, 1)),
		b(puzzle.ZP, vec.NewVec3(1, 0, 0), vec.NewVec3(2, 1, 1)),
		b(puzzle.ZP, vec.NewVec3(2, 0, 0), vec.NewVec3(3, 2, 1)),
		b(puzzle.XN, vec.NewVec3(3, 0, 0), vec.NewVec3(4, 1, 2)),
		b(puzzle.XN, vec.NewVec3(4, 0, 0), vec.NewVec3(6, 1, 1)),
		b(puzzle.XN, vec.NewVec3(1, 0, 5), vec.NewVec3(3, 1, 6)),
	}}
}
