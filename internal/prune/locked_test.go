package prune

import (
	"math/rand"
	"testing"

	"github.com/annel0/blockslide/internal/puzzle"
	"github.com/annel0/blockslide/internal/vec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unitLine строит линию единичных блоков вдоль X с заданными знаками
func unitLine(signs ...bool) []puzzle.Block {
	line := make([]puzzle.Block, len(signs))
	for i, positive := range signs {
		line[i] = puzzle.FromCorners(puzzle.NewDirection(puzzle.AxisX, positive),
			vec.NewVec3(i, 0, 0), vec.NewVec3(i+1, 1, 1))
	}
	return line
}

func unit(d puzzle.Direction, x, y, z int) puzzle.Block {
	return puzzle.FromCorners(d, vec.NewVec3(x, y, z), vec.NewVec3(x+1, y+1, z+1))
}

func TestLockedBlocksToRemove(t *testing.T) {
	const p, n = true, false

	assert.Empty(t, LockedBlocksToRemove(unitLine(p, p, p), puzzle.AxisX))
	assert.Empty(t, LockedBlocksToRemove(unitLine(n, n), puzzle.AxisX))
	assert.Empty(t, LockedBlocksToRemove(unitLine(n, p, p), puzzle.AxisX))
	assert.Empty(t, LockedBlocksToRemove(nil, puzzle.AxisX))

	line := unitLine(p, n)
	assert.Equal(t, []puzzle.Block{line[0], line[1]}, LockedBlocksToRemove(line, puzzle.AxisX))

	// forward затем backward
	line = unitLine(p, p, n, p, n)
	assert.Equal(t,
		[]puzzle.Block{line[0], line[1], line[2], line[4]},
		LockedBlocksToRemove(line, puzzle.AxisX))
}

func TestLockedBlocksIgnoreOtherAxes(t *testing.T) {
	line := []puzzle.Block{
		unit(puzzle.XP, 0, 0, 0),
		unit(puzzle.YN, 1, 0, 0),
		unit(puzzle.ZP, 2, 0, 0),
		unit(puzzle.XN, 3, 0, 0),
	}
	assert.Equal(t, []puzzle.Block{line[0], line[3]}, LockedBlocksToRemove(line, puzzle.AxisX))

	// по оси Y те же блоки: один отрицательный, запертых нет
	assert.Empty(t, LockedBlocksToRemove(line, puzzle.AxisY))
}

func TestBounds(t *testing.T) {
	min, max := Bounds([]puzzle.Block{
		unit(puzzle.XP, 2, 0, 1),
		puzzle.FromCorners(puzzle.ZN, vec.NewVec3(-1, 3, 0), vec.NewVec3(0, 4, 2)),
	})
	assert.Equal(t, vec.NewVec3(-1, 0, 0), min)
	assert.Equal(t, vec.NewVec3(3, 4, 2), max)

	min, max = Bounds(nil)
	assert.Equal(t, vec.Vec3{}, min)
	assert.Equal(t, vec.Vec3{}, max)
}

func TestRemoveLocked(t *testing.T) {
	a := unit(puzzle.XP, 0, 0, 0)
	b := unit(puzzle.XN, 2, 0, 0)
	free := unit(puzzle.XP, 0, 1, 0)
	up := unit(puzzle.YP, 1, 0, 0)
	down := unit(puzzle.YN, 1, 2, 0)
	blocks := []puzzle.Block{a, free, b, up, down}
	input := append([]puzzle.Block(nil), blocks...)

	out, report := RemoveLockedWithReport(blocks)

	assert.Equal(t, []puzzle.Block{free}, out)
	assert.Equal(t, []puzzle.Block{a, b}, report.ByAxis[puzzle.AxisX])
	assert.Equal(t, []puzzle.Block{up, down}, report.ByAxis[puzzle.AxisY])
	assert.Empty(t, report.ByAxis[puzzle.AxisZ])
	assert.Equal(t, 4, report.Total())
	assert.Equal(t, input, blocks, "вход не должен изменяться")
}

func TestRemoveLockedLongBlockSpansTwoLines(t *testing.T) {
	// вытянутый вдоль Y блок с направлением +X попадает в линии y=0 и y=1
	long := puzzle.FromCorners(puzzle.XP, vec.NewVec3(0, 0, 0), vec.NewVec3(1, 2, 1))
	blocker := unit(puzzle.XN, 3, 1, 0)

	out := RemoveLocked([]puzzle.Block{long, blocker})
	assert.Empty(t, out)
}

func TestRemoveLockedEmpty(t *testing.T) {
	assert.Empty(t, RemoveLocked(nil))
}

func TestRemoveLockedIdempotentOnUnitBlocks(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for round := 0; round < 30; round++ {
		var blocks []puzzle.Block
		for x := 0; x < 4; x++ {
			for y := 0; y < 4; y++ {
				for z := 0; z < 4; z++ {
					if rng.Intn(2) == 0 {
						continue
					}
					d := puzzle.AllDirections[rng.Intn(len(puzzle.AllDirections))]
					blocks = append(blocks, unit(d, x, y, z))
				}
			}
		}

		once := RemoveLocked(blocks)
		twice, report := RemoveLockedWithReport(once)
		require.Equal(t, once, twice, "раунд %d", round)
		require.Zero(t, report.Total())
	}
}
