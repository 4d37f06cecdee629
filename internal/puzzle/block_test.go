package puzzle

import (
	"testing"

	"github.com/annel0/blockslide/internal/vec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func blk(d Direction, x0, y0, z0, x1, y1, z1 int) Block {
	return FromCorners(d, vec.NewVec3(x0, y0, z0), vec.NewVec3(x1, y1, z1))
}

func TestBlockGeometry(t *testing.T) {
	b := blk(XP, 2, 0, 4, 4, 1, 5)

	assert.Equal(t, vec.Vec3{X: 2, Y: 1, Z: 1}, b.ISize())
	assert.Equal(t, vec.Vec3Float{X: 2, Y: 1, Z: 1}, b.Size())
	assert.Equal(t, vec.Vec3Float{X: 3, Y: 0.5, Z: 4.5}, b.Center())

	el, ok := b.Elongation()
	require.True(t, ok)
	assert.Equal(t, AxisX, el)

	_, ok = blk(XP, 0, 0, 0, 1, 1, 1).Elongation()
	assert.False(t, ok, "у единичного куба нет оси вытянутости")
}

func TestBlockCornersRoundTrip(t *testing.T) {
	for _, b := range []Block{
		blk(ZP, 0, 0, 0, 1, 1, 1),
		blk(XN, 3, 1, 2, 4, 3, 3),
		blk(YN, -5, -4, -3, -4, -3, -1),
	} {
		min, max := b.Corners()
		assert.Equal(t, b, FromCorners(b.Direction, min, max))
		assert.True(t, b.Equal(FromCorners(b.Direction, min, max)))
	}
}

func TestBlockFromCenterSize(t *testing.T) {
	b := FromCenterSize(YP, vec.Vec3Float{X: 1.5, Y: 3, Z: 0.5}, vec.Vec3Float{X: 1, Y: 2, Z: 1})
	assert.Equal(t, blk(YP, 1, 2, 0, 2, 4, 1), b)
}

func TestBlockValidate(t *testing.T) {
	assert.NoError(t, blk(XP, 0, 0, 0, 1, 1, 1).Validate())
	assert.NoError(t, blk(XP, 0, 0, 0, 1, 1, 2).Validate())
	assert.NoError(t, blk(ZN, 0, 0, 0, 1, 2, 1).Validate())

	for _, bad := range []Block{
		blk(XP, 0, 0, 0, 0, 1, 1),
		blk(XP, 1, 0, 0, 0, 1, 1),
		blk(XP, 0, 0, 0, 2, 2, 1),
		blk(XP, 0, 0, 0, 3, 1, 1),
	} {
		err := bad.Validate()
		assert.ErrorIs(t, err, ErrInvalidBlockShape, "блок %v", bad)
	}
}

func TestOverlapInDirection(t *testing.T) {
	a := blk(XP, 0, 0, 0, 1, 1, 1)

	assert.True(t, OverlapInDirection(a, blk(XN, 7, 0, 0, 8, 1, 1), AxisX))
	assert.False(t, OverlapInDirection(a, blk(XN, 7, 1, 0, 8, 2, 1), AxisX))
	// по оси Y проверяются X и Z
	assert.True(t, OverlapInDirection(a, blk(XN, 0, 5, 0, 1, 6, 1), AxisY))
	assert.True(t, OverlapInDirection(blk(XP, 0, 0, 0, 1, 2, 1), blk(XN, 5, 1, 0, 6, 2, 1), AxisX))
}

func TestPossibleCollisionIrreflexive(t *testing.T) {
	b := blk(XP, 0, 0, 0, 1, 1, 1)
	assert.False(t, b.possibleCollision(b))

	_, ok := b.NearestBlockInFront([]Block{b})
	assert.False(t, ok)
}

func TestBlocksInFront(t *testing.T) {
	b := blk(XP, 0, 0, 0, 1, 1, 1)
	far := blk(YP, 3, 0, 0, 4, 1, 1)
	adjacent := blk(ZN, 1, 0, 0, 2, 1, 1)
	offset := blk(XP, 1, 1, 0, 2, 2, 1)
	behind := blk(XN, -2, 0, 0, -1, 1, 1)
	halfAhead := blk(XP, 0, 0, 1, 1, 1, 3)

	all := []Block{b, far, adjacent, offset, behind, halfAhead}
	assert.Equal(t, []Block{far, adjacent}, b.BlocksInFront(all))

	nearest, ok := b.NearestBlockInFront(all)
	require.True(t, ok)
	assert.Equal(t, adjacent, nearest)
}

func TestNearestBlockInFrontTies(t *testing.T) {
	b := blk(XP, 0, 0, 0, 1, 1, 1)
	// центр x=3, расстояние 2.5 усекается до 2
	long := blk(YN, 2, 0, 0, 4, 1, 1)
	// центр x=2.5, расстояние 2
	unit := blk(ZP, 2, 0, 0, 3, 1, 1)

	nearest, ok := b.NearestBlockInFront([]Block{long, unit})
	require.True(t, ok)
	assert.Equal(t, long, nearest, "при равенстве выбирается первый")

	nearest, ok = b.NearestBlockInFront([]Block{unit, long})
	require.True(t, ok)
	assert.Equal(t, unit, nearest)
}

func TestBlockModel(t *testing.T) {
	kind, _ := blk(XP, 0, 0, 0, 1, 1, 1).Model()
	assert.Equal(t, ModelSmall, kind)

	kind, rot := blk(ZP, 0, 0, 0, 1, 1, 2).Model()
	assert.Equal(t, ModelLong, kind)
	assert.Equal(t, Rotation{Axis: AxisX, Turns: 1}, rot)

	kind, _ = blk(ZP, 0, 0, 0, 2, 1, 1).Model()
	assert.Equal(t, ModelWide, kind)
}
