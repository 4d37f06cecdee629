package vec

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVec3Arithmetic(t *testing.T) {
	a := NewVec3(1, 5, -2)
	b := NewVec3(3, 2, 0)

	assert.Equal(t, NewVec3(4, 7, -2), a.Add(b))
	assert.Equal(t, NewVec3(-2, 3, -2), a.Sub(b))
	assert.Equal(t, NewVec3(1, 2, -2), a.Min(b))
	assert.Equal(t, NewVec3(3, 5, 0), a.Max(b))
	assert.True(t, NewVec3(0, 0, 0).Less(NewVec3(1, 1, 1)))
	assert.False(t, NewVec3(0, 1, 0).Less(NewVec3(1, 1, 1)))
	assert.Equal(t, "(1,5,-2)", a.String())
}

func TestVec3FloatTrunc(t *testing.T) {
	v := Vec3Float{X: 2.9, Y: -0.5, Z: 7}
	assert.Equal(t, NewVec3(2, 0, 7), v.Trunc())
	assert.Equal(t, Vec3Float{X: 1, Y: 1, Z: 1}, Vec3Float{}.Midpoint(Vec3Float{X: 2, Y: 2, Z: 2}))
	assert.InDelta(t, 5.0, Vec3Float{X: 3, Y: 4}.Length(), 1e-9)
}

func TestVec3JSON(t *testing.T) {
	data, err := json.Marshal(NewVec3(1, 2, 3))
	require.NoError(t, err)
	assert.JSONEq(t, `[1,2,3]`, string(data))

	var v Vec3
	require.NoError(t, json.Unmarshal([]byte(`[4,5,6]`), &v))
	assert.Equal(t, NewVec3(4, 5, 6), v)

	assert.Error(t, json.Unmarshal([]byte(`{"x":1}`), &v))

	var f Vec3Float
	require.NoError(t, json.Unmarshal([]byte(`[0.5,1,1.5]`), &f))
	assert.Equal(t, Vec3Float{X: 0.5, Y: 1, Z: 1.5}, f)
}

func TestVec2CellCenter(t *testing.T) {
	c := Vec2{X: 2, Y: 3}.CellCenter()
	assert.Equal(t, Vec2Float{X: 2.5, Y: 3.5}, c)
	assert.InDelta(t, 1.0, c.ManhattanTo(Vec2Float{X: 2, Y: 3}), 1e-9)
	assert.Equal(t, Vec2{X: 3, Y: 3}, Vec2{X: 1, Y: 2}.Add(Vec2{X: 2, Y: 1}))
}
