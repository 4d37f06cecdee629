package puzzle

import (
	"encoding/json"
	"testing"

	"github.com/annel0/blockslide/internal/vec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAxisNextCycle(t *testing.T) {
	assert.Equal(t, AxisY, AxisX.Next())
	assert.Equal(t, AxisZ, AxisY.Next())
	assert.Equal(t, AxisX, AxisZ.Next())
}

func TestAxisCross(t *testing.T) {
	assert.Equal(t, 1, AxisX.Cross(AxisY))
	assert.Equal(t, 1, AxisY.Cross(AxisZ))
	assert.Equal(t, 1, AxisZ.Cross(AxisX))
	assert.Equal(t, -1, AxisY.Cross(AxisX))
	assert.Equal(t, -1, AxisZ.Cross(AxisY))
	assert.Equal(t, -1, AxisX.Cross(AxisZ))
	for _, a := range AllAxes {
		assert.Equal(t, 0, a.Cross(a))
	}
}

func TestAxisRemaining(t *testing.T) {
	third, ok := AxisX.Remaining(AxisY)
	require.True(t, ok)
	assert.Equal(t, AxisZ, third)

	third, ok = AxisZ.Remaining(AxisY)
	require.True(t, ok)
	assert.Equal(t, AxisX, third)

	third, ok = AxisX.Remaining(AxisZ)
	require.True(t, ok)
	assert.Equal(t, AxisY, third)

	_, ok = AxisY.Remaining(AxisY)
	assert.False(t, ok)
}

func TestAxisRemainingTwo(t *testing.T) {
	assert.Equal(t, [2]Axis{AxisY, AxisZ}, AxisX.RemainingTwo())
	assert.Equal(t, [2]Axis{AxisZ, AxisX}, AxisY.RemainingTwo())
	assert.Equal(t, [2]Axis{AxisX, AxisY}, AxisZ.RemainingTwo())
}

func TestAxisComponents(t *testing.T) {
	v := vec.Vec3Float{X: 1.5, Y: -2, Z: 3}
	iv := vec.Vec3{X: 4, Y: 5, Z: 6}

	assert.Equal(t, 1.5, AxisX.Component(v))
	assert.Equal(t, -2.0, AxisY.Component(v))
	assert.Equal(t, 3.0, AxisZ.Component(v))
	assert.Equal(t, 5, AxisY.IComponent(iv))
	assert.Equal(t, vec.Vec3{X: 4, Y: 5, Z: 9}, AxisZ.WithIComponent(iv, 9))
	assert.Equal(t, vec.Vec3Float{Z: 1}, AxisZ.UnitVector())
}

func TestDirectionVectors(t *testing.T) {
	assert.Equal(t, 1, XP.Sign())
	assert.Equal(t, -1, ZN.Sign())
	assert.Equal(t, vec.Vec3Float{Y: -1}, YN.UnitVector())
	assert.Equal(t, XN, XP.Opposite())
	assert.Equal(t, "+X", XP.String())
	assert.Equal(t, "-Z", ZN.String())
}

func TestDirectionJSON(t *testing.T) {
	data, err := json.Marshal(ZN)
	require.NoError(t, err)
	assert.JSONEq(t, `{"axis":"Z","positive":false}`, string(data))

	var d Direction
	require.NoError(t, json.Unmarshal([]byte(`{"axis":"Y","positive":true}`), &d))
	assert.Equal(t, YP, d)

	assert.Error(t, json.Unmarshal([]byte(`{"axis":"W","positive":true}`), &d))
}

func TestRotateAxisToAxis(t *testing.T) {
	rot, ok := RotateAxisToAxis(AxisY, AxisX)
	require.True(t, ok)
	assert.Equal(t, Rotation{Axis: AxisZ, Turns: -1}, rot)

	rot, ok = RotateAxisToAxis(AxisY, AxisZ)
	require.True(t, ok)
	assert.Equal(t, Rotation{Axis: AxisX, Turns: 1}, rot)

	_, ok = RotateAxisToAxis(AxisY, AxisY)
	assert.False(t, ok)
}
