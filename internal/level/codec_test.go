package level

import (
	"testing"

	"github.com/annel0/blockslide/internal/puzzle"
	"github.com/annel0/blockslide/internal/vec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeLiteral(t *testing.T) {
	data := []byte(`[
		{"direction":{"axis":"X","positive":true},"min":[0,0,0],"max":[1,1,1]},
		{"direction":{"axis":"Z","positive":false},"min":[1,0,0],"max":[2,1,2]}
	]`)

	l, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, 2, l.Len())
	assert.Equal(t, puzzle.FromCorners(puzzle.XP, vec.NewVec3(0, 0, 0), vec.NewVec3(1, 1, 1)), l.Blocks[0])
	assert.Equal(t, puzzle.FromCorners(puzzle.ZN, vec.NewVec3(1, 0, 0), vec.NewVec3(2, 1, 2)), l.Blocks[1])
}

func TestEncodeDecodeDefaultLevel(t *testing.T) {
	data, err := Encode(DefaultLevel())
	require.NoError(t, err)

	l, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, DefaultLevel().Blocks, l.Blocks)
}

func TestDecodeEmpty(t *testing.T) {
	l, err := Decode([]byte(`[]`))
	require.NoError(t, err)
	assert.Equal(t, 0, l.Len())

	data, err := Encode(&Level{})
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}

func TestDecodeRejectsSchemaViolations(t *testing.T) {
	cases := map[string]string{
		"не json":          `[{`,
		"не массив":        `{"direction":{"axis":"X","positive":true}}`,
		"нет max":          `[{"direction":{"axis":"X","positive":true},"min":[0,0,0]}]`,
		"неизвестная ось":  `[{"direction":{"axis":"W","positive":true},"min":[0,0,0],"max":[1,1,1]}]`,
		"два компонента":   `[{"direction":{"axis":"X","positive":true},"min":[0,0],"max":[1,1,1]}]`,
		"дробная величина": `[{"direction":{"axis":"X","positive":true},"min":[0.5,0,0],"max":[1,1,1]}]`,
		"лишнее поле":      `[{"direction":{"axis":"X","positive":true},"min":[0,0,0],"max":[1,1,1],"color":"red"}]`,
	}
	for name, literal := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode([]byte(literal))
			assert.ErrorIs(t, err, ErrInvalidLevel)
		})
	}
}

func TestDecodeRejectsBadShape(t *testing.T) {
	_, err := Decode([]byte(`[{"direction":{"axis":"Y","positive":true},"min":[0,0,0],"max":[2,2,1]}]`))
	assert.ErrorIs(t, err, ErrInvalidLevel)
	assert.ErrorIs(t, err, puzzle.ErrInvalidBlockShape)
}
