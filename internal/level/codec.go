package level

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/annel0/blockslide/internal/puzzle"
)

//go:embed level.schema.json
var levelSchemaJSON string

// ErrInvalidLevel литерал уровня не прошёл проверку
var ErrInvalidLevel = errors.New("invalid level literal")

var levelSchema = jsonschema.MustCompileString("https://blockslide.local/level.schema.json", levelSchemaJSON)

// Decode разбирает литерал уровня: сначала проверка по JSON-схеме,
// затем проверка формы каждого блока
func Decode(data []byte) (*Level, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLevel, err)
	}
	if err := levelSchema.Validate(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLevel, err)
	}

	var blocks []puzzle.Block
	if err := json.Unmarshal(data, &blocks); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLevel, err)
	}

	l := &Level{Blocks: blocks}
	if l.Blocks == nil {
		l.Blocks = []puzzle.Block{}
	}
	if err := l.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidLevel, err)
	}
	return l, nil
}

// Encode сериализует уровень в литерал
func Encode(l *Level) ([]byte, error) {
	blocks := l.Blocks
	if blocks == nil {
		blocks = []puzzle.Block{}
	}
	data, err := json.Marshal(blocks)
	if err != nil {
		return nil, fmt.Errorf("failed to encode level: %w", err)
	}
	return data, nil
}
