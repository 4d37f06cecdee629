package eventbus

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/annel0/blockslide/internal/puzzle"
)

// Типы событий уровня
const (
	EventLevelGenerated = "level.generated"
	EventLevelImported  = "level.imported"
	EventBlockMoved     = "block.moved"
	EventBlockDeparted  = "block.departed"
	EventLevelCompleted = "level.completed"
)

// MetaLevelID ключ метаданных с ID уровня
const MetaLevelID = "level_id"

// payloadVersion версия схемы полезной нагрузки
const payloadVersion = 1

// LevelCreatedPayload полезная нагрузка level.generated и level.imported
type LevelCreatedPayload struct {
	LevelID    string `json:"level_id"`
	Number     int    `json:"number"`
	SideLength int    `json:"side_length"`
	Seed       int64  `json:"seed"`
	Blocks     int    `json:"blocks"`
	Pruned     int    `json:"pruned"`
}

// BlockMovedPayload полезная нагрузка block.moved и block.departed
type BlockMovedPayload struct {
	LevelID string       `json:"level_id"`
	BlockID int          `json:"block_id"`
	From    puzzle.Block `json:"from"`
	To      puzzle.Block `json:"to"`
	Travel  float64      `json:"travel"`
}

// LevelCompletedPayload полезная нагрузка level.completed
type LevelCompletedPayload struct {
	LevelID string `json:"level_id"`
	Moves   int    `json:"moves"`
}

// NewLevelEvent собирает конверт события уровня с JSON-нагрузкой
func NewLevelEvent(eventType, source, levelID string, payload any) (*Envelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}

	priority := 1
	if eventType == EventLevelCompleted {
		priority = 5
	}

	return &Envelope{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Source:    source,
		EventType: eventType,
		Version:   payloadVersion,
		Priority:  priority,
		Payload:   data,
		Metadata:  map[string]string{MetaLevelID: levelID},
	}, nil
}

// DecodePayload разбирает JSON-нагрузку события в v
func DecodePayload(ev *Envelope, v any) error {
	if err := json.Unmarshal(ev.Payload, v); err != nil {
		return fmt.Errorf("decode %s payload: %w", ev.EventType, err)
	}
	return nil
}

// LevelFilter фильтр событий одного уровня
func LevelFilter(levelID string, types ...string) Filter {
	return Filter{Types: types, Metadata: map[string]string{MetaLevelID: levelID}}
}
