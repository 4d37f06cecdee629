// Package level описывает уровень головоломки: набор блоков, его
// текстовое представление и состояние игровой сессии.
package level

import (
	"fmt"

	"github.com/annel0/blockslide/internal/generator"
	"github.com/annel0/blockslide/internal/prune"
	"github.com/annel0/blockslide/internal/puzzle"
	"github.com/annel0/blockslide/internal/vec"
)

// Level набор блоков уровня. Уровень владеет своим срезом.
type Level struct {
	Blocks []puzzle.Block
}

// New создаёт уровень из копии переданных блоков
func New(blocks []puzzle.Block) *Level {
	owned := make([]puzzle.Block, len(blocks))
	copy(owned, blocks)
	return &Level{Blocks: owned}
}

// Generate строит случайный уровень с заданной стороной и удаляет из него
// запертые блоки
func Generate(rng generator.RNG, sideLength int) (*Level, prune.Report, error) {
	raw, err := generator.Generate(rng, sideLength)
	if err != nil {
		return nil, prune.Report{}, fmt.Errorf("failed to generate level: %w", err)
	}
	blocks, report := prune.RemoveLockedWithReport(raw)
	return &Level{Blocks: blocks}, report, nil
}

// Len количество блоков
func (l *Level) Len() int {
	return len(l.Blocks)
}

// Bounds ограничивающий параллелепипед всех блоков
func (l *Level) Bounds() (vec.Vec3, vec.Vec3) {
	return prune.Bounds(l.Blocks)
}

// Center центр ограничивающего параллелепипеда
func (l *Level) Center() vec.Vec3Float {
	min, max := l.Bounds()
	return min.ToFloat().Midpoint(max.ToFloat())
}

// Clone глубокая копия уровня
func (l *Level) Clone() *Level {
	return New(l.Blocks)
}

// Validate проверяет форму каждого блока
func (l *Level) Validate() error {
	for i, b := range l.Blocks {
		if err := b.Validate(); err != nil {
			return fmt.Errorf("block %d: %w", i, err)
		}
	}
	return nil
}
