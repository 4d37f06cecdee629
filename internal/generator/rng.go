package generator

import (
	"math/rand"
)

// RNG источник случайности генератора. Передаётся явно в каждый
// рекурсивный вызов, чтобы генерация была детерминированной при фиксированном сиде.
type RNG interface {
	// IntInRange равномерно выбирает целое из [lo, hi] включительно
	IntInRange(lo, hi int) int
	// Chance возвращает true с вероятностью p
	Chance(p float64) bool
}

// RandSource реализация RNG поверх math/rand
type RandSource struct {
	rng *rand.Rand
}

// NewRandSource создаёт детерминированный источник с указанным сидом
func NewRandSource(seed int64) *RandSource {
	return &RandSource{rng: rand.New(rand.NewSource(seed))}
}

// IntInRange равномерно выбирает целое из [lo, hi]
func (s *RandSource) IntInRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + s.rng.Intn(hi-lo+1)
}

// Chance возвращает true с вероятностью p
func (s *RandSource) Chance(p float64) bool {
	return s.rng.Float64() < p
}
