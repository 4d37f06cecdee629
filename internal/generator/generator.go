package generator

import (
	"fmt"

	"github.com/annel0/blockslide/internal/puzzle"
)

// SideLengthForLevel длина стороны куба для уровня n: первый уровень 3x3x3
func SideLengthForLevel(n int) int {
	return n + 2
}

// RandomDirection выбирает одно из шести направлений равновероятно
func RandomDirection(rng RNG) puzzle.Direction {
	axis := puzzle.AllAxes[rng.IntInRange(0, len(puzzle.AllAxes)-1)]
	return puzzle.NewDirection(axis, rng.Chance(0.5))
}

// Generate строит уровень в кубе [0, sideLength)^3
func Generate(rng RNG, sideLength int) ([]puzzle.Block, error) {
	if sideLength < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSideLength, sideLength)
	}
	tree, err := BuildTree(rng, CubeSeed(sideLength))
	if err != nil {
		return nil, fmt.Errorf("failed to build subdivision tree: %w", err)
	}
	return ToBlocks(tree.Flatten()), nil
}

// BuildTree рекурсивно разбивает область на клетки размером не более 1x1x2
func BuildTree(rng RNG, seed Seed) (*Tree, error) {
	t := &Tree{}
	root, err := t.build(rng, seed)
	if err != nil {
		return nil, err
	}
	t.root = root
	return t, nil
}

func (t *Tree) build(rng RNG, seed Seed) (int, error) {
	widths, err := seed.Widths()
	if err != nil {
		return 0, err
	}

	var ones, twos int
	var wide []puzzle.Axis // оси шире единицы
	for i, w := range widths {
		switch w {
		case WidthOne:
			ones++
		case WidthTwo:
			twos++
		}
		if w != WidthOne {
			wide = append(wide, puzzle.AllAxes[i])
		}
	}

	switch {
	case ones == 3 && twos == 0:
		return t.addLeaf(randomCell(rng, seed)), nil

	case ones == 2 && twos == 1:
		// клетка 1x1x2 либо остаётся вытянутым блоком, либо режется пополам
		if rng.Chance(0.5) {
			axis := wide[0]
			return t.split(rng, seed, axis, seed.Field(axis).Low+1)
		}
		return t.addLeaf(randomCell(rng, seed)), nil

	case ones == 2:
		axis := wide[0]
		return t.splitRandom(rng, seed, axis)

	case ones == 1:
		axis := wide[rng.IntInRange(0, len(wide)-1)]
		return t.splitRandom(rng, seed, axis)

	case ones == 0:
		axis := puzzle.AllAxes[rng.IntInRange(0, len(puzzle.AllAxes)-1)]
		return t.splitRandom(rng, seed, axis)
	}

	return 0, fmt.Errorf("%w: ones=%d twos=%d", ErrUnreachableBranch, ones, twos)
}

// splitRandom режет по оси в случайной внутренней точке
func (t *Tree) splitRandom(rng RNG, seed Seed, axis puzzle.Axis) (int, error) {
	r := seed.Field(axis)
	return t.split(rng, seed, axis, rng.IntInRange(r.Low+1, r.High-1))
}

func (t *Tree) split(rng RNG, seed Seed, axis puzzle.Axis, mid int) (int, error) {
	low, high := seed.Split(axis, mid)
	left, err := t.build(rng, low)
	if err != nil {
		return 0, err
	}
	right, err := t.build(rng, high)
	if err != nil {
		return 0, err
	}
	return t.addNode(left, right), nil
}

// randomCell с вероятностью 1/2 оставляет клетку пустой, иначе ставит блок
// со случайным направлением
func randomCell(rng RNG, seed Seed) GBlock {
	min, max := seed.MinMax()
	if !rng.Chance(0.5) {
		return EmptyCell(min, max)
	}
	return DirectedCell(RandomDirection(rng), min, max)
}
