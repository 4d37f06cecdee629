package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/annel0/blockslide/internal/generator"
	"github.com/annel0/blockslide/internal/level"
	"github.com/annel0/blockslide/internal/prune"
	"github.com/annel0/blockslide/internal/puzzle"
)

func main() {
	var (
		side     = flag.Int("side", 0, "Side length of the cube (overrides -level)")
		number   = flag.Int("level", 1, "Level number, side = level + 2")
		seed     = flag.Int64("seed", 0, "Random seed (0 = current time)")
		doPrune  = flag.Bool("prune", true, "Remove locked blocks")
		out      = flag.String("out", "", "Output file for the level literal (default stdout)")
		validate = flag.String("validate", "", "Validate an existing level literal file and exit")
	)
	flag.Parse()

	if *validate != "" {
		if err := validateFile(*validate, os.Stderr); err != nil {
			log.Fatalf("❌ %v", err)
		}
		return
	}

	sideLength := *side
	if sideLength == 0 {
		sideLength = generator.SideLengthForLevel(*number)
	}
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	l, report, err := generate(sideLength, *seed, *doPrune)
	if err != nil {
		log.Fatalf("❌ Generation failed: %v", err)
	}

	data, err := level.Encode(l)
	if err != nil {
		log.Fatalf("❌ Encode failed: %v", err)
	}

	if *out == "" {
		fmt.Println(string(data))
	} else if err := os.WriteFile(*out, append(data, '\n'), 0o644); err != nil {
		log.Fatalf("❌ Write failed: %v", err)
	}

	printSummary(os.Stderr, l, report, sideLength, *seed)
}

func generate(side int, seed int64, doPrune bool) (*level.Level, prune.Report, error) {
	rng := generator.NewRandSource(seed)
	if doPrune {
		return level.Generate(rng, side)
	}
	blocks, err := generator.Generate(rng, side)
	if err != nil {
		return nil, prune.Report{}, err
	}
	return level.New(blocks), prune.Report{}, nil
}

func printSummary(w io.Writer, l *level.Level, report prune.Report, side int, seed int64) {
	kinds := make(map[puzzle.ModelKind]int)
	for _, b := range l.Blocks {
		kind, _ := b.Model()
		kinds[kind]++
	}
	min, max := l.Bounds()

	fmt.Fprintf(w, "🧩 side=%d seed=%d blocks=%d (small=%d long=%d wide=%d)\n",
		side, seed, l.Len(), kinds[puzzle.ModelSmall], kinds[puzzle.ModelLong], kinds[puzzle.ModelWide])
	fmt.Fprintf(w, "   bounds=%v..%v center=%v\n", min, max, l.Center())
	for i, axis := range puzzle.AllAxes {
		if n := len(report.ByAxis[i]); n > 0 {
			fmt.Fprintf(w, "   pruned along %s: %d\n", axis, n)
		}
	}
}

func validateFile(path string, w io.Writer) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	l, err := level.Decode(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	fmt.Fprintf(w, "✅ %s: %d blocks\n", path, l.Len())
	return nil
}
