package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Исходы хода для метки outcome
const (
	OutcomeSlid       = "slid"
	OutcomeFlewAway   = "flew_away"
	OutcomeDegenerate = "degenerate"
	OutcomeRejected   = "rejected"
)

// GameMetrics игровые метрики уровня и ходов
type GameMetrics struct {
	levelsGenerated    *prometheus.CounterVec
	generationDuration prometheus.Histogram
	blocksGenerated    prometheus.Histogram
	blocksPruned       *prometheus.CounterVec
	moves              *prometheus.CounterVec
	levelsCompleted    prometheus.Counter
}

// NewGameMetrics создаёт метрики и регистрирует их в reg (nil - глобальный регистр)
func NewGameMetrics(reg prometheus.Registerer) *GameMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gm := &GameMetrics{
		levelsGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "blockslide",
			Name:      "levels_created_total",
			Help:      "Созданные уровни по источнику (generated/literal).",
		}, []string{"source"}),
		generationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "blockslide",
			Name:      "generation_duration_seconds",
			Help:      "Время генерации и прореживания уровня.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
		blocksGenerated: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "blockslide",
			Name:      "level_blocks",
			Help:      "Количество блоков в созданном уровне.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}),
		blocksPruned: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "blockslide",
			Name:      "blocks_pruned_total",
			Help:      "Блоки, удалённые как запертые, по оси прохода.",
		}, []string{"axis"}),
		moves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "blockslide",
			Name:      "moves_total",
			Help:      "Ходы игроков по исходу.",
		}, []string{"outcome"}),
		levelsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "blockslide",
			Name:      "levels_completed_total",
			Help:      "Пройденные уровни.",
		}),
	}

	reg.MustRegister(gm.levelsGenerated, gm.generationDuration, gm.blocksGenerated,
		gm.blocksPruned, gm.moves, gm.levelsCompleted)
	return gm
}

// ObserveLevel учитывает созданный уровень
func (gm *GameMetrics) ObserveLevel(source string, blocks int, took time.Duration) {
	gm.levelsGenerated.WithLabelValues(source).Inc()
	gm.blocksGenerated.Observe(float64(blocks))
	if took > 0 {
		gm.generationDuration.Observe(took.Seconds())
	}
}

// ObservePruned учитывает удалённые блоки по оси
func (gm *GameMetrics) ObservePruned(axis string, n int) {
	if n > 0 {
		gm.blocksPruned.WithLabelValues(axis).Add(float64(n))
	}
}

// ObserveMove учитывает ход
func (gm *GameMetrics) ObserveMove(outcome string) {
	gm.moves.WithLabelValues(outcome).Inc()
}

// ObserveCompleted учитывает пройденный уровень
func (gm *GameMetrics) ObserveCompleted() {
	gm.levelsCompleted.Inc()
}
