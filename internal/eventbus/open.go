package eventbus

import (
	"fmt"
	"time"

	"github.com/annel0/blockslide/internal/config"
)

// Open создаёт шину событий по конфигурации
func Open(cfg config.EventBusConfig) (EventBus, error) {
	switch cfg.Backend {
	case "", "memory":
		return NewMemoryBus(cfg.Capacity), nil
	case "nats":
		bus, err := NewJetStreamBus(cfg.URL, cfg.Stream, time.Duration(cfg.Retention)*time.Hour)
		if err != nil {
			return nil, err
		}
		return bus, nil
	default:
		return nil, fmt.Errorf("unknown event bus backend %q", cfg.Backend)
	}
}
