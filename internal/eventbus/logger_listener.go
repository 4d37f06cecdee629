package eventbus

import (
	"context"

	"github.com/annel0/blockslide/internal/logging"
)

// StartLoggingListener подписывается на все события и пишет их в лог шины.
// Функция неблокирующая.
func StartLoggingListener(bus EventBus, log *logging.Logger) (Subscription, error) {
	if log == nil {
		log = logging.GetEventBusLogger()
	}
	sub, err := bus.Subscribe(context.Background(), Filter{}, func(ctx context.Context, ev *Envelope) {
		log.Debug("%s %s src=%s level=%s prio=%d size=%dB",
			ev.ID, ev.EventType, ev.Source, ev.Metadata[MetaLevelID], ev.Priority, len(ev.Payload))
	})
	if err != nil {
		return nil, err
	}
	log.Info("🪵 LoggingListener: подписка на все события активирована")
	return sub, nil
}
