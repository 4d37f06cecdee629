package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/annel0/blockslide/internal/api"
	"github.com/annel0/blockslide/internal/app"
	"github.com/annel0/blockslide/internal/config"
	"github.com/annel0/blockslide/internal/eventbus"
	"github.com/annel0/blockslide/internal/logging"
	"github.com/annel0/blockslide/internal/observability"
	"github.com/annel0/blockslide/internal/storage"
)

func main() {
	configPath := flag.String("config", "", "путь к YAML конфигурации (по умолчанию $BLOCKSLIDE_CONFIG)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Ошибка загрузки конфигурации: %v", err)
	}

	if err := setupLogging(cfg.Logging); err != nil {
		log.Fatalf("❌ Ошибка инициализации логирования: %v", err)
	}
	defer logging.CloseDefaultLogger()
	defer logging.GetLoggerManager().CloseAll()

	logging.Info("🧩 Запуск Blockslide Level Server...")

	if err := run(cfg); err != nil {
		logging.Error("❌ %v", err)
		logging.CloseDefaultLogger()
		os.Exit(1)
	}
	logging.Info("👋 Сервер успешно остановлен")
}

func setupLogging(cfg config.LoggingConfig) error {
	consoleLevel, err := logging.ParseLevel(cfg.ConsoleLevel)
	if err != nil {
		return err
	}
	fileLevel, err := logging.ParseLevel(cfg.FileLevel)
	if err != nil {
		return err
	}

	logging.SetLogDir(cfg.Dir)
	logging.SetConsoleLevel(consoleLevel)
	if err := logging.InitDefaultLogger("server"); err != nil {
		return err
	}
	logging.Default().SetLevels(consoleLevel, fileLevel)
	return nil
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// === ТЕЛЕМЕТРИЯ ===
	shutdownTelemetry := observability.ShutdownFunc(observability.NoopShutdown)
	if cfg.Telemetry.Enabled {
		shutdown, err := observability.InitTelemetry(ctx, cfg.Telemetry.ServiceName)
		if err != nil {
			logging.Warn("⚠️ OpenTelemetry не инициализирован: %v", err)
		} else {
			shutdownTelemetry = shutdown
		}
	}
	defer func() {
		if err := shutdownTelemetry(context.Background()); err != nil {
			logging.Warn("⚠️ Ошибка остановки телеметрии: %v", err)
		}
	}()

	// === ХРАНИЛИЩЕ ===
	repo, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("ошибка открытия хранилища %s: %w", cfg.Storage.Backend, err)
	}
	defer repo.Close()
	logging.Info("💾 Хранилище уровней: %s", cfg.Storage.Backend)

	// === ШИНА СОБЫТИЙ ===
	bus, err := eventbus.Open(cfg.EventBus)
	if err != nil {
		return fmt.Errorf("ошибка создания шины событий %s: %w", cfg.EventBus.Backend, err)
	}
	defer bus.Close()
	if _, err := eventbus.StartLoggingListener(bus, logging.GetEventBusLogger()); err != nil {
		logging.Warn("⚠️ LoggingListener не запущен: %v", err)
	}
	logging.Info("📨 Шина событий: %s", cfg.EventBus.Backend)

	// === МЕТРИКИ ===
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	exporter := eventbus.NewMetricsExporter(bus, reg)
	exporter.Start()
	defer exporter.Stop()

	// === СЕРВИС И REST API ===
	levels, err := app.NewLevelService(app.Deps{
		Repo:      repo,
		Bus:       bus,
		Metrics:   observability.NewGameMetrics(reg),
		Logger:    logging.GetGameLogger(),
		Generator: cfg.Generator,
	})
	if err != nil {
		return err
	}

	restPort := fmt.Sprintf(":%d", cfg.Server.GetRESTPort())
	server, err := api.NewRestServer(api.Config{
		Port:        restPort,
		Levels:      levels,
		Bus:         bus,
		Logger:      logging.GetAPILogger(),
		Registerer:  reg,
		Gatherer:    reg,
		ServiceName: cfg.Telemetry.ServiceName,
	})
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	logging.Info("✅ Все сервисы запущены и готовы принимать соединения")
	logging.Info("   🌐 REST API: http://localhost%s", restPort)
	logging.Info("   ❤️  Health check: http://localhost%s/health", restPort)
	logging.Info("💡 Примеры использования REST API:")
	logging.Info("   curl -X POST http://localhost%s/api/levels -d '{\"number\":1}'", restPort)
	logging.Info("   curl -X POST http://localhost%s/api/levels/<id>/moves -d '{\"block_id\":1}'", restPort)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ошибка REST API: %w", err)
		}
		return nil
	case <-ctx.Done():
		logging.Info("📡 Получен сигнал завершения, останавливаем сервисы...")
	}

	// === GRACEFUL SHUTDOWN ===
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Stop(shutdownCtx); err != nil {
		logging.Error("❌ Ошибка остановки REST API: %v", err)
	}
	return <-errCh
}
