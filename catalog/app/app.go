package app

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-catalog/catalog/config"
	"github.com/Astemirdum/library-catalog/catalog/internal/admin"
	"github.com/Astemirdum/library-catalog/catalog/internal/events"
	"github.com/Astemirdum/library-catalog/catalog/internal/handler"
	"github.com/Astemirdum/library-catalog/catalog/internal/repository"
	"github.com/Astemirdum/library-catalog/catalog/internal/repository/stubs"
	"github.com/Astemirdum/library-catalog/catalog/internal/server"
	"github.com/Astemirdum/library-catalog/catalog/internal/service"
	"github.com/Astemirdum/library-catalog/catalog/migrations"
	"github.com/Astemirdum/library-catalog/pkg/kafka"
	"github.com/Astemirdum/library-catalog/pkg/logger"
	"github.com/Astemirdum/library-catalog/pkg/postgres"
)

func Run(cfg *config.Config) {
	log := logger.NewLogger(cfg.Log, "catalog")
	defer log.Sync() //nolint:errcheck

	var (
		repo repository.Repository
		db   *pgxpool.Pool
		err  error
	)
	if cfg.InMemory {
		log.Warn("using in-memory repository, data is lost on exit")
		repo = stubs.NewMemoryDB()
	} else {
		db, err = postgres.NewPostgresDB(context.Background(), &cfg.Database, migrations.MigrationFiles)
		if err != nil {
			log.Fatal("db init", zap.Error(err))
		}
		repo, err = repository.NewRepository(db, log)
		if err != nil {
			log.Fatal("repo", zap.Error(err))
		}
	}

	publisher := events.NewNoopPublisher()
	if cfg.Kafka.Enabled() {
		producer, err := kafka.NewProducer(cfg.Kafka)
		if err != nil {
			log.Fatal("kafka.NewProducer", zap.Error(err))
		}
		kp := events.NewKafkaPublisher(producer, kafka.CatalogInstancesTopic, log)
		defer func() {
			if err := kp.Close(); err != nil {
				log.Warn("producer close", zap.Error(err))
			}
		}()
		publisher = kp
	}
	svc := service.NewService(repo, publisher, log)

	site, err := admin.DefaultSite()
	if err != nil {
		log.Fatal("admin site", zap.Error(err))
	}
	h := handler.New(svc, admin.NewScreens(site, svc, log), log)

	srv := server.NewServer(cfg.Server, h.NewRouter())
	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))
	go func() {
		if err := srv.Run(); err != nil {
			log.Error("server run", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	termSig := <-sig

	log.Debug("Graceful shutdown", zap.Any("signal", termSig))

	closeCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err = srv.Stop(closeCtx); err != nil {
		log.DPanic("srv.Stop", zap.Error(err))
	}
	if db != nil {
		db.Close()
	}
	log.Info("Graceful shutdown finished")
}
