package app

import (
	"context"
	stdLog "log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Astemirdum/lending-service/lending/config"
	"github.com/Astemirdum/lending-service/lending/internal/events"
	"github.com/Astemirdum/lending-service/lending/internal/handler"
	"github.com/Astemirdum/lending-service/lending/internal/payment"
	"github.com/Astemirdum/lending-service/lending/internal/repository"
	"github.com/Astemirdum/lending-service/lending/internal/server"
	"github.com/Astemirdum/lending-service/lending/internal/service"
	"github.com/Astemirdum/lending-service/lending/migrations"
	"github.com/Astemirdum/lending-service/pkg/kafka"
	"github.com/Astemirdum/lending-service/pkg/logger"
	"github.com/Astemirdum/lending-service/pkg/postgres"
)

func Run(cfg *config.Config) {
	log, err := logger.NewLogger(cfg.Log, "lending")
	if err != nil {
		stdLog.Fatal("logger init ", err)
	}
	defer log.Sync() //nolint:errcheck

	db, err := postgres.NewPostgresDB(context.Background(), &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		log.Fatal("db init", zap.Error(err))
	}
	repo, err := repository.NewRepository(db, log)
	if err != nil {
		log.Fatal("repo", zap.Error(err))
	}

	var gateway payment.Gateway = payment.NewSimulatedGateway()
	if !cfg.Payment.Simulated {
		gateway = payment.NewHTTPGateway(cfg.Payment, log)
	}

	publisher := events.NewNopPublisher()
	var closeProducer func() error
	if cfg.Kafka.Enabled() {
		producer, err := kafka.NewProducer(cfg.Kafka)
		if err != nil {
			log.Fatal("kafka.NewProducer", zap.Error(err))
		}
		publisher = events.NewKafkaPublisher(producer, cfg.Kafka.Topic, log)
		closeProducer = producer.Close
	} else {
		log.Info("no kafka brokers configured, lending events are not published")
	}

	opts := []service.Option{service.WithLegacyLimitCheck(cfg.LegacyLimitCheck)}
	svc := service.NewService(repo, gateway, publisher, log, opts...)
	status := service.NewStatusReporter(repo, log, opts...)

	h := handler.New(svc, status, log, cfg.Server.RPS)
	srv := server.NewServer(cfg.Server, h.NewRouter())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("http server start ON: ",
			zap.String("addr",
				net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))
		return srv.Run()
	})
	g.Go(func() error {
		<-gCtx.Done()
		log.Debug("Graceful shutdown", zap.NamedError("cause", context.Cause(gCtx)))

		closeCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		defer cancel()
		return srv.Stop(closeCtx)
	})
	if err := g.Wait(); err != nil {
		log.Error("server", zap.Error(err))
	}

	if closeProducer != nil {
		if err := closeProducer(); err != nil {
			log.Warn("producer close", zap.Error(err))
		}
	}
	db.Close()
	log.Info("Graceful shutdown finished")
}
