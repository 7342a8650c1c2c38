package app

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/gearstock/console/config"
	"github.com/gearstock/console/internal/handler"
	"github.com/gearstock/console/internal/server"
	"github.com/gearstock/console/pkg/kafka"
	"github.com/gearstock/console/pkg/logger"
)

func Run(cfg config.Config) error {
	log := logger.NewLogger(cfg.Log, "console")

	// without a broker the console still runs; failed returns are just not
	// parked for retry
	var producer sarama.SyncProducer
	if cfg.Kafka.Enabled {
		p, err := kafka.NewProducer(cfg.Kafka)
		if err != nil {
			log.DPanic("kafka", zap.Error(err))
			return err
		}
		defer p.Close()
		producer = p
	}

	h := handler.New(log, cfg, producer)

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

	closeCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err := srv.Stop(closeCtx); err != nil {
		log.Error("srv.Stop", zap.Error(err))
	}

	log.Info("Graceful shutdown finished")
	return nil
}
