// Command matchingengine hosts a single-instrument price-time-priority
// order book: it wires the Kafka order-intake and match-publishing
// transports around the in-process matching core and runs until signaled
// to stop.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/darcyg/PyXchange/internal/engine"
	"github.com/darcyg/PyXchange/internal/transport/matchpublisher"
	"github.com/darcyg/PyXchange/internal/transport/orderreader"
	"github.com/darcyg/PyXchange/pkg/config"
	"github.com/darcyg/PyXchange/pkg/logger"
)

var cfg *config.Config
var log *logger.Logger

func init() {
	cfg = &config.Config{}
	if err := config.Load(cfg); err != nil {
		panic(err)
	}

	l, err := logger.NewLogger(logger.WithLoggingLevel(logger.Level(cfg.LogLevel)))
	if err != nil {
		panic(err)
	}
	log = l
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	matcher := engine.NewMatcher(log)

	publisher := matchpublisher.NewPublisher(cfg.MatchPublisher, log)
	matcher.AddClient(engine.NewClient("match-publisher", publisher))

	reader := orderreader.NewReader(cfg.OrderReader, log)

	readerDone := make(chan error, 1)
	go func() {
		readerDone <- reader.Run(ctx, matcher)
	}()

	log.Info("matching engine started", logger.Field{Key: "pair", Value: cfg.Pair})

	select {
	case sig := <-sigChan:
		log.Info("received shutdown signal", logger.Field{Key: "signal", Value: sig.String()})
		cancel()
	case err := <-readerDone:
		if err != nil {
			log.Error(err, logger.Field{Key: "action", Value: "order_reader"})
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := reader.Close(); err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "close_order_reader"})
	}
	if err := publisher.Close(); err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "close_match_publisher"})
	}

	select {
	case <-readerDone:
	case <-shutdownCtx.Done():
	}

	log.Info("matching engine shutdown complete")
}
