package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"backoffice/internal/config"
	"backoffice/internal/events"
	"backoffice/internal/mqhandler"
	"backoffice/internal/repository"
	"backoffice/pkg/db"
	"backoffice/pkg/logger"
	"backoffice/pkg/mq"
	redisclient "backoffice/pkg/redis"
	"backoffice/pkg/util"
)

const dedupTTL = 24 * time.Hour

func main() {
	cfg := config.Load()

	log := logger.NewLogger()
	defer log.Sync()

	log.Info("Starting backoffice worker...",
		zap.String("db_host", cfg.DB.Host),
		zap.String("mq_url", cfg.MQ.URL),
	)

	dbConn, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("Failed to init DB", zap.Error(err))
	}
	defer dbConn.Close()

	rdb := redisclient.NewClient(cfg.Redis)
	defer rdb.Close()

	auditRepo := repository.NewAuditRepository(dbConn, log)
	deduper := util.NewDeduper(rdb, dedupTTL, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	routingKeys := []string{
		events.IssueCreated,
		events.IssueCompleted,
		events.IssueDeleted,
		events.UserCreated,
		events.UserDeleted,
	}

	consumers := make([]*mq.Consumer, 0, len(routingKeys))
	for _, key := range routingKeys {
		queue := key + ".audit.q"
		consumer, err := mq.NewConsumer(cfg.MQ.URL, queue, key, log)
		if err != nil {
			log.Fatal("Failed to init consumer",
				zap.String("routing_key", key),
				zap.Error(err),
			)
		}
		defer consumer.Close()

		auditHandler := mqhandler.NewAuditHandler(key, auditRepo, deduper, log)
		consumer.SetHandler(auditHandler.Handle)
		consumers = append(consumers, consumer)

		go func(c *mq.Consumer, key string) {
			if err := c.StartConsuming(ctx); err != nil && ctx.Err() == nil {
				log.Fatal("Consumer failed",
					zap.String("routing_key", key),
					zap.Error(err),
				)
			}
		}(consumer, key)

		log.Info("Consumer started", zap.String("routing_key", key))
	}

	<-ctx.Done()
	log.Info("Shutting down worker...")
}
