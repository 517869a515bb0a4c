package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	kafkaGo "github.com/segmentio/kafka-go"

	"github.com/wesleysambacht/booking/config"
	"github.com/wesleysambacht/booking/internal/email"
	"github.com/wesleysambacht/booking/internal/kafka"
	"github.com/wesleysambacht/booking/internal/logger"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	log := logger.New(logger.LevelInfo, os.Stderr)

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatal("load config: %v", err)
	}
	if level, err := logger.ParseLevel(cfg.Logs.Level); err == nil {
		log.SetLevel(level)
	}
	if len(cfg.Kafka.Brokers) == 0 || cfg.Kafka.NotificationsTopic == "" {
		log.Fatal("worker needs kafka.brokers and kafka.notifications_topic")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID+"-notifications", cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	sender := email.NewSender(log)

	log.Info("worker consuming %s", cfg.Kafka.NotificationsTopic)
	err = consumer.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
		var n kafka.BookingNotification
		if err := json.Unmarshal(msg.Value, &n); err != nil {
			log.Warn("decode notification at offset %d: %v", msg.Offset, err)
			return nil
		}
		if err := sender.Send(ctx, n); err != nil {
			log.Warn("send confirmation for booking %s: %v", n.BookingID, err)
		}
		return nil
	})
	if err != nil && ctx.Err() == nil {
		log.Error("consumer stopped: %v", err)
	}
	log.Info("worker stopped")
}
