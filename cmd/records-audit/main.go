package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/BearBump/trackbook/config"
	"github.com/BearBump/trackbook/internal/broker/kafka"
)

func main() {
	cfg, err := config.LoadConfig(os.Getenv("configPath"))
	if err != nil {
		panic(fmt.Sprintf("ошибка парсинга конфига, %v", err))
	}

	topic := cfg.Kafka.RecordsChangedTopicName
	if topic == "" {
		topic = "records.changed"
	}
	group := cfg.Trackbook.AuditConsumerGroup
	if group == "" {
		group = "records-audit"
	}

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers(), topic, group)
	defer func() { _ = consumer.Close() }()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := runAudit(ctx, auditOpts{topic: topic, group: group}, consumer, newAuditLog()); err != nil && !errors.Is(err, context.Canceled) {
		panic(err)
	}
}
