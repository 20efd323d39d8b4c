package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/BearBump/trackbook/internal/broker/kafka"
	"github.com/BearBump/trackbook/internal/broker/messages"
)

type kafkaConsumer interface {
	Consume(ctx context.Context, handler kafka.Handler) error
}

type auditOpts struct {
	topic string
	group string
}

// auditLog пишет каждое изменение в лог и считает их по kind/action.
type auditLog struct {
	mu     sync.Mutex
	counts map[string]int
	bad    int
}

func newAuditLog() *auditLog {
	return &auditLog{counts: make(map[string]int)}
}

// Handle never fails on a malformed payload: such a message is logged and committed,
// otherwise one bad record would block the partition forever.
func (l *auditLog) Handle(key, value []byte) error {
	var m messages.RecordChanged
	if err := json.Unmarshal(value, &m); err != nil {
		l.mu.Lock()
		l.bad++
		l.mu.Unlock()
		slog.Warn("skip malformed record change", "key", string(key), "error", err.Error())
		return nil
	}

	l.mu.Lock()
	l.counts[m.Kind+"."+m.Action]++
	total := l.counts[m.Kind+"."+m.Action]
	l.mu.Unlock()

	slog.Info("record changed",
		"kind", m.Kind,
		"action", m.Action,
		"id", m.RecordID,
		"at", m.At,
		"total", total)
	return nil
}

func (l *auditLog) Counts() (map[string]int, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[string]int, len(l.counts))
	for k, v := range l.counts {
		out[k] = v
	}
	return out, l.bad
}

func runAudit(ctx context.Context, opts auditOpts, consumer kafkaConsumer, l *auditLog) error {
	slog.Info("kafka consumer started", "topic", opts.topic, "group", opts.group)
	err := consumer.Consume(ctx, l.Handle)
	counts, bad := l.Counts()
	slog.Info("kafka consumer stopped", "counts", counts, "malformed", bad)
	return err
}
