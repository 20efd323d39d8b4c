// Package changes turns store mutations into messages.RecordChanged on the change stream.
// Publishing is best effort: the mutation has already been persisted when it runs.
package changes

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/BearBump/trackbook/internal/broker/messages"
)

type Producer interface {
	Publish(ctx context.Context, topic string, key, value []byte) error
}

type Publisher struct {
	producer Producer
	topic    string
	attempts int
	backoff  time.Duration
	now      func() time.Time
}

func NewPublisher(producer Producer, topic string) *Publisher {
	return &Publisher{
		producer: producer,
		topic:    topic,
		attempts: 3,
		backoff:  150 * time.Millisecond,
		now:      time.Now,
	}
}

// RecordChanged publishes one change keyed by record id. Errors are logged, not returned.
func (p *Publisher) RecordChanged(ctx context.Context, kind, action, id string, record any) {
	if p == nil || p.producer == nil {
		return
	}

	msg := messages.RecordChanged{
		Kind:     kind,
		Action:   action,
		RecordID: id,
		At:       p.now().UTC(),
	}
	if record != nil {
		b, err := json.Marshal(record)
		if err != nil {
			slog.Error("marshal changed record", "kind", kind, "id", id, "error", err.Error())
			return
		}
		msg.Record = b
	}

	b, err := json.Marshal(msg)
	if err != nil {
		slog.Error("marshal record change", "kind", kind, "id", id, "error", err.Error())
		return
	}

	var pubErr error
	for i := 0; i < p.attempts; i++ {
		if pubErr = p.producer.Publish(ctx, p.topic, []byte(id), b); pubErr == nil {
			return
		}
		if ctx.Err() != nil {
			break
		}
		time.Sleep(time.Duration(i+1) * p.backoff)
	}
	slog.Error("publish record change", "kind", kind, "action", action, "id", id, "error", pubErr.Error())
}
