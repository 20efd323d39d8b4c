package main

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/BearBump/trackbook/internal/broker/kafka"
	"github.com/BearBump/trackbook/internal/broker/messages"
	"github.com/stretchr/testify/require"
)

type fakeConsumer struct {
	msgs [][]byte
}

func (c fakeConsumer) Consume(ctx context.Context, handler kafka.Handler) error {
	for _, m := range c.msgs {
		if err := handler([]byte("k"), m); err != nil {
			return err
		}
	}
	<-ctx.Done()
	return ctx.Err()
}

func change(t *testing.T, kind, action, id string) []byte {
	b, err := json.Marshal(messages.RecordChanged{
		Kind: kind, Action: action, RecordID: id, At: time.Now(),
		Record: json.RawMessage(`{"id":"` + id + `"}`),
	})
	require.NoError(t, err)
	return b
}

func TestRunAudit(t *testing.T) {
	l := newAuditLog()
	cons := fakeConsumer{msgs: [][]byte{
		change(t, "shipment", messages.ActionAdded, "1"),
		change(t, "shipment", messages.ActionAdded, "2"),
		[]byte("{oops"),
		change(t, "contact", messages.ActionCalled, "c1"),
		change(t, "shipment", messages.ActionRemoved, "1"),
	}}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- runAudit(ctx, auditOpts{topic: "t", group: "g"}, cons, l) }()

	require.Eventually(t, func() bool {
		counts, _ := l.Counts()
		return counts["shipment.removed"] == 1
	}, time.Second, 10*time.Millisecond)
	cancel()
	require.ErrorIs(t, <-errCh, context.Canceled)

	counts, bad := l.Counts()
	require.Equal(t, map[string]int{
		"shipment.added":   2,
		"shipment.removed": 1,
		"contact.called":   1,
	}, counts)
	require.Equal(t, 1, bad)
}
