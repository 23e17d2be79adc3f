package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	amqp "github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	exchange, key string
	msgs          []amqp.Publishing
	err           error
}

func (f *fakeChannel) Publish(exchange, key string, _, _ bool, msg amqp.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.exchange, f.key = exchange, key
	f.msgs = append(f.msgs, msg)
	return nil
}

func TestAlertPublisher_Send(t *testing.T) {
	ch := &fakeChannel{}
	p := newAlertPublisher(ch, "alertas_stock", nil)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return fixed }

	require.NoError(t, p.Send(context.Background(), "🚨 Sin stock"))
	require.Len(t, ch.msgs, 1)
	msg := ch.msgs[0]

	assert.Equal(t, "", ch.exchange)
	assert.Equal(t, "alertas_stock", ch.key)
	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	_, err := uuid.Parse(msg.MessageId)
	assert.NoError(t, err)

	var body AlertMessage
	require.NoError(t, json.Unmarshal(msg.Body, &body))
	assert.Equal(t, "🚨 Sin stock", body.Mensaje)
	assert.True(t, fixed.Equal(body.Fecha))
}

func TestAlertPublisher_Errors(t *testing.T) {
	ch := &fakeChannel{err: errors.New("channel closed")}
	p := newAlertPublisher(ch, "alertas_stock", nil)

	err := p.Send(context.Background(), "x")
	assert.ErrorContains(t, err, "channel closed")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, p.Send(ctx, "x"), context.Canceled)
}
