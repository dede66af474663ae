package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alumac/alumac-api/internal/application/inventory"
)

type fakeRedis struct {
	channel string
	payload []byte
	calls   int
	err     error
}

func (f *fakeRedis) Publish(_ context.Context, channel string, message interface{}) *redis.IntCmd {
	f.calls++
	f.channel = channel
	f.payload, _ = message.([]byte)
	return redis.NewIntResult(1, f.err)
}

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	f.msgs = append(f.msgs, msgs...)
	return f.err
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func lowStockEvent() inventory.Event {
	return inventory.Event{
		Type:         inventory.EventLowStock,
		MaterialID:   "mat-1",
		MovementID:   "mov-1",
		StockBefore:  decimal.NewFromInt(12),
		StockAfter:   decimal.NewFromInt(7),
		StockMinimo:  decimal.NewFromInt(10),
		UnidadMedida: "kg",
		OccurredAt:   time.Date(2024, 5, 2, 8, 0, 0, 0, time.UTC),
	}
}

func TestRedisPublisher_SoloStockBajo(t *testing.T) {
	client := &fakeRedis{}
	p := NewRedisPublisher(client, "alumac:stock:bajo")

	evt := lowStockEvent()
	evt.Type = inventory.EventMovementRecorded
	require.NoError(t, p.Publish(context.Background(), evt))
	assert.Equal(t, 0, client.calls)

	require.NoError(t, p.Publish(context.Background(), lowStockEvent()))
	assert.Equal(t, 1, client.calls)
	assert.Equal(t, "alumac:stock:bajo", client.channel)

	var got map[string]any
	require.NoError(t, json.Unmarshal(client.payload, &got))
	assert.Equal(t, "stock.low", got["type"])
	assert.Equal(t, "mat-1", got["materialId"])
	assert.Equal(t, "7", got["stockAfter"])
}

func TestRedisPublisher_Error(t *testing.T) {
	p := NewRedisPublisher(&fakeRedis{err: errors.New("conexión rechazada")}, "c")
	err := p.Publish(context.Background(), lowStockEvent())
	assert.ErrorContains(t, err, "conexión rechazada")
}

func TestKafkaPublisher_ClavePorMaterial(t *testing.T) {
	w := &fakeWriter{}
	p := NewKafkaPublisher(w)

	require.NoError(t, p.Publish(context.Background(), lowStockEvent()))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, []byte("mat-1"), w.msgs[0].Key)
	assert.Equal(t, "event-type", w.msgs[0].Headers[0].Key)
	assert.Equal(t, []byte("stock.low"), w.msgs[0].Headers[0].Value)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaPublisher_Error(t *testing.T) {
	p := NewKafkaPublisher(&fakeWriter{err: errors.New("leader not available")})
	assert.ErrorContains(t, p.Publish(context.Background(), lowStockEvent()), "leader not available")
}
