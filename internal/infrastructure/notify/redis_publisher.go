package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/alumac/alumac-api/internal/application/inventory"
)

// redisClient subconjunto de *redis.Client que usa el publicador.
type redisClient interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisPublisher publica las alertas de stock bajo en un canal pub/sub.
// Los demás eventos se ignoran: su destino es el stream de Kafka.
type RedisPublisher struct {
	client  redisClient
	channel string
}

// NewRedisClient abre y verifica la conexión a Redis a partir de una URL redis://.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// NewRedisPublisher construye el publicador sobre un cliente ya conectado.
func NewRedisPublisher(client redisClient, channel string) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel}
}

func (p *RedisPublisher) Name() string { return "redis" }

// Publish envía el evento serializado en JSON al canal configurado.
func (p *RedisPublisher) Publish(ctx context.Context, evt inventory.Event) error {
	if evt.Type != inventory.EventLowStock {
		return nil
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("serializar evento: %w", err)
	}
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("redis publish %s: %w", p.channel, err)
	}
	return nil
}
