package store

import (
	"context"

	"github.com/go-redis/redis/v8"
)

const busChannel = "tcs:store:changed"

// RedisBus broadcasts the refresh signal over Redis pub/sub so that every
// running portal process sees writes made by the others. Delivery is
// best-effort, the same as the in-process bus.
type RedisBus struct {
	Client *redis.Client
}

func NewRedisBus(client *redis.Client) *RedisBus {
	return &RedisBus{Client: client}
}

func (b *RedisBus) Publish(key string) {
	_ = b.Client.Publish(context.Background(), busChannel, key).Err()
}

func (b *RedisBus) Subscribe() (<-chan string, func()) {
	sub := b.Client.Subscribe(context.Background(), busChannel)
	out := make(chan string, 16)
	go func() {
		defer close(out)
		for msg := range sub.Channel() {
			select {
			case out <- msg.Payload:
			default:
			}
		}
	}()
	cancel := func() { _ = sub.Close() }
	return out, cancel
}
