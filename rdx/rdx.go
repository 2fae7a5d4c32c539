package rdx

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"
)

// Connect builds a redis client for the given address. Callers hold the
// returned client; nothing in this package keeps a global connection.
func Connect(ctx context.Context, addr string) *redis.Client {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("rdx: redis ping failed for %s: %v", addr, err)
	}
	return client
}
