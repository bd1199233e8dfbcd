// valkey.go provides the Valkey (Redis-compatible) cache backend, for
// deployments where replicas should share one response cache.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// valkeyKeyPrefix namespaces response entries inside Valkey.
const valkeyKeyPrefix = "resp:"

// ConnectValkey creates a Valkey client and verifies the connection with a ping.
func ConnectValkey(host, port, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", host, port),
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("valkey ping: %w", err)
	}

	slog.Info("valkey connected", "addr", fmt.Sprintf("%s:%s", host, port))
	return client, nil
}

// Valkey is a shared cache backend on top of a Valkey client. Entries are
// stored as JSON with Valkey's native TTL handling expiry.
type Valkey struct {
	client *redis.Client
}

// NewValkey creates a Valkey backend over an established client.
func NewValkey(client *redis.Client) *Valkey {
	return &Valkey{client: client}
}

// Get retrieves a cached response. Errors are logged and reported as a miss.
func (v *Valkey) Get(ctx context.Context, key string) (Entry, bool) {
	raw, err := v.client.Get(ctx, valkeyKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return Entry{}, false
	}
	if err != nil {
		slog.Warn("response cache get error", "key", key, "error", err)
		return Entry{}, false
	}

	var e Entry
	if err := json.Unmarshal(raw, &e); err != nil {
		slog.Warn("response cache decode error", "key", key, "error", err)
		return Entry{}, false
	}
	return e, true
}

// Set stores a response with the given TTL.
func (v *Valkey) Set(ctx context.Context, key string, e Entry, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	raw, err := json.Marshal(e)
	if err != nil {
		slog.Warn("response cache encode error", "key", key, "error", err)
		return
	}
	if err := v.client.Set(ctx, valkeyKeyPrefix+key, raw, ttl).Err(); err != nil {
		slog.Warn("response cache set error", "key", key, "error", err)
	}
}

// DeletePrefix removes all entries under a key prefix by scanning.
func (v *Valkey) DeletePrefix(ctx context.Context, prefix string) {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := v.client.Scan(ctx, cursor, valkeyKeyPrefix+prefix+"*", 100).Result()
		if err != nil {
			slog.Warn("response cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := v.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("response cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Debug("response cache invalidated", "prefix", prefix, "deleted", deleted)
	}
}
