package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	redis "github.com/go-redis/redis/v8"
)

// Config is the redis configuration
type Config struct {
	Addr     string
	Password string
	Db       int
}

var ctx = context.Background()

// RedisSink implements the Sink interface on top of redis pub/sub. Each
// user has their own channel; whatever pushes events to clients subscribes
// to the channels of its connected users.
type RedisSink struct {
	config Config
}

// NewRedisSink creates an instance of RedisSink
func NewRedisSink(config Config) Sink {
	return RedisSink{config: config}
}

// connect returns a Redis client
func (r RedisSink) connect() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     r.config.Addr,
		Password: r.config.Password,
		DB:       r.config.Db,
	})
}

// channel makes a channel name from a userID
func (r RedisSink) channel(userID string) string {
	return fmt.Sprintf("notifications:%s", userID)
}

// Notify publishes the message to the user's channel. Failures are logged
// and swallowed; notification is best-effort.
func (r RedisSink) Notify(userID string, msg Message) {
	rdb := r.connect()
	defer rdb.Close()

	payload, err := json.Marshal(msg)
	if err != nil {
		slog.Error("Failed to encode notification", "user_id", userID, "error", err)
		return
	}

	if err := rdb.Publish(ctx, r.channel(userID), payload).Err(); err != nil {
		slog.Error("Failed to publish notification", "user_id", userID, "error", err)
	}
}
