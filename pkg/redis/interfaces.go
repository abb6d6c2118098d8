package redis

import "context"

// Client represents a Redis client interface for testing and abstraction.
// The agent only reads: scene snapshots and entity states are written by
// the collector side of the deployment.
type Client interface {
	// Get gets the value of a key
	Get(ctx context.Context, key string) (string, error)

	// Exists returns whether a key exists
	Exists(ctx context.Context, key string) (bool, error)

	// Ping checks the connection to Redis
	Ping(ctx context.Context) error

	// Close closes the Redis connection
	Close() error
}
