package storage

import "fmt"

// NewSeenStore builds the configured backend for one stream ("poller",
// "webhook"). Streams never see each other's IDs.
func NewSeenStore(config Config, stream string) (SeenStore, error) {
	switch config.Backend {
	case "", BackendMemory:
		return NewMemoryStore(config.TTL), nil
	case BackendRedis:
		store, err := NewRedisStore(config.Redis, stream, config.TTL)
		if err != nil {
			return nil, err
		}
		return store, nil
	case BackendSQLite:
		store, err := NewSQLiteStore(config.SQLite, stream, config.TTL)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", config.Backend)
	}
}
