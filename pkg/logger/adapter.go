package logger

import (
	"context"

	"go.uber.org/zap"
)

// RedisLogger routes go-redis internal logging (reconnects, pool errors)
// through zap. Register it with redis.SetLogger.
type RedisLogger struct{}

func NewRedisLogger() *RedisLogger {
	return &RedisLogger{}
}

// Printf satisfies go-redis' internal.Logging interface.
func (r *RedisLogger) Printf(_ context.Context, format string, v ...interface{}) {
	if Sugar != nil {
		Sugar.WithOptions(zap.AddCallerSkip(1)).Named("redis").Warnf(format, v...)
	}
}
