package core

import (
	"context"
)

// DefaultBufferSize is the default buffer size for internal channels. A
// small buffer reduces goroutine synchronization overhead without
// consuming excessive memory.
const DefaultBufferSize = 64

// StageConfig holds configuration options for stage construction.
type StageConfig struct {
	BufferSize int
}

// StageOption is a functional option for configuring stages.
type StageOption func(*StageConfig)

// WithBufferSize sets the buffer size for a stage's output channel. Use
// 0 for unbuffered (fully synchronous hand-off).
func WithBufferSize(size int) StageOption {
	return func(c *StageConfig) {
		c.BufferSize = size
	}
}

// ApplyOptions resolves functional options against the defaults.
func ApplyOptions(opts ...StageOption) StageConfig {
	cfg := StageConfig{BufferSize: DefaultBufferSize}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// configKey is a typed context key; each config type gets its own key.
type configKey[C any] struct{}

// WithConfig attaches a configuration value to the context, keyed by its
// type. A later call with the same type overrides an earlier one.
func WithConfig[C any](ctx context.Context, cfg C) context.Context {
	return context.WithValue(ctx, configKey[C]{}, cfg)
}

// ConfigFrom retrieves a configuration of type C from the context.
func ConfigFrom[C any](ctx context.Context) (C, bool) {
	if cfg, ok := ctx.Value(configKey[C]{}).(C); ok {
		return cfg, true
	}
	return *new(C), false
}
