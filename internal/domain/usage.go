package domain

import (
	"context"
	"sync/atomic"
)

type usageKey struct{}

// Usage collects AI token usage for a single request.
// The handler puts a mutable pointer into the context before calling the
// service; embedding and chat call sites add to it; the handler reads it
// back for the response payload. Classification and embedding run
// concurrently, so the collector must tolerate writers from several
// goroutines.
type Usage struct {
	totalTokens atomic.Int64
	used        atomic.Bool
}

// NewContextWithUsage returns a context with an embedded usage collector.
func NewContextWithUsage(ctx context.Context) (context.Context, *Usage) {
	u := &Usage{}
	return context.WithValue(ctx, usageKey{}, u), u
}

// UsageFromContext extracts the usage collector from context. Returns nil if not set.
func UsageFromContext(ctx context.Context) *Usage {
	u, _ := ctx.Value(usageKey{}).(*Usage)
	return u
}

// AddTokens records consumed tokens. Safe for concurrent use.
func (u *Usage) AddTokens(n int) {
	if u != nil {
		u.totalTokens.Add(int64(n))
		u.used.Store(true)
	}
}

// TotalTokens returns the tokens recorded so far.
func (u *Usage) TotalTokens() int {
	if u == nil {
		return 0
	}
	return int(u.totalTokens.Load())
}

// Used reports whether any provider was called, even on a cache hit
// with zero tokens.
func (u *Usage) Used() bool {
	if u == nil {
		return false
	}
	return u.used.Load()
}
