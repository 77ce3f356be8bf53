// Package context provides functionality to clone an existing context and to
// carry the request id across goroutines.
package context

import (
	"context"
	"time"
)

type requestIDKey struct{}

type DetachedContext struct {
	parent context.Context
}

// Detach is to create a clone of the existing context. This new context does not cancel when the parent context cancels.
func Detach(ctx context.Context) context.Context {
	return DetachedContext{ctx}
}

// Deadline returns the time when work done on behalf of this context should be completed.
func (d DetachedContext) Deadline() (deadline time.Time, ok bool) {
	return time.Time{}, false
}

// Done returns a channel that's closed when work done on behalf of this context should be cancelled.
func (d DetachedContext) Done() <-chan struct{} {
	return nil
}

func (d DetachedContext) Err() error {
	return nil
}

func (d DetachedContext) Value(key any) any {
	return d.parent.Value(key)
}

// WithRequestID stores the id of the inbound request.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the id stored by WithRequestID or "".
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
