package ctxutil

import (
	"context"
	"time"
)

// private keys to avoid collisions
type key int

const (
	keyAccountID key = iota
	keyAccountRole
	keyOpName
)

// WithAccountID / AccountID: authenticated account id, for logs and audit columns.
func WithAccountID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, keyAccountID, id)
}

func AccountID(ctx context.Context) (int64, bool) {
	v := ctx.Value(keyAccountID)
	if v == nil {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

// WithAccountRole / AccountRole: role string from the auth token.
func WithAccountRole(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, keyAccountRole, role)
}

func AccountRole(ctx context.Context) (string, bool) {
	v := ctx.Value(keyAccountRole)
	if v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// WithOp / Op: operation name (for logs/trace).
func WithOp(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, keyOpName, name)
}

func Op(ctx context.Context) (string, bool) {
	v := ctx.Value(keyOpName)
	if v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

var (
	DefaultDBTimeout = 5 * time.Second
)

// WithTimeout wraps context.WithTimeout and tolerates d<=0.
func WithTimeout(parent context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, d)
}

// WithDBTimeout applies the standard timeout for DB calls; if the parent deadline is
// closer than DefaultDBTimeout, keep the remainder instead.
func WithDBTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	if dl, ok := parent.Deadline(); ok {
		remain := time.Until(dl)
		if remain < DefaultDBTimeout {
			return context.WithTimeout(parent, remain)
		}
	}
	return context.WithTimeout(parent, DefaultDBTimeout)
}
