package tx

import (
	"context"
	"database/sql"
	"sync"
)

type ctxKey struct{}

var txKey = ctxKey{}

// WithTx stores a SQL transaction in context so that stores invoked further
// down the call chain join the same transaction.
func WithTx(ctx context.Context, tx *sql.Tx) context.Context {
	if tx == nil {
		return ctx
	}
	return context.WithValue(ctx, txKey, tx)
}

// From extracts the SQL transaction from context, if one is riding it.
func From(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(txKey).(*sql.Tx)
	return tx, ok
}

type hooksKey struct{}

var hkKey = hooksKey{}

// Hooks collects callbacks that must wait for the surrounding transaction to
// commit. The transaction owner creates one, rides it on the context next to
// the transaction, and runs it once Commit returns without error.
type Hooks struct {
	mu  sync.Mutex
	fns []func()
}

func (h *Hooks) add(fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.fns = append(h.fns, fn)
}

// Run invokes the registered callbacks in registration order and clears them.
func (h *Hooks) Run() {
	h.mu.Lock()
	fns := h.fns
	h.fns = nil
	h.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// WithHooks attaches a commit hook registry to the context.
func WithHooks(ctx context.Context, h *Hooks) context.Context {
	if h == nil {
		return ctx
	}
	return context.WithValue(ctx, hkKey, h)
}

// OnCommit defers fn until the transaction riding ctx commits. It reports
// false when ctx carries no hook registry; the caller should run fn itself.
func OnCommit(ctx context.Context, fn func()) bool {
	h, ok := ctx.Value(hkKey).(*Hooks)
	if !ok {
		return false
	}
	h.add(fn)
	return true
}
