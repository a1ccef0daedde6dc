package types

import "context"

// Transactor runs fn inside a storage transaction. Repository calls made with
// the ctx passed to fn join that transaction.
type Transactor interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// NoopTransactor runs fn directly, for backends without transactions
type NoopTransactor struct{}

func (NoopTransactor) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
