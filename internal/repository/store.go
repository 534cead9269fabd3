package repository

import "context"

// Store is the durable backend shared by every core component
type Store interface {
	Ledger
	Collection
	Ranking
	BeginTx(ctx context.Context) (Tx, error)
	Ping(ctx context.Context) error
	Close()
}
